package controllers

// LoadSettings exports loadSettings for testing.
var LoadSettings = loadSettings //nolint:gochecknoglobals // test export

// AddSelectionFlags exports addSelectionFlags for testing.
var AddSelectionFlags = addSelectionFlags //nolint:gochecknoglobals // test export
