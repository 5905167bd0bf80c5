package npm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// declaration is one dependency entry of a package.json, in file order.
type declaration struct {
	Name    string
	Version string
	Dev     bool
}

func decodeDocument(body []byte) (*registryDocument, error) {
	var doc registryDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse npm registry response: %w", err)
	}
	return &doc, nil
}

// readDeclarations streams a package.json and returns the entries of
// "dependencies" and "devDependencies" in the order they are written.
func readDeclarations(data []byte) ([]declaration, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(decoder, '{'); err != nil {
		return nil, err
	}

	var declarations []declaration
	for decoder.More() {
		key, err := readKey(decoder)
		if err != nil {
			return nil, err
		}
		switch key {
		case "dependencies", "devDependencies":
			section, sectionErr := readSection(decoder, key == "devDependencies")
			if sectionErr != nil {
				return nil, fmt.Errorf("invalid %q section: %w", key, sectionErr)
			}
			declarations = append(declarations, section...)
		default:
			var skip json.RawMessage
			if skipErr := decoder.Decode(&skip); skipErr != nil {
				return nil, skipErr
			}
		}
	}
	return declarations, nil
}

func readSection(decoder *json.Decoder, dev bool) ([]declaration, error) {
	if err := expectDelim(decoder, '{'); err != nil {
		return nil, err
	}
	var section []declaration
	for decoder.More() {
		name, err := readKey(decoder)
		if err != nil {
			return nil, err
		}
		var version string
		if decodeErr := decoder.Decode(&version); decodeErr != nil {
			return nil, fmt.Errorf("version of %q: %w", name, decodeErr)
		}
		section = append(section, declaration{Name: name, Version: version, Dev: dev})
	}
	return section, expectDelim(decoder, '}')
}

func readKey(decoder *json.Decoder) (string, error) {
	token, err := decoder.Token()
	if err != nil {
		return "", err
	}
	key, ok := token.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", token)
	}
	return key, nil
}

func expectDelim(decoder *json.Decoder, want json.Delim) error {
	token, err := decoder.Token()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected end of document, expected %q", want)
	}
	if err != nil {
		return err
	}
	if delim, ok := token.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, token)
	}
	return nil
}
