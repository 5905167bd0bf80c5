package entities

import (
	"errors"
	"sort"
)

// ErrManifestNotFound is returned when a manifest file cannot be read.
var ErrManifestNotFound = errors.New("manifest not found")

// Project groups the dependencies declared in one manifest file.
type Project struct {
	Name         string
	FilePath     string
	Source       Source
	Dependencies []*Dependency
}

// IsValid reports whether the project has a name, a file and at least one dependency.
func (it *Project) IsValid() bool {
	return it.Name != "" && it.FilePath != "" && len(it.Dependencies) > 0
}

// AssignProjectName sets the back-reference on every dependency.
func (it *Project) AssignProjectName() {
	for _, dep := range it.Dependencies {
		dep.SetProjectName(it.Name)
	}
}

// SortedDependencies returns the dependencies in declaration order.
func (it *Project) SortedDependencies() []*Dependency {
	sorted := make([]*Dependency, len(it.Dependencies))
	copy(sorted, it.Dependencies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// Filter keeps the dependencies matching include (all when empty) and not matching ignore.
func (it *Project) Filter(include, ignore []string) {
	kept := it.Dependencies[:0]
	for _, dep := range it.Dependencies {
		if len(include) > 0 && !dep.Matches(include) {
			continue
		}
		if dep.Matches(ignore) {
			continue
		}
		kept = append(kept, dep)
	}
	it.Dependencies = kept
}
