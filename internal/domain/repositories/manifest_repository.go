package repositories

import (
	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// ManifestRepository reads and patches the manifest format of one ecosystem.
type ManifestRepository interface {
	entities.LinePatcher

	// Source returns the registry family declared by these manifests.
	Source() entities.Source

	// Find returns the manifest files at root, which may be a file or a directory.
	Find(root string) ([]string, error)

	// Read parses the dependencies declared in the manifest at path.
	Read(path string) (*entities.Project, error)
}
