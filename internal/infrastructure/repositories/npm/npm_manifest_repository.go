package npm

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
)

const manifestFileName = "package.json"

// ManifestRepository reads and patches package.json files.
type ManifestRepository struct{}

// NewManifestRepository creates a package.json reader.
func NewManifestRepository() *ManifestRepository {
	return &ManifestRepository{}
}

var _ repositories.ManifestRepository = (*ManifestRepository)(nil)

func (it *ManifestRepository) Source() entities.Source { return entities.SourceNpm }

// Find returns root itself when it is a package.json file, otherwise every package.json below it,
// skipping node_modules and hidden directories.
func (it *ManifestRepository) Find(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrManifestNotFound, err)
	}
	if !info.IsDir() {
		if filepath.Base(root) != manifestFileName {
			return nil, nil
		}
		return []string{root}, nil
	}

	var found []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (d.Name() == "node_modules" || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == manifestFileName {
			found = append(found, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", root, walkErr)
	}
	return found, nil
}

// Read parses dependencies and devDependencies, numbered in file order.
// The project is named after the directory holding the file.
func (it *ManifestRepository) Read(path string) (*entities.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrManifestNotFound, err)
	}

	declarations, err := readDeclarations(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}

	project := &entities.Project{
		Name:     projectName(path),
		FilePath: path,
		Source:   entities.SourceNpm,
	}
	for i, decl := range declarations {
		dep := entities.NewDependency(decl.Name, decl.Version, i, entities.SourceNpm)
		dep.DevDependency = decl.Dev
		project.Dependencies = append(project.Dependencies, dep)
	}
	return project, nil
}

// PatchLine swaps the version of the `"name": "<glyphs><version>"` pair, keeping
// the glyphs and everything around them. Other pairs on the same line are left alone.
func (it *ManifestRepository) PatchLine(line, name string, target *entities.Version) (string, error) {
	quoted := `"` + name + `"`
	if !strings.Contains(line, quoted) {
		return "", fmt.Errorf("line does not declare %q", name)
	}
	loc := declarationPattern(name).FindStringSubmatchIndex(line)
	if loc == nil {
		return "", errors.New("no version token found on line")
	}
	start, end := loc[4], loc[5]
	return line[:start] + target.Raw + line[end:], nil
}

// declarationPattern matches the value of name's pair: the range glyphs and the version.
func declarationPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`"` + regexp.QuoteMeta(name) + `"\s*:\s*"([~^>=<]*)(\d+\.\d+\.\d+(?:[.-]\w+)*)`)
}

func projectName(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return filepath.Base(filepath.Dir(abs))
}
