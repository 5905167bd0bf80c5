package nuget

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
)

const (
	projectExtension = ".csproj"
	propsSuffix      = ".packages.props"
)

// declarationPattern captures name and version of a PackageReference or PackageVersion.
var declarationPattern = regexp.MustCompile(`<Package(?:Reference|Version)\s+Include="([^"]+)"\s+Version="([^"]+)"`)

// ManifestRepository reads and patches .csproj and central Packages.props files.
type ManifestRepository struct{}

// NewManifestRepository creates a NuGet manifest reader.
func NewManifestRepository() *ManifestRepository {
	return &ManifestRepository{}
}

var _ repositories.ManifestRepository = (*ManifestRepository)(nil)

func (it *ManifestRepository) Source() entities.Source { return entities.SourceNuGet }

// Find returns root when it is a project or props file. For a directory, a central
// *.Packages.props in it or any parent up to the git worktree root wins;
// otherwise every .csproj below it is returned.
func (it *ManifestRepository) Find(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrManifestNotFound, err)
	}
	if !info.IsDir() {
		if !isManifestFile(root) {
			return nil, nil
		}
		return []string{root}, nil
	}

	if props := findPropsUpwards(root); props != "" {
		logger.Debugf("[nuget] Using central package file %s", props)
		return []string{props}, nil
	}

	var found []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || name == "bin" || name == "obj") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), projectExtension) {
			found = append(found, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", root, walkErr)
	}
	return found, nil
}

// Read parses the package declarations outside XML comments, numbered in file order.
func (it *ManifestRepository) Read(path string) (*entities.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrManifestNotFound, err)
	}

	project := &entities.Project{
		Name:     projectName(path),
		FilePath: path,
		Source:   entities.SourceNuGet,
	}

	inComment := false
	for _, line := range strings.Split(string(data), "\n") {
		visible, stillInComment := stripComments(line, inComment)
		inComment = stillInComment
		match := declarationPattern.FindStringSubmatch(visible)
		if match == nil {
			continue
		}
		dep := entities.NewDependency(match[1], match[2], len(project.Dependencies), entities.SourceNuGet)
		project.Dependencies = append(project.Dependencies, dep)
	}
	return project, nil
}

// PatchLine swaps the Version attribute of the declaration of name.
func (it *ManifestRepository) PatchLine(line, name string, target *entities.Version) (string, error) {
	if !strings.Contains(strings.ToLower(line), strings.ToLower(`Include="`+name+`"`)) {
		return "", fmt.Errorf("line does not declare %q", name)
	}
	loc := versionAttributePattern(name).FindStringSubmatchIndex(line)
	if loc == nil {
		return "", errors.New("no Version attribute found on line")
	}
	start, end := loc[4], loc[5]
	return line[:start] + target.Parsed + line[end:], nil
}

// versionAttributePattern splits the declaration of name around its Version attribute value.
func versionAttributePattern(name string) *regexp.Regexp {
	return regexp.MustCompile(
		`(?i)(<Package(?:Reference|Version)\s+Include="` + regexp.QuoteMeta(name) + `"\s+Version=")([^"]+)(")`,
	)
}

// stripComments removes the parts of line inside <!-- --> and reports whether
// a comment is still open at the end of the line.
func stripComments(line string, inComment bool) (string, bool) {
	var visible strings.Builder
	rest := line
	for rest != "" {
		if inComment {
			end := strings.Index(rest, "-->")
			if end < 0 {
				return visible.String(), true
			}
			rest = rest[end+len("-->"):]
			inComment = false
			continue
		}
		start := strings.Index(rest, "<!--")
		if start < 0 {
			visible.WriteString(rest)
			break
		}
		visible.WriteString(rest[:start])
		rest = rest[start+len("<!--"):]
		inComment = true
	}
	return visible.String(), inComment
}

// findPropsUpwards looks for *.Packages.props from dir up to the worktree root,
// or up to the filesystem root outside a repository.
func findPropsUpwards(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	stop := worktreeRoot(abs)

	for current := abs; ; {
		entries, readErr := os.ReadDir(current)
		if readErr == nil {
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), propsSuffix) {
					return filepath.Join(current, entry.Name())
				}
			}
		}
		parent := filepath.Dir(current)
		if current == stop || parent == current {
			return ""
		}
		current = parent
	}
}

func isManifestFile(path string) bool {
	lower := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(lower, projectExtension) || strings.HasSuffix(lower, propsSuffix)
}

func worktreeRoot(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return ""
	}
	return worktree.Filesystem.Root()
}

func projectName(path string) string {
	base := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(base), projectExtension) {
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return filepath.Base(filepath.Dir(abs))
}
