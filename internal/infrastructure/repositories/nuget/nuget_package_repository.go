package nuget

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
	"github.com/rios0rios0/depwatch/internal/httpclient"
)

const (
	defaultRegistrationURL = "https://api.nuget.org/v3/registration5-gz-semver2"
	packagePageURL         = "https://www.nuget.org/packages/"
)

// ErrPackageNotFound is returned when the registry knows no version of the package.
var ErrPackageNotFound = errors.New(
	"package could not be found in the official NuGet repository (custom sources are not yet supported)",
)

// severityNames maps registration severities to their display names.
var severityNames = map[string]string{ //nolint:gochecknoglobals // read-only lookup table
	"0": "low",
	"1": "moderate",
	"2": "high",
	"3": "critical",
}

type registrationIndex struct {
	Items []registrationPage `json:"items"`
}

type registrationPage struct {
	ID    string             `json:"@id"`
	Items []registrationLeaf `json:"items"`
}

type registrationLeaf struct {
	CatalogEntry catalogEntry `json:"catalogEntry"`
}

type catalogEntry struct {
	Version          string            `json:"version"`
	Published        string            `json:"published"`
	ProjectURL       string            `json:"projectUrl"`
	Vulnerabilities  []vulnerability   `json:"vulnerabilities"`
	DependencyGroups []dependencyGroup `json:"dependencyGroups"`
}

type vulnerability struct {
	AdvisoryURL string `json:"advisoryUrl"`
	Severity    string `json:"severity"`
}

type dependencyGroup struct {
	TargetFramework string `json:"targetFramework"`
}

// PackageRepository reads version histories from the NuGet registration API.
type PackageRepository struct {
	client  *httpclient.Client
	baseURL string
}

// NewPackageRepository creates a registry reader on the shared client.
func NewPackageRepository(client *httpclient.Client) *PackageRepository {
	return NewPackageRepositoryWithURL(client, defaultRegistrationURL)
}

// NewPackageRepositoryWithURL targets another registration base URL.
func NewPackageRepositoryWithURL(client *httpclient.Client, baseURL string) *PackageRepository {
	return &PackageRepository{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

var _ repositories.PackageRepository = (*PackageRepository)(nil)

func (it *PackageRepository) Source() entities.Source { return entities.SourceNuGet }

// FetchVersions walks every registration page of name; pages listed without
// their items are fetched by their own URL.
func (it *PackageRepository) FetchVersions(
	ctx context.Context,
	name string,
	includePreRelease bool,
) (*entities.RegistryPackage, error) {
	id := strings.ToLower(strings.TrimSpace(name))

	var index registrationIndex
	if err := it.client.GetJSON(ctx, it.baseURL+"/"+id+"/index.json", &index); err != nil {
		if errors.Is(err, httpclient.ErrNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to fetch package info from NuGet registry: %w", err)
	}

	pkg := &entities.RegistryPackage{PackageURL: packagePageURL + name}
	for _, page := range index.Items {
		leaves := page.Items
		if len(leaves) == 0 && page.ID != "" {
			var full registrationPage
			if err := it.client.GetJSON(ctx, page.ID, &full); err != nil {
				return nil, fmt.Errorf("failed to fetch registration page %s: %w", page.ID, err)
			}
			leaves = full.Items
		}
		for _, leaf := range leaves {
			version := toVersion(leaf.CatalogEntry)
			if version.IsPreRelease() && !includePreRelease {
				continue
			}
			if leaf.CatalogEntry.ProjectURL != "" {
				pkg.ProjectURL = leaf.CatalogEntry.ProjectURL
			}
			pkg.Versions = append(pkg.Versions, version)
		}
	}

	if len(pkg.Versions) == 0 {
		return nil, ErrPackageNotFound
	}
	slices.SortStableFunc(pkg.Versions, func(a, b *entities.Version) int { return a.Compare(b) })
	logger.Debugf("[nuget] %s: %d versions", name, len(pkg.Versions))
	return pkg, nil
}

func toVersion(entry catalogEntry) *entities.Version {
	version := entities.ParseVersion(entry.Version)
	if at, err := time.Parse(time.RFC3339, entry.Published); err == nil {
		version.PublishedAt = &at
	}
	for _, v := range entry.Vulnerabilities {
		severity, ok := severityNames[v.Severity]
		if !ok {
			severity = v.Severity
		}
		version.Vulnerabilities = append(version.Vulnerabilities, entities.Vulnerability{
			AdvisoryURL: v.AdvisoryURL,
			Severity:    severity,
			CVE:         lastPathElement(v.AdvisoryURL),
		})
	}
	version.Frameworks = supportedFrameworks(entry.DependencyGroups)
	return version
}

var anyFramework = entities.Framework{ //nolint:gochecknoglobals // constant value
	Name:      "Any Framework",
	ShortName: "net0",
	NickName:  "Any",
}

// supportedFrameworks lists the frameworks of the dependency groups. A package
// without groups, or targeting .NET Standard, runs anywhere.
func supportedFrameworks(groups []dependencyGroup) []entities.Framework {
	if len(groups) == 0 {
		return []entities.Framework{anyFramework}
	}
	var frameworks []entities.Framework
	seen := make(map[string]bool)
	for _, group := range groups {
		framework := toFramework(group.TargetFramework)
		if seen[framework.ShortName] {
			continue
		}
		seen[framework.ShortName] = true
		frameworks = append(frameworks, framework)
	}
	return frameworks
}

func toFramework(target string) entities.Framework {
	lower := strings.ToLower(strings.TrimSpace(target))
	if lower == "" || lower == "any" || strings.Contains(lower, "standard") {
		return anyFramework
	}

	var short string
	switch {
	case strings.HasPrefix(lower, ".netframework"):
		short = "net" + strings.ReplaceAll(strings.TrimPrefix(lower, ".netframework"), ".", "")
	case strings.HasPrefix(lower, ".netcoreapp"):
		short = "netcoreapp" + strings.TrimPrefix(lower, ".netcoreapp")
	case strings.HasPrefix(lower, "net"):
		short = lower
	default:
		short = strings.TrimPrefix(lower, ".")
	}
	return entities.Framework{
		Name:      target,
		ShortName: short,
		NickName:  strings.ReplaceAll(short, "core", ""),
	}
}

func lastPathElement(url string) string {
	trimmed := strings.TrimSuffix(url, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
