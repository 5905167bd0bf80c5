package npm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
	"github.com/rios0rios0/depwatch/internal/httpclient"
)

const (
	defaultRegistryURL = "https://registry.npmjs.org"
	packagePageURL     = "https://www.npmjs.com/package/"
)

// ErrEmptyContent is returned when the registry answers with an empty body.
var ErrEmptyContent = errors.New("npm registry returned empty content")

// registryDocument is the subset of a registry packument that is used.
type registryDocument struct {
	Name     string            `json:"name"`
	Homepage string            `json:"homepage"`
	Time     map[string]string `json:"time"`
}

// PackageRepository reads version histories from the npm registry.
type PackageRepository struct {
	client  *httpclient.Client
	baseURL string
}

// NewPackageRepository creates a registry reader on the shared client.
func NewPackageRepository(client *httpclient.Client) *PackageRepository {
	return NewPackageRepositoryWithURL(client, defaultRegistryURL)
}

// NewPackageRepositoryWithURL targets a registry mirror.
func NewPackageRepositoryWithURL(client *httpclient.Client, baseURL string) *PackageRepository {
	return &PackageRepository{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

var _ repositories.PackageRepository = (*PackageRepository)(nil)

func (it *PackageRepository) Source() entities.Source { return entities.SourceNpm }

// FetchVersions lists every published version of name from the `time` map of its packument.
func (it *PackageRepository) FetchVersions(
	ctx context.Context,
	name string,
	includePreRelease bool,
) (*entities.RegistryPackage, error) {
	body, err := it.client.GetBytes(ctx, it.baseURL+"/"+url.PathEscape(name))
	if err != nil {
		if code := httpclient.StatusCode(err); code != 0 {
			return nil, fmt.Errorf("failed to fetch package info from npm registry (status code %d): %w", code, err)
		}
		return nil, fmt.Errorf("failed to fetch package info from npm registry: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, ErrEmptyContent
	}

	doc, err := decodeDocument(body)
	if err != nil {
		return nil, err
	}

	return &entities.RegistryPackage{
		Versions:   collectVersions(doc, includePreRelease),
		ProjectURL: doc.Homepage,
		PackageURL: packagePageURL + name,
	}, nil
}

func collectVersions(doc *registryDocument, includePreRelease bool) []*entities.Version {
	versions := make([]*entities.Version, 0, len(doc.Time))
	for key, published := range doc.Time {
		if key == "created" || key == "modified" {
			continue
		}
		version := entities.ParseVersion(key)
		if version.IsPreRelease() && !includePreRelease {
			continue
		}
		if at, parseErr := time.Parse(time.RFC3339, published); parseErr == nil {
			version.PublishedAt = &at
		}
		versions = append(versions, version)
	}
	slices.SortStableFunc(versions, func(a, b *entities.Version) int {
		if c := a.Compare(b); c != 0 {
			return c
		}
		return strings.Compare(a.Raw, b.Raw)
	})
	return versions
}
