//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"sync"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
)

// SpyPackageRepository implements repositories.PackageRepository as a configurable spy.
// It is safe for concurrent use.
type SpyPackageRepository struct {
	// --- identity ---
	RepoSource entities.Source

	// --- FetchVersions ---
	Packages map[string]*entities.RegistryPackage // name -> package
	Errors   map[string]error                     // name -> error
	// BlockUntilCancelled makes every fetch wait for its context to end.
	BlockUntilCancelled bool
	// Blocking lists the names that wait for cancellation.
	Blocking map[string]bool
	// Started, when set, receives the name of every fetch as it begins.
	Started chan string

	mu sync.Mutex
	// spy: names fetched and the pre-release flag they were fetched with
	Fetched           []string
	PreReleaseFetches map[string]bool
	inFlight          int
	MaxInFlight       int
}

var _ repositories.PackageRepository = (*SpyPackageRepository)(nil)

func (s *SpyPackageRepository) Source() entities.Source { return s.RepoSource }

func (s *SpyPackageRepository) FetchVersions(
	ctx context.Context,
	name string,
	includePreRelease bool,
) (*entities.RegistryPackage, error) {
	s.mu.Lock()
	s.Fetched = append(s.Fetched, name)
	if s.PreReleaseFetches == nil {
		s.PreReleaseFetches = make(map[string]bool)
	}
	s.PreReleaseFetches[name] = includePreRelease
	s.inFlight++
	if s.inFlight > s.MaxInFlight {
		s.MaxInFlight = s.inFlight
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if s.Started != nil {
		s.Started <- name
	}
	if s.BlockUntilCancelled || s.Blocking[name] {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	if err, ok := s.Errors[name]; ok {
		return nil, err
	}
	if pkg, ok := s.Packages[name]; ok {
		return pkg, nil
	}
	return nil, fmt.Errorf("package %s not found", name)
}

// FetchCount returns how many fetches were made.
func (s *SpyPackageRepository) FetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Fetched)
}

// NewRegistryPackage builds a registry answer from raw version strings.
func NewRegistryPackage(raws ...string) *entities.RegistryPackage {
	versions := make([]*entities.Version, 0, len(raws))
	for _, raw := range raws {
		versions = append(versions, entities.ParseVersion(raw))
	}
	return &entities.RegistryPackage{Versions: versions}
}
