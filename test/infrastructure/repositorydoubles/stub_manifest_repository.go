//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
)

// StubManifestRepository implements repositories.ManifestRepository with canned answers.
type StubManifestRepository struct {
	// --- identity ---
	RepoSource entities.Source

	// --- Find ---
	Paths   []string
	FindErr error
	// spy: roots searched
	FoundRoots []string

	// --- Read ---
	Projects map[string]*entities.Project // path -> project
	ReadErrs map[string]error             // path -> error

	// --- PatchLine ---
	PatchFunc func(line, name string, target *entities.Version) (string, error)
}

var _ repositories.ManifestRepository = (*StubManifestRepository)(nil)

func (s *StubManifestRepository) Source() entities.Source { return s.RepoSource }

func (s *StubManifestRepository) Find(root string) ([]string, error) {
	s.FoundRoots = append(s.FoundRoots, root)
	return s.Paths, s.FindErr
}

func (s *StubManifestRepository) Read(path string) (*entities.Project, error) {
	if err, ok := s.ReadErrs[path]; ok {
		return nil, err
	}
	if project, ok := s.Projects[path]; ok {
		return project, nil
	}
	return nil, entities.ErrManifestNotFound
}

func (s *StubManifestRepository) PatchLine(line, name string, target *entities.Version) (string, error) {
	if s.PatchFunc != nil {
		return s.PatchFunc(line, name, target)
	}
	return line, nil
}

// SpyAuditRepository implements repositories.AuditRepository as a configurable spy.
type SpyAuditRepository struct {
	RepoSource entities.Source
	AuditErr   error
	// spy: projects audited
	Audited []string
}

var _ repositories.AuditRepository = (*SpyAuditRepository)(nil)

func (s *SpyAuditRepository) Source() entities.Source { return s.RepoSource }

func (s *SpyAuditRepository) Audit(_ context.Context, project *entities.Project) error {
	s.Audited = append(s.Audited, project.Name)
	return s.AuditErr
}
