package repositories

import (
	"sort"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	domainRepos "github.com/rios0rios0/depwatch/internal/domain/repositories"
)

// ManifestRegistry manages the manifest readers and auditors of every source.
type ManifestRegistry struct {
	manifests map[entities.Source]domainRepos.ManifestRepository
	auditors  map[entities.Source]domainRepos.AuditRepository
}

// NewManifestRegistry creates an empty manifest registry.
func NewManifestRegistry() *ManifestRegistry {
	return &ManifestRegistry{
		manifests: make(map[entities.Source]domainRepos.ManifestRepository),
		auditors:  make(map[entities.Source]domainRepos.AuditRepository),
	}
}

// Register adds a manifest reader under its source.
func (r *ManifestRegistry) Register(m domainRepos.ManifestRepository) {
	r.manifests[m.Source()] = m
}

// RegisterAuditor adds a vulnerability auditor under its source.
func (r *ManifestRegistry) RegisterAuditor(a domainRepos.AuditRepository) {
	r.auditors[a.Source()] = a
}

// Get returns the manifest reader of source, or nil if not registered.
func (r *ManifestRegistry) Get(source entities.Source) domainRepos.ManifestRepository {
	return r.manifests[source]
}

// Auditor returns the auditor of source, or nil if there is none.
func (r *ManifestRegistry) Auditor(source entities.Source) domainRepos.AuditRepository {
	return r.auditors[source]
}

// All returns every registered manifest reader ordered by source.
func (r *ManifestRegistry) All() []domainRepos.ManifestRepository {
	result := make([]domainRepos.ManifestRepository, 0, len(r.manifests))
	for _, m := range r.manifests {
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Source() < result[j].Source() })
	return result
}
