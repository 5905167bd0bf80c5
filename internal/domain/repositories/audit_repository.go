package repositories

import (
	"context"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// AuditRepository attaches known vulnerabilities to the current versions of a project.
type AuditRepository interface {
	Source() entities.Source
	Audit(ctx context.Context, project *entities.Project) error
}
