package npm

import "context"

// ReadDeclarations exports readDeclarations for testing.
var ReadDeclarations = readDeclarations //nolint:gochecknoglobals // test export

// Declaration exports declaration for testing.
type Declaration = declaration

// NewAuditRepositoryWithRunner builds an auditor that does not shell out.
func NewAuditRepositoryWithRunner(
	run func(ctx context.Context, dir string) ([]byte, error),
) *AuditRepository {
	return &AuditRepository{run: run}
}
