package npm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
)

// auditRunner returns the JSON printed by `npm audit --json` in dir.
type auditRunner func(ctx context.Context, dir string) ([]byte, error)

// AuditRepository runs npm audit and attaches the advisories to current versions.
type AuditRepository struct {
	run auditRunner
}

// NewAuditRepository creates an auditor backed by the npm binary.
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{run: runNpmAudit}
}

var _ repositories.AuditRepository = (*AuditRepository)(nil)

func (it *AuditRepository) Source() entities.Source { return entities.SourceNpm }

// Audit runs npm audit next to the project's package.json.
func (it *AuditRepository) Audit(ctx context.Context, project *entities.Project) error {
	output, err := it.run(ctx, filepath.Dir(project.FilePath))
	if err != nil {
		return fmt.Errorf("npm audit failed for %s: %w", project.Name, err)
	}

	report, err := ParseAuditReport(output)
	if err != nil {
		return err
	}

	for _, dep := range project.Dependencies {
		if vulnerabilities := report.VulnerabilitiesOf(dep.Name); len(vulnerabilities) > 0 {
			logger.Debugf("[npm] %s: %d advisories", dep.Name, len(vulnerabilities))
			dep.AttachVulnerabilities(vulnerabilities)
		}
	}
	return nil
}

// runNpmAudit treats exit status 1 with a JSON body as "vulnerabilities found".
func runNpmAudit(ctx context.Context, dir string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "npm", "audit", "--json")
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !(errors.As(err, &exitErr) && stdout.Len() > 0) {
		return nil, fmt.Errorf("%w: %s", err, stderr.String())
	}
	return stdout.Bytes(), nil
}
