package commands

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	infraRepos "github.com/rios0rios0/depwatch/internal/infrastructure/repositories"
)

// Scan is the interface for manifest discovery.
type Scan interface {
	Execute(ctx context.Context, settings *entities.Settings) ([]*entities.Project, error)
}

// ScanCommand finds the manifests below the configured path and reads their dependencies.
type ScanCommand struct {
	manifests *infraRepos.ManifestRegistry
}

// NewScanCommand creates a new ScanCommand.
func NewScanCommand(manifests *infraRepos.ManifestRegistry) *ScanCommand {
	return &ScanCommand{manifests: manifests}
}

// Execute returns the valid projects, filtered by the include and ignore lists.
// Manifests that cannot be parsed are skipped with a warning; unreadable ones are
// reported in the returned error while the others are still returned.
func (it *ScanCommand) Execute(_ context.Context, settings *entities.Settings) ([]*entities.Project, error) {
	var projects []*entities.Project
	var errs []error

	for _, manifest := range it.manifests.All() {
		if !settings.SourceEnabled(manifest.Source()) {
			continue
		}

		paths, err := manifest.Find(settings.Path)
		if err != nil {
			return nil, err
		}

		for _, path := range paths {
			project, readErr := manifest.Read(path)
			if readErr != nil {
				if errors.Is(readErr, entities.ErrManifestNotFound) {
					errs = append(errs, readErr)
				} else {
					logger.Warnf("Skipping %s: %v", path, readErr)
				}
				continue
			}

			project.Filter(settings.Include, settings.Ignore)
			if !project.IsValid() {
				logger.Debugf("Skipping %s: no dependencies left to check", path)
				continue
			}
			projects = append(projects, project)
		}
	}

	logger.Infof("Found %d projects in %s", len(projects), settings.Path)
	return projects, errors.Join(errs...)
}
