package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	infraRepos "github.com/rios0rios0/depwatch/internal/infrastructure/repositories"
)

// Update is the interface for the manifest update step.
type Update interface {
	Execute(
		ctx context.Context,
		projects []*entities.Project,
		settings *entities.Settings,
	) ([]*entities.UpdateResult, error)
}

// UpdateCommand rewrites manifests so every outdated dependency declares its desired version.
type UpdateCommand struct {
	manifests *infraRepos.ManifestRegistry
}

// NewUpdateCommand creates a new UpdateCommand.
func NewUpdateCommand(manifests *infraRepos.ManifestRegistry) *UpdateCommand {
	return &UpdateCommand{manifests: manifests}
}

// Execute updates one project after the other. A project whose manifest cannot be
// read or written is reported in the returned error; the remaining projects are
// still processed.
func (it *UpdateCommand) Execute(
	ctx context.Context,
	projects []*entities.Project,
	settings *entities.Settings,
) ([]*entities.UpdateResult, error) {
	results := make([]*entities.UpdateResult, 0, len(projects))
	var errs []error

	for _, project := range projects {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		result, err := it.updateProject(project, settings)
		if err != nil {
			errs = append(errs, fmt.Errorf("project %s: %w", project.Name, err))
			continue
		}
		results = append(results, result)
	}

	return results, errors.Join(errs...)
}

// updateProject reads the manifest once, applies the whole plan in memory and
// writes the file back once.
func (it *UpdateCommand) updateProject(
	project *entities.Project,
	settings *entities.Settings,
) (*entities.UpdateResult, error) {
	patcher := it.manifests.Get(project.Source)
	if patcher == nil {
		return nil, fmt.Errorf("no manifest format registered for %s", project.Source)
	}

	info, err := os.Stat(project.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrManifestNotFound, err)
	}
	data, err := os.ReadFile(project.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrManifestNotFound, err)
	}

	plan := entities.Plan(project.Dependencies, settings.SelectionSettings)
	logger.Debugf("Planned %d of %d dependencies for update in %s", entities.CountUpdates(plan), len(plan), project.FilePath)
	text, outcomes := entities.ApplyPlan(plan, string(data), patcher)
	result := &entities.UpdateResult{Project: project, Outcomes: outcomes}

	if result.UpdatedCount() == 0 {
		logger.Debugf("Nothing to update in %s", project.FilePath)
		return result, nil
	}
	if settings.DryRun {
		logger.Infof("[dry-run] Would update %d dependencies in %s", result.UpdatedCount(), project.FilePath)
		return result, nil
	}

	if writeErr := os.WriteFile(project.FilePath, []byte(text), info.Mode().Perm()); writeErr != nil {
		return nil, fmt.Errorf("failed to write %s: %w", project.FilePath, writeErr)
	}
	logger.Infof("Updated %d dependencies in %s", result.UpdatedCount(), project.FilePath)
	return result, nil
}
