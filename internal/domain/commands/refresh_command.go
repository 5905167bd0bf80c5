package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	domainRepos "github.com/rios0rios0/depwatch/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/depwatch/internal/infrastructure/repositories"
)

// Refresh is the interface for the registry refresh pipeline.
type Refresh interface {
	Execute(ctx context.Context, projects []*entities.Project, settings *entities.Settings) error
}

// fetchTask is one dependency to look up on one registry.
type fetchTask struct {
	dependency *entities.Dependency
	repository domainRepos.PackageRepository
}

// RefreshCommand resolves the versions of every dependency of every project.
// Each dependency is fetched on its own; a failing fetch only marks its record.
type RefreshCommand struct {
	packages   *infraRepos.PackageRegistry
	manifests  *infraRepos.ManifestRegistry
	openClient infraRepos.ClientFactory
}

// NewRefreshCommand creates a new RefreshCommand.
func NewRefreshCommand(
	packages *infraRepos.PackageRegistry,
	manifests *infraRepos.ManifestRegistry,
	openClient infraRepos.ClientFactory,
) *RefreshCommand {
	return &RefreshCommand{
		packages:   packages,
		manifests:  manifests,
		openClient: openClient,
	}
}

// Execute fetches every dependency, concurrently or one at a time in debug mode.
// Cancelling ctx stops pending and in-flight fetches; records resolved before
// that keep their values. The returned error is only ever ctx's.
func (it *RefreshCommand) Execute(
	ctx context.Context,
	projects []*entities.Project,
	settings *entities.Settings,
) error {
	runLog := logger.WithField("run", uuid.NewString())

	client, err := it.openClient(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to open registry client: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			runLog.Debugf("Failed to close registry client: %v", closeErr)
		}
	}()

	tasks := make([]fetchTask, 0)
	for _, project := range projects {
		repository, openErr := it.packages.Open(project.Source, client)
		for _, dep := range project.Dependencies {
			dep.ClearFailure()
			if openErr != nil {
				dep.SetFailure(openErr.Error())
				continue
			}
			tasks = append(tasks, fetchTask{dependency: dep, repository: repository})
		}
	}

	runLog.Infof("Refreshing %d dependencies of %d projects", len(tasks), len(projects))
	if settings.Debug {
		it.runSequential(ctx, tasks, settings)
	} else {
		it.runConcurrent(ctx, tasks, settings)
	}

	for _, project := range projects {
		project.AssignProjectName()
	}

	if settings.Audit && ctx.Err() == nil {
		it.audit(ctx, projects, runLog)
	}

	return ctx.Err()
}

func (it *RefreshCommand) runSequential(ctx context.Context, tasks []fetchTask, settings *entities.Settings) {
	for _, task := range tasks {
		resolve(ctx, task, settings)
	}
}

func (it *RefreshCommand) runConcurrent(ctx context.Context, tasks []fetchTask, settings *entities.Settings) {
	limit := settings.Concurrency
	if limit < 1 {
		limit = entities.DefaultConcurrency
	}
	group := new(errgroup.Group)
	group.SetLimit(limit)
	for _, task := range tasks {
		if ctx.Err() != nil {
			markCancelled(ctx, task.dependency)
			continue
		}
		group.Go(func() error {
			resolve(ctx, task, settings)
			return nil
		})
	}
	_ = group.Wait()
}

func (it *RefreshCommand) audit(ctx context.Context, projects []*entities.Project, runLog *logger.Entry) {
	for _, project := range projects {
		auditor := it.manifests.Auditor(project.Source)
		if auditor == nil {
			continue
		}
		if err := auditor.Audit(ctx, project); err != nil {
			runLog.Warnf("Audit skipped for %s: %v", project.Name, err)
		}
	}
}

// resolve fetches one dependency and commits the outcome on its record.
func resolve(ctx context.Context, task fetchTask, settings *entities.Settings) {
	dep := task.dependency
	if ctx.Err() != nil {
		markCancelled(ctx, dep)
		return
	}

	includePreRelease := settings.IncludePreRelease || strings.Contains(dep.CurrentVersion.Raw, "-")
	pkg, err := task.repository.FetchVersions(ctx, dep.Name, includePreRelease)
	if err != nil {
		if ctx.Err() != nil {
			markCancelled(ctx, dep)
			return
		}
		logger.Debugf("[%s] %s: %v", dep.Source, dep.Name, err)
		dep.SetFailure(err.Error())
		return
	}

	dep.AssignRegistryPackage(pkg, settings.SelectionSettings, settings.CompatPolicy())
}

func markCancelled(ctx context.Context, dep *entities.Dependency) {
	dep.SetFailure(fmt.Sprintf("refresh cancelled: %v", ctx.Err()))
}
