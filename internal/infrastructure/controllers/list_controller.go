package controllers

import (
	"context"
	"os"
	"os/signal"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/depwatch/internal/domain/commands"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// ListController handles the "list" subcommand.
type ListController struct {
	scan      commands.Scan
	refresh   commands.Refresh
	presenter *Presenter
}

// NewListController creates a new ListController.
func NewListController(scan commands.Scan, refresh commands.Refresh, presenter *Presenter) *ListController {
	return &ListController{scan: scan, refresh: refresh, presenter: presenter}
}

// GetBind returns the Cobra command metadata for the list controller.
func (it *ListController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "list [path]",
		Short: "List dependencies and their available versions",
		Long: `Find package.json, .csproj and Packages.props files below the path,
query npm and NuGet for every declared dependency and show the current,
latest-minor, latest and requested versions of each one.`,
	}
}

// AddFlags adds the list-specific flags to the Cobra command.
func (it *ListController) AddFlags(cmd *cobra.Command) {
	addSelectionFlags(cmd)
}

// Execute lists the dependencies of every project found.
func (it *ListController) Execute(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	settings, err := loadSettings(cmd, args)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return
	}

	projects, ok := scanAndRefresh(ctx, it.scan, it.refresh, settings)
	if !ok {
		return
	}

	it.presenter.RenderProjects(projects, settings)
	it.presenter.RenderSummary(entities.Summarize(projects, settings.SelectionSettings))
}

// scanAndRefresh finds the projects and resolves their versions. It reports false
// when there is nothing to show.
func scanAndRefresh(
	ctx context.Context,
	scan commands.Scan,
	refresh commands.Refresh,
	settings *entities.Settings,
) ([]*entities.Project, bool) {
	projects, err := scan.Execute(ctx, settings)
	if err != nil {
		logger.Errorf("Scan failed: %v", err)
	}
	if len(projects) == 0 {
		logger.Warnf("No projects with dependencies found in %s", settings.Path)
		return nil, false
	}

	if refreshErr := refresh.Execute(ctx, projects, settings); refreshErr != nil {
		logger.Warnf("Refresh interrupted: %v", refreshErr)
	}
	return projects, true
}
