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

// UpdateController handles the "update" subcommand.
type UpdateController struct {
	scan      commands.Scan
	refresh   commands.Refresh
	update    commands.Update
	presenter *Presenter
}

// NewUpdateController creates a new UpdateController.
func NewUpdateController(
	scan commands.Scan,
	refresh commands.Refresh,
	update commands.Update,
	presenter *Presenter,
) *UpdateController {
	return &UpdateController{scan: scan, refresh: refresh, update: update, presenter: presenter}
}

// GetBind returns the Cobra command metadata for the update controller.
func (it *UpdateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "update [path]",
		Short: "Rewrite manifests to the desired dependency versions",
		Long: `Resolve every declared dependency like "list" does, then rewrite each
manifest in place so outdated dependencies declare their desired version:
the requested major (--major), else the latest of the current major (--minor),
else the latest version. Only the version token of each line changes.`,
	}
}

// AddFlags adds the update-specific flags to the Cobra command.
func (it *UpdateController) AddFlags(cmd *cobra.Command) {
	addSelectionFlags(cmd)
}

// Execute updates the manifests of every project found.
func (it *UpdateController) Execute(cmd *cobra.Command, args []string) {
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

	results, updateErr := it.update.Execute(ctx, projects, settings)
	it.presenter.RenderUpdateResults(results)
	if updateErr != nil {
		logger.Errorf("Update failed: %v", updateErr)
	}
	it.presenter.RenderSummary(entities.Summarize(projects, settings.SelectionSettings))
}
