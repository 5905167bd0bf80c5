//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/depwatch/internal/domain/commands"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// StubScanCommand is a stub implementation of commands.Scan.
type StubScanCommand struct {
	Projects         []*entities.Project
	ExecuteErr       error
	ExecuteCallCount int
	LastSettings     *entities.Settings
}

var _ commands.Scan = (*StubScanCommand)(nil)

func (s *StubScanCommand) Execute(_ context.Context, settings *entities.Settings) ([]*entities.Project, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	return s.Projects, s.ExecuteErr
}

// StubRefreshCommand is a stub implementation of commands.Refresh.
type StubRefreshCommand struct {
	ExecuteErr       error
	ExecuteCallCount int
	LastProjects     []*entities.Project
}

var _ commands.Refresh = (*StubRefreshCommand)(nil)

func (s *StubRefreshCommand) Execute(
	_ context.Context,
	projects []*entities.Project,
	_ *entities.Settings,
) error {
	s.ExecuteCallCount++
	s.LastProjects = projects
	return s.ExecuteErr
}

// StubUpdateCommand is a stub implementation of commands.Update.
type StubUpdateCommand struct {
	Results          []*entities.UpdateResult
	ExecuteErr       error
	ExecuteCallCount int
	LastSettings     *entities.Settings
}

var _ commands.Update = (*StubUpdateCommand)(nil)

func (s *StubUpdateCommand) Execute(
	_ context.Context,
	_ []*entities.Project,
	settings *entities.Settings,
) ([]*entities.UpdateResult, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	return s.Results, s.ExecuteErr
}
