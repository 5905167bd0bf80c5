package controllers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/upgrader"
)

const (
	statusOK       = "ok"
	statusOutdated = "outdated"
	statusInvalid  = "invalid"
	statusFailed   = "failed"

	statusColumn = 6
)

var (
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")

	styleTitle   = lipgloss.NewStyle().Bold(true)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
)

// Presenter renders projects and update outcomes as terminal tables.
type Presenter struct {
	out io.Writer
}

// NewPresenter creates a presenter writing to stdout.
func NewPresenter() *Presenter {
	return NewPresenterWithWriter(os.Stdout)
}

// NewPresenterWithWriter creates a presenter writing to out.
func NewPresenterWithWriter(out io.Writer) *Presenter {
	return &Presenter{out: out}
}

// RenderProjects prints one table per project.
func (it *Presenter) RenderProjects(projects []*entities.Project, settings *entities.Settings) {
	for _, project := range projects {
		fmt.Fprintln(it.out, styleTitle.Render(fmt.Sprintf("%s (%s)", project.Name, project.Source)))
		fmt.Fprintln(it.out, styleDim.Render(project.FilePath))

		headers := []string{"Package", "Current", "Latest minor", "Latest", "Requested", "Bump", "Status"}
		if settings.ShowURLs {
			headers = append(headers, "URL")
		}

		dependencies := project.SortedDependencies()
		statuses := make([]string, len(dependencies))
		rows := make([][]string, 0, len(dependencies))
		for i, dep := range dependencies {
			statuses[i] = dependencyStatus(dep, settings.SelectionSettings)
			rows = append(rows, dependencyRow(dep, statuses[i], settings))
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers(headers...).
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return styleHeader
				}
				if col != statusColumn || row < 0 || row >= len(statuses) {
					return lipgloss.NewStyle()
				}
				return statusStyle(statuses[row])
			})
		fmt.Fprintln(it.out, t.Render())
		fmt.Fprintln(it.out)
	}
}

// RenderUpdateResults prints the updated and failed dependencies of every project.
func (it *Presenter) RenderUpdateResults(results []*entities.UpdateResult) {
	for _, result := range results {
		fmt.Fprintln(it.out, styleTitle.Render(result.Project.Name))
		for _, outcome := range result.Outcomes {
			switch {
			case outcome.Failed:
				fmt.Fprintf(it.out, "  %s %s: %s\n",
					styleError.Render("✗"), outcome.Dependency.Name, outcome.Message)
			case outcome.Updated:
				fmt.Fprintf(it.out, "  %s %s %s\n",
					styleSuccess.Render("✓"), outcome.Dependency.Name, styleDim.Render(outcome.Message))
			}
		}
		if result.UpdatedCount() == 0 && !result.Failed() {
			fmt.Fprintln(it.out, styleDim.Render("  everything is up to date"))
		}
	}
}

// RenderSummary prints the state counts of a run.
func (it *Presenter) RenderSummary(summary entities.Summary) {
	parts := []string{
		fmt.Sprintf("%d dependencies", summary.Total),
		styleSuccess.Render(fmt.Sprintf("%d up to date", summary.UpToDate)),
		styleWarning.Render(fmt.Sprintf("%d outdated", summary.Outdated)),
		styleWarning.Render(fmt.Sprintf("%d invalid", summary.Invalid)),
		styleError.Render(fmt.Sprintf("%d failed", summary.Failed)),
	}
	fmt.Fprintln(it.out, strings.Join(parts, ", "))
}

func dependencyRow(dep *entities.Dependency, status string, settings *entities.Settings) []string {
	name := dep.Name
	if dep.DevDependency {
		name += " (dev)"
	}
	current := dep.CurrentVersion.String()
	if dep.CurrentVersion.HasVulnerabilities() {
		current += fmt.Sprintf(" !%d", len(dep.CurrentVersion.Vulnerabilities))
	}
	requested := dep.RequestedVersion.String()
	if dep.IsRequestedVersionInvalid {
		requested = "n/a"
	}
	bump := string(upgrader.AnalyzeVersionDiff(dep.CurrentVersion, dep.DesiredVersion(settings.SelectionSettings)))
	if dep.HasFailed {
		status = statusFailed + ": " + dep.FailureMessage
	}

	row := []string{
		name,
		current,
		dep.LatestMinorVersion.String(),
		dep.LatestVersion.String(),
		requested,
		bump,
		status,
	}
	if settings.ShowURLs {
		url := dep.VersionURL()
		if url == "" {
			url = dep.ProjectURL
		}
		row = append(row, url)
	}
	return row
}

func dependencyStatus(dep *entities.Dependency, selection entities.SelectionSettings) string {
	switch {
	case dep.HasFailed:
		return statusFailed
	case dep.IsCurrentVersionInvalid || dep.IsRequestedVersionInvalid:
		return statusInvalid
	case dep.HasVersionMismatch(selection):
		return statusOutdated
	default:
		return statusOK
	}
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case statusOK:
		return styleSuccess
	case statusOutdated, statusInvalid:
		return styleWarning
	default:
		return styleError
	}
}
