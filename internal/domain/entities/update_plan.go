package entities

import "strings"

// PlanAction is what the update step does with one dependency.
type PlanAction int

const (
	PlanSkip PlanAction = iota
	PlanUpdate
	PlanFail
)

func (a PlanAction) String() string {
	switch a {
	case PlanUpdate:
		return "update"
	case PlanFail:
		return "fail"
	default:
		return "skip"
	}
}

// PlanItem is the decision taken for one dependency.
type PlanItem struct {
	Dependency *Dependency
	Action     PlanAction
	Target     *Version
	Reason     string
}

// Plan decides, per dependency, whether to skip it or move it to its desired version.
// Failed dependencies and those without a declared version are left out.
func Plan(dependencies []*Dependency, selection SelectionSettings) []PlanItem {
	project := Project{Dependencies: dependencies}
	items := make([]PlanItem, 0, len(dependencies))
	for _, dep := range project.SortedDependencies() {
		if dep.HasFailed || dep.CurrentVersion == nil || strings.TrimSpace(dep.CurrentVersion.Raw) == "" {
			continue
		}
		if !dep.HasVersionMismatch(selection) {
			items = append(items, PlanItem{Dependency: dep, Action: PlanSkip})
			continue
		}
		target := dep.DesiredVersion(selection)
		if target == nil {
			items = append(items, PlanItem{
				Dependency: dep,
				Action:     PlanFail,
				Reason:     "no version available to update to",
			})
			continue
		}
		items = append(items, PlanItem{Dependency: dep, Action: PlanUpdate, Target: target})
	}
	return items
}

// CountUpdates returns how many items would rewrite the manifest.
func CountUpdates(items []PlanItem) int {
	count := 0
	for _, item := range items {
		if item.Action == PlanUpdate {
			count++
		}
	}
	return count
}
