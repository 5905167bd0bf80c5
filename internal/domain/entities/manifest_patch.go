package entities

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPackageNotInFile is reported when no manifest line declares the dependency.
var ErrPackageNotInFile = errors.New("could not find package in file")

// LinePatcher rewrites the version token of one manifest line.
// Implementations leave every other character of the line untouched.
type LinePatcher interface {
	PatchLine(line, name string, target *Version) (string, error)
}

// ApplyPlan rewrites text according to the plan and reports one outcome per item.
// Lines keep their own terminators, so the line ending convention survives.
// A failure on one item never stops the following ones.
func ApplyPlan(items []PlanItem, text string, patcher LinePatcher) (string, []UpdateOutcome) {
	lines := strings.SplitAfter(text, "\n")
	outcomes := make([]UpdateOutcome, 0, len(items))
	for _, item := range items {
		outcomes = append(outcomes, applyItem(item, lines, patcher))
	}
	return strings.Join(lines, ""), outcomes
}

func applyItem(item PlanItem, lines []string, patcher LinePatcher) (outcome UpdateOutcome) {
	outcome = UpdateOutcome{Dependency: item.Dependency}
	defer func() {
		if r := recover(); r != nil {
			outcome.Updated = false
			outcome.Failed = true
			outcome.Message = fmt.Sprint(r)
		}
	}()
	switch item.Action {
	case PlanSkip:
		return outcome
	case PlanFail:
		outcome.Failed = true
		outcome.Message = item.Reason
		return outcome
	}

	dep := item.Dependency
	index := FindDeclarationLine(lines, dep.Name, declaredText(dep))
	if index < 0 {
		outcome.Failed = true
		outcome.Message = ErrPackageNotInFile.Error()
		return outcome
	}

	body, ending := splitLineEnding(lines[index])
	patched, err := patcher.PatchLine(body, dep.Name, item.Target)
	if err != nil {
		outcome.Failed = true
		outcome.Message = err.Error()
		return outcome
	}
	lines[index] = patched + ending

	outcome.Updated = true
	outcome.Message = fmt.Sprintf("%s -> %s", dep.CurrentVersion, item.Target)
	return outcome
}

// FindDeclarationLine returns the index of the first line holding both the quoted
// name and the version text, or -1.
func FindDeclarationLine(lines []string, name, version string) int {
	quoted := `"` + name + `"`
	for i, line := range lines {
		if strings.Contains(line, quoted) && strings.Contains(line, version) {
			return i
		}
	}
	return -1
}

func declaredText(dep *Dependency) string {
	if dep.DeclaredVersion != "" {
		return dep.DeclaredVersion
	}
	return dep.CurrentVersion.Raw
}

func splitLineEnding(line string) (string, string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	default:
		return line, ""
	}
}
