package entities

// UpdateOutcome is what happened to one dependency during an update.
type UpdateOutcome struct {
	Dependency *Dependency
	Updated    bool
	Failed     bool
	Message    string
}

// UpdateResult collects the outcomes for one project.
type UpdateResult struct {
	Project  *Project
	Outcomes []UpdateOutcome
}

// Failed reports whether any dependency failed to update.
func (it *UpdateResult) Failed() bool {
	return it.FailedCount() > 0
}

// UpdatedCount returns how many dependencies were rewritten.
func (it *UpdateResult) UpdatedCount() int {
	count := 0
	for _, o := range it.Outcomes {
		if o.Updated {
			count++
		}
	}
	return count
}

// FailedCount returns how many dependencies failed to update.
func (it *UpdateResult) FailedCount() int {
	count := 0
	for _, o := range it.Outcomes {
		if o.Failed {
			count++
		}
	}
	return count
}

// Summary counts dependency states across a run.
type Summary struct {
	Total    int
	UpToDate int
	Outdated int
	Invalid  int
	Failed   int
}

// Summarize counts the dependencies of projects by state. A dependency lands in
// exactly one bucket: failed, then invalid, then outdated, else up to date.
func Summarize(projects []*Project, selection SelectionSettings) Summary {
	var s Summary
	for _, p := range projects {
		for _, dep := range p.Dependencies {
			s.Total++
			switch {
			case dep.HasFailed:
				s.Failed++
			case dep.IsCurrentVersionInvalid || dep.IsRequestedVersionInvalid:
				s.Invalid++
			case dep.HasVersionMismatch(selection):
				s.Outdated++
			default:
				s.UpToDate++
			}
		}
	}
	return s
}
