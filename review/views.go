package review

import "sort"

// Review status values derived from the activity log.
const (
	StatusActive = "active"
	StatusClosed = "closed"
	StatusMerged = "merged"
)

// Status derives the review status from the most recently appended
// status-changing activity. Log order is authoritative, not the
// Created timestamps. A review with no status change is active.
func (r *Review) Status() string {
	for i := len(r.Activities) - 1; i >= 0; i-- {
		switch r.Activities[i].Category {
		case CategoryClosed:
			return StatusClosed
		case CategoryMerged:
			return StatusMerged
		case CategoryReopened:
			return StatusActive
		}
	}
	return StatusActive
}

// Reviewers returns the deduplicated union of mentions across all
// "assigned" activities, sorted for determinism.
func (r *Review) Reviewers() []string {
	seen := make(map[string]bool)
	for i := range r.Activities {
		a := &r.Activities[i]
		if a.Category != CategoryAssigned {
			continue
		}
		for _, m := range a.Mentions {
			seen[m] = true
		}
	}
	reviewers := make([]string, 0, len(seen))
	for m := range seen {
		reviewers = append(reviewers, m)
	}
	sort.Strings(reviewers)
	return reviewers
}

// VisibleActivities returns the activities not hidden by supersede or
// retract relations. An activity is hidden when its ID appears in any
// activity's supersedes list, or in the addresses list of any retract
// activity. Hiding is flat set membership, deliberately not a
// transitive closure: a supersession chain's middle link stays visible
// unless something references it directly.
func (r *Review) VisibleActivities() []Activity {
	hidden := make(map[string]bool)
	for i := range r.Activities {
		a := &r.Activities[i]
		for _, id := range a.Supersedes {
			hidden[id] = true
		}
		if a.Category == CategoryRetract {
			for _, id := range a.Addresses {
				hidden[id] = true
			}
		}
	}

	visible := make([]Activity, 0, len(r.Activities))
	for _, a := range r.Activities {
		if !hidden[a.ID] {
			visible = append(visible, a)
		}
	}
	return visible
}
