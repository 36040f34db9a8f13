package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func activities(categories ...string) []Activity {
	out := make([]Activity, len(categories))
	for i, c := range categories {
		out[i] = Activity{ID: c, Category: c}
	}
	return out
}

func TestReview_Status(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		want       string
	}{
		{"empty log", nil, StatusActive},
		{"only comments", []string{"note", "issue"}, StatusActive},
		{"closed", []string{"note", "closed"}, StatusClosed},
		{"merged", []string{"note", "merged"}, StatusMerged},
		{"reopened after close", []string{"closed", "reopened"}, StatusActive},
		{"merged then reopened", []string{"merged", "reopened"}, StatusActive},
		{"close after merge wins by log order", []string{"merged", "closed"}, StatusClosed},
		{"comments after close do not reopen", []string{"closed", "note"}, StatusClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rev := &Review{Activities: activities(tt.categories...)}
			assert.Equal(t, tt.want, rev.Status())
		})
	}
}

func TestReview_Status_IgnoresTimestamps(t *testing.T) {
	// Log order is authoritative even when timestamps disagree.
	early, late := parseTime(t, "2025-01-01T00:00:00Z"), parseTime(t, "2025-06-01T00:00:00Z")
	rev := &Review{Activities: []Activity{
		{ID: "a1", Category: CategoryClosed, Created: &late},
		{ID: "a2", Category: CategoryReopened, Created: &early},
	}}
	assert.Equal(t, StatusActive, rev.Status())
}

func TestReview_Reviewers(t *testing.T) {
	rev := &Review{Activities: []Activity{
		{ID: "a1", Category: CategoryAssigned, Mentions: []string{"@charlie", "@alice"}},
		{ID: "a2", Category: CategoryMention, Mentions: []string{"@ignored"}},
		{ID: "a3", Category: CategoryAssigned, Mentions: []string{"@bob", "@alice"}},
	}}

	// Sorted union of assigned mentions; plain mentions do not count.
	assert.Equal(t, []string{"@alice", "@bob", "@charlie"}, rev.Reviewers())
}

func TestReview_Reviewers_Empty(t *testing.T) {
	rev := &Review{Activities: activities("note", "issue")}
	assert.Empty(t, rev.Reviewers())
}

func TestReview_VisibleActivities(t *testing.T) {
	rev := &Review{Activities: []Activity{
		{ID: "c1", Category: CategoryIssue, Content: "typo"},
		{ID: "c2", Category: CategoryIssue, Content: "typo, corrected", Supersedes: []string{"c1"}},
		{ID: "c3", Category: CategoryNote, Content: "unrelated"},
		{ID: "r1", Category: CategoryRetract, Addresses: []string{"c3"}},
	}}

	visible := rev.VisibleActivities()
	ids := make([]string, len(visible))
	for i, a := range visible {
		ids[i] = a.ID
	}

	// c1 is superseded, c3 retracted; the retraction itself stays.
	assert.Equal(t, []string{"c2", "r1"}, ids)
}

func TestReview_VisibleActivities_NotTransitive(t *testing.T) {
	rev := &Review{Activities: []Activity{
		{ID: "a", Category: CategoryNote},
		{ID: "b", Category: CategoryNote, Supersedes: []string{"a"}},
		{ID: "c", Category: CategoryNote, Supersedes: []string{"b"}},
	}}

	visible := rev.VisibleActivities()
	require.Len(t, visible, 1)
	assert.Equal(t, "c", visible[0].ID)

	// Hiding is direct reference only: retracting the retraction of c3
	// does not bring c3 back.
	rev = &Review{Activities: []Activity{
		{ID: "c3", Category: CategoryNote},
		{ID: "r1", Category: CategoryRetract, Addresses: []string{"c3"}},
		{ID: "r2", Category: CategoryRetract, Addresses: []string{"r1"}},
	}}
	visible = rev.VisibleActivities()
	require.Len(t, visible, 1)
	assert.Equal(t, "r2", visible[0].ID)
}

func TestReview_VisibleActivities_NonRetractAddressesDoNotHide(t *testing.T) {
	rev := &Review{Activities: []Activity{
		{ID: "i1", Category: CategoryIssue},
		{ID: "f1", Category: CategoryResolved, Addresses: []string{"i1"}},
	}}

	// A resolution addressing an issue keeps both visible.
	assert.Len(t, rev.VisibleActivities(), 2)
}
