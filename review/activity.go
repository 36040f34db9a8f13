package review

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Variant is the closed set of activity kinds. The Category string on
// an Activity is the wire-level discriminator; Variant is its decoded
// form.
type Variant int

// Activity variants, selected by category (see VariantOf).
const (
	VariantUnknown Variant = iota
	VariantComment
	VariantReviewMark
	VariantResolution
	VariantRetraction
	VariantMention
	VariantAssignment
	VariantStatusChange
	VariantVerdict
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case VariantComment:
		return "comment"
	case VariantReviewMark:
		return "review_mark"
	case VariantResolution:
		return "resolution"
	case VariantRetraction:
		return "retraction"
	case VariantMention:
		return "mention"
	case VariantAssignment:
		return "assignment"
	case VariantStatusChange:
		return "status_change"
	case VariantVerdict:
		return "verdict"
	default:
		return "unknown"
	}
}

// Known category values.
const (
	CategoryNote       = "note"
	CategorySuggestion = "suggestion"
	CategoryIssue      = "issue"
	CategoryPraise     = "praise"
	CategoryQuestion   = "question"
	CategoryTask       = "task"
	CategorySecurity   = "security"

	CategoryReviewed = "reviewed"
	CategoryIgnored  = "ignored"

	CategoryResolved = "resolved"
	CategoryRetract  = "retract"
	CategoryMention  = "mention"
	CategoryAssigned = "assigned"

	CategoryClosed   = "closed"
	CategoryMerged   = "merged"
	CategoryReopened = "reopened"

	CategoryApproved         = "approved"
	CategoryChangesRequested = "changes_requested"
	CategoryCommented        = "commented"
	CategoryPending          = "pending"
)

// variantByCategory is the single exhaustive category-to-variant table.
var variantByCategory = map[string]Variant{
	CategoryNote:       VariantComment,
	CategorySuggestion: VariantComment,
	CategoryIssue:      VariantComment,
	CategoryPraise:     VariantComment,
	CategoryQuestion:   VariantComment,
	CategoryTask:       VariantComment,
	CategorySecurity:   VariantComment,

	CategoryReviewed: VariantReviewMark,
	CategoryIgnored:  VariantReviewMark,

	CategoryResolved: VariantResolution,
	CategoryRetract:  VariantRetraction,
	CategoryMention:  VariantMention,
	CategoryAssigned: VariantAssignment,

	CategoryClosed:   VariantStatusChange,
	CategoryMerged:   VariantStatusChange,
	CategoryReopened: VariantStatusChange,

	CategoryApproved:         VariantVerdict,
	CategoryChangesRequested: VariantVerdict,
	CategoryCommented:        VariantVerdict,
	CategoryPending:          VariantVerdict,
}

// VariantOf maps a category tag to its variant. ok is false for
// unknown categories.
func VariantOf(category string) (v Variant, ok bool) {
	v, ok = variantByCategory[category]
	return v, ok
}

// Categories returns all known category values, sorted.
func Categories() []string {
	cats := make([]string, 0, len(variantByCategory))
	for c := range variantByCategory {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// Severity levels for issue- and security-flavored comments.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

var validSeverities = map[string]bool{
	SeverityInfo:     true,
	SeverityWarning:  true,
	SeverityError:    true,
	SeverityCritical: true,
}

// Activity is one entry in a review's append-only log. Activities are
// never edited or removed once recorded; corrections are new
// activities that reference old ones by ID (supersedes/addresses).
type Activity struct {
	// ID is unique within a review. Generated if absent at
	// construction or decode time.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Author is who recorded the activity.
	Author *Author `json:"author,omitempty" yaml:"author,omitempty"`

	// Category is the discriminator selecting the variant.
	Category string `json:"category" yaml:"category"`

	// Content is free, markdown-flavored text.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// Location is the structured form of where the activity applies.
	Location *Location `json:"location,omitempty" yaml:"location,omitempty"`

	// Flat location fields, an ergonomic alternative to Location for
	// simple cases. EffectiveLocation normalizes between the two.
	File      string      `json:"file,omitempty" yaml:"file,omitempty"`
	Lines     []LineRange `json:"lines,omitempty" yaml:"lines,omitempty"`
	Deleted   *bool       `json:"deleted,omitempty" yaml:"deleted,omitempty"`
	Column    int         `json:"column,omitempty" yaml:"column,omitempty"`
	ColumnEnd int         `json:"column_end,omitempty" yaml:"column_end,omitempty"`
	Selector  *Selector   `json:"selector,omitempty" yaml:"selector,omitempty"`

	// Context is surrounding commentary, unrelated to location.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`

	// Replies are nested activities forming a conversation thread.
	Replies []Activity `json:"replies,omitempty" yaml:"replies,omitempty"`

	// Created is when the activity was recorded.
	Created *time.Time `json:"created,omitempty" yaml:"created,omitempty"`

	// Mentions are "@"-prefixed references to people, roles, or agents.
	Mentions []string `json:"mentions,omitempty" yaml:"mentions,omitempty"`

	// Supersedes lists IDs of activities this one replaces. Superseded
	// activities are hidden from default views but not deleted.
	Supersedes []string `json:"supersedes,omitempty" yaml:"supersedes,omitempty"`

	// Addresses lists IDs of activities this one is about, e.g. a
	// resolution addressing an issue.
	Addresses []string `json:"addresses,omitempty" yaml:"addresses,omitempty"`

	// Severity is one of info/warning/error/critical. Only meaningful
	// for issue and security comments.
	Severity string `json:"severity,omitempty" yaml:"severity,omitempty"`

	// Conditions are free-text requirements for pending verdicts.
	Conditions []string `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// NewActivity creates an activity with the given category and a
// generated ID.
func NewActivity(category string) Activity {
	return Activity{
		ID:       uuid.NewString(),
		Category: category,
	}
}

// Variant returns the activity's variant, or VariantUnknown for an
// unknown category.
func (a *Activity) Variant() Variant {
	return variantByCategory[a.Category]
}

// EffectiveLocation normalizes the flat-vs-structured location
// duality: a non-empty Location wins; otherwise a Location is
// synthesized from the flat fields. Returns nil when neither carries a
// meaningful location (one of file, lines, selector).
func (a *Activity) EffectiveLocation() *Location {
	if !a.Location.IsZero() {
		return a.Location
	}
	if a.File == "" && len(a.Lines) == 0 && a.Selector == nil {
		return nil
	}
	return &Location{
		File:      a.File,
		Lines:     a.Lines,
		Selector:  a.Selector,
		Deleted:   a.Deleted,
		Column:    a.Column,
		ColumnEnd: a.ColumnEnd,
	}
}

// Validate checks the activity and its replies against the schema:
// known category, variant-required fields, severity enum, and line and
// column bounds.
func (a *Activity) Validate() error {
	if a.Category == "" {
		return schemaErrorf("activity %s: category is required", a.describe())
	}
	v, ok := VariantOf(a.Category)
	if !ok {
		return schemaErrorf("activity %s: unknown category %q", a.describe(), a.Category)
	}
	switch v {
	case VariantRetraction:
		if len(a.Addresses) == 0 {
			return schemaErrorf("activity %s: retract requires at least one addresses entry", a.describe())
		}
	case VariantMention, VariantAssignment:
		if len(a.Mentions) == 0 {
			return schemaErrorf("activity %s: %s requires at least one mentions entry", a.describe(), a.Category)
		}
	}
	if a.Severity != "" && !validSeverities[a.Severity] {
		return schemaErrorf("activity %s: invalid severity %q", a.describe(), a.Severity)
	}
	if a.Author != nil {
		if err := a.Author.Validate(); err != nil {
			return err
		}
	}
	if a.Location != nil {
		if err := a.Location.Validate(); err != nil {
			return err
		}
	}
	for _, lr := range a.Lines {
		if err := lr.Validate(); err != nil {
			return err
		}
	}
	if a.Column > 0 && a.ColumnEnd > 0 && a.ColumnEnd < a.Column {
		return schemaErrorf("activity %s: column_end %d is before column %d", a.describe(), a.ColumnEnd, a.Column)
	}
	for i := range a.Replies {
		if err := a.Replies[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// describe identifies the activity in error messages.
func (a *Activity) describe() string {
	if a.ID != "" {
		return a.ID
	}
	return "(no id)"
}

// ensureIDs fills in generated IDs for the activity and its replies.
func (a *Activity) ensureIDs() {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	for i := range a.Replies {
		a.Replies[i].ensureIDs()
	}
}
