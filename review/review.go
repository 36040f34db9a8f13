// Package review defines the OpenCodeReview document model: a review
// subject plus an ordered, append-only log of activities, with the
// activity discriminator and the derived read-only views (status,
// reviewers, visible activities).
package review

// DefaultVersion is the format version written when none is set.
const DefaultVersion = "0.1"

// Review is the aggregate root of one review document. The activity
// log is the source of truth; everything else is configuration or
// derived. Reviews are mutated only by appending activities.
type Review struct {
	// Version is the format version.
	Version string `json:"version" yaml:"version"`

	// Subject is the artifact under review.
	Subject *Subject `json:"subject,omitempty" yaml:"subject,omitempty"`

	// Activities is the append-only event log, in insertion order.
	Activities []Activity `json:"activities,omitempty" yaml:"activities,omitempty"`

	// AgentContext carries configuration for AI agents.
	AgentContext *AgentContext `json:"agent_context,omitempty" yaml:"agent_context,omitempty"`

	// Metadata is a free-form key/value mapping.
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// New creates an empty review at the current format version.
func New() *Review {
	return &Review{Version: DefaultVersion}
}

// Append validates the activity, generates IDs where absent, and adds
// it to the log. Existing entries are never edited or removed.
func (r *Review) Append(a Activity) error {
	a.ensureIDs()
	if err := a.Validate(); err != nil {
		return err
	}
	r.Activities = append(r.Activities, a)
	return nil
}

// EnsureIDs generates IDs for any activity (or nested reply) that has
// none. Called by codecs after parsing so every activity can be
// referenced.
func (r *Review) EnsureIDs() {
	for i := range r.Activities {
		r.Activities[i].ensureIDs()
	}
}

// Validate checks the whole document against the schema. It does not
// modify the review.
func (r *Review) Validate() error {
	if r.Subject != nil {
		if err := r.Subject.Validate(); err != nil {
			return err
		}
	}
	for i := range r.Activities {
		if err := r.Activities[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Index builds an id-to-activity lookup over the top-level log.
// Cross-activity references (supersedes, addresses) are weak string
// relations; consumers resolve them through this map on demand.
// Dangling and forward references are legal and simply absent here.
func (r *Review) Index() map[string]*Activity {
	idx := make(map[string]*Activity, len(r.Activities))
	for i := range r.Activities {
		idx[r.Activities[i].ID] = &r.Activities[i]
	}
	return idx
}
