package review

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// AuthorTypeAgent marks an author as an AI agent. Absence of a type
// means the author is human.
const AuthorTypeAgent = "agent"

// Author identifies who recorded an activity - a human or an AI agent.
type Author struct {
	// Name is the display name. Required.
	Name string `json:"name" yaml:"name"`

	// Email is an optional contact address.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Type is "agent" for AI authors; empty means human.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Model names the underlying model for agent authors.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// Version is the agent version. Only meaningful when Type is "agent".
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// IsAgent reports whether the author is an AI agent.
func (a *Author) IsAgent() bool {
	return a != nil && a.Type == AuthorTypeAgent
}

// Validate checks the author's required fields.
func (a *Author) Validate() error {
	if a.Name == "" {
		return schemaErrorf("author.name is required")
	}
	if a.Type != "" && a.Type != AuthorTypeAgent {
		return schemaErrorf("author.type must be %q or absent, got %q", AuthorTypeAgent, a.Type)
	}
	return nil
}

// Selector is a semantic, non-line-based code reference, e.g. a symbol
// name or an AST path.
type Selector struct {
	// Type names the selector scheme (e.g. "symbol", "ast", "lsp").
	Type string `json:"type" yaml:"type"`

	// Path is the scheme-specific reference.
	Path string `json:"path" yaml:"path"`
}

// LineRange is a 1-based inclusive (start, end) line pair. On the wire
// it is a two-element integer sequence: [start, end].
type LineRange struct {
	Start int
	End   int
}

// Validate checks the range bounds.
func (r LineRange) Validate() error {
	if r.Start < 1 {
		return schemaErrorf("line range start must be >= 1, got %d", r.Start)
	}
	if r.End < r.Start {
		return schemaErrorf("line range end %d is before start %d", r.End, r.Start)
	}
	return nil
}

// MarshalJSON emits the range as [start, end].
func (r LineRange) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("[%d,%d]", r.Start, r.End)), nil
}

// UnmarshalJSON reads a [start, end] pair.
func (r *LineRange) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return schemaErrorf("line range must be a [start, end] integer pair: %v", err)
	}
	if len(pair) != 2 {
		return schemaErrorf("line range must have exactly 2 elements, got %d", len(pair))
	}
	r.Start, r.End = pair[0], pair[1]
	return nil
}

// MarshalYAML emits the range as a flow-style [start, end] sequence.
func (r LineRange) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.SequenceNode,
		Style: yaml.FlowStyle,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(r.Start)},
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(r.End)},
		},
	}, nil
}

// UnmarshalYAML reads a [start, end] pair.
func (r *LineRange) UnmarshalYAML(value *yaml.Node) error {
	var pair []int
	if err := value.Decode(&pair); err != nil {
		return schemaErrorf("line range must be a [start, end] integer pair: %v", err)
	}
	if len(pair) != 2 {
		return schemaErrorf("line range must have exactly 2 elements, got %d", len(pair))
	}
	r.Start, r.End = pair[0], pair[1]
	return nil
}

// Location says where in the code an activity applies. A Location is
// meaningful only if at least one of File, Lines, or Selector is set;
// an all-zero Location is treated as absent by EffectiveLocation.
type Location struct {
	// File is the path of the file under discussion.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// Lines are 1-based inclusive ranges. They may overlap or be
	// unordered; no dedup is applied.
	Lines []LineRange `json:"lines,omitempty" yaml:"lines,omitempty"`

	// Selector is a semantic reference into the file.
	Selector *Selector `json:"selector,omitempty" yaml:"selector,omitempty"`

	// Deleted marks a location in removed code.
	Deleted *bool `json:"deleted,omitempty" yaml:"deleted,omitempty"`

	// Column and ColumnEnd are optional 1-based column bounds.
	Column    int `json:"column,omitempty" yaml:"column,omitempty"`
	ColumnEnd int `json:"column_end,omitempty" yaml:"column_end,omitempty"`
}

// IsZero reports whether no field of the location is set.
func (l *Location) IsZero() bool {
	return l == nil ||
		(l.File == "" && len(l.Lines) == 0 && l.Selector == nil &&
			l.Deleted == nil && l.Column == 0 && l.ColumnEnd == 0)
}

// Validate checks line and column bounds.
func (l *Location) Validate() error {
	for _, lr := range l.Lines {
		if err := lr.Validate(); err != nil {
			return err
		}
	}
	if l.Column < 0 || l.ColumnEnd < 0 {
		return schemaErrorf("columns are 1-based and must be positive")
	}
	if l.Column > 0 && l.ColumnEnd > 0 && l.ColumnEnd < l.Column {
		return schemaErrorf("column_end %d is before column %d", l.ColumnEnd, l.Column)
	}
	return nil
}

// AgentContext carries agent-specific configuration, not review content.
type AgentContext struct {
	// Instructions is free text guidance for the agent.
	Instructions string `json:"instructions,omitempty" yaml:"instructions,omitempty"`

	// Diff is the change under review, as free text.
	Diff string `json:"diff,omitempty" yaml:"diff,omitempty"`

	// Settings is an untyped key/value mapping.
	Settings map[string]any `json:"settings,omitempty" yaml:"settings,omitempty"`
}
