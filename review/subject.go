package review

import (
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Subject types.
const (
	SubjectPatch     = "patch"
	SubjectCommit    = "commit"
	SubjectFile      = "file"
	SubjectDirectory = "directory"
	SubjectAudit     = "audit"
	SubjectSnapshot  = "snapshot"
)

var validSubjectTypes = map[string]bool{
	SubjectPatch:     true,
	SubjectCommit:    true,
	SubjectFile:      true,
	SubjectDirectory: true,
	SubjectAudit:     true,
	SubjectSnapshot:  true,
}

// Subject describes the artifact under review. Only Type is required;
// the remaining fields are a deliberately permissive envelope - any
// field may be set regardless of Type, with no cross-field validation.
type Subject struct {
	// Type is one of patch, commit, file, directory, audit, snapshot.
	Type string `json:"type" yaml:"type"`

	// Name is a display name for the subject.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// URL points at the subject (e.g. a PR page).
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Git object references.
	Commit   string `json:"commit,omitempty" yaml:"commit,omitempty"`
	Tree     string `json:"tree,omitempty" yaml:"tree,omitempty"`
	Blob     string `json:"blob,omitempty" yaml:"blob,omitempty"`
	Checksum string `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	Branch   string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Tag      string `json:"tag,omitempty" yaml:"tag,omitempty"`
	Ref      string `json:"ref,omitempty" yaml:"ref,omitempty"`

	// Provider identifies a hosting service and its reference for the
	// subject (e.g. "github-pr" / "123").
	Provider    string `json:"provider,omitempty" yaml:"provider,omitempty"`
	ProviderRef string `json:"provider_ref,omitempty" yaml:"provider_ref,omitempty"`
	Repo        string `json:"repo,omitempty" yaml:"repo,omitempty"`

	// Comparison endpoints for patch subjects.
	Base       string `json:"base,omitempty" yaml:"base,omitempty"`
	Head       string `json:"head,omitempty" yaml:"head,omitempty"`
	BaseCommit string `json:"base_commit,omitempty" yaml:"base_commit,omitempty"`
	HeadCommit string `json:"head_commit,omitempty" yaml:"head_commit,omitempty"`

	// Path is the file or directory path for file/directory subjects.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Scope lists glob patterns bounding an audit. See InScope.
	Scope []string `json:"scope,omitempty" yaml:"scope,omitempty"`

	// Timestamp is when the subject was captured.
	Timestamp *time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// Validate checks the subject type.
func (s *Subject) Validate() error {
	if s.Type == "" {
		return schemaErrorf("subject.type is required")
	}
	if !validSubjectTypes[s.Type] {
		return schemaErrorf("invalid subject.type %q", s.Type)
	}
	return nil
}

// InScope reports whether path matches the subject's scope patterns.
// Patterns support doublestar globs ("src/**/*.go"). A subject with no
// scope covers everything. Malformed patterns never match.
func (s *Subject) InScope(path string) bool {
	if s == nil || len(s.Scope) == 0 {
		return true
	}
	for _, pattern := range s.Scope {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}
