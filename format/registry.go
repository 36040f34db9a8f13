// Package format implements the codecs between the review model and
// its textual serializations: YAML, JSON, and XML. All three agree on
// the same logical tree; the registry dispatches by format identifier
// or file extension.
package format

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/opencodereview/opencodereview/review"
)

// Format identifies a serialization.
type Format string

// Supported formats.
const (
	YAML Format = "yaml"
	JSON Format = "json"
	XML  Format = "xml"
)

// DefaultMaxReplyDepth bounds reply nesting accepted on decode.
const DefaultMaxReplyDepth = 64

// Codec translates between review documents and one serialization.
// Parse and Render are purely structural; validation, ID generation,
// and the reply-depth guard happen in Registry.Decode.
type Codec interface {
	// Format returns the format identifier.
	Format() Format

	// Extensions returns the file extensions (with dot) this codec
	// claims.
	Extensions() []string

	// Parse decodes source text into an unvalidated review.
	Parse(data []byte) (*review.Review, error)

	// Render encodes a review as text.
	Render(rev *review.Review) ([]byte, error)
}

// Registry manages codecs and decode policy.
type Registry struct {
	mu            sync.RWMutex
	codecs        map[Format]Codec
	byExt         map[string]Format
	maxReplyDepth int
}

// DefaultRegistry is the global registry with all built-in codecs.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry with the built-in codecs registered.
func NewRegistry() *Registry {
	r := &Registry{
		codecs:        make(map[Format]Codec),
		byExt:         make(map[string]Format),
		maxReplyDepth: DefaultMaxReplyDepth,
	}

	r.Register(yamlCodec{})
	r.Register(jsonCodec{})
	r.Register(xmlCodec{})

	return r
}

// Register adds a codec to the registry.
func (r *Registry) Register(c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[c.Format()] = c
	for _, ext := range c.Extensions() {
		r.byExt[ext] = c.Format()
	}
}

// SetMaxReplyDepth adjusts the reply nesting bound applied on decode.
// Values below 1 reset it to the default.
func (r *Registry) SetMaxReplyDepth(depth int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if depth < 1 {
		depth = DefaultMaxReplyDepth
	}
	r.maxReplyDepth = depth
}

// Get returns the codec for a format.
func (r *Registry) Get(f Format) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[f]
	if !ok {
		return nil, formatErrorf("unsupported format: %q", f)
	}
	return c, nil
}

// FromExtension infers the format from a path's extension. Unknown
// extensions fall back to YAML, the default serialization.
func (r *Registry) FromExtension(path string) Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.byExt[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return YAML
}

// Decode parses source text and finalizes the result: the reply-depth
// guard, generated IDs for activities without one, schema validation,
// and the version default. Syntax problems surface as FormatError,
// schema problems as SchemaError.
func (r *Registry) Decode(f Format, data []byte) (*review.Review, error) {
	c, err := r.Get(f)
	if err != nil {
		return nil, err
	}

	rev, err := c.Parse(data)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	maxDepth := r.maxReplyDepth
	r.mu.RUnlock()
	if err := checkReplyDepth(rev.Activities, maxDepth); err != nil {
		return nil, err
	}

	rev.EnsureIDs()
	if err := rev.Validate(); err != nil {
		return nil, err
	}
	if rev.Version == "" {
		rev.Version = review.DefaultVersion
	}
	return rev, nil
}

// Encode serializes a review. Unset optional fields are omitted.
func (r *Registry) Encode(f Format, rev *review.Review) ([]byte, error) {
	c, err := r.Get(f)
	if err != nil {
		return nil, err
	}
	return c.Render(rev)
}

// Decode decodes via the default registry.
func Decode(f Format, data []byte) (*review.Review, error) {
	return DefaultRegistry.Decode(f, data)
}

// Encode encodes via the default registry.
func Encode(f Format, rev *review.Review) ([]byte, error) {
	return DefaultRegistry.Encode(f, rev)
}

// FromExtension infers a format from a path via the default registry.
func FromExtension(path string) Format {
	return DefaultRegistry.FromExtension(path)
}

// ParseFormat resolves a user-supplied format name ("yaml", "yml",
// "json", "xml") to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	case "xml":
		return XML, nil
	default:
		return "", formatErrorf("unsupported format: %q", name)
	}
}

// checkReplyDepth rejects reply nesting deeper than limit levels. The
// recursion is bounded by the limit itself, so adversarial documents
// cannot grow the stack past it.
func checkReplyDepth(activities []review.Activity, limit int) error {
	if len(activities) == 0 {
		return nil
	}
	if limit < 0 {
		return formatErrorf("reply nesting exceeds the maximum depth")
	}
	for i := range activities {
		if err := checkReplyDepth(activities[i].Replies, limit-1); err != nil {
			return err
		}
	}
	return nil
}
