package format

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/opencodereview/opencodereview/review"
)

// xmlElem is the element tree built on write. It mirrors the read-side
// mapping exactly: same container and child tag names.
type xmlElem struct {
	name     string
	text     string
	children []*xmlElem
}

func newXMLElem(name string) *xmlElem {
	return &xmlElem{name: name}
}

// child appends and returns a new child element.
func (e *xmlElem) child(name string) *xmlElem {
	c := newXMLElem(name)
	e.children = append(e.children, c)
	return c
}

// scalar appends a text-only child element.
func (e *xmlElem) scalar(name, text string) {
	e.children = append(e.children, &xmlElem{name: name, text: text})
}

// add appends an existing element.
func (e *xmlElem) add(c *xmlElem) {
	e.children = append(e.children, c)
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// render writes the element with two-space indentation. Text content
// is escaped but kept inline, newlines included, so multi-line content
// survives with its trailing-newline marker.
func (e *xmlElem) render(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	switch {
	case len(e.children) > 0:
		b.WriteString(indent + "<" + e.name + ">\n")
		for _, c := range e.children {
			c.render(b, depth+1)
		}
		b.WriteString(indent + "</" + e.name + ">\n")
	case e.text != "":
		b.WriteString(indent + "<" + e.name + ">" + xmlEscaper.Replace(e.text) + "</" + e.name + ">\n")
	default:
		b.WriteString(indent + "<" + e.name + " />\n")
	}
}

func (xmlCodec) Render(rev *review.Review) ([]byte, error) {
	root := encodeXMLReview(rev)
	var b strings.Builder
	b.WriteString(xml.Header)
	root.render(&b, 0)
	return []byte(b.String()), nil
}

func encodeXMLReview(rev *review.Review) *xmlElem {
	root := newXMLElem("review")
	if rev.Version != "" {
		root.scalar("version", rev.Version)
	}
	if rev.Subject != nil {
		root.add(encodeXMLSubject(rev.Subject))
	}
	if len(rev.Activities) > 0 {
		activities := root.child("activities")
		for i := range rev.Activities {
			activities.add(encodeXMLActivity(&rev.Activities[i]))
		}
	}
	if rev.AgentContext != nil {
		root.add(encodeXMLAgentContext(rev.AgentContext))
	}
	if len(rev.Metadata) > 0 {
		encodeXMLAny(root, "metadata", rev.Metadata)
	}
	return root
}

func encodeXMLActivity(a *review.Activity) *xmlElem {
	e := newXMLElem("activity")
	if a.ID != "" {
		e.scalar("id", a.ID)
	}
	if a.Author != nil {
		e.add(encodeXMLAuthor(a.Author))
	}
	if a.Category != "" {
		e.scalar("category", a.Category)
	}
	if a.Content != "" {
		e.scalar("content", a.Content)
	}
	if a.Location != nil {
		e.add(encodeXMLLocation(a.Location))
	}
	if a.File != "" {
		e.scalar("file", a.File)
	}
	encodeXMLLines(e, a.Lines)
	if a.Deleted != nil {
		e.scalar("deleted", strconv.FormatBool(*a.Deleted))
	}
	if a.Column > 0 {
		e.scalar("column", strconv.Itoa(a.Column))
	}
	if a.ColumnEnd > 0 {
		e.scalar("column_end", strconv.Itoa(a.ColumnEnd))
	}
	if a.Selector != nil {
		e.add(encodeXMLSelector(a.Selector))
	}
	if a.Context != "" {
		e.scalar("context", a.Context)
	}
	if len(a.Replies) > 0 {
		replies := e.child("replies")
		for i := range a.Replies {
			replies.add(encodeXMLActivity(&a.Replies[i]))
		}
	}
	if a.Created != nil {
		e.scalar("created", a.Created.Format(time.RFC3339))
	}
	encodeXMLStrings(e, "mentions", "mention", a.Mentions)
	encodeXMLStrings(e, "supersedes", "id", a.Supersedes)
	encodeXMLStrings(e, "addresses", "id", a.Addresses)
	if a.Severity != "" {
		e.scalar("severity", a.Severity)
	}
	encodeXMLStrings(e, "conditions", "condition", a.Conditions)
	return e
}

// encodeXMLStrings writes a pluralized container of singular children,
// e.g. <mentions><mention>@alice</mention></mentions>.
func encodeXMLStrings(parent *xmlElem, containerTag, childTag string, values []string) {
	if len(values) == 0 {
		return
	}
	container := parent.child(containerTag)
	for _, v := range values {
		container.scalar(childTag, v)
	}
}

func encodeXMLLines(parent *xmlElem, lines []review.LineRange) {
	if len(lines) == 0 {
		return
	}
	container := parent.child("lines")
	for _, lr := range lines {
		r := container.child("range")
		r.scalar("start", strconv.Itoa(lr.Start))
		r.scalar("end", strconv.Itoa(lr.End))
	}
}

func encodeXMLAuthor(a *review.Author) *xmlElem {
	e := newXMLElem("author")
	e.scalar("name", a.Name)
	if a.Email != "" {
		e.scalar("email", a.Email)
	}
	if a.Type != "" {
		e.scalar("type", a.Type)
	}
	if a.Model != "" {
		e.scalar("model", a.Model)
	}
	if a.Version != "" {
		e.scalar("version", a.Version)
	}
	return e
}

func encodeXMLSelector(s *review.Selector) *xmlElem {
	e := newXMLElem("selector")
	if s.Type != "" {
		e.scalar("type", s.Type)
	}
	if s.Path != "" {
		e.scalar("path", s.Path)
	}
	return e
}

func encodeXMLLocation(l *review.Location) *xmlElem {
	e := newXMLElem("location")
	if l.File != "" {
		e.scalar("file", l.File)
	}
	encodeXMLLines(e, l.Lines)
	if l.Selector != nil {
		e.add(encodeXMLSelector(l.Selector))
	}
	if l.Deleted != nil {
		e.scalar("deleted", strconv.FormatBool(*l.Deleted))
	}
	if l.Column > 0 {
		e.scalar("column", strconv.Itoa(l.Column))
	}
	if l.ColumnEnd > 0 {
		e.scalar("column_end", strconv.Itoa(l.ColumnEnd))
	}
	return e
}

func encodeXMLSubject(s *review.Subject) *xmlElem {
	e := newXMLElem("subject")
	e.scalar("type", s.Type)
	for _, f := range []struct{ tag, value string }{
		{"name", s.Name},
		{"url", s.URL},
		{"commit", s.Commit},
		{"tree", s.Tree},
		{"blob", s.Blob},
		{"checksum", s.Checksum},
		{"branch", s.Branch},
		{"tag", s.Tag},
		{"ref", s.Ref},
		{"provider", s.Provider},
		{"provider_ref", s.ProviderRef},
		{"repo", s.Repo},
		{"base", s.Base},
		{"head", s.Head},
		{"base_commit", s.BaseCommit},
		{"head_commit", s.HeadCommit},
		{"path", s.Path},
	} {
		if f.value != "" {
			e.scalar(f.tag, f.value)
		}
	}
	encodeXMLStrings(e, "scope", "pattern", s.Scope)
	if s.Timestamp != nil {
		e.scalar("timestamp", s.Timestamp.Format(time.RFC3339))
	}
	return e
}

func encodeXMLAgentContext(ac *review.AgentContext) *xmlElem {
	e := newXMLElem("agent_context")
	if ac.Instructions != "" {
		e.scalar("instructions", ac.Instructions)
	}
	if ac.Diff != "" {
		e.scalar("diff", ac.Diff)
	}
	if len(ac.Settings) > 0 {
		encodeXMLAny(e, "settings", ac.Settings)
	}
	return e
}

// encodeXMLAny writes untyped mappings (metadata, agent settings)
// generically: maps nest, list items become <item> children, scalars
// become text. These shapes are write-only in XML; the read side drops
// them, which is the format's documented lossiness for untyped data.
func encodeXMLAny(parent *xmlElem, key string, value any) {
	switch v := value.(type) {
	case nil:
		return
	case map[string]any:
		child := parent.child(key)
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			encodeXMLAny(child, k, v[k])
		}
	case []any:
		child := parent.child(key)
		for _, item := range v {
			encodeXMLAny(child, "item", item)
		}
	default:
		parent.scalar(key, fmt.Sprint(v))
	}
}
