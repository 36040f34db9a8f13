package format

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/opencodereview/opencodereview/review"
)

// xmlCodec maps reviews to and from XML. XML has no native
// sequence-vs-scalar distinction, so the mapping is explicit:
// activities and replies are containers of <activity>, lines is a
// container of <range>, the flat string sequences get pluralized
// containers with singular children, and everything else is a single
// child element whose text is the scalar value.
//
// Known limitation: empty strings, whitespace-only strings, and
// strings with surrounding whitespace do not round-trip, because
// element-text extraction trims them. Metadata and agent settings are
// written but not read back.
type xmlCodec struct{}

func (xmlCodec) Format() Format {
	return XML
}

func (xmlCodec) Extensions() []string {
	return []string{".xml"}
}

// xmlNode is a generic parsed element tree.
type xmlNode struct {
	XMLName xml.Name
	Text    string    `xml:",chardata"`
	Nodes   []xmlNode `xml:",any"`
}

func (xmlCodec) Parse(data []byte) (*review.Review, error) {
	var root xmlNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, &FormatError{Msg: "invalid XML", Err: err}
	}
	if root.XMLName.Local != "review" {
		return nil, formatErrorf("root element must be <review>, got <%s>", root.XMLName.Local)
	}
	return decodeXMLReview(&root)
}

// xmlText applies the scalar text rules: surrounding whitespace is
// stripped, but a trailing newline in the raw text is preserved as the
// multi-line content marker. ok is false for effectively empty
// elements, whose fields stay unset.
func xmlText(raw string) (value string, ok bool) {
	value = strings.TrimSpace(raw)
	if value == "" {
		return "", false
	}
	if strings.HasSuffix(strings.TrimRight(raw, " \t"), "\n") {
		value += "\n"
	}
	return value, true
}

// xmlStringList collects the text of children with the given tag,
// skipping empty ones.
func xmlStringList(n *xmlNode, childTag string) []string {
	var out []string
	for i := range n.Nodes {
		c := &n.Nodes[i]
		if c.XMLName.Local == childTag && c.Text != "" {
			out = append(out, c.Text)
		}
	}
	return out
}

func xmlBool(tag, value string) (*bool, error) {
	switch strings.ToLower(value) {
	case "true":
		b := true
		return &b, nil
	case "false":
		b := false
		return &b, nil
	default:
		return nil, &review.SchemaError{Msg: "invalid boolean for " + tag + ": " + strconv.Quote(value)}
	}
}

func xmlInt(tag, value string) (int, error) {
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, &review.SchemaError{Msg: "invalid integer for " + tag + ": " + strconv.Quote(value)}
	}
	return i, nil
}

// xmlTimeLayouts are the ISO-8601 shapes accepted on read. Writing
// always emits RFC 3339.
var xmlTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func xmlTime(tag, value string) (*time.Time, error) {
	for _, layout := range xmlTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, &review.SchemaError{Msg: "invalid timestamp for " + tag + ": " + strconv.Quote(value)}
}

func decodeXMLReview(root *xmlNode) (*review.Review, error) {
	rev := &review.Review{}
	for i := range root.Nodes {
		c := &root.Nodes[i]
		switch c.XMLName.Local {
		case "activities":
			for j := range c.Nodes {
				a := &c.Nodes[j]
				if a.XMLName.Local != "activity" {
					continue
				}
				act, err := decodeXMLActivity(a)
				if err != nil {
					return nil, err
				}
				rev.Activities = append(rev.Activities, act)
			}
		case "subject":
			sub, err := decodeXMLSubject(c)
			if err != nil {
				return nil, err
			}
			rev.Subject = sub
		case "agent_context":
			rev.AgentContext = decodeXMLAgentContext(c)
		case "version":
			if v, ok := xmlText(c.Text); ok {
				rev.Version = v
			}
		default:
			// Unknown elements (including metadata, which is
			// write-only in XML) are ignored.
		}
	}
	return rev, nil
}

func decodeXMLActivity(n *xmlNode) (review.Activity, error) {
	var a review.Activity
	for i := range n.Nodes {
		c := &n.Nodes[i]
		tag := c.XMLName.Local
		switch tag {
		case "author":
			a.Author = decodeXMLAuthor(c)
		case "location":
			loc, err := decodeXMLLocation(c)
			if err != nil {
				return a, err
			}
			a.Location = loc
		case "selector":
			a.Selector = decodeXMLSelector(c)
		case "replies":
			for j := range c.Nodes {
				r := &c.Nodes[j]
				if r.XMLName.Local != "activity" {
					continue
				}
				reply, err := decodeXMLActivity(r)
				if err != nil {
					return a, err
				}
				a.Replies = append(a.Replies, reply)
			}
		case "lines":
			lines, err := decodeXMLLines(c)
			if err != nil {
				return a, err
			}
			a.Lines = lines
		case "mentions":
			a.Mentions = xmlStringList(c, "mention")
		case "supersedes":
			a.Supersedes = xmlStringList(c, "id")
		case "addresses":
			a.Addresses = xmlStringList(c, "id")
		case "conditions":
			a.Conditions = xmlStringList(c, "condition")
		default:
			value, ok := xmlText(c.Text)
			if !ok {
				continue
			}
			var err error
			switch tag {
			case "id":
				a.ID = value
			case "category":
				a.Category = value
			case "content":
				a.Content = value
			case "context":
				a.Context = value
			case "severity":
				a.Severity = value
			case "file":
				a.File = value
			case "deleted":
				a.Deleted, err = xmlBool(tag, value)
			case "column":
				a.Column, err = xmlInt(tag, value)
			case "column_end":
				a.ColumnEnd, err = xmlInt(tag, value)
			case "created":
				a.Created, err = xmlTime(tag, value)
			}
			if err != nil {
				return a, err
			}
		}
	}
	return a, nil
}

func decodeXMLLines(n *xmlNode) ([]review.LineRange, error) {
	var lines []review.LineRange
	for i := range n.Nodes {
		r := &n.Nodes[i]
		if r.XMLName.Local != "range" {
			continue
		}
		var startText, endText string
		for j := range r.Nodes {
			c := &r.Nodes[j]
			switch c.XMLName.Local {
			case "start":
				startText = strings.TrimSpace(c.Text)
			case "end":
				endText = strings.TrimSpace(c.Text)
			}
		}
		// Ranges missing either bound are skipped, not rejected.
		if startText == "" || endText == "" {
			continue
		}
		start, err := xmlInt("range start", startText)
		if err != nil {
			return nil, err
		}
		end, err := xmlInt("range end", endText)
		if err != nil {
			return nil, err
		}
		lines = append(lines, review.LineRange{Start: start, End: end})
	}
	return lines, nil
}

func decodeXMLAuthor(n *xmlNode) *review.Author {
	a := &review.Author{}
	for i := range n.Nodes {
		c := &n.Nodes[i]
		value, ok := xmlText(c.Text)
		if !ok {
			continue
		}
		switch c.XMLName.Local {
		case "name":
			a.Name = value
		case "email":
			a.Email = value
		case "type":
			a.Type = value
		case "model":
			a.Model = value
		case "version":
			a.Version = value
		}
	}
	return a
}

func decodeXMLSelector(n *xmlNode) *review.Selector {
	s := &review.Selector{}
	for i := range n.Nodes {
		c := &n.Nodes[i]
		value, ok := xmlText(c.Text)
		if !ok {
			continue
		}
		switch c.XMLName.Local {
		case "type":
			s.Type = value
		case "path":
			s.Path = value
		}
	}
	return s
}

func decodeXMLLocation(n *xmlNode) (*review.Location, error) {
	loc := &review.Location{}
	for i := range n.Nodes {
		c := &n.Nodes[i]
		tag := c.XMLName.Local
		switch tag {
		case "lines":
			lines, err := decodeXMLLines(c)
			if err != nil {
				return nil, err
			}
			loc.Lines = lines
		case "selector":
			loc.Selector = decodeXMLSelector(c)
		default:
			value, ok := xmlText(c.Text)
			if !ok {
				continue
			}
			var err error
			switch tag {
			case "file":
				loc.File = value
			case "deleted":
				loc.Deleted, err = xmlBool(tag, value)
			case "column":
				loc.Column, err = xmlInt(tag, value)
			case "column_end":
				loc.ColumnEnd, err = xmlInt(tag, value)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return loc, nil
}

func decodeXMLSubject(n *xmlNode) (*review.Subject, error) {
	s := &review.Subject{}
	for i := range n.Nodes {
		c := &n.Nodes[i]
		tag := c.XMLName.Local
		if tag == "scope" {
			s.Scope = xmlStringList(c, "pattern")
			continue
		}
		value, ok := xmlText(c.Text)
		if !ok {
			continue
		}
		var err error
		switch tag {
		case "type":
			s.Type = value
		case "name":
			s.Name = value
		case "url":
			s.URL = value
		case "commit":
			s.Commit = value
		case "tree":
			s.Tree = value
		case "blob":
			s.Blob = value
		case "checksum":
			s.Checksum = value
		case "branch":
			s.Branch = value
		case "tag":
			s.Tag = value
		case "ref":
			s.Ref = value
		case "provider":
			s.Provider = value
		case "provider_ref":
			s.ProviderRef = value
		case "repo":
			s.Repo = value
		case "base":
			s.Base = value
		case "head":
			s.Head = value
		case "base_commit":
			s.BaseCommit = value
		case "head_commit":
			s.HeadCommit = value
		case "path":
			s.Path = value
		case "timestamp":
			s.Timestamp, err = xmlTime(tag, value)
		}
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func decodeXMLAgentContext(n *xmlNode) *review.AgentContext {
	ac := &review.AgentContext{}
	for i := range n.Nodes {
		c := &n.Nodes[i]
		value, ok := xmlText(c.Text)
		if !ok {
			continue
		}
		switch c.XMLName.Local {
		case "instructions":
			ac.Instructions = value
		case "diff":
			ac.Diff = value
		}
	}
	return ac
}
