package format

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencodereview/opencodereview/review"
)

func TestRegistry_FromExtension(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		path string
		want Format
	}{
		{"review.yaml", YAML},
		{"review.yml", YAML},
		{"review.JSON", JSON},
		{"dir/review.xml", XML},
		{"review.txt", YAML},
		{"review", YAML},
		{"", YAML},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.FromExtension(tt.path), tt.path)
	}
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"yaml": YAML,
		"yml":  YAML,
		"JSON": JSON,
		" xml": XML,
	} {
		got, err := ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("toml")
	require.Error(t, err)
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestRegistry_Get_Unknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("toml")
	require.Error(t, err)

	_, err = r.Decode("toml", []byte("x = 1"))
	require.Error(t, err)
}

// nestedYAML builds a document whose single activity has replies nested
// the given number of levels deep.
func nestedYAML(depth int) []byte {
	var b strings.Builder
	b.WriteString("activities:\n")
	indent := "  "
	b.WriteString(indent + "- category: note\n")
	for i := 0; i < depth; i++ {
		b.WriteString(indent + "  replies:\n")
		indent += "    "
		b.WriteString(indent + "- category: note\n")
	}
	return []byte(b.String())
}

func TestRegistry_Decode_ReplyDepthLimit(t *testing.T) {
	r := NewRegistry()
	r.SetMaxReplyDepth(5)

	_, err := r.Decode(YAML, nestedYAML(5))
	require.NoError(t, err)

	_, err = r.Decode(YAML, nestedYAML(6))
	require.Error(t, err)
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
	assert.Contains(t, err.Error(), "maximum depth")
}

func TestRegistry_SetMaxReplyDepth_ResetBelowOne(t *testing.T) {
	r := NewRegistry()
	r.SetMaxReplyDepth(0)

	// Back at the default, moderately deep nesting is fine.
	_, err := r.Decode(YAML, nestedYAML(10))
	assert.NoError(t, err)
}

func TestRegistry_Decode_DefaultDepthAccepted(t *testing.T) {
	_, err := Decode(YAML, nestedYAML(DefaultMaxReplyDepth))
	assert.NoError(t, err)

	_, err = Decode(YAML, nestedYAML(DefaultMaxReplyDepth+1))
	assert.Error(t, err)
}

func TestEncode_AllFormatsAgree(t *testing.T) {
	src := review.New()
	src.Subject = &review.Subject{Type: "file", Path: "cmd/main.go"}
	require.NoError(t, src.Append(review.Activity{
		ID:       "a1",
		Category: "praise",
		Content:  "nice and small",
		File:     "cmd/main.go",
		Lines:    []review.LineRange{{Start: 1, End: 20}},
	}))

	for _, f := range []Format{YAML, JSON, XML} {
		t.Run(fmt.Sprint(f), func(t *testing.T) {
			data, err := Encode(f, src)
			require.NoError(t, err)

			got, err := Decode(f, data)
			require.NoError(t, err)

			assert.Equal(t, src.Subject.Path, got.Subject.Path)
			require.Len(t, got.Activities, 1)
			assert.Equal(t, src.Activities[0].Lines, got.Activities[0].Lines)
			assert.Equal(t, src.Activities[0].Content, got.Activities[0].Content)
		})
	}
}
