package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject_Validate(t *testing.T) {
	for _, typ := range []string{"patch", "commit", "file", "directory", "audit", "snapshot"} {
		assert.NoError(t, (&Subject{Type: typ}).Validate(), typ)
	}

	err := (&Subject{}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subject.type is required")

	err = (&Subject{Type: "merge-request"}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid subject.type")
}

func TestSubject_InScope(t *testing.T) {
	tests := []struct {
		name  string
		scope []string
		path  string
		want  bool
	}{
		{"no scope matches everything", nil, "anything/at/all.txt", true},
		{"exact match", []string{"main.go"}, "main.go", true},
		{"star within segment", []string{"src/*.go"}, "src/main.go", true},
		{"star does not cross separators", []string{"src/*.go"}, "src/sub/main.go", false},
		{"doublestar crosses separators", []string{"src/**/*.go"}, "src/a/b/c.go", true},
		{"any of several patterns", []string{"docs/**", "src/**"}, "src/x.go", true},
		{"none match", []string{"docs/**"}, "src/x.go", false},
		{"malformed pattern never matches", []string{"[unclosed"}, "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Subject{Type: SubjectAudit, Scope: tt.scope}
			assert.Equal(t, tt.want, s.InScope(tt.path))
		})
	}

	var nilSubject *Subject
	assert.True(t, nilSubject.InScope("anything"))
}
