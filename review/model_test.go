package review

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAuthor_IsAgent(t *testing.T) {
	assert.False(t, (&Author{Name: "Alice"}).IsAgent())
	assert.True(t, (&Author{Name: "Reviewer Bot", Type: "agent"}).IsAgent())

	var a *Author
	assert.False(t, a.IsAgent())
}

func TestAuthor_Validate(t *testing.T) {
	assert.NoError(t, (&Author{Name: "Alice"}).Validate())
	assert.NoError(t, (&Author{Name: "Bot", Type: "agent", Model: "gpt"}).Validate())

	err := (&Author{}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "author.name is required")

	err = (&Author{Name: "Alice", Type: "robot"}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "author.type")
}

func TestLineRange_Validate(t *testing.T) {
	assert.NoError(t, LineRange{Start: 1, End: 1}.Validate())
	assert.NoError(t, LineRange{Start: 3, End: 10}.Validate())
	assert.Error(t, LineRange{Start: 0, End: 5}.Validate())
	assert.Error(t, LineRange{Start: -2, End: -1}.Validate())
	assert.Error(t, LineRange{Start: 5, End: 4}.Validate())
}

func TestLineRange_JSON(t *testing.T) {
	data, err := json.Marshal(LineRange{Start: 3, End: 7})
	require.NoError(t, err)
	assert.Equal(t, "[3,7]", string(data))

	var r LineRange
	require.NoError(t, json.Unmarshal([]byte("[10, 12]"), &r))
	assert.Equal(t, LineRange{Start: 10, End: 12}, r)

	err = json.Unmarshal([]byte(`[1]`), &r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly 2 elements")

	err = json.Unmarshal([]byte(`"1-2"`), &r)
	require.Error(t, err)

	var schemaErr *SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestLineRange_YAML(t *testing.T) {
	data, err := yaml.Marshal(LineRange{Start: 3, End: 7})
	require.NoError(t, err)
	assert.Equal(t, "[3, 7]\n", string(data))

	var r LineRange
	require.NoError(t, yaml.Unmarshal([]byte("[10, 12]"), &r))
	assert.Equal(t, LineRange{Start: 10, End: 12}, r)

	err = yaml.Unmarshal([]byte("[1, 2, 3]"), &r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly 2 elements")
}

func TestLocation_IsZero(t *testing.T) {
	var nilLoc *Location
	assert.True(t, nilLoc.IsZero())
	assert.True(t, (&Location{}).IsZero())
	assert.False(t, (&Location{File: "a.go"}).IsZero())
	assert.False(t, (&Location{Lines: []LineRange{{Start: 1, End: 1}}}).IsZero())
	assert.False(t, (&Location{Selector: &Selector{Type: "symbol", Path: "X"}}).IsZero())

	f := false
	assert.False(t, (&Location{Deleted: &f}).IsZero())
}

func TestLocation_Validate(t *testing.T) {
	assert.NoError(t, (&Location{File: "a.go", Lines: []LineRange{{Start: 1, End: 4}}}).Validate())
	assert.Error(t, (&Location{Lines: []LineRange{{Start: 0, End: 4}}}).Validate())
	assert.Error(t, (&Location{Column: -1}).Validate())
	assert.Error(t, (&Location{Column: 8, ColumnEnd: 2}).Validate())
	assert.NoError(t, (&Location{Column: 2, ColumnEnd: 8}).Validate())
}
