package review

import "fmt"

// SchemaError reports a document that does not conform to the review
// schema: a missing or unknown category, a missing variant-required
// field, or a malformed scalar. Construction is all-or-nothing - a
// SchemaError means no Review was produced.
type SchemaError struct {
	Msg string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return "schema: " + e.Msg
}

func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{Msg: fmt.Sprintf(format, args...)}
}
