package format

import "fmt"

// FormatError reports an unsupported format identifier or source text
// the underlying parser rejected before the model saw it.
type FormatError struct {
	Msg string
	Err error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Err != nil {
		return "format: " + e.Msg + ": " + e.Err.Error()
	}
	return "format: " + e.Msg
}

// Unwrap returns the underlying parser error, if any.
func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErrorf(format string, args ...any) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}
