package storage

// UsageError reports an API misuse, such as omitting the format when
// reading from a stream.
type UsageError struct {
	Msg string
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return "usage: " + e.Msg
}
