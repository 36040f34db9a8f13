package format

import (
	"encoding/json"
	"errors"

	"github.com/opencodereview/opencodereview/review"
)

// jsonCodec maps reviews to and from JSON. Like YAML, the format
// natively supports the required shapes.
type jsonCodec struct{}

func (jsonCodec) Format() Format {
	return JSON
}

func (jsonCodec) Extensions() []string {
	return []string{".json"}
}

func (jsonCodec) Parse(data []byte) (*review.Review, error) {
	var rev review.Review
	if err := json.Unmarshal(data, &rev); err != nil {
		return nil, classifyJSONError(err)
	}
	return &rev, nil
}

func (jsonCodec) Render(rev *review.Review) ([]byte, error) {
	data, err := json.MarshalIndent(rev, "", "  ")
	if err != nil {
		return nil, &FormatError{Msg: "encode JSON", Err: err}
	}
	return append(data, '\n'), nil
}

// classifyJSONError separates schema problems (wrong value types
// inside valid JSON) from syntax problems.
func classifyJSONError(err error) error {
	var schemaErr *review.SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &review.SchemaError{Msg: typeErr.Error()}
	}
	return &FormatError{Msg: "invalid JSON", Err: err}
}
