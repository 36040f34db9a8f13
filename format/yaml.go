package format

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"

	"github.com/opencodereview/opencodereview/review"
)

// yamlCodec maps reviews to and from YAML. The format natively
// supports the required shapes, so (de)serialization is structural.
type yamlCodec struct{}

func (yamlCodec) Format() Format {
	return YAML
}

func (yamlCodec) Extensions() []string {
	return []string{".yaml", ".yml"}
}

func (yamlCodec) Parse(data []byte) (*review.Review, error) {
	var rev review.Review
	if err := yaml.Unmarshal(data, &rev); err != nil {
		return nil, classifyYAMLError(err)
	}
	return &rev, nil
}

func (yamlCodec) Render(rev *review.Review) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(rev); err != nil {
		return nil, &FormatError{Msg: "encode YAML", Err: err}
	}
	if err := enc.Close(); err != nil {
		return nil, &FormatError{Msg: "encode YAML", Err: err}
	}
	return buf.Bytes(), nil
}

// classifyYAMLError separates schema problems (wrong shapes inside
// valid YAML) from syntax problems.
func classifyYAMLError(err error) error {
	var schemaErr *review.SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr
	}
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return &review.SchemaError{Msg: typeErr.Error()}
	}
	return &FormatError{Msg: "invalid YAML", Err: err}
}
