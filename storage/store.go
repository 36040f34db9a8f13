// Package storage is the file facade for review documents: load and
// dump with extension-based format detection, stream variants with an
// explicit format, and a change watcher. Each call is a self-contained
// blocking transform of one document; file handles are scoped to the
// call and released on every exit path.
package storage

import (
	"fmt"
	"io"
	"os"

	"github.com/opencodereview/opencodereview/format"
	"github.com/opencodereview/opencodereview/review"
)

// Load reads and validates the review document at path, inferring the
// format from the file extension (unknown extensions default to YAML).
func Load(path string) (*review.Review, error) {
	return LoadAs(path, format.FromExtension(path))
}

// LoadAs reads the document at path using an explicit format.
func LoadAs(path string, f format.Format) (*review.Review, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read review file: %w", err)
	}
	return format.Decode(f, data)
}

// Read decodes a review from a stream. The format is mandatory here:
// there is no extension to sniff and no content sniffing is done.
func Read(r io.Reader, f format.Format) (*review.Review, error) {
	if f == "" {
		return nil, &UsageError{Msg: "format is required when reading from a stream"}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read review stream: %w", err)
	}
	return format.Decode(f, data)
}

// Save writes the review to path, inferring the format from the file
// extension. Unset optional fields are omitted from the output.
func Save(rev *review.Review, path string) error {
	return SaveAs(rev, path, format.FromExtension(path))
}

// SaveAs writes the review to path using an explicit format.
func SaveAs(rev *review.Review, path string, f format.Format) error {
	data, err := format.Encode(f, rev)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write review file: %w", err)
	}
	return nil
}

// Write encodes a review to a stream. Like Read, the format is
// mandatory.
func Write(rev *review.Review, w io.Writer, f format.Format) error {
	if f == "" {
		return &UsageError{Msg: "format is required when writing to a stream"}
	}
	data, err := format.Encode(f, rev)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write review stream: %w", err)
	}
	return nil
}
