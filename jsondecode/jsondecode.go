// Package jsondecode parses NDJSON-style records — one JSON value per
// spliterator record — using goccy/go-json, a drop-in encoding/json-compatible
// decoder. Like textdecode, a parse failure is attributed to its record index
// rather than aborting the scan.
package jsondecode

import (
	"github.com/goccy/go-json"

	"github.com/sister-software/spliterator"
)

// Stage parses successive byte views as JSON, counting records for error
// attribution. Not safe for concurrent use against the same record stream.
type Stage struct {
	index int
}

// NewStage constructs a Stage with its record counter at zero.
func NewStage() *Stage {
	return &Stage{}
}

// Decode unmarshals one record's raw bytes into v (typically a pointer to a
// map[string]any, []any, or a caller-defined struct). A non-nil error is
// always a *spliterator.Error of kind ParseError.
func (s *Stage) Decode(raw []byte, v any) error {
	index := s.index
	s.index++

	if err := json.Unmarshal(raw, v); err != nil {
		return spliterator.ParseErrorAt(index, err)
	}
	return nil
}

// DecodeAny is a convenience wrapper over Decode that returns the parsed
// value as an any (map[string]any for objects, []any for arrays, and the
// obvious Go types for scalars).
func (s *Stage) DecodeAny(raw []byte) (any, error) {
	var v any
	if err := s.Decode(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Reset zeroes the stage's record counter, for reuse across a new scan.
func (s *Stage) Reset() {
	s.index = 0
}
