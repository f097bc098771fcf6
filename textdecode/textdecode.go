// Package textdecode decodes the raw byte views a spliterator emits into
// UTF-8 strings, tolerating a caller-chosen source encoding (the distilled
// contract only names "UTF-8 or caller-chosen encoding label"; this package
// resolves that label against the IANA charset registry). Decoding a record
// never aborts the whole scan: a failure is surfaced against its record
// index so the caller can decide whether to skip or halt.
package textdecode

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/sister-software/spliterator"
)

// DefaultLabel is used when Stage is constructed with an empty label.
const DefaultLabel = "utf-8"

// Stage decodes successive byte views under a single resolved encoding. It
// is not safe for concurrent use by multiple goroutines against the same
// record stream, though independent Stages may run concurrently.
type Stage struct {
	label string
	enc   encoding.Encoding
	index int
}

// NewStage resolves label (an IANA/MIME charset name, e.g. "iso-8859-1",
// "shift_jis", "utf-16le") against the IANA index. An empty label selects
// UTF-8, which requires no transcoding and is recognized as valid-or-not via
// utf8.Valid rather than a no-op transform.
func NewStage(label string) (*Stage, error) {
	if label == "" {
		label = DefaultLabel
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("textdecode: unrecognized encoding label %q: %w", label, err)
	}
	if enc == unicode.UTF8 {
		// x/text's UTF-8 decoder replaces ill-formed bytes instead of
		// failing; use the utf8.Valid pass-through path instead.
		enc = nil
	}
	return &Stage{label: label, enc: enc}, nil
}

// Label returns the resolved encoding label this Stage was constructed with.
func (s *Stage) Label() string {
	return s.label
}

// Decode transcodes one record's raw bytes to a UTF-8 string and advances
// the stage's internal record counter (used only to number errors; it is
// the caller's responsibility to call Decode once per emitted record, in
// order). A non-nil error is always a *spliterator.Error of kind DecodeError.
func (s *Stage) Decode(raw []byte) (string, error) {
	index := s.index
	s.index++

	if s.enc == nil {
		if !utf8.Valid(raw) {
			return "", spliterator.DecodeErrorAt(index, fmt.Errorf("textdecode: invalid UTF-8"))
		}
		return string(raw), nil
	}
	out, err := s.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", spliterator.DecodeErrorAt(index, err)
	}
	return string(out), nil
}

// Reset zeroes the stage's record counter, for reuse across a new scan.
func (s *Stage) Reset() {
	s.index = 0
}
