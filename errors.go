// Package spliterator streams records out of delimited byte sources without
// materializing the whole input in memory. The core type is Sync, a
// synchronous iterator over an in-memory byte slice, and Async, its
// suspension-capable counterpart over a seekable resource or a pull-based
// chunk stream. Both search for delimiter occurrences (see package needle)
// and emit zero-copy views between them; Sync scans its byte slice directly,
// while Async scans a growing buffer and compacts consumed regions (see
// package growbuf).
package spliterator

import (
	"fmt"

	"github.com/sister-software/spliterator/rangequeue"
)

// Kind classifies the failures a spliterator or one of its decoding stages
// can raise.
type Kind int

const (
	// IOError reports that a read from the underlying source failed,
	// including a short read that did not advance the cursor.
	IOError Kind = iota
	// RangeError reports that a buffer range operation violated an
	// invariant, or that the parallel planner could not locate a delimiter
	// in a boundary's search window.
	RangeError
	// DecodeError reports that a record could not be decoded as the
	// requested text encoding.
	DecodeError
	// ParseError reports that a record could not be parsed (e.g. as JSON).
	ParseError
	// ConstructionError reports an invalid constructor argument: an empty
	// delimiter, or a non-zero Position for a chunk-stream source. Negative
	// take/drop values are normalized rather than rejected.
	ConstructionError
)

func (k Kind) String() string {
	switch k {
	case IOError:
		return "io"
	case RangeError:
		return "range"
	case DecodeError:
		return "decode"
	case ParseError:
		return "parse"
	case ConstructionError:
		return "construction"
	default:
		return "unknown"
	}
}

// Error is the typed error raised by this package and its decoding stages.
// It carries whichever of its optional fields are relevant to Kind, so
// callers that branch on Kind with errors.As can recover structured context
// instead of parsing an error string.
type Error struct {
	Kind Kind

	// Source identifies the byte source involved, for IOError: the label set
	// with WithSourceLabel, or else the Async instance ID.
	Source string
	// Position and Length describe an attempted read, for IOError.
	Position, Length int64
	// Range describes the offending buffer range, for RangeError.
	Range rangequeue.Range
	// RecordIndex is the zero-based record ordinal, for DecodeError and
	// ParseError.
	RecordIndex int

	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case IOError:
		return fmt.Sprintf("spliterator: io error reading %s at position %d, length %d: %v", e.Source, e.Position, e.Length, e.Err)
	case RangeError:
		return fmt.Sprintf("spliterator: range error [%d,%d): %v", e.Range.Start, e.Range.End, e.Err)
	case DecodeError:
		return fmt.Sprintf("spliterator: decode failed at record %d: %v", e.RecordIndex, e.Err)
	case ParseError:
		return fmt.Sprintf("spliterator: parse failed at record %d: %v", e.RecordIndex, e.Err)
	case ConstructionError:
		return fmt.Sprintf("spliterator: construction error: %v", e.Err)
	default:
		return fmt.Sprintf("spliterator: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ioError(source string, pos, length int64, cause error) *Error {
	return &Error{Kind: IOError, Source: source, Position: pos, Length: length, Err: cause}
}

func rangeError(r rangequeue.Range, cause error) *Error {
	return &Error{Kind: RangeError, Range: r, Err: cause}
}

// RangeSearchError builds a RangeError for a planner boundary that could not
// be located within its search window, for use by planner.PlanChunks.
func RangeSearchError(r rangequeue.Range) *Error {
	return &Error{Kind: RangeError, Range: r, Err: errBoundaryNotFound}
}

var errBoundaryNotFound = fmt.Errorf("no delimiter occurrence found in boundary search window")

func constructionError(cause error) *Error {
	return &Error{Kind: ConstructionError, Err: cause}
}

// DecodeErrorAt builds a DecodeError for the given zero-based record index,
// for use by decoding stages outside this package (e.g. textdecode).
func DecodeErrorAt(index int, cause error) *Error {
	return &Error{Kind: DecodeError, RecordIndex: index, Err: cause}
}

// ParseErrorAt builds a ParseError for the given zero-based record index,
// for use by decoding stages outside this package (e.g. jsondecode).
func ParseErrorAt(index int, cause error) *Error {
	return &Error{Kind: ParseError, RecordIndex: index, Err: cause}
}

var errEmptyNeedle = fmt.Errorf("delimiter must be non-empty")
