// Package needle implements the delimiter primitive: an immutable byte
// sequence plus a precomputed Boyer-Moore-Horspool skip table, used to find
// the next occurrence of a delimiter in a growing scan buffer.
package needle

import "fmt"

// notFound is the sentinel position returned by Search when the needle does
// not occur in the searched window.
const notFound = -1

// Sequence is an immutable, non-empty byte string together with its
// Boyer-Moore-Horspool skip table. Zero value is not usable; construct with
// New, NewFromString, or NewFromRune.
type Sequence struct {
	bytes []byte
	skip  [256]int
}

// New builds a Sequence from an arbitrary byte slice. The slice is copied, so
// the caller may reuse or mutate the original afterward.
func New(b []byte) (Sequence, error) {
	if len(b) == 0 {
		return Sequence{}, fmt.Errorf("needle: delimiter must be non-empty")
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return Sequence{bytes: cp, skip: buildSkipTable(cp)}, nil
}

// NewFromString builds a Sequence from a UTF-8 string.
func NewFromString(s string) (Sequence, error) {
	return New([]byte(s))
}

// NewFromRune builds a single-rune Sequence from a Unicode code point.
func NewFromRune(r rune) (Sequence, error) {
	return New([]byte(string(r)))
}

// MustNew is New but panics on error; intended for package-level delimiter
// constants such as LF or CRLF where the argument is a compile-time literal.
func MustNew(b []byte) Sequence {
	s, err := New(b)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the length in bytes of the delimiter.
func (s Sequence) Len() int {
	return len(s.bytes)
}

// Bytes returns the delimiter's raw bytes. The caller must not mutate the
// returned slice.
func (s Sequence) Bytes() []byte {
	return s.bytes
}

// buildSkipTable computes, for each possible byte value, the distance to
// shift the search window on a mismatch at the rightmost comparison byte.
//
// skip[b] = max(1, len-1-lastIndex(b in needle[0:len-1])); bytes absent from
// the needle's interior take the full length.
func buildSkipTable(needle []byte) [256]int {
	var table [256]int
	n := len(needle)
	for i := range table {
		table[i] = n
	}
	for i := 0; i < n-1; i++ {
		shift := n - 1 - i
		if shift < 1 {
			shift = 1
		}
		table[needle[i]] = shift
	}
	return table
}

// Search returns the smallest position p in [lo, hi-len(needle)] such that
// haystack[p:p+len(needle)] == needle, or ok=false if no such position
// exists. Uses Boyer-Moore-Horspool: comparisons proceed right-to-left at
// each window, and mismatches advance the window by the skip table entry for
// the haystack byte aligned with the needle's last byte.
func (s Sequence) Search(haystack []byte, lo, hi int) (pos int, ok bool) {
	n := len(s.bytes)
	if hi > len(haystack) {
		hi = len(haystack)
	}
	if lo < 0 {
		lo = 0
	}
	if n == 0 || hi-lo < n {
		return notFound, false
	}

	last := n - 1
	lastByte := s.bytes[last]

	p := lo
	limit := hi - n
	for p <= limit {
		c := haystack[p+last]
		if c == lastByte {
			if matchesAt(haystack, s.bytes, p) {
				return p, true
			}
		}
		p += s.skip[c]
	}
	return notFound, false
}

func matchesAt(haystack, needle []byte, p int) bool {
	for i := len(needle) - 2; i >= 0; i-- {
		if haystack[p+i] != needle[i] {
			return false
		}
	}
	return true
}

// Common delimiters used across the codebase and by callers constructing
// text/NDJSON/CSV pipelines.
var (
	LF   = MustNew([]byte{'\n'})
	CRLF = MustNew([]byte{'\r', '\n'})
	CR   = MustNew([]byte{'\r'})

	Comma = MustNew([]byte{','})
	Tab   = MustNew([]byte{'\t'})
	Quote = MustNew([]byte{'"'})
)
