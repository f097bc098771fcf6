// Package csv projects a delimited byte source into row-shaped values: a
// row-level spliterator over the source, a quote-aware column-level split
// of each row, optional header extraction and canonicalization, per-column
// value transformation, and emission as an array, an object, or a list of
// (key, value, index) entries.
package csv

import (
	"context"
	"fmt"
	"strconv"

	spliterator "github.com/sister-software/spliterator"
	"github.com/sister-software/spliterator/colnames"
	"github.com/sister-software/spliterator/needle"
	"github.com/sister-software/spliterator/textdecode"
	"github.com/sister-software/spliterator/zipper"
)

// Mode selects the shape of each emitted row.
type Mode int

const (
	// ModeArray yields the row as a []any of transformed column values.
	ModeArray Mode = iota
	// ModeObject yields the row as a map[string]any keyed by header name.
	ModeObject
	// ModeEntries yields the row as a []Entry, preserving column order
	// alongside key and index.
	ModeEntries
)

// Entry is one column of a row in ModeEntries.
type Entry struct {
	Key   string
	Value any
	Index int
}

// Transformer converts one column's decoded string value into the value
// that is actually emitted. Transformers must be pure: they receive only
// the column string and must not retain state across rows.
type Transformer func(string) (any, error)

// Init carries a Reader's construction parameters.
type Init struct {
	// RowDelimiter separates records. Zero value defaults to needle.LF.
	RowDelimiter needle.Sequence
	// ColumnDelimiter separates fields within a row. Zero value defaults
	// to ','.
	ColumnDelimiter byte

	// NoHeader disables header extraction; by default (false) the first
	// emitted row is consumed as the header list rather than a data row.
	NoHeader bool
	// NormalizeKeys canonicalizes header strings via colnames.Normalize
	// before use. Nil selects the spec default: true for ModeObject and
	// ModeEntries, false for ModeArray.
	NormalizeKeys *bool
	// Mode selects the emitted row shape. Default ModeArray.
	Mode Mode

	// Transformers binds a transform function per column by (already
	// normalized, if NormalizeKeys applies) header name. Missing entries
	// default to identity.
	Transformers map[string]Transformer
	// PositionalTransformers binds a transform function per column by
	// index, aligned with the header (or with column position, if
	// NoHeader). Takes precedence over Transformers when both are set for
	// the same column.
	PositionalTransformers []Transformer

	// UnescapeQuotes opts into collapsing a fully-quoted field's outer
	// quotes and doubled-quote escapes ("" -> ") instead of the literal
	// source behavior of leaving quote bytes untouched in the field.
	UnescapeQuotes bool

	// Encoding is an IANA/MIME charset label passed to textdecode; empty
	// selects UTF-8.
	Encoding string

	// Drop, Take, and SkipEmpty apply to data rows, counted after the
	// header row (if any) is consumed.
	Drop      int
	Take      int
	SkipEmpty bool

	// HighWaterMark bounds async reads; see spliterator.Init.
	HighWaterMark int
}

func (i Init) rowDelimiter() needle.Sequence {
	if i.RowDelimiter.Len() == 0 {
		return needle.LF
	}
	return i.RowDelimiter
}

func (i Init) columnDelimiter() byte {
	if i.ColumnDelimiter == 0 {
		return ','
	}
	return i.ColumnDelimiter
}

func (i Init) normalizeKeys() bool {
	if i.NormalizeKeys != nil {
		return *i.NormalizeKeys
	}
	return i.Mode != ModeArray
}

// rowSource abstracts over spliterator.Sync and spliterator.Async so Reader
// can be driven by either an in-memory byte slice or an async source.
type rowSource interface {
	next(ctx context.Context) ([]byte, bool, error)
}

type syncRowSource struct{ s *spliterator.Sync }

func (r syncRowSource) next(context.Context) ([]byte, bool, error) {
	_, v, ok := r.s.Next()
	return v, ok, nil
}

type asyncRowSource struct{ a *spliterator.Async }

func (r asyncRowSource) next(ctx context.Context) ([]byte, bool, error) {
	_, v, ok, err := r.a.Next(ctx)
	return v, ok, err
}

// Reader projects a row-delimited source into row-shaped values per Init.
// Not safe for concurrent use.
type Reader struct {
	init   Init
	rows   rowSource
	text   *textdecode.Stage
	header []string
	xforms []Transformer

	dropRemaining int
	taken         int
	done          bool
	rowIndex      int
}

// NewFromBytes constructs a Reader over an in-memory byte slice.
func NewFromBytes(data []byte, init Init) (*Reader, error) {
	s, err := spliterator.NewSync(data, spliterator.Init{
		Needle:    init.rowDelimiter(),
		SkipEmpty: init.SkipEmpty,
		Take:      spliterator.Unlimited,
	})
	if err != nil {
		return nil, err
	}
	return newReader(syncRowSource{s}, init)
}

// NewFromAsyncSeekable constructs a Reader over a seekable async source.
func NewFromAsyncSeekable(ctx context.Context, src spliterator.Seekable, init Init) (*Reader, error) {
	a, err := spliterator.NewAsyncSeekable(src, spliterator.Init{
		Needle:        init.rowDelimiter(),
		SkipEmpty:     init.SkipEmpty,
		Take:          spliterator.Unlimited,
		HighWaterMark: init.HighWaterMark,
	})
	if err != nil {
		return nil, err
	}
	return newReaderAsync(ctx, asyncRowSource{a}, init)
}

// NewFromAsyncChunkStream constructs a Reader over a pull-based chunk
// stream source.
func NewFromAsyncChunkStream(ctx context.Context, src spliterator.ChunkStream, init Init) (*Reader, error) {
	a, err := spliterator.NewAsyncChunkStream(src, spliterator.Init{
		Needle:        init.rowDelimiter(),
		SkipEmpty:     init.SkipEmpty,
		Take:          spliterator.Unlimited,
		HighWaterMark: init.HighWaterMark,
	})
	if err != nil {
		return nil, err
	}
	return newReaderAsync(ctx, asyncRowSource{a}, init)
}

func newReader(rows rowSource, init Init) (*Reader, error) {
	return newReaderAsync(context.Background(), rows, init)
}

func newReaderAsync(ctx context.Context, rows rowSource, init Init) (*Reader, error) {
	if init.Take < 0 && init.Take != spliterator.Unlimited {
		init.Take = 0
	}
	if init.Drop < 0 {
		init.Drop = 0
	}
	text, err := textdecode.NewStage(init.Encoding)
	if err != nil {
		return nil, err
	}
	r := &Reader{
		init:          init,
		rows:          rows,
		text:          text,
		dropRemaining: maxInt(init.Drop, 0),
		taken:         0,
	}
	if !init.NoHeader {
		raw, ok, err := rows.next(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			decoded, err := text.Decode(raw)
			if err != nil {
				return nil, err
			}
			cols := splitQuoteAware([]byte(decoded), init.columnDelimiter())
			headers := make([]string, len(cols))
			for i, c := range cols {
				headers[i] = string(c)
			}
			if init.normalizeKeys() {
				headers = colnames.Normalize(headers)
			}
			r.header = headers
		}
	}
	r.xforms = r.bindTransformers()
	return r, nil
}

// bindTransformers pairs each header name against its positional
// transformer (padding the shorter side, via zipper.Func), resolving to the
// positional transformer when present, else the name-keyed one, else
// identity (nil).
func (r *Reader) bindTransformers() []Transformer {
	out := make([]Transformer, 0, len(r.header))
	zipper.Func(r.header, r.init.PositionalTransformers, func(_ int, p zipper.Pair[string, Transformer]) bool {
		out = append(out, r.resolveTransformer(p))
		return true
	})
	return out
}

func (r *Reader) resolveTransformer(p zipper.Pair[string, Transformer]) Transformer {
	if p.HasRight && p.Right != nil {
		return p.Right
	}
	if p.HasLeft && r.init.Transformers != nil {
		if fn, ok := r.init.Transformers[p.Left]; ok {
			return fn
		}
	}
	return nil
}

// Headers returns the header list (canonicalized when NormalizeKeys
// applies), or nil if NoHeader was set or the source was empty.
func (r *Reader) Headers() []string {
	return r.header
}

// Next advances the reader, returning the next row's value (shape per
// Init.Mode), or ok=false once exhausted.
func (r *Reader) Next(ctx context.Context) (value any, ok bool, err error) {
	for {
		if r.done {
			return nil, false, nil
		}
		if r.init.Take != spliterator.Unlimited && r.init.Take >= 0 && r.taken >= r.init.Take {
			r.done = true
			continue
		}
		raw, has, err := r.rows.next(ctx)
		if err != nil {
			r.done = true
			return nil, false, err
		}
		if !has {
			r.done = true
			continue
		}

		decoded, err := r.text.Decode(raw)
		if err != nil {
			r.done = true
			return nil, false, err
		}
		cols := splitQuoteAware([]byte(decoded), r.init.columnDelimiter())

		if r.dropRemaining > 0 {
			r.dropRemaining--
			r.rowIndex++
			continue
		}
		r.taken++
		r.rowIndex++

		v, err := r.buildValue(cols)
		if err != nil {
			r.done = true
			return nil, false, err
		}
		return v, true, nil
	}
}

func (r *Reader) columnString(col []byte) string {
	if r.init.UnescapeQuotes {
		return unescapeQuotes(col)
	}
	return string(col)
}

func (r *Reader) columnValue(i int, col []byte) (any, error) {
	s := r.columnString(col)
	if i < len(r.xforms) && r.xforms[i] != nil {
		return r.xforms[i](s)
	}
	return s, nil
}

func (r *Reader) columnKey(i int) string {
	if i < len(r.header) {
		return r.header[i]
	}
	return strconv.Itoa(i)
}

func (r *Reader) buildValue(cols [][]byte) (any, error) {
	// When a header is present, a row with more columns than the header
	// must never surface a key outside the header set: the overhang is
	// dropped for object/entries shapes. Missing trailing columns simply
	// leave their header key absent from the result.
	headerBounded := cols
	if n := len(r.header); n > 0 && len(cols) > n {
		headerBounded = cols[:n]
	}

	switch r.init.Mode {
	case ModeObject:
		out := make(map[string]any, len(headerBounded))
		for i, c := range headerBounded {
			v, err := r.columnValue(i, c)
			if err != nil {
				return nil, fmt.Errorf("csv: column %d: %w", i, err)
			}
			out[r.columnKey(i)] = v
		}
		return out, nil
	case ModeEntries:
		out := make([]Entry, len(headerBounded))
		for i, c := range headerBounded {
			v, err := r.columnValue(i, c)
			if err != nil {
				return nil, fmt.Errorf("csv: column %d: %w", i, err)
			}
			out[i] = Entry{Key: r.columnKey(i), Value: v, Index: i}
		}
		return out, nil
	default:
		out := make([]any, len(cols))
		for i, c := range cols {
			v, err := r.columnValue(i, c)
			if err != nil {
				return nil, fmt.Errorf("csv: column %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	}
}

// Collect drains the reader and returns every emitted value.
func (r *Reader) Collect(ctx context.Context) ([]any, error) {
	var out []any
	for {
		v, ok, err := r.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
