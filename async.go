package spliterator

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/sister-software/spliterator/growbuf"
	"github.com/sister-software/spliterator/rangequeue"
)

// defaultHighWaterMark is the read size (and initial buffer capacity) used
// when Init.HighWaterMark is left at zero; the queued byte length is then
// unbounded.
const defaultHighWaterMark = 64 * 1024

// sourceKind distinguishes the two Async construction modes.
type sourceKind int

const (
	seekableKind sourceKind = iota
	chunkStreamKind
)

// Async is a suspension-capable iterator over either a seekable resource
// (read by positional chunks) or a pull-based chunk stream. Each instance
// owns its buffer and queue exclusively; Next must be called by at most one
// goroutine at a time. Construct with NewAsyncSeekable or
// NewAsyncChunkStream.
type Async struct {
	id   uuid.UUID
	init Init
	kind sourceKind

	seekable Seekable
	readPos  int64

	chunkStream ChunkStream

	label     string
	autoClose bool
	closer    Closer

	buf         *growbuf.Buf
	queue       rangequeue.Queue
	pos         int
	yielded     int
	done        bool
	drained     bool
	lastEmitted *rangequeue.Range
}

// AsyncOption configures an Async instance at construction time.
type AsyncOption func(*Async)

// WithSourceLabel sets the label used to identify the source in errors.
func WithSourceLabel(label string) AsyncOption {
	return func(a *Async) { a.label = label }
}

// WithAutoClose releases the source (if it implements Closer) when Return is
// called. Reaching the end of iteration does not release it.
func WithAutoClose() AsyncOption {
	return func(a *Async) { a.autoClose = true }
}

// NewAsyncSeekable constructs an Async over a seekable resource of known
// size, reading in chunks of at most init.HighWaterMark bytes (default
// defaultHighWaterMark).
func NewAsyncSeekable(src Seekable, init Init, opts ...AsyncOption) (*Async, error) {
	if init.Needle.Len() == 0 {
		return nil, constructionError(errEmptyNeedle)
	}
	init = init.normalized()
	a := &Async{
		id:       uuid.New(),
		init:     init,
		kind:     seekableKind,
		seekable: src,
		readPos:  int64(init.Position),
		buf:      growbuf.New(initialAsyncBufCap(init)),
	}
	if c, ok := src.(Closer); ok {
		a.closer = c
	}
	for _, opt := range opts {
		opt(a)
	}
	if init.Position > 0 && int64(init.Position) >= src.Size() {
		a.done = true
	}
	return a, nil
}

// NewAsyncChunkStream constructs an Async over a pull-based chunk stream.
// Init.Position must be zero: a chunk stream has no addressable offset to
// resume from.
func NewAsyncChunkStream(src ChunkStream, init Init, opts ...AsyncOption) (*Async, error) {
	if init.Needle.Len() == 0 {
		return nil, constructionError(errEmptyNeedle)
	}
	init = init.normalized()
	if init.Position != 0 {
		return nil, constructionError(errPositionOnChunkStream)
	}
	a := &Async{
		id:          uuid.New(),
		init:        init,
		kind:        chunkStreamKind,
		chunkStream: src,
		buf:         growbuf.New(initialAsyncBufCap(init)),
	}
	if c, ok := src.(Closer); ok {
		a.closer = c
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func initialAsyncBufCap(init Init) int {
	if init.HighWaterMark > 0 {
		return init.HighWaterMark
	}
	return defaultHighWaterMark
}

// ID returns the instance's correlation identifier, surfaced in errors so
// failures from parallel instances can be told apart.
func (a *Async) ID() uuid.UUID {
	return a.id
}

func (a *Async) sourceLabel() string {
	if a.label != "" {
		return a.label
	}
	return a.id.String()
}

// Next advances the iterator, issuing reads as needed. It returns ok=false
// once exhausted, or a non-nil err (also terminal) on I/O or range failure.
func (a *Async) Next(ctx context.Context) (r rangequeue.Range, view []byte, ok bool, err error) {
	for {
		if a.done {
			return rangequeue.Range{}, nil, false, nil
		}
		if !a.init.withinTake(a.yielded) {
			a.finish()
			continue
		}
		if a.queue.Len() == 0 {
			if ferr := a.fill(ctx); ferr != nil {
				a.finish()
				return rangequeue.Range{}, nil, false, ferr
			}
			if a.queue.Len() == 0 {
				if a.drained {
					a.finish()
					continue
				}
				written := a.buf.Written()
				data, _ := a.buf.Subarray(0, written)
				scanDrain(data, a.pos, &a.queue)
				a.drained = true
			}
		}

		rng, _ := a.queue.Pop()
		a.lastEmitted = &rng

		if rng.Len() == 0 && a.init.SkipEmpty {
			continue
		}
		a.yielded++
		if a.yielded <= a.init.Drop {
			continue
		}
		data, subErr := a.buf.Subarray(rng.Start, rng.End)
		if subErr != nil {
			err := rangeError(rng, subErr)
			a.finish()
			return rangequeue.Range{}, nil, false, err
		}
		return rng, data, true, nil
	}
}

// fill compacts the buffer (when the queue is empty, per contract) then
// interleaves reads with searches until either a delimiter is found, the
// queued byte budget is reached, or the source is exhausted.
func (a *Async) fill(ctx context.Context) error {
	if a.pos > 0 {
		if err := a.buf.Compact(a.pos, a.buf.Written()); err != nil {
			return rangeError(rangequeue.Range{Start: a.pos, End: a.buf.Written()}, err)
		}
		a.pos = 0
	}

	budget := a.init.budget()
	for {
		if budget > 0 && a.queue.TotalBytes() >= budget {
			return nil
		}
		read, err := a.fillOnce(ctx)
		if err != nil {
			return err
		}
		written := a.buf.Written()
		data, _ := a.buf.Subarray(0, written)
		a.pos = scanFill(data, a.pos, a.init.Needle, &a.queue, budget)
		if a.queue.Len() > 0 {
			return nil
		}
		if !read {
			return nil
		}
	}
}

// fillOnce issues a single read (or stream pull), returning read=true if
// bytes were appended, false if the source is now exhausted.
func (a *Async) fillOnce(ctx context.Context) (read bool, err error) {
	switch a.kind {
	case seekableKind:
		return a.fillOnceSeekable(ctx)
	default:
		return a.fillOnceChunkStream(ctx)
	}
}

func (a *Async) fillOnceSeekable(ctx context.Context) (bool, error) {
	size := a.seekable.Size()
	if a.readPos >= size {
		return false, nil
	}
	length := a.init.HighWaterMark
	if length <= 0 {
		length = defaultHighWaterMark
	}
	if remaining := size - a.readPos; int64(length) > remaining {
		length = int(remaining)
	}
	area := a.buf.WriteArea(length)
	n, err := a.seekable.ReadInto(ctx, area, a.readPos)
	if err != nil {
		if errors.Is(err, io.EOF) {
			if n > 0 {
				a.buf.Advance(n)
				a.readPos += int64(n)
			}
			return n > 0, nil
		}
		return false, ioError(a.sourceLabel(), a.readPos, int64(length), err)
	}
	if n == 0 {
		return false, ioError(a.sourceLabel(), a.readPos, int64(length), errShortRead)
	}
	a.buf.Advance(n)
	a.readPos += int64(n)
	return true, nil
}

func (a *Async) fillOnceChunkStream(ctx context.Context) (bool, error) {
	for {
		chunk, err := a.chunkStream.NextChunk(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, ioError(a.sourceLabel(), 0, 0, err)
		}
		if len(chunk) == 0 {
			continue
		}
		a.buf.Set(chunk, a.buf.Written())
		return true, nil
	}
}

// Return cancels the iterator: it becomes terminal immediately, the queue
// and buffer are cleared, and the source is released if the iterator was
// constructed with WithAutoClose.
func (a *Async) Return() error {
	a.finish()
	if a.autoClose && a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

func (a *Async) finish() {
	a.done = true
	a.queue.Clear()
	a.buf.Reset()
}

// Collect drains the iterator and returns every emitted range, or the first
// error encountered.
func (a *Async) Collect(ctx context.Context) ([]rangequeue.Range, error) {
	var out []rangequeue.Range
	for {
		r, _, ok, err := a.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, r)
	}
}

var (
	errShortRead              = errors.New("short read did not advance cursor")
	errPositionOnChunkStream  = errors.New("Position is not supported for chunk-stream sources")
)
