package spliterator

import "context"

// Seekable is a resource of known size that can serve positional reads, the
// shape Async uses for file-like sources. ReadInto must be safe to call
// at-most-once per logical read (the implementation issues exactly one read
// per call; it does not retry short reads itself — a short read that makes
// no progress is an I/O error per spec).
type Seekable interface {
	// Size returns the total byte length of the resource.
	Size() int64
	// ReadInto reads up to len(p) bytes starting at position into p,
	// returning the number of bytes read. io.EOF (or any error) ends the
	// read; a zero-length read with a nil error is treated as an I/O error
	// (short read that did not advance the cursor).
	ReadInto(ctx context.Context, p []byte, position int64) (int, error)
}

// ChunkStream is a pull-based source of non-empty byte buffers, terminated
// by io.EOF. Each returned buffer is owned by the caller of NextChunk (the
// stream must not reuse or mutate it afterward).
type ChunkStream interface {
	NextChunk(ctx context.Context) ([]byte, error)
}

// Closer is implemented by sources that hold an OS resource the spliterator
// should release on disposal when it was constructed with AutoClose.
type Closer interface {
	Close() error
}
