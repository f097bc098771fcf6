// Package growbuf implements GrowBuf: an append-only scratch region that
// grows geometrically and supports in-place left-compaction to discard
// consumed bytes without reallocating the whole scan buffer on every fill.
package growbuf

import "fmt"

// Buf owns a contiguous byte region of some capacity and a written watermark.
// Bytes [0, Written()) are meaningful; bytes beyond that are scratch space
// reserved for future writes. Not safe for concurrent use.
type Buf struct {
	data    []byte
	written int
}

// New allocates a Buf with at least the given initial capacity.
func New(initialCapacity int) *Buf {
	if initialCapacity < 0 {
		initialCapacity = 0
	}
	return &Buf{data: make([]byte, initialCapacity)}
}

// Written returns the number of meaningful bytes currently held.
func (b *Buf) Written() int {
	return b.written
}

// Cap returns the current backing capacity.
func (b *Buf) Cap() int {
	return len(b.data)
}

// Grow ensures capacity >= target, preserving [0, Written()). If the current
// capacity is already sufficient, Grow is a no-op.
func (b *Buf) Grow(target int) {
	if target <= len(b.data) {
		return
	}
	newCap := len(b.data) * 2
	if newCap < target {
		newCap = target
	}
	next := make([]byte, newCap)
	copy(next, b.data[:b.written])
	b.data = next
}

// Set writes src at offset off, growing the buffer as needed, then advances
// Written() to max(Written(), off+len(src)).
func (b *Buf) Set(src []byte, off int) {
	if off < 0 {
		panic("growbuf: negative offset")
	}
	b.Grow(off + len(src))
	copy(b.data[off:off+len(src)], src)
	if end := off + len(src); end > b.written {
		b.written = end
	}
}

// WriteArea returns a slice into the buffer's scratch region starting at
// Written(), at least length bytes long, growing the buffer if necessary.
// The caller fills some prefix of the returned slice and reports how many
// bytes were written via Advance. The returned slice is invalidated by the
// next Grow or Compact call.
func (b *Buf) WriteArea(length int) []byte {
	b.Grow(b.written + length)
	return b.data[b.written : b.written+length]
}

// Advance moves the watermark forward by n bytes, used after filling a slice
// obtained from WriteArea.
func (b *Buf) Advance(n int) {
	b.written += n
}

// Compact logically shifts [lo, hi) down to [0, hi-lo) and sets
// Written() := min(Written(), hi-lo). Any Subarray view taken before the call
// is invalidated.
func (b *Buf) Compact(lo, hi int) error {
	if lo < 0 || hi > b.written || lo > hi {
		return fmt.Errorf("growbuf: invalid compact range [%d,%d) over %d written bytes", lo, hi, b.written)
	}
	n := hi - lo
	copy(b.data[0:n], b.data[lo:hi])
	if b.written > n {
		b.written = n
	}
	return nil
}

// Subarray returns a non-owning view of [lo, hi). The view is invalidated by
// the next Grow or Compact call; callers that need to retain the bytes past
// that point must copy them.
func (b *Buf) Subarray(lo, hi int) ([]byte, error) {
	if lo < 0 || hi > b.written || lo > hi {
		return nil, fmt.Errorf("growbuf: invalid range [%d,%d) over %d written bytes", lo, hi, b.written)
	}
	return b.data[lo:hi], nil
}

// Reset discards all content, keeping the allocated capacity.
func (b *Buf) Reset() {
	b.written = 0
}
