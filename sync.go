package spliterator

import (
	"github.com/sister-software/spliterator/rangequeue"
)

// Sync is a single-threaded iterator over an in-memory byte source. It
// yields zero-copy slices of the source between delimiter occurrences. Not
// safe for concurrent use; Next must be called by a single goroutine.
type Sync struct {
	data []byte
	init Init

	queue       rangequeue.Queue
	pos         int
	yielded     int
	done        bool
	drained     bool
	lastEmitted *rangequeue.Range
}

// NewSync constructs a Sync iterator over data. Fails with a ConstructionError
// if init.Needle is the zero value.
func NewSync(data []byte, init Init) (*Sync, error) {
	if init.Needle.Len() == 0 {
		return nil, constructionError(errEmptyNeedle)
	}
	init = init.normalized()
	s := &Sync{data: data, init: init, pos: init.Position}
	if init.Position > 0 && init.Position >= len(data) {
		s.done = true
	}
	return s, nil
}

// Next advances the iterator. ok is false once the iterator is exhausted; no
// further calls after that will yield records (the iterator is terminal).
func (s *Sync) Next() (r rangequeue.Range, view []byte, ok bool) {
	for {
		if s.done {
			return rangequeue.Range{}, nil, false
		}
		if !s.init.withinTake(s.yielded) {
			s.done = true
			continue
		}
		if s.queue.Len() == 0 {
			s.pos = scanFill(s.data, s.pos, s.init.Needle, &s.queue, s.init.budget())
			if s.queue.Len() == 0 {
				if s.drained {
					s.done = true
					continue
				}
				scanDrain(s.data, s.pos, &s.queue)
				s.drained = true
			}
		}

		rng, _ := s.queue.Pop()
		s.lastEmitted = &rng

		if rng.Len() == 0 && s.init.SkipEmpty {
			continue
		}
		s.yielded++
		if s.yielded <= s.init.Drop {
			continue
		}
		return rng, s.data[rng.Start:rng.End], true
	}
}

// Collect drains the iterator and returns every emitted range. Terminal: the
// iterator is exhausted afterward.
func (s *Sync) Collect() []rangequeue.Range {
	var out []rangequeue.Range
	for {
		r, _, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, r)
	}
}

// CollectViews drains the iterator and returns every emitted view, copied so
// they outlive the call (Sync never reallocates its backing data, but
// CollectViews is documented to return owned copies for symmetry with
// CollectDecoded-style callers that keep results around).
func (s *Sync) CollectViews() [][]byte {
	var out [][]byte
	for {
		_, v, ok := s.Next()
		if !ok {
			return out
		}
		cp := make([]byte, len(v))
		copy(cp, v)
		out = append(out, cp)
	}
}
