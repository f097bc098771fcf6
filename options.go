package spliterator

import "github.com/sister-software/spliterator/needle"

// Init carries the construction parameters shared by Sync and Async.
// Invalid Drop/Take values are normalized to zero rather than rejected, per
// spec: "Invalid init parameters (take < 0, negative drop) are normalized to
// zero."
type Init struct {
	// Needle is the delimiter. Required; constructing with a zero Sequence
	// is a ConstructionError.
	Needle needle.Sequence

	// Position is the initial cursor into the source. Defaults to 0.
	Position int

	// Drop is the number of leading records to discard before emission
	// begins. Counted after SkipEmpty filtering.
	Drop int
	// Take is the maximum number of records to emit. Zero (including the
	// unset zero value, and any negative value other than Unlimited, which
	// is normalized to zero) emits nothing; callers that want no upper bound
	// pass the Unlimited sentinel below.
	Take int

	// SkipEmpty discards zero-length ranges before they count against
	// Drop/Take.
	SkipEmpty bool

	// HighWaterMark bounds both the size of each read and the total
	// queued-but-unconsumed byte length. Zero leaves the queued byte length
	// unbounded; Async then reads in chunks of defaultHighWaterMark bytes.
	HighWaterMark int
}

// Unlimited is the Take value meaning "no upper bound on emitted records".
const Unlimited = -1

func (i Init) normalized() Init {
	if i.Drop < 0 {
		i.Drop = 0
	}
	if i.Take < 0 && i.Take != Unlimited {
		i.Take = 0
	}
	if i.Position < 0 {
		i.Position = 0
	}
	return i
}

func (i Init) budget() int {
	return i.HighWaterMark
}

// withinTake reports whether the state machine may still emit further
// records, given how many have been yielded so far.
func (i Init) withinTake(yielded int) bool {
	if i.Take == Unlimited {
		return true
	}
	return yielded < i.Drop+i.Take
}
