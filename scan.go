package spliterator

import (
	"github.com/sister-software/spliterator/needle"
	"github.com/sister-software/spliterator/rangequeue"
)

// scanFill searches data for needle occurrences starting at pos, enqueueing
// a range for each gap between occurrences, until either no further
// occurrence is found in [pos, len(data)) or the queue's total queued bytes
// reach budget (budget <= 0 means unbounded). It returns the position just
// past the last occurrence found (or pos unchanged if none were found),
// which becomes the next call's search start.
func scanFill(data []byte, pos int, n needle.Sequence, q *rangequeue.Queue, budget int) int {
	for pos < len(data) {
		if budget > 0 && q.TotalBytes() >= budget {
			break
		}
		p, ok := n.Search(data, pos, len(data))
		if !ok {
			break
		}
		q.Push(rangequeue.Range{Start: pos, End: p})
		pos = p + n.Len()
	}
	return pos
}

// scanDrain enqueues the trailing range once no further delimiter occurrence
// remains to be found: (pos, len(data)). This single formula also produces
// spec's two special cases: if the tail byte run ends exactly on a
// delimiter, pos already equals len(data) here (scanFill consumed it), so
// the enqueued range is empty; if nothing was ever found, pos is still the
// initial position, so the whole source is enqueued as one record.
func scanDrain(data []byte, pos int, q *rangequeue.Queue) {
	q.Push(rangequeue.Range{Start: pos, End: len(data)})
}
