package planner

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"testing"

	spliterator "github.com/sister-software/spliterator"
	"github.com/sister-software/spliterator/needle"
	"github.com/sister-software/spliterator/rangequeue"
)

type memSeekable struct {
	data []byte
}

func (m *memSeekable) Size() int64 { return int64(len(m.data)) }

func (m *memSeekable) ReadInto(_ context.Context, p []byte, position int64) (int, error) {
	n := copy(p, m.data[position:])
	return n, nil
}

func TestPlanChunksLiteralScenario(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = 'x'
	}
	for _, pos := range []int{100, 250, 500, 750} {
		data[pos] = '\n'
	}
	src := &memSeekable{data: data}

	ranges, err := PlanChunks(context.Background(), src, needle.LF, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []struct{ start, end int }{
		{0, 250}, {251, 500}, {501, 1000},
	}
	if len(ranges) != len(want) {
		t.Fatalf("got %v, want %v", ranges, want)
	}
	for i, w := range want {
		if ranges[i].Start != w.start || ranges[i].End != w.end {
			t.Fatalf("range %d = %+v, want (%d,%d)", i, ranges[i], w.start, w.end)
		}
	}
}

func TestPlanChunksClampsToOne(t *testing.T) {
	// size(1) < desired(100) forces N down to 1 via the size clamp, short
	// circuiting before any delimiter search is attempted.
	src := &memSeekable{data: []byte("x")}
	ranges, err := PlanChunks(context.Background(), src, needle.LF, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranges) != 1 || ranges[0].Start != 0 || ranges[0].End != 1 {
		t.Fatalf("got %v, want single range covering whole source", ranges)
	}
}

func TestPlanChunksReconstructsSource(t *testing.T) {
	src := &memSeekable{data: []byte("aaa\nbbb\nccc\nddd\neee\nfff\nggg\n")}
	ranges, err := PlanChunks(context.Background(), src, needle.LF, 4)
	if err != nil {
		t.Fatal(err)
	}
	var rebuilt bytes.Buffer
	for i, r := range ranges {
		if i > 0 {
			rebuilt.Write(needle.LF.Bytes())
		}
		rebuilt.Write(src.data[r.Start:r.End])
	}
	if rebuilt.String() != string(src.data) {
		t.Fatalf("got %q, want %q", rebuilt.String(), src.data)
	}
}

func TestScanParallelPreservesPlannerOrder(t *testing.T) {
	src := &memSeekable{data: []byte("a\nb\nc\nd\ne\nf\ng\nh\n")}
	var mu sync.Mutex
	var seenRangeIdx []int
	var seenRecords []string

	err := ScanParallel(context.Background(), src, spliterator.Init{Needle: needle.LF, SkipEmpty: true}, 3,
		func(rangeIndex int, rng rangequeue.Range, record []byte) error {
			mu.Lock()
			defer mu.Unlock()
			seenRangeIdx = append(seenRangeIdx, rangeIndex)
			seenRecords = append(seenRecords, string(record))
			return nil
		})
	if err != nil {
		t.Fatal(err)
	}

	if !sort.IntsAreSorted(seenRangeIdx) {
		t.Fatalf("range indices not delivered in planner order: %v", seenRangeIdx)
	}

	got := bytes.Join(toBytesSlice(seenRecords), nil)
	want := bytes.ReplaceAll(src.data, []byte("\n"), nil)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func toBytesSlice(ss []string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}
