package spliterator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sister-software/spliterator/needle"
	"github.com/sister-software/spliterator/source"
)

func collectAsyncStrings(t *testing.T, a *Async) []string {
	t.Helper()
	ctx := context.Background()
	var out []string
	for {
		_, v, ok, err := a.Next(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			return out
		}
		out = append(out, string(v))
	}
}

func TestAsyncChunkStreamSplitAcrossChunks(t *testing.T) {
	cs := source.NewBytesChunkStream([][]byte{
		[]byte("ab\n"), []byte("cd\n"), []byte("ef"),
	})
	a, err := NewAsyncChunkStream(cs, Init{Needle: needle.LF, Take: Unlimited, SkipEmpty: true})
	if err != nil {
		t.Fatal(err)
	}
	got := collectAsyncStrings(t, a)
	want := []string{"ab", "cd", "ef"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestAsyncCRLFSplitAcrossChunkBoundary(t *testing.T) {
	// "ab\r\ncd" delivered as ["ab\r", "\ncd"] so CR and LF land in
	// different chunks.
	cs := source.NewBytesChunkStream([][]byte{
		[]byte("ab\r"), []byte("\ncd"),
	})
	a, err := NewAsyncChunkStream(cs, Init{Needle: needle.CRLF, Take: Unlimited})
	if err != nil {
		t.Fatal(err)
	}
	got := collectAsyncStrings(t, a)
	want := []string{"ab", "cd"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAsyncSeekableMatchesSyncOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	content := "one,two,three,four,five,six,seven"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := source.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	comma, _ := needle.NewFromString(",")
	a, err := NewAsyncSeekable(f, Init{Needle: comma, Take: Unlimited, HighWaterMark: 4})
	if err != nil {
		t.Fatal(err)
	}
	got := collectAsyncStrings(t, a)

	s, _ := NewSync([]byte(content), Init{Needle: comma, Take: Unlimited})
	want := collectStrings(t, s)

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestAsyncPositionBeyondSizeEmitsNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	os.WriteFile(path, []byte("abc"), 0o644)
	f, _ := source.OpenFile(path)
	defer f.Close()

	a, err := NewAsyncSeekable(f, Init{Needle: needle.LF, Position: 10, Take: Unlimited})
	if err != nil {
		t.Fatal(err)
	}
	got := collectAsyncStrings(t, a)
	if len(got) != 0 {
		t.Fatalf("got %v, want none", got)
	}
}

func TestAsyncReturnCancelsIteration(t *testing.T) {
	cs := source.NewBytesChunkStream([][]byte{[]byte("a\nb\nc\n")})
	a, _ := NewAsyncChunkStream(cs, Init{Needle: needle.LF, Take: Unlimited})
	ctx := context.Background()
	if _, _, ok, _ := a.Next(ctx); !ok {
		t.Fatal("expected first record")
	}
	if err := a.Return(); err != nil {
		t.Fatal(err)
	}
	_, _, ok, err := a.Next(ctx)
	if ok || err != nil {
		t.Fatalf("expected terminal after Return, got ok=%v err=%v", ok, err)
	}
}

func TestAsyncChunkStreamRejectsPosition(t *testing.T) {
	cs := source.NewBytesChunkStream(nil)
	if _, err := NewAsyncChunkStream(cs, Init{Needle: needle.LF, Position: 5}); err == nil {
		t.Fatal("expected construction error")
	}
}
