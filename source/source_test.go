package source

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pierrec/lz4/v4"
)

func TestFileReadInto(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if f.Size() != 11 {
		t.Fatalf("size = %d, want 11", f.Size())
	}
	buf := make([]byte, 5)
	n, err := f.ReadInto(context.Background(), buf, 6)
	if err != nil && err != io.EOF {
		t.Fatal(err)
	}
	if n != 5 || string(buf) != "world" {
		t.Fatalf("got %q (%d)", buf[:n], n)
	}
}

func TestBytesChunkStream(t *testing.T) {
	cs := NewBytesChunkStream([][]byte{[]byte("ab"), []byte("cd")})
	ctx := context.Background()
	c1, err := cs.NextChunk(ctx)
	if err != nil || string(c1) != "ab" {
		t.Fatalf("got %q, %v", c1, err)
	}
	c2, err := cs.NextChunk(ctx)
	if err != nil || string(c2) != "cd" {
		t.Fatalf("got %q, %v", c2, err)
	}
	if _, err := cs.NextChunk(ctx); err != io.EOF {
		t.Fatalf("want io.EOF, got %v", err)
	}
}

func TestLZ4ChunkStreamRoundTrip(t *testing.T) {
	var compressed bytes.Buffer
	zw := lz4.NewWriter(&compressed)
	payload := []byte("a,b,c\n1,2,3\n4,5,6\n")
	if _, err := zw.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	stream := NewLZ4ChunkStream(bytes.NewReader(compressed.Bytes()), 4)
	ctx := context.Background()
	var got bytes.Buffer
	for {
		chunk, err := stream.NextChunk(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got.Write(chunk)
	}
	if got.String() != string(payload) {
		t.Fatalf("got %q, want %q", got.String(), payload)
	}
}
