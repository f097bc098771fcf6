package growbuf

import (
	"bytes"
	"testing"
)

func TestSetGrowsAndAdvancesWatermark(t *testing.T) {
	b := New(4)
	b.Set([]byte("hello"), 0)
	if b.Written() != 5 {
		t.Fatalf("written = %d, want 5", b.Written())
	}
	got, err := b.Subarray(0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("hello")) {
		t.Fatalf("got %q", got)
	}
}

func TestCompactShiftsLeft(t *testing.T) {
	b := New(16)
	b.Set([]byte("0123456789"), 0)
	if err := b.Compact(4, 10); err != nil {
		t.Fatal(err)
	}
	if b.Written() != 6 {
		t.Fatalf("written = %d, want 6", b.Written())
	}
	got, _ := b.Subarray(0, 6)
	if !bytes.Equal(got, []byte("456789")) {
		t.Fatalf("got %q", got)
	}
}

func TestSubarrayRangeErrors(t *testing.T) {
	b := New(4)
	b.Set([]byte("ab"), 0)
	if _, err := b.Subarray(1, 0); err == nil {
		t.Fatal("expected error for lo > hi")
	}
	if _, err := b.Subarray(0, 5); err == nil {
		t.Fatal("expected error for hi > written")
	}
}

func TestWriteAreaAndAdvance(t *testing.T) {
	b := New(0)
	area := b.WriteArea(3)
	copy(area, []byte("xyz"))
	b.Advance(3)
	got, _ := b.Subarray(0, 3)
	if !bytes.Equal(got, []byte("xyz")) {
		t.Fatalf("got %q", got)
	}
}

func TestGrowPreservesWrittenBytes(t *testing.T) {
	b := New(2)
	b.Set([]byte("ab"), 0)
	b.Grow(100)
	if b.Cap() < 100 {
		t.Fatalf("cap = %d, want >= 100", b.Cap())
	}
	got, _ := b.Subarray(0, 2)
	if !bytes.Equal(got, []byte("ab")) {
		t.Fatalf("got %q", got)
	}
}
