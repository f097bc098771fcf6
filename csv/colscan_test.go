package csv

import "testing"

func TestQuoteCounterImplementationsAgree(t *testing.T) {
	rows := [][]byte{
		[]byte(`"a,b",c`),
		[]byte(`a,"b""c",d`),
		[]byte(``),
		[]byte(`"""""`),
		[]byte(make([]byte, 130)), // spans multiple 64-bit words, no quotes
	}
	for _, row := range rows {
		bitmap := newBitmapQuoteCounter(row)
		scalar := newScalarQuoteCounter(row)
		for pos := 0; pos <= len(row); pos++ {
			if got, want := bitmap(pos), scalar(pos); got != want {
				t.Fatalf("row %q pos %d: bitmap=%d scalar=%d", row, pos, got, want)
			}
		}
	}
}

func TestSplitQuoteAwareUsesSelectedCounter(t *testing.T) {
	prev := newQuoteCounter
	defer func() { newQuoteCounter = prev }()

	for _, impl := range []func([]byte) func(int) int{newBitmapQuoteCounter, newScalarQuoteCounter} {
		newQuoteCounter = impl
		fields := splitQuoteAware([]byte(`"a,b",c`), ',')
		if len(fields) != 2 || string(fields[0]) != `"a,b"` || string(fields[1]) != "c" {
			t.Fatalf("got %v", fields)
		}
	}
}
