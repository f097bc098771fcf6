// Package zipper provides pairwise iteration of two sequences, padding the
// shorter side with its zero value once it is exhausted.
package zipper

// Pair is one step of a zipped iteration.
type Pair[A, B any] struct {
	Left     A
	Right    B
	HasLeft  bool
	HasRight bool
}

// Zip combines a and b element-wise. The result has length
// max(len(a), len(b)); once one side runs out, its field keeps reporting
// the zero value and HasLeft/HasRight is false for the remaining steps.
func Zip[A, B any](a []A, b []B) []Pair[A, B] {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]Pair[A, B], n)
	for i := 0; i < n; i++ {
		var p Pair[A, B]
		if i < len(a) {
			p.Left = a[i]
			p.HasLeft = true
		}
		if i < len(b) {
			p.Right = b[i]
			p.HasRight = true
		}
		out[i] = p
	}
	return out
}

// Func consumes one zipped step at a time without materializing the full
// slice, returning early if fn returns false.
func Func[A, B any](a []A, b []B, fn func(i int, p Pair[A, B]) bool) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var p Pair[A, B]
		if i < len(a) {
			p.Left = a[i]
			p.HasLeft = true
		}
		if i < len(b) {
			p.Right = b[i]
			p.HasRight = true
		}
		if !fn(i, p) {
			return
		}
	}
}
