package zipper

import "testing"

func TestZipEqualLength(t *testing.T) {
	pairs := Zip([]string{"a", "b"}, []int{1, 2})
	if len(pairs) != 2 {
		t.Fatalf("len = %d, want 2", len(pairs))
	}
	if pairs[0].Left != "a" || pairs[0].Right != 1 {
		t.Fatalf("got %+v", pairs[0])
	}
}

func TestZipPadsShorterLeft(t *testing.T) {
	pairs := Zip([]string{"a"}, []int{1, 2, 3})
	if len(pairs) != 3 {
		t.Fatalf("len = %d, want 3", len(pairs))
	}
	if pairs[1].HasLeft {
		t.Fatalf("expected HasLeft=false at index 1")
	}
	if !pairs[1].HasRight || pairs[1].Right != 2 {
		t.Fatalf("got %+v", pairs[1])
	}
}

func TestFuncEarlyExit(t *testing.T) {
	var visited []int
	Func([]int{1, 2, 3}, []int{4, 5, 6}, func(i int, p Pair[int, int]) bool {
		visited = append(visited, i)
		return i < 1
	})
	if len(visited) != 2 {
		t.Fatalf("visited = %v, want 2 steps", visited)
	}
}
