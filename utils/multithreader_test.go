package utils

import (
	"testing"

	"go.uber.org/atomic"
)

func TestMultiThread(t *testing.T) {
	for _, threads := range []int{0, 1, 3, 64} {
		seen := make([]atomic.Int32, 100)

		MultiThread(10, 100, func(i int) { seen[i].Inc() }, 7, threads)

		for i := range seen {
			want := int32(0)
			if i >= 10 {
				want = 1
			}

			if n := seen[i].Load(); n != want {
				t.Errorf("%d threads: index %d visited %d times, want %d", threads, i, n, want)
			}
		}
	}
}

func TestPairwiseReduce(t *testing.T) {
	concat := func(a, b string) string { return "(" + a + b + ")" }

	tests := []struct {
		in   []string
		want string
	}{
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "(ab)"},
		{[]string{"a", "b", "c"}, "((ab)c)"},
		{[]string{"a", "b", "c", "d", "e"}, "(((ab)(cd))e)"},
	}

	for _, test := range tests {
		if got := PairwiseReduce(test.in, concat); got != test.want {
			t.Errorf("PairwiseReduce(%v) = %q, want %q", test.in, got, test.want)
		}
	}
}
