// Package utils holds small helpers shared by bptt and its subpackages.
package utils

import (
	"sync"
)

// MultiThread runs an operation on a range of integers across several goroutines. It should be
// called sequentially, not in a separate thread: it returns once f has returned for every value
// in the range.
//
// the range includes 'start' and excludes 'end'
//  - MultiThread assumes that end ≥ start
// 'f' is the function that should be run for each value in the range
// 'opsPerThread' is the number of values that each goroutine will handle before requesting another set
// 'threads' is the number of goroutines created. Values less than 1 are treated as 1.
//
// With a single thread, f is called in increasing order on the calling goroutine.
func MultiThread(start, end int, f func(int), opsPerThread, threads int) {
	if opsPerThread < 1 {
		opsPerThread = 1
	}

	if threads <= 1 || end-start <= 1 {
		for i := start; i < end; i++ {
			f(i)
		}

		return
	}

	if n := (end - start + opsPerThread - 1) / opsPerThread; threads > n {
		threads = n
	}

	index := start
	var indexMux sync.Mutex

	var wg sync.WaitGroup

	wg.Add(threads)
	for thread := 0; thread < threads; thread++ {
		go func() {
			defer wg.Done()

			for {
				indexMux.Lock()
				if index >= end {
					indexMux.Unlock()
					return
				}

				i := index
				index += opsPerThread
				indexMux.Unlock()

				e := i + opsPerThread
				if e > end {
					e = end
				}

				for ; i < e; i++ {
					f(i)
				}
			}
		}()
	}

	wg.Wait()
}

// PairwiseReduce folds the values in vs together with merge, pairing neighbours at each level:
// ((v0+v1)+(v2+v3))+... The order of the merges depends only on len(vs), so the result is the same
// no matter how the values were produced. merge may modify and return its first argument.
//
// PairwiseReduce panics if vs is empty.
func PairwiseReduce[T any](vs []T, merge func(a, b T) T) T {
	level := append([]T(nil), vs...)
	for len(level) > 1 {
		next := make([]T, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, merge(level[i], level[i+1]))
			} else {
				next = append(next, level[i])
			}
		}

		level = next
	}

	return level[0]
}
