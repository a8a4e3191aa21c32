// Package batch runs the same operation over a list of items with a hard
// ceiling on concurrent in-flight calls. Items are processed in consecutive
// chunks; every call in a chunk must settle before the next chunk starts,
// so the number of simultaneous requests never exceeds the chunk size.
//
// One item's failure never cancels or blocks its siblings: every item gets
// an outcome and the caller decides what partial failure means. The executor
// never retries.
package batch

import (
	"context"
	"sync"
)

// DefaultSize caps simultaneous in-flight requests during bulk operations.
const DefaultSize = 5

// Operation is the per-item work function. The returned detail is a short
// human-readable confirmation used in the per-item report.
type Operation[T any] func(ctx context.Context, item T) (detail string, err error)

// Outcome is the settled result for one input item.
type Outcome[T any] struct {
	Item   T
	Detail string
	Err    error
}

// OK reports whether the item succeeded.
func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

// Run applies op to every item and returns one outcome per item, aligned
// with input order. size values below 1 are treated as 1.
func Run[T any](ctx context.Context, items []T, size int, op Operation[T]) []Outcome[T] {
	if size < 1 {
		size = 1
	}

	outcomes := make([]Outcome[T], len(items))

	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				detail, err := op(ctx, items[i])
				// Each goroutine writes a distinct index, no lock needed
				outcomes[i] = Outcome[T]{Item: items[i], Detail: detail, Err: err}
			}(i)
		}
		wg.Wait()
	}

	return outcomes
}

// Failed counts the outcomes that carry an error.
func Failed[T any](outcomes []Outcome[T]) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
