package heapcore

import "fmt"

// InvariantError reports a violated internal invariant: a non-pool
// address where a pool address was required, a chunk-window binary
// search landing outside its array bounds, and the like. These are
// programmer/collector bugs, not client-facing failures, so they are
// only checked when a Heap is built with Config.Debug, and they panic
// rather than return — spec.md §7 calls this class fatal, compiled out
// of release builds.
type InvariantError struct {
	Op  string
	Off Offset
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("heapcore: invariant violation in %s at offset %d", e.Op, e.Off)
}
