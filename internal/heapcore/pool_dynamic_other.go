//go:build !unix

package heapcore

import "fmt"

// NewDynamicPool is unavailable on non-Unix targets: there is no portable
// anonymous-mmap syscall to carve the pool from. Use NewStaticPool there.
func NewDynamicPool(cfg Config) (*Pool, error) {
	return nil, fmt.Errorf("heapcore: dynamic pool requires a unix target")
}
