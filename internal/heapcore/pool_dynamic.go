//go:build unix

package heapcore

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// NewDynamicPool allocates the pool once, at init time, as an anonymous
// mmap region instead of a Go-managed slice. This is the SNEK_DYNAMIC=true
// branch: the original snek_mem_alloc carved the pool, busy bitmap, and
// chunk array out of one malloc'd block; here only the pool bytes come
// from the mmap'd region. The busy bitmap is an ordinary Go slice, and
// the chunk window, which is owned by package heap rather than heapcore,
// allocates its own backing slice.
//
// A dynamic pool must be Close()d to release the mapping.
func NewDynamicPool(cfg Config) (*Pool, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	total := int(cfg.PoolSize + cfg.PoolExtra)
	region, err := unix.Mmap(-1, 0, total, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("heapcore: mmap pool of %d bytes: %w", total, err)
	}
	p := &Pool{
		cfg:   cfg,
		bytes: region,
		closer: func() error {
			return unix.Munmap(region)
		},
	}
	p.busy = newBitmap(cfg.PoolSize, cfg.AllocShift)
	return p, nil
}
