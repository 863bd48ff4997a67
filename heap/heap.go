// Package heap implements the precise, moving, compacting collector
// described by spec.md: a bump allocator (internal/heapcore) topped with
// typed roots, a deferred-list mark engine, a bounded chunk window, and an
// in-place sliding compactor. A Heap is a plain Go value — no process-wide
// singletons — so a program may run more than one independently, and
// tests can build small, disposable heaps cheaply.
package heap

import (
	"github.com/snek-lang/snekmem/internal/heapcore"
)

// DefaultNumStash is the stash depth used when Config.NumStash is zero.
const DefaultNumStash = 5

// Config is the full init-time configuration of a Heap.
type Config struct {
	heapcore.Config

	// NChunk is the chunk window's capacity. Zero selects
	// PoolSize/64, the rule of thumb spec.md §4.F gives for an average
	// object size around 64 bytes.
	NChunk uint32
	// NumStash is the poly stash's LIFO depth. Zero selects
	// DefaultNumStash.
	NumStash int
	// Dynamic selects the mmap-backed pool variant over the static,
	// Go-slice-backed one.
	Dynamic bool
	// Debug enables the invariant checks described in spec.md §7. They
	// panic on violation and are skipped entirely when Debug is false.
	Debug bool
	// CodeMem, if non-nil, registers a typed root for the single code
	// stash register (see StashCode/FetchCode). If nil, StashCode and
	// FetchCode panic if called.
	CodeMem Mem
}

// Heap is a complete collector instance: pool, bitmap, chunk window,
// roots, and stash, threaded explicitly rather than held in package
// globals (spec.md §9, "Global state").
type Heap struct {
	cfg  Config
	pool *heapcore.Pool

	mems [numKinds]Mem

	roots   []RootSlot
	runMark func(*Heap)
	runMove func(*Heap)

	noteList heapcore.Offset

	chunks     []chunkRecord
	chunkLow   heapcore.Offset
	chunkHigh  heapcore.Offset
	chunkFirst int
	chunkLast  int

	lastTop       heapcore.Offset
	collectCounts uint8

	stashPoly []Poly
	stashSP   int

	codeOff     heapcore.Offset
	codeStashed bool
}

// New constructs a Heap from cfg, allocating its backing pool (static or
// dynamic, per cfg.Dynamic).
func New(cfg Config) (*Heap, error) {
	var pool *heapcore.Pool
	var err error
	if cfg.Dynamic {
		pool, err = heapcore.NewDynamicPool(cfg.Config)
	} else {
		pool, err = heapcore.NewStaticPool(cfg.Config)
	}
	if err != nil {
		return nil, err
	}

	nChunk := cfg.NChunk
	if nChunk == 0 {
		nChunk = cfg.PoolSize / 64
		if nChunk == 0 {
			nChunk = 1
		}
	}
	numStash := cfg.NumStash
	if numStash == 0 {
		numStash = DefaultNumStash
	}

	h := &Heap{
		cfg:       cfg,
		pool:      pool,
		chunks:    make([]chunkRecord, nChunk),
		stashPoly: make([]Poly, numStash),
	}
	if cfg.CodeMem != nil {
		h.AddRoot("stash_code", cfg.CodeMem, &h.codeOff)
	}
	for i := range h.stashPoly {
		h.AddPolyRoot("stash", &h.stashPoly[i])
	}
	return h, nil
}

// Close releases any OS resources held by a dynamic pool.
func (h *Heap) Close() error {
	return h.pool.Close()
}

// Top returns the current high-water mark of the pool.
func (h *Heap) Top() heapcore.Offset { return h.pool.Top() }

// Round returns n rounded up to the pool's allocation granule. Mem
// descriptors with variable-size objects (e.g. strings, arrays) use this
// so the size they report from Size always matches what Alloc actually
// reserved.
func (h *Heap) Round(n uint32) uint32 { return h.pool.Round(n) }

// Free returns the number of bytes currently available below PoolSize.
func (h *Heap) Free() uint32 { return h.pool.Free() }

// Alloc reserves size bytes, running the compactor (incremental, then
// full) if the bump region is too small. The returned region is
// zero-filled and granule-aligned; it stays valid until the next call to
// Alloc (which may move the whole live set).
func (h *Heap) Alloc(size uint32) (heapcore.Offset, error) {
	rounded := h.pool.Round(size)
	if h.pool.Free() < rounded {
		if h.Collect(CollectIncremental) < rounded {
			if h.Collect(CollectFull) < rounded {
				return 0, ErrOutOfMemory
			}
		}
	}
	off, ok := h.pool.Bump(rounded)
	if !ok {
		return 0, ErrOutOfMemory
	}
	return off, nil
}

func (h *Heap) assert(cond bool, op string, off heapcore.Offset) {
	if !h.cfg.Debug {
		return
	}
	if !cond {
		panic(&heapcore.InvariantError{Op: op, Off: off})
	}
}

func (h *Heap) assertPoolOffset(op string, off heapcore.Offset) {
	h.assert(h.pool.IsPoolOffset(off), op, off)
}
