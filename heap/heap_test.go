package heap

import (
	"testing"

	"github.com/snek-lang/snekmem/internal/heapcore"
)

// blob is a minimal Mem with no references, used to exercise Alloc and
// Collect without pulling in package objects.
type blob struct{ size uint32 }

func (b blob) Name() string                             { return "blob" }
func (b blob) Size(h *Heap, addr heapcore.Offset) uint32 { return h.Round(b.size) }
func (b blob) Mark(h *Heap, addr heapcore.Offset)        {}
func (b blob) Move(h *Heap, addr heapcore.Offset)        {}

func newTestHeap(t *testing.T, poolSize uint32) *Heap {
	t.Helper()
	cfg := Config{NumStash: 4}
	cfg.Config = heapcore.DefaultConfig()
	cfg.PoolSize = poolSize
	h, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

func TestAllocBumpsTop(t *testing.T) {
	h := newTestHeap(t, 256)
	off, err := h.Alloc(16)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if off != 0 {
		t.Errorf("first Alloc offset = %d, want 0", off)
	}
	if h.Top() != 16 {
		t.Errorf("Top() = %d, want 16", h.Top())
	}
}

func TestAllocOutOfMemory(t *testing.T) {
	h := newTestHeap(t, 32)
	if _, err := h.Alloc(16); err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if _, err := h.Alloc(1024); err != ErrOutOfMemory {
		t.Fatalf("Alloc of an oversized request: got err %v, want ErrOutOfMemory", err)
	}
}

// TestRootSurvivesCollect: an object reachable only via a typed root must
// still be there, at a (possibly new) offset, after a full collect.
func TestRootSurvivesCollect(t *testing.T) {
	h := newTestHeap(t, 1024)
	h.RegisterKind(KindString, blob{size: 8})

	// Garbage below the root, so a full collect has to slide the rooted
	// object down to offset 0.
	if _, err := h.Alloc(8); err != nil {
		t.Fatalf("Alloc: %v", err)
	}

	var root heapcore.Offset
	var err error
	root, err = h.Alloc(8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	h.Bytes(root, 8)[0] = 0x42
	h.AddRoot("r", blob{size: 8}, &root)

	// More garbage above the root.
	for i := 0; i < 16; i++ {
		if _, err := h.Alloc(8); err != nil {
			break
		}
	}

	h.Collect(CollectFull)
	if h.Bytes(root, 1)[0] != 0x42 {
		t.Fatalf("rooted object's contents did not survive a full collect")
	}
}

func TestStashProtectsAcrossAlloc(t *testing.T) {
	h := newTestHeap(t, 64)
	h.RegisterKind(KindString, blob{size: 8})

	first, err := h.Alloc(8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	h.Bytes(first, 8)[0] = 0x7

	firstPoly := NewHeapPoly(KindString, first)
	h.Stash(firstPoly)

	// Allocate until the pool is forced to collect; the stashed poly
	// should come back updated to wherever the object slid to.
	for i := 0; i < 8; i++ {
		if _, err := h.Alloc(8); err != nil {
			break
		}
	}

	got := h.Fetch()
	if h.Bytes(got.Offset(), 1)[0] != 0x7 {
		t.Fatalf("stashed value's contents did not survive a collection")
	}
}

func TestStashIsLIFO(t *testing.T) {
	h := newTestHeap(t, 256)
	a := NewFloatPoly(1)
	b := NewFloatPoly(2)
	h.Stash(a)
	h.Stash(b)
	if got := h.Fetch(); got.Imm() != 2 {
		t.Errorf("Fetch() = %d, want 2 (LIFO order)", got.Imm())
	}
	if got := h.Fetch(); got.Imm() != 1 {
		t.Errorf("Fetch() = %d, want 1 (LIFO order)", got.Imm())
	}
}

func TestStashOverflowPanicsInDebugMode(t *testing.T) {
	cfg := Config{NumStash: 1, Debug: true}
	cfg.Config = heapcore.DefaultConfig()
	cfg.PoolSize = 64
	h, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.Stash(NewFloatPoly(1))
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Stash overflow to panic in debug mode")
		}
	}()
	h.Stash(NewFloatPoly(2))
}

func TestBitmapIdempotence(t *testing.T) {
	h := newTestHeap(t, 256)
	h.RegisterKind(KindString, blob{size: 8})
	off, err := h.Alloc(8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	already := h.MarkBlockAddr(blob{size: 8}, off)
	if already {
		t.Fatalf("first MarkBlockAddr reported already-marked")
	}
	if !h.MarkBlockAddr(blob{size: 8}, off) {
		t.Fatalf("second MarkBlockAddr on the same granule reported not-already-marked")
	}
}
