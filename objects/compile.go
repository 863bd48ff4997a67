package objects

import (
	"github.com/snek-lang/snekmem/heap"
	"github.com/snek-lang/snekmem/internal/heapcore"
)

// CompileState is the heap.Mem descriptor for the compiler's own
// in-progress state root — nullable, since it only exists while a
// compile is running (spec.md's root table lists it as the one typed
// slot that is commonly empty).
const compileSize = heap.PolySize

// CompileState holds a single poly: whatever partial constant pool or
// AST node the compiler is threading through the current compile.
type CompileState struct{}

var _ heap.Mem = CompileState{}

func (CompileState) Name() string { return "compile" }

func (CompileState) Size(h *heap.Heap, addr heapcore.Offset) uint32 {
	return h.Round(compileSize)
}

func (CompileState) Mark(h *heap.Heap, addr heapcore.Offset) {
	h.PolyMark(h.ReadPoly(addr))
}

func (CompileState) Move(h *heap.Heap, addr heapcore.Offset) {
	p := h.ReadPoly(addr)
	h.PolyMove(&p)
	h.WritePoly(addr, p)
}

// NewCompileState allocates a fresh compiler-state object holding value.
func NewCompileState(h *heap.Heap, value heap.Poly) (heapcore.Offset, error) {
	h.Stash(value)
	off, err := h.Alloc(compileSize)
	value = h.Fetch()
	if err != nil {
		return 0, err
	}
	h.WritePoly(off, value)
	return off, nil
}
