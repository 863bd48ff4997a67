package objects

import (
	"github.com/snek-lang/snekmem/heap"
	"github.com/snek-lang/snekmem/internal/heapcore"
)

// Func layout: [code:4][env:PolySize]. code is a +1-biased Offset into a
// Code block (0 = no code, e.g. a partially-built closure); env is the
// poly the closure captured, typically a List of bound names and values
// but opaque to Func itself.
const (
	funcCodeOff = 0
	funcEnvOff  = 4
	funcSize    = funcEnvOff + heap.PolySize
)

// Func is the heap.Mem descriptor for snek closures.
type Func struct{}

var _ heap.Mem = Func{}

func (Func) Name() string { return "func" }

func (Func) Size(h *heap.Heap, addr heapcore.Offset) uint32 {
	return h.Round(funcSize)
}

func (Func) Mark(h *heap.Heap, addr heapcore.Offset) {
	if code := h.ReadOffset(addr + funcCodeOff); code != 0 {
		h.MarkOffset(Code{}, code)
	}
	h.PolyMark(h.ReadPoly(addr + funcEnvOff))
}

func (Func) Move(h *heap.Heap, addr heapcore.Offset) {
	if code := h.ReadOffset(addr + funcCodeOff); code != 0 {
		ref := code
		h.MoveOffset(Code{}, &ref)
		if ref != code {
			h.WriteOffset(addr+funcCodeOff, ref)
		}
	}
	env := h.ReadPoly(addr + funcEnvOff)
	h.PolyMove(&env)
	h.WritePoly(addr+funcEnvOff, env)
}

// NewFunc allocates a closure over codeAddr (its instruction block) with
// the given captured environment. Both are rooted across the Alloc call
// below — via the code stash register and the poly stash respectively —
// since Alloc may trigger a collection that relocates either one before
// the new Func object can reference them.
func NewFunc(h *heap.Heap, codeAddr heapcore.Offset, env heap.Poly) (heap.Poly, error) {
	if codeAddr != 0 {
		h.StashCode(codeAddr)
	}
	h.Stash(env)
	off, err := h.Alloc(funcSize)
	env = h.Fetch()
	if codeAddr != 0 {
		codeAddr = h.FetchCode()
	}
	if err != nil {
		return heap.Poly{}, err
	}
	if codeAddr != 0 {
		h.WriteOffset(off+funcCodeOff, codeAddr+1)
	}
	h.WritePoly(off+funcEnvOff, env)
	return heap.NewHeapPoly(heap.KindFunc, off), nil
}

// FuncCode returns the code block offset a closure runs, or 0 if none.
func FuncCode(h *heap.Heap, addr heapcore.Offset) heapcore.Offset {
	biased := h.ReadOffset(addr + funcCodeOff)
	if biased == 0 {
		return 0
	}
	return biased - 1
}

// FuncEnv returns a closure's captured environment poly.
func FuncEnv(h *heap.Heap, addr heapcore.Offset) heap.Poly {
	return h.ReadPoly(addr + funcEnvOff)
}
