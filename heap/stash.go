package heap

import "github.com/snek-lang/snekmem/internal/heapcore"

// Stash pushes p onto the poly stash, a bounded LIFO that lets client
// code root a value across a call that might trigger Alloc and hence a
// collection. Overflow is a caller bug (spec.md §6): outside debug mode
// it is not checked, matching the zero-cost original contract; in debug
// mode it panics with an InvariantError.
func (h *Heap) Stash(p Poly) {
	if h.cfg.Debug && h.stashSP >= len(h.stashPoly) {
		panic(&heapcore.InvariantError{Op: "Stash: overflow"})
	}
	h.stashPoly[h.stashSP] = p
	h.stashSP++
}

// Fetch pops the most recently stashed poly. The slot is cleared first
// so it cannot keep the object alive past the fetch. Underflow is a
// caller bug, checked only in debug mode.
func (h *Heap) Fetch() Poly {
	if h.cfg.Debug && h.stashSP <= 0 {
		panic(&heapcore.InvariantError{Op: "Fetch: underflow"})
	}
	h.stashSP--
	p := h.stashPoly[h.stashSP]
	h.stashPoly[h.stashSP] = Poly{}
	return p
}

// StashCode sets the single code-pointer stash register. Requires the
// Heap to have been constructed with a non-nil Config.CodeMem.
func (h *Heap) StashCode(off heapcore.Offset) {
	if h.cfg.CodeMem == nil {
		panic("heap: StashCode called without Config.CodeMem")
	}
	h.codeOff = off
	h.codeStashed = true
}

// FetchCode returns and clears the code-pointer stash register.
func (h *Heap) FetchCode() heapcore.Offset {
	if h.cfg.CodeMem == nil {
		panic("heap: FetchCode called without Config.CodeMem")
	}
	off := h.codeOff
	h.codeOff = 0
	h.codeStashed = false
	return off
}
