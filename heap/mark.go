package heap

import "github.com/snek-lang/snekmem/internal/heapcore"

// visitAddrFunc is applied to every typed root slot and every note-listed
// list during a walk. ref is the address of the slot (or of a local loop
// variable holding the current list offset) so that the move-mode
// variant can rewrite it in place when the referenced object relocates.
// The implementations walk passes in are Heap methods (markVisitAddr,
// moveVisitAddr) whose receiver already closes over the Heap, so the
// type itself carries no separate *Heap parameter.
type visitAddrFunc func(t Mem, ref *heapcore.Offset) bool

// visitPolyFunc is applied to every untyped poly root slot during a walk.
type visitPolyFunc func(p *Poly) bool

// walk implements spec.md §4.E: reset the busy bitmap and note-list, run
// the interpreter hook, trace every root in declaration order, then drain
// the note-list.
// The same walk shape serves both the mark phase (visitAddr/visitPoly
// mark objects and populate the chunk window) and the move phase
// (visitAddr/visitPoly rewrite references using the chunk window's
// old->new mapping) — only the visit functions and run hook differ.
func (h *Heap) walk(visitAddr visitAddrFunc, visitPoly visitPolyFunc, runHook func(*Heap)) {
	h.pool.Busy().Reset()
	h.noteList = 0

	if runHook != nil {
		runHook(h)
	}

	for i := range h.roots {
		slot := &h.roots[i]
		if slot.Type != nil {
			if slot.Ref == nil || *slot.Ref == 0 {
				continue
			}
			visitAddr(slot.Type, slot.Ref)
		} else {
			if slot.Poly == nil || slot.Poly.IsNull() {
				continue
			}
			visitPoly(slot.Poly)
		}
	}

	h.drainNoteList(visitAddr)
}

// drainNoteList empties the list worklist threaded through list storage,
// clearing each entry's note-next link and noted bit. Each outer
// iteration snapshots the current note-list head and clears the shared
// head so that any list pushed while this chain is processed lands on a
// fresh chain for the next outer iteration. Every entry is passed to
// visitAddr, but PolyMark and PolyMove have already marked each pushed
// list busy and traced it, so that visit returns at once without calling
// the list's Mark or Move again. Termination follows from the noted bit:
// a list can only be enqueued once per walk, so the unvisited population
// strictly decreases.
func (h *Heap) drainNoteList(visitAddr visitAddrFunc) {
	listMem, _ := h.mems[KindList].(ListMem)
	for h.noteList != 0 {
		note := h.noteList
		h.noteList = 0
		for note != 0 {
			cur := note
			visitAddr(listMem, &cur)
			next := listMem.NoteNext(h, cur)
			listMem.SetNoteNext(h, cur, 0)
			listMem.SetNoted(h, cur, false)
			note = next
		}
	}
}

// noteListPush enqueues addr onto the note-list if it isn't already
// there. It reports whether addr was already noted.
func (h *Heap) noteListPush(listMem ListMem, addr heapcore.Offset) bool {
	if listMem.Noted(h, addr) {
		return true
	}
	listMem.SetNoteNext(h, addr, h.noteList)
	listMem.SetNoted(h, addr, true)
	h.noteList = addr
	return false
}

// MarkBlob records that size bytes at addr have been reached during the
// current mark pass. It reports true if the granule was already busy
// (spec.md §8 invariant 7, bitmap idempotence): a no-op in that case.
// Otherwise it sets the busy bit and inserts (addr, size) into the chunk
// window.
func (h *Heap) MarkBlob(addr heapcore.Offset, size uint32) bool {
	h.assertPoolOffset("MarkBlob", addr)
	if h.pool.Busy().Busy(addr) {
		return true
	}
	h.pool.Busy().Mark(addr)
	h.noteChunk(addr, size)
	return false
}

// MarkBlockAddr marks the object at addr using t.Size to determine its
// extent, without invoking t.Mark.
func (h *Heap) MarkBlockAddr(t Mem, addr heapcore.Offset) bool {
	return h.MarkBlob(addr, t.Size(h, addr))
}

// MarkAddr marks the object at addr and, if this is the first time it
// has been reached this pass, invokes t.Mark to trace its references.
// addr is assumed unbiased, the convention used by root slots and by a
// Poly's embedded offset.
func (h *Heap) MarkAddr(t Mem, addr heapcore.Offset) bool {
	already := h.MarkBlockAddr(t, addr)
	if !already {
		t.Mark(h, addr)
	}
	return already
}

// MarkOffset is MarkAddr's analogue for a +1-biased object-payload field
// (the convention described at MoveBlockOffset). Callers must not invoke
// it on a field whose stored value is zero.
func (h *Heap) MarkOffset(t Mem, biasedOff heapcore.Offset) bool {
	return h.MarkAddr(t, biasedOff-1)
}

// markVisitAddr adapts MarkAddr to the visitAddrFunc shape used by walk:
// dereference the slot, mark what it points to. (The mark phase never
// needs to rewrite the slot; it's read-only.)
func (h *Heap) markVisitAddr(t Mem, ref *heapcore.Offset) bool {
	return h.MarkAddr(t, *ref)
}

// PolyMark marks the object a poly references. Immediates are always
// "already marked". A newly marked object's Mark is invoked at once, for
// lists too, so nested lists are traced by recursion and the recursion
// depth grows with the nesting depth; list traversal is not deferred. A
// newly marked list is additionally pushed onto the note-list, which
// drainNoteList later empties without tracing the list again.
func (h *Heap) PolyMark(p Poly) bool {
	if p.kind.immediate() {
		return true
	}
	mem := h.mems[p.kind]
	addr := p.off
	h.assertPoolOffset("PolyMark", addr)

	already := h.MarkBlockAddr(mem, addr)
	if !already {
		mem.Mark(h, addr)
		if p.kind == KindList {
			h.noteListPush(mem.(ListMem), addr)
		}
	}
	return already
}

// markVisitPoly adapts PolyMark to the visitPolyFunc shape used by walk.
func (h *Heap) markVisitPoly(p *Poly) bool {
	return h.PolyMark(*p)
}
