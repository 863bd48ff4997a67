package heap

import "github.com/snek-lang/snekmem/internal/heapcore"

// CollectStyle selects how much of the heap a call to Collect considers
// for compaction.
type CollectStyle uint8

const (
	// CollectIncremental starts sliding from the high-water mark of the
	// last full collect, skipping over long-lived objects at the bottom
	// of the heap cheaply.
	CollectIncremental CollectStyle = iota
	// CollectFull starts sliding from offset 0, reclaiming fragmentation
	// left by long-lived objects.
	CollectFull
)

// Collect runs the compactor and returns the number of bytes free
// afterward. The very first collect ever, and every 128th incremental
// collect, is upgraded to a full collect regardless of the style
// requested (spec.md §4.G step 1).
func (h *Heap) Collect(style CollectStyle) uint32 {
	if style == CollectIncremental {
		h.collectCounts++
	}
	if h.lastTop == 0 || h.collectCounts >= 128 {
		style = CollectFull
	}
	if style == CollectFull {
		h.collectCounts = 0
	}

	var start heapcore.Offset
	if style == CollectFull {
		start = 0
	} else {
		start = h.lastTop
	}
	h.chunkLow = start
	topOut := start

	nChunk := len(h.chunks)

	for {
		h.resetChunks()
		h.walk(h.markVisitAddr, h.markVisitPoly, h.runMark)

		// Find the first object that doesn't already sit at or below
		// topOut; everything before it is already in place.
		i := 0
		for i < h.chunkLast {
			if h.chunks[i].oldOffset > topOut {
				break
			}
			topOut += h.chunks[i].sizeOrNew
			i++
		}

		// Short-circuit: the window filled and nothing in it needs to
		// move, so advance past it and run another pass. The general
		// path below cannot take this case: with i == nChunk it would
		// read h.chunks[i], one past the end of the window.
		if i == nChunk {
			h.chunkLow = h.chunkHigh
			continue
		}

		h.chunkFirst = i
		h.chunkLow = h.chunks[i].oldOffset

		for ; i < h.chunkLast; i++ {
			size := h.chunks[i].sizeOrNew
			oldOffset := h.chunks[i].oldOffset
			h.chunks[i].sizeOrNew = topOut // reuse the field as new_offset
			h.pool.Move(topOut, oldOffset, uint32(size))
			topOut += size
		}

		if h.chunkFirst < h.chunkLast {
			h.walk(h.moveVisitAddr, h.moveVisitPoly, h.runMove)
		}

		if h.chunkLast != nChunk {
			// Nothing tracked lives above chunkHigh; done.
			break
		}

		h.chunkLow = h.chunkHigh
	}

	h.pool.SetTop(topOut)
	if style == CollectFull {
		h.lastTop = topOut
	}
	return h.pool.Size() - uint32(topOut)
}

// moveMap is the chunk window's old->new mapping, valid only for offsets
// that fell inside the window the most recently completed slide covered.
// Offsets outside [chunkLow, chunkHigh) are returned unchanged — either
// they haven't moved, or they belong to a range a later pass will cover.
func (h *Heap) moveMap(old heapcore.Offset) heapcore.Offset {
	if old < h.chunkLow || h.chunkHigh <= old {
		return old
	}
	idx := h.findChunk(old)
	h.assert(idx >= h.chunkFirst && idx < h.chunkLast && h.chunks[idx].oldOffset == old, "moveMap", old)
	return h.chunks[idx].sizeOrNew
}

// MoveBlockAddr rewrites *ref in place to the post-slide offset of the
// object it names, if it moved, and marks the destination granule busy.
// It reports whether this reference has already been processed this
// pass — the busy bit doubles as "already moved" (spec.md §4.G).
// ref is assumed to hold a plain, unbiased offset (the convention used
// by root slots and by a Poly's embedded offset); object-internal fields
// that use the +1-biased null convention should use MoveBlockOffset
// instead.
func (h *Heap) MoveBlockAddr(ref *heapcore.Offset) bool {
	orig := *ref
	h.assertPoolOffset("MoveBlockAddr", orig)
	newOff := h.moveMap(orig)
	if newOff != orig {
		*ref = newOff
	}
	if h.pool.Busy().Busy(newOff) {
		return true
	}
	h.pool.Busy().Mark(newOff)
	return false
}

// MoveBlockOffset is MoveBlockAddr's analogue for object-payload fields
// that store offset+1 so that zero is free to mean null (spec.md §9,
// "Offset biasing"). It unbiases, maps, marks, and re-biases in place.
// Callers must not invoke it on a field whose stored value is zero.
func (h *Heap) MoveBlockOffset(ref *heapcore.Offset) bool {
	orig := *ref - 1
	h.assertPoolOffset("MoveBlockOffset", orig)
	newOff := h.moveMap(orig)
	if newOff != orig {
		*ref = newOff + 1
	}
	if h.pool.Busy().Busy(newOff) {
		return true
	}
	h.pool.Busy().Mark(newOff)
	return false
}

// MoveAddr rewrites *ref to its post-move offset and, unless it was
// already processed this pass, invokes t.Move on the object's new
// location — the bytes only live there once the slide step has run, so
// any reference fields the object holds must be patched in place there.
func (h *Heap) MoveAddr(t Mem, ref *heapcore.Offset) bool {
	already := h.MoveBlockAddr(ref)
	if !already {
		t.Move(h, *ref)
	}
	return already
}

// MoveOffset is MoveAddr's analogue for a +1-biased object-payload field.
func (h *Heap) MoveOffset(t Mem, ref *heapcore.Offset) bool {
	already := h.MoveBlockOffset(ref)
	if !already {
		t.Move(h, *ref-1)
	}
	return already
}

// moveVisitAddr adapts MoveAddr to the visitAddrFunc shape used by walk.
func (h *Heap) moveVisitAddr(t Mem, ref *heapcore.Offset) bool {
	return h.MoveAddr(t, ref)
}

// PolyMove is the move-phase analogue of PolyMark: it relocates the
// object a poly references, recurses into the object's own Move to fix
// up its internal reference fields, re-notes it on the note-list if it's
// a list, and rewrites the poly's embedded offset if the object moved.
func (h *Heap) PolyMove(ref *Poly) bool {
	p := *ref
	if p.kind.immediate() {
		return true
	}
	mem := h.mems[p.kind]
	orig := p.off
	h.assertPoolOffset("PolyMove", orig)

	newOff := orig
	already := h.MoveBlockAddr(&newOff)
	if !already {
		mem.Move(h, newOff)
		if p.kind == KindList {
			h.noteListPush(mem.(ListMem), newOff)
		}
	}
	if newOff != orig {
		*ref = p.withOffset(newOff)
	}
	return already
}

// moveVisitPoly adapts PolyMove to the visitPolyFunc shape used by walk.
func (h *Heap) moveVisitPoly(p *Poly) bool {
	return h.PolyMove(p)
}
