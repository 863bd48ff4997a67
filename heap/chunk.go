package heap

import "github.com/snek-lang/snekmem/internal/heapcore"

// chunkRecord is one entry of the chunk window: (old_offset,
// size|new_offset). The second field holds the object's size while the
// window is being filled during mark, and is overwritten with the
// object's new offset during the slide step — the same reuse the C
// union performs.
type chunkRecord struct {
	oldOffset heapcore.Offset
	sizeOrNew heapcore.Offset
}

// resetChunks starts a fresh compactor pass: the window is emptied and
// the considered range is set to [chunkLow, top) — chunkLow is left as
// the compactor set it (0 for a full collect, lastTop for incremental).
func (h *Heap) resetChunks() {
	h.chunkHigh = h.pool.Top()
	h.chunkLast = 0
	h.chunkFirst = 0
}

// findChunk binary searches [chunkFirst, chunkLast) for the insertion
// position keyed on oldOffset. It returns an index in
// [chunkFirst, chunkLast], the correct insertion point whether or not
// offset is already present.
func (h *Heap) findChunk(offset heapcore.Offset) int {
	l, r := h.chunkFirst, h.chunkLast-1
	for l <= r {
		m := (l + r) >> 1
		if h.chunks[m].oldOffset < offset {
			l = m + 1
		} else {
			r = m - 1
		}
	}
	return l
}

// noteChunk is called during mark for every object reached. Objects
// outside the currently considered [chunkLow, chunkHigh) window are
// ignored this pass — they'll be picked up by a later pass once
// chunkLow advances past them. When the window fills, chunkHigh is
// clipped to the offset actually captured so that anything marked above
// it this pass is deferred rather than silently dropped.
func (h *Heap) noteChunk(offset heapcore.Offset, size uint32) {
	if offset < h.chunkLow || h.chunkHigh <= offset {
		return
	}

	idx := h.findChunk(offset)
	h.assert(idx >= h.chunkFirst && idx <= h.chunkLast, "findChunk", offset)

	nChunk := len(h.chunks)
	end := h.chunkLast + 1
	if end > nChunk {
		end = nChunk
	}
	copy(h.chunks[idx+1:end], h.chunks[idx:end-1])

	h.chunks[idx] = chunkRecord{oldOffset: offset, sizeOrNew: heapcore.Offset(size)}

	if h.chunkLast < nChunk {
		h.chunkLast++
	}

	if h.chunkLast == nChunk {
		last := h.chunks[nChunk-1]
		h.chunkHigh = last.oldOffset + last.sizeOrNew
	}
}
