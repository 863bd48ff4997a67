package objects

import (
	"github.com/snek-lang/snekmem/heap"
	"github.com/snek-lang/snekmem/internal/heapcore"
)

// List layout: [count:4][noted:4][noteNext:4][elements: count*PolySize].
// Elements are themselves polys, so a list that nests other lists is
// traced the same way any list reference is — through PolyMark/PolyMove,
// which descend into a nested list immediately (see heap.PolyMark) and
// also push it onto the note-list.
const (
	listCountOff    = 0
	listNotedOff    = 4
	listNoteNextOff = 8
	listHeader      = 12
)

// List is the heap.Mem / heap.ListMem descriptor for snek list objects.
type List struct{}

var _ heap.ListMem = List{}

func (List) Name() string { return "list" }

func (List) Size(h *heap.Heap, addr heapcore.Offset) uint32 {
	count := h.ReadU32(addr + listCountOff)
	return h.Round(listHeader + count*heap.PolySize)
}

func (List) Mark(h *heap.Heap, addr heapcore.Offset) {
	count := h.ReadU32(addr + listCountOff)
	for i := uint32(0); i < count; i++ {
		p := h.ReadPoly(addr + heapcore.Offset(listHeader+i*heap.PolySize))
		h.PolyMark(p)
	}
}

func (List) Move(h *heap.Heap, addr heapcore.Offset) {
	count := h.ReadU32(addr + listCountOff)
	for i := uint32(0); i < count; i++ {
		off := addr + heapcore.Offset(listHeader+i*heap.PolySize)
		p := h.ReadPoly(off)
		h.PolyMove(&p)
		h.WritePoly(off, p)
	}
}

func (List) Noted(h *heap.Heap, addr heapcore.Offset) bool {
	return h.ReadU32(addr+listNotedOff) != 0
}

func (List) SetNoted(h *heap.Heap, addr heapcore.Offset, v bool) {
	var n uint32
	if v {
		n = 1
	}
	h.WriteU32(addr+listNotedOff, n)
}

func (List) NoteNext(h *heap.Heap, addr heapcore.Offset) heapcore.Offset {
	return h.ReadOffset(addr + listNoteNextOff)
}

func (List) SetNoteNext(h *heap.Heap, addr heapcore.Offset, next heapcore.Offset) {
	h.WriteOffset(addr+listNoteNextOff, next)
}

// NewList allocates a list object holding a copy of elems and returns a
// poly referencing it. h must have List registered for heap.KindList.
func NewList(h *heap.Heap, elems []heap.Poly) (heap.Poly, error) {
	// Stash every element poly across the Alloc call below: Alloc may
	// trigger a collection, which would otherwise see these values
	// nowhere and reclaim or stale-relocate them before we get a chance
	// to copy them into the new list's storage.
	for _, p := range elems {
		h.Stash(p)
	}
	size := listHeader + uint32(len(elems))*heap.PolySize
	off, err := h.Alloc(size)
	if err != nil {
		for range elems {
			h.Fetch()
		}
		return heap.Poly{}, err
	}
	h.WriteU32(off+listCountOff, uint32(len(elems)))
	for i := len(elems) - 1; i >= 0; i-- {
		p := h.Fetch()
		h.WritePoly(off+heapcore.Offset(listHeader+uint32(i)*heap.PolySize), p)
	}
	return heap.NewHeapPoly(heap.KindList, off), nil
}

// ListLen returns the element count of the list at addr.
func ListLen(h *heap.Heap, addr heapcore.Offset) uint32 {
	return h.ReadU32(addr + listCountOff)
}

// ListGet returns the i'th element of the list at addr.
func ListGet(h *heap.Heap, addr heapcore.Offset, i uint32) heap.Poly {
	return h.ReadPoly(addr + heapcore.Offset(listHeader+i*heap.PolySize))
}

// ListSet overwrites the i'th element of the list at addr.
func ListSet(h *heap.Heap, addr heapcore.Offset, i uint32, p heap.Poly) {
	h.WritePoly(addr+heapcore.Offset(listHeader+i*heap.PolySize), p)
}
