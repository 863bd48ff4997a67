package objects

import (
	"github.com/snek-lang/snekmem/heap"
	"github.com/snek-lang/snekmem/internal/heapcore"
)

// Names layout: [count:4][cap:4][entries: cap*4, each a +1-biased Offset
// into a String (0 = empty slot)]. A fixed-capacity interning table: the
// same identifier text always resolves to the same String object, so
// name equality reduces to offset equality.
const (
	namesCountOff = 0
	namesCapOff   = 4
	namesHeader   = 8
)

// Names is the heap.Mem descriptor for the global name/identifier table.
type Names struct{}

var _ heap.Mem = Names{}

func (Names) Name() string { return "names" }

func (Names) Size(h *heap.Heap, addr heapcore.Offset) uint32 {
	cap := h.ReadU32(addr + namesCapOff)
	return h.Round(namesHeader + cap*heap.OffsetSize)
}

func (Names) Mark(h *heap.Heap, addr heapcore.Offset) {
	count := h.ReadU32(addr + namesCountOff)
	for i := uint32(0); i < count; i++ {
		if ref := h.ReadOffset(addr + heapcore.Offset(namesHeader+i*heap.OffsetSize)); ref != 0 {
			h.MarkOffset(String{}, ref)
		}
	}
}

func (Names) Move(h *heap.Heap, addr heapcore.Offset) {
	count := h.ReadU32(addr + namesCountOff)
	for i := uint32(0); i < count; i++ {
		slot := addr + heapcore.Offset(namesHeader+i*heap.OffsetSize)
		if ref := h.ReadOffset(slot); ref != 0 {
			h.MoveOffset(String{}, &ref)
			h.WriteOffset(slot, ref)
		}
	}
}

// NewNames allocates an empty interning table with room for capacity
// entries.
func NewNames(h *heap.Heap, capacity uint32) (heapcore.Offset, error) {
	off, err := h.Alloc(namesHeader + capacity*heap.OffsetSize)
	if err != nil {
		return 0, err
	}
	h.WriteU32(off+namesCapOff, capacity)
	return off, nil
}

// Intern returns the offset of the String object for s, allocating and
// recording a new one if the table has no entry for it yet. Returns an
// error if the table is full. table must point at the same variable
// registered as the names root (AddRoot), so that if allocating the new
// String triggers a collection that relocates the table itself, *table
// comes back updated before Intern writes through it.
func Intern(h *heap.Heap, table *heapcore.Offset, s string) (heapcore.Offset, error) {
	count := h.ReadU32(*table + namesCountOff)
	for i := uint32(0); i < count; i++ {
		ref := h.ReadOffset(*table+heapcore.Offset(namesHeader+i*heap.OffsetSize)) - 1
		if StringValue(h, ref) == s {
			return ref, nil
		}
	}
	cap := h.ReadU32(*table + namesCapOff)
	if count >= cap {
		return 0, heap.ErrOutOfMemory
	}

	p, err := NewString(h, s)
	if err != nil {
		return 0, err
	}
	ref := p.Offset()
	h.WriteOffset(*table+heapcore.Offset(namesHeader+count*heap.OffsetSize), ref+1)
	h.WriteU32(*table+namesCountOff, count+1)
	return ref, nil
}
