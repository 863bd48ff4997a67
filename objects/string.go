package objects

import (
	"github.com/snek-lang/snekmem/heap"
	"github.com/snek-lang/snekmem/internal/heapcore"
)

// stringHeader is the fixed portion of a String object: a byte count
// followed immediately by that many raw bytes. Strings carry no
// references of their own, so Mark and Move are no-ops beyond Size.
const stringHeader = 4

// String is the heap.Mem descriptor for snek string objects.
type String struct{}

var _ heap.Mem = String{}

func (String) Name() string { return "string" }

func (String) Size(h *heap.Heap, addr heapcore.Offset) uint32 {
	n := h.ReadU32(addr)
	return h.Round(stringHeader + n)
}

func (String) Mark(h *heap.Heap, addr heapcore.Offset) {}

func (String) Move(h *heap.Heap, addr heapcore.Offset) {}

// NewString allocates a string object holding a copy of s and returns a
// poly referencing it. h must have String registered for heap.KindString.
func NewString(h *heap.Heap, s string) (heap.Poly, error) {
	off, err := h.Alloc(stringHeader + uint32(len(s)))
	if err != nil {
		return heap.Poly{}, err
	}
	h.WriteU32(off, uint32(len(s)))
	copy(h.Bytes(off+stringHeader, uint32(len(s))), s)
	return heap.NewHeapPoly(heap.KindString, off), nil
}

// StringValue reads back the bytes of the string at addr as a Go string.
func StringValue(h *heap.Heap, addr heapcore.Offset) string {
	n := h.ReadU32(addr)
	return string(h.Bytes(addr+stringHeader, n))
}
