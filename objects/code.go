package objects

import (
	"github.com/snek-lang/snekmem/heap"
	"github.com/snek-lang/snekmem/internal/heapcore"
)

// codeHeader is a Code object's fixed portion: an instruction-byte count
// followed by that many raw bytes. Code objects are never referenced
// through a Poly — snek has no "first-class bytecode value" — only
// through typed, non-poly slots (the stash_code root, and a Func's own
// code field), so Code is registered with AddRoot but never with
// Heap.RegisterKind.
const codeHeader = 4

// Code is the heap.Mem descriptor for compiled instruction blocks.
type Code struct{}

var _ heap.Mem = Code{}

func (Code) Name() string { return "code" }

func (Code) Size(h *heap.Heap, addr heapcore.Offset) uint32 {
	n := h.ReadU32(addr)
	return h.Round(codeHeader + n)
}

func (Code) Mark(h *heap.Heap, addr heapcore.Offset) {}

func (Code) Move(h *heap.Heap, addr heapcore.Offset) {}

// NewCode allocates a code block holding a copy of instrs.
func NewCode(h *heap.Heap, instrs []byte) (heapcore.Offset, error) {
	off, err := h.Alloc(codeHeader + uint32(len(instrs)))
	if err != nil {
		return 0, err
	}
	h.WriteU32(off, uint32(len(instrs)))
	copy(h.Bytes(off+codeHeader, uint32(len(instrs))), instrs)
	return off, nil
}

// CodeBytes returns the instruction bytes of the code block at addr.
func CodeBytes(h *heap.Heap, addr heapcore.Offset) []byte {
	n := h.ReadU32(addr)
	return h.Bytes(addr+codeHeader, n)
}
