package objects

import (
	"github.com/snek-lang/snekmem/heap"
	"github.com/snek-lang/snekmem/internal/heapcore"
)

// Frame layout: [parent:4 biased][bindings:PolySize]. parent chains
// (call frames, lexical scopes) run at most as deep as the interpreter's
// own call stack, unlike list spines, so Frame.Mark recurses into its
// parent directly rather than deferring through the note-list.
const (
	frameParentOff   = 0
	frameBindingsOff = 4
	frameSize        = frameBindingsOff + heap.PolySize
)

// Frame is the heap.Mem descriptor used for the globals frame and the
// current-frame root; it is never poly-dispatched.
type Frame struct{}

var _ heap.Mem = Frame{}

func (Frame) Name() string { return "frame" }

func (Frame) Size(h *heap.Heap, addr heapcore.Offset) uint32 {
	return h.Round(frameSize)
}

func (f Frame) Mark(h *heap.Heap, addr heapcore.Offset) {
	if parent := h.ReadOffset(addr + frameParentOff); parent != 0 {
		h.MarkOffset(f, parent)
	}
	h.PolyMark(h.ReadPoly(addr + frameBindingsOff))
}

func (f Frame) Move(h *heap.Heap, addr heapcore.Offset) {
	if parent := h.ReadOffset(addr + frameParentOff); parent != 0 {
		ref := parent
		h.MoveOffset(f, &ref)
		if ref != parent {
			h.WriteOffset(addr+frameParentOff, ref)
		}
	}
	bindings := h.ReadPoly(addr + frameBindingsOff)
	h.PolyMove(&bindings)
	h.WritePoly(addr+frameBindingsOff, bindings)
}

// NewFrame allocates a frame extending parent (0 for the top-level
// globals frame) with the given bindings, typically a List of name/value
// pairs. The caller must keep parent reachable across this call — in
// practice it is almost always the current-frame root, which Alloc's
// walk already traces — since NewFrame does not stash it itself.
func NewFrame(h *heap.Heap, parent heapcore.Offset, bindings heap.Poly) (heapcore.Offset, error) {
	h.Stash(bindings)
	off, err := h.Alloc(frameSize)
	bindings = h.Fetch()
	if err != nil {
		return 0, err
	}
	if parent != 0 {
		h.WriteOffset(off+frameParentOff, parent+1)
	}
	h.WritePoly(off+frameBindingsOff, bindings)
	return off, nil
}

// FrameParent returns the offset of the enclosing frame, or 0 at the top.
func FrameParent(h *heap.Heap, addr heapcore.Offset) heapcore.Offset {
	biased := h.ReadOffset(addr + frameParentOff)
	if biased == 0 {
		return 0
	}
	return biased - 1
}

// FrameBindings returns a frame's bindings poly.
func FrameBindings(h *heap.Heap, addr heapcore.Offset) heap.Poly {
	return h.ReadPoly(addr + frameBindingsOff)
}
