package objects

import (
	"github.com/snek-lang/snekmem/heap"
	"github.com/snek-lang/snekmem/internal/heapcore"
)

// namesCapacity is the interning table's fixed capacity in the reference
// runtime built by NewRuntime.
const namesCapacity = 256

// Runtime wires a Heap together with the full snek root table: the name
// table, the globals frame, the current frame, and (via Config.CodeMem)
// the code stash register. It is the object zoo's entry point — demo and
// test code builds one of these rather than wiring a bare Heap by hand.
type Runtime struct {
	Heap *heap.Heap

	Names   heapcore.Offset
	Globals heapcore.Offset
	Current heapcore.Offset
	Compile heapcore.Offset
}

// NewRuntime constructs a Heap from cfg (Config.CodeMem is forced to
// Code{}), registers the three poly-dispatched kinds, and allocates an
// empty name table and globals frame.
func NewRuntime(cfg heap.Config) (*Runtime, error) {
	cfg.CodeMem = Code{}
	h, err := heap.New(cfg)
	if err != nil {
		return nil, err
	}
	h.RegisterKind(heap.KindList, List{})
	h.RegisterKind(heap.KindString, String{})
	h.RegisterKind(heap.KindFunc, Func{})

	rt := &Runtime{Heap: h}
	h.AddRoot("names", Names{}, &rt.Names)
	h.AddRoot("globals", Frame{}, &rt.Globals)
	h.AddRoot("current", Frame{}, &rt.Current)
	h.AddRoot("compile", CompileState{}, &rt.Compile)

	names, err := NewNames(h, namesCapacity)
	if err != nil {
		return nil, err
	}
	rt.Names = names

	globals, err := NewFrame(h, 0, heap.Poly{})
	if err != nil {
		return nil, err
	}
	rt.Globals = globals
	rt.Current = globals

	return rt, nil
}

// Close releases the underlying Heap's OS resources.
func (rt *Runtime) Close() error {
	return rt.Heap.Close()
}

// Intern interns s into the runtime's name table.
func (rt *Runtime) Intern(s string) (heapcore.Offset, error) {
	return Intern(rt.Heap, &rt.Names, s)
}
