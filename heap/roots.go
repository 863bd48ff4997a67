package heap

import "github.com/snek-lang/snekmem/internal/heapcore"

// RootSlot is one entry of the static root table: either a typed slot
// (Type non-nil, traced via Ref's current offset and the given
// descriptor) or an untyped poly slot (Type nil, traced as a Poly). This
// mirrors the C union of struct snek_root's (type, **addr) typed form and
// the (NULL, *poly) untyped form.
type RootSlot struct {
	Name string
	Type Mem
	Ref  *heapcore.Offset
	Poly *Poly
}

// AddRoot registers a typed root: the core will dereference ref to get
// the object's current offset, trace it with t, and rewrite *ref if the
// object moves. Roots are walked in registration order, and that order
// is part of the collector's ordering guarantee (spec.md §5).
func (h *Heap) AddRoot(name string, t Mem, ref *heapcore.Offset) {
	h.roots = append(h.roots, RootSlot{Name: name, Type: t, Ref: ref})
}

// AddPolyRoot registers an untyped poly root: the core traces *p as a
// Poly, dispatching on its kind.
func (h *Heap) AddPolyRoot(name string, p *Poly) {
	h.roots = append(h.roots, RootSlot{Name: name, Poly: p})
}

// SetRunHooks installs the run_mark/run_move interpreter hooks: called
// once per mark walk and once per move walk, before the static root
// table is traced, so a bytecode VM can register additional dynamic
// roots (an operand stack, for instance). Either hook may be nil.
func (h *Heap) SetRunHooks(mark, move func(*Heap)) {
	h.runMark = mark
	h.runMove = move
}

// RegisterKind installs the type descriptor used whenever a Poly of kind
// k is encountered. Registering KindList requires m to additionally
// implement ListMem; this panics immediately (an init-time programmer
// error, not a runtime fault) if it does not.
func (h *Heap) RegisterKind(k Kind, m Mem) {
	if k.immediate() {
		panic("heap: cannot register a descriptor for an immediate kind")
	}
	if k == KindList {
		if _, ok := m.(ListMem); !ok {
			panic("heap: KindList descriptor must implement ListMem")
		}
	}
	h.mems[k] = m
}
