package heap

import "github.com/snek-lang/snekmem/internal/heapcore"

// Kind distinguishes the payload a Poly carries. Float and Builtin are
// immediate — they never reference the pool. List, String, and Func are
// heap-resident and are traced through the Mem descriptor registered for
// their Kind.
type Kind uint8

const (
	KindFloat Kind = iota
	KindBuiltin
	KindList
	KindString
	KindFunc

	numKinds = int(KindFunc) + 1
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindBuiltin:
		return "builtin"
	case KindList:
		return "list"
	case KindString:
		return "string"
	case KindFunc:
		return "func"
	default:
		return "unknown"
	}
}

// immediate reports whether values of this kind never reference the pool.
func (k Kind) immediate() bool {
	return k == KindFloat || k == KindBuiltin
}

// Mem is the type-descriptor interface a client registers for each
// heap-resident kind. The collector calls only Size, Mark, and Move: it
// never interprets an object's bytes itself. Mark must, for every
// reference field the object holds, call h.MarkAddr/h.MarkOffset or
// h.PolyMark; Move must call the h.Move* analogues for the same fields.
type Mem interface {
	// Name identifies the kind for debugging and diagnostics.
	Name() string
	// Size returns the current size in bytes of the object at addr. May
	// read header fields of the object itself (e.g. a list's element
	// count) to compute a variable size.
	Size(h *Heap, addr heapcore.Offset) uint32
	// Mark visits every reference field of the object at addr.
	Mark(h *Heap, addr heapcore.Offset)
	// Move rewrites every reference field of the object at addr to its
	// post-compaction location. addr is the object's new, post-slide
	// offset: by the time Move runs the object's bytes have already been
	// copied there, but the reference fields inside are still
	// pre-move values, which is exactly what Move is for.
	Move(h *Heap, addr heapcore.Offset)
}

// ListMem extends Mem with the two extra fields list objects expose so
// the mark engine can thread its deferred-traversal worklist through list
// storage itself, rather than needing an external, unboundedly large
// queue. See Heap's note-list mechanism in mark.go.
type ListMem interface {
	Mem
	// Noted reports whether the list at addr is currently enqueued on
	// the note-list.
	Noted(h *Heap, addr heapcore.Offset) bool
	// SetNoted sets or clears the noted bit.
	SetNoted(h *Heap, addr heapcore.Offset, v bool)
	// NoteNext returns the next offset in the note-list chain (0 if this
	// is the last entry).
	NoteNext(h *Heap, addr heapcore.Offset) heapcore.Offset
	// SetNoteNext sets the next offset in the note-list chain.
	SetNoteNext(h *Heap, addr heapcore.Offset, next heapcore.Offset)
}

// Poly is an opaque tagged value. Floats and builtins carry an immediate
// payload; lists, strings, and funcs carry a pool offset. The collector
// dispatches on Kind to find the right Mem descriptor and never
// interprets the payload beyond that.
type Poly struct {
	kind Kind
	off  heapcore.Offset
	imm  uint64
}

// Kind returns the poly's kind.
func (p Poly) Kind() Kind { return p.kind }

// Offset returns the pool offset carried by a heap-resident poly. It is
// meaningless for immediate kinds.
func (p Poly) Offset() heapcore.Offset { return p.off }

// Imm returns the immediate payload carried by a float or builtin poly.
func (p Poly) Imm() uint64 { return p.imm }

// IsNull reports whether p is the zero Poly (kind float, offset/imm
// zero) — the root-walking convention used to skip empty root slots.
func (p Poly) IsNull() bool {
	return p.kind == KindFloat && p.off == 0 && p.imm == 0
}

// NewFloatPoly constructs an immediate float poly from its raw bit
// pattern (the core never interprets the bits further).
func NewFloatPoly(bits uint64) Poly {
	return Poly{kind: KindFloat, imm: bits}
}

// NewBuiltinPoly constructs an immediate builtin poly identified by id.
func NewBuiltinPoly(id uint64) Poly {
	return Poly{kind: KindBuiltin, imm: id}
}

// NewHeapPoly constructs a poly referencing a heap-resident object. kind
// must not be KindFloat or KindBuiltin.
func NewHeapPoly(kind Kind, off heapcore.Offset) Poly {
	if kind.immediate() {
		panic("heap: NewHeapPoly called with an immediate kind")
	}
	return Poly{kind: kind, off: off}
}

// withOffset returns a copy of p with its offset rewritten, used by
// PolyMove after relocation.
func (p Poly) withOffset(off heapcore.Offset) Poly {
	p.off = off
	return p
}
