package objects

import (
	"testing"

	"github.com/snek-lang/snekmem/heap"
	"github.com/snek-lang/snekmem/internal/heapcore"
)

func newTestRuntime(t *testing.T, poolSize uint32) *Runtime {
	t.Helper()
	cfg := heap.Config{}
	cfg.Config = heapcore.DefaultConfig()
	cfg.PoolSize = poolSize
	rt, err := NewRuntime(cfg)
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	return rt
}

func TestInternDeduplicates(t *testing.T) {
	rt := newTestRuntime(t, 4096)
	a, err := rt.Intern("hello")
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	b, err := rt.Intern("hello")
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	if a != b {
		t.Errorf("Intern(\"hello\") twice gave different offsets: %d, %d", a, b)
	}
	c, err := rt.Intern("world")
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	if c == a {
		t.Errorf("Intern of distinct strings collided at offset %d", a)
	}
}

func TestStringRoundTrip(t *testing.T) {
	rt := newTestRuntime(t, 4096)
	p, err := NewString(rt.Heap, "snek")
	if err != nil {
		t.Fatalf("NewString: %v", err)
	}
	if got := StringValue(rt.Heap, p.Offset()); got != "snek" {
		t.Errorf("StringValue = %q, want %q", got, "snek")
	}
}

func TestListOfListsSurvivesCollect(t *testing.T) {
	rt := newTestRuntime(t, 1 << 16)

	// Build a chain of nLists lists, each one's sole element the previous
	// list — exercises nested-list marking and moving, the note-list push
	// and drain, and the chunk-window compactor together (scenario analogous to
	// spec.md's "list of lists" test).
	const nLists = 1000
	var chain heap.Poly
	for i := 0; i < nLists; i++ {
		p, err := NewList(rt.Heap, []heap.Poly{chain})
		if err != nil {
			t.Fatalf("NewList %d: %v", i, err)
		}
		chain = p
	}

	rt.Globals, _ = attachRoot(t, rt, chain)

	rt.Heap.Collect(heap.CollectFull)

	// Walk the chain back down from the root and check it is still
	// nLists deep and every link is intact.
	cur := FrameBindings(rt.Heap, rt.Globals)
	for i := 0; i < nLists; i++ {
		if cur.Kind() != heap.KindList {
			t.Fatalf("depth %d: expected a list, got kind %v", i, cur.Kind())
		}
		if ListLen(rt.Heap, cur.Offset()) != 1 {
			t.Fatalf("depth %d: expected exactly one element", i)
		}
		cur = ListGet(rt.Heap, cur.Offset(), 0)
	}
	if !cur.IsNull() {
		t.Fatalf("expected the chain's root link to terminate in null")
	}
}

// attachRoot rebuilds the globals frame so its bindings poly is p,
// returning the (possibly moved) frame offset.
func attachRoot(t *testing.T, rt *Runtime, p heap.Poly) (heapcore.Offset, error) {
	t.Helper()
	off, err := NewFrame(rt.Heap, 0, p)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	return off, nil
}

func TestFuncCodeAndEnv(t *testing.T) {
	rt := newTestRuntime(t, 4096)
	code, err := NewCode(rt.Heap, []byte{0x01, 0x02, 0x03})
	if err != nil {
		t.Fatalf("NewCode: %v", err)
	}
	env, err := NewString(rt.Heap, "captured")
	if err != nil {
		t.Fatalf("NewString: %v", err)
	}

	fn, err := NewFunc(rt.Heap, code, env)
	if err != nil {
		t.Fatalf("NewFunc: %v", err)
	}

	if got := FuncEnv(rt.Heap, fn.Offset()); StringValue(rt.Heap, got.Offset()) != "captured" {
		t.Errorf("FuncEnv round-trip failed")
	}
	if got := FuncCode(rt.Heap, fn.Offset()); got == 0 {
		t.Errorf("FuncCode returned 0, want the code block's offset")
	}
	if got := CodeBytes(rt.Heap, FuncCode(rt.Heap, fn.Offset())); string(got) != "\x01\x02\x03" {
		t.Errorf("CodeBytes = %v, want [1 2 3]", got)
	}
}
