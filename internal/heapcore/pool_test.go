package heapcore

import "testing"

func testConfig(poolSize uint32) Config {
	cfg := DefaultConfig()
	cfg.PoolSize = poolSize
	return cfg
}

func TestRound(t *testing.T) {
	p, err := NewStaticPool(testConfig(64))
	if err != nil {
		t.Fatalf("NewStaticPool: %v", err)
	}
	cases := []struct{ n, want uint32 }{
		{0, 0},
		{1, 4},
		{3, 4},
		{4, 4},
		{5, 8},
		{17, 20},
	}
	for _, c := range cases {
		if got := p.Round(c.n); got != c.want {
			t.Errorf("Round(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestBumpExhaustion(t *testing.T) {
	p, err := NewStaticPool(testConfig(16))
	if err != nil {
		t.Fatalf("NewStaticPool: %v", err)
	}
	for i := 0; i < 4; i++ {
		if _, ok := p.Bump(4); !ok {
			t.Fatalf("Bump %d: unexpected exhaustion", i)
		}
	}
	if _, ok := p.Bump(4); ok {
		t.Fatalf("Bump: expected exhaustion once pool is full")
	}
	if free := p.Free(); free != 0 {
		t.Errorf("Free() = %d, want 0", free)
	}
}

func TestBumpZeroesNewMemory(t *testing.T) {
	p, err := NewStaticPool(testConfig(16))
	if err != nil {
		t.Fatalf("NewStaticPool: %v", err)
	}
	off, _ := p.Bump(8)
	copy(p.Bytes(off, 8), []byte{1, 2, 3, 4, 5, 6, 7, 8})
	p.SetTop(off)
	off2, _ := p.Bump(8)
	if off2 != off {
		t.Fatalf("Bump after SetTop rewind: got offset %d, want %d", off2, off)
	}
	for i, b := range p.Bytes(off2, 8) {
		if b != 0 {
			t.Errorf("byte %d = %d, want 0 (re-bumped region must be cleared)", i, b)
		}
	}
}

func TestMoveOverlapping(t *testing.T) {
	p, err := NewStaticPool(testConfig(32))
	if err != nil {
		t.Fatalf("NewStaticPool: %v", err)
	}
	dst, _ := p.Bump(8)
	src, _ := p.Bump(8)
	copy(p.Bytes(src, 8), []byte{1, 2, 3, 4, 5, 6, 7, 8})
	// Force an overlapping move like the compactor's slide step: dst < src.
	p.Move(src-4, src, 8)
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	got := p.Bytes(src-4, 8)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Move produced %v, want %v", got, want)
		}
	}
	_ = dst
}

func TestBitmap(t *testing.T) {
	b := newBitmap(64, 2) // granule 4, 16 granules
	off := Offset(20)
	if b.Busy(off) {
		t.Fatalf("fresh bitmap reports busy before any Mark")
	}
	b.Mark(off)
	if !b.Busy(off) {
		t.Fatalf("Busy false after Mark")
	}
	b.Clear(off)
	if b.Busy(off) {
		t.Fatalf("Busy true after Clear")
	}
	b.Mark(off)
	b.Reset()
	if b.Busy(off) {
		t.Fatalf("Busy true after Reset")
	}
}

func TestIsPoolOffset(t *testing.T) {
	p, err := NewStaticPool(testConfig(16))
	if err != nil {
		t.Fatalf("NewStaticPool: %v", err)
	}
	if !p.IsPoolOffset(0) || !p.IsPoolOffset(15) {
		t.Errorf("expected [0,16) to be pool offsets")
	}
	if p.IsPoolOffset(16) {
		t.Errorf("expected 16 to be outside a 16-byte pool")
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cases := []Config{
		{PoolSize: 0, AllocRound: 4, AllocShift: 2},
		{PoolSize: 16, AllocRound: 3, AllocShift: 2},
		{PoolSize: 16, AllocRound: 4, AllocShift: 3},
	}
	for _, cfg := range cases {
		if err := cfg.validate(); err == nil {
			t.Errorf("validate(%+v): expected error, got nil", cfg)
		}
	}
}
