package heap

import (
	"encoding/binary"

	"github.com/snek-lang/snekmem/internal/heapcore"
)

// OffsetSize is the on-disk width of an Offset field inside a pool
// object.
const OffsetSize = 4

// PolySize is the on-disk width of a Poly field inside a pool object: one
// kind byte followed by an 8-byte payload (an offset for heap kinds, a
// raw bit pattern for immediates).
const PolySize = 9

// ReadOffset reads an Offset field stored at off within the pool.
func (h *Heap) ReadOffset(off heapcore.Offset) heapcore.Offset {
	b := h.pool.Bytes(off, OffsetSize)
	return heapcore.Offset(binary.LittleEndian.Uint32(b))
}

// WriteOffset writes an Offset field at off within the pool.
func (h *Heap) WriteOffset(off heapcore.Offset, v heapcore.Offset) {
	b := h.pool.Bytes(off, OffsetSize)
	binary.LittleEndian.PutUint32(b, uint32(v))
}

// ReadU32 reads a plain uint32 header field (e.g. a list's element
// count) at off.
func (h *Heap) ReadU32(off heapcore.Offset) uint32 {
	return binary.LittleEndian.Uint32(h.pool.Bytes(off, 4))
}

// WriteU32 writes a plain uint32 header field at off.
func (h *Heap) WriteU32(off heapcore.Offset, v uint32) {
	binary.LittleEndian.PutUint32(h.pool.Bytes(off, 4), v)
}

// ReadPoly reads a Poly field stored at off within the pool.
func (h *Heap) ReadPoly(off heapcore.Offset) Poly {
	b := h.pool.Bytes(off, PolySize)
	kind := Kind(b[0])
	payload := binary.LittleEndian.Uint64(b[1:9])
	if kind.immediate() {
		return Poly{kind: kind, imm: payload}
	}
	return Poly{kind: kind, off: heapcore.Offset(payload)}
}

// WritePoly writes a Poly field at off within the pool.
func (h *Heap) WritePoly(off heapcore.Offset, p Poly) {
	b := h.pool.Bytes(off, PolySize)
	b[0] = byte(p.kind)
	payload := p.imm
	if !p.kind.immediate() {
		payload = uint64(p.off)
	}
	binary.LittleEndian.PutUint64(b[1:9], payload)
}

// Bytes exposes n raw bytes of pool storage starting at off, for
// descriptors whose objects carry payloads the core has no other reason
// to know about (string bytes, for instance). The slice aliases pool
// storage and must not be retained across Alloc/Collect.
func (h *Heap) Bytes(off heapcore.Offset, n uint32) []byte {
	return h.pool.Bytes(off, n)
}
