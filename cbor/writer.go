package cbor

import (
	"encoding/binary"
	"math"
)

// Writer emits CBOR primitives and aggregate headers. Every length or tag
// number it writes uses the shortest form that fits, per RFC 8949 §3.3 -
// this holds in both canonical and non-canonical mode, since wire size
// matters regardless. Canonical mode differs only in float width
// narrowing, NaN normalization, and map-key ordering; those live in
// canonical.go and the builders below, not here.
type Writer struct{}

// NewWriter returns a ready-to-use Writer. Writer holds no state, so a
// single instance may be reused freely, but emitters return freshly
// allocated byte slices rather than writing through a shared buffer.
func NewWriter() *Writer { return &Writer{} }

func encodeLength(major MajorType, n uint64) []byte {
	switch {
	case n <= infoDirectMax:
		return []byte{header(major, byte(n))}
	case n <= 0xFF:
		return []byte{header(major, infoUint8), byte(n)}
	case n <= 0xFFFF:
		b := make([]byte, 3)
		b[0] = header(major, infoUint16)
		binary.BigEndian.PutUint16(b[1:], uint16(n))
		return b
	case n <= 0xFFFFFFFF:
		b := make([]byte, 5)
		b[0] = header(major, infoUint32)
		binary.BigEndian.PutUint32(b[1:], uint32(n))
		return b
	default:
		b := make([]byte, 9)
		b[0] = header(major, infoUint64)
		binary.BigEndian.PutUint64(b[1:], n)
		return b
	}
}

// EmitUint encodes an unsigned integer (major type 0).
func (w *Writer) EmitUint(n uint64) []byte { return encodeLength(MajorUnsigned, n) }

// EmitNegativeRaw encodes a negative integer (major type 1) from its raw
// wire-level additional value (the represented integer is -(raw+1)).
func (w *Writer) EmitNegativeRaw(raw uint64) []byte { return encodeLength(MajorNegative, raw) }

// EmitInt encodes a representable signed integer, dispatching to major
// type 0 or 1 depending on its sign.
func (w *Writer) EmitInt(x int64) []byte {
	if x >= 0 {
		return w.EmitUint(uint64(x))
	}
	return w.EmitNegativeRaw(uint64(-x - 1))
}

// EmitBytes encodes a definite-length byte string (major type 2).
func (w *Writer) EmitBytes(b []byte) []byte {
	head := encodeLength(MajorByteString, uint64(len(b)))
	out := make([]byte, 0, len(head)+len(b))
	out = append(out, head...)
	out = append(out, b...)
	return out
}

// EmitString encodes a definite-length text string (major type 3).
func (w *Writer) EmitString(s string) []byte {
	head := encodeLength(MajorTextString, uint64(len(s)))
	out := make([]byte, 0, len(head)+len(s))
	out = append(out, head...)
	out = append(out, s...)
	return out
}

// EmitTag encodes a tag number header (major type 6); the caller appends
// the tagged content's own bytes.
func (w *Writer) EmitTag(n uint64) []byte { return encodeLength(MajorTag, n) }

// EmitNil encodes the CBOR null simple value.
func (w *Writer) EmitNil() []byte { return []byte{header(Major7, simpleNull)} }

// EmitUndefined encodes the CBOR undefined simple value.
func (w *Writer) EmitUndefined() []byte { return []byte{header(Major7, simpleUndefined)} }

// EmitBool encodes a CBOR boolean simple value.
func (w *Writer) EmitBool(b bool) []byte {
	if b {
		return []byte{header(Major7, simpleTrue)}
	}
	return []byte{header(Major7, simpleFalse)}
}

// EmitSimple encodes an arbitrary one of the four recognized simple values.
func (w *Writer) EmitSimple(s byte) []byte { return []byte{header(Major7, s)} }

// EmitFloat16 encodes a half-precision float from its raw bit pattern.
func (w *Writer) EmitFloat16(bits uint16) []byte {
	b := make([]byte, 3)
	b[0] = header(Major7, float16Info)
	binary.BigEndian.PutUint16(b[1:], bits)
	return b
}

// EmitFloat32 encodes a single-precision float at its requested width,
// without narrowing and with the caller's NaN bit pattern preserved.
func (w *Writer) EmitFloat32(f float32) []byte {
	b := make([]byte, 5)
	b[0] = header(Major7, float32Info)
	binary.BigEndian.PutUint32(b[1:], math.Float32bits(f))
	return b
}

// EmitFloat64 encodes a double-precision float at its requested width.
func (w *Writer) EmitFloat64(f float64) []byte {
	b := make([]byte, 9)
	b[0] = header(Major7, float64Info)
	binary.BigEndian.PutUint64(b[1:], math.Float64bits(f))
	return b
}

// Builder accumulates child item bytes for an array (major type 4) before
// the length header is known. It exposes an explicit Finish rather than
// emitting on destruction.
type Builder struct {
	children [][]byte
}

// NewBuilder returns an empty array Builder.
func NewBuilder() *Builder { return &Builder{} }

// Add appends one already-encoded child item.
func (b *Builder) Add(item []byte) { b.children = append(b.children, item) }

// Len reports the number of children added so far.
func (b *Builder) Len() int { return len(b.children) }

// Finish emits the array header followed by the accumulated children in
// the order they were added.
func (b *Builder) Finish() []byte {
	total := 0
	for _, c := range b.children {
		total += len(c)
	}
	head := encodeLength(MajorArray, uint64(len(b.children)))
	out := make([]byte, 0, len(head)+total)
	out = append(out, head...)
	for _, c := range b.children {
		out = append(out, c...)
	}
	return out
}

// mapEntry is one accumulated (key bytes, value bytes) pair of a
// MapBuilder.
type mapEntry struct {
	key   []byte
	value []byte
}

// MapBuilder accumulates (key, value) pairs for a map (major type 5)
// before the length header is known and, when sorting is requested,
// before the canonical ordering of §4.4 can be determined.
type MapBuilder struct {
	entries []mapEntry
	sort    bool
}

// NewMapBuilder returns an empty MapBuilder. When sortKeys is true,
// Finish orders pairs by (encoded-key length, then lexicographic bytes);
// otherwise pairs are emitted in insertion order.
func NewMapBuilder(sortKeys bool) *MapBuilder {
	return &MapBuilder{sort: sortKeys}
}

// Add appends one already-encoded (key, value) pair.
func (b *MapBuilder) Add(key, value []byte) {
	b.entries = append(b.entries, mapEntry{key: key, value: value})
}

// Len reports the number of pairs added so far.
func (b *MapBuilder) Len() int { return len(b.entries) }

// Finish emits the map header followed by the accumulated pairs, sorted
// if the builder was constructed with sortKeys.
func (b *MapBuilder) Finish() []byte {
	if b.sort {
		sortMapEntries(b.entries)
	}
	total := 0
	for _, e := range b.entries {
		total += len(e.key) + len(e.value)
	}
	head := encodeLength(MajorMap, uint64(len(b.entries)))
	out := make([]byte, 0, len(head)+total)
	out = append(out, head...)
	for _, e := range b.entries {
		out = append(out, e.key...)
		out = append(out, e.value...)
	}
	return out
}

// sortMapEntries implements the canonical map-key ordering: ascending
// encoded-key length, ties broken by lexicographic byte comparison. A
// plain insertion sort avoids a sort.Slice closure allocation on this hot
// path; map arities in practice are small enough that this never matters.
func sortMapEntries(entries []mapEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && mapEntryLess(entries[j], entries[j-1]); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

func mapEntryLess(a, b mapEntry) bool {
	if len(a.key) != len(b.key) {
		return len(a.key) < len(b.key)
	}
	for i := range a.key {
		if a.key[i] != b.key[i] {
			return a.key[i] < b.key[i]
		}
	}
	return false
}
