package value

import (
	"hash/maphash"
	"math"
)

// mapSeed is process-global so that Key.hash is stable for the lifetime of
// the process (maphash requires a fixed seed to be deterministic across
// calls, though not across processes - that's fine, the hash is only ever
// used internally by MapValue's bucketing, never serialized).
var mapSeed = maphash.MakeSeed()

// Key wraps a Value so it can participate in map/set lookup. Two keys are
// equal iff their Values are structurally equal (value.Equal); hashing
// folds in the variant discriminator plus variant-specific payload bytes.
//
// For Array and Map keys the hash folds in only the element/pair count, not
// the contents, to bound hash cost on nested keys; equality still compares
// the full structure. A Key wrapping the internal Break sentinel is
// undefined behavior - the Reader rejects Break before it could ever reach
// a Key.
type Key struct {
	V Value
}

// NewKey wraps v as a map/set key.
func NewKey(v Value) Key { return Key{V: v} }

// Equal reports whether two keys wrap structurally equal values.
func (k Key) Equal(other Key) bool { return Equal(k.V, other.V) }

// hash computes the bucketing hash described in the Key doc. It is not
// required to be collision-free; MapValue falls back to Equal within a
// bucket.
func (k Key) hash() uint64 {
	var h maphash.Hash
	h.SetSeed(mapSeed)
	h.WriteByte(byte(k.V.Kind()))

	switch v := k.V.(type) {
	case Unsigned:
		writeUint64(&h, uint64(v))
	case Negative:
		writeUint64(&h, v.raw)
	case ByteString:
		h.Write(v)
	case TextString:
		h.WriteString(string(v))
	case Array:
		writeUint64(&h, uint64(len(v))) // length only, per the Key doc
	case Simple:
		h.WriteByte(byte(v))
	case Float16:
		writeUint64(&h, uint64(v.Bits()))
	case Float32:
		writeUint64(&h, uint64(math.Float32bits(float32(v))))
	case Float64:
		writeUint64(&h, math.Float64bits(float64(v)))
	case Tagged:
		writeUint64(&h, v.Number)
	case *MapValue:
		writeUint64(&h, uint64(v.Len())) // length only, per the Key doc
	default:
		// breakMarker or an unrecognized variant: discriminator byte alone
		// is the whole hash. Reachable only if a Break ever wound up
		// wrapped in a Key, which the Reader never does.
	}
	return h.Sum64()
}

func writeUint64(h *maphash.Hash, v uint64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (56 - 8*i))
	}
	h.Write(buf[:])
}

// pair is one entry of a MapValue, retained in insertion order.
type pair struct {
	Key   Key
	Value Value
}

// MapValue is the backing store for the Map variant's major-type-5
// content: an insertion-ordered sequence of key/value pairs with
// hash-bucketed lookup for duplicate-key detection and Get.
//
// MapValue implements Value directly (as the Map variant) since a CBOR map
// is itself a data item; NewMapValue is the constructor the Reader uses.
type MapValue struct {
	pairs   []pair
	buckets map[uint64][]int // hash -> indices into pairs
}

// NewMapValue returns an empty, ready-to-use MapValue.
func NewMapValue() *MapValue {
	return &MapValue{buckets: make(map[uint64][]int)}
}

func (*MapValue) Kind() Kind { return KindMap }

// Len returns the number of pairs currently stored.
func (m *MapValue) Len() int { return len(m.pairs) }

// Get looks up a key, returning its value and whether it was present.
func (m *MapValue) Get(k Key) (Value, bool) {
	h := k.hash()
	for _, idx := range m.buckets[h] {
		if m.pairs[idx].Key.Equal(k) {
			return m.pairs[idx].Value, true
		}
	}
	return nil, false
}

// GetString is a convenience wrapper for the common case of looking up a
// text-string key, used throughout the bridge package.
func (m *MapValue) GetString(key string) (Value, bool) {
	return m.Get(NewKey(TextString(key)))
}

// Range calls fn for each pair in insertion order, stopping early if fn
// returns false.
func (m *MapValue) Range(fn func(k Key, v Value) bool) {
	for _, p := range m.pairs {
		if !fn(p.Key, p.Value) {
			return
		}
	}
}

// Keys returns the stored keys in insertion order.
func (m *MapValue) Keys() []Key {
	out := make([]Key, len(m.pairs))
	for i, p := range m.pairs {
		out[i] = p.Key
	}
	return out
}

// Insert adds or replaces the value for k.
//
// If allowDuplicate is false and k is already present, Insert reports
// (false, true): the caller (the Reader) is expected to treat this as a
// DuplicateMapKey error. If allowDuplicate is true, a later Insert for an
// existing key overwrites the stored value in place, preserving the key's
// original position, so a later duplicate entry wins.
//
// Returns (inserted, alreadyPresent).
func (m *MapValue) Insert(k Key, v Value, allowDuplicate bool) (inserted bool, alreadyPresent bool) {
	h := k.hash()
	for _, idx := range m.buckets[h] {
		if m.pairs[idx].Key.Equal(k) {
			if !allowDuplicate {
				return false, true
			}
			m.pairs[idx].Value = v
			return true, true
		}
	}
	idx := len(m.pairs)
	m.pairs = append(m.pairs, pair{Key: k, Value: v})
	m.buckets[h] = append(m.buckets[h], idx)
	return true, false
}

func (m *MapValue) String() string {
	parts := make([]string, len(m.pairs))
	for i, p := range m.pairs {
		parts[i] = p.Key.V.String() + ": " + p.Value.String()
	}
	s := "{"
	for i, part := range parts {
		if i > 0 {
			s += ", "
		}
		s += part
	}
	return s + "}"
}

func (m *MapValue) equal(other Value) bool {
	o := other.(*MapValue)
	if m.Len() != o.Len() {
		return false
	}
	for _, p := range m.pairs {
		ov, ok := o.Get(p.Key)
		if !ok || !Equal(p.Value, ov) {
			return false
		}
	}
	return true
}

var _ Value = (*MapValue)(nil)
