// Package value defines the in-memory representation of a decoded CBOR data
// item: a discriminated union rich enough to preserve every distinction RFC
// 8949 draws (the signed/unsigned integer split, the three floating-point
// widths, tags, and the four restricted simple values).
//
// Values are built bottom-up by the cbor package's Reader and are immutable
// once constructed; there is no shared ownership and no back-references, so
// the tree can never contain a cycle.
package value

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/x448/float16"
)

// Kind identifies which variant a Value holds.
type Kind uint8

// Enumeration of Value kinds, one per CBOR major type (plus the internal
// Break sentinel, which never appears in a tree returned to a caller).
const (
	KindUnsigned Kind = iota
	KindNegative
	KindByteString
	KindTextString
	KindArray
	KindMap
	KindTagged
	KindSimple
	KindFloat16
	KindFloat32
	KindFloat64
	KindBreak
)

func (k Kind) String() string {
	switch k {
	case KindUnsigned:
		return "unsigned"
	case KindNegative:
		return "negative"
	case KindByteString:
		return "bytestring"
	case KindTextString:
		return "textstring"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindTagged:
		return "tagged"
	case KindSimple:
		return "simple"
	case KindFloat16:
		return "float16"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindBreak:
		return "break"
	default:
		return "unknown"
	}
}

// Value is a single decoded CBOR data item. The concrete type underlying a
// Value is always one of the variants declared in this file.
type Value interface {
	// Kind reports which variant this Value holds.
	Kind() Kind

	// String renders the value for diagnostics and test assertions: integers
	// as decimal, byte strings as h'..hex..', text strings quoted,
	// arrays/maps bracketed, tagged values as T(inner), simple values by
	// keyword.
	String() string

	// equal reports structural equality against another Value of the same
	// concrete type. Implementations may assume Kind() matches; callers
	// should use the package-level Equal function instead of this directly.
	equal(other Value) bool
}

// Equal reports whether a and b are structurally equal CBOR values.
//
// Floating-point comparison is bitwise, so two NaNs compare equal only when
// their payload bits match, and +0/-0 are distinct.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	return a.equal(b)
}

// Unsigned is an unsigned integer (CBOR major type 0), covering the full
// 64-bit range.
type Unsigned uint64

func (Unsigned) Kind() Kind { return KindUnsigned }

func (u Unsigned) String() string { return strconv.FormatUint(uint64(u), 10) }

func (u Unsigned) equal(other Value) bool { return u == other.(Unsigned) }

// Negative is a negative integer (CBOR major type 1).
//
// RFC 8949 allows major type 1 to express -2^64..-1, which does not fit in a
// signed 64-bit integer for the bottom half of that range. Rather than
// truncate, Negative stores raw, the major-1 additional value as decoded
// from the wire (so the represented integer is -(raw+1)); Int64 exposes the
// representable subset and Raw exposes the full range.
type Negative struct {
	raw uint64
}

// NewNegative constructs a Negative from the wire-level additional value
// (the argument immediately following the major-1 header byte).
func NewNegative(raw uint64) Negative { return Negative{raw: raw} }

// NewNegativeInt64 constructs a Negative from a representable signed value.
// Panics if x is not negative.
func NewNegativeInt64(x int64) Negative {
	if x >= 0 {
		panic("value: NewNegativeInt64 requires a negative value")
	}
	return Negative{raw: uint64(-x - 1)}
}

func (Negative) Kind() Kind { return KindNegative }

// Raw returns the major-1 additional value as decoded from the wire. The
// represented integer is -(raw+1).
func (n Negative) Raw() uint64 { return n.raw }

// Int64 returns the represented value as an int64 and true, or (0, false) if
// the value is outside the representable range (raw > math.MaxInt64).
func (n Negative) Int64() (int64, bool) {
	if n.raw > math.MaxInt64 {
		return 0, false
	}
	return -int64(n.raw) - 1, true
}

func (n Negative) String() string {
	if v, ok := n.Int64(); ok {
		return strconv.FormatInt(v, 10)
	}
	// outside int64 range: raw+1 can itself overflow uint64 (raw ==
	// math.MaxUint64, the wire encoding of -2^64), so add 1 in big.Int
	// rather than wrapping mod 2^64.
	mag := new(big.Int).SetUint64(n.raw)
	mag.Add(mag, big.NewInt(1))
	return "-" + mag.String()
}

func (n Negative) equal(other Value) bool { return n.raw == other.(Negative).raw }

// ByteString is an arbitrary byte string (CBOR major type 2).
type ByteString []byte

func (ByteString) Kind() Kind { return KindByteString }

func (b ByteString) String() string {
	var sb strings.Builder
	sb.WriteString("h'")
	const hexDigits = "0123456789abcdef"
	for _, c := range b {
		sb.WriteByte(hexDigits[c>>4])
		sb.WriteByte(hexDigits[c&0xf])
	}
	sb.WriteByte('\'')
	return sb.String()
}

func (b ByteString) equal(other Value) bool {
	o := other.(ByteString)
	if len(b) != len(o) {
		return false
	}
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}

// TextString is a UTF-8 text string (CBOR major type 3). Callers must never
// construct a TextString whose contents are not valid UTF-8; the cbor
// Reader enforces this at decode time.
type TextString string

func (TextString) Kind() Kind { return KindTextString }

func (s TextString) String() string { return strconv.Quote(string(s)) }

func (s TextString) equal(other Value) bool { return s == other.(TextString) }

// Array is an ordered sequence of values (CBOR major type 4).
type Array []Value

func (Array) Kind() Kind { return KindArray }

func (a Array) String() string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (a Array) equal(other Value) bool {
	o := other.(Array)
	if len(a) != len(o) {
		return false
	}
	for i := range a {
		if !Equal(a[i], o[i]) {
			return false
		}
	}
	return true
}

// Simple is a restricted CBOR simple value (major type 7, one of
// False/True/Null/Undefined).
type Simple uint8

// The four simple values this codec recognizes as a closed set. Follow-byte
// encodings outside this set (major 7, info 24 with a value other than
// 20-23) are rejected at decode time rather than represented as an
// unrestricted simple value.
const (
	SimpleFalse     Simple = 20
	SimpleTrue      Simple = 21
	SimpleNull      Simple = 22
	SimpleUndefined Simple = 23
)

func (Simple) Kind() Kind { return KindSimple }

func (s Simple) String() string {
	switch s {
	case SimpleFalse:
		return "false"
	case SimpleTrue:
		return "true"
	case SimpleNull:
		return "null"
	case SimpleUndefined:
		return "undefined"
	default:
		return fmt.Sprintf("simple(%d)", uint8(s))
	}
}

func (s Simple) equal(other Value) bool { return s == other.(Simple) }

// Float16 is an IEEE 754 half-precision float (CBOR major type 7, argument
// 25). The raw bit pattern is preserved exactly, including NaN payloads and
// signed zero.
type Float16 struct {
	bits float16.Float16
}

// NewFloat16FromBits constructs a Float16 from its raw 16-bit pattern.
func NewFloat16FromBits(bits uint16) Float16 { return Float16{bits: float16.Float16(bits)} }

// Bits returns the raw 16-bit pattern.
func (f Float16) Bits() uint16 { return uint16(f.bits) }

// Float32 widens the half-precision value to float32 without loss.
func (f Float16) Float32() float32 { return f.bits.Float32() }

func (Float16) Kind() Kind { return KindFloat16 }

func (f Float16) String() string { return strconv.FormatFloat(float64(f.Float32()), 'g', -1, 32) }

func (f Float16) equal(other Value) bool { return f.bits == other.(Float16).bits }

// Float32 is an IEEE 754 single-precision float (CBOR major type 7,
// argument 26).
type Float32 float32

func (Float32) Kind() Kind { return KindFloat32 }

func (f Float32) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 32) }

func (f Float32) equal(other Value) bool {
	o := other.(Float32)
	// bitwise comparison: distinguishes +0/-0 and preserves distinct NaN
	// payloads, per the package doc on Equal.
	return math.Float32bits(float32(f)) == math.Float32bits(float32(o))
}

// Float64 is an IEEE 754 double-precision float (CBOR major type 7,
// argument 27).
type Float64 float64

func (Float64) Kind() Kind { return KindFloat64 }

func (f Float64) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

func (f Float64) equal(other Value) bool {
	o := other.(Float64)
	return math.Float64bits(float64(f)) == math.Float64bits(float64(o))
}

// Tagged is a tag-annotated value (CBOR major type 6). The tagged value
// owns its inner Content exclusively; because the tree has no
// back-references, a cycle through Tagged is impossible.
type Tagged struct {
	Number  uint64
	Content Value
}

// NewTagged constructs a Tagged value.
func NewTagged(number uint64, content Value) Tagged {
	return Tagged{Number: number, Content: content}
}

func (Tagged) Kind() Kind { return KindTagged }

func (t Tagged) String() string {
	return strconv.FormatUint(t.Number, 10) + "(" + t.Content.String() + ")"
}

func (t Tagged) equal(other Value) bool {
	o := other.(Tagged)
	return t.Number == o.Number && Equal(t.Content, o.Content)
}

// breakMarker is the internal sentinel the Reader uses to recognize the
// indefinite-length break byte (0xFF) while unwinding a recursive decode.
// It is never present in a Value tree returned to a caller: encountering it
// where an actual item was expected is reported as InvalidIndefiniteLength
// by the cbor package instead.
type breakMarker struct{}

func (breakMarker) Kind() Kind { return KindBreak }

func (breakMarker) String() string { return "<break>" }

func (breakMarker) equal(other Value) bool { _, ok := other.(breakMarker); return ok }

// Break is the singleton break sentinel. IsBreak reports whether a Value is
// this sentinel.
var Break Value = breakMarker{}

// IsBreak reports whether v is the internal break sentinel.
func IsBreak(v Value) bool {
	_, ok := v.(breakMarker)
	return ok
}
