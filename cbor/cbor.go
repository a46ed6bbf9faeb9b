// Package cbor implements the RFC 8949 Concise Binary Object Representation
// wire codec: a streaming byte reader and writer covering all major types,
// additional-info length encoding, indefinite-length constructs, the three
// floating-point widths, and the break marker, plus a canonical encoder
// layered on top for deterministic output.
//
// The decoding API (Decoder) handles both definite- and indefinite-length
// containers. The encoding API (Encode) always produces definite-length
// output, since it operates off a fully-constructed value.Value tree whose
// length is always known up front.
package cbor

// MajorType enumerates the eight CBOR major types (the top 3 bits of a
// header byte).
type MajorType byte

// Enumeration of CBOR major types, per RFC 8949 §3.
const (
	MajorUnsigned MajorType = iota
	MajorNegative
	MajorByteString
	MajorTextString
	MajorArray
	MajorMap
	MajorTag
	Major7
)

// Additional-info values with special meaning (RFC 8949 §3).
const (
	infoDirectMax  = 23
	infoUint8      = 24
	infoUint16     = 25
	infoUint32     = 26
	infoUint64     = 27
	infoIndefinite = 31
)

// Major-7 additional-info values.
const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	float16Info     = 25
	float32Info     = 26
	float64Info     = 27
	breakInfo       = 31
)

func header(major MajorType, info byte) byte {
	return byte(major)<<5 | info
}

func majorOf(b byte) MajorType { return MajorType(b >> 5) }

func infoOf(b byte) byte { return b & 0x1f }
