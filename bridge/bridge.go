package bridge

import "github.com/cbordec/cbor/value"

// Marshaler is implemented by types that know how to represent themselves
// as a CBOR data item directly, bypassing the reflective struct walk.
type Marshaler interface {
	MarshalCBOR() (Value, error)
}

// Unmarshaler is implemented by types that know how to populate themselves
// from a decoded Value tree, the read-side counterpart of Marshaler.
type Unmarshaler interface {
	UnmarshalCBOR(Value) error
}

// Value is a local alias so callers implementing Marshaler/Unmarshaler
// don't need to import the value package directly for the common case.
type Value = value.Value

// noSerde is an unexported marker interface: only NoSerde implements it, so
// IsNoSerde can detect the sentinel without exposing a public method
// surface types could accidentally satisfy.
type noSerde interface {
	noCBORSerde()
}

// NoSerde is embedded in a struct to mark it as intentionally excluded
// from CBOR marshaling/unmarshaling.
type NoSerde struct{}

func (NoSerde) noCBORSerde() {}

var _ noSerde = (*NoSerde)(nil)

// IsNoSerde reports whether x embeds NoSerde.
func IsNoSerde(x interface{}) bool {
	_, ok := x.(noSerde)
	return ok
}
