package bridge

import (
	"github.com/cbordec/cbor/cbor"
	"github.com/cbordec/cbor/datetime"
)

// DataStrategy selects how the bridge maps a []byte Go field to/from a
// CBOR data item.
type DataStrategy uint8

const (
	// DataByteString maps directly to a CBOR byte string (the default).
	DataByteString DataStrategy = iota
	// DataBase64String maps to a CBOR text string, base64-encoded.
	DataBase64String
	// DataCustom delegates entirely to the Codec's custom hooks.
	DataCustom
)

// DataCodec bundles a DataStrategy with the hooks it needs when the
// strategy is DataCustom.
type DataCodec struct {
	Strategy     DataStrategy
	EncodeCustom func([]byte) (string, error)
	DecodeCustom func(string) ([]byte, error)
}

// KeyStrategy selects how the bridge derives a map/struct-field key from a
// Go field name.
type KeyStrategy uint8

const (
	// UseDefaultKeys uses the field's cbor tag name (or Go field name if
	// untagged) verbatim.
	UseDefaultKeys KeyStrategy = iota
	// ConvertFromSnakeCase uses wire keys in snake_case: both encode and
	// decode convert the field's tag/name to snake_case (UserName becomes
	// user_name) to form the wire key.
	ConvertFromSnakeCase
	// KeyCustom delegates key derivation entirely to Custom.
	KeyCustom
)

// NonConformingFloatStrategy selects how the bridge handles the
// non-finite-float-as-string convention some JSON-adjacent producers use.
type NonConformingFloatStrategy uint8

const (
	// ThrowOnNonConformingFloat fails decode when a float field receives a
	// text string (the default: CBOR has no such convention, so any text
	// string in a float field is a type error).
	ThrowOnNonConformingFloat NonConformingFloatStrategy = iota
	// ConvertNonConformingFloatFromString parses "NaN"/"Infinity"/
	// "-Infinity" text into the corresponding float.
	ConvertNonConformingFloatFromString
)

// EncOptions configures Marshal/Encode. The zero value is ready to use and
// encodes non-canonically with default key/date/data strategies.
type EncOptions struct {
	Core      cbor.EncOptions
	DateCodec datetime.Codec
	DataCodec DataCodec
	KeyStrategy KeyStrategy
	KeyCustom func(goFieldName string) string
}

// DecOptions configures Unmarshal/Decode.
type DecOptions struct {
	Core         cbor.DecOptions
	DateCodec    datetime.Codec
	DataCodec    DataCodec
	KeyStrategy  KeyStrategy
	KeyCustom    func(goFieldName string) string
	FloatStrategy NonConformingFloatStrategy
}
