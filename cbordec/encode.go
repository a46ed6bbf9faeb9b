package cbordec

import (
	"github.com/cbordec/cbor/bridge"
	"github.com/cbordec/cbor/cbor"
	"github.com/cbordec/cbor/value"
)

// Encode marshals v through the reflection bridge and encodes the result
// to wire bytes. opts is optional; the zero value encodes
// non-canonically with default bridge strategies.
func Encode(v interface{}, opts ...bridge.EncOptions) ([]byte, error) {
	var o bridge.EncOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return bridge.Encode(v, o)
}

// EncodeToBytes encodes a value.Value tree directly, without involving the
// reflection bridge.
func EncodeToBytes(v value.Value, opts ...cbor.EncOptions) ([]byte, error) {
	var o cbor.EncOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return cbor.Encode(v, o)
}
