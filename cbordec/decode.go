package cbordec

import (
	"github.com/cbordec/cbor/bridge"
	"github.com/cbordec/cbor/cbor"
	"github.com/cbordec/cbor/value"
)

// Decode decodes p and unmarshals the result into target, which must be a
// non-nil pointer. opts is optional; the zero value uses default resource
// bounds and default bridge strategies (EpochTime dates, raw byte
// strings, untransformed keys).
func Decode(target interface{}, p []byte, opts ...bridge.DecOptions) error {
	var o bridge.DecOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return bridge.Decode(target, p, o)
}

// DecodeValue decodes p into a value.Value tree without involving the
// reflection bridge.
func DecodeValue(p []byte, opts ...cbor.DecOptions) (value.Value, error) {
	o := cbor.NewDecOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	d := cbor.NewDecoder(o)
	v, _, err := d.Decode(p)
	return v, err
}
