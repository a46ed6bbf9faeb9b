package cbor

import (
	"fmt"

	"github.com/cbordec/cbor/value"
)

// Encode renders v to its CBOR wire encoding. Canonical mode (EncOptions.
// Canonical) activates the deterministic encoding rules: float width
// narrowing, fixed NaN/Infinity encodings, and sorted map keys. SortKeys
// alone sorts keys without touching float width.
//
// Encoding a tree containing the internal Break sentinel is a programming
// error, not a data error the caller can recover from by retrying with
// different options; it fails MalformedData.
func Encode(v value.Value, opts EncOptions) ([]byte, error) {
	w := NewWriter()
	return encodeValue(w, opts, v)
}

func encodeValue(w *Writer, opts EncOptions, v value.Value) ([]byte, error) {
	if value.IsBreak(v) {
		return nil, newErr(ErrMalformedData, "cannot encode the internal break sentinel")
	}

	switch t := v.(type) {
	case value.Unsigned:
		return w.EmitUint(uint64(t)), nil

	case value.Negative:
		return w.EmitNegativeRaw(t.Raw()), nil

	case value.ByteString:
		return w.EmitBytes([]byte(t)), nil

	case value.TextString:
		return w.EmitString(string(t)), nil

	case value.Array:
		b := NewBuilder()
		for i, el := range t {
			enc, err := encodeValue(w, opts, el)
			if err != nil {
				return nil, fmt.Errorf("array element %d: %w", i, err)
			}
			b.Add(enc)
		}
		return b.Finish(), nil

	case *value.MapValue:
		b := NewMapBuilder(opts.sortKeys())
		var encErr error
		t.Range(func(k value.Key, val value.Value) bool {
			keyBytes, err := encodeValue(w, opts, k.V)
			if err != nil {
				encErr = fmt.Errorf("map key %s: %w", k.V.String(), err)
				return false
			}
			valBytes, err := encodeValue(w, opts, val)
			if err != nil {
				encErr = fmt.Errorf("map value for key %s: %w", k.V.String(), err)
				return false
			}
			b.Add(keyBytes, valBytes)
			return true
		})
		if encErr != nil {
			return nil, encErr
		}
		return b.Finish(), nil

	case value.Tagged:
		head := w.EmitTag(t.Number)
		child, err := encodeValue(w, opts, t.Content)
		if err != nil {
			return nil, fmt.Errorf("tag %d content: %w", t.Number, err)
		}
		out := make([]byte, 0, len(head)+len(child))
		out = append(out, head...)
		out = append(out, child...)
		return out, nil

	case value.Simple:
		return w.EmitSimple(byte(t)), nil

	case value.Float16:
		if opts.Canonical {
			return emitCanonicalFloat(w, float64(t.Float32()), 2, opts.logger()), nil
		}
		return w.EmitFloat16(t.Bits()), nil

	case value.Float32:
		if opts.Canonical {
			return emitCanonicalFloat(w, float64(t), 4, opts.logger()), nil
		}
		return w.EmitFloat32(float32(t)), nil

	case value.Float64:
		if opts.Canonical {
			return emitCanonicalFloat(w, float64(t), 8, opts.logger()), nil
		}
		return w.EmitFloat64(float64(t)), nil

	default:
		return nil, newErr(ErrMalformedData, fmt.Sprintf("unrecognized value kind %s", v.Kind()))
	}
}
