package bridge

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"time"

	"github.com/cbordec/cbor/cbor"
	"github.com/cbordec/cbor/datetime"
	"github.com/cbordec/cbor/value"
)

var timeType = reflect.TypeOf(time.Time{})

// Marshal converts a Go value into its Value tree representation,
// following EncOptions' strategies at every leaf. This is the
// generic-bridge half of the two-step encode path; Encode composes it
// with cbor.Encode to produce wire bytes.
func Marshal(v interface{}, opts EncOptions) (value.Value, error) {
	return marshalValue(reflect.ValueOf(v), opts, nil)
}

// Encode marshals v through the bridge and then encodes the resulting
// Value tree to wire bytes using opts.Core.
func Encode(v interface{}, opts EncOptions) ([]byte, error) {
	tree, err := Marshal(v, opts)
	if err != nil {
		return nil, err
	}
	return cbor.Encode(tree, opts.Core)
}

func marshalValue(rv reflect.Value, opts EncOptions, path []string) (value.Value, error) {
	if !rv.IsValid() {
		return value.Simple(value.SimpleNull), nil
	}

	if m, ok := asMarshaler(rv); ok {
		v, err := m.MarshalCBOR()
		if err != nil {
			return nil, withPath(err, path)
		}
		return v, nil
	}

	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return value.Simple(value.SimpleNull), nil
		}
		rv = rv.Elem()
	}

	if rv.Type() == timeType {
		v, err := marshalTime(rv.Interface().(time.Time), opts)
		if err != nil {
			return nil, withPath(err, path)
		}
		return v, nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		return value.Simple(boolSimple(rv.Bool())), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return marshalInt(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.Unsigned(rv.Uint()), nil

	case reflect.Float32:
		return value.Float32(rv.Float()), nil

	case reflect.Float64:
		return value.Float64(rv.Float()), nil

	case reflect.String:
		return value.TextString(rv.String()), nil

	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			v, err := marshalBytes(rv.Bytes(), opts)
			if err != nil {
				return nil, withPath(err, path)
			}
			return v, nil
		}
		return marshalSlice(rv, opts, path)

	case reflect.Map:
		return marshalMap(rv, opts, path)

	case reflect.Struct:
		return marshalStruct(rv, opts, path)

	default:
		return nil, withPath(fmt.Errorf("unsupported Go kind %s", rv.Kind()), path)
	}
}

// asMarshaler checks both rv and, if addressable, &rv for the Marshaler
// interface, so a pointer-receiver implementation is found whether the
// caller handed marshalValue a value or a pointer to it.
func asMarshaler(rv reflect.Value) (Marshaler, bool) {
	if rv.CanInterface() {
		if m, ok := rv.Interface().(Marshaler); ok {
			return m, true
		}
	}
	if rv.CanAddr() {
		if m, ok := rv.Addr().Interface().(Marshaler); ok {
			return m, true
		}
	}
	return nil, false
}

func boolSimple(b bool) value.Simple {
	if b {
		return value.SimpleTrue
	}
	return value.SimpleFalse
}

func marshalInt(x int64) value.Value {
	if x >= 0 {
		return value.Unsigned(uint64(x))
	}
	return value.NewNegativeInt64(x)
}

func marshalBytes(b []byte, opts EncOptions) (value.Value, error) {
	switch opts.DataCodec.Strategy {
	case DataBase64String:
		return value.TextString(base64.StdEncoding.EncodeToString(b)), nil
	case DataCustom:
		if opts.DataCodec.EncodeCustom == nil {
			return nil, fmt.Errorf("bridge: DataCustom strategy requires EncodeCustom")
		}
		s, err := opts.DataCodec.EncodeCustom(b)
		if err != nil {
			return nil, err
		}
		return value.TextString(s), nil
	default:
		cp := make([]byte, len(b))
		copy(cp, b)
		return value.ByteString(cp), nil
	}
}

func marshalTime(t time.Time, opts EncOptions) (value.Value, error) {
	switch opts.DateCodec.Strategy {
	case datetime.Tagged:
		seconds, _ := datetime.EpochSeconds(t)
		return value.NewTagged(1, epochValue(t, seconds)), nil
	case datetime.Iso8601String:
		return value.NewTagged(0, value.TextString(datetime.FormatDateTime(t))), nil
	case datetime.Custom:
		if opts.DateCodec.EncodeCustom == nil {
			return nil, fmt.Errorf("bridge: Custom date strategy requires EncodeCustom")
		}
		seconds, ok := opts.DateCodec.EncodeCustom(t)
		if !ok {
			return nil, fmt.Errorf("bridge: EncodeCustom rejected time value %v", t)
		}
		return epochValueFromSeconds(seconds), nil
	default: // EpochTime
		seconds, _ := datetime.EpochSeconds(t)
		return epochValue(t, seconds), nil
	}
}

func epochValue(t time.Time, seconds float64) value.Value {
	if _, isWhole := datetime.EpochSeconds(t); isWhole {
		return marshalInt(int64(seconds))
	}
	return value.Float64(seconds)
}

func epochValueFromSeconds(seconds float64) value.Value {
	if seconds == float64(int64(seconds)) {
		return marshalInt(int64(seconds))
	}
	return value.Float64(seconds)
}

func marshalSlice(rv reflect.Value, opts EncOptions, path []string) (value.Value, error) {
	arr := make(value.Array, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		el, err := marshalValue(rv.Index(i), opts, append(path, fmt.Sprintf("[%d]", i)))
		if err != nil {
			return nil, err
		}
		arr = append(arr, el)
	}
	return arr, nil
}

func marshalMap(rv reflect.Value, opts EncOptions, path []string) (value.Value, error) {
	m := value.NewMapValue()
	iter := rv.MapRange()
	for iter.Next() {
		keyStr := fmt.Sprint(iter.Key().Interface())
		val, err := marshalValue(iter.Value(), opts, append(path, keyStr))
		if err != nil {
			return nil, err
		}
		m.Insert(value.NewKey(value.TextString(wireKey(keyStr, opts.KeyStrategy, opts.KeyCustom))), val, true)
	}
	return m, nil
}

func marshalStruct(rv reflect.Value, opts EncOptions, path []string) (value.Value, error) {
	if rv.CanInterface() && IsNoSerde(rv.Interface()) {
		return nil, withPath(fmt.Errorf("type %s opts out of CBOR serialization (embeds NoSerde)", rv.Type()), path)
	}

	si := cachedStructInfo(rv.Type())

	if si.ToArray {
		arr := make(value.Array, 0, len(si.Fields))
		for _, fi := range si.Fields {
			fv := rv.FieldByIndex(fi.Index)
			el, err := marshalValue(fv, opts, append(path, fi.Name))
			if err != nil {
				return nil, err
			}
			arr = append(arr, el)
		}
		return arr, nil
	}

	m := value.NewMapValue()
	for _, fi := range si.Fields {
		fv := rv.FieldByIndex(fi.Index)
		if fi.OmitEmpty && isEmptyValue(fv) {
			continue
		}
		val, err := marshalValue(fv, opts, append(path, fi.Name))
		if err != nil {
			return nil, err
		}
		key := value.Value(value.TextString(wireKey(fi.Name, opts.KeyStrategy, opts.KeyCustom)))
		if fi.KeyAsInt {
			n, err := parseKeyAsInt(fi.Name)
			if err != nil {
				return nil, withPath(err, path)
			}
			key = marshalInt(n)
		}
		m.Insert(value.NewKey(key), val, true)
	}
	return m, nil
}
