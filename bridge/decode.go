package bridge

import (
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/cbordec/cbor/cbor"
	"github.com/cbordec/cbor/datetime"
	"github.com/cbordec/cbor/value"
)

// Unmarshal walks a decoded Value tree into target, which must be a
// non-nil pointer. This is the generic-bridge half of the two-step decode
// path; Decode composes it with cbor.NewDecoder to go straight from wire
// bytes.
func Unmarshal(v value.Value, target interface{}, opts DecOptions) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		panic("bridge: Unmarshal target must be a non-nil pointer")
	}
	return unmarshalValue(v, rv.Elem(), opts, nil)
}

// Decode decodes p with the core decoder and then unmarshals the result
// into target using opts.
func Decode(target interface{}, p []byte, opts DecOptions) error {
	d := cbor.NewDecoder(opts.Core)
	v, _, err := d.Decode(p)
	if err != nil {
		return err
	}
	return Unmarshal(v, target, opts)
}

func unmarshalValue(v value.Value, rv reflect.Value, opts DecOptions, path []string) error {
	if v == nil || value.Equal(v, value.Simple(value.SimpleNull)) || value.Equal(v, value.Simple(value.SimpleUndefined)) {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}

	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return unmarshalValue(v, rv.Elem(), opts, path)
	}

	if rv.CanAddr() {
		if u, ok := rv.Addr().Interface().(Unmarshaler); ok {
			if err := u.UnmarshalCBOR(v); err != nil {
				return withPath(err, path)
			}
			return nil
		}
	}

	if rv.Type() == timeType {
		t, err := unmarshalTime(v, opts)
		if err != nil {
			return withPath(err, path)
		}
		rv.Set(reflect.ValueOf(t))
		return nil
	}

	switch rv.Kind() {
	case reflect.Interface:
		return unmarshalIntoEmptyInterface(v, rv)

	case reflect.Bool:
		s, ok := v.(value.Simple)
		if !ok || (s != value.SimpleTrue && s != value.SimpleFalse) {
			return typeMismatch(path, "bool", v)
		}
		rv.SetBool(s == value.SimpleTrue)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := asInt64(v)
		if err != nil {
			return withPath(err, path)
		}
		if rv.OverflowInt(n) {
			return outOfRange(path, rv.Type(), n)
		}
		rv.SetInt(n)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, ok := v.(value.Unsigned)
		if !ok {
			return typeMismatch(path, "unsigned integer", v)
		}
		if rv.OverflowUint(uint64(u)) {
			return outOfRange(path, rv.Type(), uint64(u))
		}
		rv.SetUint(uint64(u))
		return nil

	case reflect.Float32, reflect.Float64:
		f, err := decodeFloat(v, opts)
		if err != nil {
			return withPath(err, path)
		}
		rv.SetFloat(f)
		return nil

	case reflect.String:
		s, ok := v.(value.TextString)
		if !ok {
			return typeMismatch(path, "text string", v)
		}
		rv.SetString(string(s))
		return nil

	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return unmarshalBytes(v, rv, opts, path)
		}
		return unmarshalSlice(v, rv, opts, path)

	case reflect.Map:
		return unmarshalMap(v, rv, opts, path)

	case reflect.Struct:
		return unmarshalStruct(v, rv, opts, path)

	default:
		return withPath(fmt.Errorf("unsupported Go kind %s", rv.Kind()), path)
	}
}

func typeMismatch(path []string, want string, got value.Value) error {
	return &Error{Kind: ErrTypeMismatch, Msg: fmt.Sprintf("expected %s, got %s", want, got.Kind()), CodingPath: append([]string{}, path...)}
}

func outOfRange(path []string, t reflect.Type, n interface{}) error {
	return &Error{Kind: ErrValueOutOfRange, Msg: fmt.Sprintf("value %v does not fit in %s", n, t), CodingPath: append([]string{}, path...)}
}

func asInt64(v value.Value) (int64, error) {
	switch t := v.(type) {
	case value.Unsigned:
		if uint64(t) > 1<<63-1 {
			return 0, fmt.Errorf("unsigned value %d overflows int64", uint64(t))
		}
		return int64(t), nil
	case value.Negative:
		n, ok := t.Int64()
		if !ok {
			return 0, fmt.Errorf("negative value %s is out of int64 range", t.String())
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected an integer, got %s", v.Kind())
	}
}

func asFloat64(v value.Value) (float64, error) {
	switch t := v.(type) {
	case value.Float16:
		return float64(t.Float32()), nil
	case value.Float32:
		return float64(t), nil
	case value.Float64:
		return float64(t), nil
	case value.Unsigned:
		return float64(t), nil
	case value.Negative:
		n, _ := t.Int64()
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected a numeric value, got %s", v.Kind())
	}
}

// decodeFloat is asFloat64 plus the ConvertNonConformingFloatFromString
// strategy, which lets a text string spell a non-finite float the way some
// JSON-adjacent producers do when round-tripping through a text-only
// transport.
func decodeFloat(v value.Value, opts DecOptions) (float64, error) {
	s, ok := v.(value.TextString)
	if !ok || opts.FloatStrategy != ConvertNonConformingFloatFromString {
		return asFloat64(v)
	}
	switch string(s) {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	default:
		return 0, fmt.Errorf("unrecognized non-conforming float string %q", string(s))
	}
}

func unmarshalIntoEmptyInterface(v value.Value, rv reflect.Value) error {
	switch t := v.(type) {
	case value.Unsigned:
		rv.Set(reflect.ValueOf(uint64(t)))
	case value.Negative:
		rv.Set(reflect.ValueOf(t.String()))
	case value.ByteString:
		rv.Set(reflect.ValueOf([]byte(t)))
	case value.TextString:
		rv.Set(reflect.ValueOf(string(t)))
	case value.Simple:
		switch t {
		case value.SimpleTrue:
			rv.Set(reflect.ValueOf(true))
		case value.SimpleFalse:
			rv.Set(reflect.ValueOf(false))
		default:
			rv.Set(reflect.Zero(rv.Type()))
		}
	case value.Float16:
		rv.Set(reflect.ValueOf(float64(t.Float32())))
	case value.Float32:
		rv.Set(reflect.ValueOf(float64(t)))
	case value.Float64:
		rv.Set(reflect.ValueOf(float64(t)))
	case value.Array:
		out := make([]interface{}, len(t))
		for i, el := range t {
			var iv interface{}
			ev := reflect.ValueOf(&iv).Elem()
			if err := unmarshalIntoEmptyInterface(el, ev); err != nil {
				return err
			}
			out[i] = iv
		}
		rv.Set(reflect.ValueOf(out))
	case *value.MapValue:
		out := make(map[string]interface{}, t.Len())
		t.Range(func(k value.Key, val value.Value) bool {
			var iv interface{}
			ev := reflect.ValueOf(&iv).Elem()
			_ = unmarshalIntoEmptyInterface(val, ev)
			out[k.V.String()] = iv
			return true
		})
		rv.Set(reflect.ValueOf(out))
	case value.Tagged:
		return unmarshalIntoEmptyInterface(t.Content, rv)
	default:
		rv.Set(reflect.Zero(rv.Type()))
	}
	return nil
}

func unmarshalBytes(v value.Value, rv reflect.Value, opts DecOptions, path []string) error {
	switch opts.DataCodec.Strategy {
	case DataBase64String:
		s, ok := v.(value.TextString)
		if !ok {
			return typeMismatch(path, "base64 text string", v)
		}
		b, err := base64.StdEncoding.DecodeString(string(s))
		if err != nil {
			return withPath(fmt.Errorf("invalid base64: %w", err), path)
		}
		rv.SetBytes(b)
		return nil
	case DataCustom:
		s, ok := v.(value.TextString)
		if !ok {
			return typeMismatch(path, "text string", v)
		}
		if opts.DataCodec.DecodeCustom == nil {
			return withPath(fmt.Errorf("DataCustom strategy requires DecodeCustom"), path)
		}
		b, err := opts.DataCodec.DecodeCustom(string(s))
		if err != nil {
			return withPath(err, path)
		}
		rv.SetBytes(b)
		return nil
	default:
		b, ok := v.(value.ByteString)
		if !ok {
			return typeMismatch(path, "byte string", v)
		}
		rv.SetBytes([]byte(b))
		return nil
	}
}

func unmarshalTime(v value.Value, opts DecOptions) (time.Time, error) {
	switch opts.DateCodec.Strategy {
	case datetime.Iso8601String:
		tagged, ok := v.(value.Tagged)
		if ok {
			v = tagged.Content
		}
		s, ok := v.(value.TextString)
		if !ok {
			return time.Time{}, fmt.Errorf("expected a text string for Iso8601String, got %s", v.Kind())
		}
		return datetime.ParseDateTime(string(s))
	case datetime.Custom:
		if opts.DateCodec.DecodeCustom == nil {
			return time.Time{}, fmt.Errorf("Custom date strategy requires DecodeCustom")
		}
		seconds, err := asFloat64(unwrapTag(v))
		if err != nil {
			return time.Time{}, err
		}
		return opts.DateCodec.DecodeCustom(seconds)
	default: // EpochTime and Tagged both carry a numeric epoch count
		seconds, err := asFloat64(unwrapTag(v))
		if err != nil {
			return time.Time{}, err
		}
		return datetime.FromEpochSeconds(seconds)
	}
}

func unwrapTag(v value.Value) value.Value {
	if t, ok := v.(value.Tagged); ok {
		return t.Content
	}
	return v
}

func unmarshalSlice(v value.Value, rv reflect.Value, opts DecOptions, path []string) error {
	arr, ok := v.(value.Array)
	if !ok {
		return typeMismatch(path, "array", v)
	}
	out := reflect.MakeSlice(rv.Type(), len(arr), len(arr))
	for i, el := range arr {
		if err := unmarshalValue(el, out.Index(i), opts, append(path, fmt.Sprintf("[%d]", i))); err != nil {
			return err
		}
	}
	rv.Set(out)
	return nil
}

func unmarshalMap(v value.Value, rv reflect.Value, opts DecOptions, path []string) error {
	m, ok := v.(*value.MapValue)
	if !ok {
		return typeMismatch(path, "map", v)
	}
	out := reflect.MakeMapWithSize(rv.Type(), m.Len())
	var rangeErr error
	m.Range(func(k value.Key, val value.Value) bool {
		keyStr, ok := k.V.(value.TextString)
		if !ok {
			rangeErr = withPath(fmt.Errorf("expected text-string map key, got %s", k.V.Kind()), path)
			return false
		}
		elem := reflect.New(rv.Type().Elem()).Elem()
		if err := unmarshalValue(val, elem, opts, append(path, string(keyStr))); err != nil {
			rangeErr = err
			return false
		}
		out.SetMapIndex(reflect.ValueOf(string(keyStr)).Convert(rv.Type().Key()), elem)
		return true
	})
	if rangeErr != nil {
		return rangeErr
	}
	rv.Set(out)
	return nil
}

func unmarshalStruct(v value.Value, rv reflect.Value, opts DecOptions, path []string) error {
	if rv.CanAddr() && IsNoSerde(rv.Addr().Interface()) {
		return withPath(fmt.Errorf("type %s opts out of CBOR deserialization (embeds NoSerde)", rv.Type()), path)
	}

	si := cachedStructInfo(rv.Type())

	if si.ToArray {
		arr, ok := v.(value.Array)
		if !ok {
			return typeMismatch(path, "array (toarray struct)", v)
		}
		for i, fi := range si.Fields {
			if i >= len(arr) {
				break
			}
			fv := rv.FieldByIndex(fi.Index)
			if err := unmarshalValue(arr[i], fv, opts, append(path, fi.Name)); err != nil {
				return err
			}
		}
		return nil
	}

	m, ok := v.(*value.MapValue)
	if !ok {
		return typeMismatch(path, "map", v)
	}
	for _, fi := range si.Fields {
		var fieldVal value.Value
		var present bool
		if fi.KeyAsInt {
			n, err := parseKeyAsInt(fi.Name)
			if err != nil {
				return withPath(err, path)
			}
			fieldVal, present = m.Get(value.NewKey(marshalInt(n)))
		} else {
			fieldVal, present = m.GetString(wireKey(fi.Name, opts.KeyStrategy, opts.KeyCustom))
		}
		if !present {
			continue
		}
		fv := rv.FieldByIndex(fi.Index)
		if err := unmarshalValue(fieldVal, fv, opts, append(path, fi.Name)); err != nil {
			return err
		}
	}
	return nil
}
