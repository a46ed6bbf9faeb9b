package cbordec

import (
	"testing"

	"github.com/cbordec/cbor/bridge"
	"github.com/cbordec/cbor/cbor"
	"github.com/cbordec/cbor/value"
)

type record struct {
	Name string `cbor:"name"`
	Age  int    `cbor:"age"`
}

func TestEncodeDecode_StructRoundTrip(t *testing.T) {
	in := record{Name: "ada", Age: 36}

	b, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var out record
	if err := Decode(&out, b); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestEncodeDecode_WithOptions(t *testing.T) {
	in := record{Name: "lovelace", Age: 28}

	b, err := Encode(in, bridge.EncOptions{Core: cbor.EncOptions{Canonical: true}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var out record
	if err := Decode(&out, b, bridge.DecOptions{}); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestEncodeToBytes_DecodeValue_RoundTrip(t *testing.T) {
	m := value.NewMapValue()
	m.Insert(value.NewKey(value.TextString("k")), value.Unsigned(7), true)

	b, err := EncodeToBytes(m, cbor.EncOptions{Canonical: true})
	if err != nil {
		t.Fatalf("EncodeToBytes: %v", err)
	}

	v, err := DecodeValue(b)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}

	got, ok := v.(*value.MapValue)
	if !ok {
		t.Fatalf("expected *value.MapValue, got %T", v)
	}
	val, present := got.GetString("k")
	if !present || val != value.Unsigned(7) {
		t.Fatalf("unexpected decoded map content: %+v present=%v", val, present)
	}
}

func TestDecodeValue_DefaultOptions(t *testing.T) {
	b, err := EncodeToBytes(value.Unsigned(42), cbor.EncOptions{})
	if err != nil {
		t.Fatalf("EncodeToBytes: %v", err)
	}

	v, err := DecodeValue(b)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if v != value.Unsigned(42) {
		t.Fatalf("got %v, want Unsigned(42)", v)
	}
}
