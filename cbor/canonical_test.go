package cbor

import (
	"bytes"
	"math"
	"testing"

	"github.com/cbordec/cbor/codeclog"
	"github.com/cbordec/cbor/value"
)

func TestEmitCanonicalFloat_NaNAndInfinity(t *testing.T) {
	w := NewWriter()

	cases := []struct {
		name string
		in   float64
		want []byte
	}{
		{"nan", math.NaN(), []byte{0xF9, 0x7E, 0x00}},
		{"positive infinity", math.Inf(1), []byte{0xF9, 0x7C, 0x00}},
		{"negative infinity", math.Inf(-1), []byte{0xF9, 0xFC, 0x00}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := emitCanonicalFloat(w, c.in, 8, codeclog.Noop{})
			if !bytes.Equal(got, c.want) {
				t.Errorf("got % X, want % X", got, c.want)
			}
		})
	}
}

func TestEmitCanonicalFloat_Narrowing(t *testing.T) {
	w := NewWriter()

	cases := []struct {
		name      string
		in        float64
		wantWidth int
	}{
		{"one is half precision", 1.0, 2},
		{"pi requires double precision", math.Pi, 8},
		{"0.5 is exact in half precision", 0.5, 2},
		{"negative zero preserved as half", math.Copysign(0, -1), 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := emitCanonicalFloat(w, c.in, 8, codeclog.Noop{})
			gotWidth := len(got) - 1
			if gotWidth != c.wantWidth {
				t.Errorf("got width %d, want %d (bytes % X)", gotWidth, c.wantWidth, got)
			}
		})
	}
}

func TestCanonicalFloat_NegativeZeroDistinctFromPositive(t *testing.T) {
	w := NewWriter()
	pos := emitCanonicalFloat(w, 0, 8, codeclog.Noop{})
	neg := emitCanonicalFloat(w, math.Copysign(0, -1), 8, codeclog.Noop{})
	if bytes.Equal(pos, neg) {
		t.Errorf("expected +0 and -0 to encode differently, both got % X", pos)
	}
}

func TestEncode_CanonicalDeterminism(t *testing.T) {
	m := value.NewMapValue()
	m.Insert(value.NewKey(value.TextString("aa")), value.Unsigned(1), false)
	m.Insert(value.NewKey(value.TextString("b")), value.Unsigned(2), false)
	m.Insert(value.NewKey(value.TextString("aaa")), value.Unsigned(3), false)
	m.Insert(value.NewKey(value.TextString("z")), value.Unsigned(4), false)

	opts := EncOptions{Canonical: true}
	first, err := Encode(m, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Encode(m, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("canonical encoding is not deterministic: % X vs % X", first, second)
	}

	want := []byte{
		0xA4,
		0x61, 'b', 0x02,
		0x61, 'z', 0x04,
		0x62, 'a', 'a', 0x01,
		0x63, 'a', 'a', 'a', 0x03,
	}
	if !bytes.Equal(first, want) {
		t.Fatalf("got % X, want % X", first, want)
	}
}
