package value

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEqual_Integers(t *testing.T) {
	if !Equal(Unsigned(23), Unsigned(23)) {
		t.Fatal("expected equal")
	}
	if Equal(Unsigned(23), Unsigned(24)) {
		t.Fatal("expected not equal")
	}
	if !Equal(NewNegativeInt64(-1000), NewNegative(999)) {
		t.Fatal("expected equal: -1000 == -(999+1)")
	}
}

func TestNegative_FullRange(t *testing.T) {
	n := NewNegative(^uint64(0)) // raw = 2^64-1, representing -2^64
	if _, ok := n.Int64(); ok {
		t.Fatal("expected Int64 to report unrepresentable")
	}
	if n.Raw() != ^uint64(0) {
		t.Fatalf("unexpected raw: %d", n.Raw())
	}
	if got, want := n.String(), "-18446744073709551616"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestEqual_FloatsDistinguishWidthAndSign(t *testing.T) {
	if Equal(Float32(0), Float64(0)) {
		t.Fatal("different widths must not compare equal")
	}
	posZero := Float64(0)
	negZero := Float64(negativeZero())
	if Equal(posZero, negZero) {
		t.Fatal("+0 and -0 must be distinct")
	}
}

func negativeZero() float64 {
	var f float64
	return -f
}

func TestEqual_NaNPayloadDistinct(t *testing.T) {
	a := Float64(math.Float64frombits(0x7ff8000000000001))
	b := Float64(math.Float64frombits(0x7ff8000000000002))
	if Equal(a, b) {
		t.Fatal("distinct NaN payloads must not compare equal")
	}
	if !Equal(a, Float64(math.Float64frombits(0x7ff8000000000001))) {
		t.Fatal("identical NaN payloads must compare equal")
	}
}

func TestEqual_Array(t *testing.T) {
	a := Array{Unsigned(1), Unsigned(2), TextString("x")}
	b := Array{Unsigned(1), Unsigned(2), TextString("x")}
	c := Array{Unsigned(1), Unsigned(2), TextString("y")}
	if !Equal(a, b) {
		t.Fatal("expected equal arrays")
	}
	if Equal(a, c) {
		t.Fatal("expected unequal arrays")
	}
}

func TestEqual_Tagged(t *testing.T) {
	a := NewTagged(1, Float64(1363896240.5))
	b := NewTagged(1, Float64(1363896240.5))
	c := NewTagged(2, Float64(1363896240.5))
	if !Equal(a, b) || Equal(a, c) {
		t.Fatal("tagged equality must consider both number and content")
	}
}

func TestString_Rendering(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Unsigned(23), "23"},
		{NewNegativeInt64(-1000), "-1000"},
		{ByteString{0x01, 0x02, 0xff}, "h'0102ff'"},
		{TextString("IETF"), `"IETF"`},
		{Array{Unsigned(1), Unsigned(2)}, "[1, 2]"},
		{NewTagged(1, Unsigned(0)), "1(0)"},
		{Simple(SimpleFalse), "false"},
		{Simple(SimpleTrue), "true"},
		{Simple(SimpleNull), "null"},
		{Simple(SimpleUndefined), "undefined"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestIsBreak(t *testing.T) {
	if !IsBreak(Break) {
		t.Fatal("Break must report IsBreak")
	}
	if IsBreak(Unsigned(0)) {
		t.Fatal("ordinary value must not report IsBreak")
	}
}

func TestMapValue_Equal(t *testing.T) {
	a := NewMapValue()
	a.Insert(NewKey(TextString("a")), Unsigned(1), false)
	a.Insert(NewKey(TextString("b")), Unsigned(2), false)

	b := NewMapValue()
	b.Insert(NewKey(TextString("b")), Unsigned(2), false)
	b.Insert(NewKey(TextString("a")), Unsigned(1), false)

	if !Equal(a, b) {
		t.Fatal("map equality must be order-independent")
	}
	if diff := cmp.Diff(a.String(), `{"a": 1, "b": 2}`); diff != "" {
		t.Fatalf("unexpected rendering (-got +want):\n%s", diff)
	}
}
