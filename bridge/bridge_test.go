package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cbordec/cbor/datetime"
	"github.com/cbordec/cbor/value"
)

type widget struct {
	Name    string   `cbor:"name"`
	Count   int      `cbor:"count,omitempty"`
	Tags    []string `cbor:"tags,omitempty"`
	private string
}

func TestMarshalUnmarshal_StructRoundTrip(t *testing.T) {
	in := widget{Name: "bolt", Count: 3, Tags: []string{"a", "b"}, private: "hidden"}

	tree, err := Marshal(in, EncOptions{})
	require.NoError(t, err)

	var out widget
	require.NoError(t, Unmarshal(tree, &out, DecOptions{}))

	require.Equal(t, in.Name, out.Name)
	require.Equal(t, in.Count, out.Count)
	require.Equal(t, in.Tags, out.Tags)
	require.Empty(t, out.private, "unexported fields must never round-trip")
}

func TestMarshal_OmitEmptySkipsZeroValue(t *testing.T) {
	tree, err := Marshal(widget{Name: "x"}, EncOptions{})
	require.NoError(t, err)

	m, ok := tree.(*value.MapValue)
	require.True(t, ok)
	_, present := m.GetString("count")
	require.False(t, present, "omitempty field with zero value must be absent")
	_, present = m.GetString("tags")
	require.False(t, present)
}

func TestMarshal_ToArrayStruct(t *testing.T) {
	type positional struct {
		_ struct{} `cbor:",toarray"`
		X int
		Y int
	}
	tree, err := Marshal(positional{X: 1, Y: 2}, EncOptions{})
	require.NoError(t, err)

	arr, ok := tree.(value.Array)
	require.True(t, ok)
	require.Equal(t, value.Array{value.Unsigned(1), value.Unsigned(2)}, arr)
}

func TestMarshal_KeyAsInt(t *testing.T) {
	type intKeyed struct {
		A int `cbor:"1,keyasint"`
		B int `cbor:"2,keyasint"`
	}
	tree, err := Marshal(intKeyed{A: 10, B: 20}, EncOptions{})
	require.NoError(t, err)

	m := tree.(*value.MapValue)
	v, ok := m.Get(value.NewKey(value.Unsigned(1)))
	require.True(t, ok)
	require.Equal(t, value.Unsigned(10), v)
}

func TestMarshalUnmarshal_EpochTime(t *testing.T) {
	in := time.Date(2013, 3, 21, 20, 4, 0, 0, time.UTC)
	tree, err := Marshal(in, EncOptions{})
	require.NoError(t, err)
	require.Equal(t, value.Unsigned(1363896240), tree)

	var out time.Time
	require.NoError(t, Unmarshal(tree, &out, DecOptions{}))
	require.True(t, in.Equal(out))
}

func TestMarshalUnmarshal_TaggedTime(t *testing.T) {
	in := time.Date(2013, 3, 21, 20, 4, 0, 0, time.UTC)
	opts := EncOptions{DateCodec: datetime.Codec{Strategy: datetime.Tagged}}
	tree, err := Marshal(in, opts)
	require.NoError(t, err)

	tagged, ok := tree.(value.Tagged)
	require.True(t, ok)
	require.EqualValues(t, 1, tagged.Number)

	var out time.Time
	decOpts := DecOptions{DateCodec: datetime.Codec{Strategy: datetime.Tagged}}
	require.NoError(t, Unmarshal(tree, &out, decOpts))
	require.True(t, in.Equal(out))
}

func TestMarshal_DataBase64String(t *testing.T) {
	opts := EncOptions{DataCodec: DataCodec{Strategy: DataBase64String}}
	tree, err := Marshal([]byte("hi"), opts)
	require.NoError(t, err)
	require.Equal(t, value.TextString("aGk="), tree)

	var out []byte
	decOpts := DecOptions{DataCodec: DataCodec{Strategy: DataBase64String}}
	require.NoError(t, Unmarshal(tree, &out, decOpts))
	require.Equal(t, []byte("hi"), out)
}

func TestMarshal_KeyStrategySnakeCase(t *testing.T) {
	type camel struct {
		UserName string `cbor:"UserName"`
	}
	opts := EncOptions{KeyStrategy: ConvertFromSnakeCase}
	tree, err := Marshal(camel{UserName: "alice"}, opts)
	require.NoError(t, err)

	m := tree.(*value.MapValue)
	_, present := m.GetString("user_name")
	require.True(t, present)
}

func TestUnmarshal_NilAndUndefined(t *testing.T) {
	type holder struct {
		S *string
	}
	h := holder{S: new(string)}
	*h.S = "should be cleared"

	require.NoError(t, Unmarshal(value.Simple(value.SimpleNull), &h.S, DecOptions{}))
	require.Nil(t, h.S)

	h.S = new(string)
	*h.S = "should be cleared"
	require.NoError(t, Unmarshal(value.Simple(value.SimpleUndefined), &h.S, DecOptions{}))
	require.Nil(t, h.S)
}

func TestUnmarshal_TypeMismatchReportsCodingPath(t *testing.T) {
	type inner struct {
		N int
	}
	type outer struct {
		Inner inner
	}
	tree := value.NewMapValue()
	bad := value.NewMapValue()
	bad.Insert(value.NewKey(value.TextString("N")), value.TextString("not a number"), true)
	tree.Insert(value.NewKey(value.TextString("Inner")), bad, true)

	var out outer
	err := Unmarshal(tree, &out, DecOptions{})
	require.Error(t, err)

	be, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, ErrTypeMismatch, be.Kind)
	require.Contains(t, be.CodingPath, "Inner")
	require.Contains(t, be.CodingPath, "N")
}

func TestUnmarshal_NonConformingFloatString(t *testing.T) {
	type holder struct {
		F float64
	}
	m := value.NewMapValue()
	m.Insert(value.NewKey(value.TextString("F")), value.TextString("NaN"), true)

	var out holder
	opts := DecOptions{FloatStrategy: ConvertNonConformingFloatFromString}
	require.NoError(t, Unmarshal(m, &out, opts))
	require.True(t, out.F != out.F, "expected NaN")

	require.Error(t, Unmarshal(m, &out, DecOptions{}), "default strategy must reject a text string for a float field")
}

func TestNoSerde_RejectsMarshal(t *testing.T) {
	type internalOnly struct {
		NoSerde
		Secret string
	}
	_, err := Marshal(internalOnly{Secret: "x"}, EncOptions{})
	require.Error(t, err)
}

func TestIsNoSerde(t *testing.T) {
	type opted struct{ NoSerde }
	require.True(t, IsNoSerde(opted{}))
	require.False(t, IsNoSerde(widget{}))
}
