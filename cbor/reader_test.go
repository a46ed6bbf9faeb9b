package cbor

import (
	"strings"
	"testing"

	"github.com/cbordec/cbor/value"
)

func decodeHex(t *testing.T, opts DecOptions, b ...byte) (value.Value, int, error) {
	t.Helper()
	d := NewDecoder(opts)
	return d.Decode(b)
}

func TestDecode_Scenarios(t *testing.T) {
	lenient := DecOptions{MaxDepth: DefaultMaxDepth, MaxIndefiniteChunks: DefaultMaxIndefiniteChunks}

	t.Run("direct unsigned 23", func(t *testing.T) {
		v, n, err := decodeHex(t, lenient, 0x17)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 1 || !value.Equal(v, value.Unsigned(23)) {
			t.Fatalf("got %v (%d bytes), want Unsigned(23)", v, n)
		}
	})

	t.Run("follow-byte unsigned 24", func(t *testing.T) {
		v, n, err := decodeHex(t, lenient, 0x18, 0x18)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 2 || !value.Equal(v, value.Unsigned(24)) {
			t.Fatalf("got %v (%d bytes), want Unsigned(24)", v, n)
		}
	})

	t.Run("non-canonical follow byte rejected in strict mode", func(t *testing.T) {
		strict := lenient
		strict.StrictMode = true
		_, _, err := decodeHex(t, strict, 0x18, 0x17)
		assertKind(t, err, ErrInvalidFormat)
	})

	t.Run("big unsigned", func(t *testing.T) {
		v, n, err := decodeHex(t, lenient, 0x1B, 0x00, 0x00, 0x00, 0xE8, 0xD4, 0xA5, 0x10, 0x00)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 9 || !value.Equal(v, value.Unsigned(1_000_000_000_000)) {
			t.Fatalf("got %v, want Unsigned(1_000_000_000_000)", v)
		}
	})

	t.Run("negative -1000", func(t *testing.T) {
		v, _, err := decodeHex(t, lenient, 0x39, 0x03, 0xE7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n, ok := v.(value.Negative)
		if !ok {
			t.Fatalf("got %T, want Negative", v)
		}
		got, ok := n.Int64()
		if !ok || got != -1000 {
			t.Fatalf("got %v, want -1000", got)
		}
	})

	t.Run("text string IETF", func(t *testing.T) {
		v, n, err := decodeHex(t, lenient, 0x64, 0x49, 0x45, 0x54, 0x46)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 5 || !value.Equal(v, value.TextString("IETF")) {
			t.Fatalf("got %v, want TextString(IETF)", v)
		}
	})

	t.Run("indefinite array", func(t *testing.T) {
		v, n, err := decodeHex(t, lenient, 0x9F, 0x01, 0x02, 0x03, 0xFF)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := value.Array{value.Unsigned(1), value.Unsigned(2), value.Unsigned(3)}
		if n != 5 || !value.Equal(v, want) {
			t.Fatalf("got %v, want %v", v, want)
		}
	})

	t.Run("indefinite map", func(t *testing.T) {
		v, n, err := decodeHex(t, lenient, 0xBF, 0x61, 0x61, 0x01, 0x61, 0x62, 0x02, 0xFF)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		m, ok := v.(*value.MapValue)
		if !ok {
			t.Fatalf("got %T, want *MapValue", v)
		}
		if n != 8 || m.Len() != 2 {
			t.Fatalf("got len %d (%d bytes), want 2 pairs (8 bytes)", m.Len(), n)
		}
		a, ok := m.GetString("a")
		if !ok || !value.Equal(a, value.Unsigned(1)) {
			t.Fatalf("key a = %v, want 1", a)
		}
		b, ok := m.GetString("b")
		if !ok || !value.Equal(b, value.Unsigned(2)) {
			t.Fatalf("key b = %v, want 2", b)
		}
	})

	t.Run("tagged epoch float64", func(t *testing.T) {
		v, n, err := decodeHex(t, lenient, 0xC1, 0xFB, 0x41, 0xD4, 0x52, 0xD9, 0xEC, 0x20, 0x00, 0x00)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tag, ok := v.(value.Tagged)
		if !ok || tag.Number != 1 {
			t.Fatalf("got %v, want Tagged(1, ...)", v)
		}
		f, ok := tag.Content.(value.Float64)
		if !ok || float64(f) != 1363896240.5 {
			t.Fatalf("got content %v, want Float64(1363896240.5)", tag.Content)
		}
		if n != 10 {
			t.Fatalf("consumed %d bytes, want 10", n)
		}
	})

	t.Run("tag 37 wrong uuid length strict", func(t *testing.T) {
		strict := lenient
		strict.StrictMode = true
		_, _, err := decodeHex(t, strict, 0xD8, 0x25, 0x43, 0x01, 0x02, 0x03)
		assertKind(t, err, ErrInvalidFormat)
	})

	t.Run("600 nested arrays exceed depth", func(t *testing.T) {
		b := make([]byte, 600)
		for i := range b {
			b[i] = header(MajorArray, 1)
		}
		// terminate the innermost array as a zero-length array instead of
		// letting decode run off the end of the buffer.
		b[len(b)-1] = header(MajorArray, 0)
		_, _, err := decodeHex(t, lenient, b...)
		assertKind(t, err, ErrDepthLimitExceeded)
	})

	t.Run("invalid utf8 text string", func(t *testing.T) {
		_, _, err := decodeHex(t, lenient, 0x62, 0xFF, 0xFE)
		assertKind(t, err, ErrIncorrectUTF8String)
	})
}

func TestDecode_DepthBoundary(t *testing.T) {
	opts := DecOptions{MaxDepth: 3, MaxIndefiniteChunks: DefaultMaxIndefiniteChunks}

	build := func(depth int) []byte {
		b := make([]byte, depth+1)
		for i := 0; i < depth; i++ {
			b[i] = header(MajorArray, 1)
		}
		b[depth] = header(MajorArray, 0)
		return b
	}

	t.Run("exactly max depth succeeds", func(t *testing.T) {
		_, _, err := decodeHex(t, opts, build(opts.MaxDepth-1)...)
		if err != nil {
			t.Fatalf("unexpected error at boundary: %v", err)
		}
	})

	t.Run("one past max depth fails", func(t *testing.T) {
		_, _, err := decodeHex(t, opts, build(opts.MaxDepth)...)
		assertKind(t, err, ErrDepthLimitExceeded)
	})
}

func TestDecode_DuplicateMapKey(t *testing.T) {
	// {"a": 1, "a": 2}
	input := []byte{0xA2, 0x61, 0x61, 0x01, 0x61, 0x61, 0x02}

	t.Run("rejected by default", func(t *testing.T) {
		opts := DecOptions{MaxDepth: DefaultMaxDepth, MaxIndefiniteChunks: DefaultMaxIndefiniteChunks}
		_, _, err := decodeHex(t, opts, input...)
		assertKind(t, err, ErrDuplicateMapKey)
	})

	t.Run("later value wins when allowed", func(t *testing.T) {
		opts := DecOptions{AllowDuplicateMapKeys: true, MaxDepth: DefaultMaxDepth, MaxIndefiniteChunks: DefaultMaxIndefiniteChunks}
		v, _, err := decodeHex(t, opts, input...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		m := v.(*value.MapValue)
		got, _ := m.GetString("a")
		if !value.Equal(got, value.Unsigned(2)) {
			t.Fatalf("got %v, want 2", got)
		}
	})
}

func TestDecode_RootBreakIsInvalid(t *testing.T) {
	opts := DecOptions{MaxDepth: DefaultMaxDepth, MaxIndefiniteChunks: DefaultMaxIndefiniteChunks}
	_, _, err := decodeHex(t, opts, 0xFF)
	assertKind(t, err, ErrInvalidIndefiniteLength)
}

func TestDecode_IndefiniteStringWrongChunkType(t *testing.T) {
	opts := DecOptions{MaxDepth: DefaultMaxDepth, MaxIndefiniteChunks: DefaultMaxIndefiniteChunks}
	// indefinite text string containing a byte string chunk
	_, _, err := decodeHex(t, opts, 0x7F, 0x41, 0x61, 0xFF)
	assertKind(t, err, ErrWrongTypeInsideIndefiniteLength)
}

func TestDecode_UnregisteredTagStrict(t *testing.T) {
	opts := DecOptions{StrictMode: true, MaxDepth: DefaultMaxDepth, MaxIndefiniteChunks: DefaultMaxIndefiniteChunks}
	// tag 1000000 (unregistered), wrapping Unsigned(0)
	_, _, err := decodeHex(t, opts, 0xDA, 0x00, 0x0F, 0x42, 0x40, 0x00)
	assertKind(t, err, ErrTagNotSupported)
}

func assertKind(t *testing.T, err error, want ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %s, got nil", want)
	}
	ce, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *cbor.Error, got %T (%v)", err, err)
	}
	if ce.Kind != want {
		t.Fatalf("expected kind %s, got %s: %s", want, ce.Kind, strings.TrimSpace(ce.Error()))
	}
}
