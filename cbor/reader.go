package cbor

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/cbordec/cbor/codeclog"
	"github.com/cbordec/cbor/tagreg"
	"github.com/cbordec/cbor/value"
)

// Decoder turns a byte slice into a value.Value tree. The zero Decoder is
// not ready to use; construct one with NewDecoder. A Decoder instance is
// not safe for concurrent use, but independent Decoders need no
// coordination.
type Decoder struct {
	opts  DecOptions
	depth int
}

// NewDecoder returns a Decoder configured by opts.
func NewDecoder(opts DecOptions) *Decoder {
	return &Decoder{opts: opts}
}

// Decode decodes a single data item from the front of p, returning the
// item and the number of bytes consumed. A root-level break marker is
// rejected as InvalidIndefiniteLength rather than returned as a Value.
func (d *Decoder) Decode(p []byte) (value.Value, int, error) {
	d.depth = 0
	v, n, err := d.decodeItem(p)
	if err != nil {
		return nil, 0, err
	}
	if value.IsBreak(v) {
		return nil, 0, newErr(ErrInvalidIndefiniteLength, "unexpected break marker at top level")
	}
	return v, n, nil
}

func (d *Decoder) decodeItem(p []byte) (value.Value, int, error) {
	if len(p) == 0 {
		return nil, 0, newErr(ErrUnexpectedEnd, "expected a data item, found end of input")
	}

	d.depth++
	if d.depth > d.opts.maxDepth() {
		d.depth--
		return nil, 0, newErr(ErrDepthLimitExceeded, fmt.Sprintf("nesting exceeds max depth %d", d.opts.maxDepth()))
	}
	if d.depth == d.opts.maxDepth() {
		d.opts.logger().Logf(codeclog.Depth, "nesting reached max depth %d", d.opts.maxDepth())
	}
	defer func() { d.depth-- }()

	major := majorOf(p[0])
	info := infoOf(p[0])

	switch major {
	case MajorUnsigned:
		n, off, err := d.readLength(info, p)
		if err != nil {
			return nil, 0, err
		}
		return value.Unsigned(n), off, nil

	case MajorNegative:
		raw, off, err := d.readLength(info, p)
		if err != nil {
			return nil, 0, err
		}
		return value.NewNegative(raw), off, nil

	case MajorByteString:
		b, off, err := d.readByteString(p)
		if err != nil {
			return nil, 0, err
		}
		return value.ByteString(b), off, nil

	case MajorTextString:
		b, off, err := d.readTextString(p)
		if err != nil {
			return nil, 0, err
		}
		if !utf8.Valid(b) {
			return nil, 0, newErr(ErrIncorrectUTF8String, "text string is not valid UTF-8")
		}
		return value.TextString(b), off, nil

	case MajorArray:
		return d.decodeArray(p, info)

	case MajorMap:
		return d.decodeMap(p, info)

	case MajorTag:
		return d.decodeTag(p, info)

	default: // Major7
		return d.decodeMajor7(p, info)
	}
}

// readLength decodes the argument that follows a major-type header byte.
// A non-canonical form (a wider encoding than the value needs) is rejected
// when opts.StrictMode is set, and logged via opts.Logger otherwise.
// Returns the decoded value and the number of header+argument bytes
// consumed.
func (d *Decoder) readLength(info byte, p []byte) (uint64, int, error) {
	if info <= infoDirectMax {
		return uint64(info), 1, nil
	}

	var width int
	switch info {
	case infoUint8:
		width = 1
	case infoUint16:
		width = 2
	case infoUint32:
		width = 4
	case infoUint64:
		width = 8
	default:
		return 0, 0, newErr(ErrInvalidFormat, fmt.Sprintf("invalid additional info %d", info))
	}

	if len(p) < 1+width {
		return 0, 0, newErr(ErrUnexpectedEnd, "length argument truncated")
	}

	var n uint64
	switch width {
	case 1:
		n = uint64(p[1])
	case 2:
		n = uint64(binary.BigEndian.Uint16(p[1:]))
	case 4:
		n = uint64(binary.BigEndian.Uint32(p[1:]))
	case 8:
		n = binary.BigEndian.Uint64(p[1:])
	}

	if nonCanonical(info, n) {
		if d.opts.StrictMode {
			return 0, 0, newErr(ErrInvalidFormat, fmt.Sprintf("non-canonical length encoding: form %d used for value %d", info, n))
		}
		d.opts.logger().Logf(codeclog.Strict, "non-canonical length encoding accepted: form %d used for value %d", info, n)
	}

	return n, 1 + width, nil
}

// nonCanonical reports whether info/n is a length encoding a shorter form
// would have sufficed for.
func nonCanonical(info byte, n uint64) bool {
	switch info {
	case infoUint8:
		return n < 24
	case infoUint16:
		return n <= 0xFF
	case infoUint32:
		return n <= 0xFFFF
	case infoUint64:
		return n <= 0xFFFFFFFF
	}
	return false
}

func (d *Decoder) readByteString(p []byte) ([]byte, int, error) {
	return d.readStringish(p, MajorByteString)
}

func (d *Decoder) readTextString(p []byte) ([]byte, int, error) {
	return d.readStringish(p, MajorTextString)
}

// readStringish reads either a definite-length string of the given major
// type, or its indefinite-length chunked form: a sequence of definite
// chunks of the same major type terminated by a break.
func (d *Decoder) readStringish(p []byte, major MajorType) ([]byte, int, error) {
	info := infoOf(p[0])
	if info != infoIndefinite {
		n, off, err := d.readLength(info, p)
		if err != nil {
			return nil, 0, err
		}
		rest := p[off:]
		if uint64(len(rest)) < n {
			return nil, 0, newErr(ErrUnexpectedEnd, "string length exceeds remaining input")
		}
		return rest[:n], off + int(n), nil
	}

	// Indefinite: each chunk is a definite-length string of the same major
	// type; a break ends the sequence.
	off := 1
	chunks := 0
	var out []byte
	for {
		if off >= len(p) {
			return nil, 0, newErr(ErrUnexpectedEnd, "indefinite string truncated before break")
		}
		if p[off] == header(Major7, breakInfo) {
			return out, off + 1, nil
		}

		chunkMajor := majorOf(p[off])
		chunkInfo := infoOf(p[off])
		if chunkMajor != major {
			return nil, 0, newErr(ErrWrongTypeInsideIndefiniteLength, fmt.Sprintf("indefinite string chunk has major type %d, expected %d", chunkMajor, major))
		}
		if chunkInfo == infoIndefinite {
			return nil, 0, newErr(ErrWrongTypeInsideIndefiniteLength, "nested indefinite-length chunk")
		}

		chunks++
		if chunks > d.opts.maxIndefiniteChunks() {
			return nil, 0, newErr(ErrTooLongIndefiniteLength, fmt.Sprintf("indefinite string exceeds %d chunks", d.opts.maxIndefiniteChunks()))
		}

		chunkLen, chunkOff, err := d.readLength(chunkInfo, p[off:])
		if err != nil {
			return nil, 0, err
		}
		chunkStart := off + chunkOff
		chunkEnd := chunkStart + int(chunkLen)
		if chunkEnd < chunkStart || chunkEnd > len(p) {
			return nil, 0, newErr(ErrUnexpectedEnd, "indefinite string chunk exceeds remaining input")
		}
		chunkBytes := p[chunkStart:chunkEnd]
		if major == MajorTextString && !utf8.Valid(chunkBytes) {
			return nil, 0, newErr(ErrIncorrectUTF8String, "indefinite text string chunk is not valid UTF-8")
		}
		out = append(out, chunkBytes...)
		off = chunkEnd
	}
}

func (d *Decoder) decodeArray(p []byte, info byte) (value.Value, int, error) {
	if info == infoIndefinite {
		off := 1
		var arr value.Array
		for {
			if off >= len(p) {
				return nil, 0, newErr(ErrUnexpectedEnd, "indefinite array truncated before break")
			}
			item, n, err := d.decodeItem(p[off:])
			if err != nil {
				return nil, 0, err
			}
			if value.IsBreak(item) {
				return arr, off + n, nil
			}
			arr = append(arr, item)
			off += n
		}
	}

	count, off, err := d.readLength(info, p)
	if err != nil {
		return nil, 0, err
	}
	arr := make(value.Array, 0, capHint(count))
	for i := uint64(0); i < count; i++ {
		item, n, err := d.decodeItem(p[off:])
		if err != nil {
			return nil, 0, err
		}
		if value.IsBreak(item) {
			return nil, 0, newErr(ErrInvalidIndefiniteLength, "break marker inside definite-length array")
		}
		arr = append(arr, item)
		off += n
	}
	return arr, off, nil
}

func (d *Decoder) decodeMap(p []byte, info byte) (value.Value, int, error) {
	m := value.NewMapValue()

	if info == infoIndefinite {
		off := 1
		for {
			if off >= len(p) {
				return nil, 0, newErr(ErrUnexpectedEnd, "indefinite map truncated before break")
			}
			if p[off] == header(Major7, breakInfo) {
				return m, off + 1, nil
			}
			n, err := d.decodeMapPair(p[off:], m)
			if err != nil {
				return nil, 0, err
			}
			off += n
		}
	}

	count, off, err := d.readLength(info, p)
	if err != nil {
		return nil, 0, err
	}
	for i := uint64(0); i < count; i++ {
		n, err := d.decodeMapPair(p[off:], m)
		if err != nil {
			return nil, 0, err
		}
		off += n
	}
	return m, off, nil
}

func (d *Decoder) decodeMapPair(p []byte, m *value.MapValue) (int, error) {
	key, kn, err := d.decodeItem(p)
	if err != nil {
		return 0, err
	}
	if value.IsBreak(key) {
		return 0, newErr(ErrInvalidIndefiniteLength, "break marker in map key position inside definite-length map")
	}
	val, vn, err := d.decodeItem(p[kn:])
	if err != nil {
		return 0, err
	}
	if value.IsBreak(val) {
		return 0, newErr(ErrInvalidIndefiniteLength, "break marker in map value position")
	}

	k := value.NewKey(key)
	if _, alreadyPresent := m.Insert(k, val, d.opts.AllowDuplicateMapKeys); alreadyPresent {
		if !d.opts.AllowDuplicateMapKeys {
			return 0, newErr(ErrDuplicateMapKey, fmt.Sprintf("duplicate map key %s", key.String()))
		}
		d.opts.logger().Logf(codeclog.Dup, "duplicate map key %s overwritten (duplicates allowed)", key.String())
	}
	return kn + vn, nil
}

func (d *Decoder) decodeTag(p []byte, info byte) (value.Value, int, error) {
	tag, off, err := d.readLength(info, p)
	if err != nil {
		return nil, 0, err
	}
	child, n, err := d.decodeItem(p[off:])
	if err != nil {
		return nil, 0, err
	}
	if value.IsBreak(child) {
		return nil, 0, newErr(ErrInvalidIndefiniteLength, "break marker as tag content")
	}

	if err := tagreg.Validate(tag, child, d.opts.StrictMode, d.opts.logger()); err != nil {
		if ve, ok := err.(*tagreg.ValidationError); ok {
			if ve.Unregistered {
				return nil, 0, newTagErr(tag, ve.Error())
			}
			return nil, 0, wrapErr(ErrInvalidFormat, fmt.Sprintf("tag %d content validation failed", tag), ve)
		}
		return nil, 0, wrapErr(ErrInvalidFormat, fmt.Sprintf("tag %d content validation failed", tag), err)
	}

	return value.NewTagged(tag, child), off + n, nil
}

func (d *Decoder) decodeMajor7(p []byte, info byte) (value.Value, int, error) {
	switch info {
	case simpleFalse:
		return value.Simple(value.SimpleFalse), 1, nil
	case simpleTrue:
		return value.Simple(value.SimpleTrue), 1, nil
	case simpleNull:
		return value.Simple(value.SimpleNull), 1, nil
	case simpleUndefined:
		return value.Simple(value.SimpleUndefined), 1, nil

	case infoUint8: // info 24: simple value via follow byte
		if len(p) < 2 {
			return nil, 0, newErr(ErrUnexpectedEnd, "simple value follow byte truncated")
		}
		v := p[1]
		if d.opts.StrictMode && v <= infoDirectMax {
			return nil, 0, newErr(ErrInvalidFormat, fmt.Sprintf("non-canonical simple value encoding: follow byte used for value %d", v))
		}
		switch {
		case v < 20:
			return nil, 0, newErr(ErrInvalidFormat, fmt.Sprintf("unassigned simple value %d", v))
		case v >= 20 && v <= 23:
			return value.Simple(v), 2, nil
		case v >= 24 && v <= 31:
			return nil, 0, newErr(ErrInvalidFormat, fmt.Sprintf("reserved simple value %d", v))
		default:
			// 32..255: none are IANA-registered today, so none decode
			// successfully.
			return nil, 0, newErr(ErrInvalidFormat, fmt.Sprintf("unassigned simple value %d", v))
		}

	case float16Info:
		if len(p) < 3 {
			return nil, 0, newErr(ErrUnexpectedEnd, "float16 truncated")
		}
		bits := binary.BigEndian.Uint16(p[1:])
		return value.NewFloat16FromBits(bits), 3, nil

	case float32Info:
		if len(p) < 5 {
			return nil, 0, newErr(ErrUnexpectedEnd, "float32 truncated")
		}
		bits := binary.BigEndian.Uint32(p[1:])
		return value.Float32(math.Float32frombits(bits)), 5, nil

	case float64Info:
		if len(p) < 9 {
			return nil, 0, newErr(ErrUnexpectedEnd, "float64 truncated")
		}
		bits := binary.BigEndian.Uint64(p[1:])
		return value.Float64(math.Float64frombits(bits)), 9, nil

	case breakInfo:
		return value.Break, 1, nil

	default: // 0..19 (unassigned simple values) and 28..30 (reserved additional info)
		return nil, 0, newErr(ErrInvalidFormat, fmt.Sprintf("unassigned simple value %d", info))
	}
}

func capHint(n uint64) int {
	const cap = 4096
	if n > cap {
		return cap
	}
	return int(n)
}
