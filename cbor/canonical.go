package cbor

import (
	"math"

	"github.com/cbordec/cbor/codeclog"
	"github.com/x448/float16"
)

// canonicalNaN16, canonicalPosInf16, canonicalNegInf16 are the fixed
// half-precision bit patterns canonical mode emits for any NaN or infinite
// input, regardless of the input's original width or (for NaN) payload.
const (
	canonicalNaN16    = 0x7E00
	canonicalPosInf16 = 0x7C00
	canonicalNegInf16 = 0xFC00
)

// narrowFloat picks the canonical width for a finite float64 value: half
// precision if exactly representable, else single, else double.
//
// Returns the width in bytes (2, 4, or 8) and the bit pattern at that
// width, already widened back to uint64 for the caller's convenience.
func narrowFloat(f float64) (width int, bits uint64) {
	if bits16, ok := exactFloat16(f); ok {
		return 2, uint64(bits16)
	}
	if bits32, ok := exactFloat32(f); ok {
		return 4, uint64(bits32)
	}
	return 8, math.Float64bits(f)
}

func exactFloat16(f float64) (uint16, bool) {
	f32 := float32(f)
	if float64(f32) != f {
		return 0, false
	}
	if float16.PrecisionFromfloat32(f32) != float16.PrecisionExact {
		return 0, false
	}
	h := float16.Fromfloat32(f32)
	// Round trip through the half value to confirm no information (notably
	// the sign of zero) was lost.
	if math.Float64bits(float64(h.Float32())) != math.Float64bits(f) {
		return 0, false
	}
	return uint16(h), true
}

func exactFloat32(f float64) (uint32, bool) {
	f32 := float32(f)
	if math.Float64bits(float64(f32)) != math.Float64bits(f) {
		return 0, false
	}
	return math.Float32bits(f32), true
}

// emitCanonicalFloat encodes f (already widened to float64 from whatever
// source width it started at) using the canonical float rules: fixed
// half-precision encodings for NaN/Infinity, otherwise the narrowest
// lossless width. originalWidth is the width in bytes the caller decoded or
// was given (2, 4, or 8); when the emitted width is narrower, logger is told
// about the narrowing so a caller can audit lossy-looking width changes that
// are in fact bit-exact.
func emitCanonicalFloat(w *Writer, f float64, originalWidth int, logger codeclog.Logger) []byte {
	switch {
	case math.IsNaN(f):
		if originalWidth > 2 {
			logger.Logf(codeclog.Narrow, "float%d NaN narrowed to canonical float16", originalWidth*8)
		}
		return w.EmitFloat16(canonicalNaN16)
	case math.IsInf(f, 1), math.IsInf(f, -1):
		if originalWidth > 2 {
			logger.Logf(codeclog.Narrow, "float%d infinity narrowed to canonical float16", originalWidth*8)
		}
		if math.IsInf(f, 1) {
			return w.EmitFloat16(canonicalPosInf16)
		}
		return w.EmitFloat16(canonicalNegInf16)
	}

	width, bits := narrowFloat(f)
	if width < originalWidth {
		logger.Logf(codeclog.Narrow, "float%d value narrowed to canonical float%d", originalWidth*8, width*8)
	}
	switch width {
	case 2:
		return w.EmitFloat16(uint16(bits))
	case 4:
		return w.EmitFloat32(math.Float32frombits(uint32(bits)))
	default:
		return w.EmitFloat64(math.Float64frombits(bits))
	}
}
