// Package uuidtag formats and generates the RFC 4122 text form used to
// exercise CBOR tag 37 (binary UUID).
package uuidtag

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// field describes one hyphen-delimited group of the canonical "8-4-4-4-12"
// UUID text layout: the byte range it covers in the raw 16-byte form, and
// the character range its hex digits occupy in the 36-byte text form.
// Format and Parse walk the same table in opposite directions, so the
// layout is defined once instead of twice.
type field struct{ rawLo, rawHi, txtLo, txtHi int }

var fields = [5]field{
	{0, 4, 0, 8},
	{4, 6, 9, 13},
	{6, 8, 14, 18},
	{8, 10, 19, 23},
	{10, 16, 24, 36},
}

var dashAt = [4]int{8, 13, 18, 23}

// Format returns the canonical "8-4-4-4-12" hex text representation of a
// 16-byte UUID, e.g. "82e42f16-b6cc-4d5b-95f5-d403c4befd3d". This is the
// representation tag 37's 16-byte content decodes to for display, and the
// form Parse accepts.
func Format(u [16]byte) string {
	var text [36]byte
	for _, f := range fields {
		hex.Encode(text[f.txtLo:f.txtHi], u[f.rawLo:f.rawHi])
	}
	for _, pos := range dashAt {
		text[pos] = '-'
	}
	return string(text[:])
}

// Parse reverses Format, rejecting any string not exactly 36 bytes in the
// expected dashed layout.
func Parse(s string) ([16]byte, error) {
	var out [16]byte
	if len(s) != 36 {
		return out, fmt.Errorf("uuidtag: %q is not a canonical UUID string", s)
	}
	for _, pos := range dashAt {
		if s[pos] != '-' {
			return out, fmt.Errorf("uuidtag: %q is not a canonical UUID string", s)
		}
	}
	for _, f := range fields {
		n, err := hex.Decode(out[f.rawLo:f.rawHi], []byte(s[f.txtLo:f.txtHi]))
		if err != nil || n != f.rawHi-f.rawLo {
			return [16]byte{}, fmt.Errorf("uuidtag: %q is not valid hex", s)
		}
	}
	return out, nil
}

// Generator produces version-4 (random) UUIDs, reading entropy from a
// caller-supplied io.Reader so tests can supply a deterministic source.
type Generator struct {
	src io.Reader
}

// NewGenerator returns a Generator reading entropy from src.
func NewGenerator(src io.Reader) *Generator { return &Generator{src: src} }

// New returns the crypto/rand-backed default Generator.
func New() *Generator { return &Generator{src: rand.Reader} }

// Next generates one version-4 UUID and returns its canonical text form.
func (g *Generator) Next() (string, error) {
	var b [16]byte
	if _, err := io.ReadFull(g.src, b[:]); err != nil {
		return "", fmt.Errorf("uuidtag: reading entropy: %w", err)
	}
	// RFC 4122 §4.4: set version (4) and variant (10) bits.
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return Format(b), nil
}
