// Package tagreg holds the static IANA CBOR tag registry and the content
// validation rules that go with it. The registry is immutable after
// initialization and safe to share across goroutines without coordination.
package tagreg

import (
	"sync"

	"github.com/cbordec/cbor/value"
)

// Requirement describes the constraint a tag's content item must satisfy.
type Requirement uint8

// Enumeration of the content-item shape constraints a tag definition can
// impose.
const (
	Any Requirement = iota
	RequireUnsigned
	RequireInteger // Unsigned | Negative
	RequireNumeric // Unsigned | Negative | Float16 | Float32 | Float64
	RequireByteString
	RequireTextString
	RequireArray
	RequireMap
	RequireTagged // nested tag of a specific number
	Invalid       // tag is explicitly reserved; always fails
)

// Definition describes one registered tag.
type Definition struct {
	Number      uint64
	Name        string
	Description string
	Requirement Requirement

	// ByteStringLength, when non-negative, is the exact length required of
	// a RequireByteString content item (e.g. tag 37's 16-byte UUID).
	ByteStringLength int

	// ArrayElements, when non-negative, is the exact element count required
	// of a RequireArray content item.
	ArrayElements int

	// NestedTag is the tag number required of a RequireTagged content item.
	NestedTag uint64
}

var (
	buildOnce sync.Once
	registry  map[uint64]Definition
)

// Lookup returns the registered definition for tag, if any.
func Lookup(tag uint64) (Definition, bool) {
	buildOnce.Do(buildRegistry)
	d, ok := registry[tag]
	return d, ok
}

// All returns every registered definition, in ascending tag order, for
// diagnostics and test enumeration.
func All() []Definition {
	buildOnce.Do(buildRegistry)
	out := make([]Definition, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	// simple insertion sort: the table is small (~100 entries) and this
	// keeps the package free of a sort.Slice closure allocation on a path
	// that only diagnostics/tests exercise.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Number < out[j-1].Number; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func def(number uint64, name, desc string, req Requirement) Definition {
	return Definition{Number: number, Name: name, Description: desc, Requirement: req, ArrayElements: -1, ByteStringLength: -1}
}

func buildRegistry() {
	registry = make(map[uint64]Definition, 128)
	add := func(d Definition) { registry[d.Number] = d }

	// 0-5: date/time and bignum family
	add(def(0, "standard-datetime", "RFC 3339 date/time string", RequireTextString))
	add(def(1, "epoch-datetime", "Epoch-based date/time", RequireNumeric))
	add(def(2, "positive-bignum", "Positive bignum", RequireByteString))
	add(def(3, "negative-bignum", "Negative bignum", RequireByteString))
	add(withReq(def(4, "decimal-fraction", "Decimal fraction", RequireArray), 2))
	add(withReq(def(5, "bigfloat", "Bigfloat", RequireArray), 2))

	// 16-19: COSE structural recognition only (tag 18/19 overlap with 16/17
	// numbering in some COSE drafts; register the stable RFC 8949 set)
	add(def(16, "cose-encrypt0", "COSE single-recipient encrypted", Any))
	add(def(17, "cose-mac0", "COSE MAC w/o recipients", Any))
	add(def(18, "cose-sign1", "COSE single-signer signed", Any))
	add(def(19, "cose-unassigned", "Reserved for COSE", Any))

	// 21-24: expected later encoding
	add(def(21, "expected-base64url", "Expected base64url encoding", Any))
	add(def(22, "expected-base64", "Expected base64 encoding", Any))
	add(def(23, "expected-base16", "Expected base16 encoding", Any))
	add(def(24, "encoded-cbor", "Encoded CBOR data item", RequireByteString))

	// 25-27: string reference / shareable constructs (structural, content unconstrained)
	add(def(25, "string-ref-namespace", "String reference namespace", Any))
	add(def(26, "serialized-perl-object", "Serialized language-specific object", RequireArray))
	add(def(27, "serialized-lang-object", "Serialized language-specific object", RequireArray))

	// 28-31, 37, 38: shared/reference structures
	add(def(28, "shareable", "Mark shared value", Any))
	add(def(29, "shared-reference", "Reference shared value", RequireUnsigned))
	add(withReq(def(30, "rational-number", "Rational number", RequireArray), 2))
	add(def(31, "absent-uri-component", "Absent URI component marker", Any))
	add(def(32, "uri", "URI", RequireTextString))
	add(def(33, "base64url", "base64url encoded text", RequireTextString))
	add(def(34, "base64", "base64 encoded text", RequireTextString))
	add(def(35, "regexp", "PCRE/ECMA262 regular expression", RequireTextString))
	add(def(36, "mime-message", "MIME message", RequireTextString))
	add(withByteLen(def(37, "uuid", "Binary UUID", RequireByteString), 16))
	add(withReq(def(38, "language-tagged-string", "Language-tagged string", RequireArray), 2))

	// 39-47: additional identifiers / typed arrays
	add(def(39, "identifier", "Identifier reference", Any))
	add(def(40, "multi-dim-array", "Multi-dimensional array", RequireArray))
	add(def(41, "homogeneous-array", "Homogeneous array", RequireArray))
	add(def(42, "content-identifier", "IPLD content identifier (CID)", RequireByteString))
	for n := uint64(43); n <= 47; n++ {
		add(def(n, "unassigned", "Unassigned", Any))
	}
	for n := uint64(64); n <= 87; n++ {
		add(def(n, "typed-array", "Typed numeric array", RequireByteString))
	}

	// 52-54: IP addresses / networks
	add(def(52, "network-address", "IP address or network", Any))
	add(def(53, "embedded-json", "Embedded JSON object", RequireByteString))
	add(def(54, "hint-zoneinfo", "Hint of IANA time zone", Any))
	add(def(260, "ip-address", "IPv4 or IPv6 address", RequireByteString))

	// 61: CBOR Web Token
	add(def(61, "cwt", "CBOR Web Token", Any))

	// 96-98: COSE full message structures
	add(def(96, "cose-encrypt", "COSE multi-recipient encrypted", Any))
	add(def(97, "cose-mac", "COSE MACed w/ recipients", Any))
	add(def(98, "cose-sign", "COSE signed with one or more signers", Any))

	// 100-112: date and extended-value family
	add(def(100, "epoch-date", "Number of days since epoch date", RequireInteger))
	add(def(101, "generic-extended-time", "Extended time", Any))
	add(def(102, "network-hex", "Hex encoded network address", Any))
	add(def(103, "time-zone-info", "Time zone info", Any))
	for n := uint64(104); n <= 109; n++ {
		add(def(n, "extended-identifier", "Reserved extended identifier", Any))
	}
	add(def(110, "geo-coordinates", "Geographic coordinates", RequireArray))
	add(def(111, "object-id", "Binary object identifier", RequireByteString))
	add(def(112, "binary-mime", "Binary MIME message", RequireByteString))

	// 120-121, 200-201: reserved for application extension
	add(def(120, "application-specific-1", "Reserved for application use", Any))
	add(def(121, "application-specific-2", "Reserved for application use", Any))
	add(def(200, "extended-format-1", "Reserved for extended format", Any))
	add(def(201, "extended-format-2", "Reserved for extended format", Any))

	// 256-263, 266-267: string enum / stable map family
	add(def(256, "mergeable-map", "Mergeable map (deterministic merge)", RequireMap))
	add(def(257, "byte-string-uri", "Byte-string URI", RequireByteString))
	for n := uint64(258); n <= 263; n++ {
		add(def(n, "set-or-keyed-structure", "Mathematical finite set / keyed structure", Any))
	}
	add(def(266, "typed-map-1", "Typed map variant 1", RequireMap))
	add(def(267, "typed-map-2", "Typed map variant 2", RequireMap))

	// 1001-1003: extended map structures
	add(def(1001, "extended-map-1", "Extended map structure", RequireMap))
	add(def(1002, "extended-map-2", "Extended map structure", RequireMap))
	add(def(1003, "extended-map-3", "Extended map structure", RequireMap))

	// 40000-40001, 55799, 15309736: self-describe / sentinel family
	add(def(40000, "application-sentinel-1", "Application-defined sentinel", Any))
	add(def(40001, "application-sentinel-2", "Application-defined sentinel", Any))
	add(def(55799, "self-describe-cbor", "Self-describe CBOR (0xd9d9f7 magic)", Any))
	add(def(15309736, "self-describe-edn", "Self-describe CBOR diagnostic notation hint", Any))

	// Explicit reserved/invalid sentinels
	add(def(65535, "reserved-sentinel-16", "Reserved, always invalid", Invalid))
	add(def(1<<32-1, "reserved-sentinel-32", "Reserved, always invalid", Invalid))
	add(def(^uint64(0), "reserved-sentinel-64", "Reserved, always invalid", Invalid))
}

func withReq(d Definition, elements int) Definition {
	d.ArrayElements = elements
	return d
}

func withByteLen(d Definition, n int) Definition {
	d.ByteStringLength = n
	return d
}

// satisfiesShape reports whether v's kind matches req, ignoring the
// per-tag semantic checks layered on top in validate.go.
func satisfiesShape(req Requirement, v value.Value) bool {
	switch req {
	case Any:
		return true
	case RequireUnsigned:
		return v.Kind() == value.KindUnsigned
	case RequireInteger:
		return v.Kind() == value.KindUnsigned || v.Kind() == value.KindNegative
	case RequireNumeric:
		switch v.Kind() {
		case value.KindUnsigned, value.KindNegative, value.KindFloat16, value.KindFloat32, value.KindFloat64:
			return true
		}
		return false
	case RequireByteString:
		return v.Kind() == value.KindByteString
	case RequireTextString:
		return v.Kind() == value.KindTextString
	case RequireArray:
		return v.Kind() == value.KindArray
	case RequireMap:
		return v.Kind() == value.KindMap
	case RequireTagged:
		return v.Kind() == value.KindTagged
	case Invalid:
		return false
	default:
		return false
	}
}
