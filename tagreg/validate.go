package tagreg

import (
	"fmt"
	"strings"

	"github.com/cbordec/cbor/codeclog"
	"github.com/cbordec/cbor/uuidtag"
	"github.com/cbordec/cbor/value"
)

// ValidationError is returned by Validate. Unregistered is set when the tag
// has no registry entry at all (only possible when strictMode was true, as
// Validate accepts unregistered tags unconditionally otherwise); callers
// use it to pick between the TagNotSupported and InvalidFormat error kinds.
type ValidationError struct {
	Tag          uint64
	Unregistered bool
	msg          string
}

func (e *ValidationError) Error() string { return e.msg }

// Validate checks a freshly-decoded Tagged value's content against the
// registry. strictMode controls whether an unregistered tag is rejected
// (strict) or passed through with no content check (lenient). logger, if
// non-nil, is told about a lenient accept so a caller can audit which
// unregistered tags a lenient decode let through.
func Validate(tag uint64, content value.Value, strictMode bool, logger codeclog.Logger) error {
	def, ok := Lookup(tag)
	if !ok {
		if strictMode {
			return &ValidationError{Tag: tag, Unregistered: true, msg: fmt.Sprintf("tag %d is not registered", tag)}
		}
		if logger != nil {
			logger.Logf(codeclog.Tag, "tag %d accepted with no registry entry (strict mode off)", tag)
		}
		return nil
	}

	if def.Requirement == Invalid {
		return &ValidationError{Tag: tag, msg: fmt.Sprintf("tag %d (%s) is explicitly reserved and always invalid", tag, def.Name)}
	}

	if !satisfiesShape(def.Requirement, content) {
		return &ValidationError{Tag: tag, msg: fmt.Sprintf("tag %d (%s) requires content kind %s, got %s", tag, def.Name, shapeName(def.Requirement), content.Kind())}
	}

	if def.ArrayElements >= 0 {
		arr := content.(value.Array)
		if len(arr) != def.ArrayElements {
			return &ValidationError{Tag: tag, msg: fmt.Sprintf("tag %d (%s) requires an array of exactly %d elements, got %d", tag, def.Name, def.ArrayElements, len(arr))}
		}
	}

	if def.ByteStringLength >= 0 {
		bs := content.(value.ByteString)
		if len(bs) != def.ByteStringLength {
			return &ValidationError{Tag: tag, msg: fmt.Sprintf("tag %d (%s) requires a byte string of exactly %d bytes, got %d", tag, def.Name, def.ByteStringLength, len(bs))}
		}
	}

	if err := semanticCheck(tag, def, content); err != nil {
		return &ValidationError{Tag: tag, msg: err.Error()}
	}
	return nil
}

// semanticCheck applies additional per-tag rules beyond the generic
// DataItemRequirement shape check.
func semanticCheck(tag uint64, def Definition, content value.Value) error {
	switch tag {
	case 0:
		s := string(content.(value.TextString))
		if !strings.ContainsAny(s, "Tt") {
			return fmt.Errorf("tag 0 (%s) text must contain a date/time designator ('T' or 't')", def.Name)
		}
	case 4, 5:
		arr := content.(value.Array)
		if !isIntegerKind(arr[0]) {
			return fmt.Errorf("tag %d (%s) element 0 must be an integer exponent", tag, def.Name)
		}
		if tag == 4 && !isIntegerOrBignum(arr[1]) {
			return fmt.Errorf("tag 4 (%s) element 1 must be an integer or a bignum (tag 2 or 3)", def.Name)
		}
	case 30:
		arr := content.(value.Array)
		if !isIntegerOrBignum(arr[0]) || !isIntegerOrBignum(arr[1]) {
			return fmt.Errorf("tag 30 (%s) requires both elements to be integer or bignum-tagged", def.Name)
		}
	case 38:
		arr := content.(value.Array)
		for i, el := range arr {
			if el.Kind() != value.KindTextString {
				return fmt.Errorf("tag 38 (%s) element %d must be a text string", def.Name, i)
			}
		}
	case 37:
		bs := content.(value.ByteString)
		var raw [16]byte
		copy(raw[:], bs)
		text := uuidtag.Format(raw)
		reparsed, err := uuidtag.Parse(text)
		if err != nil || reparsed != raw {
			return fmt.Errorf("tag %d (%s) content %x does not round-trip through its canonical text form", tag, def.Name, []byte(bs))
		}
	case 260:
		bs := content.(value.ByteString)
		if len(bs) != 4 && len(bs) != 16 {
			return fmt.Errorf("tag 260 (%s) requires a byte string of length 4 or 16, got %d", def.Name, len(bs))
		}
	}
	return nil
}

func isIntegerKind(v value.Value) bool {
	return v.Kind() == value.KindUnsigned || v.Kind() == value.KindNegative
}

func isIntegerOrBignum(v value.Value) bool {
	if isIntegerKind(v) {
		return true
	}
	t, ok := v.(value.Tagged)
	return ok && (t.Number == 2 || t.Number == 3)
}

func shapeName(req Requirement) string {
	switch req {
	case Any:
		return "any"
	case RequireUnsigned:
		return "unsigned"
	case RequireInteger:
		return "integer"
	case RequireNumeric:
		return "numeric"
	case RequireByteString:
		return "byte string"
	case RequireTextString:
		return "text string"
	case RequireArray:
		return "array"
	case RequireMap:
		return "map"
	case RequireTagged:
		return "tagged"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}
