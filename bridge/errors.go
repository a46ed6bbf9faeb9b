package bridge

import (
	"fmt"
	"strings"
)

// ErrorKind distinguishes the two failure modes that arise only above the
// core wire codec; anything else the bridge surfaces is a *cbor.Error from
// the core, passed through unwrapped except for the coding path.
type ErrorKind uint8

const (
	// ErrTypeMismatch means the decoded Value was present but not of the
	// shape the target Go type requires (e.g. a TextString where a struct
	// was expected).
	ErrTypeMismatch ErrorKind = iota
	// ErrValueOutOfRange means a decoded integer does not fit the
	// narrower target integer type requested.
	ErrValueOutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrValueOutOfRange:
		return "ValueOutOfRange"
	default:
		return "Unknown"
	}
}

// Error wraps a core or bridge-local failure with the struct/slice/map path
// that was being visited when it occurred.
type Error struct {
	Kind       ErrorKind
	Msg        string
	CodingPath []string
	Err        error
}

func (e *Error) Error() string {
	path := strings.Join(e.CodingPath, ".")
	if path == "" {
		path = "<root>"
	}
	if e.Err != nil {
		return fmt.Sprintf("bridge: %s at %s: %s: %v", e.Kind, path, e.Msg, e.Err)
	}
	return fmt.Sprintf("bridge: %s at %s: %s", e.Kind, path, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// withPath attaches path as err's coding path, or returns err unchanged if
// it is already a *Error carrying one (the leaf call that first detects a
// failure sees the complete path, since marshalValue/unmarshalValue append
// to it before each recursive call; everything above just bubbles the
// resulting error back up unchanged). A foreign error (typically a
// *cbor.Error from the core) is wrapped fresh with Kind ErrTypeMismatch,
// the common case for a core decode failure bubbling up through a field.
func withPath(err error, path []string) error {
	if err == nil {
		return nil
	}
	if be, ok := err.(*Error); ok {
		if len(be.CodingPath) == 0 {
			be.CodingPath = append([]string{}, path...)
		}
		return be
	}
	return &Error{Kind: ErrTypeMismatch, Msg: err.Error(), CodingPath: append([]string{}, path...), Err: err}
}
