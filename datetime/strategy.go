// Package datetime implements the date-decoding/date-encoding strategy
// dispatch the generic bridge uses to map time.Time values to and from
// CBOR data items.
package datetime

import (
	"fmt"
	"math"
	"time"
)

// dateTimeFormat is RFC 3339 with fractional seconds, the Iso8601String
// strategy's wire format.
const dateTimeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// Strategy selects how a time.Time is mapped to/from a CBOR data item.
type Strategy uint8

const (
	// EpochTime encodes/decodes as a numeric count of seconds since the
	// Unix epoch (an Unsigned/Negative or a float if sub-second precision
	// is present).
	EpochTime Strategy = iota
	// Tagged encodes/decodes as CBOR tag 1 wrapping an EpochTime numeric.
	Tagged
	// Iso8601String encodes/decodes as CBOR tag 0 wrapping an RFC 3339 text
	// string.
	Iso8601String
	// Custom delegates entirely to caller-supplied functions.
	Custom
)

// Codec bundles a Strategy with the Custom hooks it needs when Strategy ==
// Custom. The zero Codec is EpochTime.
type Codec struct {
	Strategy Strategy

	// EncodeCustom is consulted only when Strategy == Custom.
	EncodeCustom func(time.Time) (seconds float64, ok bool)
	// DecodeCustom is consulted only when Strategy == Custom.
	DecodeCustom func(seconds float64) (time.Time, error)
}

// FormatDateTime renders t per the Iso8601String strategy's wire format.
func FormatDateTime(t time.Time) string {
	return t.Format(dateTimeFormat)
}

// ParseDateTime parses the Iso8601String strategy's wire format.
func ParseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(dateTimeFormat, s); err == nil {
		return t, nil
	}
	// RFC 3339 without fractional seconds is also common on the wire.
	return time.Parse(time.RFC3339, s)
}

// EpochSeconds converts t to the numeric form EpochTime/Tagged strategies
// use: whole seconds when t has no sub-second component, otherwise a
// float64 count of seconds.
func EpochSeconds(t time.Time) (value float64, isWhole bool) {
	nanos := t.UnixNano()
	secs := t.Unix()
	if nanos == secs*int64(time.Second) {
		return float64(secs), true
	}
	return float64(nanos) / float64(time.Second), false
}

// FromEpochSeconds converts a numeric epoch count back to a time.Time.
func FromEpochSeconds(seconds float64) (time.Time, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return time.Time{}, fmt.Errorf("datetime: epoch seconds value %v is not finite", seconds)
	}
	whole := math.Floor(seconds)
	frac := seconds - whole
	return time.Unix(int64(whole), int64(frac*float64(time.Second))).UTC(), nil
}
