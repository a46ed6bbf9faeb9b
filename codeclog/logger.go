// Package codeclog reports the recoverable decisions a decode or encode
// call makes when its input or options leave more than one valid outcome:
// a non-canonical length form accepted with strict mode off, nesting that
// reaches the configured depth limit, an unregistered tag let through, a
// duplicate map key silently overwritten, and a float narrowed by the
// canonical encoder. None of these five situations ever change the
// result — a Logger is purely an observer wired in through
// DecOptions/EncOptions, and a codec call behaves identically whether or
// not one is configured.
package codeclog

import (
	"io"
	"log"
)

// Classification identifies which of the five recoverable situations
// produced a log entry.
type Classification string

const (
	Strict Classification = "STRICT" // non-canonical length form accepted (strict mode off)
	Tag    Classification = "TAG"    // unregistered tag accepted (strict mode off)
	Depth  Classification = "DEPTH"  // nesting reached max_depth
	Narrow Classification = "NARROW" // canonical encoder narrowed a float's width
	Dup    Classification = "DUP"    // duplicate map key silently overwritten (duplicates allowed)
)

// Logger receives one entry per recoverable decision, tagged with its
// Classification.
type Logger interface {
	Logf(class Classification, format string, args ...interface{})
}

// Noop discards every entry. It is the zero value used by DecOptions/
// EncOptions when no Logger is configured.
type Noop struct{}

func (Noop) Logf(Classification, string, ...interface{}) {}

// StandardLogger adapts the standard library's *log.Logger, prefixing each
// entry with its Classification.
type StandardLogger struct {
	Logger *log.Logger
}

// NewStandardLogger returns a StandardLogger writing to w with a "cbor "
// prefix and the standard timestamp flags.
func NewStandardLogger(w io.Writer) *StandardLogger {
	return &StandardLogger{Logger: log.New(w, "cbor ", log.LstdFlags)}
}

// Logf logs the classification and message, prefixing the classification
// when non-empty.
func (s *StandardLogger) Logf(class Classification, format string, args ...interface{}) {
	if len(class) != 0 {
		format = string(class) + " " + format
	}
	s.Logger.Printf(format, args...)
}
