package cbor

import "github.com/cbordec/cbor/codeclog"

// Default resource bounds.
const (
	DefaultMaxDepth             = 512
	DefaultMaxIndefiniteChunks  = 1_000_000
)

// DecOptions configures a Decoder. The zero value is usable: a zero
// MaxDepth or MaxIndefiniteChunks falls back to its default.
// NewDecOptions returns those defaults filled in explicitly.
type DecOptions struct {
	// AllowDuplicateMapKeys, when true, makes a later map entry silently
	// overwrite an earlier equal key instead of failing DuplicateMapKey.
	AllowDuplicateMapKeys bool

	// StrictMode rejects non-canonical (non-shortest-form) integer/length
	// encodings and unregistered tags.
	StrictMode bool

	// MaxDepth bounds the nesting depth of aggregates/tags. Zero means
	// DefaultMaxDepth will be used.
	MaxDepth int

	// MaxIndefiniteChunks bounds the chunk count of an indefinite-length
	// byte/text string. Zero means DefaultMaxIndefiniteChunks will be used.
	MaxIndefiniteChunks int

	// Logger, if non-nil, receives diagnostic events for recoverable
	// decode decisions: a non-canonical length form accepted with
	// StrictMode off (Strict), nesting reaching MaxDepth (Depth), an
	// unregistered tag accepted with StrictMode off (Tag), and a
	// duplicate map key overwrite when AllowDuplicateMapKeys is set
	// (Dup). Never load-bearing.
	Logger codeclog.Logger
}

// NewDecOptions returns a DecOptions with sane default resource bounds and
// duplicate keys disallowed (strict about correctness by default;
// strict-mode non-canonical rejection is off by default, matching RFC
// 8949's "basic" decoder).
func NewDecOptions() DecOptions {
	return DecOptions{
		MaxDepth:            DefaultMaxDepth,
		MaxIndefiniteChunks: DefaultMaxIndefiniteChunks,
	}
}

func (o DecOptions) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o DecOptions) maxIndefiniteChunks() int {
	if o.MaxIndefiniteChunks <= 0 {
		return DefaultMaxIndefiniteChunks
	}
	return o.MaxIndefiniteChunks
}

func (o DecOptions) logger() codeclog.Logger {
	if o.Logger == nil {
		return codeclog.Noop{}
	}
	return o.Logger
}

// EncOptions configures Encode.
type EncOptions struct {
	// Canonical activates the deterministic encoding rules:
	// shortest-form integers (already always true), float width narrowing
	// with canonical NaN/Inf, definite-length-only strings, and map-key
	// ordering by (encoded length, bytes). Canonical implies SortKeys.
	Canonical bool

	// SortKeys sorts map keys by (encoded length, bytes) even outside
	// Canonical mode. Ignored (treated as true) when Canonical is set.
	SortKeys bool

	// Logger, if non-nil, receives diagnostic events for a float narrowed
	// during canonical encoding (Narrow). Never load-bearing.
	Logger codeclog.Logger
}

func (o EncOptions) sortKeys() bool { return o.Canonical || o.SortKeys }

func (o EncOptions) logger() codeclog.Logger {
	if o.Logger == nil {
		return codeclog.Noop{}
	}
	return o.Logger
}
