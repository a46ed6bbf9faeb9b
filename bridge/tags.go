package bridge

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// fieldInfo describes one struct field's wire behavior, parsed from its
// `cbor` struct tag. The tag vocabulary (name, omitempty, keyasint, toarray)
// follows the convention common to Go CBOR/JSON struct-tag libraries.
type fieldInfo struct {
	Name      string
	Index     []int
	OmitEmpty bool
	KeyAsInt  bool
	ToArray   bool
	Skip      bool
}

// structInfo is the parsed shape of a struct type: its ordinary
// name/index-keyed fields, plus whether the struct as a whole requests
// toarray encoding (every exported field, in declaration order, becomes one
// positional array element instead of a map entry).
type structInfo struct {
	Fields  []fieldInfo
	ToArray bool
}

var structCache sync.Map // reflect.Type -> *structInfo

// cachedStructInfo returns the parsed field layout for t, building and
// caching it on first use. bridge.Marshal/Unmarshal are free functions with
// no owning instance to serialize access the way cbor.Decoder/Writer do, so
// two goroutines racing to encode the same previously-unseen type both build
// a structInfo and LoadOrStore settles on whichever wins; the loser's copy
// is discarded rather than raced over.
func cachedStructInfo(t reflect.Type) *structInfo {
	if si, ok := structCache.Load(t); ok {
		return si.(*structInfo)
	}
	si, _ := structCache.LoadOrStore(t, buildStructInfo(t))
	return si.(*structInfo)
}

var noSerdeType = reflect.TypeOf(NoSerde{})

func buildStructInfo(t reflect.Type) *structInfo {
	si := &structInfo{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Name == "_" {
			// blank placeholder field, conventionally used to carry a
			// struct-wide option (toarray) with no field of its own to
			// hang it on; it is never itself wire-visible regardless of
			// its own exportedness.
			if parseFieldTag(f).ToArray {
				si.ToArray = true
			}
			continue
		}
		if f.PkgPath != "" && !f.Anonymous {
			continue // unexported
		}
		if f.Anonymous && f.Type == noSerdeType {
			continue // opt-out marker, never itself wire-visible
		}
		fi := parseFieldTag(f)
		fi.Index = []int{i}
		if fi.Skip {
			continue
		}
		if fi.ToArray {
			si.ToArray = true
			continue
		}
		si.Fields = append(si.Fields, fi)
	}
	return si
}

func parseFieldTag(f reflect.StructField) fieldInfo {
	fi := fieldInfo{Name: f.Name}

	tag, ok := f.Tag.Lookup("cbor")
	if !ok {
		return fi
	}
	if tag == "-" {
		fi.Skip = true
		return fi
	}

	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		fi.Name = parts[0]
	}
	for _, opt := range parts[1:] {
		switch opt {
		case "omitempty":
			fi.OmitEmpty = true
		case "keyasint":
			fi.KeyAsInt = true
		case "toarray":
			fi.ToArray = true
		}
	}
	return fi
}

// parseKeyAsInt parses a field's tag name as the integer map key the
// keyasint option requires.
func parseKeyAsInt(name string) (int64, error) {
	n, err := strconv.ParseInt(name, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bridge: keyasint field tag %q is not an integer: %w", name, err)
	}
	return n, nil
}

// isEmptyValue reports whether v is the zero value for its kind, per the
// omitempty tag option's usual Go semantics.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}
