package bridge

import (
	"strings"
	"unicode"
)

func wireKey(fieldName string, strategy KeyStrategy, custom func(string) string) string {
	switch strategy {
	case ConvertFromSnakeCase:
		return toSnakeCase(fieldName)
	case KeyCustom:
		if custom != nil {
			return custom(fieldName)
		}
		return fieldName
	default:
		return fieldName
	}
}

// toSnakeCase lowercases a Go-style identifier, inserting an underscore
// before each interior uppercase letter not already preceded by one.
func toSnakeCase(s string) string {
	var sb strings.Builder
	var prev rune
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) && prev != '_' {
			sb.WriteByte('_')
		}
		sb.WriteRune(unicode.ToLower(r))
		prev = r
	}
	return sb.String()
}
