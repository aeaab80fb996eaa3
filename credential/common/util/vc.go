package util

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/piprate/json-gold/ld"
	"golang.org/x/exp/slices"
)

// SerializeTypes converts a slice of type strings to a JSON-LD compatible format.
func SerializeTypes(types []string) interface{} {
	if len(types) == 0 {
		return nil
	}
	if len(types) == 1 {
		return types[0]
	}
	return MapSlice(types, func(t string) interface{} { return t })
}

// SerializeContexts converts a slice of context URIs to a JSON-LD array.
func SerializeContexts(contexts []string) []interface{} {
	return MapSlice(contexts, func(c string) interface{} { return c })
}

// ParseStrings reads a JSON value that is either a single string or an array
// of strings, the two forms @context and type may take.
func ParseStrings(field string, raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return slices.Clone(v), nil
	case []interface{}:
		result := make([]string, 0, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("unsupported %s entry at index %d: %T", field, i, item)
			}
			result = append(result, str)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported %s field: %T", field, raw)
	}
}

// MapSlice transforms a slice of type T to a slice of type U using a mapping function.
func MapSlice[T any, U any](slice []T, mapFn func(T) U) []U {
	result := make([]U, 0, len(slice))
	for _, v := range slice {
		result = append(result, mapFn(v))
	}
	return result
}

// AppendUnique appends values not already present in set, keeping the
// insertion order of first occurrences.
func AppendUnique(set []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(set, v) {
			set = append(set, v)
		}
	}
	return set
}

// EnsureFirst returns set with value at index 0, moving or inserting it.
func EnsureFirst(set []string, value string) []string {
	result := make([]string, 0, len(set)+1)
	result = append(result, value)
	for _, v := range set {
		if v != value {
			result = append(result, v)
		}
	}
	return result
}

// IsURI reports whether s is a syntactically valid absolute URI: it parses
// per RFC 3986, carries a scheme and uses only characters RFC 3986 permits.
func IsURI(s string) bool {
	if s == "" || !ld.IsAbsoluteIri(s) || !hasURIChars(s) {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && (u.Opaque != "" || u.Host != "" || u.Path != "")
}

// hasURIChars reports whether s consists of unreserved, reserved and
// percent-encoded characters only.
func hasURIChars(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case strings.IndexByte("-._~:/?#[]@!$&'()*+,;=", c) >= 0:
		case c == '%':
			if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
				return false
			}
			i += 2
		default:
			return false
		}
	}
	return true
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
