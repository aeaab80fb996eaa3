// Package did provides the decentralized identifier value type: building a DID
// from a method name and identifier segments, projecting it to its canonical
// string form and parsing that form back.
//
// No DID method resolution is performed here; a DID is a pure value.
package did

import (
	"fmt"
	"strings"
)

// Scheme is the URI scheme shared by every DID.
const Scheme = "did"

// DID is an immutable decentralized identifier.
//
// The zero value is not a valid DID; use Build or Parse.
type DID struct {
	method   string
	segments []string
	path     string
	query    string
	fragment string
}

// Option sets an optional DID URL component on Build.
type Option func(*DID)

// WithPath sets the path component. A leading "/" is optional.
func WithPath(path string) Option {
	return func(d *DID) {
		d.path = strings.TrimPrefix(path, "/")
	}
}

// WithQuery sets the query component. A leading "?" is optional.
func WithQuery(query string) Option {
	return func(d *DID) {
		d.query = strings.TrimPrefix(query, "?")
	}
}

// WithFragment sets the fragment component. A leading "#" is optional.
func WithFragment(fragment string) Option {
	return func(d *DID) {
		d.fragment = strings.TrimPrefix(fragment, "#")
	}
}

// Build creates a DID from a method name and its method-specific identifier
// segments.
//
// The method name must be non-empty lowercase ASCII alphanumerics, and at
// least one segment must be given. Segments must be non-empty and must not
// contain ':', '/', '?' or '#'. The path must not contain '?' or '#' and the
// query must not contain '#', so that Parse(d.String()) yields d again.
func Build(method string, segments []string, opts ...Option) (DID, error) {
	if err := validateMethod(method); err != nil {
		return DID{}, err
	}
	if err := validateSegments(segments); err != nil {
		return DID{}, err
	}

	d := DID{
		method:   method,
		segments: append([]string(nil), segments...),
	}
	for _, opt := range opts {
		opt(&d)
	}
	if err := validateComponents(d); err != nil {
		return DID{}, err
	}
	return d, nil
}

// MustBuild is like Build but panics on error. Intended for fixed identifiers
// in tests and examples.
func MustBuild(method string, segments []string, opts ...Option) DID {
	d, err := Build(method, segments, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Method returns the DID method name.
func (d DID) Method() string {
	return d.method
}

// Segments returns a copy of the method-specific identifier segments.
func (d DID) Segments() []string {
	return append([]string(nil), d.segments...)
}

// ID returns the method-specific identifier, the segments joined by ':'.
func (d DID) ID() string {
	return strings.Join(d.segments, ":")
}

// Path returns the path component without its leading "/".
func (d DID) Path() string {
	return d.path
}

// Query returns the query component without its leading "?".
func (d DID) Query() string {
	return d.query
}

// Fragment returns the fragment component without its leading "#".
func (d DID) Fragment() string {
	return d.fragment
}

// IsZero reports whether d is the zero value.
func (d DID) IsZero() bool {
	return d.method == "" && len(d.segments) == 0
}

// String returns the canonical form
// did:<method>:<segment>(:<segment>)*[/path][?query][#fragment].
func (d DID) String() string {
	if d.IsZero() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(Scheme)
	sb.WriteByte(':')
	sb.WriteString(d.method)
	for _, seg := range d.segments {
		sb.WriteByte(':')
		sb.WriteString(seg)
	}
	if d.path != "" {
		sb.WriteByte('/')
		sb.WriteString(d.path)
	}
	if d.query != "" {
		sb.WriteByte('?')
		sb.WriteString(d.query)
	}
	if d.fragment != "" {
		sb.WriteByte('#')
		sb.WriteString(d.fragment)
	}
	return sb.String()
}

// Equal reports whether two DIDs have the same canonical form.
func (d DID) Equal(other DID) bool {
	return d.String() == other.String()
}

// MarshalText encodes the DID as its canonical string.
func (d DID) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a canonical DID string.
func (d *DID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func validateMethod(method string) error {
	if method == "" {
		return newMalformed("method name is empty")
	}
	for i := 0; i < len(method); i++ {
		c := method[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return newMalformed(fmt.Sprintf("method name %q contains invalid character %q", method, c))
		}
	}
	return nil
}

func validateSegments(segments []string) error {
	if len(segments) == 0 {
		return newMalformed("at least one id segment is required")
	}
	for i, seg := range segments {
		if seg == "" {
			return newMalformed(fmt.Sprintf("id segment at index %d is empty", i))
		}
		if strings.ContainsAny(seg, ":/?#") {
			return newMalformed(fmt.Sprintf("id segment %q contains a reserved delimiter", seg))
		}
	}
	return nil
}

func validateComponents(d DID) error {
	if strings.ContainsAny(d.path, "?#") {
		return newMalformed(fmt.Sprintf("path %q contains a reserved delimiter", d.path))
	}
	if strings.Contains(d.query, "#") {
		return newMalformed(fmt.Sprintf("query %q contains a reserved delimiter", d.query))
	}
	return nil
}
