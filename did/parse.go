package did

import "strings"

// Parse parses a DID or DID URL in canonical form.
func Parse(s string) (DID, error) {
	rest, ok := strings.CutPrefix(s, Scheme+":")
	if !ok {
		return DID{}, newMalformed("missing \"did:\" prefix")
	}

	var opts []Option
	if head, fragment, found := strings.Cut(rest, "#"); found {
		rest = head
		opts = append(opts, WithFragment(fragment))
	}
	if head, query, found := strings.Cut(rest, "?"); found {
		rest = head
		opts = append(opts, WithQuery(query))
	}
	if head, path, found := strings.Cut(rest, "/"); found {
		rest = head
		opts = append(opts, WithPath(path))
	}

	method, id, found := strings.Cut(rest, ":")
	if !found {
		return DID{}, newMalformed("missing method-specific identifier")
	}
	return Build(method, strings.Split(id, ":"), opts...)
}

// IsDID reports whether s claims to be a DID, i.e. it uses the did scheme.
// It does not validate the remainder; use Parse for that.
func IsDID(s string) bool {
	return strings.HasPrefix(s, Scheme+":")
}
