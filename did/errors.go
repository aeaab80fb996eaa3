package did

import "errors"

// ErrMalformedDID is matched by every error returned from Build and Parse.
var ErrMalformedDID = errors.New("malformed DID")

// MalformedDIDError describes which DID invariant was violated.
type MalformedDIDError struct {
	Reason string
}

func newMalformed(reason string) *MalformedDIDError {
	return &MalformedDIDError{Reason: reason}
}

func (e *MalformedDIDError) Error() string {
	return "malformed DID: " + e.Reason
}

func (e *MalformedDIDError) Unwrap() error {
	return ErrMalformedDID
}
