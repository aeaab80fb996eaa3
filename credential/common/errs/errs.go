// Package errs defines the error kinds returned by credential and
// presentation builders and by validation.
//
// Every concrete error unwraps to one of the sentinel kinds, so callers branch
// with errors.Is and read details with errors.As.
package errs

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMissingRequiredField  = errors.New("missing required field")
	ErrInvalidShape          = errors.New("invalid shape")
	ErrTemporalInconsistency = errors.New("temporal inconsistency")
	ErrValidationFailed      = errors.New("validation failed")
	ErrBuilderConsumed       = errors.New("builder already consumed")
)

// MissingRequiredFieldError reports a required builder field that was never set.
type MissingRequiredFieldError struct {
	Field string
}

func MissingRequiredField(field string) *MissingRequiredFieldError {
	return &MissingRequiredFieldError{Field: field}
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

func (e *MissingRequiredFieldError) Unwrap() error {
	return ErrMissingRequiredField
}

// InvalidShapeError reports a structured field lacking its required sub-keys.
type InvalidShapeError struct {
	Field  string
	Reason string
}

func InvalidShape(field, reason string) *InvalidShapeError {
	return &InvalidShapeError{Field: field, Reason: reason}
}

func (e *InvalidShapeError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid shape of %q", e.Field)
	}
	return fmt.Sprintf("invalid shape of %q: %s", e.Field, e.Reason)
}

func (e *InvalidShapeError) Unwrap() error {
	return ErrInvalidShape
}

// TemporalInconsistencyError reports an expiration date preceding the
// issuance date.
type TemporalInconsistencyError struct {
	IssuanceDate   time.Time
	ExpirationDate time.Time
}

func (e *TemporalInconsistencyError) Error() string {
	return fmt.Sprintf("expiration date %s is before issuance date %s",
		e.ExpirationDate.Format(time.RFC3339), e.IssuanceDate.Format(time.RFC3339))
}

func (e *TemporalInconsistencyError) Unwrap() error {
	return ErrTemporalInconsistency
}

// Violation is a single failed validation rule.
type Violation struct {
	RuleID  string `json:"rule_id"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.RuleID + ": " + v.Message
}

// ValidationFailedError carries every violation of a failed validation.
type ValidationFailedError struct {
	Violations []Violation
}

func (e *ValidationFailedError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.String())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

func (e *ValidationFailedError) Unwrap() error {
	return ErrValidationFailed
}
