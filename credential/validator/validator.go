// Package validator checks built or parsed presentations, and the
// credentials embedded in them, for structural and semantic well-formedness.
//
// Validation never fails with an error: every violated rule is collected into
// a Report, because an invalid presentation is an expected outcome callers
// branch on.
package validator

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/sync/errgroup"

	"github.com/pilacorp/go-credential-engine/credential/common/errs"
	"github.com/pilacorp/go-credential-engine/credential/vp"
)

// Option configures validation.
type Option func(*options)

type schemaSource struct {
	id     string
	schema string
}

type options struct {
	skew    time.Duration
	schemas []schemaSource
}

// WithClockSkew tolerates issuance and expiration dates up to d beyond the
// current time. The default is zero.
func WithClockSkew(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.skew = d
		}
	}
}

// WithSchema registers a JSON Schema document under id. Credentials listing
// id in credentialSchema have their subject checked against it.
func WithSchema(id, schema string) Option {
	return func(o *options) {
		o.schemas = append(o.schemas, schemaSource{id: id, schema: schema})
	}
}

// Validator validates presentations with a fixed clock and configuration.
// It holds no state between calls and is safe for concurrent use.
type Validator struct {
	clock      Clock
	skew       time.Duration
	schemas    map[string]*gojsonschema.Schema
	loadErrors []errs.Violation
}

// NewValidator returns a Validator reading the time from clock. It fails when
// a registered schema cannot be compiled.
func NewValidator(clock Clock, opts ...Option) (*Validator, error) {
	v := newValidator(clock, opts...)
	if len(v.loadErrors) > 0 {
		loadErrs := make([]error, 0, len(v.loadErrors))
		for _, violation := range v.loadErrors {
			loadErrs = append(loadErrs, errors.New(violation.Message))
		}
		return nil, errors.Join(loadErrs...)
	}
	return v, nil
}

func newValidator(clock Clock, opts ...Option) *Validator {
	if clock == nil {
		clock = SystemClock()
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	v := &Validator{
		clock:   clock,
		skew:    o.skew,
		schemas: make(map[string]*gojsonschema.Schema, len(o.schemas)),
	}
	for _, src := range o.schemas {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src.schema))
		if err != nil {
			v.loadErrors = append(v.loadErrors, errs.Violation{
				RuleID:  RuleSubjectSchema,
				Message: fmt.Sprintf("failed to load schema %q: %v", src.id, err),
			})
			continue
		}
		v.schemas[src.id] = schema
	}
	return v
}

// Validate runs every rule against p and returns the collected violations.
// A nil clock falls back to SystemClock. A schema registered with WithSchema
// that cannot be compiled is reported as a violation rather than an error.
func Validate(p vp.Presentation, clock Clock, opts ...Option) Report {
	return newValidator(clock, opts...).Validate(p)
}

// ValidateAll validates presentations concurrently and returns their reports
// in input order.
func ValidateAll(presentations []vp.Presentation, clock Clock, opts ...Option) []Report {
	return newValidator(clock, opts...).ValidateAll(presentations)
}

// Validate runs every rule against p and returns the collected violations.
// Violations are ordered by rule, then by credential position.
func (v *Validator) Validate(p vp.Presentation) Report {
	now := v.clock.Now()

	var violations []errs.Violation
	for _, rule := range v.rules() {
		violations = append(violations, rule(p, now)...)
	}
	return newReport(violations)
}

// ValidateAll validates presentations concurrently, reading the clock once
// per presentation, and returns their reports in input order.
func (v *Validator) ValidateAll(presentations []vp.Presentation) []Report {
	reports := make([]Report, len(presentations))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range presentations {
		g.Go(func() error {
			reports[i] = v.Validate(presentations[i])
			return nil
		})
	}
	_ = g.Wait()

	return reports
}
