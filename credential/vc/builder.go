package vc

import (
	"fmt"
	"time"

	"github.com/pilacorp/go-credential-engine/credential/common/errs"
	"github.com/pilacorp/go-credential-engine/credential/common/jsonmap"
	"github.com/pilacorp/go-credential-engine/credential/common/model"
	"github.com/pilacorp/go-credential-engine/credential/common/util"
	"github.com/pilacorp/go-credential-engine/did"
)

// CredentialBuilder accumulates the fields of a Credential.
//
// Plain setters record their value and return the builder for chaining. The
// Try setters check the shape of structured input first and leave the builder
// untouched on error. A builder is consumed by its first Build call, whether
// it succeeds or not; after that Build returns errs.ErrBuilderConsumed and
// setters have no effect.
type CredentialBuilder struct {
	contexts       []string
	id             string
	types          []string
	issuer         string
	issuanceDate   time.Time
	expirationDate time.Time
	subject        *model.Subject
	refreshService *model.RefreshService
	termsOfUse     []model.TermsOfUse
	schemas        []model.Schema
	consumed       bool
}

// NewCredentialBuilder returns a builder seeded with BaseContext and BaseType.
func NewCredentialBuilder() *CredentialBuilder {
	return &CredentialBuilder{
		contexts: []string{BaseContext},
		types:    []string{BaseType},
	}
}

// Context appends @context URIs, ignoring ones already present.
func (b *CredentialBuilder) Context(uris ...string) *CredentialBuilder {
	if !b.consumed {
		b.contexts = util.AppendUnique(b.contexts, uris...)
	}
	return b
}

// ID sets the credential id.
func (b *CredentialBuilder) ID(id string) *CredentialBuilder {
	if !b.consumed {
		b.id = id
	}
	return b
}

// Type adds credential types, ignoring ones already present.
func (b *CredentialBuilder) Type(types ...string) *CredentialBuilder {
	if !b.consumed {
		b.types = util.AppendUnique(b.types, types...)
	}
	return b
}

// Issuer sets the issuer DID or URI.
func (b *CredentialBuilder) Issuer(issuer string) *CredentialBuilder {
	if !b.consumed {
		b.issuer = issuer
	}
	return b
}

// IssuerDID sets the issuer to the canonical form of d.
func (b *CredentialBuilder) IssuerDID(d did.DID) *CredentialBuilder {
	return b.Issuer(d.String())
}

// IssuanceDate sets the issuance date.
func (b *CredentialBuilder) IssuanceDate(t time.Time) *CredentialBuilder {
	if !b.consumed {
		b.issuanceDate = t
	}
	return b
}

// ExpirationDate sets the optional expiration date.
func (b *CredentialBuilder) ExpirationDate(t time.Time) *CredentialBuilder {
	if !b.consumed {
		b.expirationDate = t
	}
	return b
}

// Subject sets a typed credential subject.
func (b *CredentialBuilder) Subject(subject model.Subject) *CredentialBuilder {
	if !b.consumed {
		s := subject.Clone()
		b.subject = &s
	}
	return b
}

// TrySubject sets the subject from a JSON object, which must carry an id.
func (b *CredentialBuilder) TrySubject(obj jsonmap.JSONMap) error {
	if b.consumed {
		return errs.ErrBuilderConsumed
	}
	subject, err := model.SubjectFromJSON(obj)
	if err != nil {
		return errs.InvalidShape(jsonFldSubject, err.Error())
	}
	b.subject = &subject
	return nil
}

// TryRefreshService sets the refresh service from a JSON object, which must
// carry a type.
func (b *CredentialBuilder) TryRefreshService(obj jsonmap.JSONMap) error {
	if b.consumed {
		return errs.ErrBuilderConsumed
	}
	service, err := model.ParseTypedID(obj)
	if err != nil {
		return errs.InvalidShape(jsonFldRefreshService, err.Error())
	}
	b.refreshService = &service
	return nil
}

// TryTermsOfUse appends a terms of use entry, which must carry a type.
func (b *CredentialBuilder) TryTermsOfUse(obj jsonmap.JSONMap) error {
	if b.consumed {
		return errs.ErrBuilderConsumed
	}
	terms, err := model.ParseTypedID(obj)
	if err != nil {
		return errs.InvalidShape(jsonFldTermsOfUse, err.Error())
	}
	b.termsOfUse = append(b.termsOfUse, terms)
	return nil
}

// TryCredentialSchema appends a credentialSchema entry, which must carry both
// an id and a type.
func (b *CredentialBuilder) TryCredentialSchema(obj jsonmap.JSONMap) error {
	if b.consumed {
		return errs.ErrBuilderConsumed
	}
	schema, err := model.ParseTypedID(obj)
	if err != nil {
		return errs.InvalidShape(jsonFldSchema, err.Error())
	}
	if schema.ID == "" {
		return errs.InvalidShape(jsonFldSchema, fmt.Sprintf("field %q is required", jsonFldID))
	}
	b.schemas = append(b.schemas, schema)
	return nil
}

// Build checks the required fields and returns the immutable Credential.
func (b *CredentialBuilder) Build() (Credential, error) {
	if b.consumed {
		return Credential{}, errs.ErrBuilderConsumed
	}
	b.consumed = true

	if len(b.contexts) == 0 {
		return Credential{}, errs.MissingRequiredField("context")
	}
	types := util.EnsureFirst(b.types, BaseType)
	if len(types) < 2 {
		return Credential{}, errs.MissingRequiredField("type")
	}
	if b.issuer == "" {
		return Credential{}, errs.MissingRequiredField("issuer")
	}
	if b.subject == nil || b.subject.ID == "" {
		return Credential{}, errs.MissingRequiredField("subject")
	}
	if b.issuanceDate.IsZero() {
		return Credential{}, errs.MissingRequiredField("issuance_date")
	}
	if !b.expirationDate.IsZero() && b.expirationDate.Before(b.issuanceDate) {
		return Credential{}, &errs.TemporalInconsistencyError{
			IssuanceDate:   b.issuanceDate,
			ExpirationDate: b.expirationDate,
		}
	}
	if b.contexts[0] != BaseContext {
		return Credential{}, errs.InvalidShape(jsonFldContext, fmt.Sprintf("first context must be %q", BaseContext))
	}

	// The builder is consumed, so its slices can be handed over as-is.
	return Credential{
		contexts:       b.contexts,
		id:             b.id,
		types:          types,
		issuer:         b.issuer,
		issuanceDate:   b.issuanceDate,
		expirationDate: b.expirationDate,
		subject:        *b.subject,
		refreshService: b.refreshService,
		termsOfUse:     b.termsOfUse,
		schemas:        b.schemas,
	}, nil
}
