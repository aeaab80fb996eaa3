package vp

import (
	"github.com/pilacorp/go-credential-engine/credential/common/errs"
	"github.com/pilacorp/go-credential-engine/credential/common/jsonmap"
	"github.com/pilacorp/go-credential-engine/credential/common/model"
	"github.com/pilacorp/go-credential-engine/credential/common/util"
	"github.com/pilacorp/go-credential-engine/credential/vc"
)

// PresentationBuilder accumulates the fields of a Presentation. It follows the
// same rules as vc.CredentialBuilder: Try setters leave the builder untouched
// on error and the first Build consumes it.
type PresentationBuilder struct {
	contexts       []string
	id             string
	types          []string
	holder         string
	credentials    []vc.VerifiableCredential
	refreshService *model.RefreshService
	termsOfUse     []model.TermsOfUse
	consumed       bool
}

// NewPresentationBuilder returns a builder seeded with BaseContext and BaseType.
func NewPresentationBuilder() *PresentationBuilder {
	return &PresentationBuilder{
		contexts: []string{BaseContext},
		types:    []string{BaseType},
	}
}

// Context appends @context URIs, ignoring ones already present.
func (b *PresentationBuilder) Context(uris ...string) *PresentationBuilder {
	if !b.consumed {
		b.contexts = util.AppendUnique(b.contexts, uris...)
	}
	return b
}

// ID sets the presentation id.
func (b *PresentationBuilder) ID(id string) *PresentationBuilder {
	if !b.consumed {
		b.id = id
	}
	return b
}

// Type adds presentation types, ignoring ones already present.
func (b *PresentationBuilder) Type(types ...string) *PresentationBuilder {
	if !b.consumed {
		b.types = util.AppendUnique(b.types, types...)
	}
	return b
}

// Holder sets the holder DID or URI.
func (b *PresentationBuilder) Holder(holder string) *PresentationBuilder {
	if !b.consumed {
		b.holder = holder
	}
	return b
}

// Credential appends a verifiable credential. Adding the same credential
// twice is allowed here and reported by validation.
func (b *PresentationBuilder) Credential(credentials ...vc.VerifiableCredential) *PresentationBuilder {
	if !b.consumed {
		b.credentials = append(b.credentials, credentials...)
	}
	return b
}

// TryRefreshService sets the refresh service from a JSON object, which must
// carry a type.
func (b *PresentationBuilder) TryRefreshService(obj jsonmap.JSONMap) error {
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
// Entries are kept in insertion order and never deduplicated.
func (b *PresentationBuilder) TryTermsOfUse(obj jsonmap.JSONMap) error {
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

// Build checks the required fields and returns the immutable Presentation.
func (b *PresentationBuilder) Build() (Presentation, error) {
	if b.consumed {
		return Presentation{}, errs.ErrBuilderConsumed
	}
	b.consumed = true

	if len(b.types) == 0 {
		return Presentation{}, errs.MissingRequiredField("type")
	}
	if len(b.credentials) == 0 {
		return Presentation{}, errs.MissingRequiredField("verifiableCredential")
	}

	return Presentation{
		contexts:       b.contexts,
		id:             b.id,
		types:          util.EnsureFirst(b.types, BaseType),
		holder:         b.holder,
		credentials:    b.credentials,
		refreshService: b.refreshService,
		termsOfUse:     b.termsOfUse,
	}, nil
}
