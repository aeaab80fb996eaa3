// Package vp bundles verifiable credentials into presentations.
package vp

import (
	"encoding/json"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/pilacorp/go-credential-engine/credential/common/jsonmap"
	"github.com/pilacorp/go-credential-engine/credential/common/model"
	"github.com/pilacorp/go-credential-engine/credential/common/processor"
	"github.com/pilacorp/go-credential-engine/credential/vc"
)

// BaseType is carried by every presentation.
const BaseType = "VerifiablePresentation"

// BaseContext is the base JSON-LD context shared with credentials.
const BaseContext = vc.BaseContext

// JSON field constants for presentation serialization.
const (
	jsonFldContext        = "@context"
	jsonFldID             = "id"
	jsonFldType           = "type"
	jsonFldHolder         = "holder"
	jsonFldCredentials    = "verifiableCredential"
	jsonFldRefreshService = "refreshService"
	jsonFldTermsOfUse     = "termsOfUse"
	jsonFldProof          = "proof"
)

// Presentation is an immutable bundle of verifiable credentials.
type Presentation struct {
	contexts       []string
	id             string
	types          []string
	holder         string
	credentials    []vc.VerifiableCredential
	refreshService *model.RefreshService
	termsOfUse     []model.TermsOfUse
	proof          jsonmap.JSONMap
}

// Contexts returns the JSON-LD contexts in order.
func (p Presentation) Contexts() []string {
	return slices.Clone(p.contexts)
}

// ID returns the presentation id, or "" when unset.
func (p Presentation) ID() string {
	return p.id
}

// Types returns the presentation types in insertion order.
func (p Presentation) Types() []string {
	return slices.Clone(p.types)
}

// HasType reports whether the presentation carries typ.
func (p Presentation) HasType(typ string) bool {
	return slices.Contains(p.types, typ)
}

// Holder returns the holder DID or URI, or "" when unset.
func (p Presentation) Holder() string {
	return p.holder
}

// Credentials returns the presented credentials in order.
func (p Presentation) Credentials() []vc.VerifiableCredential {
	return slices.Clone(p.credentials)
}

// RefreshService returns the refresh service and whether one is set.
func (p Presentation) RefreshService() (model.RefreshService, bool) {
	if p.refreshService == nil {
		return model.RefreshService{}, false
	}
	return p.refreshService.Clone(), true
}

// TermsOfUse returns the terms of use in insertion order, duplicates included.
func (p Presentation) TermsOfUse() []model.TermsOfUse {
	out := make([]model.TermsOfUse, 0, len(p.termsOfUse))
	for _, terms := range p.termsOfUse {
		out = append(out, terms.Clone())
	}
	return out
}

// Proof returns a copy of the presentation proof, nil when none is attached.
func (p Presentation) Proof() jsonmap.JSONMap {
	return p.proof.Clone()
}

// WithProof returns a copy of p carrying proof. p itself is unchanged.
func (p Presentation) WithProof(proof jsonmap.JSONMap) Presentation {
	p.proof = proof.Clone()
	return p
}

// ToJSONMap converts the presentation to its JSON-LD object form.
func (p Presentation) ToJSONMap() jsonmap.JSONMap {
	return serializePresentation(p, true)
}

// MarshalJSON implements json.Marshaler.
func (p Presentation) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}(p.ToJSONMap()))
}

// SigningInput returns the digest an out-of-band signer signs: the SHA-256
// of the canonicalized presentation, its own proof excluded.
func (p Presentation) SigningInput(opts ...processor.Opt) ([]byte, error) {
	digest, err := processor.Digest(serializePresentation(p, false), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to compute signing input: %w", err)
	}
	return digest, nil
}

// ParsePresentation decodes a JSON presentation. Only the JSON shape of each
// field is checked, so a presentation that could never be built (one without
// credentials, say) still parses; run the validator for semantic checks.
func ParsePresentation(data []byte) (Presentation, error) {
	if len(data) == 0 {
		return Presentation{}, fmt.Errorf("presentation is empty")
	}

	var m jsonmap.JSONMap
	if err := json.Unmarshal(data, &m); err != nil {
		return Presentation{}, fmt.Errorf("failed to unmarshal presentation: %w", err)
	}
	if m == nil {
		return Presentation{}, fmt.Errorf("presentation is nil")
	}

	var p Presentation
	for _, parse := range presentationParsers {
		if err := parse(m, &p); err != nil {
			return Presentation{}, fmt.Errorf("failed to parse presentation: %w", err)
		}
	}
	return p, nil
}
