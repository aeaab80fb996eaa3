// Package vc builds credentials and verifiable credentials.
//
// A Credential is produced by a CredentialBuilder and is immutable: every
// accessor returns a copy. A VerifiableCredential pairs a Credential with an
// opaque proof object.
package vc

import (
	"encoding/json"
	"time"

	"golang.org/x/exp/slices"

	"github.com/pilacorp/go-credential-engine/credential/common/jsonmap"
	"github.com/pilacorp/go-credential-engine/credential/common/model"
)

const (
	// BaseContext must be the first @context entry of every credential.
	BaseContext = "https://www.w3.org/2018/credentials/v1"
	// BaseType is carried by every credential next to its specific types.
	BaseType = "VerifiableCredential"
)

// JSON field constants for credential serialization.
const (
	jsonFldContext        = "@context"
	jsonFldID             = "id"
	jsonFldType           = "type"
	jsonFldIssuer         = "issuer"
	jsonFldIssuanceDate   = "issuanceDate"
	jsonFldExpirationDate = "expirationDate"
	jsonFldSubject        = "credentialSubject"
	jsonFldRefreshService = "refreshService"
	jsonFldTermsOfUse     = "termsOfUse"
	jsonFldSchema         = "credentialSchema"
	jsonFldProof          = "proof"
)

// Credential is an immutable set of claims about a subject made by an issuer.
type Credential struct {
	contexts       []string
	id             string
	types          []string
	issuer         string
	issuanceDate   time.Time
	expirationDate time.Time
	subject        model.Subject
	refreshService *model.RefreshService
	termsOfUse     []model.TermsOfUse
	schemas        []model.Schema
}

// Contexts returns the JSON-LD contexts in order.
func (c Credential) Contexts() []string {
	return slices.Clone(c.contexts)
}

// ID returns the credential id, or "" when unset.
func (c Credential) ID() string {
	return c.id
}

// Types returns the credential types in insertion order.
func (c Credential) Types() []string {
	return slices.Clone(c.types)
}

// HasType reports whether the credential carries typ.
func (c Credential) HasType(typ string) bool {
	return slices.Contains(c.types, typ)
}

// Issuer returns the issuer DID or URI.
func (c Credential) Issuer() string {
	return c.issuer
}

// IssuanceDate returns the issuance date.
func (c Credential) IssuanceDate() time.Time {
	return c.issuanceDate
}

// ExpirationDate returns the expiration date and whether one is set.
func (c Credential) ExpirationDate() (time.Time, bool) {
	return c.expirationDate, !c.expirationDate.IsZero()
}

// Subject returns a copy of the credential subject.
func (c Credential) Subject() model.Subject {
	return c.subject.Clone()
}

// RefreshService returns the refresh service and whether one is set.
func (c Credential) RefreshService() (model.RefreshService, bool) {
	if c.refreshService == nil {
		return model.RefreshService{}, false
	}
	return c.refreshService.Clone(), true
}

// TermsOfUse returns the terms of use in insertion order.
func (c Credential) TermsOfUse() []model.TermsOfUse {
	return cloneTypedIDs(c.termsOfUse)
}

// Schemas returns the credentialSchema entries in insertion order.
func (c Credential) Schemas() []model.Schema {
	return cloneTypedIDs(c.schemas)
}

// ToJSONMap converts the credential to its JSON-LD object form.
func (c Credential) ToJSONMap() jsonmap.JSONMap {
	return serializeCredential(c)
}

// MarshalJSON implements json.Marshaler.
func (c Credential) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}(c.ToJSONMap()))
}

func cloneTypedIDs(ids []model.TypedID) []model.TypedID {
	if ids == nil {
		return nil
	}
	out := make([]model.TypedID, len(ids))
	for i, id := range ids {
		out[i] = id.Clone()
	}
	return out
}
