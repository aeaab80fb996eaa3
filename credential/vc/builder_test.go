package vc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-credential-engine/credential/common/errs"
	"github.com/pilacorp/go-credential-engine/credential/common/jsonmap"
	"github.com/pilacorp/go-credential-engine/credential/common/model"
	"github.com/pilacorp/go-credential-engine/credential/vc"
	"github.com/pilacorp/go-credential-engine/did"
)

const (
	examplesContext = "https://www.w3.org/2018/credentials/examples/v1"
	testIssuer      = "did:iota:alice"
)

var issuedAt = time.Date(2025, 8, 5, 10, 0, 0, 0, time.UTC)

// newValidBuilder returns a builder that builds successfully.
func newValidBuilder(t *testing.T) *vc.CredentialBuilder {
	t.Helper()

	b := vc.NewCredentialBuilder().
		Context(examplesContext).
		Type("PrescriptionCredential").
		Issuer(testIssuer).
		IssuanceDate(issuedAt)
	require.NoError(t, b.TrySubject(jsonmap.JSONMap{"id": "did:iota:alice", "medication": "aspirin"}))
	return b
}

func TestCredentialBuilderBuild(t *testing.T) {
	b := newValidBuilder(t).
		ID("urn:uuid:3978344f-8596-4c3a-a978-8fcaba3903c5").
		ExpirationDate(issuedAt.Add(24 * time.Hour))
	require.NoError(t, b.TryRefreshService(jsonmap.JSONMap{"id": "https://example.org/refresh", "type": "Refresh2020"}))
	require.NoError(t, b.TryTermsOfUse(jsonmap.JSONMap{"type": "IssuerPolicy", "id": "urn:policy:1"}))

	credential, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, []string{vc.BaseContext, examplesContext}, credential.Contexts())
	assert.Equal(t, []string{vc.BaseType, "PrescriptionCredential"}, credential.Types())
	assert.True(t, credential.HasType("PrescriptionCredential"))
	assert.Equal(t, "urn:uuid:3978344f-8596-4c3a-a978-8fcaba3903c5", credential.ID())
	assert.Equal(t, testIssuer, credential.Issuer())
	assert.Equal(t, issuedAt, credential.IssuanceDate())

	expires, ok := credential.ExpirationDate()
	assert.True(t, ok)
	assert.Equal(t, issuedAt.Add(24*time.Hour), expires)

	assert.Equal(t, model.Subject{ID: "did:iota:alice", Claims: jsonmap.JSONMap{"medication": "aspirin"}}, credential.Subject())

	refresh, ok := credential.RefreshService()
	assert.True(t, ok)
	assert.Equal(t, model.RefreshService{ID: "https://example.org/refresh", Type: "Refresh2020"}, refresh)
	assert.Equal(t, []model.TermsOfUse{{ID: "urn:policy:1", Type: "IssuerPolicy"}}, credential.TermsOfUse())
}

func TestCredentialBuilderRequiredFields(t *testing.T) {
	subject := jsonmap.JSONMap{"id": "did:iota:bob"}

	tests := []struct {
		name  string
		build func() *vc.CredentialBuilder
		field string
	}{
		{
			name: "Missing context",
			build: func() *vc.CredentialBuilder {
				return (&vc.CredentialBuilder{}).Type("PrescriptionCredential")
			},
			field: "context",
		},
		{
			name: "Missing type",
			build: func() *vc.CredentialBuilder {
				return vc.NewCredentialBuilder().Issuer(testIssuer)
			},
			field: "type",
		},
		{
			name: "Missing issuer",
			build: func() *vc.CredentialBuilder {
				return vc.NewCredentialBuilder().Type("PrescriptionCredential")
			},
			field: "issuer",
		},
		{
			name: "Missing subject",
			build: func() *vc.CredentialBuilder {
				return vc.NewCredentialBuilder().
					Context(examplesContext).
					Type("PrescriptionCredential").
					Issuer(testIssuer).
					IssuanceDate(issuedAt)
			},
			field: "subject",
		},
		{
			name: "Subject without id",
			build: func() *vc.CredentialBuilder {
				return vc.NewCredentialBuilder().
					Type("PrescriptionCredential").
					Issuer(testIssuer).
					Subject(model.Subject{Claims: jsonmap.JSONMap{"name": "Bob"}})
			},
			field: "subject",
		},
		{
			name: "Missing issuance date",
			build: func() *vc.CredentialBuilder {
				b := vc.NewCredentialBuilder().Type("PrescriptionCredential").Issuer(testIssuer)
				_ = b.TrySubject(subject)
				return b
			},
			field: "issuance_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().Build()

			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrMissingRequiredField)

			var missing *errs.MissingRequiredFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.field, missing.Field)
		})
	}
}

func TestCredentialBuilderTemporalInconsistency(t *testing.T) {
	_, err := newValidBuilder(t).ExpirationDate(issuedAt.Add(-time.Second)).Build()

	assert.ErrorIs(t, err, errs.ErrTemporalInconsistency)

	var temporal *errs.TemporalInconsistencyError
	require.ErrorAs(t, err, &temporal)
	assert.Equal(t, issuedAt, temporal.IssuanceDate)

	_, err = newValidBuilder(t).ExpirationDate(issuedAt).Build()
	assert.NoError(t, err, "expiration equal to issuance is allowed")
}

func TestCredentialBuilderFirstContext(t *testing.T) {
	b := (&vc.CredentialBuilder{}).
		Context(examplesContext, vc.BaseContext).
		Type("PrescriptionCredential").
		Issuer(testIssuer).
		IssuanceDate(issuedAt).
		Subject(model.Subject{ID: "did:iota:bob"})

	_, err := b.Build()
	assert.ErrorIs(t, err, errs.ErrInvalidShape)
	assert.ErrorContains(t, err, "first context must be")
}

func TestCredentialBuilderZeroValueAddsBaseType(t *testing.T) {
	credential, err := (&vc.CredentialBuilder{}).
		Context(vc.BaseContext).
		Type("PrescriptionCredential").
		Issuer(testIssuer).
		IssuanceDate(issuedAt).
		Subject(model.Subject{ID: "did:iota:bob"}).
		Build()

	require.NoError(t, err)
	assert.Equal(t, []string{vc.BaseType, "PrescriptionCredential"}, credential.Types())
}

func TestCredentialBuilderTrySetters(t *testing.T) {
	tests := []struct {
		name  string
		try   func(b *vc.CredentialBuilder) error
		field string
	}{
		{
			name:  "Subject without id",
			try:   func(b *vc.CredentialBuilder) error { return b.TrySubject(jsonmap.JSONMap{"name": "Bob"}) },
			field: "credentialSubject",
		},
		{
			name:  "Subject with numeric id",
			try:   func(b *vc.CredentialBuilder) error { return b.TrySubject(jsonmap.JSONMap{"id": 1}) },
			field: "credentialSubject",
		},
		{
			name:  "Refresh service without type",
			try:   func(b *vc.CredentialBuilder) error { return b.TryRefreshService(jsonmap.JSONMap{"id": "x"}) },
			field: "refreshService",
		},
		{
			name:  "Terms of use without type",
			try:   func(b *vc.CredentialBuilder) error { return b.TryTermsOfUse(jsonmap.JSONMap{}) },
			field: "termsOfUse",
		},
		{
			name: "Schema without id",
			try: func(b *vc.CredentialBuilder) error {
				return b.TryCredentialSchema(jsonmap.JSONMap{"type": "JsonSchemaValidator2018"})
			},
			field: "credentialSchema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newValidBuilder(t)
			err := tt.try(b)

			assert.ErrorIs(t, err, errs.ErrInvalidShape)
			var shape *errs.InvalidShapeError
			require.ErrorAs(t, err, &shape)
			assert.Equal(t, tt.field, shape.Field)

			// A failed Try leaves the builder untouched.
			credential, err := b.Build()
			require.NoError(t, err)
			assert.Equal(t, "did:iota:alice", credential.Subject().ID)
			assert.Empty(t, credential.TermsOfUse())
			assert.Empty(t, credential.Schemas())
			_, ok := credential.RefreshService()
			assert.False(t, ok)
		})
	}
}

func TestCredentialBuilderConsumed(t *testing.T) {
	b := newValidBuilder(t)
	first, err := b.Build()
	require.NoError(t, err)

	_, err = b.Build()
	assert.ErrorIs(t, err, errs.ErrBuilderConsumed)

	b.Issuer("did:iota:mallory").Type("Other")
	assert.ErrorIs(t, b.TrySubject(jsonmap.JSONMap{"id": "x"}), errs.ErrBuilderConsumed)
	assert.ErrorIs(t, b.TryTermsOfUse(jsonmap.JSONMap{"type": "x"}), errs.ErrBuilderConsumed)
	assert.ErrorIs(t, b.TryRefreshService(jsonmap.JSONMap{"type": "x"}), errs.ErrBuilderConsumed)
	assert.ErrorIs(t, b.TryCredentialSchema(jsonmap.JSONMap{"id": "x", "type": "y"}), errs.ErrBuilderConsumed)
	assert.Equal(t, testIssuer, first.Issuer())
	assert.False(t, first.HasType("Other"))

	failing := vc.NewCredentialBuilder()
	_, err = failing.Build()
	assert.ErrorIs(t, err, errs.ErrMissingRequiredField)
	_, err = failing.Build()
	assert.ErrorIs(t, err, errs.ErrBuilderConsumed, "a failed build consumes the builder too")
}

func TestCredentialBuilderDeterministic(t *testing.T) {
	first, err := newValidBuilder(t).Build()
	require.NoError(t, err)
	second, err := newValidBuilder(t).Build()
	require.NoError(t, err)

	a, err := first.MarshalJSON()
	require.NoError(t, err)
	b, err := second.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCredentialBuilderIssuerDID(t *testing.T) {
	issuer := did.MustBuild("iota", []string{"alice"})

	b := vc.NewCredentialBuilder().Type("PrescriptionCredential").IssuerDID(issuer).IssuanceDate(issuedAt)
	require.NoError(t, b.TrySubject(jsonmap.JSONMap{"id": "did:iota:bob"}))
	require.NoError(t, b.TryCredentialSchema(jsonmap.JSONMap{"id": "https://example.org/schemas/prescription.json", "type": "JsonSchemaValidator2018"}))

	credential, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "did:iota:alice", credential.Issuer())
	assert.Equal(t, []model.Schema{{ID: "https://example.org/schemas/prescription.json", Type: "JsonSchemaValidator2018"}}, credential.Schemas())
}

func TestCredentialBuilderDuplicates(t *testing.T) {
	credential, err := newValidBuilder(t).
		Context(examplesContext, vc.BaseContext).
		Type("PrescriptionCredential", vc.BaseType).
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{vc.BaseContext, examplesContext}, credential.Contexts())
	assert.Equal(t, []string{vc.BaseType, "PrescriptionCredential"}, credential.Types())
}
