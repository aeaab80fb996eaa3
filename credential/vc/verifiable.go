package vc

import (
	"encoding/json"
	"fmt"

	"github.com/pilacorp/go-credential-engine/credential/common/jsonmap"
	"github.com/pilacorp/go-credential-engine/credential/common/processor"
)

// VerifiableCredential is a Credential with an attached proof. The proof is
// opaque to this package: its presence and shape may be inspected, its
// cryptographic validity is not.
type VerifiableCredential struct {
	credential Credential
	proof      jsonmap.JSONMap
}

// NewVerifiableCredential wraps credential with proof. proof may be nil or
// empty when signing happens out of band; it is copied.
func NewVerifiableCredential(credential Credential, proof jsonmap.JSONMap) VerifiableCredential {
	return VerifiableCredential{
		credential: credential,
		proof:      proof.Clone(),
	}
}

// Credential returns the wrapped credential.
func (v VerifiableCredential) Credential() Credential {
	return v.credential
}

// Proof returns a copy of the proof object.
func (v VerifiableCredential) Proof() jsonmap.JSONMap {
	return v.proof.Clone()
}

// HasProof reports whether a non-empty proof is attached.
func (v VerifiableCredential) HasProof() bool {
	return len(v.proof) > 0
}

// ToJSONMap converts the verifiable credential to its JSON-LD object form.
// An empty proof is omitted.
func (v VerifiableCredential) ToJSONMap() jsonmap.JSONMap {
	m := serializeCredential(v.credential)
	if v.HasProof() {
		m[jsonFldProof] = v.proof.Clone()
	}
	return m
}

// MarshalJSON implements json.Marshaler.
func (v VerifiableCredential) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}(v.ToJSONMap()))
}

// SigningInput returns the digest an out-of-band signer signs: the SHA-256
// of the canonicalized credential, proof excluded.
func (v VerifiableCredential) SigningInput(opts ...processor.Opt) ([]byte, error) {
	digest, err := processor.Digest(serializeCredential(v.credential), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to compute signing input: %w", err)
	}
	return digest, nil
}

// ParseVerifiableCredential decodes a JSON credential. Only the JSON shape of
// each field is checked; run the validator for semantic checks.
func ParseVerifiableCredential(data []byte) (VerifiableCredential, error) {
	if len(data) == 0 {
		return VerifiableCredential{}, fmt.Errorf("JSON string is empty")
	}

	var m jsonmap.JSONMap
	if err := json.Unmarshal(data, &m); err != nil {
		return VerifiableCredential{}, fmt.Errorf("failed to unmarshal credential: %w", err)
	}
	return VerifiableCredentialFromJSON(m)
}

// VerifiableCredentialFromJSON decodes a credential from a JSON object.
func VerifiableCredentialFromJSON(obj jsonmap.JSONMap) (VerifiableCredential, error) {
	if obj == nil {
		return VerifiableCredential{}, fmt.Errorf("credential is nil")
	}

	credential, err := parseCredential(obj)
	if err != nil {
		return VerifiableCredential{}, fmt.Errorf("failed to parse credential: %w", err)
	}
	proof, err := parseProof(obj)
	if err != nil {
		return VerifiableCredential{}, fmt.Errorf("failed to parse credential: %w", err)
	}
	return VerifiableCredential{credential: credential, proof: proof}, nil
}
