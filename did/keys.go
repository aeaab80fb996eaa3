package did

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// KeyPair is a secp256k1 key pair whose address names a DID.
type KeyPair struct {
	PublicKey  *ecdsa.PublicKey
	PrivateKey *ecdsa.PrivateKey
}

// GenerateKeyPair generates a new secp256k1 key pair.
func GenerateKeyPair() (*KeyPair, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}

	return &KeyPair{
		PublicKey:  &privateKey.PublicKey,
		PrivateKey: privateKey,
	}, nil
}

// PrivateKeyHex returns the private key as "0x"-prefixed hex.
func (k *KeyPair) PrivateKeyHex() string {
	return "0x" + hex.EncodeToString(crypto.FromECDSA(k.PrivateKey))
}

// PublicKeyHex returns the compressed public key as hex.
func (k *KeyPair) PublicKeyHex() string {
	return hex.EncodeToString(crypto.CompressPubkey(k.PublicKey))
}

// FromPublicKey builds a DID whose final segment is the lowercase address of
// pub, e.g. did:nda:testnet:0x8b3b.... Any prefix segments (a network name,
// say) precede the address.
func FromPublicKey(method string, pub *ecdsa.PublicKey, prefix ...string) (DID, error) {
	if pub == nil {
		return DID{}, newMalformed("public key is nil")
	}

	address := strings.ToLower(crypto.PubkeyToAddress(*pub).Hex())
	segments := append(append([]string(nil), prefix...), address)
	return Build(method, segments)
}

// FromPublicKeyHex is like FromPublicKey for a hex-encoded compressed
// (33 bytes) or uncompressed (65 bytes) public key.
func FromPublicKeyHex(method, publicKeyHex string, prefix ...string) (DID, error) {
	publicKeyBytes, err := hex.DecodeString(strings.TrimPrefix(publicKeyHex, "0x"))
	if err != nil {
		return DID{}, fmt.Errorf("failed to decode public key hex: %w", err)
	}

	var pub *ecdsa.PublicKey
	switch {
	case len(publicKeyBytes) == 33 && (publicKeyBytes[0] == 0x02 || publicKeyBytes[0] == 0x03):
		pub, err = crypto.DecompressPubkey(publicKeyBytes)
		if err != nil {
			return DID{}, fmt.Errorf("failed to decompress public key: %w", err)
		}
	case len(publicKeyBytes) == 65 && publicKeyBytes[0] == 0x04:
		pub, err = crypto.UnmarshalPubkey(publicKeyBytes)
		if err != nil {
			return DID{}, fmt.Errorf("failed to unmarshal public key: %w", err)
		}
	default:
		return DID{}, fmt.Errorf("unsupported public key format: expected 33 bytes (compressed) or 65 bytes (uncompressed), got %d bytes", len(publicKeyBytes))
	}

	return FromPublicKey(method, pub, prefix...)
}
