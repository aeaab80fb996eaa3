package did_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-credential-engine/did"
)

func TestFromPublicKey(t *testing.T) {
	kp, err := did.GenerateKeyPair()
	require.NoError(t, err)

	d, err := did.FromPublicKey("nda", kp.PublicKey, "testnet")
	require.NoError(t, err)

	assert.Equal(t, "nda", d.Method())
	segments := d.Segments()
	require.Len(t, segments, 2)
	assert.Equal(t, "testnet", segments[0])
	assert.True(t, strings.HasPrefix(segments[1], "0x"))
	assert.Len(t, segments[1], 42)
	assert.Equal(t, strings.ToLower(segments[1]), segments[1])

	fromHex, err := did.FromPublicKeyHex("nda", kp.PublicKeyHex(), "testnet")
	require.NoError(t, err)
	assert.True(t, d.Equal(fromHex))
}

func TestFromPublicKeyErrors(t *testing.T) {
	_, err := did.FromPublicKey("nda", nil)
	assert.ErrorIs(t, err, did.ErrMalformedDID)

	kp, err := did.GenerateKeyPair()
	require.NoError(t, err)
	_, err = did.FromPublicKey("NDA", kp.PublicKey)
	assert.ErrorIs(t, err, did.ErrMalformedDID)

	_, err = did.FromPublicKeyHex("nda", "zz")
	assert.ErrorContains(t, err, "failed to decode public key hex")

	_, err = did.FromPublicKeyHex("nda", "0x0102")
	assert.ErrorContains(t, err, "unsupported public key format")
}

func TestPrivateKeyHex(t *testing.T) {
	kp, err := did.GenerateKeyPair()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(kp.PrivateKeyHex(), "0x"))
	assert.Len(t, kp.PrivateKeyHex(), 66)
	assert.Len(t, kp.PublicKeyHex(), 66)
}
