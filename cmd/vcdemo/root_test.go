package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-credential-engine/did"
)

func TestKeygenCommand(t *testing.T) {
	buf := new(bytes.Buffer)
	cmd := newRootCommand()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"keygen", "--method", "example"})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	id, err := did.Parse(strings.TrimSpace(strings.TrimPrefix(lines[0], "did:")))
	require.NoError(t, err)
	assert.Equal(t, "example", id.Method())

	publicKey := strings.TrimSpace(strings.TrimPrefix(lines[1], "public key:"))
	fromKey, err := did.FromPublicKeyHex("example", publicKey)
	require.NoError(t, err)
	assert.True(t, id.Equal(fromKey))
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := newRootCommand()

	for _, name := range []string{"serve", "keygen"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, defaultAddr, serve.Flags().Lookup("addr").DefValue)
}
