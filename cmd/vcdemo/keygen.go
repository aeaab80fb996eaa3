package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pilacorp/go-credential-engine/did"
)

func newKeygenCommand() *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generates a secp256k1 key pair and the DID derived from it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys, err := did.GenerateKeyPair()
			if err != nil {
				return err
			}
			id, err := did.FromPublicKey(method, keys.PublicKey)
			if err != nil {
				return fmt.Errorf("failed to derive DID: %w", err)
			}
			cmd.Printf("did:         %s\n", id)
			cmd.Printf("public key:  %s\n", keys.PublicKeyHex())
			cmd.Printf("private key: %s\n", keys.PrivateKeyHex())
			return nil
		},
	}
	cmd.Flags().StringVar(&method, "method", "iota", "DID method of the derived identifier")
	return cmd
}
