package testutil

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"
)

func GenerateSolanaKeypair(t *testing.T) ed25519.PrivateKey {
	_, p, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return p
}

func GenerateSolanaKeypairs(t *testing.T, n int) []ed25519.PrivateKey {
	keys := make([]ed25519.PrivateKey, n)
	for i := range keys {
		keys[i] = GenerateSolanaKeypair(t)
	}
	return keys
}

func GenerateSolanaKeys(t *testing.T, n int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, n)
	for i := range keys {
		keys[i] = GenerateSolanaKeypair(t).Public().(ed25519.PublicKey)
	}
	return keys
}

// PublicKeys returns the public halves of the keypairs, in order.
func PublicKeys(keypairs ...ed25519.PrivateKey) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, len(keypairs))
	for i, k := range keypairs {
		keys[i] = k.Public().(ed25519.PublicKey)
	}
	return keys
}
