package token

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/spl-token-go/pkg/solana/binary"
)

// Reference: https://github.com/solana-labs/solana-program-library/blob/8944f428fe693c3a4226bf766a79be9c75e8e520/token/program/src/state.rs#L214
const MultisigAccountSize = 355

type Multisig struct {
	// Number of signers required
	M uint8
	// Number of valid signers
	N uint8
	IsInitialized bool
	// Signer public keys. Only the first N are meaningful.
	Signers [MaxSigners]ed25519.PublicKey
}

// ValidSigners returns the first N signers.
func (m *Multisig) ValidSigners() []ed25519.PublicKey {
	n := int(m.N)
	if n > MaxSigners {
		n = MaxSigners
	}
	return m.Signers[:n]
}

func (m *Multisig) Marshal() []byte {
	b := make([]byte, MultisigAccountSize)

	var offset int
	binary.PutUint8(b, m.M, &offset)
	binary.PutUint8(b, m.N, &offset)
	binary.PutBool(b, m.IsInitialized, &offset)
	for _, s := range m.Signers {
		binary.PutKey32(b, s, &offset)
	}

	return b
}

// Unmarshal decodes a multisig account. The receiver is left untouched on
// error.
func (m *Multisig) Unmarshal(b []byte) error {
	if len(b) != MultisigAccountSize {
		return errors.Wrapf(ErrInvalidAccountSize, "multisig: got %d bytes, want %d", len(b), MultisigAccountSize)
	}

	var v Multisig
	var offset int
	if err := binary.GetUint8(b, &v.M, &offset); err != nil {
		return err
	}
	if err := binary.GetUint8(b, &v.N, &offset); err != nil {
		return err
	}
	if err := binary.GetBool(b, &v.IsInitialized, &offset); err != nil {
		return errors.Wrap(err, "is initialized")
	}
	for i := range v.Signers {
		if err := binary.GetKey32(b, &v.Signers[i], &offset); err != nil {
			return err
		}
	}

	*m = v
	return nil
}
