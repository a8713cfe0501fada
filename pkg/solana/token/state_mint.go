package token

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/spl-token-go/pkg/solana/binary"
)

// Reference: https://github.com/solana-labs/solana-program-library/blob/11b1e3eefdd4e523768d63f7c70a7aa391ea0d02/token/program/src/state.rs#L15
const MintSize = 82

type Mint struct {
	// Optional authority used to mint new tokens. If nil, the supply is fixed.
	MintAuthority ed25519.PublicKey
	// Total supply of tokens.
	Supply uint64
	// Number of base 10 digits to the right of the decimal place.
	Decimals uint8
	IsInitialized bool
	// Optional authority to freeze token accounts.
	FreezeAuthority ed25519.PublicKey
}

func (m *Mint) Marshal() []byte {
	b := make([]byte, MintSize)

	var offset int
	binary.PutOptionalKey32(b, m.MintAuthority, &offset, binary.AccountOptionSize)
	binary.PutUint64(b, m.Supply, &offset)
	binary.PutUint8(b, m.Decimals, &offset)
	binary.PutBool(b, m.IsInitialized, &offset)
	binary.PutOptionalKey32(b, m.FreezeAuthority, &offset, binary.AccountOptionSize)

	return b
}

// Unmarshal decodes a mint. The receiver is left untouched on error.
func (m *Mint) Unmarshal(b []byte) error {
	if len(b) != MintSize {
		return errors.Wrapf(ErrInvalidAccountSize, "mint: got %d bytes, want %d", len(b), MintSize)
	}

	var v Mint
	var offset int
	if err := binary.GetOptionalKey32(b, &v.MintAuthority, &offset, binary.AccountOptionSize); err != nil {
		return errors.Wrap(err, "mint authority")
	}
	if err := binary.GetUint64(b, &v.Supply, &offset); err != nil {
		return errors.Wrap(err, "supply")
	}
	if err := binary.GetUint8(b, &v.Decimals, &offset); err != nil {
		return errors.Wrap(err, "decimals")
	}
	if err := binary.GetBool(b, &v.IsInitialized, &offset); err != nil {
		return errors.Wrap(err, "is initialized")
	}
	if err := binary.GetOptionalKey32(b, &v.FreezeAuthority, &offset, binary.AccountOptionSize); err != nil {
		return errors.Wrap(err, "freeze authority")
	}

	*m = v
	return nil
}
