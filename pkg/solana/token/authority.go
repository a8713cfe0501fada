package token

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/spl-token-go/pkg/solana"
)

// Authority is the owner, delegate, or mint/freeze authority that approves an
// instruction. It is either a SingleAuthority or a MultisigAuthority.
type Authority interface {
	// Key is the address recorded as the authority on chain.
	Key() ed25519.PublicKey

	isAuthority()
}

// SingleAuthority is an authority that signs for itself.
type SingleAuthority struct {
	Authority ed25519.PublicKey
}

// MultisigAuthority is a multisig account whose member signers approve on its
// behalf. The multisig account itself never signs.
type MultisigAuthority struct {
	Multisig ed25519.PublicKey
	Signers  []ed25519.PublicKey
}

// NewSingleAuthority returns a SingleAuthority for key.
func NewSingleAuthority(key ed25519.PublicKey) Authority {
	return SingleAuthority{Authority: key}
}

// NewMultisigAuthority returns a MultisigAuthority for the multisig account
// and the signers approving this instruction.
func NewMultisigAuthority(multisig ed25519.PublicKey, signers ...ed25519.PublicKey) Authority {
	return MultisigAuthority{Multisig: multisig, Signers: signers}
}

func (a SingleAuthority) Key() ed25519.PublicKey { return a.Authority }
func (a MultisigAuthority) Key() ed25519.PublicKey { return a.Multisig }

func (SingleAuthority) isAuthority() {}
func (MultisigAuthority) isAuthority() {}

// appendAuthority appends the authority accounts after the fixed accounts of
// an instruction.
//
// A single authority is appended once as a readonly signer. A multisig is
// appended as a readonly non-signer followed by each signer, in order, as
// readonly signers.
func appendAuthority(accounts []solana.AccountMeta, authority Authority) ([]solana.AccountMeta, error) {
	switch a := authority.(type) {
	case SingleAuthority:
		if err := validateKeys(a.Authority); err != nil {
			return nil, errors.Wrap(err, "invalid authority")
		}
		return append(accounts, solana.NewReadonlyAccountMeta(a.Authority, true)), nil

	case MultisigAuthority:
		if err := validateKeys(a.Multisig); err != nil {
			return nil, errors.Wrap(err, "invalid multisig authority")
		}
		if len(a.Signers) == 0 || len(a.Signers) > MaxSigners {
			return nil, errors.Wrapf(ErrInvalidNumberOfSigners, "got %d", len(a.Signers))
		}
		if err := validateKeys(a.Signers...); err != nil {
			return nil, errors.Wrap(err, "invalid multisig signer")
		}

		accounts = append(accounts, solana.NewReadonlyAccountMeta(a.Multisig, false))
		for _, s := range a.Signers {
			accounts = append(accounts, solana.NewReadonlyAccountMeta(s, true))
		}
		return accounts, nil

	case nil:
		return nil, ErrMissingAuthority

	default:
		return nil, errors.Errorf("unsupported authority type %T", authority)
	}
}

// authorityFromAccounts reverses appendAuthority for decoded instructions.
func authorityFromAccounts(accounts []solana.AccountMeta) (Authority, error) {
	switch {
	case len(accounts) == 0:
		return nil, ErrMissingAuthority
	case len(accounts) == 1:
		return SingleAuthority{Authority: accounts[0].PublicKey}, nil
	case len(accounts)-1 > MaxSigners:
		return nil, errors.Wrapf(ErrInvalidNumberOfSigners, "got %d", len(accounts)-1)
	}

	multisig := MultisigAuthority{Multisig: accounts[0].PublicKey}
	for _, a := range accounts[1:] {
		multisig.Signers = append(multisig.Signers, a.PublicKey)
	}
	return multisig, nil
}

func validateKeys(keys ...ed25519.PublicKey) error {
	for i, k := range keys {
		if len(k) != ed25519.PublicKeySize {
			return errors.Wrapf(ErrInvalidPublicKey, "key %d has length %d", i, len(k))
		}
	}
	return nil
}
