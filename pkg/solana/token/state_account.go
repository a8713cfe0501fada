package token

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/spl-token-go/pkg/solana/binary"
)

type AccountState byte

const (
	AccountStateUninitialized AccountState = iota
	AccountStateInitialized
	AccountStateFrozen
)

// Reference: https://github.com/solana-labs/solana-program-library/blob/11b1e3eefdd4e523768d63f7c70a7aa391ea0d02/token/program/src/state.rs#L125
const AccountSize = 165

type Account struct {
	// The mint associated with this account
	Mint ed25519.PublicKey
	// The owner of this account.
	Owner ed25519.PublicKey
	// The amount of tokens this account holds.
	Amount uint64
	// If set, then the 'DelegatedAmount' represents the amount
	// authorized by the delegate.
	Delegate ed25519.PublicKey
	// The account's state
	State AccountState
	// If set, this is a native token, and the value logs the rent-exempt
	// reserve.
	IsNative *uint64
	// The amount delegated
	DelegatedAmount uint64
	// Optional authority to close the account.
	CloseAuthority ed25519.PublicKey
}

func (a *Account) IsInitialized() bool {
	return a.State != AccountStateUninitialized
}

func (a *Account) IsFrozen() bool {
	return a.State == AccountStateFrozen
}

func (a *Account) IsNativeAccount() bool {
	return a.IsNative != nil
}

func (a *Account) Marshal() []byte {
	b := make([]byte, AccountSize)

	var offset int
	binary.PutKey32(b, a.Mint, &offset)
	binary.PutKey32(b, a.Owner, &offset)
	binary.PutUint64(b, a.Amount, &offset)
	binary.PutOptionalKey32(b, a.Delegate, &offset, binary.AccountOptionSize)
	binary.PutUint8(b, byte(a.State), &offset)
	binary.PutOptionalUint64(b, a.IsNative, &offset, binary.AccountOptionSize)
	binary.PutUint64(b, a.DelegatedAmount, &offset)
	binary.PutOptionalKey32(b, a.CloseAuthority, &offset, binary.AccountOptionSize)

	return b
}

// Unmarshal decodes a token account. The receiver is left untouched on
// error.
func (a *Account) Unmarshal(b []byte) error {
	if len(b) != AccountSize {
		return errors.Wrapf(ErrInvalidAccountSize, "account: got %d bytes, want %d", len(b), AccountSize)
	}

	var v Account
	var state uint8
	var offset int
	if err := binary.GetKey32(b, &v.Mint, &offset); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := binary.GetKey32(b, &v.Owner, &offset); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := binary.GetUint64(b, &v.Amount, &offset); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := binary.GetOptionalKey32(b, &v.Delegate, &offset, binary.AccountOptionSize); err != nil {
		return errors.Wrap(err, "delegate")
	}
	if err := binary.GetUint8(b, &state, &offset); err != nil {
		return errors.Wrap(err, "state")
	}
	if err := binary.GetOptionalUint64(b, &v.IsNative, &offset, binary.AccountOptionSize); err != nil {
		return errors.Wrap(err, "is native")
	}
	if err := binary.GetUint64(b, &v.DelegatedAmount, &offset); err != nil {
		return errors.Wrap(err, "delegated amount")
	}
	if err := binary.GetOptionalKey32(b, &v.CloseAuthority, &offset, binary.AccountOptionSize); err != nil {
		return errors.Wrap(err, "close authority")
	}

	v.State = AccountState(state)
	if v.State > AccountStateFrozen {
		return errors.Wrapf(ErrInvalidAccountState, "state %d", state)
	}

	*a = v
	return nil
}
