package token

import (
	"github.com/pkg/errors"

	"github.com/code-payments/spl-token-go/pkg/solana/binary"
)

var (
	// ErrAmountOverflow indicates an amount does not fit in an unsigned 64-bit integer.
	ErrAmountOverflow = errors.New("amount overflows u64")
	// ErrNegativeAmount indicates a negative amount was provided.
	ErrNegativeAmount = errors.New("amount is negative")
	// ErrInvalidAmount indicates no amount was provided.
	ErrInvalidAmount = errors.New("amount is missing")
	// ErrInvalidUiAmount indicates a decimal amount string is not valid utf-8.
	ErrInvalidUiAmount = errors.New("ui amount is not valid utf-8")

	ErrMissingAuthority        = errors.New("missing authority")
	ErrInvalidNumberOfSigners  = errors.Errorf("multisig authority requires between 1 and %d signers", MaxSigners)
	ErrInvalidRequiredSigners  = errors.New("required signers must be between 1 and the number of signers")
	ErrInvalidPublicKey        = errors.New("invalid public key")
	ErrInvalidAuthorityType    = errors.New("invalid authority type")
	ErrInvalidInstructionData  = errors.New("invalid instruction data")
	ErrUnknownCommand          = errors.New("unknown token command")
	ErrInvalidNumberOfAccounts = errors.New("invalid number of accounts")

	// ErrInvalidAccountSize indicates account data is not the fixed width of
	// the state being decoded.
	ErrInvalidAccountSize = errors.New("invalid account size")
	// ErrInvalidOptionTag indicates an optional field has a tag other than 0 or 1.
	ErrInvalidOptionTag = binary.ErrInvalidOptionTag
	// ErrInvalidAccountState indicates an unknown token account state value.
	ErrInvalidAccountState = errors.New("invalid account state")

	// ErrAccountNotFound indicates there is no account for the given address.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidAccountOwner indicates an account exists but is not owned by
	// the token program.
	ErrInvalidAccountOwner = errors.New("account not owned by token program")
	// ErrMintMismatch indicates a token account belongs to a different mint.
	ErrMintMismatch = errors.New("token account mint mismatch")
	// ErrOwnerMismatch indicates a token account belongs to a different owner.
	ErrOwnerMismatch = errors.New("token account owner mismatch")
	// ErrOwnerOffCurve indicates an associated account was requested for an
	// owner that cannot sign.
	ErrOwnerOffCurve = errors.New("owner is not on the ed25519 curve")
)
