package token

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/spl-token-go/pkg/solana"
	"github.com/code-payments/spl-token-go/pkg/solana/system"
)

// AssociatedTokenAccountProgramKey is the address of the associated token account program.
//
// Current key: ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL
var AssociatedTokenAccountProgramKey = ed25519.PublicKey{140, 151, 37, 143, 78, 36, 137, 241, 187, 61, 16, 41, 20, 142, 13, 131, 11, 90, 19, 153, 218, 255, 16, 132, 4, 142, 123, 216, 219, 233, 248, 89}

// NativeMint is the mint of wrapped SOL.
var NativeMint = mustDecode("So11111111111111111111111111111111111111112")

const (
	associatedCommandCreate           byte = 0
	associatedCommandCreateIdempotent byte = 1
)

type associatedOptions struct {
	tokenProgram       ed25519.PublicKey
	allowOwnerOffCurve bool
}

// AssociatedAccountOption configures associated account derivation.
type AssociatedAccountOption func(*associatedOptions)

// WithTokenProgram derives the address for a token program other than
// ProgramKey.
func WithTokenProgram(program ed25519.PublicKey) AssociatedAccountOption {
	return func(o *associatedOptions) {
		o.tokenProgram = program
	}
}

// AllowOwnerOffCurve permits owners that are program derived addresses.
func AllowOwnerOffCurve() AssociatedAccountOption {
	return func(o *associatedOptions) {
		o.allowOwnerOffCurve = true
	}
}

func applyAssociatedOptions(opts []AssociatedAccountOption) associatedOptions {
	o := associatedOptions{tokenProgram: ProgramKey}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// GetAssociatedAccount returns the associated account address for an SPL token.
//
// Reference: https://spl.solana.com/associated-token-account#finding-the-associated-token-account-address
func GetAssociatedAccount(wallet, mint ed25519.PublicKey, opts ...AssociatedAccountOption) (ed25519.PublicKey, error) {
	o := applyAssociatedOptions(opts)

	if err := validateKeys(wallet, mint); err != nil {
		return nil, err
	}
	if !o.allowOwnerOffCurve && !solana.IsOnCurve(wallet) {
		return nil, ErrOwnerOffCurve
	}

	return solana.FindProgramAddress(
		AssociatedTokenAccountProgramKey,
		wallet,
		o.tokenProgram,
		mint,
	)
}

type CreateAssociatedTokenAccountInstructionAccounts struct {
	Payer  ed25519.PublicKey
	Wallet ed25519.PublicKey
	Mint   ed25519.PublicKey
}

// NewCreateAssociatedTokenAccountInstruction creates the associated token
// account for the wallet and returns its address. The instruction fails if
// the account already exists.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/0639953c7dd0f5228c3ceda3ba68fece3b46ff1d/associated-token-account/program/src/lib.rs#L54
func NewCreateAssociatedTokenAccountInstruction(accounts *CreateAssociatedTokenAccountInstructionAccounts, opts ...AssociatedAccountOption) (solana.Instruction, ed25519.PublicKey, error) {
	return newCreateAssociatedTokenAccountInstruction(accounts, []byte{}, opts)
}

// NewCreateIdempotentAssociatedTokenAccountInstruction is
// NewCreateAssociatedTokenAccountInstruction except it succeeds when the
// account already exists with the same owner.
func NewCreateIdempotentAssociatedTokenAccountInstruction(accounts *CreateAssociatedTokenAccountInstructionAccounts, opts ...AssociatedAccountOption) (solana.Instruction, ed25519.PublicKey, error) {
	return newCreateAssociatedTokenAccountInstruction(accounts, []byte{associatedCommandCreateIdempotent}, opts)
}

func newCreateAssociatedTokenAccountInstruction(accounts *CreateAssociatedTokenAccountInstructionAccounts, data []byte, opts []AssociatedAccountOption) (solana.Instruction, ed25519.PublicKey, error) {
	if err := validateKeys(accounts.Payer); err != nil {
		return solana.Instruction{}, nil, errors.Wrap(err, "invalid payer")
	}

	addr, err := GetAssociatedAccount(accounts.Wallet, accounts.Mint, opts...)
	if err != nil {
		return solana.Instruction{}, nil, err
	}

	return solana.NewInstruction(
		AssociatedTokenAccountProgramKey,
		data,
		solana.NewAccountMeta(accounts.Payer, true),
		solana.NewAccountMeta(addr, false),
		solana.NewReadonlyAccountMeta(accounts.Wallet, false),
		solana.NewReadonlyAccountMeta(accounts.Mint, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
		solana.NewReadonlyAccountMeta(applyAssociatedOptions(opts).tokenProgram, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	), addr, nil
}

type DecompiledCreateAssociatedAccount struct {
	Payer      ed25519.PublicKey
	Address    ed25519.PublicKey
	Owner      ed25519.PublicKey
	Mint       ed25519.PublicKey
	Idempotent bool
}

func DecompileCreateAssociatedAccount(m solana.Message, index int) (*DecompiledCreateAssociatedAccount, error) {
	if index < 0 || index >= len(m.Instructions) {
		return nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]
	if !bytes.Equal(m.Accounts[i.ProgramIndex], AssociatedTokenAccountProgramKey) {
		return nil, solana.ErrIncorrectProgram
	}

	var idempotent bool
	switch {
	case len(i.Data) == 0, len(i.Data) == 1 && i.Data[0] == associatedCommandCreate:
	case len(i.Data) == 1 && i.Data[0] == associatedCommandCreateIdempotent:
		idempotent = true
	default:
		return nil, solana.ErrIncorrectInstruction
	}

	// The rent sysvar is optional in newer versions of the program.
	if len(i.Accounts) != 6 && len(i.Accounts) != 7 {
		return nil, errors.Errorf("invalid number of accounts: %d (expected 6 or 7)", len(i.Accounts))
	}

	if !bytes.Equal(m.Accounts[i.Accounts[4]], system.ProgramKey) {
		return nil, errors.Errorf("system program key mismatch")
	}
	if len(i.Accounts) == 7 && !bytes.Equal(m.Accounts[i.Accounts[6]], system.RentSysVar) {
		return nil, errors.Errorf("rent sysvar mismatch")
	}

	return &DecompiledCreateAssociatedAccount{
		Payer:      m.Accounts[i.Accounts[0]],
		Address:    m.Accounts[i.Accounts[1]],
		Owner:      m.Accounts[i.Accounts[2]],
		Mint:       m.Accounts[i.Accounts[3]],
		Idempotent: idempotent,
	}, nil
}

func mustDecode(s string) ed25519.PublicKey {
	b, err := base58.Decode(s)
	if err != nil {
		panic(err)
	}
	return b
}
