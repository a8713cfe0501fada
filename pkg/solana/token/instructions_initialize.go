package token

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/spl-token-go/pkg/solana"
)

type InitializeMintInstructionAccounts struct {
	Mint ed25519.PublicKey
}

// NewInitializeMintInstruction initializes a new mint. The rent sysvar is
// passed as the second account.
//
// Accounts expected by this instruction:
//
//   0. `[writable]` The mint to initialize.
//   1. `[]` Rent sysvar
func NewInitializeMintInstruction(accounts *InitializeMintInstructionAccounts, args *InitializeMintInstructionArgs, opts ...InstructionOption) (solana.Instruction, error) {
	if err := validateMintArgs(args.MintAuthority, args.FreezeAuthority); err != nil {
		return solana.Instruction{}, err
	}

	return newUnauthorizedInstruction(args, []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Mint, false),
		rentSysvarMeta(),
	}, opts)
}

// NewInitializeMint2Instruction is NewInitializeMintInstruction without the
// rent sysvar account.
//
// Accounts expected by this instruction:
//
//   0. `[writable]` The mint to initialize.
func NewInitializeMint2Instruction(accounts *InitializeMintInstructionAccounts, args *InitializeMint2InstructionArgs, opts ...InstructionOption) (solana.Instruction, error) {
	if err := validateMintArgs(args.MintAuthority, args.FreezeAuthority); err != nil {
		return solana.Instruction{}, err
	}

	return newUnauthorizedInstruction(args, []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Mint, false),
	}, opts)
}

func validateMintArgs(mintAuthority, freezeAuthority ed25519.PublicKey) error {
	if err := validateKeys(mintAuthority); err != nil {
		return errors.Wrap(err, "invalid mint authority")
	}
	if freezeAuthority != nil {
		if err := validateKeys(freezeAuthority); err != nil {
			return errors.Wrap(err, "invalid freeze authority")
		}
	}
	return nil
}

type InitializeAccountInstructionAccounts struct {
	Account ed25519.PublicKey
	Mint    ed25519.PublicKey
	Owner   ed25519.PublicKey
}

// NewInitializeAccountInstruction initializes a new account to hold tokens.
//
// Accounts expected by this instruction:
//
//   0. `[writable]`  The account to initialize.
//   1. `[]` The mint this account will be associated with.
//   2. `[]` The new account's owner/multisignature.
//   3. `[]` Rent sysvar
func NewInitializeAccountInstruction(accounts *InitializeAccountInstructionAccounts, opts ...InstructionOption) (solana.Instruction, error) {
	return newUnauthorizedInstruction(&InitializeAccountInstructionArgs{}, []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Account, false),
		solana.NewReadonlyAccountMeta(accounts.Mint, false),
		solana.NewReadonlyAccountMeta(accounts.Owner, false),
		rentSysvarMeta(),
	}, opts)
}

type InitializeAccount2InstructionAccounts struct {
	Account ed25519.PublicKey
	Mint    ed25519.PublicKey
}

// NewInitializeAccount2Instruction initializes a token account with the
// owner carried in the instruction data.
//
// Accounts expected by this instruction:
//
//   0. `[writable]`  The account to initialize.
//   1. `[]` The mint this account will be associated with.
//   2. `[]` Rent sysvar
func NewInitializeAccount2Instruction(accounts *InitializeAccount2InstructionAccounts, args *InitializeAccount2InstructionArgs, opts ...InstructionOption) (solana.Instruction, error) {
	if err := validateKeys(args.Owner); err != nil {
		return solana.Instruction{}, errors.Wrap(err, "invalid owner")
	}

	return newUnauthorizedInstruction(args, []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Account, false),
		solana.NewReadonlyAccountMeta(accounts.Mint, false),
		rentSysvarMeta(),
	}, opts)
}

// NewInitializeAccount3Instruction is NewInitializeAccount2Instruction
// without the rent sysvar account.
//
// Accounts expected by this instruction:
//
//   0. `[writable]`  The account to initialize.
//   1. `[]` The mint this account will be associated with.
func NewInitializeAccount3Instruction(accounts *InitializeAccount2InstructionAccounts, args *InitializeAccount3InstructionArgs, opts ...InstructionOption) (solana.Instruction, error) {
	if err := validateKeys(args.Owner); err != nil {
		return solana.Instruction{}, errors.Wrap(err, "invalid owner")
	}

	return newUnauthorizedInstruction(args, []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Account, false),
		solana.NewReadonlyAccountMeta(accounts.Mint, false),
	}, opts)
}

type InitializeMultisigInstructionAccounts struct {
	Multisig ed25519.PublicKey
	Signers  []ed25519.PublicKey
}

// NewInitializeMultisigInstruction initializes a multisignature account
// with N provided signers.
//
// Accounts expected by this instruction:
//
//   0. `[writable]` The multisignature account to initialize.
//   1. `[]` Rent sysvar
//   2. ..2+N. `[]` The signer accounts, must equal to N where 1 <= N <= 11.
func NewInitializeMultisigInstruction(accounts *InitializeMultisigInstructionAccounts, args *InitializeMultisigInstructionArgs, opts ...InstructionOption) (solana.Instruction, error) {
	if err := validateMultisigArgs(args.RequiredSigners, accounts.Signers); err != nil {
		return solana.Instruction{}, err
	}

	fixed := []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Multisig, false),
		rentSysvarMeta(),
	}
	for _, s := range accounts.Signers {
		fixed = append(fixed, solana.NewReadonlyAccountMeta(s, false))
	}

	return newUnauthorizedInstruction(args, fixed, opts)
}

// NewInitializeMultisig2Instruction is NewInitializeMultisigInstruction
// without the rent sysvar account.
//
// Accounts expected by this instruction:
//
//   0. `[writable]` The multisignature account to initialize.
//   1. ..1+N. `[]` The signer accounts, must equal to N where 1 <= N <= 11.
func NewInitializeMultisig2Instruction(accounts *InitializeMultisigInstructionAccounts, args *InitializeMultisig2InstructionArgs, opts ...InstructionOption) (solana.Instruction, error) {
	if err := validateMultisigArgs(args.RequiredSigners, accounts.Signers); err != nil {
		return solana.Instruction{}, err
	}

	fixed := []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Multisig, false),
	}
	for _, s := range accounts.Signers {
		fixed = append(fixed, solana.NewReadonlyAccountMeta(s, false))
	}

	return newUnauthorizedInstruction(args, fixed, opts)
}

func validateMultisigArgs(required uint8, signers []ed25519.PublicKey) error {
	if len(signers) == 0 || len(signers) > MaxSigners {
		return errors.Wrapf(ErrInvalidNumberOfSigners, "got %d", len(signers))
	}
	if required == 0 || int(required) > len(signers) {
		return errors.Wrapf(ErrInvalidRequiredSigners, "%d of %d", required, len(signers))
	}
	return nil
}

type InitializeImmutableOwnerInstructionAccounts struct {
	Account ed25519.PublicKey
}

// NewInitializeImmutableOwnerInstruction marks an uninitialized token account
// as having an owner that can never change.
//
// Accounts expected by this instruction:
//
//   0. `[writable]`  The account to initialize.
func NewInitializeImmutableOwnerInstruction(accounts *InitializeImmutableOwnerInstructionAccounts, opts ...InstructionOption) (solana.Instruction, error) {
	return newUnauthorizedInstruction(&InitializeImmutableOwnerInstructionArgs{}, []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Account, false),
	}, opts)
}
