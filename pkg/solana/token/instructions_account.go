package token

import (
	"crypto/ed25519"

	"github.com/code-payments/spl-token-go/pkg/solana"
)

type CloseAccountInstructionAccounts struct {
	Account     ed25519.PublicKey
	Destination ed25519.PublicKey
	Authority   Authority
}

// NewCloseAccountInstruction closes an account by transferring all its SOL
// to the destination account. Non-native accounts may only be closed if
// their token amount is zero.
//
// Accounts expected by this instruction:
//
//   0. `[writable]` The account to close.
//   1. `[writable]` The destination account.
//   2. `[signer]` The account's owner, or the multisig followed by its M
//      signers.
func NewCloseAccountInstruction(accounts *CloseAccountInstructionAccounts, opts ...InstructionOption) (solana.Instruction, error) {
	return newAuthorizedInstruction(&CloseAccountInstructionArgs{}, []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Account, false),
		solana.NewAccountMeta(accounts.Destination, false),
	}, accounts.Authority, opts)
}

type FreezeAccountInstructionAccounts struct {
	Account   ed25519.PublicKey
	Mint      ed25519.PublicKey
	Authority Authority
}

// NewFreezeAccountInstruction freezes an initialized account using the
// mint's freeze authority.
//
// Accounts expected by this instruction:
//
//   0. `[writable]` The account to freeze.
//   1. `[]` The token mint.
//   2. `[signer]` The mint freeze authority, or the multisig followed by its
//      M signers.
func NewFreezeAccountInstruction(accounts *FreezeAccountInstructionAccounts, opts ...InstructionOption) (solana.Instruction, error) {
	return newAuthorizedInstruction(&FreezeAccountInstructionArgs{}, freezeAccounts(accounts), accounts.Authority, opts)
}

// NewThawAccountInstruction thaws a frozen account using the mint's freeze
// authority. Accounts match NewFreezeAccountInstruction.
func NewThawAccountInstruction(accounts *FreezeAccountInstructionAccounts, opts ...InstructionOption) (solana.Instruction, error) {
	return newAuthorizedInstruction(&ThawAccountInstructionArgs{}, freezeAccounts(accounts), accounts.Authority, opts)
}

func freezeAccounts(accounts *FreezeAccountInstructionAccounts) []solana.AccountMeta {
	return []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Account, false),
		solana.NewReadonlyAccountMeta(accounts.Mint, false),
	}
}

type SyncNativeInstructionAccounts struct {
	Account ed25519.PublicKey
}

// NewSyncNativeInstruction updates a native token account's amount to match
// its lamport balance minus the rent exempt reserve.
//
// Accounts expected by this instruction:
//
//   0. `[writable]` The native token account to sync.
func NewSyncNativeInstruction(accounts *SyncNativeInstructionAccounts, opts ...InstructionOption) (solana.Instruction, error) {
	return newUnauthorizedInstruction(&SyncNativeInstructionArgs{}, []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Account, false),
	}, opts)
}
