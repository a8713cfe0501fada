package token

import (
	"crypto/ed25519"

	"github.com/code-payments/spl-token-go/pkg/solana"
)

type TransferInstructionAccounts struct {
	Source      ed25519.PublicKey
	Destination ed25519.PublicKey
	Authority   Authority
}

// NewTransferInstruction transfers tokens from one account to another
// either directly or via a delegate.
//
// Accounts expected by this instruction:
//
//   * Single owner/delegate
//   0. `[writable]` The source account.
//   1. `[writable]` The destination account.
//   2. `[signer]` The source account's owner/delegate.
//
//   * Multisignature owner/delegate
//   0. `[writable]` The source account.
//   1. `[writable]` The destination account.
//   2. `[]` The source account's multisignature owner/delegate.
//   3. ..3+M `[signer]` M signer accounts.
func NewTransferInstruction(accounts *TransferInstructionAccounts, args *TransferInstructionArgs, opts ...InstructionOption) (solana.Instruction, error) {
	return newAuthorizedInstruction(args, []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Source, false),
		solana.NewAccountMeta(accounts.Destination, false),
	}, accounts.Authority, opts)
}

type TransferCheckedInstructionAccounts struct {
	Source      ed25519.PublicKey
	Mint        ed25519.PublicKey
	Destination ed25519.PublicKey
	Authority   Authority
}

// NewTransferCheckedInstruction is NewTransferInstruction with the mint and
// decimals asserted by the program.
//
// Accounts expected by this instruction:
//
//   0. `[writable]` The source account.
//   1. `[]` The token mint.
//   2. `[writable]` The destination account.
//   3. `[signer]` The source account's owner/delegate, or the multisig
//      followed by its M signers.
func NewTransferCheckedInstruction(accounts *TransferCheckedInstructionAccounts, args *TransferCheckedInstructionArgs, opts ...InstructionOption) (solana.Instruction, error) {
	return newAuthorizedInstruction(args, []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Source, false),
		solana.NewReadonlyAccountMeta(accounts.Mint, false),
		solana.NewAccountMeta(accounts.Destination, false),
	}, accounts.Authority, opts)
}
