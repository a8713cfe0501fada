package token

import (
	"crypto/ed25519"

	"github.com/code-payments/spl-token-go/pkg/solana"
)

type ApproveInstructionAccounts struct {
	Source    ed25519.PublicKey
	Delegate  ed25519.PublicKey
	Authority Authority
}

// NewApproveInstruction approves a delegate to transfer up to a maximum
// number of tokens from the source account.
//
// Accounts expected by this instruction:
//
//   0. `[writable]` The source account.
//   1. `[]` The delegate.
//   2. `[signer]` The source account owner, or the multisig followed by its
//      M signers.
func NewApproveInstruction(accounts *ApproveInstructionAccounts, args *ApproveInstructionArgs, opts ...InstructionOption) (solana.Instruction, error) {
	return newAuthorizedInstruction(args, []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Source, false),
		solana.NewReadonlyAccountMeta(accounts.Delegate, false),
	}, accounts.Authority, opts)
}

type ApproveCheckedInstructionAccounts struct {
	Source    ed25519.PublicKey
	Mint      ed25519.PublicKey
	Delegate  ed25519.PublicKey
	Authority Authority
}

// NewApproveCheckedInstruction is NewApproveInstruction with the mint and
// decimals asserted by the program.
//
// Accounts expected by this instruction:
//
//   0. `[writable]` The source account.
//   1. `[]` The token mint.
//   2. `[]` The delegate.
//   3. `[signer]` The source account owner, or the multisig followed by its
//      M signers.
func NewApproveCheckedInstruction(accounts *ApproveCheckedInstructionAccounts, args *ApproveCheckedInstructionArgs, opts ...InstructionOption) (solana.Instruction, error) {
	return newAuthorizedInstruction(args, []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Source, false),
		solana.NewReadonlyAccountMeta(accounts.Mint, false),
		solana.NewReadonlyAccountMeta(accounts.Delegate, false),
	}, accounts.Authority, opts)
}

type RevokeInstructionAccounts struct {
	Source    ed25519.PublicKey
	Authority Authority
}

// NewRevokeInstruction revokes the delegate's authority.
//
// Accounts expected by this instruction:
//
//   0. `[writable]` The source account.
//   1. `[signer]` The source account owner, or the multisig followed by its
//      M signers.
func NewRevokeInstruction(accounts *RevokeInstructionAccounts, opts ...InstructionOption) (solana.Instruction, error) {
	return newAuthorizedInstruction(&RevokeInstructionArgs{}, []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Source, false),
	}, accounts.Authority, opts)
}
