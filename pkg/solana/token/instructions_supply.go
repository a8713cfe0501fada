package token

import (
	"crypto/ed25519"

	"github.com/code-payments/spl-token-go/pkg/solana"
)

type MintToInstructionAccounts struct {
	Mint        ed25519.PublicKey
	Destination ed25519.PublicKey
	Authority   Authority
}

// NewMintToInstruction mints new tokens to an account.
//
// Accounts expected by this instruction:
//
//   0. `[writable]` The mint.
//   1. `[writable]` The account to mint tokens to.
//   2. `[signer]` The mint's minting authority, or the multisig followed by
//      its M signers.
func NewMintToInstruction(accounts *MintToInstructionAccounts, args *MintToInstructionArgs, opts ...InstructionOption) (solana.Instruction, error) {
	return newAuthorizedInstruction(args, mintToAccounts(accounts), accounts.Authority, opts)
}

// NewMintToCheckedInstruction is NewMintToInstruction with the decimals
// asserted by the program.
func NewMintToCheckedInstruction(accounts *MintToInstructionAccounts, args *MintToCheckedInstructionArgs, opts ...InstructionOption) (solana.Instruction, error) {
	return newAuthorizedInstruction(args, mintToAccounts(accounts), accounts.Authority, opts)
}

func mintToAccounts(accounts *MintToInstructionAccounts) []solana.AccountMeta {
	return []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Mint, false),
		solana.NewAccountMeta(accounts.Destination, false),
	}
}

type BurnInstructionAccounts struct {
	Account   ed25519.PublicKey
	Mint      ed25519.PublicKey
	Authority Authority
}

// NewBurnInstruction burns tokens by removing them from an account.
//
// Accounts expected by this instruction:
//
//   0. `[writable]` The account to burn from.
//   1. `[writable]` The token mint.
//   2. `[signer]` The account's owner/delegate, or the multisig followed by
//      its M signers.
func NewBurnInstruction(accounts *BurnInstructionAccounts, args *BurnInstructionArgs, opts ...InstructionOption) (solana.Instruction, error) {
	return newAuthorizedInstruction(args, burnAccounts(accounts), accounts.Authority, opts)
}

// NewBurnCheckedInstruction is NewBurnInstruction with the decimals asserted
// by the program.
func NewBurnCheckedInstruction(accounts *BurnInstructionAccounts, args *BurnCheckedInstructionArgs, opts ...InstructionOption) (solana.Instruction, error) {
	return newAuthorizedInstruction(args, burnAccounts(accounts), accounts.Authority, opts)
}

func burnAccounts(accounts *BurnInstructionAccounts) []solana.AccountMeta {
	return []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Account, false),
		solana.NewAccountMeta(accounts.Mint, false),
	}
}
