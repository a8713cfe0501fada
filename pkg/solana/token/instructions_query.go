package token

import (
	"crypto/ed25519"

	"github.com/code-payments/spl-token-go/pkg/solana"
)

// The instructions below only read the mint and return their result through
// the transaction's return data.

type MintQueryInstructionAccounts struct {
	Mint ed25519.PublicKey
}

// NewGetAccountDataSizeInstruction returns the size of a token account for
// the mint.
func NewGetAccountDataSizeInstruction(accounts *MintQueryInstructionAccounts, opts ...InstructionOption) (solana.Instruction, error) {
	return newUnauthorizedInstruction(&GetAccountDataSizeInstructionArgs{}, mintQueryAccounts(accounts), opts)
}

// NewAmountToUiAmountInstruction converts a raw amount into its decimal
// string using the mint's decimals.
func NewAmountToUiAmountInstruction(accounts *MintQueryInstructionAccounts, args *AmountToUiAmountInstructionArgs, opts ...InstructionOption) (solana.Instruction, error) {
	return newUnauthorizedInstruction(args, mintQueryAccounts(accounts), opts)
}

// NewUiAmountToAmountInstruction converts a decimal string into a raw amount
// using the mint's decimals.
func NewUiAmountToAmountInstruction(accounts *MintQueryInstructionAccounts, args *UiAmountToAmountInstructionArgs, opts ...InstructionOption) (solana.Instruction, error) {
	return newUnauthorizedInstruction(args, mintQueryAccounts(accounts), opts)
}

func mintQueryAccounts(accounts *MintQueryInstructionAccounts) []solana.AccountMeta {
	return []solana.AccountMeta{
		solana.NewReadonlyAccountMeta(accounts.Mint, false),
	}
}
