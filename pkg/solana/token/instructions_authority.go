package token

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/spl-token-go/pkg/solana"
)

type SetAuthorityInstructionAccounts struct {
	Account   ed25519.PublicKey
	Authority Authority
}

// NewSetAuthorityInstruction sets a new authority of a mint or account. A nil
// NewAuthority removes the authority.
//
// Accounts expected by this instruction:
//
//   * Single authority
//   0. `[writable]` The mint or account to change the authority of.
//   1. `[signer]` The current authority of the mint or account.
//
//   * Multisignature authority
//   0. `[writable]` The mint or account to change the authority of.
//   1. `[]` The mint's or account's current multisignature authority.
//   2. ..2+M `[signer]` M signer accounts
func NewSetAuthorityInstruction(accounts *SetAuthorityInstructionAccounts, args *SetAuthorityInstructionArgs, opts ...InstructionOption) (solana.Instruction, error) {
	if !args.Type.valid() {
		return solana.Instruction{}, errors.Wrapf(ErrInvalidAuthorityType, "type %d", args.Type)
	}
	if args.NewAuthority != nil {
		if err := validateKeys(args.NewAuthority); err != nil {
			return solana.Instruction{}, errors.Wrap(err, "invalid new authority")
		}
	}

	return newAuthorizedInstruction(args, []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Account, false),
	}, accounts.Authority, opts)
}
