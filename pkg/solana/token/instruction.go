package token

import (
	"github.com/code-payments/spl-token-go/pkg/solana"
	"github.com/code-payments/spl-token-go/pkg/solana/system"
)

func newInstruction(args InstructionArgs, accounts []solana.AccountMeta, opts []InstructionOption) (solana.Instruction, error) {
	if err := ValidateInstructionArgs(args); err != nil {
		return solana.Instruction{}, err
	}

	return solana.Instruction{
		Program: applyInstructionOptions(opts).program,

		// Instruction args
		Data: MarshalInstructionArgs(args),

		// Instruction accounts
		Accounts: accounts,
	}, nil
}

// newAuthorizedInstruction builds an instruction whose fixed accounts are
// followed by the authority accounts.
func newAuthorizedInstruction(args InstructionArgs, fixed []solana.AccountMeta, authority Authority, opts []InstructionOption) (solana.Instruction, error) {
	if err := validateAccountKeys(fixed); err != nil {
		return solana.Instruction{}, err
	}

	accounts, err := appendAuthority(fixed, authority)
	if err != nil {
		return solana.Instruction{}, err
	}

	return newInstruction(args, accounts, opts)
}

func newUnauthorizedInstruction(args InstructionArgs, fixed []solana.AccountMeta, opts []InstructionOption) (solana.Instruction, error) {
	if err := validateAccountKeys(fixed); err != nil {
		return solana.Instruction{}, err
	}
	return newInstruction(args, fixed, opts)
}

func validateAccountKeys(accounts []solana.AccountMeta) error {
	for _, a := range accounts {
		if err := validateKeys(a.PublicKey); err != nil {
			return err
		}
	}
	return nil
}

func rentSysvarMeta() solana.AccountMeta {
	return solana.NewReadonlyAccountMeta(system.RentSysVar, false)
}
