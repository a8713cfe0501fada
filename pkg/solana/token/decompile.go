package token

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/spl-token-go/pkg/solana"
)

// DecompiledInstruction is a token instruction decoded from a message or an
// uncompiled instruction.
type DecompiledInstruction struct {
	Program  ed25519.PublicKey
	Args     InstructionArgs
	Accounts []solana.AccountMeta
}

// Command returns the decoded command.
func (d *DecompiledInstruction) Command() Command {
	return d.Args.Command()
}

// DecompileInstruction decodes the token instruction at index in m.
func DecompileInstruction(m solana.Message, index int, opts ...InstructionOption) (*DecompiledInstruction, error) {
	if index < 0 || index >= len(m.Instructions) {
		return nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]
	if int(i.ProgramIndex) >= len(m.Accounts) {
		return nil, errors.Errorf("program index %d out of range", i.ProgramIndex)
	}

	accounts := make([]solana.AccountMeta, len(i.Accounts))
	for n, a := range i.Accounts {
		if int(a) >= len(m.Accounts) {
			return nil, errors.Errorf("account index %d out of range", a)
		}
		accounts[n] = solana.AccountMeta{
			PublicKey:  m.Accounts[a],
			IsSigner:   m.IsSigner(int(a)),
			IsWritable: m.IsWritable(int(a)),
		}
	}

	return DecodeInstruction(solana.Instruction{
		Program:  m.Accounts[i.ProgramIndex],
		Accounts: accounts,
		Data:     i.Data,
	}, opts...)
}

// DecodeInstruction decodes a token instruction that has not been compiled
// into a message.
func DecodeInstruction(i solana.Instruction, opts ...InstructionOption) (*DecompiledInstruction, error) {
	if !bytes.Equal(i.Program, applyInstructionOptions(opts).program) {
		return nil, solana.ErrIncorrectProgram
	}

	args, err := UnmarshalInstructionArgs(i.Data)
	if err != nil {
		return nil, err
	}

	if required := minAccounts(args); len(i.Accounts) < required {
		return nil, errors.Wrapf(ErrInvalidNumberOfAccounts, "%s requires at least %d, got %d", args.Command(), required, len(i.Accounts))
	}

	return &DecompiledInstruction{
		Program:  i.Program,
		Args:     args,
		Accounts: i.Accounts,
	}, nil
}

// minAccounts is the number of fixed accounts, plus one for commands that
// require an authority or multisig signer.
func minAccounts(args InstructionArgs) int {
	switch args.Command() {
	case CommandInitializeAccount, CommandTransferChecked, CommandApproveChecked:
		return 4
	case CommandInitializeMultisig, CommandTransfer, CommandApprove, CommandMintTo, CommandBurn,
		CommandCloseAccount, CommandFreezeAccount, CommandThawAccount, CommandMintToChecked,
		CommandBurnChecked, CommandInitializeAccount2:
		return 3
	case CommandInitializeMint, CommandRevoke, CommandSetAuthority, CommandInitializeAccount3,
		CommandInitializeMultisig2:
		return 2
	default:
		return 1
	}
}

func decompileCommand(m solana.Message, index int, cmd Command, opts []InstructionOption) (*DecompiledInstruction, error) {
	actual, err := GetCommand(m, index, opts...)
	if err != nil {
		return nil, err
	}
	if actual != cmd {
		return nil, solana.ErrIncorrectInstruction
	}
	return DecompileInstruction(m, index, opts...)
}

// authorityAt reconstructs the authority from the accounts following the
// fixed accounts of an instruction.
func authorityAt(d *DecompiledInstruction, fixed int) (Authority, error) {
	return authorityFromAccounts(d.Accounts[fixed:])
}

func DecompileTransfer(m solana.Message, index int, opts ...InstructionOption) (*TransferInstructionAccounts, *TransferInstructionArgs, error) {
	d, err := decompileCommand(m, index, CommandTransfer, opts)
	if err != nil {
		return nil, nil, err
	}

	authority, err := authorityAt(d, 2)
	if err != nil {
		return nil, nil, err
	}

	return &TransferInstructionAccounts{
		Source:      d.Accounts[0].PublicKey,
		Destination: d.Accounts[1].PublicKey,
		Authority:   authority,
	}, d.Args.(*TransferInstructionArgs), nil
}

func DecompileTransferChecked(m solana.Message, index int, opts ...InstructionOption) (*TransferCheckedInstructionAccounts, *TransferCheckedInstructionArgs, error) {
	d, err := decompileCommand(m, index, CommandTransferChecked, opts)
	if err != nil {
		return nil, nil, err
	}

	authority, err := authorityAt(d, 3)
	if err != nil {
		return nil, nil, err
	}

	return &TransferCheckedInstructionAccounts{
		Source:      d.Accounts[0].PublicKey,
		Mint:        d.Accounts[1].PublicKey,
		Destination: d.Accounts[2].PublicKey,
		Authority:   authority,
	}, d.Args.(*TransferCheckedInstructionArgs), nil
}

func DecompileInitializeAccount(m solana.Message, index int, opts ...InstructionOption) (*InitializeAccountInstructionAccounts, error) {
	d, err := decompileCommand(m, index, CommandInitializeAccount, opts)
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(d.Accounts[3].PublicKey, rentSysvarMeta().PublicKey) {
		return nil, errors.Errorf("invalid rent sysvar %s", d.Accounts[3])
	}

	return &InitializeAccountInstructionAccounts{
		Account: d.Accounts[0].PublicKey,
		Mint:    d.Accounts[1].PublicKey,
		Owner:   d.Accounts[2].PublicKey,
	}, nil
}

func DecompileSetAuthority(m solana.Message, index int, opts ...InstructionOption) (*SetAuthorityInstructionAccounts, *SetAuthorityInstructionArgs, error) {
	d, err := decompileCommand(m, index, CommandSetAuthority, opts)
	if err != nil {
		return nil, nil, err
	}

	authority, err := authorityAt(d, 1)
	if err != nil {
		return nil, nil, err
	}

	return &SetAuthorityInstructionAccounts{
		Account:   d.Accounts[0].PublicKey,
		Authority: authority,
	}, d.Args.(*SetAuthorityInstructionArgs), nil
}

func DecompileCloseAccount(m solana.Message, index int, opts ...InstructionOption) (*CloseAccountInstructionAccounts, error) {
	d, err := decompileCommand(m, index, CommandCloseAccount, opts)
	if err != nil {
		return nil, err
	}

	authority, err := authorityAt(d, 2)
	if err != nil {
		return nil, err
	}

	return &CloseAccountInstructionAccounts{
		Account:     d.Accounts[0].PublicKey,
		Destination: d.Accounts[1].PublicKey,
		Authority:   authority,
	}, nil
}

func DecompileMintTo(m solana.Message, index int, opts ...InstructionOption) (*MintToInstructionAccounts, *MintToInstructionArgs, error) {
	d, err := decompileCommand(m, index, CommandMintTo, opts)
	if err != nil {
		return nil, nil, err
	}

	authority, err := authorityAt(d, 2)
	if err != nil {
		return nil, nil, err
	}

	return &MintToInstructionAccounts{
		Mint:        d.Accounts[0].PublicKey,
		Destination: d.Accounts[1].PublicKey,
		Authority:   authority,
	}, d.Args.(*MintToInstructionArgs), nil
}

func DecompileBurn(m solana.Message, index int, opts ...InstructionOption) (*BurnInstructionAccounts, *BurnInstructionArgs, error) {
	d, err := decompileCommand(m, index, CommandBurn, opts)
	if err != nil {
		return nil, nil, err
	}

	authority, err := authorityAt(d, 2)
	if err != nil {
		return nil, nil, err
	}

	return &BurnInstructionAccounts{
		Account:   d.Accounts[0].PublicKey,
		Mint:      d.Accounts[1].PublicKey,
		Authority: authority,
	}, d.Args.(*BurnInstructionArgs), nil
}

func DecompileApprove(m solana.Message, index int, opts ...InstructionOption) (*ApproveInstructionAccounts, *ApproveInstructionArgs, error) {
	d, err := decompileCommand(m, index, CommandApprove, opts)
	if err != nil {
		return nil, nil, err
	}

	authority, err := authorityAt(d, 2)
	if err != nil {
		return nil, nil, err
	}

	return &ApproveInstructionAccounts{
		Source:    d.Accounts[0].PublicKey,
		Delegate:  d.Accounts[1].PublicKey,
		Authority: authority,
	}, d.Args.(*ApproveInstructionArgs), nil
}
