package token

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/code-payments/spl-token-go/pkg/solana"
)

// ProgramKey is the address of the SPL token program.
//
// Current key: TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA
var ProgramKey = ed25519.PublicKey{6, 221, 246, 225, 215, 101, 161, 147, 217, 203, 225, 70, 206, 235, 121, 172, 28, 180, 133, 237, 95, 91, 55, 145, 58, 140, 245, 133, 126, 255, 0, 169}

// MaxSigners is the maximum number of signers a multisig account may have.
const MaxSigners = 11

// Command is the leading byte of every token instruction.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/master/token/program/src/instruction.rs
type Command byte

const (
	CommandInitializeMint Command = iota
	CommandInitializeAccount
	CommandInitializeMultisig
	CommandTransfer
	CommandApprove
	CommandRevoke
	CommandSetAuthority
	CommandMintTo
	CommandBurn
	CommandCloseAccount
	CommandFreezeAccount
	CommandThawAccount
	CommandTransferChecked
	CommandApproveChecked
	CommandMintToChecked
	CommandBurnChecked
	CommandInitializeAccount2
	CommandSyncNative
	CommandInitializeAccount3
	CommandInitializeMultisig2
	CommandInitializeMint2
	CommandGetAccountDataSize
	CommandInitializeImmutableOwner
	CommandAmountToUiAmount
	CommandUiAmountToAmount

	CommandUnknown = Command(math.MaxUint8)
)

var commandNames = [...]string{
	"InitializeMint",
	"InitializeAccount",
	"InitializeMultisig",
	"Transfer",
	"Approve",
	"Revoke",
	"SetAuthority",
	"MintTo",
	"Burn",
	"CloseAccount",
	"FreezeAccount",
	"ThawAccount",
	"TransferChecked",
	"ApproveChecked",
	"MintToChecked",
	"BurnChecked",
	"InitializeAccount2",
	"SyncNative",
	"InitializeAccount3",
	"InitializeMultisig2",
	"InitializeMint2",
	"GetAccountDataSize",
	"InitializeImmutableOwner",
	"AmountToUiAmount",
	"UiAmountToAmount",
}

func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return fmt.Sprintf("Unknown(%d)", byte(c))
}

// Custom program errors returned by the token program.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/master/token/program/src/error.rs
const (
	ErrorNotRentExempt solana.CustomError = iota
	ErrorInsufficientFunds
	ErrorInvalidMint
	ErrorMintMismatch
	ErrorOwnerMismatch
	ErrorFixedSupply
	ErrorAlreadyInUse
	ErrorInvalidNumberOfProvidedSigners
	ErrorInvalidNumberOfRequiredSigners
	ErrorUninitializedState
	ErrorNativeNotSupported
	ErrorNonNativeHasBalance
	ErrorInvalidInstruction
	ErrorInvalidState
	ErrorOverflow
	ErrorAuthorityTypeNotSupported
	ErrorMintCannotFreeze
	ErrorAccountFrozen
	ErrorMintDecimalsMismatch
	ErrorNonNativeNotSupported
)

// GetCommand returns the command of the token instruction at index.
func GetCommand(m solana.Message, index int, opts ...InstructionOption) (Command, error) {
	if index < 0 || index >= len(m.Instructions) {
		return CommandUnknown, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]
	if int(i.ProgramIndex) >= len(m.Accounts) {
		return CommandUnknown, errors.Errorf("program index %d out of range", i.ProgramIndex)
	}
	if !bytes.Equal(m.Accounts[i.ProgramIndex], applyInstructionOptions(opts).program) {
		return CommandUnknown, solana.ErrIncorrectProgram
	}
	if len(i.Data) == 0 {
		return CommandUnknown, errors.Wrap(ErrInvalidInstructionData, "token instruction missing data")
	}

	return Command(i.Data[0]), nil
}

// InstructionOption configures instruction construction and decoding.
type InstructionOption func(*instructionOptions)

type instructionOptions struct {
	program ed25519.PublicKey
}

// WithProgram targets a token program deployed at a different address.
func WithProgram(program ed25519.PublicKey) InstructionOption {
	return func(o *instructionOptions) {
		o.program = program
	}
}

func applyInstructionOptions(opts []InstructionOption) instructionOptions {
	o := instructionOptions{program: ProgramKey}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
