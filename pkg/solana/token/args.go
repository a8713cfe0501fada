package token

import (
	"crypto/ed25519"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/code-payments/spl-token-go/pkg/solana/binary"
)

// AuthorityType selects which authority SetAuthority replaces.
type AuthorityType byte

const (
	AuthorityTypeMintTokens AuthorityType = iota
	AuthorityTypeFreezeAccount
	AuthorityTypeAccountHolder
	AuthorityTypeCloseAccount
)

func (t AuthorityType) valid() bool {
	return t <= AuthorityTypeCloseAccount
}

const (
	amountSize = 8
	keySize    = ed25519.PublicKeySize
	optKeySize = binary.InstructionOptionSize + keySize
)

// InstructionArgs is the payload of a token instruction. Every command has
// exactly one InstructionArgs implementation.
type InstructionArgs interface {
	Command() Command

	size() int
	marshal(dst []byte, offset *int)
	unmarshal(src []byte, offset *int) error
}

type InitializeMintInstructionArgs struct {
	Decimals        uint8
	MintAuthority   ed25519.PublicKey
	FreezeAuthority ed25519.PublicKey
}

type InitializeAccountInstructionArgs struct{}

type InitializeMultisigInstructionArgs struct {
	RequiredSigners uint8
}

type TransferInstructionArgs struct {
	Amount uint64
}

type ApproveInstructionArgs struct {
	Amount uint64
}

type RevokeInstructionArgs struct{}

type SetAuthorityInstructionArgs struct {
	Type         AuthorityType
	NewAuthority ed25519.PublicKey
}

type MintToInstructionArgs struct {
	Amount uint64
}

type BurnInstructionArgs struct {
	Amount uint64
}

type CloseAccountInstructionArgs struct{}

type FreezeAccountInstructionArgs struct{}

type ThawAccountInstructionArgs struct{}

type TransferCheckedInstructionArgs struct {
	Amount   uint64
	Decimals uint8
}

type ApproveCheckedInstructionArgs struct {
	Amount   uint64
	Decimals uint8
}

type MintToCheckedInstructionArgs struct {
	Amount   uint64
	Decimals uint8
}

type BurnCheckedInstructionArgs struct {
	Amount   uint64
	Decimals uint8
}

type InitializeAccount2InstructionArgs struct {
	Owner ed25519.PublicKey
}

type SyncNativeInstructionArgs struct{}

type InitializeAccount3InstructionArgs struct {
	Owner ed25519.PublicKey
}

type InitializeMultisig2InstructionArgs struct {
	RequiredSigners uint8
}

type InitializeMint2InstructionArgs struct {
	Decimals        uint8
	MintAuthority   ed25519.PublicKey
	FreezeAuthority ed25519.PublicKey
}

type GetAccountDataSizeInstructionArgs struct{}

type InitializeImmutableOwnerInstructionArgs struct{}

type AmountToUiAmountInstructionArgs struct {
	Amount uint64
}

// UiAmountToAmountInstructionArgs carries a decimal string. It is the only
// payload with a variable length and runs to the end of the data.
type UiAmountToAmountInstructionArgs struct {
	UiAmount string
}

func newInstructionArgs(cmd Command) InstructionArgs {
	switch cmd {
	case CommandInitializeMint:
		return &InitializeMintInstructionArgs{}
	case CommandInitializeAccount:
		return &InitializeAccountInstructionArgs{}
	case CommandInitializeMultisig:
		return &InitializeMultisigInstructionArgs{}
	case CommandTransfer:
		return &TransferInstructionArgs{}
	case CommandApprove:
		return &ApproveInstructionArgs{}
	case CommandRevoke:
		return &RevokeInstructionArgs{}
	case CommandSetAuthority:
		return &SetAuthorityInstructionArgs{}
	case CommandMintTo:
		return &MintToInstructionArgs{}
	case CommandBurn:
		return &BurnInstructionArgs{}
	case CommandCloseAccount:
		return &CloseAccountInstructionArgs{}
	case CommandFreezeAccount:
		return &FreezeAccountInstructionArgs{}
	case CommandThawAccount:
		return &ThawAccountInstructionArgs{}
	case CommandTransferChecked:
		return &TransferCheckedInstructionArgs{}
	case CommandApproveChecked:
		return &ApproveCheckedInstructionArgs{}
	case CommandMintToChecked:
		return &MintToCheckedInstructionArgs{}
	case CommandBurnChecked:
		return &BurnCheckedInstructionArgs{}
	case CommandInitializeAccount2:
		return &InitializeAccount2InstructionArgs{}
	case CommandSyncNative:
		return &SyncNativeInstructionArgs{}
	case CommandInitializeAccount3:
		return &InitializeAccount3InstructionArgs{}
	case CommandInitializeMultisig2:
		return &InitializeMultisig2InstructionArgs{}
	case CommandInitializeMint2:
		return &InitializeMint2InstructionArgs{}
	case CommandGetAccountDataSize:
		return &GetAccountDataSizeInstructionArgs{}
	case CommandInitializeImmutableOwner:
		return &InitializeImmutableOwnerInstructionArgs{}
	case CommandAmountToUiAmount:
		return &AmountToUiAmountInstructionArgs{}
	case CommandUiAmountToAmount:
		return &UiAmountToAmountInstructionArgs{}
	default:
		return nil
	}
}

// ValidateInstructionArgs reports whether args can be encoded without loss.
// Keys must be 32 bytes and a UiAmount must be valid utf-8.
func ValidateInstructionArgs(args InstructionArgs) error {
	switch a := args.(type) {
	case *InitializeMintInstructionArgs:
		return validateMintArgs(a.MintAuthority, a.FreezeAuthority)
	case *InitializeMint2InstructionArgs:
		return validateMintArgs(a.MintAuthority, a.FreezeAuthority)
	case *InitializeAccount2InstructionArgs:
		return errors.Wrap(validateKeys(a.Owner), "invalid owner")
	case *InitializeAccount3InstructionArgs:
		return errors.Wrap(validateKeys(a.Owner), "invalid owner")
	case *SetAuthorityInstructionArgs:
		if !a.Type.valid() {
			return errors.Wrapf(ErrInvalidAuthorityType, "type %d", a.Type)
		}
		if a.NewAuthority != nil {
			return errors.Wrap(validateKeys(a.NewAuthority), "invalid new authority")
		}
	case *UiAmountToAmountInstructionArgs:
		if !utf8.ValidString(a.UiAmount) {
			return ErrInvalidUiAmount
		}
	case nil:
		return errors.Wrap(ErrInvalidInstructionData, "missing instruction args")
	}
	return nil
}

// MarshalInstructionArgs encodes the command byte followed by the payload.
// Args must pass ValidateInstructionArgs: keys of the wrong length are
// truncated or zero padded. The New*Instruction builders validate first.
func MarshalInstructionArgs(args InstructionArgs) []byte {
	data := make([]byte, 1+args.size())
	data[0] = byte(args.Command())

	offset := 1
	args.marshal(data, &offset)
	return data
}

// UnmarshalInstructionArgs decodes instruction data produced by
// MarshalInstructionArgs. The returned value is a pointer to the args type
// of the encoded command.
func UnmarshalInstructionArgs(data []byte) (InstructionArgs, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrInvalidInstructionData, "empty instruction data")
	}

	args := newInstructionArgs(Command(data[0]))
	if args == nil {
		return nil, errors.Wrapf(ErrUnknownCommand, "command %d", data[0])
	}

	offset := 1
	if err := args.unmarshal(data, &offset); err != nil {
		return nil, errors.Wrapf(ErrInvalidInstructionData, "%s: %v", args.Command(), err)
	}
	if offset != len(data) {
		return nil, errors.Wrapf(ErrInvalidInstructionData, "%s: %d trailing bytes", args.Command(), len(data)-offset)
	}
	return args, nil
}

func (*InitializeMintInstructionArgs) Command() Command { return CommandInitializeMint }
func (*InitializeAccountInstructionArgs) Command() Command { return CommandInitializeAccount }
func (*InitializeMultisigInstructionArgs) Command() Command { return CommandInitializeMultisig }
func (*TransferInstructionArgs) Command() Command { return CommandTransfer }
func (*ApproveInstructionArgs) Command() Command { return CommandApprove }
func (*RevokeInstructionArgs) Command() Command { return CommandRevoke }
func (*SetAuthorityInstructionArgs) Command() Command { return CommandSetAuthority }
func (*MintToInstructionArgs) Command() Command { return CommandMintTo }
func (*BurnInstructionArgs) Command() Command { return CommandBurn }
func (*CloseAccountInstructionArgs) Command() Command { return CommandCloseAccount }
func (*FreezeAccountInstructionArgs) Command() Command { return CommandFreezeAccount }
func (*ThawAccountInstructionArgs) Command() Command { return CommandThawAccount }
func (*TransferCheckedInstructionArgs) Command() Command { return CommandTransferChecked }
func (*ApproveCheckedInstructionArgs) Command() Command { return CommandApproveChecked }
func (*MintToCheckedInstructionArgs) Command() Command { return CommandMintToChecked }
func (*BurnCheckedInstructionArgs) Command() Command { return CommandBurnChecked }
func (*InitializeAccount2InstructionArgs) Command() Command { return CommandInitializeAccount2 }
func (*SyncNativeInstructionArgs) Command() Command { return CommandSyncNative }
func (*InitializeAccount3InstructionArgs) Command() Command { return CommandInitializeAccount3 }
func (*InitializeMultisig2InstructionArgs) Command() Command { return CommandInitializeMultisig2 }
func (*InitializeMint2InstructionArgs) Command() Command { return CommandInitializeMint2 }
func (*GetAccountDataSizeInstructionArgs) Command() Command { return CommandGetAccountDataSize }
func (*InitializeImmutableOwnerInstructionArgs) Command() Command { return CommandInitializeImmutableOwner }
func (*AmountToUiAmountInstructionArgs) Command() Command { return CommandAmountToUiAmount }
func (*UiAmountToAmountInstructionArgs) Command() Command { return CommandUiAmountToAmount }

// Payloads without fields.

func (*InitializeAccountInstructionArgs) size() int { return 0 }
func (*RevokeInstructionArgs) size() int { return 0 }
func (*CloseAccountInstructionArgs) size() int { return 0 }
func (*FreezeAccountInstructionArgs) size() int { return 0 }
func (*ThawAccountInstructionArgs) size() int { return 0 }
func (*SyncNativeInstructionArgs) size() int { return 0 }
func (*GetAccountDataSizeInstructionArgs) size() int { return 0 }
func (*InitializeImmutableOwnerInstructionArgs) size() int { return 0 }

func (*InitializeAccountInstructionArgs) marshal([]byte, *int) {}
func (*RevokeInstructionArgs) marshal([]byte, *int) {}
func (*CloseAccountInstructionArgs) marshal([]byte, *int) {}
func (*FreezeAccountInstructionArgs) marshal([]byte, *int) {}
func (*ThawAccountInstructionArgs) marshal([]byte, *int) {}
func (*SyncNativeInstructionArgs) marshal([]byte, *int) {}
func (*GetAccountDataSizeInstructionArgs) marshal([]byte, *int) {}
func (*InitializeImmutableOwnerInstructionArgs) marshal([]byte, *int) {}

func (*InitializeAccountInstructionArgs) unmarshal([]byte, *int) error { return nil }
func (*RevokeInstructionArgs) unmarshal([]byte, *int) error { return nil }
func (*CloseAccountInstructionArgs) unmarshal([]byte, *int) error { return nil }
func (*FreezeAccountInstructionArgs) unmarshal([]byte, *int) error { return nil }
func (*ThawAccountInstructionArgs) unmarshal([]byte, *int) error { return nil }
func (*SyncNativeInstructionArgs) unmarshal([]byte, *int) error { return nil }
func (*GetAccountDataSizeInstructionArgs) unmarshal([]byte, *int) error { return nil }
func (*InitializeImmutableOwnerInstructionArgs) unmarshal([]byte, *int) error { return nil }

// Amount payloads.

func (*TransferInstructionArgs) size() int { return amountSize }
func (*ApproveInstructionArgs) size() int { return amountSize }
func (*MintToInstructionArgs) size() int { return amountSize }
func (*BurnInstructionArgs) size() int { return amountSize }
func (*AmountToUiAmountInstructionArgs) size() int { return amountSize }

func (a *TransferInstructionArgs) marshal(dst []byte, offset *int) {
	binary.PutUint64(dst, a.Amount, offset)
}
func (a *ApproveInstructionArgs) marshal(dst []byte, offset *int) {
	binary.PutUint64(dst, a.Amount, offset)
}
func (a *MintToInstructionArgs) marshal(dst []byte, offset *int) {
	binary.PutUint64(dst, a.Amount, offset)
}
func (a *BurnInstructionArgs) marshal(dst []byte, offset *int) {
	binary.PutUint64(dst, a.Amount, offset)
}
func (a *AmountToUiAmountInstructionArgs) marshal(dst []byte, offset *int) {
	binary.PutUint64(dst, a.Amount, offset)
}

func (a *TransferInstructionArgs) unmarshal(src []byte, offset *int) error {
	return binary.GetUint64(src, &a.Amount, offset)
}
func (a *ApproveInstructionArgs) unmarshal(src []byte, offset *int) error {
	return binary.GetUint64(src, &a.Amount, offset)
}
func (a *MintToInstructionArgs) unmarshal(src []byte, offset *int) error {
	return binary.GetUint64(src, &a.Amount, offset)
}
func (a *BurnInstructionArgs) unmarshal(src []byte, offset *int) error {
	return binary.GetUint64(src, &a.Amount, offset)
}
func (a *AmountToUiAmountInstructionArgs) unmarshal(src []byte, offset *int) error {
	return binary.GetUint64(src, &a.Amount, offset)
}

// Checked amount payloads: amount followed by the mint's decimals.

func (*TransferCheckedInstructionArgs) size() int { return amountSize + 1 }
func (*ApproveCheckedInstructionArgs) size() int { return amountSize + 1 }
func (*MintToCheckedInstructionArgs) size() int { return amountSize + 1 }
func (*BurnCheckedInstructionArgs) size() int { return amountSize + 1 }

func (a *TransferCheckedInstructionArgs) marshal(dst []byte, offset *int) {
	putChecked(dst, a.Amount, a.Decimals, offset)
}
func (a *ApproveCheckedInstructionArgs) marshal(dst []byte, offset *int) {
	putChecked(dst, a.Amount, a.Decimals, offset)
}
func (a *MintToCheckedInstructionArgs) marshal(dst []byte, offset *int) {
	putChecked(dst, a.Amount, a.Decimals, offset)
}
func (a *BurnCheckedInstructionArgs) marshal(dst []byte, offset *int) {
	putChecked(dst, a.Amount, a.Decimals, offset)
}

func (a *TransferCheckedInstructionArgs) unmarshal(src []byte, offset *int) error {
	return getChecked(src, &a.Amount, &a.Decimals, offset)
}
func (a *ApproveCheckedInstructionArgs) unmarshal(src []byte, offset *int) error {
	return getChecked(src, &a.Amount, &a.Decimals, offset)
}
func (a *MintToCheckedInstructionArgs) unmarshal(src []byte, offset *int) error {
	return getChecked(src, &a.Amount, &a.Decimals, offset)
}
func (a *BurnCheckedInstructionArgs) unmarshal(src []byte, offset *int) error {
	return getChecked(src, &a.Amount, &a.Decimals, offset)
}

func putChecked(dst []byte, amount uint64, decimals uint8, offset *int) {
	binary.PutUint64(dst, amount, offset)
	binary.PutUint8(dst, decimals, offset)
}

func getChecked(src []byte, amount *uint64, decimals *uint8, offset *int) error {
	if err := binary.GetUint64(src, amount, offset); err != nil {
		return err
	}
	return binary.GetUint8(src, decimals, offset)
}

// Mint initialization.

func (*InitializeMintInstructionArgs) size() int { return 1 + keySize + optKeySize }
func (*InitializeMint2InstructionArgs) size() int { return 1 + keySize + optKeySize }

func (a *InitializeMintInstructionArgs) marshal(dst []byte, offset *int) {
	putInitializeMint(dst, a.Decimals, a.MintAuthority, a.FreezeAuthority, offset)
}
func (a *InitializeMint2InstructionArgs) marshal(dst []byte, offset *int) {
	putInitializeMint(dst, a.Decimals, a.MintAuthority, a.FreezeAuthority, offset)
}

func (a *InitializeMintInstructionArgs) unmarshal(src []byte, offset *int) error {
	return getInitializeMint(src, &a.Decimals, &a.MintAuthority, &a.FreezeAuthority, offset)
}
func (a *InitializeMint2InstructionArgs) unmarshal(src []byte, offset *int) error {
	return getInitializeMint(src, &a.Decimals, &a.MintAuthority, &a.FreezeAuthority, offset)
}

func putInitializeMint(dst []byte, decimals uint8, mintAuthority, freezeAuthority ed25519.PublicKey, offset *int) {
	binary.PutUint8(dst, decimals, offset)
	binary.PutKey32(dst, mintAuthority, offset)
	binary.PutOptionalKey32(dst, freezeAuthority, offset, binary.InstructionOptionSize)
}

func getInitializeMint(src []byte, decimals *uint8, mintAuthority, freezeAuthority *ed25519.PublicKey, offset *int) error {
	if err := binary.GetUint8(src, decimals, offset); err != nil {
		return err
	}
	if err := binary.GetKey32(src, mintAuthority, offset); err != nil {
		return err
	}
	return getInstructionOptionalKey(src, freezeAuthority, offset)
}

// Multisig initialization.

func (*InitializeMultisigInstructionArgs) size() int { return 1 }
func (*InitializeMultisig2InstructionArgs) size() int { return 1 }

func (a *InitializeMultisigInstructionArgs) marshal(dst []byte, offset *int) {
	binary.PutUint8(dst, a.RequiredSigners, offset)
}
func (a *InitializeMultisig2InstructionArgs) marshal(dst []byte, offset *int) {
	binary.PutUint8(dst, a.RequiredSigners, offset)
}

func (a *InitializeMultisigInstructionArgs) unmarshal(src []byte, offset *int) error {
	return binary.GetUint8(src, &a.RequiredSigners, offset)
}
func (a *InitializeMultisig2InstructionArgs) unmarshal(src []byte, offset *int) error {
	return binary.GetUint8(src, &a.RequiredSigners, offset)
}

// Account initialization with the owner in the payload.

func (*InitializeAccount2InstructionArgs) size() int { return keySize }
func (*InitializeAccount3InstructionArgs) size() int { return keySize }

func (a *InitializeAccount2InstructionArgs) marshal(dst []byte, offset *int) {
	binary.PutKey32(dst, a.Owner, offset)
}
func (a *InitializeAccount3InstructionArgs) marshal(dst []byte, offset *int) {
	binary.PutKey32(dst, a.Owner, offset)
}

func (a *InitializeAccount2InstructionArgs) unmarshal(src []byte, offset *int) error {
	return binary.GetKey32(src, &a.Owner, offset)
}
func (a *InitializeAccount3InstructionArgs) unmarshal(src []byte, offset *int) error {
	return binary.GetKey32(src, &a.Owner, offset)
}

// SetAuthority.

func (*SetAuthorityInstructionArgs) size() int { return 1 + optKeySize }

func (a *SetAuthorityInstructionArgs) marshal(dst []byte, offset *int) {
	binary.PutUint8(dst, byte(a.Type), offset)
	binary.PutOptionalKey32(dst, a.NewAuthority, offset, binary.InstructionOptionSize)
}

func (a *SetAuthorityInstructionArgs) unmarshal(src []byte, offset *int) error {
	var t uint8
	if err := binary.GetUint8(src, &t, offset); err != nil {
		return err
	}
	a.Type = AuthorityType(t)
	if !a.Type.valid() {
		return errors.Wrapf(ErrInvalidAuthorityType, "type %d", t)
	}
	return getInstructionOptionalKey(src, &a.NewAuthority, offset)
}

// UiAmountToAmount.

func (a *UiAmountToAmountInstructionArgs) size() int { return len(a.UiAmount) }

func (a *UiAmountToAmountInstructionArgs) marshal(dst []byte, offset *int) {
	*offset += copy(dst[*offset:], a.UiAmount)
}

func (a *UiAmountToAmountInstructionArgs) unmarshal(src []byte, offset *int) error {
	rest := src[*offset:]
	if !utf8.Valid(rest) {
		return ErrInvalidUiAmount
	}
	a.UiAmount = string(rest)
	*offset = len(src)
	return nil
}

// getInstructionOptionalKey decodes a trailing COption<Pubkey>. An absent
// value may be encoded as the lone tag byte without the zeroed slot.
func getInstructionOptionalKey(src []byte, dst *ed25519.PublicKey, offset *int) error {
	if len(src)-*offset == binary.InstructionOptionSize && src[*offset] == 0 {
		*dst = nil
		*offset += binary.InstructionOptionSize
		return nil
	}
	return binary.GetOptionalKey32(src, dst, offset, binary.InstructionOptionSize)
}
