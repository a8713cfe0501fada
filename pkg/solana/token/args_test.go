package token

import (
	"crypto/ed25519"
	"math"
	"testing"
	"testing/quick"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/spl-token-go/pkg/solana/binary"
	"github.com/code-payments/spl-token-go/pkg/testutil"
)

func TestMarshalInstructionArgs_Transfer(t *testing.T) {
	data := MarshalInstructionArgs(&TransferInstructionArgs{Amount: 1_000_000})
	assert.Equal(t, []byte{0x03, 0x40, 0x42, 0x0f, 0, 0, 0, 0, 0}, data)

	for _, amount := range []uint64{0, 1, 1_000_000, math.MaxUint32 + 1, math.MaxUint64} {
		data := MarshalInstructionArgs(&TransferInstructionArgs{Amount: amount})
		require.Len(t, data, 9)

		args, err := UnmarshalInstructionArgs(data)
		require.NoError(t, err)
		assert.Equal(t, &TransferInstructionArgs{Amount: amount}, args)
	}
}

func TestMarshalInstructionArgs_AmountRoundTrip(t *testing.T) {
	transfer := func(amount uint64) bool {
		args, err := UnmarshalInstructionArgs(MarshalInstructionArgs(&TransferInstructionArgs{Amount: amount}))
		return err == nil && args.(*TransferInstructionArgs).Amount == amount
	}
	require.NoError(t, quick.Check(transfer, &quick.Config{MaxCount: 10_000}))

	checked := func(amount uint64, decimals uint8) bool {
		expected := &TransferCheckedInstructionArgs{Amount: amount, Decimals: decimals}
		args, err := UnmarshalInstructionArgs(MarshalInstructionArgs(expected))
		return err == nil && *args.(*TransferCheckedInstructionArgs) == *expected
	}
	require.NoError(t, quick.Check(checked, nil))
}

func TestValidateInstructionArgs(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)
	short := keys[0][:31]

	for _, args := range []InstructionArgs{
		&TransferInstructionArgs{Amount: 1},
		&InitializeMint2InstructionArgs{Decimals: 6, MintAuthority: keys[0]},
		&InitializeAccount3InstructionArgs{Owner: keys[1]},
		&SetAuthorityInstructionArgs{Type: AuthorityTypeCloseAccount},
		&UiAmountToAmountInstructionArgs{UiAmount: "1.5"},
	} {
		assert.NoError(t, ValidateInstructionArgs(args), args.Command().String())
	}

	for _, args := range []InstructionArgs{
		&InitializeMintInstructionArgs{Decimals: 6},
		&InitializeMint2InstructionArgs{MintAuthority: keys[0], FreezeAuthority: short},
		&InitializeAccount2InstructionArgs{Owner: short},
		&InitializeAccount3InstructionArgs{Owner: append(keys[1][:32:32], 0)},
		&SetAuthorityInstructionArgs{Type: AuthorityTypeAccountHolder, NewAuthority: short},
	} {
		assert.Equal(t, ErrInvalidPublicKey, errors.Cause(ValidateInstructionArgs(args)), args.Command().String())
	}

	err := ValidateInstructionArgs(&SetAuthorityInstructionArgs{Type: 9})
	assert.Equal(t, ErrInvalidAuthorityType, errors.Cause(err))

	err = ValidateInstructionArgs(&UiAmountToAmountInstructionArgs{UiAmount: string([]byte{0xff, 0xfe})})
	assert.Equal(t, ErrInvalidUiAmount, err)

	err = ValidateInstructionArgs(nil)
	assert.Equal(t, ErrInvalidInstructionData, errors.Cause(err))
}

func TestMarshalInstructionArgs_Sizes(t *testing.T) {
	key := testutil.GenerateSolanaKeys(t, 1)[0]

	for _, tc := range []struct {
		args InstructionArgs
		size int
	}{
		{&InitializeMintInstructionArgs{MintAuthority: key}, 67},
		{&InitializeAccountInstructionArgs{}, 1},
		{&InitializeMultisigInstructionArgs{RequiredSigners: 2}, 2},
		{&ApproveInstructionArgs{Amount: 1}, 9},
		{&RevokeInstructionArgs{}, 1},
		{&SetAuthorityInstructionArgs{Type: AuthorityTypeCloseAccount}, 35},
		{&MintToInstructionArgs{Amount: 1}, 9},
		{&BurnInstructionArgs{Amount: 1}, 9},
		{&CloseAccountInstructionArgs{}, 1},
		{&FreezeAccountInstructionArgs{}, 1},
		{&ThawAccountInstructionArgs{}, 1},
		{&TransferCheckedInstructionArgs{Amount: 1, Decimals: 6}, 10},
		{&ApproveCheckedInstructionArgs{Amount: 1, Decimals: 6}, 10},
		{&MintToCheckedInstructionArgs{Amount: 1, Decimals: 6}, 10},
		{&BurnCheckedInstructionArgs{Amount: 1, Decimals: 6}, 10},
		{&InitializeAccount2InstructionArgs{Owner: key}, 33},
		{&SyncNativeInstructionArgs{}, 1},
		{&InitializeAccount3InstructionArgs{Owner: key}, 33},
		{&InitializeMultisig2InstructionArgs{RequiredSigners: 1}, 2},
		{&InitializeMint2InstructionArgs{MintAuthority: key, FreezeAuthority: key}, 67},
		{&GetAccountDataSizeInstructionArgs{}, 1},
		{&InitializeImmutableOwnerInstructionArgs{}, 1},
		{&AmountToUiAmountInstructionArgs{Amount: 1}, 9},
		{&UiAmountToAmountInstructionArgs{UiAmount: "1.5"}, 4},
	} {
		data := MarshalInstructionArgs(tc.args)
		assert.Len(t, data, tc.size, tc.args.Command().String())
		assert.EqualValues(t, tc.args.Command(), data[0])

		decoded, err := UnmarshalInstructionArgs(data)
		require.NoError(t, err, tc.args.Command().String())
		assert.Equal(t, tc.args, decoded)
	}
}

func TestMarshalInstructionArgs_CheckedLayout(t *testing.T) {
	data := MarshalInstructionArgs(&TransferCheckedInstructionArgs{Amount: 0x0102, Decimals: 9})
	assert.Equal(t, []byte{12, 0x02, 0x01, 0, 0, 0, 0, 0, 0, 9}, data)
}

func TestInitializeMintArgs_FreezeAuthority(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)

	data := MarshalInstructionArgs(&InitializeMintInstructionArgs{Decimals: 6, MintAuthority: keys[0]})
	assert.EqualValues(t, CommandInitializeMint, data[0])
	assert.EqualValues(t, 6, data[1])
	assert.EqualValues(t, keys[0], data[2:34])
	assert.EqualValues(t, 0, data[34])
	assert.Equal(t, make([]byte, 32), data[35:])

	data = MarshalInstructionArgs(&InitializeMintInstructionArgs{Decimals: 6, MintAuthority: keys[0], FreezeAuthority: keys[1]})
	assert.EqualValues(t, 1, data[34])
	assert.EqualValues(t, keys[1], data[35:])

	// An absent freeze authority may omit the zeroed slot.
	args, err := UnmarshalInstructionArgs(data[:35])
	require.Error(t, err)
	short := append([]byte{}, data[:34]...)
	short = append(short, 0)
	args, err = UnmarshalInstructionArgs(short)
	require.NoError(t, err)
	assert.Equal(t, &InitializeMintInstructionArgs{Decimals: 6, MintAuthority: keys[0]}, args)
}

func TestSetAuthorityArgs(t *testing.T) {
	key := testutil.GenerateSolanaKeys(t, 1)[0]

	data := MarshalInstructionArgs(&SetAuthorityInstructionArgs{Type: AuthorityTypeAccountHolder, NewAuthority: key})
	assert.Equal(t, []byte{6, 2, 1}, data[:3])
	assert.EqualValues(t, key, data[3:])

	data = MarshalInstructionArgs(&SetAuthorityInstructionArgs{Type: AuthorityTypeFreezeAccount})
	assert.Equal(t, append([]byte{6, 1, 0}, make([]byte, 32)...), data)

	args, err := UnmarshalInstructionArgs([]byte{6, 3, 0})
	require.NoError(t, err)
	assert.Equal(t, &SetAuthorityInstructionArgs{Type: AuthorityTypeCloseAccount}, args)

	_, err = UnmarshalInstructionArgs([]byte{6, 4, 0})
	assert.Equal(t, ErrInvalidInstructionData, errors.Cause(err))

	_, err = UnmarshalInstructionArgs(append([]byte{6, 0, 2}, make([]byte, 32)...))
	assert.Equal(t, ErrInvalidInstructionData, errors.Cause(err))
}

func TestUnmarshalInstructionArgs_Invalid(t *testing.T) {
	_, err := UnmarshalInstructionArgs(nil)
	assert.Equal(t, ErrInvalidInstructionData, errors.Cause(err))

	_, err = UnmarshalInstructionArgs([]byte{25})
	assert.Equal(t, ErrUnknownCommand, errors.Cause(err))

	_, err = UnmarshalInstructionArgs([]byte{byte(CommandTransfer), 1, 2, 3})
	assert.Equal(t, ErrInvalidInstructionData, errors.Cause(err))

	_, err = UnmarshalInstructionArgs([]byte{byte(CommandRevoke), 0})
	assert.Equal(t, ErrInvalidInstructionData, errors.Cause(err))

	_, err = UnmarshalInstructionArgs([]byte{byte(CommandUiAmountToAmount), 0xff, 0xfe})
	assert.Equal(t, ErrInvalidInstructionData, errors.Cause(err))
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "Transfer", CommandTransfer.String())
	assert.Equal(t, "UiAmountToAmount", CommandUiAmountToAmount.String())
	assert.Equal(t, "Unknown(255)", CommandUnknown.String())
}

func TestInstructionOptionalKey(t *testing.T) {
	var key ed25519.PublicKey

	offset := 0
	require.NoError(t, getInstructionOptionalKey([]byte{0}, &key, &offset))
	assert.Nil(t, key)
	assert.Equal(t, 1, offset)

	offset = 0
	err := getInstructionOptionalKey([]byte{1}, &key, &offset)
	assert.Equal(t, binary.ErrShortBuffer, errors.Cause(err))
}
