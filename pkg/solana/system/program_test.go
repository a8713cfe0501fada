package system

import (
	"crypto/ed25519"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/spl-token-go/pkg/solana"
	"github.com/code-payments/spl-token-go/pkg/testutil"
)

func TestProgramKeys(t *testing.T) {
	assert.Equal(t, "11111111111111111111111111111111", base58.Encode(ProgramKey))
	assert.Equal(t, "SysvarRent111111111111111111111111111111111", base58.Encode(RentSysVar))
}

func TestCreateAccount(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 3)

	instruction := CreateAccount(keys[0], keys[1], keys[2], 12345, 67890)

	require.Len(t, instruction.Data, 52)
	assert.Equal(t, make([]byte, 4), instruction.Data[0:4])
	assert.EqualValues(t, 12345, binary.LittleEndian.Uint64(instruction.Data[4:12]))
	assert.EqualValues(t, 67890, binary.LittleEndian.Uint64(instruction.Data[12:20]))
	assert.Equal(t, []byte(keys[2]), instruction.Data[20:52])

	require.Len(t, instruction.Accounts, 2)
	for i, a := range instruction.Accounts {
		assert.Equal(t, keys[i], a.PublicKey)
		assert.True(t, a.IsSigner)
		assert.True(t, a.IsWritable)
	}

	var tx solana.Transaction
	require.NoError(t, tx.Unmarshal(solana.NewTransaction(keys[0], instruction).Marshal()))

	decompiled, err := DecompileCreateAccount(tx.Message, 0)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Funder)
	assert.Equal(t, keys[1], decompiled.Address)
	assert.Equal(t, keys[2], decompiled.Owner)
	assert.EqualValues(t, 12345, decompiled.Lamports)
	assert.EqualValues(t, 67890, decompiled.Size)
}

func TestTransfer(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)

	instruction := Transfer(keys[0], keys[1], 5000)
	assert.Equal(t, []byte{2, 0, 0, 0, 0x88, 0x13, 0, 0, 0, 0, 0, 0}, instruction.Data)
	assert.True(t, instruction.Accounts[0].IsSigner)
	assert.False(t, instruction.Accounts[1].IsSigner)
	assert.True(t, instruction.Accounts[1].IsWritable)

	tx := solana.NewTransaction(keys[0], instruction)
	decompiled, err := DecompileTransfer(tx.Message, 0)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.From)
	assert.Equal(t, keys[1], decompiled.To)
	assert.EqualValues(t, 5000, decompiled.Lamports)

	_, err = DecompileCreateAccount(tx.Message, 0)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)
}

func TestDecompile_Invalid(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 4)

	instruction := CreateAccount(keys[0], keys[1], keys[2], 12345, 67890)
	instruction.Accounts = instruction.Accounts[:1]
	_, err := DecompileCreateAccount(solana.NewTransaction(keys[0], instruction).Message, 0)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid number of accounts"), err)

	instruction.Data = make([]byte, 3)
	_, err = DecompileCreateAccount(solana.NewTransaction(keys[0], instruction).Message, 0)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	other := solana.NewInstruction(ed25519.PublicKey(keys[3]), make([]byte, 52), solana.NewAccountMeta(keys[1], true))
	_, err = DecompileCreateAccount(solana.NewTransaction(keys[0], other).Message, 0)
	assert.Equal(t, solana.ErrIncorrectProgram, err)

	_, err = DecompileCreateAccount(solana.NewTransaction(keys[0], other).Message, 1)
	assert.Error(t, err)
}
