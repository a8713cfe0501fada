package system

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/spl-token-go/pkg/solana"
	"github.com/code-payments/spl-token-go/pkg/solana/binary"
)

// ProgramKey is the system program address, 11111111111111111111111111111111.
var ProgramKey = make(ed25519.PublicKey, ed25519.PublicKeySize)

type Command uint32

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L58-L72
const (
	CommandCreateAccount Command = iota
	CommandAssign
	CommandTransfer
)

const (
	createAccountDataSize = 4 + 8 + 8 + ed25519.PublicKeySize
	transferDataSize      = 4 + 8
)

// CreateAccount funds and allocates a new account owned by owner.
//
// Accounts:
//  0. [WRITE, SIGNER] Funding account
//  1. [WRITE, SIGNER] New account
func CreateAccount(funder, address, owner ed25519.PublicKey, lamports, size uint64) solana.Instruction {
	data := make([]byte, createAccountDataSize)

	var offset int
	binary.PutUint32(data, uint32(CommandCreateAccount), &offset)
	binary.PutUint64(data, lamports, &offset)
	binary.PutUint64(data, size, &offset)
	binary.PutKey32(data, owner, &offset)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(funder, true),
		solana.NewAccountMeta(address, true),
	)
}

// Transfer moves lamports between system accounts.
//
// Accounts:
//  0. [WRITE, SIGNER] Funding account
//  1. [WRITE] Recipient account
func Transfer(from, to ed25519.PublicKey, lamports uint64) solana.Instruction {
	data := make([]byte, transferDataSize)

	var offset int
	binary.PutUint32(data, uint32(CommandTransfer), &offset)
	binary.PutUint64(data, lamports, &offset)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(from, true),
		solana.NewAccountMeta(to, false),
	)
}

type DecompiledCreateAccount struct {
	Funder  ed25519.PublicKey
	Address ed25519.PublicKey

	Lamports uint64
	Size     uint64
	Owner    ed25519.PublicKey
}

func DecompileCreateAccount(m solana.Message, index int) (*DecompiledCreateAccount, error) {
	i, err := decompile(m, index, CommandCreateAccount, 2, createAccountDataSize)
	if err != nil {
		return nil, err
	}

	v := &DecompiledCreateAccount{
		Funder:  m.Accounts[i.Accounts[0]],
		Address: m.Accounts[i.Accounts[1]],
	}

	offset := 4
	if err := binary.GetUint64(i.Data, &v.Lamports, &offset); err != nil {
		return nil, err
	}
	if err := binary.GetUint64(i.Data, &v.Size, &offset); err != nil {
		return nil, err
	}
	if err := binary.GetKey32(i.Data, &v.Owner, &offset); err != nil {
		return nil, err
	}

	return v, nil
}

type DecompiledTransfer struct {
	From     ed25519.PublicKey
	To       ed25519.PublicKey
	Lamports uint64
}

func DecompileTransfer(m solana.Message, index int) (*DecompiledTransfer, error) {
	i, err := decompile(m, index, CommandTransfer, 2, transferDataSize)
	if err != nil {
		return nil, err
	}

	v := &DecompiledTransfer{
		From: m.Accounts[i.Accounts[0]],
		To:   m.Accounts[i.Accounts[1]],
	}

	offset := 4
	if err := binary.GetUint64(i.Data, &v.Lamports, &offset); err != nil {
		return nil, err
	}

	return v, nil
}

func decompile(m solana.Message, index int, command Command, numAccounts, dataSize int) (solana.CompiledInstruction, error) {
	if index < 0 || index >= len(m.Instructions) {
		return solana.CompiledInstruction{}, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]
	if !bytes.Equal(m.Accounts[i.ProgramIndex], ProgramKey) {
		return i, solana.ErrIncorrectProgram
	}

	var actual uint32
	var offset int
	if err := binary.GetUint32(i.Data, &actual, &offset); err != nil || Command(actual) != command {
		return i, solana.ErrIncorrectInstruction
	}

	if len(i.Accounts) != numAccounts {
		return i, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != dataSize {
		return i, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return i, nil
}
