package memo

import (
	"bytes"
	"crypto/ed25519"
	"unicode/utf8"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/spl-token-go/pkg/solana"
)

// ProgramKey is the address of the SPL memo program (v2).
var ProgramKey = mustDecode("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")

// ErrInvalidMemo is returned for memos that are not valid UTF-8.
var ErrInvalidMemo = errors.New("memo is not valid utf-8")

// Instruction returns a memo instruction. Each signer must sign the
// transaction for the memo program to accept it.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/master/memo/program/src/processor.rs
func Instruction(data string, signers ...ed25519.PublicKey) solana.Instruction {
	accounts := make([]solana.AccountMeta, len(signers))
	for i, s := range signers {
		accounts[i] = solana.NewReadonlyAccountMeta(s, true)
	}

	return solana.NewInstruction(ProgramKey, []byte(data), accounts...)
}

type DecompiledMemo struct {
	Data    []byte
	Signers []ed25519.PublicKey
}

func DecompileMemo(m solana.Message, index int) (*DecompiledMemo, error) {
	if index < 0 || index >= len(m.Instructions) {
		return nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]
	if !bytes.Equal(m.Accounts[i.ProgramIndex], ProgramKey) {
		return nil, solana.ErrIncorrectProgram
	}
	if !utf8.Valid(i.Data) {
		return nil, ErrInvalidMemo
	}

	decompiled := &DecompiledMemo{Data: i.Data}
	for _, a := range i.Accounts {
		if !m.IsSigner(int(a)) {
			return nil, errors.Errorf("memo account %d is not a signer", a)
		}
		decompiled.Signers = append(decompiled.Signers, m.Accounts[a])
	}
	return decompiled, nil
}

func mustDecode(s string) ed25519.PublicKey {
	b, err := base58.Decode(s)
	if err != nil {
		panic(err)
	}
	return b
}
