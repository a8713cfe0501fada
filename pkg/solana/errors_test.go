package solana

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ybbus/jsonrpc"
)

func decodeRaw(t *testing.T, s string) interface{} {
	var raw interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	return raw
}

func TestParseTransactionError_Custom(t *testing.T) {
	e, err := ParseTransactionError(decodeRaw(t, `{"InstructionError":[0,{"Custom":1}]}`))
	require.NoError(t, err)

	assert.Equal(t, TransactionErrorInstructionError, e.ErrorKey())
	require.NotNil(t, e.InstructionError())
	assert.Equal(t, 0, e.InstructionError().Index)
	assert.Equal(t, InstructionErrorCustom, e.InstructionError().ErrorKey())
	require.NotNil(t, e.InstructionError().CustomError())
	assert.Equal(t, CustomError(1), *e.InstructionError().CustomError())
	assert.Equal(t, "error processing instruction 0: custom program error: 0x1", e.Error())
}

func TestParseTransactionError_Keyed(t *testing.T) {
	e, err := ParseTransactionError(decodeRaw(t, `{"InstructionError":[1,"MissingRequiredSignature"]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, e.InstructionError().Index)
	assert.Equal(t, InstructionErrorMissingRequiredSignature, e.InstructionError().ErrorKey())
	assert.Nil(t, e.InstructionError().CustomError())

	e, err = ParseTransactionError(decodeRaw(t, `"BlockhashNotFound"`))
	require.NoError(t, err)
	assert.Equal(t, TransactionErrorBlockhashNotFound, e.ErrorKey())
	assert.Nil(t, e.InstructionError())

	e, err = ParseTransactionError(decodeRaw(t, `{"InsufficientFundsForRent":{"account_index":2}}`))
	require.NoError(t, err)
	assert.EqualValues(t, "InsufficientFundsForRent", e.ErrorKey())

	e, err = ParseTransactionError(nil)
	assert.NoError(t, err)
	assert.Nil(t, e)
}

func TestParseTransactionError_Malformed(t *testing.T) {
	_, err := ParseTransactionError(decodeRaw(t, `{"a":1,"b":2}`))
	assert.Error(t, err)

	_, err = ParseTransactionError(decodeRaw(t, `{"InstructionError":[0]}`))
	assert.Error(t, err)

	_, err = ParseTransactionError(42.0)
	assert.Error(t, err)
}

func TestParseRPCError(t *testing.T) {
	e, err := ParseRPCError(&jsonrpc.RPCError{
		Code:    -32002,
		Message: "Transaction simulation failed",
		Data:    decodeRaw(t, `{"err":{"InstructionError":[0,{"Custom":4}]},"logs":[]}`),
	})
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, CustomError(4), *e.InstructionError().CustomError())

	e, err = ParseRPCError(&jsonrpc.RPCError{Data: decodeRaw(t, `{"logs":[]}`)})
	assert.NoError(t, err)
	assert.Nil(t, e)
}

func TestNewInstructionTransactionError(t *testing.T) {
	e := NewInstructionTransactionError(2, CustomError(3))
	s, err := e.JSONString()
	require.NoError(t, err)
	assert.JSONEq(t, `{"InstructionError":[2,{"Custom":3}]}`, s)

	e = NewInstructionTransactionError(0, errors.New(string(InstructionErrorInvalidArgument)))
	s, err = e.JSONString()
	require.NoError(t, err)
	assert.JSONEq(t, `{"InstructionError":[0,"InvalidArgument"]}`, s)

	s, err = NewTransactionError(TransactionErrorDuplicateSignature).JSONString()
	require.NoError(t, err)
	assert.Equal(t, `"DuplicateSignature"`, s)
}

func TestParseJSONNumber(t *testing.T) {
	for i, c := range []interface{}{"1", 1.0, json.Number("1")} {
		v, err := parseJSONNumber(c)
		assert.NoError(t, err)
		assert.Equal(t, 1, v, i)
	}

	_, err := parseJSONNumber(true)
	assert.Error(t, err)
}
