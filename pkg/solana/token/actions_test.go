package token

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/spl-token-go/pkg/solana"
	"github.com/code-payments/spl-token-go/pkg/solana/computebudget"
	"github.com/code-payments/spl-token-go/pkg/solana/memo"
	"github.com/code-payments/spl-token-go/pkg/solana/system"
	"github.com/code-payments/spl-token-go/pkg/testutil"
)

type actionTestEnv struct {
	sc     *fakeSolanaClient
	client *Client
	payer  ed25519.PrivateKey
}

func setupActionTest(t *testing.T) *actionTestEnv {
	sc := newFakeSolanaClient()
	return &actionTestEnv{
		sc:     sc,
		client: NewClient(sc, withManualTestOverrides(&testOverrides{})),
		payer:  testutil.GenerateSolanaKeypair(t),
	}
}

func requireSignedBy(t *testing.T, txn solana.Transaction, keys ...ed25519.PublicKey) {
	message := txn.Message.Marshal()
	for _, key := range keys {
		var found bool
		for i, signer := range txn.Signers() {
			if signer.Equal(key) {
				found = true
				assert.True(t, ed25519.Verify(key, message, txn.Signatures[i][:]))
			}
		}
		assert.True(t, found)
	}
}

func TestTransfer_SingleSigner(t *testing.T) {
	env := setupActionTest(t)
	owner := testutil.GenerateSolanaKeypair(t)
	keys := testutil.GenerateSolanaKeys(t, 2)

	sig, err := env.client.Transfer(context.Background(), env.payer, keys[0], keys[1], SingleSigner{Key: owner}, 1_000_000)
	require.NoError(t, err)

	txns := env.sc.transactions()
	require.Len(t, txns, 1)
	assert.Equal(t, solana.Signature(txns[0].Signatures[0]), sig)
	assert.Equal(t, []solana.Commitment{solana.CommitmentConfirmed}, env.sc.commitments)
	assert.Equal(t, env.sc.blockhash, txns[0].Message.RecentBlockhash)

	accounts, args, err := DecompileTransfer(txns[0].Message, 0)
	require.NoError(t, err)
	assert.EqualValues(t, keys[0], accounts.Source)
	assert.EqualValues(t, keys[1], accounts.Destination)
	assert.Equal(t, SingleAuthority{Authority: testutil.PublicKeys(owner)[0]}, accounts.Authority)
	assert.EqualValues(t, 1_000_000, args.Amount)

	requireSignedBy(t, txns[0], testutil.PublicKeys(env.payer, owner)...)
}

func TestTransfer_MultisigSigners(t *testing.T) {
	env := setupActionTest(t)
	signers := testutil.GenerateSolanaKeypairs(t, 2)
	keys := testutil.GenerateSolanaKeys(t, 3)

	_, err := env.client.Transfer(context.Background(), env.payer, keys[0], keys[1], MultisigSigners{Multisig: keys[2], Signers: signers}, 5)
	require.NoError(t, err)

	txns := env.sc.transactions()
	require.Len(t, txns, 1)
	assert.Len(t, txns[0].Signers(), 3)

	accounts, _, err := DecompileTransfer(txns[0].Message, 0)
	require.NoError(t, err)
	assert.Equal(t, MultisigAuthority{Multisig: keys[2], Signers: testutil.PublicKeys(signers...)}, accounts.Authority)

	requireSignedBy(t, txns[0], testutil.PublicKeys(append([]ed25519.PrivateKey{env.payer}, signers...)...)...)
}

func TestTransfer_PayerIsOwner(t *testing.T) {
	env := setupActionTest(t)
	keys := testutil.GenerateSolanaKeys(t, 2)

	_, err := env.client.Transfer(context.Background(), env.payer, keys[0], keys[1], SingleSigner{Key: env.payer}, 1)
	require.NoError(t, err)

	txns := env.sc.transactions()
	require.Len(t, txns, 1)
	assert.Len(t, txns[0].Signers(), 1)
	requireSignedBy(t, txns[0], testutil.PublicKeys(env.payer)...)
}

func TestActions_Commitment(t *testing.T) {
	env := setupActionTest(t)
	keys := testutil.GenerateSolanaKeys(t, 2)

	_, err := env.client.Transfer(context.Background(), env.payer, keys[0], keys[1], SingleSigner{Key: env.payer}, 1, WithCommitment(solana.CommitmentFinalized))
	require.NoError(t, err)

	env.client = NewClient(env.sc, withManualTestOverrides(&testOverrides{commitment: "processed"}))
	_, err = env.client.Transfer(context.Background(), env.payer, keys[0], keys[1], SingleSigner{Key: env.payer}, 1)
	require.NoError(t, err)

	assert.Equal(t, []solana.Commitment{solana.CommitmentFinalized, solana.CommitmentProcessed}, env.sc.commitments)
}

func TestActions_Failures(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)
	owner := SingleSigner{Key: testutil.GenerateSolanaKeypair(t)}

	t.Run("on chain failure", func(t *testing.T) {
		env := setupActionTest(t)
		txErr := solana.NewInstructionTransactionError(0, ErrorInsufficientFunds)
		env.sc.status = &solana.SignatureStatus{ErrorResult: txErr}

		sig, err := env.client.Transfer(context.Background(), env.payer, keys[0], keys[1], owner, 10)
		assert.Equal(t, txErr, err)
		assert.NotEqual(t, solana.Signature{}, sig)
		require.NotNil(t, txErr.InstructionError().CustomError())
		assert.Equal(t, ErrorInsufficientFunds, *txErr.InstructionError().CustomError())
	})

	t.Run("submit rejected", func(t *testing.T) {
		env := setupActionTest(t)
		txErr := solana.NewTransactionError(solana.TransactionErrorBlockhashNotFound)
		env.sc.submitErr = txErr

		_, err := env.client.Transfer(context.Background(), env.payer, keys[0], keys[1], owner, 10)
		assert.Equal(t, txErr, err)
	})

	t.Run("transport failure", func(t *testing.T) {
		env := setupActionTest(t)
		transportErr := errors.New("connection reset")
		env.sc.submitErr = transportErr

		_, err := env.client.Transfer(context.Background(), env.payer, keys[0], keys[1], owner, 10)
		assert.Equal(t, transportErr, errors.Cause(err))
	})

	t.Run("confirmation failure", func(t *testing.T) {
		env := setupActionTest(t)
		statusErr := errors.New("transaction did not reach confirmed commitment")
		env.sc.statusErr = statusErr

		_, err := env.client.Transfer(context.Background(), env.payer, keys[0], keys[1], owner, 10)
		assert.Equal(t, statusErr, errors.Cause(err))
		assert.Len(t, env.sc.transactions(), 1)
	})

	t.Run("cancelled", func(t *testing.T) {
		env := setupActionTest(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := env.client.Transfer(ctx, env.payer, keys[0], keys[1], owner, 10)
		assert.Equal(t, context.Canceled, err)
		assert.Empty(t, env.sc.transactions())
	})

	t.Run("invalid signers", func(t *testing.T) {
		env := setupActionTest(t)

		_, err := env.client.Transfer(context.Background(), env.payer, keys[0], keys[1], MultisigSigners{Multisig: keys[1]}, 10)
		assert.Equal(t, ErrInvalidNumberOfSigners, errors.Cause(err))

		_, err = env.client.Transfer(context.Background(), env.payer, keys[0], keys[1], nil, 10)
		assert.Equal(t, ErrMissingAuthority, err)

		_, err = env.client.Transfer(context.Background(), nil, keys[0], keys[1], owner, 10)
		assert.Equal(t, ErrInvalidPublicKey, errors.Cause(err))

		assert.Empty(t, env.sc.transactions())
	})
}

func TestAuthorizedActions(t *testing.T) {
	env := setupActionTest(t)
	ctx := context.Background()
	keys := testutil.GenerateSolanaKeys(t, 3)
	a, b, c := keys[0], keys[1], keys[2]
	owner := SingleSigner{Key: testutil.GenerateSolanaKeypair(t)}

	for _, tc := range []struct {
		command Command
		action  func() (solana.Signature, error)
	}{
		{CommandTransferChecked, func() (solana.Signature, error) {
			return env.client.TransferChecked(ctx, env.payer, a, b, c, owner, 1, 6)
		}},
		{CommandApprove, func() (solana.Signature, error) {
			return env.client.Approve(ctx, env.payer, a, b, owner, 1)
		}},
		{CommandApproveChecked, func() (solana.Signature, error) {
			return env.client.ApproveChecked(ctx, env.payer, a, b, c, owner, 1, 6)
		}},
		{CommandRevoke, func() (solana.Signature, error) {
			return env.client.Revoke(ctx, env.payer, a, owner)
		}},
		{CommandMintTo, func() (solana.Signature, error) {
			return env.client.MintTo(ctx, env.payer, a, b, owner, 1)
		}},
		{CommandMintToChecked, func() (solana.Signature, error) {
			return env.client.MintToChecked(ctx, env.payer, a, b, owner, 1, 6)
		}},
		{CommandBurn, func() (solana.Signature, error) {
			return env.client.Burn(ctx, env.payer, a, b, owner, 1)
		}},
		{CommandBurnChecked, func() (solana.Signature, error) {
			return env.client.BurnChecked(ctx, env.payer, a, b, owner, 1, 6)
		}},
		{CommandCloseAccount, func() (solana.Signature, error) {
			return env.client.CloseAccount(ctx, env.payer, a, b, owner)
		}},
		{CommandFreezeAccount, func() (solana.Signature, error) {
			return env.client.FreezeAccount(ctx, env.payer, a, b, owner)
		}},
		{CommandThawAccount, func() (solana.Signature, error) {
			return env.client.ThawAccount(ctx, env.payer, a, b, owner)
		}},
		{CommandSetAuthority, func() (solana.Signature, error) {
			return env.client.SetAuthority(ctx, env.payer, a, owner, AuthorityTypeCloseAccount, nil)
		}},
		{CommandSyncNative, func() (solana.Signature, error) {
			return env.client.SyncNative(ctx, env.payer, a)
		}},
	} {
		before := len(env.sc.transactions())

		_, err := tc.action()
		require.NoError(t, err, tc.command.String())

		txns := env.sc.transactions()
		require.Len(t, txns, before+1)

		decompiled, err := DecompileInstruction(txns[before].Message, 0)
		require.NoError(t, err, tc.command.String())
		assert.Equal(t, tc.command, decompiled.Command())

		if tc.command != CommandSyncNative {
			requireSignedBy(t, txns[before], testutil.PublicKeys(env.payer, owner.Key)...)
		}
	}
}

func TestCreateMint(t *testing.T) {
	env := setupActionTest(t)
	keys := testutil.GenerateSolanaKeys(t, 2)
	mintKey := testutil.GenerateSolanaKeypair(t)

	mint, err := env.client.CreateMint(context.Background(), env.payer, keys[0], keys[1], 6, mintKey)
	require.NoError(t, err)
	assert.EqualValues(t, testutil.PublicKeys(mintKey)[0], mint)

	txns := env.sc.transactions()
	require.Len(t, txns, 1)
	requireSignedBy(t, txns[0], testutil.PublicKeys(env.payer, mintKey)...)

	create, err := system.DecompileCreateAccount(txns[0].Message, 0)
	require.NoError(t, err)
	assert.EqualValues(t, mint, create.Address)
	assert.EqualValues(t, ProgramKey, create.Owner)
	assert.EqualValues(t, MintSize, create.Size)
	assert.Equal(t, env.sc.rent, create.Lamports)

	decompiled, err := DecompileInstruction(txns[0].Message, 1)
	require.NoError(t, err)
	assert.Equal(t, &InitializeMint2InstructionArgs{Decimals: 6, MintAuthority: keys[0], FreezeAuthority: keys[1]}, decompiled.Args)

	generated, err := env.client.CreateMint(context.Background(), env.payer, keys[0], nil, 0, nil)
	require.NoError(t, err)
	assert.Len(t, generated, ed25519.PublicKeySize)
	assert.NotEqual(t, mint, generated)
}

func TestCreateAccount(t *testing.T) {
	env := setupActionTest(t)
	keys := testutil.GenerateSolanaKeys(t, 2)
	mint, owner := keys[0], keys[1]
	accountKey := testutil.GenerateSolanaKeypair(t)

	account, err := env.client.CreateAccount(context.Background(), env.payer, mint, owner, accountKey)
	require.NoError(t, err)
	assert.EqualValues(t, testutil.PublicKeys(accountKey)[0], account)

	txns := env.sc.transactions()
	require.Len(t, txns, 1)

	create, err := system.DecompileCreateAccount(txns[0].Message, 0)
	require.NoError(t, err)
	assert.EqualValues(t, AccountSize, create.Size)

	initialize, err := DecompileInitializeAccount(txns[0].Message, 1)
	require.NoError(t, err)
	assert.EqualValues(t, account, initialize.Account)
	assert.EqualValues(t, mint, initialize.Mint)
	assert.EqualValues(t, owner, initialize.Owner)

	// Without a keypair the associated account is created.
	associated, err := env.client.CreateAccount(context.Background(), env.payer, mint, owner, nil)
	require.NoError(t, err)
	expected, err := GetAssociatedAccount(owner, mint)
	require.NoError(t, err)
	assert.Equal(t, expected, associated)

	txns = env.sc.transactions()
	require.Len(t, txns, 2)
	decompiled, err := DecompileCreateAssociatedAccount(txns[1].Message, 0)
	require.NoError(t, err)
	assert.EqualValues(t, expected, decompiled.Address)
	assert.False(t, decompiled.Idempotent)
}

func TestGetOrCreateAssociatedTokenAccount(t *testing.T) {
	env := setupActionTest(t)
	keys := testutil.GenerateSolanaKeys(t, 2)
	mint, owner := keys[0], keys[1]

	address, err := GetAssociatedAccount(owner, mint)
	require.NoError(t, err)

	env.sc.onSubmit = func(txn solana.Transaction) {
		decompiled, err := DecompileCreateAssociatedAccount(txn.Message, 0)
		if err != nil {
			return
		}
		account := Account{Mint: decompiled.Mint, Owner: decompiled.Owner, State: AccountStateInitialized}
		env.sc.setAccount(decompiled.Address, solana.AccountInfo{Owner: ProgramKey, Data: account.Marshal()})
	}

	actualAddress, account, err := env.client.GetOrCreateAssociatedTokenAccount(context.Background(), env.payer, mint, owner, false)
	require.NoError(t, err)
	assert.Equal(t, address, actualAddress)
	assert.EqualValues(t, mint, account.Mint)
	assert.EqualValues(t, owner, account.Owner)
	require.Len(t, env.sc.transactions(), 1)

	decompiled, err := DecompileCreateAssociatedAccount(env.sc.transactions()[0].Message, 0)
	require.NoError(t, err)
	assert.True(t, decompiled.Idempotent)

	// The existing account is returned without another transaction.
	_, _, err = env.client.GetOrCreateAssociatedTokenAccount(context.Background(), env.payer, mint, owner, false)
	require.NoError(t, err)
	assert.Len(t, env.sc.transactions(), 1)

	// An account that does not match is rejected.
	other := Account{Mint: owner, Owner: owner, State: AccountStateInitialized}
	env.sc.setAccount(address, solana.AccountInfo{Owner: ProgramKey, Data: other.Marshal()})
	_, _, err = env.client.GetOrCreateAssociatedTokenAccount(context.Background(), env.payer, mint, owner, false)
	assert.Equal(t, ErrMintMismatch, err)

	other = Account{Mint: mint, Owner: mint, State: AccountStateInitialized}
	env.sc.setAccount(address, solana.AccountInfo{Owner: ProgramKey, Data: other.Marshal()})
	_, _, err = env.client.GetOrCreateAssociatedTokenAccount(context.Background(), env.payer, mint, owner, false)
	assert.Equal(t, ErrOwnerMismatch, err)
}

func TestCreateMultisig(t *testing.T) {
	env := setupActionTest(t)
	signers := testutil.GenerateSolanaKeys(t, 3)

	multisig, err := env.client.CreateMultisig(context.Background(), env.payer, 2, signers, nil)
	require.NoError(t, err)

	txns := env.sc.transactions()
	require.Len(t, txns, 1)

	create, err := system.DecompileCreateAccount(txns[0].Message, 0)
	require.NoError(t, err)
	assert.EqualValues(t, multisig, create.Address)
	assert.EqualValues(t, MultisigAccountSize, create.Size)

	decompiled, err := DecompileInstruction(txns[0].Message, 1)
	require.NoError(t, err)
	assert.Equal(t, &InitializeMultisig2InstructionArgs{RequiredSigners: 2}, decompiled.Args)
	require.Len(t, decompiled.Accounts, 4)
	for i, s := range signers {
		assert.EqualValues(t, s, decompiled.Accounts[1+i].PublicKey)
	}

	_, err = env.client.CreateMultisig(context.Background(), env.payer, 4, signers, nil)
	assert.Equal(t, ErrInvalidRequiredSigners, errors.Cause(err))

	_, err = env.client.CreateMultisig(context.Background(), env.payer, 1, nil, nil)
	assert.Equal(t, ErrInvalidNumberOfSigners, errors.Cause(err))
	assert.Len(t, env.sc.transactions(), 1)
}

func TestCreateWrappedNativeAccount(t *testing.T) {
	env := setupActionTest(t)
	owner := testutil.GenerateSolanaKeys(t, 1)[0]

	address, err := env.client.CreateWrappedNativeAccount(context.Background(), env.payer, owner, 5000, nil)
	require.NoError(t, err)

	expected, err := GetAssociatedAccount(owner, NativeMint)
	require.NoError(t, err)
	assert.Equal(t, expected, address)

	txns := env.sc.transactions()
	require.Len(t, txns, 1)
	require.Len(t, txns[0].Message.Instructions, 3)

	createATA, err := DecompileCreateAssociatedAccount(txns[0].Message, 0)
	require.NoError(t, err)
	assert.EqualValues(t, NativeMint, createATA.Mint)

	fund, err := system.DecompileTransfer(txns[0].Message, 1)
	require.NoError(t, err)
	assert.EqualValues(t, address, fund.To)
	assert.EqualValues(t, 5000, fund.Lamports)

	sync, err := DecompileInstruction(txns[0].Message, 2)
	require.NoError(t, err)
	assert.Equal(t, CommandSyncNative, sync.Command())

	// With a keypair the account is created and funded directly.
	accountKey := testutil.GenerateSolanaKeypair(t)
	address, err = env.client.CreateWrappedNativeAccount(context.Background(), env.payer, owner, 5000, accountKey)
	require.NoError(t, err)
	assert.EqualValues(t, testutil.PublicKeys(accountKey)[0], address)

	txns = env.sc.transactions()
	require.Len(t, txns, 2)
	create, err := system.DecompileCreateAccount(txns[1].Message, 0)
	require.NoError(t, err)
	assert.Equal(t, env.sc.rent+5000, create.Lamports)

	initialize, err := DecompileInstruction(txns[1].Message, 1)
	require.NoError(t, err)
	assert.Equal(t, &InitializeAccount3InstructionArgs{Owner: owner}, initialize.Args)
}

func TestActions_TransactionOptions(t *testing.T) {
	env := setupActionTest(t)
	keys := testutil.GenerateSolanaKeys(t, 2)

	_, err := env.client.Transfer(
		context.Background(),
		env.payer,
		keys[0],
		keys[1],
		SingleSigner{Key: env.payer},
		1,
		WithComputeUnitLimit(10_000),
		WithComputeUnitPrice(5),
		WithMemo("invoice 42"),
	)
	require.NoError(t, err)

	txns := env.sc.transactions()
	require.Len(t, txns, 1)
	m := txns[0].Message
	require.Len(t, m.Instructions, 4)

	limit, err := computebudget.ParseSetComputeUnitLimit(m.Instructions[0].Data)
	require.NoError(t, err)
	assert.EqualValues(t, 10_000, limit)

	price, err := computebudget.ParseSetComputeUnitPrice(m.Instructions[1].Data)
	require.NoError(t, err)
	assert.EqualValues(t, 5, price)

	_, _, err = DecompileTransfer(m, 2)
	require.NoError(t, err)

	decompiled, err := memo.DecompileMemo(m, 3)
	require.NoError(t, err)
	assert.Equal(t, "invoice 42", string(decompiled.Data))
}

func TestActions_ProgramOverride(t *testing.T) {
	env := setupActionTest(t)
	keys := testutil.GenerateSolanaKeys(t, 3)
	program := keys[2]

	_, err := env.client.Transfer(context.Background(), env.payer, keys[0], keys[1], SingleSigner{Key: env.payer}, 1, WithActionProgram(program))
	require.NoError(t, err)

	mint, err := env.client.CreateMint(context.Background(), env.payer, keys[0], nil, 2, nil, WithActionProgram(program))
	require.NoError(t, err)

	txns := env.sc.transactions()
	require.Len(t, txns, 2)

	_, _, err = DecompileTransfer(txns[0].Message, 0, WithProgram(program))
	require.NoError(t, err)
	_, _, err = DecompileTransfer(txns[0].Message, 0)
	assert.Equal(t, solana.ErrIncorrectProgram, err)

	create, err := system.DecompileCreateAccount(txns[1].Message, 0)
	require.NoError(t, err)
	assert.EqualValues(t, mint, create.Address)
	assert.EqualValues(t, program, create.Owner)
	_, err = DecompileInstruction(txns[1].Message, 1, WithProgram(program))
	require.NoError(t, err)

	_, err = env.client.Transfer(context.Background(), env.payer, keys[0], keys[1], SingleSigner{Key: env.payer}, 1, WithActionProgram(program[:8]))
	assert.Equal(t, ErrInvalidPublicKey, errors.Cause(err))
	assert.Len(t, env.sc.transactions(), 2)
}

func TestActions_ConfiguredComputeUnitPrice(t *testing.T) {
	env := setupActionTest(t)
	env.client = NewClient(env.sc, withManualTestOverrides(&testOverrides{computeUnitPrice: 250}))
	keys := testutil.GenerateSolanaKeys(t, 2)

	_, err := env.client.Transfer(context.Background(), env.payer, keys[0], keys[1], SingleSigner{Key: env.payer}, 1)
	require.NoError(t, err)
	_, err = env.client.Transfer(context.Background(), env.payer, keys[0], keys[1], SingleSigner{Key: env.payer}, 1, WithComputeUnitPrice(7))
	require.NoError(t, err)

	txns := env.sc.transactions()
	require.Len(t, txns, 2)

	for i, expected := range []uint64{250, 7} {
		m := txns[i].Message
		require.Len(t, m.Instructions, 2)

		price, err := computebudget.ParseSetComputeUnitPrice(m.Instructions[0].Data)
		require.NoError(t, err)
		assert.Equal(t, expected, price)

		_, _, err = DecompileTransfer(m, 1)
		require.NoError(t, err)
	}
}
