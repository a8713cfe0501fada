package token

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/spl-token-go/pkg/pointer"
	"github.com/code-payments/spl-token-go/pkg/solana"
	"github.com/code-payments/spl-token-go/pkg/solana/computebudget"
	"github.com/code-payments/spl-token-go/pkg/solana/memo"
	"github.com/code-payments/spl-token-go/pkg/solana/system"
)

// ActionOption configures the transaction an action submits.
type ActionOption func(*actionOptions)

type actionOptions struct {
	program          ed25519.PublicKey
	commitment       *solana.Commitment
	memo             *string
	computeUnitLimit *uint32
	computeUnitPrice *uint64
}

// WithCommitment overrides the configured commitment level the action waits
// for.
func WithCommitment(commitment solana.Commitment) ActionOption {
	return func(o *actionOptions) {
		o.commitment = pointer.To(commitment)
	}
}

// WithActionProgram overrides the configured token program for a single
// action.
func WithActionProgram(program ed25519.PublicKey) ActionOption {
	return func(o *actionOptions) {
		o.program = program
	}
}

func applyActionOptions(opts []ActionOption) actionOptions {
	var o actionOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMemo appends a memo instruction to the transaction.
func WithMemo(text string) ActionOption {
	return func(o *actionOptions) {
		o.memo = pointer.To(text)
	}
}

// WithComputeUnitLimit caps the compute units the transaction may use.
func WithComputeUnitLimit(units uint32) ActionOption {
	return func(o *actionOptions) {
		o.computeUnitLimit = pointer.To(units)
	}
}

// WithComputeUnitPrice sets a priority fee, in micro-lamports per compute
// unit.
func WithComputeUnitPrice(microLamports uint64) ActionOption {
	return func(o *actionOptions) {
		o.computeUnitPrice = pointer.To(microLamports)
	}
}

// wrap surrounds ixs with the compute budget and memo instructions the
// options ask for.
func (o actionOptions) wrap(ixs []solana.Instruction) []solana.Instruction {
	var wrapped []solana.Instruction
	if o.computeUnitLimit != nil {
		wrapped = append(wrapped, computebudget.SetComputeUnitLimit(*o.computeUnitLimit))
	}
	if o.computeUnitPrice != nil {
		wrapped = append(wrapped, computebudget.SetComputeUnitPrice(*o.computeUnitPrice))
	}
	wrapped = append(wrapped, ixs...)
	if o.memo != nil {
		wrapped = append(wrapped, memo.Instruction(*o.memo))
	}
	return wrapped
}

// Transfer moves amount tokens from source to destination.
func (c *Client) Transfer(ctx context.Context, payer ed25519.PrivateKey, source, destination ed25519.PublicKey, owner SigningAuthority, amount uint64, opts ...ActionOption) (solana.Signature, error) {
	return c.authorized(ctx, "Transfer", payer, owner, opts, func(authority Authority, program InstructionOption) (solana.Instruction, error) {
		return NewTransferInstruction(
			&TransferInstructionAccounts{Source: source, Destination: destination, Authority: authority},
			&TransferInstructionArgs{Amount: amount},
			program,
		)
	})
}

// TransferChecked moves amount tokens from source to destination, asserting
// the mint and its decimals.
func (c *Client) TransferChecked(ctx context.Context, payer ed25519.PrivateKey, source, mint, destination ed25519.PublicKey, owner SigningAuthority, amount uint64, decimals uint8, opts ...ActionOption) (solana.Signature, error) {
	return c.authorized(ctx, "TransferChecked", payer, owner, opts, func(authority Authority, program InstructionOption) (solana.Instruction, error) {
		return NewTransferCheckedInstruction(
			&TransferCheckedInstructionAccounts{Source: source, Mint: mint, Destination: destination, Authority: authority},
			&TransferCheckedInstructionArgs{Amount: amount, Decimals: decimals},
			program,
		)
	})
}

// Approve allows delegate to transfer up to amount tokens from source.
func (c *Client) Approve(ctx context.Context, payer ed25519.PrivateKey, source, delegate ed25519.PublicKey, owner SigningAuthority, amount uint64, opts ...ActionOption) (solana.Signature, error) {
	return c.authorized(ctx, "Approve", payer, owner, opts, func(authority Authority, program InstructionOption) (solana.Instruction, error) {
		return NewApproveInstruction(
			&ApproveInstructionAccounts{Source: source, Delegate: delegate, Authority: authority},
			&ApproveInstructionArgs{Amount: amount},
			program,
		)
	})
}

func (c *Client) ApproveChecked(ctx context.Context, payer ed25519.PrivateKey, source, mint, delegate ed25519.PublicKey, owner SigningAuthority, amount uint64, decimals uint8, opts ...ActionOption) (solana.Signature, error) {
	return c.authorized(ctx, "ApproveChecked", payer, owner, opts, func(authority Authority, program InstructionOption) (solana.Instruction, error) {
		return NewApproveCheckedInstruction(
			&ApproveCheckedInstructionAccounts{Source: source, Mint: mint, Delegate: delegate, Authority: authority},
			&ApproveCheckedInstructionArgs{Amount: amount, Decimals: decimals},
			program,
		)
	})
}

// Revoke removes the delegate of source.
func (c *Client) Revoke(ctx context.Context, payer ed25519.PrivateKey, source ed25519.PublicKey, owner SigningAuthority, opts ...ActionOption) (solana.Signature, error) {
	return c.authorized(ctx, "Revoke", payer, owner, opts, func(authority Authority, program InstructionOption) (solana.Instruction, error) {
		return NewRevokeInstruction(&RevokeInstructionAccounts{Source: source, Authority: authority}, program)
	})
}

// MintTo mints amount new tokens into destination.
func (c *Client) MintTo(ctx context.Context, payer ed25519.PrivateKey, mint, destination ed25519.PublicKey, mintAuthority SigningAuthority, amount uint64, opts ...ActionOption) (solana.Signature, error) {
	return c.authorized(ctx, "MintTo", payer, mintAuthority, opts, func(authority Authority, program InstructionOption) (solana.Instruction, error) {
		return NewMintToInstruction(
			&MintToInstructionAccounts{Mint: mint, Destination: destination, Authority: authority},
			&MintToInstructionArgs{Amount: amount},
			program,
		)
	})
}

func (c *Client) MintToChecked(ctx context.Context, payer ed25519.PrivateKey, mint, destination ed25519.PublicKey, mintAuthority SigningAuthority, amount uint64, decimals uint8, opts ...ActionOption) (solana.Signature, error) {
	return c.authorized(ctx, "MintToChecked", payer, mintAuthority, opts, func(authority Authority, program InstructionOption) (solana.Instruction, error) {
		return NewMintToCheckedInstruction(
			&MintToInstructionAccounts{Mint: mint, Destination: destination, Authority: authority},
			&MintToCheckedInstructionArgs{Amount: amount, Decimals: decimals},
			program,
		)
	})
}

// Burn destroys amount tokens held by account.
func (c *Client) Burn(ctx context.Context, payer ed25519.PrivateKey, account, mint ed25519.PublicKey, owner SigningAuthority, amount uint64, opts ...ActionOption) (solana.Signature, error) {
	return c.authorized(ctx, "Burn", payer, owner, opts, func(authority Authority, program InstructionOption) (solana.Instruction, error) {
		return NewBurnInstruction(
			&BurnInstructionAccounts{Account: account, Mint: mint, Authority: authority},
			&BurnInstructionArgs{Amount: amount},
			program,
		)
	})
}

func (c *Client) BurnChecked(ctx context.Context, payer ed25519.PrivateKey, account, mint ed25519.PublicKey, owner SigningAuthority, amount uint64, decimals uint8, opts ...ActionOption) (solana.Signature, error) {
	return c.authorized(ctx, "BurnChecked", payer, owner, opts, func(authority Authority, program InstructionOption) (solana.Instruction, error) {
		return NewBurnCheckedInstruction(
			&BurnInstructionAccounts{Account: account, Mint: mint, Authority: authority},
			&BurnCheckedInstructionArgs{Amount: amount, Decimals: decimals},
			program,
		)
	})
}

// CloseAccount closes account and sends its lamports to destination.
func (c *Client) CloseAccount(ctx context.Context, payer ed25519.PrivateKey, account, destination ed25519.PublicKey, owner SigningAuthority, opts ...ActionOption) (solana.Signature, error) {
	return c.authorized(ctx, "CloseAccount", payer, owner, opts, func(authority Authority, program InstructionOption) (solana.Instruction, error) {
		return NewCloseAccountInstruction(&CloseAccountInstructionAccounts{Account: account, Destination: destination, Authority: authority}, program)
	})
}

func (c *Client) FreezeAccount(ctx context.Context, payer ed25519.PrivateKey, account, mint ed25519.PublicKey, freezeAuthority SigningAuthority, opts ...ActionOption) (solana.Signature, error) {
	return c.authorized(ctx, "FreezeAccount", payer, freezeAuthority, opts, func(authority Authority, program InstructionOption) (solana.Instruction, error) {
		return NewFreezeAccountInstruction(&FreezeAccountInstructionAccounts{Account: account, Mint: mint, Authority: authority}, program)
	})
}

func (c *Client) ThawAccount(ctx context.Context, payer ed25519.PrivateKey, account, mint ed25519.PublicKey, freezeAuthority SigningAuthority, opts ...ActionOption) (solana.Signature, error) {
	return c.authorized(ctx, "ThawAccount", payer, freezeAuthority, opts, func(authority Authority, program InstructionOption) (solana.Instruction, error) {
		return NewThawAccountInstruction(&FreezeAccountInstructionAccounts{Account: account, Mint: mint, Authority: authority}, program)
	})
}

// SetAuthority replaces the authorityType authority of account. A nil
// newAuthority removes it.
func (c *Client) SetAuthority(ctx context.Context, payer ed25519.PrivateKey, account ed25519.PublicKey, current SigningAuthority, authorityType AuthorityType, newAuthority ed25519.PublicKey, opts ...ActionOption) (solana.Signature, error) {
	return c.authorized(ctx, "SetAuthority", payer, current, opts, func(authority Authority, program InstructionOption) (solana.Instruction, error) {
		return NewSetAuthorityInstruction(
			&SetAuthorityInstructionAccounts{Account: account, Authority: authority},
			&SetAuthorityInstructionArgs{Type: authorityType, NewAuthority: newAuthority},
			program,
		)
	})
}

// SyncNative updates a wrapped SOL account's token amount to its lamport
// balance.
func (c *Client) SyncNative(ctx context.Context, payer ed25519.PrivateKey, account ed25519.PublicKey, opts ...ActionOption) (solana.Signature, error) {
	program, err := c.programOption(ctx, opts)
	if err != nil {
		return solana.Signature{}, err
	}

	ix, err := NewSyncNativeInstruction(&SyncNativeInstructionAccounts{Account: account}, program)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.send(ctx, "SyncNative", payer, nil, opts, ix)
}

// CreateMint creates and initializes a new mint. A new keypair is generated
// for the mint when keypair is nil.
func (c *Client) CreateMint(ctx context.Context, payer ed25519.PrivateKey, mintAuthority, freezeAuthority ed25519.PublicKey, decimals uint8, keypair ed25519.PrivateKey, opts ...ActionOption) (ed25519.PublicKey, error) {
	keypair, err := keypairOrGenerate(keypair)
	if err != nil {
		return nil, err
	}
	mint := publicKey(keypair)

	program, err := c.actionProgram(ctx, opts)
	if err != nil {
		return nil, err
	}

	create, err := c.createAccountInstruction(payer, mint, program, MintSize)
	if err != nil {
		return nil, err
	}
	initialize, err := NewInitializeMint2Instruction(
		&InitializeMintInstructionAccounts{Mint: mint},
		&InitializeMint2InstructionArgs{Decimals: decimals, MintAuthority: mintAuthority, FreezeAuthority: freezeAuthority},
		WithProgram(program),
	)
	if err != nil {
		return nil, err
	}

	if _, err := c.send(ctx, "CreateMint", payer, []ed25519.PrivateKey{keypair}, opts, create, initialize); err != nil {
		return nil, err
	}
	return mint, nil
}

// CreateAccount creates a token account of mint for owner. When keypair is
// nil the owner's associated token account is created instead.
func (c *Client) CreateAccount(ctx context.Context, payer ed25519.PrivateKey, mint, owner ed25519.PublicKey, keypair ed25519.PrivateKey, opts ...ActionOption) (ed25519.PublicKey, error) {
	if keypair == nil {
		return c.CreateAssociatedTokenAccount(ctx, payer, mint, owner, opts...)
	}

	program, err := c.actionProgram(ctx, opts)
	if err != nil {
		return nil, err
	}
	account := publicKey(keypair)

	create, err := c.createAccountInstruction(payer, account, program, AccountSize)
	if err != nil {
		return nil, err
	}
	initialize, err := NewInitializeAccountInstruction(
		&InitializeAccountInstructionAccounts{Account: account, Mint: mint, Owner: owner},
		WithProgram(program),
	)
	if err != nil {
		return nil, err
	}

	if _, err := c.send(ctx, "CreateAccount", payer, []ed25519.PrivateKey{keypair}, opts, create, initialize); err != nil {
		return nil, err
	}
	return account, nil
}

// CreateAssociatedTokenAccount creates the associated token account of mint
// for owner and returns its address.
func (c *Client) CreateAssociatedTokenAccount(ctx context.Context, payer ed25519.PrivateKey, mint, owner ed25519.PublicKey, opts ...ActionOption) (ed25519.PublicKey, error) {
	program, err := c.actionProgram(ctx, opts)
	if err != nil {
		return nil, err
	}

	ix, address, err := NewCreateAssociatedTokenAccountInstruction(
		&CreateAssociatedTokenAccountInstructionAccounts{Payer: publicKey(payer), Wallet: owner, Mint: mint},
		WithTokenProgram(program),
	)
	if err != nil {
		return nil, err
	}

	if _, err := c.send(ctx, "CreateAssociatedTokenAccount", payer, nil, opts, ix); err != nil {
		return nil, err
	}
	return address, nil
}

// GetOrCreateAssociatedTokenAccount returns the associated token account of
// mint for owner, creating it if it does not exist.
func (c *Client) GetOrCreateAssociatedTokenAccount(ctx context.Context, payer ed25519.PrivateKey, mint, owner ed25519.PublicKey, allowOwnerOffCurve bool, opts ...ActionOption) (ed25519.PublicKey, *Account, error) {
	program, err := c.actionProgram(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	associatedOpts := []AssociatedAccountOption{WithTokenProgram(program)}
	if allowOwnerOffCurve {
		associatedOpts = append(associatedOpts, AllowOwnerOffCurve())
	}

	address, err := GetAssociatedAccount(owner, mint, associatedOpts...)
	if err != nil {
		return nil, nil, err
	}

	account, err := c.GetAccount(ctx, address)
	if err == ErrAccountNotFound {
		account, err = c.createAssociatedTokenAccount(ctx, payer, mint, owner, address, associatedOpts, opts)
	}
	if err != nil {
		return nil, nil, err
	}

	if !bytes.Equal(account.Mint, mint) {
		return nil, nil, ErrMintMismatch
	}
	if !bytes.Equal(account.Owner, owner) {
		return nil, nil, ErrOwnerMismatch
	}
	return address, account, nil
}

func (c *Client) createAssociatedTokenAccount(ctx context.Context, payer ed25519.PrivateKey, mint, owner, address ed25519.PublicKey, associatedOpts []AssociatedAccountOption, opts []ActionOption) (*Account, error) {
	ix, _, err := NewCreateIdempotentAssociatedTokenAccountInstruction(
		&CreateAssociatedTokenAccountInstructionAccounts{Payer: publicKey(payer), Wallet: owner, Mint: mint},
		associatedOpts...,
	)
	if err != nil {
		return nil, err
	}

	if _, err := c.send(ctx, "GetOrCreateAssociatedTokenAccount", payer, nil, opts, ix); err != nil {
		return nil, err
	}
	return c.GetAccount(ctx, address)
}

// CreateMultisig creates a multisig account requiring m of signers. A new
// keypair is generated for the account when keypair is nil.
func (c *Client) CreateMultisig(ctx context.Context, payer ed25519.PrivateKey, m uint8, signers []ed25519.PublicKey, keypair ed25519.PrivateKey, opts ...ActionOption) (ed25519.PublicKey, error) {
	keypair, err := keypairOrGenerate(keypair)
	if err != nil {
		return nil, err
	}
	multisig := publicKey(keypair)

	program, err := c.actionProgram(ctx, opts)
	if err != nil {
		return nil, err
	}

	create, err := c.createAccountInstruction(payer, multisig, program, MultisigAccountSize)
	if err != nil {
		return nil, err
	}
	initialize, err := NewInitializeMultisig2Instruction(
		&InitializeMultisigInstructionAccounts{Multisig: multisig, Signers: signers},
		&InitializeMultisig2InstructionArgs{RequiredSigners: m},
		WithProgram(program),
	)
	if err != nil {
		return nil, err
	}

	if _, err := c.send(ctx, "CreateMultisig", payer, []ed25519.PrivateKey{keypair}, opts, create, initialize); err != nil {
		return nil, err
	}
	return multisig, nil
}

// CreateWrappedNativeAccount creates a wrapped SOL account for owner funded
// with amount lamports. When keypair is nil the owner's associated account
// is used.
func (c *Client) CreateWrappedNativeAccount(ctx context.Context, payer ed25519.PrivateKey, owner ed25519.PublicKey, amount uint64, keypair ed25519.PrivateKey, opts ...ActionOption) (ed25519.PublicKey, error) {
	program, err := c.actionProgram(ctx, opts)
	if err != nil {
		return nil, err
	}

	if keypair == nil {
		createATA, address, err := NewCreateIdempotentAssociatedTokenAccountInstruction(
			&CreateAssociatedTokenAccountInstructionAccounts{Payer: publicKey(payer), Wallet: owner, Mint: NativeMint},
			WithTokenProgram(program),
		)
		if err != nil {
			return nil, err
		}
		sync, err := NewSyncNativeInstruction(&SyncNativeInstructionAccounts{Account: address}, WithProgram(program))
		if err != nil {
			return nil, err
		}

		fund := system.Transfer(publicKey(payer), address, amount)
		if _, err := c.send(ctx, "CreateWrappedNativeAccount", payer, nil, opts, createATA, fund, sync); err != nil {
			return nil, err
		}
		return address, nil
	}

	account := publicKey(keypair)

	rent, err := c.sc.GetMinimumBalanceForRentExemption(AccountSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get minimum balance for rent exemption")
	}
	create := system.CreateAccount(publicKey(payer), account, program, rent+amount, AccountSize)
	initialize, err := NewInitializeAccount3Instruction(
		&InitializeAccount2InstructionAccounts{Account: account, Mint: NativeMint},
		&InitializeAccount3InstructionArgs{Owner: owner},
		WithProgram(program),
	)
	if err != nil {
		return nil, err
	}

	if _, err := c.send(ctx, "CreateWrappedNativeAccount", payer, []ed25519.PrivateKey{keypair}, opts, create, initialize); err != nil {
		return nil, err
	}
	return account, nil
}

// actionProgram returns the program passed with WithActionProgram, falling
// back to the configured program.
func (c *Client) actionProgram(ctx context.Context, opts []ActionOption) (ed25519.PublicKey, error) {
	if program := applyActionOptions(opts).program; program != nil {
		if err := validateKeys(program); err != nil {
			return nil, errors.Wrap(err, "invalid token program")
		}
		return program, nil
	}
	return c.Program(ctx)
}

func (c *Client) programOption(ctx context.Context, opts []ActionOption) (InstructionOption, error) {
	program, err := c.actionProgram(ctx, opts)
	if err != nil {
		return nil, err
	}
	return WithProgram(program), nil
}

// authorized resolves the signing authority, builds a single instruction
// with it, and sends the result.
func (c *Client) authorized(
	ctx context.Context,
	method string,
	payer ed25519.PrivateKey,
	signing SigningAuthority,
	opts []ActionOption,
	build func(Authority, InstructionOption) (solana.Instruction, error),
) (solana.Signature, error) {
	authority, signers, err := resolveSigners(signing)
	if err != nil {
		return solana.Signature{}, err
	}

	program, err := c.programOption(ctx, opts)
	if err != nil {
		return solana.Signature{}, err
	}

	ix, err := build(authority, program)
	if err != nil {
		return solana.Signature{}, err
	}

	return c.send(ctx, method, payer, signers, opts, ix)
}

func (c *Client) createAccountInstruction(payer ed25519.PrivateKey, address, program ed25519.PublicKey, size uint64) (solana.Instruction, error) {
	lamports, err := c.sc.GetMinimumBalanceForRentExemption(size)
	if err != nil {
		return solana.Instruction{}, errors.Wrap(err, "failed to get minimum balance for rent exemption")
	}
	return system.CreateAccount(publicKey(payer), address, program, lamports, size), nil
}

// send signs the instructions with the payer and signers, submits the
// transaction, and waits for the commitment level to be reached.
//
// A transaction that fails on chain returns its *solana.TransactionError.
func (c *Client) send(ctx context.Context, method string, payer ed25519.PrivateKey, signers []ed25519.PrivateKey, opts []ActionOption, ixs ...solana.Instruction) (solana.Signature, error) {
	var sig solana.Signature

	if len(payer) != ed25519.PrivateKeySize {
		return sig, errors.Wrap(ErrInvalidPublicKey, "invalid payer key")
	}

	log := c.log.WithFields(logrus.Fields{
		"method": method,
		"payer":  base58.Encode(publicKey(payer)),
	})

	o := applyActionOptions(opts)
	if o.computeUnitPrice == nil {
		price := c.conf.computeUnitPrice.Get(ctx)
		o.computeUnitPrice = pointer.IfValid(price > 0, price)
	}
	commitment := o.commitment
	if commitment == nil {
		configured, err := c.conf.defaultCommitment(ctx)
		if err != nil {
			return sig, err
		}
		commitment = &configured
	}

	bh, err := c.sc.GetLatestBlockhash()
	if err != nil {
		return sig, errors.Wrap(err, "failed to get recent blockhash")
	}

	txn := solana.NewTransaction(publicKey(payer), o.wrap(ixs)...)
	txn.SetBlockhash(bh)
	if err := txn.Sign(uniqueSigners(append([]ed25519.PrivateKey{payer}, signers...))...); err != nil {
		return sig, errors.Wrap(err, "failed to sign transaction")
	}

	if err := ctx.Err(); err != nil {
		return sig, err
	}

	sig, err = c.sc.SubmitTransaction(txn, *commitment)
	log = log.WithField("signature", base58.Encode(sig[:]))
	if err != nil {
		log.WithError(err).Warn("failed to submit transaction")
		if txErr, ok := err.(*solana.TransactionError); ok {
			return sig, txErr
		}
		return sig, errors.Wrap(err, "failed to submit transaction")
	}

	status, err := c.sc.GetSignatureStatus(sig, *commitment)
	if err != nil {
		log.WithError(err).Warn("failed to confirm transaction")
		return sig, errors.Wrap(err, "failed to confirm transaction")
	}
	if status != nil && status.ErrorResult != nil {
		log.WithError(status.ErrorResult).Debug("transaction failed")
		return sig, status.ErrorResult
	}

	log.Debug("transaction confirmed")
	return sig, nil
}

func uniqueSigners(keys []ed25519.PrivateKey) []ed25519.PrivateKey {
	unique := make([]ed25519.PrivateKey, 0, len(keys))
	for _, k := range keys {
		var seen bool
		for _, u := range unique {
			if bytes.Equal(k, u) {
				seen = true
				break
			}
		}
		if !seen {
			unique = append(unique, k)
		}
	}
	return unique
}

func keypairOrGenerate(keypair ed25519.PrivateKey) (ed25519.PrivateKey, error) {
	if keypair != nil {
		return keypair, nil
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate keypair")
	}
	return priv, nil
}
