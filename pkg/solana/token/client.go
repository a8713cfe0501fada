package token

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/spl-token-go/pkg/solana"
)

// Client reads token program state and performs token actions over a
// solana.Client.
type Client struct {
	log  *logrus.Entry
	sc   solana.Client
	conf *conf
}

// NewClient creates a new Client.
func NewClient(sc solana.Client, configProvider ConfigProvider) *Client {
	return &Client{
		log:  logrus.StandardLogger().WithField("type", "solana/token"),
		sc:   sc,
		conf: configProvider(),
	}
}

// Program returns the configured token program address.
func (c *Client) Program(ctx context.Context) (ed25519.PublicKey, error) {
	return c.conf.program(ctx)
}

// GetAccount returns the token account at address.
func (c *Client) GetAccount(ctx context.Context, address ed25519.PublicKey) (*Account, error) {
	var account Account
	if err := c.getState(ctx, address, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetMint returns the mint at address.
func (c *Client) GetMint(ctx context.Context, address ed25519.PublicKey) (*Mint, error) {
	var mint Mint
	if err := c.getState(ctx, address, &mint); err != nil {
		return nil, err
	}
	return &mint, nil
}

// GetMultisig returns the multisig account at address.
func (c *Client) GetMultisig(ctx context.Context, address ed25519.PublicKey) (*Multisig, error) {
	var multisig Multisig
	if err := c.getState(ctx, address, &multisig); err != nil {
		return nil, err
	}
	return &multisig, nil
}

// GetAccountsByOwner returns the token accounts of mint held by owner.
func (c *Client) GetAccountsByOwner(ctx context.Context, owner, mint ed25519.PublicKey) ([]ed25519.PublicKey, error) {
	accounts, err := c.sc.GetTokenAccountsByOwner(owner, mint)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get token accounts by owner")
	}
	return accounts, nil
}

// GetBalance returns the token balance of account.
func (c *Client) GetBalance(ctx context.Context, account ed25519.PublicKey) (uint64, error) {
	balance, _, err := c.sc.GetTokenAccountBalance(account)
	if err == solana.ErrNoBalance {
		return 0, ErrAccountNotFound
	} else if err != nil {
		return 0, errors.Wrap(err, "failed to get token account balance")
	}
	return balance, nil
}

type unmarshaler interface {
	Unmarshal([]byte) error
}

func (c *Client) getState(ctx context.Context, address ed25519.PublicKey, dst unmarshaler) error {
	program, err := c.conf.program(ctx)
	if err != nil {
		return err
	}
	commitment, err := c.conf.defaultCommitment(ctx)
	if err != nil {
		return err
	}

	accountInfo, err := c.sc.GetAccountInfo(address, commitment)
	if err == solana.ErrNoAccountInfo {
		return ErrAccountNotFound
	} else if err != nil {
		return errors.Wrap(err, "failed to get account info")
	}

	if !bytes.Equal(accountInfo.Owner, program) {
		return errors.Wrapf(ErrInvalidAccountOwner, "%s is owned by %s", base58.Encode(address), base58.Encode(accountInfo.Owner))
	}

	return dst.Unmarshal(accountInfo.Data)
}
