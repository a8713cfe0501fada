package token

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	spfviper "github.com/spf13/viper"

	"github.com/code-payments/spl-token-go/pkg/config"
	"github.com/code-payments/spl-token-go/pkg/config/env"
	"github.com/code-payments/spl-token-go/pkg/config/memory"
	"github.com/code-payments/spl-token-go/pkg/config/viper"
	"github.com/code-payments/spl-token-go/pkg/config/wrapper"
	"github.com/code-payments/spl-token-go/pkg/solana"
)

const (
	envConfigPrefix   = "TOKEN_CLIENT_"
	viperConfigPrefix = "token_client."

	ProgramAddressConfigEnvName = envConfigPrefix + "PROGRAM_ADDRESS"
	programAddressViperKey      = viperConfigPrefix + "program_address"
	defaultProgramAddress       = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

	CommitmentConfigEnvName = envConfigPrefix + "COMMITMENT"
	commitmentViperKey      = viperConfigPrefix + "commitment"
	defaultCommitment       = "confirmed"

	ComputeUnitPriceConfigEnvName = envConfigPrefix + "COMPUTE_UNIT_PRICE"
	computeUnitPriceViperKey      = viperConfigPrefix + "compute_unit_price"
	defaultComputeUnitPrice       = 0
)

type conf struct {
	programAddress config.String
	commitment     config.String

	// Priority fee in micro-lamports per compute unit added to every action
	// that does not set one. Zero disables it.
	computeUnitPrice config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			programAddress: env.NewStringConfig(ProgramAddressConfigEnvName, defaultProgramAddress),
			commitment:     env.NewStringConfig(CommitmentConfigEnvName, defaultCommitment),

			computeUnitPrice: env.NewUint64Config(ComputeUnitPriceConfigEnvName, defaultComputeUnitPrice),
		}
	}
}

// WithViperConfigs returns configuration pulled from the token_client
// section of v.
func WithViperConfigs(v *spfviper.Viper) ConfigProvider {
	return func() *conf {
		return &conf{
			programAddress: viper.NewStringConfig(v, programAddressViperKey, defaultProgramAddress),
			commitment:     viper.NewStringConfig(v, commitmentViperKey, defaultCommitment),

			computeUnitPrice: viper.NewUint64Config(v, computeUnitPriceViperKey, defaultComputeUnitPrice),
		}
	}
}

type testOverrides struct {
	program          ed25519.PublicKey
	commitment       string
	computeUnitPrice uint64
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	programAddress := defaultProgramAddress
	if overrides.program != nil {
		programAddress = base58.Encode(overrides.program)
	}
	commitment := defaultCommitment
	if overrides.commitment != "" {
		commitment = overrides.commitment
	}

	return func() *conf {
		return &conf{
			programAddress: wrapper.NewStringConfig(memory.NewConfig(programAddress), defaultProgramAddress),
			commitment:     wrapper.NewStringConfig(memory.NewConfig(commitment), defaultCommitment),

			computeUnitPrice: wrapper.NewUint64Config(memory.NewConfig(overrides.computeUnitPrice), defaultComputeUnitPrice),
		}
	}
}

func (c *conf) program(ctx context.Context) (ed25519.PublicKey, error) {
	raw := c.programAddress.Get(ctx)

	key, err := base58.Decode(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid program address %q", raw)
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(ErrInvalidPublicKey, "program address %q", raw)
	}
	return key, nil
}

func (c *conf) defaultCommitment(ctx context.Context) (solana.Commitment, error) {
	return solana.ParseCommitment(c.commitment.Get(ctx))
}
