package token

import (
	"crypto/ed25519"

	"github.com/pkg/errors"
)

// SigningAuthority holds the private keys that approve an action. It is
// either a SingleSigner or MultisigSigners.
type SigningAuthority interface {
	isSigningAuthority()
}

// SingleSigner is an authority that signs with its own key.
type SingleSigner struct {
	Key ed25519.PrivateKey
}

// MultisigSigners approves on behalf of a multisig account using a subset of
// its member keys.
type MultisigSigners struct {
	Multisig ed25519.PublicKey
	Signers  []ed25519.PrivateKey
}

func (SingleSigner) isSigningAuthority() {}
func (MultisigSigners) isSigningAuthority() {}

// resolveSigners maps a SigningAuthority to the Authority recorded in the
// instruction and the keys that must sign the transaction.
func resolveSigners(authority SigningAuthority) (Authority, []ed25519.PrivateKey, error) {
	switch a := authority.(type) {
	case SingleSigner:
		if len(a.Key) != ed25519.PrivateKeySize {
			return nil, nil, errors.Wrap(ErrInvalidPublicKey, "invalid signing key")
		}
		return SingleAuthority{Authority: publicKey(a.Key)}, []ed25519.PrivateKey{a.Key}, nil

	case MultisigSigners:
		if len(a.Signers) == 0 || len(a.Signers) > MaxSigners {
			return nil, nil, errors.Wrapf(ErrInvalidNumberOfSigners, "got %d", len(a.Signers))
		}

		multisig := MultisigAuthority{Multisig: a.Multisig}
		for _, s := range a.Signers {
			if len(s) != ed25519.PrivateKeySize {
				return nil, nil, errors.Wrap(ErrInvalidPublicKey, "invalid multisig signing key")
			}
			multisig.Signers = append(multisig.Signers, publicKey(s))
		}
		return multisig, a.Signers, nil

	case nil:
		return nil, nil, ErrMissingAuthority

	default:
		return nil, nil, errors.Errorf("unsupported signing authority type %T", authority)
	}
}

// publicKey returns nil for malformed keys so key validation reports them.
func publicKey(key ed25519.PrivateKey) ed25519.PublicKey {
	if len(key) != ed25519.PrivateKeySize {
		return nil
	}
	return key.Public().(ed25519.PublicKey)
}
