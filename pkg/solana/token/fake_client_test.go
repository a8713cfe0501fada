package token

import (
	"crypto/ed25519"
	"sync"

	"github.com/mr-tron/base58"

	"github.com/code-payments/spl-token-go/pkg/solana"
)

// fakeSolanaClient is an in memory solana.Client that records submitted
// transactions.
type fakeSolanaClient struct {
	mu sync.Mutex

	blockhash solana.Blockhash
	rent      uint64

	accounts map[string]solana.AccountInfo
	balances map[string]uint64
	byOwner  []ed25519.PublicKey

	submitted   []solana.Transaction
	commitments []solana.Commitment
	submitErr   error
	status      *solana.SignatureStatus
	statusErr   error

	// onSubmit runs after a transaction is recorded, e.g. to materialize
	// accounts it creates.
	onSubmit func(solana.Transaction)
}

func newFakeSolanaClient() *fakeSolanaClient {
	return &fakeSolanaClient{
		blockhash: solana.Blockhash{1, 2, 3},
		rent:      2039280,
		accounts:  make(map[string]solana.AccountInfo),
		balances:  make(map[string]uint64),
	}
}

func (f *fakeSolanaClient) setAccount(address ed25519.PublicKey, info solana.AccountInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[base58.Encode(address)] = info
}

func (f *fakeSolanaClient) transactions() []solana.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]solana.Transaction{}, f.submitted...)
}

func (f *fakeSolanaClient) GetAccountInfo(account ed25519.PublicKey, _ solana.Commitment) (solana.AccountInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	info, ok := f.accounts[base58.Encode(account)]
	if !ok {
		return solana.AccountInfo{}, solana.ErrNoAccountInfo
	}
	return info, nil
}

func (f *fakeSolanaClient) GetLatestBlockhash() (solana.Blockhash, error) {
	return f.blockhash, nil
}

func (f *fakeSolanaClient) GetMinimumBalanceForRentExemption(size uint64) (uint64, error) {
	return f.rent, nil
}

func (f *fakeSolanaClient) GetSignatureStatus(solana.Signature, solana.Commitment) (*solana.SignatureStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if f.status != nil {
		return f.status, nil
	}
	return &solana.SignatureStatus{ConfirmationStatus: "finalized"}, nil
}

func (f *fakeSolanaClient) GetSignatureStatuses(sigs []solana.Signature) ([]*solana.SignatureStatus, error) {
	statuses := make([]*solana.SignatureStatus, len(sigs))
	for i := range sigs {
		statuses[i], _ = f.GetSignatureStatus(sigs[i], solana.CommitmentFinalized)
	}
	return statuses, nil
}

func (f *fakeSolanaClient) GetTokenAccountBalance(account ed25519.PublicKey) (uint64, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	balance, ok := f.balances[base58.Encode(account)]
	if !ok {
		return 0, 0, solana.ErrNoBalance
	}
	return balance, 10, nil
}

func (f *fakeSolanaClient) GetTokenAccountsByOwner(owner, mint ed25519.PublicKey) ([]ed25519.PublicKey, error) {
	return f.byOwner, nil
}

func (f *fakeSolanaClient) SubmitTransaction(txn solana.Transaction, commitment solana.Commitment) (solana.Signature, error) {
	f.mu.Lock()
	f.submitted = append(f.submitted, txn)
	f.commitments = append(f.commitments, commitment)
	err := f.submitErr
	onSubmit := f.onSubmit
	f.mu.Unlock()

	if err != nil {
		return txn.Signatures[0], err
	}
	if onSubmit != nil {
		onSubmit(txn)
	}
	return txn.Signatures[0], nil
}
