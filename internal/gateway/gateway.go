// Package gateway is the wallet's view of the remote ledger: commitment-
// scoped reads plus submit-and-confirm for signed transactions. The
// interface is the seam the orchestrators are tested against.
package gateway

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/solettadev/soletta/internal/config"
)

// ErrAccountNotFound is returned by Account when no account exists at the
// requested address.
var ErrAccountNotFound = errors.New("account not found")

// Account is the raw on-chain account record. Data is the untyped payload;
// decoding into domain views happens in the state package.
type Account struct {
	Lamports   uint64
	Owner      solana.PublicKey
	Data       []byte
	Executable bool
	RentEpoch  uint64
}

// EpochInfo is the subset of epoch data the wallet gates on.
type EpochInfo struct {
	Epoch        uint64
	SlotIndex    uint64
	SlotsInEpoch uint64
	AbsoluteSlot uint64
}

// LargestAccountsFilter selects which account population to rank.
type LargestAccountsFilter string

const (
	FilterAll            LargestAccountsFilter = ""
	FilterCirculating    LargestAccountsFilter = "circulating"
	FilterNonCirculating LargestAccountsFilter = "nonCirculating"
)

// AccountBalance is one row of a largest-accounts listing.
type AccountBalance struct {
	Address  solana.PublicKey
	Lamports uint64
}

// Gateway exposes the ledger operations the wallet consumes. Every call is
// a suspension point: implementations perform a network round trip and the
// caller blocks until it resolves.
type Gateway interface {
	// Account fetches the account at addr, or ErrAccountNotFound.
	Account(ctx context.Context, addr solana.PublicKey) (*Account, error)

	// Balance fetches the current lamport balance of addr.
	Balance(ctx context.Context, addr solana.PublicKey) (uint64, error)

	// EpochInfo fetches the cluster's current epoch information.
	EpochInfo(ctx context.Context) (*EpochInfo, error)

	// LatestBlockhash fetches a recent blockhash for transaction assembly.
	LatestBlockhash(ctx context.Context) (solana.Hash, error)

	// MinimumRentExemptBalance returns the lamports required to make an
	// account of the given data size rent exempt.
	MinimumRentExemptBalance(ctx context.Context, dataSize uint64) (uint64, error)

	// LargestAccounts lists the cluster's largest accounts by balance.
	LargestAccounts(ctx context.Context, filter LargestAccountsFilter) ([]AccountBalance, error)

	// RequestAirdrop asks the cluster faucet to credit addr.
	RequestAirdrop(ctx context.Context, addr solana.PublicKey, lamports uint64) (solana.Signature, error)

	// SendAndConfirm submits a signed transaction and blocks until the
	// ledger confirms it at the configured commitment level.
	SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)

	// Commitment reports the commitment level this gateway is bound to.
	Commitment() config.Commitment
}
