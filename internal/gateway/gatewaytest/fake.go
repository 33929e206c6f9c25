// Package gatewaytest provides a scriptable Gateway for orchestrator and
// builder tests. Unset hooks fail loudly so a test never silently hits a
// code path it did not script.
package gatewaytest

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/solettadev/soletta/internal/config"
	"github.com/solettadev/soletta/internal/gateway"
)

// Fake implements gateway.Gateway with per-call hooks and call counters.
type Fake struct {
	AccountFn        func(addr solana.PublicKey) (*gateway.Account, error)
	BalanceFn        func(addr solana.PublicKey) (uint64, error)
	EpochInfoFn      func() (*gateway.EpochInfo, error)
	BlockhashFn      func() (solana.Hash, error)
	RentFn           func(dataSize uint64) (uint64, error)
	LargestFn        func(filter gateway.LargestAccountsFilter) ([]gateway.AccountBalance, error)
	AirdropFn        func(addr solana.PublicKey, lamports uint64) (solana.Signature, error)
	SendAndConfirmFn func(tx *solana.Transaction) (solana.Signature, error)

	AccountCalls int
	SendCalls    int
}

var _ gateway.Gateway = (*Fake)(nil)

func (f *Fake) Account(_ context.Context, addr solana.PublicKey) (*gateway.Account, error) {
	f.AccountCalls++
	if f.AccountFn == nil {
		return nil, fmt.Errorf("unexpected Account call for %s", addr)
	}
	return f.AccountFn(addr)
}

func (f *Fake) Balance(_ context.Context, addr solana.PublicKey) (uint64, error) {
	if f.BalanceFn == nil {
		return 0, fmt.Errorf("unexpected Balance call for %s", addr)
	}
	return f.BalanceFn(addr)
}

func (f *Fake) EpochInfo(context.Context) (*gateway.EpochInfo, error) {
	if f.EpochInfoFn == nil {
		return nil, fmt.Errorf("unexpected EpochInfo call")
	}
	return f.EpochInfoFn()
}

func (f *Fake) LatestBlockhash(context.Context) (solana.Hash, error) {
	if f.BlockhashFn == nil {
		return solana.Hash{}, fmt.Errorf("unexpected LatestBlockhash call")
	}
	return f.BlockhashFn()
}

func (f *Fake) MinimumRentExemptBalance(_ context.Context, dataSize uint64) (uint64, error) {
	if f.RentFn == nil {
		return 0, fmt.Errorf("unexpected MinimumRentExemptBalance call for size %d", dataSize)
	}
	return f.RentFn(dataSize)
}

func (f *Fake) LargestAccounts(_ context.Context, filter gateway.LargestAccountsFilter) ([]gateway.AccountBalance, error) {
	if f.LargestFn == nil {
		return nil, fmt.Errorf("unexpected LargestAccounts call")
	}
	return f.LargestFn(filter)
}

func (f *Fake) RequestAirdrop(_ context.Context, addr solana.PublicKey, lamports uint64) (solana.Signature, error) {
	if f.AirdropFn == nil {
		return solana.Signature{}, fmt.Errorf("unexpected RequestAirdrop call")
	}
	return f.AirdropFn(addr, lamports)
}

func (f *Fake) SendAndConfirm(_ context.Context, tx *solana.Transaction) (solana.Signature, error) {
	f.SendCalls++
	if f.SendAndConfirmFn == nil {
		return solana.Signature{}, fmt.Errorf("unexpected SendAndConfirm call")
	}
	return f.SendAndConfirmFn(tx)
}

func (f *Fake) Commitment() config.Commitment {
	return config.CommitmentConfirmed
}
