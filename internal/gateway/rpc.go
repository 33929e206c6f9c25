package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"github.com/solettadev/soletta/internal/config"
	"github.com/solettadev/soletta/internal/errs"
)

const (
	dialTimeout        = 10 * time.Second
	confirmPollEvery   = 500 * time.Millisecond
	confirmPollTimeout = 90 * time.Second
)

// RPCGateway implements Gateway over a single JSON-RPC endpoint.
type RPCGateway struct {
	client     *rpc.Client
	commitment config.Commitment
	logger     zerolog.Logger
}

// Dial creates a gateway bound to one endpoint and one commitment level,
// verifying node health before returning.
func Dial(ctx context.Context, url string, commitment config.Commitment, logger zerolog.Logger) (*RPCGateway, error) {
	if url == "" {
		return nil, fmt.Errorf("no RPC URL provided")
	}
	if !commitment.Valid() {
		return nil, fmt.Errorf("invalid commitment level %q", commitment)
	}

	log := logger.With().Str("component", "rpc_gateway").Logger()
	client := rpc.New(url)

	healthCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	health, err := client.GetHealth(healthCtx)
	if err != nil {
		return nil, errs.Gateway("get_health", err)
	}
	if health != "ok" {
		return nil, errs.Gateway("get_health", fmt.Errorf("node reported health %q", health))
	}
	log.Debug().Str("url", url).Str("commitment", string(commitment)).Msg("connected to RPC endpoint")

	return &RPCGateway{
		client:     client,
		commitment: commitment,
		logger:     log,
	}, nil
}

func (g *RPCGateway) Commitment() config.Commitment { return g.commitment }

func (g *RPCGateway) rpcCommitment() rpc.CommitmentType {
	switch g.commitment {
	case config.CommitmentProcessed:
		return rpc.CommitmentProcessed
	case config.CommitmentFinalized:
		return rpc.CommitmentFinalized
	default:
		return rpc.CommitmentConfirmed
	}
}

func (g *RPCGateway) Account(ctx context.Context, addr solana.PublicKey) (*Account, error) {
	res, err := g.client.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
		Commitment: g.rpcCommitment(),
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, errs.Gateway("get_account_info", err)
	}
	if res == nil || res.Value == nil {
		return nil, ErrAccountNotFound
	}

	var data []byte
	if res.Value.Data != nil {
		data = res.Value.Data.GetBinary()
	}
	return &Account{
		Lamports:   res.Value.Lamports,
		Owner:      res.Value.Owner,
		Data:       data,
		Executable: res.Value.Executable,
		RentEpoch:  res.Value.RentEpoch.Uint64(),
	}, nil
}

func (g *RPCGateway) Balance(ctx context.Context, addr solana.PublicKey) (uint64, error) {
	res, err := g.client.GetBalance(ctx, addr, g.rpcCommitment())
	if err != nil {
		return 0, errs.Gateway("get_balance", err)
	}
	return res.Value, nil
}

func (g *RPCGateway) EpochInfo(ctx context.Context) (*EpochInfo, error) {
	res, err := g.client.GetEpochInfo(ctx, g.rpcCommitment())
	if err != nil {
		return nil, errs.Gateway("get_epoch_info", err)
	}
	return &EpochInfo{
		Epoch:        res.Epoch,
		SlotIndex:    res.SlotIndex,
		SlotsInEpoch: res.SlotsInEpoch,
		AbsoluteSlot: res.AbsoluteSlot,
	}, nil
}

func (g *RPCGateway) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	res, err := g.client.GetLatestBlockhash(ctx, g.rpcCommitment())
	if err != nil {
		return solana.Hash{}, errs.Gateway("get_latest_blockhash", err)
	}
	return res.Value.Blockhash, nil
}

func (g *RPCGateway) MinimumRentExemptBalance(ctx context.Context, dataSize uint64) (uint64, error) {
	lamports, err := g.client.GetMinimumBalanceForRentExemption(ctx, dataSize, g.rpcCommitment())
	if err != nil {
		return 0, errs.Gateway("get_minimum_balance_for_rent_exemption", err)
	}
	return lamports, nil
}

func (g *RPCGateway) LargestAccounts(ctx context.Context, filter LargestAccountsFilter) ([]AccountBalance, error) {
	res, err := g.client.GetLargestAccounts(ctx, g.rpcCommitment(), rpc.LargestAccountsFilterType(filter))
	if err != nil {
		return nil, errs.Gateway("get_largest_accounts", err)
	}
	out := make([]AccountBalance, 0, len(res.Value))
	for _, acc := range res.Value {
		out = append(out, AccountBalance{Address: acc.Address, Lamports: acc.Lamports})
	}
	return out, nil
}

func (g *RPCGateway) RequestAirdrop(ctx context.Context, addr solana.PublicKey, lamports uint64) (solana.Signature, error) {
	sig, err := g.client.RequestAirdrop(ctx, addr, lamports, g.rpcCommitment())
	if err != nil {
		return solana.Signature{}, errs.Gateway("request_airdrop", err)
	}
	return sig, nil
}

// SendAndConfirm broadcasts tx and polls signature status until the
// configured commitment is reached. Once submitted there is no abort path;
// the only outcomes are confirmation, a ledger-side rejection, or a poll
// timeout.
func (g *RPCGateway) SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := g.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: g.rpcCommitment(),
	})
	if err != nil {
		return solana.Signature{}, errs.Submission("", err)
	}

	g.logger.Debug().Str("signature", sig.String()).Msg("transaction sent, awaiting confirmation")

	if err := g.awaitConfirmation(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

func (g *RPCGateway) awaitConfirmation(ctx context.Context, sig solana.Signature) error {
	deadline := time.NewTimer(confirmPollTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(confirmPollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return errs.Submission(sig.String(), ctx.Err())
		case <-deadline.C:
			return errs.Submission(sig.String(), fmt.Errorf("confirmation not reached within %s", confirmPollTimeout))
		case <-ticker.C:
		}

		res, err := g.client.GetSignatureStatuses(ctx, false, sig)
		if err != nil {
			g.logger.Warn().Err(err).Str("signature", sig.String()).Msg("status poll failed, retrying")
			continue
		}
		if res == nil || len(res.Value) == 0 || res.Value[0] == nil {
			continue
		}

		status := res.Value[0]
		if status.Err != nil {
			return errs.Submission(sig.String(), fmt.Errorf("ledger rejected transaction: %v", status.Err))
		}
		if commitmentReached(status.ConfirmationStatus, g.commitment) {
			return nil
		}
	}
}

func commitmentReached(status rpc.ConfirmationStatusType, want config.Commitment) bool {
	rank := func(s rpc.ConfirmationStatusType) int {
		switch s {
		case rpc.ConfirmationStatusProcessed:
			return 1
		case rpc.ConfirmationStatusConfirmed:
			return 2
		case rpc.ConfirmationStatusFinalized:
			return 3
		}
		return 0
	}
	wantRank := map[config.Commitment]int{
		config.CommitmentProcessed: 1,
		config.CommitmentConfirmed: 2,
		config.CommitmentFinalized: 3,
	}[want]
	return rank(status) >= wantRank
}
