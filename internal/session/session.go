// Package session owns the wallet's signing identity and its binding to
// one RPC endpoint at one commitment level. A session is immutable once
// built; configuration reload replaces it wholesale so in-flight operations
// always observe a consistent snapshot.
package session

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/solettadev/soletta/internal/config"
	"github.com/solettadev/soletta/internal/gateway"
	"github.com/solettadev/soletta/internal/history"
	"github.com/solettadev/soletta/internal/keys"
)

type Session struct {
	Keypair solana.PrivateKey
	Pubkey  solana.PublicKey
	Gateway gateway.Gateway
	History *history.Store
	Logger  zerolog.Logger
}

// New builds a session from the given configuration: loads the keypair,
// dials the gateway, and opens the local history journal.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Session, error) {
	keypair, err := keys.Load(cfg.KeypairPath)
	if err != nil {
		return nil, err
	}

	gw, err := gateway.Dial(ctx, cfg.RPCURL, cfg.Commitment, logger)
	if err != nil {
		return nil, err
	}

	historyPath, err := config.HistoryDBPath()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(historyPath)
	if err != nil {
		return nil, err
	}

	return &Session{
		Keypair: keypair,
		Pubkey:  keypair.PublicKey(),
		Gateway: gw,
		History: store,
		Logger:  logger.With().Str("component", "session").Logger(),
	}, nil
}

// Close releases session resources. The gateway holds no connection state;
// only the journal needs closing.
func (s *Session) Close() {
	if s.History != nil {
		_ = s.History.Close()
	}
}
