// Package txbuilder assembles, signs, and submits transactions. One message
// covers all instructions with a single designated fee payer; signing uses
// exactly the supplied signer set; submission blocks until the gateway
// confirms at its configured commitment level.
package txbuilder

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/solettadev/soletta/internal/gateway"
)

type Builder struct {
	gw     gateway.Gateway
	logger zerolog.Logger
}

func New(gw gateway.Gateway, logger zerolog.Logger) *Builder {
	return &Builder{
		gw:     gw,
		logger: logger.With().Str("component", "tx_builder").Logger(),
	}
}

// SignAndSend builds one transaction from the ordered instruction list,
// attaches the latest blockhash, signs with the supplied keys, and submits
// it. The first failure surfaces verbatim; there are no retries.
func (b *Builder) SignAndSend(
	ctx context.Context,
	instructions []solana.Instruction,
	feePayer solana.PublicKey,
	signers []solana.PrivateKey,
) (solana.Signature, error) {
	if len(instructions) == 0 {
		return solana.Signature{}, fmt.Errorf("no instructions to send")
	}
	if len(signers) == 0 {
		return solana.Signature{}, fmt.Errorf("no signers provided")
	}

	blockhash, err := b.gw.LatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	tx, err := solana.NewTransaction(
		instructions,
		blockhash,
		solana.TransactionPayer(feePayer),
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range signers {
			if key.Equals(signers[i].PublicKey()) {
				return &signers[i]
			}
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := b.gw.SendAndConfirm(ctx, tx)
	if err != nil {
		return solana.Signature{}, err
	}

	b.logger.Debug().
		Str("signature", sig.String()).
		Int("instructions", len(instructions)).
		Msg("transaction confirmed")
	return sig, nil
}
