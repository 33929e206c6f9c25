package ops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/solettadev/soletta/internal/gateway"
	"github.com/solettadev/soletta/internal/history"
	"github.com/solettadev/soletta/internal/instr"
	"github.com/solettadev/soletta/internal/lamports"
	"github.com/solettadev/soletta/internal/state"
	"github.com/solettadev/soletta/internal/validate"
)

// airdropLamports is the fixed faucet request size: exactly 1 SOL.
const airdropLamports = lamports.PerSOL

// AccountOps orchestrates the wallet-account operation group.
type AccountOps struct {
	*Deps
}

func NewAccountOps(deps *Deps) *AccountOps {
	return &AccountOps{Deps: deps}
}

// Balance fetches and prints the balance of a prompted address, or of the
// session wallet when the prompt is left blank.
func (a *AccountOps) Balance(ctx context.Context) (Outcome, error) {
	raw, err := a.Prompt.Input("Account address (blank for this wallet)")
	if err != nil {
		return Completed, err
	}

	target := a.Session.Pubkey
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		target, err = solana.PublicKeyFromBase58(trimmed)
		if err != nil {
			return Completed, fmt.Errorf("invalid address %q: %w", trimmed, err)
		}
	}

	var balance uint64
	err = a.Console.Spin("fetching balance", func() error {
		var err error
		balance, err = a.Session.Gateway.Balance(ctx, target)
		return err
	})
	if err != nil {
		return Completed, err
	}
	a.Console.Successf("Balance of %s: %s", target.String(), lamports.FormatSOL(balance))
	return Completed, nil
}

// Transfer prompts for recipient and amount, checks the freshly fetched
// sender balance, and submits a system transfer.
func (a *AccountOps) Transfer(ctx context.Context) (Outcome, error) {
	recipient, err := a.promptPubkey("Recipient address")
	if err != nil {
		return Completed, err
	}
	amount, err := a.promptAmount("Amount (SOL)")
	if err != nil {
		return Completed, err
	}

	balance, err := a.Session.Gateway.Balance(ctx, a.Session.Pubkey)
	if err != nil {
		return Completed, err
	}
	if err := validate.Transfer(balance, amount); err != nil {
		return Completed, err
	}

	var sig solana.Signature
	err = a.Console.Spin(fmt.Sprintf("transferring %s", lamports.FormatSOL(amount)), func() error {
		var err error
		sig, err = a.Builder.SignAndSend(ctx,
			[]solana.Instruction{instr.Transfer(a.Session.Pubkey, recipient, amount)},
			a.Session.Pubkey,
			[]solana.PrivateKey{a.Session.Keypair},
		)
		return err
	})
	if err != nil {
		return Completed, err
	}

	a.printSignature(sig)
	a.record(&history.Entry{
		Signature:    sig.String(),
		Kind:         "transfer",
		Lamports:     amount,
		Counterparty: recipient.String(),
	})
	return Completed, nil
}

// Airdrop requests the fixed 1 SOL faucet credit for the session wallet.
func (a *AccountOps) Airdrop(ctx context.Context) (Outcome, error) {
	var sig solana.Signature
	err := a.Console.Spin("requesting airdrop", func() error {
		var err error
		sig, err = a.Session.Gateway.RequestAirdrop(ctx, a.Session.Pubkey, airdropLamports)
		return err
	})
	if err != nil {
		return Completed, err
	}
	a.Console.Successf("Airdrop of %s requested", lamports.FormatSOL(airdropLamports))
	a.Console.Accentf("Signature: %s", sig.String())
	a.record(&history.Entry{
		Signature:    sig.String(),
		Kind:         "airdrop",
		Lamports:     airdropLamports,
		Counterparty: a.Session.Pubkey.String(),
	})
	return Completed, nil
}

// ShowAccount fetches an arbitrary account and prints its raw fields.
func (a *AccountOps) ShowAccount(ctx context.Context) (Outcome, error) {
	addr, err := a.promptPubkey("Account address")
	if err != nil {
		return Completed, err
	}

	acct, err := a.Session.Gateway.Account(ctx, addr)
	if err != nil {
		if errors.Is(err, gateway.ErrAccountNotFound) {
			a.Console.Warnf("No account at %s", addr.String())
			return Completed, nil
		}
		return Completed, err
	}

	a.Console.Header("Account " + addr.String())
	a.Console.Table(
		[]string{"Field", "Value"},
		[][]string{
			{"Balance", lamports.FormatSOL(acct.Lamports)},
			{"Owner", acct.Owner.String()},
			{"Executable", fmt.Sprintf("%t", acct.Executable)},
			{"Data length", fmt.Sprintf("%d bytes", len(acct.Data))},
			{"Rent epoch", fmt.Sprintf("%d", acct.RentEpoch)},
		},
	)
	return Completed, nil
}

// NonceAccount fetches a durable-nonce account, decodes it, and prints
// its authority, stored blockhash, and fee calculator.
func (a *AccountOps) NonceAccount(ctx context.Context) (Outcome, error) {
	addr, err := a.promptPubkey("Nonce account address")
	if err != nil {
		return Completed, err
	}

	acct, err := a.Session.Gateway.Account(ctx, addr)
	if err != nil {
		return Completed, err
	}
	nonce, err := state.DecodeNonceAccount(acct.Data)
	if err != nil {
		return Completed, err
	}
	if err := validate.NonceInitialized(nonce); err != nil {
		return Completed, err
	}

	a.Console.Header("Nonce account " + addr.String())
	a.Console.Table(
		[]string{"Field", "Value"},
		[][]string{
			{"Balance", lamports.FormatSOL(acct.Lamports)},
			{"Authority", nonce.Authority.String()},
			{"Blockhash", nonce.Blockhash.String()},
			{"Lamports per signature", fmt.Sprintf("%d", nonce.LamportsPerSignature)},
		},
	)
	return Completed, nil
}

// LargestAccounts prompts for a population filter and prints the ranked
// listing.
func (a *AccountOps) LargestAccounts(ctx context.Context) (Outcome, error) {
	filters := []gateway.LargestAccountsFilter{
		gateway.FilterAll,
		gateway.FilterCirculating,
		gateway.FilterNonCirculating,
	}
	idx, err := a.Prompt.Select("Account population", []string{"All", "Circulating", "Non-circulating"})
	if err != nil {
		return Completed, err
	}

	var balances []gateway.AccountBalance
	err = a.Console.Spin("fetching largest accounts", func() error {
		var err error
		balances, err = a.Session.Gateway.LargestAccounts(ctx, filters[idx])
		return err
	})
	if err != nil {
		return Completed, err
	}

	rows := make([][]string, 0, len(balances))
	for i, b := range balances {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			b.Address.String(),
			lamports.FormatSOL(b.Lamports),
		})
	}
	a.Console.Header("Largest accounts")
	a.Console.Table([]string{"#", "Address", "Balance"}, rows)
	return Completed, nil
}

// History prints the most recent entries of the local submission journal.
func (a *AccountOps) History(ctx context.Context) (Outcome, error) {
	entries, err := a.Session.History.Recent(20)
	if err != nil {
		return Completed, err
	}
	if len(entries) == 0 {
		a.Console.Dimf("No transactions recorded yet")
		return Completed, nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Kind,
			lamports.FormatSOL(e.Lamports),
			e.Counterparty,
			e.Signature,
		})
	}
	a.Console.Header("Recent transactions")
	a.Console.Table([]string{"Time", "Kind", "Amount", "Counterparty", "Signature"}, rows)
	return Completed, nil
}

// record appends a journal entry; journal failures are advisory since the
// transaction is already confirmed.
func (d *Deps) record(e *history.Entry) {
	if err := d.Session.History.Record(e); err != nil {
		d.Session.Logger.Warn().Err(err).Str("signature", e.Signature).Msg("failed to record history entry")
	}
}
