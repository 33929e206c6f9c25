// Package ops holds the operation orchestrators. Each operation follows
// the same sequence: gather inputs, fetch fresh state from the gateway,
// run the validation rule set for the operation, and only then build,
// sign, and submit a transaction. State fetched for one invocation is
// never reused by another.
package ops

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/solettadev/soletta/internal/errs"
	"github.com/solettadev/soletta/internal/lamports"
	"github.com/solettadev/soletta/internal/session"
	"github.com/solettadev/soletta/internal/txbuilder"
	"github.com/solettadev/soletta/internal/ui"
	"github.com/solettadev/soletta/internal/validate"
)

// Outcome is the router-visible result of running one menu leaf.
type Outcome int

const (
	// Completed means the leaf ran to its conclusion, successfully or with
	// a printed error, and the current menu should be shown again.
	Completed Outcome = iota
	// Back returns to the parent menu.
	Back
	// Exit terminates the interactive loop.
	Exit
)

// Deps bundles what every orchestrator needs.
type Deps struct {
	Session *session.Session
	Builder *txbuilder.Builder
	Console *ui.Console
	Prompt  ui.Prompter
}

func (d *Deps) promptPubkey(label string) (solana.PublicKey, error) {
	raw, err := d.Prompt.Input(label)
	if err != nil {
		return solana.PublicKey{}, err
	}
	key, err := solana.PublicKeyFromBase58(strings.TrimSpace(raw))
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid address %q: %w", strings.TrimSpace(raw), err)
	}
	return key, nil
}

// promptAmount reads a SOL amount and converts it to lamports. Zero,
// negative, and non-finite amounts are rejected here so no operation ever
// sees them. ParseFloat accepts "NaN" and "Inf", and converting either to
// uint64 is undefined, hence the explicit guard.
func (d *Deps) promptAmount(label string) (uint64, error) {
	raw, err := d.Prompt.Input(label)
	if err != nil {
		return 0, err
	}
	trimmed := strings.TrimSpace(raw)
	sol, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", trimmed, err)
	}
	if math.IsNaN(sol) || math.IsInf(sol, 0) {
		return 0, fmt.Errorf("invalid amount %q", trimmed)
	}
	if sol <= 0 {
		return 0, errs.Reject(validate.RuleNonPositiveAmount, "amount", trimmed)
	}
	return lamports.FromSOL(sol), nil
}

func (d *Deps) printSignature(sig solana.Signature) {
	d.Console.Successf("Transaction confirmed")
	d.Console.Accentf("Signature: %s", sig.String())
}
