package ops

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/solettadev/soletta/internal/errs"
	"github.com/solettadev/soletta/internal/gateway"
	"github.com/solettadev/soletta/internal/history"
	"github.com/solettadev/soletta/internal/instr"
	"github.com/solettadev/soletta/internal/keys"
	"github.com/solettadev/soletta/internal/lamports"
	"github.com/solettadev/soletta/internal/state"
	"github.com/solettadev/soletta/internal/validate"
)

// VoteOps orchestrates the vote-account operation group.
type VoteOps struct {
	*Deps
}

func NewVoteOps(deps *Deps) *VoteOps {
	return &VoteOps{Deps: deps}
}

// fetchVote fetches and decodes a vote account in one step. Ownership is
// checked before decoding so a foreign account surfaces as a rule
// violation rather than a decode failure.
func (v *VoteOps) fetchVote(ctx context.Context, addr solana.PublicKey) (*gateway.Account, *state.VoteAccount, error) {
	acct, err := v.Session.Gateway.Account(ctx, addr)
	if err != nil {
		return nil, nil, err
	}
	if !acct.Owner.Equals(solana.VoteProgramID) {
		return nil, nil, errs.Reject(validate.RuleNotVoteAccount, "owner", acct.Owner.String())
	}
	vs, err := state.DecodeVoteAccount(acct.Data)
	if err != nil {
		return nil, nil, err
	}
	return acct, vs, nil
}

// Create builds a new vote account from two keypair files: the vote
// account itself and the validator identity. The session wallet pays fees
// and becomes both authorized voter and withdrawer. Key-distinctness rules
// run before any ledger lookup.
func (v *VoteOps) Create(ctx context.Context) (Outcome, error) {
	votePath, err := v.Prompt.Input("Vote account keypair path")
	if err != nil {
		return Completed, err
	}
	voteKeypair, err := keys.Load(strings.TrimSpace(votePath))
	if err != nil {
		return Completed, err
	}

	identityPath, err := v.Prompt.Input("Validator identity keypair path")
	if err != nil {
		return Completed, err
	}
	identityKeypair, err := keys.Load(strings.TrimSpace(identityPath))
	if err != nil {
		return Completed, err
	}

	commission, err := v.promptCommission()
	if err != nil {
		return Completed, err
	}

	voteAccount := voteKeypair.PublicKey()
	identity := identityKeypair.PublicKey()

	if err := validate.VoteCreateKeys(v.Session.Pubkey, voteAccount, identity); err != nil {
		return Completed, err
	}

	existing, err := v.Session.Gateway.Account(ctx, voteAccount)
	if err != nil && !errors.Is(err, gateway.ErrAccountNotFound) {
		return Completed, err
	}
	if err := validate.VoteCreateTarget(existing, voteAccount); err != nil {
		return Completed, err
	}

	rent, err := v.Session.Gateway.MinimumRentExemptBalance(ctx, state.VoteAccountSize)
	if err != nil {
		return Completed, err
	}
	// funding floor of one lamport for rent-free clusters
	if rent == 0 {
		rent = 1
	}
	balance, err := v.Session.Gateway.Balance(ctx, v.Session.Pubkey)
	if err != nil {
		return Completed, err
	}
	if err := validate.Transfer(balance, rent); err != nil {
		return Completed, err
	}

	instructions := []solana.Instruction{
		instr.CreateAccount(v.Session.Pubkey, voteAccount, rent, state.VoteAccountSize, solana.VoteProgramID),
		instr.VoteInitialize(voteAccount, identity, v.Session.Pubkey, v.Session.Pubkey, commission),
	}

	var sig solana.Signature
	err = v.Console.Spin("creating vote account", func() error {
		var err error
		sig, err = v.Builder.SignAndSend(ctx, instructions, v.Session.Pubkey,
			[]solana.PrivateKey{v.Session.Keypair, voteKeypair, identityKeypair})
		return err
	})
	if err != nil {
		return Completed, err
	}

	v.Console.Successf("Vote account created")
	v.Console.Accentf("Vote account: %s", voteAccount.String())
	v.printSignature(sig)
	v.record(&history.Entry{
		Signature:    sig.String(),
		Kind:         "vote_create",
		Lamports:     rent,
		Counterparty: voteAccount.String(),
	})
	return Completed, nil
}

// AuthorizeVoter rotates a vote account's authorized voter. The session
// wallet must be the current voter or the withdrawer.
func (v *VoteOps) AuthorizeVoter(ctx context.Context) (Outcome, error) {
	addr, err := v.promptPubkey("Vote account address")
	if err != nil {
		return Completed, err
	}
	newVoter, err := v.promptPubkey("New authorized voter")
	if err != nil {
		return Completed, err
	}

	acct, vs, err := v.fetchVote(ctx, addr)
	if err != nil {
		return Completed, err
	}
	epoch, err := v.Session.Gateway.EpochInfo(ctx)
	if err != nil {
		return Completed, err
	}
	if err := validate.VoteAuthorize(acct, vs, v.Session.Pubkey, epoch.Epoch); err != nil {
		return Completed, err
	}

	var sig solana.Signature
	err = v.Console.Spin("rotating authorized voter", func() error {
		var err error
		sig, err = v.Builder.SignAndSend(ctx,
			[]solana.Instruction{instr.VoteAuthorizeVoter(addr, v.Session.Pubkey, newVoter)},
			v.Session.Pubkey,
			[]solana.PrivateKey{v.Session.Keypair},
		)
		return err
	})
	if err != nil {
		return Completed, err
	}

	v.Console.Successf("Authorized voter set to %s", newVoter.String())
	v.printSignature(sig)
	v.record(&history.Entry{
		Signature:    sig.String(),
		Kind:         "vote_authorize",
		Counterparty: addr.String(),
	})
	return Completed, nil
}

// Withdraw moves lamports out of a vote account to a recipient. The
// session wallet must be the authorized withdrawer.
func (v *VoteOps) Withdraw(ctx context.Context) (Outcome, error) {
	addr, err := v.promptPubkey("Vote account address")
	if err != nil {
		return Completed, err
	}
	recipient, err := v.promptPubkey("Recipient address")
	if err != nil {
		return Completed, err
	}
	amount, err := v.promptAmount("Amount to withdraw (SOL)")
	if err != nil {
		return Completed, err
	}

	acct, vs, err := v.fetchVote(ctx, addr)
	if err != nil {
		return Completed, err
	}
	if err := validate.VoteWithdraw(acct, vs, v.Session.Pubkey); err != nil {
		return Completed, err
	}
	if err := validate.Transfer(acct.Lamports, amount); err != nil {
		return Completed, err
	}

	var sig solana.Signature
	err = v.Console.Spin("withdrawing from vote account", func() error {
		var err error
		sig, err = v.Builder.SignAndSend(ctx,
			[]solana.Instruction{instr.VoteWithdraw(addr, v.Session.Pubkey, recipient, amount)},
			v.Session.Pubkey,
			[]solana.PrivateKey{v.Session.Keypair},
		)
		return err
	})
	if err != nil {
		return Completed, err
	}

	v.Console.Successf("Withdrew %s from vote account", lamports.FormatSOL(amount))
	v.printSignature(sig)
	v.record(&history.Entry{
		Signature:    sig.String(),
		Kind:         "vote_withdraw",
		Lamports:     amount,
		Counterparty: recipient.String(),
	})
	return Completed, nil
}

// Show fetches a vote account and prints its decoded state.
func (v *VoteOps) Show(ctx context.Context) (Outcome, error) {
	addr, err := v.promptPubkey("Vote account address")
	if err != nil {
		return Completed, err
	}

	acct, vs, err := v.fetchVote(ctx, addr)
	if err != nil {
		return Completed, err
	}
	epoch, err := v.Session.Gateway.EpochInfo(ctx)
	if err != nil {
		return Completed, err
	}

	currentVoter := "none"
	if voter, ok := vs.VoterForEpoch(epoch.Epoch); ok {
		currentVoter = voter.String()
	}
	rootSlot := "none"
	if vs.RootSlot != nil {
		rootSlot = fmt.Sprintf("%d", *vs.RootSlot)
	}

	v.Console.Header("Vote account " + addr.String())
	v.Console.Table(
		[]string{"Field", "Value"},
		[][]string{
			{"Balance", lamports.FormatSOL(acct.Lamports)},
			{"Node identity", vs.NodePubkey.String()},
			{"Authorized voter", currentVoter},
			{"Authorized withdrawer", vs.AuthorizedWithdrawer.String()},
			{"Commission", fmt.Sprintf("%d%%", vs.Commission)},
			{"Credits", fmt.Sprintf("%d", vs.Credits())},
			{"Recent votes", fmt.Sprintf("%d", vs.VoteCount)},
			{"Root slot", rootSlot},
			{"Last vote slot", fmt.Sprintf("%d", vs.LastTimestamp.Slot)},
		},
	)
	return Completed, nil
}

func (v *VoteOps) promptCommission() (uint8, error) {
	raw, err := v.Prompt.Input("Commission (0-100)")
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 8)
	if err != nil || n > 100 {
		return 0, fmt.Errorf("commission must be an integer between 0 and 100")
	}
	return uint8(n), nil
}
