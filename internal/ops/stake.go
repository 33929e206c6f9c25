package ops

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/solettadev/soletta/internal/errs"
	"github.com/solettadev/soletta/internal/gateway"
	"github.com/solettadev/soletta/internal/history"
	"github.com/solettadev/soletta/internal/instr"
	"github.com/solettadev/soletta/internal/lamports"
	"github.com/solettadev/soletta/internal/state"
	"github.com/solettadev/soletta/internal/validate"
)

// StakeOps orchestrates the stake operation group. The session wallet is
// both fee payer and, for accounts it creates, staker and withdrawer.
type StakeOps struct {
	*Deps
}

func NewStakeOps(deps *Deps) *StakeOps {
	return &StakeOps{Deps: deps}
}

// fetchStake fetches and decodes a stake account in one step. Ownership
// is checked before decoding: a foreign account is a rule violation, not
// a malformed stake account. Callers validate the decoded view against
// their operation's rule set.
func (s *StakeOps) fetchStake(ctx context.Context, addr solana.PublicKey) (*gateway.Account, *state.StakeAccount, error) {
	acct, err := s.Session.Gateway.Account(ctx, addr)
	if err != nil {
		return nil, nil, err
	}
	if !acct.Owner.Equals(solana.StakeProgramID) {
		return nil, nil, errs.Reject(validate.RuleNotStakeAccount, "owner", acct.Owner.String())
	}
	st, err := state.DecodeStakeAccount(acct.Data)
	if err != nil {
		return nil, nil, err
	}
	return acct, st, nil
}

// Create funds a brand-new stake account with the prompted amount plus the
// rent-exempt reserve and initializes the session wallet as both
// authorities. The account keypair is generated locally and printed so the
// operator can save it.
func (s *StakeOps) Create(ctx context.Context) (Outcome, error) {
	amount, err := s.promptAmount("Amount to stake (SOL)")
	if err != nil {
		return Completed, err
	}

	wallet := solana.NewWallet()
	target := wallet.PublicKey()

	existing, err := s.Session.Gateway.Account(ctx, target)
	if err != nil && !errors.Is(err, gateway.ErrAccountNotFound) {
		return Completed, err
	}
	if err := validate.StakeCreate(existing, target); err != nil {
		return Completed, err
	}

	rent, err := s.Session.Gateway.MinimumRentExemptBalance(ctx, state.StakeAccountSize)
	if err != nil {
		return Completed, err
	}
	total := rent + amount

	balance, err := s.Session.Gateway.Balance(ctx, s.Session.Pubkey)
	if err != nil {
		return Completed, err
	}
	if err := validate.Transfer(balance, total); err != nil {
		return Completed, err
	}

	instructions := []solana.Instruction{
		instr.CreateAccount(s.Session.Pubkey, target, total, state.StakeAccountSize, solana.StakeProgramID),
		instr.StakeInitialize(target, s.Session.Pubkey, s.Session.Pubkey),
	}

	var sig solana.Signature
	err = s.Console.Spin("creating stake account", func() error {
		var err error
		sig, err = s.Builder.SignAndSend(ctx, instructions, s.Session.Pubkey,
			[]solana.PrivateKey{s.Session.Keypair, wallet.PrivateKey})
		return err
	})
	if err != nil {
		return Completed, err
	}

	s.Console.Successf("Stake account created with %s", lamports.FormatSOL(total))
	s.Console.Accentf("Stake account: %s", target.String())
	s.printSignature(sig)
	s.record(&history.Entry{
		Signature:    sig.String(),
		Kind:         "stake_create",
		Lamports:     total,
		Counterparty: target.String(),
	})
	return Completed, nil
}

// Deactivate begins the cooldown of a delegated stake account.
func (s *StakeOps) Deactivate(ctx context.Context) (Outcome, error) {
	addr, err := s.promptPubkey("Stake account address")
	if err != nil {
		return Completed, err
	}

	acct, st, err := s.fetchStake(ctx, addr)
	if err != nil {
		return Completed, err
	}
	if err := validate.StakeDeactivate(acct, st, s.Session.Pubkey); err != nil {
		return Completed, err
	}

	var sig solana.Signature
	err = s.Console.Spin("deactivating stake", func() error {
		var err error
		sig, err = s.Builder.SignAndSend(ctx,
			[]solana.Instruction{instr.StakeDeactivate(addr, s.Session.Pubkey)},
			s.Session.Pubkey,
			[]solana.PrivateKey{s.Session.Keypair},
		)
		return err
	})
	if err != nil {
		return Completed, err
	}

	s.Console.Successf("Stake deactivation started; funds withdrawable after the cooldown epoch")
	s.printSignature(sig)
	s.record(&history.Entry{
		Signature:    sig.String(),
		Kind:         "stake_deactivate",
		Counterparty: addr.String(),
	})
	return Completed, nil
}

// Withdraw moves lamports out of a stake account to a recipient once the
// cooldown has elapsed.
func (s *StakeOps) Withdraw(ctx context.Context) (Outcome, error) {
	addr, err := s.promptPubkey("Stake account address")
	if err != nil {
		return Completed, err
	}
	recipient, err := s.promptPubkey("Recipient address")
	if err != nil {
		return Completed, err
	}
	amount, err := s.promptAmount("Amount to withdraw (SOL)")
	if err != nil {
		return Completed, err
	}

	acct, st, err := s.fetchStake(ctx, addr)
	if err != nil {
		return Completed, err
	}
	epoch, err := s.Session.Gateway.EpochInfo(ctx)
	if err != nil {
		return Completed, err
	}
	if err := validate.StakeWithdraw(acct, st, s.Session.Pubkey, amount, epoch.Epoch); err != nil {
		return Completed, err
	}

	var sig solana.Signature
	err = s.Console.Spin("withdrawing stake", func() error {
		var err error
		sig, err = s.Builder.SignAndSend(ctx,
			[]solana.Instruction{instr.StakeWithdraw(addr, s.Session.Pubkey, recipient, amount)},
			s.Session.Pubkey,
			[]solana.PrivateKey{s.Session.Keypair},
		)
		return err
	})
	if err != nil {
		return Completed, err
	}

	s.Console.Successf("Withdrew %s to %s", lamports.FormatSOL(amount), recipient.String())
	s.printSignature(sig)
	s.record(&history.Entry{
		Signature:    sig.String(),
		Kind:         "stake_withdraw",
		Lamports:     amount,
		Counterparty: recipient.String(),
	})
	return Completed, nil
}

// Show fetches a stake account and prints its decoded lifecycle fields.
func (s *StakeOps) Show(ctx context.Context) (Outcome, error) {
	addr, err := s.promptPubkey("Stake account address")
	if err != nil {
		return Completed, err
	}

	acct, st, err := s.fetchStake(ctx, addr)
	if err != nil {
		return Completed, err
	}

	rows := [][]string{
		{"State", st.Kind.String()},
		{"Balance", lamports.FormatSOL(acct.Lamports)},
	}
	if st.Kind == state.StakeInitialized || st.Kind == state.StakeDelegated {
		rows = append(rows,
			[]string{"Rent-exempt reserve", lamports.FormatSOL(st.RentExemptReserve)},
			[]string{"Staker", st.Staker.String()},
			[]string{"Withdrawer", st.Withdrawer.String()},
		)
	}
	if st.Delegation != nil {
		rows = append(rows,
			[]string{"Delegated to", st.Delegation.Voter.String()},
			[]string{"Delegated stake", lamports.FormatSOL(st.Delegation.Stake)},
			[]string{"Activation epoch", fmt.Sprintf("%d", st.Delegation.ActivationEpoch)},
		)
		if st.Delegation.Deactivating() {
			rows = append(rows, []string{"Deactivation epoch", fmt.Sprintf("%d", st.Delegation.DeactivationEpoch)})
		} else {
			rows = append(rows, []string{"Deactivation epoch", "not set"})
		}
	}

	s.Console.Header("Stake account " + addr.String())
	s.Console.Table([]string{"Field", "Value"}, rows)
	return Completed, nil
}
