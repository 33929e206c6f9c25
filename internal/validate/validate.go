// Package validate holds the per-operation precondition rule sets. Every
// rule evaluates state the caller fetched in the same operation invocation;
// nothing here reads the network. A nil return means proceed; a non-nil
// return is always a *errs.Rejection carrying the rule name and the
// conflicting values. No transaction is built unless the verdict for the
// operation was nil.
package validate

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/solettadev/soletta/internal/errs"
	"github.com/solettadev/soletta/internal/gateway"
	"github.com/solettadev/soletta/internal/lamports"
	"github.com/solettadev/soletta/internal/state"
)

// Rule names form the closed set of validation failure kinds.
const (
	RuleInsufficientBalance   = "insufficient balance"
	RuleNonPositiveAmount     = "amount must be greater than zero"
	RuleNotStakeAccount       = "account is not owned by the stake program"
	RuleStakeNotDelegated     = "stake account is not delegated"
	RuleStakeDeactivating     = "stake is already deactivating"
	RuleNotAuthorizedStaker   = "caller is not the authorized staker"
	RuleStakeStillActive      = "stake is still active; deactivate it first"
	RuleStakeCoolingDown      = "stake is still cooling down"
	RuleStakeUninitialized    = "stake account is uninitialized"
	RuleStakeRewardsPool      = "cannot withdraw from a rewards pool"
	RuleNotAuthorizedWithdraw = "caller is not the authorized withdrawer"
	RuleAccountExists         = "account already exists"
	RuleFeePayerIsVoteAccount = "fee payer cannot be the vote account"
	RuleVoteAccountIsIdentity = "vote account cannot be the identity"
	RuleNotVoteAccount        = "account is not owned by the vote program"
	RuleVoteAlreadyExists     = "vote account already exists"
	RuleNotVoteAuthority      = "caller is neither the authorized voter nor the withdrawer"
	RuleNoAuthorizedVoter     = "vote account has no authorized voter for the current epoch"
)

// Transfer checks that the sender's freshly fetched balance covers the
// requested amount. Relying on ledger-side rejection at submission instead
// of this check is a regression, not an alternative.
func Transfer(balance, amount uint64) error {
	if amount > balance {
		return errs.Reject(RuleInsufficientBalance,
			"have", lamports.FormatSOL(balance),
			"requested", lamports.FormatSOL(amount),
		)
	}
	return nil
}

// StakeDeactivate gates the deactivation of a delegated stake account:
// stake-program ownership, delegated variant, no deactivation already in
// flight, and caller == authorized staker.
func StakeDeactivate(acct *gateway.Account, st *state.StakeAccount, caller solana.PublicKey) error {
	if !acct.Owner.Equals(solana.StakeProgramID) {
		return errs.Reject(RuleNotStakeAccount, "owner", acct.Owner.String())
	}

	if st.Kind != state.StakeDelegated {
		return errs.Reject(RuleStakeNotDelegated, "state", st.Kind.String())
	}

	if st.Delegation.Deactivating() {
		return errs.Reject(RuleStakeDeactivating,
			"deactivation_epoch", fmt.Sprintf("%d", st.Delegation.DeactivationEpoch),
		)
	}
	if !caller.Equals(st.Staker) {
		return errs.Reject(RuleNotAuthorizedStaker,
			"authorized_staker", st.Staker.String(),
			"caller", caller.String(),
		)
	}
	return nil
}

// StakeWithdraw gates withdrawal from a stake account. The delegated
// variant additionally requires the deactivation marker to be set and the
// cooldown to have elapsed (current epoch strictly greater than the
// deactivation epoch).
func StakeWithdraw(acct *gateway.Account, st *state.StakeAccount, caller solana.PublicKey, amount, currentEpoch uint64) error {
	if !acct.Owner.Equals(solana.StakeProgramID) {
		return errs.Reject(RuleNotStakeAccount, "owner", acct.Owner.String())
	}
	if amount == 0 {
		return errs.Reject(RuleNonPositiveAmount)
	}

	switch st.Kind {
	case state.StakeDelegated:
		if !caller.Equals(st.Withdrawer) {
			return errs.Reject(RuleNotAuthorizedWithdraw,
				"authorized_withdrawer", st.Withdrawer.String(),
				"caller", caller.String(),
			)
		}
		if !st.Delegation.Deactivating() {
			return errs.Reject(RuleStakeStillActive)
		}
		if currentEpoch <= st.Delegation.DeactivationEpoch {
			remaining := st.Delegation.DeactivationEpoch - currentEpoch
			return errs.Reject(RuleStakeCoolingDown,
				"current_epoch", fmt.Sprintf("%d", currentEpoch),
				"deactivation_epoch", fmt.Sprintf("%d", st.Delegation.DeactivationEpoch),
				"epochs_remaining", fmt.Sprintf("%d", remaining),
			)
		}
	case state.StakeInitialized:
		if !caller.Equals(st.Withdrawer) {
			return errs.Reject(RuleNotAuthorizedWithdraw,
				"authorized_withdrawer", st.Withdrawer.String(),
				"caller", caller.String(),
			)
		}
	case state.StakeUninitialized:
		return errs.Reject(RuleStakeUninitialized)
	case state.StakeRewardsPool:
		return errs.Reject(RuleStakeRewardsPool)
	}

	if amount > acct.Lamports {
		return errs.Reject(RuleInsufficientBalance,
			"have", lamports.FormatSOL(acct.Lamports),
			"requested", lamports.FormatSOL(amount),
		)
	}
	return nil
}

// StakeCreate rejects creation when the target address is already in use.
func StakeCreate(existing *gateway.Account, target solana.PublicKey) error {
	if existing != nil {
		return errs.Reject(RuleAccountExists,
			"address", target.String(),
			"owner", existing.Owner.String(),
		)
	}
	return nil
}

// VoteCreateKeys checks the pairwise distinctness requirements for vote
// account creation. It runs before any ledger lookup.
func VoteCreateKeys(feePayer, voteAccount, identity solana.PublicKey) error {
	if feePayer.Equals(voteAccount) {
		return errs.Reject(RuleFeePayerIsVoteAccount,
			"fee_payer", feePayer.String(),
			"vote_account", voteAccount.String(),
		)
	}
	if voteAccount.Equals(identity) {
		return errs.Reject(RuleVoteAccountIsIdentity,
			"vote_account", voteAccount.String(),
			"identity", identity.String(),
		)
	}
	return nil
}

// VoteCreateTarget rejects creation when an account already exists at the
// target address, distinguishing an existing vote account from a foreign
// one.
func VoteCreateTarget(existing *gateway.Account, target solana.PublicKey) error {
	if existing == nil {
		return nil
	}
	if existing.Owner.Equals(solana.VoteProgramID) {
		return errs.Reject(RuleVoteAlreadyExists, "address", target.String())
	}
	return errs.Reject(RuleAccountExists,
		"address", target.String(),
		"owner", existing.Owner.String(),
	)
}

// VoteAuthorize checks that the supplied authority may rotate the
// authorized voter: it must be the voter for the current epoch or the
// withdrawer, both accepted signers per ledger semantics.
func VoteAuthorize(acct *gateway.Account, vs *state.VoteAccount, authority solana.PublicKey, currentEpoch uint64) error {
	if !acct.Owner.Equals(solana.VoteProgramID) {
		return errs.Reject(RuleNotVoteAccount, "owner", acct.Owner.String())
	}

	currentVoter, ok := vs.VoterForEpoch(currentEpoch)
	if !ok {
		return errs.Reject(RuleNoAuthorizedVoter,
			"current_epoch", fmt.Sprintf("%d", currentEpoch),
		)
	}
	if !authority.Equals(currentVoter) && !authority.Equals(vs.AuthorizedWithdrawer) {
		return errs.Reject(RuleNotVoteAuthority,
			"caller", authority.String(),
			"authorized_voter", currentVoter.String(),
			"authorized_withdrawer", vs.AuthorizedWithdrawer.String(),
		)
	}
	return nil
}

// VoteWithdraw checks that the supplied authority is the vote account's
// authorized withdrawer.
func VoteWithdraw(acct *gateway.Account, vs *state.VoteAccount, authority solana.PublicKey) error {
	if !acct.Owner.Equals(solana.VoteProgramID) {
		return errs.Reject(RuleNotVoteAccount, "owner", acct.Owner.String())
	}
	if !authority.Equals(vs.AuthorizedWithdrawer) {
		return errs.Reject(RuleNotAuthorizedWithdraw,
			"authorized_withdrawer", vs.AuthorizedWithdrawer.String(),
			"caller", authority.String(),
		)
	}
	return nil
}

// NonceInitialized rejects inspection of a structurally valid but
// uninitialized nonce account. The bytes are well formed, so this is a
// validation failure rather than a decode failure.
func NonceInitialized(n *state.NonceAccount) error {
	if n.Kind != state.NonceInitialized {
		return errs.Reject("nonce account is not initialized", "state", n.Kind.String())
	}
	return nil
}
