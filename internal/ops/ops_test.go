package ops

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solettadev/soletta/internal/errs"
	"github.com/solettadev/soletta/internal/gateway"
	"github.com/solettadev/soletta/internal/gateway/gatewaytest"
	"github.com/solettadev/soletta/internal/history"
	"github.com/solettadev/soletta/internal/lamports"
	"github.com/solettadev/soletta/internal/session"
	"github.com/solettadev/soletta/internal/state"
	"github.com/solettadev/soletta/internal/txbuilder"
	"github.com/solettadev/soletta/internal/ui"
	"github.com/solettadev/soletta/internal/validate"
)

// scriptedPrompter replays canned answers in order.
type scriptedPrompter struct {
	inputs    []string
	selects   []int
	inputIdx  int
	selectIdx int
}

func (p *scriptedPrompter) Select(string, []string) (int, error) {
	if p.selectIdx >= len(p.selects) {
		return 0, fmt.Errorf("unscripted select")
	}
	idx := p.selects[p.selectIdx]
	p.selectIdx++
	return idx, nil
}

func (p *scriptedPrompter) Input(string) (string, error) {
	if p.inputIdx >= len(p.inputs) {
		return "", fmt.Errorf("unscripted input")
	}
	s := p.inputs[p.inputIdx]
	p.inputIdx++
	return s, nil
}

func newTestDeps(t *testing.T, fake *gatewaytest.Fake, prompt ui.Prompter) *Deps {
	t.Helper()
	store, err := history.Open(history.InMemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	wallet := solana.NewWallet()
	return &Deps{
		Session: &session.Session{
			Keypair: wallet.PrivateKey,
			Pubkey:  wallet.PublicKey(),
			Gateway: fake,
			History: store,
			Logger:  zerolog.Nop(),
		},
		Builder: txbuilder.New(fake, zerolog.Nop()),
		Console: ui.NewConsole(),
		Prompt:  prompt,
	}
}

func writeKeypairFile(t *testing.T, key solana.PrivateKey) string {
	t.Helper()
	values := make([]int, len(key))
	for i, b := range key {
		values[i] = int(b)
	}
	raw, err := json.Marshal(values)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keypair.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func TestTransferInsufficientBalanceSendsNothing(t *testing.T) {
	recipient := solana.NewWallet().PublicKey()
	fake := &gatewaytest.Fake{
		BalanceFn: func(solana.PublicKey) (uint64, error) { return lamports.PerSOL, nil },
	}
	prompt := &scriptedPrompter{inputs: []string{recipient.String(), "2"}}
	deps := newTestDeps(t, fake, prompt)

	outcome, err := NewAccountOps(deps).Transfer(context.Background())
	assert.Equal(t, Completed, outcome)

	var rej *errs.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, validate.RuleInsufficientBalance, rej.Rule)
	assert.Zero(t, fake.SendCalls, "a rejected transfer must never reach the gateway")

	entries, err := deps.Session.History.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTransferRecordsHistory(t *testing.T) {
	recipient := solana.NewWallet().PublicKey()
	wantSig := solana.Signature{9}

	fake := &gatewaytest.Fake{
		BalanceFn:   func(solana.PublicKey) (uint64, error) { return 5 * lamports.PerSOL, nil },
		BlockhashFn: func() (solana.Hash, error) { return solana.Hash{}, nil },
		SendAndConfirmFn: func(*solana.Transaction) (solana.Signature, error) {
			return wantSig, nil
		},
	}
	prompt := &scriptedPrompter{inputs: []string{recipient.String(), "1.5"}}
	deps := newTestDeps(t, fake, prompt)

	outcome, err := NewAccountOps(deps).Transfer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Completed, outcome)
	assert.Equal(t, 1, fake.SendCalls)

	entries, err := deps.Session.History.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "transfer", entries[0].Kind)
	assert.Equal(t, uint64(1_500_000_000), entries[0].Lamports)
	assert.Equal(t, recipient.String(), entries[0].Counterparty)
	assert.Equal(t, wantSig.String(), entries[0].Signature)
}

func TestTransferRejectsNonPositiveAmount(t *testing.T) {
	recipient := solana.NewWallet().PublicKey()
	fake := &gatewaytest.Fake{}
	prompt := &scriptedPrompter{inputs: []string{recipient.String(), "0"}}
	deps := newTestDeps(t, fake, prompt)

	_, err := NewAccountOps(deps).Transfer(context.Background())
	var rej *errs.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, validate.RuleNonPositiveAmount, rej.Rule)
	assert.Zero(t, fake.SendCalls)
}

func TestAirdropRequestsExactlyOneSOL(t *testing.T) {
	var got uint64
	fake := &gatewaytest.Fake{
		AirdropFn: func(_ solana.PublicKey, lam uint64) (solana.Signature, error) {
			got = lam
			return solana.Signature{5}, nil
		},
	}
	deps := newTestDeps(t, fake, &scriptedPrompter{})

	outcome, err := NewAccountOps(deps).Airdrop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Completed, outcome)
	assert.Equal(t, lamports.PerSOL, got)

	entries, err := deps.Session.History.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "airdrop", entries[0].Kind)
}

func delegatedStakeData(staker solana.PublicKey, deactivation uint64) []byte {
	appendU64 := func(b []byte, v uint64) []byte {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], v)
		return append(b, buf[:]...)
	}
	b := []byte{2, 0, 0, 0} // delegated discriminant
	b = appendU64(b, 2_282_880)
	b = append(b, staker.Bytes()...) // staker
	b = append(b, staker.Bytes()...) // withdrawer
	b = append(b, make([]byte, 8+8+32)...)
	b = append(b, solana.NewWallet().PublicKey().Bytes()...) // voter
	b = appendU64(b, lamports.PerSOL)
	b = appendU64(b, 100) // activation
	b = appendU64(b, deactivation)
	b = appendU64(b, math.Float64bits(0.25))
	b = appendU64(b, 0) // credits
	return append(b, 0) // flags
}

func TestStakeDeactivateHappyPath(t *testing.T) {
	stakeAddr := solana.NewWallet().PublicKey()
	fake := &gatewaytest.Fake{
		BlockhashFn: func() (solana.Hash, error) { return solana.Hash{}, nil },
		SendAndConfirmFn: func(*solana.Transaction) (solana.Signature, error) {
			return solana.Signature{7}, nil
		},
	}
	prompt := &scriptedPrompter{inputs: []string{stakeAddr.String()}}
	deps := newTestDeps(t, fake, prompt)
	fake.AccountFn = func(addr solana.PublicKey) (*gateway.Account, error) {
		require.Equal(t, stakeAddr, addr)
		return &gateway.Account{
			Lamports: 3 * lamports.PerSOL,
			Owner:    solana.StakeProgramID,
			Data:     delegatedStakeData(deps.Session.Pubkey, state.EpochMax),
		}, nil
	}

	outcome, err := NewStakeOps(deps).Deactivate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Completed, outcome)
	assert.Equal(t, 1, fake.SendCalls)

	entries, err := deps.Session.History.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "stake_deactivate", entries[0].Kind)
}

func TestStakeDeactivateAlreadyDeactivating(t *testing.T) {
	stakeAddr := solana.NewWallet().PublicKey()
	fake := &gatewaytest.Fake{}
	prompt := &scriptedPrompter{inputs: []string{stakeAddr.String()}}
	deps := newTestDeps(t, fake, prompt)
	fake.AccountFn = func(solana.PublicKey) (*gateway.Account, error) {
		return &gateway.Account{
			Owner: solana.StakeProgramID,
			Data:  delegatedStakeData(deps.Session.Pubkey, 500),
		}, nil
	}

	_, err := NewStakeOps(deps).Deactivate(context.Background())
	var rej *errs.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, validate.RuleStakeDeactivating, rej.Rule)
	assert.Zero(t, fake.SendCalls)
}

// Key-distinctness rules run before any ledger lookup: a vote account
// equal to the fee payer is rejected without a single gateway call.
func TestVoteCreateFeePayerCollisionSkipsLedger(t *testing.T) {
	fake := &gatewaytest.Fake{}
	deps := newTestDeps(t, fake, nil)

	votePath := writeKeypairFile(t, deps.Session.Keypair)
	identityPath := writeKeypairFile(t, solana.NewWallet().PrivateKey)
	deps.Prompt = &scriptedPrompter{inputs: []string{votePath, identityPath, "10"}}

	_, err := NewVoteOps(deps).Create(context.Background())
	var rej *errs.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, validate.RuleFeePayerIsVoteAccount, rej.Rule)
	assert.Zero(t, fake.AccountCalls, "distinctness rules must run before ledger lookups")
	assert.Zero(t, fake.SendCalls)
}

func TestVoteCreateRejectsBadCommission(t *testing.T) {
	fake := &gatewaytest.Fake{}
	deps := newTestDeps(t, fake, nil)

	votePath := writeKeypairFile(t, solana.NewWallet().PrivateKey)
	identityPath := writeKeypairFile(t, solana.NewWallet().PrivateKey)
	deps.Prompt = &scriptedPrompter{inputs: []string{votePath, identityPath, "101"}}

	_, err := NewVoteOps(deps).Create(context.Background())
	require.Error(t, err)
	assert.Zero(t, fake.AccountCalls)
}

// A stake operation against an account the stake program does not own is
// an ownership rejection; its bytes are never decoded, so garbage data
// must not surface as a decode failure.
func TestStakeDeactivateForeignOwnerRejectedBeforeDecode(t *testing.T) {
	stakeAddr := solana.NewWallet().PublicKey()
	fake := &gatewaytest.Fake{
		AccountFn: func(solana.PublicKey) (*gateway.Account, error) {
			return &gateway.Account{
				Owner: solana.SystemProgramID,
				Data:  []byte{7, 0, 0, 0}, // would decode as an unknown variant
			}, nil
		},
	}
	prompt := &scriptedPrompter{inputs: []string{stakeAddr.String()}}
	deps := newTestDeps(t, fake, prompt)

	_, err := NewStakeOps(deps).Deactivate(context.Background())
	var rej *errs.Rejection
	require.ErrorAs(t, err, &rej, "foreign owner must reject, not fail decoding")
	assert.Equal(t, validate.RuleNotStakeAccount, rej.Rule)
	assert.Equal(t, solana.SystemProgramID.String(), rej.Detail("owner"))

	var decErr *errs.DecodeError
	assert.False(t, errors.As(err, &decErr))
	assert.Zero(t, fake.SendCalls)
}

func TestVoteShowForeignOwnerRejectedBeforeDecode(t *testing.T) {
	voteAddr := solana.NewWallet().PublicKey()
	fake := &gatewaytest.Fake{
		AccountFn: func(solana.PublicKey) (*gateway.Account, error) {
			return &gateway.Account{
				Owner: solana.SystemProgramID,
				Data:  []byte{9, 9, 9, 9},
			}, nil
		},
	}
	prompt := &scriptedPrompter{inputs: []string{voteAddr.String()}}
	deps := newTestDeps(t, fake, prompt)

	_, err := NewVoteOps(deps).Show(context.Background())
	var rej *errs.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, validate.RuleNotVoteAccount, rej.Rule)
}

func TestStakeWithdrawToRecipient(t *testing.T) {
	stakeAddr := solana.NewWallet().PublicKey()
	recipient := solana.NewWallet().PublicKey()

	var sent *solana.Transaction
	fake := &gatewaytest.Fake{
		EpochInfoFn: func() (*gateway.EpochInfo, error) {
			return &gateway.EpochInfo{Epoch: 501}, nil
		},
		BlockhashFn: func() (solana.Hash, error) { return solana.Hash{}, nil },
		SendAndConfirmFn: func(tx *solana.Transaction) (solana.Signature, error) {
			sent = tx
			return solana.Signature{3}, nil
		},
	}
	prompt := &scriptedPrompter{inputs: []string{stakeAddr.String(), recipient.String(), "1"}}
	deps := newTestDeps(t, fake, prompt)
	fake.AccountFn = func(solana.PublicKey) (*gateway.Account, error) {
		return &gateway.Account{
			Lamports: 3 * lamports.PerSOL,
			Owner:    solana.StakeProgramID,
			Data:     delegatedStakeData(deps.Session.Pubkey, 500),
		}, nil
	}

	outcome, err := NewStakeOps(deps).Withdraw(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Completed, outcome)

	require.NotNil(t, sent)
	assert.Contains(t, sent.Message.AccountKeys, recipient, "withdrawal must target the prompted recipient")

	entries, err := deps.Session.History.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "stake_withdraw", entries[0].Kind)
	assert.Equal(t, recipient.String(), entries[0].Counterparty)
}

func TestTransferRejectsNonFiniteAmount(t *testing.T) {
	recipient := solana.NewWallet().PublicKey()
	for _, amount := range []string{"NaN", "Inf", "-Inf", "+Inf"} {
		t.Run(amount, func(t *testing.T) {
			fake := &gatewaytest.Fake{}
			prompt := &scriptedPrompter{inputs: []string{recipient.String(), amount}}
			deps := newTestDeps(t, fake, prompt)

			_, err := NewAccountOps(deps).Transfer(context.Background())
			require.Error(t, err)
			assert.Zero(t, fake.SendCalls)
		})
	}
}

func TestBalancePromptedAddress(t *testing.T) {
	other := solana.NewWallet().PublicKey()

	var queried solana.PublicKey
	fake := &gatewaytest.Fake{
		BalanceFn: func(addr solana.PublicKey) (uint64, error) {
			queried = addr
			return lamports.PerSOL, nil
		},
	}

	t.Run("explicit address", func(t *testing.T) {
		deps := newTestDeps(t, fake, &scriptedPrompter{inputs: []string{other.String()}})
		_, err := NewAccountOps(deps).Balance(context.Background())
		require.NoError(t, err)
		assert.Equal(t, other, queried)
	})

	t.Run("blank falls back to the wallet", func(t *testing.T) {
		deps := newTestDeps(t, fake, &scriptedPrompter{inputs: []string{"  "}})
		_, err := NewAccountOps(deps).Balance(context.Background())
		require.NoError(t, err)
		assert.Equal(t, deps.Session.Pubkey, queried)
	})
}

func TestHistoryEmpty(t *testing.T) {
	deps := newTestDeps(t, &gatewaytest.Fake{}, &scriptedPrompter{})
	outcome, err := NewAccountOps(deps).History(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Completed, outcome)
}
