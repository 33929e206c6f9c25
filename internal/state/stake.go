// Package state decodes raw account payloads into typed domain views.
// Views are created fresh from the latest fetched bytes on every operation;
// they are never cached across calls.
package state

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/solettadev/soletta/internal/errs"
)

// StakeAccountSize is the serialized size of a stake account's state.
const StakeAccountSize uint64 = 200

// EpochMax is the sentinel deactivation epoch meaning "active, never
// deactivated".
const EpochMax = ^uint64(0)

// StakeKind is the logical lifecycle variant of a stake account. The bytes
// of any variant decode structurally; which variants an operation accepts
// is the validation engine's concern.
type StakeKind uint32

const (
	StakeUninitialized StakeKind = iota
	StakeInitialized
	StakeDelegated
	StakeRewardsPool
)

func (k StakeKind) String() string {
	switch k {
	case StakeUninitialized:
		return "uninitialized"
	case StakeInitialized:
		return "initialized"
	case StakeDelegated:
		return "delegated"
	case StakeRewardsPool:
		return "rewards pool"
	}
	return "unknown"
}

// StakeLockup restricts withdrawal until a time or epoch passes.
type StakeLockup struct {
	UnixTimestamp int64
	Epoch         uint64
	Custodian     solana.PublicKey
}

// StakeDelegation describes an active or cooling-down delegation.
type StakeDelegation struct {
	Voter              solana.PublicKey
	Stake              uint64
	ActivationEpoch    uint64
	DeactivationEpoch  uint64
	WarmupCooldownRate float64
}

// Deactivating reports whether a deactivation epoch has been set.
func (d *StakeDelegation) Deactivating() bool {
	return d.DeactivationEpoch != EpochMax
}

// StakeAccount is the decoded view of a stake account's lifecycle fields.
// Meta fields are valid for Initialized and Delegated; Delegation is non-nil
// only for Delegated.
type StakeAccount struct {
	Kind              StakeKind
	RentExemptReserve uint64
	Staker            solana.PublicKey
	Withdrawer        solana.PublicKey
	Lockup            StakeLockup
	Delegation        *StakeDelegation
	CreditsObserved   uint64
}

const stakeSchema = "stake account state"

// DecodeStakeAccount decodes a StakeStateV2 payload.
func DecodeStakeAccount(data []byte) (*StakeAccount, error) {
	dec := bin.NewBinDecoder(data)

	disc, err := dec.ReadUint32(bin.LE)
	if err != nil {
		return nil, errs.Decode(stakeSchema, err)
	}

	switch StakeKind(disc) {
	case StakeUninitialized:
		return &StakeAccount{Kind: StakeUninitialized}, nil

	case StakeInitialized:
		acct := &StakeAccount{Kind: StakeInitialized}
		if err := decodeStakeMeta(dec, acct); err != nil {
			return nil, err
		}
		return acct, nil

	case StakeDelegated:
		acct := &StakeAccount{Kind: StakeDelegated}
		if err := decodeStakeMeta(dec, acct); err != nil {
			return nil, err
		}
		if err := decodeStakeDelegation(dec, acct); err != nil {
			return nil, err
		}
		return acct, nil

	case StakeRewardsPool:
		return &StakeAccount{Kind: StakeRewardsPool}, nil
	}
	return nil, errs.Decodef(stakeSchema, "unknown variant discriminant %d", disc)
}

func decodeStakeMeta(dec *bin.Decoder, acct *StakeAccount) error {
	var err error
	if acct.RentExemptReserve, err = dec.ReadUint64(bin.LE); err != nil {
		return errs.Decode(stakeSchema, err)
	}
	if acct.Staker, err = readPubkey(dec); err != nil {
		return errs.Decode(stakeSchema, err)
	}
	if acct.Withdrawer, err = readPubkey(dec); err != nil {
		return errs.Decode(stakeSchema, err)
	}
	if acct.Lockup.UnixTimestamp, err = dec.ReadInt64(bin.LE); err != nil {
		return errs.Decode(stakeSchema, err)
	}
	if acct.Lockup.Epoch, err = dec.ReadUint64(bin.LE); err != nil {
		return errs.Decode(stakeSchema, err)
	}
	if acct.Lockup.Custodian, err = readPubkey(dec); err != nil {
		return errs.Decode(stakeSchema, err)
	}
	return nil
}

func decodeStakeDelegation(dec *bin.Decoder, acct *StakeAccount) error {
	var (
		d   StakeDelegation
		err error
	)
	if d.Voter, err = readPubkey(dec); err != nil {
		return errs.Decode(stakeSchema, err)
	}
	if d.Stake, err = dec.ReadUint64(bin.LE); err != nil {
		return errs.Decode(stakeSchema, err)
	}
	if d.ActivationEpoch, err = dec.ReadUint64(bin.LE); err != nil {
		return errs.Decode(stakeSchema, err)
	}
	if d.DeactivationEpoch, err = dec.ReadUint64(bin.LE); err != nil {
		return errs.Decode(stakeSchema, err)
	}
	if d.WarmupCooldownRate, err = dec.ReadFloat64(bin.LE); err != nil {
		return errs.Decode(stakeSchema, err)
	}
	acct.Delegation = &d
	if acct.CreditsObserved, err = dec.ReadUint64(bin.LE); err != nil {
		return errs.Decode(stakeSchema, err)
	}
	return nil
}

func readPubkey(dec *bin.Decoder) (solana.PublicKey, error) {
	b, err := dec.ReadNBytes(32)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b), nil
}
