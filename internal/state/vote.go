package state

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/solettadev/soletta/internal/errs"
)

// VoteAccountSize is the allocated size of a vote account.
const VoteAccountSize uint64 = 3762

const voteSchema = "vote account state"

// Vote state version discriminants. V0_23_5 no longer occurs on live
// clusters and its prior-voters layout differs structurally, so it is
// rejected rather than decoded.
const (
	voteVersion0235  uint32 = 0
	voteVersion11411 uint32 = 1
	voteVersionV3    uint32 = 2
)

// EpochVoter is one entry of the authorized-voter-by-epoch list.
type EpochVoter struct {
	Epoch uint64
	Voter solana.PublicKey
}

// EpochCredits records voting credits earned in one epoch.
type EpochCredits struct {
	Epoch       uint64
	Credits     uint64
	PrevCredits uint64
}

// BlockTimestamp is the validator's most recent timestamp vote.
type BlockTimestamp struct {
	Slot      uint64
	Timestamp int64
}

// VoteAccount is the decoded view of a vote account's lifecycle fields.
type VoteAccount struct {
	NodePubkey           solana.PublicKey
	AuthorizedWithdrawer solana.PublicKey
	Commission           uint8
	VoteCount            int
	RootSlot             *uint64
	AuthorizedVoters     []EpochVoter
	EpochCredits         []EpochCredits
	LastTimestamp        BlockTimestamp
}

// VoterForEpoch returns the authorized voter effective at epoch: the entry
// with the greatest epoch not exceeding it.
func (v *VoteAccount) VoterForEpoch(epoch uint64) (solana.PublicKey, bool) {
	for i := len(v.AuthorizedVoters) - 1; i >= 0; i-- {
		if v.AuthorizedVoters[i].Epoch <= epoch {
			return v.AuthorizedVoters[i].Voter, true
		}
	}
	return solana.PublicKey{}, false
}

// Credits returns the cumulative voting credits as of the latest recorded
// epoch.
func (v *VoteAccount) Credits() uint64 {
	if len(v.EpochCredits) == 0 {
		return 0
	}
	return v.EpochCredits[len(v.EpochCredits)-1].Credits
}

// DecodeVoteAccount decodes a versioned vote state payload. Supported
// versions: 1 (1.14.11) and 2 (current); they share a layout except that
// current-version votes carry a one-byte latency prefix.
func DecodeVoteAccount(data []byte) (*VoteAccount, error) {
	dec := bin.NewBinDecoder(data)

	version, err := dec.ReadUint32(bin.LE)
	if err != nil {
		return nil, errs.Decode(voteSchema, err)
	}

	var voteEntrySize int
	switch version {
	case voteVersion11411:
		voteEntrySize = 12 // slot u64 + confirmation_count u32
	case voteVersionV3:
		voteEntrySize = 13 // latency u8 + slot u64 + confirmation_count u32
	case voteVersion0235:
		return nil, errs.Decodef(voteSchema, "unsupported vote state version %d", version)
	default:
		return nil, errs.Decodef(voteSchema, "unknown vote state version %d", version)
	}

	v := &VoteAccount{}
	if v.NodePubkey, err = readPubkey(dec); err != nil {
		return nil, errs.Decode(voteSchema, err)
	}
	if v.AuthorizedWithdrawer, err = readPubkey(dec); err != nil {
		return nil, errs.Decode(voteSchema, err)
	}
	if v.Commission, err = dec.ReadByte(); err != nil {
		return nil, errs.Decode(voteSchema, err)
	}

	// votes: Vec<Lockout> or Vec<LandedVote>; only the count is retained.
	voteCount, err := dec.ReadUint64(bin.LE)
	if err != nil {
		return nil, errs.Decode(voteSchema, err)
	}
	if _, err = dec.ReadNBytes(int(voteCount) * voteEntrySize); err != nil {
		return nil, errs.Decode(voteSchema, err)
	}
	v.VoteCount = int(voteCount)

	// root_slot: Option<u64>
	hasRoot, err := dec.ReadByte()
	if err != nil {
		return nil, errs.Decode(voteSchema, err)
	}
	if hasRoot != 0 {
		root, err := dec.ReadUint64(bin.LE)
		if err != nil {
			return nil, errs.Decode(voteSchema, err)
		}
		v.RootSlot = &root
	}

	// authorized_voters: Vec<(epoch, pubkey)>, sorted ascending by epoch.
	voterCount, err := dec.ReadUint64(bin.LE)
	if err != nil {
		return nil, errs.Decode(voteSchema, err)
	}
	for i := uint64(0); i < voterCount; i++ {
		var ev EpochVoter
		if ev.Epoch, err = dec.ReadUint64(bin.LE); err != nil {
			return nil, errs.Decode(voteSchema, err)
		}
		if ev.Voter, err = readPubkey(dec); err != nil {
			return nil, errs.Decode(voteSchema, err)
		}
		v.AuthorizedVoters = append(v.AuthorizedVoters, ev)
	}

	// prior_voters: fixed circular buffer of 32 (pubkey, epoch, epoch)
	// entries plus index u64 and is_empty bool. Not surfaced in the view.
	if _, err = dec.ReadNBytes(32*(32+8+8) + 8 + 1); err != nil {
		return nil, errs.Decode(voteSchema, err)
	}

	// epoch_credits: Vec<(epoch, credits, prev_credits)>
	creditCount, err := dec.ReadUint64(bin.LE)
	if err != nil {
		return nil, errs.Decode(voteSchema, err)
	}
	for i := uint64(0); i < creditCount; i++ {
		var ec EpochCredits
		if ec.Epoch, err = dec.ReadUint64(bin.LE); err != nil {
			return nil, errs.Decode(voteSchema, err)
		}
		if ec.Credits, err = dec.ReadUint64(bin.LE); err != nil {
			return nil, errs.Decode(voteSchema, err)
		}
		if ec.PrevCredits, err = dec.ReadUint64(bin.LE); err != nil {
			return nil, errs.Decode(voteSchema, err)
		}
		v.EpochCredits = append(v.EpochCredits, ec)
	}

	if v.LastTimestamp.Slot, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, errs.Decode(voteSchema, err)
	}
	if v.LastTimestamp.Timestamp, err = dec.ReadInt64(bin.LE); err != nil {
		return nil, errs.Decode(voteSchema, err)
	}

	return v, nil
}
