package state

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/solettadev/soletta/internal/errs"
)

// NonceAccountSize is the serialized size of a durable-nonce account.
const NonceAccountSize uint64 = 80

const nonceSchema = "nonce account state"

// NonceKind is the logical variant of a nonce account. Bytes of either
// variant are well formed; requiring Initialized is a validation concern.
type NonceKind uint32

const (
	NonceUninitialized NonceKind = iota
	NonceInitialized
)

func (k NonceKind) String() string {
	if k == NonceInitialized {
		return "initialized"
	}
	return "uninitialized"
}

// NonceAccount is the decoded view of a durable-nonce account.
type NonceAccount struct {
	Kind                 NonceKind
	Authority            solana.PublicKey
	Blockhash            solana.Hash
	LamportsPerSignature uint64
}

// DecodeNonceAccount decodes a versioned nonce state payload.
func DecodeNonceAccount(data []byte) (*NonceAccount, error) {
	dec := bin.NewBinDecoder(data)

	// versions wrapper: 0 = legacy, 1 = current; both carry the same state.
	version, err := dec.ReadUint32(bin.LE)
	if err != nil {
		return nil, errs.Decode(nonceSchema, err)
	}
	if version > 1 {
		return nil, errs.Decodef(nonceSchema, "unknown nonce version %d", version)
	}

	stateTag, err := dec.ReadUint32(bin.LE)
	if err != nil {
		return nil, errs.Decode(nonceSchema, err)
	}
	switch NonceKind(stateTag) {
	case NonceUninitialized:
		return &NonceAccount{Kind: NonceUninitialized}, nil
	case NonceInitialized:
	default:
		return nil, errs.Decodef(nonceSchema, "unknown state discriminant %d", stateTag)
	}

	acct := &NonceAccount{Kind: NonceInitialized}
	if acct.Authority, err = readPubkey(dec); err != nil {
		return nil, errs.Decode(nonceSchema, err)
	}
	hash, err := dec.ReadNBytes(32)
	if err != nil {
		return nil, errs.Decode(nonceSchema, err)
	}
	copy(acct.Blockhash[:], hash)
	if acct.LamportsPerSignature, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, errs.Decode(nonceSchema, err)
	}
	return acct, nil
}
