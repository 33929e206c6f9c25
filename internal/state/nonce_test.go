package state

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solettadev/soletta/internal/errs"
)

func nonceBytes(version, stateTag uint32, authority solana.PublicKey, blockhash solana.Hash, feePerSig uint64) []byte {
	b := appendU32(nil, version)
	b = appendU32(b, stateTag)
	if stateTag == uint32(NonceInitialized) {
		b = append(b, authority.Bytes()...)
		b = append(b, blockhash[:]...)
		b = appendU64(b, feePerSig)
	}
	return b
}

func TestDecodeNonceAccountInitialized(t *testing.T) {
	authority := solana.NewWallet().PublicKey()
	var blockhash solana.Hash
	copy(blockhash[:], []byte("nonce-blockhash-fixture-32bytes!"))

	for _, version := range []uint32{0, 1} {
		n, err := DecodeNonceAccount(nonceBytes(version, 1, authority, blockhash, 5000))
		require.NoError(t, err, "version %d", version)
		assert.Equal(t, NonceInitialized, n.Kind)
		assert.Equal(t, authority, n.Authority)
		assert.Equal(t, blockhash, n.Blockhash)
		assert.Equal(t, uint64(5000), n.LamportsPerSignature)
	}
}

func TestDecodeNonceAccountUninitialized(t *testing.T) {
	n, err := DecodeNonceAccount(nonceBytes(1, 0, solana.PublicKey{}, solana.Hash{}, 0))
	require.NoError(t, err)
	assert.Equal(t, NonceUninitialized, n.Kind)
}

func TestDecodeNonceAccountErrors(t *testing.T) {
	authority := solana.NewWallet().PublicKey()
	valid := nonceBytes(1, 1, authority, solana.Hash{}, 5000)

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "unknown version", data: nonceBytes(9, 1, authority, solana.Hash{}, 5000)},
		{name: "unknown state", data: appendU32(appendU32(nil, 1), 7)},
		{name: "truncated", data: valid[:30]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeNonceAccount(tt.data)
			require.Error(t, err)
			var decErr *errs.DecodeError
			assert.ErrorAs(t, err, &decErr)
		})
	}
}
