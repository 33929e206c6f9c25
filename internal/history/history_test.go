package history

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndRecent(t *testing.T) {
	store, err := Open(InMemoryDSN)
	require.NoError(t, err)
	defer store.Close()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(&Entry{
			Signature:    fmt.Sprintf("sig-%d", i),
			Kind:         "transfer",
			Lamports:     uint64(i + 1),
			Counterparty: "recipient",
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := store.Recent(3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "sig-4", entries[0].Signature, "newest first")
	assert.Equal(t, "sig-2", entries[2].Signature)
}

func TestRecordSetsTimestamp(t *testing.T) {
	store, err := Open(InMemoryDSN)
	require.NoError(t, err)
	defer store.Close()

	e := &Entry{Signature: "sig", Kind: "airdrop", Lamports: 1}
	require.NoError(t, store.Record(e))
	assert.False(t, e.CreatedAt.IsZero())
}

func TestDuplicateSignatureRejected(t *testing.T) {
	store, err := Open(InMemoryDSN)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Record(&Entry{Signature: "dup", Kind: "transfer"}))
	require.Error(t, store.Record(&Entry{Signature: "dup", Kind: "transfer"}))
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Record(&Entry{Signature: "sig", Kind: "transfer"}))
	entries, err := store.Recent(1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
