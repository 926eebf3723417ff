// account_test.go - On-ledger account parsing and sync-check tests.

package tree

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
)

// accountBytes serializes a tree's state into the on-ledger account layout.
func accountBytes(t *testing.T, tr *Tree) []byte {
	t.Helper()
	data := make([]byte, AccountSize)
	data[0] = AccountDiscriminator
	data[1] = 0xfe // bump
	off := 8
	root := tr.Root().Bytes()
	copy(data[off:], root[:])
	off += 32
	binary.LittleEndian.PutUint64(data[off:], tr.NextIndex())
	off += 8
	for _, f := range tr.frontier {
		b := f.Bytes()
		copy(data[off:], b[:])
		off += 32
	}
	for _, h := range tr.history {
		b := h.Bytes()
		copy(data[off:], b[:])
		off += 32
	}
	binary.LittleEndian.PutUint32(data[off:], tr.historyIdx)
	return data
}

func TestParseAccountRoundTrip(t *testing.T) {
	h := newHasher(t)
	tr, err := New(h)
	require.NoError(t, err)
	for i := uint64(1); i <= 3; i++ {
		_, err := tr.Insert(field.FromUint64(i))
		require.NoError(t, err)
	}

	s, err := ParseAccount(accountBytes(t, tr))
	require.NoError(t, err)
	assert.Equal(t, uint8(0xfe), s.Bump)
	assert.Equal(t, tr.Root(), s.Root)
	assert.Equal(t, tr.NextIndex(), s.NextIndex)
	assert.Equal(t, tr.frontier, s.Frontier)
	assert.Equal(t, tr.historyIdx, s.HistoryIndex)

	assert.True(t, s.KnownRoot(tr.Root()))
	assert.False(t, s.KnownRoot(field.FromUint64(12345)))

	require.NoError(t, SyncCheck(tr, s))
}

func TestParseAccountRejectsBadLength(t *testing.T) {
	_, err := ParseAccount(make([]byte, AccountSize-1))
	require.Error(t, err)
	var layout *AccountLayoutError
	require.ErrorAs(t, err, &layout)
	assert.Equal(t, "length", layout.Field)
}

func TestParseAccountRejectsBadDiscriminator(t *testing.T) {
	data := make([]byte, AccountSize)
	data[0] = 0x99
	_, err := ParseAccount(data)
	require.Error(t, err)
	var layout *AccountLayoutError
	require.ErrorAs(t, err, &layout)
	assert.Equal(t, "discriminator", layout.Field)
}

func TestSyncCheckDivergence(t *testing.T) {
	h := newHasher(t)
	tr, err := New(h)
	require.NoError(t, err)
	_, err = tr.Insert(field.FromUint64(1))
	require.NoError(t, err)

	other, err := New(h)
	require.NoError(t, err)
	_, err = other.Insert(field.FromUint64(2))
	require.NoError(t, err)

	s, err := ParseAccount(accountBytes(t, other))
	require.NoError(t, err)

	err = SyncCheck(tr, s)
	require.Error(t, err)
	var div *DivergenceError
	assert.ErrorAs(t, err, &div)
}
