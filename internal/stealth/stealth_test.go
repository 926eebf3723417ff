// stealth_test.go - Key derivation, scanning and claim tests.

package stealth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
)

func newHasher(t *testing.T) *field.Hasher {
	t.Helper()
	h := field.NewHasher()
	require.NoError(t, h.Initialize())
	return h
}

func newRecipient(t *testing.T) (*SpendingKey, *ViewingKey, *MetaAddress) {
	t.Helper()
	spend, err := GenerateSpendingKey()
	require.NoError(t, err)
	view, err := GenerateViewingKey()
	require.NoError(t, err)
	return spend, view, &MetaAddress{SpendPub: spend.Pub, ViewPub: view.Pub}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	for i := 0; i < 8; i++ {
		k, err := GenerateSpendingKey()
		require.NoError(t, err)
		c := CompressPoint(&k.Pub)
		assert.Contains(t, []byte{0x02, 0x03}, c[0])

		p, err := DecompressPoint(c)
		require.NoError(t, err)
		assert.True(t, p.Equal(&k.Pub))
	}
}

func TestDecompressRejectsGarbage(t *testing.T) {
	var bad [CompressedPointSize]byte
	bad[0] = 0x04
	_, err := DecompressPoint(bad)
	assert.ErrorIs(t, err, ErrInvalidPoint)

	// Valid prefix but x at or above the base field modulus.
	for i := 1; i < CompressedPointSize; i++ {
		bad[i] = 0xff
	}
	bad[0] = 0x02
	_, err = DecompressPoint(bad)
	assert.ErrorIs(t, err, ErrInvalidPoint)
}

func TestMetaAddressRoundTrip(t *testing.T) {
	_, _, meta := newRecipient(t)
	b := meta.Bytes()
	parsed, err := ParseMetaAddress(b[:])
	require.NoError(t, err)
	assert.True(t, parsed.SpendPub.Equal(&meta.SpendPub))
	assert.Equal(t, meta.ViewPub, parsed.ViewPub)

	_, err = ParseMetaAddress(b[:40])
	assert.Error(t, err)
}

func TestSpendingKeyFromBytes(t *testing.T) {
	k, err := GenerateSpendingKey()
	require.NoError(t, err)
	b := k.Priv.Bytes()
	restored, err := SpendingKeyFromBytes(b)
	require.NoError(t, err)
	assert.True(t, restored.Pub.Equal(&k.Pub))

	var zero [32]byte
	_, err = SpendingKeyFromBytes(zero)
	assert.Error(t, err)
}

func TestDepositScanClaimRoundTrip(t *testing.T) {
	h := newHasher(t)
	spend, view, meta := newRecipient(t)

	dep, err := PrepareDeposit(h, meta, 50_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(50_000), dep.Announcement.AmountSats)
	assert.Equal(t, dep.Commitment, dep.Announcement.Commitment)

	ann := dep.Announcement
	ann.LeafIndex = 3
	positions, err := Scan(h, view.Priv, &spend.Pub, []*Announcement{&ann})
	require.NoError(t, err)
	require.Len(t, positions, 1)

	pos := positions[0]
	assert.Equal(t, uint64(50_000), pos.AmountSats)
	assert.Equal(t, uint64(3), pos.LeafIndex)
	assert.True(t, pos.StealthPub.Equal(&dep.StealthPub))

	claim, err := PrepareClaim(h, spend, view.Priv, pos)
	require.NoError(t, err)
	assert.False(t, claim.NullifierKey.IsZero())
	assert.False(t, claim.Nullifier.IsZero())
	assert.False(t, claim.NullifierHash.IsZero())
	assert.NotEqual(t, claim.Nullifier, claim.NullifierHash)
}

func TestScanIgnoresForeignAnnouncements(t *testing.T) {
	h := newHasher(t)
	spend, view, _ := newRecipient(t)
	_, _, otherMeta := newRecipient(t)

	// Announcement addressed to somebody else.
	dep, err := PrepareDeposit(h, otherMeta, 1_000)
	require.NoError(t, err)
	positions, err := Scan(h, view.Priv, &spend.Pub, []*Announcement{&dep.Announcement})
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestScanWrongViewingKeyFindsNothing(t *testing.T) {
	h := newHasher(t)
	spend, _, meta := newRecipient(t)
	wrongView, err := GenerateViewingKey()
	require.NoError(t, err)

	dep, err := PrepareDeposit(h, meta, 2_000)
	require.NoError(t, err)
	positions, err := Scan(h, wrongView.Priv, &spend.Pub, []*Announcement{&dep.Announcement})
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestPrepareClaimRejectsWrongSpendKey(t *testing.T) {
	h := newHasher(t)
	spend, view, meta := newRecipient(t)
	otherSpend, err := GenerateSpendingKey()
	require.NoError(t, err)

	dep, err := PrepareDeposit(h, meta, 9_999)
	require.NoError(t, err)
	positions, err := Scan(h, view.Priv, &spend.Pub, []*Announcement{&dep.Announcement})
	require.NoError(t, err)
	require.Len(t, positions, 1)

	_, err = PrepareClaim(h, otherSpend, view.Priv, positions[0])
	require.Error(t, err)
	var mismatch *KeyMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestNullifiersDifferAcrossPositions(t *testing.T) {
	h := newHasher(t)
	spend, view, meta := newRecipient(t)

	seen := make(map[field.Element]bool)
	for i := uint64(0); i < 16; i++ {
		dep, err := PrepareDeposit(h, meta, 1_000+i)
		require.NoError(t, err)
		ann := dep.Announcement
		ann.LeafIndex = i

		positions, err := Scan(h, view.Priv, &spend.Pub, []*Announcement{&ann})
		require.NoError(t, err)
		require.Len(t, positions, 1)

		claim, err := PrepareClaim(h, spend, view.Priv, positions[0])
		require.NoError(t, err)
		require.False(t, seen[claim.NullifierHash], "nullifier hash repeated at position %d", i)
		seen[claim.NullifierHash] = true
	}
}

func TestAnnouncementRoundTrip(t *testing.T) {
	h := newHasher(t)
	_, _, meta := newRecipient(t)
	dep, err := PrepareDeposit(h, meta, 123_456)
	require.NoError(t, err)

	ann := dep.Announcement
	ann.Bump = 0xfd
	ann.LeafIndex = 42
	ann.CreatedAt = time.Now().Unix()

	raw := ann.Bytes()
	assert.Len(t, raw[:], AnnouncementV2Size)
	assert.Equal(t, byte(AnnouncementV2Discriminator), raw[0])

	parsed, err := ParseAnnouncement(raw[:])
	require.NoError(t, err)
	assert.Equal(t, ann.Bump, parsed.Bump)
	assert.Equal(t, ann.EphViewPub, parsed.EphViewPub)
	assert.Equal(t, ann.EphSpendPub, parsed.EphSpendPub)
	assert.Equal(t, ann.AmountSats, parsed.AmountSats)
	assert.Equal(t, ann.Commitment, parsed.Commitment)
	assert.Equal(t, ann.LeafIndex, parsed.LeafIndex)
	assert.Equal(t, ann.CreatedAt, parsed.CreatedAt)
}

func TestParseAnnouncementRejectsBadRecords(t *testing.T) {
	_, err := ParseAnnouncement(make([]byte, AnnouncementV2Size-1))
	var layout *RecordLayoutError
	require.ErrorAs(t, err, &layout)
	assert.Equal(t, "length", layout.Field)

	bad := make([]byte, AnnouncementV2Size)
	bad[0] = 0x07
	_, err = ParseAnnouncement(bad)
	require.ErrorAs(t, err, &layout)
	assert.Equal(t, "discriminator", layout.Field)

	_, err = ParseAnnouncementV1(make([]byte, AnnouncementV1Size))
	require.ErrorAs(t, err, &layout)
	assert.Equal(t, "discriminator", layout.Field)
}

func TestDeriveTweakDomainSeparated(t *testing.T) {
	h := newHasher(t)
	shared := make([]byte, 32)
	for i := range shared {
		shared[i] = byte(i + 1)
	}

	_, tweak, err := deriveTweak(h, shared)
	require.NoError(t, err)

	// Plain two-input hash of the halves must not equal the tagged tweak.
	plain, err := h.Hash2(field.FromBytesReduce(shared[:16]), field.FromBytesReduce(shared[16:]))
	require.NoError(t, err)
	assert.NotEqual(t, plain, tweak)

	_, _, err = deriveTweak(h, shared[:31])
	assert.Error(t, err)
}
