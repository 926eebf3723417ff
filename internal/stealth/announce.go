// announce.go - Stealth announcement records.
//
// Two on-ledger variants exist. V2 is the current dual-key format; V1 is
// the deprecated single-key format kept for reading pre-migration records.
//
// V1 account layout (91 bytes):
//   discriminator 0x06 (1) | bump (1) | ephemeral_spend_pub (33) |
//   amount_sats u64 LE (8) | commitment (32) | leaf_index u64 LE (8) |
//   created_at i64 LE (8)
//
// V2 account layout (136 bytes):
//   discriminator 0x08 (1) | bump (1) | ephemeral_view_pub (32) |
//   ephemeral_spend_pub (33) | amount_sats u64 LE (8) | commitment (32) |
//   leaf_index u64 LE (8) | created_at i64 LE (8) | reserved (13)

package stealth

import (
	"encoding/binary"
	"fmt"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
)

// Announcement record constants shared with the on-ledger program.
const (
	AnnouncementV1Discriminator = 0x06
	AnnouncementV2Discriminator = 0x08
	AnnouncementV1Size          = 1 + 1 + CompressedPointSize + 8 + 32 + 8 + 8
	AnnouncementV2Size          = 1 + 1 + ViewingKeySize + CompressedPointSize + 8 + 32 + 8 + 8 + 13
)

// RecordLayoutError is protocol-fatal: the bytes are not a valid
// announcement record of the claimed variant.
type RecordLayoutError struct {
	Variant string
	Field   string
	Detail  string
}

func (e *RecordLayoutError) Error() string {
	return fmt.Sprintf("stealth: announcement %s %s: %s", e.Variant, e.Field, e.Detail)
}

// Announcement is the current (V2) record: one-time dual ephemerals plus
// the commitment they produce and its tree position.
type Announcement struct {
	Bump         uint8
	EphViewPub   [ViewingKeySize]byte
	EphSpendPub  [CompressedPointSize]byte
	AmountSats   uint64
	Commitment   field.Element
	LeafIndex    uint64
	CreatedAt    int64
}

// Bytes serializes the record to its fixed 136-byte layout.
func (a *Announcement) Bytes() [AnnouncementV2Size]byte {
	var out [AnnouncementV2Size]byte
	out[0] = AnnouncementV2Discriminator
	out[1] = a.Bump
	copy(out[2:34], a.EphViewPub[:])
	copy(out[34:67], a.EphSpendPub[:])
	binary.LittleEndian.PutUint64(out[67:75], a.AmountSats)
	c := a.Commitment.Bytes()
	copy(out[75:107], c[:])
	binary.LittleEndian.PutUint64(out[107:115], a.LeafIndex)
	binary.LittleEndian.PutUint64(out[115:123], uint64(a.CreatedAt))
	return out
}

// ParseAnnouncement decodes a V2 record, rejecting unexpected lengths or
// discriminators.
func ParseAnnouncement(data []byte) (*Announcement, error) {
	if len(data) < AnnouncementV2Size {
		return nil, &RecordLayoutError{
			Variant: "v2", Field: "length",
			Detail: fmt.Sprintf("got %d bytes, want >= %d", len(data), AnnouncementV2Size),
		}
	}
	if data[0] != AnnouncementV2Discriminator {
		return nil, &RecordLayoutError{
			Variant: "v2", Field: "discriminator",
			Detail: fmt.Sprintf("got 0x%02x, want 0x%02x", data[0], AnnouncementV2Discriminator),
		}
	}
	a := &Announcement{Bump: data[1]}
	copy(a.EphViewPub[:], data[2:34])
	copy(a.EphSpendPub[:], data[34:67])
	a.AmountSats = binary.LittleEndian.Uint64(data[67:75])
	c, err := field.FromSlice(data[75:107])
	if err != nil {
		return nil, &RecordLayoutError{Variant: "v2", Field: "commitment", Detail: err.Error()}
	}
	a.Commitment = c
	a.LeafIndex = binary.LittleEndian.Uint64(data[107:115])
	a.CreatedAt = int64(binary.LittleEndian.Uint64(data[115:123]))
	return a, nil
}

// AnnouncementV1 is the deprecated single-key record. It is parsed for
// completeness but the scanner does not process it: its ECDH ran on the
// spending curve directly, which the current viewing-key model forbids.
type AnnouncementV1 struct {
	Bump        uint8
	EphSpendPub [CompressedPointSize]byte
	AmountSats  uint64
	Commitment  field.Element
	LeafIndex   uint64
	CreatedAt   int64
}

// ParseAnnouncementV1 decodes a V1 record.
func ParseAnnouncementV1(data []byte) (*AnnouncementV1, error) {
	if len(data) < AnnouncementV1Size {
		return nil, &RecordLayoutError{
			Variant: "v1", Field: "length",
			Detail: fmt.Sprintf("got %d bytes, want >= %d", len(data), AnnouncementV1Size),
		}
	}
	if data[0] != AnnouncementV1Discriminator {
		return nil, &RecordLayoutError{
			Variant: "v1", Field: "discriminator",
			Detail: fmt.Sprintf("got 0x%02x, want 0x%02x", data[0], AnnouncementV1Discriminator),
		}
	}
	a := &AnnouncementV1{Bump: data[1]}
	copy(a.EphSpendPub[:], data[2:35])
	a.AmountSats = binary.LittleEndian.Uint64(data[35:43])
	c, err := field.FromSlice(data[43:75])
	if err != nil {
		return nil, &RecordLayoutError{Variant: "v1", Field: "commitment", Detail: err.Error()}
	}
	a.Commitment = c
	a.LeafIndex = binary.LittleEndian.Uint64(data[75:83])
	a.CreatedAt = int64(binary.LittleEndian.Uint64(data[83:91]))
	return a, nil
}
