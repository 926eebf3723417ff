// transfer.go - Sender-side deposit preparation, recipient-side scanning,
// and claim preparation.

package stealth

import (
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc/grumpkin"
	grumpkinfr "github.com/consensys/gnark-crypto/ecc/grumpkin/fr"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
	"github.com/cheng-chun-yuan/zVault-sub005/internal/note"
)

// Deposit is the sender-side output of PrepareDeposit: everything needed to
// broadcast an announcement and fund its commitment. Nothing is persisted;
// the caller owns the ephemerals until the announcement is on the ledger.
type Deposit struct {
	EphView      *ViewingKey
	EphSpend     *SpendingKey
	StealthPub   grumpkin.G1Affine
	Commitment   field.Element
	Announcement Announcement
}

// PrepareDeposit derives a fresh one-time stealth key for the recipient and
// the commitment binding it to the amount. The announcement's leaf index is
// zero until the on-ledger insertion assigns one.
func PrepareDeposit(h *field.Hasher, meta *MetaAddress, amountSats uint64) (*Deposit, error) {
	ephView, err := GenerateViewingKey()
	if err != nil {
		return nil, err
	}
	ephSpend, err := GenerateSpendingKey()
	if err != nil {
		return nil, err
	}

	shared, err := sharedSecret(ephView.Priv, meta.ViewPub)
	if err != nil {
		return nil, fmt.Errorf("stealth: deposit ECDH: %w", err)
	}
	t, _, err := deriveTweak(h, shared)
	if err != nil {
		return nil, err
	}
	stealthPub := derivePub(&meta.SpendPub, &t)

	commitment, err := note.Commitment(h, PointX(&stealthPub), amountSats)
	if err != nil {
		return nil, err
	}

	return &Deposit{
		EphView:    ephView,
		EphSpend:   ephSpend,
		StealthPub: stealthPub,
		Commitment: commitment,
		Announcement: Announcement{
			EphViewPub:  ephView.Pub,
			EphSpendPub: CompressPoint(&ephSpend.Pub),
			AmountSats:  amountSats,
			Commitment:  commitment,
			CreatedAt:   time.Now().Unix(),
		},
	}, nil
}

// Position is an owned spendable value discovered by scanning: the one-time
// stealth key, the amount bound to it, and where its commitment lives.
type Position struct {
	StealthPub   grumpkin.G1Affine
	AmountSats   uint64
	LeafIndex    uint64
	Commitment   field.Element
	Announcement *Announcement
}

// Scan walks announcements and returns the positions addressed to the
// holder of viewPriv. Non-matches are skipped silently: most announcements
// belong to other users, and malformed ephemerals are treated the same way.
func Scan(h *field.Hasher, viewPriv [ViewingKeySize]byte, spendPub *grumpkin.G1Affine, announcements []*Announcement) ([]*Position, error) {
	var owned []*Position
	for _, a := range announcements {
		shared, err := sharedSecret(viewPriv, a.EphViewPub)
		if err != nil {
			continue
		}
		t, _, err := deriveTweak(h, shared)
		if err != nil {
			return nil, err
		}
		stealthPub := derivePub(spendPub, &t)
		expected, err := note.Commitment(h, PointX(&stealthPub), a.AmountSats)
		if err != nil {
			return nil, err
		}
		if !expected.Equal(a.Commitment) {
			continue
		}
		owned = append(owned, &Position{
			StealthPub:   stealthPub,
			AmountSats:   a.AmountSats,
			LeafIndex:    a.LeafIndex,
			Commitment:   a.Commitment,
			Announcement: a,
		})
	}
	return owned, nil
}

// KeyMismatchError is protocol-fatal: the derived stealth private key does
// not reconstruct the position's public key, so the position does not
// belong to the supplied keys (or local state is corrupt).
type KeyMismatchError struct {
	LeafIndex uint64
}

func (e *KeyMismatchError) Error() string {
	return fmt.Sprintf("stealth: derived key does not match position at leaf %d", e.LeafIndex)
}

// Claim is the spend-side key material for one position.
type Claim struct {
	StealthPriv   grumpkinfr.Element
	NullifierKey  field.Element
	Nullifier     field.Element
	NullifierHash field.Element
}

// PrepareClaim derives the stealth private key for a scanned position and
// its nullifier pair. The reconstruction check runs before anything else:
// producing a proof from a mismatched key would burn fees on a guaranteed
// rejection.
func PrepareClaim(h *field.Hasher, spend *SpendingKey, viewPriv [ViewingKeySize]byte, pos *Position) (*Claim, error) {
	if pos.Announcement == nil {
		return nil, fmt.Errorf("stealth: position at leaf %d has no announcement", pos.LeafIndex)
	}
	shared, err := sharedSecret(viewPriv, pos.Announcement.EphViewPub)
	if err != nil {
		return nil, fmt.Errorf("stealth: claim ECDH: %w", err)
	}
	t, _, err := deriveTweak(h, shared)
	if err != nil {
		return nil, err
	}

	var priv grumpkinfr.Element
	priv.Add(&spend.Priv, &t)

	check := scalarBaseMul(&priv)
	if !check.Equal(&pos.StealthPub) {
		return nil, &KeyMismatchError{LeafIndex: pos.LeafIndex}
	}

	// The circuit consumes the private key as a hash-field element; the
	// Grumpkin order exceeds the hash field, so reduce deterministically.
	privBytes := priv.Bytes()
	nullifierKey := field.FromBytesReduce(privBytes[:])

	nullifier, err := note.Nullifier(h, nullifierKey, pos.LeafIndex)
	if err != nil {
		return nil, err
	}
	nullifierHash, err := note.NullifierHash(h, nullifier)
	if err != nil {
		return nil, err
	}

	return &Claim{
		StealthPriv:   priv,
		NullifierKey:  nullifierKey,
		Nullifier:     nullifier,
		NullifierHash: nullifierHash,
	}, nil
}
