// note.go - Commitment and nullifier scheme for shielded positions.
//
// A commitment binds a one-time stealth public key to an amount; its
// nullifier is derivable only from the matching stealth private key and the
// commitment's leaf index. The nullifier hash, not the nullifier, is what
// gets published on spend.

package note

import (
	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
)

// Commitment computes the canonical value commitment
// Hash(stealthPubX, amountSats).
func Commitment(h *field.Hasher, stealthPubX field.Element, amountSats uint64) (field.Element, error) {
	return h.Hash2(stealthPubX, field.FromUint64(amountSats))
}

// PoolCommitment computes a yield-pool position commitment
// Hash(stealthPubX, principal, depositEpoch). Structurally a commitment
// with an extra epoch binding for yield accrual.
func PoolCommitment(h *field.Hasher, stealthPubX field.Element, principalSats, depositEpoch uint64) (field.Element, error) {
	return h.Hash3(stealthPubX, field.FromUint64(principalSats), field.FromUint64(depositEpoch))
}

// Nullifier computes Hash(privateKey, leafIndex). Deterministic for a fixed
// key/index pair; the private key is the stealth private key reduced into
// the hash field.
func Nullifier(h *field.Hasher, privateKey field.Element, leafIndex uint64) (field.Element, error) {
	return h.Hash2(privateKey, field.FromUint64(leafIndex))
}

// NullifierHash computes the published form Hash(nullifier).
func NullifierHash(h *field.Hasher, nullifier field.Element) (field.Element, error) {
	return h.Hash1(nullifier)
}

// LegacyCommitment computes the historical two-stage form
// Hash(Hash(nullifier, secret), amount).
//
// Deprecated: only pre-migration records use this scheme. Nothing in the
// encode path accepts a legacy commitment; it exists for reading old
// announcements.
func LegacyCommitment(h *field.Hasher, nullifier, secret field.Element, amountSats uint64) (field.Element, error) {
	inner, err := h.Hash2(nullifier, secret)
	if err != nil {
		return field.Element{}, err
	}
	return h.Hash2(inner, field.FromUint64(amountSats))
}
