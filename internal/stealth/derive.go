// derive.go - One-time stealth key derivation shared by sender and recipient.

package stealth

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/grumpkin"
	grumpkinfr "github.com/consensys/gnark-crypto/ecc/grumpkin/fr"
	"golang.org/x/crypto/curve25519"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
)

// domainTag separates the stealth tweak from every other Poseidon use in
// the protocol. Changing it is a consensus break.
var domainTag = field.FromBytesReduce([]byte("zvault.stealth.v1"))

// DomainTag returns the stealth-derivation domain separator.
func DomainTag() field.Element {
	return domainTag
}

// deriveTweak computes t = Poseidon(sharedLo, sharedHi, domainTag) from an
// X25519 shared secret, as a Grumpkin scalar. The 32-byte secret is split
// into 16-byte halves so both are canonical field elements.
func deriveTweak(h *field.Hasher, shared []byte) (grumpkinfr.Element, field.Element, error) {
	var zero grumpkinfr.Element
	if len(shared) != 32 {
		return zero, field.Element{}, fmt.Errorf("stealth: shared secret must be 32 bytes, got %d", len(shared))
	}
	lo := field.FromBytesReduce(shared[:16])
	hi := field.FromBytesReduce(shared[16:])
	t, err := h.Hash3(lo, hi, domainTag)
	if err != nil {
		return zero, field.Element{}, fmt.Errorf("stealth: tweak: %w", err)
	}
	var scalar grumpkinfr.Element
	scalar.SetBigInt(t.Big())
	return scalar, t, nil
}

// derivePub computes stealthPub = spendPub + t*G.
func derivePub(spendPub *grumpkin.G1Affine, t *grumpkinfr.Element) grumpkin.G1Affine {
	_, g := grumpkin.Generators()
	var tG grumpkin.G1Affine
	tG.ScalarMultiplication(&g, t.BigInt(new(big.Int)))
	return pointAdd(spendPub, &tG)
}

// sharedSecret runs the viewing-side ECDH. The error covers degenerate
// (low-order) peer points.
func sharedSecret(priv [ViewingKeySize]byte, peerPub [ViewingKeySize]byte) ([]byte, error) {
	return curve25519.X25519(priv[:], peerPub[:])
}
