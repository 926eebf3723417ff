// hasher.go - Poseidon hash engine with explicit initialization.
//
// The engine wraps circom-parameterized Poseidon over the BN254 scalar
// field, the same construction the on-ledger program reaches through its
// native hash syscall. Callers own Hasher handles; there is no package
// singleton.

package field

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/iden3/go-iden3-crypto/poseidon"
)

// ErrNotInitialized is returned by every hash call on a handle that has not
// completed Initialize().
var ErrNotInitialized = errors.New("field: hasher not initialized")

// poseidonZeroPair is Poseidon(0, 0), the level-1 zero hash of the
// commitment tree. Initialize() verifies the underlying implementation
// against it before declaring the handle Ready.
const poseidonZeroPair = "2098f5fb9e239eab3ceac3f27b81e481dc3124d55ffed523a839ee8446b64864"

// Hasher is a Poseidon engine handle. It starts Uninitialized; Initialize()
// moves it to Ready exactly once, and hash calls fail explicitly until then.
type Hasher struct {
	once  sync.Once
	ready atomic.Bool
	err   error
}

// NewHasher returns an uninitialized handle.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Initialize performs the one-time parameter self-check and readies the
// handle. Idempotent and safe to call from multiple goroutines; repeated
// calls return the first outcome.
func (h *Hasher) Initialize() error {
	h.once.Do(func() {
		got, err := poseidon.Hash([]*big.Int{big.NewInt(0), big.NewInt(0)})
		if err != nil {
			h.err = fmt.Errorf("field: poseidon self-check: %w", err)
			return
		}
		want, _ := new(big.Int).SetString(poseidonZeroPair, 16)
		if got.Cmp(want) != 0 {
			h.err = fmt.Errorf("field: poseidon parameter mismatch: Poseidon(0,0) = %s, want %s",
				got.Text(16), poseidonZeroPair)
			return
		}
		h.ready.Store(true)
	})
	return h.err
}

// Ready reports whether the handle has been successfully initialized.
func (h *Hasher) Ready() bool {
	return h.ready.Load()
}

func (h *Hasher) hash(inputs ...Element) (Element, error) {
	if !h.ready.Load() {
		return Element{}, ErrNotInitialized
	}
	big := make([]*big.Int, len(inputs))
	for i, in := range inputs {
		big[i] = in.Big()
	}
	out, err := poseidon.Hash(big)
	if err != nil {
		return Element{}, fmt.Errorf("field: poseidon: %w", err)
	}
	return fromBig(out), nil
}

// Hash1 is single-input Poseidon, used for nullifier hashes.
func (h *Hasher) Hash1(a Element) (Element, error) {
	return h.hash(a)
}

// Hash2 is two-input Poseidon, the tree-node pairing rule and the
// commitment/nullifier hash.
func (h *Hasher) Hash2(a, b Element) (Element, error) {
	return h.hash(a, b)
}

// Hash3 is three-input Poseidon, used for pool commitments and the stealth
// key tweak.
func (h *Hasher) Hash3(a, b, c Element) (Element, error) {
	return h.hash(a, b, c)
}
