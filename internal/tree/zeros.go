// zeros.go - Precomputed all-zero-subtree hashes.

package tree

import (
	"fmt"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
)

// Depth is the fixed tree depth; capacity is 2^Depth leaves.
const Depth = 20

// RootHistorySize is the number of historical roots retained.
const RootHistorySize = 100

// MaxLeaves is the tree capacity.
const MaxLeaves = uint64(1) << Depth

// Zeros holds the empty-subtree hash for every level: Zeros[0] is the empty
// leaf (field zero) and Zeros[k] = Hash2(Zeros[k-1], Zeros[k-1]). Zeros[Depth]
// is the root of a freshly created tree.
type Zeros [Depth + 1]field.Element

// ComputeZeros derives the table from the hasher. The values must match the
// on-ledger program's constants; hasher initialization already self-checks
// the underlying parameterization, so any divergence here is a programming
// error, not a runtime condition.
func ComputeZeros(h *field.Hasher) (*Zeros, error) {
	var z Zeros
	for k := 1; k <= Depth; k++ {
		next, err := h.Hash2(z[k-1], z[k-1])
		if err != nil {
			return nil, fmt.Errorf("tree: zero hash level %d: %w", k, err)
		}
		z[k] = next
	}
	return &z, nil
}
