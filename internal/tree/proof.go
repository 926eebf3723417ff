// proof.go - On-demand Merkle proof generation and verification.
//
// Only the leaf list is retained, so a proof rebuilds the O(Depth * n)
// nodes along its path, falling back to the zero hash past the populated
// range of each level.

package tree

import (
	"fmt"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
)

// MerkleProof is a path from a leaf to the root, in the shape circuits
// consume: one sibling per level and one direction bit per level. Bit i set
// means the path node is the right child at level i.
type MerkleProof struct {
	Siblings  [Depth]field.Element
	PathBits  [Depth]bool
	LeafIndex uint64
	Root      field.Element
}

// Proof builds a proof for the first occurrence of commitment, or
// ErrLeafNotFound if it was never inserted.
func (t *Tree) Proof(commitment field.Element) (*MerkleProof, error) {
	idx, ok := t.byLeaf[commitment]
	if !ok {
		return nil, ErrLeafNotFound
	}
	return t.ProofAt(idx)
}

// ProofAt builds a proof for the leaf at the given index.
func (t *Tree) ProofAt(leafIndex uint64) (*MerkleProof, error) {
	if leafIndex >= uint64(len(t.leaves)) {
		return nil, fmt.Errorf("tree: leaf index %d beyond populated range %d", leafIndex, len(t.leaves))
	}

	p := &MerkleProof{LeafIndex: leafIndex, Root: t.root}
	nodes := make([]field.Element, len(t.leaves))
	copy(nodes, t.leaves)
	idx := leafIndex

	for level := 0; level < Depth; level++ {
		sib := idx ^ 1
		if sib < uint64(len(nodes)) {
			p.Siblings[level] = nodes[sib]
		} else {
			p.Siblings[level] = t.zeros[level]
		}
		p.PathBits[level] = idx&1 == 1

		next := make([]field.Element, (len(nodes)+1)/2)
		for j := range next {
			left := nodes[2*j]
			right := t.zeros[level]
			if 2*j+1 < len(nodes) {
				right = nodes[2*j+1]
			}
			parent, err := t.hasher.Hash2(left, right)
			if err != nil {
				return nil, fmt.Errorf("tree: proof at level %d: %w", level, err)
			}
			next[j] = parent
		}
		nodes = next
		idx >>= 1
	}
	return p, nil
}

// Verify recomputes the root from the leaf along the proof path and compares
// it to the proof's claimed root.
func (p *MerkleProof) Verify(h *field.Hasher, leaf field.Element) (bool, error) {
	current := leaf
	for level := 0; level < Depth; level++ {
		var err error
		if p.PathBits[level] {
			current, err = h.Hash2(p.Siblings[level], current)
		} else {
			current, err = h.Hash2(current, p.Siblings[level])
		}
		if err != nil {
			return false, err
		}
	}
	return current.Equal(p.Root), nil
}
