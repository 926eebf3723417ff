// tree.go - Incremental append-only Merkle tree (frontier algorithm).
//
// Insert mirrors the on-ledger program exactly: at each level an
// even-positioned node is stored as that level's frontier and paired with
// the zero hash, an odd-positioned node is paired with the stored frontier.
// The tree is not thread-safe; callers serialize access.

package tree

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
)

// ErrTreeFull is returned by Insert once all 2^Depth slots are used.
var ErrTreeFull = errors.New("tree: capacity exhausted")

// ErrLeafNotFound is the expected no-match outcome of Proof for a
// commitment that was never inserted.
var ErrLeafNotFound = errors.New("tree: commitment not found")

// OutOfOrderError reports a reconstruction entry whose index is not
// strictly beyond the already-populated range.
type OutOfOrderError struct {
	Index     uint64
	NextIndex uint64
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("tree: leaf index %d out of order (next expected >= %d)", e.Index, e.NextIndex)
}

// Tree is the client-side mirror of the on-ledger commitment tree.
type Tree struct {
	hasher     *field.Hasher
	zeros      Zeros
	leaves     []field.Element
	byLeaf     map[field.Element]uint64
	frontier   [Depth]field.Element
	root       field.Element
	history    [RootHistorySize]field.Element
	historyIdx uint32
}

// New creates an empty tree. The hasher must be Ready; the empty root is
// Zeros[Depth].
func New(h *field.Hasher) (*Tree, error) {
	z, err := ComputeZeros(h)
	if err != nil {
		return nil, err
	}
	return &Tree{
		hasher: h,
		zeros:  *z,
		byLeaf: make(map[field.Element]uint64),
		root:   z[Depth],
	}, nil
}

// Zeros returns the empty-subtree hash table.
func (t *Tree) Zeros() Zeros {
	return t.zeros
}

// Root returns the current root.
func (t *Tree) Root() field.Element {
	return t.root
}

// NextIndex returns the index the next insertion will occupy.
func (t *Tree) NextIndex() uint64 {
	return uint64(len(t.leaves))
}

// Leaves returns a copy of the inserted commitments in leaf order.
func (t *Tree) Leaves() []field.Element {
	out := make([]field.Element, len(t.leaves))
	copy(out, t.leaves)
	return out
}

// KnownRoot reports whether root is the current root or one of the last
// RootHistorySize roots, matching the on-ledger staleness tolerance.
func (t *Tree) KnownRoot(root field.Element) bool {
	if t.root.Equal(root) {
		return true
	}
	for _, h := range t.history {
		if h.Equal(root) {
			return true
		}
	}
	return false
}

// Insert appends a commitment and returns its leaf index.
func (t *Tree) Insert(commitment field.Element) (uint64, error) {
	leafIndex := uint64(len(t.leaves))
	if leafIndex >= MaxLeaves {
		return 0, ErrTreeFull
	}

	current := commitment
	idx := leafIndex
	for level := 0; level < Depth; level++ {
		var err error
		if idx%2 == 0 {
			t.frontier[level] = current
			current, err = t.hasher.Hash2(current, t.zeros[level])
		} else {
			current, err = t.hasher.Hash2(t.frontier[level], current)
		}
		if err != nil {
			return 0, fmt.Errorf("tree: insert at level %d: %w", level, err)
		}
		idx /= 2
	}

	t.history[t.historyIdx%RootHistorySize] = t.root
	t.historyIdx++
	t.root = current

	t.leaves = append(t.leaves, commitment)
	if _, dup := t.byLeaf[commitment]; !dup {
		t.byLeaf[commitment] = leafIndex
	}
	return leafIndex, nil
}

// LeafEntry is one reconstruction record: a commitment at a known index.
type LeafEntry struct {
	Index      uint64
	Commitment field.Element
}

// Rebuild replays externally observed insertions. Entries must arrive in
// strictly increasing index order at or beyond the populated range; index
// gaps are filled with zero-commitment placeholder leaves so the frontier
// stays aligned with the on-ledger tree.
func (t *Tree) Rebuild(entries []LeafEntry) error {
	for _, e := range entries {
		if e.Index < t.NextIndex() {
			return &OutOfOrderError{Index: e.Index, NextIndex: t.NextIndex()}
		}
		for t.NextIndex() < e.Index {
			if _, err := t.Insert(field.Element{}); err != nil {
				return err
			}
		}
		if _, err := t.Insert(e.Commitment); err != nil {
			return err
		}
	}
	return nil
}

// snapshot is the JSON form of the full reconstruction state.
type snapshot struct {
	Leaves       []string `json:"leaves"`
	Root         string   `json:"root"`
	Frontier     []string `json:"frontier"`
	History      []string `json:"root_history"`
	HistoryIndex uint32   `json:"root_history_index"`
}

// Export serializes the complete tree state.
func (t *Tree) Export() ([]byte, error) {
	s := snapshot{
		Leaves:       make([]string, len(t.leaves)),
		Root:         t.root.Hex(),
		Frontier:     make([]string, Depth),
		History:      make([]string, RootHistorySize),
		HistoryIndex: t.historyIdx,
	}
	for i, l := range t.leaves {
		s.Leaves[i] = l.Hex()
	}
	for i, f := range t.frontier {
		s.Frontier[i] = f.Hex()
	}
	for i, h := range t.history {
		s.History[i] = h.Hex()
	}
	return json.MarshalIndent(s, "", "  ")
}

// Import restores a tree previously serialized with Export. The hasher must
// be Ready; the snapshot is validated field by field.
func Import(h *field.Hasher, data []byte) (*Tree, error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("tree: import: %w", err)
	}
	if len(s.Frontier) != Depth {
		return nil, fmt.Errorf("tree: import: frontier has %d levels, want %d", len(s.Frontier), Depth)
	}
	if len(s.History) != RootHistorySize {
		return nil, fmt.Errorf("tree: import: history has %d roots, want %d", len(s.History), RootHistorySize)
	}
	t, err := New(h)
	if err != nil {
		return nil, err
	}
	parse := func(what string, i int, hex string) (field.Element, error) {
		e, err := elementFromHex(hex)
		if err != nil {
			return field.Element{}, fmt.Errorf("tree: import: %s[%d]: %w", what, i, err)
		}
		return e, nil
	}
	t.leaves = make([]field.Element, len(s.Leaves))
	for i, hex := range s.Leaves {
		if t.leaves[i], err = parse("leaves", i, hex); err != nil {
			return nil, err
		}
		if _, dup := t.byLeaf[t.leaves[i]]; !dup {
			t.byLeaf[t.leaves[i]] = uint64(i)
		}
	}
	if t.root, err = parse("root", 0, s.Root); err != nil {
		return nil, err
	}
	for i, hex := range s.Frontier {
		if t.frontier[i], err = parse("frontier", i, hex); err != nil {
			return nil, err
		}
	}
	for i, hex := range s.History {
		if t.history[i], err = parse("root_history", i, hex); err != nil {
			return nil, err
		}
	}
	t.historyIdx = s.HistoryIndex
	return t, nil
}

func elementFromHex(s string) (field.Element, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return field.Element{}, err
	}
	return field.FromSlice(raw)
}
