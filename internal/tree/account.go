// account.go - Defensive parsing of the on-ledger tree account layout.
//
// Layout (3952 bytes):
//   discriminator (1) | bump (1) | padding (6) | current_root (32) |
//   next_index u64 LE (8) | frontier 20*32 (640) | root_history 100*32
//   (3200) | root_history_index u32 LE (4) | reserved (60)

package tree

import (
	"encoding/binary"
	"fmt"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
)

// AccountDiscriminator tags a commitment-tree account.
const AccountDiscriminator = 0x05

// AccountSize is the fixed on-ledger account length.
const AccountSize = 1 + 1 + 6 + 32 + 8 + Depth*32 + RootHistorySize*32 + 4 + 60

// AccountLayoutError is protocol-fatal: the fetched bytes are not a valid
// tree account.
type AccountLayoutError struct {
	Field string
	Got   string
	Want  string
}

func (e *AccountLayoutError) Error() string {
	return fmt.Sprintf("tree: account %s mismatch: got %s, want %s", e.Field, e.Got, e.Want)
}

// AccountState is the parsed on-ledger tree state.
type AccountState struct {
	Bump         uint8
	Root         field.Element
	NextIndex    uint64
	Frontier     [Depth]field.Element
	History      [RootHistorySize]field.Element
	HistoryIndex uint32
}

// ParseAccount decodes an on-ledger tree account, rejecting unexpected
// lengths or discriminators rather than guessing.
func ParseAccount(data []byte) (*AccountState, error) {
	if len(data) < AccountSize {
		return nil, &AccountLayoutError{
			Field: "length",
			Got:   fmt.Sprintf("%d", len(data)),
			Want:  fmt.Sprintf(">= %d", AccountSize),
		}
	}
	if data[0] != AccountDiscriminator {
		return nil, &AccountLayoutError{
			Field: "discriminator",
			Got:   fmt.Sprintf("0x%02x", data[0]),
			Want:  fmt.Sprintf("0x%02x", AccountDiscriminator),
		}
	}

	s := &AccountState{Bump: data[1]}
	off := 8 // discriminator + bump + padding

	var err error
	if s.Root, err = field.FromSlice(data[off : off+32]); err != nil {
		return nil, fmt.Errorf("tree: account current_root: %w", err)
	}
	off += 32
	s.NextIndex = binary.LittleEndian.Uint64(data[off : off+8])
	off += 8
	for i := 0; i < Depth; i++ {
		if s.Frontier[i], err = field.FromSlice(data[off : off+32]); err != nil {
			return nil, fmt.Errorf("tree: account frontier[%d]: %w", i, err)
		}
		off += 32
	}
	for i := 0; i < RootHistorySize; i++ {
		if s.History[i], err = field.FromSlice(data[off : off+32]); err != nil {
			return nil, fmt.Errorf("tree: account root_history[%d]: %w", i, err)
		}
		off += 32
	}
	s.HistoryIndex = binary.LittleEndian.Uint32(data[off : off+4])
	return s, nil
}

// KnownRoot reports whether root is the account's current root or in its
// retained history.
func (s *AccountState) KnownRoot(root field.Element) bool {
	if s.Root.Equal(root) {
		return true
	}
	for _, h := range s.History {
		if h.Equal(root) {
			return true
		}
	}
	return false
}

// DivergenceError reports a local tree that no longer matches the on-ledger
// account. This is protocol-fatal for the local state: every proof built on
// it would be rejected.
type DivergenceError struct {
	LocalRoot   field.Element
	LedgerRoot  field.Element
	LocalIndex  uint64
	LedgerIndex uint64
}

func (e *DivergenceError) Error() string {
	if e.LocalIndex != e.LedgerIndex {
		return fmt.Sprintf("tree: diverged from ledger: local next_index %d, ledger %d", e.LocalIndex, e.LedgerIndex)
	}
	return fmt.Sprintf("tree: diverged from ledger: local root %s, ledger root %s", e.LocalRoot.Hex(), e.LedgerRoot.Hex())
}

// SyncCheck compares a local tree against parsed on-ledger state.
func SyncCheck(t *Tree, s *AccountState) error {
	if t.NextIndex() != s.NextIndex || !t.Root().Equal(s.Root) {
		return &DivergenceError{
			LocalRoot:   t.Root(),
			LedgerRoot:  s.Root,
			LocalIndex:  t.NextIndex(),
			LedgerIndex: s.NextIndex,
		}
	}
	return nil
}
