// spent.go - Local double-spend guard over published nullifier hashes.

package note

import (
	"fmt"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
)

// DoubleSpendError is protocol-fatal: the nullifier hash has already been
// published.
type DoubleSpendError struct {
	NullifierHash field.Element
}

func (e *DoubleSpendError) Error() string {
	return fmt.Sprintf("note: nullifier hash %s already spent", e.NullifierHash.Hex())
}

// SpentSet tracks nullifier hashes the client has seen published. It is a
// local mirror of the on-ledger nullifier records, used to fail a spend
// before it is ever submitted.
type SpentSet struct {
	seen map[field.Element]struct{}
}

// NewSpentSet returns an empty set.
func NewSpentSet() *SpentSet {
	return &SpentSet{seen: make(map[field.Element]struct{})}
}

// Contains reports whether the nullifier hash is already recorded.
func (s *SpentSet) Contains(nullifierHash field.Element) bool {
	_, ok := s.seen[nullifierHash]
	return ok
}

// MarkSpent records a published nullifier hash, failing on a repeat.
func (s *SpentSet) MarkSpent(nullifierHash field.Element) error {
	if s.Contains(nullifierHash) {
		return &DoubleSpendError{NullifierHash: nullifierHash}
	}
	s.seen[nullifierHash] = struct{}{}
	return nil
}

// Len returns the number of recorded nullifier hashes.
func (s *SpentSet) Len() int {
	return len(s.seen)
}
