// sync.go - Mirroring the on-ledger commitment tree and announcements.
//
// Reconstruction replays announcements in leaf order into a local tree and
// then verifies the rebuilt root against the on-ledger account. A skipped
// or out-of-order index silently corrupts every later root, so gaps are
// zero-filled and the final root check is mandatory.

package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
	"github.com/cheng-chun-yuan/zVault-sub005/internal/stealth"
	"github.com/cheng-chun-yuan/zVault-sub005/internal/tree"
)

// TreeSync reads on-ledger tree state and announcements through the
// injected client.
type TreeSync struct {
	client      Client
	programID   Address
	treeAddress Address
	log         zerolog.Logger
}

// NewTreeSync builds a sync handle. Pass zerolog.Nop() to silence logging.
func NewTreeSync(client Client, programID, treeAddress Address, log zerolog.Logger) *TreeSync {
	return &TreeSync{
		client:      client,
		programID:   programID,
		treeAddress: treeAddress,
		log:         log,
	}
}

// FetchTreeState pulls and parses the on-ledger tree account.
func (s *TreeSync) FetchTreeState(ctx context.Context) (*tree.AccountState, error) {
	data, exists, err := s.client.GetAccountData(ctx, s.treeAddress)
	if err != nil {
		return nil, fmt.Errorf("ledger: fetch tree account: %w", err)
	}
	if !exists {
		return nil, &MissingAccountError{Address: s.treeAddress, What: "commitment tree"}
	}
	return tree.ParseAccount(data)
}

// FetchAnnouncements pulls all current-format announcement records for the
// program. Records that fail to parse are logged and skipped; they cannot
// be ours, and aborting a whole scan on one foreign account helps nobody.
func (s *TreeSync) FetchAnnouncements(ctx context.Context) ([]*stealth.Announcement, error) {
	accounts, err := s.client.GetProgramAccounts(ctx, s.programID, []Filter{
		{DataSize: stealth.AnnouncementV2Size},
		{Offset: 0, Bytes: []byte{stealth.AnnouncementV2Discriminator}},
	})
	if err != nil {
		return nil, fmt.Errorf("ledger: fetch announcements: %w", err)
	}
	out := make([]*stealth.Announcement, 0, len(accounts))
	for _, acc := range accounts {
		a, err := stealth.ParseAnnouncement(acc.Data)
		if err != nil {
			s.log.Warn().Str("account", acc.Address.String()).Err(err).Msg("skipping malformed announcement")
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// RebuildTree reconstructs the full local tree from announcements and
// verifies it against the on-ledger root. The hasher must be Ready.
func (s *TreeSync) RebuildTree(ctx context.Context, h *field.Hasher) (*tree.Tree, error) {
	state, err := s.FetchTreeState(ctx)
	if err != nil {
		return nil, err
	}
	anns, err := s.FetchAnnouncements(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]tree.LeafEntry, 0, len(anns))
	for _, a := range anns {
		entries = append(entries, tree.LeafEntry{Index: a.LeafIndex, Commitment: a.Commitment})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })

	deduped := entries[:0]
	for _, e := range entries {
		if n := len(deduped); n > 0 && deduped[n-1].Index == e.Index {
			s.log.Warn().Uint64("leaf_index", e.Index).Msg("duplicate announcement for leaf, keeping first")
			continue
		}
		deduped = append(deduped, e)
	}

	t, err := tree.New(h)
	if err != nil {
		return nil, err
	}
	if err := t.Rebuild(deduped); err != nil {
		return nil, err
	}
	// Announcements only cover stealth insertions; pad to the on-ledger
	// next_index so roots line up even when other paths inserted leaves.
	for t.NextIndex() < state.NextIndex {
		if _, err := t.Insert(field.Element{}); err != nil {
			return nil, err
		}
	}

	if err := tree.SyncCheck(t, state); err != nil {
		return nil, err
	}
	s.log.Info().
		Uint64("leaves", t.NextIndex()).
		Str("root", t.Root().Hex()).
		Msg("rebuilt commitment tree")
	return t, nil
}
