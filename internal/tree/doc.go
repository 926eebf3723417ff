// Package tree implements the client-side mirror of the on-ledger
// commitment tree.
//
// Overview:
//   - Append-only incremental Merkle tree of fixed depth 20 (frontier
//     algorithm), producing bit-identical roots to the on-ledger program
//     for the same insertion sequence
//   - Retains the full leaf list, so Merkle proofs for any inserted
//     commitment are rebuilt on demand without storing 2^20 nodes
//   - Keeps the last 100 roots so proofs generated against a slightly
//     stale root remain acceptable
//   - Parses the on-ledger tree account layout defensively and checks a
//     local tree against it
//
// A Tree is caller-owned explicit state: no process-wide singleton, and
// Export/Import round-trips the full reconstruction state.
package tree
