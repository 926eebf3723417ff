// Package field provides the scalar-field and hash primitives shared by the
// whole client core.
//
// Overview:
//   - Element is a BN254 scalar field value in its canonical 32-byte
//     big-endian wire form; every commitment, nullifier and tree node is one
//   - Hasher is a circom-parameterized Poseidon engine over the same field,
//     reproducing the on-ledger hash syscall bit-for-bit
//   - A Hasher starts uninitialized and must be moved to Ready through
//     Initialize() before any hashing; initialization is idempotent
//
// The hash parameterization is load-bearing: a single divergence from the
// on-ledger program silently invalidates every Merkle root and proof built
// on top of it, so Initialize() self-checks against a known test vector.
package field
