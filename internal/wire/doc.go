// Package wire encodes protocol operations into the exact byte layouts the
// on-ledger program parses.
//
// Conventions (shared with the program, bit-for-bit):
//   - first byte is the opcode
//   - multi-byte integers are little-endian
//   - field elements and hashes are 32-byte big-endian
//   - compressed curve points are 33 bytes
//
// Proof delivery is a closed union: an InlineProof is embedded as
// [proof_len u32 LE][proof bytes] right after the opcode, a BufferedProof
// was pre-uploaded to a scratch account and only its account joins the
// instruction's account list. Encoders never reorder, pad or reduce public
// inputs; the one sanctioned reduction (ledger address into the hash field)
// happens in prover input assembly, not here.
package wire
