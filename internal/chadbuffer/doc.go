// Package chadbuffer uploads proof blobs that exceed the transaction size
// limit into scratch accounts, 900 bytes at a time.
//
// A buffer account is [authority 32 B][payload]. Chunk writes are keyed by
// absolute payload offset, so a retried write lands on the same bytes and
// the upload is idempotent. Verification before use is mandatory: a buffer
// is attacker-writable storage until its content is compared byte-for-byte
// against the proof the caller holds.
package chadbuffer
