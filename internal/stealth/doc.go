// Package stealth implements the dual-key stealth address scheme.
//
// Overview:
//   - Spending keys live on the Grumpkin curve, whose base field is the
//     BN254 scalar field, so stealth public key x-coordinates feed the
//     Poseidon commitment hash directly
//   - Viewing keys live on X25519 for cheap off-ledger scanning; the
//     viewing key can detect and value a position but cannot spend it
//   - A sender derives a one-time stealth key from the recipient's
//     meta-address and fresh ephemerals; the recipient re-derives it from
//     the announcement with the viewing key alone, and derives the
//     matching private key with the spending key when claiming
//
// Derivation:
//
//	shared     = X25519(viewingPriv, ephemeralViewPub)
//	t          = Poseidon(sharedLo, sharedHi, domainTag)
//	stealthPub = spendingPub + t*G
//	stealthPriv = spendingPriv + t  (mod Grumpkin order)
//
// The domain tag is fixed and unique to this derivation; no other Poseidon
// use in the protocol shares it.
package stealth
