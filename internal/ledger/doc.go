// Package ledger defines the capability boundary to the on-ledger RPC
// client and the sync path that mirrors on-ledger state locally.
//
// The core never talks to a network itself: callers inject a Client, and
// everything here is expressed against that interface. Account bytes coming
// back are parsed defensively; a wrong length or discriminator aborts with
// a typed error instead of guessing.
package ledger
