// Package prover defines the boundary to an external proof generator and
// the per-circuit witness assembly.
//
// Proving itself happens out of process (a snarkjs worker, a proving
// service); this package only fixes the contract: which named inputs each
// circuit takes, in what order, and in the decimal-string field encoding
// snark tooling expects. Public inputs returned by the prover are handed
// to the wire encoders untouched.
package prover
