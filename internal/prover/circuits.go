// circuits.go - Witness assembly per circuit.
//
// Each function fixes the exact named-input order its circuit binds.
// Private signals come first, then the Merkle path, then the public
// signals. A recipient ledger address enters the field by deterministic
// reduction; this is the only place that reduction is allowed.

package prover

import (
	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
	"github.com/cheng-chun-yuan/zVault-sub005/internal/ledger"
	"github.com/cheng-chun-yuan/zVault-sub005/internal/tree"
)

func addMerklePath(in *Inputs, proof *tree.MerkleProof) {
	siblings := make([]string, len(proof.Siblings))
	for i, s := range proof.Siblings {
		siblings[i] = s.String()
	}
	in.AddList("pathElements", siblings)
	in.AddBits("pathIndices", proof.PathBits[:])
}

// ClaimInputs assembles the witness for a full withdrawal: prove knowledge
// of the stealth key behind a leaf and bind the claim to the recipient.
func ClaimInputs(nullifierKey field.Element, amountSats uint64, proof *tree.MerkleProof, nullifierHash field.Element, recipient ledger.Address) *Inputs {
	in := &Inputs{}
	in.AddScalar("privateKey", nullifierKey.String())
	in.AddUint64("leafIndex", proof.LeafIndex)
	addMerklePath(in, proof)
	in.AddScalar("root", proof.Root.String())
	in.AddScalar("nullifierHash", nullifierHash.String())
	in.AddUint64("amount", amountSats)
	in.AddScalar("recipient", field.FromBytesReduce(recipient[:]).String())
	return in
}

// SplitInputs assembles the witness for a 1-in 2-out transfer. Output
// stealth x-coordinates and amounts stay private; only the output
// commitments are public.
func SplitInputs(
	nullifierKey field.Element, inAmount uint64, proof *tree.MerkleProof, nullifierHash field.Element,
	out1PubX field.Element, out1Amount uint64, outCommitment1 field.Element,
	out2PubX field.Element, out2Amount uint64, outCommitment2 field.Element,
) *Inputs {
	in := &Inputs{}
	in.AddScalar("privateKey", nullifierKey.String())
	in.AddUint64("inAmount", inAmount)
	in.AddUint64("leafIndex", proof.LeafIndex)
	addMerklePath(in, proof)
	in.AddScalar("out1PubX", out1PubX.String())
	in.AddUint64("out1Amount", out1Amount)
	in.AddScalar("out2PubX", out2PubX.String())
	in.AddUint64("out2Amount", out2Amount)
	in.AddScalar("root", proof.Root.String())
	in.AddScalar("nullifierHash", nullifierHash.String())
	in.AddScalar("outCommitment1", outCommitment1.String())
	in.AddScalar("outCommitment2", outCommitment2.String())
	return in
}

// PartialPublicInputs assembles the witness for a spend that pays part of
// a note publicly and keeps the change private.
func PartialPublicInputs(
	nullifierKey field.Element, inAmount uint64, proof *tree.MerkleProof, nullifierHash field.Element,
	publicAmount uint64, changePubX field.Element, changeCommitment field.Element, recipient ledger.Address,
) *Inputs {
	in := &Inputs{}
	in.AddScalar("privateKey", nullifierKey.String())
	in.AddUint64("inAmount", inAmount)
	in.AddUint64("leafIndex", proof.LeafIndex)
	addMerklePath(in, proof)
	in.AddScalar("changePubX", changePubX.String())
	in.AddScalar("root", proof.Root.String())
	in.AddScalar("nullifierHash", nullifierHash.String())
	in.AddUint64("publicAmount", publicAmount)
	in.AddScalar("changeCommitment", changeCommitment.String())
	in.AddScalar("recipient", field.FromBytesReduce(recipient[:]).String())
	return in
}

// PoolDepositInputs assembles the witness for moving a note into the yield
// pool at a given epoch.
func PoolDepositInputs(
	nullifierKey field.Element, principal uint64, proof *tree.MerkleProof, inputNullifierHash field.Element,
	poolPubX field.Element, depositEpoch uint64, poolCommitment field.Element,
) *Inputs {
	in := &Inputs{}
	in.AddScalar("privateKey", nullifierKey.String())
	in.AddUint64("leafIndex", proof.LeafIndex)
	addMerklePath(in, proof)
	in.AddScalar("poolPubX", poolPubX.String())
	in.AddUint64("depositEpoch", depositEpoch)
	in.AddScalar("inputNullifierHash", inputNullifierHash.String())
	in.AddScalar("poolCommitment", poolCommitment.String())
	in.AddUint64("principal", principal)
	in.AddScalar("inputRoot", proof.Root.String())
	return in
}

// PoolWithdrawInputs assembles the witness for exiting the pool back into
// the main tree. The Merkle path is against the pool tree.
func PoolWithdrawInputs(
	poolNullifierKey field.Element, proof *tree.MerkleProof, poolNullifierHash field.Element,
	outputPubX field.Element, outputCommitment field.Element, principal, depositEpoch uint64,
) *Inputs {
	in := &Inputs{}
	in.AddScalar("privateKey", poolNullifierKey.String())
	in.AddUint64("leafIndex", proof.LeafIndex)
	addMerklePath(in, proof)
	in.AddScalar("outputPubX", outputPubX.String())
	in.AddScalar("poolNullifierHash", poolNullifierHash.String())
	in.AddScalar("outputCommitment", outputCommitment.String())
	in.AddScalar("poolRoot", proof.Root.String())
	in.AddUint64("principal", principal)
	in.AddUint64("depositEpoch", depositEpoch)
	return in
}

// PoolYieldClaimInputs assembles the witness for rolling accrued yield out
// of a pool position while the principal stays deposited.
func PoolYieldClaimInputs(
	oldNullifierKey field.Element, proof *tree.MerkleProof, oldNullifierHash field.Element,
	newPoolPubX field.Element, newPoolCommitment field.Element,
	yieldPubX field.Element, yieldAmount uint64, yieldCommitment field.Element,
	principal, depositEpoch uint64,
) *Inputs {
	in := &Inputs{}
	in.AddScalar("privateKey", oldNullifierKey.String())
	in.AddUint64("leafIndex", proof.LeafIndex)
	addMerklePath(in, proof)
	in.AddScalar("newPoolPubX", newPoolPubX.String())
	in.AddScalar("yieldPubX", yieldPubX.String())
	in.AddUint64("yieldAmount", yieldAmount)
	in.AddScalar("oldNullifierHash", oldNullifierHash.String())
	in.AddScalar("newPoolCommitment", newPoolCommitment.String())
	in.AddScalar("yieldCommitment", yieldCommitment.String())
	in.AddScalar("poolRoot", proof.Root.String())
	in.AddUint64("principal", principal)
	in.AddUint64("depositEpoch", depositEpoch)
	return in
}
