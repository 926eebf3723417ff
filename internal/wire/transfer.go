// transfer.go - Encoders for the transfer family: claim, split and
// partial-public spend.

package wire

import (
	"bytes"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
	"github.com/cheng-chun-yuan/zVault-sub005/internal/ledger"
)

// ClaimAccounts is the on-ledger account table for a claim, in program
// order.
type ClaimAccounts struct {
	PoolState       ledger.Address
	CommitmentTree  ledger.Address
	NullifierRecord ledger.Address
	Mint            ledger.Address
	RecipientToken  ledger.Address
	Payer           ledger.Address
	TokenProgram    ledger.Address
	SystemProgram   ledger.Address
}

// ClaimParams carries the public inputs of a full withdrawal to a public
// recipient. Root, NullifierHash and VkHash come back from the prover and
// are passed through untouched.
type ClaimParams struct {
	Proof         ProofSource
	Root          field.Element
	NullifierHash field.Element
	AmountSats    uint64
	Recipient     ledger.Address
	VkHash        [32]byte
	Accounts      ClaimAccounts
}

// EncodeClaim builds the claim instruction. Data layout after the opcode
// (and proof block, inline mode): root 32 | nullifierHash 32 |
// amount u64 LE | recipient 32 | vkHash 32.
func EncodeClaim(programID ledger.Address, p *ClaimParams) (*ledger.Instruction, error) {
	const op = "claim"
	if p.Root.IsZero() {
		return nil, &ParamError{Op: op, Field: "root"}
	}
	if p.NullifierHash.IsZero() {
		return nil, &ParamError{Op: op, Field: "nullifierHash"}
	}
	if p.AmountSats == 0 {
		return nil, &ParamError{Op: op, Field: "amountSats"}
	}
	if p.Recipient.IsZero() {
		return nil, &ParamError{Op: op, Field: "recipient"}
	}

	var buf bytes.Buffer
	buf.WriteByte(OpClaim)
	bufferAcc, err := writeProof(op, &buf, p.Proof)
	if err != nil {
		return nil, err
	}
	writeElement(&buf, p.Root)
	writeElement(&buf, p.NullifierHash)
	writeU64(&buf, p.AmountSats)
	buf.Write(p.Recipient[:])
	buf.Write(p.VkHash[:])

	accounts := []ledger.AccountMeta{
		{Address: p.Accounts.PoolState, Writable: true},
		{Address: p.Accounts.CommitmentTree},
		{Address: p.Accounts.NullifierRecord, Writable: true},
		{Address: p.Accounts.Mint, Writable: true},
		{Address: p.Accounts.RecipientToken, Writable: true},
		{Address: p.Accounts.Payer, Signer: true, Writable: true},
		{Address: p.Accounts.TokenProgram},
		{Address: p.Accounts.SystemProgram},
	}
	if bufferAcc != nil {
		accounts = append(accounts, *bufferAcc)
	}
	return &ledger.Instruction{ProgramID: programID, Accounts: accounts, Data: buf.Bytes()}, nil
}

// SplitAccounts is the on-ledger account table for a split.
type SplitAccounts struct {
	PoolState       ledger.Address
	CommitmentTree  ledger.Address
	NullifierRecord ledger.Address
	Payer           ledger.Address
	SystemProgram   ledger.Address
}

// SplitParams carries the public inputs of a 1-in 2-out private transfer.
// The encrypted output metadata (ephemeral pubkey x-coordinates and
// amount ciphertexts) rides along so recipients can decrypt off-chain.
type SplitParams struct {
	Proof                 ProofSource
	Root                  field.Element
	NullifierHash         field.Element
	OutCommitment1        field.Element
	OutCommitment2        field.Element
	VkHash                [32]byte
	Out1EphPubX           field.Element
	Out1EncAmountWithSign [32]byte
	Out2EphPubX           field.Element
	Out2EncAmountWithSign [32]byte
	Accounts              SplitAccounts
}

// EncodeSplit builds the split instruction. Data layout after the opcode
// (and proof block): nine 32-byte values in declaration order.
func EncodeSplit(programID ledger.Address, p *SplitParams) (*ledger.Instruction, error) {
	const op = "split"
	if p.Root.IsZero() {
		return nil, &ParamError{Op: op, Field: "root"}
	}
	if p.NullifierHash.IsZero() {
		return nil, &ParamError{Op: op, Field: "nullifierHash"}
	}
	if p.OutCommitment1.IsZero() {
		return nil, &ParamError{Op: op, Field: "outCommitment1"}
	}
	if p.OutCommitment2.IsZero() {
		return nil, &ParamError{Op: op, Field: "outCommitment2"}
	}

	var buf bytes.Buffer
	buf.WriteByte(OpSplit)
	bufferAcc, err := writeProof(op, &buf, p.Proof)
	if err != nil {
		return nil, err
	}
	writeElement(&buf, p.Root)
	writeElement(&buf, p.NullifierHash)
	writeElement(&buf, p.OutCommitment1)
	writeElement(&buf, p.OutCommitment2)
	buf.Write(p.VkHash[:])
	writeElement(&buf, p.Out1EphPubX)
	buf.Write(p.Out1EncAmountWithSign[:])
	writeElement(&buf, p.Out2EphPubX)
	buf.Write(p.Out2EncAmountWithSign[:])

	accounts := []ledger.AccountMeta{
		{Address: p.Accounts.PoolState, Writable: true},
		{Address: p.Accounts.CommitmentTree, Writable: true},
		{Address: p.Accounts.NullifierRecord, Writable: true},
		{Address: p.Accounts.Payer, Signer: true, Writable: true},
		{Address: p.Accounts.SystemProgram},
	}
	if bufferAcc != nil {
		accounts = append(accounts, *bufferAcc)
	}
	return &ledger.Instruction{ProgramID: programID, Accounts: accounts, Data: buf.Bytes()}, nil
}

// PartialPublicAccounts is the on-ledger account table for a
// partial-public spend.
type PartialPublicAccounts struct {
	PoolState       ledger.Address
	CommitmentTree  ledger.Address
	NullifierRecord ledger.Address
	Mint            ledger.Address
	RecipientToken  ledger.Address
	Payer           ledger.Address
	TokenProgram    ledger.Address
	SystemProgram   ledger.Address
}

// PartialPublicParams carries the public inputs of a spend that pays
// PublicAmount to a public recipient and returns the remainder as a fresh
// private change commitment.
type PartialPublicParams struct {
	Proof                   ProofSource
	Root                    field.Element
	NullifierHash           field.Element
	PublicAmount            uint64
	ChangeCommitment        field.Element
	Recipient               ledger.Address
	VkHash                  [32]byte
	ChangeEphPubX           field.Element
	ChangeEncAmountWithSign [32]byte
	Accounts                PartialPublicAccounts
}

// EncodePartialPublicSpend builds the partial-public-spend instruction.
// Data layout after the opcode (and proof block): root 32 |
// nullifierHash 32 | publicAmount u64 LE | changeCommitment 32 |
// recipient 32 | vkHash 32 | changeEphPubX 32 | changeEncAmountWithSign 32.
func EncodePartialPublicSpend(programID ledger.Address, p *PartialPublicParams) (*ledger.Instruction, error) {
	const op = "partial-public-spend"
	if p.Root.IsZero() {
		return nil, &ParamError{Op: op, Field: "root"}
	}
	if p.NullifierHash.IsZero() {
		return nil, &ParamError{Op: op, Field: "nullifierHash"}
	}
	if p.PublicAmount == 0 {
		return nil, &ParamError{Op: op, Field: "publicAmount"}
	}
	if p.ChangeCommitment.IsZero() {
		return nil, &ParamError{Op: op, Field: "changeCommitment"}
	}
	if p.Recipient.IsZero() {
		return nil, &ParamError{Op: op, Field: "recipient"}
	}

	var buf bytes.Buffer
	buf.WriteByte(OpPartialPublicSpend)
	bufferAcc, err := writeProof(op, &buf, p.Proof)
	if err != nil {
		return nil, err
	}
	writeElement(&buf, p.Root)
	writeElement(&buf, p.NullifierHash)
	writeU64(&buf, p.PublicAmount)
	writeElement(&buf, p.ChangeCommitment)
	buf.Write(p.Recipient[:])
	buf.Write(p.VkHash[:])
	writeElement(&buf, p.ChangeEphPubX)
	buf.Write(p.ChangeEncAmountWithSign[:])

	accounts := []ledger.AccountMeta{
		{Address: p.Accounts.PoolState, Writable: true},
		{Address: p.Accounts.CommitmentTree, Writable: true},
		{Address: p.Accounts.NullifierRecord, Writable: true},
		{Address: p.Accounts.Mint, Writable: true},
		{Address: p.Accounts.RecipientToken, Writable: true},
		{Address: p.Accounts.Payer, Signer: true, Writable: true},
		{Address: p.Accounts.TokenProgram},
		{Address: p.Accounts.SystemProgram},
	}
	if bufferAcc != nil {
		accounts = append(accounts, *bufferAcc)
	}
	return &ledger.Instruction{ProgramID: programID, Accounts: accounts, Data: buf.Bytes()}, nil
}
