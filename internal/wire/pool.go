// pool.go - Encoders for the yield-pool family: deposit, withdraw and
// yield claim.

package wire

import (
	"bytes"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
	"github.com/cheng-chun-yuan/zVault-sub005/internal/ledger"
)

// PoolAccounts is the on-ledger account table shared by the pool family.
// Both trees are listed even when an operation only reads one; the program
// re-checks roles itself.
type PoolAccounts struct {
	PoolState       ledger.Address
	CommitmentTree  ledger.Address
	PoolTree        ledger.Address
	NullifierRecord ledger.Address
	Payer           ledger.Address
	SystemProgram   ledger.Address
}

func poolAccountList(a *PoolAccounts, bufferAcc *ledger.AccountMeta) []ledger.AccountMeta {
	accounts := []ledger.AccountMeta{
		{Address: a.PoolState, Writable: true},
		{Address: a.CommitmentTree, Writable: true},
		{Address: a.PoolTree, Writable: true},
		{Address: a.NullifierRecord, Writable: true},
		{Address: a.Payer, Signer: true, Writable: true},
		{Address: a.SystemProgram},
	}
	if bufferAcc != nil {
		accounts = append(accounts, *bufferAcc)
	}
	return accounts
}

// PoolDepositParams moves a spendable note into the yield pool: the input
// note is nullified against InputRoot and PoolCommitment enters the pool
// tree carrying the principal and the deposit epoch.
type PoolDepositParams struct {
	Proof              ProofSource
	InputNullifierHash field.Element
	PoolCommitment     field.Element
	Principal          uint64
	InputRoot          field.Element
	Accounts           PoolAccounts
}

// EncodePoolDeposit builds the pool-deposit instruction. Data layout after
// the opcode (and proof block): inputNullifierHash 32 | poolCommitment 32 |
// principal u64 LE | inputRoot 32.
func EncodePoolDeposit(programID ledger.Address, p *PoolDepositParams) (*ledger.Instruction, error) {
	const op = "pool-deposit"
	if p.InputNullifierHash.IsZero() {
		return nil, &ParamError{Op: op, Field: "inputNullifierHash"}
	}
	if p.PoolCommitment.IsZero() {
		return nil, &ParamError{Op: op, Field: "poolCommitment"}
	}
	if p.Principal == 0 {
		return nil, &ParamError{Op: op, Field: "principal"}
	}
	if p.InputRoot.IsZero() {
		return nil, &ParamError{Op: op, Field: "inputRoot"}
	}

	var buf bytes.Buffer
	buf.WriteByte(OpPoolDeposit)
	bufferAcc, err := writeProof(op, &buf, p.Proof)
	if err != nil {
		return nil, err
	}
	writeElement(&buf, p.InputNullifierHash)
	writeElement(&buf, p.PoolCommitment)
	writeU64(&buf, p.Principal)
	writeElement(&buf, p.InputRoot)

	return &ledger.Instruction{
		ProgramID: programID,
		Accounts:  poolAccountList(&p.Accounts, bufferAcc),
		Data:      buf.Bytes(),
	}, nil
}

// PoolWithdrawParams exits the pool: the pool note is nullified against
// PoolRoot and the principal returns to the main tree as OutputCommitment.
type PoolWithdrawParams struct {
	Proof             ProofSource
	PoolNullifierHash field.Element
	OutputCommitment  field.Element
	PoolRoot          field.Element
	Principal         uint64
	DepositEpoch      uint64
	Accounts          PoolAccounts
}

// EncodePoolWithdraw builds the pool-withdraw instruction. Data layout
// after the opcode (and proof block): poolNullifierHash 32 |
// outputCommitment 32 | poolRoot 32 | principal u64 LE |
// depositEpoch u64 LE.
func EncodePoolWithdraw(programID ledger.Address, p *PoolWithdrawParams) (*ledger.Instruction, error) {
	const op = "pool-withdraw"
	if p.PoolNullifierHash.IsZero() {
		return nil, &ParamError{Op: op, Field: "poolNullifierHash"}
	}
	if p.OutputCommitment.IsZero() {
		return nil, &ParamError{Op: op, Field: "outputCommitment"}
	}
	if p.PoolRoot.IsZero() {
		return nil, &ParamError{Op: op, Field: "poolRoot"}
	}
	if p.Principal == 0 {
		return nil, &ParamError{Op: op, Field: "principal"}
	}

	var buf bytes.Buffer
	buf.WriteByte(OpPoolWithdraw)
	bufferAcc, err := writeProof(op, &buf, p.Proof)
	if err != nil {
		return nil, err
	}
	writeElement(&buf, p.PoolNullifierHash)
	writeElement(&buf, p.OutputCommitment)
	writeElement(&buf, p.PoolRoot)
	writeU64(&buf, p.Principal)
	writeU64(&buf, p.DepositEpoch)

	return &ledger.Instruction{
		ProgramID: programID,
		Accounts:  poolAccountList(&p.Accounts, bufferAcc),
		Data:      buf.Bytes(),
	}, nil
}

// PoolYieldClaimParams rolls accrued yield out of a pool position without
// exiting: the old pool note is replaced by NewPoolCommitment at the same
// principal, and the yield lands in the main tree as YieldCommitment.
type PoolYieldClaimParams struct {
	Proof             ProofSource
	OldNullifierHash  field.Element
	NewPoolCommitment field.Element
	YieldCommitment   field.Element
	PoolRoot          field.Element
	Principal         uint64
	DepositEpoch      uint64
	Accounts          PoolAccounts
}

// EncodePoolYieldClaim builds the pool-yield-claim instruction. Data layout
// after the opcode (and proof block): oldNullifierHash 32 |
// newPoolCommitment 32 | yieldCommitment 32 | poolRoot 32 |
// principal u64 LE | depositEpoch u64 LE.
func EncodePoolYieldClaim(programID ledger.Address, p *PoolYieldClaimParams) (*ledger.Instruction, error) {
	const op = "pool-yield-claim"
	if p.OldNullifierHash.IsZero() {
		return nil, &ParamError{Op: op, Field: "oldNullifierHash"}
	}
	if p.NewPoolCommitment.IsZero() {
		return nil, &ParamError{Op: op, Field: "newPoolCommitment"}
	}
	if p.YieldCommitment.IsZero() {
		return nil, &ParamError{Op: op, Field: "yieldCommitment"}
	}
	if p.PoolRoot.IsZero() {
		return nil, &ParamError{Op: op, Field: "poolRoot"}
	}
	if p.Principal == 0 {
		return nil, &ParamError{Op: op, Field: "principal"}
	}

	var buf bytes.Buffer
	buf.WriteByte(OpPoolYieldClaim)
	bufferAcc, err := writeProof(op, &buf, p.Proof)
	if err != nil {
		return nil, err
	}
	writeElement(&buf, p.OldNullifierHash)
	writeElement(&buf, p.NewPoolCommitment)
	writeElement(&buf, p.YieldCommitment)
	writeElement(&buf, p.PoolRoot)
	writeU64(&buf, p.Principal)
	writeU64(&buf, p.DepositEpoch)

	return &ledger.Instruction{
		ProgramID: programID,
		Accounts:  poolAccountList(&p.Accounts, bufferAcc),
		Data:      buf.Bytes(),
	}, nil
}
