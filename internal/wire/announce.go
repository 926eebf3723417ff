// announce.go - Encoders for publishing stealth announcements.

package wire

import (
	"bytes"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
	"github.com/cheng-chun-yuan/zVault-sub005/internal/ledger"
	"github.com/cheng-chun-yuan/zVault-sub005/internal/stealth"
)

// AnnounceAccounts is the account table for both announcement variants.
// The announcement address is a PDA the program derives; the caller derives
// it the same way and passes it in.
type AnnounceAccounts struct {
	Announcement  ledger.Address
	Payer         ledger.Address
	SystemProgram ledger.Address
}

// AnnounceStealthV2Params publishes a dual-key announcement. Leaf index and
// creation time are assigned on-ledger and are not part of the instruction.
type AnnounceStealthV2Params struct {
	EphViewPub  [stealth.ViewingKeySize]byte
	EphSpendPub [stealth.CompressedPointSize]byte
	AmountSats  uint64
	Commitment  field.Element
	Accounts    AnnounceAccounts
}

// EncodeAnnounceStealthV2 builds the current-format announcement
// instruction. Data layout after the opcode: ephViewPub 32 |
// ephSpendPub 33 | amount u64 LE | commitment 32.
func EncodeAnnounceStealthV2(programID ledger.Address, p *AnnounceStealthV2Params) (*ledger.Instruction, error) {
	const op = "announce-stealth-v2"
	if p.AmountSats == 0 {
		return nil, &ParamError{Op: op, Field: "amountSats"}
	}
	if p.Commitment.IsZero() {
		return nil, &ParamError{Op: op, Field: "commitment"}
	}

	var buf bytes.Buffer
	buf.WriteByte(OpAnnounceStealthV2)
	buf.Write(p.EphViewPub[:])
	buf.Write(p.EphSpendPub[:])
	writeU64(&buf, p.AmountSats)
	writeElement(&buf, p.Commitment)

	return &ledger.Instruction{
		ProgramID: programID,
		Accounts:  announceAccountList(&p.Accounts),
		Data:      buf.Bytes(),
	}, nil
}

// AnnounceStealthV1Params publishes a deprecated single-key announcement.
// Kept for interoperating with pre-migration deployments; new code should
// use the V2 form.
type AnnounceStealthV1Params struct {
	EphSpendPub [stealth.CompressedPointSize]byte
	AmountSats  uint64
	Accounts    AnnounceAccounts
}

// EncodeAnnounceStealthV1 builds the legacy announcement instruction.
// Data layout after the opcode: ephSpendPub 33 | amount u64 LE.
func EncodeAnnounceStealthV1(programID ledger.Address, p *AnnounceStealthV1Params) (*ledger.Instruction, error) {
	const op = "announce-stealth"
	if p.AmountSats == 0 {
		return nil, &ParamError{Op: op, Field: "amountSats"}
	}

	var buf bytes.Buffer
	buf.WriteByte(OpAnnounceStealth)
	buf.Write(p.EphSpendPub[:])
	writeU64(&buf, p.AmountSats)

	return &ledger.Instruction{
		ProgramID: programID,
		Accounts:  announceAccountList(&p.Accounts),
		Data:      buf.Bytes(),
	}, nil
}

func announceAccountList(a *AnnounceAccounts) []ledger.AccountMeta {
	return []ledger.AccountMeta{
		{Address: a.Announcement, Writable: true},
		{Address: a.Payer, Signer: true, Writable: true},
		{Address: a.SystemProgram},
	}
}
