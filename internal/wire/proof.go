// proof.go - Proof delivery union shared by all spend-side encoders.

package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
	"github.com/cheng-chun-yuan/zVault-sub005/internal/ledger"
)

// On-ledger bounds for an inline Groth16 proof blob.
const (
	MinProofSize = 260
	MaxProofSize = 1024
)

// ProofSource is how a spend instruction delivers its proof. The union is
// closed: InlineProof embeds the bytes in the instruction data, BufferedProof
// references a pre-uploaded scratch account instead.
type ProofSource interface {
	proofSource()
}

// InlineProof embeds the proof directly, encoded as
// [proof_len u32 LE][proof bytes] right after the opcode.
type InlineProof struct {
	Bytes []byte
}

func (InlineProof) proofSource() {}

// BufferedProof references a proof already uploaded and verified in a
// scratch buffer account. Only public inputs go into the instruction data;
// the buffer account is appended read-only to the account list.
type BufferedProof struct {
	Handle ledger.Address
}

func (BufferedProof) proofSource() {}

// ProofSizeError reports an inline proof outside the on-ledger bounds.
type ProofSizeError struct {
	Len int
}

func (e *ProofSizeError) Error() string {
	return fmt.Sprintf("wire: inline proof is %d bytes, want %d..%d", e.Len, MinProofSize, MaxProofSize)
}

// ParamError reports a required encoder parameter left at its zero value.
// These are caller-contract violations; nothing is encoded.
type ParamError struct {
	Op    string
	Field string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("wire: %s: required field %s is zero", e.Op, e.Field)
}

// writeProof appends the proof block for an inline source, or returns the
// buffer account to append for a buffered one.
func writeProof(op string, buf *bytes.Buffer, src ProofSource) (*ledger.AccountMeta, error) {
	switch p := src.(type) {
	case InlineProof:
		if len(p.Bytes) < MinProofSize || len(p.Bytes) > MaxProofSize {
			return nil, &ProofSizeError{Len: len(p.Bytes)}
		}
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(len(p.Bytes)))
		buf.Write(n[:])
		buf.Write(p.Bytes)
		return nil, nil
	case BufferedProof:
		if p.Handle.IsZero() {
			return nil, &ParamError{Op: op, Field: "proof buffer handle"}
		}
		return &ledger.AccountMeta{Address: p.Handle}, nil
	case nil:
		return nil, &ParamError{Op: op, Field: "proof"}
	default:
		return nil, fmt.Errorf("wire: %s: unknown proof source %T", op, src)
	}
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeElement(buf *bytes.Buffer, e field.Element) {
	b := e.Bytes()
	buf.Write(b[:])
}
