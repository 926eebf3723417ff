// prover.go - External prover interface and the ordered witness encoding.

package prover

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Circuit identifiers, matching the deployed proving artifacts.
const (
	CircuitClaim          = "claim"
	CircuitSplit          = "split"
	CircuitPartialPublic  = "partial_public"
	CircuitPoolDeposit    = "pool_deposit"
	CircuitPoolWithdraw   = "pool_withdraw"
	CircuitPoolYieldClaim = "pool_yield_claim"
)

// Prover generates a proof for one circuit from assembled inputs.
// ProofBytes feed wire.InlineProof or a buffer upload; publicInputs are in
// the circuit's public-signal order and go to the encoders unmodified.
type Prover interface {
	GenerateProof(ctx context.Context, circuitID string, inputs *Inputs) (proofBytes []byte, publicInputs [][32]byte, err error)
}

// Inputs is an ordered set of named witness values. Scalars and arrays are
// decimal field-element strings; insertion order is preserved because some
// proving stacks bind signals positionally.
type Inputs struct {
	entries []inputEntry
}

type inputEntry struct {
	name   string
	scalar string
	list   []string
}

// AddScalar appends one named decimal value.
func (in *Inputs) AddScalar(name, value string) {
	in.entries = append(in.entries, inputEntry{name: name, scalar: value})
}

// AddUint64 appends one named unsigned integer.
func (in *Inputs) AddUint64(name string, v uint64) {
	in.AddScalar(name, fmt.Sprintf("%d", v))
}

// AddList appends one named array of decimal values.
func (in *Inputs) AddList(name string, values []string) {
	in.entries = append(in.entries, inputEntry{name: name, list: values})
}

// AddBits appends a bit array encoded as "0"/"1" strings.
func (in *Inputs) AddBits(name string, bits []bool) {
	out := make([]string, len(bits))
	for i, b := range bits {
		if b {
			out[i] = "1"
		} else {
			out[i] = "0"
		}
	}
	in.AddList(name, out)
}

// Len reports the number of named inputs.
func (in *Inputs) Len() int { return len(in.entries) }

// MarshalJSON renders the inputs as a JSON object in insertion order.
func (in *Inputs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range in.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(e.name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		if e.list != nil {
			val, err := json.Marshal(e.list)
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		} else {
			val, err := json.Marshal(e.scalar)
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
