// element.go - Canonical 32-byte big-endian BN254 scalar field elements.
//
// All protocol values that cross the wire (commitments, nullifiers, roots,
// tree nodes, stealth x-coordinates) are elements of this field. The zero
// value of Element is the field's zero.

package field

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Element is a BN254 scalar field value, stored big-endian.
// Constructors guarantee the canonical invariant value < Modulus().
type Element [32]byte

// ErrNonCanonical reports a 32-byte value that is not a valid field element.
type ErrNonCanonical struct {
	Value [32]byte
}

func (e *ErrNonCanonical) Error() string {
	return fmt.Sprintf("field: value %x not below modulus", e.Value)
}

// Modulus returns a copy of the field modulus r.
func Modulus() *big.Int {
	return fr.Modulus()
}

// FromBytes builds an element from its canonical 32-byte big-endian form.
// Values at or above the modulus are rejected, not reduced.
func FromBytes(b [32]byte) (Element, error) {
	v := new(big.Int).SetBytes(b[:])
	if v.Cmp(fr.Modulus()) >= 0 {
		return Element{}, &ErrNonCanonical{Value: b}
	}
	return Element(b), nil
}

// FromSlice is FromBytes for a slice, rejecting wrong lengths.
func FromSlice(b []byte) (Element, error) {
	if len(b) != 32 {
		return Element{}, fmt.Errorf("field: expected 32 bytes, got %d", len(b))
	}
	var a [32]byte
	copy(a[:], b)
	return FromBytes(a)
}

// FromBytesReduce builds an element from arbitrary bytes, reducing modulo r.
// Used only where the protocol mandates a reduction, e.g. folding a 32-byte
// ledger address into the field before it enters a circuit.
func FromBytesReduce(b []byte) Element {
	v := new(big.Int).SetBytes(b)
	v.Mod(v, fr.Modulus())
	return fromBig(v)
}

// FromUint64 lifts a machine integer into the field.
func FromUint64(v uint64) Element {
	return fromBig(new(big.Int).SetUint64(v))
}

// FromBig builds an element from a non-negative big integer below the modulus.
func FromBig(v *big.Int) (Element, error) {
	if v.Sign() < 0 || v.Cmp(fr.Modulus()) >= 0 {
		var b [32]byte
		v.FillBytes(b[:])
		return Element{}, &ErrNonCanonical{Value: b}
	}
	return fromBig(v), nil
}

func fromBig(v *big.Int) Element {
	var e Element
	v.FillBytes(e[:])
	return e
}

// Bytes returns the canonical 32-byte big-endian form.
func (e Element) Bytes() [32]byte {
	return [32]byte(e)
}

// Big returns the element as a fresh big integer.
func (e Element) Big() *big.Int {
	return new(big.Int).SetBytes(e[:])
}

// IsZero reports whether the element is the field's zero.
func (e Element) IsZero() bool {
	return e == Element{}
}

// Equal reports byte equality; canonical form makes this field equality.
func (e Element) Equal(o Element) bool {
	return e == o
}

// String returns the decimal form used for prover input assembly.
func (e Element) String() string {
	return e.Big().String()
}

// Hex returns the 64-character lowercase hex form used in logs and exports.
func (e Element) Hex() string {
	return hex.EncodeToString(e[:])
}
