// keys.go - Spending (Grumpkin) and viewing (X25519) key material.
//
// Compressed Grumpkin points use the 33-byte SEC1-style form the on-ledger
// program stores: a 0x02/0x03 parity prefix followed by the 32-byte
// big-endian x-coordinate.

package stealth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/grumpkin"
	grumpkinfp "github.com/consensys/gnark-crypto/ecc/grumpkin/fp"
	grumpkinfr "github.com/consensys/gnark-crypto/ecc/grumpkin/fr"
	"golang.org/x/crypto/curve25519"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
)

// CompressedPointSize is the wire size of a compressed Grumpkin point.
const CompressedPointSize = 33

// ViewingKeySize is the wire size of an X25519 key, private or public.
const ViewingKeySize = 32

// ErrInvalidPoint reports a compressed point that does not decode to a
// curve point.
var ErrInvalidPoint = errors.New("stealth: invalid compressed curve point")

// SpendingKey is a Grumpkin scalar with its public point.
type SpendingKey struct {
	Priv grumpkinfr.Element
	Pub  grumpkin.G1Affine
}

// GenerateSpendingKey draws a fresh Grumpkin keypair from crypto/rand.
func GenerateSpendingKey() (*SpendingKey, error) {
	var k SpendingKey
	if _, err := k.Priv.SetRandom(); err != nil {
		return nil, fmt.Errorf("stealth: spending key: %w", err)
	}
	k.Pub = scalarBaseMul(&k.Priv)
	return &k, nil
}

// SpendingKeyFromBytes reconstructs a spending key from its 32-byte
// big-endian scalar. The scalar must be non-zero and below the Grumpkin
// order.
func SpendingKeyFromBytes(b [32]byte) (*SpendingKey, error) {
	s := new(big.Int).SetBytes(b[:])
	if s.Sign() == 0 || s.Cmp(grumpkinfr.Modulus()) >= 0 {
		return nil, errors.New("stealth: spending key scalar out of range")
	}
	var k SpendingKey
	k.Priv.SetBigInt(s)
	k.Pub = scalarBaseMul(&k.Priv)
	return &k, nil
}

// ViewingKey is an X25519 scalar with its public key.
type ViewingKey struct {
	Priv [ViewingKeySize]byte
	Pub  [ViewingKeySize]byte
}

// GenerateViewingKey draws a fresh X25519 keypair from crypto/rand.
func GenerateViewingKey() (*ViewingKey, error) {
	var k ViewingKey
	if _, err := rand.Read(k.Priv[:]); err != nil {
		return nil, fmt.Errorf("stealth: viewing key: %w", err)
	}
	pub, err := curve25519.X25519(k.Priv[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("stealth: viewing key: %w", err)
	}
	copy(k.Pub[:], pub)
	return &k, nil
}

// ViewingKeyFromBytes reconstructs a viewing key from its 32-byte private
// scalar.
func ViewingKeyFromBytes(b [ViewingKeySize]byte) (*ViewingKey, error) {
	var k ViewingKey
	k.Priv = b
	pub, err := curve25519.X25519(k.Priv[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("stealth: viewing key: %w", err)
	}
	copy(k.Pub[:], pub)
	return &k, nil
}

// MetaAddress is the recipient's static published key pair. It never
// changes per transaction; all per-transfer material is ephemeral.
type MetaAddress struct {
	SpendPub grumpkin.G1Affine
	ViewPub  [ViewingKeySize]byte
}

// Bytes returns the 65-byte published form: compressed spend key followed
// by the viewing key.
func (m *MetaAddress) Bytes() [CompressedPointSize + ViewingKeySize]byte {
	var out [CompressedPointSize + ViewingKeySize]byte
	sp := CompressPoint(&m.SpendPub)
	copy(out[:CompressedPointSize], sp[:])
	copy(out[CompressedPointSize:], m.ViewPub[:])
	return out
}

// ParseMetaAddress decodes the 65-byte published form.
func ParseMetaAddress(b []byte) (*MetaAddress, error) {
	if len(b) != CompressedPointSize+ViewingKeySize {
		return nil, fmt.Errorf("stealth: meta-address: expected %d bytes, got %d",
			CompressedPointSize+ViewingKeySize, len(b))
	}
	var m MetaAddress
	var cp [CompressedPointSize]byte
	copy(cp[:], b[:CompressedPointSize])
	pub, err := DecompressPoint(cp)
	if err != nil {
		return nil, err
	}
	m.SpendPub = *pub
	copy(m.ViewPub[:], b[CompressedPointSize:])
	return &m, nil
}

// CompressPoint encodes a Grumpkin point as parity prefix plus big-endian x.
func CompressPoint(p *grumpkin.G1Affine) [CompressedPointSize]byte {
	var out [CompressedPointSize]byte
	x := p.X.Bytes()
	y := p.Y.Bytes()
	out[0] = 0x02 | (y[len(y)-1] & 1)
	copy(out[1:], x[:])
	return out
}

// DecompressPoint decodes the 33-byte form, solving y^2 = x^3 - 17 and
// selecting the root whose parity matches the prefix.
func DecompressPoint(b [CompressedPointSize]byte) (*grumpkin.G1Affine, error) {
	if b[0] != 0x02 && b[0] != 0x03 {
		return nil, ErrInvalidPoint
	}
	xInt := new(big.Int).SetBytes(b[1:])
	if xInt.Cmp(grumpkinfp.Modulus()) >= 0 {
		return nil, ErrInvalidPoint
	}
	var x grumpkinfp.Element
	x.SetBigInt(xInt)

	// y^2 = x^3 + b with b = -17 on Grumpkin.
	var ySq, curveB grumpkinfp.Element
	curveB.SetUint64(17)
	curveB.Neg(&curveB)
	ySq.Square(&x)
	ySq.Mul(&ySq, &x)
	ySq.Add(&ySq, &curveB)

	var y grumpkinfp.Element
	if y.Sqrt(&ySq) == nil {
		return nil, ErrInvalidPoint
	}
	yBytes := y.Bytes()
	if yBytes[len(yBytes)-1]&1 != b[0]&1 {
		y.Neg(&y)
	}

	p := &grumpkin.G1Affine{X: x, Y: y}
	if !p.IsOnCurve() {
		return nil, ErrInvalidPoint
	}
	return p, nil
}

// PointX returns a point's x-coordinate as a hash-field element. Grumpkin's
// base field is the BN254 scalar field, so this is exact, not a reduction.
func PointX(p *grumpkin.G1Affine) field.Element {
	x := p.X.Bytes()
	e, _ := field.FromBytes(x)
	return e
}

func scalarBaseMul(s *grumpkinfr.Element) grumpkin.G1Affine {
	_, g := grumpkin.Generators()
	var p grumpkin.G1Affine
	p.ScalarMultiplication(&g, s.BigInt(new(big.Int)))
	return p
}

func pointAdd(a, b *grumpkin.G1Affine) grumpkin.G1Affine {
	var aj, bj grumpkin.G1Jac
	aj.FromAffine(a)
	bj.FromAffine(b)
	aj.AddAssign(&bj)
	var out grumpkin.G1Affine
	out.FromJacobian(&aj)
	return out
}
