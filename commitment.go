package commitsig

import (
	"fmt"
)

// Commitment is a homomorphic Pedersen commitment, semantically
// value*H + blinding*G over the factory's generator set. Commitments add:
// Commit(v1, k1) + Commit(v2, k2) opens to (v1+v2, k1+k2).
type Commitment struct {
	curve Curve
	point Point
}

// CommitmentFromBytes decodes a commitment received over the wire. The
// identity element is accepted: sums of commitments can legitimately
// cancel to zero in balance checks.
func CommitmentFromBytes(curve Curve, data []byte) (*Commitment, error) {
	point, err := curve.PointFromBytes(data)
	if err != nil {
		return nil, err
	}
	return &Commitment{curve: curve, point: point}, nil
}

// Point returns the underlying group element.
func (c *Commitment) Point() Point {
	return c.point
}

// Bytes returns the canonical point encoding.
func (c *Commitment) Bytes() []byte {
	return c.point.Bytes()
}

// Equal compares two commitments in constant time.
func (c *Commitment) Equal(other *Commitment) bool {
	if c == nil || other == nil {
		return false
	}
	return SecureCompare(c.point.Bytes(), other.point.Bytes())
}

// Add returns the homomorphic sum of two commitments.
func (c *Commitment) Add(other *Commitment) *Commitment {
	return &Commitment{curve: c.curve, point: c.point.Add(other.point)}
}

// Sub returns the homomorphic difference of two commitments.
func (c *Commitment) Sub(other *Commitment) *Commitment {
	return &Commitment{curve: c.curve, point: c.point.Sub(other.point)}
}

func (c *Commitment) String() string {
	return c.point.String()
}

// CommitmentFactory produces and verifies Pedersen commitments over a
// fixed degree-zero generator pair (G, H).
type CommitmentFactory struct {
	gens *GeneratorSet
}

// NewCommitmentFactory creates a factory over the given generator set,
// which must be of extension degree zero.
func NewCommitmentFactory(gens *GeneratorSet) (*CommitmentFactory, error) {
	if gens == nil {
		return nil, fmt.Errorf("generator set cannot be nil")
	}
	if gens.ExtensionDegree() != 0 {
		return nil, fmt.Errorf("commitment factory requires extension degree zero, got %d", gens.ExtensionDegree())
	}
	return &CommitmentFactory{gens: gens}, nil
}

// Generators returns the factory's fixed generator set.
func (f *CommitmentFactory) Generators() *GeneratorSet {
	return f.gens
}

// Commit computes value*H + blinding*G.
func (f *CommitmentFactory) Commit(value, blinding Scalar) (*Commitment, error) {
	if value == nil || blinding == nil {
		return nil, fmt.Errorf("value and blinding scalars cannot be nil")
	}

	point := f.gens.H().Mul(value).Add(f.gens.G().Mul(blinding))
	return &Commitment{curve: f.gens.curve, point: point}, nil
}

// CommitValue commits to a 64-bit integer value.
func (f *CommitmentFactory) CommitValue(value uint64, blinding Scalar) (*Commitment, error) {
	return f.Commit(f.gens.curve.ScalarFromUint64(value), blinding)
}

// CommitZero commits to the value zero, yielding a pure blinding
// commitment blinding*G. Used for nonce commitments elsewhere.
func (f *CommitmentFactory) CommitZero(blinding Scalar) (*Commitment, error) {
	return f.Commit(f.gens.curve.ScalarZero(), blinding)
}

// Open recomputes the commitment for the claimed opening and compares in
// constant time.
func (f *CommitmentFactory) Open(c *Commitment, value, blinding Scalar) bool {
	if c == nil {
		return false
	}
	expected, err := f.Commit(value, blinding)
	if err != nil {
		return false
	}
	return c.Equal(expected)
}

// OpenValue opens a commitment to a 64-bit integer value.
func (f *CommitmentFactory) OpenValue(c *Commitment, value uint64, blinding Scalar) bool {
	return f.Open(c, f.gens.curve.ScalarFromUint64(value), blinding)
}

// ExtendedCommitmentFactory produces Pedersen commitments with multiple
// blinding factors: value*H + sum(k_i * G_i). At extension degree zero it
// coincides with CommitmentFactory. Homomorphism with a public key only
// holds at degree zero.
type ExtendedCommitmentFactory struct {
	gens *GeneratorSet
}

// NewExtendedCommitmentFactory creates a factory over the given generator
// set of any supported extension degree.
func NewExtendedCommitmentFactory(gens *GeneratorSet) (*ExtendedCommitmentFactory, error) {
	if gens == nil {
		return nil, fmt.Errorf("generator set cannot be nil")
	}
	return &ExtendedCommitmentFactory{gens: gens}, nil
}

// Generators returns the factory's fixed generator set.
func (f *ExtendedCommitmentFactory) Generators() *GeneratorSet {
	return f.gens
}

// Commit computes value*H + sum(blindings[i] * G_i). The number of
// blinding factors must equal the extension degree plus one.
func (f *ExtendedCommitmentFactory) Commit(value Scalar, blindings []Scalar) (*Commitment, error) {
	if value == nil {
		return nil, fmt.Errorf("value scalar cannot be nil")
	}
	if len(blindings) != f.gens.ExtensionDegree()+1 {
		return nil, fmt.Errorf("expected %d blinding factors, got %d", f.gens.ExtensionDegree()+1, len(blindings))
	}

	point := f.gens.H().Mul(value)
	for i, k := range blindings {
		if k == nil {
			return nil, fmt.Errorf("blinding factor %d cannot be nil", i)
		}
		point = point.Add(f.gens.BlindingGenerator(i).Mul(k))
	}

	return &Commitment{curve: f.gens.curve, point: point}, nil
}

// CommitValue commits to a 64-bit integer value.
func (f *ExtendedCommitmentFactory) CommitValue(value uint64, blindings []Scalar) (*Commitment, error) {
	return f.Commit(f.gens.curve.ScalarFromUint64(value), blindings)
}

// Zero returns the commitment to value zero under all-zero blindings,
// the group identity.
func (f *ExtendedCommitmentFactory) Zero() *Commitment {
	return &Commitment{curve: f.gens.curve, point: f.gens.curve.PointIdentity()}
}

// Open recomputes the commitment for the claimed opening and compares in
// constant time.
func (f *ExtendedCommitmentFactory) Open(c *Commitment, value Scalar, blindings []Scalar) bool {
	if c == nil {
		return false
	}
	expected, err := f.Commit(value, blindings)
	if err != nil {
		return false
	}
	return c.Equal(expected)
}

// OpenValue opens a commitment to a 64-bit integer value.
func (f *ExtendedCommitmentFactory) OpenValue(c *Commitment, value uint64, blindings []Scalar) bool {
	return f.Open(c, f.gens.curve.ScalarFromUint64(value), blindings)
}
