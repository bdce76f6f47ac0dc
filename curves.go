package commitsig

import (
	"fmt"
	"io"
)

// Curve defines the prime-order group operations the protocol layer is
// built on. Implementations wrap a concrete elliptic-curve library and
// are responsible for canonical encoding and validation.
type Curve interface {
	// Metadata
	Name() string
	ScalarSize() int
	PointSize() int

	// Scalar operations
	ScalarFromBytes([]byte) (Scalar, error)
	ScalarFromUniformBytes([]byte) (Scalar, error)
	ScalarFromUint64(uint64) Scalar
	ScalarRandom(random io.Reader) (Scalar, error)
	ScalarZero() Scalar
	ScalarOne() Scalar

	// Point operations
	PointFromBytes([]byte) (Point, error)
	BasePoint() Point
	PointIdentity() Point
}

// Scalar represents an integer modulo the group order. Values are always
// held reduced; Bytes returns the canonical fixed-width encoding.
type Scalar interface {
	Bytes() []byte
	String() string

	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Mul(Scalar) Scalar
	Negate() Scalar
	Invert() (Scalar, error)

	Equal(Scalar) bool
	IsZero() bool

	// Zeroize wipes the scalar value. Required on every exit path for
	// scalars holding secret material.
	Zeroize()
}

// Point represents a group element. Bytes returns the canonical
// compressed encoding; decoding non-canonical bytes fails.
type Point interface {
	Bytes() []byte
	String() string

	Add(Point) Point
	Sub(Point) Point
	Mul(Scalar) Point
	Negate() Point

	// ClearCofactor maps the point into the prime-order subgroup. A
	// no-op on curves with cofactor one.
	ClearCofactor() Point

	Equal(Point) bool
	IsIdentity() bool
}

// CurveType selects a concrete group implementation.
type CurveType string

const (
	Ed25519   CurveType = "ed25519"
	Secp256k1 CurveType = "secp256k1"
)

// NewCurve creates a curve instance for the given type. Ed25519 is the
// constant-time default; secp256k1 is provided for chains that require it.
func NewCurve(curveType CurveType) (Curve, error) {
	switch curveType {
	case Ed25519:
		return NewEd25519Curve(), nil
	case Secp256k1:
		return NewSecp256k1Curve(), nil
	default:
		return nil, fmt.Errorf("unsupported curve type: %s", curveType)
	}
}

// NonIdentityPointFromBytes decodes a point and rejects the identity
// element. Used wherever the protocol requires a non-trivial point, such
// as public keys and nonce commitments received over the wire.
func NonIdentityPointFromBytes(curve Curve, data []byte) (Point, error) {
	p, err := curve.PointFromBytes(data)
	if err != nil {
		return nil, err
	}
	if p.IsIdentity() {
		return nil, ErrIdentityRejected
	}
	return p, nil
}
