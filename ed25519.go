package commitsig

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"runtime"

	"filippo.io/edwards25519"
)

// Ed25519Curve implements the Curve interface over the edwards25519
// group. All scalar and point operations in the underlying library are
// constant time, which makes this the default group for secret material.
type Ed25519Curve struct{}

// NewEd25519Curve creates a new Ed25519 curve instance
func NewEd25519Curve() *Ed25519Curve {
	return &Ed25519Curve{}
}

func (c *Ed25519Curve) Name() string    { return "ed25519" }
func (c *Ed25519Curve) ScalarSize() int { return 32 }
func (c *Ed25519Curve) PointSize() int  { return 32 }

func (c *Ed25519Curve) ScalarFromBytes(data []byte) (Scalar, error) {
	if len(data) != 32 {
		return nil, ErrInvalidScalarLength
	}

	scalar, err := new(edwards25519.Scalar).SetCanonicalBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: non-canonical scalar: %v", ErrInvalidEncoding, err)
	}

	return newEd25519Scalar(scalar), nil
}

// ScalarFromUniformBytes reduces at least 64 uniformly random bytes
// modulo the group order. Wide reduction keeps the result unbiased.
func (c *Ed25519Curve) ScalarFromUniformBytes(data []byte) (Scalar, error) {
	if len(data) < 64 {
		return nil, fmt.Errorf("%w: need 64 uniform bytes, got %d", ErrInvalidEncoding, len(data))
	}

	scalar, err := edwards25519.NewScalar().SetUniformBytes(data[:64])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return newEd25519Scalar(scalar), nil
}

func (c *Ed25519Curve) ScalarFromUint64(v uint64) Scalar {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[:8], v)
	scalar, _ := edwards25519.NewScalar().SetCanonicalBytes(buf[:])
	return newEd25519Scalar(scalar)
}

func (c *Ed25519Curve) ScalarRandom(random io.Reader) (Scalar, error) {
	seed := make([]byte, 64)
	if _, err := io.ReadFull(random, seed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
	}
	defer ZeroizeBytes(seed)

	scalar, err := edwards25519.NewScalar().SetUniformBytes(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
	}
	return newEd25519Scalar(scalar), nil
}

func (c *Ed25519Curve) ScalarZero() Scalar {
	return &Ed25519Scalar{inner: edwards25519.NewScalar()}
}

func (c *Ed25519Curve) ScalarOne() Scalar {
	return c.ScalarFromUint64(1)
}

func (c *Ed25519Curve) PointFromBytes(data []byte) (Point, error) {
	if len(data) != 32 {
		return nil, ErrInvalidPointLength
	}

	point, err := new(edwards25519.Point).SetBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}

	// SetBytes accepts some non-canonical encodings of points with small
	// y coordinates. Re-encode and compare so that exactly one byte string
	// maps to each accepted point.
	if !SecureCompare(point.Bytes(), data) {
		return nil, fmt.Errorf("%w: non-canonical point", ErrInvalidEncoding)
	}

	// Reject the torsion points of order 2, 4 and 8. They are valid curve
	// points but lie outside the prime-order group this library works in.
	// The identity itself is left to callers, since commitments may
	// legitimately sum to zero.
	identity := edwards25519.NewIdentityPoint()
	if point.Equal(identity) != 1 &&
		new(edwards25519.Point).MultByCofactor(point).Equal(identity) == 1 {
		return nil, fmt.Errorf("%w: small-order point", ErrInvalidEncoding)
	}

	return &Ed25519Point{inner: point}, nil
}

func (c *Ed25519Curve) BasePoint() Point {
	return &Ed25519Point{inner: edwards25519.NewGeneratorPoint()}
}

func (c *Ed25519Curve) PointIdentity() Point {
	return &Ed25519Point{inner: edwards25519.NewIdentityPoint()}
}

// newEd25519Scalar wraps a scalar and registers a finalizer as backup
// cleanup for callers that forget to Zeroize.
func newEd25519Scalar(inner *edwards25519.Scalar) *Ed25519Scalar {
	s := &Ed25519Scalar{inner: inner}
	runtime.SetFinalizer(s, (*Ed25519Scalar).finalize)
	return s
}

func (s *Ed25519Scalar) finalize() {
	if s.inner != nil {
		s.Zeroize()
	}
}

// Ed25519Scalar implements the Scalar interface
type Ed25519Scalar struct {
	inner *edwards25519.Scalar
}

func (s *Ed25519Scalar) Bytes() []byte {
	return s.inner.Bytes()
}

func (s *Ed25519Scalar) String() string {
	return hex.EncodeToString(s.Bytes())
}

func (s *Ed25519Scalar) Add(other Scalar) Scalar {
	result := edwards25519.NewScalar()
	result.Add(s.inner, other.(*Ed25519Scalar).inner)
	return &Ed25519Scalar{inner: result}
}

func (s *Ed25519Scalar) Sub(other Scalar) Scalar {
	result := edwards25519.NewScalar()
	result.Subtract(s.inner, other.(*Ed25519Scalar).inner)
	return &Ed25519Scalar{inner: result}
}

func (s *Ed25519Scalar) Mul(other Scalar) Scalar {
	result := edwards25519.NewScalar()
	result.Multiply(s.inner, other.(*Ed25519Scalar).inner)
	return &Ed25519Scalar{inner: result}
}

func (s *Ed25519Scalar) Negate() Scalar {
	result := edwards25519.NewScalar()
	result.Negate(s.inner)
	return &Ed25519Scalar{inner: result}
}

func (s *Ed25519Scalar) Invert() (Scalar, error) {
	if s.IsZero() {
		return nil, ErrScalarZero
	}

	result := edwards25519.NewScalar()
	result.Invert(s.inner)
	return &Ed25519Scalar{inner: result}, nil
}

func (s *Ed25519Scalar) Equal(other Scalar) bool {
	return s.inner.Equal(other.(*Ed25519Scalar).inner) == 1
}

func (s *Ed25519Scalar) IsZero() bool {
	zero := edwards25519.NewScalar()
	return s.inner.Equal(zero) == 1
}

func (s *Ed25519Scalar) Zeroize() {
	s.inner = edwards25519.NewScalar()
	runtime.SetFinalizer(s, nil)
}

// Ed25519Point implements the Point interface
type Ed25519Point struct {
	inner *edwards25519.Point
}

func (p *Ed25519Point) Bytes() []byte {
	return p.inner.Bytes()
}

func (p *Ed25519Point) String() string {
	return hex.EncodeToString(p.Bytes())
}

func (p *Ed25519Point) Add(other Point) Point {
	result := edwards25519.NewIdentityPoint()
	result.Add(p.inner, other.(*Ed25519Point).inner)
	return &Ed25519Point{inner: result}
}

func (p *Ed25519Point) Sub(other Point) Point {
	result := edwards25519.NewIdentityPoint()
	result.Subtract(p.inner, other.(*Ed25519Point).inner)
	return &Ed25519Point{inner: result}
}

func (p *Ed25519Point) Mul(scalar Scalar) Point {
	result := edwards25519.NewIdentityPoint()
	result.ScalarMult(scalar.(*Ed25519Scalar).inner, p.inner)
	return &Ed25519Point{inner: result}
}

func (p *Ed25519Point) Negate() Point {
	result := edwards25519.NewIdentityPoint()
	result.Negate(p.inner)
	return &Ed25519Point{inner: result}
}

// ClearCofactor multiplies by eight, moving any decoded curve point into
// the prime-order subgroup. Needed when deriving generators from hashes.
func (p *Ed25519Point) ClearCofactor() Point {
	result := edwards25519.NewIdentityPoint()
	result.MultByCofactor(p.inner)
	return &Ed25519Point{inner: result}
}

func (p *Ed25519Point) Equal(other Point) bool {
	return p.inner.Equal(other.(*Ed25519Point).inner) == 1
}

func (p *Ed25519Point) IsIdentity() bool {
	identity := edwards25519.NewIdentityPoint()
	return p.inner.Equal(identity) == 1
}
