package commitsig

import (
	"fmt"
	"io"
	"runtime"
)

// SecretKey owns one secret scalar. It is explicitly zeroized on Zeroize
// and, as backup, by a finalizer. The scalar value is never included in
// log output or error messages.
type SecretKey struct {
	curve  Curve
	scalar Scalar
}

// PublicKey owns one point, either derived from a SecretKey or decoded
// from untrusted bytes, in which case it has passed point validation and
// the identity check.
type PublicKey struct {
	curve Curve
	point Point
}

// GenerateKeyPair draws a uniformly random non-zero scalar from the given
// entropy source and derives the matching public key. An entropy failure
// aborts the operation; there is no fallback source.
func GenerateKeyPair(curve Curve, random io.Reader) (*SecretKey, *PublicKey, error) {
	scalar, err := curve.ScalarRandom(random)
	if err != nil {
		return nil, nil, err
	}
	if scalar.IsZero() {
		scalar.Zeroize()
		return nil, nil, fmt.Errorf("%w: zero secret scalar", ErrInvalidKeyMaterial)
	}

	secret := newSecretKey(curve, scalar)
	return secret, secret.Public(), nil
}

// SecretKeyFromBytes validates a canonical scalar encoding and wraps it
// as a secret key. The input slice is not retained.
func SecretKeyFromBytes(curve Curve, data []byte) (*SecretKey, error) {
	scalar, err := curve.ScalarFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyMaterial, err)
	}
	if scalar.IsZero() {
		return nil, fmt.Errorf("%w: zero secret scalar", ErrInvalidKeyMaterial)
	}

	return newSecretKey(curve, scalar), nil
}

// PublicKeyFromBytes validates an untrusted point encoding. It rejects
// malformed bytes, non-canonical encodings and the identity element.
func PublicKeyFromBytes(curve Curve, data []byte) (*PublicKey, error) {
	point, err := NonIdentityPointFromBytes(curve, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyMaterial, err)
	}

	return &PublicKey{curve: curve, point: point}, nil
}

func newSecretKey(curve Curve, scalar Scalar) *SecretKey {
	sk := &SecretKey{curve: curve, scalar: scalar}
	runtime.SetFinalizer(sk, (*SecretKey).finalize)
	return sk
}

func (sk *SecretKey) finalize() {
	if sk.scalar != nil {
		sk.Zeroize()
	}
}

// Public derives the public key as secret times the base point.
func (sk *SecretKey) Public() *PublicKey {
	return &PublicKey{
		curve: sk.curve,
		point: sk.curve.BasePoint().Mul(sk.scalar),
	}
}

// Scalar exposes the underlying secret scalar to protocol code in this
// package and to callers composing their own schemes. The caller must not
// retain it past the lifetime of the key.
func (sk *SecretKey) Scalar() Scalar {
	return sk.scalar
}

// Bytes returns the canonical scalar encoding. The caller owns the copy
// and should zeroize it after use.
func (sk *SecretKey) Bytes() []byte {
	return sk.scalar.Bytes()
}

// Zeroize wipes the secret scalar. The key must not be used afterwards.
func (sk *SecretKey) Zeroize() {
	sk.scalar.Zeroize()
	runtime.SetFinalizer(sk, nil)
}

// String redacts the secret value.
func (sk *SecretKey) String() string {
	return "SecretKey(redacted)"
}

// Curve returns the group this key belongs to.
func (sk *SecretKey) Curve() Curve {
	return sk.curve
}

// Point returns the underlying group element.
func (pk *PublicKey) Point() Point {
	return pk.point
}

// Bytes returns the canonical point encoding.
func (pk *PublicKey) Bytes() []byte {
	return pk.point.Bytes()
}

// Equal reports whether two public keys are the same group element.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk == nil || other == nil {
		return false
	}
	return pk.point.Equal(other.point)
}

func (pk *PublicKey) String() string {
	return pk.point.String()
}

// Curve returns the group this key belongs to.
func (pk *PublicKey) Curve() Curve {
	return pk.curve
}
