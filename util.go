package commitsig

import (
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const hashDomainPrefix = "commitsig/v1"

// SecureCompare performs constant-time comparison of byte slices
func SecureCompare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}

	var result byte
	for i := 0; i < len(a); i++ {
		result |= a[i] ^ b[i]
	}

	return result == 0
}

// ZeroizeBytes securely clears a byte slice
func ZeroizeBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
}

// ZeroizeScalarSlice securely clears a slice of scalars
func ZeroizeScalarSlice(scalars []Scalar) {
	for _, scalar := range scalars {
		if scalar != nil {
			scalar.Zeroize()
		}
	}
}

// HashToScalar hashes labeled data to a scalar with a wide reduction, so
// the result is uniformly distributed over the scalar field.
func HashToScalar(curve Curve, label string, data ...[]byte) (Scalar, error) {
	hasher, err := blake2b.New512(nil)
	if err != nil {
		return nil, err
	}

	hasher.Write([]byte(hashDomainPrefix))
	hasher.Write([]byte("hash-to-scalar"))
	hasher.Write([]byte(label))
	hasher.Write([]byte(curve.Name()))
	for _, d := range data {
		writeLengthPrefixed(hasher, d)
	}

	return curve.ScalarFromUniformBytes(hasher.Sum(nil))
}

// HashToPoint derives a group element from labeled data by
// try-and-increment: hash with a counter, interpret the digest as a
// candidate point encoding, and retry until decoding succeeds. The
// discrete log of the result with respect to the base point is unknown,
// which is what a nothing-up-my-sleeve generator requires.
func HashToPoint(curve Curve, label string, data ...[]byte) (Point, error) {
	for ctr := 0; ctr < 256; ctr++ {
		hasher, err := blake2b.New512(nil)
		if err != nil {
			return nil, err
		}

		hasher.Write([]byte(hashDomainPrefix))
		hasher.Write([]byte("hash-to-point"))
		hasher.Write([]byte(label))
		hasher.Write([]byte(curve.Name()))
		for _, d := range data {
			writeLengthPrefixed(hasher, d)
		}
		hasher.Write([]byte{byte(ctr)})
		digest := hasher.Sum(nil)

		candidate := make([]byte, curve.PointSize())
		if len(candidate) == 33 {
			// Compressed SEC1 form: digest supplies x, one spare bit
			// picks the y parity.
			candidate[0] = 0x02 + (digest[32] & 1)
			copy(candidate[1:], digest[:32])
		} else {
			copy(candidate, digest[:len(candidate)])
		}

		point, err := curve.PointFromBytes(candidate)
		if err != nil {
			continue
		}
		point = point.ClearCofactor()
		if point.IsIdentity() {
			continue
		}
		return point, nil
	}

	return nil, fmt.Errorf("hash-to-point exhausted counter for label %q", label)
}

// writeLengthPrefixed frames each input so that adjacent fields of
// different lengths can never be confused for one another.
func writeLengthPrefixed(hasher interface{ Write([]byte) (int, error) }, data []byte) {
	var length [4]byte
	length[0] = byte(len(data) >> 24)
	length[1] = byte(len(data) >> 16)
	length[2] = byte(len(data) >> 8)
	length[3] = byte(len(data))
	hasher.Write(length[:])
	hasher.Write(data)
}
