package commitsig

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Signature is a Schnorr signature: a public nonce commitment R and a
// response scalar s satisfying s*G == R + e*X for challenge e. It is
// produced once per signed message and immutable afterwards.
type Signature struct {
	r Point
	s Scalar
}

// Sign signs message with the secret key, drawing the nonce fresh from
// the given entropy source. The nonce scalar is zeroized before the call
// returns, on success and failure alike.
//
// Never reuse a nonce across two messages signed by the same key: doing
// so leaks the secret key.
func Sign(secret *SecretKey, message []byte, random io.Reader) (*Signature, error) {
	nonce, err := secret.curve.ScalarRandom(random)
	if err != nil {
		return nil, err
	}
	return signWithNonce(secret, message, nonce)
}

// SignDeterministic signs message with a nonce derived from the secret
// key and the message via HKDF, in the style of RFC 6979. The same
// (key, message) pair always yields the same signature; distinct messages
// yield independent nonces. This is an explicit opt-in for callers that
// cannot rely on an entropy source at signing time.
func SignDeterministic(secret *SecretKey, message []byte) (*Signature, error) {
	ikm := secret.scalar.Bytes()
	defer ZeroizeBytes(ikm)

	info := []byte(hashDomainPrefix + "/deterministic-nonce/" + secret.curve.Name())
	reader := hkdf.New(sha256.New, ikm, message, info)

	wide := make([]byte, 64)
	if _, err := io.ReadFull(reader, wide); err != nil {
		return nil, fmt.Errorf("nonce derivation failed: %w", err)
	}
	defer ZeroizeBytes(wide)

	nonce, err := secret.curve.ScalarFromUniformBytes(wide)
	if err != nil {
		return nil, err
	}
	return signWithNonce(secret, message, nonce)
}

// signWithNonce consumes the nonce: it is zeroized on every path.
func signWithNonce(secret *SecretKey, message []byte, nonce Scalar) (*Signature, error) {
	defer nonce.Zeroize()

	curve := secret.curve
	noncePublic := curve.BasePoint().Mul(nonce)

	challenge, err := schnorrChallenge(curve, secret.Public().Point(), noncePublic, message)
	if err != nil {
		return nil, err
	}

	response := nonce.Add(challenge.Mul(secret.scalar))

	return &Signature{r: noncePublic, s: response}, nil
}

// Verify reports whether the signature is valid for the given public key
// and message. It rebuilds the signing transcript, recomputes the
// challenge and checks s*G == R + e*X. The result carries no information
// about which check failed.
func (sig *Signature) Verify(pub *PublicKey, message []byte) bool {
	if sig == nil || pub == nil || sig.r == nil || sig.s == nil {
		return false
	}
	if sig.r.IsIdentity() {
		return false
	}

	curve := pub.curve
	challenge, err := schnorrChallenge(curve, pub.point, sig.r, message)
	if err != nil {
		return false
	}

	left := curve.BasePoint().Mul(sig.s)
	right := sig.r.Add(pub.point.Mul(challenge))

	return left.Equal(right)
}

// PublicNonce returns the nonce commitment R.
func (sig *Signature) PublicNonce() Point {
	return sig.r
}

// Response returns the response scalar s.
func (sig *Signature) Response() Scalar {
	return sig.s
}

// Bytes serializes the signature as R bytes followed by s bytes.
func (sig *Signature) Bytes() []byte {
	out := make([]byte, 0, len(sig.r.Bytes())+len(sig.s.Bytes()))
	out = append(out, sig.r.Bytes()...)
	out = append(out, sig.s.Bytes()...)
	return out
}

// SignatureFromBytes decodes a signature, validating both components.
// The nonce commitment must be a canonical non-identity point and the
// response a canonically reduced scalar.
func SignatureFromBytes(curve Curve, data []byte) (*Signature, error) {
	expected := curve.PointSize() + curve.ScalarSize()
	if len(data) != expected {
		return nil, fmt.Errorf("%w: signature must be %d bytes, got %d", ErrInvalidEncoding, expected, len(data))
	}

	r, err := NonIdentityPointFromBytes(curve, data[:curve.PointSize()])
	if err != nil {
		return nil, err
	}

	s, err := curve.ScalarFromBytes(data[curve.PointSize():])
	if err != nil {
		return nil, err
	}

	return &Signature{r: r, s: s}, nil
}

// schnorrChallenge derives the Fiat-Shamir challenge for a signature over
// (X, R, message). MuSig uses the same transcript for its aggregate
// challenge, which is what lets a finalized aggregate signature verify as
// an ordinary single-party signature.
func schnorrChallenge(curve Curve, publicKey, nonce Point, message []byte) (Scalar, error) {
	t := NewTranscript(curve, "schnorr")
	t.AppendPoint("public-key", publicKey)
	t.AppendPoint("nonce", nonce)
	t.Append("message", message)
	return t.ChallengeScalar("challenge")
}
