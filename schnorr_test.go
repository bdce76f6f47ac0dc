package commitsig

import (
	"bytes"
	"errors"
	"testing"
)

func TestSignVerify(t *testing.T) {
	for name, curve := range testCurves() {
		random := newDetReader(30)

		secret, pub, err := GenerateKeyPair(curve, random)
		if err != nil {
			t.Fatalf("%s: key generation failed: %v", name, err)
		}

		message := []byte("Small Gods")
		sig, err := Sign(secret, message, random)
		if err != nil {
			t.Fatalf("%s: signing failed: %v", name, err)
		}

		if !sig.Verify(pub, message) {
			t.Fatalf("%s: valid signature did not verify", name)
		}

		// Doesn't verify for a different message.
		if sig.Verify(pub, []byte("Guards! Guards!")) {
			t.Fatalf("%s: signature verified for a different message", name)
		}

		// Doesn't verify for a different key.
		_, otherPub, err := GenerateKeyPair(curve, random)
		if err != nil {
			t.Fatalf("%s: key generation failed: %v", name, err)
		}
		if sig.Verify(otherPub, message) {
			t.Fatalf("%s: signature verified under a different key", name)
		}
	}
}

func TestSignEntropyFailure(t *testing.T) {
	curve := NewEd25519Curve()
	secret, _, err := GenerateKeyPair(curve, newDetReader(31))
	if err != nil {
		t.Fatalf("key generation failed: %v", err)
	}

	if _, err := Sign(secret, []byte("msg"), failingReader{}); !errors.Is(err, ErrRandomnessUnavailable) {
		t.Fatalf("expected ErrRandomnessUnavailable, got %v", err)
	}
}

func TestSignaturesUseFreshNonces(t *testing.T) {
	curve := NewEd25519Curve()
	random := newDetReader(32)

	secret, _, err := GenerateKeyPair(curve, random)
	if err != nil {
		t.Fatalf("key generation failed: %v", err)
	}

	message := []byte("same message")
	sig1, err := Sign(secret, message, random)
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}
	sig2, err := Sign(secret, message, random)
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	if sig1.PublicNonce().Equal(sig2.PublicNonce()) {
		t.Fatalf("two signatures over the same message share a nonce")
	}
}

func TestSignDeterministic(t *testing.T) {
	for name, curve := range testCurves() {
		secret, pub, err := GenerateKeyPair(curve, newDetReader(33))
		if err != nil {
			t.Fatalf("%s: key generation failed: %v", name, err)
		}

		message := []byte("deterministic payload")
		sig1, err := SignDeterministic(secret, message)
		if err != nil {
			t.Fatalf("%s: deterministic signing failed: %v", name, err)
		}
		sig2, err := SignDeterministic(secret, message)
		if err != nil {
			t.Fatalf("%s: deterministic signing failed: %v", name, err)
		}

		// Same key and message always yield the same signature.
		if !bytes.Equal(sig1.Bytes(), sig2.Bytes()) {
			t.Fatalf("%s: deterministic signatures over the same message differ", name)
		}
		if !sig1.Verify(pub, message) {
			t.Fatalf("%s: deterministic signature did not verify", name)
		}

		// Distinct messages yield distinct nonces.
		sig3, err := SignDeterministic(secret, []byte("another payload"))
		if err != nil {
			t.Fatalf("%s: deterministic signing failed: %v", name, err)
		}
		if sig1.PublicNonce().Equal(sig3.PublicNonce()) {
			t.Fatalf("%s: deterministic nonces repeat across messages", name)
		}
	}
}

func TestSignatureSerialization(t *testing.T) {
	for name, curve := range testCurves() {
		random := newDetReader(34)

		secret, pub, err := GenerateKeyPair(curve, random)
		if err != nil {
			t.Fatalf("%s: key generation failed: %v", name, err)
		}

		message := []byte("wire format")
		sig, err := Sign(secret, message, random)
		if err != nil {
			t.Fatalf("%s: signing failed: %v", name, err)
		}

		encoded := sig.Bytes()
		if len(encoded) != curve.PointSize()+curve.ScalarSize() {
			t.Fatalf("%s: signature encoding is %d bytes, want %d", name, len(encoded), curve.PointSize()+curve.ScalarSize())
		}

		decoded, err := SignatureFromBytes(curve, encoded)
		if err != nil {
			t.Fatalf("%s: decode failed: %v", name, err)
		}
		if !decoded.Verify(pub, message) {
			t.Fatalf("%s: decoded signature did not verify", name)
		}

		// Truncated and corrupted encodings are rejected or fail
		// verification; they never verify.
		if _, err := SignatureFromBytes(curve, encoded[:len(encoded)-1]); !errors.Is(err, ErrInvalidEncoding) {
			t.Fatalf("%s: expected ErrInvalidEncoding for truncated signature, got %v", name, err)
		}

		corrupted := make([]byte, len(encoded))
		copy(corrupted, encoded)
		corrupted[len(corrupted)-1] ^= 1
		if decoded, err := SignatureFromBytes(curve, corrupted); err == nil {
			if decoded.Verify(pub, message) {
				t.Fatalf("%s: corrupted signature verified", name)
			}
		}
	}
}

func TestVerifyRejectsNilAndIdentity(t *testing.T) {
	curve := NewEd25519Curve()
	random := newDetReader(35)

	secret, pub, err := GenerateKeyPair(curve, random)
	if err != nil {
		t.Fatalf("key generation failed: %v", err)
	}

	var nilSig *Signature
	if nilSig.Verify(pub, []byte("m")) {
		t.Fatalf("nil signature verified")
	}

	sig, err := Sign(secret, []byte("m"), random)
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}
	forged := &Signature{r: curve.PointIdentity(), s: sig.s}
	if forged.Verify(pub, []byte("m")) {
		t.Fatalf("signature with identity nonce verified")
	}
}
