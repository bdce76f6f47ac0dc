package commitsig

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"
)

// openingProofEngine is a stand-in range-proof backend for adapter
// tests. Its "proof" is simply the opening (value, blinding) and
// verification reopens the commitment and range-checks the value. It
// has none of the zero-knowledge properties of a real engine; it only
// exercises the adapter's plumbing and failure behaviour.
type openingProofEngine struct{}

func (openingProofEngine) Prove(gens *GeneratorSet, value uint64, blinding Scalar, bits int) ([]byte, error) {
	proof := make([]byte, 8, 8+gens.Curve().ScalarSize())
	binary.BigEndian.PutUint64(proof, value)
	return append(proof, blinding.Bytes()...), nil
}

func (openingProofEngine) Verify(gens *GeneratorSet, commitment, proof []byte, bits int) (bool, error) {
	curve := gens.Curve()
	if len(proof) != 8+curve.ScalarSize() {
		return false, fmt.Errorf("malformed proof")
	}

	value := binary.BigEndian.Uint64(proof[:8])
	if bits < 64 && value >= uint64(1)<<bits {
		return false, nil
	}
	blinding, err := curve.ScalarFromBytes(proof[8:])
	if err != nil {
		return false, err
	}

	point := gens.H().Mul(curve.ScalarFromUint64(value)).Add(gens.G().Mul(blinding))
	return bytes.Equal(point.Bytes(), commitment), nil
}

func (e openingProofEngine) VerifyBatch(gens *GeneratorSet, commitments, proofs [][]byte, bits int) (bool, error) {
	if len(commitments) != len(proofs) {
		return false, fmt.Errorf("mismatched batch lengths")
	}
	for i := range commitments {
		ok, err := e.Verify(gens, commitments[i], proofs[i], bits)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func newTestAdapter(t *testing.T, curve Curve, bits int) (*RangeProofAdapter, *CommitmentFactory) {
	t.Helper()

	gens, err := NewGeneratorSet(curve)
	if err != nil {
		t.Fatalf("generator derivation failed: %v", err)
	}
	factory, err := NewCommitmentFactory(gens)
	if err != nil {
		t.Fatalf("factory creation failed: %v", err)
	}
	adapter, err := NewRangeProofAdapter(factory, openingProofEngine{}, bits)
	if err != nil {
		t.Fatalf("adapter creation failed: %v", err)
	}
	return adapter, factory
}

func TestRangeProofProveVerify(t *testing.T) {
	for name, curve := range testCurves() {
		t.Run(name, func(t *testing.T) {
			adapter, factory := newTestAdapter(t, curve, 32)

			blinding, err := curve.ScalarRandom(newDetReader(200))
			if err != nil {
				t.Fatalf("blinding generation failed: %v", err)
			}
			commitment, err := factory.CommitValue(12345, blinding)
			if err != nil {
				t.Fatalf("commit failed: %v", err)
			}

			proof, err := adapter.Prove(12345, blinding)
			if err != nil {
				t.Fatalf("prove failed: %v", err)
			}
			if !adapter.Verify(commitment, proof) {
				t.Fatalf("valid proof did not verify")
			}
		})
	}
}

func TestRangeProofValueOutOfRange(t *testing.T) {
	curve := NewEd25519Curve()
	adapter, _ := newTestAdapter(t, curve, 8)

	blinding, _ := curve.ScalarRandom(newDetReader(201))

	// 255 fits 8 bits, 256 does not.
	if _, err := adapter.Prove(255, blinding); err != nil {
		t.Fatalf("boundary value rejected: %v", err)
	}
	if _, err := adapter.Prove(256, blinding); !errors.Is(err, ErrValueOutOfRange) {
		t.Fatalf("expected ErrValueOutOfRange, got %v", err)
	}
	if _, err := adapter.Prove(1<<20, blinding); !errors.Is(err, ErrValueOutOfRange) {
		t.Fatalf("expected ErrValueOutOfRange, got %v", err)
	}
}

func TestRangeProofFullWidth(t *testing.T) {
	curve := NewEd25519Curve()
	adapter, factory := newTestAdapter(t, curve, 64)

	blinding, _ := curve.ScalarRandom(newDetReader(202))
	const value = ^uint64(0)

	commitment, err := factory.CommitValue(value, blinding)
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	proof, err := adapter.Prove(value, blinding)
	if err != nil {
		t.Fatalf("64-bit adapter rejected a maximal value: %v", err)
	}
	if !adapter.Verify(commitment, proof) {
		t.Fatalf("maximal value proof did not verify")
	}
}

func TestRangeProofWrongCommitment(t *testing.T) {
	curve := NewEd25519Curve()
	adapter, factory := newTestAdapter(t, curve, 32)

	blinding, _ := curve.ScalarRandom(newDetReader(203))
	other, _ := curve.ScalarRandom(newDetReader(204))

	proof, err := adapter.Prove(7, blinding)
	if err != nil {
		t.Fatalf("prove failed: %v", err)
	}

	wrongValue, _ := factory.CommitValue(8, blinding)
	if adapter.Verify(wrongValue, proof) {
		t.Fatalf("proof verified against a commitment to a different value")
	}
	wrongBlinding, _ := factory.CommitValue(7, other)
	if adapter.Verify(wrongBlinding, proof) {
		t.Fatalf("proof verified against a commitment with a different blinding")
	}
}

func TestRangeProofFailsClosed(t *testing.T) {
	curve := NewEd25519Curve()
	adapter, factory := newTestAdapter(t, curve, 32)

	blinding, _ := curve.ScalarRandom(newDetReader(205))
	commitment, _ := factory.CommitValue(7, blinding)
	proof, err := adapter.Prove(7, blinding)
	if err != nil {
		t.Fatalf("prove failed: %v", err)
	}

	if adapter.Verify(nil, proof) {
		t.Fatalf("nil commitment verified")
	}
	if adapter.Verify(commitment, nil) {
		t.Fatalf("nil proof verified")
	}
	if adapter.Verify(commitment, proof[:4]) {
		t.Fatalf("truncated proof verified")
	}
	corrupted := append([]byte(nil), proof...)
	corrupted[len(corrupted)-1] ^= 0x01
	if adapter.Verify(commitment, corrupted) {
		t.Fatalf("corrupted proof verified")
	}
}

func TestRangeProofBatch(t *testing.T) {
	curve := NewEd25519Curve()
	adapter, factory := newTestAdapter(t, curve, 32)

	pairs := make([]ProofPair, 4)
	for i := range pairs {
		blinding, err := curve.ScalarRandom(newDetReader(byte(210 + i)))
		if err != nil {
			t.Fatalf("blinding generation failed: %v", err)
		}
		value := uint64(1000 + i)
		commitment, err := factory.CommitValue(value, blinding)
		if err != nil {
			t.Fatalf("commit failed: %v", err)
		}
		proof, err := adapter.Prove(value, blinding)
		if err != nil {
			t.Fatalf("prove failed: %v", err)
		}
		pairs[i] = ProofPair{Commitment: commitment, Proof: proof}
	}

	if !adapter.VerifyBatch(pairs) {
		t.Fatalf("all-valid batch did not verify")
	}

	// One bad entry fails the whole batch with no further detail.
	corrupted := append([]byte(nil), pairs[2].Proof...)
	corrupted[0] ^= 0x01
	bad := append([]ProofPair(nil), pairs...)
	bad[2].Proof = corrupted
	if adapter.VerifyBatch(bad) {
		t.Fatalf("batch with a corrupted entry verified")
	}

	if adapter.VerifyBatch(nil) {
		t.Fatalf("empty batch verified")
	}
	missing := append([]ProofPair(nil), pairs...)
	missing[1].Proof = nil
	if adapter.VerifyBatch(missing) {
		t.Fatalf("batch with a missing proof verified")
	}
}

func TestRangeProofAdapterConstruction(t *testing.T) {
	curve := NewEd25519Curve()
	gens, err := NewGeneratorSet(curve)
	if err != nil {
		t.Fatalf("generator derivation failed: %v", err)
	}
	factory, err := NewCommitmentFactory(gens)
	if err != nil {
		t.Fatalf("factory creation failed: %v", err)
	}

	if _, err := NewRangeProofAdapter(nil, openingProofEngine{}, 32); err == nil {
		t.Fatalf("nil factory accepted")
	}
	if _, err := NewRangeProofAdapter(factory, nil, 32); err == nil {
		t.Fatalf("nil engine accepted")
	}
	for _, bits := range []int{0, -1, 65} {
		if _, err := NewRangeProofAdapter(factory, openingProofEngine{}, bits); err == nil {
			t.Fatalf("bit width %d accepted", bits)
		}
	}

	adapter, err := NewRangeProofAdapter(factory, openingProofEngine{}, 16)
	if err != nil {
		t.Fatalf("adapter creation failed: %v", err)
	}
	if adapter.BitWidth() != 16 {
		t.Fatalf("BitWidth() = %d, want 16", adapter.BitWidth())
	}
}
