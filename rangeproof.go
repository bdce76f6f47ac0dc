package commitsig

import (
	"fmt"
)

// RangeProofEngine is the capability interface for an external
// zero-knowledge range-proof system such as a Bulletproofs
// implementation. This library orchestrates the engine through its
// generator set; it does not reimplement the engine's inner arguments.
//
// Engines must be deterministic in their verification behaviour: a proof
// either verifies against a commitment or it does not.
type RangeProofEngine interface {
	// Prove produces a proof that value lies in [0, 2^bits) for the
	// commitment value*H + blinding*G over the given generators.
	Prove(gens *GeneratorSet, value uint64, blinding Scalar, bits int) ([]byte, error)

	// Verify checks a single proof against a commitment encoding.
	Verify(gens *GeneratorSet, commitment, proof []byte, bits int) (bool, error)

	// VerifyBatch checks an ordered sequence of (commitment, proof)
	// pairs jointly where the engine supports aggregate verification,
	// returning a single combined result.
	VerifyBatch(gens *GeneratorSet, commitments, proofs [][]byte, bits int) (bool, error)
}

// ProofPair couples a commitment with its claimed range proof for batch
// verification.
type ProofPair struct {
	Commitment *Commitment
	Proof      []byte
}

// RangeProofAdapter binds a commitment factory's generator pair to a
// range-proof engine, translating between this library's value/blinding
// representation and the engine's proof objects. The supported bit width
// is fixed at construction.
type RangeProofAdapter struct {
	factory *CommitmentFactory
	engine  RangeProofEngine
	bits    int
}

// NewRangeProofAdapter creates an adapter for proofs over [0, 2^bits).
func NewRangeProofAdapter(factory *CommitmentFactory, engine RangeProofEngine, bits int) (*RangeProofAdapter, error) {
	if factory == nil || engine == nil {
		return nil, fmt.Errorf("factory and engine cannot be nil")
	}
	if bits < 1 || bits > 64 {
		return nil, fmt.Errorf("bit width %d outside [1, 64]", bits)
	}

	return &RangeProofAdapter{factory: factory, engine: engine, bits: bits}, nil
}

// BitWidth returns the fixed proof bit width.
func (a *RangeProofAdapter) BitWidth() int {
	return a.bits
}

// Prove generates a range proof for value under the given blinding
// factor. It fails with ErrValueOutOfRange when value does not fit the
// adapter's bit width.
func (a *RangeProofAdapter) Prove(value uint64, blinding Scalar) ([]byte, error) {
	if a.bits < 64 && value >= uint64(1)<<a.bits {
		return nil, fmt.Errorf("%w: value requires more than %d bits", ErrValueOutOfRange, a.bits)
	}
	if blinding == nil {
		return nil, fmt.Errorf("blinding scalar cannot be nil")
	}

	proof, err := a.engine.Prove(a.factory.Generators(), value, blinding, a.bits)
	if err != nil {
		return nil, fmt.Errorf("range proof generation failed: %w", err)
	}
	return proof, nil
}

// Verify checks a proof against a commitment. It fails closed: malformed
// proofs and engine errors verify as false, never as a propagated
// exception, and the result carries no detail about what went wrong.
func (a *RangeProofAdapter) Verify(c *Commitment, proof []byte) bool {
	if c == nil || len(proof) == 0 {
		return false
	}

	ok, err := a.engine.Verify(a.factory.Generators(), c.Bytes(), proof, a.bits)
	if err != nil {
		return false
	}
	return ok
}

// VerifyBatch jointly verifies an ordered sequence of pairs, returning a
// single pass/fail. On failure it gives no indication of which entry
// failed, matching the behaviour of aggregate verifiers.
func (a *RangeProofAdapter) VerifyBatch(pairs []ProofPair) bool {
	if len(pairs) == 0 {
		return false
	}

	commitments := make([][]byte, len(pairs))
	proofs := make([][]byte, len(pairs))
	for i, pair := range pairs {
		if pair.Commitment == nil || len(pair.Proof) == 0 {
			return false
		}
		commitments[i] = pair.Commitment.Bytes()
		proofs[i] = pair.Proof
	}

	ok, err := a.engine.VerifyBatch(a.factory.Generators(), commitments, proofs, a.bits)
	if err != nil {
		return false
	}
	return ok
}
