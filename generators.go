package commitsig

import (
	"fmt"
)

// MaxExtensionDegree bounds the number of extra blinding generators an
// extended commitment factory may carry.
const MaxExtensionDegree = 5

// GeneratorSet is the fixed, immutable generator configuration shared by
// commitments and range proofs. It holds the value generator H and one or
// more blinding generators G_i, where G_0 is the group base point and the
// rest are nothing-up-my-sleeve points derived by hashing. The discrete
// logs of H and the extension generators relative to G_0 are unknown,
// which is what makes commitments over this set binding.
//
// Construction is deterministic: the same curve and degree always yield
// the same generators, so independently constructed sets interoperate.
type GeneratorSet struct {
	curve Curve
	h     Point
	g     []Point
}

// NewGeneratorSet derives the default generator pair (G, H) for the given
// curve, extension degree zero.
func NewGeneratorSet(curve Curve) (*GeneratorSet, error) {
	return NewExtendedGeneratorSet(curve, 0)
}

// NewExtendedGeneratorSet derives a generator set with degree extra
// blinding generators beyond the base point.
func NewExtendedGeneratorSet(curve Curve, degree int) (*GeneratorSet, error) {
	if degree < 0 || degree > MaxExtensionDegree {
		return nil, fmt.Errorf("extension degree %d outside [0, %d]", degree, MaxExtensionDegree)
	}

	base := curve.BasePoint()

	h, err := HashToPoint(curve, "pedersen/h", base.Bytes())
	if err != nil {
		return nil, err
	}

	g := make([]Point, degree+1)
	g[0] = base
	for i := 1; i <= degree; i++ {
		g[i], err = HashToPoint(curve, "pedersen/g-ext", base.Bytes(), []byte{byte(i)})
		if err != nil {
			return nil, err
		}
	}

	return &GeneratorSet{curve: curve, h: h, g: g}, nil
}

// Curve returns the group the generators live in.
func (gs *GeneratorSet) Curve() Curve {
	return gs.curve
}

// G returns the primary blinding generator, the group base point.
func (gs *GeneratorSet) G() Point {
	return gs.g[0]
}

// H returns the value generator.
func (gs *GeneratorSet) H() Point {
	return gs.h
}

// ExtensionDegree returns the number of extra blinding generators.
func (gs *GeneratorSet) ExtensionDegree() int {
	return len(gs.g) - 1
}

// BlindingGenerator returns G_i. Index zero is the base point.
func (gs *GeneratorSet) BlindingGenerator(i int) Point {
	return gs.g[i]
}
