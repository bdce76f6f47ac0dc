package commitsig

import (
	"github.com/gtank/merlin"
)

// Transcript is a domain-separated, append-only hash transcript used to
// derive Fiat-Shamir challenges. Two transcripts produce the same
// challenge exactly when they were created with the same label and fed
// the same ordered sequence of labeled messages.
//
// The session label is absorbed before any message, so transcripts built
// for different protocol roles never alias even on identical inputs.
type Transcript struct {
	curve Curve
	inner *merlin.Transcript
}

// NewTranscript creates a transcript for the given protocol label.
func NewTranscript(curve Curve, label string) *Transcript {
	return &Transcript{
		curve: curve,
		inner: merlin.NewTranscript(hashDomainPrefix + "/" + label),
	}
}

// Append absorbs a labeled message into the transcript.
func (t *Transcript) Append(label string, data []byte) {
	t.inner.AppendMessage([]byte(label), data)
}

// AppendPoint absorbs the canonical encoding of a point.
func (t *Transcript) AppendPoint(label string, p Point) {
	t.Append(label, p.Bytes())
}

// AppendUint64 absorbs an integer in fixed-width big-endian form.
func (t *Transcript) AppendUint64(label string, v uint64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[7-i] = byte(v >> (8 * i))
	}
	t.Append(label, buf[:])
}

// ChallengeScalar derives a challenge scalar from everything appended so
// far. Sixty-four bytes are extracted and wide-reduced so the scalar is
// unbiased. Further messages may be appended afterwards to derive
// additional challenges.
func (t *Transcript) ChallengeScalar(label string) (Scalar, error) {
	wide := t.inner.ExtractBytes([]byte(label), 64)
	return t.curve.ScalarFromUniformBytes(wide)
}
