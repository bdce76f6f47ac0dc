package commitsig

import (
	"bytes"
	"fmt"
	"io"
	"sort"
)

// The MuSig ceremony is modelled as a linear sequence of state types so
// that out-of-order use is impossible at the type level:
//
//	NonceCollector --AggregateNonces--> PartialCollector --Finalize--> *Signature
//
// A session in either collecting state may be abandoned at any time with
// Abort. Session state is never reused across messages: nonce reuse
// leaks the participants' secret keys.

// musigEntry is one participant's round-one contribution.
type musigEntry struct {
	pub   *PublicKey
	nonce Point  // R_i
	coeff Scalar // binding coefficient a_i, set at aggregation
}

// NonceCollector is the first ceremony state. It gathers each
// participant's public key and nonce commitment until exactly n distinct
// participants have contributed.
type NonceCollector struct {
	curve   Curve
	message []byte
	n       int
	entries []*musigEntry
	closed  bool
}

// NewMusigSession starts a signing ceremony for n participants over the
// given message.
func NewMusigSession(curve Curve, n int, message []byte) (*NonceCollector, error) {
	if n < 2 {
		return nil, fmt.Errorf("musig requires at least 2 participants, got %d", n)
	}

	msg := make([]byte, len(message))
	copy(msg, message)

	return &NonceCollector{
		curve:   curve,
		message: msg,
		n:       n,
		entries: make([]*musigEntry, 0, n),
	}, nil
}

// AddParticipant records one participant's public key and nonce
// commitment. A public key may be contributed once per ceremony.
func (nc *NonceCollector) AddParticipant(pub *PublicKey, nonceCommitment Point) error {
	if nc.closed {
		return ErrSessionClosed
	}
	if pub == nil || nonceCommitment == nil {
		return fmt.Errorf("%w: nil participant data", ErrInvalidKeyMaterial)
	}
	if nonceCommitment.IsIdentity() {
		return fmt.Errorf("%w: nonce commitment", ErrIdentityRejected)
	}
	if len(nc.entries) == nc.n {
		return fmt.Errorf("ceremony already has %d participants", nc.n)
	}

	encoded := pub.Bytes()
	for _, e := range nc.entries {
		if bytes.Equal(e.pub.Bytes(), encoded) {
			return fmt.Errorf("%w: public key %s", ErrDuplicateParticipant, pub)
		}
	}

	nc.entries = append(nc.entries, &musigEntry{pub: pub, nonce: nonceCommitment})
	return nil
}

// AddParticipantBytes decodes and validates wire-format participant data
// before recording it.
func (nc *NonceCollector) AddParticipantBytes(pubBytes, nonceBytes []byte) error {
	pub, err := PublicKeyFromBytes(nc.curve, pubBytes)
	if err != nil {
		return err
	}
	nonce, err := NonIdentityPointFromBytes(nc.curve, nonceBytes)
	if err != nil {
		return err
	}
	return nc.AddParticipant(pub, nonce)
}

// Abort abandons the ceremony. The collector cannot be used afterwards.
func (nc *NonceCollector) Abort() {
	nc.closed = true
	nc.entries = nil
}

// AggregateNonces consumes the collector and produces the next ceremony
// state. It fails with ErrIncompleteRound unless exactly n participants
// have contributed.
//
// Participants are ordered lexicographically by encoded public key before
// any transcript is built, so every party derives identical binding
// coefficients and an identical challenge regardless of arrival order.
func (nc *NonceCollector) AggregateNonces() (*PartialCollector, error) {
	if nc.closed {
		return nil, ErrSessionClosed
	}
	if len(nc.entries) != nc.n {
		return nil, fmt.Errorf("%w: have %d of %d nonce commitments", ErrIncompleteRound, len(nc.entries), nc.n)
	}
	nc.closed = true

	entries := nc.entries
	nc.entries = nil
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].pub.Bytes(), entries[j].pub.Bytes()) < 0
	})

	// Binding coefficient a_i commits each participant to the full
	// ordered key set, which is what defeats rogue-key attacks.
	for _, e := range entries {
		t := NewTranscript(nc.curve, "musig-keyagg")
		t.AppendUint64("participant-count", uint64(len(entries)))
		for _, other := range entries {
			t.AppendPoint("public-key", other.pub.Point())
		}
		t.AppendPoint("participant", e.pub.Point())

		coeff, err := t.ChallengeScalar("binding")
		if err != nil {
			return nil, err
		}
		e.coeff = coeff
	}

	// X = sum a_i * X_i, R = sum R_i
	aggKey := nc.curve.PointIdentity()
	aggNonce := nc.curve.PointIdentity()
	for _, e := range entries {
		aggKey = aggKey.Add(e.pub.Point().Mul(e.coeff))
		aggNonce = aggNonce.Add(e.nonce)
	}
	if aggKey.IsIdentity() {
		return nil, fmt.Errorf("%w: aggregated public key", ErrIdentityRejected)
	}
	if aggNonce.IsIdentity() {
		return nil, fmt.Errorf("%w: aggregated nonce", ErrIdentityRejected)
	}

	challenge, err := schnorrChallenge(nc.curve, aggKey, aggNonce, nc.message)
	if err != nil {
		return nil, err
	}

	return &PartialCollector{
		curve:     nc.curve,
		message:   nc.message,
		entries:   entries,
		aggKey:    &PublicKey{curve: nc.curve, point: aggKey},
		aggNonce:  aggNonce,
		challenge: challenge,
		partials:  make([]Scalar, len(entries)),
	}, nil
}

// PartialCollector is the second ceremony state. It verifies and gathers
// each participant's partial signature and finalizes the aggregate.
type PartialCollector struct {
	curve     Curve
	message   []byte
	entries   []*musigEntry
	aggKey    *PublicKey
	aggNonce  Point
	challenge Scalar
	partials  []Scalar
	received  int
	closed    bool
}

// AggregatedKey returns the rogue-key-resistant aggregate public key the
// final signature verifies under.
func (pc *PartialCollector) AggregatedKey() *PublicKey {
	return pc.aggKey
}

// AggregatedNonce returns the aggregate nonce commitment R.
func (pc *PartialCollector) AggregatedNonce() Point {
	return pc.aggNonce
}

// Index returns a participant's position in the canonical ordering.
func (pc *PartialCollector) Index(pub *PublicKey) (int, error) {
	encoded := pub.Bytes()
	for i, e := range pc.entries {
		if bytes.Equal(e.pub.Bytes(), encoded) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("public key %s not in ceremony", pub)
}

// AddPartial verifies and records one participant's partial signature.
// Verification checks s_i*G == R_i + e*a_i*X_i; a failing partial is
// reported with the offending index so the faulty party can be isolated,
// and already-accepted partials remain valid.
func (pc *PartialCollector) AddPartial(index int, partial Scalar) error {
	if pc.closed {
		return ErrSessionClosed
	}
	if index < 0 || index >= len(pc.entries) {
		return fmt.Errorf("participant index %d out of range [0, %d)", index, len(pc.entries))
	}
	if partial == nil {
		return fmt.Errorf("%w: nil partial signature", ErrInvalidKeyMaterial)
	}
	if pc.partials[index] != nil {
		return fmt.Errorf("%w: index %d", ErrDuplicateParticipant, index)
	}

	e := pc.entries[index]
	left := pc.curve.BasePoint().Mul(partial)
	right := e.nonce.Add(e.pub.Point().Mul(pc.challenge.Mul(e.coeff)))
	if !left.Equal(right) {
		return &PartialSignatureError{Index: index}
	}

	pc.partials[index] = partial
	pc.received++
	return nil
}

// Abort abandons the ceremony and discards its state.
func (pc *PartialCollector) Abort() {
	pc.closed = true
	pc.entries = nil
	pc.partials = nil
}

// Finalize consumes the collector once all partials have been accepted
// and produces the aggregate signature (R, s) with s = sum s_i. The
// result verifies under the aggregated key exactly like a single-party
// signature.
func (pc *PartialCollector) Finalize() (*Signature, error) {
	if pc.closed {
		return nil, ErrSessionClosed
	}
	if pc.received != len(pc.entries) {
		return nil, fmt.Errorf("%w: have %d of %d partial signatures", ErrIncompleteRound, pc.received, len(pc.entries))
	}

	s := pc.curve.ScalarZero()
	for _, partial := range pc.partials {
		s = s.Add(partial)
	}

	// The collector is spent either way: a failed final check means the
	// ceremony state is inconsistent and must not accept further input.
	sig := &Signature{r: pc.aggNonce, s: s}
	ok := sig.Verify(pc.aggKey, pc.message)
	pc.closed = true
	pc.entries = nil
	pc.partials = nil

	if !ok {
		return nil, ErrVerificationFailed
	}
	return sig, nil
}

// Signer holds one participant's side of a ceremony: the long-term
// secret key and the per-ceremony secret nonce. The nonce is consumed by
// the first Sign call and zeroized; a Signer can never produce two
// partial signatures.
type Signer struct {
	secret      *SecretKey
	nonce       Scalar
	noncePublic Point
	consumed    bool
}

// NewSigner draws a fresh secret nonce r and computes its commitment
// R = r*G. Create a new Signer for every ceremony.
func NewSigner(secret *SecretKey, random io.Reader) (*Signer, error) {
	nonce, err := secret.curve.ScalarRandom(random)
	if err != nil {
		return nil, err
	}

	return &Signer{
		secret:      secret,
		nonce:       nonce,
		noncePublic: secret.curve.BasePoint().Mul(nonce),
	}, nil
}

// PublicKey returns the signer's long-term public key.
func (s *Signer) PublicKey() *PublicKey {
	return s.secret.Public()
}

// NonceCommitment returns R, the value published in round one.
func (s *Signer) NonceCommitment() Point {
	return s.noncePublic
}

// Sign computes the partial signature s_i = r_i + e*a_i*x_i for this
// signer's slot in the ceremony. The secret nonce is zeroized before
// returning; a second call fails rather than reuse it.
func (s *Signer) Sign(pc *PartialCollector) (int, Scalar, error) {
	if s.consumed {
		return 0, nil, fmt.Errorf("%w: nonce already consumed", ErrSessionClosed)
	}

	index, err := pc.Index(s.PublicKey())
	if err != nil {
		return 0, nil, err
	}
	entry := pc.entries[index]
	if !entry.nonce.Equal(s.noncePublic) {
		return 0, nil, fmt.Errorf("ceremony holds a different nonce commitment for this signer")
	}

	partial := s.nonce.Add(pc.challenge.Mul(entry.coeff).Mul(s.secret.scalar))

	s.consumed = true
	s.nonce.Zeroize()

	return index, partial, nil
}

// Abort discards the signer's nonce without producing a partial.
func (s *Signer) Abort() {
	if !s.consumed {
		s.nonce.Zeroize()
		s.consumed = true
	}
}
