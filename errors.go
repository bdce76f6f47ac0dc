package commitsig

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by decoding, key construction and protocol
// operations. Callers branch on these with errors.Is.
var (
	// ErrInvalidEncoding is returned when scalar or point bytes are not a
	// canonical encoding of a group element.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrIdentityRejected is returned when decoded bytes map to the group
	// identity in a context that requires a non-identity point.
	ErrIdentityRejected = errors.New("identity element rejected")

	// ErrInvalidKeyMaterial is returned when secret or public key bytes
	// fail canonical validation.
	ErrInvalidKeyMaterial = errors.New("invalid key material")

	// ErrVerificationFailed is returned when a signature or commitment
	// check does not hold. It never distinguishes which internal check
	// failed.
	ErrVerificationFailed = errors.New("verification failed")

	// ErrValueOutOfRange is returned when a value exceeds the bit width
	// supported by the range-proof system.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrDuplicateParticipant is returned when the same participant is
	// contributed twice to a signing ceremony.
	ErrDuplicateParticipant = errors.New("duplicate participant")

	// ErrIncompleteRound is returned when a ceremony round is advanced
	// before all expected contributions have arrived.
	ErrIncompleteRound = errors.New("incomplete round")

	// ErrInvalidPartialSignature is the errors.Is target for
	// PartialSignatureError.
	ErrInvalidPartialSignature = errors.New("invalid partial signature")

	// ErrRandomnessUnavailable is returned when the entropy source fails.
	// Operations never fall back to a weaker source.
	ErrRandomnessUnavailable = errors.New("randomness unavailable")

	// ErrSessionClosed is returned when a finalized or aborted signing
	// session is used again.
	ErrSessionClosed = errors.New("signing session closed")

	ErrScalarZero = errors.New("scalar is zero")
)

// Length errors wrap ErrInvalidEncoding so callers can branch on either
// the specific or the general condition.
var (
	ErrInvalidScalarLength = fmt.Errorf("%w: invalid scalar length", ErrInvalidEncoding)
	ErrInvalidPointLength  = fmt.Errorf("%w: invalid point length", ErrInvalidEncoding)
)

// PartialSignatureError identifies the participant whose partial signature
// failed verification, so a faulty party can be isolated without discarding
// the contributions of the others.
type PartialSignatureError struct {
	Index int
}

func (e *PartialSignatureError) Error() string {
	return fmt.Sprintf("invalid partial signature from participant %d", e.Index)
}

func (e *PartialSignatureError) Unwrap() error {
	return ErrInvalidPartialSignature
}
