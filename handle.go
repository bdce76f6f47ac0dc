package commitsig

import (
	"fmt"
	"io"
	"sync"
)

// The foreign-function boundary exposes library objects as opaque
// integer handles so a C-compatible caller never holds Go pointers.
// Handles own their underlying data; the caller must release each one
// through DestroyHandle, which zeroizes secret material. The cgo export
// shims and header generation live outside this package.

// Handle is an opaque reference to a library-owned object.
type Handle uint64

type handleTable struct {
	mu      sync.Mutex
	next    Handle
	objects map[Handle]any
}

var handles = handleTable{next: 1, objects: make(map[Handle]any)}

func (t *handleTable) put(obj any) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.next
	t.next++
	t.objects[h] = obj
	return h
}

func (t *handleTable) get(h Handle) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	obj, ok := t.objects[h]
	return obj, ok
}

func (t *handleTable) remove(h Handle) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	obj, ok := t.objects[h]
	if ok {
		delete(t.objects, h)
	}
	return obj, ok
}

// NewKeyPairHandle generates a key pair and returns a handle owning the
// secret key, along with the encoded public key.
func NewKeyPairHandle(curveType CurveType, random io.Reader) (Handle, []byte, error) {
	curve, err := NewCurve(curveType)
	if err != nil {
		return 0, nil, err
	}

	secret, pub, err := GenerateKeyPair(curve, random)
	if err != nil {
		return 0, nil, err
	}

	return handles.put(secret), pub.Bytes(), nil
}

// SecretKeyHandleFromBytes validates secret key bytes and returns an
// owning handle.
func SecretKeyHandleFromBytes(curveType CurveType, data []byte) (Handle, error) {
	curve, err := NewCurve(curveType)
	if err != nil {
		return 0, err
	}

	secret, err := SecretKeyFromBytes(curve, data)
	if err != nil {
		return 0, err
	}

	return handles.put(secret), nil
}

// PublicKeyFromHandle returns the encoded public key for a secret key
// handle.
func PublicKeyFromHandle(h Handle) ([]byte, error) {
	secret, err := secretKeyFromHandle(h)
	if err != nil {
		return nil, err
	}
	return secret.Public().Bytes(), nil
}

// SignWithHandle signs a message with the secret key behind the handle
// and returns the serialized signature.
func SignWithHandle(h Handle, message []byte, random io.Reader) ([]byte, error) {
	secret, err := secretKeyFromHandle(h)
	if err != nil {
		return nil, err
	}

	sig, err := Sign(secret, message, random)
	if err != nil {
		return nil, err
	}
	return sig.Bytes(), nil
}

// VerifyBytes verifies a serialized signature against encoded public key
// bytes. It needs no handle: no secret material is involved.
func VerifyBytes(curveType CurveType, pubBytes, message, sigBytes []byte) (bool, error) {
	curve, err := NewCurve(curveType)
	if err != nil {
		return false, err
	}

	pub, err := PublicKeyFromBytes(curve, pubBytes)
	if err != nil {
		return false, err
	}

	sig, err := SignatureFromBytes(curve, sigBytes)
	if err != nil {
		return false, err
	}

	return sig.Verify(pub, message), nil
}

// CommitBytes produces a Pedersen commitment to a 64-bit value under the
// default generator set for the curve.
func CommitBytes(curveType CurveType, value uint64, blindingBytes []byte) ([]byte, error) {
	curve, err := NewCurve(curveType)
	if err != nil {
		return nil, err
	}

	blinding, err := curve.ScalarFromBytes(blindingBytes)
	if err != nil {
		return nil, err
	}
	defer blinding.Zeroize()

	gens, err := NewGeneratorSet(curve)
	if err != nil {
		return nil, err
	}
	factory, err := NewCommitmentFactory(gens)
	if err != nil {
		return nil, err
	}

	c, err := factory.CommitValue(value, blinding)
	if err != nil {
		return nil, err
	}
	return c.Bytes(), nil
}

// OpenCommitmentBytes verifies that a commitment opens to the claimed
// value and blinding factor.
func OpenCommitmentBytes(curveType CurveType, commitmentBytes []byte, value uint64, blindingBytes []byte) (bool, error) {
	curve, err := NewCurve(curveType)
	if err != nil {
		return false, err
	}

	blinding, err := curve.ScalarFromBytes(blindingBytes)
	if err != nil {
		return false, err
	}
	defer blinding.Zeroize()

	c, err := CommitmentFromBytes(curve, commitmentBytes)
	if err != nil {
		return false, err
	}

	gens, err := NewGeneratorSet(curve)
	if err != nil {
		return false, err
	}
	factory, err := NewCommitmentFactory(gens)
	if err != nil {
		return false, err
	}

	return factory.OpenValue(c, value, blinding), nil
}

// DestroyHandle releases a handle, zeroizing any secret material it
// owns. Using the handle afterwards fails.
func DestroyHandle(h Handle) error {
	obj, ok := handles.remove(h)
	if !ok {
		return fmt.Errorf("unknown handle %d", h)
	}

	if secret, ok := obj.(*SecretKey); ok {
		secret.Zeroize()
	}
	return nil
}

func secretKeyFromHandle(h Handle) (*SecretKey, error) {
	obj, ok := handles.get(h)
	if !ok {
		return nil, fmt.Errorf("unknown handle %d", h)
	}
	secret, ok := obj.(*SecretKey)
	if !ok {
		return nil, fmt.Errorf("handle %d does not reference a secret key", h)
	}
	return secret, nil
}
