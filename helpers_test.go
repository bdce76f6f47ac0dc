package commitsig

import (
	"crypto/sha256"
	"io"
)

// detReader is a deterministic entropy source for reproducible tests:
// a hash chain seeded with a fixed byte. Never use outside tests.
type detReader struct {
	state [32]byte
	buf   []byte
}

func newDetReader(seed byte) *detReader {
	r := &detReader{}
	r.state = sha256.Sum256([]byte{seed})
	return r
}

func (r *detReader) Read(p []byte) (int, error) {
	for len(r.buf) < len(p) {
		r.state = sha256.Sum256(r.state[:])
		r.buf = append(r.buf, r.state[:]...)
	}
	copy(p, r.buf[:len(p)])
	r.buf = r.buf[len(p):]
	return len(p), nil
}

// failingReader always errors, simulating an unavailable entropy source.
type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func testCurves() map[string]Curve {
	return map[string]Curve{
		"ed25519":   NewEd25519Curve(),
		"secp256k1": NewSecp256k1Curve(),
	}
}
