package signer

import (
	stded25519 "crypto/ed25519"

	"github.com/hdevalence/ed25519consensus"
	"lukechampine.com/frand"
)

// Ed25519Signer is a concrete, in-process Signer used by tests and the
// cmd/ examples. spec.md §8.4 notes that deterministic signing test
// vectors only apply to an "Ed25519-style signer" (Sr25519 uses a random
// nonce per signature), which is exactly the role this type fills;
// production embedders are expected to supply their own Signer backed by
// a secure element, per spec.md §1/§6.
type Ed25519Signer struct {
	priv stded25519.PrivateKey
	pub  [32]byte
}

// NewEd25519Signer derives an Ed25519Signer from a 32-byte seed.
func NewEd25519Signer(seed [32]byte) *Ed25519Signer {
	priv := stded25519.NewKeyFromSeed(seed[:])
	s := &Ed25519Signer{priv: priv}
	copy(s.pub[:], priv.Public().(stded25519.PublicKey))
	return s
}

// GenerateEd25519Signer creates an Ed25519Signer from fresh entropy.
func GenerateEd25519Signer() *Ed25519Signer {
	seedBytes := make([]byte, stded25519.SeedSize)
	frand.Read(seedBytes)
	var seed [32]byte
	copy(seed[:], seedBytes)
	for i := range seedBytes {
		seedBytes[i] = 0
	}
	return NewEd25519Signer(seed)
}

// GetPublic implements Signer.
func (s *Ed25519Signer) GetPublic() [32]byte {
	return s.pub
}

// Sign implements Signer.
func (s *Ed25519Signer) Sign(payload []byte, sigOut *[64]byte) {
	sig := stded25519.Sign(s.priv, payload)
	copy(sigOut[:], sig)
}

// Scheme implements SchemeSigner.
func (s *Ed25519Signer) Scheme() Scheme {
	return SchemeEd25519
}

// Verify checks that sig is a valid Ed25519 signature of payload under
// pub, using the consensus-critical (cofactored) verification equation
// from ed25519consensus rather than stdlib's.
func Verify(pub [32]byte, payload []byte, sig [64]byte) bool {
	return ed25519consensus.Verify(pub[:], payload, sig[:])
}
