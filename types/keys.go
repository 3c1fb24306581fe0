package types

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// VoteKey is the voting public key included in a registration.
type VoteKey [VoteKeySize]byte

// VerificationKey is the stake verification key that authorizes a
// registration.
type VerificationKey [VerificationKeySize]byte

// Signature contains an Ed25519 detached signature.
type Signature [SignatureSize]byte

// VoteKeyFromBytes converts the given raw bytes into a VoteKey
func VoteKeyFromBytes(b []byte) (VoteKey, error) {
	var k VoteKey
	if len(b) != VoteKeySize {
		return k, fmt.Errorf("unexpected vote key length: %d", len(b))
	}
	copy(k[:], b)
	return k, nil
}

// VerificationKeyFromBytes converts the given raw bytes into a
// VerificationKey
func VerificationKeyFromBytes(b []byte) (VerificationKey, error) {
	var k VerificationKey
	if len(b) != VerificationKeySize {
		return k, fmt.Errorf("unexpected verification key length: %d", len(b))
	}
	copy(k[:], b)
	return k, nil
}

// SignatureFromBytes converts the given raw bytes into a Signature
func SignatureFromBytes(b []byte) (Signature, error) {
	var s Signature
	if len(b) != SignatureSize {
		return s, fmt.Errorf("unexpected signature length: %d", len(b))
	}
	copy(s[:], b)
	return s, nil
}

// HexToVoteKey converts the given hex representation of a VoteKey
func HexToVoteKey(h string) (VoteKey, error) {
	b, err := hex.DecodeString(h)
	if err != nil {
		return VoteKey{}, err
	}
	return VoteKeyFromBytes(b)
}

func (k VoteKey) String() string {
	return hex.EncodeToString(k[:])
}

func (k VerificationKey) String() string {
	return hex.EncodeToString(k[:])
}

// Verify checks the given detached signature over msg against the
// verification key.
func (k VerificationKey) Verify(msg []byte, sig Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(k[:]), msg, sig[:])
}

// SigningKey holds an Ed25519 signing key. It signs in-process; external
// signing tools are wrapped by the chain package instead.
type SigningKey struct {
	priv ed25519.PrivateKey
}

// NewSigningKey generates a new random SigningKey
func NewSigningKey() (*SigningKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &SigningKey{priv: priv}, nil
}

// SigningKeyFromSeed returns the SigningKey derived from the given 32-byte
// seed
func SigningKeyFromSeed(seed []byte) (*SigningKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("unexpected signing key seed length: %d", len(seed))
	}
	return &SigningKey{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// Sign returns the detached signature of msg
func (k *SigningKey) Sign(msg []byte) Signature {
	var s Signature
	copy(s[:], ed25519.Sign(k.priv, msg))
	return s
}

// VerificationKey returns the verification key counterpart of the signing
// key
func (k *SigningKey) VerificationKey() VerificationKey {
	var vk VerificationKey
	copy(vk[:], k.priv.Public().(ed25519.PublicKey))
	return vk
}
