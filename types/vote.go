package types

import (
	"errors"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// ErrSignatureMismatch is returned by NewVote when the signature does not
// verify against the payload's verification key
var ErrSignatureMismatch = errors.New("signature does not verify against the payload verification key")

// canonicalEnc is the deterministic CBOR encoding mode used for all
// signing-relevant serializations.
var canonicalEnc cbor.EncMode

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	canonicalEnc = em
}

// CanonicalCBOR encodes v with the deterministic encoding options, so the
// same value always yields byte-identical output
func CanonicalCBOR(v interface{}) ([]byte, error) {
	return canonicalEnc.Marshal(v)
}

// VotePayload is the unsigned content of a vote registration
type VotePayload struct {
	VoteKey         VoteKey
	VerificationKey VerificationKey
	RewardsAddress  RewardsAddress
	Slot            uint64
}

// registrationWire is the canonical shape of the registration metadata
// entry: integer keys 1..4 under tag 61284.
type registrationWire struct {
	VoteKey         []byte `cbor:"1,keyasint"`
	VerificationKey []byte `cbor:"2,keyasint"`
	RewardsAddress  []byte `cbor:"3,keyasint"`
	Slot            uint64 `cbor:"4,keyasint"`
}

// SigningBytes returns the canonical serialization of the payload: the
// deterministic CBOR encoding of the metadata document holding only the
// registration entry
func (p VotePayload) SigningBytes() ([]byte, error) {
	doc := map[uint64]registrationWire{
		MetadataRegistrationTag: {
			VoteKey:         p.VoteKey[:],
			VerificationKey: p.VerificationKey[:],
			RewardsAddress:  p.RewardsAddress[:],
			Slot:            p.Slot,
		},
	}
	return CanonicalCBOR(doc)
}

// SigningHash returns the blake2b-256 digest of SigningBytes. It is the
// message covered by the registration signature.
func (p VotePayload) SigningHash() ([]byte, error) {
	b, err := p.SigningBytes()
	if err != nil {
		return nil, err
	}
	h := blake2b.Sum256(b)
	return h[:], nil
}

// Vote is a VotePayload together with its verified detached signature.
// NewVote is the only way to construct one, so a Vote whose signature does
// not verify can not exist.
type Vote struct {
	payload   VotePayload
	signature Signature
}

// NewVote verifies sig over the canonical serialization of payload and, on
// success, returns the Vote. ErrSignatureMismatch is returned when the
// check fails.
func NewVote(payload VotePayload, sig Signature) (Vote, error) {
	msg, err := payload.SigningHash()
	if err != nil {
		return Vote{}, err
	}
	if !payload.VerificationKey.Verify(msg, sig) {
		return Vote{}, ErrSignatureMismatch
	}
	return Vote{payload: payload, signature: sig}, nil
}

// SignVote signs the payload with the given stake signing key and returns
// the resulting Vote
func SignVote(payload VotePayload, sk *SigningKey) (Vote, error) {
	msg, err := payload.SigningHash()
	if err != nil {
		return Vote{}, err
	}
	return NewVote(payload, sk.Sign(msg))
}

// Payload returns the signed payload
func (v Vote) Payload() VotePayload {
	return v.payload
}

// Signature returns the detached signature over the payload
func (v Vote) Signature() Signature {
	return v.signature
}

// Registration returns the storable representation of the vote
func (v Vote) Registration() Registration {
	return Registration{
		VoteKey:         ByteArray(v.payload.VoteKey[:]),
		VerificationKey: ByteArray(v.payload.VerificationKey[:]),
		RewardsAddress:  ByteArray(v.payload.RewardsAddress[:]),
		Slot:            v.payload.Slot,
		Signature:       ByteArray(v.signature[:]),
	}
}
