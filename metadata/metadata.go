// Package metadata implements the tagged metadata encoding of vote
// registrations: tag 61284 holds the payload fields under integer keys 1..4
// and tag 61285 holds the detached signature under key 1. Decoding is a
// strict pipeline that reports structural problems (missing or malformed
// fields) before semantic ones (a signature that does not verify).
package metadata

import (
	"errors"
	"fmt"

	"github.com/catalyst-tools/regnode/types"
)

// Metadata is a generic tagged metadata document: top-level integer tags,
// each holding a map of small integer keys to values. Values are []byte for
// byte strings and uint64 for integers.
type Metadata map[uint64]map[uint64]interface{}

// Keys of the registration entry (tag 61284)
const (
	keyVoteKey         = 1
	keyVerificationKey = 2
	keyRewardsAddress  = 3
	keySlot            = 4
)

// Key of the signature entry (tag 61285)
const keySignature = 1

// Encode returns the metadata document carrying the given vote. The two tag
// entries are independent; their union forms the document. Encoding the
// same Vote always yields an identical document.
func Encode(v types.Vote) Metadata {
	p := v.Payload()
	sig := v.Signature()
	return Metadata{
		types.MetadataRegistrationTag: {
			keyVoteKey:         p.VoteKey[:],
			keyVerificationKey: p.VerificationKey[:],
			keyRewardsAddress:  p.RewardsAddress[:],
			keySlot:            p.Slot,
		},
		types.MetadataSignatureTag: {
			keySignature: sig[:],
		},
	}
}

// Decode validates the document and returns the carried Vote. The pipeline
// is fully ordered: tag 61284 lookup, its keys 1..4, tag 61285 and its key
// 1, per-field deserialization, and finally signature verification. Failure
// at any step short-circuits with the specific error for that step.
func Decode(m Metadata) (types.Vote, error) {
	reg, ok := m[types.MetadataRegistrationTag]
	if !ok {
		return types.Vote{}, &MissingFieldError{Tag: types.MetadataRegistrationTag}
	}
	voteKeyB, err := bytesValue(reg, types.MetadataRegistrationTag, keyVoteKey)
	if err != nil {
		return types.Vote{}, err
	}
	verKeyB, err := bytesValue(reg, types.MetadataRegistrationTag, keyVerificationKey)
	if err != nil {
		return types.Vote{}, err
	}
	rewardsB, err := bytesValue(reg, types.MetadataRegistrationTag, keyRewardsAddress)
	if err != nil {
		return types.Vote{}, err
	}
	slot, err := intValue(reg, types.MetadataRegistrationTag, keySlot)
	if err != nil {
		return types.Vote{}, err
	}

	sigEntry, ok := m[types.MetadataSignatureTag]
	if !ok {
		return types.Vote{}, &MissingFieldError{Tag: types.MetadataSignatureTag}
	}
	sigB, err := bytesValue(sigEntry, types.MetadataSignatureTag, keySignature)
	if err != nil {
		return types.Vote{}, err
	}

	voteKey, err := types.VoteKeyFromBytes(voteKeyB)
	if err != nil {
		return types.Vote{}, &InvalidFieldError{Field: FieldVoteKey, Err: err}
	}
	verKey, err := types.VerificationKeyFromBytes(verKeyB)
	if err != nil {
		return types.Vote{}, &InvalidFieldError{Field: FieldVerificationKey, Err: err}
	}
	rewards, err := types.RewardsAddressFromBytes(rewardsB)
	if err != nil {
		return types.Vote{}, &InvalidFieldError{Field: FieldRewardsAddress, Err: err}
	}
	sig, err := types.SignatureFromBytes(sigB)
	if err != nil {
		return types.Vote{}, &InvalidFieldError{Field: FieldSignature, Err: err}
	}

	payload := types.VotePayload{
		VoteKey:         voteKey,
		VerificationKey: verKey,
		RewardsAddress:  rewards,
		Slot:            slot,
	}
	vote, err := types.NewVote(payload, sig)
	if err != nil {
		if errors.Is(err, types.ErrSignatureMismatch) {
			return types.Vote{}, &InvalidSignatureError{Payload: payload, Signature: sig}
		}
		return types.Vote{}, err
	}
	return vote, nil
}

func bytesValue(entry map[uint64]interface{}, tag, key uint64) ([]byte, error) {
	v, ok := entry[key]
	if !ok {
		return nil, &MissingFieldError{Tag: tag, Key: key}
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, &UnexpectedTypeError{Tag: tag, Key: key,
			Expected: "bytes", Actual: valueShape(v)}
	}
	return b, nil
}

func intValue(entry map[uint64]interface{}, tag, key uint64) (uint64, error) {
	v, ok := entry[key]
	if !ok {
		return 0, &MissingFieldError{Tag: tag, Key: key}
	}
	switch n := v.(type) {
	case uint64:
		return n, nil
	case int:
		if n >= 0 {
			return uint64(n), nil
		}
	case int64:
		if n >= 0 {
			return uint64(n), nil
		}
	}
	return 0, &UnexpectedTypeError{Tag: tag, Key: key,
		Expected: "int", Actual: valueShape(v)}
}

func valueShape(v interface{}) string {
	switch n := v.(type) {
	case []byte:
		return "bytes"
	case uint64:
		return "int"
	case int:
		if n < 0 {
			return "negative int"
		}
		return "int"
	case int64:
		if n < 0 {
			return "negative int"
		}
		return "int"
	default:
		return fmt.Sprintf("%T", v)
	}
}
