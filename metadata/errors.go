package metadata

import (
	"fmt"

	"github.com/catalyst-tools/regnode/types"
)

// Field names reported by InvalidFieldError. One per deserializable field,
// so decode failures are never conflated across fields.
const (
	FieldVoteKey         = "vote key"
	FieldVerificationKey = "verification key"
	FieldRewardsAddress  = "rewards address"
	FieldSignature       = "signature"
)

// MissingFieldError reports an absent metadata tag or key. Key is 0 when
// the whole tag entry is missing (0 is never a valid registration key).
type MissingFieldError struct {
	Tag uint64
	Key uint64
}

func (e *MissingFieldError) Error() string {
	if e.Key == 0 {
		return fmt.Sprintf("metadata is missing tag %d", e.Tag)
	}
	return fmt.Sprintf("metadata tag %d is missing key %d", e.Tag, e.Key)
}

// UnexpectedTypeError reports a metadata value whose shape does not match
// the expected one (bytes where an int was expected, or vice versa).
type UnexpectedTypeError struct {
	Tag      uint64
	Key      uint64
	Expected string
	Actual   string
}

func (e *UnexpectedTypeError) Error() string {
	return fmt.Sprintf("metadata tag %d key %d: expected %s, got %s",
		e.Tag, e.Key, e.Expected, e.Actual)
}

// InvalidFieldError reports field bytes that do not deserialize as the
// expected key, address or signature type.
type InvalidFieldError struct {
	Field string
	Err   error
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *InvalidFieldError) Unwrap() error {
	return e.Err
}

// InvalidSignatureError reports a structurally valid registration whose
// signature does not verify against its verification key. It carries the
// rejected payload and signature for auditing.
type InvalidSignatureError struct {
	Payload   types.VotePayload
	Signature types.Signature
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("registration signature %x does not verify for vote key %s slot %d",
		e.Signature[:8], e.Payload.VoteKey, e.Payload.Slot)
}
