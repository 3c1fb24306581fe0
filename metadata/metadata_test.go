package metadata_test

import (
	"encoding/json"
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/catalyst-tools/regnode/metadata"
	"github.com/catalyst-tools/regnode/test"
	"github.com/catalyst-tools/regnode/types"
)

func testVote(c *qt.C) types.Vote {
	keys := test.GenUserKeys(c, 1)
	return test.GenVotes(c, keys, 1000)[0]
}

func TestEncodeShape(t *testing.T) {
	c := qt.New(t)

	vote := testVote(c)
	m := metadata.Encode(vote)

	p := vote.Payload()
	reg, ok := m[types.MetadataRegistrationTag]
	c.Assert(ok, qt.IsTrue)
	c.Assert(reg[1], qt.DeepEquals, p.VoteKey[:])
	c.Assert(reg[2], qt.DeepEquals, p.VerificationKey[:])
	c.Assert(reg[3], qt.DeepEquals, p.RewardsAddress[:])
	c.Assert(reg[4], qt.Equals, p.Slot)

	sigEntry, ok := m[types.MetadataSignatureTag]
	c.Assert(ok, qt.IsTrue)
	sig := vote.Signature()
	c.Assert(sigEntry[1], qt.DeepEquals, sig[:])
}

func TestDecodeRoundTrip(t *testing.T) {
	c := qt.New(t)

	vote := testVote(c)
	decoded, err := metadata.Decode(metadata.Encode(vote))
	c.Assert(err, qt.IsNil)
	c.Assert(decoded, qt.Equals, vote)
}

func TestDecodeMissingFields(t *testing.T) {
	c := qt.New(t)

	vote := testVote(c)

	// whole registration entry missing
	m := metadata.Encode(vote)
	delete(m, types.MetadataRegistrationTag)
	_, err := metadata.Decode(m)
	var missing *metadata.MissingFieldError
	c.Assert(errors.As(err, &missing), qt.IsTrue)
	c.Assert(missing.Tag, qt.Equals, uint64(types.MetadataRegistrationTag))
	c.Assert(missing.Key, qt.Equals, uint64(0))

	// whole signature entry missing
	m = metadata.Encode(vote)
	delete(m, types.MetadataSignatureTag)
	_, err = metadata.Decode(m)
	c.Assert(errors.As(err, &missing), qt.IsTrue)
	c.Assert(missing.Tag, qt.Equals, uint64(types.MetadataSignatureTag))
	c.Assert(missing.Key, qt.Equals, uint64(0))

	// each registration key missing, reported by exact key
	for key := uint64(1); key <= 4; key++ {
		m = metadata.Encode(vote)
		delete(m[types.MetadataRegistrationTag], key)
		_, err = metadata.Decode(m)
		c.Assert(errors.As(err, &missing), qt.IsTrue)
		c.Assert(missing.Tag, qt.Equals, uint64(types.MetadataRegistrationTag))
		c.Assert(missing.Key, qt.Equals, key)
	}

	// signature key missing
	m = metadata.Encode(vote)
	delete(m[types.MetadataSignatureTag], 1)
	_, err = metadata.Decode(m)
	c.Assert(errors.As(err, &missing), qt.IsTrue)
	c.Assert(missing.Tag, qt.Equals, uint64(types.MetadataSignatureTag))
	c.Assert(missing.Key, qt.Equals, uint64(1))
}

func TestDecodeUnexpectedTypes(t *testing.T) {
	c := qt.New(t)

	vote := testVote(c)

	// int where bytes expected
	m := metadata.Encode(vote)
	m[types.MetadataRegistrationTag][1] = uint64(7)
	_, err := metadata.Decode(m)
	var typeErr *metadata.UnexpectedTypeError
	c.Assert(errors.As(err, &typeErr), qt.IsTrue)
	c.Assert(typeErr.Key, qt.Equals, uint64(1))
	c.Assert(typeErr.Expected, qt.Equals, "bytes")
	c.Assert(typeErr.Actual, qt.Equals, "int")

	// bytes where int expected
	m = metadata.Encode(vote)
	m[types.MetadataRegistrationTag][4] = []byte{1, 2}
	_, err = metadata.Decode(m)
	c.Assert(errors.As(err, &typeErr), qt.IsTrue)
	c.Assert(typeErr.Key, qt.Equals, uint64(4))
	c.Assert(typeErr.Expected, qt.Equals, "int")
	c.Assert(typeErr.Actual, qt.Equals, "bytes")
}

func TestDecodeInvalidFields(t *testing.T) {
	c := qt.New(t)

	vote := testVote(c)

	cases := []struct {
		tag   uint64
		key   uint64
		field string
	}{
		{types.MetadataRegistrationTag, 1, metadata.FieldVoteKey},
		{types.MetadataRegistrationTag, 2, metadata.FieldVerificationKey},
		{types.MetadataRegistrationTag, 3, metadata.FieldRewardsAddress},
		{types.MetadataSignatureTag, 1, metadata.FieldSignature},
	}
	for _, tc := range cases {
		m := metadata.Encode(vote)
		m[tc.tag][tc.key] = []byte{0xff} // wrong length for every field type
		_, err := metadata.Decode(m)
		var invalid *metadata.InvalidFieldError
		c.Assert(errors.As(err, &invalid), qt.IsTrue,
			qt.Commentf("tag %d key %d", tc.tag, tc.key))
		c.Assert(invalid.Field, qt.Equals, tc.field)
	}
}

func TestDecodeTamperedPayload(t *testing.T) {
	c := qt.New(t)

	vote := testVote(c)

	// mutating the slot keeps the document structurally valid but breaks
	// the signature
	m := metadata.Encode(vote)
	m[types.MetadataRegistrationTag][4] = uint64(1001)
	_, err := metadata.Decode(m)
	var sigErr *metadata.InvalidSignatureError
	c.Assert(errors.As(err, &sigErr), qt.IsTrue)
	c.Assert(sigErr.Payload.Slot, qt.Equals, uint64(1001))
	c.Assert(sigErr.Signature, qt.Equals, vote.Signature())

	// flipping one bit of the vote key breaks the signature too
	m = metadata.Encode(vote)
	p := vote.Payload()
	tampered := make([]byte, len(p.VoteKey))
	copy(tampered, p.VoteKey[:])
	tampered[0] ^= 0x01
	m[types.MetadataRegistrationTag][1] = tampered
	_, err = metadata.Decode(m)
	c.Assert(errors.As(err, &sigErr), qt.IsTrue)

	// flipping one bit of the signature breaks verification
	m = metadata.Encode(vote)
	sig := vote.Signature()
	tamperedSig := make([]byte, len(sig))
	copy(tamperedSig, sig[:])
	tamperedSig[10] ^= 0x80
	m[types.MetadataSignatureTag][1] = tamperedSig
	_, err = metadata.Decode(m)
	c.Assert(errors.As(err, &sigErr), qt.IsTrue)
}

func TestCBORRoundTrip(t *testing.T) {
	c := qt.New(t)

	vote := testVote(c)
	m := metadata.Encode(vote)

	b1, err := m.Bytes()
	c.Assert(err, qt.IsNil)
	b2, err := m.Bytes()
	c.Assert(err, qt.IsNil)
	// deterministic encoding
	c.Assert(b1, qt.DeepEquals, b2)

	m2, err := metadata.FromBytes(b1)
	c.Assert(err, qt.IsNil)
	decoded, err := metadata.Decode(m2)
	c.Assert(err, qt.IsNil)
	c.Assert(decoded, qt.Equals, vote)

	_, err = metadata.FromBytes([]byte{0xff, 0x00})
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestJSONProjection(t *testing.T) {
	c := qt.New(t)

	vote := testVote(c)
	m := metadata.Encode(vote)

	j, err := json.Marshal(m)
	c.Assert(err, qt.IsNil)

	var m2 metadata.Metadata
	err = json.Unmarshal(j, &m2)
	c.Assert(err, qt.IsNil)

	// the projection is lossless: the decoded vote matches
	decoded, err := metadata.Decode(m2)
	c.Assert(err, qt.IsNil)
	c.Assert(decoded, qt.Equals, vote)

	// the projection itself carries no validation: a tampered document
	// still projects fine and only fails in Decode
	m2[types.MetadataRegistrationTag][4] = uint64(9999)
	j2, err := json.Marshal(m2)
	c.Assert(err, qt.IsNil)
	var m3 metadata.Metadata
	c.Assert(json.Unmarshal(j2, &m3), qt.IsNil)
	_, err = metadata.Decode(m3)
	var sigErr *metadata.InvalidSignatureError
	c.Assert(errors.As(err, &sigErr), qt.IsTrue)

	// non-0x strings are rejected at the syntax level
	err = json.Unmarshal([]byte(`{"61284":{"1":"abcd"}}`), &m3)
	c.Assert(err, qt.ErrorMatches, `metadata string value "abcd" is missing the 0x prefix`)
}
