package txbuilder_test

import (
	"encoding/binary"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/catalyst-tools/regnode/chain"
	"github.com/catalyst-tools/regnode/metadata"
	"github.com/catalyst-tools/regnode/test"
	"github.com/catalyst-tools/regnode/txbuilder"
	"github.com/catalyst-tools/regnode/types"
)

func testVote(c *qt.C) types.Vote {
	keys := test.GenUserKeys(c, 1)
	return test.GenVotes(c, keys, 1000)[0]
}

func testPaymentSigner(c *qt.C) *chain.LocalSigner {
	seed := make([]byte, 32)
	binary.LittleEndian.PutUint64(seed, 2000)
	key, err := types.SigningKeyFromSeed(seed)
	c.Assert(err, qt.IsNil)
	return chain.NewLocalSigner(key)
}

func TestBuildTxBody(t *testing.T) {
	c := qt.New(t)

	vote := testVote(c)
	meta := metadata.Encode(vote)
	metaBytes, err := meta.Bytes()
	c.Assert(err, qt.IsNil)

	utxos := test.GenUTXOs(2000000)
	sel, err := txbuilder.SelectInputs(utxos, testFeeParams, len(metaBytes))
	c.Assert(err, qt.IsNil)

	body, err := txbuilder.BuildTxBody(sel, test.GenPaymentAddress(), meta, 5000, 7200)
	c.Assert(err, qt.IsNil)
	c.Assert(body.Inputs, qt.DeepEquals, []txbuilder.OutPoint{utxos[0].OutPoint})
	c.Assert(body.ChangeValue, qt.Equals, sel.Total-sel.Fee)
	c.Assert(body.Fee, qt.Equals, sel.Fee)
	c.Assert(body.TTL, qt.Equals, uint64(12200))

	_, err = txbuilder.BuildTxBody(sel, nil, meta, 5000, 7200)
	c.Assert(err, qt.ErrorMatches, "empty change address")

	_, err = txbuilder.BuildTxBody(nil, test.GenPaymentAddress(), meta, 5000, 7200)
	c.Assert(err, qt.Equals, txbuilder.ErrNoUnspentOutputs)
}

func TestAssembleChangeMath(t *testing.T) {
	c := qt.New(t)

	vote := testVote(c)
	utxos := test.GenUTXOs(2000000)
	body, err := txbuilder.Assemble(vote, utxos, testFeeParams,
		test.GenPaymentAddress(), 5000, 7200)
	c.Assert(err, qt.IsNil)

	// change plus fee accounts for the full selected value
	c.Assert(body.ChangeValue+body.Fee, qt.Equals, uint64(2000000))
	c.Assert(body.ChangeValue >= testFeeParams.MinUTXOValue, qt.IsTrue)
}

func TestTxBodyBytesDeterministic(t *testing.T) {
	c := qt.New(t)

	vote := testVote(c)
	body, err := txbuilder.Assemble(vote, test.GenUTXOs(2000000), testFeeParams,
		test.GenPaymentAddress(), 5000, 7200)
	c.Assert(err, qt.IsNil)

	b1, err := body.Bytes()
	c.Assert(err, qt.IsNil)
	b2, err := body.Bytes()
	c.Assert(err, qt.IsNil)
	c.Assert(b1, qt.DeepEquals, b2)

	h1, err := body.Hash()
	c.Assert(err, qt.IsNil)
	c.Assert(len(h1), qt.Equals, 32)

	// a different TTL yields a different body and hash
	body2 := *body
	body2.TTL++
	h2, err := body2.Hash()
	c.Assert(err, qt.IsNil)
	c.Assert(h2, qt.Not(qt.DeepEquals), h1)
}

func TestSignTx(t *testing.T) {
	c := qt.New(t)

	vote := testVote(c)
	body, err := txbuilder.Assemble(vote, test.GenUTXOs(2000000), testFeeParams,
		test.GenPaymentAddress(), 5000, 7200)
	c.Assert(err, qt.IsNil)
	before, err := body.Bytes()
	c.Assert(err, qt.IsNil)

	signer := testPaymentSigner(c)
	signed, err := txbuilder.SignTx(body, signer)
	c.Assert(err, qt.IsNil)

	// the witness verifies against the body hash
	msg, err := body.Hash()
	c.Assert(err, qt.IsNil)
	c.Assert(signed.Witness.VKey.Verify(msg, signed.Witness.Signature), qt.IsTrue)
	c.Assert(signed.Witness.VKey, qt.Equals, signer.VerificationKey())

	// signing does not modify the body
	after, err := body.Bytes()
	c.Assert(err, qt.IsNil)
	c.Assert(after, qt.DeepEquals, before)

	// the transaction id is the body hash
	id, err := signed.ID()
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.DeepEquals, msg)

	raw, err := signed.Bytes()
	c.Assert(err, qt.IsNil)
	c.Assert(len(raw) > len(before), qt.IsTrue)

	_, err = txbuilder.SignTx(body, nil)
	c.Assert(err, qt.ErrorMatches, "no payment signer provided")
}
