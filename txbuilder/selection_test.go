package txbuilder_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/catalyst-tools/regnode/test"
	"github.com/catalyst-tools/regnode/txbuilder"
)

var testFeeParams = txbuilder.FeeParams{
	Base:         200000,
	PerByte:      44,
	MinUTXOValue: 1000000,
}

func TestFeeMonotonicity(t *testing.T) {
	c := qt.New(t)

	prev := uint64(0)
	for n := 1; n <= 10; n++ {
		fee := txbuilder.FeeForSize(testFeeParams, txbuilder.EstimateTxSize(n, 200))
		c.Assert(fee > prev, qt.IsTrue, qt.Commentf("n=%d", n))
		prev = fee
	}
}

func TestSelectSingleInput(t *testing.T) {
	c := qt.New(t)

	// one unspent source of value 2,000,000, fee parameters
	// (base=200000, perByte=44), metadata size 200 bytes
	utxos := test.GenUTXOs(2000000)
	sel, err := txbuilder.SelectInputs(utxos, testFeeParams, 200)
	c.Assert(err, qt.IsNil)
	c.Assert(len(sel.Inputs), qt.Equals, 1)
	c.Assert(sel.Total, qt.Equals, uint64(2000000))

	c.Assert(sel.Fee, qt.Equals, uint64(218480))
	c.Assert(sel.Total-sel.Fee, qt.Equals, uint64(1781520))

	// same inputs, same selection, every run
	for i := 0; i < 5; i++ {
		sel2, err := txbuilder.SelectInputs(utxos, testFeeParams, 200)
		c.Assert(err, qt.IsNil)
		c.Assert(sel2, qt.DeepEquals, sel)
	}
}

func TestSelectSuppliedOrder(t *testing.T) {
	c := qt.New(t)

	// the first source already suffices; the larger later one is ignored
	// because the supplied order is authoritative
	utxos := test.GenUTXOs(2000000, 9000000)
	sel, err := txbuilder.SelectInputs(utxos, testFeeParams, 200)
	c.Assert(err, qt.IsNil)
	c.Assert(len(sel.Inputs), qt.Equals, 1)
	c.Assert(sel.Inputs[0], qt.Equals, utxos[0])
}

func TestSelectFeeGrowsWithInputs(t *testing.T) {
	c := qt.New(t)

	fee1 := txbuilder.FeeForSize(testFeeParams, txbuilder.EstimateTxSize(1, 0))
	// the first source alone covers neither fee nor minimum output, so
	// the second pass must extend the selection and recompute the fee
	// for two inputs
	utxos := test.GenUTXOs(fee1+testFeeParams.MinUTXOValue-1000, 500000)
	sel, err := txbuilder.SelectInputs(utxos, testFeeParams, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(len(sel.Inputs), qt.Equals, 2)

	fee2 := txbuilder.FeeForSize(testFeeParams, txbuilder.EstimateTxSize(2, 0))
	c.Assert(sel.Fee, qt.Equals, fee2)
	c.Assert(fee2 > fee1, qt.IsTrue)
	c.Assert(sel.Total >= sel.Fee+testFeeParams.MinUTXOValue, qt.IsTrue)
}

func TestSelectInsufficientFunds(t *testing.T) {
	c := qt.New(t)

	utxos := test.GenUTXOs(100000, 100000, 100000)
	_, err := txbuilder.SelectInputs(utxos, testFeeParams, 200)
	var insufficient *txbuilder.InsufficientFundsError
	c.Assert(errors.As(err, &insufficient), qt.IsTrue)
	c.Assert(insufficient.Available, qt.Equals, uint64(300000))
	wantNeeded := txbuilder.FeeForSize(testFeeParams,
		txbuilder.EstimateTxSize(3, 200)) + testFeeParams.MinUTXOValue
	c.Assert(insufficient.Needed, qt.Equals, wantNeeded)
}

func TestSelectNoUnspentOutputs(t *testing.T) {
	c := qt.New(t)

	_, err := txbuilder.SelectInputs(nil, testFeeParams, 200)
	c.Assert(err, qt.Equals, txbuilder.ErrNoUnspentOutputs)
}
