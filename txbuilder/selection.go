package txbuilder

import (
	"errors"
	"fmt"
)

// ErrNoUnspentOutputs is returned when the UTXO query returned no
// spendable outputs at the payment address
var ErrNoUnspentOutputs = errors.New("no unspent outputs available at the payment address")

// InsufficientFundsError reports that the available unspent value can not
// cover the transaction fee plus the minimum change output. It is terminal:
// the engine never retries, re-querying UTXOs is the caller's concern.
type InsufficientFundsError struct {
	Available uint64
	Needed    uint64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: %d available, %d needed to cover fee and minimum output",
		e.Available, e.Needed)
}

// Selection is the result of coin selection: the chosen inputs in the
// order they were supplied, their accumulated value, and the fee computed
// for the final input count.
type Selection struct {
	Inputs []UTXO
	Total  uint64
	Fee    uint64
}

// SelectInputs accumulates unspent outputs, in the order supplied, until
// they cover the transaction fee plus the minimum change output value. The
// supplied order is authoritative and never re-sorted, so selection is
// deterministic for a fixed input set.
//
// The fee depends on the input count and the input count depends on the
// fee, so selection runs in passes: each pass recomputes the fee for the
// current count and, if the accumulated value no longer covers it, consumes
// one more output. The loop runs at most len(utxos) passes.
func SelectInputs(utxos []UTXO, params FeeParams, metadataSize int) (*Selection, error) {
	if len(utxos) == 0 {
		return nil, ErrNoUnspentOutputs
	}

	var total uint64
	for n := 1; n <= len(utxos); n++ {
		total += utxos[n-1].Value
		fee := FeeForSize(params, EstimateTxSize(n, metadataSize))
		if total >= fee+params.MinUTXOValue {
			return &Selection{
				Inputs: utxos[:n:n],
				Total:  total,
				Fee:    fee,
			}, nil
		}
	}

	return nil, &InsufficientFundsError{
		Available: total,
		Needed: FeeForSize(params, EstimateTxSize(len(utxos), metadataSize)) +
			params.MinUTXOValue,
	}
}
