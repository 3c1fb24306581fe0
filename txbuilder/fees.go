// Package txbuilder turns a verified vote registration into a fee-correct
// transaction: it estimates transaction sizes, selects unspent outputs
// under the protocol's linear fee model, and assembles and signs the
// transaction carrying the registration metadata.
package txbuilder

import (
	"encoding/hex"
	"fmt"
)

// OutPoint references a transaction output by transaction hash and output
// index.
type OutPoint struct {
	TxHash [32]byte
	Index  uint32
}

func (o OutPoint) String() string {
	return fmt.Sprintf("%s#%d", hex.EncodeToString(o.TxHash[:]), o.Index)
}

// UTXO is a spendable output at the payment address
type UTXO struct {
	OutPoint OutPoint
	Value    uint64
}

// FeeParams contains the protocol's linear fee model plus the minimum
// value a transaction output is allowed to hold.
type FeeParams struct {
	// Base is the fixed fee component (txFeeFixed)
	Base uint64
	// PerByte is the fee charged per transaction byte (txFeePerByte)
	PerByte uint64
	// MinUTXOValue is the minimum value of a transaction output
	MinUTXOValue uint64
}

const (
	// baseTxSize covers the constant parts of a registration
	// transaction: body framing, the change output, fee and TTL fields,
	// the metadata hash, and the single vkey witness.
	baseTxSize = 180
	// perInputSize is the serialized size contribution of one input:
	// the 32-byte transaction hash, the output index and framing.
	perInputSize = 40
)

// EstimateTxSize returns the estimated serialized size in bytes of a
// registration transaction with nInputs inputs carrying metadataSize bytes
// of metadata. The estimate grows strictly with the number of inputs.
func EstimateTxSize(nInputs, metadataSize int) int {
	return baseTxSize + metadataSize + nInputs*perInputSize
}

// FeeForSize returns the fee charged for a transaction of the given
// serialized size under the linear fee model
func FeeForSize(params FeeParams, size int) uint64 {
	return params.Base + params.PerByte*uint64(size)
}
