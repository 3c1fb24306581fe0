// Package chain wraps the external collaborators of the node: the chain
// query interface backed by a cardano-cli compatible binary, the signing
// oracle, and an HTTP transaction submission client. Failures of these
// collaborators indicate environment problems and are surfaced with the
// command or request that failed plus its raw output.
package chain

import (
	"github.com/catalyst-tools/regnode/txbuilder"
	"github.com/catalyst-tools/regnode/types"
)

// Client defines the chain queries needed to assemble a registration
// transaction. Results are fetched fresh per call; nothing is cached.
type Client interface {
	// Tip returns the slot number of the current chain tip
	Tip() (uint64, error)
	// ProtocolParams returns the current fee parameters
	ProtocolParams() (txbuilder.FeeParams, error)
	// UnspentAt returns the spendable outputs at the given address, in a
	// stable order
	UnspentAt(addr types.PaymentAddress) ([]txbuilder.UTXO, error)
	// Submit sends the raw signed transaction to the network
	Submit(rawTx []byte) error
}
