package txbuilder

import (
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/catalyst-tools/regnode/metadata"
	"github.com/catalyst-tools/regnode/types"
)

// Signer produces detached signatures with a held payment key
type Signer interface {
	Sign(msg []byte) (types.Signature, error)
	VerificationKey() types.VerificationKey
}

// TxBody is an unsigned registration transaction body. Once built, its fee
// and change output are fixed by the coin-selection result; signing
// produces a separate value and never modifies the body.
type TxBody struct {
	Inputs      []OutPoint
	ChangeAddr  types.PaymentAddress
	ChangeValue uint64
	Fee         uint64
	TTL         uint64
	Metadata    metadata.Metadata
}

// Wire shapes of the serialized transaction
type txInWire struct {
	_      struct{} `cbor:",toarray"`
	TxHash []byte
	Index  uint32
}

type txOutWire struct {
	_       struct{} `cbor:",toarray"`
	Address []byte
	Amount  uint64
}

type txBodyWire struct {
	Inputs       []txInWire  `cbor:"0,keyasint"`
	Outputs      []txOutWire `cbor:"1,keyasint"`
	Fee          uint64      `cbor:"2,keyasint"`
	TTL          uint64      `cbor:"3,keyasint"`
	MetadataHash []byte      `cbor:"7,keyasint"`
}

// BuildTxBody assembles the unsigned transaction body for a registration:
// the selected inputs, one change output at changeAddr holding the selected
// value minus the fee, and the metadata attached verbatim. The TTL is the
// current tip plus the requested time-to-live.
func BuildTxBody(sel *Selection, changeAddr types.PaymentAddress,
	meta metadata.Metadata, tip, ttl uint64) (*TxBody, error) {
	if sel == nil || len(sel.Inputs) == 0 {
		return nil, ErrNoUnspentOutputs
	}
	if len(changeAddr) == 0 {
		return nil, fmt.Errorf("empty change address")
	}
	if sel.Total < sel.Fee {
		return nil, fmt.Errorf("selection total %d does not cover fee %d", sel.Total, sel.Fee)
	}

	inputs := make([]OutPoint, len(sel.Inputs))
	for i, u := range sel.Inputs {
		inputs[i] = u.OutPoint
	}

	return &TxBody{
		Inputs:      inputs,
		ChangeAddr:  changeAddr,
		ChangeValue: sel.Total - sel.Fee,
		Fee:         sel.Fee,
		TTL:         tip + ttl,
		Metadata:    meta,
	}, nil
}

// Assemble runs coin selection for the vote's metadata and builds the
// unsigned body in one step
func Assemble(v types.Vote, utxos []UTXO, params FeeParams,
	changeAddr types.PaymentAddress, tip, ttl uint64) (*TxBody, error) {
	meta := metadata.Encode(v)
	metaBytes, err := meta.Bytes()
	if err != nil {
		return nil, err
	}
	sel, err := SelectInputs(utxos, params, len(metaBytes))
	if err != nil {
		return nil, err
	}
	return BuildTxBody(sel, changeAddr, meta, tip, ttl)
}

// Bytes returns the deterministic CBOR encoding of the body
func (b *TxBody) Bytes() ([]byte, error) {
	metaBytes, err := b.Metadata.Bytes()
	if err != nil {
		return nil, err
	}
	metaHash := blake2b.Sum256(metaBytes)

	inputs := make([]txInWire, len(b.Inputs))
	for i, in := range b.Inputs {
		h := in.TxHash
		inputs[i] = txInWire{TxHash: h[:], Index: in.Index}
	}

	wire := txBodyWire{
		Inputs: inputs,
		Outputs: []txOutWire{
			{Address: b.ChangeAddr, Amount: b.ChangeValue},
		},
		Fee:          b.Fee,
		TTL:          b.TTL,
		MetadataHash: metaHash[:],
	}
	return types.CanonicalCBOR(wire)
}

// Hash returns the blake2b-256 digest of the serialized body. It is both
// the message covered by the vkey witness and the transaction id.
func (b *TxBody) Hash() ([]byte, error) {
	bodyBytes, err := b.Bytes()
	if err != nil {
		return nil, err
	}
	h := blake2b.Sum256(bodyBytes)
	return h[:], nil
}
