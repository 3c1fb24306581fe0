package txbuilder

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/catalyst-tools/regnode/types"
)

// VKeyWitness pairs the payment verification key with its signature over
// the body hash
type VKeyWitness struct {
	VKey      types.VerificationKey
	Signature types.Signature
}

// SignedTx is a transaction body with exactly one vkey witness
type SignedTx struct {
	Body    *TxBody
	Witness VKeyWitness
}

type vkeyWitnessWire struct {
	_         struct{} `cbor:",toarray"`
	VKey      []byte
	Signature []byte
}

type witnessSetWire struct {
	VKeys []vkeyWitnessWire `cbor:"0,keyasint"`
}

type signedTxWire struct {
	_         struct{} `cbor:",toarray"`
	Body      cbor.RawMessage
	Witnesses witnessSetWire
	Metadata  cbor.RawMessage
}

// SignTx signs the body hash with the payment signer and returns the
// signed transaction. Signing is pure: the body is not modified and
// repeated calls yield independent values.
func SignTx(body *TxBody, signer Signer) (*SignedTx, error) {
	if signer == nil {
		return nil, fmt.Errorf("no payment signer provided")
	}
	msg, err := body.Hash()
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(msg)
	if err != nil {
		return nil, fmt.Errorf("payment signer failed: %w", err)
	}
	vkey := signer.VerificationKey()
	if !vkey.Verify(msg, sig) {
		return nil, fmt.Errorf("payment signer returned a signature that does not verify")
	}
	return &SignedTx{
		Body:    body,
		Witness: VKeyWitness{VKey: vkey, Signature: sig},
	}, nil
}

// ID returns the transaction id: the hash of the signed body
func (t *SignedTx) ID() ([]byte, error) {
	return t.Body.Hash()
}

// Bytes returns the CBOR encoding of the full signed transaction: the
// body, the witness set and the attached metadata
func (t *SignedTx) Bytes() ([]byte, error) {
	bodyBytes, err := t.Body.Bytes()
	if err != nil {
		return nil, err
	}
	metaBytes, err := t.Body.Metadata.Bytes()
	if err != nil {
		return nil, err
	}
	wire := signedTxWire{
		Body: bodyBytes,
		Witnesses: witnessSetWire{
			VKeys: []vkeyWitnessWire{{
				VKey:      t.Witness.VKey[:],
				Signature: t.Witness.Signature[:],
			}},
		},
		Metadata: metaBytes,
	}
	return types.CanonicalCBOR(wire)
}
