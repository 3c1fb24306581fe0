// Package registrar orchestrates vote registrations: it validates and
// stores registrations received as metadata documents, and builds, signs
// and optionally submits the transaction for a new registration.
package registrar

import (
	"fmt"

	"go.vocdoni.io/dvote/log"

	"github.com/catalyst-tools/regnode/chain"
	"github.com/catalyst-tools/regnode/db"
	"github.com/catalyst-tools/regnode/metadata"
	"github.com/catalyst-tools/regnode/txbuilder"
	"github.com/catalyst-tools/regnode/types"
)

// Registrar validates, stores and assembles vote registrations
type Registrar struct {
	db     *db.SQLite
	chain  chain.Client
	signer txbuilder.Signer
}

// New returns a new Registrar. The chain client and payment signer may be
// nil when the Registrar only receives registrations (API mode); Register
// requires both.
func New(sqlite *db.SQLite, client chain.Client, paymentSigner txbuilder.Signer) (*Registrar, error) {
	if sqlite == nil {
		return nil, fmt.Errorf("can not create the Registrar without a database")
	}
	return &Registrar{
		db:     sqlite,
		chain:  client,
		signer: paymentSigner,
	}, nil
}

// AddRegistration validates the given metadata document and stores the
// carried registration. The strict metadata decode is the single
// validation gate: a document that reaches the database always carried a
// verified vote.
func (r *Registrar) AddRegistration(m metadata.Metadata) (types.Registration, error) {
	vote, err := metadata.Decode(m)
	if err != nil {
		return types.Registration{}, err
	}
	if err := r.db.StoreRegistration(vote, nil); err != nil {
		return types.Registration{}, err
	}
	p := vote.Payload()
	log.Infow("stored vote registration", "voteKey", p.VoteKey.String(),
		"slot", p.Slot)
	return vote.Registration(), nil
}

// Register builds the transaction carrying the given vote and, when submit
// is set, sends it to the network. The fresh chain state (tip, fee
// parameters, unspent outputs) is queried per call and discarded
// afterwards. On success the registration is recorded with the transaction
// id.
func (r *Registrar) Register(vote types.Vote, paymentAddr types.PaymentAddress,
	ttl uint64, submit bool) (*txbuilder.SignedTx, error) {
	if r.chain == nil || r.signer == nil {
		return nil, fmt.Errorf("can not register without a chain client and a payment signer")
	}

	tip, err := r.chain.Tip()
	if err != nil {
		return nil, err
	}
	params, err := r.chain.ProtocolParams()
	if err != nil {
		return nil, err
	}
	utxos, err := r.chain.UnspentAt(paymentAddr)
	if err != nil {
		return nil, err
	}

	body, err := txbuilder.Assemble(vote, utxos, params, paymentAddr, tip, ttl)
	if err != nil {
		return nil, err
	}
	signed, err := txbuilder.SignTx(body, r.signer)
	if err != nil {
		return nil, err
	}
	txID, err := signed.ID()
	if err != nil {
		return nil, err
	}

	if submit {
		raw, err := signed.Bytes()
		if err != nil {
			return nil, err
		}
		if err := r.chain.Submit(raw); err != nil {
			return nil, err
		}
		log.Infof("submitted registration tx %x", txID)
	}

	if err := r.db.StoreRegistration(vote, txID); err != nil {
		return nil, err
	}
	log.Infow("registered vote", "voteKey", vote.Payload().VoteKey.String(),
		"slot", vote.Payload().Slot, "tx", fmt.Sprintf("%x", txID),
		"fee", body.Fee)
	return signed, nil
}

// Registrations returns all the stored registrations
func (r *Registrar) Registrations() ([]types.Registration, error) {
	return r.db.ReadRegistrations()
}

// RegistrationsByVoteKey returns the stored registrations for the given
// vote key
func (r *Registrar) RegistrationsByVoteKey(voteKey types.VoteKey) (
	[]types.Registration, error) {
	return r.db.ReadRegistrationsByVoteKey(voteKey)
}
