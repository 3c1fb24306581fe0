package db

import (
	"github.com/catalyst-tools/regnode/types"
)

// StoreRegistration stores the given verified vote, together with the hash
// of the transaction that carries it (when known). A vote key may register
// more than once; the registration with the highest slot supersedes the
// older ones, and the history is kept.
func (r *SQLite) StoreRegistration(vote types.Vote, txHash []byte) error {
	sqlQuery := `
	INSERT INTO registrations(
		voteKey,
		verificationKey,
		rewardsAddress,
		slot,
		signature,
		txHash,
		insertedDatetime
	) values(?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`

	stmt, err := r.db.Prepare(sqlQuery)
	if err != nil {
		return err
	}
	defer stmt.Close() //nolint:errcheck

	p := vote.Payload()
	sig := vote.Signature()
	_, err = stmt.Exec(p.VoteKey[:], p.VerificationKey[:],
		p.RewardsAddress[:], p.Slot, sig[:], txHash)
	if err != nil {
		return err
	}
	return nil
}

// ReadRegistrations reads all the stored registrations, newest slot first
func (r *SQLite) ReadRegistrations() ([]types.Registration, error) {
	sqlQuery := `
	SELECT voteKey, verificationKey, rewardsAddress, slot, signature,
		txHash, insertedDatetime FROM registrations
	ORDER BY slot DESC, id DESC
	`

	rows, err := r.db.Query(sqlQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return scanRegistrations(rows)
}

// ReadRegistrationsByVoteKey reads the stored registrations for the given
// vote key, newest slot first
func (r *SQLite) ReadRegistrationsByVoteKey(voteKey types.VoteKey) (
	[]types.Registration, error) {
	sqlQuery := `
	SELECT voteKey, verificationKey, rewardsAddress, slot, signature,
		txHash, insertedDatetime FROM registrations
	WHERE voteKey = ?
	ORDER BY slot DESC, id DESC
	`

	rows, err := r.db.Query(sqlQuery, voteKey[:])
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return scanRegistrations(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
}

func scanRegistrations(rows rowScanner) ([]types.Registration, error) {
	var regs []types.Registration
	for rows.Next() {
		reg := types.Registration{}
		var voteKey, verKey, rewards, sig, txHash []byte
		err := rows.Scan(&voteKey, &verKey, &rewards, &reg.Slot, &sig,
			&txHash, &reg.InsertedDatetime)
		if err != nil {
			return nil, err
		}
		reg.VoteKey = voteKey
		reg.VerificationKey = verKey
		reg.RewardsAddress = rewards
		reg.Signature = sig
		reg.TxHash = txHash
		regs = append(regs, reg)
	}
	return regs, nil
}
