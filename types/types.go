package types

import (
	"encoding/hex"
	"encoding/json"
	"time"
)

// ByteArray is a []byte that marshals to/from a hex string in JSON
type ByteArray []byte

// MarshalJSON implements the json.Marshaler interface for ByteArray
func (b ByteArray) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(b))
}

// UnmarshalJSON implements the json.Unmarshaler interface for ByteArray
func (b *ByteArray) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	d, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	*b = d
	return nil
}

// Registration contains the data of a stored vote registration, as kept in
// the db and returned by the API
type Registration struct {
	VoteKey          ByteArray `json:"voteKey"`
	VerificationKey  ByteArray `json:"verificationKey"`
	RewardsAddress   ByteArray `json:"rewardsAddress"`
	Slot             uint64    `json:"slot"`
	Signature        ByteArray `json:"signature"`
	TxHash           ByteArray `json:"txHash,omitempty"`
	InsertedDatetime time.Time `json:"-"`
}
