// Package test contains helpers to generate deterministic keys, votes and
// unspent outputs for the tests of the other packages.
package test

import (
	"encoding/binary"

	qt "github.com/frankban/quicktest"

	"github.com/catalyst-tools/regnode/txbuilder"
	"github.com/catalyst-tools/regnode/types"
)

// Keys contains the test signing keys of one voter
type Keys struct {
	VoteKey  types.VoteKey
	StakeKey *types.SigningKey
}

// GenUserKeys returns n deterministic Keys
func GenUserKeys(c *qt.C, n int) []Keys {
	var keys []Keys
	for i := 0; i < n; i++ {
		seed := make([]byte, 32)
		binary.LittleEndian.PutUint64(seed, uint64(i)+1)
		sk, err := types.SigningKeyFromSeed(seed)
		c.Assert(err, qt.IsNil)

		voteSeed := make([]byte, 32)
		binary.LittleEndian.PutUint64(voteSeed, uint64(i)+1000)
		voteSK, err := types.SigningKeyFromSeed(voteSeed)
		c.Assert(err, qt.IsNil)
		voteVK := voteSK.VerificationKey()
		voteKey, err := types.VoteKeyFromBytes(voteVK[:])
		c.Assert(err, qt.IsNil)

		keys = append(keys, Keys{VoteKey: voteKey, StakeKey: sk})
	}
	return keys
}

// GenRewardsAddress returns a deterministic testnet rewards address for the
// given index
func GenRewardsAddress(c *qt.C, i int) types.RewardsAddress {
	raw := make([]byte, types.RewardsAddressSize)
	raw[0] = 0xe0 // reward key credential, testnet
	binary.LittleEndian.PutUint64(raw[1:], uint64(i)+1)
	addr, err := types.RewardsAddressFromBytes(raw)
	c.Assert(err, qt.IsNil)
	return addr
}

// GenVotes generates one signed vote per key at the given slot
func GenVotes(c *qt.C, keys []Keys, slot uint64) []types.Vote {
	var votes []types.Vote
	for i := 0; i < len(keys); i++ {
		payload := types.VotePayload{
			VoteKey:         keys[i].VoteKey,
			VerificationKey: keys[i].StakeKey.VerificationKey(),
			RewardsAddress:  GenRewardsAddress(c, i),
			Slot:            slot,
		}
		vote, err := types.SignVote(payload, keys[i].StakeKey)
		c.Assert(err, qt.IsNil)
		votes = append(votes, vote)
	}
	return votes
}

// GenUTXOs returns n unspent outputs holding the given values, with
// deterministic outpoints in the given order
func GenUTXOs(values ...uint64) []txbuilder.UTXO {
	var utxos []txbuilder.UTXO
	for i, v := range values {
		var op txbuilder.OutPoint
		binary.LittleEndian.PutUint64(op.TxHash[:], uint64(i)+1)
		utxos = append(utxos, txbuilder.UTXO{OutPoint: op, Value: v})
	}
	return utxos
}

// GenPaymentAddress returns a deterministic testnet payment address
func GenPaymentAddress() types.PaymentAddress {
	raw := make([]byte, 57)
	raw[0] = 0x00 // base address, testnet
	for i := 1; i < len(raw); i++ {
		raw[i] = byte(i)
	}
	return types.PaymentAddress(raw)
}
