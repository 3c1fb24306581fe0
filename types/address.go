package types

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Network ids carried in the low nibble of an address header byte
const (
	NetworkTestnet byte = 0
	NetworkMainnet byte = 1
)

// A reward address header carries 0b1110 (key credential) or 0b1111 (script
// credential) in its high nibble.
const rewardHeaderMask = 0xe0

// RewardsAddress contains a serialized reward address: the header byte
// followed by the stake credential hash.
type RewardsAddress [RewardsAddressSize]byte

// RewardsAddressFromBytes converts the given raw bytes into a
// RewardsAddress, validating length and header
func RewardsAddressFromBytes(b []byte) (RewardsAddress, error) {
	var a RewardsAddress
	if len(b) != RewardsAddressSize {
		return a, fmt.Errorf("unexpected rewards address length: %d", len(b))
	}
	if b[0]&rewardHeaderMask != rewardHeaderMask {
		return a, fmt.Errorf("not a reward address header: 0x%02x", b[0])
	}
	if netID := b[0] & 0x0f; netID > NetworkMainnet {
		return a, fmt.Errorf("unknown network id in address header: %d", netID)
	}
	copy(a[:], b)
	return a, nil
}

// RewardsAddressFromBech32 parses the bech32 representation of a reward
// address ("stake..." on mainnet, "stake_test..." on testnets)
func RewardsAddressFromBech32(s string) (RewardsAddress, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return RewardsAddress{}, err
	}
	if hrp != "stake" && hrp != "stake_test" {
		return RewardsAddress{}, fmt.Errorf("unexpected address prefix: %s", hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return RewardsAddress{}, err
	}
	return RewardsAddressFromBytes(raw)
}

// NetworkID returns the network id carried in the address header
func (a RewardsAddress) NetworkID() byte {
	return a[0] & 0x0f
}

// Bech32 returns the bech32 representation of the reward address
func (a RewardsAddress) Bech32() (string, error) {
	hrp := "stake_test"
	if a.NetworkID() == NetworkMainnet {
		hrp = "stake"
	}
	data, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, data)
}

// PaymentAddress contains a serialized payment address. The node treats it
// as opaque bytes; only the chain client converts it to its bech32 form for
// queries.
type PaymentAddress []byte

// PaymentAddressFromBech32 parses the bech32 representation of a payment
// address ("addr..." on mainnet, "addr_test..." on testnets)
func PaymentAddressFromBech32(s string) (PaymentAddress, error) {
	hrp, data, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return nil, err
	}
	if hrp != "addr" && hrp != "addr_test" {
		return nil, fmt.Errorf("unexpected address prefix: %s", hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty payment address")
	}
	return PaymentAddress(raw), nil
}

// Bech32 returns the bech32 representation of the payment address
func (a PaymentAddress) Bech32() (string, error) {
	if len(a) == 0 {
		return "", fmt.Errorf("empty payment address")
	}
	hrp := "addr_test"
	if a[0]&0x0f == NetworkMainnet {
		hrp = "addr"
	}
	data, err := bech32.ConvertBits(a, 8, 5, true)
	if err != nil {
		return "", err
	}
	// payment addresses exceed the 90 character bech32 limit, hence
	// DecodeNoLimit on the parsing side; Encode has no such limit
	return bech32.Encode(hrp, data)
}
