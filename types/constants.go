package types

const (
	// VoteKeySize is the byte length of a voting public key.
	VoteKeySize = 32
	// VerificationKeySize is the byte length of a stake verification key.
	VerificationKeySize = 32
	// SignatureSize is the byte length of an Ed25519 detached signature.
	SignatureSize = 64
	// RewardsAddressSize is the byte length of a serialized reward
	// address: 1 header byte plus the 28-byte stake credential hash.
	RewardsAddressSize = 29
)

const (
	// MetadataRegistrationTag is the metadata tag holding the vote
	// registration payload fields.
	MetadataRegistrationTag = 61284
	// MetadataSignatureTag is the metadata tag holding the detached
	// signature over the registration payload.
	MetadataSignatureTag = 61285
)
