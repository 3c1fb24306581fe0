package metadata

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/catalyst-tools/regnode/types"
)

// Bytes returns the deterministic CBOR encoding of the document. The same
// document always yields byte-identical output.
func (m Metadata) Bytes() ([]byte, error) {
	return types.CanonicalCBOR(map[uint64]map[uint64]interface{}(m))
}

// FromBytes parses a CBOR metadata document. Only the outer structure (maps
// with unsigned integer keys) is required here; field validation happens in
// Decode.
func FromBytes(b []byte) (Metadata, error) {
	var doc map[uint64]map[uint64]interface{}
	if err := cbor.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("can not parse metadata CBOR: %w", err)
	}
	return Metadata(doc), nil
}
