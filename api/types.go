package api

import (
	"github.com/catalyst-tools/regnode/metadata"
)

type newRegistrationReq struct {
	// metadata.Metadata Unmarshaler takes care of parsing the JSON
	// projection of the tagged document
	Metadata metadata.Metadata `json:"metadata"`
}
