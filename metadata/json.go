package metadata

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The JSON projection is a lossless mapping of the document used for
// storage and API interchange: tags and keys become decimal strings, byte
// strings become 0x-prefixed hex strings and integers stay JSON numbers.
// It carries no validation beyond its own syntax; validation lives in
// Decode.

// MarshalJSON implements the json.Marshaler interface for Metadata
func (m Metadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]interface{}, len(m))
	for tag, entry := range m {
		sub := make(map[string]interface{}, len(entry))
		for key, v := range entry {
			ks := strconv.FormatUint(key, 10)
			switch tv := v.(type) {
			case []byte:
				sub[ks] = "0x" + hex.EncodeToString(tv)
			case uint64:
				sub[ks] = tv
			case int:
				sub[ks] = tv
			case int64:
				sub[ks] = tv
			default:
				return nil, fmt.Errorf("unsupported metadata value type %T", v)
			}
		}
		out[strconv.FormatUint(tag, 10)] = sub
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements the json.Unmarshaler interface for Metadata
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	doc := make(Metadata, len(raw))
	for tagS, entry := range raw {
		tag, err := strconv.ParseUint(tagS, 10, 64)
		if err != nil {
			return fmt.Errorf("metadata tag %q is not an unsigned integer", tagS)
		}
		sub := make(map[uint64]interface{}, len(entry))
		for keyS, rawV := range entry {
			key, err := strconv.ParseUint(keyS, 10, 64)
			if err != nil {
				return fmt.Errorf("metadata key %q is not an unsigned integer", keyS)
			}
			var s string
			if err := json.Unmarshal(rawV, &s); err == nil {
				if !strings.HasPrefix(s, "0x") {
					return fmt.Errorf("metadata string value %q is missing the 0x prefix", s)
				}
				b, err := hex.DecodeString(s[2:])
				if err != nil {
					return fmt.Errorf("metadata value %q is not hex: %v", s, err)
				}
				sub[key] = b
				continue
			}
			var n uint64
			if err := json.Unmarshal(rawV, &n); err != nil {
				return fmt.Errorf("metadata value %s is neither a 0x string nor an unsigned integer", rawV)
			}
			sub[key] = n
		}
		doc[tag] = sub
	}
	*m = doc
	return nil
}
