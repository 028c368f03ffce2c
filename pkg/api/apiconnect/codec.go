package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

var _ connect.Codec = Codec{}

// Codec marshals the plain Go structs in package api as JSON. It registers
// under the name "json", replacing connect's protobuf-only JSON codec, so
// requests use the application/json content type.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

func (Codec) Unmarshal(data []byte, message any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, message)
}
