package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec marshals the plain-struct messages in this package with
// encoding/json. Registering it under the name "json" makes Connect
// serve Content-Type application/json without generated protobuf types.
type jsonCodec struct{}

// Codec returns the JSON codec used by both handlers and clients.
func Codec() connect.Codec { return jsonCodec{} }

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

func (jsonCodec) Unmarshal(data []byte, message any) error {
	return json.Unmarshal(data, message)
}
