// Package rpc declares the Microblog gRPC service: request and response
// messages, the service descriptor, a client stub and the mapping between
// domain errors and gRPC status codes.
//
// Messages are plain Go structs carried by a JSON codec registered under the
// content-subtype "json", so no generated code is involved. Clients built
// with NewMicroblogClient select the codec on every call.
package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// Codec is the content-subtype both ends use.
const Codec = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return Codec
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
