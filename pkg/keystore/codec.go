package keystore

import (
	"encoding/json"

	"github.com/knestlabs/knest/pkg/store"
)

// Codec serializes the decrypted store to the plaintext blob that gets
// encrypted, and back. The engine treats the blob as opaque; any codec that
// round-trips the store losslessly will do.
type Codec interface {
	Marshal(s *store.Store) ([]byte, error)
	Unmarshal(data []byte, s *store.Store) error
}

// jsonCodec is the default codec.
type jsonCodec struct{}

func (jsonCodec) Marshal(s *store.Store) ([]byte, error) {
	return json.Marshal(s)
}

func (jsonCodec) Unmarshal(data []byte, s *store.Store) error {
	return json.Unmarshal(data, s)
}
