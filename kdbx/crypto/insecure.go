package crypto

import "encoding/base64"

// InsecureStream is the no-op protected-stream cipher (StreamID 0): values are
// base64 encoded/decoded but never XORed against a keystream.
type InsecureStream struct{}

// NewInsecureStream builds the no-op protected-stream cipher.
func NewInsecureStream() *InsecureStream {
	return &InsecureStream{}
}

// Unpack base64-decodes the payload without any further transformation.
func (s *InsecureStream) Unpack(payload string) []byte {
	data, _ := base64.StdEncoding.DecodeString(payload)
	return data
}

// Pack base64-encodes the payload without any further transformation.
func (s *InsecureStream) Pack(payload []byte) string {
	return base64.StdEncoding.EncodeToString(payload)
}
