// Package crypto implements the block and stream ciphers KeePass containers use:
// AES-256 and Twofish (CBC, outer cipher), ChaCha20 (outer cipher and inner
// protected-stream cipher), and Salsa20 (inner protected-stream cipher).
package crypto

// Encrypter encrypts/decrypts the outer container payload.
type Encrypter interface {
	Decrypt(data []byte) []byte
	Encrypt(data []byte) []byte
}

// Stream encrypts/decrypts individual protected field values via XOR keystream.
type Stream interface {
	Unpack(payload string) []byte
	Pack(payload []byte) string
}
