package crypto

import (
	"crypto/cipher"
	"crypto/sha512"
	"encoding/base64"

	"github.com/aead/chacha20"
)

// ChaChaStream is ChaCha20 used either as the outer (unpadded) container
// cipher or as an inner protected-stream cipher.
type ChaChaStream struct {
	cipher cipher.Stream
}

// NewChaChaEncrypter builds the outer ChaCha20 cipher from the master key and nonce.
func NewChaChaEncrypter(key []byte, iv []byte) (*ChaChaStream, error) {
	c, err := chacha20.NewCipher(iv, key)
	if err != nil {
		return nil, err
	}
	return &ChaChaStream{cipher: c}, nil
}

// NewChaChaStream builds the inner protected-stream cipher: the nonce is the
// first 12 bytes of SHA-512(key), the key is the next 32 bytes.
func NewChaChaStream(key []byte) (*ChaChaStream, error) {
	hash := sha512.Sum512(key)
	c, err := chacha20.NewCipher(hash[32:44], hash[:32])
	if err != nil {
		return nil, err
	}
	return &ChaChaStream{cipher: c}, nil
}

// Decrypt returns the decrypted data (ChaCha20 is symmetric: decrypt == encrypt).
func (cs *ChaChaStream) Decrypt(data []byte) []byte {
	ret := make([]byte, len(data))
	cs.cipher.XORKeyStream(ret, data)
	return ret
}

// Encrypt returns the encrypted data.
func (cs *ChaChaStream) Encrypt(data []byte) []byte {
	return cs.Decrypt(data)
}

// Unpack XORs a base64-encoded protected value against the keystream.
func (cs *ChaChaStream) Unpack(payload string) []byte {
	decoded, _ := base64.StdEncoding.DecodeString(payload)
	data := make([]byte, len(decoded))
	cs.cipher.XORKeyStream(data, decoded)
	return data
}

// Pack XORs plaintext against the keystream and base64-encodes the result.
func (cs *ChaChaStream) Pack(payload []byte) string {
	data := make([]byte, len(payload))
	cs.cipher.XORKeyStream(data, payload)
	return base64.StdEncoding.EncodeToString(data)
}
