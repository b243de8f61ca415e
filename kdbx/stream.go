package kdbx

import kcrypto "github.com/spectralops/kdbx/kdbx/crypto"

// Encrypter is the outer container cipher: AES-256-CBC, Twofish-CBC or
// ChaCha20.
type Encrypter interface {
	Decrypt(data []byte) []byte
	Encrypt(data []byte) []byte
}

// Stream is the inner protected-stream cipher: none, Salsa20 or ChaCha20.
type Stream interface {
	Unpack(payload string) []byte
	Pack(payload []byte) string
}

// newEncrypter builds the outer cipher for the given cipher UUID, key and IV.
func newEncrypter(cipherID, key, iv []byte) (Encrypter, error) {
	switch {
	case bytesEqual(cipherID, CipherAES256):
		return kcrypto.NewAESEncrypter(key, iv)
	case bytesEqual(cipherID, CipherTwofish):
		return kcrypto.NewTwofishEncrypter(key, iv)
	case bytesEqual(cipherID, CipherChaCha20):
		return kcrypto.NewChaChaEncrypter(key, iv)
	default:
		return nil, ErrUnsupportedCipher
	}
}

// newStream builds the inner protected-stream cipher for the given stream id
// and key.
func newStream(id uint32, key []byte) (Stream, error) {
	switch id {
	case InnerStreamNone:
		return kcrypto.NewInsecureStream(), nil
	case InnerStreamSalsa20:
		return kcrypto.NewSalsaStream(key)
	case InnerStreamChaCha:
		return kcrypto.NewChaChaStream(key)
	default:
		return nil, ErrUnsupportedStreamCipher
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
