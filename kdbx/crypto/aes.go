package crypto

import "crypto/aes"

// AESEncrypter is the AES-256-CBC outer cipher.
type AESEncrypter struct {
	*cbcEncrypter
}

// NewAESEncrypter builds an AES-256-CBC Encrypter with the given key and IV.
func NewAESEncrypter(key []byte, iv []byte) (*AESEncrypter, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &AESEncrypter{cbcEncrypter: newCBCEncrypter(block, iv)}, nil
}
