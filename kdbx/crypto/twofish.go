package crypto

import "golang.org/x/crypto/twofish"

// TwofishEncrypter is the Twofish-CBC outer cipher.
type TwofishEncrypter struct {
	*cbcEncrypter
}

// NewTwofishEncrypter builds a Twofish-CBC Encrypter with the given key and IV.
func NewTwofishEncrypter(key []byte, iv []byte) (*TwofishEncrypter, error) {
	block, err := twofish.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &TwofishEncrypter{cbcEncrypter: newCBCEncrypter(block, iv)}, nil
}
