package crypto

import "crypto/cipher"

// cbcEncrypter implements Encrypter on top of any block.Cipher in CBC mode.
// AES and Twofish both use this; KeePass pads content to the block size with
// PKCS7 before encrypting, so no padding logic lives here.
type cbcEncrypter struct {
	block cipher.Block
	iv    []byte
}

func newCBCEncrypter(block cipher.Block, iv []byte) *cbcEncrypter {
	return &cbcEncrypter{block: block, iv: iv}
}

func (e *cbcEncrypter) Decrypt(data []byte) []byte {
	ret := make([]byte, len(data))
	cipher.NewCBCDecrypter(e.block, e.iv).CryptBlocks(ret, data)
	return ret
}

func (e *cbcEncrypter) Encrypt(data []byte) []byte {
	ret := make([]byte, len(data))
	cipher.NewCBCEncrypter(e.block, e.iv).CryptBlocks(ret, data)
	return ret
}
