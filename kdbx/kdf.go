package kdbx

import (
	"crypto/aes"
	"crypto/sha256"

	aeadArgon2 "github.com/aead/argon2"
	xargon2 "golang.org/x/crypto/argon2"
)

// deriveTransformedKey applies the KDF named by the outer header's KDF
// parameters (KDBX4) or AES-KDF seed/rounds (KDBX3) to the composite key,
// producing the 32-byte transformed key.
func deriveTransformedKey(composite []byte, h *outerHeader) ([]byte, error) {
	if h.Generation != GenerationKDBX4 {
		return deriveAESKDF(composite, h.TransformSeed, h.TransformRounds)
	}

	if h.KdfParameters == nil {
		return nil, ErrUnsupportedKDF
	}
	uuid := h.KdfParameters.bytes("$UUID")

	switch {
	case bytesEqual(uuid, KdfAES4):
		seed := h.KdfParameters.bytes("S")
		rounds := h.KdfParameters.uint64("R")
		return deriveAESKDF(composite, seed, rounds)
	case bytesEqual(uuid, KdfArgon2d):
		return deriveArgon2(composite, h.KdfParameters, false)
	case bytesEqual(uuid, KdfArgon2id):
		return deriveArgon2(composite, h.KdfParameters, true)
	default:
		return nil, ErrUnsupportedKDF
	}
}

// kdfSeed returns the seed value sent to a challenge-response hardware
// token: the dedicated transform-seed field for KDBX3's AES-KDF, or the
// KDF's own "S" parameter for KDBX4 (AES-KDF or Argon2).
func kdfSeed(h *outerHeader) []byte {
	if h.Generation != GenerationKDBX4 {
		return h.TransformSeed
	}
	if h.KdfParameters == nil {
		return nil
	}
	return h.KdfParameters.bytes("S")
}

// deriveAESKDF runs `rounds` iterations of single-block AES-ECB encryption
// (keyed by seed) over each 16-byte half of composite, then SHA-256 of the
// concatenation.
func deriveAESKDF(composite, seed []byte, rounds uint64) ([]byte, error) {
	block, err := aes.NewCipher(seed)
	if err != nil {
		return nil, ErrCryptoInit
	}

	key := make([]byte, len(composite))
	copy(key, composite)

	for i := uint64(0); i < rounds; i++ {
		block.Encrypt(key[:16], key[:16])
		block.Encrypt(key[16:], key[16:])
	}

	sum := sha256.Sum256(key)
	return sum[:], nil
}

// deriveArgon2 runs Argon2d or Argon2id over composite with the parameters
// carried in the KDBX4 variant dictionary. Output length is fixed at 32
// bytes regardless of parallelism, matching the format's requirement that
// parallelism not affect the derived key.
func deriveArgon2(composite []byte, params *variantDictionary, useID bool) ([]byte, error) {
	salt := params.bytes("S")
	iterations := uint32(params.uint64("I"))
	memory := uint32(params.uint64("M") / 1024)
	parallelism := uint8(params.uint32("P"))

	if useID {
		return xargon2.IDKey(composite, salt, iterations, memory, parallelism, 32), nil
	}
	return aeadArgon2.Key2d(composite, salt, iterations, memory, parallelism, 32), nil
}
