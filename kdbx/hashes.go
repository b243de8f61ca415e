package kdbx

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/binary"
	"io"
)

// headerHMACKey derives the root HMAC key used to authenticate both the
// KDBX4 header trailer and every content block: SHA-512(masterSeed ‖
// transformedKey ‖ 0x01).
func headerHMACKey(masterSeed, transformedKey []byte) []byte {
	h := sha512.New()
	h.Write(masterSeed)
	h.Write(transformedKey)
	h.Write([]byte{0x01})
	return h.Sum(nil)
}

// readKDBX4Trailer reads the 32-byte header SHA-256 and 32-byte header HMAC
// that follow the outer header in a KDBX4 file, validating both against the
// raw header bytes already collected.
func readKDBX4Trailer(r io.Reader, rawHeader []byte, hmacKey []byte) error {
	var sha [32]byte
	var mac [32]byte
	if err := binary.Read(r, binary.LittleEndian, &sha); err != nil {
		return ErrIO
	}
	if err := binary.Read(r, binary.LittleEndian, &mac); err != nil {
		return ErrIO
	}

	wantSHA := sha256.Sum256(rawHeader)
	if subtle.ConstantTimeCompare(wantSHA[:], sha[:]) == 0 {
		return ErrIntegrityFailed
	}

	blockKey := blockHMACKey(headerBlockIndex, hmacKey)
	h := hmac.New(sha256.New, blockKey)
	h.Write(rawHeader)
	wantMAC := h.Sum(nil)
	if subtle.ConstantTimeCompare(wantMAC, mac[:]) == 0 {
		return ErrIncorrectKey
	}
	return nil
}

// writeKDBX4Trailer writes the header SHA-256 and header HMAC trailer.
func writeKDBX4Trailer(w io.Writer, rawHeader []byte, hmacKey []byte) error {
	sha := sha256.Sum256(rawHeader)
	if _, err := w.Write(sha[:]); err != nil {
		return ErrIO
	}

	blockKey := blockHMACKey(headerBlockIndex, hmacKey)
	h := hmac.New(sha256.New, blockKey)
	h.Write(rawHeader)
	if _, err := w.Write(h.Sum(nil)); err != nil {
		return ErrIO
	}
	return nil
}

// blockHMACKey derives the per-block HMAC key for block index i: the header
// key uses an all-0xFF 8-byte index, ordinary blocks use their own little
// endian u64 index.
func blockHMACKey(index uint64, hmacKey []byte) []byte {
	h := sha512.New()
	if index == headerBlockIndex {
		h.Write(allFFIndex[:])
	} else {
		binary.Write(h, binary.LittleEndian, index)
	}
	h.Write(hmacKey)
	return h.Sum(nil)
}

// headerBlockIndex is a sentinel passed to blockHMACKey to request the
// header's block key, which uses an 8-byte all-0xFF prefix instead of a
// sequential index.
const headerBlockIndex = ^uint64(0)

var allFFIndex = [8]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
