package kdbx

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"io"
)

// blockSplitRate is the maximum payload size of a single content block
// (1 MiB), matching the reference implementation's framing.
const blockSplitRate = 1048576

// readKDBX3Blocks reads the sequence of plaintext-framed blocks that follow
// the 32-byte stream-start-bytes check: 4-byte index, 32-byte SHA-256 of the
// payload, 4-byte length, payload. A zero-length terminator block ends the
// stream.
func readKDBX3Blocks(r io.Reader) ([]byte, error) {
	var out bytes.Buffer
	index := uint32(0)

	for {
		var blockIndex uint32
		var hash [32]byte
		var length uint32

		if err := binary.Read(r, binary.LittleEndian, &blockIndex); err != nil {
			return nil, ErrIO
		}
		if blockIndex != index {
			return nil, ErrBadHeader
		}
		if err := binary.Read(r, binary.LittleEndian, &hash); err != nil {
			return nil, ErrIO
		}
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return nil, ErrIO
		}

		if length == 0 {
			if hash != ([32]byte{}) {
				return nil, ErrBlockHashMismatch
			}
			break
		}

		data := make([]byte, length)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, ErrIO
		}

		got := sha256.Sum256(data)
		if subtle.ConstantTimeCompare(got[:], hash[:]) == 0 {
			return nil, ErrBlockHashMismatch
		}

		out.Write(data)
		index++
	}

	return out.Bytes(), nil
}

// writeKDBX3Blocks splits contentData into blockSplitRate-sized chunks and
// writes them with the index/hash/length framing, followed by a zero-length
// terminator block.
func writeKDBX3Blocks(w io.Writer, contentData []byte) error {
	index := uint32(0)
	offset := 0

	for offset < len(contentData) {
		end := offset + blockSplitRate
		if end > len(contentData) {
			end = len(contentData)
		}
		chunk := contentData[offset:end]
		hash := sha256.Sum256(chunk)

		if err := binary.Write(w, binary.LittleEndian, index); err != nil {
			return ErrIO
		}
		if err := binary.Write(w, binary.LittleEndian, hash); err != nil {
			return ErrIO
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(chunk))); err != nil {
			return ErrIO
		}
		if _, err := w.Write(chunk); err != nil {
			return ErrIO
		}

		offset = end
		index++
	}

	if err := binary.Write(w, binary.LittleEndian, index); err != nil {
		return ErrIO
	}
	if err := binary.Write(w, binary.LittleEndian, [32]byte{}); err != nil {
		return ErrIO
	}
	return binary.Write(w, binary.LittleEndian, uint32(0))
}

// readKDBX4Blocks reads HMAC-framed blocks: 32-byte HMAC, 4-byte length,
// payload. hmacKey is the root key from headerHMACKey; each block's HMAC key
// is derived from its sequential index.
func readKDBX4Blocks(r io.Reader, hmacKey []byte) ([]byte, error) {
	var out bytes.Buffer
	index := uint64(0)

	for {
		var mac [32]byte
		var length uint32

		if err := binary.Read(r, binary.LittleEndian, &mac); err != nil {
			return nil, ErrIO
		}
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return nil, ErrIO
		}

		data := make([]byte, length)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, ErrIO
		}

		blockKey := blockHMACKey(index, hmacKey)
		h := hmac.New(sha256.New, blockKey)
		binary.Write(h, binary.LittleEndian, index)
		binary.Write(h, binary.LittleEndian, length)
		h.Write(data)
		want := h.Sum(nil)

		if subtle.ConstantTimeCompare(want, mac[:]) == 0 {
			return nil, ErrIntegrityFailed
		}

		if length == 0 {
			break
		}

		out.Write(data)
		index++
	}

	return out.Bytes(), nil
}

// writeKDBX4Blocks splits contentData into blockSplitRate-sized chunks and
// writes them with HMAC framing, followed by a zero-length terminator block.
func writeKDBX4Blocks(w io.Writer, contentData []byte, hmacKey []byte) error {
	index := uint64(0)
	offset := 0

	writeBlock := func(data []byte) error {
		length := uint32(len(data))
		blockKey := blockHMACKey(index, hmacKey)
		h := hmac.New(sha256.New, blockKey)
		binary.Write(h, binary.LittleEndian, index)
		binary.Write(h, binary.LittleEndian, length)
		h.Write(data)

		if _, err := w.Write(h.Sum(nil)); err != nil {
			return ErrIO
		}
		if err := binary.Write(w, binary.LittleEndian, length); err != nil {
			return ErrIO
		}
		if _, err := w.Write(data); err != nil {
			return ErrIO
		}
		return nil
	}

	for offset < len(contentData) {
		end := offset + blockSplitRate
		if end > len(contentData) {
			end = len(contentData)
		}
		if err := writeBlock(contentData[offset:end]); err != nil {
			return err
		}
		offset = end
		index++
	}

	return writeBlock(nil)
}
