package kdbx

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"io"
)

// Decoder reads a KDB/KDBX3/KDBX4 database from a byte source.
type Decoder struct {
	r io.Reader
}

// NewDecoder wraps r for a single Decode call.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads the full container from the wrapped reader, authenticates and
// decrypts it with key, and returns the resulting Database.
func (d *Decoder) Decode(key *DatabaseKey) (*Database, error) {
	raw, err := io.ReadAll(d.r)
	if err != nil {
		return nil, ErrIO
	}
	return decodeBytes(raw, key)
}

func decodeBytes(raw []byte, key *DatabaseKey) (*Database, error) {
	if isKDBSignature(raw) {
		return decodeKDB(raw, key)
	}

	r := bytes.NewReader(raw)
	header, err := readOuterHeader(r)
	if err != nil {
		return nil, err
	}

	composite, err := key.compositeKey(kdfSeed(header))
	if err != nil {
		return nil, err
	}
	transformed, err := deriveTransformedKey(composite, header)
	if err != nil {
		return nil, err
	}
	masterKey := masterCipherKey(header.MasterSeed, transformed)

	encrypter, err := newEncrypter(header.CipherID, masterKey, header.EncryptionIV)
	if err != nil {
		return nil, err
	}

	var plainBlocks []byte
	var streamID uint32
	var streamKey []byte
	var binaries BinaryPool

	if header.Generation == GenerationKDBX4 {
		hmacKey := headerHMACKey(header.MasterSeed, transformed)
		if err := readKDBX4Trailer(r, header.rawBytes, hmacKey); err != nil {
			return nil, err
		}

		blockStream, err := readKDBX4Blocks(r, hmacKey)
		if err != nil {
			return nil, err
		}
		decrypted := encrypter.Decrypt(blockStream)
		decrypted, err = removePKCS7(decrypted, header.CipherID)
		if err != nil {
			return nil, err
		}

		decompressed, err := maybeGunzip(decrypted, header.CompressionFlags)
		if err != nil {
			return nil, err
		}

		innerReader := bytes.NewReader(decompressed)
		inner, err := readInnerHeader(innerReader)
		if err != nil {
			return nil, err
		}
		plainBlocks = decompressed[len(decompressed)-innerReader.Len():]
		streamID = inner.StreamID
		streamKey = inner.StreamKey
		for _, b := range inner.Binaries {
			binaries = append(binaries, Binary{ID: len(binaries), Content: b.Content, Protected: b.Protected})
		}
	} else {
		decrypted := encrypter.Decrypt(mustReadAll(r))
		decrypted, err = removePKCS7(decrypted, header.CipherID)
		if err != nil {
			return nil, err
		}

		if len(decrypted) < 32 {
			return nil, ErrIncorrectKey
		}
		if !bytes.Equal(decrypted[:32], header.StreamStartBytes) {
			return nil, ErrIncorrectKey
		}

		blockData, err := readKDBX3Blocks(bytes.NewReader(decrypted[32:]))
		if err != nil {
			return nil, err
		}

		xmlBytes, err := maybeGunzip(blockData, header.CompressionFlags)
		if err != nil {
			return nil, err
		}
		plainBlocks = xmlBytes
		streamID = header.InnerRandomStreamID
		streamKey = header.ProtectedStreamKey
	}

	var content dbContent
	if err := decodeXML(plainBlocks, &content); err != nil {
		return nil, err
	}

	cursor, err := newStream(streamID, streamKey)
	if err != nil {
		return nil, err
	}

	meta, kdbx3Binaries := metaFromWire(content.Meta)
	if header.Generation != GenerationKDBX4 {
		binaries = kdbx3Binaries
	}
	root, deleted := rootFromWire(content.Root)
	walkGroupProtected(&root, cursor, false)

	db := &Database{
		Generation: header.Generation,
		Settings: DatabaseSettings{
			CipherID:         header.CipherID,
			CompressionFlags: header.CompressionFlags,
			KdfParameters:    header.KdfParameters,
			TransformSeed:    header.TransformSeed,
			TransformRounds:  header.TransformRounds,
			InnerStreamID:    streamID,
		},
		Meta:           meta,
		Root:           root,
		DeletedObjects: deleted,
		Binaries:       binaries,
		masterSeed:     header.MasterSeed,
		transformedKey: transformed,
	}
	return db, nil
}

func masterCipherKey(masterSeed, transformedKey []byte) []byte {
	h := sha256.New()
	h.Write(masterSeed)
	h.Write(transformedKey)
	return h.Sum(nil)
}

func maybeGunzip(data []byte, flags uint32) ([]byte, error) {
	if flags != CompressionGzip {
		return data, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedCompression
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrUnsupportedCompression
	}
	return out, nil
}

// removePKCS7 strips PKCS7 padding for block ciphers; ChaCha20 has no
// padding, so it is a no-op for that cipher.
func removePKCS7(data []byte, cipherID []byte) ([]byte, error) {
	if bytesEqual(cipherID, CipherChaCha20) {
		return data, nil
	}
	if len(data) == 0 {
		return nil, ErrIncorrectKey
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > len(data) || padLen > 16 {
		return nil, ErrIncorrectKey
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrIncorrectKey
		}
	}
	return data[:len(data)-padLen], nil
}

func mustReadAll(r io.Reader) []byte {
	data, _ := io.ReadAll(r)
	return data
}
