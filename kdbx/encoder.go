package kdbx

import (
	"bytes"
	"compress/gzip"
	"crypto/rand"
	"io"
)

// Encoder writes a Database back out as a KDBX4 container. KDB and KDBX3 are
// read-only; Encode always produces KDBX4 regardless of what the Database
// was decoded from.
type Encoder struct {
	w io.Writer
}

// NewEncoder wraps w for a single Encode call.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode authenticates and writes db to the wrapped writer as a KDBX4
// container, deriving fresh random seeds and IVs for this save.
func (enc *Encoder) Encode(db *Database, key *DatabaseKey) error {
	raw, err := encodeDatabase(db, key)
	if err != nil {
		return err
	}
	_, werr := enc.w.Write(raw)
	if werr != nil {
		return ErrIO
	}
	return nil
}

func encodeDatabase(db *Database, key *DatabaseKey) ([]byte, error) {
	settings := db.Settings
	if settings.CipherID == nil {
		settings = defaultKDBX4Settings()
	}
	if settings.InnerStreamID == 0 {
		settings.InnerStreamID = InnerStreamChaCha
	}

	masterSeed := randomBytes(32)
	encryptionIV := ivSizeFor(settings.CipherID)

	kdfParams := defaultKDBX4Settings().KdfParameters
	if settings.KdfParameters != nil {
		kdfParams = &variantDictionary{
			Version: settings.KdfParameters.Version,
			Items:   append([]variantItem(nil), settings.KdfParameters.Items...),
		}
	}
	kdfParams.setBytes("S", randomBytes(32))

	header := &outerHeader{
		Generation:       GenerationKDBX4,
		CipherID:         settings.CipherID,
		CompressionFlags: settings.CompressionFlags,
		MasterSeed:       masterSeed,
		EncryptionIV:     encryptionIV,
		KdfParameters:    kdfParams,
	}

	composite, err := key.compositeKey(kdfSeed(header))
	if err != nil {
		return nil, err
	}
	transformed, err := deriveTransformedKey(composite, header)
	if err != nil {
		return nil, err
	}
	masterKey := masterCipherKey(masterSeed, transformed)

	encrypter, err := newEncrypter(header.CipherID, masterKey, header.EncryptionIV)
	if err != nil {
		return nil, err
	}

	streamKey := randomBytes(64)
	cursor, err := newStream(settings.InnerStreamID, streamKey)
	if err != nil {
		return nil, err
	}

	root := cloneGroup(db.Root)
	walkGroupProtected(&root, cursor, true)

	metaWire := metaToWire(db.Meta, false, nil)
	rootWire := rootToWire(root, db.DeletedObjects, false)

	content := dbContent{Meta: &metaWire, Root: rootWire}
	xmlBytes, err := encodeXML(content)
	if err != nil {
		return nil, err
	}

	var innerBuf bytes.Buffer
	ih := &innerHeader{StreamID: settings.InnerStreamID, StreamKey: streamKey}
	for _, b := range db.Binaries {
		ih.Binaries = append(ih.Binaries, rawBinary{Protected: b.Protected, Content: b.Content})
	}
	if err := writeInnerHeader(&innerBuf, ih); err != nil {
		return nil, err
	}
	innerBuf.Write(xmlBytes)

	payload := innerBuf.Bytes()
	if header.CompressionFlags == CompressionGzip {
		payload, err = gzipCompress(payload)
		if err != nil {
			return nil, err
		}
	}

	padded := addPKCS7(payload, header.CipherID)
	ciphertext := encrypter.Encrypt(padded)

	var out bytes.Buffer
	rawHeader, err := writeOuterHeader(&out, header)
	if err != nil {
		return nil, err
	}

	hmacKey := headerHMACKey(masterSeed, transformed)
	if err := writeKDBX4Trailer(&out, rawHeader, hmacKey); err != nil {
		return nil, err
	}
	if err := writeKDBX4Blocks(&out, ciphertext, hmacKey); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// cloneGroup deep-copies a Group tree so protected-stream encryption during
// encode never mutates the caller's in-memory Database.
func cloneGroup(g Group) Group {
	clone := g
	clone.Children = make([]Child, len(g.Children))
	for i, c := range g.Children {
		if c.IsGroup {
			sub := cloneGroup(*c.Group)
			clone.Children[i] = Child{IsGroup: true, Group: &sub}
		} else {
			en := cloneEntry(*c.Entry)
			clone.Children[i] = Child{IsGroup: false, Entry: &en}
		}
	}
	return clone
}

func cloneEntry(e Entry) Entry {
	clone := e
	clone.Fields = append([]Field(nil), e.Fields...)
	clone.History = make([]Entry, len(e.History))
	for i, h := range e.History {
		clone.History[i] = cloneEntry(h)
	}
	return clone
}

func ivSizeFor(cipherID []byte) []byte {
	if bytesEqual(cipherID, CipherChaCha20) {
		return randomBytes(12)
	}
	return randomBytes(16)
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	rand.Read(b)
	return b
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		return nil, ErrIO
	}
	if err := gw.Close(); err != nil {
		return nil, ErrIO
	}
	return buf.Bytes(), nil
}

// addPKCS7 pads data to a multiple of 16 bytes; ChaCha20 has no padding, so
// it is a no-op for that cipher.
func addPKCS7(data []byte, cipherID []byte) []byte {
	if bytesEqual(cipherID, CipherChaCha20) {
		return data
	}
	padLen := 16 - len(data)%16
	if padLen == 0 {
		padLen = 16
	}
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(data, padding...)
}
