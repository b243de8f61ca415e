package kdbx

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Generation identifies the on-disk file format a database was read from or
// will be written as.
type Generation int

const (
	GenerationKDB Generation = iota
	GenerationKDBX3
	GenerationKDBX4
)

func (g Generation) String() string {
	switch g {
	case GenerationKDB:
		return "KDB"
	case GenerationKDBX3:
		return "KDBX3"
	case GenerationKDBX4:
		return "KDBX4"
	default:
		return "unknown"
	}
}

// baseSignature is the first 4 bytes of every KDB/KDBX file.
var baseSignature = [4]byte{0x03, 0xd9, 0xa2, 0x9a}

// secondarySignature is the second 4 bytes for KDB/KDBX3/KDBX4 files.
var secondarySignature = [4]byte{0x65, 0xfb, 0x4b, 0xb5}

// preReleaseSecondarySignature marks a pre-release KDBX format never
// finalized for interoperability; files bearing it are rejected outright.
var preReleaseSecondarySignature = [4]byte{0x66, 0xfb, 0x4b, 0xb5}

// Cipher UUIDs for the outer container cipher (header field id 2).
var (
	CipherAES256  = []byte{0x31, 0xC1, 0xF2, 0xE6, 0xBF, 0x71, 0x43, 0x50, 0xBE, 0x58, 0x05, 0x21, 0x6A, 0xFC, 0x5A, 0xFF}
	CipherTwofish = []byte{0xAD, 0x68, 0xF2, 0x9F, 0x57, 0x6F, 0x4B, 0xB9, 0xA3, 0x6A, 0xD4, 0x7A, 0xF9, 0x65, 0x34, 0x6C}
	CipherChaCha20 = []byte{0xD6, 0x03, 0x8A, 0x2B, 0x8B, 0x6F, 0x4C, 0xB5, 0xA5, 0x24, 0x33, 0x9A, 0x31, 0xDB, 0xB5, 0x9A}
)

// KDF UUIDs (the "$UUID" item of the variant-dictionary KDF parameters).
var (
	KdfAES3     = []byte{0xC9, 0xD9, 0xF3, 0x9A, 0x62, 0x8A, 0x44, 0x60, 0xBF, 0x74, 0x0D, 0x08, 0xC1, 0x8A, 0x4F, 0xEA}
	KdfAES4     = []byte{0x7C, 0x02, 0xBB, 0x82, 0x79, 0xA7, 0x4A, 0xC0, 0x92, 0x7D, 0x11, 0x4A, 0x00, 0x64, 0x82, 0x38}
	KdfArgon2d  = []byte{0xEF, 0x63, 0x6D, 0xDF, 0x8C, 0x29, 0x44, 0x4B, 0x91, 0xF7, 0xA9, 0xA4, 0x03, 0xE3, 0x0A, 0x0C}
	KdfArgon2id = []byte{0x9E, 0x29, 0x8B, 0x19, 0x56, 0xDB, 0x47, 0x73, 0xB2, 0x3D, 0xFC, 0x3E, 0xC6, 0xF0, 0xA1, 0xE6}
)

// Inner protected-stream cipher ids (header field id 10, KDBX3; inner
// header field id 1, KDBX4).
const (
	InnerStreamNone    uint32 = 0
	InnerStreamSalsa20 uint32 = 2
	InnerStreamChaCha  uint32 = 3
)

// Compression flags (header field id 3).
const (
	CompressionNone uint32 = 0
	CompressionGzip uint32 = 1
)

// outerHeaderFieldID enumerates the TLV field ids of the outer header.
const (
	fieldEndOfHeader         = 0
	fieldComment             = 1
	fieldCipherID            = 2
	fieldCompressionFlags    = 3
	fieldMasterSeed          = 4
	fieldTransformSeed       = 5
	fieldTransformRounds     = 6
	fieldEncryptionIV        = 7
	fieldProtectedStreamKey  = 8
	fieldStreamStartBytes    = 9
	fieldInnerRandomStreamID = 10
	fieldKdfParameters       = 11
	fieldPublicCustomData    = 12
)

// outerHeader is the parsed intermediate form of the outer TLV header,
// generation-agnostic: callers read the fields relevant to their generation
// and ignore the rest.
type outerHeader struct {
	Generation Generation

	CipherID            []byte
	CompressionFlags     uint32
	MasterSeed           []byte
	TransformSeed        []byte
	TransformRounds      uint64
	EncryptionIV         []byte
	ProtectedStreamKey   []byte
	StreamStartBytes     []byte
	InnerRandomStreamID  uint32
	KdfParameters        *variantDictionary
	PublicCustomData     *variantDictionary

	// rawBytes is the exact byte range from the start of the file signature
	// through the end-of-header terminator, used as input to the KDBX4
	// header SHA-256/HMAC integrity checks.
	rawBytes []byte
}

// PeekGeneration reports a file's format generation from its first 12 bytes
// alone, without deriving any key or reading the rest of the header. It is
// meant for tooling that wants to report a file's version without a
// password.
func PeekGeneration(r io.Reader) (Generation, error) {
	var raw [12]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return 0, ErrIO
	}
	if !bytes.Equal(raw[0:4], baseSignature[:]) {
		return 0, ErrInvalidMagic
	}
	if bytes.Equal(raw[4:8], preReleaseSecondarySignature[:]) {
		return 0, ErrUnsupportedVersion
	}
	if !bytes.Equal(raw[4:8], secondarySignature[:]) {
		return 0, ErrInvalidMagic
	}

	version := binary.LittleEndian.Uint32(raw[8:12])
	major := version >> 16
	switch {
	case major < 3:
		return GenerationKDB, nil
	case major == 3:
		return GenerationKDBX3, nil
	case major == 4:
		return GenerationKDBX4, nil
	default:
		return 0, ErrUnsupportedVersion
	}
}

// readOuterHeader reads the file signature and dispatches to the KDBX3 or
// KDBX4 TLV reader based on the major version. KDB files are handled
// entirely by kdb.go and never reach this function.
func readOuterHeader(r io.Reader) (*outerHeader, error) {
	var buf bytes.Buffer
	tr := io.TeeReader(r, &buf)

	var sig1, sig2 [4]byte
	var version uint32
	if err := binary.Read(tr, binary.LittleEndian, &sig1); err != nil {
		return nil, ErrIO
	}
	if err := binary.Read(tr, binary.LittleEndian, &sig2); err != nil {
		return nil, ErrIO
	}
	if err := binary.Read(tr, binary.LittleEndian, &version); err != nil {
		return nil, ErrIO
	}

	if sig1 != baseSignature {
		return nil, ErrInvalidMagic
	}
	if sig2 == preReleaseSecondarySignature {
		return nil, ErrUnsupportedVersion
	}
	if sig2 != secondarySignature {
		return nil, ErrInvalidMagic
	}

	major := version >> 16
	h := &outerHeader{}
	switch {
	case major < 3:
		return nil, ErrUnsupportedVersion
	case major == 3:
		h.Generation = GenerationKDBX3
	case major == 4:
		h.Generation = GenerationKDBX4
	default:
		return nil, ErrUnsupportedVersion
	}

	for {
		done, err := h.readField(tr)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}

	h.rawBytes = buf.Bytes()
	return h, nil
}

func (h *outerHeader) readField(r io.Reader) (bool, error) {
	var id uint8
	if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
		return false, ErrIO
	}

	var length uint32
	if h.Generation == GenerationKDBX4 {
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return false, ErrIO
		}
	} else {
		var length16 uint16
		if err := binary.Read(r, binary.LittleEndian, &length16); err != nil {
			return false, ErrIO
		}
		length = uint32(length16)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return false, ErrIO
	}

	switch id {
	case fieldEndOfHeader:
		return true, nil
	case fieldComment:
		// ignored
	case fieldCipherID:
		h.CipherID = data
	case fieldCompressionFlags:
		if len(data) < 4 {
			return false, ErrBadHeader
		}
		h.CompressionFlags = binary.LittleEndian.Uint32(data)
	case fieldMasterSeed:
		h.MasterSeed = data
	case fieldTransformSeed:
		h.TransformSeed = data
	case fieldTransformRounds:
		if len(data) < 8 {
			return false, ErrBadHeader
		}
		h.TransformRounds = binary.LittleEndian.Uint64(data)
	case fieldEncryptionIV:
		h.EncryptionIV = data
	case fieldProtectedStreamKey:
		h.ProtectedStreamKey = data
	case fieldStreamStartBytes:
		h.StreamStartBytes = data
	case fieldInnerRandomStreamID:
		if len(data) < 4 {
			return false, ErrBadHeader
		}
		h.InnerRandomStreamID = binary.LittleEndian.Uint32(data)
	case fieldKdfParameters:
		dict, err := decodeVariantDictionary(data)
		if err != nil {
			return false, err
		}
		h.KdfParameters = dict
	case fieldPublicCustomData:
		dict, err := decodeVariantDictionary(data)
		if err != nil {
			return false, err
		}
		h.PublicCustomData = dict
	default:
		// Unknown field ids are preserved by position but otherwise
		// ignored; future minor-version additions do not break parsing.
	}
	return false, nil
}

// writeOuterHeader serializes an outer header for the given generation
// (KDBX3 or KDBX4 only; KDB has no shared TLV shape). It returns the raw
// header bytes so the caller can compute the KDBX4 integrity trailer.
func writeOuterHeader(w io.Writer, h *outerHeader) ([]byte, error) {
	var buf bytes.Buffer
	mw := io.MultiWriter(w, &buf)

	var version uint32
	if h.Generation == GenerationKDBX4 {
		version = 4 << 16
	} else {
		version = 3<<16 | 1
	}

	if err := binary.Write(mw, binary.LittleEndian, baseSignature); err != nil {
		return nil, ErrIO
	}
	if err := binary.Write(mw, binary.LittleEndian, secondarySignature); err != nil {
		return nil, ErrIO
	}
	if err := binary.Write(mw, binary.LittleEndian, version); err != nil {
		return nil, ErrIO
	}

	compressionFlags := make([]byte, 4)
	binary.LittleEndian.PutUint32(compressionFlags, h.CompressionFlags)

	if h.Generation == GenerationKDBX4 {
		if err := h.writeField4(mw, fieldCipherID, h.CipherID); err != nil {
			return nil, err
		}
		if err := h.writeField4(mw, fieldCompressionFlags, compressionFlags); err != nil {
			return nil, err
		}
		if err := h.writeField4(mw, fieldMasterSeed, h.MasterSeed); err != nil {
			return nil, err
		}
		if err := h.writeField4(mw, fieldEncryptionIV, h.EncryptionIV); err != nil {
			return nil, err
		}
		if h.KdfParameters != nil {
			if err := h.writeField4(mw, fieldKdfParameters, encodeVariantDictionary(h.KdfParameters)); err != nil {
				return nil, err
			}
		}
		if h.PublicCustomData != nil {
			if err := h.writeField4(mw, fieldPublicCustomData, encodeVariantDictionary(h.PublicCustomData)); err != nil {
				return nil, err
			}
		}
		if err := h.writeField4(mw, fieldEndOfHeader, []byte{0x0D, 0x0A, 0x0D, 0x0A}); err != nil {
			return nil, err
		}
	} else {
		transformRounds := make([]byte, 8)
		binary.LittleEndian.PutUint64(transformRounds, h.TransformRounds)
		innerStreamID := make([]byte, 4)
		binary.LittleEndian.PutUint32(innerStreamID, h.InnerRandomStreamID)

		if err := h.writeField3(mw, fieldCipherID, h.CipherID); err != nil {
			return nil, err
		}
		if err := h.writeField3(mw, fieldCompressionFlags, compressionFlags); err != nil {
			return nil, err
		}
		if err := h.writeField3(mw, fieldMasterSeed, h.MasterSeed); err != nil {
			return nil, err
		}
		if err := h.writeField3(mw, fieldTransformSeed, h.TransformSeed); err != nil {
			return nil, err
		}
		if err := h.writeField3(mw, fieldTransformRounds, transformRounds); err != nil {
			return nil, err
		}
		if err := h.writeField3(mw, fieldEncryptionIV, h.EncryptionIV); err != nil {
			return nil, err
		}
		if err := h.writeField3(mw, fieldProtectedStreamKey, h.ProtectedStreamKey); err != nil {
			return nil, err
		}
		if err := h.writeField3(mw, fieldStreamStartBytes, h.StreamStartBytes); err != nil {
			return nil, err
		}
		if err := h.writeField3(mw, fieldInnerRandomStreamID, innerStreamID); err != nil {
			return nil, err
		}
		if err := h.writeField3(mw, fieldEndOfHeader, []byte{0x0D, 0x0A, 0x0D, 0x0A}); err != nil {
			return nil, err
		}
	}

	h.rawBytes = buf.Bytes()
	return h.rawBytes, nil
}

func (h *outerHeader) writeField4(w io.Writer, id uint8, data []byte) error {
	if len(data) == 0 && id != fieldEndOfHeader {
		return nil
	}
	if err := binary.Write(w, binary.LittleEndian, id); err != nil {
		return ErrIO
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(data))); err != nil {
		return ErrIO
	}
	if _, err := w.Write(data); err != nil {
		return ErrIO
	}
	return nil
}

func (h *outerHeader) writeField3(w io.Writer, id uint8, data []byte) error {
	if len(data) == 0 && id != fieldEndOfHeader {
		return nil
	}
	if err := binary.Write(w, binary.LittleEndian, id); err != nil {
		return ErrIO
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(data))); err != nil {
		return ErrIO
	}
	if _, err := w.Write(data); err != nil {
		return ErrIO
	}
	return nil
}
