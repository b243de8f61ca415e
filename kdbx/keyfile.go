package kdbx

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/xml"
	"strings"
)

// xmlKeyfileV2 is the structure of a KeePass 2.x "Key" XML keyfile, version
// 2.0: the <Data> element carries a hex-encoded 32-byte key plus a hash
// attribute that is the first 4 bytes of SHA-256(key), used to catch
// transcription errors.
type xmlKeyfileV2 struct {
	Meta struct {
		Version string `xml:"Version"`
	} `xml:"Meta"`
	Key struct {
		Data struct {
			Hash  string `xml:"Hash,attr"`
			Value string `xml:",chardata"`
		} `xml:"Data"`
	} `xml:"Key"`
}

// parseKeyfile tries each recognized keyfile format in turn and returns the
// first match's 32-byte material. Formats, in priority order: XML v2.0 (hex
// data with hash prefix), XML v1.0 (base64 data), legacy 32-byte binary,
// legacy 64-char hex text, and finally SHA-256 of the raw bytes.
func parseKeyfile(data []byte) ([]byte, error) {
	if material, ok := parseKeyfileXMLv2(data); ok {
		return material, nil
	}
	if material, ok := parseKeyfileXMLv1(data); ok {
		return material, nil
	}
	if material, ok := parseKeyfileBinary32(data); ok {
		return material, nil
	}
	if material, ok := parseKeyfileHex64(data); ok {
		return material, nil
	}
	if len(data) == 0 {
		return nil, ErrInvalidKeyFile
	}
	sum := sha256.Sum256(data)
	return sum[:], nil
}

func parseKeyfileXMLv2(data []byte) ([]byte, bool) {
	var kf xmlKeyfileV2
	if err := xml.Unmarshal(data, &kf); err != nil {
		return nil, false
	}
	if kf.Key.Data.Value == "" || kf.Meta.Version != "2.0" {
		return nil, false
	}

	key, err := hex.DecodeString(strings.TrimSpace(kf.Key.Data.Value))
	if err != nil || len(key) != 32 {
		return nil, false
	}

	sum := sha256.Sum256(key)
	wantHash, err := hex.DecodeString(kf.Key.Data.Hash)
	if err != nil || len(wantHash) != 4 {
		return nil, false
	}
	for i := 0; i < 4; i++ {
		if sum[i] != wantHash[i] {
			return nil, false
		}
	}

	hash := sha256.Sum256(key)
	return hash[:], true
}

func parseKeyfileXMLv1(data []byte) ([]byte, bool) {
	var kf xmlKeyfileV2
	if err := xml.Unmarshal(data, &kf); err != nil {
		return nil, false
	}
	if kf.Key.Data.Value == "" {
		return nil, false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(kf.Key.Data.Value))
	if err != nil || len(decoded) != 32 {
		return nil, false
	}
	return decoded, true
}

func parseKeyfileBinary32(data []byte) ([]byte, bool) {
	if len(data) != 32 {
		return nil, false
	}
	out := make([]byte, 32)
	copy(out, data)
	return out, true
}

func parseKeyfileHex64(data []byte) ([]byte, bool) {
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) != 64 {
		return nil, false
	}
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, false
	}
	return decoded, true
}
