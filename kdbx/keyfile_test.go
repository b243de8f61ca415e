package kdbx

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKeyfileXMLv2(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	sum := sha256.Sum256(key)
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<KeyFile>
	<Meta>
		<Version>2.0</Version>
	</Meta>
	<Key>
		<Data Hash="` + hex.EncodeToString(sum[:4]) + `">` + hex.EncodeToString(key) + `</Data>
	</Key>
</KeyFile>`

	material, err := parseKeyfile([]byte(xml))
	require.NoError(t, err)
	want := sha256.Sum256(key)
	require.Equal(t, want[:], material)
}

func TestParseKeyfileXMLv2RejectsHashMismatch(t *testing.T) {
	key := make([]byte, 32)
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<KeyFile>
	<Meta><Version>2.0</Version></Meta>
	<Key><Data Hash="deadbeef">` + hex.EncodeToString(key) + `</Data></Key>
</KeyFile>`

	material, err := parseKeyfile([]byte(xml))
	require.NoError(t, err)
	// Falls through to the raw-bytes SHA-256 fallback since the XML v2
	// shape rejected the mismatched hash.
	want := sha256.Sum256([]byte(xml))
	require.Equal(t, want[:], material)
}

func TestParseKeyfileXMLv1(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(32 - i)
	}
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<KeyFile>
	<Meta><Version>1.0</Version></Meta>
	<Key><Data>` + base64.StdEncoding.EncodeToString(key) + `</Data></Key>
</KeyFile>`

	material, err := parseKeyfile([]byte(xml))
	require.NoError(t, err)
	require.Equal(t, key, material)
}

func TestParseKeyfileBinary32(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i * 3)
	}
	material, err := parseKeyfile(key)
	require.NoError(t, err)
	require.Equal(t, key, material)
}

func TestParseKeyfileHex64(t *testing.T) {
	key := make([]byte, 32)
	hexStr := hex.EncodeToString(key)
	material, err := parseKeyfile([]byte(hexStr))
	require.NoError(t, err)
	require.Equal(t, key, material)
}

func TestParseKeyfileRawFallback(t *testing.T) {
	raw := []byte("not a recognized keyfile format at all")
	material, err := parseKeyfile(raw)
	require.NoError(t, err)
	want := sha256.Sum256(raw)
	require.Equal(t, want[:], material)
}

func TestParseKeyfileEmptyRejected(t *testing.T) {
	_, err := parseKeyfile(nil)
	require.ErrorIs(t, err, ErrInvalidKeyFile)
}
