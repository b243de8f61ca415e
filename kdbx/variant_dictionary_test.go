package kdbx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVariantDictionaryEncodeExactBytes(t *testing.T) {
	vd := newVariantDictionary()
	vd.setUint64("R", 10)
	vd.setBytes("S", make([]byte, 32))

	want := []byte{
		0x01, 0x00, // version
		0x05, 0x01, 0x00, 0x00, 0x00, 'R', 0x08, 0x00, 0x00, 0x00,
		0x0A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // uint64(10), little-endian
		0x42, 0x01, 0x00, 0x00, 0x00, 'S', 0x20, 0x00, 0x00, 0x00,
	}
	want = append(want, make([]byte, 32)...)
	want = append(want, 0x00)

	got := encodeVariantDictionary(vd)
	require.True(t, bytes.Equal(want, got), "got % x", got)
}

func TestVariantDictionaryRoundTrip(t *testing.T) {
	vd := newVariantDictionary()
	vd.setUint32("P", 2)
	vd.setUint64("M", 1048576)
	vd.setBytes("$UUID", []byte{1, 2, 3, 4})

	encoded := encodeVariantDictionary(vd)
	decoded, err := decodeVariantDictionary(encoded)
	require.NoError(t, err)

	require.Equal(t, uint32(2), decoded.uint32("P"))
	require.Equal(t, uint64(1048576), decoded.uint64("M"))
	require.Equal(t, []byte{1, 2, 3, 4}, decoded.bytes("$UUID"))
}

func TestVariantDictionaryRejectsUnknownType(t *testing.T) {
	data := []byte{0x01, 0x00, 0xFF, 0x01, 0x00, 0x00, 0x00, 'X', 0x00, 0x00, 0x00, 0x00}
	_, err := decodeVariantDictionary(data)
	require.ErrorIs(t, err, ErrBadVariantDictionary)
}
