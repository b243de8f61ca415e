package kdbx

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBinaryPoolAddAssignsSequentialIDs(t *testing.T) {
	var pool BinaryPool
	first := pool.Add([]byte("a"), false)
	second := pool.Add([]byte("b"), false)

	require.Equal(t, 0, first.ID)
	require.Equal(t, 1, second.ID)
	require.Len(t, pool, 2)
}

func TestBinaryPoolFind(t *testing.T) {
	var pool BinaryPool
	pool.Add([]byte("a"), false)
	pool.Add([]byte("b"), false)

	found := pool.Find(1)
	require.NotNil(t, found)
	require.Equal(t, []byte("b"), found.Content)
	require.Nil(t, pool.Find(99))
}

func TestBinaryDecompressUncompressed(t *testing.T) {
	b := Binary{Content: []byte("plain")}
	data, err := b.Decompress()
	require.NoError(t, err)
	require.Equal(t, []byte("plain"), data)
}

func TestBinaryDecompressGzipped(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte("attachment content"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	b := Binary{Content: buf.Bytes(), Compressed: true}
	data, err := b.Decompress()
	require.NoError(t, err)
	require.Equal(t, []byte("attachment content"), data)
}

func TestKDBX3BinaryRoundTrip(t *testing.T) {
	b := Binary{ID: 3, Content: []byte("round trip"), Compressed: false}
	wire := encodeKDBX3Binary(b)

	back, err := decodeKDBX3Binary(wire)
	require.NoError(t, err)
	require.Equal(t, b, back)
}

func TestBinaryReferenceRoundTrip(t *testing.T) {
	ref := BinaryReference{Name: "screenshot.png", ID: 7}
	wire := binaryReferenceToWire(ref)
	back := binaryReferenceFromWire(wire)
	require.Equal(t, ref, back)
}
