package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAESEncrypterRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	iv := make([]byte, 16)
	for i := range key {
		key[i] = byte(i)
	}
	enc, err := NewAESEncrypter(key, iv)
	require.NoError(t, err)

	plain := []byte("0123456789abcdef0123456789abcdef") // two AES blocks
	cipherText := enc.Encrypt(plain)
	require.NotEqual(t, plain, cipherText)

	dec, err := NewAESEncrypter(key, iv)
	require.NoError(t, err)
	require.Equal(t, plain, dec.Decrypt(cipherText))
}

func TestTwofishEncrypterRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	iv := make([]byte, 16)
	for i := range key {
		key[i] = byte(31 - i)
	}
	enc, err := NewTwofishEncrypter(key, iv)
	require.NoError(t, err)

	plain := []byte("0123456789abcdef0123456789abcdef")
	cipherText := enc.Encrypt(plain)
	require.NotEqual(t, plain, cipherText)

	dec, err := NewTwofishEncrypter(key, iv)
	require.NoError(t, err)
	require.Equal(t, plain, dec.Decrypt(cipherText))
}

func TestChaChaStreamRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	iv := make([]byte, 12)
	enc, err := NewChaChaEncrypter(key, iv)
	require.NoError(t, err)

	plain := []byte("container payload")
	cipherText := enc.Encrypt(plain)

	dec, err := NewChaChaEncrypter(key, iv)
	require.NoError(t, err)
	require.Equal(t, plain, dec.Decrypt(cipherText))
}

func TestChaChaStreamPackUnpack(t *testing.T) {
	key := make([]byte, 64)
	s1, err := NewChaChaStream(key)
	require.NoError(t, err)
	s2, err := NewChaChaStream(key)
	require.NoError(t, err)

	packed := s1.Pack([]byte("protected value"))
	unpacked := s2.Unpack(packed)
	require.Equal(t, "protected value", string(unpacked))
}

func TestSalsaStreamPackUnpack(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i * 7)
	}
	s1, err := NewSalsaStream(key)
	require.NoError(t, err)
	s2, err := NewSalsaStream(key)
	require.NoError(t, err)

	packed := s1.Pack([]byte("a protected field value"))
	unpacked := s2.Unpack(packed)
	require.Equal(t, "a protected field value", string(unpacked))
}

func TestSalsaStreamAdvancesAcrossMultipleBlocks(t *testing.T) {
	key := make([]byte, 32)
	s1, err := NewSalsaStream(key)
	require.NoError(t, err)
	s2, err := NewSalsaStream(key)
	require.NoError(t, err)

	long := make([]byte, 200) // spans more than 3 Salsa20 blocks
	for i := range long {
		long[i] = byte(i)
	}
	packed := s1.Pack(long)
	unpacked := s2.Unpack(packed)
	require.Equal(t, long, unpacked)
}

func TestInsecureStreamIsPassthroughBase64(t *testing.T) {
	s := NewInsecureStream()
	packed := s.Pack([]byte("plain text"))
	require.Equal(t, "plain text", string(s.Unpack(packed)))
}
