package kdbx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveAESKDFDeterministic(t *testing.T) {
	composite := make([]byte, 32)
	seed := make([]byte, 32)

	first, err := deriveAESKDF(composite, seed, 6000)
	require.NoError(t, err)
	require.Len(t, first, 32)

	second, err := deriveAESKDF(composite, seed, 6000)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDeriveAESKDFVariesByRounds(t *testing.T) {
	composite := make([]byte, 32)
	seed := make([]byte, 32)

	a, err := deriveAESKDF(composite, seed, 1)
	require.NoError(t, err)
	b, err := deriveAESKDF(composite, seed, 2)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestDeriveArgon2ParallelismInvariant(t *testing.T) {
	composite := []byte("composite-key-material-32-bytes")
	params := newVariantDictionary()
	params.setBytes("S", make([]byte, 16))
	params.setUint64("I", 2)
	params.setUint64("M", 8*1024)

	params.setUint32("P", 1)
	single, err := deriveArgon2(composite, params, true)
	require.NoError(t, err)

	params.setUint32("P", 8)
	multi, err := deriveArgon2(composite, params, true)
	require.NoError(t, err)

	require.Equal(t, single, multi, "parallelism must not affect Argon2id output for fixed other parameters")
	require.Len(t, single, 32)
}

func TestKdfSeedKDBX3UsesTransformSeed(t *testing.T) {
	h := &outerHeader{Generation: GenerationKDBX3, TransformSeed: []byte{1, 2, 3}}
	require.Equal(t, []byte{1, 2, 3}, kdfSeed(h))
}

func TestKdfSeedKDBX4UsesVariantDictionary(t *testing.T) {
	params := newVariantDictionary()
	params.setBytes("S", []byte{9, 9, 9})
	h := &outerHeader{Generation: GenerationKDBX4, KdfParameters: params}
	require.Equal(t, []byte{9, 9, 9}, kdfSeed(h))
}

func TestKdfSeedKDBX4NilParametersReturnsNil(t *testing.T) {
	h := &outerHeader{Generation: GenerationKDBX4}
	require.Nil(t, kdfSeed(h))
}

func TestDeriveTransformedKeyDispatchesByKDFUUID(t *testing.T) {
	composite := make([]byte, 32)

	aesParams := newVariantDictionary()
	aesParams.setBytes("$UUID", KdfAES4)
	aesParams.setBytes("S", make([]byte, 32))
	aesParams.setUint64("R", 1)
	h := &outerHeader{Generation: GenerationKDBX4, KdfParameters: aesParams}

	key, err := deriveTransformedKey(composite, h)
	require.NoError(t, err)
	require.Len(t, key, 32)
}

func TestDeriveTransformedKeyUnsupportedKDF(t *testing.T) {
	params := newVariantDictionary()
	params.setBytes("$UUID", []byte{0xff, 0xff, 0xff, 0xff})
	h := &outerHeader{Generation: GenerationKDBX4, KdfParameters: params}

	_, err := deriveTransformedKey(make([]byte, 32), h)
	require.ErrorIs(t, err, ErrUnsupportedKDF)
}
