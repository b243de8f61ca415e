package kdbx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUUIDIsRandomAndNonZero(t *testing.T) {
	a := NewUUID()
	b := NewUUID()
	require.False(t, a.IsZero())
	require.False(t, a.Equal(b))
}

func TestUUIDZeroValueIsZero(t *testing.T) {
	var u UUID
	require.True(t, u.IsZero())
}

func TestUUIDTextRoundTrip(t *testing.T) {
	want := NewUUID()
	text, err := want.MarshalText()
	require.NoError(t, err)
	require.Len(t, text, 24)

	var got UUID
	require.NoError(t, got.UnmarshalText(text))
	require.True(t, want.Equal(got))
	require.Equal(t, want.String(), got.String())
}

func TestUUIDUnmarshalTextEmptyProducesRandom(t *testing.T) {
	var u UUID
	require.NoError(t, u.UnmarshalText(nil))
	require.False(t, u.IsZero())
}

func TestUUIDUnmarshalTextWrongLengthRejected(t *testing.T) {
	var u UUID
	short, err := UUID{1, 2, 3}.MarshalText()
	require.NoError(t, err)
	// Truncate the base64 text so it decodes to fewer than 16 bytes.
	err = u.UnmarshalText(short[:4])
	require.ErrorIs(t, err, ErrInvalidUUIDLength)
}
