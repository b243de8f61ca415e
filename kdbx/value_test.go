package kdbx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnprotectedValue(t *testing.T) {
	v := Unprotected("hello")
	require.Equal(t, KindUnprotected, v.Kind())
	require.False(t, v.IsProtected())
	require.Equal(t, "hello", v.String())
}

func TestProtectedValue(t *testing.T) {
	v := Protected("secret")
	require.Equal(t, KindProtected, v.Kind())
	require.True(t, v.IsProtected())
	require.Equal(t, "secret", v.String())
}

func TestBytesValue(t *testing.T) {
	raw := []byte{1, 2, 3, 4}
	v := BytesValue(raw)
	require.Equal(t, KindBytes, v.Kind())
	require.False(t, v.IsProtected())
	require.Equal(t, raw, v.Bytes())
}
