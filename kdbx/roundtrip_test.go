package kdbx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTripKDBX4(t *testing.T) {
	db := NewDatabase("round-trip vault")

	entry := NewEntry()
	entry.Fields = []Field{
		{Key: FieldTitle, Value: Unprotected("example.com")},
		{Key: FieldUserName, Value: Unprotected("alice")},
		{Key: FieldPassword, Value: Protected("hunter2")},
	}
	db.Root.AddEntry(entry)

	key := NewDatabaseKey().WithPassword("correct horse battery staple")

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(db, key))

	decoded, err := NewDecoder(&buf).Decode(key)
	require.NoError(t, err)

	require.Equal(t, "round-trip vault", decoded.Meta.DatabaseName)
	entries := decoded.IterAllEntries()
	require.Len(t, entries, 1)
	require.Equal(t, "example.com", entries[0].Title())
	require.Equal(t, "alice", entries[0].UserName())
	require.Equal(t, "hunter2", entries[0].Password())
}

func TestDecodeWithWrongPasswordFails(t *testing.T) {
	db := NewDatabase("vault")
	key := NewDatabaseKey().WithPassword("right-password")

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(db, key))

	wrongKey := NewDatabaseKey().WithPassword("wrong-password")
	_, err := NewDecoder(&buf).Decode(wrongKey)
	require.Error(t, err)
}

func TestEncodeDecodeEmptyDatabaseRoundTrip(t *testing.T) {
	db := NewDatabase("empty")
	key := NewDatabaseKey().WithPassword("pw")

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(db, key))

	decoded, err := NewDecoder(&buf).Decode(key)
	require.NoError(t, err)
	require.Empty(t, decoded.IterAllEntries())
}
