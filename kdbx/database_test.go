package kdbx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDatabaseDefaults(t *testing.T) {
	db := NewDatabase("my-vault")
	require.Equal(t, GenerationKDBX4, db.Generation)
	require.Equal(t, "my-vault", db.Root.Name)
	require.Equal(t, "my-vault", db.Meta.DatabaseName)
	require.Equal(t, CipherChaCha20, db.Settings.CipherID)
	require.Equal(t, InnerStreamChaCha, db.Settings.InnerStreamID)
	require.NotNil(t, db.Settings.KdfParameters)
	require.Equal(t, KdfArgon2id, db.Settings.KdfParameters.bytes("$UUID"))
}

func TestNewDatabaseEmptyNameFallsBackToDefault(t *testing.T) {
	db := NewDatabase("")
	require.Equal(t, "NewDatabase", db.Root.Name)
}

func TestIterAllEntriesWalksDepthFirst(t *testing.T) {
	db := NewDatabase("root")

	top := NewEntry()
	top.Fields = []Field{{Key: FieldTitle, Value: Unprotected("top")}}
	db.Root.AddEntry(top)

	sub := NewGroup()
	sub.Name = "sub"
	nested := NewEntry()
	nested.Fields = []Field{{Key: FieldTitle, Value: Unprotected("nested")}}
	sub.AddEntry(nested)
	db.Root.AddGroup(sub)

	entries := db.IterAllEntries()
	require.Len(t, entries, 2)
	require.Equal(t, "top", entries[0].Title())
	require.Equal(t, "nested", entries[1].Title())
}

func TestFindGroupLocatesNestedGroup(t *testing.T) {
	db := NewDatabase("root")
	sub := NewGroup()
	sub.Name = "sub"
	subID := sub.UUID
	db.Root.AddGroup(sub)

	found := db.FindGroup(subID)
	require.NotNil(t, found)
	require.Equal(t, "sub", found.Name)
}

func TestFindGroupMissingReturnsNil(t *testing.T) {
	db := NewDatabase("root")
	require.Nil(t, db.FindGroup(NewUUID()))
}
