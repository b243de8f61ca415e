package kdbx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newDBWithRoot() *Database {
	db := NewDatabase("test")
	db.Meta.HistoryMaxItems = 10
	return db
}

func TestMergeDisjointEntriesKeepsBoth(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	a := newDBWithRoot()
	ea := NewEntry()
	ea.Times.LastModificationTime = base
	ea.Fields = append(ea.Fields, Field{Key: FieldTitle, Value: Unprotected("first")})
	a.Root.AddEntry(ea)

	b := newDBWithRoot()
	b.Root.UUID = a.Root.UUID
	eb := NewEntry()
	eb.Times.LastModificationTime = base.Add(time.Hour)
	eb.Fields = append(eb.Fields, Field{Key: FieldTitle, Value: Unprotected("second")})
	b.Root.AddEntry(eb)

	log := a.Merge(b)

	require.Equal(t, 1, log.EntriesAdded)
	require.Len(t, a.Root.Children, 2)

	titles := map[string]bool{}
	for _, e := range a.Root.Entries() {
		titles[e.Title()] = true
	}
	require.True(t, titles["first"])
	require.True(t, titles["second"])
}

func TestMergeSameEntryNewerWins(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	id := NewUUID()

	a := newDBWithRoot()
	ea := NewEntry()
	ea.UUID = id
	ea.Times.LastModificationTime = base
	ea.Fields = []Field{{Key: FieldTitle, Value: Unprotected("old")}}
	a.Root.AddEntry(ea)

	b := newDBWithRoot()
	b.Root.UUID = a.Root.UUID
	eb := NewEntry()
	eb.UUID = id
	eb.Times.LastModificationTime = base.Add(time.Hour)
	eb.Fields = []Field{{Key: FieldTitle, Value: Unprotected("new")}}
	b.Root.AddEntry(eb)

	log := a.Merge(b)

	require.Equal(t, 1, log.EntriesUpdated)
	require.Len(t, a.Root.Children, 1)
	require.Equal(t, "new", a.Root.Entries()[0].Title())
}

func TestMergeHistoryUnionedAndCapped(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	id := NewUUID()

	a := newDBWithRoot()
	a.Meta.HistoryMaxItems = 2
	ea := NewEntry()
	ea.UUID = id
	ea.Times.LastModificationTime = base.Add(3 * time.Hour)
	ea.History = []Entry{
		{UUID: id, Times: Times{LastModificationTime: base}},
	}
	a.Root.AddEntry(ea)

	b := newDBWithRoot()
	b.Root.UUID = a.Root.UUID
	eb := NewEntry()
	eb.UUID = id
	eb.Times.LastModificationTime = base.Add(2 * time.Hour)
	eb.History = []Entry{
		{UUID: id, Times: Times{LastModificationTime: base.Add(time.Hour)}},
		{UUID: id, Times: Times{LastModificationTime: base.Add(30 * time.Minute)}},
	}
	b.Root.AddEntry(eb)

	a.Merge(b)

	require.Len(t, a.Root.Entries()[0].History, 2)
	require.True(t, a.Root.Entries()[0].History[0].Times.LastModificationTime.Before(
		a.Root.Entries()[0].History[1].Times.LastModificationTime))
}

func TestMergeTombstoneDeletesAbsentSide(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	id := NewUUID()

	a := newDBWithRoot()
	ea := NewEntry()
	ea.UUID = id
	ea.Times.LastModificationTime = base
	a.Root.AddEntry(ea)

	b := newDBWithRoot()
	b.Root.UUID = a.Root.UUID
	b.DeletedObjects = []DeletedObject{{UUID: id, DeletionTime: base.Add(time.Hour)}}

	log := a.Merge(b)

	require.Equal(t, 1, log.EntriesDeleted)
	require.Empty(t, a.Root.Children)
}

func TestMergeCustomDataUnionsByRecency(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	a := newDBWithRoot()
	a.Root.CustomData.Set("k1", "from-a", &older)

	b := newDBWithRoot()
	b.Root.UUID = a.Root.UUID
	b.Root.CustomData.Set("k1", "from-b", &newer)
	b.Root.CustomData.Set("k2", "only-in-b", nil)

	a.Merge(b)

	v1, ok := a.Root.CustomData.Get("k1")
	require.True(t, ok)
	require.Equal(t, "from-b", v1.Value)

	_, ok = a.Root.CustomData.Get("k2")
	require.True(t, ok)
}

func TestMergeBinariesDeduped(t *testing.T) {
	a := newDBWithRoot()
	a.Binaries.Add([]byte("shared"), false)

	b := newDBWithRoot()
	b.Binaries.Add([]byte("shared"), false)
	b.Binaries.Add([]byte("unique-to-b"), false)

	log := a.Merge(b)

	require.Equal(t, 1, log.BinariesAdded)
	require.Len(t, a.Binaries, 2)
}
