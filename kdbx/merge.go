package kdbx

import (
	"crypto/sha256"
	"sort"
	"time"
)

// MergeLog tallies what a Merge call changed, for callers that want to
// report or audit the result.
type MergeLog struct {
	GroupsAdded    int
	GroupsUpdated  int
	GroupsDeleted  int
	EntriesAdded   int
	EntriesUpdated int
	EntriesDeleted int
	BinariesAdded  int
}

// Merge combines other into db: groups and entries are matched by UUID,
// the newer side (by LastModificationTime) wins on conflict, histories and
// custom_data are unioned, and tombstones in deleted_objects resolve
// same-UUID presence/absence conflicts. db is mutated in place.
func (db *Database) Merge(other *Database) MergeLog {
	log := &MergeLog{}

	deletedSelf := tombstoneMap(db.DeletedObjects)
	deletedOther := tombstoneMap(other.DeletedObjects)

	merged := mergeGroups(db.Root, other.Root, deletedSelf, deletedOther, db.Meta.HistoryMaxItems, log)
	db.Root = merged

	db.DeletedObjects = unionTombstones(db.DeletedObjects, other.DeletedObjects)
	db.Binaries = unionBinaries(db.Binaries, other.Binaries, log)

	return *log
}

func tombstoneMap(objs []DeletedObject) map[UUID]DeletedObject {
	out := make(map[UUID]DeletedObject, len(objs))
	for _, d := range objs {
		if existing, ok := out[d.UUID]; !ok || d.DeletionTime.After(existing.DeletionTime) {
			out[d.UUID] = d
		}
	}
	return out
}

func unionTombstones(a, b []DeletedObject) []DeletedObject {
	merged := tombstoneMap(a)
	for _, d := range b {
		if existing, ok := merged[d.UUID]; !ok || d.DeletionTime.After(existing.DeletionTime) {
			merged[d.UUID] = d
		}
	}
	out := make([]DeletedObject, 0, len(merged))
	for _, d := range merged {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UUID.String() < out[j].UUID.String() })
	return out
}

// unionBinaries merges two binary pools, deduplicating by content hash so
// the same attachment contributed from both sides gets a single pool entry.
func unionBinaries(a, b BinaryPool, log *MergeLog) BinaryPool {
	seen := make(map[[32]byte]bool, len(a))
	out := append(BinaryPool(nil), a...)
	for _, bin := range a {
		seen[sha256.Sum256(bin.Content)] = true
	}
	for _, bin := range b {
		hash := sha256.Sum256(bin.Content)
		if seen[hash] {
			continue
		}
		seen[hash] = true
		out.Add(bin.Content, bin.Compressed)
		log.BinariesAdded++
	}
	return out
}

// mergeGroups merges two Group trees assumed to share a UUID (the root, or
// a subgroup matched by UUID by the caller). Metadata is taken from whichever
// side has the later LastModificationTime; children are matched by UUID and
// merged recursively.
func mergeGroups(a, b Group, deletedA, deletedB map[UUID]DeletedObject, historyMax int64, log *MergeLog) Group {
	result := a
	if b.Times.LastModificationTime.After(a.Times.LastModificationTime) {
		result = b
	}
	if b.Times.LocationChanged.After(a.Times.LocationChanged) {
		result.LastTopVisibleEntry = b.LastTopVisibleEntry
	}
	result.CustomData = mergeCustomData(a.CustomData, b.CustomData)

	childrenA := make(map[UUID]Child, len(a.Children))
	orderA := make([]UUID, 0, len(a.Children))
	for _, c := range a.Children {
		id := childUUID(c)
		childrenA[id] = c
		orderA = append(orderA, id)
	}
	childrenB := make(map[UUID]Child, len(b.Children))
	orderB := make([]UUID, 0, len(b.Children))
	for _, c := range b.Children {
		id := childUUID(c)
		childrenB[id] = c
		orderB = append(orderB, id)
	}

	var merged []Child
	placed := make(map[UUID]bool)

	for _, id := range orderA {
		ca := childrenA[id]
		cb, inB := childrenB[id]

		switch {
		case inB:
			merged = append(merged, mergeChild(ca, cb, deletedA, deletedB, historyMax, log))
		default:
			if tomb, ok := deletedB[id]; ok && !tomb.DeletionTime.Before(childModTime(ca)) {
				tallyDeleted(ca, log)
			} else {
				merged = append(merged, ca)
			}
		}
		placed[id] = true
	}

	for _, id := range orderB {
		if placed[id] {
			continue
		}
		cb := childrenB[id]
		if tomb, ok := deletedA[id]; ok && !tomb.DeletionTime.Before(childModTime(cb)) {
			tallyDeleted(cb, log)
			continue
		}
		merged = append(merged, cb)
		tallyAdded(cb, log)
	}

	result.Children = merged
	return result
}

func mergeChild(a, b Child, deletedA, deletedB map[UUID]DeletedObject, historyMax int64, log *MergeLog) Child {
	if a.IsGroup && b.IsGroup {
		before := a.Group.Times.LastModificationTime
		merged := mergeGroups(*a.Group, *b.Group, deletedA, deletedB, historyMax, log)
		if merged.Times.LastModificationTime.After(before) {
			log.GroupsUpdated++
		}
		return GroupChild(merged)
	}
	if !a.IsGroup && !b.IsGroup {
		before := a.Entry.Times.LastModificationTime
		merged := mergeEntries(*a.Entry, *b.Entry, historyMax)
		if merged.Times.LastModificationTime.After(before) {
			log.EntriesUpdated++
		}
		return EntryChild(merged)
	}
	// A UUID collision across a Group and an Entry should never occur
	// (invariant: UUIDs are unique across the whole database); prefer a's
	// shape rather than silently dropping data.
	return a
}

func childUUID(c Child) UUID {
	if c.IsGroup {
		return c.Group.UUID
	}
	return c.Entry.UUID
}

func childModTime(c Child) time.Time {
	if c.IsGroup {
		return c.Group.Times.LastModificationTime
	}
	return c.Entry.Times.LastModificationTime
}

func tallyAdded(c Child, log *MergeLog) {
	if c.IsGroup {
		log.GroupsAdded++
	} else {
		log.EntriesAdded++
	}
}

func tallyDeleted(c Child, log *MergeLog) {
	if c.IsGroup {
		log.GroupsDeleted++
	} else {
		log.EntriesDeleted++
	}
}

// mergeEntries merges two Entry snapshots of the same UUID: the newer side
// by LastModificationTime wins the live field set, history is unioned by
// modification timestamp and capped at historyMax, and custom_data is
// unioned keeping the newer timestamp per key.
func mergeEntries(a, b Entry, historyMax int64) Entry {
	result := a
	if b.Times.LastModificationTime.After(a.Times.LastModificationTime) {
		result = b
	}
	result.CustomData = mergeCustomData(a.CustomData, b.CustomData)
	result.History = mergeHistory(a.History, b.History, historyMax)
	return result
}

func mergeHistory(a, b []Entry, historyMax int64) []Entry {
	byTime := make(map[int64]Entry)
	var stamps []int64
	add := func(entries []Entry) {
		for _, e := range entries {
			key := e.Times.LastModificationTime.Unix()
			if _, ok := byTime[key]; !ok {
				stamps = append(stamps, key)
			}
			byTime[key] = e
		}
	}
	add(a)
	add(b)

	sort.Slice(stamps, func(i, j int) bool { return stamps[i] < stamps[j] })

	if historyMax > 0 && int64(len(stamps)) > historyMax {
		stamps = stamps[int64(len(stamps))-historyMax:]
	}

	out := make([]Entry, 0, len(stamps))
	for _, s := range stamps {
		out = append(out, byTime[s])
	}
	return out
}

func mergeCustomData(a, b CustomData) CustomData {
	byKey := make(map[string]CustomDataItem, len(a)+len(b))
	for _, item := range a {
		byKey[item.Key] = item
	}
	for _, item := range b {
		existing, ok := byKey[item.Key]
		if !ok {
			byKey[item.Key] = item
			continue
		}
		if newer(item.LastModified, existing.LastModified) {
			byKey[item.Key] = item
		}
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(CustomData, 0, len(keys))
	for _, k := range keys {
		out = append(out, byKey[k])
	}
	return out
}

func newer(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}
