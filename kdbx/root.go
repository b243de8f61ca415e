package kdbx

import (
	"encoding/xml"
	"time"

	w "github.com/spectralops/kdbx/kdbx/wrappers"
)

// DeletedObject is a tombstone: a UUID that once existed, removed at
// DeletionTime. The merge engine uses these to decide whether a side's
// absence of an object means "never seen" or "deleted".
type DeletedObject struct {
	UUID         UUID
	DeletionTime time.Time
}

type xmlDeletedObject struct {
	XMLName      xml.Name       `xml:"DeletedObject"`
	UUID         UUID           `xml:"UUID"`
	DeletionTime *w.TimeWrapper `xml:"DeletionTime"`
}

func deletedObjectToWire(d DeletedObject, formatted bool) xmlDeletedObject {
	return xmlDeletedObject{
		UUID:         d.UUID,
		DeletionTime: &w.TimeWrapper{Formatted: formatted, Time: d.DeletionTime},
	}
}

func deletedObjectFromWire(x xmlDeletedObject) DeletedObject {
	var t time.Time
	if x.DeletionTime != nil {
		t = x.DeletionTime.Time
	}
	return DeletedObject{UUID: x.UUID, DeletionTime: t}
}

// xmlRoot is the on-the-wire shape of the <Root> element: exactly one Group
// plus zero or more deletion tombstones.
type xmlRoot struct {
	Group          xmlGroup           `xml:"Group"`
	DeletedObjects []xmlDeletedObject `xml:"DeletedObjects>DeletedObject"`
}

func rootToWire(root Group, deleted []DeletedObject, formatted bool) *xmlRoot {
	objs := make([]xmlDeletedObject, 0, len(deleted))
	for _, d := range deleted {
		objs = append(objs, deletedObjectToWire(d, formatted))
	}
	return &xmlRoot{
		Group:          groupToWire(root, formatted),
		DeletedObjects: objs,
	}
}

func rootFromWire(x *xmlRoot) (Group, []DeletedObject) {
	root := groupFromWire(x.Group)
	deleted := make([]DeletedObject, 0, len(x.DeletedObjects))
	for _, d := range x.DeletedObjects {
		deleted = append(deleted, deletedObjectFromWire(d))
	}
	return root, deleted
}
