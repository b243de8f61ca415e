package kdbx

import (
	"time"

	w "github.com/spectralops/kdbx/kdbx/wrappers"
)

// Times holds the lifecycle timestamps shared by Group and Entry: creation,
// last modification, last access, optional expiry, the time a node last
// changed location in the tree, and a usage counter.
type Times struct {
	CreationTime         time.Time
	LastModificationTime time.Time
	LastAccessTime       time.Time
	ExpiryTime           time.Time
	Expires              bool
	UsageCount           int64
	LocationChanged      time.Time
}

// NewTimes returns a Times with every timestamp set to now and Expires false.
func NewTimes() Times {
	now := time.Now().UTC().Truncate(time.Second)
	return Times{
		CreationTime:         now,
		LastModificationTime: now,
		LastAccessTime:       now,
		LocationChanged:      now,
	}
}

// timesWire is the XML shape of a <Times> element. KDBX3 encodes timestamps
// as ISO-8601 text, KDBX4 as base64 little-endian seconds since year 1;
// formatted controls which on write, and is auto-detected on read by
// w.TimeWrapper.
type timesWire struct {
	CreationTime         *w.TimeWrapper `xml:"CreationTime"`
	LastModificationTime *w.TimeWrapper `xml:"LastModificationTime"`
	LastAccessTime       *w.TimeWrapper `xml:"LastAccessTime"`
	ExpiryTime           *w.TimeWrapper `xml:"ExpiryTime"`
	Expires              w.BoolWrapper  `xml:"Expires"`
	UsageCount           int64          `xml:"UsageCount"`
	LocationChanged      *w.TimeWrapper `xml:"LocationChanged"`
}

func timesToWire(t Times, formatted bool) timesWire {
	wrap := func(tm time.Time) *w.TimeWrapper {
		return &w.TimeWrapper{Formatted: formatted, Time: tm}
	}
	return timesWire{
		CreationTime:         wrap(t.CreationTime),
		LastModificationTime: wrap(t.LastModificationTime),
		LastAccessTime:       wrap(t.LastAccessTime),
		ExpiryTime:           wrap(t.ExpiryTime),
		Expires:              w.BoolWrapper{Bool: t.Expires},
		UsageCount:           t.UsageCount,
		LocationChanged:      wrap(t.LocationChanged),
	}
}

func timesFromWire(tw timesWire) Times {
	get := func(p *w.TimeWrapper) time.Time {
		if p == nil {
			return time.Time{}
		}
		return p.Time
	}
	return Times{
		CreationTime:         get(tw.CreationTime),
		LastModificationTime: get(tw.LastModificationTime),
		LastAccessTime:       get(tw.LastAccessTime),
		ExpiryTime:           get(tw.ExpiryTime),
		Expires:              tw.Expires.Bool,
		UsageCount:           tw.UsageCount,
		LocationChanged:      get(tw.LocationChanged),
	}
}
