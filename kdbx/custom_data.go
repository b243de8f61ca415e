package kdbx

import (
	"time"

	w "github.com/spectralops/kdbx/kdbx/wrappers"
)

// CustomDataItem is one key/value pair of an owner's custom_data map. KDBX4.1
// added a per-key last-modified timestamp; files written by earlier tools
// omit it, which LastModified being nil represents.
type CustomDataItem struct {
	Key          string
	Value        string
	LastModified *time.Time
}

// CustomData is an owner's (Database/Group/Entry) custom_data map. Order is
// not semantically meaningful but is preserved for stable round-tripping.
type CustomData []CustomDataItem

// Get returns the item for key, or false if absent.
func (cd CustomData) Get(key string) (CustomDataItem, bool) {
	for _, item := range cd {
		if item.Key == key {
			return item, true
		}
	}
	return CustomDataItem{}, false
}

// Set inserts or overwrites the item for key.
func (cd *CustomData) Set(key, value string, lastModified *time.Time) {
	for i, item := range *cd {
		if item.Key == key {
			(*cd)[i] = CustomDataItem{Key: key, Value: value, LastModified: lastModified}
			return
		}
	}
	*cd = append(*cd, CustomDataItem{Key: key, Value: value, LastModified: lastModified})
}

// customDataItemWire is the <Item> element under <CustomData>.
type customDataItemWire struct {
	Key          string         `xml:"Key"`
	Value        string         `xml:"Value"`
	LastModified *w.TimeWrapper `xml:"LastModificationTime,omitempty"`
}

func customDataToWire(cd CustomData) []customDataItemWire {
	out := make([]customDataItemWire, 0, len(cd))
	for _, item := range cd {
		wireItem := customDataItemWire{Key: item.Key, Value: item.Value}
		if item.LastModified != nil {
			wireItem.LastModified = &w.TimeWrapper{Formatted: false, Time: *item.LastModified}
		}
		out = append(out, wireItem)
	}
	return out
}

func customDataFromWire(items []customDataItemWire) CustomData {
	out := make(CustomData, 0, len(items))
	for _, item := range items {
		var lastModified *time.Time
		if item.LastModified != nil {
			t := item.LastModified.Time
			lastModified = &t
		}
		out = append(out, CustomDataItem{Key: item.Key, Value: item.Value, LastModified: lastModified})
	}
	return out
}
