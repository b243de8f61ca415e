package kdbx

import (
	"encoding/xml"
	"io"

	w "github.com/spectralops/kdbx/kdbx/wrappers"
)

// Child is the tagged variant of a Group's children: exactly one of Group or
// Entry is set, discriminated by IsGroup. Modeling this as a sum type rather
// than two parallel slices keeps the mixed ordering that KDBX files actually
// use observable and round-trippable.
type Child struct {
	IsGroup bool
	Group   *Group
	Entry   *Entry
}

// GroupChild wraps g as a Child.
func GroupChild(g Group) Child { return Child{IsGroup: true, Group: &g} }

// EntryChild wraps e as a Child.
func EntryChild(e Entry) Child { return Child{IsGroup: false, Entry: &e} }

// Group is a tree node containing an ordered mix of entries and subgroups.
type Group struct {
	UUID                    UUID
	Name                    string
	Notes                   string
	IconID                  int64
	CustomIconUUID          UUID
	Times                   Times
	IsExpanded              bool
	DefaultAutoTypeSequence string
	EnableAutoType          *bool
	EnableSearching         *bool
	LastTopVisibleEntry     string
	Children                []Child
	CustomData              CustomData
}

// NewGroup returns a Group with a fresh UUID and Times set to now.
func NewGroup() Group {
	return Group{UUID: NewUUID(), Times: NewTimes()}
}

// Entries returns the direct Entry children, in order.
func (g *Group) Entries() []*Entry {
	var out []*Entry
	for i := range g.Children {
		if !g.Children[i].IsGroup {
			out = append(out, g.Children[i].Entry)
		}
	}
	return out
}

// Groups returns the direct Group children, in order.
func (g *Group) Groups() []*Group {
	var out []*Group
	for i := range g.Children {
		if g.Children[i].IsGroup {
			out = append(out, g.Children[i].Group)
		}
	}
	return out
}

// AddEntry appends e as a new child entry.
func (g *Group) AddEntry(e Entry) {
	g.Children = append(g.Children, EntryChild(e))
}

// AddGroup appends sub as a new child group.
func (g *Group) AddGroup(sub Group) {
	g.Children = append(g.Children, GroupChild(sub))
}

// xmlGroup is the on-the-wire shape of a <Group> element. Children is
// populated/emitted by custom Unmarshal/MarshalXML to preserve the exact
// interleaved order of Entry and Group elements.
type xmlGroup struct {
	UUID                    UUID
	Name                    string
	Notes                   string
	IconID                  int64
	CustomIconUUID          UUID
	Times                   timesWire
	IsExpanded              w.BoolWrapper
	DefaultAutoTypeSequence string
	EnableAutoType          w.NullableBoolWrapper
	EnableSearching         w.NullableBoolWrapper
	LastTopVisibleEntry     string
	CustomData              []customDataItemWire
	Children                []xmlChild
}

type xmlChild struct {
	IsGroup bool
	Group   *xmlGroup
	Entry   *xmlEntry
}

// UnmarshalXML reads a Group element, appending Entry/Group children to
// Children in the exact order they appear in the document.
func (g *xmlGroup) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		element, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if err := g.unmarshalChild(d, element); err != nil {
			return err
		}
	}
	return nil
}

func (g *xmlGroup) unmarshalChild(d *xml.Decoder, element xml.StartElement) error {
	switch element.Name.Local {
	case "Entry":
		var e xmlEntry
		if err := d.DecodeElement(&e, &element); err != nil {
			return err
		}
		g.Children = append(g.Children, xmlChild{IsGroup: false, Entry: &e})
	case "Group":
		var sub xmlGroup
		if err := d.DecodeElement(&sub, &element); err != nil {
			return err
		}
		g.Children = append(g.Children, xmlChild{IsGroup: true, Group: &sub})
	case "UUID":
		return d.DecodeElement(&g.UUID, &element)
	case "Name":
		return d.DecodeElement(&g.Name, &element)
	case "Notes":
		return d.DecodeElement(&g.Notes, &element)
	case "IconID":
		return d.DecodeElement(&g.IconID, &element)
	case "CustomIconUUID":
		return d.DecodeElement(&g.CustomIconUUID, &element)
	case "Times":
		return d.DecodeElement(&g.Times, &element)
	case "IsExpanded":
		return d.DecodeElement(&g.IsExpanded, &element)
	case "DefaultAutoTypeSequence":
		return d.DecodeElement(&g.DefaultAutoTypeSequence, &element)
	case "EnableAutoType":
		return d.DecodeElement(&g.EnableAutoType, &element)
	case "EnableSearching":
		return d.DecodeElement(&g.EnableSearching, &element)
	case "LastTopVisibleEntry":
		return d.DecodeElement(&g.LastTopVisibleEntry, &element)
	case "CustomData":
		var wrapper struct {
			Items []customDataItemWire `xml:"Item"`
		}
		if err := d.DecodeElement(&wrapper, &element); err != nil {
			return err
		}
		g.CustomData = wrapper.Items
	default:
		return d.Skip()
	}
	return nil
}

// MarshalXML writes a Group element with metadata fields first, then
// Entry/Group children in Children order.
func (g xmlGroup) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "Group"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	encodeField := func(name string, v interface{}) error {
		return e.EncodeElement(v, xml.StartElement{Name: xml.Name{Local: name}})
	}
	if err := encodeField("UUID", g.UUID); err != nil {
		return err
	}
	if err := encodeField("Name", g.Name); err != nil {
		return err
	}
	if err := encodeField("Notes", g.Notes); err != nil {
		return err
	}
	if err := encodeField("IconID", g.IconID); err != nil {
		return err
	}
	if err := encodeField("CustomIconUUID", g.CustomIconUUID); err != nil {
		return err
	}
	if err := encodeField("Times", g.Times); err != nil {
		return err
	}
	if err := encodeField("IsExpanded", g.IsExpanded); err != nil {
		return err
	}
	if err := encodeField("DefaultAutoTypeSequence", g.DefaultAutoTypeSequence); err != nil {
		return err
	}
	if err := encodeField("EnableAutoType", g.EnableAutoType); err != nil {
		return err
	}
	if err := encodeField("EnableSearching", g.EnableSearching); err != nil {
		return err
	}
	if err := encodeField("LastTopVisibleEntry", g.LastTopVisibleEntry); err != nil {
		return err
	}
	if len(g.CustomData) > 0 {
		cdStart := xml.StartElement{Name: xml.Name{Local: "CustomData"}}
		if err := e.EncodeToken(cdStart); err != nil {
			return err
		}
		for _, item := range g.CustomData {
			if err := encodeField("Item", item); err != nil {
				return err
			}
		}
		if err := e.EncodeToken(cdStart.End()); err != nil {
			return err
		}
	}

	for _, child := range g.Children {
		if child.IsGroup {
			if err := e.Encode(child.Group); err != nil {
				return err
			}
		} else {
			if err := encodeField("Entry", child.Entry); err != nil {
				return err
			}
		}
	}

	return e.EncodeToken(start.End())
}

func groupToWire(g Group, formatted bool) xmlGroup {
	children := make([]xmlChild, 0, len(g.Children))
	for _, c := range g.Children {
		if c.IsGroup {
			sub := groupToWire(*c.Group, formatted)
			children = append(children, xmlChild{IsGroup: true, Group: &sub})
		} else {
			ew := entryToWire(*c.Entry, formatted)
			children = append(children, xmlChild{IsGroup: false, Entry: &ew})
		}
	}

	return xmlGroup{
		UUID:                    g.UUID,
		Name:                    g.Name,
		Notes:                   g.Notes,
		IconID:                  g.IconID,
		CustomIconUUID:          g.CustomIconUUID,
		Times:                   timesToWire(g.Times, formatted),
		IsExpanded:              w.BoolWrapper{Bool: g.IsExpanded},
		DefaultAutoTypeSequence: g.DefaultAutoTypeSequence,
		EnableAutoType:          nullableBoolToWire(g.EnableAutoType),
		EnableSearching:         nullableBoolToWire(g.EnableSearching),
		LastTopVisibleEntry:     g.LastTopVisibleEntry,
		CustomData:              customDataToWire(g.CustomData),
		Children:                children,
	}
}

func groupFromWire(x xmlGroup) Group {
	children := make([]Child, 0, len(x.Children))
	for _, c := range x.Children {
		if c.IsGroup {
			sub := groupFromWire(*c.Group)
			children = append(children, Child{IsGroup: true, Group: &sub})
		} else {
			en := entryFromWire(*c.Entry)
			children = append(children, Child{IsGroup: false, Entry: &en})
		}
	}

	return Group{
		UUID:                    x.UUID,
		Name:                    x.Name,
		Notes:                   x.Notes,
		IconID:                  x.IconID,
		CustomIconUUID:          x.CustomIconUUID,
		Times:                   timesFromWire(x.Times),
		IsExpanded:              x.IsExpanded.Bool,
		DefaultAutoTypeSequence: x.DefaultAutoTypeSequence,
		EnableAutoType:          nullableBoolFromWire(x.EnableAutoType),
		EnableSearching:         nullableBoolFromWire(x.EnableSearching),
		LastTopVisibleEntry:     x.LastTopVisibleEntry,
		CustomData:              customDataFromWire(x.CustomData),
		Children:                children,
	}
}

func nullableBoolToWire(b *bool) w.NullableBoolWrapper {
	if b == nil {
		return w.NullableBoolWrapper{Valid: false}
	}
	return w.NullableBoolWrapper{Valid: true, Bool: *b}
}

func nullableBoolFromWire(nw w.NullableBoolWrapper) *bool {
	if !nw.Valid {
		return nil
	}
	b := nw.Bool
	return &b
}

// walkGroupProtected drives the protected-stream cursor across every entry
// in g and its subgroups, in document order (children in Children order).
func walkGroupProtected(g *Group, cursor Stream, encrypt bool) {
	for i := range g.Children {
		if g.Children[i].IsGroup {
			walkGroupProtected(g.Children[i].Group, cursor, encrypt)
		} else {
			walkEntryProtected(g.Children[i].Entry, cursor, encrypt)
		}
	}
}
