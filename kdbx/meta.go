package kdbx

import (
	"time"

	w "github.com/spectralops/kdbx/kdbx/wrappers"
)

// MemoryProtection records which well-known entry fields new Values should
// default to Protected for.
type MemoryProtection struct {
	ProtectTitle    bool
	ProtectUserName bool
	ProtectPassword bool
	ProtectURL      bool
	ProtectNotes    bool
}

// CustomIcon is a user-supplied icon referenced by Group/Entry CustomIconUUID.
type CustomIcon struct {
	UUID UUID
	Data []byte // decoded PNG bytes
}

// Meta is database-level metadata: name, description, history limits,
// recycle-bin configuration and the custom_data map.
type Meta struct {
	Generator                  string
	SettingsChanged            time.Time
	DatabaseName               string
	DatabaseNameChanged        time.Time
	DatabaseDescription        string
	DatabaseDescriptionChanged time.Time
	DefaultUserName            string
	DefaultUserNameChanged     time.Time
	MaintenanceHistoryDays     int64
	Color                      string
	MasterKeyChanged           time.Time
	MasterKeyChangeRec         int64
	MasterKeyChangeForce       int64
	MemoryProtection           MemoryProtection
	CustomIcons                []CustomIcon
	RecycleBinEnabled          bool
	RecycleBinUUID             UUID
	RecycleBinChanged          time.Time
	EntryTemplatesGroup        UUID
	EntryTemplatesGroupChanged time.Time
	HistoryMaxItems            int64
	HistoryMaxSize             int64
	LastSelectedGroup          UUID
	LastTopVisibleGroup        UUID
	CustomData                 CustomData
}

// NewMeta returns Meta with the reference implementation's defaults: 10
// history items, 6 MiB history size cap, 365-day maintenance window.
func NewMeta() Meta {
	now := time.Now().UTC().Truncate(time.Second)
	return Meta{
		Generator:              "kdbx",
		SettingsChanged:        now,
		MasterKeyChanged:       now,
		MasterKeyChangeRec:     -1,
		MasterKeyChangeForce:   -1,
		HistoryMaxItems:        10,
		HistoryMaxSize:         6291456,
		MaintenanceHistoryDays: 365,
	}
}

// xmlMeta is the on-the-wire shape of the <Meta> element.
type xmlMeta struct {
	Generator                  string                `xml:"Generator"`
	SettingsChanged            *w.TimeWrapper        `xml:"SettingsChanged"`
	DatabaseName                string                `xml:"DatabaseName"`
	DatabaseNameChanged        *w.TimeWrapper        `xml:"DatabaseNameChanged"`
	DatabaseDescription        string                `xml:"DatabaseDescription"`
	DatabaseDescriptionChanged *w.TimeWrapper        `xml:"DatabaseDescriptionChanged"`
	DefaultUserName            string                `xml:"DefaultUserName"`
	DefaultUserNameChanged     *w.TimeWrapper        `xml:"DefaultUserNameChanged"`
	MaintenanceHistoryDays     int64                 `xml:"MaintenanceHistoryDays"`
	Color                      string                `xml:"Color"`
	MasterKeyChanged           *w.TimeWrapper        `xml:"MasterKeyChanged"`
	MasterKeyChangeRec         int64                 `xml:"MasterKeyChangeRec"`
	MasterKeyChangeForce       int64                 `xml:"MasterKeyChangeForce"`
	MemoryProtection           xmlMemoryProtection   `xml:"MemoryProtection"`
	CustomIcons                []xmlCustomIcon       `xml:"CustomIcons>Icon"`
	RecycleBinEnabled          w.BoolWrapper         `xml:"RecycleBinEnabled"`
	RecycleBinUUID             UUID                  `xml:"RecycleBinUUID"`
	RecycleBinChanged          *w.TimeWrapper        `xml:"RecycleBinChanged"`
	EntryTemplatesGroup        UUID                  `xml:"EntryTemplatesGroup"`
	EntryTemplatesGroupChanged *w.TimeWrapper        `xml:"EntryTemplatesGroupChanged"`
	HistoryMaxItems            int64                 `xml:"HistoryMaxItems"`
	HistoryMaxSize             int64                 `xml:"HistoryMaxSize"`
	LastSelectedGroup          UUID                  `xml:"LastSelectedGroup"`
	LastTopVisibleGroup        UUID                  `xml:"LastTopVisibleGroup"`
	Binaries                   []kdbx3BinaryWire     `xml:"Binaries>Binary,omitempty"`
	CustomData                 []customDataItemWire  `xml:"CustomData>Item"`
}

type xmlMemoryProtection struct {
	ProtectTitle    w.BoolWrapper `xml:"ProtectTitle"`
	ProtectUserName w.BoolWrapper `xml:"ProtectUserName"`
	ProtectPassword w.BoolWrapper `xml:"ProtectPassword"`
	ProtectURL      w.BoolWrapper `xml:"ProtectURL"`
	ProtectNotes    w.BoolWrapper `xml:"ProtectNotes"`
}

type xmlCustomIcon struct {
	UUID UUID   `xml:"UUID"`
	Data string `xml:"Data"`
}

func metaToWire(m Meta, formatted bool, binaries BinaryPool) xmlMeta {
	wrapTime := func(t time.Time) *w.TimeWrapper {
		return &w.TimeWrapper{Formatted: formatted, Time: t}
	}

	icons := make([]xmlCustomIcon, 0, len(m.CustomIcons))
	for _, ic := range m.CustomIcons {
		icons = append(icons, xmlCustomIcon{UUID: ic.UUID, Data: base64Encode(ic.Data)})
	}

	var binaryWires []kdbx3BinaryWire
	for _, b := range binaries {
		binaryWires = append(binaryWires, encodeKDBX3Binary(b))
	}

	return xmlMeta{
		Generator:                  m.Generator,
		SettingsChanged:            wrapTime(m.SettingsChanged),
		DatabaseName:               m.DatabaseName,
		DatabaseNameChanged:        wrapTime(m.DatabaseNameChanged),
		DatabaseDescription:        m.DatabaseDescription,
		DatabaseDescriptionChanged: wrapTime(m.DatabaseDescriptionChanged),
		DefaultUserName:            m.DefaultUserName,
		DefaultUserNameChanged:     wrapTime(m.DefaultUserNameChanged),
		MaintenanceHistoryDays:     m.MaintenanceHistoryDays,
		Color:                      m.Color,
		MasterKeyChanged:           wrapTime(m.MasterKeyChanged),
		MasterKeyChangeRec:         m.MasterKeyChangeRec,
		MasterKeyChangeForce:       m.MasterKeyChangeForce,
		MemoryProtection: xmlMemoryProtection{
			ProtectTitle:    w.BoolWrapper{Bool: m.MemoryProtection.ProtectTitle},
			ProtectUserName: w.BoolWrapper{Bool: m.MemoryProtection.ProtectUserName},
			ProtectPassword: w.BoolWrapper{Bool: m.MemoryProtection.ProtectPassword},
			ProtectURL:      w.BoolWrapper{Bool: m.MemoryProtection.ProtectURL},
			ProtectNotes:    w.BoolWrapper{Bool: m.MemoryProtection.ProtectNotes},
		},
		CustomIcons:                icons,
		RecycleBinEnabled:          w.BoolWrapper{Bool: m.RecycleBinEnabled},
		RecycleBinUUID:             m.RecycleBinUUID,
		RecycleBinChanged:          wrapTime(m.RecycleBinChanged),
		EntryTemplatesGroup:        m.EntryTemplatesGroup,
		EntryTemplatesGroupChanged: wrapTime(m.EntryTemplatesGroupChanged),
		HistoryMaxItems:            m.HistoryMaxItems,
		HistoryMaxSize:             m.HistoryMaxSize,
		LastSelectedGroup:          m.LastSelectedGroup,
		LastTopVisibleGroup:        m.LastTopVisibleGroup,
		Binaries:                   binaryWires,
		CustomData:                 customDataToWire(m.CustomData),
	}
}

func metaFromWire(x xmlMeta) (Meta, BinaryPool) {
	getTime := func(p *w.TimeWrapper) time.Time {
		if p == nil {
			return time.Time{}
		}
		return p.Time
	}

	icons := make([]CustomIcon, 0, len(x.CustomIcons))
	for _, ic := range x.CustomIcons {
		icons = append(icons, CustomIcon{UUID: ic.UUID, Data: base64Decode(ic.Data)})
	}

	var pool BinaryPool
	for _, bw := range x.Binaries {
		b, err := decodeKDBX3Binary(bw)
		if err == nil {
			pool = append(pool, b)
		}
	}

	m := Meta{
		Generator:                  x.Generator,
		SettingsChanged:            getTime(x.SettingsChanged),
		DatabaseName:               x.DatabaseName,
		DatabaseNameChanged:        getTime(x.DatabaseNameChanged),
		DatabaseDescription:        x.DatabaseDescription,
		DatabaseDescriptionChanged: getTime(x.DatabaseDescriptionChanged),
		DefaultUserName:            x.DefaultUserName,
		DefaultUserNameChanged:     getTime(x.DefaultUserNameChanged),
		MaintenanceHistoryDays:     x.MaintenanceHistoryDays,
		Color:                      x.Color,
		MasterKeyChanged:           getTime(x.MasterKeyChanged),
		MasterKeyChangeRec:         x.MasterKeyChangeRec,
		MasterKeyChangeForce:       x.MasterKeyChangeForce,
		MemoryProtection: MemoryProtection{
			ProtectTitle:    x.MemoryProtection.ProtectTitle.Bool,
			ProtectUserName: x.MemoryProtection.ProtectUserName.Bool,
			ProtectPassword: x.MemoryProtection.ProtectPassword.Bool,
			ProtectURL:      x.MemoryProtection.ProtectURL.Bool,
			ProtectNotes:    x.MemoryProtection.ProtectNotes.Bool,
		},
		CustomIcons:                icons,
		RecycleBinEnabled:          x.RecycleBinEnabled.Bool,
		RecycleBinUUID:             x.RecycleBinUUID,
		RecycleBinChanged:          getTime(x.RecycleBinChanged),
		EntryTemplatesGroup:        x.EntryTemplatesGroup,
		EntryTemplatesGroupChanged: getTime(x.EntryTemplatesGroupChanged),
		HistoryMaxItems:            x.HistoryMaxItems,
		HistoryMaxSize:             x.HistoryMaxSize,
		LastSelectedGroup:          x.LastSelectedGroup,
		LastTopVisibleGroup:        x.LastTopVisibleGroup,
		CustomData:                 customDataFromWire(x.CustomData),
	}
	return m, pool
}
