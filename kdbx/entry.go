package kdbx

import (
	w "github.com/spectralops/kdbx/kdbx/wrappers"
)

// Field is one entry String value: a key plus its Value (unprotected,
// protected, or raw bytes). Order of Fields as read is preserved; Entry.Get
// does a linear scan rather than keying a map so that order survives edits.
type Field struct {
	Key   string
	Value Value
}

// Well-known entry field keys. Unknown keys are preserved verbatim.
const (
	FieldTitle    = "Title"
	FieldUserName = "UserName"
	FieldPassword = "Password"
	FieldURL      = "URL"
	FieldNotes    = "Notes"
)

// AutoTypeAssociation binds a window title pattern to a keystroke sequence.
type AutoTypeAssociation struct {
	Window            string
	KeystrokeSequence string
}

// AutoType holds an entry's auto-type configuration.
type AutoType struct {
	Enabled                 bool
	DataTransferObfuscation int64
	DefaultSequence         string
	Associations            []AutoTypeAssociation
}

// Entry is a leaf node: credentials and metadata for one password record.
type Entry struct {
	UUID            UUID
	IconID          int64
	CustomIconUUID  UUID
	ForegroundColor string
	BackgroundColor string
	OverrideURL     string
	Tags            string
	Times           Times
	Fields          []Field
	Binaries        []BinaryReference
	AutoType        AutoType
	History         []Entry // prior snapshots, oldest first, newest last
	CustomData      CustomData
}

// NewEntry returns an Entry with a fresh UUID and Times set to now.
func NewEntry() Entry {
	return Entry{UUID: NewUUID(), Times: NewTimes()}
}

// Get returns the field for key, or nil if absent.
func (e *Entry) Get(key string) *Field {
	for i := range e.Fields {
		if e.Fields[i].Key == key {
			return &e.Fields[i]
		}
	}
	return nil
}

// GetContent returns the string content of the field for key, or "".
func (e *Entry) GetContent(key string) string {
	f := e.Get(key)
	if f == nil {
		return ""
	}
	return f.Value.String()
}

// Set inserts or overwrites the field for key.
func (e *Entry) Set(key string, value Value) {
	if f := e.Get(key); f != nil {
		f.Value = value
		return
	}
	e.Fields = append(e.Fields, Field{Key: key, Value: value})
}

// Title, UserName, Password, URL and Notes return the corresponding
// well-known field's content.
func (e *Entry) Title() string    { return e.GetContent(FieldTitle) }
func (e *Entry) UserName() string { return e.GetContent(FieldUserName) }
func (e *Entry) Password() string { return e.GetContent(FieldPassword) }
func (e *Entry) URL() string      { return e.GetContent(FieldURL) }
func (e *Entry) Notes() string    { return e.GetContent(FieldNotes) }

// xmlEntry is the on-the-wire shape of an <Entry> element. Protected field
// content here is still ciphertext (base64); the protected-stream walk in
// decoder.go/encoder.go converts between this and the domain Entry.
type xmlEntry struct {
	UUID            UUID                  `xml:"UUID"`
	IconID          int64                 `xml:"IconID"`
	CustomIconUUID  UUID                  `xml:"CustomIconUUID"`
	ForegroundColor string                `xml:"ForegroundColor"`
	BackgroundColor string                `xml:"BackgroundColor"`
	OverrideURL     string                `xml:"OverrideURL"`
	Tags            string                `xml:"Tags"`
	Times           timesWire             `xml:"Times"`
	Values          []fieldWire           `xml:"String,omitempty"`
	AutoType        xmlAutoType           `xml:"AutoType"`
	Binaries        []binaryReferenceWire `xml:"Binary,omitempty"`
	History         *xmlHistory           `xml:"History"`
	CustomData      []customDataItemWire  `xml:"CustomData>Item"`
}

type xmlAutoType struct {
	Enabled                 w.BoolWrapper  `xml:"Enabled"`
	DataTransferObfuscation int64          `xml:"DataTransferObfuscation"`
	DefaultSequence         string         `xml:"DefaultSequence"`
	Associations            []xmlAutoAssoc `xml:"Association,omitempty"`
}

type xmlAutoAssoc struct {
	Window            string `xml:"Window"`
	KeystrokeSequence string `xml:"KeystrokeSequence"`
}

type xmlHistory struct {
	Entries []xmlEntry `xml:"Entry"`
}

// entryToWire converts a domain Entry into its wire shape without touching
// protected-stream state; Values keep the domain Value's plaintext and
// Protected flag as-is (ciphering happens during the document walk).
func entryToWire(e Entry, formatted bool) xmlEntry {
	values := make([]fieldWire, 0, len(e.Fields))
	for _, f := range e.Fields {
		values = append(values, fieldWire{
			Key: f.Key,
			Value: valueWire{
				Content:   f.Value.String(),
				Protected: w.BoolWrapper{Bool: f.Value.IsProtected()},
			},
		})
	}

	binaries := make([]binaryReferenceWire, 0, len(e.Binaries))
	for _, b := range e.Binaries {
		binaries = append(binaries, binaryReferenceToWire(b))
	}

	associations := make([]xmlAutoAssoc, 0, len(e.AutoType.Associations))
	for _, a := range e.AutoType.Associations {
		associations = append(associations, xmlAutoAssoc{Window: a.Window, KeystrokeSequence: a.KeystrokeSequence})
	}

	var history *xmlHistory
	if len(e.History) > 0 {
		entries := make([]xmlEntry, 0, len(e.History))
		for _, h := range e.History {
			entries = append(entries, entryToWire(h, formatted))
		}
		history = &xmlHistory{Entries: entries}
	}

	return xmlEntry{
		UUID:            e.UUID,
		IconID:          e.IconID,
		CustomIconUUID:  e.CustomIconUUID,
		ForegroundColor: e.ForegroundColor,
		BackgroundColor: e.BackgroundColor,
		OverrideURL:     e.OverrideURL,
		Tags:            e.Tags,
		Times:           timesToWire(e.Times, formatted),
		Values:          values,
		AutoType: xmlAutoType{
			Enabled:                 w.BoolWrapper{Bool: e.AutoType.Enabled},
			DataTransferObfuscation: e.AutoType.DataTransferObfuscation,
			DefaultSequence:         e.AutoType.DefaultSequence,
			Associations:            associations,
		},
		Binaries:   binaries,
		History:    history,
		CustomData: customDataToWire(e.CustomData),
	}
}

// entryFromWire is the inverse of entryToWire. Protected values retain their
// ciphertext in Value.text until the protected-stream walk decrypts them.
func entryFromWire(x xmlEntry) Entry {
	fields := make([]Field, 0, len(x.Values))
	for _, v := range x.Values {
		val := Unprotected(v.Value.Content)
		if v.Value.Protected.Bool {
			val = Protected(v.Value.Content)
		}
		fields = append(fields, Field{Key: v.Key, Value: val})
	}

	binaries := make([]BinaryReference, 0, len(x.Binaries))
	for _, b := range x.Binaries {
		binaries = append(binaries, binaryReferenceFromWire(b))
	}

	associations := make([]AutoTypeAssociation, 0, len(x.AutoType.Associations))
	for _, a := range x.AutoType.Associations {
		associations = append(associations, AutoTypeAssociation{Window: a.Window, KeystrokeSequence: a.KeystrokeSequence})
	}

	var history []Entry
	if x.History != nil {
		for _, h := range x.History.Entries {
			history = append(history, entryFromWire(h))
		}
	}

	return Entry{
		UUID:            x.UUID,
		IconID:          x.IconID,
		CustomIconUUID:  x.CustomIconUUID,
		ForegroundColor: x.ForegroundColor,
		BackgroundColor: x.BackgroundColor,
		OverrideURL:     x.OverrideURL,
		Tags:            x.Tags,
		Times:           timesFromWire(x.Times),
		Fields:          fields,
		AutoType: AutoType{
			Enabled:                 x.AutoType.Enabled.Bool,
			DataTransferObfuscation: x.AutoType.DataTransferObfuscation,
			DefaultSequence:         x.AutoType.DefaultSequence,
			Associations:            associations,
		},
		Binaries:   binaries,
		History:    history,
		CustomData: customDataFromWire(x.CustomData),
	}
}

// walkEntryProtected drives the protected-stream cursor across every
// Protected value in e, in document order: e's own fields first, then each
// history snapshot in file order. encrypt chooses direction so the same
// walk serves both decode (decrypt) and encode (encrypt).
func walkEntryProtected(e *Entry, cursor Stream, encrypt bool) {
	for i := range e.Fields {
		if !e.Fields[i].Value.IsProtected() {
			continue
		}
		if encrypt {
			e.Fields[i].Value = Protected(cursor.Pack([]byte(e.Fields[i].Value.String())))
		} else {
			e.Fields[i].Value = Protected(string(cursor.Unpack(e.Fields[i].Value.String())))
		}
	}
	for i := range e.History {
		walkEntryProtected(&e.History[i], cursor, encrypt)
	}
}
