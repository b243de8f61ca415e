// Package wrappers holds small XML marshaling adapters shared by the object model.
package wrappers

import (
	"encoding/xml"
	"strings"
)

func parseBoolValue(val string) bool {
	switch strings.ToLower(val) {
	case "true", "yes", "1", "enabled", "checked":
		return true
	default:
		return false
	}
}

// BoolWrapper marshals/unmarshals KeePass's "True"/"False" XML bools.
type BoolWrapper struct {
	Bool bool
}

// NewBoolWrapper wraps value.
func NewBoolWrapper(value bool) BoolWrapper {
	return BoolWrapper{Bool: value}
}

// MarshalXML writes the boolean as "True" or "False".
func (b *BoolWrapper) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	val := "False"
	if b.Bool {
		val = "True"
	}
	return e.EncodeElement(val, start)
}

// UnmarshalXML reads the boolean from an XML element.
func (b *BoolWrapper) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var val string
	if err := d.DecodeElement(&val, &start); err != nil {
		return err
	}
	b.Bool = parseBoolValue(val)
	return nil
}

// MarshalXMLAttr writes the boolean as an XML attribute.
func (b *BoolWrapper) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	val := "False"
	if b.Bool {
		val = "True"
	}
	return xml.Attr{Name: name, Value: val}, nil
}

// UnmarshalXMLAttr reads the boolean from an XML attribute.
func (b *BoolWrapper) UnmarshalXMLAttr(attr xml.Attr) error {
	b.Bool = parseBoolValue(attr.Value)
	return nil
}

// NullableBoolWrapper additionally allows the KDBX "null" tristate value
// used by fields like Group.EnableAutoType that can inherit from a parent.
type NullableBoolWrapper struct {
	Bool  bool
	Valid bool
}

// NewNullableBoolWrapper wraps value as a valid, non-null bool.
func NewNullableBoolWrapper(value bool) NullableBoolWrapper {
	return NullableBoolWrapper{Bool: value, Valid: true}
}

// MarshalXML writes "null", "True" or "False".
func (b *NullableBoolWrapper) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	val := "null"
	if b.Valid {
		val = "False"
		if b.Bool {
			val = "True"
		}
	}
	return e.EncodeElement(val, start)
}

// UnmarshalXML reads "null", "True" or "False".
func (b *NullableBoolWrapper) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var val string
	if err := d.DecodeElement(&val, &start); err != nil {
		return err
	}
	if strings.EqualFold(val, "null") {
		b.Valid = false
		b.Bool = false
		return nil
	}
	b.Valid = true
	b.Bool = parseBoolValue(val)
	return nil
}
