package kdbx

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Variant dictionary value types (field id 11/12 of the outer header).
const (
	variantTypeUInt32 = 0x04
	variantTypeUInt64 = 0x05
	variantTypeBool   = 0x08
	variantTypeInt32  = 0x0C
	variantTypeInt64  = 0x0D
	variantTypeString = 0x18
	variantTypeBytes  = 0x42
)

// variantDictionary is the typed key/value map KDBX4 uses to carry KDF
// parameters (header id 11) and public custom data (header id 12). Order of
// items is preserved because it affects the serialized byte stream.
type variantDictionary struct {
	Version uint16
	Items   []variantItem
}

type variantItem struct {
	Type  byte
	Name  string
	Value []byte
}

// dictVersion is the variant dictionary format version: 1, written as a
// little-endian uint16 (bytes 0x01 0x00).
const dictVersion uint16 = 0x0001

func newVariantDictionary() *variantDictionary {
	return &variantDictionary{Version: dictVersion}
}

func (vd *variantDictionary) get(key string) (variantItem, bool) {
	for _, item := range vd.Items {
		if item.Name == key {
			return item, true
		}
	}
	return variantItem{}, false
}

func (vd *variantDictionary) set(typ byte, key string, value []byte) {
	for i, item := range vd.Items {
		if item.Name == key {
			vd.Items[i] = variantItem{Type: typ, Name: key, Value: value}
			return
		}
	}
	vd.Items = append(vd.Items, variantItem{Type: typ, Name: key, Value: value})
}

func (vd *variantDictionary) setUint32(key string, v uint32) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	vd.set(variantTypeUInt32, key, b)
}

func (vd *variantDictionary) setUint64(key string, v uint64) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	vd.set(variantTypeUInt64, key, b)
}

func (vd *variantDictionary) setBytes(key string, v []byte) {
	vd.set(variantTypeBytes, key, v)
}

func (vd *variantDictionary) uint32(key string) uint32 {
	item, ok := vd.get(key)
	if !ok || len(item.Value) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(item.Value)
}

func (vd *variantDictionary) uint64(key string) uint64 {
	item, ok := vd.get(key)
	if !ok || len(item.Value) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(item.Value)
}

func (vd *variantDictionary) bytes(key string) []byte {
	item, _ := vd.get(key)
	return item.Value
}

// decodeVariantDictionary parses the TLV-encoded variant dictionary body
// described in the outer header: a 2-byte version then repeating
// (type, name-length, name, value-length, value) records terminated by a
// type-0 byte.
func decodeVariantDictionary(data []byte) (*variantDictionary, error) {
	r := bytes.NewReader(data)
	vd := &variantDictionary{}

	if err := binary.Read(r, binary.LittleEndian, &vd.Version); err != nil {
		return nil, ErrBadVariantDictionary
	}

	for {
		var typ byte
		if err := binary.Read(r, binary.LittleEndian, &typ); err != nil {
			return nil, ErrBadVariantDictionary
		}
		if typ == 0 {
			break
		}

		var nameLen int32
		if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil || nameLen < 0 {
			return nil, ErrBadVariantDictionary
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, ErrBadVariantDictionary
		}

		var valueLen int32
		if err := binary.Read(r, binary.LittleEndian, &valueLen); err != nil || valueLen < 0 {
			return nil, ErrBadVariantDictionary
		}
		value := make([]byte, valueLen)
		if _, err := io.ReadFull(r, value); err != nil {
			return nil, ErrBadVariantDictionary
		}

		switch typ {
		case variantTypeUInt32, variantTypeUInt64, variantTypeBool,
			variantTypeInt32, variantTypeInt64, variantTypeString, variantTypeBytes:
			vd.Items = append(vd.Items, variantItem{Type: typ, Name: string(name), Value: value})
		default:
			return nil, ErrBadVariantDictionary
		}
	}

	return vd, nil
}

// encodeVariantDictionary serializes a variant dictionary back to its TLV
// byte form, in item order, followed by the type-0 terminator.
func encodeVariantDictionary(vd *variantDictionary) []byte {
	var buf bytes.Buffer

	version := vd.Version
	if version == 0 {
		version = dictVersion
	}
	binary.Write(&buf, binary.LittleEndian, version)

	for _, item := range vd.Items {
		buf.WriteByte(item.Type)
		binary.Write(&buf, binary.LittleEndian, int32(len(item.Name)))
		buf.WriteString(item.Name)
		binary.Write(&buf, binary.LittleEndian, int32(len(item.Value)))
		buf.Write(item.Value)
	}
	buf.WriteByte(0)

	return buf.Bytes()
}
