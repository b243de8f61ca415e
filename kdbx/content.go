package kdbx

import (
	"bytes"
	"encoding/binary"
	"encoding/xml"
	"io"
)

// Inner header field ids (KDBX4 only; the inner stream id/key travel in the
// outer header for KDBX3).
const (
	innerFieldTerminator byte = 0x00
	innerFieldStreamID   byte = 0x01
	innerFieldStreamKey  byte = 0x02
	innerFieldBinary     byte = 0x03
)

// innerHeader carries the inner protected-stream parameters and the ordered
// binary pool, present only in KDBX4 files (KDBX3 keeps the stream id/key in
// the outer header and its binaries inside Meta).
type innerHeader struct {
	StreamID  uint32
	StreamKey []byte
	Binaries  []rawBinary
}

// rawBinary is a binary pool entry as it appears on the wire: a protection
// flag byte followed by content bytes.
type rawBinary struct {
	Protected bool
	Content   []byte
}

// dbContent is the decoded XML document plus whatever inner-header data
// accompanies it.
type dbContent struct {
	InnerHeader *innerHeader
	XMLName     xml.Name  `xml:"KeePassFile"`
	Meta        *xmlMeta  `xml:"Meta"`
	Root        *xmlRoot  `xml:"Root"`
}

func readInnerHeader(r io.Reader) (*innerHeader, error) {
	ih := &innerHeader{}
	for {
		var id byte
		if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
			return nil, ErrIO
		}
		var length uint32
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return nil, ErrIO
		}
		data := make([]byte, length)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, ErrIO
		}

		switch id {
		case innerFieldTerminator:
			return ih, nil
		case innerFieldStreamID:
			if len(data) < 4 {
				return nil, ErrBadInnerHeader
			}
			ih.StreamID = binary.LittleEndian.Uint32(data)
		case innerFieldStreamKey:
			ih.StreamKey = data
		case innerFieldBinary:
			if len(data) < 1 {
				return nil, ErrBadInnerHeader
			}
			ih.Binaries = append(ih.Binaries, rawBinary{
				Protected: data[0]&0x01 != 0,
				Content:   data[1:],
			})
		default:
			return nil, ErrBadInnerHeader
		}
	}
}

func writeInnerHeader(w io.Writer, ih *innerHeader) error {
	idBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(idBuf, ih.StreamID)
	if err := writeInnerField(w, innerFieldStreamID, idBuf); err != nil {
		return err
	}
	if err := writeInnerField(w, innerFieldStreamKey, ih.StreamKey); err != nil {
		return err
	}
	for _, b := range ih.Binaries {
		var flag byte
		if b.Protected {
			flag = 0x01
		}
		payload := append([]byte{flag}, b.Content...)
		if err := writeInnerField(w, innerFieldBinary, payload); err != nil {
			return err
		}
	}
	if err := writeInnerField(w, innerFieldTerminator, nil); err != nil {
		return err
	}
	return nil
}

func writeInnerField(w io.Writer, id byte, data []byte) error {
	if err := binary.Write(w, binary.LittleEndian, id); err != nil {
		return ErrIO
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(data))); err != nil {
		return ErrIO
	}
	if len(data) > 0 {
		if _, err := w.Write(data); err != nil {
			return ErrIO
		}
	}
	return nil
}

func decodeXML(data []byte, v interface{}) error {
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return ErrXMLParse
	}
	return nil
}

func encodeXML(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "\t")
	if err := enc.Encode(v); err != nil {
		return nil, ErrXMLParse
	}
	return buf.Bytes(), nil
}
