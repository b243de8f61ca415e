package kdbx

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"io"

	w "github.com/spectralops/kdbx/kdbx/wrappers"
)

// Binary is one pool entry: raw content plus whether it was gzip-compressed
// on disk. KDBX3 stores the pool in Meta; KDBX4 stores it in the inner
// header. Both are addressed by the integer ID entries reference.
type Binary struct {
	ID         int
	Content    []byte
	Compressed bool
	Protected  bool // KDBX4 only; mirrors the inner-header protection flag.
}

// BinaryPool is the ordered list of binaries attached to a database. Add
// does not check for duplicate content; Merge deduplicates by content hash.
type BinaryPool []Binary

// Find returns the binary with the given ID, or nil.
func (p BinaryPool) Find(id int) *Binary {
	for i := range p {
		if p[i].ID == id {
			return &p[i]
		}
	}
	return nil
}

// Add appends content as a new pool entry and returns it, assigning the next
// sequential ID.
func (p *BinaryPool) Add(content []byte, compressed bool) *Binary {
	id := 0
	if len(*p) > 0 {
		id = (*p)[len(*p)-1].ID + 1
	}
	b := Binary{ID: id, Content: content, Compressed: compressed}
	*p = append(*p, b)
	return &(*p)[len(*p)-1]
}

// Decompress returns the binary's plaintext content, gunzipping if
// Compressed is set.
func (b Binary) Decompress() ([]byte, error) {
	if !b.Compressed {
		return b.Content, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(b.Content))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return data, nil
}

// BinaryReference is an Entry's <Binary> child: a display name plus a pool
// index.
type BinaryReference struct {
	Name string
	ID   int
}

// binaryReferenceWire is the on-disk shape of an entry's <Binary> element.
type binaryReferenceWire struct {
	Name  string `xml:"Key"`
	Value struct {
		ID int `xml:"Ref,attr"`
	} `xml:"Value"`
}

func binaryReferenceToWire(ref BinaryReference) binaryReferenceWire {
	var out binaryReferenceWire
	out.Name = ref.Name
	out.Value.ID = ref.ID
	return out
}

func binaryReferenceFromWire(w binaryReferenceWire) BinaryReference {
	return BinaryReference{Name: w.Name, ID: w.Value.ID}
}

// kdbx3BinaryWire is the <Binary> element found under Meta>Binaries in
// KDBX3 files: base64-encoded, optionally gzip-compressed content.
type kdbx3BinaryWire struct {
	ID         int           `xml:"ID,attr"`
	Content    string        `xml:",innerxml"`
	Compressed w.BoolWrapper `xml:"Compressed,attr"`
}

func decodeKDBX3Binary(bw kdbx3BinaryWire) (Binary, error) {
	data, err := base64.StdEncoding.DecodeString(bw.Content)
	if err != nil {
		return Binary{}, ErrBadHeader
	}
	return Binary{ID: bw.ID, Content: data, Compressed: bw.Compressed.Bool}, nil
}

func encodeKDBX3Binary(b Binary) kdbx3BinaryWire {
	return kdbx3BinaryWire{
		ID:         b.ID,
		Content:    base64.StdEncoding.EncodeToString(b.Content),
		Compressed: w.BoolWrapper{Bool: b.Compressed},
	}
}

func base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func base64Decode(s string) []byte {
	data, _ := base64.StdEncoding.DecodeString(s)
	return data
}
