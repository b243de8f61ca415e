package kdbx

import w "github.com/spectralops/kdbx/kdbx/wrappers"

// ValueKind discriminates the three shapes a field Value can take.
type ValueKind int

const (
	// KindUnprotected is plain UTF-8 text stored verbatim in the XML body.
	KindUnprotected ValueKind = iota
	// KindProtected is text whose plaintext was XOR'd against the inner
	// stream cipher's keystream and base64-encoded.
	KindProtected
	// KindBytes is raw binary content held in the same discriminated shape.
	// Values read from String elements are never of this kind, and
	// attachments are held as Binary/BinaryReference, not as Values.
	KindBytes
)

// Value is the tagged variant every entry field holds: unprotected text,
// protected (stream-ciphered) text, or raw bytes. Only Protected values
// consume keystream bytes from the protected-stream cursor.
type Value struct {
	kind  ValueKind
	text  string
	bytes []byte
}

// Unprotected builds a plaintext Value.
func Unprotected(s string) Value {
	return Value{kind: KindUnprotected, text: s}
}

// Protected builds a Value that will be stream-ciphered on write and was
// stream-deciphered on read.
func Protected(s string) Value {
	return Value{kind: KindProtected, text: s}
}

// BytesValue builds a raw-bytes Value.
func BytesValue(b []byte) Value {
	return Value{kind: KindBytes, bytes: b}
}

// Kind reports which variant the Value holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsProtected reports whether v consumes bytes from the protected stream.
func (v Value) IsProtected() bool { return v.kind == KindProtected }

// String returns the textual content of an Unprotected or Protected value.
func (v Value) String() string { return v.text }

// Bytes returns the raw content of a Bytes value.
func (v Value) Bytes() []byte { return v.bytes }

// fieldWire is the on-the-wire shape of an Entry's <String> child.
type fieldWire struct {
	Key   string    `xml:"Key"`
	Value valueWire `xml:"Value"`
}

// valueWire is the on-the-wire shape of a <Value> element: character data
// plus the optional Protected attribute. Content is base64 ciphertext when
// Protected is true, plaintext otherwise; the protected-stream walk is what
// converts between this and the domain Value.
type valueWire struct {
	Content   string        `xml:",chardata"`
	Protected w.BoolWrapper `xml:"Protected,attr,omitempty"`
}
