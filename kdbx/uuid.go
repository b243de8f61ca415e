package kdbx

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// ErrInvalidUUIDLength is returned during unmarshaling if a decoded UUID is not 16 bytes.
var ErrInvalidUUIDLength = errors.New("kdbx: decoded UUID length was not 16")

// UUID identifies a Group or Entry uniquely within a database.
type UUID [16]byte

// NewUUID returns a new randomly generated UUID.
func NewUUID() UUID {
	var id UUID
	rand.Read(id[:])
	return id
}

// IsZero reports whether u is the all-zero UUID.
func (u UUID) IsZero() bool {
	return u == UUID{}
}

// Equal reports whether u and o hold the same value.
func (u UUID) Equal(o UUID) bool {
	return u == o
}

// MarshalText encodes u as base64, as used in the inner XML payload.
func (u UUID) MarshalText() ([]byte, error) {
	text := make([]byte, 24)
	base64.StdEncoding.Encode(text, u[:])
	return text, nil
}

// UnmarshalText decodes a base64 UUID. An empty value produces a fresh random UUID,
// matching how KeePass writers sometimes omit UUIDs for unused references.
func (u *UUID) UnmarshalText(text []byte) error {
	id := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	length, err := base64.StdEncoding.Decode(id, text)
	if err != nil {
		return err
	}
	if length == 0 {
		*u = NewUUID()
		return nil
	}
	if length != 16 {
		return ErrInvalidUUIDLength
	}
	copy((*u)[:], id[:16])
	return nil
}

func (u UUID) String() string {
	text, _ := u.MarshalText()
	return string(text)
}
