package wrappers

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// zeroUnixOffset is time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC).Unix(), used to convert
// between Unix epoch seconds and KDBX4's "seconds since year 0001-01-01" timestamps.
const zeroUnixOffset int64 = -62135596800

// ErrYearOutsideOfRange is returned when a time value can't be represented in RFC3339.
var ErrYearOutsideOfRange = errors.New("kdbx: year outside of range [0,9999]")

// TimeWrapper holds a time.Time plus whether it should be textually formatted
// (KDBX3, RFC3339) or packed as base64 LE seconds-since-0001 (KDBX4).
type TimeWrapper struct {
	Formatted bool
	Time      time.Time
}

// Now returns a formatted (KDBX3-style) TimeWrapper for the current instant in UTC.
func Now() TimeWrapper {
	return TimeWrapper{Formatted: true, Time: time.Now().In(time.UTC)}
}

// Wrap returns a formatted TimeWrapper around t.
func Wrap(t time.Time) TimeWrapper {
	return TimeWrapper{Formatted: true, Time: t.In(time.UTC)}
}

// MarshalText writes RFC3339 (KDBX3) or base64 LE seconds-since-0001 (KDBX4).
func (tw TimeWrapper) MarshalText() ([]byte, error) {
	t := tw.Time.In(time.UTC)
	if y := t.Year(); y < 0 || y >= 10000 {
		return nil, ErrYearOutsideOfRange
	}

	if tw.Formatted {
		b := make([]byte, 0, len(time.RFC3339))
		return t.AppendFormat(b, time.RFC3339), nil
	}

	total := t.Unix() - zeroUnixOffset
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(total))
	ret := make([]byte, base64.StdEncoding.EncodedLen(len(buf)))
	base64.StdEncoding.Encode(ret, buf)
	return ret, nil
}

// UnmarshalText parses either encoding, detecting KDBX3 vs KDBX4 by trying RFC3339 first.
func (tw *TimeWrapper) UnmarshalText(data []byte) error {
	if t, err := time.Parse(time.RFC3339, string(data)); err == nil {
		*tw = TimeWrapper{Formatted: true, Time: t}
		return nil
	}

	decoded := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
	n, err := base64.StdEncoding.Decode(decoded, data)
	if err != nil {
		return err
	}

	var seconds int64
	if err := binary.Read(bytes.NewReader(decoded[:n]), binary.LittleEndian, &seconds); err != nil {
		return err
	}

	*tw = TimeWrapper{
		Formatted: false,
		Time:      time.Unix(zeroUnixOffset+seconds, 0).In(time.UTC),
	}
	return nil
}

func (tw TimeWrapper) String() string {
	return fmt.Sprintf("Formatted: %v, Time: %v", tw.Formatted, tw.Time)
}
