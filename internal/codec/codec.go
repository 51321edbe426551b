// Package codec serialises records using the protobuf wire format. Every
// field is tagged with its number so optional fields can be omitted and
// unknown fields are skipped, keeping stored bytes readable across schema
// additions.
package codec

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/noah-isme/student-records-api/internal/models"
)

// MaxRecordSize bounds the encoded size of any single record.
const MaxRecordSize = 1024

var (
	// ErrRecordTooLarge is returned when an encoding exceeds MaxRecordSize.
	ErrRecordTooLarge = errors.New("codec: record exceeds maximum encoded size")
	// ErrCorrupt is returned when stored bytes cannot be decoded.
	ErrCorrupt = errors.New("codec: corrupt record")
)

// Codec pairs the encoder and decoder for one record type.
type Codec[T any] struct {
	Encode func(T) ([]byte, error)
	Decode func([]byte) (T, error)
}

var (
	Students          = Codec[models.Student]{Encode: EncodeStudent, Decode: DecodeStudent}
	Lectures          = Codec[models.Lecture]{Encode: EncodeLecture, Decode: DecodeLecture}
	AttendanceRecords = Codec[models.AttendanceRecord]{Encode: EncodeAttendanceRecord, Decode: DecodeAttendanceRecord}
	Messages          = Codec[models.Message]{Encode: EncodeMessage, Decode: DecodeMessage}
)

type encoder struct {
	b []byte
}

func (e *encoder) putUint(num protowire.Number, v uint64) {
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, v)
}

func (e *encoder) putString(num protowire.Number, s string) {
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendString(e.b, s)
}

func (e *encoder) putOptString(num protowire.Number, s *string) {
	if s != nil {
		e.putString(num, *s)
	}
}

func (e *encoder) putBytes(num protowire.Number, v []byte) {
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, v)
}

func (e *encoder) finish() ([]byte, error) {
	if len(e.b) > MaxRecordSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrRecordTooLarge, len(e.b))
	}
	return e.b, nil
}

// fieldFunc consumes the value of field num from b and returns the number of
// bytes read. Returning handled=false lets walk skip the field.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (n int, handled bool, err error)

func walk(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return corrupt(protowire.ParseError(n))
		}
		b = b[n:]

		m, handled, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if !handled {
			m = protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return corrupt(protowire.ParseError(m))
			}
		}
		b = b[m:]
	}
	return nil
}

func corrupt(err error) error {
	return fmt.Errorf("%w: %v", ErrCorrupt, err)
}

func readUint(typ protowire.Type, b []byte, dst *uint64) (int, bool, error) {
	if typ != protowire.VarintType {
		return 0, false, corrupt(fmt.Errorf("expected varint, got wire type %d", typ))
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, false, corrupt(protowire.ParseError(n))
	}
	*dst = v
	return n, true, nil
}

func readString(typ protowire.Type, b []byte, dst *string) (int, bool, error) {
	if typ != protowire.BytesType {
		return 0, false, corrupt(fmt.Errorf("expected bytes, got wire type %d", typ))
	}
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, false, corrupt(protowire.ParseError(n))
	}
	*dst = v
	return n, true, nil
}

func readOptString(typ protowire.Type, b []byte, dst **string) (int, bool, error) {
	var s string
	n, ok, err := readString(typ, b, &s)
	if err != nil {
		return n, ok, err
	}
	*dst = &s
	return n, ok, nil
}

func readMultimedia(typ protowire.Type, b []byte, dst **models.MultiMediaContent) (int, bool, error) {
	if typ != protowire.BytesType {
		return 0, false, corrupt(fmt.Errorf("expected bytes, got wire type %d", typ))
	}
	inner, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, false, corrupt(protowire.ParseError(n))
	}
	mm, err := decodeMultimedia(inner)
	if err != nil {
		return 0, false, err
	}
	*dst = &mm
	return n, true, nil
}
