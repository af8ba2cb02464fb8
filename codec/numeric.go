package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

type Uint8 struct{}

func (Uint8) Encode(v uint8) ([]byte, error) { return []byte{v}, nil }
func (Uint8) Decode(b []byte) (uint8, error) {
	if len(b) != 1 {
		return 0, widthErr("uint8", 1, len(b))
	}
	return b[0], nil
}

type Uint16 struct{}

func (Uint16) Encode(v uint16) ([]byte, error) { return binary.BigEndian.AppendUint16(nil, v), nil }
func (Uint16) Decode(b []byte) (uint16, error) {
	if len(b) != 2 {
		return 0, widthErr("uint16", 2, len(b))
	}
	return binary.BigEndian.Uint16(b), nil
}

type Uint32 struct{}

func (Uint32) Encode(v uint32) ([]byte, error) { return binary.BigEndian.AppendUint32(nil, v), nil }
func (Uint32) Decode(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, widthErr("uint32", 4, len(b))
	}
	return binary.BigEndian.Uint32(b), nil
}

type Uint64 struct{}

func (Uint64) Encode(v uint64) ([]byte, error) { return binary.BigEndian.AppendUint64(nil, v), nil }
func (Uint64) Decode(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, widthErr("uint64", 8, len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// Uint writes the minimal number of big-endian bytes (at least one) and
// decodes any width from 1 to 8.
type Uint struct{}

func (Uint) Encode(v uint64) ([]byte, error) {
	b := binary.BigEndian.AppendUint64(nil, v)
	i := 0
	for i < 7 && b[i] == 0 {
		i++
	}
	return b[i:], nil
}

func (Uint) Decode(b []byte) (uint64, error) {
	if len(b) == 0 || len(b) > 8 {
		return 0, fmt.Errorf("%w: uint needs 1..8 bytes, got %d", ErrWidth, len(b))
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

type Int8 struct{}

func (Int8) Encode(v int8) ([]byte, error) { return []byte{byte(v)}, nil }
func (Int8) Decode(b []byte) (int8, error) {
	v, err := Uint8{}.Decode(b)
	return int8(v), err
}

type Int16 struct{}

func (Int16) Encode(v int16) ([]byte, error) { return Uint16{}.Encode(uint16(v)) }
func (Int16) Decode(b []byte) (int16, error) {
	v, err := Uint16{}.Decode(b)
	return int16(v), err
}

type Int32 struct{}

func (Int32) Encode(v int32) ([]byte, error) { return Uint32{}.Encode(uint32(v)) }
func (Int32) Decode(b []byte) (int32, error) {
	v, err := Uint32{}.Decode(b)
	return int32(v), err
}

type Int64 struct{}

func (Int64) Encode(v int64) ([]byte, error) { return Uint64{}.Encode(uint64(v)) }
func (Int64) Decode(b []byte) (int64, error) {
	v, err := Uint64{}.Decode(b)
	return int64(v), err
}

// Float32 and Float64 carry IEEE 754 bits big-endian.
type Float32 struct{}

func (Float32) Encode(v float32) ([]byte, error) { return Uint32{}.Encode(math.Float32bits(v)) }
func (Float32) Decode(b []byte) (float32, error) {
	v, err := Uint32{}.Decode(b)
	return math.Float32frombits(v), err
}

type Float64 struct{}

func (Float64) Encode(v float64) ([]byte, error) { return Uint64{}.Encode(math.Float64bits(v)) }
func (Float64) Decode(b []byte) (float64, error) {
	v, err := Uint64{}.Decode(b)
	return math.Float64frombits(v), err
}

// Bool is one byte: 0 is false, anything else true.
type Bool struct{}

func (Bool) Encode(v bool) ([]byte, error) {
	if v {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

func (Bool) Decode(b []byte) (bool, error) {
	if len(b) != 1 {
		return false, widthErr("bool", 1, len(b))
	}
	return b[0] != 0, nil
}
