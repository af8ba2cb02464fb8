package codec

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"google.golang.org/protobuf/types/known/wrapperspb"
)

func roundTrip[V comparable](t *testing.T, c Codec[V], v V, wantLen int) {
	t.Helper()
	b, err := c.Encode(v)
	if err != nil {
		t.Fatalf("Encode(%v): %v", v, err)
	}
	if wantLen >= 0 && len(b) != wantLen {
		t.Fatalf("Encode(%v) len = %d want %d", v, len(b), wantLen)
	}
	got, err := c.Decode(b)
	if err != nil {
		t.Fatalf("Decode(%x): %v", b, err)
	}
	if got != v {
		t.Fatalf("round trip: got %v want %v", got, v)
	}
}

func TestFixedWidthRoundTrip(t *testing.T) {
	roundTrip[uint8](t, Uint8{}, 127, 1)
	roundTrip[uint16](t, Uint16{}, 0x3d3b, 2)
	roundTrip[uint32](t, Uint32{}, math.MaxUint32, 4)
	roundTrip[uint64](t, Uint64{}, 4294967296, 8)
	roundTrip[int8](t, Int8{}, -128, 1)
	roundTrip[int16](t, Int16{}, -345, 2)
	roundTrip[int32](t, Int32{}, math.MinInt32, 4)
	roundTrip[int64](t, Int64{}, -1, 8)
	roundTrip[float32](t, Float32{}, 3.25, 4)
	roundTrip[float64](t, Float64{}, -0.5, 8)
	roundTrip[bool](t, Bool{}, true, 1)
	roundTrip[bool](t, Bool{}, false, 1)
}

func TestBigEndianLayout(t *testing.T) {
	b, _ := Uint16{}.Encode(0x3d3b)
	if !bytes.Equal(b, []byte{0x3d, 0x3b}) {
		t.Fatalf("uint16 layout %x", b)
	}
	v, err := Int16{}.Decode([]byte{0x15, 0x80})
	if err != nil || v != 0x1580 {
		t.Fatalf("int16 decode = %d, %v", v, err)
	}
	n, err := Int32{}.Decode([]byte{0xb1, 0xa8, 0x6c, 0xfe})
	if err != nil || n != -1314362114 {
		t.Fatalf("int32 decode = %d, %v", n, err)
	}
}

func TestWrongWidthFails(t *testing.T) {
	cases := []struct {
		name string
		fn   func() error
	}{
		{"uint8 empty", func() error { _, err := Uint8{}.Decode(nil); return err }},
		{"uint16 short", func() error { _, err := Uint16{}.Decode([]byte{1}); return err }},
		{"uint32 long", func() error { _, err := Uint32{}.Decode(make([]byte, 5)); return err }},
		{"uint64 short", func() error { _, err := Uint64{}.Decode(make([]byte, 4)); return err }},
		{"int32 short", func() error { _, err := Int32{}.Decode([]byte{1, 2}); return err }},
		{"bool wide", func() error { _, err := Bool{}.Decode([]byte{0, 1}); return err }},
		{"uint too wide", func() error { _, err := Uint{}.Decode(make([]byte, 9)); return err }},
		{"uint empty", func() error { _, err := Uint{}.Decode(nil); return err }},
	}
	for _, tc := range cases {
		if err := tc.fn(); !errors.Is(err, ErrWidth) {
			t.Fatalf("%s: expected ErrWidth, got %v", tc.name, err)
		}
	}
}

func TestUintMinimalWidth(t *testing.T) {
	cases := []struct {
		v    uint64
		want int
	}{
		{0, 1},
		{0xFF, 1},
		{0x100, 2},
		{4294967296, 5},
		{math.MaxUint64, 8},
	}
	for _, tc := range cases {
		roundTrip[uint64](t, Uint{}, tc.v, tc.want)
	}
	// wider-than-needed input is accepted
	v, err := Uint{}.Decode([]byte{0, 0, 0, 7})
	if err != nil || v != 7 {
		t.Fatalf("padded decode = %d, %v", v, err)
	}
}

func TestStringAndBytes(t *testing.T) {
	roundTrip[string](t, String{}, "this is string", len("this is string"))
	roundTrip[string](t, String{}, "", 0)

	if _, err := (String{}).Decode([]byte{0xff, 0xfe}); !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}

	src := []byte("this is byte")
	got, err := Bytes{}.Decode(src)
	if err != nil || !bytes.Equal(got, src) {
		t.Fatalf("Bytes decode = %q, %v", got, err)
	}
	got[0] = 'X'
	if src[0] != 't' {
		t.Fatalf("Bytes.Decode must copy")
	}
}

func TestMicroTime(t *testing.T) {
	ts := time.Unix(0, 0).Add(1_000_233_000 * time.Microsecond)
	b, err := MicroTime{}.Encode(ts)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	u, _ := Uint64{}.Decode(b)
	if u != 1_000_233_000 {
		t.Fatalf("micros = %d", u)
	}
	got, err := MicroTime{}.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.Equal(ts) || got.Location() != time.UTC {
		t.Fatalf("got %v want %v (UTC)", got, ts)
	}

	// MISB sample: 0x0004_6c8e_2003_8385
	got, err = MicroTime{}.Decode([]byte{0, 0x04, 0x6c, 0x8e, 0x20, 0x03, 0x83, 0x85})
	if err != nil {
		t.Fatalf("Decode sample: %v", err)
	}
	want := time.Date(2009, 6, 17, 16, 53, 5, 99653000, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("sample = %v want %v", got, want)
	}

	if _, err := (MicroTime{}).Encode(time.Unix(-1, 0)); err == nil {
		t.Fatalf("expected error for pre-epoch time")
	}
	if _, err := (MicroTime{}).Decode([]byte{0xff, 0, 0, 0, 0, 0, 0, 0}); err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestLimit(t *testing.T) {
	c := Limit[string]{Inner: String{}, Max: 4}
	if _, err := c.Encode("12345"); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Encode over limit: %v", err)
	}
	if _, err := c.Decode([]byte("12345")); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Decode over limit: %v", err)
	}
	roundTrip[string](t, c, "1234", 4)

	off := Limit[string]{Inner: String{}}
	roundTrip[string](t, off, "no limit at all", -1)
}

type track struct {
	ID    uint32  `json:"id" msgpack:"id" cbor:"1,keyasint"`
	Label string  `json:"label" msgpack:"label" cbor:"2,keyasint"`
	Score float64 `json:"score" msgpack:"score" cbor:"3,keyasint"`
}

func TestStructuredCodecs(t *testing.T) {
	v := track{ID: 7, Label: "vehicle", Score: 0.93}
	codecs := map[string]Codec[track]{
		"cbor":         MustCBOR[track](false),
		"cbor-det":     MustCBOR[track](true),
		"msgpack":      Msgpack[track]{},
		"json":         JSON[track]{},
		"limited-json": Limit[track]{Inner: JSON[track]{}, Max: 1024},
	}
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			roundTrip[track](t, c, v, -1)
		})
	}
}

func TestCBORDeterministicIsStable(t *testing.T) {
	c := MustCBOR[map[string]int](true)
	a, err := c.Encode(map[string]int{"b": 2, "a": 1, "c": 3})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i := 0; i < 10; i++ {
		b, _ := c.Encode(map[string]int{"c": 3, "a": 1, "b": 2})
		if !bytes.Equal(a, b) {
			t.Fatalf("deterministic CBOR differs: %x vs %x", a, b)
		}
	}
}

func TestProtobuf(t *testing.T) {
	c := NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} })
	b, err := c.Encode(wrapperspb.String("EON"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := c.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.GetValue() != "EON" {
		t.Fatalf("got %q", got.GetValue())
	}
}
