package codec

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var errBadWidth = errors.New("codec: element width must be positive")

// Slice packs fixed-width elements back to back under a single field, with
// no per-element lengths. Every element must encode to exactly Width bytes,
// and a value whose length is not a multiple of Width fails to decode.
//
//	codec.Slice[int32]{Elem: codec.Int32{}, Width: 4}
type Slice[V any] struct {
	Elem  Codec[V]
	Width int
}

func (c Slice[V]) Encode(vs []V) ([]byte, error) {
	if c.Width <= 0 {
		return nil, errBadWidth
	}
	out := make([]byte, 0, len(vs)*c.Width)
	for i, v := range vs {
		b, err := c.Elem.Encode(v)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if len(b) != c.Width {
			return nil, fmt.Errorf("%w: element %d encoded to %d bytes, want %d", ErrWidth, i, len(b), c.Width)
		}
		out = append(out, b...)
	}
	return out, nil
}

func (c Slice[V]) Decode(b []byte) ([]V, error) {
	if c.Width <= 0 {
		return nil, errBadWidth
	}
	if len(b)%c.Width != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrWidth, len(b), c.Width)
	}
	out := make([]V, 0, len(b)/c.Width)
	for off := 0; off < len(b); off += c.Width {
		v, err := c.Elem.Decode(b[off : off+c.Width])
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", off/c.Width, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Part is one fixed-width member of a Tuple.
type Part[T any] struct {
	width  int
	encode func(*T) ([]byte, error)
	decode func(*T, []byte) error
}

// Member binds a field of T to a converter of the given width.
func Member[T, V any](width int, c Codec[V], ref func(*T) *V) Part[T] {
	return Part[T]{
		width:  width,
		encode: func(t *T) ([]byte, error) { return c.Encode(*ref(t)) },
		decode: func(t *T, b []byte) error {
			v, err := c.Decode(b)
			if err != nil {
				return err
			}
			*ref(t) = v
			return nil
		},
	}
}

// Tuple packs the members of a struct in order, each at its fixed width,
// under a single field. The value length must equal the sum of the widths.
//
//	codec.Tuple[Attitude]{
//		codec.Member(2, codec.Int16{}, func(a *Attitude) *int16 { return &a.Pitch }),
//		codec.Member(2, codec.Int16{}, func(a *Attitude) *int16 { return &a.Roll }),
//	}
type Tuple[T any] []Part[T]

func (c Tuple[T]) size() int {
	n := 0
	for _, p := range c {
		n += p.width
	}
	return n
}

func (c Tuple[T]) Encode(t T) ([]byte, error) {
	out := make([]byte, 0, c.size())
	for i, p := range c {
		if p.width <= 0 {
			return nil, errBadWidth
		}
		b, err := p.encode(&t)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		if len(b) != p.width {
			return nil, fmt.Errorf("%w: member %d encoded to %d bytes, want %d", ErrWidth, i, len(b), p.width)
		}
		out = append(out, b...)
	}
	return out, nil
}

func (c Tuple[T]) Decode(b []byte) (T, error) {
	var t, zero T
	if n := c.size(); len(b) != n {
		return zero, fmt.Errorf("%w: tuple needs %d bytes, got %d", ErrWidth, n, len(b))
	}
	off := 0
	for i, p := range c {
		if p.width <= 0 {
			return zero, errBadWidth
		}
		if err := p.decode(&t, b[off:off+p.width]); err != nil {
			return zero, fmt.Errorf("member %d: %w", i, err)
		}
		off += p.width
	}
	return t, nil
}

// Rune carries a Unicode code point as a big-endian uint32.
type Rune struct{}

func (Rune) Encode(r rune) ([]byte, error) {
	if !utf8.ValidRune(r) {
		return nil, fmt.Errorf("%w: code point %#x", ErrInvalidUTF8, r)
	}
	return Uint32{}.Encode(uint32(r))
}

func (Rune) Decode(b []byte) (rune, error) {
	v, err := Uint32{}.Decode(b)
	if err != nil {
		return 0, err
	}
	if v > utf8.MaxRune || !utf8.ValidRune(rune(v)) {
		return 0, fmt.Errorf("%w: code point %#x", ErrInvalidUTF8, v)
	}
	return rune(v), nil
}
