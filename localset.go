package klv

import (
	"github.com/unkn0wn-root/klv/codec"
	"github.com/unkn0wn-root/klv/internal/wire"
)

type localSet[R any] struct {
	fields []FieldDescriptor[R]
}

// LocalSet returns a converter that carries a record as a keyless local set:
// the fields of R packed as Tag | Length | Value with nothing in front.
// Use it for a child record nested in a parent field. Nested, by contrast,
// writes the child's own universal key.
//
// Decoding keeps the last occurrence of a repeated tag and skips tags it
// does not declare. Nothing is logged or reported; the enclosing codec owns
// logging and hooks.
func LocalSet[R any](fields ...FieldDescriptor[R]) (codec.Codec[R], error) {
	if err := checkTags(fields); err != nil {
		return nil, err
	}
	return localSet[R]{fields: append([]FieldDescriptor[R](nil), fields...)}, nil
}

// MustLocalSet is like LocalSet but panics on error.
func MustLocalSet[R any](fields ...FieldDescriptor[R]) codec.Codec[R] {
	c, err := LocalSet[R](fields...)
	if err != nil {
		panic(err)
	}
	return c
}

func (s localSet[R]) Encode(r R) ([]byte, error) {
	fields, size, err := encodeFields(s.fields, &r)
	if err != nil {
		return nil, err
	}
	return wire.AppendFields(make([]byte, 0, size), fields), nil
}

func (s localSet[R]) Decode(b []byte) (R, error) {
	entries, err := wire.Unpack(b)
	if err != nil {
		var zero R
		return zero, err
	}
	values := make(map[uint64][]byte, len(entries))
	for _, e := range entries {
		values[e.Tag] = e.Value
	}
	return resolveFields(s.fields, values)
}
