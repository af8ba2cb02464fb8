package klv

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/klv/codec"
)

// FieldDescriptor describes one tagged field of record type R: how to pull
// its value bytes out of a record and how to bind decoded bytes back.
type FieldDescriptor[R any] interface {
	Tag() uint64
	Required() bool
	// Encode returns the field's value bytes. present=false omits the field.
	Encode(r *R) (value []byte, present bool, err error)
	// Decode binds value into r.
	Decode(r *R, value []byte) error
	// Clear binds the absent representation into r.
	Clear(r *R)
}

// Visitor is what a codec needs to know about a record type. Schema is the
// stock implementation; generated or hand-written types can provide their own.
// Both methods must return the same values for the lifetime of the program.
type Visitor[R any] interface {
	UniversalKey() []byte
	Fields() []FieldDescriptor[R]
}

// Schema binds a universal key to an ordered list of field descriptors.
// Fields are encoded in the order given.
type Schema[R any] struct {
	key    []byte
	fields []FieldDescriptor[R]
}

var _ Visitor[struct{}] = (*Schema[struct{}])(nil)

// NewSchema validates the key and tags. Tags must be unique.
func NewSchema[R any](key []byte, fields ...FieldDescriptor[R]) (*Schema[R], error) {
	if len(key) == 0 {
		return nil, errors.New("klv: universal key is required")
	}
	if err := checkTags(fields); err != nil {
		return nil, err
	}
	return &Schema[R]{
		key:    append([]byte(nil), key...),
		fields: append([]FieldDescriptor[R](nil), fields...),
	}, nil
}

// MustSchema is like NewSchema but panics on error.
// Handy for package-level schema variables.
func MustSchema[R any](key []byte, fields ...FieldDescriptor[R]) *Schema[R] {
	s, err := NewSchema[R](key, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema[R]) UniversalKey() []byte         { return s.key }
func (s *Schema[R]) Fields() []FieldDescriptor[R] { return s.fields }

func checkTags[R any](fields []FieldDescriptor[R]) error {
	seen := make(map[uint64]struct{}, len(fields))
	for i, f := range fields {
		if f == nil {
			return fmt.Errorf("klv: field %d is nil", i)
		}
		if _, dup := seen[f.Tag()]; dup {
			return fmt.Errorf("%w: %d declared twice", ErrDuplicateTag, f.Tag())
		}
		seen[f.Tag()] = struct{}{}
	}
	return nil
}

type field[R, V any] struct {
	tag      uint64
	required bool
	c        codec.Codec[V]
	get      func(*R) (V, bool)
	set      func(*R, V)
	clear    func(*R)
}

func (f *field[R, V]) Tag() uint64    { return f.tag }
func (f *field[R, V]) Required() bool { return f.required }

func (f *field[R, V]) Encode(r *R) ([]byte, bool, error) {
	v, ok := f.get(r)
	if !ok {
		return nil, false, nil
	}
	b, err := f.c.Encode(v)
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (f *field[R, V]) Decode(r *R, value []byte) error {
	v, err := f.c.Decode(value)
	if err != nil {
		return err
	}
	f.set(r, v)
	return nil
}

func (f *field[R, V]) Clear(r *R) { f.clear(r) }

// Required declares a field that is always encoded and must be present when
// decoding. ref returns a pointer to the field inside the record.
//
//	klv.Required(10, codec.Uint8{}, func(r *Rec) *uint8 { return &r.Level })
func Required[R, V any](tag uint64, c codec.Codec[V], ref func(*R) *V) FieldDescriptor[R] {
	return &field[R, V]{
		tag:      tag,
		required: true,
		c:        c,
		get:      func(r *R) (V, bool) { return *ref(r), true },
		set:      func(r *R, v V) { *ref(r) = v },
		clear: func(r *R) {
			var zero V
			*ref(r) = zero
		},
	}
}

// Optional declares a pointer field. A nil pointer is absent: nothing is
// written on encode, and decoding a payload without the tag leaves it nil.
func Optional[R, V any](tag uint64, c codec.Codec[V], ref func(*R) **V) FieldDescriptor[R] {
	return &field[R, V]{
		tag: tag,
		c:   c,
		get: func(r *R) (V, bool) {
			p := *ref(r)
			if p == nil {
				var zero V
				return zero, false
			}
			return *p, true
		},
		set:   func(r *R, v V) { *ref(r) = &v },
		clear: func(r *R) { *ref(r) = nil },
	}
}

// OptionalValue declares a field whose zero value means absent. Use it when
// the zero value never carries meaning on the wire.
func OptionalValue[R any, V comparable](tag uint64, c codec.Codec[V], ref func(*R) *V) FieldDescriptor[R] {
	return &field[R, V]{
		tag: tag,
		c:   c,
		get: func(r *R) (V, bool) {
			var zero V
			v := *ref(r)
			return v, v != zero
		},
		set: func(r *R, v V) { *ref(r) = v },
		clear: func(r *R) {
			var zero V
			*ref(r) = zero
		},
	}
}
