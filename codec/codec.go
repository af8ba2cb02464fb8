// Package codec holds the per-field value converters used by klv schemas.
//
// A converter turns one domain value into the opaque Value bytes of a KLV
// field and back. Fixed-width numbers are big-endian, matching the
// convention of MISB local sets. Structured values can be carried in a
// single field through the CBOR, Msgpack, Protobuf and JSON converters.
package codec

import (
	"errors"
	"fmt"
)

// Codec encodes/decodes values V to []byte for a single field.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

var (
	ErrWidth       = errors.New("codec: unexpected value width")
	ErrInvalidUTF8 = errors.New("codec: invalid UTF-8")
	ErrTooLarge    = errors.New("codec: value too large")
)

func widthErr(typ string, want, got int) error {
	return fmt.Errorf("%w: %s needs %d bytes, got %d", ErrWidth, typ, want, got)
}
