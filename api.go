package klv

import (
	"github.com/unkn0wn-root/klv/codec"
	"github.com/unkn0wn-root/klv/envelope"
)

// Codec encodes records of type R to KLV and back.
// Implementations are immutable and safe for concurrent use.
type Codec[R any] interface {
	// Payload only: UniversalKey | Field*
	Marshal(r R) ([]byte, error)
	Unmarshal(b []byte) (R, error)

	// Payload sealed in a checksum envelope (unless DisableChecksum).
	Encode(r R) ([]byte, error)
	Decode(b []byte) (R, error)

	UniversalKey() []byte
}

// DuplicatePolicy decides what Unmarshal does when a tag occurs twice.
type DuplicatePolicy int

const (
	// LastWins keeps the last occurrence and reports the duplicate via Hooks.
	LastWins DuplicatePolicy = iota
	// RejectDuplicates fails the decode with ErrDuplicateTag.
	RejectDuplicates
)

// Options configure a Codec. Only Visitor is required; others have sensible defaults.
type Options[R any] struct {
	// Required
	Visitor Visitor[R] // usually a *Schema[R]

	Checksum        envelope.Checksum // nil => envelope.CRC32()
	DisableChecksum bool              // Encode/Decode behave like Marshal/Unmarshal
	DuplicateTags   DuplicatePolicy   // default LastWins
	LengthPrefixed  bool              // UniversalKey | Length(body) | body, as in MISB local sets
	MaxPayload      int               // bytes accepted by Unmarshal/Decode; 0 => unlimited
	Logger          Logger            // if nil, NopLogger is used
	Hooks           Hooks             // if nil, NopHooks is used
}

func New[R any](opts Options[R]) (Codec[R], error) {
	return newCodec[R](opts)
}

// Must is like New but panics on error.
func Must[R any](opts Options[R]) Codec[R] {
	c, err := New[R](opts)
	if err != nil {
		panic(err)
	}
	return c
}

type nested[R any] struct{ c Codec[R] }

func (n nested[R]) Encode(r R) ([]byte, error) { return n.c.Marshal(r) }
func (n nested[R]) Decode(b []byte) (R, error) { return n.c.Unmarshal(b) }

// Nested turns a record codec into a field converter so a whole record can
// be carried as the value of one field. The inner payload keeps its own
// universal key and is not enveloped.
func Nested[R any](c Codec[R]) codec.Codec[R] {
	return nested[R]{c: c}
}
