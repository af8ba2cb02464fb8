package klv

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/klv/envelope"
	"github.com/unkn0wn-root/klv/internal/wire"
)

var (
	// wire-level
	ErrMalformedLength = wire.ErrMalformedLength
	ErrMalformedTag    = wire.ErrMalformedTag
	ErrLengthOverflow  = wire.ErrLengthOverflow
	ErrTruncatedValue  = wire.ErrTruncatedValue

	// envelope
	ErrTruncatedEnvelope = envelope.ErrTruncatedEnvelope
	ErrChecksumMismatch  = envelope.ErrChecksumMismatch
	ErrChecksumWidth     = envelope.ErrChecksumWidth

	// record
	ErrTruncatedUniversalKey = errors.New("klv: truncated universal key")
	ErrUniversalKeyMismatch  = errors.New("klv: universal key mismatch")
	ErrMissingRequiredField  = errors.New("klv: missing required field")
	ErrFieldConversion       = errors.New("klv: field conversion failed")
	ErrDuplicateTag          = errors.New("klv: duplicate tag")
	ErrPayloadTooLarge       = errors.New("klv: payload too large")
)

// ChecksumMismatchError is returned by Decode when the envelope checksum
// does not match. The payload is not parsed.
type ChecksumMismatchError = envelope.ChecksumMismatchError

type UniversalKeyMismatchError struct {
	Expected []byte
	Actual   []byte
}

func (e *UniversalKeyMismatchError) Error() string {
	return fmt.Sprintf("klv: universal key mismatch: expected %x, got %x", e.Expected, e.Actual)
}

func (e *UniversalKeyMismatchError) Is(target error) bool { return target == ErrUniversalKeyMismatch }

type MissingRequiredFieldError struct {
	Tag uint64
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("klv: required field %d missing", e.Tag)
}

func (e *MissingRequiredFieldError) Is(target error) bool { return target == ErrMissingRequiredField }

// FieldConversionError wraps the error a field converter returned while
// encoding or decoding the value of Tag.
type FieldConversionError struct {
	Tag uint64
	Err error
}

func (e *FieldConversionError) Error() string {
	return fmt.Sprintf("klv: field %d: %v", e.Tag, e.Err)
}

func (e *FieldConversionError) Is(target error) bool { return target == ErrFieldConversion }
func (e *FieldConversionError) Unwrap() error        { return e.Err }
