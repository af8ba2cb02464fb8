// Package envelope wraps an encoded payload with a trailing checksum.
//
//	Envelope := Payload | Checksum(Payload)
//
// The checksum width is fixed per algorithm. The envelope knows nothing about
// what the payload contains.
package envelope

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	ErrTruncatedEnvelope = errors.New("klv: envelope shorter than checksum")
	ErrChecksumMismatch  = errors.New("klv: checksum mismatch")
	ErrChecksumWidth     = errors.New("klv: checksum width")
)

// ChecksumMismatchError carries the checksum found on the wire and the one
// computed over the received payload.
type ChecksumMismatchError struct {
	Expected []byte
	Computed []byte
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("klv: checksum mismatch: envelope carries %x, computed %x", e.Expected, e.Computed)
}

func (e *ChecksumMismatchError) Is(target error) bool { return target == ErrChecksumMismatch }

func orDefault(c Checksum) Checksum {
	if c == nil {
		return CRC32()
	}
	return c
}

// Seal returns a new buffer holding payload followed by c's checksum of it.
// A nil c means CRC32.
func Seal(payload []byte, c Checksum) ([]byte, error) {
	c = orDefault(c)
	w := c.Size()
	if w <= 0 {
		return nil, fmt.Errorf("%w: size %d must be positive", ErrChecksumWidth, w)
	}
	sum := c.Sum(payload)
	if len(sum) != w {
		return nil, fmt.Errorf("%w: Sum returned %d bytes, Size is %d", ErrChecksumWidth, len(sum), w)
	}
	out := make([]byte, 0, len(payload)+w)
	out = append(out, payload...)
	return append(out, sum...), nil
}

// Open verifies the trailing checksum and returns the payload as a sub-slice
// of b. The payload is never returned when verification fails.
func Open(b []byte, c Checksum) ([]byte, error) {
	c = orDefault(c)
	w := c.Size()
	if w <= 0 {
		return nil, fmt.Errorf("%w: size %d must be positive", ErrChecksumWidth, w)
	}
	if len(b) < w {
		return nil, fmt.Errorf("%w: %d bytes, checksum needs %d", ErrTruncatedEnvelope, len(b), w)
	}
	payload, trailer := b[:len(b)-w:len(b)-w], b[len(b)-w:]
	sum := c.Sum(payload)
	if len(sum) != w {
		return nil, fmt.Errorf("%w: Sum returned %d bytes, Size is %d", ErrChecksumWidth, len(sum), w)
	}
	if !bytes.Equal(sum, trailer) {
		return nil, &ChecksumMismatchError{
			Expected: append([]byte(nil), trailer...),
			Computed: sum,
		}
	}
	return payload, nil
}
