package wire

import (
	"errors"
	"fmt"
)

const (
	shortMax   = 0x7F
	longForm   = 0x80
	indefinite = 0x80
	reserved   = 0xFF
	maxOctets  = 8
)

var (
	ErrMalformedLength = errors.New("klv: malformed length")
	ErrMalformedTag    = errors.New("klv: malformed tag")
	ErrLengthOverflow  = errors.New("klv: length overflows uint64")
	ErrTruncatedValue  = errors.New("klv: truncated value")
)

// LengthSize returns the number of bytes AppendLength writes for n.
func LengthSize(n uint64) int {
	if n <= shortMax {
		return 1
	}
	k := 0
	for v := n; v > 0; v >>= 8 {
		k++
	}
	return 1 + k
}

// AppendLength appends the BER definite-length encoding of n.
//
//	n <= 127: n
//	n >  127: 0x80|k, then k big-endian bytes (minimal k)
func AppendLength(dst []byte, n uint64) []byte {
	if n <= shortMax {
		return append(dst, byte(n))
	}
	k := LengthSize(n) - 1
	dst = append(dst, longForm|byte(k))
	for i := k - 1; i >= 0; i-- {
		dst = append(dst, byte(n>>(8*uint(i))))
	}
	return dst
}

// ReadLength decodes a BER length from the start of b and reports how many
// bytes it occupied. Long forms with leading zero octets are accepted.
func ReadLength(b []byte) (uint64, int, error) {
	return readVarLen(b, ErrMalformedLength)
}

// AppendTag appends a field tag using the same encoding as lengths.
func AppendTag(dst []byte, tag uint64) []byte { return AppendLength(dst, tag) }

// ReadTag decodes a field tag. Header errors report ErrMalformedTag.
func ReadTag(b []byte) (uint64, int, error) {
	return readVarLen(b, ErrMalformedTag)
}

func readVarLen(b []byte, malformed error) (uint64, int, error) {
	if len(b) == 0 {
		return 0, 0, fmt.Errorf("%w: empty input", malformed)
	}
	h := b[0]
	if h&longForm == 0 {
		return uint64(h), 1, nil
	}
	switch h {
	case indefinite:
		return 0, 0, fmt.Errorf("%w: indefinite form not supported", malformed)
	case reserved:
		return 0, 0, fmt.Errorf("%w: reserved header 0xff", malformed)
	}

	k := int(h &^ longForm)
	if k > len(b)-1 {
		return 0, 0, fmt.Errorf("%w: header declares %d octets, %d available", malformed, k, len(b)-1)
	}

	var n uint64
	for i, c := range b[1 : 1+k] {
		// leading zero octets are padding; a non-zero octet past the low 8 cannot fit
		if k-i > maxOctets {
			if c != 0 {
				return 0, 0, fmt.Errorf("%w: %d octets", ErrLengthOverflow, k)
			}
			continue
		}
		n = n<<8 | uint64(c)
	}
	return n, 1 + k, nil
}
