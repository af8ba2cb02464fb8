package misb0601

import (
	"encoding/binary"

	"github.com/unkn0wn-root/klv/envelope"
)

// Sum16 is the ST 0601 block character count: a 16-bit running sum where
// bytes at even offsets land in the high octet and odd offsets in the low.
func Sum16(b []byte) uint16 {
	var hi, lo uint16
	i := 0
	for ; i+1 < len(b); i += 2 {
		hi += uint16(b[i])
		lo += uint16(b[i+1])
	}
	if i < len(b) {
		hi += uint16(b[i])
	}
	return hi<<8 + lo
}

type bcc struct{}

func (bcc) Size() int           { return 2 }
func (bcc) Sum(b []byte) []byte { return binary.BigEndian.AppendUint16(nil, Sum16(b)) }

// BCC exposes Sum16 as an envelope checksum, for carrying ST 0601 style
// sums in a trailing envelope instead of the in-band tag.
func BCC() envelope.Checksum { return bcc{} }
