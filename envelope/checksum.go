package envelope

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/cespare/xxhash/v2"
	"github.com/sigurn/crc16"
)

// Checksum is the pluggable integrity algorithm of an envelope.
// Sum must return exactly Size bytes and must not retain payload.
type Checksum interface {
	Size() int
	Sum(payload []byte) []byte
}

type funcChecksum struct {
	size int
	fn   func([]byte) []byte
}

func (c funcChecksum) Size() int {
	return c.size
}

func (c funcChecksum) Sum(b []byte) []byte {
	return c.fn(b)
}

// Func adapts a plain function into a Checksum of the given width. Seal and
// Open fail with ErrChecksumWidth when size is not positive or fn returns a
// different number of bytes.
func Func(size int, fn func(payload []byte) []byte) Checksum {
	return funcChecksum{size: size, fn: fn}
}

type crc32Checksum struct{ tab *crc32.Table }

func (crc32Checksum) Size() int { return 4 }

func (c crc32Checksum) Sum(b []byte) []byte {
	return binary.BigEndian.AppendUint32(nil, crc32.Checksum(b, c.tab))
}

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32 is the default: CRC-32/IEEE, 4 bytes big-endian.
func CRC32() Checksum { return crc32Checksum{tab: crc32.IEEETable} }

// CRC32C is CRC-32/Castagnoli, 4 bytes big-endian.
func CRC32C() Checksum { return crc32Checksum{tab: castagnoli} }

var crcA = crc16.MakeTable(crc16.CRC16_CRC_A)

type crc16A struct{}

func (crc16A) Size() int { return 2 }

func (crc16A) Sum(b []byte) []byte {
	return binary.BigEndian.AppendUint16(nil, crc16.Checksum(b, crcA))
}

// CRC16A is CRC-16/ISO-IEC-14443-3-A, 2 bytes big-endian.
func CRC16A() Checksum { return crc16A{} }

type xxh64 struct{}

func (xxh64) Size() int { return 8 }

func (xxh64) Sum(b []byte) []byte {
	return binary.BigEndian.AppendUint64(nil, xxhash.Sum64(b))
}

// XXHash64 uses xxHash64 (seed 0), 8 bytes big-endian. Not a CRC, but far
// faster on large payloads.
func XXHash64() Checksum { return xxh64{} }
