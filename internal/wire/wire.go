package wire

import "fmt"

// Field is one Tag|Length|Value entry. Value is never copied by Unpack;
// it aliases the decoded buffer.
type Field struct {
	Tag   uint64
	Value []byte
	// Offset of the entry's first byte in the buffer given to Unpack.
	// Ignored when encoding.
	Offset int
}

// Size returns the encoded size of f.
func (f Field) Size() int {
	n := uint64(len(f.Value))
	return LengthSize(f.Tag) + LengthSize(n) + len(f.Value)
}

// AppendField appends Tag | Length(value) | value.
func AppendField(dst []byte, tag uint64, value []byte) []byte {
	dst = AppendTag(dst, tag)
	dst = AppendLength(dst, uint64(len(value)))
	return append(dst, value...)
}

// AppendFields appends every field in order.
func AppendFields(dst []byte, fields []Field) []byte {
	for _, f := range fields {
		dst = AppendField(dst, f.Tag, f.Value)
	}
	return dst
}

// Unpack walks b entry by entry until it is fully consumed. Entries are
// returned in wire order, duplicates included.
func Unpack(b []byte) ([]Field, error) {
	var out []Field
	off := 0
	for off < len(b) {
		start := off

		tag, n, err := ReadTag(b[off:])
		if err != nil {
			return nil, fmt.Errorf("tag at offset %d: %w", start, err)
		}
		off += n

		vlen, n, err := ReadLength(b[off:])
		if err != nil {
			return nil, fmt.Errorf("length of tag %d at offset %d: %w", tag, start, err)
		}
		off += n

		if vlen > uint64(len(b)-off) { // overflow-safe bound check
			return nil, fmt.Errorf("%w: tag %d at offset %d declares %d bytes, %d remain",
				ErrTruncatedValue, tag, start, vlen, len(b)-off)
		}
		end := off + int(vlen)

		out = append(out, Field{Tag: tag, Value: b[off:end:end], Offset: start})
		off = end
	}
	return out, nil
}
