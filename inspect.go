package klv

import (
	"fmt"

	"github.com/unkn0wn-root/klv/internal/wire"
)

// Item is one raw entry of an inspected packet.
type Item struct {
	Tag    uint64
	Offset int // of the entry's tag, relative to the start of the packet
	Value  []byte
}

// Packet is a schema-less view of a KLV payload. Values alias the inspected
// buffer.
type Packet struct {
	UniversalKey []byte
	Items        []Item // wire order, duplicates preserved
}

// Lookup returns the value of the last entry carrying tag.
func (p *Packet) Lookup(tag uint64) ([]byte, bool) {
	for i := len(p.Items) - 1; i >= 0; i-- {
		if p.Items[i].Tag == tag {
			return p.Items[i].Value, true
		}
	}
	return nil, false
}

// Tags returns the distinct tags in order of first appearance.
func (p *Packet) Tags() []uint64 {
	seen := make(map[uint64]struct{}, len(p.Items))
	out := make([]uint64, 0, len(p.Items))
	for _, it := range p.Items {
		if _, ok := seen[it.Tag]; ok {
			continue
		}
		seen[it.Tag] = struct{}{}
		out = append(out, it.Tag)
	}
	return out
}

// Inspect splits b into a keyLen-byte universal key and its fields without a
// schema. Useful for debugging captures and for routing on the key.
func Inspect(b []byte, keyLen int) (*Packet, error) {
	return inspect(b, keyLen, false)
}

// InspectLengthPrefixed is Inspect for UniversalKey | Length(body) | body packets.
func InspectLengthPrefixed(b []byte, keyLen int) (*Packet, error) {
	return inspect(b, keyLen, true)
}

func inspect(b []byte, keyLen int, prefixed bool) (*Packet, error) {
	if keyLen <= 0 {
		return nil, fmt.Errorf("klv: key length must be positive, got %d", keyLen)
	}
	if len(b) < keyLen {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrTruncatedUniversalKey, keyLen, len(b))
	}
	body := b[keyLen:]
	if prefixed {
		var err error
		if body, err = prefixedBody(body); err != nil {
			return nil, err
		}
	}
	base := len(b) - len(body)

	fields, err := wire.Unpack(body)
	if err != nil {
		return nil, err
	}
	p := &Packet{
		UniversalKey: b[:keyLen:keyLen],
		Items:        make([]Item, len(fields)),
	}
	for i, f := range fields {
		p.Items[i] = Item{Tag: f.Tag, Offset: base + f.Offset, Value: f.Value}
	}
	return p, nil
}

var probeKeyLengths = [...]int{1, 2, 4, 16}

// DetectKeyLength guesses the universal key width of a length-prefixed
// packet: the first of 1, 2, 4 and 16 bytes after which the declared body
// length consumes exactly the rest of b and the body parses.
func DetectKeyLength(b []byte) (int, bool) {
	for _, k := range probeKeyLengths {
		if len(b) <= k {
			break
		}
		if _, err := InspectLengthPrefixed(b, k); err == nil {
			return k, true
		}
	}
	return 0, false
}
