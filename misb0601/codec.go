package misb0601

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/unkn0wn-root/klv"
	"github.com/unkn0wn-root/klv/internal/util"
	"github.com/unkn0wn-root/klv/internal/wire"
)

var ErrMissingChecksum = errors.New("misb0601: packet does not end with a checksum field")

// trailer is Tag(1) | Length(2) | BCC, always the last 4 bytes of a packet.
const trailerSize = 4

var trailerHeader = []byte{TagChecksum, 0x02}

type Options struct {
	MaxPayload int        // 0 => unlimited
	Logger     klv.Logger // if nil, NopLogger is used
	Hooks      klv.Hooks  // if nil, NopHooks is used
}

// Codec reads and writes complete ST 0601 packets. The checksum travels
// in-band, so Encode/Decode are the same as Marshal/Unmarshal.
type Codec struct {
	inner      klv.Codec[UASDatalinkLS]
	label      string
	maxPayload int
	log        klv.Logger
	hooks      klv.Hooks
}

var _ klv.Codec[UASDatalinkLS] = (*Codec)(nil)

func New(opts Options) (*Codec, error) {
	if opts.Logger == nil {
		opts.Logger = klv.NopLogger{}
	}
	if opts.Hooks == nil {
		opts.Hooks = klv.NopHooks{}
	}
	inner, err := klv.New[UASDatalinkLS](klv.Options[UASDatalinkLS]{
		Visitor:         Schema,
		DisableChecksum: true,
		LengthPrefixed:  true,
		MaxPayload:      opts.MaxPayload,
		Logger:          opts.Logger,
		Hooks:           opts.Hooks,
	})
	if err != nil {
		return nil, err
	}
	return &Codec{
		inner:      inner,
		label:      util.KeyLabel(UniversalKey),
		maxPayload: opts.MaxPayload,
		log:        opts.Logger,
		hooks:      opts.Hooks,
	}, nil
}

func (c *Codec) UniversalKey() []byte { return c.inner.UniversalKey() }

// Marshal writes UniversalKey | Length | fields | checksum trailer.
func (c *Codec) Marshal(r UASDatalinkLS) ([]byte, error) {
	p, err := c.inner.Marshal(r)
	if err != nil {
		return nil, err
	}
	k := len(UniversalKey)
	_, used, err := wire.ReadLength(p[k:])
	if err != nil {
		return nil, err
	}
	body := p[k+used:]
	n := uint64(len(body) + trailerSize)

	out := make([]byte, 0, k+wire.LengthSize(n)+int(n))
	out = append(out, UniversalKey...)
	out = wire.AppendLength(out, n)
	out = append(out, body...)
	out = append(out, trailerHeader...)
	return binary.BigEndian.AppendUint16(out, Sum16(out)), nil
}

// Unmarshal verifies the universal key and the BCC trailer before decoding
// any field.
func (c *Codec) Unmarshal(b []byte) (UASDatalinkLS, error) {
	var zero UASDatalinkLS
	if c.maxPayload > 0 && len(b) > c.maxPayload {
		return zero, fmt.Errorf("%w: %d > %d", klv.ErrPayloadTooLarge, len(b), c.maxPayload)
	}

	k := len(UniversalKey)
	if len(b) < k {
		return zero, fmt.Errorf("%w: need %d bytes, got %d", klv.ErrTruncatedUniversalKey, k, len(b))
	}
	if !bytes.Equal(b[:k], UniversalKey) {
		return zero, &klv.UniversalKeyMismatchError{
			Expected: append([]byte(nil), UniversalKey...),
			Actual:   append([]byte(nil), b[:k]...),
		}
	}

	t := len(b) - trailerSize
	if t <= k || !bytes.Equal(b[t:t+2], trailerHeader) {
		return zero, ErrMissingChecksum
	}
	want := binary.BigEndian.Uint16(b[t+2:])
	if got := Sum16(b[:t+2]); got != want {
		c.log.Debug("packet rejected (bcc)", klv.Fields{"key": c.label, "len": len(b)})
		c.hooks.ChecksumRejected(c.label)
		return zero, &klv.ChecksumMismatchError{
			Expected: binary.BigEndian.AppendUint16(nil, want),
			Computed: binary.BigEndian.AppendUint16(nil, got),
		}
	}
	return c.inner.Unmarshal(b)
}

func (c *Codec) Encode(r UASDatalinkLS) ([]byte, error) { return c.Marshal(r) }
func (c *Codec) Decode(b []byte) (UASDatalinkLS, error) { return c.Unmarshal(b) }

var std = mustNew(Options{})

func mustNew(opts Options) *Codec {
	c, err := New(opts)
	if err != nil {
		panic(err)
	}
	return c
}

// Marshal encodes r with default options.
func Marshal(r UASDatalinkLS) ([]byte, error) { return std.Marshal(r) }

// Unmarshal decodes b with default options.
func Unmarshal(b []byte) (UASDatalinkLS, error) { return std.Unmarshal(b) }
