package klv

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/unkn0wn-root/klv/envelope"
	"github.com/unkn0wn-root/klv/internal/util"
	"github.com/unkn0wn-root/klv/internal/wire"
)

type klvCodec[R any] struct {
	key      []byte
	label    string // printable universal key for logs/hooks
	fields   []FieldDescriptor[R]
	declared map[uint64]struct{}

	checksum       envelope.Checksum
	sealed         bool
	dupPolicy      DuplicatePolicy
	lengthPrefixed bool
	maxPayload     int

	log   Logger
	hooks Hooks
}

var _ Codec[struct{}] = (*klvCodec[struct{}])(nil)

func newCodec[R any](opts Options[R]) (*klvCodec[R], error) {
	if opts.Visitor == nil {
		return nil, errors.New("klv: visitor is required")
	}
	key := opts.Visitor.UniversalKey()
	if len(key) == 0 {
		return nil, errors.New("klv: universal key is required")
	}
	fields := opts.Visitor.Fields()
	if err := checkTags(fields); err != nil {
		return nil, err
	}
	if opts.DuplicateTags != LastWins && opts.DuplicateTags != RejectDuplicates {
		return nil, fmt.Errorf("klv: unknown duplicate policy %d", opts.DuplicateTags)
	}
	if opts.MaxPayload < 0 {
		return nil, fmt.Errorf("klv: negative MaxPayload %d", opts.MaxPayload)
	}

	c := &klvCodec[R]{
		key:            append([]byte(nil), key...),
		label:          util.KeyLabel(key),
		fields:         append([]FieldDescriptor[R](nil), fields...),
		declared:       make(map[uint64]struct{}, len(fields)),
		sealed:         !opts.DisableChecksum,
		dupPolicy:      opts.DuplicateTags,
		lengthPrefixed: opts.LengthPrefixed,
		maxPayload:     opts.MaxPayload,
	}
	for _, f := range fields {
		c.declared[f.Tag()] = struct{}{}
	}

	// defaults
	c.checksum = util.Coalesce[envelope.Checksum](opts.Checksum, envelope.CRC32())
	c.log = util.Coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = util.Coalesce[Hooks](opts.Hooks, NopHooks{})

	if c.sealed && c.checksum.Size() <= 0 {
		return nil, fmt.Errorf("klv: checksum width must be positive, got %d", c.checksum.Size())
	}
	return c, nil
}

func (c *klvCodec[R]) UniversalKey() []byte { return append([]byte(nil), c.key...) }

// Marshal writes UniversalKey followed by every present field in descriptor
// order. Absent optional fields produce no bytes at all.
func (c *klvCodec[R]) Marshal(r R) ([]byte, error) {
	fields, body, err := encodeFields(c.fields, &r)
	if err != nil {
		return nil, err
	}

	size := len(c.key) + body
	if c.lengthPrefixed {
		size += wire.LengthSize(uint64(body))
	}
	out := make([]byte, 0, size)
	out = append(out, c.key...)
	if c.lengthPrefixed {
		out = wire.AppendLength(out, uint64(body))
	}
	return wire.AppendFields(out, fields), nil
}

// encodeFields converts every present field of r in descriptor order and
// returns them with their total encoded size.
func encodeFields[R any](fds []FieldDescriptor[R], r *R) ([]wire.Field, int, error) {
	fields := make([]wire.Field, 0, len(fds))
	size := 0
	for _, fd := range fds {
		v, ok, err := fd.Encode(r)
		if err != nil {
			return nil, 0, &FieldConversionError{Tag: fd.Tag(), Err: err}
		}
		if !ok {
			continue
		}
		f := wire.Field{Tag: fd.Tag(), Value: v}
		size += f.Size()
		fields = append(fields, f)
	}
	return fields, size, nil
}

// Unmarshal is a single pass: verify key, unpack fields, resolve each
// declared field. Tags the schema does not declare are ignored and reported
// once per distinct tag.
func (c *klvCodec[R]) Unmarshal(b []byte) (R, error) {
	var zero R
	if err := c.checkSize(b); err != nil {
		return zero, err
	}
	return c.unmarshal(b)
}

func (c *klvCodec[R]) unmarshal(b []byte) (R, error) {
	var zero R

	body, err := c.body(b)
	if err != nil {
		return zero, err
	}
	entries, err := wire.Unpack(body)
	if err != nil {
		return zero, err
	}

	values := make(map[uint64][]byte, len(entries))
	for _, e := range entries {
		if _, dup := values[e.Tag]; dup {
			if c.dupPolicy == RejectDuplicates {
				return zero, fmt.Errorf("%w: %d at offset %d", ErrDuplicateTag, e.Tag, e.Offset)
			}
			c.log.Debug("duplicate tag, keeping last", Fields{"key": c.label, "tag": e.Tag, "offset": e.Offset})
			c.hooks.DuplicateTag(c.label, e.Tag)
		}
		values[e.Tag] = e.Value
	}

	r, err := resolveFields(c.fields, values)
	if err != nil {
		return zero, err
	}

	var reported map[uint64]struct{}
	for _, e := range entries {
		if _, ok := c.declared[e.Tag]; ok {
			continue
		}
		if _, done := reported[e.Tag]; done {
			continue
		}
		if reported == nil {
			reported = make(map[uint64]struct{})
		}
		reported[e.Tag] = struct{}{}
		c.log.Debug("unknown tag ignored", Fields{"key": c.label, "tag": e.Tag, "len": len(e.Value)})
		c.hooks.UnknownTag(c.label, e.Tag)
	}
	return r, nil
}

// resolveFields binds values into a fresh record. A declared tag with no
// value is cleared when optional and an error when required.
func resolveFields[R any](fds []FieldDescriptor[R], values map[uint64][]byte) (R, error) {
	var r, zero R
	for _, fd := range fds {
		tag := fd.Tag()
		v, ok := values[tag]
		if !ok {
			if fd.Required() {
				return zero, &MissingRequiredFieldError{Tag: tag}
			}
			fd.Clear(&r)
			continue
		}
		if err := fd.Decode(&r, v); err != nil {
			return zero, &FieldConversionError{Tag: tag, Err: err}
		}
	}
	return r, nil
}

// body checks the universal key and returns the field section.
func (c *klvCodec[R]) body(b []byte) ([]byte, error) {
	n := len(c.key)
	if len(b) < n {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrTruncatedUniversalKey, n, len(b))
	}
	if !bytes.Equal(b[:n], c.key) {
		c.log.Debug("universal key mismatch", Fields{"key": c.label, "got": util.KeyLabel(b[:n])})
		return nil, &UniversalKeyMismatchError{
			Expected: append([]byte(nil), c.key...),
			Actual:   append([]byte(nil), b[:n]...),
		}
	}
	if c.lengthPrefixed {
		return prefixedBody(b[n:])
	}
	return b[n:], nil
}

// prefixedBody reads Length(body) and checks it covers exactly the rest of b.
func prefixedBody(b []byte) ([]byte, error) {
	blen, used, err := wire.ReadLength(b)
	if err != nil {
		return nil, fmt.Errorf("body length: %w", err)
	}
	rest := b[used:]
	switch {
	case blen > uint64(len(rest)):
		return nil, fmt.Errorf("%w: body declares %d bytes, %d remain", ErrTruncatedValue, blen, len(rest))
	case blen < uint64(len(rest)):
		return nil, fmt.Errorf("%w: body declares %d bytes, %d remain", ErrMalformedLength, blen, len(rest))
	}
	return rest, nil
}

func (c *klvCodec[R]) checkSize(b []byte) error {
	if c.maxPayload > 0 && len(b) > c.maxPayload {
		c.log.Debug("payload rejected (too large)", Fields{"key": c.label, "len": len(b), "max": c.maxPayload})
		return fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(b), c.maxPayload)
	}
	return nil
}

func (c *klvCodec[R]) Encode(r R) ([]byte, error) {
	payload, err := c.Marshal(r)
	if err != nil || !c.sealed {
		return payload, err
	}
	return envelope.Seal(payload, c.checksum)
}

// Decode verifies the envelope before anything else; a payload whose
// checksum does not match is never parsed.
func (c *klvCodec[R]) Decode(b []byte) (R, error) {
	var zero R
	if err := c.checkSize(b); err != nil {
		return zero, err
	}
	if !c.sealed {
		return c.unmarshal(b)
	}
	payload, err := envelope.Open(b, c.checksum)
	if err != nil {
		if errors.Is(err, ErrChecksumMismatch) {
			c.log.Debug("envelope rejected (checksum)", Fields{"key": c.label, "len": len(b)})
			c.hooks.ChecksumRejected(c.label)
		}
		return zero, err
	}
	return c.unmarshal(payload)
}
