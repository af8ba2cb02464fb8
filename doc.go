// Package klv encodes typed records as Key-Length-Value packets and back.
//
// Wire format:
//
//	Packet   := UniversalKey | Field*
//	Field    := Tag | Length | Value          (Tag and Length are BER lengths)
//	Envelope := Packet | Checksum(Packet)     (CRC32 unless configured)
//
// Components:
//   - Visitor[R]: the universal key and ordered field descriptors of R.
//     Schema[R] plus Required/Optional/OptionalValue build one from closures.
//   - codec.Codec[V]: converts one field value <-> []byte.
//   - Codec[R]: Marshal/Unmarshal the packet, Encode/Decode the envelope.
//   - envelope.Checksum: pluggable integrity check (CRC32, CRC32C, CRC16A, XXHash64, Func).
//
// Decoding is strict about structure and lenient about content: a truncated
// entry, a foreign universal key or a missing required field fails the
// decode, while tags the schema does not declare are skipped so older readers
// accept packets from newer writers.
//
// Usage:
//
//	schema := klv.MustSchema[Reading]([]byte("TESTDATA00000000"),
//		klv.Required(10, codec.Uint8{}, func(r *Reading) *uint8 { return &r.Level }),
//		klv.Optional(120, codec.Uint16{}, func(r *Reading) **uint16 { return &r.Alt }),
//	)
//	c := klv.Must[Reading](klv.Options[Reading]{Visitor: schema})
//	b, _ := c.Encode(r)
//	r2, err := c.Decode(b)
package klv
