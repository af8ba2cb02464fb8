// Package misb0601 implements the MISB ST 0601 UAS Datalink Local Set on top
// of klv: the record, its schema, and the in-band BCC checksum trailer.
//
//	Packet := UniversalKey(16) | Length | Field* | 0x01 0x02 BCC(2)
//
// Only the subset of tags seen in common captures is declared. Everything
// else decodes as an unknown tag and is skipped.
package misb0601

import (
	"time"

	"github.com/unkn0wn-root/klv"
	"github.com/unkn0wn-root/klv/codec"
)

// UniversalKey of the UAS Datalink Local Set.
var UniversalKey = []byte{
	0x06, 0x0e, 0x2b, 0x34, 0x02, 0x0b, 0x01, 0x01,
	0x0e, 0x01, 0x03, 0x01, 0x01, 0x00, 0x00, 0x00,
}

const (
	TagChecksum  = 1
	TagTimestamp = 2
	TagLSVersion = 65
)

// UASDatalinkLS holds raw (unscaled) tag values. Angles and positions keep
// their wire integer form; mapping them to degrees or meters is left to the
// caller.
type UASDatalinkLS struct {
	Timestamp time.Time // 2, microseconds since epoch

	PlatformHeadingAngle uint16 // 5, 0..65535 => 0..360
	PlatformPitchAngle   int16  // 6, +/-32767 => +/-20; 0x8000 out of range
	PlatformRollAngle    int16  // 7, +/-32767 => +/-50; 0x8000 out of range

	ImageSourceSensor     *string // 11
	ImageCoordinateSystem *string // 12

	SensorLatitude      *int32  // 13
	SensorLongitude     *int32  // 14
	SensorTrueAltitude  *uint16 // 15
	SensorHorizontalFOV *uint16 // 16
	SensorVerticalFOV   *uint16 // 17

	SensorRelativeAzimuth   *uint32 // 18
	SensorRelativeElevation *int32  // 19
	SensorRelativeRoll      *int32  // 20

	SlantRange *uint32 // 21
	// 2 bytes in ST 0601.8, 4 bytes in the field captures this was built against
	TargetWidth *uint32 // 22

	FrameCenterLatitude  *int32  // 23
	FrameCenterLongitude *int32  // 24
	FrameCenterElevation *uint16 // 25

	TargetLocationLatitude  *int32  // 40
	TargetLocationLongitude *int32  // 41
	TargetLocationElevation *uint16 // 42

	PlatformGroundSpeed *uint8  // 56
	GroundRange         *uint32 // 57

	LSVersion uint8 // 65
}

type ls = UASDatalinkLS

// Schema is the field layout of UASDatalinkLS. Use it with LengthPrefixed.
var Schema = klv.MustSchema[ls](UniversalKey,
	klv.Required(TagTimestamp, codec.MicroTime{}, func(r *ls) *time.Time { return &r.Timestamp }),
	klv.Required(TagLSVersion, codec.Uint8{}, func(r *ls) *uint8 { return &r.LSVersion }),
	klv.Required(5, codec.Uint16{}, func(r *ls) *uint16 { return &r.PlatformHeadingAngle }),
	klv.Required(6, codec.Int16{}, func(r *ls) *int16 { return &r.PlatformPitchAngle }),
	klv.Required(7, codec.Int16{}, func(r *ls) *int16 { return &r.PlatformRollAngle }),

	klv.Optional(11, codec.Limit[string]{Inner: codec.String{}, Max: 127}, func(r *ls) **string { return &r.ImageSourceSensor }),
	klv.Optional(12, codec.Limit[string]{Inner: codec.String{}, Max: 127}, func(r *ls) **string { return &r.ImageCoordinateSystem }),

	klv.Optional(13, codec.Int32{}, func(r *ls) **int32 { return &r.SensorLatitude }),
	klv.Optional(14, codec.Int32{}, func(r *ls) **int32 { return &r.SensorLongitude }),
	klv.Optional(15, codec.Uint16{}, func(r *ls) **uint16 { return &r.SensorTrueAltitude }),
	klv.Optional(16, codec.Uint16{}, func(r *ls) **uint16 { return &r.SensorHorizontalFOV }),
	klv.Optional(17, codec.Uint16{}, func(r *ls) **uint16 { return &r.SensorVerticalFOV }),
	klv.Optional(18, codec.Uint32{}, func(r *ls) **uint32 { return &r.SensorRelativeAzimuth }),
	klv.Optional(19, codec.Int32{}, func(r *ls) **int32 { return &r.SensorRelativeElevation }),
	klv.Optional(20, codec.Int32{}, func(r *ls) **int32 { return &r.SensorRelativeRoll }),
	klv.Optional(21, codec.Uint32{}, func(r *ls) **uint32 { return &r.SlantRange }),
	klv.Optional(22, codec.Uint32{}, func(r *ls) **uint32 { return &r.TargetWidth }),
	klv.Optional(23, codec.Int32{}, func(r *ls) **int32 { return &r.FrameCenterLatitude }),
	klv.Optional(24, codec.Int32{}, func(r *ls) **int32 { return &r.FrameCenterLongitude }),
	klv.Optional(25, codec.Uint16{}, func(r *ls) **uint16 { return &r.FrameCenterElevation }),
	klv.Optional(40, codec.Int32{}, func(r *ls) **int32 { return &r.TargetLocationLatitude }),
	klv.Optional(41, codec.Int32{}, func(r *ls) **int32 { return &r.TargetLocationLongitude }),
	klv.Optional(42, codec.Uint16{}, func(r *ls) **uint16 { return &r.TargetLocationElevation }),
	klv.Optional(56, codec.Uint8{}, func(r *ls) **uint8 { return &r.PlatformGroundSpeed }),
	klv.Optional(57, codec.Uint32{}, func(r *ls) **uint32 { return &r.GroundRange }),

	checksumField{},
)

// checksumField reserves tag 1. The trailer is written and verified by Codec,
// so the descriptor never encodes and ignores the value on decode.
type checksumField struct{}

func (checksumField) Tag() uint64                      { return TagChecksum }
func (checksumField) Required() bool                   { return false }
func (checksumField) Encode(*ls) ([]byte, bool, error) { return nil, false, nil }
func (checksumField) Decode(*ls, []byte) error         { return nil }
func (checksumField) Clear(*ls)                        {}
