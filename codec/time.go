package codec

import (
	"fmt"
	"time"
)

// MicroTime carries a time.Time as uint64 microseconds since the Unix epoch
// (MISB "precision time stamp"). Sub-microsecond precision is truncated and
// decoded times are UTC. Times before the epoch cannot be encoded.
type MicroTime struct{}

func (MicroTime) Encode(t time.Time) ([]byte, error) {
	us := t.UnixMicro()
	if us < 0 {
		return nil, fmt.Errorf("codec: time %s is before the Unix epoch", t.Format(time.RFC3339Nano))
	}
	return Uint64{}.Encode(uint64(us))
}

func (MicroTime) Decode(b []byte) (time.Time, error) {
	us, err := Uint64{}.Decode(b)
	if err != nil {
		return time.Time{}, err
	}
	if us > 1<<63-1 {
		return time.Time{}, fmt.Errorf("codec: timestamp %d overflows int64 microseconds", us)
	}
	return time.UnixMicro(int64(us)).UTC(), nil
}
