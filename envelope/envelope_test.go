package envelope

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func mustOpen(t *testing.T, b []byte, c Checksum) []byte {
	t.Helper()
	p, err := Open(b, c)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	return p
}

func mustSeal(t *testing.T, payload []byte, c Checksum) []byte {
	t.Helper()
	env, err := Seal(payload, c)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	return env
}

func TestChecksumCheckValues(t *testing.T) {
	check := []byte("123456789")
	cases := []struct {
		name string
		c    Checksum
		in   []byte
		want string
	}{
		{"crc32", CRC32(), check, "cbf43926"},
		{"crc32c", CRC32C(), check, "e3069283"},
		{"crc16a", CRC16A(), check, "bf05"},
		{"xxhash64 empty", XXHash64(), nil, "ef46db3751d8e999"},
	}
	for _, tc := range cases {
		got := tc.c.Sum(tc.in)
		if len(got) != tc.c.Size() {
			t.Fatalf("%s: Sum returned %d bytes, Size is %d", tc.name, len(got), tc.c.Size())
		}
		if hex.EncodeToString(got) != tc.want {
			t.Fatalf("%s: got %x want %s", tc.name, got, tc.want)
		}
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	payloads := [][]byte{
		nil,
		[]byte("x"),
		[]byte("TESTDATA00000000\x0a\x01\x7f"),
		bytes.Repeat([]byte{0xA5}, 4096),
	}
	algos := []Checksum{nil, CRC32(), CRC32C(), CRC16A(), XXHash64()}
	for _, c := range algos {
		for _, p := range payloads {
			env := mustSeal(t, p, c)
			w := orDefault(c).Size()
			if len(env) != len(p)+w {
				t.Fatalf("sealed len %d want %d", len(env), len(p)+w)
			}
			got := mustOpen(t, env, c)
			if !bytes.Equal(got, p) {
				t.Fatalf("payload mismatch: got %x want %x", got, p)
			}
		}
	}
}

func TestSealDoesNotAliasPayload(t *testing.T) {
	p := make([]byte, 3, 64)
	copy(p, "abc")
	env := mustSeal(t, p, nil)
	env[0] = 'Z'
	if p[0] != 'a' {
		t.Fatalf("Seal wrote into caller's payload")
	}
}

func TestOpenDetectsEverySingleByteFlip(t *testing.T) {
	env := mustSeal(t, []byte("TESTDATA00000000 some record body"), CRC32())
	for i := range env {
		bad := append([]byte(nil), env...)
		bad[i] ^= 0xFF
		p, err := Open(bad, CRC32())
		if !errors.Is(err, ErrChecksumMismatch) {
			t.Fatalf("flip at %d: expected ErrChecksumMismatch, got %v", i, err)
		}
		if p != nil {
			t.Fatalf("flip at %d: payload returned despite mismatch", i)
		}
	}
}

func TestOpenMismatchCarriesBothValues(t *testing.T) {
	env := mustSeal(t, []byte("abc"), CRC32())
	env[0] = 'x'
	_, err := Open(env, CRC32())

	var cm *ChecksumMismatchError
	if !errors.As(err, &cm) {
		t.Fatalf("expected *ChecksumMismatchError, got %T", err)
	}
	if !bytes.Equal(cm.Expected, env[len(env)-4:]) {
		t.Fatalf("Expected = %x, want trailer %x", cm.Expected, env[len(env)-4:])
	}
	if !bytes.Equal(cm.Computed, CRC32().Sum(env[:len(env)-4])) {
		t.Fatalf("Computed = %x does not match recomputation", cm.Computed)
	}
}

func TestOpenTruncated(t *testing.T) {
	for _, b := range [][]byte{nil, {1}, {1, 2, 3}} {
		if _, err := Open(b, CRC32()); !errors.Is(err, ErrTruncatedEnvelope) {
			t.Fatalf("len %d: expected ErrTruncatedEnvelope, got %v", len(b), err)
		}
	}
	// exactly the checksum width is an empty payload, not an error
	env := mustSeal(t, nil, CRC32())
	if p := mustOpen(t, env, CRC32()); len(p) != 0 {
		t.Fatalf("expected empty payload, got %x", p)
	}
}

func TestFuncChecksum(t *testing.T) {
	xor := Func(1, func(b []byte) []byte {
		var s byte
		for _, c := range b {
			s ^= c
		}
		return []byte{s}
	})
	env := mustSeal(t, []byte{1, 2, 4}, xor)
	if env[len(env)-1] != 7 {
		t.Fatalf("xor checksum = %d want 7", env[len(env)-1])
	}
	mustOpen(t, env, xor)
}

func TestChecksumWidthEnforced(t *testing.T) {
	short := Func(4, func([]byte) []byte { return []byte{1, 2} })
	if env, err := Seal([]byte("abc"), short); !errors.Is(err, ErrChecksumWidth) {
		t.Fatalf("Seal with short sum: got %x, %v; want ErrChecksumWidth", env, err)
	}
	if _, err := Open([]byte("abc\x01\x02"), short); !errors.Is(err, ErrChecksumWidth) {
		t.Fatalf("Open with short sum: expected ErrChecksumWidth, got %v", err)
	}

	for _, size := range []int{0, -1} {
		c := Func(size, func([]byte) []byte { return nil })
		if _, err := Seal([]byte("abc"), c); !errors.Is(err, ErrChecksumWidth) {
			t.Fatalf("Seal size %d: expected ErrChecksumWidth, got %v", size, err)
		}
		if _, err := Open([]byte("abc"), c); !errors.Is(err, ErrChecksumWidth) {
			t.Fatalf("Open size %d: expected ErrChecksumWidth, got %v", size, err)
		}
	}
}
