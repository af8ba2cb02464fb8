package sloghooks

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newBufLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestSampling(t *testing.T) {
	var buf bytes.Buffer
	h := New(newBufLogger(&buf), Options{UnknownTagEvery: 3})
	for i := 0; i < 9; i++ {
		h.UnknownTag("TESTDATA00000000", 999)
	}
	if n := strings.Count(buf.String(), "klv.unknown_tag"); n != 3 {
		t.Fatalf("logged %d unknown_tag lines, want 3", n)
	}
}

func TestStorageKeysRedacted(t *testing.T) {
	var buf bytes.Buffer
	h := New(newBufLogger(&buf), Options{})
	h.SelfHeal("klv:sensors:cam-1", "checksum")
	h.ProviderSetRejected("klv:sensors:cam-1")

	out := buf.String()
	if strings.Contains(out, "cam-1") {
		t.Fatalf("storage key leaked into logs: %s", out)
	}
	if !strings.Contains(out, "reason=checksum") || !strings.Contains(out, "klv.provider_set_rejected") {
		t.Fatalf("unexpected output: %s", out)
	}

	buf.Reset()
	h = New(newBufLogger(&buf), Options{Redact: func(string) string { return "REDACTED" }})
	h.SelfHeal("klv:sensors:cam-1", "decode")
	if !strings.Contains(buf.String(), "key=REDACTED") {
		t.Fatalf("custom redactor not used: %s", buf.String())
	}
}

func TestNilLogger(t *testing.T) {
	h := New(nil, Options{})
	h.UnknownTag("K", 1)
	h.DuplicateTag("K", 1)
	h.ChecksumRejected("K")
	h.SelfHeal("k", "decode")
	h.ProviderSetRejected("k")
}
