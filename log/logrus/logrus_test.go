package logrus

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/unkn0wn-root/klv"
)

func TestLogrusLogger(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := LogrusLogger{E: logrus.NewEntry(base)}

	l.Debug("duplicate tag, keeping last", klv.Fields{"tag": uint64(5)})
	e := hook.LastEntry()
	if e == nil || e.Level != logrus.DebugLevel || e.Message != "duplicate tag, keeping last" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Data["tag"] != uint64(5) {
		t.Fatalf("unexpected data: %v", e.Data)
	}

	boom := errors.New("boom")
	l.Warn("self-heal delete failed", klv.Fields{"err": boom, "key": "klv:ns:k"})
	e = hook.LastEntry()
	if e.Data[logrus.ErrorKey] != boom || e.Data["key"] != "klv:ns:k" {
		t.Fatalf("unexpected data: %v", e.Data)
	}

	l.Error("no fields", nil)
	if len(hook.AllEntries()) != 3 || hook.LastEntry().Level != logrus.ErrorLevel {
		t.Fatalf("expected 3 entries ending with an error")
	}
}
