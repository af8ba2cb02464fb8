package asynchook

import (
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/unkn0wn-root/klv"
)

type countingHooks struct {
	klv.NopHooks
	mu      sync.Mutex
	unknown int
	heals   []string
	block   chan struct{}
}

func (c *countingHooks) UnknownTag(string, uint64) {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	c.unknown++
	c.mu.Unlock()
}

func (c *countingHooks) SelfHeal(_, reason string) {
	c.mu.Lock()
	c.heals = append(c.heals, reason)
	c.mu.Unlock()
}

func TestDeliversAndDrainsOnClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	inner := &countingHooks{}
	h := New(inner, 2, 64)
	for i := 0; i < 10; i++ {
		h.UnknownTag("K", uint64(i))
	}
	h.SelfHeal("klv:ns:k", "checksum")
	h.Close()

	if inner.unknown != 10 {
		t.Fatalf("UnknownTag delivered %d times, want 10", inner.unknown)
	}
	if len(inner.heals) != 1 || inner.heals[0] != "checksum" {
		t.Fatalf("SelfHeal deliveries = %v", inner.heals)
	}
	if h.Dropped() != 0 {
		t.Fatalf("dropped %d events with room in the queue", h.Dropped())
	}
}

func TestDropsWhenFull(t *testing.T) {
	defer goleak.VerifyNone(t)

	inner := &countingHooks{block: make(chan struct{})}
	h := New(inner, 1, 1)

	// the worker parks on the first event; the second fills the queue
	h.UnknownTag("K", 1)
	h.UnknownTag("K", 2)
	h.UnknownTag("K", 3)
	h.UnknownTag("K", 4)
	if h.Dropped() == 0 {
		t.Fatalf("expected drops with a blocked worker and a full queue")
	}

	close(inner.block)
	h.Close()
	h.Close() // idempotent

	h.ChecksumRejected("K")
	if inner.unknown+int(h.Dropped()) != 5 {
		t.Fatalf("delivered %d + dropped %d != 5 events", inner.unknown, h.Dropped())
	}
}
