// Package asynchook moves klv.Hooks calls off the decode path.
//
// Events are queued to a fixed worker pool and dropped when the queue is
// full, so a slow sink never stalls Decode.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{UnknownTagEvery: 100})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	c := klv.Must[Reading](klv.Options[Reading]{
//	    Visitor: schema,
//	    Hooks:   hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/klv"
)

type Hooks struct {
	inner   klv.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // guards closed against sends racing Close
	closed  bool
	dropped atomic.Uint64
}

var _ klv.Hooks = (*Hooks)(nil)

func New(inner klv.Hooks, workers, qlen int) *Hooks {
	if inner == nil {
		inner = klv.NopHooks{}
	}
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events sent after Close
// are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded because the queue was full
// or the pool was closed.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

func (h *Hooks) UnknownTag(k string, tag uint64)   { h.try(func() { h.inner.UnknownTag(k, tag) }) }
func (h *Hooks) DuplicateTag(k string, tag uint64) { h.try(func() { h.inner.DuplicateTag(k, tag) }) }
func (h *Hooks) ChecksumRejected(k string)         { h.try(func() { h.inner.ChecksumRejected(k) }) }
func (h *Hooks) SelfHeal(k, r string)              { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) ProviderSetRejected(k string)      { h.try(func() { h.inner.ProviderSetRejected(k) }) }
