// Package sloghooks reports klv.Hooks events through log/slog.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/klv"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	UnknownTagEvery   uint64
	DuplicateTagEvery uint64
	SelfHealEvery     uint64
	// Optional storage key redactor. Defaults to SHA-256 prefix.
	// Universal keys are schema identifiers and are logged as is.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	unknownCtr  atomic.Uint64
	dupCtr      atomic.Uint64
	selfHealCtr atomic.Uint64
}

var _ klv.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) UnknownTag(universalKey string, tag uint64) {
	if h.l == nil || !sample(h.opts.UnknownTagEvery, &h.unknownCtr) {
		return
	}
	h.l.Debug("klv.unknown_tag",
		"key", universalKey,
		"tag", tag)
}

func (h *Hooks) DuplicateTag(universalKey string, tag uint64) {
	if h.l == nil || !sample(h.opts.DuplicateTagEvery, &h.dupCtr) {
		return
	}
	h.l.Info("klv.duplicate_tag",
		"key", universalKey,
		"tag", tag)
}

func (h *Hooks) ChecksumRejected(universalKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("klv.checksum_rejected",
		"key", universalKey)
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Warn("klv.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) ProviderSetRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("klv.provider_set_rejected",
		"key", h.redact(storageKey))
}
