package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unkn0wn-root/klv"
	"github.com/unkn0wn-root/klv/internal/util"
	"github.com/unkn0wn-root/klv/provider"
)

const defaultTTL = 10 * time.Minute

type records[R any] struct {
	ns             string
	provider       provider.Provider
	codec          klv.Codec[R]
	log            klv.Logger
	hooks          klv.Hooks
	enabled        bool
	defaultTTL     time.Duration
	computeSetCost SetCostFunc
}

var _ Store[struct{}] = (*records[struct{}])(nil)

func newStore[R any](opts Options[R]) (*records[R], error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("store: provider is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("store: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("store: namespace is required")
	}

	s := &records[R]{
		ns:       opts.Namespace,
		provider: opts.Provider,
		codec:    opts.Codec,
		enabled:  !opts.Disabled,
	}

	// defaults
	s.log = util.Coalesce[klv.Logger](opts.Logger, klv.NopLogger{})
	s.hooks = util.Coalesce[klv.Hooks](opts.Hooks, klv.NopHooks{})
	s.defaultTTL = util.Coalesce[time.Duration](opts.DefaultTTL, defaultTTL)

	if opts.ComputeSetCost != nil {
		s.computeSetCost = opts.ComputeSetCost
	} else {
		s.computeSetCost = func(_ string, raw []byte) int64 { return int64(len(raw)) }
	}
	return s, nil
}

func (s *records[R]) Enabled() bool { return s.enabled }

func (s *records[R]) Close(ctx context.Context) error {
	if s.provider != nil {
		return s.provider.Close(ctx)
	}
	return nil
}

func (s *records[R]) storageKey(key string) string { return util.StorageKey(s.ns, key) }

func (s *records[R]) Get(ctx context.Context, key string) (R, bool, error) {
	var zero R
	if !s.enabled {
		return zero, false, nil
	}
	k := s.storageKey(key)
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	r, err := s.codec.Decode(raw)
	if err != nil {
		s.heal(ctx, k, err)
		return zero, false, nil
	}
	return r, true, nil
}

// heal drops an entry that failed to decode.
func (s *records[R]) heal(ctx context.Context, storageKey string, cause error) {
	reason := healReason(cause)
	if err := s.provider.Del(ctx, storageKey); err != nil {
		s.log.Warn("self-heal delete failed", klv.Fields{"key": storageKey, "reason": reason, "err": err})
	} else {
		s.log.Debug("self-healed corrupt entry", klv.Fields{"key": storageKey, "reason": reason, "err": cause})
	}
	s.hooks.SelfHeal(storageKey, reason)
}

func healReason(err error) string {
	switch {
	case errors.Is(err, klv.ErrChecksumMismatch), errors.Is(err, klv.ErrTruncatedEnvelope):
		return "checksum"
	case errors.Is(err, klv.ErrUniversalKeyMismatch), errors.Is(err, klv.ErrTruncatedUniversalKey):
		return "key_mismatch"
	default:
		return "decode"
	}
}

func (s *records[R]) GetMany(ctx context.Context, keys []string) (map[string]R, []string, error) {
	out := make(map[string]R, len(keys))
	if !s.enabled {
		missing := make([]string, 0, len(keys))
		missing = append(missing, keys...)
		return out, missing, nil
	}

	var missing []string
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		r, ok, err := s.Get(ctx, k)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			out[k] = r
		} else {
			missing = append(missing, k)
		}
	}
	return out, missing, nil
}

func (s *records[R]) Put(ctx context.Context, key string, r R, ttl time.Duration) error {
	if !s.enabled {
		return nil
	}
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	raw, err := s.codec.Encode(r)
	if err != nil {
		return err
	}
	k := s.storageKey(key)
	ok, err := s.provider.Set(ctx, k, raw, s.computeSetCost(k, raw), ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Debug("Put rejected by provider (pressure)", klv.Fields{"key": key})
		s.hooks.ProviderSetRejected(k)
	}
	return nil
}

func (s *records[R]) Delete(ctx context.Context, key string) error {
	if !s.enabled {
		return nil
	}
	return s.provider.Del(ctx, s.storageKey(key))
}
