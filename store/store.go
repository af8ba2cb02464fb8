// Package store keeps KLV records in a provider-agnostic byte store.
//
// Records are written as enveloped packets (Codec.Encode) and verified on
// every read (Codec.Decode). An entry that fails verification is deleted and
// reported as a miss, so a corrupt or foreign value never reaches the caller
// twice.
//
// Keys:
//
//	klv:<ns>:<key>
//
// Usage:
//
//	s, _ := store.New[Reading](store.Options[Reading]{
//	    Namespace: "sensors",
//	    Provider:  p,
//	    Codec:     klv.Must[Reading](klv.Options[Reading]{Visitor: schema}),
//	})
//	_ = s.Put(ctx, "cam-1", r, 0)
//	r, ok, err := s.Get(ctx, "cam-1")
package store

import (
	"context"
	"time"

	"github.com/unkn0wn-root/klv"
	"github.com/unkn0wn-root/klv/provider"
)

// SetCostFunc computes the provider cost of a write. storageKey is the
// namespaced key; raw is the enveloped packet.
type SetCostFunc func(storageKey string, raw []byte) int64

// Store is a typed record store. Implementations are safe for concurrent use.
type Store[R any] interface {
	Enabled() bool
	Close(context.Context) error

	// Get returns (record, true, nil) on hit. Entries that fail to decode are
	// deleted and reported as (zero, false, nil).
	Get(ctx context.Context, key string) (R, bool, error)
	// GetMany returns hits by key and the missing keys in request order.
	GetMany(ctx context.Context, keys []string) (map[string]R, []string, error)

	Put(ctx context.Context, key string, r R, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Options[R any] struct {
	// Required
	Namespace string
	Provider  provider.Provider
	Codec     klv.Codec[R]

	Disabled       bool          // kill switch; every Get misses, every write is dropped
	DefaultTTL     time.Duration // used when Put gets ttl == 0; default 10m
	ComputeSetCost SetCostFunc   // default: len(raw)
	Logger         klv.Logger    // if nil, NopLogger is used
	Hooks          klv.Hooks     // if nil, NopHooks is used
}

func New[R any](opts Options[R]) (Store[R], error) {
	return newStore[R](opts)
}
