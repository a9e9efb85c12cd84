package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/yungbote/featurestore-backend/internal/platform/logger"
)

// Handle is the cache the rest of the system talks to. It prefers the
// remote backend and flips to the in-process fallback for the
// remainder of the process lifetime once the remote fails; backend
// trouble never reaches callers.
type Handle struct {
	log      *logger.Logger
	remote   Store
	fallback Store

	usingFallback atomic.Bool
	defaultTTL    time.Duration
}

// New builds a handle over an optional remote store. Pass a nil remote
// (e.g. when Redis was unreachable at startup) to run on the fallback
// from the beginning.
func New(log *logger.Logger, remote Store, fallback Store, defaultTTL time.Duration) *Handle {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	h := &Handle{
		log:        log.With("service", "Cache"),
		remote:     remote,
		fallback:   fallback,
		defaultTTL: defaultTTL,
	}
	if remote == nil {
		h.usingFallback.Store(true)
		h.log.Warn("remote cache unavailable, using in-process fallback")
	}
	return h
}

func (h *Handle) DefaultTTL() time.Duration { return h.defaultTTL }

// UsingFallback reports whether the handle has switched away from the
// remote backend.
func (h *Handle) UsingFallback() bool { return h.usingFallback.Load() }

func (h *Handle) store() Store {
	if h.usingFallback.Load() {
		return h.fallback
	}
	return h.remote
}

func (h *Handle) demote(op string, err error) {
	if h.usingFallback.CompareAndSwap(false, true) {
		h.log.Warn("remote cache failed, switching to in-process fallback", "op", op, "error", err)
	}
}

func (h *Handle) Get(ctx context.Context, key string) ([]byte, bool) {
	value, hit, err := h.store().Get(ctx, key)
	if err != nil {
		h.demote("get", err)
		value, hit, err = h.fallback.Get(ctx, key)
		if err != nil {
			return nil, false
		}
	}
	return value, hit
}

func (h *Handle) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = h.defaultTTL
	}
	if err := h.store().Set(ctx, key, value, ttl); err != nil {
		h.demote("set", err)
		_ = h.fallback.Set(ctx, key, value, ttl)
	}
}

func (h *Handle) Delete(ctx context.Context, keys ...string) {
	if err := h.store().Delete(ctx, keys...); err != nil {
		h.demote("delete", err)
		_ = h.fallback.Delete(ctx, keys...)
	}
}
