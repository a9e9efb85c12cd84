package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/featurestore-backend/internal/platform/logger"
)

// failingStore errors on every operation, standing in for a remote
// backend that went away mid-process.
type failingStore struct {
	calls int
}

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.calls++
	return nil, false, errors.New("connection refused")
}

func (f *failingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.calls++
	return errors.New("connection refused")
}

func (f *failingStore) Delete(ctx context.Context, keys ...string) error {
	f.calls++
	return errors.New("connection refused")
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestHandlePrefersRemote(t *testing.T) {
	remote := NewMemoryStore()
	defer remote.Close()
	fallback := NewMemoryStore()
	defer fallback.Close()

	h := New(testLogger(t), remote, fallback, time.Minute)
	ctx := context.Background()

	h.Set(ctx, "k", []byte("v"), 0)
	if _, hit, _ := remote.Get(ctx, "k"); !hit {
		t.Fatal("expected write to land in the remote store")
	}
	if _, hit, _ := fallback.Get(ctx, "k"); hit {
		t.Fatal("fallback must stay untouched while remote is healthy")
	}
	if h.UsingFallback() {
		t.Fatal("healthy remote must not trigger fallback")
	}
}

func TestHandleFlipsToFallbackOnRemoteFailure(t *testing.T) {
	remote := &failingStore{}
	fallback := NewMemoryStore()
	defer fallback.Close()

	h := New(testLogger(t), remote, fallback, time.Minute)
	ctx := context.Background()

	// First failing call flips the handle and retries on the fallback.
	h.Set(ctx, "k", []byte("v"), time.Minute)
	if !h.UsingFallback() {
		t.Fatal("expected handle to flip after remote failure")
	}
	value, hit := h.Get(ctx, "k")
	if !hit || string(value) != "v" {
		t.Fatalf("expected retried write to be readable from fallback, got hit=%v value=%q", hit, value)
	}

	// The flip is one-way for the process lifetime.
	callsAfterFlip := remote.calls
	h.Set(ctx, "k2", []byte("v2"), time.Minute)
	h.Delete(ctx, "k")
	if remote.calls != callsAfterFlip {
		t.Fatalf("remote must not be consulted after the flip, got %d extra calls", remote.calls-callsAfterFlip)
	}
}

func TestHandleNilRemoteStartsOnFallback(t *testing.T) {
	fallback := NewMemoryStore()
	defer fallback.Close()

	h := New(testLogger(t), nil, fallback, 0)
	if !h.UsingFallback() {
		t.Fatal("nil remote must start on the fallback")
	}
	if h.DefaultTTL() != DefaultTTL {
		t.Fatalf("expected default TTL %v, got %v", DefaultTTL, h.DefaultTTL())
	}

	ctx := context.Background()
	h.Set(ctx, "k", []byte("v"), 0)
	if value, hit := h.Get(ctx, "k"); !hit || string(value) != "v" {
		t.Fatalf("fallback roundtrip failed: hit=%v value=%q", hit, value)
	}
}

func TestHandleDeleteNeverSurfacesErrors(t *testing.T) {
	remote := &failingStore{}
	fallback := NewMemoryStore()
	defer fallback.Close()

	h := New(testLogger(t), remote, fallback, time.Minute)
	h.Delete(context.Background(), "a", "b")
	if !h.UsingFallback() {
		t.Fatal("expected failed delete to flip the handle")
	}
}
