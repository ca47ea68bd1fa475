package middleware

import "testing"

func TestIdempotencyCacheKey_ScopedToCallerAndRoute(t *testing.T) {
	t.Parallel()

	base := idempotencyCacheKey("rider-1", "POST", "/v1/rides", "k1")

	// Two users replaying the same client key must not collide: a
	// shared key would hand one caller the other's cached response.
	if other := idempotencyCacheKey("rider-2", "POST", "/v1/rides", "k1"); other == base {
		t.Errorf("keys collide across users: %q", base)
	}

	// The same user reusing a key on a different endpoint or method gets
	// a fresh slot, not the earlier reply.
	if other := idempotencyCacheKey("rider-1", "POST", "/v1/rides/abc/cancel", "k1"); other == base {
		t.Errorf("keys collide across paths: %q", base)
	}
	if other := idempotencyCacheKey("rider-1", "PUT", "/v1/rides", "k1"); other == base {
		t.Errorf("keys collide across methods: %q", base)
	}
	if other := idempotencyCacheKey("rider-1", "POST", "/v1/rides", "k2"); other == base {
		t.Errorf("keys collide across client keys: %q", base)
	}

	// A true repeat maps to the same slot.
	if repeat := idempotencyCacheKey("rider-1", "POST", "/v1/rides", "k1"); repeat != base {
		t.Errorf("repeat request missed its slot: %q vs %q", repeat, base)
	}
}
