package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

// backends returns every Cache implementation that runs without an external server.
func backends(t *testing.T, clock clockwork.Clock) map[string]Cache {
	t.Helper()
	sq, err := OpenSQLiteCache(filepath.Join(t.TempDir(), "cache.db"), clock)
	if err != nil {
		t.Fatalf("OpenSQLiteCache() error = %v", err)
	}
	t.Cleanup(func() { sq.Close() })
	return map[string]Cache{
		"memory": NewInMemoryCache(clock),
		"sqlite": sq,
	}
}

// TestCache_GetSet verifies that Set stores values and Get returns them unchanged.
func TestCache_GetSet(t *testing.T) {
	for name, c := range backends(t, clockwork.NewFakeClock()) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := c.Set(ctx, "settings", []byte(`{"location":"Morang, Nepal"}`), time.Minute); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, ok, err := c.Get(ctx, "settings")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !ok {
				t.Fatal("Get() ok = false, want true")
			}
			if string(got) != `{"location":"Morang, Nepal"}` {
				t.Errorf("Get() = %s", got)
			}
		})
	}
}

// TestCache_Get_Miss verifies that Get returns ok=false for an absent key.
func TestCache_Get_Miss(t *testing.T) {
	for name, c := range backends(t, clockwork.NewFakeClock()) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := c.Get(context.Background(), "nonexistent")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if ok {
				t.Error("Get() ok = true, want false for miss")
			}
		})
	}
}

// TestCache_Get_Expired verifies that entries past their TTL are misses and are removed.
func TestCache_Get_Expired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	for name, c := range backends(t, clock) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := c.Set(ctx, "k", []byte("v"), time.Second); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			clock.Advance(2 * time.Second)

			if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
				t.Errorf("Get(expired) = ok %v, err %v; want miss", ok, err)
			}
			if _, ok, _ := c.Get(ctx, "k"); ok {
				t.Error("expired entry should be deleted from cache")
			}
			if _, ok, err := c.Get(ctx, "forever"); err != nil || !ok {
				t.Errorf("Get(no ttl) = ok %v, err %v; want hit", ok, err)
			}
		})
	}
}

func TestCache_Delete(t *testing.T) {
	for name, c := range backends(t, clockwork.NewFakeClock()) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := c.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, ok, _ := c.Get(ctx, "k"); ok {
				t.Error("Get() after Delete ok = true")
			}
			if err := c.Delete(ctx, "missing"); err != nil {
				t.Errorf("Delete(missing) error = %v, want nil", err)
			}
		})
	}
}

// TestInMemoryCache_CopiesValues verifies that callers cannot mutate stored bytes.
func TestInMemoryCache_CopiesValues(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(nil)
	v := []byte("abc")
	_ = c.Set(ctx, "k", v, 0)
	v[0] = 'x'

	got, _, _ := c.Get(ctx, "k")
	got[1] = 'y'
	again, _, _ := c.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value = %q, want abc", again)
	}
}

func TestInMemoryCache_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewInMemoryCache(nil)
	if err := c.Set(ctx, "k", []byte("v"), 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Set() error = %v, want context.Canceled", err)
	}
}

func TestNew(t *testing.T) {
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("New(default) error = %v", err)
	}
	if _, ok := c.(*InMemoryCache); !ok {
		t.Errorf("New(default) = %T, want *InMemoryCache", c)
	}

	c, err = New(Options{Backend: BackendSQLite, SQLitePath: ":memory:"})
	if err != nil {
		t.Fatalf("New(sqlite) error = %v", err)
	}
	defer c.Close()
	if _, ok := c.(*SQLiteCache); !ok {
		t.Errorf("New(sqlite) = %T, want *SQLiteCache", c)
	}
	if p, ok := c.(Pinger); !ok {
		t.Error("sqlite backend does not implement Pinger")
	} else if err := p.Ping(); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	if _, err := New(Options{Backend: "redis"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("New(redis) error = %v, want ErrUnknownBackend", err)
	}
}

func TestExpiration(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want int32
	}{
		{0, 0},
		{500 * time.Millisecond, 1},
		{time.Hour, 3600},
		{90 * 24 * time.Hour, maxRelativeExp},
	}
	for _, tt := range tests {
		if got := expiration(tt.ttl); got != tt.want {
			t.Errorf("expiration(%v) = %d, want %d", tt.ttl, got, tt.want)
		}
	}
}
