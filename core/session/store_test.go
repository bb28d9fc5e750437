package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarpras/alatclient/core/kvs"
	"github.com/sarpras/alatclient/core/session"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// failingBackend simulates unavailable storage.
type failingBackend struct{}

func (failingBackend) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (failingBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("disk on fire")
}

func (failingBackend) Delete(ctx context.Context, key string) error {
	return errors.New("disk on fire")
}

func (failingBackend) Close() error { return nil }

func testUser() session.User {
	return session.User{ID: 1, Nama: "Budi", Username: "budi", Email: "budi@example.id", Role: "admin"}
}

func newTestStore(t *testing.T, clk *fakeClock) (*session.Store, *kvs.Memory) {
	t.Helper()
	backend := kvs.NewMemory()
	t.Cleanup(func() { _ = backend.Close() })
	return session.New(backend, session.WithClock(clk.Now)), backend
}

func TestStore_SaveLoad(t *testing.T) {
	t.Parallel()

	t.Run("round trip preserves token, user, and expiry window", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		store, _ := newTestStore(t, clk)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "abc123", testUser(), time.Hour))

		sess, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "abc123", sess.Token)
		assert.Equal(t, testUser(), sess.User)
		assert.Equal(t, clk.Now().UnixMilli(), sess.IssuedAt.UnixMilli())
		assert.Equal(t, clk.Now().Add(time.Hour).UnixMilli(), sess.ExpiresAt.UnixMilli())
	})

	t.Run("rejects empty token", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestStore(t, newFakeClock())

		err := store.Save(context.Background(), "", testUser(), time.Hour)
		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrInvalidArgument)
		assert.ErrorIs(t, err, session.ErrEmptyToken)
	})

	t.Run("rejects non-positive ttl", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestStore(t, newFakeClock())

		err := store.Save(context.Background(), "abc123", testUser(), 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrInvalidArgument)
		assert.ErrorIs(t, err, session.ErrInvalidTTL)

		err = store.Save(context.Background(), "abc123", testUser(), -time.Hour)
		assert.ErrorIs(t, err, session.ErrInvalidTTL)
	})

	t.Run("rejects incomplete user profile", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestStore(t, newFakeClock())

		err := store.Save(context.Background(), "abc123", session.User{ID: 1}, time.Hour)
		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrInvalidArgument)
		assert.ErrorIs(t, err, session.ErrIncompleteUser)
	})

	t.Run("last writer wins, never a merge", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestStore(t, newFakeClock())
		ctx := context.Background()

		userA := session.User{ID: 1, Nama: "Budi", Role: "admin"}
		userB := session.User{ID: 2, Nama: "Siti", Role: "teknisi"}
		require.NoError(t, store.Save(ctx, "token-a", userA, time.Hour))
		require.NoError(t, store.Save(ctx, "token-b", userB, 2*time.Hour))

		sess, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "token-b", sess.Token)
		assert.Equal(t, userB, sess.User)
	})

	t.Run("load with no session returns ErrNoSession", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestStore(t, newFakeClock())

		_, err := store.Load(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrNoSession)
	})
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()

	t.Run("expired session reads as absent and self-deletes", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		store, backend := newTestStore(t, clk)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "abc123", testUser(), time.Second))

		clk.Advance(1100 * time.Millisecond)

		_, err := store.Load(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrNoSession)
		assert.ErrorIs(t, err, session.ErrExpired)

		// The persisted record is gone, not merely filtered.
		_, err = backend.Get(ctx, "session")
		assert.ErrorIs(t, err, kvs.ErrNotFound)

		_, err = store.Load(ctx)
		assert.ErrorIs(t, err, session.ErrNoSession)
		assert.NotErrorIs(t, err, session.ErrExpired)
	})

	t.Run("hour-long session survives 59 minutes and dies at 3601 seconds", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		store, _ := newTestStore(t, clk)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "abc123", session.User{ID: 1, Nama: "Budi", Role: "admin"}, 3600*time.Second))

		clk.Advance(59 * time.Minute)
		assert.True(t, store.IsValid(ctx))

		clk.Advance(61*time.Second + time.Second)
		assert.False(t, store.IsValid(ctx))
	})

	t.Run("load refreshes last activity", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		backend := kvs.NewMemory()
		t.Cleanup(func() { _ = backend.Close() })
		store := session.New(backend,
			session.WithClock(clk.Now),
			session.WithTouchInterval(0), // record every read
		)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "abc123", testUser(), time.Hour))
		issued := clk.Now()

		clk.Advance(10 * time.Minute)
		sess, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, clk.Now().UnixMilli(), sess.LastActivity.UnixMilli())
		// Activity tracking never extends the expiry.
		assert.Equal(t, issued.Add(time.Hour).UnixMilli(), sess.ExpiresAt.UnixMilli())
	})

	t.Run("touch interval throttles activity writes", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		backend := kvs.NewMemory()
		t.Cleanup(func() { _ = backend.Close() })
		store := session.New(backend,
			session.WithClock(clk.Now),
			session.WithTouchInterval(5*time.Minute),
		)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "abc123", testUser(), time.Hour))
		saved := clk.Now()

		clk.Advance(time.Minute)
		sess, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, saved.UnixMilli(), sess.LastActivity.UnixMilli())

		clk.Advance(5 * time.Minute)
		sess, err = store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, clk.Now().UnixMilli(), sess.LastActivity.UnixMilli())
	})
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	t.Run("save then clear then load is absent", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestStore(t, newFakeClock())
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "abc123", testUser(), time.Hour))
		require.NoError(t, store.Clear(ctx))

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("idempotent on absent session", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestStore(t, newFakeClock())
		ctx := context.Background()

		require.NoError(t, store.Clear(ctx))
		require.NoError(t, store.Clear(ctx))
		assert.False(t, store.IsValid(ctx))
	})

	t.Run("removes legacy state keys", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		store, backend := newTestStore(t, clk)
		ctx := context.Background()

		// Leftovers from older client builds that stored fields separately.
		require.NoError(t, backend.Set(ctx, "auth_token", []byte("old-token"), 0))
		require.NoError(t, backend.Set(ctx, "auth_user", []byte(`{"id":9}`), 0))

		require.NoError(t, store.Clear(ctx))

		_, err := backend.Get(ctx, "auth_token")
		assert.ErrorIs(t, err, kvs.ErrNotFound)
		_, err = backend.Get(ctx, "auth_user")
		assert.ErrorIs(t, err, kvs.ErrNotFound)
	})
}

func TestStore_CorruptState(t *testing.T) {
	t.Parallel()

	t.Run("malformed json reads as absent and is removed", func(t *testing.T) {
		t.Parallel()

		store, backend := newTestStore(t, newFakeClock())
		ctx := context.Background()

		require.NoError(t, backend.Set(ctx, "session", []byte("{definitely not json"), 0))

		_, err := store.Load(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrNoSession)
		assert.ErrorIs(t, err, session.ErrCorruptState)

		_, err = backend.Get(ctx, "session")
		assert.ErrorIs(t, err, kvs.ErrNotFound)
	})

	t.Run("record missing required fields is corrupt", func(t *testing.T) {
		t.Parallel()

		store, backend := newTestStore(t, newFakeClock())
		ctx := context.Background()

		// Valid JSON, but no token: absent-or-complete means this must
		// not surface as half a session.
		require.NoError(t, backend.Set(ctx, "session",
			[]byte(`{"v":1,"user":{"id":1,"nama":"Budi","role":"admin"},"issued_at":1,"expires_at":99999999999999}`), 0))

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, session.ErrCorruptState)

		_, err = backend.Get(ctx, "session")
		assert.ErrorIs(t, err, kvs.ErrNotFound)
	})

	t.Run("unknown schema version is corrupt", func(t *testing.T) {
		t.Parallel()

		store, backend := newTestStore(t, newFakeClock())
		ctx := context.Background()

		require.NoError(t, backend.Set(ctx, "session",
			[]byte(`{"v":99,"token":"abc","user":{"id":1,"nama":"Budi","role":"admin"},"issued_at":1,"expires_at":99999999999999}`), 0))

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, session.ErrCorruptState)
	})
}

func TestStore_StorageUnavailable(t *testing.T) {
	t.Parallel()

	t.Run("load degrades to absent", func(t *testing.T) {
		t.Parallel()

		store := session.New(failingBackend{})

		_, err := store.Load(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrNoSession)
		assert.ErrorIs(t, err, session.ErrStorageUnavailable)
		assert.False(t, store.IsValid(context.Background()))
	})

	t.Run("save reports storage failure", func(t *testing.T) {
		t.Parallel()

		store := session.New(failingBackend{})

		err := store.Save(context.Background(), "abc123", testUser(), time.Hour)
		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrStorageUnavailable)
	})

	t.Run("clear reports storage failure without panicking", func(t *testing.T) {
		t.Parallel()

		store := session.New(failingBackend{})

		err := store.Clear(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrStorageUnavailable)
	})
}

func TestStore_RefreshProtection(t *testing.T) {
	t.Parallel()

	t.Run("suppresses auth rejection inside the window", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		store, _ := newTestStore(t, clk)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "abc123", testUser(), time.Hour))
		require.NoError(t, store.SetRefreshProtection(ctx, 5*time.Second))

		clk.Advance(3 * time.Second)
		cleared := store.HandleAuthRejected(ctx)
		assert.False(t, cleared)
		assert.True(t, store.IsValid(ctx))
	})

	t.Run("clears the session once the window has elapsed", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		store, _ := newTestStore(t, clk)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "abc123", testUser(), time.Hour))
		require.NoError(t, store.SetRefreshProtection(ctx, 10*time.Second))

		clk.Advance(3 * time.Second)
		assert.False(t, store.HandleAuthRejected(ctx))
		assert.True(t, store.IsValid(ctx))

		clk.Advance(8 * time.Second) // t+11s, past the deadline
		assert.True(t, store.HandleAuthRejected(ctx))
		assert.False(t, store.IsValid(ctx))
	})

	t.Run("protection self-expires on observation", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		store, backend := newTestStore(t, clk)
		ctx := context.Background()

		require.NoError(t, store.SetRefreshProtection(ctx, 5*time.Second))
		assert.True(t, store.IsRefreshProtected(ctx))

		clk.Advance(6 * time.Second)
		assert.False(t, store.IsRefreshProtected(ctx))

		// Observing the elapsed deadline removed the flag entirely.
		_, err := backend.Get(ctx, "refresh_protection")
		assert.ErrorIs(t, err, kvs.ErrNotFound)
	})

	t.Run("clear protection disarms immediately", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestStore(t, newFakeClock())
		ctx := context.Background()

		require.NoError(t, store.SetRefreshProtection(ctx, time.Minute))
		require.True(t, store.IsRefreshProtected(ctx))
		require.NoError(t, store.ClearRefreshProtection(ctx))
		assert.False(t, store.IsRefreshProtected(ctx))
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestStore(t, newFakeClock())

		err := store.SetRefreshProtection(context.Background(), 0)
		assert.ErrorIs(t, err, session.ErrInvalidArgument)
	})

	t.Run("without a session the rejection still reports cleared", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestStore(t, newFakeClock())

		assert.True(t, store.HandleAuthRejected(context.Background()))
	})
}

func TestStore_ApplyRevalidation(t *testing.T) {
	t.Parallel()

	t.Run("refreshes the cached user", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestStore(t, newFakeClock())
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "abc123", testUser(), time.Hour))

		gen := store.Generation()
		updated := session.User{ID: 1, Nama: "Budi Santoso", Role: "admin"}
		require.NoError(t, store.ApplyRevalidation(ctx, gen, updated, 0))

		sess, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, updated, sess.User)
		assert.Equal(t, "abc123", sess.Token)
	})

	t.Run("renewal moves issuedAt and expiresAt together", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		store, _ := newTestStore(t, clk)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "abc123", testUser(), time.Hour))

		clk.Advance(30 * time.Minute)
		require.NoError(t, store.ApplyRevalidation(ctx, store.Generation(), testUser(), 2*time.Hour))

		sess, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, clk.Now().UnixMilli(), sess.IssuedAt.UnixMilli())
		assert.Equal(t, clk.Now().Add(2*time.Hour).UnixMilli(), sess.ExpiresAt.UnixMilli())
	})

	t.Run("discards result after the session was replaced", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestStore(t, newFakeClock())
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "token-old", testUser(), time.Hour))
		gen := store.Generation()

		// A second login lands while the revalidation is in flight.
		userB := session.User{ID: 2, Nama: "Siti", Role: "teknisi"}
		require.NoError(t, store.Save(ctx, "token-new", userB, time.Hour))

		err := store.ApplyRevalidation(ctx, gen, testUser(), 0)
		assert.ErrorIs(t, err, session.ErrStaleRevalidation)

		sess, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "token-new", sess.Token)
		assert.Equal(t, userB, sess.User)
	})

	t.Run("cannot resurrect a cleared session", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestStore(t, newFakeClock())
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "abc123", testUser(), time.Hour))
		gen := store.Generation()
		require.NoError(t, store.Clear(ctx))

		err := store.ApplyRevalidation(ctx, gen, testUser(), time.Hour)
		assert.ErrorIs(t, err, session.ErrStaleRevalidation)
		assert.False(t, store.IsValid(ctx))
	})
}

func TestStore_ResolveTTL(t *testing.T) {
	t.Parallel()

	t.Run("server-provided ttl wins", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestStore(t, newFakeClock())

		assert.Equal(t, time.Hour, store.ResolveTTL("opaque-token", 3600))
	})

	t.Run("falls back to the configured default for opaque tokens", func(t *testing.T) {
		t.Parallel()

		backend := kvs.NewMemory()
		t.Cleanup(func() { _ = backend.Close() })
		store := session.New(backend, session.WithDefaultTTL(6*time.Hour))

		assert.Equal(t, 6*time.Hour, store.ResolveTTL("opaque-token", 0))
	})
}

func TestStore_Scenario(t *testing.T) {
	t.Parallel()

	t.Run("login, use, expire", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		store, _ := newTestStore(t, clk)
		ctx := context.Background()

		user := session.User{ID: 1, Nama: "Budi", Role: "admin"}
		require.NoError(t, store.Save(ctx, "abc123", user, 3600*time.Second))

		sess, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "abc123", sess.Token)
		assert.Equal(t, user, sess.User)

		clk.Advance(3601 * time.Second)
		_, err = store.Load(ctx)
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("protected then unprotected auth failures", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		store, _ := newTestStore(t, clk)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "abc123", testUser(), time.Hour))
		require.NoError(t, store.SetRefreshProtection(ctx, 10*time.Second))

		clk.Advance(3 * time.Second)
		store.HandleAuthRejected(ctx)
		assert.True(t, store.IsValid(ctx), "session retained inside the window")

		clk.Advance(8 * time.Second)
		store.HandleAuthRejected(ctx)
		assert.False(t, store.IsValid(ctx), "session cleared after the window")
	})
}
