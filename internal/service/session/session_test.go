package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/kapu/youtube-analyzer-go/internal/domain"
	"github.com/kapu/youtube-analyzer-go/internal/service/cache"
	"github.com/kapu/youtube-analyzer-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := cache.NewCacheServiceWithClient(client, zap.NewNop())
	t.Cleanup(func() { _ = svc.Close() })
	return NewRedisStore(svc), mr
}

func TestStartCreatesAuthenticatedSession(t *testing.T) {
	m := NewManager(NewMemoryStore(), "", time.Hour, zap.NewNop())

	s, err := m.Start(context.Background(), "", "  my-key ", testURL)
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "my-key", s.Credential)
	assert.Equal(t, testURL, s.TargetURL)
	assert.True(t, s.IsActive())

	loaded, err := m.Load(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Credential, loaded.Credential)
	assert.True(t, loaded.IsActive())
}

func TestStartFallsBackToConfiguredKey(t *testing.T) {
	m := NewManager(NewMemoryStore(), "server-key", time.Hour, zap.NewNop())

	s, err := m.Start(context.Background(), "sid", "", testURL)
	require.NoError(t, err)
	assert.Equal(t, "server-key", s.Credential)
	assert.Equal(t, "sid", s.ID)
}

func TestStartWithoutCredential(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, "", time.Hour, zap.NewNop())

	_, err := m.Start(context.Background(), "sid", "", testURL)
	var credErr *errors.CredentialError
	require.ErrorAs(t, err, &credErr)

	s, _ := store.Get(context.Background(), "sid")
	assert.Nil(t, s)
}

func TestStartRejectsURLWithoutVideoID(t *testing.T) {
	m := NewManager(NewMemoryStore(), "k", time.Hour, zap.NewNop())

	_, err := m.Start(context.Background(), "sid", "k", "https://vimeo.com/12345")
	var inputErr *errors.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, 400, errors.StatusCode(err))
}

func TestStartReplacesWholeRecord(t *testing.T) {
	m := NewManager(NewMemoryStore(), "", time.Hour, zap.NewNop())
	ctx := context.Background()

	_, err := m.Start(ctx, "sid", "first", testURL)
	require.NoError(t, err)
	_, err = m.Start(ctx, "sid", "second", "https://youtu.be/aaaaaaaaaaa")
	require.NoError(t, err)

	s, err := m.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "second", s.Credential)
	assert.Equal(t, "https://youtu.be/aaaaaaaaaaa", s.TargetURL)
}

func TestTerminateClearsSession(t *testing.T) {
	m := NewManager(NewMemoryStore(), "", time.Hour, zap.NewNop())
	ctx := context.Background()

	started, err := m.Start(ctx, "sid", "k", testURL)
	require.NoError(t, err)

	terminated, err := m.Terminate(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, terminated.IsActive())
	assert.Empty(t, terminated.Credential)
	assert.Equal(t, started.CreatedAt, terminated.CreatedAt)

	s, err := m.Load(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, s.IsActive())
}

func TestTerminateUnknownSession(t *testing.T) {
	m := NewManager(NewMemoryStore(), "", time.Hour, zap.NewNop())

	s, err := m.Terminate(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, s.IsActive())

	s, err = m.Terminate(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, s.IsActive())
}

func TestMemoryStoreExpires(t *testing.T) {
	store := NewMemoryStore()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	require.NoError(t, store.Save(context.Background(), &domain.Session{ID: "sid", Authenticated: true}, time.Minute))

	s, err := store.Get(context.Background(), "sid")
	require.NoError(t, err)
	require.NotNil(t, s)

	clock = clock.Add(2 * time.Minute)
	s, err = store.Get(context.Background(), "sid")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestMemoryStoreExpiryKeepsConcurrentSave(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	require.NoError(t, store.Save(ctx, &domain.Session{ID: "sid", Credential: "old"}, time.Minute))
	clock = clock.Add(2 * time.Minute)

	// the first clock read inside Get happens after the read lock is released;
	// a Save landing there must survive the expiry cleanup
	saved := false
	store.now = func() time.Time {
		if !saved {
			saved = true
			require.NoError(t, store.Save(ctx, &domain.Session{ID: "sid", Credential: "new"}, time.Hour))
		}
		return clock
	}

	s, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = store.Get(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "new", s.Credential)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), &domain.Session{ID: "sid", Credential: "k"}, 0))

	s, _ := store.Get(context.Background(), "sid")
	s.Credential = "mutated"

	again, _ := store.Get(context.Background(), "sid")
	assert.Equal(t, "k", again.Credential)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newRedisStore(t)
	m := NewManager(store, "", 30*time.Minute, zap.NewNop())
	ctx := context.Background()

	started, err := m.Start(ctx, "sid", "k", testURL)
	require.NoError(t, err)
	assert.True(t, mr.Exists("session:sid"))
	assert.Equal(t, 30*time.Minute, mr.TTL("session:sid"))

	loaded, err := m.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, started.TargetURL, loaded.TargetURL)
	assert.True(t, loaded.IsActive())

	_, err = m.Terminate(ctx, "sid")
	require.NoError(t, err)
	loaded, err = m.Load(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, loaded.IsActive())

	require.NoError(t, store.Delete(ctx, "sid"))
	loaded, err = store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStoreUnavailable(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()

	_, err := store.Get(context.Background(), "sid")
	var cacheErr *errors.CacheError
	assert.ErrorAs(t, err, &cacheErr)
}
