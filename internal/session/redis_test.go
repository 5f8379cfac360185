package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*redisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()})).(*redisStore)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_roundTrip(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	s := New("token-1", "Администратор", true, time.Now().Add(time.Hour))
	s.AddFlash(FlashSuccess, "Оплата 4200 ₽ сохранена")
	require.NoError(t, store.Save(ctx, s))
	assert.True(t, mr.Exists(keyPrefix+s.ID))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "token-1", got.Token)
	assert.Equal(t, "Администратор", got.UserName)
	assert.True(t, got.IsAdmin)
	assert.Equal(t, []Flash{{Kind: FlashSuccess, Message: "Оплата 4200 ₽ сохранена"}}, got.Flashes)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_ttlFollowsExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	s := New("token", "admin", false, now.Add(30*time.Minute))
	require.NoError(t, store.Save(ctx, s))
	assert.Equal(t, 30*time.Minute, mr.TTL(keyPrefix+s.ID))

	// ключ исчезает вместе с сессией
	mr.FastForward(31 * time.Minute)
	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_noExpiryMeansNoTTL(t *testing.T) {
	store, mr := newTestRedisStore(t)

	s := New("token", "admin", false, time.Time{})
	require.NoError(t, store.Save(context.Background(), s))
	assert.Zero(t, mr.TTL(keyPrefix+s.ID))
}

func TestRedisStore_savingExpiredSessionDeletesIt(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	s := New("token", "admin", false, now.Add(time.Minute))
	require.NoError(t, store.Save(ctx, s))
	require.True(t, mr.Exists(keyPrefix+s.ID))

	s.ExpiresAt = now
	require.NoError(t, store.Save(ctx, s))
	assert.False(t, mr.Exists(keyPrefix+s.ID))
}

func TestRedisStore_expiredValueIsNotReturned(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	s := New("token", "admin", false, now.Add(time.Minute))
	require.NoError(t, store.Save(ctx, s))

	now = now.Add(2 * time.Minute)
	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_corruptValue(t *testing.T) {
	store, mr := newTestRedisStore(t)
	require.NoError(t, mr.Set(keyPrefix+"broken", "not json"))

	_, err := store.Get(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
