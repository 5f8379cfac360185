package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_roundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := New("token-1", "admin", true, time.Now().Add(time.Hour))
	s.AddFlash(FlashSuccess, "Группа создана")
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "token-1", got.Token)
	assert.True(t, got.IsAdmin)
	assert.Equal(t, []Flash{{Kind: FlashSuccess, Message: "Группа создана"}}, got.PopFlashes())

	// изменения без Save не видны другим запросам
	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, again.Flashes, 1)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_expired(t *testing.T) {
	store := NewMemoryStore().(*memoryStore)
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	s := New("token", "admin", false, now.Add(time.Minute))
	require.NoError(t, store.Save(context.Background(), s))

	_, err := store.Get(context.Background(), s.ID)
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = store.Get(context.Background(), s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.sessions)
}

func TestMemoryStore_concurrent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	s := New("token", "admin", true, time.Now().Add(time.Hour))
	require.NoError(t, store.Save(ctx, s))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := store.Get(ctx, s.ID)
			if err != nil {
				return
			}
			got.AddFlash(FlashError, "ошибка")
			_ = store.Save(ctx, got)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, got.Flashes)
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	assert.False(t, (&Session{}).Expired(now))
	assert.False(t, (&Session{ExpiresAt: now.Add(time.Second)}).Expired(now))
	assert.True(t, (&Session{ExpiresAt: now}).Expired(now))
}
