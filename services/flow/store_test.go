package flow

import (
	"context"
	"testing"
	"time"

	"detailbook/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, expiry time.Duration) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionStore(client, expiry), mr
}

func TestRedisSessionStore_SaveLoadDelete(t *testing.T) {
	store, mr := newRedisStore(t, 30*time.Minute)
	ctx := context.Background()

	snap := models.SessionSnapshot{
		CurrentStep:      4,
		FormData:         completeForm(),
		CalculatedPrice:  &models.PriceBreakdown{FinalPrice: 52, Currency: "GBP"},
		IsRebooking:      true,
		RebookedFrom:     "bk-1",
		SessionTimestamp: fixedNow,
		SessionExpiry:    30 * time.Minute,
	}
	require.NoError(t, store.Save(ctx, "sess-1", snap))

	assert.True(t, mr.Exists("bookingFlow:sess-1"))
	assert.Equal(t, time.Hour, mr.TTL("bookingFlow:sess-1"))

	got, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.CurrentStep)
	assert.Equal(t, snap.FormData, got.FormData)
	require.NotNil(t, got.CalculatedPrice)
	assert.Equal(t, 52.0, got.CalculatedPrice.FinalPrice)
	assert.True(t, got.IsRebooking)
	assert.Equal(t, "bk-1", got.RebookedFrom)
	assert.True(t, fixedNow.Equal(got.SessionTimestamp))
	assert.Equal(t, 30*time.Minute, got.SessionExpiry)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	assert.False(t, mr.Exists("bookingFlow:sess-1"))
	got, err = store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisSessionStore_SaveRefreshesTTL(t *testing.T) {
	store, mr := newRedisStore(t, 10*time.Minute)
	ctx := context.Background()
	snap := NewState(fixedNow, 10*time.Minute).Snapshot()

	require.NoError(t, store.Save(ctx, "sess-1", snap))
	mr.FastForward(15 * time.Minute)
	assert.Equal(t, 5*time.Minute, mr.TTL("bookingFlow:sess-1"))

	require.NoError(t, store.Save(ctx, "sess-1", snap))
	assert.Equal(t, 20*time.Minute, mr.TTL("bookingFlow:sess-1"))

	mr.FastForward(21 * time.Minute)
	got, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisSessionStore_DefaultExpiry(t *testing.T) {
	store, mr := newRedisStore(t, 0)
	require.NoError(t, store.Save(context.Background(), "sess-1", NewState(fixedNow, 0).Snapshot()))
	assert.Equal(t, 2*DefaultSessionExpiry, mr.TTL("bookingFlow:sess-1"))
}

func TestRedisSessionStore_MissingSession(t *testing.T) {
	store, _ := newRedisStore(t, 30*time.Minute)

	got, err := store.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisSessionStore_CorruptSnapshot(t *testing.T) {
	store, mr := newRedisStore(t, 30*time.Minute)
	require.NoError(t, mr.Set("bookingFlow:bad", "{not json"))

	got, err := store.Load(context.Background(), "bad")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode session bad")
}

func TestRedisSessionStore_RedisUnavailable(t *testing.T) {
	store, mr := newRedisStore(t, 30*time.Minute)
	mr.Close()

	got, err := store.Load(context.Background(), "sess-1")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load session sess-1")
	assert.Error(t, store.Save(context.Background(), "sess-1", NewState(fixedNow, 0).Snapshot()))
}
