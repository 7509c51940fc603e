package service

import (
	"context"
	"testing"
	"time"

	"silvercare/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSosEventRecorder(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	rec := NewRedisSosEventRecorder(client, 24*time.Hour, 100)
	ctx := context.Background()

	first := domain.SosEvent{EventID: "e1", UserID: 1, ContactsAlerted: 1, TriggeredAt: time.Unix(100, 0).UTC()}
	second := domain.SosEvent{EventID: "e2", UserID: 1, ContactsAlerted: 2, TriggeredAt: time.Unix(200, 0).UTC()}
	require.NoError(t, rec.Record(ctx, first))
	require.NoError(t, rec.Record(ctx, second))

	last, err := rec.Last(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "e2", last.EventID)
	assert.Equal(t, 24*time.Hour, mr.TTL(sosLastKey(1)))

	recent, err := rec.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "e2", recent[0].EventID, "newest first")
	assert.Equal(t, "e1", recent[1].EventID)

	_, err = rec.Last(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisSosEventRecorder_LastExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	rec := NewRedisSosEventRecorder(client, time.Minute, 100)
	require.NoError(t, rec.Record(context.Background(), domain.SosEvent{EventID: "e1", UserID: 3}))

	mr.FastForward(2 * time.Minute)
	_, err := rec.Last(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisSosEventRecorder_StoreDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	rec := NewRedisSosEventRecorder(client, time.Minute, 100)

	mr.Close()
	_, err := rec.Last(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestMemorySosEventRecorder_Bounded(t *testing.T) {
	rec := NewMemorySosEventRecorder(time.Hour, 2)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, rec.Record(ctx, domain.SosEvent{EventID: id, UserID: 1}))
	}

	recent, err := rec.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].EventID)
	assert.Equal(t, "b", recent[1].EventID)
}
