package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	commonredis "silvercare/common/redis"
	"silvercare/internal/domain"
	"silvercare/internal/store"

	"github.com/go-redis/redis/v8"
)

const (
	SosEventStream   = "silvercare:sos:events"
	sosLastKeyPrefix = "silvercare:sos:last:"
)

func sosLastKey(userID int64) string {
	return fmt.Sprintf("%s%d", sosLastKeyPrefix, userID)
}

// SosEventRecorder keeps the dispatch history.
type SosEventRecorder interface {
	Record(ctx context.Context, ev domain.SosEvent) error
	Last(ctx context.Context, userID int64) (*domain.SosEvent, error)
	Recent(ctx context.Context, limit int) ([]domain.SosEvent, error)
}

// RedisSosEventRecorder appends events to a stream and keeps the latest per user in a KV.
type RedisSosEventRecorder struct {
	client *redis.Client
	kv     store.KV
	ttl    time.Duration
	maxLen int64
}

func NewRedisSosEventRecorder(client *redis.Client, ttl time.Duration, maxLen int64) *RedisSosEventRecorder {
	return &RedisSosEventRecorder{client: client, kv: store.NewRedisKV(client), ttl: ttl, maxLen: maxLen}
}

var _ SosEventRecorder = (*RedisSosEventRecorder)(nil)

func (r *RedisSosEventRecorder) Record(ctx context.Context, ev domain.SosEvent) error {
	if _, err := commonredis.PublishJSONToStream(ctx, r.client, SosEventStream, ev, r.maxLen); err != nil {
		return fmt.Errorf("failed to publish sos event: %w", err)
	}
	return storeLast(ctx, r.kv, ev, r.ttl)
}

func (r *RedisSosEventRecorder) Last(ctx context.Context, userID int64) (*domain.SosEvent, error) {
	return loadLast(ctx, r.kv, userID)
}

func (r *RedisSosEventRecorder) Recent(ctx context.Context, limit int) ([]domain.SosEvent, error) {
	msgs, err := commonredis.ReadLatest(ctx, r.client, SosEventStream, int64(limit))
	if err != nil {
		return nil, domain.StoreUnavailable("failed to read sos events", err)
	}
	out := make([]domain.SosEvent, 0, len(msgs))
	for _, m := range msgs {
		raw, _ := m.Values["data"].(string)
		var ev domain.SosEvent
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

// MemorySosEventRecorder is used when Redis is disabled.
type MemorySosEventRecorder struct {
	mu     sync.Mutex
	kv     store.KV
	ttl    time.Duration
	events []domain.SosEvent
	max    int
}

func NewMemorySosEventRecorder(ttl time.Duration, max int) *MemorySosEventRecorder {
	if max <= 0 {
		max = 1000
	}
	return &MemorySosEventRecorder{kv: store.NewMemoryKV(), ttl: ttl, max: max}
}

var _ SosEventRecorder = (*MemorySosEventRecorder)(nil)

func (r *MemorySosEventRecorder) Record(ctx context.Context, ev domain.SosEvent) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	if len(r.events) > r.max {
		r.events = r.events[len(r.events)-r.max:]
	}
	r.mu.Unlock()
	return storeLast(ctx, r.kv, ev, r.ttl)
}

func (r *MemorySosEventRecorder) Last(ctx context.Context, userID int64) (*domain.SosEvent, error) {
	return loadLast(ctx, r.kv, userID)
}

func (r *MemorySosEventRecorder) Recent(_ context.Context, limit int) ([]domain.SosEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []domain.SosEvent{}
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.events[i])
	}
	return out, nil
}

func storeLast(ctx context.Context, kv store.KV, ev domain.SosEvent, ttl time.Duration) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := kv.Set(ctx, sosLastKey(ev.UserID), string(b), ttl); err != nil {
		return fmt.Errorf("failed to store last sos event: %w", err)
	}
	return nil
}

func loadLast(ctx context.Context, kv store.KV, userID int64) (*domain.SosEvent, error) {
	raw, err := kv.Get(ctx, sosLastKey(userID))
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return nil, domain.NotFound("no recent sos event", err)
		}
		return nil, domain.StoreUnavailable("failed to load last sos event", err)
	}
	var ev domain.SosEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return nil, domain.StoreUnavailable("failed to decode last sos event", err)
	}
	return &ev, nil
}
