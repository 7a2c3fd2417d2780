package repository

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/tickwatch/tickwatch/pkg/models"
)

const (
	keyPrefix     = "quote:"
	historyPrefix = "history:"
	channelPrefix = "quotes."
)

// Compile-time check to ensure RedisStore implements PriceStore
var _ PriceStore = (*RedisStore)(nil)

type RedisStore struct {
	client *redis.Client
	pubsub *redis.PubSub
	mu     sync.Mutex // Protects access to pubsub if needed
}

func NewRedisStore(client *redis.Client) *RedisStore {
	ps := client.Subscribe(context.Background())
	return &RedisStore{
		client: client,
		pubsub: ps,
	}
}

// GetSnapshots fetches the latest raw snapshot for a list of symbols (MGET)
func (r *RedisStore) GetSnapshots(ctx context.Context, symbols []string) ([]string, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	keys := make([]string, len(symbols))
	for i, sym := range symbols {
		keys[i] = keyPrefix + sym
	}

	results, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	var snapshots []string
	for _, val := range results {
		if payload, ok := val.(string); ok && payload != "" {
			snapshots = append(snapshots, payload)
		}
	}
	return snapshots, nil
}

// GetUniverse fetches and decodes snapshots for screener queries.
// Symbols without a stored snapshot (no tick seen yet) are skipped.
func (r *RedisStore) GetUniverse(ctx context.Context, symbols []string) ([]models.Snapshot, error) {
	raw, err := r.GetSnapshots(ctx, symbols)
	if err != nil {
		return nil, err
	}

	out := make([]models.Snapshot, 0, len(raw))
	for _, payload := range raw {
		var snap models.Snapshot
		if err := json.Unmarshal([]byte(payload), &snap); err != nil {
			continue
		}
		out = append(out, snap)
	}
	return out, nil
}

// GetHistory reads the bounded history list for one symbol. The
// processor LPUSHes newest first; we reverse so callers get samples
// oldest first, chart order.
func (r *RedisStore) GetHistory(ctx context.Context, symbol string, limit int) ([]models.Sample, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	raw, err := r.client.LRange(ctx, historyPrefix+symbol, 0, stop).Result()
	if err != nil {
		return nil, err
	}

	out := make([]models.Sample, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var s models.Sample
		if err := json.Unmarshal([]byte(raw[i]), &s); err != nil {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// SubscribeToFeed tells Redis we want to listen to this channel
func (r *RedisStore) SubscribeToFeed(ctx context.Context, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	channel := channelPrefix + symbol
	return r.pubsub.Subscribe(ctx, channel)
}

// UnsubscribeFromFeed tells Redis to stop sending messages for this channel
func (r *RedisStore) UnsubscribeFromFeed(ctx context.Context, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	channel := channelPrefix + symbol
	return r.pubsub.Unsubscribe(ctx, channel)
}

// RunPubSub is a blocking loop that reads messages from Redis and triggers the callback
func (r *RedisStore) RunPubSub(ctx context.Context, onMessage func(channel string, payload string)) {
	ch := r.pubsub.Channel()

	for msg := range ch {
		symbol := strings.TrimPrefix(msg.Channel, channelPrefix)
		if symbol == msg.Channel || symbol == "" {
			continue
		}

		onMessage(symbol, msg.Payload)
	}
}

func (r *RedisStore) Close() error {
	if err := r.pubsub.Close(); err != nil {
		return err
	}
	return r.client.Close()
}
