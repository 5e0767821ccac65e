package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/amatak/storefront-backend/pkg/config"
	"github.com/amatak/storefront-backend/pkg/logger"
)

const (
	redisKeyNamespace  = "storefront:kv:"
	redisEventsChannel = "storefront:events"
)

// RedisStore keeps records in Redis and relays change notifications through
// pub/sub, so separate processes sharing the store resynchronize the same
// way separate browser tabs did.
type RedisStore struct {
	raw    *redis.Client
	bus    *Bus
	logg   *logger.Logger
	cancel context.CancelFunc
}

// NewRedisStore connects, verifies the connection and starts the event relay.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*RedisStore, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	relayCtx, cancel := context.WithCancel(context.Background())
	store := &RedisStore{
		raw:    raw,
		bus:    NewBus(),
		logg:   logg,
		cancel: cancel,
	}
	go store.relay(relayCtx)
	return store, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// relay feeds remote change notifications into the local bus.
func (r *RedisStore) relay(ctx context.Context) {
	sub := r.raw.Subscribe(ctx, redisEventsChannel)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			_ = r.bus.Notify(ctx, msg.Payload)
		}
	}
}

// Get returns the value stored at key or ErrNotFound.
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.raw.Get(ctx, redisKeyNamespace+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

// Set stores value at key without expiry.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return r.raw.Set(ctx, redisKeyNamespace+key, value, 0).Err()
}

// Delete removes the record at key.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.raw.Del(ctx, redisKeyNamespace+key).Err()
}

// Notify publishes the change so every process on this store observes it.
// Local subscribers are served by the relay round-trip.
func (r *RedisStore) Notify(ctx context.Context, key string) error {
	return r.raw.Publish(ctx, redisEventsChannel, key).Err()
}

// Subscribe registers a local listener for changes to key.
func (r *RedisStore) Subscribe(key string) (<-chan Event, func()) {
	return r.bus.Subscribe(key)
}

// Ping verifies the connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.raw.Ping(ctx).Err()
}

// Close stops the relay and shuts down the client.
func (r *RedisStore) Close() error {
	r.cancel()
	return r.raw.Close()
}
