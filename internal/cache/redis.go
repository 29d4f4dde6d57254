package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nurpe/contracts-panel/internal/config"
	"github.com/nurpe/contracts-panel/internal/model"
)

const keyPrefix = "contracts:"

// Redis shares the cache between service replicas. Values are JSON.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, log zerolog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, log: log}
}

// Connect opens a client for cfg and pings it.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (r *Redis) GetPage(ctx context.Context, page, size int) ([]model.Contract, bool) {
	raw, ok := r.get(ctx, keyPrefix+pageKey(page, size))
	if !ok {
		return nil, false
	}
	var contracts []model.Contract
	if err := json.Unmarshal(raw, &contracts); err != nil {
		r.log.Warn().Err(err).Int("page", page).Msg("cached page unreadable")
		return nil, false
	}
	return contracts, true
}

func (r *Redis) SetPage(ctx context.Context, page, size int, contracts []model.Contract) {
	raw, err := json.Marshal(contracts)
	if err != nil {
		r.log.Warn().Err(err).Int("page", page).Msg("page not cached")
		return
	}
	r.set(ctx, keyPrefix+pageKey(page, size), raw)
}

func (r *Redis) GetCount(ctx context.Context) (int64, bool) {
	raw, ok := r.get(ctx, keyPrefix+ckCount)
	if !ok {
		return 0, false
	}
	total, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return total, true
}

func (r *Redis) SetCount(ctx context.Context, total int64) {
	r.set(ctx, keyPrefix+ckCount, []byte(strconv.FormatInt(total, 10)))
}

func (r *Redis) get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn().Err(err).Str("key", key).Msg("redis get failed")
		}
		return nil, false
	}
	return raw, true
}

func (r *Redis) set(ctx context.Context, key string, value []byte) {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}
