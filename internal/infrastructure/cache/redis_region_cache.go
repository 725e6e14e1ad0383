package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
)

// RedisClient キャッシュが使う*redis.Clientのサブセット
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RegionSource キャッシュなしのUF・都市検索
type RegionSource interface {
	GetUFs(ctx context.Context) ([]model.UF, error)
	GetCities(ctx context.Context, uf string) ([]model.City, error)
}

// RedisRegionCache IBGE検索の前段に置くリードスルーキャッシュ
// キャッシュの失敗で検索は失敗させず、取得元にフォールスルーする
type RedisRegionCache struct {
	client RedisClient
	source RegionSource
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisClient Redisクライアントを作成
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisRegionCache ttlで期限切れになるキャッシュでsourceをラップ
func NewRedisRegionCache(client RedisClient, source RegionSource, ttl time.Duration, logger zerolog.Logger) *RedisRegionCache {
	return &RedisRegionCache{
		client: client,
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

// GetUFs キャッシュ付きのUF一覧
func (c *RedisRegionCache) GetUFs(ctx context.Context) ([]model.UF, error) {
	return readThrough(ctx, c, "ibge:ufs", func() ([]model.UF, error) {
		return c.source.GetUFs(ctx)
	})
}

// GetCities キャッシュ付きのUFの都市一覧
func (c *RedisRegionCache) GetCities(ctx context.Context, uf string) ([]model.City, error) {
	return readThrough(ctx, c, fmt.Sprintf("ibge:ufs:%s:cities", uf), func() ([]model.City, error) {
		return c.source.GetCities(ctx, uf)
	})
}

func readThrough[T any](ctx context.Context, c *RedisRegionCache, key string, load func() ([]T, error)) ([]T, error) {
	raw, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var cached []T
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
		c.logger.Warn().Str("key", key).Msg("⚠️ corrupt cache entry ignored")
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn().Err(err).Str("key", key).Msg("⚠️ region cache read failed")
	}

	values, err := load()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(values)
	if err != nil {
		return values, nil
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("⚠️ region cache write failed")
	}
	return values, nil
}
