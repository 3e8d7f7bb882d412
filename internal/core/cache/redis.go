package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"go-user-table/internal/core/config"
)

type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group
}

func New(c config.Redis) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB}),
	}
}

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

// GetOrLoad 先读缓存，未命中时用 singleflight 合并回源并回写
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	b, err := c.RDB.Get(ctx, key).Bytes()
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, redis.Nil) {
		// redis 不可用时直接回源，不影响主流程
		return load(ctx)
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, key, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate 删除后需要让下次加载回源
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.RDB.Del(ctx, key).Err()
}
