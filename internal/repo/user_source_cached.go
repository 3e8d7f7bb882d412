package repo

import (
	"context"
	"time"

	"go-user-table/internal/core/cache"
	"go-user-table/internal/domain"
)

const usersCacheKey = "user-table:users"

// CachedSource 用 redis 缓存上游的初始用户列表
type CachedSource struct {
	Source domain.UserSource
	Cache  *cache.Cache
	TTL    time.Duration
}

func (s *CachedSource) LoadUsers(ctx context.Context) ([]domain.User, error) {
	return cache.GetOrLoadJSON(ctx, s.Cache, usersCacheKey, s.TTL, s.Source.LoadUsers)
}
