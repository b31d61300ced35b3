package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdentityCache 缓存 Telegram ID → 账号的解析结果，省掉每个请求一次 DB 查询。
// 管理员标志变化时必须 Invalidate（见 ToggleAdmin 的调用方）。
type IdentityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdentityCache(rdb *redis.Client, ttl time.Duration) *IdentityCache {
	return &IdentityCache{rdb: rdb, ttl: ttl}
}

type CachedIdentity struct {
	AccountID  string `json:"aid"`
	TelegramID int64  `json:"tgId"`
	Username   string `json:"username,omitempty"`
	IsAdmin    bool   `json:"isAdmin"`
}

func key(tgID int64) string { return fmt.Sprintf("custody:ident:%d", tgID) }

func (s *IdentityCache) Put(ctx context.Context, ident CachedIdentity) error {
	b, _ := json.Marshal(ident)
	return s.rdb.Set(ctx, key(ident.TelegramID), b, s.ttl).Err()
}

// Get 未命中时返回 (nil, nil)
func (s *IdentityCache) Get(ctx context.Context, tgID int64) (*CachedIdentity, error) {
	b, err := s.rdb.Get(ctx, key(tgID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ident CachedIdentity
	if err := json.Unmarshal(b, &ident); err != nil {
		return nil, err
	}
	return &ident, nil
}

func (s *IdentityCache) Invalidate(ctx context.Context, tgID int64) error {
	return s.rdb.Del(ctx, key(tgID)).Err()
}
