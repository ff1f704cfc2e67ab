package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// IndexCacheTTL 首页列表的缓存时间。到期前读到的是旧数据，
	// 这是刻意接受的窗口，写路径不做失效
	IndexCacheTTL       = 20 * time.Second
	IndexCacheKeyPrefix = "cache:index:page"
)

// FeedCacheRepository 首页（全站帖子列表）按页号缓存
type FeedCacheRepository struct {
	ttl time.Duration
}

func NewFeedCacheRepository() *FeedCacheRepository {
	return &FeedCacheRepository{ttl: IndexCacheTTL}
}

func (r *FeedCacheRepository) indexKey(page int) string {
	return fmt.Sprintf("%s:%d", IndexCacheKeyPrefix, page)
}

// GetIndexPage 命中时把缓存的 JSON 解到 dst。redis 未配置或出错一律当未命中
func (r *FeedCacheRepository) GetIndexPage(ctx context.Context, page int, dst any) (bool, error) {
	if Client == nil {
		return false, nil
	}
	raw, err := Client.Get(ctx, r.indexKey(page)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetIndexPage 回填缓存，失败不影响主流程
func (r *FeedCacheRepository) SetIndexPage(ctx context.Context, page int, val any) error {
	if Client == nil {
		return nil
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return Client.Set(ctx, r.indexKey(page), raw, r.ttl).Err()
}
