package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"society-console/internal/models"
	"society-console/internal/security"

	"go.uber.org/zap"
)

// CachedStats 按查看者缓存的最近一次统计结果
type CachedStats struct {
	Viewer      security.Context     `json:"viewer"`
	CycleID     string               `json:"cycle_id"`
	Stats       models.StatsSnapshot `json:"stats"`
	RefreshedAt time.Time            `json:"refreshed_at"`
}

// CacheManager 统计快照缓存（Redis）
type CacheManager struct {
	kv     KVStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewCacheManager 创建缓存管理器，ttl <= 0 时使用 10 分钟
func NewCacheManager(kv KVStore, ttl time.Duration, logger *zap.Logger) *CacheManager {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CacheManager{
		kv:     kv,
		ttl:    ttl,
		logger: logger,
	}
}

// StatsKey society:dashboard:{user_id}:stats
func StatsKey(userID string) string {
	return fmt.Sprintf("society:dashboard:%s:stats", userID)
}

// StoreStats 写入统计快照
func (c *CacheManager) StoreStats(ctx context.Context, entry CachedStats) error {
	key := StatsKey(entry.Viewer.UserID)

	jsonData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal stats snapshot: %w", err)
	}
	if err := c.kv.Set(ctx, key, string(jsonData), c.ttl); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	c.logger.Debug("Updated dashboard stats cache",
		zap.String("user_id", entry.Viewer.UserID),
		zap.String("cycle_id", entry.CycleID),
		zap.String("key", key),
	)
	return nil
}

// LoadStats 读取统计快照；缓存中的查看者上下文与当前不一致时视为未命中，
// 避免把其他作用域的数字展示给当前查看者。
func (c *CacheManager) LoadStats(ctx context.Context, viewer security.Context) (*CachedStats, error) {
	raw, err := c.kv.Get(ctx, StatsKey(viewer.UserID))
	if err != nil {
		return nil, err
	}

	var entry CachedStats
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats snapshot: %w", err)
	}
	if !entry.Viewer.Same(viewer) {
		return nil, ErrCacheMiss
	}
	return &entry, nil
}

// Invalidate 删除某个查看者的缓存
func (c *CacheManager) Invalidate(ctx context.Context, userID string) error {
	if err := c.kv.Del(ctx, StatsKey(userID)); err != nil && !errors.Is(err, ErrCacheMiss) {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}
