package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

// RedisWeekCache 用 redis 缓存每个员工每一周的合并结果。
// 缓存故障一律当作未命中处理，只记录日志，不影响读写结果。
type RedisWeekCache struct {
	cfg    *config.Config
	client *redis.Client
}

func NewRedisWeekCache(cfg *config.Config, client *redis.Client) *RedisWeekCache {
	return &RedisWeekCache{
		cfg:    cfg,
		client: client,
	}
}

func (c *RedisWeekCache) key(staffID int64, weekStart string) string {
	return fmt.Sprintf("roster_week_%d_%s", staffID, weekStart)
}

func (c *RedisWeekCache) GetWeek(ctx context.Context, staffID int64, weekStart string) ([]*domain.EffectiveShift, bool) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.Redis.OperationTimeout)*time.Second)
	defer cancel()

	payload, err := c.client.Get(ctx, c.key(staffID, weekStart)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Error("读取周缓存失败", "staffID", staffID, "weekStart", weekStart, "error", err)
		}
		return nil, false
	}

	shifts := make([]*domain.EffectiveShift, 0, 7)
	if err := json.Unmarshal(payload, &shifts); err != nil {
		slog.Error("周缓存反序列化失败", "staffID", staffID, "weekStart", weekStart, "error", err)
		return nil, false
	}

	return shifts, true
}

func (c *RedisWeekCache) SetWeek(ctx context.Context, staffID int64, weekStart string, shifts []*domain.EffectiveShift) {
	payload, err := json.Marshal(shifts)
	if err != nil {
		slog.Error("周缓存序列化失败", "staffID", staffID, "weekStart", weekStart, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.Redis.OperationTimeout)*time.Second)
	defer cancel()

	ttl := time.Duration(c.cfg.Redis.WeekCacheTTL) * time.Second
	if err := c.client.Set(ctx, c.key(staffID, weekStart), payload, ttl).Err(); err != nil {
		slog.Error("写入周缓存失败", "staffID", staffID, "weekStart", weekStart, "error", err)
	}
}

func (c *RedisWeekCache) InvalidateWeek(ctx context.Context, staffID int64, weekStart string) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.Redis.OperationTimeout)*time.Second)
	defer cancel()

	if err := c.client.Del(ctx, c.key(staffID, weekStart)).Err(); err != nil {
		slog.Error("删除周缓存失败", "staffID", staffID, "weekStart", weekStart, "error", err)
	}
}
