package roster

import (
	"context"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

// WeekCache 缓存某个员工某一周的合并结果，由 redis 实现。
// 缓存只是读路径上的加速，实现必须把缓存故障当作未命中处理，
// 不允许让缓存故障影响读写结果。
type WeekCache interface {
	GetWeek(ctx context.Context, staffID int64, weekStart string) ([]*domain.EffectiveShift, bool)
	SetWeek(ctx context.Context, staffID int64, weekStart string, shifts []*domain.EffectiveShift)
	InvalidateWeek(ctx context.Context, staffID int64, weekStart string)
}
