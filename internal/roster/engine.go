package roster

import (
	"context"
	"errors"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"
	"golang.org/x/sync/errgroup"
)

// Engine 计算任意 (staffID, date) 的最终班次。
// 优先级是严格的两层回退，不是加权合并：
//  1. 有持久化记录时记录总是生效，source 为 manual 时状态为 manual，否则为 override
//  2. 否则找该员工 effective_from <= date 的最新默认班表，对应星期有班则状态为 default
//  3. 否则状态为 off
//
// 解析是确定性的纯读路径，不会产生任何写入。
type Engine struct {
	schedules   DefaultScheduleStore
	shifts      ShiftStore
	cache       WeekCache // 可以为 nil，表示不启用缓存
	concurrency int
}

func NewEngine(schedules DefaultScheduleStore, shifts ShiftStore, cache WeekCache, concurrency int) *Engine {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Engine{
		schedules:   schedules,
		shifts:      shifts,
		cache:       cache,
		concurrency: concurrency,
	}
}

// Resolve 计算某个员工某一天的最终班次
func (e *Engine) Resolve(staffID int64, date string) (*domain.EffectiveShift, error) {
	if !utils.IsValidDate(date) {
		return nil, domain.NewValidationError("日期格式错误，应为 2006-01-02")
	}

	sr, err := e.shifts.GetShiftByStaffAndDate(staffID, date)
	if err == nil {
		return effectiveFromRecord(sr), nil
	}

	var notFoundErr *domain.NotFoundError
	if !errors.As(err, &notFoundErr) {
		return nil, err
	}

	// 没有持久化记录，回退到默认班表
	ds, err := e.schedules.GetEffectiveDefaultSchedule(staffID, date)
	if err != nil {
		if errors.As(err, &notFoundErr) {
			return effectiveOff(staffID, date), nil
		}
		return nil, err
	}

	day := ds.Days[utils.WeekdayOf(date)]
	if day == nil {
		return effectiveOff(staffID, date), nil
	}

	return &domain.EffectiveShift{
		StaffID:   staffID,
		Date:      date,
		State:     domain.ShiftStateDefault,
		StartTime: day.StartTime,
		EndTime:   day.EndTime,
		Role:      day.Role,
	}, nil
}

// ResolveWeek 计算一批员工从 weekStart 开始一周的最终班次，
// 结果按传入的员工顺序排列，每个员工占连续的 7 天。
// 每个员工的解析相互独立，按员工并发执行。
func (e *Engine) ResolveWeek(ctx context.Context, staffIDs []int64, weekStart string) ([]*domain.EffectiveShift, error) {
	if !utils.IsWeekStart(weekStart) {
		return nil, domain.NewValidationError("weekStart 必须是周一，格式为 2006-01-02")
	}

	dates := utils.DatesOfWeek(weekStart)
	weeks := make([][]*domain.EffectiveShift, len(staffIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, staffID := range staffIDs {
		g.Go(func() error {
			if e.cache != nil {
				if week, ok := e.cache.GetWeek(gctx, staffID, weekStart); ok {
					weeks[i] = week
					return nil
				}
			}

			week := make([]*domain.EffectiveShift, 0, 7)
			for _, date := range dates {
				es, err := e.Resolve(staffID, date)
				if err != nil {
					return err
				}
				week = append(week, es)
			}

			if e.cache != nil {
				e.cache.SetWeek(gctx, staffID, weekStart, week)
			}
			weeks[i] = week
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*domain.EffectiveShift, 0, len(staffIDs)*7)
	for _, week := range weeks {
		result = append(result, week...)
	}
	return result, nil
}

func effectiveFromRecord(sr *domain.ShiftRecord) *domain.EffectiveShift {
	state := domain.ShiftStateOverride
	if sr.Source == domain.ShiftSourceManual {
		state = domain.ShiftStateManual
	}

	return &domain.EffectiveShift{
		StaffID:        sr.StaffID,
		Date:           sr.Date,
		State:          state,
		StartTime:      sr.StartTime,
		EndTime:        sr.EndTime,
		Role:           sr.Role,
		Notes:          sr.Notes,
		IsOvernight:    sr.IsOvernight,
		OverrideReason: sr.OverrideReason,
		OriginalStart:  sr.OriginalStart,
		OriginalEnd:    sr.OriginalEnd,
		ShiftID:        sr.ID,
	}
}

func effectiveOff(staffID int64, date string) *domain.EffectiveShift {
	return &domain.EffectiveShift{
		StaffID: staffID,
		Date:    date,
		State:   domain.ShiftStateOff,
	}
}
