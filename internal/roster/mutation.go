package roster

import (
	"context"
	"errors"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"
)

// MutationService 负责校验并应用所有针对班次记录的写操作。
// 每个成功的写操作都会让受影响员工所在周的缓存失效。
type MutationService struct {
	engine    *Engine
	schedules DefaultScheduleStore
	shifts    ShiftStore
	cache     WeekCache // 可以为 nil
}

func NewMutationService(engine *Engine, schedules DefaultScheduleStore, shifts ShiftStore, cache WeekCache) *MutationService {
	return &MutationService{
		engine:    engine,
		schedules: schedules,
		shifts:    shifts,
		cache:     cache,
	}
}

// ShiftValues 是创建手动班次时的完整取值
type ShiftValues struct {
	StartTime   string
	EndTime     string
	Role        string
	Notes       string
	IsOvernight bool
}

// OccurrenceEdit 是对某一天班次的局部修改，nil 表示不修改该字段。
// MarkAbsent 表示把这一天显式标记为不上班（请假、调休等）。
type OccurrenceEdit struct {
	StartTime   *string
	EndTime     *string
	Role        *string
	Notes       *string
	IsOvernight *bool
	MarkAbsent  bool
}

// CreateManualShift 创建一条与模板无关的手动班次。
// 该格子已经有持久化记录时返回校验错误，应该走编辑而不是创建。
func (s *MutationService) CreateManualShift(ctx context.Context, staffID int64, date string, values ShiftValues) (*domain.ShiftRecord, error) {
	if !utils.IsValidDate(date) {
		return nil, domain.NewValidationError("日期格式错误，应为 2006-01-02")
	}
	if err := utils.ValidateShiftTimes(values.StartTime, values.EndTime, values.IsOvernight); err != nil {
		return nil, err
	}

	if _, err := s.shifts.GetShiftByStaffAndDate(staffID, date); err == nil {
		return nil, domain.NewValidationError("该员工在 %s 已经有班次记录，请使用编辑", date)
	} else {
		var notFoundErr *domain.NotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, err
		}
	}

	sr := &domain.ShiftRecord{
		StaffID:     staffID,
		Date:        date,
		StartTime:   values.StartTime,
		EndTime:     values.EndTime,
		Role:        values.Role,
		Notes:       values.Notes,
		Source:      domain.ShiftSourceManual,
		IsOverride:  false,
		IsOvernight: values.IsOvernight,
	}

	if err := s.shifts.CreateShift(sr); err != nil {
		return nil, err
	}

	s.invalidate(ctx, staffID, date)
	return sr, nil
}

// EditOccurrence 编辑某个员工某一天的班次。先解析当前状态再决定行为：
//   - manual: 原地更新，不需要覆盖原因
//   - override: 原地更新，覆盖原因可以修改但必须保持非空
//   - default: 创建覆盖记录，必须提供覆盖原因，并且要么取值与模板不同，
//     要么显式把这一天标记为不上班
//   - off: 等同于创建手动班次，不需要覆盖原因
func (s *MutationService) EditOccurrence(ctx context.Context, staffID int64, date string, edit OccurrenceEdit, reason domain.OverrideReason) (*domain.ShiftRecord, error) {
	if !utils.IsValidDate(date) {
		return nil, domain.NewValidationError("日期格式错误，应为 2006-01-02")
	}

	sr, err := s.shifts.GetShiftByStaffAndDate(staffID, date)
	if err == nil {
		return s.editExistingRecord(ctx, sr, edit, reason)
	}

	var notFoundErr *domain.NotFoundError
	if !errors.As(err, &notFoundErr) {
		return nil, err
	}

	// 没有持久化记录，看这一天有没有模板班次
	ds, err := s.schedules.GetEffectiveDefaultSchedule(staffID, date)
	if err != nil {
		if errors.As(err, &notFoundErr) {
			return s.editOffOccurrence(ctx, staffID, date, edit)
		}
		return nil, err
	}

	day := ds.Days[utils.WeekdayOf(date)]
	if day == nil {
		return s.editOffOccurrence(ctx, staffID, date, edit)
	}

	return s.overrideDefaultOccurrence(ctx, staffID, date, day, edit, reason)
}

// 当前状态为 manual 或 override 时原地更新记录
func (s *MutationService) editExistingRecord(ctx context.Context, sr *domain.ShiftRecord, edit OccurrenceEdit, reason domain.OverrideReason) (*domain.ShiftRecord, error) {
	if sr.Source == domain.ShiftSourceManual {
		if edit.MarkAbsent {
			return nil, domain.NewValidationError("手动班次不能标记为不上班，请直接删除")
		}
	} else {
		// 覆盖记录的原因可以修改，但必须保持非空
		if reason != "" {
			if err := utils.ValidateOverrideReason(reason); err != nil {
				return nil, err
			}
			sr.OverrideReason = reason
		}
	}

	if edit.MarkAbsent {
		sr.StartTime = ""
		sr.EndTime = ""
	} else {
		if edit.StartTime != nil {
			sr.StartTime = *edit.StartTime
		}
		if edit.EndTime != nil {
			sr.EndTime = *edit.EndTime
		}
		if edit.IsOvernight != nil {
			sr.IsOvernight = *edit.IsOvernight
		}
	}
	if edit.Role != nil {
		sr.Role = *edit.Role
	}
	if edit.Notes != nil {
		sr.Notes = *edit.Notes
	}

	if !sr.IsAbsent() {
		if err := utils.ValidateShiftTimes(sr.StartTime, sr.EndTime, sr.IsOvernight); err != nil {
			return nil, err
		}
	}

	if err := s.shifts.UpdateShift(sr); err != nil {
		return nil, err
	}

	s.invalidate(ctx, sr.StaffID, sr.Date)
	return sr, nil
}

// 当前状态为 default 时创建覆盖记录
func (s *MutationService) overrideDefaultOccurrence(ctx context.Context, staffID int64, date string, day *domain.DayTemplate, edit OccurrenceEdit, reason domain.OverrideReason) (*domain.ShiftRecord, error) {
	if reason == "" {
		return nil, domain.NewValidationError("覆盖模板班次必须提供覆盖原因")
	}
	if err := utils.ValidateOverrideReason(reason); err != nil {
		return nil, err
	}

	sr := &domain.ShiftRecord{
		StaffID:        staffID,
		Date:           date,
		StartTime:      day.StartTime,
		EndTime:        day.EndTime,
		Role:           day.Role,
		Source:         domain.ShiftSourceDefault,
		IsOverride:     true,
		OverrideReason: reason,
		OriginalStart:  day.StartTime,
		OriginalEnd:    day.EndTime,
	}

	if edit.MarkAbsent {
		sr.StartTime = ""
		sr.EndTime = ""
	} else {
		if edit.StartTime != nil {
			sr.StartTime = *edit.StartTime
		}
		if edit.EndTime != nil {
			sr.EndTime = *edit.EndTime
		}
		if edit.IsOvernight != nil {
			sr.IsOvernight = *edit.IsOvernight
		}
	}
	if edit.Role != nil {
		sr.Role = *edit.Role
	}
	if edit.Notes != nil {
		sr.Notes = *edit.Notes
	}

	// 覆盖必须有实际意义：取值与模板不同，或者显式标记为不上班
	sameAsTemplate := sr.StartTime == day.StartTime && sr.EndTime == day.EndTime && sr.Role == day.Role
	if sameAsTemplate && !edit.MarkAbsent {
		return nil, domain.NewValidationError("取值与模板班次相同，无需覆盖")
	}

	if !sr.IsAbsent() {
		if err := utils.ValidateShiftTimes(sr.StartTime, sr.EndTime, sr.IsOvernight); err != nil {
			return nil, err
		}
	}

	if err := s.shifts.CreateShift(sr); err != nil {
		return nil, err
	}

	s.invalidate(ctx, staffID, date)
	return sr, nil
}

// 当前状态为 off 时等同于创建手动班次，此时没有模板可以覆盖
func (s *MutationService) editOffOccurrence(ctx context.Context, staffID int64, date string, edit OccurrenceEdit) (*domain.ShiftRecord, error) {
	if edit.MarkAbsent {
		return nil, domain.NewValidationError("这一天本来就没有班次")
	}
	if edit.StartTime == nil || edit.EndTime == nil {
		return nil, domain.NewValidationError("这一天没有班次，创建时必须提供开始和结束时间")
	}

	values := ShiftValues{
		StartTime: *edit.StartTime,
		EndTime:   *edit.EndTime,
	}
	if edit.Role != nil {
		values.Role = *edit.Role
	}
	if edit.Notes != nil {
		values.Notes = *edit.Notes
	}
	if edit.IsOvernight != nil {
		values.IsOvernight = *edit.IsOvernight
	}

	return s.CreateManualShift(ctx, staffID, date, values)
}

// DeleteShift 删除某个员工某一天的持久化记录。
// 被删除的是覆盖记录时，这一天会重新回落到模板班次，
// 也就是对外暴露的"还原为默认班次"操作。
// 返回删除后重新解析的结果。
func (s *MutationService) DeleteShift(ctx context.Context, staffID int64, date string) (*domain.EffectiveShift, error) {
	if !utils.IsValidDate(date) {
		return nil, domain.NewValidationError("日期格式错误，应为 2006-01-02")
	}

	sr, err := s.shifts.GetShiftByStaffAndDate(staffID, date)
	if err != nil {
		return nil, err
	}

	if err := s.shifts.DeleteShift(sr.ID); err != nil {
		return nil, err
	}

	s.invalidate(ctx, staffID, date)
	return s.engine.Resolve(staffID, date)
}

// MoveRequest 是拖拽移动班次的参数
type MoveRequest struct {
	StaffID    int64
	Date       string
	NewStaffID int64
	NewDate    string
	Overwrite  bool // 目标格子已有记录时是否覆盖
}

// MoveShift 把一个班次移动到另一个 (staffID, date) 格子，作为单个命令执行：
//   - 源格子有持久化记录时直接把记录重新指向目标格子，源格子随之回落到模板或 off
//   - 源格子只是虚拟的模板班次时，在目标格子创建一条手动记录，
//     源格子保持不变（移动未修改过的模板班次不会抑制模板）
//
// 目标格子已有记录且未设置 Overwrite 时返回冲突错误。
func (s *MutationService) MoveShift(ctx context.Context, req MoveRequest) (*domain.ShiftRecord, error) {
	if !utils.IsValidDate(req.Date) || !utils.IsValidDate(req.NewDate) {
		return nil, domain.NewValidationError("日期格式错误，应为 2006-01-02")
	}
	if req.StaffID == req.NewStaffID && req.Date == req.NewDate {
		return nil, domain.NewValidationError("源格子和目标格子相同")
	}

	// 先检查目标格子
	var notFoundErr *domain.NotFoundError
	target, err := s.shifts.GetShiftByStaffAndDate(req.NewStaffID, req.NewDate)
	if err != nil && !errors.As(err, &notFoundErr) {
		return nil, err
	}
	if target != nil && !req.Overwrite {
		return nil, domain.NewConflictError("目标格子已经有班次记录")
	}

	sr, err := s.shifts.GetShiftByStaffAndDate(req.StaffID, req.Date)
	if err == nil {
		// 源格子有持久化记录，重新指向目标格子
		if err := s.shifts.MoveShift(sr, req.NewStaffID, req.NewDate, req.Overwrite); err != nil {
			return nil, err
		}

		s.invalidate(ctx, req.StaffID, req.Date)
		s.invalidate(ctx, req.NewStaffID, req.NewDate)
		return sr, nil
	}
	if !errors.As(err, &notFoundErr) {
		return nil, err
	}

	// 源格子没有持久化记录，看它是不是虚拟的模板班次
	source, err := s.engine.Resolve(req.StaffID, req.Date)
	if err != nil {
		return nil, err
	}
	if source.State != domain.ShiftStateDefault {
		return nil, domain.NewNotFoundError("源格子没有班次")
	}

	moved := &domain.ShiftRecord{
		StaffID:   req.NewStaffID,
		Date:      req.NewDate,
		StartTime: source.StartTime,
		EndTime:   source.EndTime,
		Role:      source.Role,
		Source:    domain.ShiftSourceManual,
	}

	// 目标格子被占用时在一个事务里整体替换，不让并发读取看到空格子
	if target != nil {
		if err := s.shifts.ReplaceShift(moved, target.ID); err != nil {
			return nil, err
		}
	} else if err := s.shifts.CreateShift(moved); err != nil {
		return nil, err
	}

	s.invalidate(ctx, req.NewStaffID, req.NewDate)
	return moved, nil
}

func (s *MutationService) invalidate(ctx context.Context, staffID int64, date string) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateWeek(ctx, staffID, utils.WeekStartOf(date))
}
