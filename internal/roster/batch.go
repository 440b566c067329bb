package roster

import (
	"context"
	"log/slog"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"
)

// BatchService 提供周级别的批量操作（整周克隆、发布）
type BatchService struct {
	engine    *Engine
	shifts    ShiftStore
	staff     StaffStore
	pubs      PublicationStore
	notifier  Notifier
	cache     WeekCache // 可以为 nil
	chunkSize int
}

func NewBatchService(engine *Engine, shifts ShiftStore, staff StaffStore, pubs PublicationStore, notifier Notifier, cache WeekCache, chunkSize int) *BatchService {
	if chunkSize <= 0 {
		chunkSize = 50
	}
	return &BatchService{
		engine:    engine,
		shifts:    shifts,
		staff:     staff,
		pubs:      pubs,
		notifier:  notifier,
		cache:     cache,
		chunkSize: chunkSize,
	}
}

type SkippedSlot struct {
	StaffID int64  `json:"staffID"`
	Date    string `json:"date"`
}

// CloneReport 是整周克隆的结果。单条记录的冲突只会被跳过并记录在
// Skipped 中，不会让整个操作失败；只有存储错误才会中止剩余的工作。
type CloneReport struct {
	SourceWeekStart string        `json:"sourceWeekStart"`
	TargetWeekStart string        `json:"targetWeekStart"`
	Copied          int           `json:"copied"`
	Skipped         []SkippedSlot `json:"skipped"`
}

// CloneWeek 把源周内所有持久化的班次记录克隆到目标周的对应日期。
// 克隆出来的记录一律是 source = manual 的普通记录，不再是任何模板的覆盖；
// 模板产生的虚拟班次不参与克隆，它们会通过默认班表在目标周自然出现。
// 记录按块处理而不是放在一个无界事务里。
func (s *BatchService) CloneWeek(ctx context.Context, sourceWeekStart string, targetWeekStart string) (*CloneReport, error) {
	if !utils.IsWeekStart(sourceWeekStart) || !utils.IsWeekStart(targetWeekStart) {
		return nil, domain.NewValidationError("weekStart 必须是周一，格式为 2006-01-02")
	}
	if sourceWeekStart == targetWeekStart {
		return nil, domain.NewValidationError("源周和目标周相同")
	}

	records, err := s.shifts.GetShiftsByDateRange(sourceWeekStart, utils.AddDays(sourceWeekStart, 6))
	if err != nil {
		return nil, err
	}

	offset := utils.DaysBetween(sourceWeekStart, targetWeekStart)
	report := &CloneReport{
		SourceWeekStart: sourceWeekStart,
		TargetWeekStart: targetWeekStart,
		Skipped:         make([]SkippedSlot, 0),
	}

	for chunkStart := 0; chunkStart < len(records); chunkStart += s.chunkSize {
		chunkEnd := min(chunkStart+s.chunkSize, len(records))

		for _, sr := range records[chunkStart:chunkEnd] {
			clone := &domain.ShiftRecord{
				StaffID:     sr.StaffID,
				Date:        utils.AddDays(sr.Date, offset),
				StartTime:   sr.StartTime,
				EndTime:     sr.EndTime,
				Role:        sr.Role,
				Notes:       sr.Notes,
				Source:      domain.ShiftSourceManual,
				IsOverride:  false,
				IsOvernight: sr.IsOvernight,
			}

			inserted, err := s.shifts.InsertShiftSkipConflict(clone)
			if err != nil {
				// 存储错误是致命的：中止剩余的工作，把已完成的进度报告出去
				return report, err
			}
			if !inserted {
				report.Skipped = append(report.Skipped, SkippedSlot{StaffID: clone.StaffID, Date: clone.Date})
				continue
			}

			report.Copied++
			if s.cache != nil {
				s.cache.InvalidateWeek(ctx, clone.StaffID, targetWeekStart)
			}
		}
	}

	return report, nil
}

// PublishResult 是发布操作的结果
type PublishResult struct {
	Publication      *domain.WeekPublication `json:"publication"`
	AffectedStaffIDs []int64                 `json:"affectedStaffIDs"`
}

// PublishWeek 给某一周盖上发布戳，并向这一周有班的员工做通知扇出。
// 发布只是状态标记，不会锁定这一周；发布后继续编辑会让这一周处于
// 隐含的"已发布但过期"状态，由调用方决定是否重新发布。
// 通知是 fire-and-forget 的，通知失败不会回滚发布戳。
func (s *BatchService) PublishWeek(ctx context.Context, weekStart string) (*PublishResult, error) {
	if !utils.IsWeekStart(weekStart) {
		return nil, domain.NewValidationError("weekStart 必须是周一，格式为 2006-01-02")
	}

	allStaff, err := s.staff.GetAllStaff()
	if err != nil {
		return nil, err
	}

	staffByID := make(map[int64]*domain.StaffMember)
	staffIDs := make([]int64, 0, len(allStaff))
	for _, staff := range allStaff {
		if !staff.IsActive {
			continue
		}
		staffByID[staff.ID] = staff
		staffIDs = append(staffIDs, staff.ID)
	}

	effective, err := s.engine.ResolveWeek(ctx, staffIDs, weekStart)
	if err != nil {
		return nil, err
	}

	// 这一周有班的员工才是受影响的员工
	affectedSet := make(map[int64]bool)
	affected := make([]int64, 0)
	for _, es := range effective {
		if es.HasWork() && !affectedSet[es.StaffID] {
			affectedSet[es.StaffID] = true
			affected = append(affected, es.StaffID)
		}
	}

	wp := &domain.WeekPublication{
		WeekStart:  weekStart,
		StaffCount: int32(len(affected)),
	}
	if err := s.pubs.UpsertWeekPublication(wp); err != nil {
		return nil, err
	}

	// 通知扇出，失败只记录日志
	msg := &domain.NotifyMessage{
		Type:       domain.NotifyTypeWeekPublished,
		WeekStart:  weekStart,
		Recipients: make([]domain.NotifyRecipient, 0, len(affected)),
	}
	for _, staffID := range affected {
		staff := staffByID[staffID]
		msg.Recipients = append(msg.Recipients, domain.NotifyRecipient{
			StaffID:  staff.ID,
			FullName: staff.FullName,
			Email:    staff.Email,
		})
	}

	if err := s.notifier.NotifyPublished(msg); err != nil {
		slog.Error("发布通知发送失败", "weekStart", weekStart, "error", err)
	}

	return &PublishResult{
		Publication:      wp,
		AffectedStaffIDs: affected,
	}, nil
}
