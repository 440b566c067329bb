package roster

import (
	"context"
	"math"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"
)

type CoverageStatus string

const (
	CoverageStatusGreen  CoverageStatus = "green"
	CoverageStatusYellow CoverageStatus = "yellow"
	CoverageStatusRed    CoverageStatus = "red"
)

type DayCoverage struct {
	Date           string         `json:"date"`
	ScheduledCount int            `json:"scheduledCount"`
	MinNeeded      int            `json:"minNeeded"`
	Ratio          float64        `json:"ratio"`
	Status         CoverageStatus `json:"status"`
}

type WeeklyHoursReport struct {
	StaffID    int64   `json:"staffID"`
	WeekStart  string  `json:"weekStart"`
	TotalHours float64 `json:"totalHours"`
	Overtime   bool    `json:"overtime"`
}

// AnalyticsService 在合并后的班次之上派生覆盖率和加班指标
type AnalyticsService struct {
	engine            *Engine
	overtimeThreshold float64 // 单位为小时
}

func NewAnalyticsService(engine *Engine, overtimeThreshold int) *AnalyticsService {
	if overtimeThreshold <= 0 {
		overtimeThreshold = 40
	}
	return &AnalyticsService{
		engine:            engine,
		overtimeThreshold: float64(overtimeThreshold),
	}
}

// Coverage 计算一周中每一天的人员覆盖情况。
// 传入的 staffIDs 既是统计的分子来源也是分母的基数。
// 最少需要的人数是 max(2, ceil(0.5 * N))。
func (s *AnalyticsService) Coverage(ctx context.Context, weekStart string, staffIDs []int64) ([]*DayCoverage, error) {
	if len(staffIDs) == 0 {
		return nil, domain.NewValidationError("staffIDs 不能为空")
	}

	effective, err := s.engine.ResolveWeek(ctx, staffIDs, weekStart)
	if err != nil {
		return nil, err
	}

	minNeeded := int(math.Ceil(0.5 * float64(len(staffIDs))))
	if minNeeded < 2 {
		minNeeded = 2
	}

	// ResolveWeek 的结果按员工排列，每个员工占连续的 7 天
	dates := utils.DatesOfWeek(weekStart)
	coverage := make([]*DayCoverage, 7)
	for i, date := range dates {
		coverage[i] = &DayCoverage{
			Date:      date,
			MinNeeded: minNeeded,
		}
	}

	for i, es := range effective {
		if es.HasWork() {
			coverage[i%7].ScheduledCount++
		}
	}

	for _, dc := range coverage {
		dc.Ratio = float64(dc.ScheduledCount) / float64(dc.MinNeeded)
		switch {
		case dc.Ratio >= 1:
			dc.Status = CoverageStatusGreen
		case dc.Ratio >= 0.5:
			dc.Status = CoverageStatusYellow
		default:
			dc.Status = CoverageStatusRed
		}
	}

	return coverage, nil
}

// WeeklyHours 计算某个员工一周的总工时。
// 结束时间早于开始时间的班次按跨夜处理，先加 24 小时再相减。
// 总工时严格大于阈值（默认 40 小时）才算加班，恰好等于不算。
func (s *AnalyticsService) WeeklyHours(ctx context.Context, staffID int64, weekStart string) (*WeeklyHoursReport, error) {
	effective, err := s.engine.ResolveWeek(ctx, []int64{staffID}, weekStart)
	if err != nil {
		return nil, err
	}

	totalMinutes := 0
	for _, es := range effective {
		if !es.HasWork() {
			continue
		}
		totalMinutes += utils.ShiftMinutes(es.StartTime, es.EndTime, true)
	}

	totalHours := float64(totalMinutes) / 60
	return &WeeklyHoursReport{
		StaffID:    staffID,
		WeekStart:  weekStart,
		TotalHours: totalHours,
		Overtime:   totalHours > s.overtimeThreshold,
	}, nil
}
