package seed

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/repository"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/roster"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"
)

// SeedStaff 插入 n 个随机员工
func SeedStaff(r *repository.Repository, emailDomain string, n int) {
	cnt := 0
	for i := 0; i < n; i++ {
		staff := utils.GenerateRandomStaff(emailDomain)
		if err := r.CreateStaff(staff); err != nil {
			slog.Error("无法插入员工", slog.String("error", err.Error()))
			continue
		}
		cnt++
	}

	slog.Info("插入员工成功", slog.Int("count", cnt))
}

// SeedDefaultSchedules 给所有还没有默认班表的员工插入一个随机模板
func SeedDefaultSchedules(r *repository.Repository, effectiveFrom string) {
	allStaff, err := r.GetAllStaff()
	if err != nil {
		slog.Error("无法获取员工列表", slog.String("error", err.Error()))
		return
	}

	cnt := 0
	for _, staff := range allStaff {
		if _, err := r.GetEffectiveDefaultSchedule(staff.ID, effectiveFrom); err == nil {
			continue
		}

		ds := utils.GenerateRandomDefaultSchedule(staff.ID, effectiveFrom, staff.DefaultRole)
		if err := r.CreateDefaultSchedule(ds); err != nil {
			slog.Error("无法插入默认班表", slog.Int64("staffID", staff.ID), slog.String("error", err.Error()))
			continue
		}
		cnt++
	}

	slog.Info("插入默认班表成功", slog.Int("count", cnt))
}

// SeedWeekShifts 在某一周里给员工撒一些随机的覆盖和手动班次，
// 方便开发时观察合并结果
func SeedWeekShifts(r *repository.Repository, mutations *roster.MutationService, weekStart string) {
	if !utils.IsWeekStart(weekStart) {
		slog.Error("weekStart 必须是周一", slog.String("weekStart", weekStart))
		return
	}

	allStaff, err := r.GetAllStaff()
	if err != nil {
		slog.Error("无法获取员工列表", slog.String("error", err.Error()))
		return
	}

	ctx := context.Background()
	cnt := 0
	for _, staff := range allStaff {
		// 每个员工随机挑一天做点修改
		date := utils.AddDays(weekStart, rand.Intn(7))

		switch rand.Intn(3) {
		case 0:
			// 把这一天标记为请假
			reason := domain.OverrideReasonPTO
			if _, err := mutations.EditOccurrence(ctx, staff.ID, date, roster.OccurrenceEdit{MarkAbsent: true}, reason); err != nil {
				continue
			}
		case 1:
			// 改一下上班时间
			start := "07:00:00"
			if _, err := mutations.EditOccurrence(ctx, staff.ID, date, roster.OccurrenceEdit{StartTime: &start}, domain.OverrideReasonTimeChange); err != nil {
				continue
			}
		case 2:
			// 加一个手动班次（只有这一天本来没班才会成功）
			if _, err := mutations.CreateManualShift(ctx, staff.ID, date, roster.ShiftValues{
				StartTime: "10:00:00",
				EndTime:   "16:00:00",
				Role:      staff.DefaultRole,
			}); err != nil {
				continue
			}
		}
		cnt++
	}

	slog.Info("插入随机班次成功", slog.Int("count", cnt))
}
