package roster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

// 2026-03-02 是周一
const (
	testWeekStart = "2026-03-02"
	nextWeekStart = "2026-03-09"
)

// 周一到周五 start-end 的模板
func weekdayDays(start string, end string, role string) [7]*domain.DayTemplate {
	var days [7]*domain.DayTemplate
	for wd := time.Monday; wd <= time.Friday; wd++ {
		days[wd] = &domain.DayTemplate{StartTime: start, EndTime: end, Role: role}
	}
	return days
}

func addSchedule(t *testing.T, store *fakeStore, staffID int64, effectiveFrom string, days [7]*domain.DayTemplate) {
	t.Helper()
	require.NoError(t, store.CreateDefaultSchedule(&domain.DefaultSchedule{
		StaffID:       staffID,
		EffectiveFrom: effectiveFrom,
		Days:          days,
	}))
}

func TestResolvePrecedence(t *testing.T) {
	store := newFakeStore()
	store.addStaff(1, "张三", true)
	addSchedule(t, store, 1, "2026-01-01", weekdayDays("09:00:00", "17:00:00", "前台"))

	engine := NewEngine(store, store, nil, 4)

	// 没有持久化记录时周一走模板
	es, err := engine.Resolve(1, testWeekStart)
	require.NoError(t, err)
	require.Equal(t, domain.ShiftStateDefault, es.State)
	require.Equal(t, "09:00:00", es.StartTime)
	require.Equal(t, "17:00:00", es.EndTime)
	require.True(t, es.HasWork())

	// 周六模板没有班
	es, err = engine.Resolve(1, "2026-03-07")
	require.NoError(t, err)
	require.Equal(t, domain.ShiftStateOff, es.State)
	require.False(t, es.HasWork())

	// 持久化的手动记录总是优先于模板
	require.NoError(t, store.CreateShift(&domain.ShiftRecord{
		StaffID:   1,
		Date:      testWeekStart,
		StartTime: "12:00:00",
		EndTime:   "20:00:00",
		Source:    domain.ShiftSourceManual,
	}))

	es, err = engine.Resolve(1, testWeekStart)
	require.NoError(t, err)
	require.Equal(t, domain.ShiftStateManual, es.State)
	require.Equal(t, "12:00:00", es.StartTime)
	require.NotZero(t, es.ShiftID)
}

func TestResolveOverrideState(t *testing.T) {
	store := newFakeStore()
	store.addStaff(1, "张三", true)
	addSchedule(t, store, 1, "2026-01-01", weekdayDays("09:00:00", "17:00:00", "前台"))

	require.NoError(t, store.CreateShift(&domain.ShiftRecord{
		StaffID:        1,
		Date:           testWeekStart,
		StartTime:      "10:00:00",
		EndTime:        "18:00:00",
		Role:           "前台",
		Source:         domain.ShiftSourceDefault,
		IsOverride:     true,
		OverrideReason: domain.OverrideReasonTimeChange,
		OriginalStart:  "09:00:00",
		OriginalEnd:    "17:00:00",
	}))

	engine := NewEngine(store, store, nil, 4)

	es, err := engine.Resolve(1, testWeekStart)
	require.NoError(t, err)
	require.Equal(t, domain.ShiftStateOverride, es.State)
	require.Equal(t, domain.OverrideReasonTimeChange, es.OverrideReason)
	require.Equal(t, "09:00:00", es.OriginalStart)
	require.Equal(t, "17:00:00", es.OriginalEnd)
}

func TestResolveLatestEffectiveFromWins(t *testing.T) {
	store := newFakeStore()
	store.addStaff(1, "张三", true)
	addSchedule(t, store, 1, "2026-01-01", weekdayDays("09:00:00", "17:00:00", "前台"))
	addSchedule(t, store, 1, "2026-03-01", weekdayDays("10:00:00", "18:00:00", "前台"))

	engine := NewEngine(store, store, nil, 4)

	// 3 月之后用新模板
	es, err := engine.Resolve(1, testWeekStart)
	require.NoError(t, err)
	require.Equal(t, "10:00:00", es.StartTime)

	// 3 月之前还是旧模板
	es, err = engine.Resolve(1, "2026-02-02")
	require.NoError(t, err)
	require.Equal(t, "09:00:00", es.StartTime)
}

func TestResolveWithoutSchedule(t *testing.T) {
	store := newFakeStore()
	store.addStaff(1, "张三", true)

	engine := NewEngine(store, store, nil, 4)

	es, err := engine.Resolve(1, testWeekStart)
	require.NoError(t, err)
	require.Equal(t, domain.ShiftStateOff, es.State)
}

func TestResolveInvalidDate(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, store, nil, 4)

	_, err := engine.Resolve(1, "2026/03/02")
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestResolveWeekOrdering(t *testing.T) {
	store := newFakeStore()
	store.addStaff(1, "张三", true)
	store.addStaff(2, "李四", true)
	addSchedule(t, store, 1, "2026-01-01", weekdayDays("09:00:00", "17:00:00", "前台"))
	addSchedule(t, store, 2, "2026-01-01", weekdayDays("13:00:00", "21:00:00", "后台"))

	engine := NewEngine(store, store, nil, 4)

	effective, err := engine.ResolveWeek(context.Background(), []int64{2, 1}, testWeekStart)
	require.NoError(t, err)
	require.Len(t, effective, 14)

	// 结果按传入的员工顺序排列，每个员工占连续的 7 天
	for i := 0; i < 7; i++ {
		require.Equal(t, int64(2), effective[i].StaffID)
		require.Equal(t, int64(1), effective[7+i].StaffID)
	}
	require.Equal(t, testWeekStart, effective[0].Date)
	require.Equal(t, "2026-03-08", effective[6].Date)

	// 同样的输入再跑一次结果必须一致
	again, err := engine.ResolveWeek(context.Background(), []int64{2, 1}, testWeekStart)
	require.NoError(t, err)
	require.Equal(t, effective, again)
}

func TestResolveWeekRequiresMonday(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, store, nil, 4)

	_, err := engine.ResolveWeek(context.Background(), []int64{1}, "2026-03-03")
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestResolveWeekUsesCache(t *testing.T) {
	store := newFakeStore()
	store.addStaff(1, "张三", true)
	addSchedule(t, store, 1, "2026-01-01", weekdayDays("09:00:00", "17:00:00", "前台"))

	cache := newFakeCache()
	engine := NewEngine(store, store, cache, 4)

	_, err := engine.ResolveWeek(context.Background(), []int64{1}, testWeekStart)
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)
	require.Equal(t, 0, cache.hits)

	_, err = engine.ResolveWeek(context.Background(), []int64{1}, testWeekStart)
	require.NoError(t, err)
	require.Equal(t, 1, cache.hits)
}
