package roster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

func newBatchFixture(t *testing.T) (*fakeStore, *fakeNotifier, *BatchService) {
	t.Helper()

	store := newFakeStore()
	notifier := &fakeNotifier{}
	engine := NewEngine(store, store, nil, 4)
	return store, notifier, NewBatchService(engine, store, store, store, notifier, nil, 2)
}

func TestCloneWeek(t *testing.T) {
	store, _, batch := newBatchFixture(t)
	store.addStaff(1, "张三", true)
	store.addStaff(2, "李四", true)

	// 源周的两条记录：一条普通手动班次，一条请假覆盖
	require.NoError(t, store.CreateShift(&domain.ShiftRecord{
		StaffID:     1,
		Date:        testWeekStart,
		StartTime:   "22:00:00",
		EndTime:     "06:00:00",
		Source:      domain.ShiftSourceManual,
		IsOvernight: true,
		Notes:       "夜班",
	}))
	require.NoError(t, store.CreateShift(&domain.ShiftRecord{
		StaffID:        2,
		Date:           "2026-03-03",
		Source:         domain.ShiftSourceDefault,
		IsOverride:     true,
		OverrideReason: domain.OverrideReasonPTO,
		OriginalStart:  "09:00:00",
		OriginalEnd:    "17:00:00",
	}))

	report, err := batch.CloneWeek(context.Background(), testWeekStart, nextWeekStart)
	require.NoError(t, err)
	require.Equal(t, 2, report.Copied)
	require.Empty(t, report.Skipped)

	// 克隆出来的记录一律是普通手动记录，时间取值保持不变
	clone, err := store.GetShiftByStaffAndDate(1, nextWeekStart)
	require.NoError(t, err)
	require.Equal(t, domain.ShiftSourceManual, clone.Source)
	require.False(t, clone.IsOverride)
	require.Empty(t, clone.OverrideReason)
	require.Equal(t, "22:00:00", clone.StartTime)
	require.True(t, clone.IsOvernight)
	require.Equal(t, "夜班", clone.Notes)

	// 请假覆盖克隆出来是一条没有上班时间的普通记录
	clone, err = store.GetShiftByStaffAndDate(2, "2026-03-10")
	require.NoError(t, err)
	require.True(t, clone.IsAbsent())
	require.False(t, clone.IsOverride)
}

func TestCloneWeekSkipsConflicts(t *testing.T) {
	store, _, batch := newBatchFixture(t)
	store.addStaff(1, "张三", true)

	require.NoError(t, store.CreateShift(&domain.ShiftRecord{
		StaffID:   1,
		Date:      testWeekStart,
		StartTime: "10:00:00",
		EndTime:   "16:00:00",
		Source:    domain.ShiftSourceManual,
	}))

	// 目标格子已经有记录，克隆时必须跳过而不是覆盖
	existing := &domain.ShiftRecord{
		StaffID:   1,
		Date:      nextWeekStart,
		StartTime: "08:00:00",
		EndTime:   "12:00:00",
		Source:    domain.ShiftSourceManual,
	}
	require.NoError(t, store.CreateShift(existing))

	report, err := batch.CloneWeek(context.Background(), testWeekStart, nextWeekStart)
	require.NoError(t, err)
	require.Equal(t, 0, report.Copied)
	require.Equal(t, []SkippedSlot{{StaffID: 1, Date: nextWeekStart}}, report.Skipped)

	// 目标格子上原来的记录原封不动
	sr, err := store.GetShiftByStaffAndDate(1, nextWeekStart)
	require.NoError(t, err)
	require.Equal(t, existing.ID, sr.ID)
	require.Equal(t, "08:00:00", sr.StartTime)
}

func TestCloneWeekValidation(t *testing.T) {
	_, _, batch := newBatchFixture(t)

	var validationErr *domain.ValidationError

	// 必须是周一
	_, err := batch.CloneWeek(context.Background(), "2026-03-03", nextWeekStart)
	require.ErrorAs(t, err, &validationErr)

	// 源周和目标周不能相同
	_, err = batch.CloneWeek(context.Background(), testWeekStart, testWeekStart)
	require.ErrorAs(t, err, &validationErr)
}

func TestCloneWeekStorageErrorReportsProgress(t *testing.T) {
	store, _, batch := newBatchFixture(t)
	store.addStaff(1, "张三", true)
	store.addStaff(2, "李四", true)
	store.addStaff(3, "王五", true)

	for staffID := int64(1); staffID <= 3; staffID++ {
		require.NoError(t, store.CreateShift(&domain.ShiftRecord{
			StaffID:   staffID,
			Date:      testWeekStart,
			StartTime: "10:00:00",
			EndTime:   "16:00:00",
			Source:    domain.ShiftSourceManual,
		}))
	}

	// 第三次插入时存储挂掉
	store.insertFailAfter = 2

	report, err := batch.CloneWeek(context.Background(), testWeekStart, nextWeekStart)
	require.Error(t, err)
	// 已完成的进度要随错误一起报告出去
	require.NotNil(t, report)
	require.Equal(t, 2, report.Copied)
}

func TestPublishWeek(t *testing.T) {
	store, notifier, batch := newBatchFixture(t)
	worker := store.addStaff(1, "张三", true)
	store.addStaff(2, "李四", true)  // 在职但这一周没有班
	store.addStaff(3, "王五", false) // 已离职
	addSchedule(t, store, 1, "2026-01-01", weekdayDays("09:00:00", "17:00:00", "前台"))
	addSchedule(t, store, 3, "2026-01-01", weekdayDays("09:00:00", "17:00:00", "前台"))

	result, err := batch.PublishWeek(context.Background(), testWeekStart)
	require.NoError(t, err)

	// 只有这一周有班的在职员工才受影响
	require.Equal(t, []int64{1}, result.AffectedStaffIDs)
	require.Equal(t, int32(1), result.Publication.StaffCount)
	require.Equal(t, testWeekStart, result.Publication.WeekStart)

	// 发布戳已经落库
	wp, err := store.GetWeekPublication(testWeekStart)
	require.NoError(t, err)
	require.Equal(t, int32(1), wp.Version)

	// 通知扇出带上受影响员工的联系方式
	require.Len(t, notifier.messages, 1)
	msg := notifier.messages[0]
	require.Equal(t, domain.NotifyTypeWeekPublished, msg.Type)
	require.Equal(t, testWeekStart, msg.WeekStart)
	require.Len(t, msg.Recipients, 1)
	require.Equal(t, worker.Email, msg.Recipients[0].Email)
	require.Equal(t, worker.FullName, msg.Recipients[0].FullName)
}

func TestPublishWeekRepublish(t *testing.T) {
	store, _, batch := newBatchFixture(t)
	store.addStaff(1, "张三", true)
	addSchedule(t, store, 1, "2026-01-01", weekdayDays("09:00:00", "17:00:00", "前台"))

	_, err := batch.PublishWeek(context.Background(), testWeekStart)
	require.NoError(t, err)

	// 发布不会锁定这一周，重新发布只是刷新发布戳
	result, err := batch.PublishWeek(context.Background(), testWeekStart)
	require.NoError(t, err)
	require.Equal(t, int32(2), result.Publication.Version)
}

func TestPublishWeekNotifyFailureNonFatal(t *testing.T) {
	store, notifier, batch := newBatchFixture(t)
	store.addStaff(1, "张三", true)
	addSchedule(t, store, 1, "2026-01-01", weekdayDays("09:00:00", "17:00:00", "前台"))

	notifier.err = context.DeadlineExceeded

	// 通知失败不会回滚发布戳
	result, err := batch.PublishWeek(context.Background(), testWeekStart)
	require.NoError(t, err)
	require.NotNil(t, result.Publication)

	_, err = store.GetWeekPublication(testWeekStart)
	require.NoError(t, err)
}

func TestPublishWeekRequiresMonday(t *testing.T) {
	_, _, batch := newBatchFixture(t)

	_, err := batch.PublishWeek(context.Background(), "2026-03-04")
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
