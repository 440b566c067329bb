package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWeekStartOf(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-03-02", "2026-03-02"}, // 周一
		{"2026-03-04", "2026-03-02"}, // 周三
		{"2026-03-08", "2026-03-02"}, // 周日属于上一个周一开始的那一周
		{"2026-03-09", "2026-03-09"},
		{"2026-01-01", "2025-12-29"}, // 跨年
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, WeekStartOf(tt.date), "date=%s", tt.date)
	}
}

func TestIsWeekStart(t *testing.T) {
	require.True(t, IsWeekStart("2026-03-02"))
	require.False(t, IsWeekStart("2026-03-03"))
	require.False(t, IsWeekStart("2026-03-08"))
	require.False(t, IsWeekStart("不是日期"))
}

func TestWeekdayOf(t *testing.T) {
	require.Equal(t, time.Monday, WeekdayOf("2026-03-02"))
	require.Equal(t, time.Sunday, WeekdayOf("2026-03-08"))
}

func TestDaysBetween(t *testing.T) {
	require.Equal(t, 7, DaysBetween("2026-03-02", "2026-03-09"))
	require.Equal(t, -7, DaysBetween("2026-03-09", "2026-03-02"))
	require.Equal(t, 0, DaysBetween("2026-03-02", "2026-03-02"))
}

func TestDatesOfWeek(t *testing.T) {
	dates := DatesOfWeek("2026-03-02")
	require.Len(t, dates, 7)
	require.Equal(t, "2026-03-02", dates[0])
	require.Equal(t, "2026-03-08", dates[6])
}

func TestAddDaysCrossesMonth(t *testing.T) {
	require.Equal(t, "2026-03-01", AddDays("2026-02-26", 3))
	require.Equal(t, "2026-02-26", AddDays("2026-03-01", -3))
}

func TestShiftMinutes(t *testing.T) {
	tests := []struct {
		start     string
		end       string
		overnight bool
		want      int
	}{
		{"09:00:00", "17:00:00", false, 8 * 60},
		{"09:00:00", "17:30:00", false, 8*60 + 30},
		// 跨夜班次先加 24 小时再相减
		{"22:00:00", "06:00:00", true, 8 * 60},
		// 带跨夜标记但没有真的跨夜时不加 24 小时
		{"09:00:00", "17:00:00", true, 8 * 60},
		// 秒也参与计算，不足一分钟的部分向下取整
		{"09:00:30", "17:00:00", false, 8*60 - 1},
		{"09:00:00", "17:00:30", false, 8 * 60},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ShiftMinutes(tt.start, tt.end, tt.overnight), "%s-%s overnight=%v", tt.start, tt.end, tt.overnight)
	}
}
