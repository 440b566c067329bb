package utils

import (
	"time"
)

const (
	DateLayout      = "2006-01-02"
	TimeOfDayLayout = "15:04:05"
)

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func IsValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func IsValidTimeOfDay(s string) bool {
	_, err := time.Parse(TimeOfDayLayout, s)
	return err == nil
}

// WeekdayOf 返回某个日期是星期几，调用前必须保证日期合法
func WeekdayOf(date string) time.Weekday {
	t, _ := time.Parse(DateLayout, date)
	return t.Weekday()
}

// IsWeekStart 判断某个日期是不是一周的起始日（周一）
func IsWeekStart(date string) bool {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	return t.Weekday() == time.Monday
}

// WeekStartOf 返回某个日期所在的那一周的周一
func WeekStartOf(date string) string {
	t, _ := time.Parse(DateLayout, date)
	offset := (int(t.Weekday()) + 6) % 7 // 周一为 0，周日为 6
	return t.AddDate(0, 0, -offset).Format(DateLayout)
}

func AddDays(date string, n int) string {
	t, _ := time.Parse(DateLayout, date)
	return t.AddDate(0, 0, n).Format(DateLayout)
}

// DaysBetween 返回从 from 到 to 相差的天数，to 在 from 之前时为负数
func DaysBetween(from string, to string) int {
	f, _ := time.Parse(DateLayout, from)
	t, _ := time.Parse(DateLayout, to)
	return int(t.Sub(f).Hours() / 24)
}

// DatesOfWeek 返回从 weekStart 开始的连续 7 天
func DatesOfWeek(weekStart string) []string {
	dates := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		dates = append(dates, AddDays(weekStart, i))
	}
	return dates
}

func secondsOfDay(t string) int {
	parsed, _ := time.Parse(TimeOfDayLayout, t)
	return parsed.Hour()*3600 + parsed.Minute()*60 + parsed.Second()
}

// ShiftMinutes 返回一个班次的时长（分钟），不足一分钟的部分向下取整。
// 跨夜班次的结束时间早于开始时间，需要先加上 24 小时再相减。
func ShiftMinutes(start string, end string, overnight bool) int {
	startSeconds := secondsOfDay(start)
	endSeconds := secondsOfDay(end)
	if overnight && endSeconds < startSeconds {
		endSeconds += 24 * 60 * 60
	}
	return (endSeconds - startSeconds) / 60
}
