package domain

import (
	"time"
)

// DayTemplate 表示默认班表中某个星期几的班次，start/end 的格式为 15:04:05
type DayTemplate struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Role      string `json:"role"`
}

// DefaultSchedule 是某个员工的每周循环班表模板。
// 同一个员工可以保留多条记录做审计，但对某个日期生效的只有
// effective_from <= 该日期的记录中 effective_from 最大的那条。
type DefaultSchedule struct {
	ID            int64  `json:"id"`
	StaffID       int64  `json:"staffID"`
	EffectiveFrom string `json:"effectiveFrom"` // 格式为 2006-01-02
	// 下标为 time.Weekday（0 表示周日），nil 表示该天休息
	Days      [7]*DayTemplate `json:"days"`
	CreatedAt time.Time       `json:"createdAt"`
	Version   int32           `json:"-"`
}
