package domain

import (
	"time"
)

type ShiftSource string

const (
	ShiftSourceManual  ShiftSource = "manual"  // 独立于模板手动创建的班次
	ShiftSourceDefault ShiftSource = "default" // 由模板班次编辑而来的班次
)

type OverrideReason string

const (
	OverrideReasonTimeChange OverrideReason = "time_change"
	OverrideReasonPTO        OverrideReason = "pto"
	OverrideReasonSick       OverrideReason = "sick"
	OverrideReasonSwap       OverrideReason = "swap"
	OverrideReasonTraining   OverrideReason = "training"
	OverrideReasonDayOff     OverrideReason = "day_off"
	OverrideReasonOther      OverrideReason = "other"
)

var overrideReasons = []OverrideReason{
	OverrideReasonTimeChange,
	OverrideReasonPTO,
	OverrideReasonSick,
	OverrideReasonSwap,
	OverrideReasonTraining,
	OverrideReasonDayOff,
	OverrideReasonOther,
}

func (reason OverrideReason) IsValid() bool {
	for _, r := range overrideReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// IsAbsence 表示这个原因是不是"把这一天标记为不上班"
func (reason OverrideReason) IsAbsence() bool {
	return reason == OverrideReasonPTO || reason == OverrideReasonSick || reason == OverrideReasonDayOff
}

// ShiftRecord 是持久化的、针对具体日期的班次记录。
// date 的格式为 2006-01-02，start/end 的格式为 15:04:05。
// 当 is_override 为 true 时 override_reason 必须非空，
// original_start/original_end 保存覆盖时模板班次的快照，用于展示和还原。
type ShiftRecord struct {
	ID             int64          `json:"id"`
	StaffID        int64          `json:"staffID"`
	Date           string         `json:"date"`
	StartTime      string         `json:"startTime"`
	EndTime        string         `json:"endTime"`
	Role           string         `json:"role"`
	Notes          string         `json:"notes"`
	Source         ShiftSource    `json:"source"`
	IsOverride     bool           `json:"isOverride"`
	OverrideReason OverrideReason `json:"overrideReason,omitempty"`
	OriginalStart  string         `json:"originalStart,omitempty"`
	OriginalEnd    string         `json:"originalEnd,omitempty"`
	IsOvernight    bool           `json:"isOvernight"`
	CreatedAt      time.Time      `json:"createdAt"`
	Version        int32          `json:"-"`
}

// IsAbsent 表示这条记录是不是把这一天标记成了不上班（没有上班时间）
func (sr *ShiftRecord) IsAbsent() bool {
	return sr.StartTime == "" && sr.EndTime == ""
}
