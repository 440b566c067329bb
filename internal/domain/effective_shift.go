package domain

type ShiftState string

const (
	ShiftStateOff      ShiftState = "off"      // 这一天没有班
	ShiftStateDefault  ShiftState = "default"  // 班次来自默认班表模板（虚拟班次，没有持久化记录）
	ShiftStateOverride ShiftState = "override" // 模板班次被持久化记录覆盖
	ShiftStateManual   ShiftState = "manual"   // 与模板无关的手动班次
)

// EffectiveShift 是对某个 (staffID, date) 做合并后的最终班次，
// 它只是读路径上的计算结果，从不持久化，每次查询都会重新计算。
type EffectiveShift struct {
	StaffID        int64          `json:"staffID"`
	Date           string         `json:"date"`
	State          ShiftState     `json:"state"`
	StartTime      string         `json:"startTime,omitempty"`
	EndTime        string         `json:"endTime,omitempty"`
	Role           string         `json:"role,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	IsOvernight    bool           `json:"isOvernight,omitempty"`
	OverrideReason OverrideReason `json:"overrideReason,omitempty"`
	OriginalStart  string         `json:"originalStart,omitempty"`
	OriginalEnd    string         `json:"originalEnd,omitempty"`
	ShiftID        int64          `json:"shiftID,omitempty"` // 持久化记录的 ID，虚拟班次为 0
}

// HasWork 表示这一天有没有实际要上的班。
// 注意 override 状态的班次也可能没有班（例如请假覆盖），
// 所以做覆盖率统计时不能只看 State 是否为 off。
func (es *EffectiveShift) HasWork() bool {
	return es.State != ShiftStateOff && es.StartTime != "" && es.EndTime != ""
}
