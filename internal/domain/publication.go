package domain

import (
	"time"
)

// WeekPublication 是某一周的发布戳。发布不会锁定这一周，
// 发布之后继续编辑是允许的，调用方可以选择重新发布。
type WeekPublication struct {
	ID          int64     `json:"id"`
	WeekStart   string    `json:"weekStart"` // 格式为 2006-01-02，必须是周一
	PublishedAt time.Time `json:"publishedAt"`
	StaffCount  int32     `json:"staffCount"` // 本次发布涉及的员工数量
	Version     int32     `json:"-"`
}
