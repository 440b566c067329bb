package roster

import (
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

// 本包只依赖下面这些窄接口，由 repository 提供 Postgres 实现，
// 测试里用内存实现替代。
// 查询不到记录时返回 *domain.NotFoundError，
// 唯一约束或版本号冲突时返回 *domain.ConflictError。

type StaffStore interface {
	GetAllStaff() ([]*domain.StaffMember, error)
	GetStaffByID(id int64) (*domain.StaffMember, error)
}

type DefaultScheduleStore interface {
	// GetEffectiveDefaultSchedule 返回 effective_from <= date 的记录中
	// effective_from 最大的那条
	GetEffectiveDefaultSchedule(staffID int64, date string) (*domain.DefaultSchedule, error)
	GetDefaultSchedulesByStaff(staffID int64) ([]*domain.DefaultSchedule, error)
	CreateDefaultSchedule(ds *domain.DefaultSchedule) error
}

type ShiftStore interface {
	GetShiftByStaffAndDate(staffID int64, date string) (*domain.ShiftRecord, error)
	GetShiftsByDateRange(from string, to string) ([]*domain.ShiftRecord, error)
	CreateShift(sr *domain.ShiftRecord) error
	// UpdateShift 带乐观锁版本检查，版本不匹配时返回 *domain.ConflictError
	UpdateShift(sr *domain.ShiftRecord) error
	DeleteShift(id int64) error
	// MoveShift 在一个事务中把记录重新指向新的 (staffID, date)，
	// overwrite 为 true 时先删除目标格子上已有的记录
	MoveShift(sr *domain.ShiftRecord, newStaffID int64, newDate string, overwrite bool) error
	// ReplaceShift 在一个事务中删除 oldID 对应的记录并插入 sr，
	// 用于目标格子被占用时的整体替换，中间状态不会被读到
	ReplaceShift(sr *domain.ShiftRecord, oldID int64) error
	// InsertShiftSkipConflict 插入记录，目标格子已被占用时跳过，
	// 返回是否真的插入了
	InsertShiftSkipConflict(sr *domain.ShiftRecord) (bool, error)
}

type PublicationStore interface {
	UpsertWeekPublication(wp *domain.WeekPublication) error
	GetWeekPublication(weekStart string) (*domain.WeekPublication, error)
}

// Notifier 对应外部的通知分发协作方，发布周班表后用它做通知扇出
type Notifier interface {
	NotifyPublished(msg *domain.NotifyMessage) error
}
