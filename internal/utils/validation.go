package utils

import (
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

// ValidateShiftTimes 检查班次时间是否合法。
// 结束时间早于或等于开始时间本身不是错误（可能是跨夜班次），
// 但调用方必须显式地传入 overnight 标记，不允许静默按跨夜处理。
func ValidateShiftTimes(start string, end string, overnight bool) error {
	if !IsValidTimeOfDay(start) {
		return domain.NewValidationError("开始时间格式错误，应为 15:04:05")
	}
	if !IsValidTimeOfDay(end) {
		return domain.NewValidationError("结束时间格式错误，应为 15:04:05")
	}
	if !overnight && secondsOfDay(end) <= secondsOfDay(start) {
		return domain.NewValidationError("结束时间必须晚于开始时间，跨夜班次需要显式标记")
	}
	return nil
}

// ValidateDefaultSchedule 检查默认班表模板的每一天是否合法
func ValidateDefaultSchedule(ds *domain.DefaultSchedule) error {
	if !IsValidDate(ds.EffectiveFrom) {
		return domain.NewValidationError("生效日期格式错误，应为 2006-01-02")
	}

	for weekday, day := range ds.Days {
		if day == nil {
			continue
		}
		if !IsValidTimeOfDay(day.StartTime) {
			return domain.NewValidationError("星期 %d 的开始时间格式错误", weekday)
		}
		if !IsValidTimeOfDay(day.EndTime) {
			return domain.NewValidationError("星期 %d 的结束时间格式错误", weekday)
		}
		// 模板中的班次不支持跨夜，结束时间必须晚于开始时间
		if secondsOfDay(day.EndTime) <= secondsOfDay(day.StartTime) {
			return domain.NewValidationError("星期 %d 的结束时间必须晚于开始时间", weekday)
		}
		if day.Role == "" {
			return domain.NewValidationError("星期 %d 的角色不能为空", weekday)
		}
	}

	return nil
}

// ValidateOverrideReason 检查覆盖原因是否属于合法的枚举值
func ValidateOverrideReason(reason domain.OverrideReason) error {
	if reason == "" {
		return domain.NewValidationError("覆盖原因不能为空")
	}
	if !reason.IsValid() {
		return domain.NewValidationError("未知的覆盖原因: %s", reason)
	}
	return nil
}
