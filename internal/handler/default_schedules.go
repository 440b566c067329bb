package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"
)

func (h *Handler) CreateDefaultSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffID       int64  `json:"staffID" validate:"required"`
		EffectiveFrom string `json:"effectiveFrom" validate:"required"`
		Days          []*struct {
			Weekday   int    `json:"weekday" validate:"min=0,max=6"`
			StartTime string `json:"startTime" validate:"required"`
			EndTime   string `json:"endTime" validate:"required"`
			Role      string `json:"role" validate:"required"`
		} `json:"days" validate:"required,dive,required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 先确认员工存在
	if _, err := h.repository.GetStaffByID(req.StaffID); err != nil {
		h.domainError(w, r, err)
		return
	}

	ds := &domain.DefaultSchedule{
		StaffID:       req.StaffID,
		EffectiveFrom: req.EffectiveFrom,
	}
	for _, day := range req.Days {
		if ds.Days[day.Weekday] != nil {
			h.errorResponse(w, r, "同一个星期几只能出现一次")
			return
		}
		ds.Days[day.Weekday] = &domain.DayTemplate{
			StartTime: day.StartTime,
			EndTime:   day.EndTime,
			Role:      day.Role,
		}
	}

	if err := utils.ValidateDefaultSchedule(ds); err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.CreateDefaultSchedule(ds); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建默认班表成功", ds)
}

func (h *Handler) GetStaffDefaultSchedules(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.StaffMember)

	schedules, err := h.repository.GetDefaultSchedulesByStaff(staff.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取默认班表成功", schedules)
}
