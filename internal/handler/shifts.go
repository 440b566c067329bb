package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/roster"
)

func (h *Handler) CreateManualShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffID     int64  `json:"staffID" validate:"required"`
		Date        string `json:"date" validate:"required"`
		StartTime   string `json:"startTime" validate:"required"`
		EndTime     string `json:"endTime" validate:"required"`
		Role        string `json:"role"`
		Notes       string `json:"notes"`
		IsOvernight bool   `json:"isOvernight"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	sr, err := h.mutations.CreateManualShift(r.Context(), req.StaffID, req.Date, roster.ShiftValues{
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Role:        req.Role,
		Notes:       req.Notes,
		IsOvernight: req.IsOvernight,
	})
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建班次成功", sr)
}

func (h *Handler) EditOccurrence(w http.ResponseWriter, r *http.Request) {
	staffID := r.Context().Value(StaffIDCtx).(int64)
	date := r.Context().Value(DateCtx).(string)

	var req struct {
		StartTime      *string `json:"startTime"`
		EndTime        *string `json:"endTime"`
		Role           *string `json:"role"`
		Notes          *string `json:"notes"`
		IsOvernight    *bool   `json:"isOvernight"`
		MarkAbsent     bool    `json:"markAbsent"`
		OverrideReason string  `json:"overrideReason" validate:"omitempty,oneof=time_change pto sick swap training day_off other"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	edit := roster.OccurrenceEdit{
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Role:        req.Role,
		Notes:       req.Notes,
		IsOvernight: req.IsOvernight,
		MarkAbsent:  req.MarkAbsent,
	}

	sr, err := h.mutations.EditOccurrence(r.Context(), staffID, date, edit, domain.OverrideReason(req.OverrideReason))
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "编辑班次成功", sr)
}

// DeleteShift 删除持久化记录。删除覆盖记录就是"还原为默认班次"，
// 返回这一天重新解析后的结果，方便前端直接刷新格子。
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	staffID := r.Context().Value(StaffIDCtx).(int64)
	date := r.Context().Value(DateCtx).(string)

	es, err := h.mutations.DeleteShift(r.Context(), staffID, date)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班次成功", es)
}

func (h *Handler) MoveShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffID    int64  `json:"staffID" validate:"required"`
		Date       string `json:"date" validate:"required"`
		NewStaffID int64  `json:"newStaffID" validate:"required"`
		NewDate    string `json:"newDate" validate:"required"`
		Overwrite  bool   `json:"overwrite"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	sr, err := h.mutations.MoveShift(r.Context(), roster.MoveRequest{
		StaffID:    req.StaffID,
		Date:       req.Date,
		NewStaffID: req.NewStaffID,
		NewDate:    req.NewDate,
		Overwrite:  req.Overwrite,
	})
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "移动班次成功", sr)
}
