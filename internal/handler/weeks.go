package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) CloneWeek(w http.ResponseWriter, r *http.Request) {
	weekStart := r.Context().Value(WeekStartCtx).(string)

	var req struct {
		TargetWeekStart string `json:"targetWeekStart" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	report, err := h.batch.CloneWeek(r.Context(), weekStart, req.TargetWeekStart)
	if err != nil {
		// 存储错误发生时 report 可能带着部分进度，一并返回方便排查
		if report != nil {
			h.logInternalServerError(r, err)
			h.writeJSON(w, r, http.StatusInternalServerError, Response{
				Success: false,
				Message: "克隆中途失败，已完成的部分不会回滚",
				Data:    report,
			})
			return
		}
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "克隆周班表成功", report)
}

func (h *Handler) PublishWeek(w http.ResponseWriter, r *http.Request) {
	weekStart := r.Context().Value(WeekStartCtx).(string)

	result, err := h.batch.PublishWeek(r.Context(), weekStart)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "发布周班表成功", result)
}

func (h *Handler) GetWeekPublication(w http.ResponseWriter, r *http.Request) {
	weekStart := r.Context().Value(WeekStartCtx).(string)

	wp, err := h.repository.GetWeekPublication(weekStart)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取发布状态成功", wp)
}

func (h *Handler) GetCoverage(w http.ResponseWriter, r *http.Request) {
	weekStart := r.Context().Value(WeekStartCtx).(string)

	var staffIDs []int64
	if param := r.URL.Query().Get("staffIDs"); param != "" {
		for _, part := range strings.Split(param, ",") {
			staffID, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				h.errorResponse(w, r, "staffIDs 格式错误")
				return
			}
			staffIDs = append(staffIDs, staffID)
		}
	} else {
		allStaff, err := h.repository.GetAllStaff()
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		for _, staff := range allStaff {
			if staff.IsActive {
				staffIDs = append(staffIDs, staff.ID)
			}
		}
	}

	coverage, err := h.analytics.Coverage(r.Context(), weekStart, staffIDs)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取覆盖率成功", coverage)
}

func (h *Handler) GetWeeklyHours(w http.ResponseWriter, r *http.Request) {
	weekStart := r.Context().Value(WeekStartCtx).(string)

	staffIDParam := chi.URLParam(r, "staffID")
	staffID, err := strconv.ParseInt(staffIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "员工ID无效")
		return
	}

	report, err := h.analytics.WeeklyHours(r.Context(), staffID, weekStart)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取周工时成功", report)
}
