package handler

import (
	"net/http"
	"strconv"
	"strings"
)

func (h *Handler) GetEffectiveShift(w http.ResponseWriter, r *http.Request) {
	staffID := r.Context().Value(StaffIDCtx).(int64)
	date := r.Context().Value(DateCtx).(string)

	es, err := h.engine.Resolve(staffID, date)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次成功", es)
}

// GetEffectiveWeek 返回一批员工某一周的合并结果。
// weekStart 和逗号分隔的 staffIDs 通过查询参数传入，
// staffIDs 缺省时使用全部在职员工。
func (h *Handler) GetEffectiveWeek(w http.ResponseWriter, r *http.Request) {
	weekStart := r.URL.Query().Get("weekStart")

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

	effective, err := h.engine.ResolveWeek(r.Context(), staffIDs, weekStart)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取周班表成功", effective)
}
