package handler

import (
	"net/http"
)

func (h *Handler) GetAllStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.repository.GetAllStaff()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", staff)
}
