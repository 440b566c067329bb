package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// staffInfo 解析 {staffID} 并把对应的员工信息附在 context 中
func (h *Handler) staffInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staffIDParam := chi.URLParam(r, "staffID")
		staffID, err := strconv.ParseInt(staffIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "员工ID无效")
			return
		}

		staff, err := h.repository.GetStaffByID(staffID)
		if err != nil {
			h.domainError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), StaffInfoCtx, staff)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// shiftSlot 解析 {staffID} 和 {date} 这一对格子坐标并附在 context 中
func (h *Handler) shiftSlot(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staffIDParam := chi.URLParam(r, "staffID")
		staffID, err := strconv.ParseInt(staffIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "员工ID无效")
			return
		}

		date := chi.URLParam(r, "date")
		if !utils.IsValidDate(date) {
			h.errorResponse(w, r, "日期格式错误，应为 2006-01-02")
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, StaffIDCtx, staffID)
		ctx = context.WithValue(ctx, DateCtx, date)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// week 解析 {weekStart} 并检查它是不是周一
func (h *Handler) week(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		weekStart := chi.URLParam(r, "weekStart")
		if !utils.IsWeekStart(weekStart) {
			h.errorResponse(w, r, "weekStart 必须是周一，格式为 2006-01-02")
			return
		}

		ctx := context.WithValue(r.Context(), WeekStartCtx, weekStart)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
