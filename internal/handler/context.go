package handler

type ContextKey string

var (
	StaffInfoCtx ContextKey = "staffInfo"
	StaffIDCtx   ContextKey = "staffID"
	DateCtx      ContextKey = "date"
	WeekStartCtx ContextKey = "weekStart"
)
