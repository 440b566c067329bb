package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/repository"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/roster"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository *repository.Repository
	translator ut.Translator
	engine     *roster.Engine
	mutations  *roster.MutationService
	batch      *roster.BatchService
	analytics  *roster.AnalyticsService

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, engine *roster.Engine, mutations *roster.MutationService, batch *roster.BatchService, analytics *roster.AnalyticsService) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		translator: trans,
		engine:     engine,
		mutations:  mutations,
		batch:      batch,
		analytics:  analytics,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 员工目录（只读）
	h.Mux.Route("/staff", func(r chi.Router) {
		r.Get("/", h.GetAllStaff)
		r.Route("/{staffID}", func(r chi.Router) {
			r.Use(h.staffInfo)
			r.Get("/default-schedules", h.GetStaffDefaultSchedules)
		})
	})

	// 默认班表模板
	h.Mux.Post("/default-schedules", h.CreateDefaultSchedule)

	// 合并后的班次（只读）
	h.Mux.Route("/roster", func(r chi.Router) {
		r.Get("/", h.GetEffectiveWeek)
		r.With(h.shiftSlot).Get("/{staffID}/{date}", h.GetEffectiveShift)
	})

	// 班次记录的写操作
	h.Mux.Route("/shifts", func(r chi.Router) {
		r.Post("/", h.CreateManualShift)
		r.Post("/move", h.MoveShift)
		r.Route("/{staffID}/{date}", func(r chi.Router) {
			r.Use(h.shiftSlot)
			r.Patch("/", h.EditOccurrence)
			r.Delete("/", h.DeleteShift)
		})
	})

	// 周级别的批量操作和分析
	h.Mux.Route("/weeks/{weekStart}", func(r chi.Router) {
		r.Use(h.week)
		r.Post("/clone", h.CloneWeek)
		r.Post("/publish", h.PublishWeek)
		r.Get("/publication", h.GetWeekPublication)
		r.Get("/coverage", h.GetCoverage)
		r.Get("/hours/{staffID}", h.GetWeeklyHours)
	})
}
