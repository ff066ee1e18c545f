package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/config"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 内部接口由 cron 定时调用，用令牌而不是 JWT 鉴权
	h.Mux.Route("/internal", func(r chi.Router) {
		r.Use(h.tickToken)
		r.Post("/rollcall-tick", h.RollCallTick)
		r.Post("/rollcall-expire", h.RollCallExpire)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Post("/start", h.StartWork)
			r.Post("/stop", h.StopSession)
			r.Post("/start-lunch", h.StartLunch)
			r.Post("/end-lunch", h.EndBreakSession)
			r.Post("/start-break", h.StartShortBreak)
			r.Post("/end-break", h.EndBreakSession)
			r.Get("/open", h.GetOpenSession)
		})

		r.Route("/roll-calls", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/pending", h.GetMyPendingRollCall)
			r.Post("/{id}/respond", h.RespondRollCall)
		})

		r.Route("/summaries", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/me/day", h.GetMyDaySummary)
			r.Get("/me/range", h.GetMyRangeSummary)
			// 查看他人的汇总需要管理员权限
			r.Route("/users/{id}", func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
				r.Use(h.userInfo)
				r.Get("/day", h.GetUserDaySummary)
				r.Get("/range", h.GetUserRangeSummary)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.myInfo)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateUser)
			r.Get("/", h.GetOrgUsers) // 组织内的成员互相可见
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteUser)
			})
		})

		r.Route("/shift-templates", func(r chi.Router) {
			r.Use(h.myInfo)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateShiftTemplate)
			r.Get("/", h.GetOrgShiftTemplates)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftTemplate)
				r.Get("/", h.GetShiftTemplate)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateShiftTemplate)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteShiftTemplate)
			})
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/assignments", h.CreateShiftAssignment)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/assignments/{id}", h.DeleteShiftAssignment)
		})

		r.Route("/organization", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyOrganization)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateMyOrganization)
		})

		r.Route("/leaves", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Post("/", h.CreateLeave)
			r.Delete("/{id}", h.DeleteLeave)
			r.Get("/", h.GetLeavesByDate)
		})
	})
}
