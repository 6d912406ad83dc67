package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/Naveedahmedtech/OLO-Backend/internal/billing"
	"github.com/Naveedahmedtech/OLO-Backend/internal/config"
	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
	"github.com/Naveedahmedtech/OLO-Backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client
	pricing     billing.PricingResolver

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client, pricing billing.PricingResolver) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		pricing:     pricing,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// everything below requires a logged-in caller
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.myInfo)

		r.Get("/my-info", h.GetMyInfo)

		r.Route("/shift-requests", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleParticipant, domain.RoleAdmin})).Post("/", h.CreateShiftRequest)
			r.Get("/", h.ListShiftRequests)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftRequest)
				r.Get("/", h.GetShiftRequest)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/approve", h.ApproveShiftRequest)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/decline", h.DeclineShiftRequest)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/cancel", h.CancelShiftRequest)
			})
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleTrainer}))
			r.Use(h.trainerProfile)
			r.Post("/clock-in", h.ClockIn)
			r.Post("/clock-out", h.ClockOut)
			r.Get("/active", h.GetActiveShift)
		})

		r.Route("/timesheets", func(r chi.Router) {
			r.Get("/", h.ListTimesheets)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.timesheet)
				r.Get("/", h.GetTimesheet)
				r.Get("/export", h.ExportTimesheet)
				r.With(h.RequiredRole([]domain.Role{domain.RoleTrainer})).With(h.trainerProfile).Post("/submit", h.SubmitTimesheet)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/approve", h.ApproveTimesheet)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/reopen", h.ReopenTimesheet)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/mark-paid", h.MarkTimesheetPaid)
			})
		})

		r.Get("/dashboard", h.GetDashboard)

		r.Route("/trainers", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Get("/", h.GetAllTrainers)
			r.Post("/{id}/approve-onboarding", h.ApproveTrainerOnboarding)
		})
	})
}
