package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/planta-aurora/backoffice/backend/internal/attendance"
	"github.com/planta-aurora/backoffice/backend/internal/config"
	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/planta-aurora/backoffice/backend/internal/importer"
	"github.com/planta-aurora/backoffice/backend/internal/repository"
	"github.com/planta-aurora/backoffice/backend/internal/rut"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client
	notifier    *domain.Notifier
	analyzer    *attendance.Analyzer
	roster      *importer.RosterImporter
	markings    *importer.MarkingImporter

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	es := es.New()
	uni := ut.New(es, es)
	trans, _ := uni.GetTranslator("es")
	if err := es_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	if err := validate.RegisterValidation("rut", func(fl validator.FieldLevel) bool {
		return rut.Valid(fl.Field().String())
	}); err != nil {
		return nil, err
	}
	if err := validate.RegisterTranslation("rut", trans, func(ut ut.Translator) error {
		return ut.Add("rut", "{0} no es un RUT válido", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("rut", fe.Field())
		return t
	}); err != nil {
		return nil, err
	}

	notifier := domain.NewNotifier()
	logger := slog.Default()

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		notifier:    notifier,
		analyzer:    attendance.NewAnalyzer(repo, cfg.Analysis.AbsenceMinutes, logger),
		roster:      importer.NewRosterImporter(repo, notifier, cfg.Import.MaxReportedErrors, logger),
		markings:    importer.NewMarkingImporter(repo, cfg.Import.MaxReportedErrors, logger),

		Mux: chi.NewRouter(),
	}, nil
}

// Notifier expone el bus de eventos de dotación para que main registre
// los callbacks que necesite (auditoría, correo, etc).
func (h *Handler) Notifier() *domain.Notifier {
	return h.notifier
}

// Analyzer expone el motor de análisis para el scheduler de cron.
func (h *Handler) Analyzer() *attendance.Analyzer {
	return h.analyzer
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// autenticación
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// todo lo demás exige sesión iniciada
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).Delete("/", h.DeleteUser)
				r.Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/workers", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor, domain.RoleAdmin})).Post("/import", h.ImportRoster)
			r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor, domain.RoleAdmin})).Post("/", h.CreateWorker)
			r.Get("/", h.GetAllWorkers)
			r.Route("/{rut}", func(r chi.Router) {
				r.Use(h.worker)
				r.Get("/", h.GetWorker)
				r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor, domain.RoleAdmin})).Patch("/", h.UpdateWorker)
				r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor, domain.RoleAdmin})).Post("/block", h.BlockWorker)
				r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor, domain.RoleAdmin})).Post("/unblock", h.UnblockWorker)
			})
		})

		r.Route("/schedule-rules", func(r chi.Router) {
			r.Get("/", h.GetAllScheduleRules)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateScheduleRule)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.scheduleRule)
				r.Get("/", h.GetScheduleRule)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateScheduleRule)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteScheduleRule)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor, domain.RoleAdmin})).Post("/import", h.ImportMarkings)
			r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor, domain.RoleAdmin})).Post("/analyze", h.AnalyzeDay)
			r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor, domain.RoleAdmin})).Post("/analyze-range", h.AnalyzeRange)
			r.Get("/anomalies", h.GetAnomalies)
			r.Get("/summary", h.GetAnomalySummary)
			r.Get("/days", h.GetAttendanceDays)
			r.Get("/batches", h.GetImportBatches)
		})

		r.Route("/visits", func(r chi.Router) {
			r.Post("/", h.RegisterVisitEntry)
			r.Get("/inside", h.GetVisitsInside)
			r.Get("/history", h.GetVisitHistory)
			r.Get("/lookup/{rut}", h.LookupVisitorRUT)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.visit)
				r.Get("/", h.GetVisit)
				r.Post("/exit", h.RegisterVisitExit)
			})
		})

		r.Route("/transport", func(r chi.Router) {
			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", h.GetAllVehicles)
				r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor, domain.RoleAdmin})).Post("/", h.CreateVehicle)
				r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor, domain.RoleAdmin})).Patch("/{id}", h.UpdateVehicle)
			})
			r.Route("/drivers", func(r chi.Router) {
				r.Get("/", h.GetAllDrivers)
				r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor, domain.RoleAdmin})).Post("/", h.CreateDriver)
			})
			r.Route("/routes", func(r chi.Router) {
				r.Get("/", h.GetAllRoutes)
				r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor, domain.RoleAdmin})).Post("/", h.CreateRoute)
			})
			r.Route("/departures", func(r chi.Router) {
				r.Post("/", h.RegisterDeparture)
				r.Get("/", h.GetDepartures)
			})
			r.Get("/kpis", h.GetTransportKPIs)
		})
	})
}
