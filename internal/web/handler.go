// Package web serves the admin pages. Every page is rendered on the server
// from data fetched through the services; mutations are plain form posts
// followed by a redirect.
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/models/config"
	"sambo-academy-admin/internal/service"
	"sambo-academy-admin/internal/session"
)

type Params struct {
	fx.In

	Config   *config.Config
	Log      *zap.Logger
	Sessions session.Store
	Metrics  http.Handler `name:"metrics"`

	Users       service.UserService
	Groups      service.GroupService
	Students    service.StudentService
	Attendance  service.AttendanceService
	Payments    service.PaymentService
	Statistics  service.StatisticsService
	Tournaments service.TournamentService
	Settings    service.SettingsService
}

type Handler struct {
	cfg      *config.Config
	log      *zap.Logger
	sessions session.Store
	metrics  http.Handler
	tmpl     *templates
	// clock gives the school calendar its "today". Session expiry uses real time.
	clock    func() time.Time

	users       service.UserService
	groups      service.GroupService
	students    service.StudentService
	attendance  service.AttendanceService
	payments    service.PaymentService
	statistics  service.StatisticsService
	tournaments service.TournamentService
	settings    service.SettingsService
}

func NewHandler(p Params) (*Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	metrics := p.Metrics
	if metrics == nil {
		metrics = http.NotFoundHandler()
	}
	return &Handler{
		cfg:         p.Config,
		log:         p.Log,
		sessions:    p.Sessions,
		metrics:     metrics,
		tmpl:        tmpl,
		clock:       time.Now,
		users:       p.Users,
		groups:      p.Groups,
		students:    p.Students,
		attendance:  p.Attendance,
		payments:    p.Payments,
		statistics:  p.Statistics,
		tournaments: p.Tournaments,
		settings:    p.Settings,
	}, nil
}

// today is the current date in the school's time zone.
func (h *Handler) today() models.Date {
	loc := h.cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return models.DateOf(h.clock().In(loc))
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", h.metrics)
	r.Handle("/static/*", staticHandler())

	r.Group(func(r chi.Router) {
		r.Use(h.loadSession)

		r.Get("/login", h.loginPage)
		r.Post("/login", h.login)
		r.Get("/logout", h.logout)
		r.Post("/logout", h.logout)
		r.Get("/templates/components/{name}", h.component)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)

			r.Get("/", h.dashboard)

			r.Get("/groups", h.groupsPage)
			r.Post("/groups", h.createGroup)
			r.Post("/groups/{id}", h.updateGroup)
			r.Post("/groups/{id}/delete", h.deleteGroup)

			r.Get("/students", h.studentsPage)
			r.Post("/students", h.createStudent)
			r.Post("/students/{id}", h.updateStudent)
			r.Post("/students/{id}/delete", h.deleteStudent)

			r.Get("/attendance", h.attendancePage)
			r.Post("/attendance", h.submitAttendance)

			r.Get("/payments", h.paymentsPage)
			r.Get("/payments/export", h.exportPayments)
			r.Post("/payments/quick", h.quickPayment)
			r.Post("/payments/custom", h.customPayment)
			r.Post("/payments/{id}", h.updatePayment)
			r.Post("/payments/{id}/cancel", h.cancelPayment)

			r.Get("/statistics", h.statisticsPage)
			r.Get("/statistics/unpaid/export", h.exportUnpaid)

			r.Get("/tournaments", h.tournamentsPage)
			r.Post("/tournaments", h.createTournament)
			r.Post("/tournaments/{id}", h.updateTournament)
			r.Post("/tournaments/{id}/delete", h.deleteTournament)
			r.Post("/tournaments/{id}/participants", h.addParticipant)
			r.Post("/tournaments/{id}/participants/{pid}", h.updateParticipant)
			r.Post("/tournaments/{id}/participants/{pid}/delete", h.deleteParticipant)

			r.Get("/settings", h.settingsPage)
			r.Post("/settings", h.saveSettings)
		})
	})

	return r
}
