// Package apitest runs an in-memory copy of the backend REST API for tests.
package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sambo-academy-admin/internal/apiclient"
	"sambo-academy-admin/internal/models"
)

type failure struct {
	method string
	prefix string
	status int
	detail string
	once   bool
}

type attendanceRecord struct {
	id     string
	status models.AttendanceStatus
	notes  *string
}

// Backend keeps every resource in maps guarded by one mutex. Seed it with the
// Add* helpers and inspect it after the code under test has run.
type Backend struct {
	mu sync.Mutex

	Token    string
	Username string
	Password string
	User     models.User

	// KeepParticipants leaves participants behind when a tournament is
	// deleted, imitating a backend without the cascade.
	KeepParticipants bool

	groups        map[string]*models.Group
	students      map[string]*models.Student
	subscriptions map[string]*models.Subscription
	payments      map[string]*models.Payment
	attendance    map[string]map[string]attendanceRecord
	tournaments   map[string]*models.Tournament
	participants  map[string]*models.Participation
	prices        models.Prices

	failures []failure
	calls    []string

	server *httptest.Server
}

func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		Token:    "test-token",
		Username: "admin",
		Password: "admin",
		User: models.User{
			ID:       uuid.NewString(),
			Username: "admin",
			Email:    "admin@sambo.local",
			FullName: "Администратор",
			IsActive: true,
			IsAdmin:  true,
		},
		groups:        make(map[string]*models.Group),
		students:      make(map[string]*models.Student),
		subscriptions: make(map[string]*models.Subscription),
		payments:      make(map[string]*models.Payment),
		attendance:    make(map[string]map[string]attendanceRecord),
		tournaments:   make(map[string]*models.Tournament),
		participants:  make(map[string]*models.Participation),
		prices:        models.DefaultPrices,
	}
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	return b
}

// URL is the API base, the value API_BASE_URL would hold.
func (b *Backend) URL() string {
	return b.server.URL + "/api"
}

func (b *Backend) Client(opts ...apiclient.Option) *apiclient.Client {
	return apiclient.New(b.URL(), opts...)
}

// Context returns a context carrying the valid token.
func (b *Backend) Context() context.Context {
	return apiclient.WithToken(context.Background(), b.Token)
}

// FailOn makes every request whose path starts with prefix answer status.
func (b *Backend) FailOn(method, prefix string, status int, detail string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = append(b.failures, failure{method: method, prefix: prefix, status: status, detail: detail})
}

// FailOnce is FailOn for the next matching request only.
func (b *Backend) FailOnce(method, prefix string, status int, detail string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = append(b.failures, failure{method: method, prefix: prefix, status: status, detail: detail, once: true})
}

func (b *Backend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = nil
}

// Calls counts received requests with the method whose path starts with prefix.
func (b *Backend) Calls(method, prefix string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		m, p, _ := strings.Cut(c, " ")
		if m == method && strings.HasPrefix(p, prefix) {
			n++
		}
	}
	return n
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.intercept)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", b.login)
		r.Get("/settings/prices", b.getPrices)

		r.Group(func(r chi.Router) {
			r.Use(b.authorize)
			r.Get("/auth/me", b.me)

			r.Get("/groups", b.listGroups)
			r.Post("/groups", b.createGroup)
			r.Get("/groups/{id}", b.getGroup)
			r.Put("/groups/{id}", b.updateGroup)
			r.Delete("/groups/{id}", b.deleteGroup)

			r.Get("/students", b.listStudents)
			r.Post("/students", b.createStudent)
			r.Get("/students/{id}", b.getStudent)
			r.Put("/students/{id}", b.updateStudent)
			r.Delete("/students/{id}", b.deleteStudent)

			r.Post("/subscriptions", b.createSubscription)
			r.Get("/subscriptions/student/{id}", b.studentSubscriptions)
			r.Put("/subscriptions/{id}", b.updateSubscription)
			r.Delete("/subscriptions/{id}", b.deleteSubscription)

			r.Post("/payments", b.createPayment)
			r.Get("/payments/month/{year}/{month}", b.monthPayments)
			r.Put("/payments/{id}", b.updatePayment)
			r.Delete("/payments/{id}", b.deletePayment)
			r.Get("/payments/statistics/summary", b.paymentSummary)
			r.Get("/payments/unpaid-students", b.unpaidStudents)

			r.Post("/attendance/mark", b.markAttendance)
			r.Get("/attendance/date/{group}/{date}", b.attendanceByDate)
			r.Get("/attendance/statistics/summary", b.attendanceSummary)
			r.Get("/attendance/statistics/group-detail/{group}", b.groupDetail)

			r.Get("/tournaments", b.listTournaments)
			r.Post("/tournaments", b.createTournament)
			r.Get("/tournaments/{id}", b.getTournament)
			r.Put("/tournaments/{id}", b.updateTournament)
			r.Delete("/tournaments/{id}", b.deleteTournament)
			r.Get("/tournaments/{id}/results", b.tournamentResults)
			r.Post("/tournaments/{id}/participants", b.addParticipant)
			r.Put("/tournaments/{id}/participants/{pid}", b.updateParticipant)
			r.Delete("/tournaments/{id}/participants/{pid}", b.deleteParticipant)

			r.Put("/settings/prices/update", b.updatePrices)
		})
	})
	return r
}

func (b *Backend) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api")

		b.mu.Lock()
		b.calls = append(b.calls, r.Method+" "+path)
		var hit *failure
		for i, f := range b.failures {
			if f.method == r.Method && strings.HasPrefix(path, f.prefix) {
				hit = &f
				if f.once {
					b.failures = append(b.failures[:i], b.failures[i+1:]...)
				}
				break
			}
		}
		b.mu.Unlock()

		if hit != nil {
			writeDetail(w, hit.status, hit.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.Token {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

type fieldError struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

func writeValidation(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string][]fieldError{
		"detail": {{Loc: []string{"body", field}, Msg: msg}},
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body: "+err.Error())
		return false
	}
	return true
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if r.PostForm.Get("username") != b.Username || r.PostForm.Get("password") != b.Password {
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	writeJSON(w, http.StatusOK, models.Token{AccessToken: b.Token, TokenType: "bearer"})
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.User)
}

func (b *Backend) getPrices(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.prices)
}

func (b *Backend) updatePrices(w http.ResponseWriter, r *http.Request) {
	var prices models.Prices
	if !decode(w, r, &prices) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.User.IsAdmin {
		writeDetail(w, http.StatusForbidden, "Not enough permissions")
		return
	}
	b.prices = prices
	writeJSON(w, http.StatusOK, b.prices)
}
