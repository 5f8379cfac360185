package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/service"
	"sambo-academy-admin/internal/session"
)

//go:embed templates static
var assets embed.FS

var pageNames = []string{
	"login", "dashboard", "groups", "students", "attendance",
	"payments", "statistics", "tournaments", "settings", "error",
}

// componentNames are the fragments served on /templates/components/{name}.html.
var componentNames = []string{"header", "nav"}

type templates struct {
	pages      map[string]*template.Template
	components *template.Template
}

var funcs = template.FuncMap{
	"money": func(m models.Money) string { return m.String() + " ₽" },
	"date":  func(d models.Date) string { return d.Display() },
	"monthLabel": func(m models.Month) string { return m.Label() },
	"weekday": func(d models.Date) string {
		return [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}[d.Weekday()]
	},
	"statuses": func() []models.AttendanceStatus { return models.AttendanceStatuses },
	"subscriptionTypes": func() []models.SubscriptionType {
		return []models.SubscriptionType{models.Subscription8, models.Subscription12}
	},
	"tabs": func() []service.StatisticsTab { return service.StatisticsTabs },
	"modalClass": func(current, name string) string {
		if current == name {
			return "modal active"
		}
		return "modal"
	},
	"percent": func(f float64) string { return strings.TrimSuffix(strings.TrimRight(formatFloat(f), "0"), ".") + "%" },
	"derefInt": func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	},
	"contains": func(list []string, s string) bool {
		for _, v := range list {
			if v == s {
				return true
			}
		}
		return false
	},
	"monthName": func(m int) string { return models.MonthName(time.Month(m)) },
	"mark": func(s *models.AttendanceStatus) string {
		if s == nil {
			return ""
		}
		switch *s {
		case models.StatusPresent:
			return "✓"
		case models.StatusAbsent:
			return "✗"
		case models.StatusTransferred:
			return "→"
		}
		return ""
	},
}

func parseTemplates() (*templates, error) {
	base, err := template.New("").Funcs(funcs).ParseFS(assets, "templates/layout.html", "templates/components/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse layout")
	}

	t := &templates{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, errors.Wrap(err, "clone layout")
		}
		if _, err := clone.ParseFS(assets, "templates/pages/"+name+".html"); err != nil {
			return nil, errors.Wrapf(err, "parse page %s", name)
		}
		t.pages[name] = clone
	}

	t.components, err = template.New("").Funcs(funcs).ParseFS(assets, "templates/components/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse components")
	}
	return t, nil
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// page is what every template receives; Data holds the per-view state.
type page struct {
	Title   string
	Path    string
	Nav     []navItem
	Session *session.Session
	Flashes []session.Flash
	Modal   string
	Data    any
}

func (h *Handler) newPage(r *http.Request, title string, data any) *page {
	p := &page{
		Title: title,
		Path:  r.URL.Path,
		Modal: r.URL.Query().Get("modal"),
		Data:  data,
	}
	s := sessionFrom(r.Context())
	p.Session = s
	p.Nav = buildNav(r.URL.Path, s != nil && s.IsAdmin)
	if s != nil && len(s.Flashes) > 0 {
		p.Flashes = s.PopFlashes()
		if err := h.sessions.Save(r.Context(), s); err != nil {
			h.log.Warn("save session", zap.Error(err))
		}
	}
	return p
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	h.renderPage(w, status, name, h.newPage(r, title, data))
}

func (h *Handler) renderPage(w http.ResponseWriter, status int, name string, p *page) {
	tmpl, ok := h.tmpl.pages[name]
	if !ok {
		h.log.Error("unknown page", zap.String("page", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		h.log.Error("render page", zap.String("page", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
