package web

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type navItem struct {
	Path   string
	Label  string
	Icon   string
	Active bool
}

var navItems = []navItem{
	{Path: "/", Label: "Главная", Icon: "🏠"},
	{Path: "/groups", Label: "Группы", Icon: "👥"},
	{Path: "/students", Label: "Ученики", Icon: "🥋"},
	{Path: "/attendance", Label: "Посещаемость", Icon: "📅"},
	{Path: "/payments", Label: "Оплаты", Icon: "💳"},
	{Path: "/statistics", Label: "Статистика", Icon: "📊"},
	{Path: "/tournaments", Label: "Турниры", Icon: "🏆"},
	{Path: "/settings", Label: "Настройки", Icon: "⚙️"},
}

// buildNav marks the item for the current path. Settings are listed for
// administrators only.
func buildNav(current string, isAdmin bool) []navItem {
	out := make([]navItem, 0, len(navItems))
	for _, item := range navItems {
		if item.Path == "/settings" && !isAdmin {
			continue
		}
		if item.Path == "/" {
			item.Active = current == "/"
		} else {
			item.Active = current == item.Path || strings.HasPrefix(current, item.Path+"/")
		}
		out = append(out, item)
	}
	return out
}

// component serves a shared fragment. The page query parameter selects the
// highlighted nav item.
func (h *Handler) component(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(chi.URLParam(r, "name"), ".html")
	if !slices.Contains(componentNames, name) {
		http.NotFound(w, r)
		return
	}

	current := r.URL.Query().Get("page")
	if current == "" {
		current = "/"
	}
	s := sessionFrom(r.Context())
	p := &page{
		Path:    current,
		Nav:     buildNav(current, s != nil && s.IsAdmin),
		Session: s,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.components.ExecuteTemplate(w, name, p); err != nil {
		h.log.Error("render component", zap.String("component", name), zap.Error(err))
	}
}
