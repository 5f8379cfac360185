package web

import (
	"net/http"

	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/session"
)

func (h *Handler) settingsPage(w http.ResponseWriter, r *http.Request) {
	if s := sessionFrom(r.Context()); !s.IsAdmin {
		h.redirect(w, r, "/", session.FlashError, "Настройки доступны только администраторам")
		return
	}

	prices, err := h.settings.GetPrices(r.Context())
	if err != nil {
		h.loadFailed(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "settings", "Настройки", prices)
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	user := &models.User{Username: s.UserName, IsAdmin: s.IsAdmin}

	if _, err := h.settings.UpdatePrices(r.Context(), user, pricesInput(r)); err != nil {
		h.fail(w, r, err, "/settings")
		return
	}
	h.success(w, r, "/settings", "Цены сохранены")
}
