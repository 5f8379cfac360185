package web

import "net/http"

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.groups.Dashboard(r.Context())
	if err != nil {
		h.loadFailed(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "dashboard", "Главная", view)
}
