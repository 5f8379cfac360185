package web

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sambo-academy-admin/internal/apiclient"
	"sambo-academy-admin/internal/service"
	payment_service "sambo-academy-admin/internal/service/payment"
	tournament_service "sambo-academy-admin/internal/service/tournament"
	"sambo-academy-admin/internal/session"
)

type errorPage struct {
	Message string
	Back    string
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// redirect stores an optional flash message and answers 303.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, to string, kind session.FlashKind, msg string) {
	if s := sessionFrom(r.Context()); s != nil && msg != "" {
		s.AddFlash(kind, msg)
		if err := h.sessions.Save(r.Context(), s); err != nil {
			h.log.Warn("save flash", zap.Error(err))
		}
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *Handler) success(w http.ResponseWriter, r *http.Request, to, msg string) {
	h.redirect(w, r, to, session.FlashSuccess, msg)
}

// toLogin ends the session after the API rejected its token.
func (h *Handler) toLogin(w http.ResponseWriter, r *http.Request) {
	if s := sessionFrom(r.Context()); s != nil {
		if err := h.sessions.Delete(r.Context(), s.ID); err != nil {
			h.log.Warn("delete session", zap.Error(err))
		}
	}
	h.clearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// fail handles a failed mutation: the user goes back with the error in a
// flash message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, back string) {
	if apiclient.IsUnauthorized(err) {
		h.toLogin(w, r)
		return
	}
	if errors.Is(err, service.ErrForbidden) {
		h.redirect(w, r, "/", session.FlashError, "Недостаточно прав для этого действия")
		return
	}

	var ve *service.ValidationError
	if errors.As(err, &ve) {
		h.redirect(w, r, back, session.FlashError, "Проверьте форму: "+ve.Error())
		return
	}

	h.log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	h.redirect(w, r, back, session.FlashError, userMessage(err))
}

// loadFailed handles a page whose data could not be fetched.
func (h *Handler) loadFailed(w http.ResponseWriter, r *http.Request, err error) {
	if apiclient.IsUnauthorized(err) {
		h.toLogin(w, r)
		return
	}
	h.log.Error("load page",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	status := http.StatusInternalServerError
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		status = http.StatusBadGateway
	}
	h.render(w, r, status, "error", "Ошибка", errorPage{Message: userMessage(err), Back: "/"})
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, payment_service.ErrOrphanedSubscription):
		return "Операция не завершена: абонемент остался без оплаты. Администраторы уведомлены"
	case errors.Is(err, payment_service.ErrPaymentNotFound):
		return "Оплата не найдена"
	case errors.Is(err, tournament_service.ErrCascadeIncomplete):
		return "Турнир удалён, но его участники остались в базе"
	}
	return apiclient.Message(err)
}
