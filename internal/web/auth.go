package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sambo-academy-admin/internal/apiclient"
	"sambo-academy-admin/internal/service"
	"sambo-academy-admin/internal/session"
)

type loginPage struct {
	Username string
	Error    string
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "login", "Вход", loginPage{})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	token, err := h.users.Login(r.Context(), username, password)
	if err != nil {
		h.log.Info("login failed", zap.String("username", username), zap.Error(err))
		h.render(w, r, http.StatusOK, "login", "Вход", loginPage{
			Username: username,
			Error:    loginMessage(err),
		})
		return
	}

	user, err := h.users.CurrentUser(apiclient.WithToken(r.Context(), token.AccessToken))
	if err != nil {
		h.log.Error("load current user", zap.Error(err))
		h.render(w, r, http.StatusOK, "login", "Вход", loginPage{
			Username: username,
			Error:    apiclient.Message(err),
		})
		return
	}

	// сессия живёт не дольше токена
	expires := time.Now().Add(h.cfg.Session.TTL)
	if exp, ok := apiclient.TokenExpiry(token.AccessToken); ok && exp.Before(expires) {
		expires = exp
	}

	s := session.New(token.AccessToken, user.FullName, user.IsAdmin, expires)
	if s.UserName == "" {
		s.UserName = user.Username
	}
	if err := h.sessions.Save(r.Context(), s); err != nil {
		h.log.Error("save session", zap.Error(err))
		h.render(w, r, http.StatusInternalServerError, "login", "Вход", loginPage{
			Username: username,
			Error:    "Не удалось начать сессию, попробуйте ещё раз",
		})
		return
	}

	h.log.Info("user logged in", zap.String("username", user.Username), zap.Bool("admin", user.IsAdmin))
	h.setCookie(w, s)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// loginMessage shows the backend's detail for rejected credentials.
func loginMessage(err error) string {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		for _, msg := range ve.Fields {
			return msg
		}
	}
	return apiclient.Message(err)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if s := sessionFrom(r.Context()); s != nil {
		if err := h.sessions.Delete(r.Context(), s.ID); err != nil {
			h.log.Warn("delete session", zap.Error(err))
		}
	}
	h.clearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
