package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/bensuskins/family-meals/internal/middleware"
	"github.com/bensuskins/family-meals/internal/services"
)

const (
	stateCookieName = "family_meals_oauth_state"
	nextCookieName  = "family_meals_next"
	loginFlowMaxAge = 300
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginPage starts the OIDC flow, remembering ?next= so the callback can
// return to the planner page that required a login. Without OIDC it signs in
// the development admin directly.
func (handler *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	next := localPath(r.URL.Query().Get("next"))

	if !handler.authService.OIDCConfigured() {
		user, err := handler.authService.DevLogin(r.Context())
		if err != nil {
			slog.Error("development login", "error", err)
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}
		handler.startSession(w, r, user.ID, next)
		return
	}

	state, err := handler.authService.GenerateState()
	if err != nil {
		slog.Error("generating state", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	setFlowCookie(w, stateCookieName, state, loginFlowMaxAge)
	setFlowCookie(w, nextCookieName, next, loginFlowMaxAge)

	http.Redirect(w, r, handler.authService.LoginURL(state), http.StatusFound)
}

func (handler *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing state cookie")
		return
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		writeError(w, http.StatusBadRequest, "invalid state")
		return
	}

	next := "/"
	if nextCookie, err := r.Cookie(nextCookieName); err == nil {
		next = localPath(nextCookie.Value)
	}
	setFlowCookie(w, stateCookieName, "", -1)
	setFlowCookie(w, nextCookieName, "", -1)

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing code")
		return
	}

	user, err := handler.authService.HandleCallback(r.Context(), code)
	if err != nil {
		slog.Error("handling callback", "error", err)
		writeError(w, http.StatusUnauthorized, "authentication failed")
		return
	}

	handler.startSession(w, r, user.ID, next)
}

func (handler *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	handler.authService.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Me returns the signed-in household member.
func (handler *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, middleware.GetUser(r.Context()))
}

func (handler *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID string, next string) {
	if err := handler.authService.SetSession(w, userID); err != nil {
		slog.Error("setting session", "error", err)
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	http.Redirect(w, r, next, http.StatusFound)
}

func setFlowCookie(w http.ResponseWriter, name string, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// localPath keeps redirects on this host: anything that is not an absolute
// path, or that starts with // or /\, becomes "/".
func localPath(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}
