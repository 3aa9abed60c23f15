package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/bensuskins/family-meals/internal/middleware"
	"github.com/bensuskins/family-meals/internal/models"
	"github.com/bensuskins/family-meals/internal/repository"
	"github.com/go-chi/chi/v5"
)

const defaultFamilyName = "Family"

type AdminHandler struct {
	userRepo     repository.UserRepository
	tokenRepo    repository.APITokenRepository
	settingsRepo repository.SettingsRepository
}

func NewAdminHandler(userRepo repository.UserRepository, tokenRepo repository.APITokenRepository, settingsRepo repository.SettingsRepository) *AdminHandler {
	return &AdminHandler{userRepo: userRepo, tokenRepo: tokenRepo, settingsRepo: settingsRepo}
}

type adminOverview struct {
	Users  []models.User     `json:"users"`
	Tokens []models.APIToken `json:"tokens"`
}

func (handler *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := handler.userRepo.FindAll(ctx)
	if err != nil {
		slog.Error("finding users", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load users")
		return
	}

	tokens, err := handler.tokenRepo.FindAll(ctx)
	if err != nil {
		slog.Error("finding tokens", "error", err)
	}

	writeJSON(w, http.StatusOK, adminOverview{Users: nonNil(users), Tokens: nonNil(tokens)})
}

func (handler *AdminHandler) PromoteUser(w http.ResponseWriter, r *http.Request) {
	handler.setRole(w, r, models.RoleAdmin)
}

// DemoteUser refuses to demote the acting admin so a household never locks
// itself out.
func (handler *AdminHandler) DemoteUser(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "id") == middleware.GetUser(r.Context()).ID {
		writeError(w, http.StatusBadRequest, "cannot demote yourself")
		return
	}
	handler.setRole(w, r, models.RoleMember)
}

func (handler *AdminHandler) setRole(w http.ResponseWriter, r *http.Request, role models.Role) {
	if err := handler.userRepo.UpdateRole(r.Context(), chi.URLParam(r, "id"), role); err != nil {
		writeNotFoundOrError(w, err, "user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *AdminHandler) Settings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		repository.SettingFamilyName: handler.settingsRepo.GetOrDefault(r.Context(), repository.SettingFamilyName, defaultFamilyName),
	})
}

func (handler *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	familyName := strings.TrimSpace(r.FormValue(repository.SettingFamilyName))
	if familyName == "" {
		writeError(w, http.StatusBadRequest, "family_name is required")
		return
	}

	if err := handler.settingsRepo.Set(r.Context(), repository.SettingFamilyName, familyName); err != nil {
		slog.Error("saving settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
