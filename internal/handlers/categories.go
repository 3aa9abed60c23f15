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

type CategoryHandler struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryHandler(categoryRepo repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categoryRepo: categoryRepo}
}

// List returns recipe categories by name, each with the number of recipes in it.
func (handler *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := handler.categoryRepo.FindAll(r.Context())
	if err != nil {
		slog.Error("finding categories", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(categories))
}

func (handler *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name, ok := handler.availableName(w, r, "")
	if !ok {
		return
	}

	created, err := handler.categoryRepo.Create(ctx, models.Category{Name: name, CreatedByUserID: middleware.GetUser(ctx).ID})
	if err != nil {
		slog.Error("creating category", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create category")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (handler *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	name, ok := handler.availableName(w, r, id)
	if !ok {
		return
	}

	if err := handler.categoryRepo.Rename(r.Context(), id, name); err != nil {
		writeNotFoundOrError(w, err, "category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a category. Recipes in it become uncategorized.
func (handler *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := handler.categoryRepo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeNotFoundOrError(w, err, "category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// availableName reads the name field and rejects blanks and names already used
// by a category other than selfID, writing the error response itself.
func (handler *CategoryHandler) availableName(w http.ResponseWriter, r *http.Request, selfID string) (string, bool) {
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return "", false
	}

	existing, err := handler.categoryRepo.FindByName(r.Context(), name)
	switch {
	case err == nil && existing.ID != selfID:
		writeError(w, http.StatusConflict, "a category with that name already exists")
		return "", false
	case err != nil && !repository.IsNotFound(err):
		slog.Error("finding category by name", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save category")
		return "", false
	}
	return name, true
}
