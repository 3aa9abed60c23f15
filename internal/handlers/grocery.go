package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/bensuskins/family-meals/internal/middleware"
	"github.com/bensuskins/family-meals/internal/models"
	"github.com/bensuskins/family-meals/internal/repository"
	"github.com/bensuskins/family-meals/internal/services"
	"github.com/go-chi/chi/v5"
)

type GroceryHandler struct {
	groceryService *services.GroceryService
	observeList    func(items int)
}

func NewGroceryHandler(groceryService *services.GroceryService) *GroceryHandler {
	return &GroceryHandler{groceryService: groceryService}
}

// ObserveLists registers a callback receiving the size of every list served.
func (handler *GroceryHandler) ObserveLists(observe func(items int)) {
	handler.observeList = observe
}

// List builds the grocery list of ?week_start=. ?meals= takes a comma
// separated list of meal keys; without it every planned meal is included.
func (handler *GroceryHandler) List(w http.ResponseWriter, r *http.Request) {
	var selected []string
	for _, key := range strings.Split(r.URL.Query().Get("meals"), ",") {
		if key = strings.TrimSpace(key); key != "" {
			selected = append(selected, key)
		}
	}

	list, err := handler.groceryService.BuildList(r.Context(), weekStartParam(r), selected)
	if err != nil {
		writeGroceryError(w, err, "building grocery list")
		return
	}
	if handler.observeList != nil {
		handler.observeList(len(list.Items))
	}
	writeJSON(w, http.StatusOK, list)
}

func (handler *GroceryHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := handler.groceryService.AddItem(ctx, models.ManualGroceryItem{
		WeekStart:       weekStartParam(r),
		Name:            name,
		Quantity:        optionalString(r.FormValue("quantity")),
		Unit:            optionalString(r.FormValue("unit")),
		Category:        strings.TrimSpace(r.FormValue("category")),
		CreatedByUserID: user.ID,
	})
	if err != nil {
		writeGroceryError(w, err, "adding grocery item")
		return
	}
	writeJSON(w, http.StatusCreated, created.GroceryItem())
}

func (handler *GroceryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := handler.groceryService.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeNotFoundOrError(w, err, "grocery item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Check sets the checked state of an item by name. checked defaults to true.
func (handler *GroceryHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	checked := true
	if value := r.FormValue("checked"); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			writeError(w, http.StatusBadRequest, "checked must be true or false")
			return
		}
		checked = parsed
	}

	name := r.FormValue("name")
	if strings.TrimSpace(name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := handler.groceryService.SetChecked(r.Context(), weekStartParam(r), name, checked); err != nil {
		writeGroceryError(w, err, "checking grocery item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *GroceryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	if err := handler.groceryService.ClearWeek(r.Context(), weekStartParam(r)); err != nil {
		writeGroceryError(w, err, "clearing grocery list")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeGroceryError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, services.ErrInvalidWeek):
		writeError(w, http.StatusBadRequest, err.Error())
	case repository.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not found")
	default:
		slog.Error(action, "error", err)
		writeError(w, http.StatusInternalServerError, "failed "+action)
	}
}
