package objectiveshandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"appraisals/internal/domain/auth"
	"appraisals/internal/domain/objectives"
	"appraisals/internal/transport/http/api"
	"appraisals/internal/transport/http/middleware"
	"appraisals/internal/transport/http/shared"
)

type Handler struct {
	Store *objectives.Store
}

func NewHandler(store *objectives.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/objectives", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAppraisalsRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermSystemAdmin)).Post("/", h.handleCreate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListObjectives(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "objective_list_failed", "failed to list objectives", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var obj objectives.Objective
	if err := json.NewDecoder(r.Body).Decode(&obj); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("title", obj.Title, "title is required")
	if obj.Level == "" {
		obj.Level = objectives.LevelIndividual
	}
	v.Enum("level", obj.Level, []string{objectives.LevelIndividual, objectives.LevelTeam, objectives.LevelCompany}, "unknown objective level")
	if obj.Progress < 0 || obj.Progress > 100 {
		v.Add("progress", "progress must be between 0 and 100")
	}
	if obj.Status == "" {
		obj.Status = "active"
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateObjective(r.Context(), obj)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "objective_create_failed", "failed to create objective", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}
