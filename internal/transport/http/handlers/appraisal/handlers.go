package appraisalhandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"appraisals/internal/domain/appraisal"
	"appraisals/internal/domain/audit"
	"appraisals/internal/domain/auth"
	"appraisals/internal/domain/reports"
	"appraisals/internal/platform/metrics"
	"appraisals/internal/transport/http/api"
	"appraisals/internal/transport/http/middleware"
	"appraisals/internal/transport/http/shared"
)

type Handler struct {
	Service     *appraisal.Service
	Reports     *reports.Service
	Audit       *audit.Service
	Metrics     *metrics.Collector
	Idempotency *middleware.IdempotencyStore
}

func NewHandler(service *appraisal.Service, reportsSvc *reports.Service, auditSvc *audit.Service, collector *metrics.Collector, idem *middleware.IdempotencyStore) *Handler {
	return &Handler{Service: service, Reports: reportsSvc, Audit: auditSvc, Metrics: collector, Idempotency: idem}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/appraisal", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAppraisalsRead)).Get("/cycles", h.handleListCycles)
		r.With(middleware.RequirePermission(auth.PermCyclesManage)).Post("/cycles", h.handleCreateCycle)
		r.With(middleware.RequirePermission(auth.PermAppraisalsRead)).Get("/cycles/{cycleID}", h.handleGetCycle)
		r.With(middleware.RequirePermission(auth.PermCyclesManage)).Post("/cycles/{cycleID}/status", h.handleAdvanceCycleStatus)
		r.With(middleware.RequirePermission(auth.PermCyclesManage)).Post("/cycles/{cycleID}/provision", h.handleProvisionCycle)
		r.With(middleware.RequirePermission(auth.PermAnalyticsRead)).Get("/cycles/{cycleID}/analytics", h.handleCycleAnalytics)
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/cycles/{cycleID}/report", h.handleCycleReport)

		r.With(middleware.RequirePermission(auth.PermAppraisalsRead)).Get("/templates", h.handleListTemplates)
		r.With(middleware.RequirePermission(auth.PermTemplatesManage)).Post("/templates", h.handleCreateTemplate)

		r.With(middleware.RequirePermission(auth.PermAppraisalsRead)).Get("/appraisals", h.handleListAppraisals)
		r.With(middleware.RequirePermission(auth.PermAppraisalsRead)).Get("/appraisals/{appraisalID}", h.handleGetAppraisal)
		r.With(middleware.RequirePermission(auth.PermAppraisalsWrite)).Post("/appraisals/{appraisalID}/self-review", h.handleSubmitSelfReview)
		r.With(middleware.RequirePermission(auth.PermAppraisalsReview)).Post("/appraisals/{appraisalID}/manager-review", h.handleSubmitManagerReview)
		r.With(middleware.RequirePermission(auth.PermAppraisalsHR)).Post("/appraisals/{appraisalID}/hr-review", h.handleSubmitHRReview)
		r.With(middleware.RequirePermission(auth.PermAppraisalsHR)).Post("/appraisals/{appraisalID}/cancel", h.handleCancelAppraisal)
		r.With(middleware.RequirePermission(auth.PermAppraisalsReview)).Put("/appraisals/{appraisalID}/fields", h.handleUpdateFields)

		r.With(middleware.RequirePermission(auth.PermAppraisalsRead)).Get("/appraisals/{appraisalID}/feedback360", h.handleListFeedback360)
		r.With(middleware.RequirePermission(auth.PermAppraisalsReview)).Post("/appraisals/{appraisalID}/feedback360", h.handleCreateFeedback360)
		r.With(middleware.RequirePermission(auth.PermAppraisalsWrite)).Post("/feedback360/{feedbackID}/submit", h.handleSubmitFeedback360)

		r.With(middleware.RequirePermission(auth.PermMaintenanceRun)).Post("/maintenance/fix-managers", h.handleFixManagers)
		r.With(middleware.RequirePermission(auth.PermMaintenanceRun)).Post("/maintenance/recalculate-ratings", h.handleRecalculateRatings)
	})
}

func (h *Handler) handleListCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := h.Service.ListCycles(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "cycle_list_failed", "failed to list cycles", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, cycles, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateCycle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Name        string `json:"name"`
		Year        int    `json:"year"`
		StartDate   string `json:"startDate"`
		EndDate     string `json:"endDate"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	start, startOK := v.Date("startDate", payload.StartDate)
	end, endOK := v.Date("endDate", payload.EndDate)
	if startOK && endOK {
		v.DateOrder("startDate", start, "endDate", end)
	}
	if payload.Year == 0 && startOK {
		payload.Year = start.Year()
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.CreateCycle(r.Context(), appraisal.Cycle{
		Name:        payload.Name,
		Year:        payload.Year,
		StartDate:   start,
		EndDate:     end,
		Description: payload.Description,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "cycle_create_failed", "failed to create cycle", middleware.GetRequestID(r.Context()))
		return
	}
	h.recordAudit(r, user.UserID, "appraisal.cycle.create", "cycle", id, payload)
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetCycle(w http.ResponseWriter, r *http.Request) {
	cycle, err := h.Service.GetCycle(r.Context(), chi.URLParam(r, "cycleID"))
	if err != nil {
		h.failFromError(w, r, err, "cycle_get_failed", "failed to load cycle")
		return
	}
	api.Success(w, cycle, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAdvanceCycleStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	cycleID := chi.URLParam(r, "cycleID")
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.AdvanceCycleStatus(r.Context(), cycleID, payload.Status); err != nil {
		h.failFromError(w, r, err, "cycle_status_failed", "failed to update cycle status")
		return
	}
	h.recordAudit(r, user.UserID, "appraisal.cycle.status", "cycle", cycleID, payload)
	api.Success(w, map[string]string{"id": cycleID, "status": payload.Status}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleProvisionCycle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	cycleID := chi.URLParam(r, "cycleID")
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	var payload struct {
		EmployeeIDs      []string `json:"employeeIds"`
		TemplateID       string   `json:"templateId"`
		ImportObjectives bool     `json:"importObjectives"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("templateId", payload.TemplateID, "template id is required")
	if len(payload.EmployeeIDs) == 0 {
		v.Add("employeeIds", "at least one employee is required")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	endpoint := "/appraisal/cycles/" + cycleID + "/provision"
	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	requestHash := middleware.RequestHash(raw)
	if idemKey != "" {
		stored, found, err := h.Idempotency.Check(r.Context(), user.UserID, endpoint, idemKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key already used with a different payload", middleware.GetRequestID(r.Context()))
			return
		}
		if err != nil {
			slog.Warn("idempotency check failed", "err", err)
		}
		if found {
			var result appraisal.ProvisionResult
			if err := json.Unmarshal(stored, &result); err == nil {
				api.Success(w, result, middleware.GetRequestID(r.Context()))
				return
			}
		}
	}

	result, err := h.Service.Provision(r.Context(), cycleID, payload.EmployeeIDs, payload.TemplateID, payload.ImportObjectives)
	if err != nil {
		h.failFromError(w, r, err, "provision_failed", "failed to provision cycle")
		return
	}

	if idemKey != "" {
		response, marshalErr := json.Marshal(result)
		if marshalErr == nil {
			if err := h.Idempotency.Save(r.Context(), user.UserID, endpoint, idemKey, requestHash, response); err != nil {
				slog.Warn("idempotency save failed", "err", err)
			}
		}
	}

	h.recordAudit(r, user.UserID, "appraisal.cycle.provision", "cycle", cycleID, map[string]any{
		"employees": len(payload.EmployeeIDs),
		"created":   len(result.Created),
		"skipped":   result.Skipped,
		"errors":    result.Errors,
	})
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCycleAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.Service.AnalyzeCycle(r.Context(), chi.URLParam(r, "cycleID"))
	if err != nil {
		h.failFromError(w, r, err, "analytics_failed", "failed to compute analytics")
		return
	}
	api.Success(w, analytics, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCycleReport(w http.ResponseWriter, r *http.Request) {
	cycleID := chi.URLParam(r, "cycleID")
	var buf bytes.Buffer
	if err := h.Reports.CycleSummaryPDF(r.Context(), cycleID, &buf); err != nil {
		h.failFromError(w, r, err, "report_failed", "failed to generate report")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="cycle-`+cycleID+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("report write failed", "err", err)
	}
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Service.ListTemplates(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "template_list_failed", "failed to list templates", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, templates, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var tmpl appraisal.Template
	if err := json.NewDecoder(r.Body).Decode(&tmpl); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.Service.CreateTemplate(r.Context(), tmpl)
	if err != nil {
		h.failFromError(w, r, err, "template_create_failed", "failed to create template")
		return
	}
	h.recordAudit(r, user.UserID, "appraisal.template.create", "template", id, map[string]string{"name": tmpl.Name})
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListAppraisals(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	filter := scopeListFilter(user, appraisal.Filter{
		CycleID:    r.URL.Query().Get("cycleId"),
		EmployeeID: r.URL.Query().Get("employeeId"),
		ManagerID:  r.URL.Query().Get("managerId"),
	})

	items, err := h.Service.ListAppraisals(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "appraisal_list_failed", "failed to list appraisals", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetAppraisal(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	a, err := h.Service.GetAppraisal(r.Context(), chi.URLParam(r, "appraisalID"))
	if err != nil {
		h.failFromError(w, r, err, "appraisal_get_failed", "failed to load appraisal")
		return
	}
	if user.Role == auth.RoleEmployee && a.EmployeeID != user.EmployeeID {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}
	if user.Role == auth.RoleManager && a.EmployeeID != user.EmployeeID && a.ManagerID != user.EmployeeID {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, a, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmitSelfReview(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	response, ok := decodeResponse(w, r)
	if !ok {
		return
	}

	appraisalID := chi.URLParam(r, "appraisalID")
	a, err := h.Service.SubmitSelfReview(r.Context(), appraisalID, user.EmployeeID, response)
	if err != nil {
		h.failFromError(w, r, err, "self_review_failed", "failed to submit self review")
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordSubmission()
	}
	h.recordAudit(r, user.UserID, "appraisal.self-review.submit", "appraisal", appraisalID, nil)
	api.Success(w, a, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmitManagerReview(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	response, ok := decodeResponse(w, r)
	if !ok {
		return
	}

	appraisalID := chi.URLParam(r, "appraisalID")
	a, err := h.Service.SubmitManagerReview(r.Context(), appraisalID, user.EmployeeID, response)
	if err != nil {
		h.failFromError(w, r, err, "manager_review_failed", "failed to submit manager review")
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordSubmission()
	}
	h.recordAudit(r, user.UserID, "appraisal.manager-review.submit", "appraisal", appraisalID, nil)
	api.Success(w, a, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmitHRReview(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	response, ok := decodeResponse(w, r)
	if !ok {
		return
	}

	appraisalID := chi.URLParam(r, "appraisalID")
	a, err := h.Service.SubmitHRReview(r.Context(), appraisalID, response)
	if err != nil {
		h.failFromError(w, r, err, "hr_review_failed", "failed to submit hr review")
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordSubmission()
	}
	h.recordAudit(r, user.UserID, "appraisal.hr-review.submit", "appraisal", appraisalID, nil)
	api.Success(w, a, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancelAppraisal(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	appraisalID := chi.URLParam(r, "appraisalID")
	if err := h.Service.Cancel(r.Context(), appraisalID); err != nil {
		h.failFromError(w, r, err, "cancel_failed", "failed to cancel appraisal")
		return
	}
	h.recordAudit(r, user.UserID, "appraisal.cancel", "appraisal", appraisalID, nil)
	api.Success(w, map[string]string{"id": appraisalID, "status": appraisal.StatusCancelled}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateFields(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	appraisalID := chi.URLParam(r, "appraisalID")
	var payload struct {
		Goals        []appraisal.Goal       `json:"goals"`
		Competencies []appraisal.Competency `json:"competencies"`
		Comments     *string                `json:"comments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if user.Role == auth.RoleManager {
		a, err := h.Service.GetAppraisal(r.Context(), appraisalID)
		if err != nil {
			h.failFromError(w, r, err, "appraisal_get_failed", "failed to load appraisal")
			return
		}
		if a.ManagerID != user.EmployeeID {
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
			return
		}
	}

	if err := h.Service.UpdateFields(r.Context(), appraisalID, payload.Goals, payload.Competencies, payload.Comments); err != nil {
		h.failFromError(w, r, err, "update_failed", "failed to update appraisal")
		return
	}
	h.recordAudit(r, user.UserID, "appraisal.fields.update", "appraisal", appraisalID, nil)
	api.Success(w, map[string]string{"id": appraisalID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListFeedback360(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListFeedback360(r.Context(), chi.URLParam(r, "appraisalID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "feedback_list_failed", "failed to list feedback", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateFeedback360(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	appraisalID := chi.URLParam(r, "appraisalID")
	var payload struct {
		ReviewerID   string `json:"reviewerId"`
		Relationship string `json:"relationship"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.Service.CreateFeedback360(r.Context(), appraisal.Feedback360{
		AppraisalID:  appraisalID,
		ReviewerID:   payload.ReviewerID,
		Relationship: payload.Relationship,
	})
	if err != nil {
		h.failFromError(w, r, err, "feedback_create_failed", "failed to request feedback")
		return
	}
	h.recordAudit(r, user.UserID, "appraisal.feedback360.create", "feedback360", id, payload)
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmitFeedback360(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	response, ok := decodeResponse(w, r)
	if !ok {
		return
	}

	feedbackID := chi.URLParam(r, "feedbackID")
	if err := h.Service.SubmitFeedback360(r.Context(), feedbackID, user.EmployeeID, response); err != nil {
		h.failFromError(w, r, err, "feedback_submit_failed", "failed to submit feedback")
		return
	}
	h.recordAudit(r, user.UserID, "appraisal.feedback360.submit", "feedback360", feedbackID, nil)
	api.Success(w, map[string]string{"id": feedbackID, "status": appraisal.Feedback360StatusCompleted}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleFixManagers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	result, err := h.Service.FixMissingManagers(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "repair_failed", "failed to repair manager links", middleware.GetRequestID(r.Context()))
		return
	}
	h.recordAudit(r, user.UserID, "appraisal.maintenance.fix-managers", "maintenance", "", result)
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecalculateRatings(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		CycleID string `json:"cycleId"`
	}
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	result, err := h.Service.RecalculateRatings(r.Context(), payload.CycleID)
	if err != nil {
		h.failFromError(w, r, err, "recalc_failed", "failed to recalculate ratings")
		return
	}
	h.recordAudit(r, user.UserID, "appraisal.maintenance.recalculate-ratings", "maintenance", payload.CycleID, result)
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

// scopeListFilter narrows a list filter to what the requester may see:
// employees only their own appraisals, managers their own plus their
// reports'. An employeeId filter for someone else's record is constrained by
// the manager relationship rather than trusted.
func scopeListFilter(user auth.UserContext, filter appraisal.Filter) appraisal.Filter {
	switch user.Role {
	case auth.RoleEmployee:
		filter.EmployeeID = user.EmployeeID
		filter.ManagerID = ""
	case auth.RoleManager:
		if filter.EmployeeID != user.EmployeeID {
			filter.ManagerID = user.EmployeeID
		}
	}
	return filter
}

func decodeResponse(w http.ResponseWriter, r *http.Request) (appraisal.Response, bool) {
	var response appraisal.Response
	if err := json.NewDecoder(r.Body).Decode(&response); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return appraisal.Response{}, false
	}
	if response.SubmittedAt.IsZero() {
		response.SubmittedAt = time.Now().UTC()
	}
	return response, true
}

func (h *Handler) failFromError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, appraisal.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "resource not found", reqID)
	case errors.Is(err, appraisal.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", reqID)
	case errors.Is(err, appraisal.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", "operation not allowed in current state", reqID)
	case errors.Is(err, appraisal.ErrValidation):
		api.Fail(w, http.StatusBadRequest, "validation_error", "payload validation failed", reqID)
	default:
		slog.Warn(code, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}

func (h *Handler) recordAudit(r *http.Request, actorID, action, entityType, entityID string, details any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), actorID, action, entityType, entityID, middleware.GetRequestID(r.Context()), details); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}
