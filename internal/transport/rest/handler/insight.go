package handler

import (
	"net/http"
	"strconv"

	"tswtrack/internal/model"
	"tswtrack/internal/service"
	"tswtrack/internal/transport/rest/middleware"
)

const defaultReactionLookbackDays = 30

// InsightHandler handles insight report endpoints
type InsightHandler struct {
	insightSvc *service.InsightService
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(insightSvc *service.InsightService) *InsightHandler {
	return &InsightHandler{insightSvc: insightSvc}
}

// Triggers handles GET /v1/insights/triggers?window=week|month|all
func (h *InsightHandler) Triggers(w http.ResponseWriter, r *http.Request) {
	userID, window, ok := h.reportParams(w, r)
	if !ok {
		return
	}

	report, err := h.insightSvc.TriggerReport(r.Context(), userID, window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Treatments handles GET /v1/insights/treatments?window=week|month|all
func (h *InsightHandler) Treatments(w http.ResponseWriter, r *http.Request) {
	userID, window, ok := h.reportParams(w, r)
	if !ok {
		return
	}

	report, err := h.insightSvc.TreatmentReport(r.Context(), userID, window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Foods handles GET /v1/insights/foods?days=N
func (h *InsightHandler) Foods(w http.ResponseWriter, r *http.Request) {
	userID, days, ok := h.lookbackParams(w, r)
	if !ok {
		return
	}

	set, err := h.insightSvc.FoodReports(r.Context(), userID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// Products handles GET /v1/insights/products?days=N
func (h *InsightHandler) Products(w http.ResponseWriter, r *http.Request) {
	userID, days, ok := h.lookbackParams(w, r)
	if !ok {
		return
	}

	set, err := h.insightSvc.ProductReports(r.Context(), userID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// Summary handles GET /v1/insights/summary?window=week|month|all
func (h *InsightHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, window, ok := h.reportParams(w, r)
	if !ok {
		return
	}

	summary, err := h.insightSvc.Summary(r.Context(), userID, window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *InsightHandler) reportParams(w http.ResponseWriter, r *http.Request) (string, model.TimeWindow, bool) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", "", false
	}

	window := model.TimeWindow(r.URL.Query().Get("window"))
	if window == "" {
		window = model.WindowMonth
	}
	if !window.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid window: use week, month, or all")
		return "", "", false
	}
	return userID, window, true
}

func (h *InsightHandler) lookbackParams(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", 0, false
	}

	days := defaultReactionLookbackDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid days parameter")
			return "", 0, false
		}
		days = parsed
	}
	return userID, days, true
}
