package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"tswtrack/internal/model"
	"tswtrack/internal/service"
	"tswtrack/internal/transport/rest/middleware"
)

// CheckInHandler handles check-in CRUD endpoints
type CheckInHandler struct {
	checkinSvc *service.CheckInService
}

// NewCheckInHandler creates a new check-in handler
func NewCheckInHandler(checkinSvc *service.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkinSvc: checkinSvc}
}

// LogCheckInRequest is the request body for logging a check-in
type LogCheckInRequest struct {
	Timestamp     time.Time            `json:"timestamp"`
	SkinFeeling   *int                 `json:"skinFeeling,omitempty"`
	SkinIntensity *int                 `json:"skinIntensity,omitempty"`
	PainScore     *int                 `json:"painScore,omitempty"`
	SleepScore    *int                 `json:"sleepScore,omitempty"`
	Triggers      []string             `json:"triggers"`
	Symptoms      []model.SymptomEntry `json:"symptoms"`
	Treatments    []string             `json:"treatments"`
}

func (req *LogCheckInRequest) toModel() *model.CheckIn {
	return &model.CheckIn{
		Timestamp:     req.Timestamp,
		SkinFeeling:   req.SkinFeeling,
		SkinIntensity: req.SkinIntensity,
		PainScore:     req.PainScore,
		SleepScore:    req.SleepScore,
		Triggers:      req.Triggers,
		Symptoms:      req.Symptoms,
		Treatments:    req.Treatments,
	}
}

// Create handles POST /v1/checkins
func (h *CheckInHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req LogCheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	checkin := req.toModel()
	if err := h.checkinSvc.Log(r.Context(), userID, checkin); err != nil {
		writeCheckInError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, checkin)
}

// List handles GET /v1/checkins?days=N
func (h *CheckInHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid days parameter")
			return
		}
		days = parsed
	}

	checkins, err := h.checkinSvc.List(r.Context(), userID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if checkins == nil {
		checkins = []model.CheckIn{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"checkins": checkins})
}

// Get handles GET /v1/checkins/{id}
func (h *CheckInHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	checkin, err := h.checkinSvc.Get(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeCheckInError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkin)
}

// Update handles PUT /v1/checkins/{id}
func (h *CheckInHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req LogCheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	checkin := req.toModel()
	checkin.ID = mux.Vars(r)["id"]
	if err := h.checkinSvc.Update(r.Context(), userID, checkin); err != nil {
		writeCheckInError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkin)
}

// Delete handles DELETE /v1/checkins/{id}
func (h *CheckInHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.checkinSvc.Delete(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		writeCheckInError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeCheckInError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCheckIn):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrCheckInNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
