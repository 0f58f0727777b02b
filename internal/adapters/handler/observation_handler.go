package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/carebridge/wellness-service/internal/adapters/cache"
	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/carebridge/wellness-service/internal/core/ports"
	"github.com/google/uuid"
)

// ObservationHandler handles HTTP requests for shift observations.
// Every write clears the summary cache: any observation can flip a
// resident's risk level or attention flag.
type ObservationHandler struct {
	observationService ports.ObservationService
	summaryCache       *cache.SummaryCache
}

// NewObservationHandler creates a new observation handler
func NewObservationHandler(observationService ports.ObservationService, summaryCache *cache.SummaryCache) *ObservationHandler {
	return &ObservationHandler{
		observationService: observationService,
		summaryCache:       summaryCache,
	}
}

// CreateObservation handles POST /observations
func (h *ObservationHandler) CreateObservation(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	var req ports.CreateObservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[%s] Failed to decode request: %v", requestID, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	obs, err := h.observationService.Create(r.Context(), req)
	if err != nil {
		log.Printf("[%s] Failed to create observation: resident_id=%s, error=%v", requestID, req.ResidentID, err)
		switch {
		case errors.Is(err, domain.ErrResidentNotFound):
			http.Error(w, "resident not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrWorkerNotFound):
			http.Error(w, "shift worker not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	h.summaryCache.Clear()

	logStructured(requestID, "POST", "/observations", http.StatusCreated, time.Since(startTime))
	writeJSON(w, http.StatusCreated, obs)
}

// GetObservation handles GET /observations/{observation_id}
func (h *ObservationHandler) GetObservation(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	obsID, err := uuid.Parse(r.PathValue("observation_id"))
	if err != nil {
		log.Printf("[%s] Invalid observation ID: %v", requestID, err)
		http.Error(w, "invalid observation ID", http.StatusBadRequest)
		return
	}

	obs, err := h.observationService.Get(r.Context(), obsID)
	if err != nil {
		log.Printf("[%s] Failed to get observation %s: %v", requestID, obsID, err)
		if errors.Is(err, domain.ErrObservationNotFound) {
			http.Error(w, "observation not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to get observation", http.StatusInternalServerError)
		return
	}

	logStructured(requestID, "GET", "/observations/"+obsID.String(), http.StatusOK, time.Since(startTime))
	writeJSON(w, http.StatusOK, obs)
}

// ListObservations handles GET /observations
func (h *ObservationHandler) ListObservations(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	observations, err := h.observationService.List(r.Context())
	if err != nil {
		log.Printf("[%s] Failed to list observations: %v", requestID, err)
		http.Error(w, "failed to list observations", http.StatusInternalServerError)
		return
	}

	logStructured(requestID, "GET", "/observations", http.StatusOK, time.Since(startTime))
	writeJSON(w, http.StatusOK, observations)
}

// ListByResident handles GET /observations/resident/{resident_id}
func (h *ObservationHandler) ListByResident(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	residentID, err := uuid.Parse(r.PathValue("resident_id"))
	if err != nil {
		log.Printf("[%s] Invalid resident ID: %v", requestID, err)
		http.Error(w, "invalid resident ID", http.StatusBadRequest)
		return
	}

	observations, err := h.observationService.ListByResident(r.Context(), residentID)
	if err != nil {
		log.Printf("[%s] Failed to list observations for resident %s: %v", requestID, residentID, err)
		if errors.Is(err, domain.ErrResidentNotFound) {
			http.Error(w, "resident not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to list observations", http.StatusInternalServerError)
		return
	}

	logStructured(requestID, "GET", "/observations/resident/"+residentID.String(), http.StatusOK, time.Since(startTime))
	writeJSON(w, http.StatusOK, observations)
}

// ListByWorker handles GET /observations/worker/{worker_id}
func (h *ObservationHandler) ListByWorker(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	workerID, err := uuid.Parse(r.PathValue("worker_id"))
	if err != nil {
		log.Printf("[%s] Invalid worker ID: %v", requestID, err)
		http.Error(w, "invalid worker ID", http.StatusBadRequest)
		return
	}

	observations, err := h.observationService.ListByWorker(r.Context(), workerID)
	if err != nil {
		log.Printf("[%s] Failed to list observations for worker %s: %v", requestID, workerID, err)
		http.Error(w, "failed to list observations", http.StatusInternalServerError)
		return
	}

	logStructured(requestID, "GET", "/observations/worker/"+workerID.String(), http.StatusOK, time.Since(startTime))
	writeJSON(w, http.StatusOK, observations)
}

// UpdateObservation handles PUT /observations/{observation_id}
func (h *ObservationHandler) UpdateObservation(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	obsID, err := uuid.Parse(r.PathValue("observation_id"))
	if err != nil {
		log.Printf("[%s] Invalid observation ID: %v", requestID, err)
		http.Error(w, "invalid observation ID", http.StatusBadRequest)
		return
	}

	var req ports.CreateObservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[%s] Failed to decode request: %v", requestID, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	obs, err := h.observationService.Update(r.Context(), obsID, req)
	if err != nil {
		log.Printf("[%s] Failed to update observation %s: %v", requestID, obsID, err)
		if errors.Is(err, domain.ErrObservationNotFound) {
			http.Error(w, "observation not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.summaryCache.Clear()

	logStructured(requestID, "PUT", "/observations/"+obsID.String(), http.StatusOK, time.Since(startTime))
	writeJSON(w, http.StatusOK, obs)
}

// DeleteObservation handles DELETE /observations/{observation_id}
func (h *ObservationHandler) DeleteObservation(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	obsID, err := uuid.Parse(r.PathValue("observation_id"))
	if err != nil {
		log.Printf("[%s] Invalid observation ID: %v", requestID, err)
		http.Error(w, "invalid observation ID", http.StatusBadRequest)
		return
	}

	if err := h.observationService.Delete(r.Context(), obsID); err != nil {
		log.Printf("[%s] Failed to delete observation %s: %v", requestID, obsID, err)
		if errors.Is(err, domain.ErrObservationNotFound) {
			http.Error(w, "observation not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to delete observation", http.StatusInternalServerError)
		return
	}

	h.summaryCache.Clear()

	logStructured(requestID, "DELETE", "/observations/"+obsID.String(), http.StatusNoContent, time.Since(startTime))
	w.WriteHeader(http.StatusNoContent)
}
