package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/carebridge/wellness-service/internal/adapters/cache"
	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/carebridge/wellness-service/internal/core/ports"
	"github.com/google/uuid"
)

// summaryCacheKey is the single cache key for the full summary list;
// the filter is applied after the cache lookup so one recomputation
// serves every filter variant.
const summaryCacheKey = "all"

// ResidentHandler handles HTTP requests for resident operations and the
// dashboard summary list
type ResidentHandler struct {
	residentService ports.ResidentService
	wellnessService ports.WellnessService
	summaryCache    *cache.SummaryCache
}

// NewResidentHandler creates a new resident handler
func NewResidentHandler(residentService ports.ResidentService, wellnessService ports.WellnessService, summaryCache *cache.SummaryCache) *ResidentHandler {
	return &ResidentHandler{
		residentService: residentService,
		wellnessService: wellnessService,
		summaryCache:    summaryCache,
	}
}

// ListSummaries handles GET /residents
// Returns the dashboard summary rows, optionally filtered with
// ?filter=attention|high|medium|low
func (h *ResidentHandler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	summaries, ok := h.summaryCache.Get(summaryCacheKey)
	if ok {
		summaryCacheHits.WithLabelValues("hit").Inc()
	} else {
		summaryCacheHits.WithLabelValues("miss").Inc()
		buildStart := time.Now()
		var err error
		summaries, err = h.wellnessService.ResidentSummaries(r.Context())
		if err != nil {
			log.Printf("[%s] Failed to build resident summaries: %v", requestID, err)
			http.Error(w, "failed to build resident summaries", http.StatusInternalServerError)
			return
		}
		summaryBuildDuration.Observe(time.Since(buildStart).Seconds())
		h.summaryCache.Set(summaryCacheKey, summaries)
	}

	filtered := filterSummaries(summaries, r.URL.Query().Get("filter"))

	logStructured(requestID, "GET", "/residents", http.StatusOK, time.Since(startTime))
	writeJSON(w, http.StatusOK, filtered)
}

// filterSummaries narrows the summary list by the dashboard's filter
// value. Unknown filters return the full list.
func filterSummaries(summaries []*domain.ResidentSummary, filter string) []*domain.ResidentSummary {
	switch strings.ToLower(filter) {
	case "attention":
		out := make([]*domain.ResidentSummary, 0, len(summaries))
		for _, s := range summaries {
			if s.AttentionFlag == domain.AttentionYes {
				out = append(out, s)
			}
		}
		return out
	case "high", "medium", "low":
		out := make([]*domain.ResidentSummary, 0, len(summaries))
		for _, s := range summaries {
			if strings.EqualFold(string(s.RiskLevel), filter) {
				out = append(out, s)
			}
		}
		return out
	default:
		return summaries
	}
}

// CreateResident handles POST /residents
func (h *ResidentHandler) CreateResident(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	var resident domain.Resident
	if err := json.NewDecoder(r.Body).Decode(&resident); err != nil {
		log.Printf("[%s] Failed to decode request: %v", requestID, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.residentService.Create(r.Context(), &resident)
	if err != nil {
		log.Printf("[%s] Failed to create resident: %v", requestID, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.summaryCache.Clear()

	logStructured(requestID, "POST", "/residents", http.StatusCreated, time.Since(startTime))
	writeJSON(w, http.StatusCreated, created)
}

// GetResident handles GET /residents/{resident_id}
func (h *ResidentHandler) GetResident(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	residentID, err := uuid.Parse(r.PathValue("resident_id"))
	if err != nil {
		log.Printf("[%s] Invalid resident ID: %v", requestID, err)
		http.Error(w, "invalid resident ID", http.StatusBadRequest)
		return
	}

	resident, err := h.residentService.Get(r.Context(), residentID)
	if err != nil {
		log.Printf("[%s] Failed to get resident %s: %v", requestID, residentID, err)
		if errors.Is(err, domain.ErrResidentNotFound) {
			http.Error(w, "resident not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to get resident", http.StatusInternalServerError)
		return
	}

	logStructured(requestID, "GET", "/residents/"+residentID.String(), http.StatusOK, time.Since(startTime))
	writeJSON(w, http.StatusOK, resident)
}

// UpdateResident handles PUT /residents/{resident_id}
func (h *ResidentHandler) UpdateResident(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	residentID, err := uuid.Parse(r.PathValue("resident_id"))
	if err != nil {
		log.Printf("[%s] Invalid resident ID: %v", requestID, err)
		http.Error(w, "invalid resident ID", http.StatusBadRequest)
		return
	}

	var resident domain.Resident
	if err := json.NewDecoder(r.Body).Decode(&resident); err != nil {
		log.Printf("[%s] Failed to decode request: %v", requestID, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.residentService.Update(r.Context(), residentID, &resident)
	if err != nil {
		log.Printf("[%s] Failed to update resident %s: %v", requestID, residentID, err)
		if errors.Is(err, domain.ErrResidentNotFound) {
			http.Error(w, "resident not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.summaryCache.Clear()

	logStructured(requestID, "PUT", "/residents/"+residentID.String(), http.StatusOK, time.Since(startTime))
	writeJSON(w, http.StatusOK, updated)
}

// DeleteResident handles DELETE /residents/{resident_id}
// Cascades to the resident's observations and shift reports
func (h *ResidentHandler) DeleteResident(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	residentID, err := uuid.Parse(r.PathValue("resident_id"))
	if err != nil {
		log.Printf("[%s] Invalid resident ID: %v", requestID, err)
		http.Error(w, "invalid resident ID", http.StatusBadRequest)
		return
	}

	if err := h.residentService.Delete(r.Context(), residentID); err != nil {
		log.Printf("[%s] Failed to delete resident %s: %v", requestID, residentID, err)
		if errors.Is(err, domain.ErrResidentNotFound) {
			http.Error(w, "resident not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to delete resident", http.StatusInternalServerError)
		return
	}

	h.summaryCache.Clear()

	logStructured(requestID, "DELETE", "/residents/"+residentID.String(), http.StatusNoContent, time.Since(startTime))
	w.WriteHeader(http.StatusNoContent)
}

// GetResidentObservations handles GET /residents/{resident_id}/observations?days=30
// Returns the enriched observation list for the resident
func (h *ResidentHandler) GetResidentObservations(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	residentID, err := uuid.Parse(r.PathValue("resident_id"))
	if err != nil {
		log.Printf("[%s] Invalid resident ID: %v", requestID, err)
		http.Error(w, "invalid resident ID", http.StatusBadRequest)
		return
	}

	days := 0
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		days, err = strconv.Atoi(daysStr)
		if err != nil || days < 0 {
			log.Printf("[%s] Invalid days parameter: %s", requestID, daysStr)
			http.Error(w, "invalid days parameter", http.StatusBadRequest)
			return
		}
	}

	observations, err := h.wellnessService.ResidentObservations(r.Context(), residentID, days)
	if err != nil {
		log.Printf("[%s] Failed to get observations for resident %s: %v", requestID, residentID, err)
		if errors.Is(err, domain.ErrResidentNotFound) {
			http.Error(w, "resident not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to get observations", http.StatusInternalServerError)
		return
	}

	logStructured(requestID, "GET", "/residents/"+residentID.String()+"/observations", http.StatusOK, time.Since(startTime))
	writeJSON(w, http.StatusOK, observations)
}

// GetResidentReports handles GET /residents/{resident_id}/reports
func (h *ResidentHandler) GetResidentReports(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	residentID, err := uuid.Parse(r.PathValue("resident_id"))
	if err != nil {
		log.Printf("[%s] Invalid resident ID: %v", requestID, err)
		http.Error(w, "invalid resident ID", http.StatusBadRequest)
		return
	}

	reports, err := h.wellnessService.ReportHistory(r.Context(), residentID)
	if err != nil {
		log.Printf("[%s] Failed to get reports for resident %s: %v", requestID, residentID, err)
		if errors.Is(err, domain.ErrResidentNotFound) {
			http.Error(w, "resident not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to get reports", http.StatusInternalServerError)
		return
	}

	logStructured(requestID, "GET", "/residents/"+residentID.String()+"/reports", http.StatusOK, time.Since(startTime))
	writeJSON(w, http.StatusOK, reports)
}
