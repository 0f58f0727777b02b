package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/carebridge/wellness-service/internal/core/ports"
	"github.com/google/uuid"
)

// WorkerHandler handles HTTP requests for shift-worker operations
type WorkerHandler struct {
	workerService ports.WorkerService
}

// NewWorkerHandler creates a new worker handler
func NewWorkerHandler(workerService ports.WorkerService) *WorkerHandler {
	return &WorkerHandler{
		workerService: workerService,
	}
}

// LoginRequest represents the request body for worker login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SubmitReportRequest represents the request body for filing a shift report
type SubmitReportRequest struct {
	WorkerID   uuid.UUID `json:"shift_worker_id"`
	ResidentID uuid.UUID `json:"resident_id"`
	ReportText string    `json:"report_text"`
}

// Login handles POST /workers/login
// Unknown emails are auto-provisioned as new workers
func (h *WorkerHandler) Login(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[%s] Failed to decode request: %v", requestID, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	worker, err := h.workerService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("[%s] Login failed for %s: %v", requestID, req.Email, err)
		if errors.Is(err, domain.ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	logStructured(requestID, "POST", "/workers/login", http.StatusOK, time.Since(startTime))
	writeJSON(w, http.StatusOK, worker)
}

// Register handles POST /workers/register
func (h *WorkerHandler) Register(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	var worker domain.ShiftWorker
	if err := json.NewDecoder(r.Body).Decode(&worker); err != nil {
		log.Printf("[%s] Failed to decode request: %v", requestID, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	registered, err := h.workerService.Register(r.Context(), &worker)
	if err != nil {
		log.Printf("[%s] Failed to register worker: %v", requestID, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logStructured(requestID, "POST", "/workers/register", http.StatusCreated, time.Since(startTime))
	writeJSON(w, http.StatusCreated, registered)
}

// GetWorker handles GET /workers/{worker_id}
func (h *WorkerHandler) GetWorker(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	workerID, err := uuid.Parse(r.PathValue("worker_id"))
	if err != nil {
		log.Printf("[%s] Invalid worker ID: %v", requestID, err)
		http.Error(w, "invalid worker ID", http.StatusBadRequest)
		return
	}

	worker, err := h.workerService.Get(r.Context(), workerID)
	if err != nil {
		log.Printf("[%s] Failed to get worker %s: %v", requestID, workerID, err)
		if errors.Is(err, domain.ErrWorkerNotFound) {
			http.Error(w, "worker not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to get worker", http.StatusInternalServerError)
		return
	}

	logStructured(requestID, "GET", "/workers/"+workerID.String(), http.StatusOK, time.Since(startTime))
	writeJSON(w, http.StatusOK, worker)
}

// UpdateWorker handles PUT /workers/{worker_id}
func (h *WorkerHandler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	workerID, err := uuid.Parse(r.PathValue("worker_id"))
	if err != nil {
		log.Printf("[%s] Invalid worker ID: %v", requestID, err)
		http.Error(w, "invalid worker ID", http.StatusBadRequest)
		return
	}

	var worker domain.ShiftWorker
	if err := json.NewDecoder(r.Body).Decode(&worker); err != nil {
		log.Printf("[%s] Failed to decode request: %v", requestID, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.workerService.Update(r.Context(), workerID, &worker)
	if err != nil {
		log.Printf("[%s] Failed to update worker %s: %v", requestID, workerID, err)
		if errors.Is(err, domain.ErrWorkerNotFound) {
			http.Error(w, "worker not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logStructured(requestID, "PUT", "/workers/"+workerID.String(), http.StatusOK, time.Since(startTime))
	writeJSON(w, http.StatusOK, updated)
}

// SubmitReport handles POST /workers/reports
func (h *WorkerHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	var req SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[%s] Failed to decode request: %v", requestID, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	report, err := h.workerService.SubmitReport(r.Context(), req.WorkerID, req.ResidentID, req.ReportText)
	if err != nil {
		log.Printf("[%s] Failed to submit report: worker_id=%s, resident_id=%s, error=%v", requestID, req.WorkerID, req.ResidentID, err)
		switch {
		case errors.Is(err, domain.ErrWorkerNotFound):
			http.Error(w, "worker not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrResidentNotFound):
			http.Error(w, "resident not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	logStructured(requestID, "POST", "/workers/reports", http.StatusCreated, time.Since(startTime))
	writeJSON(w, http.StatusCreated, report)
}
