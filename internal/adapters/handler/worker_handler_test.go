package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newWorkerMux(h *WorkerHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /workers/login", h.Login)
	mux.HandleFunc("POST /workers/register", h.Register)
	mux.HandleFunc("GET /workers/{worker_id}", h.GetWorker)
	mux.HandleFunc("POST /workers/reports", h.SubmitReport)
	return mux
}

func TestLoginHandler_Success(t *testing.T) {
	workerService := new(MockWorkerService)
	mux := newWorkerMux(NewWorkerHandler(workerService))

	worker := &domain.ShiftWorker{ID: uuid.New(), Email: "mika@carebridge.example", Name: "Mika Laine"}
	workerService.On("Login", mock.Anything, "mika@carebridge.example", "pw").Return(worker, nil)

	body, _ := json.Marshal(LoginRequest{Email: "mika@carebridge.example", Password: "pw"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/workers/login", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.ShiftWorker
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, worker.ID, got.ID)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	workerService := new(MockWorkerService)
	mux := newWorkerMux(NewWorkerHandler(workerService))

	workerService.On("Login", mock.Anything, "mika@carebridge.example", "wrong").
		Return(nil, domain.ErrInvalidCredentials)

	body, _ := json.Marshal(LoginRequest{Email: "mika@carebridge.example", Password: "wrong"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/workers/login", bytes.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginHandler_MalformedBody(t *testing.T) {
	mux := newWorkerMux(NewWorkerHandler(new(MockWorkerService)))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/workers/login", bytes.NewReader([]byte("{"))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetWorkerHandler_NotFound(t *testing.T) {
	workerService := new(MockWorkerService)
	mux := newWorkerMux(NewWorkerHandler(workerService))

	workerID := uuid.New()
	workerService.On("Get", mock.Anything, workerID).Return(nil, domain.ErrWorkerNotFound)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workers/"+workerID.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitReportHandler(t *testing.T) {
	workerService := new(MockWorkerService)
	mux := newWorkerMux(NewWorkerHandler(workerService))

	workerID := uuid.New()
	residentID := uuid.New()
	report := &domain.ShiftReport{ID: uuid.New(), WorkerID: workerID, ResidentID: residentID, ReportText: "Calm shift."}
	workerService.On("SubmitReport", mock.Anything, workerID, residentID, "Calm shift.").Return(report, nil)

	body, _ := json.Marshal(SubmitReportRequest{WorkerID: workerID, ResidentID: residentID, ReportText: "Calm shift."})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/workers/reports", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var got domain.ShiftReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, report.ID, got.ID)
}

func TestSubmitReportHandler_UnknownResident(t *testing.T) {
	workerService := new(MockWorkerService)
	mux := newWorkerMux(NewWorkerHandler(workerService))

	workerID := uuid.New()
	residentID := uuid.New()
	workerService.On("SubmitReport", mock.Anything, workerID, residentID, "text").
		Return(nil, domain.ErrResidentNotFound)

	body, _ := json.Marshal(SubmitReportRequest{WorkerID: workerID, ResidentID: residentID, ReportText: "text"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/workers/reports", bytes.NewReader(body)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
