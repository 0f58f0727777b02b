package services_test

import (
	"context"

	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/carebridge/wellness-service/internal/core/ports"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Shared testify mocks for the service tests in this package.

type MockResidentRepository struct {
	mock.Mock
}

func (m *MockResidentRepository) Create(ctx context.Context, resident *domain.Resident) error {
	args := m.Called(ctx, resident)
	return args.Error(0)
}

func (m *MockResidentRepository) GetByID(ctx context.Context, residentID uuid.UUID) (*domain.Resident, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resident), args.Error(1)
}

func (m *MockResidentRepository) List(ctx context.Context) ([]*domain.Resident, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Resident), args.Error(1)
}

func (m *MockResidentRepository) Update(ctx context.Context, resident *domain.Resident) error {
	args := m.Called(ctx, resident)
	return args.Error(0)
}

func (m *MockResidentRepository) Delete(ctx context.Context, residentID uuid.UUID) error {
	args := m.Called(ctx, residentID)
	return args.Error(0)
}

func (m *MockResidentRepository) Exists(ctx context.Context, residentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, residentID)
	return args.Bool(0), args.Error(1)
}

type MockObservationRepository struct {
	mock.Mock
}

func (m *MockObservationRepository) Create(ctx context.Context, obs *domain.ShiftObservation) error {
	args := m.Called(ctx, obs)
	return args.Error(0)
}

func (m *MockObservationRepository) GetByID(ctx context.Context, obsID uuid.UUID) (*domain.ShiftObservation, error) {
	args := m.Called(ctx, obsID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftObservation), args.Error(1)
}

func (m *MockObservationRepository) List(ctx context.Context) ([]*domain.ShiftObservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShiftObservation), args.Error(1)
}

func (m *MockObservationRepository) ListByResident(ctx context.Context, residentID uuid.UUID) ([]*domain.ShiftObservation, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShiftObservation), args.Error(1)
}

func (m *MockObservationRepository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*domain.ShiftObservation, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShiftObservation), args.Error(1)
}

func (m *MockObservationRepository) Update(ctx context.Context, obs *domain.ShiftObservation) error {
	args := m.Called(ctx, obs)
	return args.Error(0)
}

func (m *MockObservationRepository) Delete(ctx context.Context, obsID uuid.UUID) error {
	args := m.Called(ctx, obsID)
	return args.Error(0)
}

func (m *MockObservationRepository) DeleteByResident(ctx context.Context, residentID uuid.UUID) error {
	args := m.Called(ctx, residentID)
	return args.Error(0)
}

type MockWorkerRepository struct {
	mock.Mock
}

func (m *MockWorkerRepository) Create(ctx context.Context, worker *domain.ShiftWorker) error {
	args := m.Called(ctx, worker)
	return args.Error(0)
}

func (m *MockWorkerRepository) GetByID(ctx context.Context, workerID uuid.UUID) (*domain.ShiftWorker, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftWorker), args.Error(1)
}

func (m *MockWorkerRepository) GetByEmail(ctx context.Context, email string) (*domain.ShiftWorker, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftWorker), args.Error(1)
}

func (m *MockWorkerRepository) Update(ctx context.Context, worker *domain.ShiftWorker) error {
	args := m.Called(ctx, worker)
	return args.Error(0)
}

func (m *MockWorkerRepository) Exists(ctx context.Context, workerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, workerID)
	return args.Bool(0), args.Error(1)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *domain.ShiftReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) ListByResident(ctx context.Context, residentID uuid.UUID) ([]*domain.ShiftReport, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShiftReport), args.Error(1)
}

func (m *MockReportRepository) DeleteByResident(ctx context.Context, residentID uuid.UUID) error {
	args := m.Called(ctx, residentID)
	return args.Error(0)
}

type MockAlertPublisher struct {
	mock.Mock
}

func (m *MockAlertPublisher) PublishAttentionAlert(ctx context.Context, residentID uuid.UUID, obs *domain.ShiftObservation) error {
	args := m.Called(ctx, residentID, obs)
	return args.Error(0)
}

type MockPredictionGateway struct {
	mock.Mock
}

func (m *MockPredictionGateway) PredictFallRisk(ctx context.Context, features []domain.FallRiskFeatures) (*ports.FallPrediction, error) {
	args := m.Called(ctx, features)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.FallPrediction), args.Error(1)
}

func (m *MockPredictionGateway) PredictMood(ctx context.Context, features []domain.MoodFeatures) (*ports.MoodPrediction, error) {
	args := m.Called(ctx, features)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.MoodPrediction), args.Error(1)
}

func (m *MockPredictionGateway) AnalyzeMedicationAdherence(ctx context.Context, features []domain.MedicationFeatures) (*ports.AdherenceReport, error) {
	args := m.Called(ctx, features)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.AdherenceReport), args.Error(1)
}

type MockPredictionService struct {
	mock.Mock
}

func (m *MockPredictionService) FallRiskProbability(ctx context.Context, residentID uuid.UUID) float64 {
	args := m.Called(ctx, residentID)
	return args.Get(0).(float64)
}

func (m *MockPredictionService) MoodSummary(ctx context.Context, residentID uuid.UUID) string {
	args := m.Called(ctx, residentID)
	return args.String(0)
}

func (m *MockPredictionService) MedicationAdherence(ctx context.Context, residentID uuid.UUID) ports.AdherenceReport {
	args := m.Called(ctx, residentID)
	return args.Get(0).(ports.AdherenceReport)
}
