package handler

import (
	"context"

	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/carebridge/wellness-service/internal/core/ports"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Shared testify mocks for the handler tests in this package.

type MockResidentService struct {
	mock.Mock
}

func (m *MockResidentService) Create(ctx context.Context, resident *domain.Resident) (*domain.Resident, error) {
	args := m.Called(ctx, resident)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resident), args.Error(1)
}

func (m *MockResidentService) Get(ctx context.Context, residentID uuid.UUID) (*domain.Resident, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resident), args.Error(1)
}

func (m *MockResidentService) List(ctx context.Context) ([]*domain.Resident, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Resident), args.Error(1)
}

func (m *MockResidentService) Update(ctx context.Context, residentID uuid.UUID, updated *domain.Resident) (*domain.Resident, error) {
	args := m.Called(ctx, residentID, updated)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resident), args.Error(1)
}

func (m *MockResidentService) Delete(ctx context.Context, residentID uuid.UUID) error {
	args := m.Called(ctx, residentID)
	return args.Error(0)
}

type MockWellnessService struct {
	mock.Mock
}

func (m *MockWellnessService) ResidentSummaries(ctx context.Context) ([]*domain.ResidentSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ResidentSummary), args.Error(1)
}

func (m *MockWellnessService) ResidentObservations(ctx context.Context, residentID uuid.UUID, days int) ([]*domain.ShiftObservation, error) {
	args := m.Called(ctx, residentID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShiftObservation), args.Error(1)
}

func (m *MockWellnessService) ReportHistory(ctx context.Context, residentID uuid.UUID) ([]*domain.ShiftReport, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShiftReport), args.Error(1)
}

type MockWorkerService struct {
	mock.Mock
}

func (m *MockWorkerService) Get(ctx context.Context, workerID uuid.UUID) (*domain.ShiftWorker, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftWorker), args.Error(1)
}

func (m *MockWorkerService) Update(ctx context.Context, workerID uuid.UUID, updated *domain.ShiftWorker) (*domain.ShiftWorker, error) {
	args := m.Called(ctx, workerID, updated)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftWorker), args.Error(1)
}

func (m *MockWorkerService) Login(ctx context.Context, email, password string) (*domain.ShiftWorker, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftWorker), args.Error(1)
}

func (m *MockWorkerService) Register(ctx context.Context, worker *domain.ShiftWorker) (*domain.ShiftWorker, error) {
	args := m.Called(ctx, worker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftWorker), args.Error(1)
}

func (m *MockWorkerService) SubmitReport(ctx context.Context, workerID, residentID uuid.UUID, reportText string) (*domain.ShiftReport, error) {
	args := m.Called(ctx, workerID, residentID, reportText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftReport), args.Error(1)
}

type MockObservationService struct {
	mock.Mock
}

func (m *MockObservationService) Create(ctx context.Context, req ports.CreateObservationRequest) (*domain.ShiftObservation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftObservation), args.Error(1)
}

func (m *MockObservationService) Get(ctx context.Context, obsID uuid.UUID) (*domain.ShiftObservation, error) {
	args := m.Called(ctx, obsID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftObservation), args.Error(1)
}

func (m *MockObservationService) List(ctx context.Context) ([]*domain.ShiftObservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShiftObservation), args.Error(1)
}

func (m *MockObservationService) ListByResident(ctx context.Context, residentID uuid.UUID) ([]*domain.ShiftObservation, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShiftObservation), args.Error(1)
}

func (m *MockObservationService) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*domain.ShiftObservation, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShiftObservation), args.Error(1)
}

func (m *MockObservationService) Update(ctx context.Context, obsID uuid.UUID, req ports.CreateObservationRequest) (*domain.ShiftObservation, error) {
	args := m.Called(ctx, obsID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftObservation), args.Error(1)
}

func (m *MockObservationService) Delete(ctx context.Context, obsID uuid.UUID) error {
	args := m.Called(ctx, obsID)
	return args.Error(0)
}
