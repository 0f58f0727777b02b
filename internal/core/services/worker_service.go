package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/carebridge/wellness-service/internal/core/ports"
	"github.com/google/uuid"
)

// WorkerService implements business logic for shift workers and their
// free-text shift reports.
type WorkerService struct {
	workerRepo   ports.WorkerRepository
	residentRepo ports.ResidentRepository
	reportRepo   ports.ReportRepository
	now          ports.Clock
}

// NewWorkerService creates a new worker service
func NewWorkerService(
	workerRepo ports.WorkerRepository,
	residentRepo ports.ResidentRepository,
	reportRepo ports.ReportRepository,
	now ports.Clock,
) *WorkerService {
	if now == nil {
		now = time.Now
	}
	return &WorkerService{
		workerRepo:   workerRepo,
		residentRepo: residentRepo,
		reportRepo:   reportRepo,
		now:          now,
	}
}

// Get retrieves a worker's profile
func (s *WorkerService) Get(ctx context.Context, workerID uuid.UUID) (*domain.ShiftWorker, error) {
	return s.workerRepo.GetByID(ctx, workerID)
}

// Update applies a profile edit to an existing worker
func (s *WorkerService) Update(ctx context.Context, workerID uuid.UUID, updated *domain.ShiftWorker) (*domain.ShiftWorker, error) {
	existing, err := s.workerRepo.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}

	existing.FirstName = updated.FirstName
	existing.LastName = updated.LastName
	existing.Name = fullName(updated.FirstName, updated.LastName, updated.Name)
	existing.Email = updated.Email
	existing.Role = updated.Role
	existing.Phone = updated.Phone
	existing.Sex = updated.Sex
	existing.ShiftPreference = updated.ShiftPreference
	existing.AvatarURL = updated.AvatarURL
	existing.Notes = updated.Notes

	if err := s.workerRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update worker: %w", err)
	}
	return existing, nil
}

// Login performs the demo credential check. A worker with no stored
// password accepts any password; a stored password must match exactly.
// An unknown email is auto-provisioned as a new Support Worker so the
// pilot floor staff can sign in without an onboarding step.
func (s *WorkerService) Login(ctx context.Context, email, password string) (*domain.ShiftWorker, error) {
	if email == "" {
		return nil, domain.ErrInvalidCredentials
	}

	worker, err := s.workerRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrWorkerNotFound) {
			return s.provisionWorker(ctx, email, password)
		}
		return nil, err
	}

	if worker.Password != "" && worker.Password != password {
		return nil, domain.ErrInvalidCredentials
	}
	return worker, nil
}

// provisionWorker creates a worker record on first login, deriving the
// display name from the email's local part.
func (s *WorkerService) provisionWorker(ctx context.Context, email, password string) (*domain.ShiftWorker, error) {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}

	worker := &domain.ShiftWorker{
		ID:        uuid.New(),
		Name:      local,
		FirstName: local,
		Email:     email,
		Password:  password,
		Role:      "Support Worker",
		Notes:     "Auto-created on first login",
		CreatedAt: s.now(),
	}
	if err := s.workerRepo.Create(ctx, worker); err != nil {
		return nil, fmt.Errorf("failed to provision worker: %w", err)
	}
	return worker, nil
}

// Register creates a worker with an explicit profile
func (s *WorkerService) Register(ctx context.Context, worker *domain.ShiftWorker) (*domain.ShiftWorker, error) {
	if worker.Email == "" {
		return nil, fmt.Errorf("worker email cannot be empty")
	}

	_, err := s.workerRepo.GetByEmail(ctx, worker.Email)
	if err == nil {
		return nil, fmt.Errorf("worker with email %s already exists", worker.Email)
	}
	if !errors.Is(err, domain.ErrWorkerNotFound) {
		return nil, err
	}

	worker.ID = uuid.New()
	worker.Name = fullName(worker.FirstName, worker.LastName, worker.Name)
	worker.CreatedAt = s.now()

	if err := s.workerRepo.Create(ctx, worker); err != nil {
		return nil, fmt.Errorf("failed to register worker: %w", err)
	}
	return worker, nil
}

// SubmitReport files an unstructured shift report for a resident. The
// text is stored verbatim.
func (s *WorkerService) SubmitReport(ctx context.Context, workerID, residentID uuid.UUID, reportText string) (*domain.ShiftReport, error) {
	if strings.TrimSpace(reportText) == "" {
		return nil, fmt.Errorf("report text cannot be empty")
	}

	workerExists, err := s.workerRepo.Exists(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check worker existence: %w", err)
	}
	if !workerExists {
		return nil, domain.ErrWorkerNotFound
	}

	residentExists, err := s.residentRepo.Exists(ctx, residentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check resident existence: %w", err)
	}
	if !residentExists {
		return nil, domain.ErrResidentNotFound
	}

	report := &domain.ShiftReport{
		ID:         uuid.New(),
		ResidentID: residentID,
		WorkerID:   workerID,
		ReportTime: s.now(),
		ReportText: reportText,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create shift report: %w", err)
	}
	return report, nil
}

// fullName joins first and last names, falling back to an existing
// display name when both are empty.
func fullName(first, last, fallback string) string {
	joined := strings.TrimSpace(first + " " + last)
	if joined == "" {
		return fallback
	}
	return joined
}

// Ensure WorkerService implements the interface
var _ ports.WorkerService = (*WorkerService)(nil)
