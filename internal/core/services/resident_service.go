package services

import (
	"context"
	"fmt"
	"time"

	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/carebridge/wellness-service/internal/core/ports"
	"github.com/google/uuid"
)

// ResidentService implements business logic for resident records
type ResidentService struct {
	residentRepo    ports.ResidentRepository
	observationRepo ports.ObservationRepository
	reportRepo      ports.ReportRepository
	now             ports.Clock
}

// NewResidentService creates a new resident service
func NewResidentService(
	residentRepo ports.ResidentRepository,
	observationRepo ports.ObservationRepository,
	reportRepo ports.ReportRepository,
	now ports.Clock,
) *ResidentService {
	if now == nil {
		now = time.Now
	}
	return &ResidentService{
		residentRepo:    residentRepo,
		observationRepo: observationRepo,
		reportRepo:      reportRepo,
		now:             now,
	}
}

// Create creates a new resident. A missing baseline MMSE defaults to
// the facility's intake baseline.
func (s *ResidentService) Create(ctx context.Context, resident *domain.Resident) (*domain.Resident, error) {
	if resident.Name == "" {
		return nil, fmt.Errorf("resident name cannot be empty")
	}

	resident.ID = uuid.New()
	if resident.BaselineMMSE == nil {
		baseline := domain.DefaultBaselineMMSE
		resident.BaselineMMSE = &baseline
	}
	now := s.now()
	resident.CreatedAt = now
	resident.LastUpdated = now
	resident.RecalculateAge(now)

	if err := s.residentRepo.Create(ctx, resident); err != nil {
		return nil, fmt.Errorf("failed to create resident: %w", err)
	}
	return resident, nil
}

// Get retrieves a resident with Age recomputed from DateOfBirth
func (s *ResidentService) Get(ctx context.Context, residentID uuid.UUID) (*domain.Resident, error) {
	resident, err := s.residentRepo.GetByID(ctx, residentID)
	if err != nil {
		return nil, err
	}
	resident.RecalculateAge(s.now())
	return resident, nil
}

// List retrieves all residents with ages recomputed
func (s *ResidentService) List(ctx context.Context) ([]*domain.Resident, error) {
	residents, err := s.residentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list residents: %w", err)
	}
	now := s.now()
	for _, r := range residents {
		r.RecalculateAge(now)
	}
	return residents, nil
}

// Update applies an edit to an existing resident
func (s *ResidentService) Update(ctx context.Context, residentID uuid.UUID, updated *domain.Resident) (*domain.Resident, error) {
	existing, err := s.residentRepo.GetByID(ctx, residentID)
	if err != nil {
		return nil, err
	}

	existing.Name = updated.Name
	existing.DateOfBirth = updated.DateOfBirth
	existing.Gender = updated.Gender
	existing.RoomNumber = updated.RoomNumber
	existing.RoomUnit = updated.RoomUnit
	existing.Diagnoses = updated.Diagnoses
	existing.EmergencyContact = updated.EmergencyContact
	existing.EmergencyPhone = updated.EmergencyPhone
	existing.Residence = updated.Residence
	existing.CareLevel = updated.CareLevel
	existing.MoveInDate = updated.MoveInDate
	now := s.now()
	existing.LastUpdated = now
	existing.RecalculateAge(now)

	if err := s.residentRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update resident: %w", err)
	}
	return existing, nil
}

// Delete removes a resident and cascades to their observations and
// shift reports first (foreign key order).
func (s *ResidentService) Delete(ctx context.Context, residentID uuid.UUID) error {
	exists, err := s.residentRepo.Exists(ctx, residentID)
	if err != nil {
		return fmt.Errorf("failed to check resident existence: %w", err)
	}
	if !exists {
		return domain.ErrResidentNotFound
	}

	if err := s.observationRepo.DeleteByResident(ctx, residentID); err != nil {
		return fmt.Errorf("failed to delete resident observations: %w", err)
	}
	if err := s.reportRepo.DeleteByResident(ctx, residentID); err != nil {
		return fmt.Errorf("failed to delete resident reports: %w", err)
	}
	if err := s.residentRepo.Delete(ctx, residentID); err != nil {
		return fmt.Errorf("failed to delete resident: %w", err)
	}
	return nil
}

// Ensure ResidentService implements the interface
var _ ports.ResidentService = (*ResidentService)(nil)
