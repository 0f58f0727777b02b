package ports

import (
	"context"

	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/google/uuid"
)

// ResidentRepository defines the interface for resident persistence
type ResidentRepository interface {
	Create(ctx context.Context, resident *domain.Resident) error

	// GetByID returns domain.ErrResidentNotFound when absent
	GetByID(ctx context.Context, residentID uuid.UUID) (*domain.Resident, error)

	List(ctx context.Context) ([]*domain.Resident, error)

	Update(ctx context.Context, resident *domain.Resident) error

	// Delete removes the resident row only; cascading observation and
	// report deletion is the service's responsibility
	Delete(ctx context.Context, residentID uuid.UUID) error

	Exists(ctx context.Context, residentID uuid.UUID) (bool, error)
}

// ObservationRepository defines the interface for shift-observation
// persistence. List methods return observations ordered descending by
// timestamp; callers must not rely on that order for window math.
type ObservationRepository interface {
	Create(ctx context.Context, obs *domain.ShiftObservation) error

	// GetByID returns domain.ErrObservationNotFound when absent
	GetByID(ctx context.Context, obsID uuid.UUID) (*domain.ShiftObservation, error)

	List(ctx context.Context) ([]*domain.ShiftObservation, error)

	ListByResident(ctx context.Context, residentID uuid.UUID) ([]*domain.ShiftObservation, error)

	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*domain.ShiftObservation, error)

	Update(ctx context.Context, obs *domain.ShiftObservation) error

	Delete(ctx context.Context, obsID uuid.UUID) error

	// DeleteByResident cascades observation deletion on resident removal
	DeleteByResident(ctx context.Context, residentID uuid.UUID) error
}

// WorkerRepository defines the interface for shift-worker persistence
type WorkerRepository interface {
	Create(ctx context.Context, worker *domain.ShiftWorker) error

	// GetByID returns domain.ErrWorkerNotFound when absent
	GetByID(ctx context.Context, workerID uuid.UUID) (*domain.ShiftWorker, error)

	// GetByEmail returns domain.ErrWorkerNotFound when absent
	GetByEmail(ctx context.Context, email string) (*domain.ShiftWorker, error)

	Update(ctx context.Context, worker *domain.ShiftWorker) error

	Exists(ctx context.Context, workerID uuid.UUID) (bool, error)
}

// ReportRepository defines the interface for free-text shift reports
type ReportRepository interface {
	Create(ctx context.Context, report *domain.ShiftReport) error

	ListByResident(ctx context.Context, residentID uuid.UUID) ([]*domain.ShiftReport, error)

	DeleteByResident(ctx context.Context, residentID uuid.UUID) error
}

// AlertPublisher defines the interface for publishing attention alerts
// when a newly written observation carries critical clinical flags
type AlertPublisher interface {
	PublishAttentionAlert(ctx context.Context, residentID uuid.UUID, obs *domain.ShiftObservation) error
}
