package repository

import (
	"context"
	"database/sql"

	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/carebridge/wellness-service/internal/core/ports"
	"github.com/google/uuid"
)

const workerColumns = `id, first_name, last_name, name, email, password, role, phone, sex,
	shift_preference, avatar_url, notes, created_at`

// WorkerRepository implements shift-worker persistence on PostgreSQL
type WorkerRepository struct {
	postgresBase
}

// NewWorkerRepository creates a new worker repository
func NewWorkerRepository(db *sql.DB) *WorkerRepository {
	return &WorkerRepository{newPostgresBase(db, "workers-db")}
}

func (r *WorkerRepository) Create(ctx context.Context, worker *domain.ShiftWorker) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			query := `INSERT INTO shift_workers (` + workerColumns + `)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
			_, err := r.db.ExecContext(ctx, query,
				worker.ID, worker.FirstName, worker.LastName, worker.Name,
				worker.Email, worker.Password, worker.Role, worker.Phone, worker.Sex,
				worker.ShiftPreference, worker.AvatarURL, worker.Notes, worker.CreatedAt,
			)
			return err
		})
	})
	return err
}

func (r *WorkerRepository) GetByID(ctx context.Context, workerID uuid.UUID) (*domain.ShiftWorker, error) {
	return r.getOne(ctx, `SELECT `+workerColumns+` FROM shift_workers WHERE id = $1`, workerID)
}

func (r *WorkerRepository) GetByEmail(ctx context.Context, email string) (*domain.ShiftWorker, error) {
	return r.getOne(ctx, `SELECT `+workerColumns+` FROM shift_workers WHERE email = $1`, email)
}

func (r *WorkerRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.ShiftWorker, error) {
	result, err := r.cb.Execute(func() (interface{}, error) {
		var worker domain.ShiftWorker
		err := r.executeWithRetry(ctx, func() error {
			row := r.db.QueryRowContext(ctx, query, arg)
			return row.Scan(
				&worker.ID, &worker.FirstName, &worker.LastName, &worker.Name,
				&worker.Email, &worker.Password, &worker.Role, &worker.Phone, &worker.Sex,
				&worker.ShiftPreference, &worker.AvatarURL, &worker.Notes, &worker.CreatedAt,
			)
		})
		if err != nil {
			return nil, err
		}
		return &worker, nil
	})

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrWorkerNotFound
		}
		return nil, err
	}

	return result.(*domain.ShiftWorker), nil
}

func (r *WorkerRepository) Update(ctx context.Context, worker *domain.ShiftWorker) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			query := `UPDATE shift_workers SET first_name = $2, last_name = $3, name = $4,
				email = $5, role = $6, phone = $7, sex = $8, shift_preference = $9,
				avatar_url = $10, notes = $11
				WHERE id = $1`
			result, err := r.db.ExecContext(ctx, query,
				worker.ID, worker.FirstName, worker.LastName, worker.Name,
				worker.Email, worker.Role, worker.Phone, worker.Sex, worker.ShiftPreference,
				worker.AvatarURL, worker.Notes,
			)
			if err != nil {
				return err
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				return sql.ErrNoRows
			}
			return nil
		})
	})
	if isNoRows(err) {
		return domain.ErrWorkerNotFound
	}
	return err
}

func (r *WorkerRepository) Exists(ctx context.Context, workerID uuid.UUID) (bool, error) {
	result, err := r.cb.Execute(func() (interface{}, error) {
		var exists bool
		err := r.executeWithRetry(ctx, func() error {
			var count int
			query := `SELECT COUNT(*) FROM shift_workers WHERE id = $1`
			err := r.db.QueryRowContext(ctx, query, workerID).Scan(&count)
			exists = count > 0
			return err
		})
		if err != nil {
			return nil, err
		}
		return exists, nil
	})

	if err != nil {
		return false, err
	}

	return result.(bool), nil
}

// Ensure WorkerRepository implements the interface
var _ ports.WorkerRepository = (*WorkerRepository)(nil)
