package repository

import (
	"context"
	"database/sql"

	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/carebridge/wellness-service/internal/core/ports"
	"github.com/google/uuid"
)

// ReportRepository implements shift-report persistence on PostgreSQL
type ReportRepository struct {
	postgresBase
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{newPostgresBase(db, "reports-db")}
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.ShiftReport) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			query := `INSERT INTO shift_reports (id, resident_id, shift_worker_id, report_time, report_text)
				VALUES ($1, $2, $3, $4, $5)`
			_, err := r.db.ExecContext(ctx, query,
				report.ID, report.ResidentID, report.WorkerID, report.ReportTime, report.ReportText,
			)
			return err
		})
	})
	return err
}

func (r *ReportRepository) ListByResident(ctx context.Context, residentID uuid.UUID) ([]*domain.ShiftReport, error) {
	result, err := r.cb.Execute(func() (interface{}, error) {
		var reports []*domain.ShiftReport
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT id, resident_id, shift_worker_id, report_time, report_text
				FROM shift_reports WHERE resident_id = $1 ORDER BY report_time DESC`
			rows, queryErr := r.db.QueryContext(ctx, query, residentID)
			if queryErr != nil {
				return queryErr
			}
			defer rows.Close()

			reports = reports[:0]
			for rows.Next() {
				var report domain.ShiftReport
				if err := rows.Scan(&report.ID, &report.ResidentID, &report.WorkerID,
					&report.ReportTime, &report.ReportText); err != nil {
					return err
				}
				reports = append(reports, &report)
			}
			return rows.Err()
		})
		if err != nil {
			return nil, err
		}
		return reports, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]*domain.ShiftReport), nil
}

func (r *ReportRepository) DeleteByResident(ctx context.Context, residentID uuid.UUID) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			_, err := r.db.ExecContext(ctx, `DELETE FROM shift_reports WHERE resident_id = $1`, residentID)
			return err
		})
	})
	return err
}

// Ensure ReportRepository implements the interface
var _ ports.ReportRepository = (*ReportRepository)(nil)
