package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agendou/agendou-api/internal/domain"
)

type AvailabilityRepository interface {
	Create(ctx context.Context, w *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error)
	ListByDate(ctx context.Context, professionalID, businessID int64, date string) ([]domain.AvailabilityWindow, error)
	ListByProfessional(ctx context.Context, professionalID, businessID int64, fromDate string) ([]domain.AvailabilityWindow, error)
	Delete(ctx context.Context, id, professionalID int64) (bool, error)
}

type availabilityRepository struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRepository(pool *pgxpool.Pool) AvailabilityRepository {
	return &availabilityRepository{pool: pool}
}

const windowCols = `id, professional_id, business_id, date, start_minute, end_minute, active, created_at`

func scanWindow(row pgx.Row) (*domain.AvailabilityWindow, error) {
	var w domain.AvailabilityWindow
	err := row.Scan(
		&w.ID, &w.ProfessionalID, &w.BusinessID, &w.Date,
		&w.StartMinute, &w.EndMinute, &w.Active, &w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *availabilityRepository) Create(ctx context.Context, w *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error) {
	const q = `INSERT INTO availability_windows (professional_id, business_id, date, start_minute, end_minute, active)
	VALUES ($1,$2,$3,$4,$5,true)
	RETURNING ` + windowCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanWindow(r.pool.QueryRow(ctx, q,
		w.ProfessionalID, w.BusinessID, w.Date, w.StartMinute, w.EndMinute,
	))
}

func (r *availabilityRepository) ListByDate(ctx context.Context, professionalID, businessID int64, date string) ([]domain.AvailabilityWindow, error) {
	const q = `SELECT ` + windowCols + ` FROM availability_windows
	WHERE professional_id=$1 AND business_id=$2 AND date=$3 AND active
	ORDER BY start_minute`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, professionalID, businessID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectWindows(rows)
}

func (r *availabilityRepository) ListByProfessional(ctx context.Context, professionalID, businessID int64, fromDate string) ([]domain.AvailabilityWindow, error) {
	const q = `SELECT ` + windowCols + ` FROM availability_windows
	WHERE professional_id=$1 AND business_id=$2 AND date >= $3
	ORDER BY date, start_minute`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, professionalID, businessID, fromDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectWindows(rows)
}

func collectWindows(rows pgx.Rows) ([]domain.AvailabilityWindow, error) {
	windows := []domain.AvailabilityWindow{}
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, *w)
	}
	return windows, rows.Err()
}

func (r *availabilityRepository) Delete(ctx context.Context, id, professionalID int64) (bool, error) {
	const q = `DELETE FROM availability_windows WHERE id=$1 AND professional_id=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q, id, professionalID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
