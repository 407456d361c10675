package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agendou/agendou-api/internal/domain"
)

type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	ListByProfessional(ctx context.Context, professionalID, businessID int64, activeOnly bool) ([]domain.Service, error)
	Update(ctx context.Context, id, professionalID int64, patch domain.ServicePatch) (*domain.Service, error)
	// Deactivate soft-disables; past appointments keep the row for history.
	Deactivate(ctx context.Context, id, professionalID int64) (bool, error)
	CountActiveByBusiness(ctx context.Context, businessID int64) (int, error)
}

type serviceRepository struct {
	pool *pgxpool.Pool
}

func NewServiceRepository(pool *pgxpool.Pool) ServiceRepository {
	return &serviceRepository{pool: pool}
}

const serviceCols = `id, professional_id, business_id, name, price_cents,
duration_minutes, active, created_at, updated_at`

func scanService(row pgx.Row) (*domain.Service, error) {
	var s domain.Service
	err := row.Scan(
		&s.ID, &s.ProfessionalID, &s.BusinessID, &s.Name, &s.PriceCents,
		&s.DurationMinutes, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serviceRepository) Create(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	const q = `INSERT INTO services (professional_id, business_id, name, price_cents, duration_minutes, active)
	VALUES ($1,$2,$3,$4,$5,true)
	RETURNING ` + serviceCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanService(r.pool.QueryRow(ctx, q,
		s.ProfessionalID, s.BusinessID, s.Name, s.PriceCents, s.DurationMinutes,
	))
}

func (r *serviceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	const q = `SELECT ` + serviceCols + ` FROM services WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanService(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *serviceRepository) ListByProfessional(ctx context.Context, professionalID, businessID int64, activeOnly bool) ([]domain.Service, error) {
	q := `SELECT ` + serviceCols + ` FROM services WHERE professional_id=$1 AND business_id=$2`
	if activeOnly {
		q += ` AND active`
	}
	q += ` ORDER BY name`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, professionalID, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := []domain.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, *s)
	}
	return services, rows.Err()
}

func (r *serviceRepository) Update(ctx context.Context, id, professionalID int64, patch domain.ServicePatch) (*domain.Service, error) {
	const q = `UPDATE services SET
		name = COALESCE($3, name),
		price_cents = COALESCE($4, price_cents),
		duration_minutes = COALESCE($5, duration_minutes),
		active = COALESCE($6, active),
		updated_at = now()
	WHERE id=$1 AND professional_id=$2
	RETURNING ` + serviceCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanService(r.pool.QueryRow(ctx, q, id, professionalID,
		patch.Name, patch.PriceCents, patch.DurationMinutes, patch.Active,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *serviceRepository) Deactivate(ctx context.Context, id, professionalID int64) (bool, error) {
	const q = `UPDATE services SET active=false, updated_at=now() WHERE id=$1 AND professional_id=$2 AND active`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q, id, professionalID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *serviceRepository) CountActiveByBusiness(ctx context.Context, businessID int64) (int, error) {
	const q = `SELECT count(*) FROM services WHERE business_id=$1 AND active`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int
	err := r.pool.QueryRow(ctx, q, businessID).Scan(&n)
	return n, err
}
