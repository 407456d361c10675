package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agendou/agendou-api/internal/domain"
)

type AccessCodeRepository interface {
	Create(ctx context.Context, c *domain.AccessCode) (*domain.AccessCode, error)
	FindByCode(ctx context.Context, businessID int64, code string) (*domain.AccessCode, error)
	ListByBusiness(ctx context.Context, businessID int64) ([]domain.AccessCode, error)
	Deactivate(ctx context.Context, id, businessID int64) (bool, error)
}

type accessCodeRepository struct {
	pool *pgxpool.Pool
}

func NewAccessCodeRepository(pool *pgxpool.Pool) AccessCodeRepository {
	return &accessCodeRepository{pool: pool}
}

const accessCodeCols = `id, business_id, code, active, expires_at, description, created_at`

func scanAccessCode(row pgx.Row) (*domain.AccessCode, error) {
	var c domain.AccessCode
	err := row.Scan(&c.ID, &c.BusinessID, &c.Code, &c.Active, &c.ExpiresAt, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *accessCodeRepository) Create(ctx context.Context, c *domain.AccessCode) (*domain.AccessCode, error) {
	const q = `INSERT INTO access_codes (business_id, code, active, expires_at, description)
	VALUES ($1,$2,true,$3,$4)
	RETURNING ` + accessCodeCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	created, err := scanAccessCode(r.pool.QueryRow(ctx, q, c.BusinessID, c.Code, c.ExpiresAt, c.Description))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateCode
		}
		return nil, err
	}
	return created, nil
}

func (r *accessCodeRepository) FindByCode(ctx context.Context, businessID int64, code string) (*domain.AccessCode, error) {
	const q = `SELECT ` + accessCodeCols + ` FROM access_codes WHERE business_id=$1 AND code=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanAccessCode(r.pool.QueryRow(ctx, q, businessID, code))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *accessCodeRepository) ListByBusiness(ctx context.Context, businessID int64) ([]domain.AccessCode, error) {
	const q = `SELECT ` + accessCodeCols + ` FROM access_codes WHERE business_id=$1 ORDER BY created_at DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := []domain.AccessCode{}
	for rows.Next() {
		c, err := scanAccessCode(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, *c)
	}
	return codes, rows.Err()
}

func (r *accessCodeRepository) Deactivate(ctx context.Context, id, businessID int64) (bool, error) {
	const q = `UPDATE access_codes SET active=false WHERE id=$1 AND business_id=$2 AND active`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q, id, businessID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
