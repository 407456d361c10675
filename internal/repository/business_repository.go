package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agendou/agendou-api/internal/domain"
)

type BusinessRepository interface {
	Create(ctx context.Context, b *domain.Business) (*domain.Business, error)
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Business, error)
	List(ctx context.Context, limit, offset int) ([]domain.Business, error)
	Update(ctx context.Context, id int64, patch domain.BusinessPatch) (*domain.Business, error)
	// ApplyBlock persists the gate's overdue transition. The status guard keeps
	// it idempotent: a second call against an already-BLOCKED row is a no-op.
	ApplyBlock(ctx context.Context, id int64, blockedAt time.Time) error
	SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus, blockedAt *time.Time) error
	RegisterPayment(ctx context.Context, id int64, paidAt, nextDueAt time.Time) (*domain.Business, error)
}

type businessRepository struct {
	pool *pgxpool.Pool
}

func NewBusinessRepository(pool *pgxpool.Pool) BusinessRepository {
	return &businessRepository{pool: pool}
}

const businessCols = `id, name, slug, custom_domain, active, plan,
payment_status, due_date, last_payment_at, blocked_at, grace_days,
max_professionals, max_services, created_at, updated_at`

func scanBusiness(row pgx.Row) (*domain.Business, error) {
	var b domain.Business
	err := row.Scan(
		&b.ID, &b.Name, &b.Slug, &b.CustomDomain, &b.Active, &b.Plan,
		&b.PaymentStatus, &b.DueDate, &b.LastPaymentAt, &b.BlockedAt, &b.GraceDays,
		&b.MaxProfessionals, &b.MaxServices, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *businessRepository) Create(ctx context.Context, b *domain.Business) (*domain.Business, error) {
	const q = `INSERT INTO businesses (
		name, slug, custom_domain, active, plan,
		payment_status, due_date, grace_days, max_professionals, max_services
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	RETURNING ` + businessCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	created, err := scanBusiness(r.pool.QueryRow(ctx, q,
		b.Name, b.Slug, b.CustomDomain, b.Active, b.Plan,
		b.PaymentStatus, b.DueDate, b.GraceDays, b.MaxProfessionals, b.MaxServices,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}
	return created, nil
}

func (r *businessRepository) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	const q = `SELECT ` + businessCols + ` FROM businesses WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBusiness(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func (r *businessRepository) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	const q = `SELECT ` + businessCols + ` FROM businesses WHERE slug=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBusiness(r.pool.QueryRow(ctx, q, slug))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func (r *businessRepository) List(ctx context.Context, limit, offset int) ([]domain.Business, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + businessCols + ` FROM businesses ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	businesses := []domain.Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, *b)
	}
	return businesses, rows.Err()
}

func (r *businessRepository) Update(ctx context.Context, id int64, patch domain.BusinessPatch) (*domain.Business, error) {
	const q = `UPDATE businesses SET
		name = COALESCE($2, name),
		custom_domain = COALESCE($3, custom_domain),
		active = COALESCE($4, active),
		plan = COALESCE($5, plan),
		grace_days = COALESCE($6, grace_days),
		max_professionals = COALESCE($7, max_professionals),
		max_services = COALESCE($8, max_services),
		updated_at = now()
	WHERE id=$1
	RETURNING ` + businessCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBusiness(r.pool.QueryRow(ctx, q, id,
		patch.Name, patch.CustomDomain, patch.Active, patch.Plan,
		patch.GraceDays, patch.MaxProfessionals, patch.MaxServices,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func (r *businessRepository) ApplyBlock(ctx context.Context, id int64, blockedAt time.Time) error {
	const q = `UPDATE businesses SET payment_status='BLOCKED', blocked_at=$2, updated_at=now()
		WHERE id=$1 AND payment_status <> 'BLOCKED'`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, id, blockedAt)
	return err
}

func (r *businessRepository) SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus, blockedAt *time.Time) error {
	const q = `UPDATE businesses SET payment_status=$2, blocked_at=$3, updated_at=now() WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, id, status, blockedAt)
	return err
}

func (r *businessRepository) RegisterPayment(ctx context.Context, id int64, paidAt, nextDueAt time.Time) (*domain.Business, error) {
	const q = `UPDATE businesses SET
		payment_status='ACTIVE', last_payment_at=$2, due_date=$3, blocked_at=NULL, updated_at=now()
	WHERE id=$1
	RETURNING ` + businessCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBusiness(r.pool.QueryRow(ctx, q, id, paidAt, nextDueAt))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return b, err
}
