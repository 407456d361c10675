package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agendou/agendou-api/internal/domain"
)

type AppointmentRepository interface {
	// Create relies on the partial unique index on
	// (professional_id, business_id, date, time) WHERE status <> 'CANCELLED'
	// as the backstop against two concurrent bookings of the same slot; a
	// unique violation surfaces as domain.ErrSlotUnavailable.
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByIDForClient(ctx context.Context, id, clientID int64) (*domain.Appointment, error)
	GetByIDForProfessional(ctx context.Context, id, professionalID int64) (*domain.Appointment, error)
	ListByClient(ctx context.Context, clientID, businessID int64, limit, offset int) ([]domain.BookedAppointment, error)
	ListByProfessionalDate(ctx context.Context, professionalID, businessID int64, date string) ([]domain.BookedAppointment, error)
	ListBookedForDate(ctx context.Context, professionalID, businessID int64, date string) ([]domain.BookedAppointment, error)
	ListCompleted(ctx context.Context, professionalID, businessID int64, sinceDate string) ([]domain.BookedAppointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
}

type appointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepository{pool: pool}
}

const appointmentCols = `a.id, a.business_id, a.client_id, a.professional_id, a.service_id,
a.date, a.time, a.status, a.created_at, a.updated_at`

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var a domain.Appointment
	err := row.Scan(
		&a.ID, &a.BusinessID, &a.ClientID, &a.ProfessionalID, &a.ServiceID,
		&a.Date, &a.Time, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	const q = `INSERT INTO appointments AS a (business_id, client_id, professional_id, service_id, date, time, status)
	VALUES ($1,$2,$3,$4,$5,$6,'PENDING')
	RETURNING ` + appointmentCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	created, err := scanAppointment(r.pool.QueryRow(ctx, q,
		a.BusinessID, a.ClientID, a.ProfessionalID, a.ServiceID, a.Date, a.Time,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrSlotUnavailable
		}
		return nil, err
	}
	return created, nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	const q = `SELECT ` + appointmentCols + ` FROM appointments a WHERE a.id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	a, err := scanAppointment(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (r *appointmentRepository) GetByIDForClient(ctx context.Context, id, clientID int64) (*domain.Appointment, error) {
	const q = `SELECT ` + appointmentCols + ` FROM appointments a WHERE a.id=$1 AND a.client_id=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	a, err := scanAppointment(r.pool.QueryRow(ctx, q, id, clientID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (r *appointmentRepository) GetByIDForProfessional(ctx context.Context, id, professionalID int64) (*domain.Appointment, error) {
	const q = `SELECT ` + appointmentCols + ` FROM appointments a WHERE a.id=$1 AND a.professional_id=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	a, err := scanAppointment(r.pool.QueryRow(ctx, q, id, professionalID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return a, err
}

const bookedCols = appointmentCols + `, s.name, s.duration_minutes, s.price_cents`

func scanBooked(row pgx.Row) (*domain.BookedAppointment, error) {
	var b domain.BookedAppointment
	err := row.Scan(
		&b.ID, &b.BusinessID, &b.ClientID, &b.ProfessionalID, &b.ServiceID,
		&b.Date, &b.Time, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		&b.ServiceName, &b.DurationMinutes, &b.PriceCents,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *appointmentRepository) ListByClient(ctx context.Context, clientID, businessID int64, limit, offset int) ([]domain.BookedAppointment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + bookedCols + ` FROM appointments a
	JOIN services s ON s.id = a.service_id
	WHERE a.client_id=$1 AND a.business_id=$2
	ORDER BY a.date DESC, a.time DESC
	LIMIT $3 OFFSET $4`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, clientID, businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBooked(rows)
}

func (r *appointmentRepository) ListByProfessionalDate(ctx context.Context, professionalID, businessID int64, date string) ([]domain.BookedAppointment, error) {
	const q = `SELECT ` + bookedCols + ` FROM appointments a
	JOIN services s ON s.id = a.service_id
	WHERE a.professional_id=$1 AND a.business_id=$2 AND a.date=$3
	ORDER BY a.time`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, professionalID, businessID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBooked(rows)
}

// ListBookedForDate feeds the slot checker: non-cancelled appointments only.
func (r *appointmentRepository) ListBookedForDate(ctx context.Context, professionalID, businessID int64, date string) ([]domain.BookedAppointment, error) {
	const q = `SELECT ` + bookedCols + ` FROM appointments a
	JOIN services s ON s.id = a.service_id
	WHERE a.professional_id=$1 AND a.business_id=$2 AND a.date=$3 AND a.status <> 'CANCELLED'
	ORDER BY a.time`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, professionalID, businessID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBooked(rows)
}

func (r *appointmentRepository) ListCompleted(ctx context.Context, professionalID, businessID int64, sinceDate string) ([]domain.BookedAppointment, error) {
	const q = `SELECT ` + bookedCols + ` FROM appointments a
	JOIN services s ON s.id = a.service_id
	WHERE a.professional_id=$1 AND a.business_id=$2 AND a.status='DONE' AND a.date >= $3
	ORDER BY a.date, a.time`

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, professionalID, businessID, sinceDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBooked(rows)
}

func collectBooked(rows pgx.Rows) ([]domain.BookedAppointment, error) {
	appointments := []domain.BookedAppointment{}
	for rows.Next() {
		b, err := scanBooked(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, *b)
	}
	return appointments, rows.Err()
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	const q = `UPDATE appointments SET status=$2, updated_at=now() WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, id, status)
	return err
}
