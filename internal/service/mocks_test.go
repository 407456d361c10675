package service_test

import (
	"context"
	"time"

	"github.com/agendou/agendou-api/internal/domain"
)

// ---------- Mocks ----------

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type mockEventBus struct {
	published  []publishedEvent
	publishErr error
}

type publishedEvent struct {
	Subject string
	Data    interface{}
}

func (m *mockEventBus) Publish(_ context.Context, subject string, data interface{}) error {
	m.published = append(m.published, publishedEvent{Subject: subject, Data: data})
	return m.publishErr
}

func (m *mockEventBus) Close() error { return nil }

func (m *mockEventBus) subjects() []string {
	out := make([]string, 0, len(m.published))
	for _, e := range m.published {
		out = append(out, e.Subject)
	}
	return out
}

type mockBusinessRepo struct {
	businesses map[int64]*domain.Business
	blocked    []int64
	createErr  error
}

func newMockBusinessRepo(businesses ...*domain.Business) *mockBusinessRepo {
	m := &mockBusinessRepo{businesses: map[int64]*domain.Business{}}
	for _, b := range businesses {
		m.businesses[b.ID] = b
	}
	return m
}

func (m *mockBusinessRepo) Create(_ context.Context, b *domain.Business) (*domain.Business, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	b.ID = int64(len(m.businesses) + 1)
	m.businesses[b.ID] = b
	return b, nil
}

func (m *mockBusinessRepo) GetByID(_ context.Context, id int64) (*domain.Business, error) {
	return m.businesses[id], nil
}

func (m *mockBusinessRepo) GetBySlug(_ context.Context, slug string) (*domain.Business, error) {
	for _, b := range m.businesses {
		if b.Slug == slug {
			return b, nil
		}
	}
	return nil, nil
}

func (m *mockBusinessRepo) List(_ context.Context, _, _ int) ([]domain.Business, error) {
	out := []domain.Business{}
	for _, b := range m.businesses {
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockBusinessRepo) Update(_ context.Context, id int64, patch domain.BusinessPatch) (*domain.Business, error) {
	b := m.businesses[id]
	if b == nil {
		return nil, nil
	}
	if patch.Name != nil {
		b.Name = *patch.Name
	}
	return b, nil
}

func (m *mockBusinessRepo) ApplyBlock(_ context.Context, id int64, blockedAt time.Time) error {
	m.blocked = append(m.blocked, id)
	if b := m.businesses[id]; b != nil && b.PaymentStatus != domain.PaymentBlocked {
		b.PaymentStatus = domain.PaymentBlocked
		b.BlockedAt = &blockedAt
	}
	return nil
}

func (m *mockBusinessRepo) SetPaymentStatus(_ context.Context, id int64, status domain.PaymentStatus, blockedAt *time.Time) error {
	if b := m.businesses[id]; b != nil {
		b.PaymentStatus = status
		b.BlockedAt = blockedAt
	}
	return nil
}

func (m *mockBusinessRepo) RegisterPayment(_ context.Context, id int64, paidAt, nextDueAt time.Time) (*domain.Business, error) {
	b := m.businesses[id]
	if b == nil {
		return nil, nil
	}
	b.PaymentStatus = domain.PaymentActive
	b.LastPaymentAt = &paidAt
	b.DueDate = &nextDueAt
	b.BlockedAt = nil
	return b, nil
}

type mockUserRepo struct {
	users     map[int64]*domain.User
	nextID    int64
	createErr error
}

func newMockUserRepo(users ...*domain.User) *mockUserRepo {
	m := &mockUserRepo{users: map[int64]*domain.User{}, nextID: 1}
	for _, u := range users {
		m.users[u.ID] = u
		if u.ID >= m.nextID {
			m.nextID = u.ID + 1
		}
	}
	return m
}

func (m *mockUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return u, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) ListByBusiness(_ context.Context, businessID int64, role *domain.Role) ([]domain.User, error) {
	out := []domain.User{}
	for _, u := range m.users {
		if u.BusinessID != nil && *u.BusinessID == businessID && (role == nil || u.Role == *role) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) CountByBusinessRole(_ context.Context, businessID int64, role domain.Role) (int, error) {
	n := 0
	for _, u := range m.users {
		if u.BusinessID != nil && *u.BusinessID == businessID && u.Role == role {
			n++
		}
	}
	return n, nil
}

type mockAccessCodeRepo struct {
	codes []*domain.AccessCode
}

func (m *mockAccessCodeRepo) Create(_ context.Context, c *domain.AccessCode) (*domain.AccessCode, error) {
	c.ID = int64(len(m.codes) + 1)
	c.Active = true
	m.codes = append(m.codes, c)
	return c, nil
}

func (m *mockAccessCodeRepo) FindByCode(_ context.Context, businessID int64, code string) (*domain.AccessCode, error) {
	for _, c := range m.codes {
		if c.BusinessID == businessID && c.Code == code {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockAccessCodeRepo) ListByBusiness(_ context.Context, businessID int64) ([]domain.AccessCode, error) {
	out := []domain.AccessCode{}
	for _, c := range m.codes {
		if c.BusinessID == businessID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockAccessCodeRepo) Deactivate(_ context.Context, id, businessID int64) (bool, error) {
	for _, c := range m.codes {
		if c.ID == id && c.BusinessID == businessID {
			c.Active = false
			return true, nil
		}
	}
	return false, nil
}

type mockServiceRepo struct {
	services map[int64]*domain.Service
	nextID   int64
}

func newMockServiceRepo(services ...*domain.Service) *mockServiceRepo {
	m := &mockServiceRepo{services: map[int64]*domain.Service{}, nextID: 1}
	for _, s := range services {
		m.services[s.ID] = s
		if s.ID >= m.nextID {
			m.nextID = s.ID + 1
		}
	}
	return m
}

func (m *mockServiceRepo) Create(_ context.Context, s *domain.Service) (*domain.Service, error) {
	s.ID = m.nextID
	m.nextID++
	s.Active = true
	m.services[s.ID] = s
	return s, nil
}

func (m *mockServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	return m.services[id], nil
}

func (m *mockServiceRepo) ListByProfessional(_ context.Context, professionalID, businessID int64, activeOnly bool) ([]domain.Service, error) {
	out := []domain.Service{}
	for _, s := range m.services {
		if s.ProfessionalID == professionalID && s.BusinessID == businessID && (!activeOnly || s.Active) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockServiceRepo) Update(_ context.Context, id, professionalID int64, patch domain.ServicePatch) (*domain.Service, error) {
	s := m.services[id]
	if s == nil || s.ProfessionalID != professionalID {
		return nil, nil
	}
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.PriceCents != nil {
		s.PriceCents = *patch.PriceCents
	}
	if patch.DurationMinutes != nil {
		s.DurationMinutes = *patch.DurationMinutes
	}
	return s, nil
}

func (m *mockServiceRepo) Deactivate(_ context.Context, id, professionalID int64) (bool, error) {
	s := m.services[id]
	if s == nil || s.ProfessionalID != professionalID {
		return false, nil
	}
	s.Active = false
	return true, nil
}

func (m *mockServiceRepo) CountActiveByBusiness(_ context.Context, businessID int64) (int, error) {
	n := 0
	for _, s := range m.services {
		if s.BusinessID == businessID && s.Active {
			n++
		}
	}
	return n, nil
}

type mockAvailabilityRepo struct {
	windows []*domain.AvailabilityWindow
	nextID  int64
}

func newMockAvailabilityRepo(windows ...*domain.AvailabilityWindow) *mockAvailabilityRepo {
	m := &mockAvailabilityRepo{nextID: 1}
	for _, w := range windows {
		if w.ID == 0 {
			w.ID = m.nextID
		}
		m.nextID = w.ID + 1
		m.windows = append(m.windows, w)
	}
	return m
}

func (m *mockAvailabilityRepo) Create(_ context.Context, w *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error) {
	w.ID = m.nextID
	m.nextID++
	w.Active = true
	m.windows = append(m.windows, w)
	return w, nil
}

func (m *mockAvailabilityRepo) ListByDate(_ context.Context, professionalID, businessID int64, date string) ([]domain.AvailabilityWindow, error) {
	out := []domain.AvailabilityWindow{}
	for _, w := range m.windows {
		if w.ProfessionalID == professionalID && w.BusinessID == businessID && w.Date == date && w.Active {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (m *mockAvailabilityRepo) ListByProfessional(_ context.Context, professionalID, businessID int64, fromDate string) ([]domain.AvailabilityWindow, error) {
	out := []domain.AvailabilityWindow{}
	for _, w := range m.windows {
		if w.ProfessionalID == professionalID && w.BusinessID == businessID && w.Date >= fromDate {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (m *mockAvailabilityRepo) Delete(_ context.Context, id, professionalID int64) (bool, error) {
	for i, w := range m.windows {
		if w.ID == id && w.ProfessionalID == professionalID {
			m.windows = append(m.windows[:i], m.windows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type mockAppointmentRepo struct {
	appointments map[int64]*domain.BookedAppointment
	nextID       int64
	createErr    error
}

func newMockAppointmentRepo(appointments ...*domain.BookedAppointment) *mockAppointmentRepo {
	m := &mockAppointmentRepo{appointments: map[int64]*domain.BookedAppointment{}, nextID: 1}
	for _, a := range appointments {
		m.appointments[a.ID] = a
		if a.ID >= m.nextID {
			m.nextID = a.ID + 1
		}
	}
	return m
}

func (m *mockAppointmentRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	a.ID = m.nextID
	m.nextID++
	a.Status = domain.AppointmentPending
	m.appointments[a.ID] = &domain.BookedAppointment{Appointment: *a}
	return a, nil
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if a, ok := m.appointments[id]; ok {
		appt := a.Appointment
		return &appt, nil
	}
	return nil, nil
}

func (m *mockAppointmentRepo) GetByIDForClient(_ context.Context, id, clientID int64) (*domain.Appointment, error) {
	if a, ok := m.appointments[id]; ok && a.ClientID == clientID {
		appt := a.Appointment
		return &appt, nil
	}
	return nil, nil
}

func (m *mockAppointmentRepo) GetByIDForProfessional(_ context.Context, id, professionalID int64) (*domain.Appointment, error) {
	if a, ok := m.appointments[id]; ok && a.ProfessionalID == professionalID {
		appt := a.Appointment
		return &appt, nil
	}
	return nil, nil
}

func (m *mockAppointmentRepo) ListByClient(_ context.Context, clientID, businessID int64, _, _ int) ([]domain.BookedAppointment, error) {
	out := []domain.BookedAppointment{}
	for _, a := range m.appointments {
		if a.ClientID == clientID && a.BusinessID == businessID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAppointmentRepo) ListByProfessionalDate(_ context.Context, professionalID, businessID int64, date string) ([]domain.BookedAppointment, error) {
	out := []domain.BookedAppointment{}
	for _, a := range m.appointments {
		if a.ProfessionalID == professionalID && a.BusinessID == businessID && a.Date == date {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAppointmentRepo) ListBookedForDate(_ context.Context, professionalID, businessID int64, date string) ([]domain.BookedAppointment, error) {
	out := []domain.BookedAppointment{}
	for _, a := range m.appointments {
		if a.ProfessionalID == professionalID && a.BusinessID == businessID && a.Date == date && a.Status != domain.AppointmentCancelled {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAppointmentRepo) ListCompleted(_ context.Context, professionalID, businessID int64, sinceDate string) ([]domain.BookedAppointment, error) {
	out := []domain.BookedAppointment{}
	for _, a := range m.appointments {
		if a.ProfessionalID == professionalID && a.BusinessID == businessID && a.Status == domain.AppointmentDone && a.Date >= sinceDate {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAppointmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	if a, ok := m.appointments[id]; ok {
		a.Status = status
	}
	return nil
}

type mockIdempotencyRepo struct {
	entries map[string]int64
}

func newMockIdempotencyRepo() *mockIdempotencyRepo {
	return &mockIdempotencyRepo{entries: map[string]int64{}}
}

func (m *mockIdempotencyRepo) CheckOrCreate(_ context.Context, key string, appointmentID int64) (int64, error) {
	if id, ok := m.entries[key]; ok && id > 0 {
		return id, nil
	}
	m.entries[key] = appointmentID
	return 0, nil
}

func (m *mockIdempotencyRepo) CleanupExpired(_ context.Context) (int64, error) {
	return 0, nil
}
