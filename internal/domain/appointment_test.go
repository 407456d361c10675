package domain_test

import (
	"testing"
	"time"

	"github.com/agendou/agendou-api/internal/domain"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to domain.AppointmentStatus }{
		{domain.AppointmentPending, domain.AppointmentInProgress},
		{domain.AppointmentPending, domain.AppointmentCancelled},
		{domain.AppointmentInProgress, domain.AppointmentDone},
		{domain.AppointmentInProgress, domain.AppointmentCancelled},
	}
	for _, c := range allowed {
		if !domain.CanTransition(c.from, c.to) {
			t.Errorf("expected %s -> %s to be allowed", c.from, c.to)
		}
	}

	denied := []struct{ from, to domain.AppointmentStatus }{
		{domain.AppointmentPending, domain.AppointmentDone},
		{domain.AppointmentDone, domain.AppointmentInProgress},
		{domain.AppointmentDone, domain.AppointmentCancelled},
		{domain.AppointmentCancelled, domain.AppointmentPending},
		{domain.AppointmentCancelled, domain.AppointmentCancelled},
		{domain.AppointmentInProgress, domain.AppointmentPending},
	}
	for _, c := range denied {
		if domain.CanTransition(c.from, c.to) {
			t.Errorf("expected %s -> %s to be denied", c.from, c.to)
		}
	}
}

func TestCanCancelByLeadTime(t *testing.T) {
	a := &domain.Appointment{Date: "2025-06-15", Time: "14:00"}
	start := time.Date(2025, 6, 15, 14, 0, 0, 0, time.Local)

	if !a.CanCancelBy(start.Add(-2 * time.Hour)) {
		t.Error("cancelling exactly 2 hours ahead must be allowed")
	}
	if !a.CanCancelBy(start.Add(-3 * time.Hour)) {
		t.Error("cancelling 3 hours ahead must be allowed")
	}
	if a.CanCancelBy(start.Add(-2*time.Hour + time.Minute)) {
		t.Error("cancelling 1h59m ahead must be denied")
	}
	if a.CanCancelBy(start.Add(time.Hour)) {
		t.Error("cancelling after the start must be denied")
	}
}

func TestCanCancelByBadDate(t *testing.T) {
	a := &domain.Appointment{Date: "not-a-date", Time: "14:00"}
	if a.CanCancelBy(time.Now()) {
		t.Error("unparseable start must deny cancellation")
	}
}

func TestParseAppointmentStatus(t *testing.T) {
	if _, ok := domain.ParseAppointmentStatus("DONE"); !ok {
		t.Error("expected DONE to parse")
	}
	if _, ok := domain.ParseAppointmentStatus("done"); ok {
		t.Error("statuses are uppercase only")
	}
	if _, ok := domain.ParseAppointmentStatus("FINISHED"); ok {
		t.Error("expected unknown status to fail")
	}
}
