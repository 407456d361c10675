package gate_test

import (
	"errors"
	"testing"
	"time"

	"github.com/agendou/agendou-api/internal/domain"
	"github.com/agendou/agendou-api/internal/gate"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func activeBusiness() *domain.Business {
	return &domain.Business{
		ID:            1,
		Name:          "Studio Central",
		Active:        true,
		PaymentStatus: domain.PaymentActive,
		GraceDays:     5,
	}
}

func TestEvaluateActiveAllowed(t *testing.T) {
	d := gate.Evaluate(activeBusiness(), now)
	if !d.Allowed {
		t.Fatalf("expected active business to be allowed, got reason %v", d.Reason)
	}
	if d.Transition != nil {
		t.Error("expected no transition for active business")
	}
}

func TestEvaluateNilBusiness(t *testing.T) {
	d := gate.Evaluate(nil, now)
	if d.Allowed {
		t.Fatal("expected nil business to be denied")
	}
	if !errors.Is(d.Reason, domain.ErrBusinessInactive) {
		t.Errorf("expected ErrBusinessInactive, got %v", d.Reason)
	}
}

func TestEvaluateInactive(t *testing.T) {
	b := activeBusiness()
	b.Active = false
	d := gate.Evaluate(b, now)
	if d.Allowed {
		t.Fatal("expected inactive business to be denied")
	}
	if !errors.Is(d.Reason, domain.ErrBusinessInactive) {
		t.Errorf("expected ErrBusinessInactive, got %v", d.Reason)
	}
}

func TestEvaluateBlocked(t *testing.T) {
	blockedAt := now.Add(-48 * time.Hour)
	b := activeBusiness()
	b.PaymentStatus = domain.PaymentBlocked
	b.BlockedAt = &blockedAt

	d := gate.Evaluate(b, now)
	if d.Allowed {
		t.Fatal("expected blocked business to be denied")
	}
	if !errors.Is(d.Reason, domain.ErrBusinessBlocked) {
		t.Errorf("expected ErrBusinessBlocked, got %v", d.Reason)
	}
	if d.BlockedAt == nil || !d.BlockedAt.Equal(blockedAt) {
		t.Errorf("expected blocked_at %v, got %v", blockedAt, d.BlockedAt)
	}
	if d.Transition != nil {
		t.Error("blocked business must not produce another transition")
	}
}

func TestEvaluateCancelled(t *testing.T) {
	b := activeBusiness()
	b.PaymentStatus = domain.PaymentCancelled
	d := gate.Evaluate(b, now)
	if d.Allowed {
		t.Fatal("expected cancelled business to be denied")
	}
	if !errors.Is(d.Reason, domain.ErrBusinessCancelled) {
		t.Errorf("expected ErrBusinessCancelled, got %v", d.Reason)
	}
}

func TestEvaluateOverdueWithinGrace(t *testing.T) {
	due := now.Add(-3 * 24 * time.Hour)
	b := activeBusiness()
	b.PaymentStatus = domain.PaymentOverdue
	b.DueDate = &due

	d := gate.Evaluate(b, now)
	if !d.Allowed {
		t.Fatalf("expected overdue business within grace to be allowed, got %v", d.Reason)
	}
	if d.DaysOverdue != 3 {
		t.Errorf("expected 3 days overdue, got %d", d.DaysOverdue)
	}
	if d.Transition != nil {
		t.Error("expected no transition within grace")
	}
}

func TestEvaluateOverdueAtGraceBoundary(t *testing.T) {
	// Exactly graceDays overdue is still allowed; the block needs strictly more.
	due := now.Add(-5 * 24 * time.Hour)
	b := activeBusiness()
	b.PaymentStatus = domain.PaymentOverdue
	b.DueDate = &due

	d := gate.Evaluate(b, now)
	if !d.Allowed {
		t.Fatalf("expected business at the grace boundary to be allowed, got %v", d.Reason)
	}
}

func TestEvaluateOverduePastGrace(t *testing.T) {
	due := now.Add(-6 * 24 * time.Hour)
	b := activeBusiness()
	b.PaymentStatus = domain.PaymentOverdue
	b.DueDate = &due

	d := gate.Evaluate(b, now)
	if d.Allowed {
		t.Fatal("expected business past grace to be denied")
	}
	if !errors.Is(d.Reason, domain.ErrBusinessOverdueBlocked) {
		t.Errorf("expected ErrBusinessOverdueBlocked, got %v", d.Reason)
	}
	if d.DaysOverdue != 6 {
		t.Errorf("expected 6 days overdue, got %d", d.DaysOverdue)
	}
	if d.Transition == nil {
		t.Fatal("expected a transition to persist")
	}
	if d.Transition.PaymentStatus != domain.PaymentBlocked {
		t.Errorf("expected transition to BLOCKED, got %s", d.Transition.PaymentStatus)
	}
	if !d.Transition.BlockedAt.Equal(now) {
		t.Errorf("expected blocked_at %v, got %v", now, d.Transition.BlockedAt)
	}
}

func TestEvaluateOverdueNoDueDate(t *testing.T) {
	b := activeBusiness()
	b.PaymentStatus = domain.PaymentOverdue
	d := gate.Evaluate(b, now)
	if !d.Allowed {
		t.Fatalf("overdue with no due date cannot be aged, expected allowed, got %v", d.Reason)
	}
}

func TestEvaluateDefaultGraceDays(t *testing.T) {
	due := now.Add(-4 * 24 * time.Hour)
	b := activeBusiness()
	b.GraceDays = 0 // falls back to the default of 5
	b.PaymentStatus = domain.PaymentOverdue
	b.DueDate = &due

	d := gate.Evaluate(b, now)
	if !d.Allowed {
		t.Fatalf("expected default grace to cover 4 days overdue, got %v", d.Reason)
	}
}

func TestEvaluateIdempotentAfterPersist(t *testing.T) {
	due := now.Add(-10 * 24 * time.Hour)
	b := activeBusiness()
	b.PaymentStatus = domain.PaymentOverdue
	b.DueDate = &due

	first := gate.Evaluate(b, now)
	if first.Transition == nil {
		t.Fatal("expected a transition on first evaluation")
	}

	// Simulate the caller persisting the transition.
	b.PaymentStatus = first.Transition.PaymentStatus
	b.BlockedAt = &first.Transition.BlockedAt

	second := gate.Evaluate(b, now.Add(time.Hour))
	if second.Allowed {
		t.Fatal("expected persisted block to keep denying")
	}
	if !errors.Is(second.Reason, domain.ErrBusinessBlocked) {
		t.Errorf("expected ErrBusinessBlocked after persist, got %v", second.Reason)
	}
	if second.Transition != nil {
		t.Error("expected no new transition once the block is persisted")
	}
}

func TestDaysOverdue(t *testing.T) {
	due := now.Add(-3 * 24 * time.Hour)
	b := activeBusiness()
	b.DueDate = &due
	if got := gate.DaysOverdue(b, now); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}

	future := now.Add(24 * time.Hour)
	b.DueDate = &future
	if got := gate.DaysOverdue(b, now); got != 0 {
		t.Errorf("expected 0 for a future due date, got %d", got)
	}

	if got := gate.DaysOverdue(nil, now); got != 0 {
		t.Errorf("expected 0 for nil business, got %d", got)
	}
}
