// Package gate decides whether requests against a business are allowed based
// on its active flag and payment status. Evaluation is pure: when an overdue
// business has exhausted its grace period the decision carries a Transition
// the caller must persist, instead of mutating the business in place.
package gate

import (
	"time"

	"github.com/agendou/agendou-api/internal/domain"
)

// Transition is a pending payment-status change produced by an evaluation.
type Transition struct {
	PaymentStatus domain.PaymentStatus
	BlockedAt     time.Time
}

// Decision is the outcome of evaluating a business at a point in time.
type Decision struct {
	Allowed     bool
	Reason      error
	DaysOverdue int
	DueDate     *time.Time
	BlockedAt   *time.Time
	Transition  *Transition
}

// Evaluate runs the status gate. It is called identically at login and on
// every authenticated business-scoped request, and is idempotent: once the
// caller persists a Transition, the next evaluation takes the BLOCKED branch.
func Evaluate(b *domain.Business, now time.Time) Decision {
	if b == nil || !b.Active {
		return Decision{Reason: domain.ErrBusinessInactive}
	}

	switch b.PaymentStatus {
	case domain.PaymentBlocked:
		return Decision{Reason: domain.ErrBusinessBlocked, BlockedAt: b.BlockedAt}
	case domain.PaymentCancelled:
		return Decision{Reason: domain.ErrBusinessCancelled}
	case domain.PaymentOverdue:
		if b.DueDate == nil {
			return Decision{Allowed: true}
		}
		daysOverdue := int(now.Sub(*b.DueDate).Hours() / 24)
		if daysOverdue > b.EffectiveGraceDays() {
			return Decision{
				Reason:      domain.ErrBusinessOverdueBlocked,
				DaysOverdue: daysOverdue,
				DueDate:     b.DueDate,
				Transition: &Transition{
					PaymentStatus: domain.PaymentBlocked,
					BlockedAt:     now,
				},
			}
		}
		return Decision{Allowed: true, DaysOverdue: daysOverdue, DueDate: b.DueDate}
	}

	return Decision{Allowed: true}
}

// DaysOverdue reports how many whole days a business is past due at now, or
// zero when it has no due date. Used by the admin listing.
func DaysOverdue(b *domain.Business, now time.Time) int {
	if b == nil || b.DueDate == nil {
		return 0
	}
	d := int(now.Sub(*b.DueDate).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
