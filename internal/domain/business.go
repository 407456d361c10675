package domain

import "time"

type PaymentStatus string

const (
	PaymentActive    PaymentStatus = "ACTIVE"
	PaymentOverdue   PaymentStatus = "OVERDUE"
	PaymentBlocked   PaymentStatus = "BLOCKED"
	PaymentCancelled PaymentStatus = "CANCELLED"
	PaymentPending   PaymentStatus = "PENDING"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentActive, PaymentOverdue, PaymentBlocked, PaymentCancelled, PaymentPending:
		return PaymentStatus(s), true
	default:
		return "", false
	}
}

// DefaultGraceDays applies when a business has no explicit grace period.
const DefaultGraceDays = 5

type Business struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	Slug             string        `json:"slug"`
	CustomDomain     *string       `json:"custom_domain,omitempty"`
	Active           bool          `json:"active"`
	Plan             string        `json:"plan"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	DueDate          *time.Time    `json:"due_date,omitempty"`
	LastPaymentAt    *time.Time    `json:"last_payment_at,omitempty"`
	BlockedAt        *time.Time    `json:"blocked_at,omitempty"`
	GraceDays        int           `json:"grace_days"`
	MaxProfessionals int           `json:"max_professionals"`
	MaxServices      int           `json:"max_services"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// EffectiveGraceDays returns the configured grace period, falling back to the
// platform default when unset.
func (b *Business) EffectiveGraceDays() int {
	if b.GraceDays <= 0 {
		return DefaultGraceDays
	}
	return b.GraceDays
}

type BusinessPatch struct {
	Name             *string `json:"name,omitempty"`
	CustomDomain     *string `json:"custom_domain,omitempty"`
	Active           *bool   `json:"active,omitempty"`
	Plan             *string `json:"plan,omitempty"`
	GraceDays        *int    `json:"grace_days,omitempty"`
	MaxProfessionals *int    `json:"max_professionals,omitempty"`
	MaxServices      *int    `json:"max_services,omitempty"`
}

type LeadRequest struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Email string `json:"email"`
}
