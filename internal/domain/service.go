package domain

import "time"

// Service is something a professional can be booked for. Services are never
// hard-deleted; deactivation keeps history on past appointments intact.
type Service struct {
	ID              int64     `json:"id"`
	ProfessionalID  int64     `json:"professional_id"`
	BusinessID      int64     `json:"business_id"`
	Name            string    `json:"name"`
	PriceCents      int64     `json:"price_cents"`
	DurationMinutes int       `json:"duration_minutes"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ServiceRequest struct {
	Name            string `json:"name"`
	PriceCents      int64  `json:"price_cents"`
	DurationMinutes int    `json:"duration_minutes"`
}

type ServicePatch struct {
	Name            *string `json:"name,omitempty"`
	PriceCents      *int64  `json:"price_cents,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Active          *bool   `json:"active,omitempty"`
}
