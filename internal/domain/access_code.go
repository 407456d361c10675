package domain

import "time"

// AccessCode gates professional and admin self-registration for a business.
type AccessCode struct {
	ID          int64      `json:"id"`
	BusinessID  int64      `json:"business_id"`
	Code        string     `json:"code"`
	Active      bool       `json:"active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Usable reports whether the code can still authorize a registration at now.
func (c *AccessCode) Usable(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	return true
}

type AccessCodeRequest struct {
	Code        string     `json:"code,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Description string     `json:"description,omitempty"`
}
