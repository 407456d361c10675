package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleProfessional Role = "PROFESSIONAL"
	RoleClient       Role = "CLIENT"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleProfessional, RoleClient:
		return Role(s), true
	default:
		return "", false
	}
}

// User belongs to exactly one business unless it is a platform administrator,
// in which case BusinessID is nil.
type User struct {
	ID            int64     `json:"id"`
	BusinessID    *int64    `json:"business_id,omitempty"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	Phone         string    `json:"phone,omitempty"`
	Instagram     string    `json:"instagram,omitempty"`
	PublicMessage string    `json:"public_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	BusinessID int64  `json:"business_id"`
	AccessCode string `json:"access_code,omitempty"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
	r.AccessCode = strings.TrimSpace(r.AccessCode)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
