package domain

import "errors"

// Business-rule errors. Services return these (possibly wrapped); the handler
// layer translates them to HTTP statuses and machine codes.
var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrForbidden         = errors.New("forbidden")
	ErrBusinessMismatch  = errors.New("business mismatch")

	ErrBusinessInactive       = errors.New("business inactive")
	ErrBusinessBlocked        = errors.New("business blocked")
	ErrBusinessCancelled      = errors.New("business cancelled")
	ErrBusinessOverdueBlocked = errors.New("business blocked for overdue payment")

	ErrNotFound        = errors.New("not found")
	ErrServiceNotFound = errors.New("service not found")

	ErrSlotUnavailable   = errors.New("slot unavailable")
	ErrAlreadyCancelled  = errors.New("appointment already cancelled")
	ErrAlreadyCompleted  = errors.New("appointment already completed")
	ErrInProgressLocked  = errors.New("appointment already in progress")
	ErrLeadTimeViolation = errors.New("cancellation lead time violated")
	ErrInvalidStatus     = errors.New("invalid appointment status")
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrEmailTaken        = errors.New("email already registered")
	ErrSlugTaken         = errors.New("slug already taken")
	ErrAccessCodeInvalid = errors.New("access code invalid or expired")
	ErrDuplicateCode     = errors.New("access code already exists")
	ErrLimitReached      = errors.New("plan limit reached")

	ErrValidation = errors.New("validation error")
)
