package response

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the API-wide error envelope: a human message plus an
// optional machine-readable code.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResp := ErrorResponse{
		Message: message,
		Code:    code,
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		log.Printf("failed to encode error response: %v", err)
	}
}

// Common error codes
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInvalidCredential = "INVALID_CREDENTIAL"
	CodeForbidden         = "FORBIDDEN"
	CodeTenantMismatch    = "TENANT_MISMATCH"
	CodeNotFound          = "NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeRateLimit         = "RATE_LIMIT_EXCEEDED"

	CodeBusinessInactive       = "BUSINESS_INACTIVE"
	CodeBusinessBlocked        = "BUSINESS_BLOCKED"
	CodeBusinessCancelled      = "BUSINESS_CANCELLED"
	CodeBusinessOverdueBlocked = "BUSINESS_OVERDUE_BLOCKED"

	CodeServiceNotFound   = "SERVICE_NOT_FOUND"
	CodeSlotUnavailable   = "SLOT_UNAVAILABLE"
	CodeLeadTimeViolation = "LEAD_TIME_VIOLATION"
	CodeInvalidStatus     = "INVALID_STATUS"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeAlreadyCancelled  = "ALREADY_CANCELLED"
	CodeAlreadyCompleted  = "ALREADY_COMPLETED"
	CodeInProgressLocked  = "IN_PROGRESS_LOCKED"

	CodeEmailExists       = "EMAIL_EXISTS"
	CodeSlugExists        = "SLUG_EXISTS"
	CodeAccessCodeInvalid = "ACCESS_CODE_INVALID"
	CodeDuplicateCode     = "DUPLICATE_CODE"
	CodeLimitReached      = "LIMIT_REACHED"
)

// Convenience functions for common errors
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeInvalidCredential)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

func RateLimit(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message, CodeRateLimit)
}
