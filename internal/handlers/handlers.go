package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/agendou/agendou-api/internal/domain"
	"github.com/agendou/agendou-api/internal/http/response"
	"github.com/agendou/agendou-api/internal/service"
	"github.com/agendou/agendou-api/pkg/auth"
	"github.com/agendou/agendou-api/pkg/config"
	"github.com/agendou/agendou-api/pkg/logger"
)

type Handlers struct {
	authService         service.AuthService
	businessService     service.BusinessService
	catalogService      service.CatalogService
	availabilityService service.AvailabilityService
	appointmentService  service.AppointmentService
	config              *config.Config
}

func New(
	authService service.AuthService,
	businessService service.BusinessService,
	catalogService service.CatalogService,
	availabilityService service.AvailabilityService,
	appointmentService service.AppointmentService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		authService:         authService,
		businessService:     businessService,
		catalogService:      catalogService,
		availabilityService: availabilityService,
		appointmentService:  appointmentService,
		config:              cfg,
	}
}

// Identity is the resolved caller attached to the request context by
// RequireJWT. BusinessID is nil for platform administrators.
type Identity struct {
	UserID     int64
	Role       domain.Role
	BusinessID *int64
}

type ctxKey string

const identityKey ctxKey = "identity"

// RequireJWT resolves the bearer credential, reconciles the X-Business-Id
// header against the credential's business binding, runs the business status
// gate, and enforces role membership. Platform admins bypass business binding
// and the gate.
func (h *Handlers) RequireJWT(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				response.Unauthorized(w, "Missing or invalid authorization header")
				return
			}

			claims, err := auth.Parse(strings.TrimPrefix(authHeader, "Bearer "), h.config.Auth.JWTSecret)
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			// The token may outlive the user; resolve against the store.
			user, err := h.authService.GetUser(r.Context(), claims.Sub)
			if err != nil {
				h.respondError(w, r, err)
				return
			}

			identity := Identity{UserID: user.ID, Role: user.Role, BusinessID: user.BusinessID}

			if user.BusinessID != nil {
				businessID, err := bindBusiness(claims, user, r.Header.Get("X-Business-Id"))
				if err != nil {
					h.respondError(w, r, err)
					return
				}
				identity.BusinessID = &businessID

				if _, err := h.businessService.Authorize(r.Context(), businessID); err != nil {
					h.respondError(w, r, err)
					return
				}
			}

			if len(roles) > 0 && !roleAllowed(user.Role, roles) {
				response.Forbidden(w, "Insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			ctx = context.WithValue(ctx, logger.UserIDKey, user.ID)
			if identity.BusinessID != nil {
				ctx = context.WithValue(ctx, logger.BusinessIDKey, *identity.BusinessID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bindBusiness reconciles the requested business against the credential and
// the user's stored binding.
func bindBusiness(claims *auth.Claims, user *domain.User, header string) (int64, error) {
	var headerID *int64
	if header != "" {
		id, err := strconv.ParseInt(header, 10, 64)
		if err != nil {
			return 0, domain.ErrBusinessMismatch
		}
		headerID = &id
	}

	if headerID != nil && claims.BusinessID != nil && *headerID != *claims.BusinessID {
		return 0, domain.ErrBusinessMismatch
	}

	resolved := claims.BusinessID
	if resolved == nil {
		resolved = headerID
	}
	if resolved == nil {
		resolved = user.BusinessID
	}

	if !user.IsAdmin() && *resolved != *user.BusinessID {
		return 0, domain.ErrBusinessMismatch
	}
	return *resolved, nil
}

func roleAllowed(role domain.Role, allowed []domain.Role) bool {
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}

func getIdentity(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey).(Identity)
	return id, ok
}

// mustBusinessID returns the caller's bound business; handlers behind
// RequireJWT for non-admin roles can rely on it being present.
func mustBusinessID(id Identity) int64 {
	if id.BusinessID == nil {
		return 0
	}
	return *id.BusinessID
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError translates service errors into the API error envelope.
func (h *Handlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		response.WriteError(w, http.StatusBadRequest, err.Error(), response.CodeInvalidInput)
	case errors.Is(err, domain.ErrInvalidCredential):
		response.WriteError(w, http.StatusUnauthorized, "Invalid credentials", response.CodeInvalidCredential)
	case errors.Is(err, domain.ErrForbidden):
		response.WriteError(w, http.StatusForbidden, "Forbidden", response.CodeForbidden)
	case errors.Is(err, domain.ErrBusinessMismatch):
		response.WriteError(w, http.StatusForbidden, "Business mismatch", response.CodeTenantMismatch)
	case errors.Is(err, domain.ErrBusinessInactive):
		response.WriteError(w, http.StatusForbidden, "Business is not active", response.CodeBusinessInactive)
	case errors.Is(err, domain.ErrBusinessBlocked):
		response.WriteError(w, http.StatusForbidden, "Business is blocked", response.CodeBusinessBlocked)
	case errors.Is(err, domain.ErrBusinessCancelled):
		response.WriteError(w, http.StatusForbidden, "Business subscription is cancelled", response.CodeBusinessCancelled)
	case errors.Is(err, domain.ErrBusinessOverdueBlocked):
		response.WriteError(w, http.StatusForbidden, "Business blocked for overdue payment", response.CodeBusinessOverdueBlocked)
	case errors.Is(err, domain.ErrServiceNotFound):
		response.WriteError(w, http.StatusNotFound, "Service not found", response.CodeServiceNotFound)
	case errors.Is(err, domain.ErrNotFound):
		response.WriteError(w, http.StatusNotFound, "Not found", response.CodeNotFound)
	case errors.Is(err, domain.ErrSlotUnavailable):
		response.WriteError(w, http.StatusBadRequest, "Time slot is not available", response.CodeSlotUnavailable)
	case errors.Is(err, domain.ErrAlreadyCancelled):
		response.WriteError(w, http.StatusBadRequest, "Appointment is already cancelled", response.CodeAlreadyCancelled)
	case errors.Is(err, domain.ErrAlreadyCompleted):
		response.WriteError(w, http.StatusBadRequest, "Appointment is already completed", response.CodeAlreadyCompleted)
	case errors.Is(err, domain.ErrInProgressLocked):
		response.WriteError(w, http.StatusBadRequest, "Appointment is in progress", response.CodeInProgressLocked)
	case errors.Is(err, domain.ErrLeadTimeViolation):
		response.WriteError(w, http.StatusBadRequest, "Appointments can only be cancelled at least 2 hours in advance", response.CodeLeadTimeViolation)
	case errors.Is(err, domain.ErrInvalidStatus):
		response.WriteError(w, http.StatusBadRequest, "Invalid appointment status", response.CodeInvalidStatus)
	case errors.Is(err, domain.ErrInvalidTransition):
		response.WriteError(w, http.StatusBadRequest, "Status transition not allowed", response.CodeInvalidTransition)
	case errors.Is(err, domain.ErrEmailTaken):
		response.WriteError(w, http.StatusBadRequest, "Email already registered", response.CodeEmailExists)
	case errors.Is(err, domain.ErrSlugTaken):
		response.WriteError(w, http.StatusBadRequest, "Slug already taken", response.CodeSlugExists)
	case errors.Is(err, domain.ErrAccessCodeInvalid):
		response.WriteError(w, http.StatusForbidden, "Access code is invalid or expired", response.CodeAccessCodeInvalid)
	case errors.Is(err, domain.ErrDuplicateCode):
		response.WriteError(w, http.StatusBadRequest, "Access code already exists", response.CodeDuplicateCode)
	case errors.Is(err, domain.ErrLimitReached):
		response.WriteError(w, http.StatusBadRequest, "Plan limit reached", response.CodeLimitReached)
	default:
		logger.ErrorContext(r.Context(), "Unhandled error", "error", err, "path", r.URL.Path)
		response.InternalError(w, "Internal server error")
	}
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}
