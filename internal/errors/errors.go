package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/samber/oops"
)

// Kind classifies an error for the boundary layer.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindInvalidCredential  Kind = "invalid_credential"
	KindForbidden          Kind = "forbidden"
	KindExpiredInvitation  Kind = "expired_invitation"
	KindBackendUnavailable Kind = "backend_unavailable"
	KindInvalidInput       Kind = "invalid_input"
	KindInternal           Kind = "internal"
)

var (
	// ErrNotFound is returned when an entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when an email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvitationInvalidOrUsed is returned for unknown or already consumed invitation tokens.
	ErrInvitationInvalidOrUsed = errors.New("invalid or used invitation token")
	// ErrInvitationExpired is returned when an unused invitation is past its expiry.
	ErrInvitationExpired = errors.New("invitation has expired")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrUnauthorized is returned for missing, invalid or expired bearer tokens.
	ErrUnauthorized = errors.New("could not validate credentials")
	// ErrIncorrectCurrentPassword is returned when a password change presents the wrong current password.
	ErrIncorrectCurrentPassword = errors.New("incorrect current password")
	// ErrCurrentPasswordRequired is returned when a new password is requested without the current one.
	ErrCurrentPasswordRequired = errors.New("current password is required to set new password")
	// ErrForbidden is returned when the caller's role is insufficient.
	ErrForbidden = errors.New("not enough permissions")
	// ErrInvalidRole is returned for roles outside admin/client.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidInvitation is returned when an invitation request is malformed.
	ErrInvalidInvitation = errors.New("invalid invitation request")
	// ErrPasswordTooLong is returned for passwords bcrypt cannot hash.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
	// ErrBackendUnavailable is returned when the live backend fails after resolution.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Backend wraps a live-store failure so callers see ErrBackendUnavailable
// while logs keep the operation and cause.
func Backend(op string, err error) error {
	if err == nil {
		return nil
	}
	return oops.
		Code("BACKEND_UNAVAILABLE").
		With("operation", op).
		Wrap(fmt.Errorf("%w: %s: %v", ErrBackendUnavailable, op, err))
}

// KindOf reports the taxonomy kind of err.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrInvitationInvalidOrUsed):
		return KindConflict
	case errors.Is(err, ErrInvitationExpired):
		return KindExpiredInvitation
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrIncorrectCurrentPassword):
		return KindInvalidCredential
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrCurrentPasswordRequired),
		errors.Is(err, ErrInvalidRole),
		errors.Is(err, ErrInvalidInvitation),
		errors.Is(err, ErrPasswordTooLong):
		return KindInvalidInput
	case errors.Is(err, ErrBackendUnavailable):
		return KindBackendUnavailable
	default:
		return KindInternal
	}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, ErrEmailTaken.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvitationInvalidOrUsed):
		return NewHTTPError(http.StatusConflict, ErrInvitationInvalidOrUsed.Error(), "INVITATION_INVALID_OR_USED")
	case errors.Is(err, ErrInvitationExpired):
		return NewHTTPError(http.StatusGone, ErrInvitationExpired.Error(), "INVITATION_EXPIRED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrIncorrectCurrentPassword):
		return NewHTTPError(http.StatusBadRequest, ErrIncorrectCurrentPassword.Error(), "INCORRECT_CURRENT_PASSWORD")
	case errors.Is(err, ErrCurrentPasswordRequired):
		return NewHTTPError(http.StatusBadRequest, ErrCurrentPasswordRequired.Error(), "CURRENT_PASSWORD_REQUIRED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidRole.Error(), "INVALID_ROLE")
	case errors.Is(err, ErrInvalidInvitation):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidInvitation.Error(), "INVALID_INVITATION")
	case errors.Is(err, ErrPasswordTooLong):
		return NewHTTPError(http.StatusBadRequest, ErrPasswordTooLong.Error(), "PASSWORD_TOO_LONG")
	case errors.Is(err, ErrBackendUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, "service temporarily unavailable", "BACKEND_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
