package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"realestate/internal/errors"
	"realestate/internal/logging"
	"realestate/internal/model"
)

// UserContextKey is where the authenticated *model.User is stored on the echo context.
const UserContextKey = "user"

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError converts a domain error into an echo HTTP error.
// Server-side failures are logged with their cause; clients only see the mapped message.
func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		logging.LogError(logging.FromContext(c.Request().Context()), "request failed", err)
	}
	if httpErr.StatusCode == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// RespondError is respondError for middleware outside this package.
func RespondError(c echo.Context, err error) error {
	return respondError(c, err)
}

func badRequest(message, code string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func invalidBody() error {
	return badRequest("invalid request body", "INVALID_REQUEST")
}

func validationFailed(err error) error {
	return badRequest(err.Error(), "VALIDATION_ERROR")
}

// bindAndValidate binds the request into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return invalidBody()
	}
	if err := c.Validate(req); err != nil {
		return validationFailed(err)
	}
	return nil
}

// currentUser returns the user placed on the context by the auth middleware.
func currentUser(c echo.Context) (*model.User, error) {
	user, ok := c.Get(UserContextKey).(*model.User)
	if !ok || user == nil {
		return nil, errors.ErrUnauthorized
	}
	return user, nil
}
