package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"realestate/internal/model"
	"realestate/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService       service.AuthService
	invitationService service.InvitationService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, invitationService service.InvitationService) *AuthHandler {
	return &AuthHandler{authService: authService, invitationService: invitationService}
}

// LoginRequest accepts either an OAuth2 password form (username, password)
// or a JSON body (email, password).
type LoginRequest struct {
	Email    string `json:"email" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// RegisterRequest represents a self-registration request.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// AcceptInvitationRequest carries the new account's fields. A role, if sent, is ignored.
type AcceptInvitationRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// UpdateProfileRequest is a partial profile change.
type UpdateProfileRequest struct {
	FullName        *string `json:"full_name" validate:"omitempty,min=1"`
	Email           *string `json:"email" validate:"omitempty,email"`
	CurrentPassword *string `json:"current_password"`
	NewPassword     *string `json:"new_password" validate:"omitempty,min=6,max=72"`
}

// InvitationRequest is an admin request to invite a user.
type InvitationRequest struct {
	Email     string     `json:"email" validate:"required,email"`
	Role      model.Role `json:"role" validate:"required,oneof=admin client"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Login godoc
// @Summary Obtain an access token
// @Tags auth
// @Accept x-www-form-urlencoded
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} service.Session
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/token [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// Register godoc
// @Summary Register a client account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Description Changing the password requires current_password. A new token is returned.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} service.Session
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /auth/update-profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.authService.UpdateProfile(c.Request().Context(), user, service.ProfileUpdate{
		FullName:        req.FullName,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// Logout godoc
// @Summary Revoke the presented access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token := bearerToken(c)
	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out successfully"})
}

// Invite godoc
// @Summary Invite a user with a pre-assigned role
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InvitationRequest true "Invitation"
// @Success 201 {object} model.Invitation
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /auth/invite [post]
func (h *AuthHandler) Invite(c echo.Context) error {
	var req InvitationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	inv, err := h.invitationService.Create(c.Request().Context(), service.CreateInvitationInput{
		Email:     req.Email,
		Role:      req.Role,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, inv)
}

// ListInvitations godoc
// @Summary List invitations
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Invitation
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /auth/invitations [get]
func (h *AuthHandler) ListInvitations(c echo.Context) error {
	invs, err := h.invitationService.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, invs)
}

// AcceptInvitation godoc
// @Summary Accept an invitation and create the account
// @Description The account receives the invitation's role.
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "Invitation token"
// @Param request body AcceptInvitationRequest true "Account data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 410 {object} errors.ErrorResponse
// @Router /auth/accept-invitation/{token} [post]
func (h *AuthHandler) AcceptInvitation(c echo.Context) error {
	var req AcceptInvitationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.invitationService.Accept(c.Request().Context(), c.Param("token"), service.AcceptInvitationInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
