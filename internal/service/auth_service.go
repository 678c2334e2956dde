package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"realestate/internal/auth"
	apperrors "realestate/internal/errors"
	"realestate/internal/logging"
	"realestate/internal/metrics"
	"realestate/internal/model"
	"realestate/internal/repository"
)

// TokenTypeBearer is the token_type reported with issued sessions.
const TokenTypeBearer = "bearer"

// Session is an issued access token and the account it belongs to.
type Session struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        *model.User `json:"user"`
}

// RegisterInput carries a self-registration request.
type RegisterInput struct {
	Email    string
	FullName string
	Password string
}

// ProfileUpdate carries a partial profile change. Nil fields are left untouched.
type ProfileUpdate struct {
	FullName        *string
	Email           *string
	CurrentPassword *string
	NewPassword     *string
}

// AuthService is the authentication facade used by the HTTP layer.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	UpdateProfile(ctx context.Context, current *model.User, upd ProfileUpdate) (*Session, error)
	ResolveCurrentUser(ctx context.Context, token string) (*model.User, error)
	RequireAdmin(ctx context.Context, token string) (*model.User, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	users       repository.UserRepository
	hasher      auth.PasswordHasher
	jwtService  *auth.JWTService
	revocations auth.RevocationStore
	locks       *KeyedMutex
	// dummyHash keeps login timing uniform when the email is unknown.
	dummyHash string
}

// NewAuthService creates a new authentication service. locks must be shared
// with the invitation service so both serialize on the same emails.
func NewAuthService(
	users repository.UserRepository,
	hasher auth.PasswordHasher,
	jwtService *auth.JWTService,
	revocations auth.RevocationStore,
	locks *KeyedMutex,
) (AuthService, error) {
	dummy, err := hasher.Hash("timing-equalizer")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &authService{
		users:       users,
		hasher:      hasher,
		jwtService:  jwtService,
		revocations: revocations,
		locks:       locks,
		dummyHash:   dummy,
	}, nil
}

// Login verifies the password and issues an access token.
func (s *authService) Login(ctx context.Context, email, password string) (session *Session, err error) {
	defer func() { metrics.RecordAuthEvent(metrics.EventLogin, err) }()

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	digest := s.dummyHash
	if user != nil {
		digest = user.HashedPassword
	}
	ok := s.hasher.Verify(password, digest)
	if user == nil || !ok || !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueSession(user)
}

// Register creates a client account. The email check and insert run under
// the per-email lock so concurrent registrations cannot both succeed.
func (s *authService) Register(ctx context.Context, in RegisterInput) (user *model.User, err error) {
	defer func() { metrics.RecordAuthEvent(metrics.EventRegister, err) }()

	unlock := s.locks.Lock(emailKey(in.Email))
	defer unlock()

	if err := s.ensureEmailFree(ctx, in.Email); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user = &model.User{
		Email:          in.Email,
		FullName:       in.FullName,
		Role:           model.RoleClient,
		HashedPassword: hashed,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logging.FromContext(ctx).Info("user registered", "user_id", user.ID)
	return user, nil
}

// UpdateProfile applies a partial change to the current user's profile and
// issues a fresh token, since a changed email invalidates the old subject.
func (s *authService) UpdateProfile(ctx context.Context, current *model.User, upd ProfileUpdate) (session *Session, err error) {
	defer func() { metrics.RecordAuthEvent(metrics.EventProfileUpdate, err) }()

	changes := model.UserUpdate{FullName: upd.FullName}

	if upd.Email != nil && *upd.Email != current.Email {
		unlock := s.locks.Lock(emailKey(*upd.Email))
		defer unlock()

		if err := s.ensureEmailFree(ctx, *upd.Email); err != nil {
			return nil, err
		}
		changes.Email = upd.Email
	}

	if upd.NewPassword != nil {
		if upd.CurrentPassword == nil || *upd.CurrentPassword == "" {
			return nil, apperrors.ErrCurrentPasswordRequired
		}
		if !s.hasher.Verify(*upd.CurrentPassword, current.HashedPassword) {
			return nil, apperrors.ErrIncorrectCurrentPassword
		}
		hashed, err := s.hasher.Hash(*upd.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		changes.HashedPassword = &hashed
	}

	updated, err := s.users.Update(ctx, current.Email, changes)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.issueSession(updated)
}

// ResolveCurrentUser verifies token and loads the account named by its subject.
func (s *authService) ResolveCurrentUser(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.jwtService.Verify(token)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims)
	if err != nil {
		return nil, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// RequireAdmin resolves the current user and rejects non-admins.
func (s *authService) RequireAdmin(ctx context.Context, token string) (*model.User, error) {
	user, err := s.ResolveCurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if user.Role != model.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	return user, nil
}

// Logout revokes token until it would have expired.
func (s *authService) Logout(ctx context.Context, token string) (err error) {
	defer func() { metrics.RecordAuthEvent(metrics.EventLogout, err) }()

	claims, err := s.jwtService.Verify(token)
	if err != nil {
		return apperrors.ErrUnauthorized
	}
	if err := s.revocations.Revoke(ctx, claims); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *authService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return apperrors.ErrEmailTaken
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("check email: %w", err)
	}
}

func (s *authService) issueSession(user *model.User) (*Session, error) {
	token, claims, err := s.jwtService.Issue(auth.Identity{Subject: user.Email, Role: user.Role}, 0)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        user,
	}, nil
}
