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

// CreateInvitationInput describes an invitation issued by an admin.
type CreateInvitationInput struct {
	Email     string
	Role      model.Role
	ExpiresAt *time.Time
}

// AcceptInvitationInput carries the account fields supplied by the invitee.
// Any role the invitee asks for is ignored; the invitation's role applies.
type AcceptInvitationInput struct {
	Email    string
	FullName string
	Password string
}

// InvitationService issues, lists and consumes invitations.
type InvitationService interface {
	Create(ctx context.Context, in CreateInvitationInput) (*model.Invitation, error)
	FindByToken(ctx context.Context, token string) (*model.Invitation, error)
	List(ctx context.Context) ([]model.Invitation, error)
	Accept(ctx context.Context, token string, in AcceptInvitationInput) (*model.User, error)
}

type invitationService struct {
	invitations repository.InvitationRepository
	users       repository.UserRepository
	hasher      auth.PasswordHasher
	locks       *KeyedMutex
	newToken    func() (string, error)
	now         func() time.Time
}

// NewInvitationService creates a new invitation service.
func NewInvitationService(
	invitations repository.InvitationRepository,
	users repository.UserRepository,
	hasher auth.PasswordHasher,
	locks *KeyedMutex,
) InvitationService {
	return &invitationService{
		invitations: invitations,
		users:       users,
		hasher:      hasher,
		locks:       locks,
		newToken:    auth.GenerateInvitationToken,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create issues a new single-use invitation with a random token.
func (s *invitationService) Create(ctx context.Context, in CreateInvitationInput) (inv *model.Invitation, err error) {
	defer func() { metrics.RecordAuthEvent(metrics.EventInvitationCreate, err) }()

	if !in.Role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}
	if in.Email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrInvalidInvitation)
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(s.now()) {
		return nil, fmt.Errorf("%w: expiry must be in the future", apperrors.ErrInvalidInvitation)
	}

	token, err := s.newToken()
	if err != nil {
		return nil, fmt.Errorf("generate invitation token: %w", err)
	}

	inv = &model.Invitation{
		Email:     in.Email,
		Role:      in.Role,
		Token:     token,
		ExpiresAt: in.ExpiresAt,
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	logging.FromContext(ctx).Info("invitation created", "invitation_id", inv.ID, "role", inv.Role)
	return inv, nil
}

func (s *invitationService) FindByToken(ctx context.Context, token string) (*model.Invitation, error) {
	return s.invitations.FindByToken(ctx, token)
}

func (s *invitationService) List(ctx context.Context) ([]model.Invitation, error) {
	return s.invitations.List(ctx)
}

// Accept consumes the invitation and creates the account. Checks run in a
// fixed order: unknown or used token, expiry, email uniqueness.
func (s *invitationService) Accept(ctx context.Context, token string, in AcceptInvitationInput) (user *model.User, err error) {
	defer func() { metrics.RecordAuthEvent(metrics.EventInvitationAccept, err) }()

	unlockToken := s.locks.Lock(invitationKey(token))
	defer unlockToken()

	inv, err := s.invitations.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvitationInvalidOrUsed
		}
		return nil, err
	}
	if inv.IsUsed {
		return nil, apperrors.ErrInvitationInvalidOrUsed
	}
	if inv.Expired(s.now()) {
		return nil, apperrors.ErrInvitationExpired
	}

	unlockEmail := s.locks.Lock(emailKey(in.Email))
	defer unlockEmail()

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.ErrEmailTaken
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// The token is consumed before the account exists.
	if err := s.invitations.MarkUsed(ctx, inv.ID); err != nil {
		if errors.Is(err, apperrors.ErrInvitationInvalidOrUsed) || errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvitationInvalidOrUsed
		}
		return nil, fmt.Errorf("mark invitation used: %w", err)
	}

	user = &model.User{
		Email:          in.Email,
		FullName:       in.FullName,
		Role:           inv.Role,
		HashedPassword: hashed,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The token stays burned; an administrator issues a new invitation.
		logging.FromContext(ctx).Warn("invitation consumed but account creation failed",
			"invitation_id", inv.ID,
			"error", err,
		)
		return nil, fmt.Errorf("create user: %w", err)
	}

	logging.FromContext(ctx).Info("invitation accepted",
		"invitation_id", inv.ID,
		"user_id", user.ID,
		"role", user.Role,
	)
	return user, nil
}
