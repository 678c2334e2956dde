package service

import (
	"context"
	"errors"
	"fmt"

	"realestate/internal/auth"
	apperrors "realestate/internal/errors"
	"realestate/internal/model"
	"realestate/internal/repository"
)

// UserService exposes account administration used by the CLI and bootstrap.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, email, fullName, password string, role model.Role) (*model.User, error)
	ResetPassword(ctx context.Context, email, password string) (*model.User, error)
	ChangeRole(ctx context.Context, email string, role model.Role) (*model.User, error)
	// EnsureAdmin creates an admin account unless the email is already registered.
	// It reports whether an account was created.
	EnsureAdmin(ctx context.Context, email, password string) (bool, error)
}

type userService struct {
	repo   repository.UserRepository
	hasher auth.PasswordHasher
	locks  *KeyedMutex
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository, hasher auth.PasswordHasher, locks *KeyedMutex) UserService {
	return &userService{repo: repo, hasher: hasher, locks: locks}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) CreateUser(ctx context.Context, email, fullName, password string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	unlock := s.locks.Lock(emailKey(email))
	defer unlock()

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailTaken
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		Email:          email,
		FullName:       fullName,
		Role:           role,
		HashedPassword: hashed,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) ResetPassword(ctx context.Context, email, password string) (*model.User, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.Update(ctx, email, model.UserUpdate{HashedPassword: &hashed})
}

func (s *userService) ChangeRole(ctx context.Context, email string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}
	return s.repo.Update(ctx, email, model.UserUpdate{Role: &role})
}

func (s *userService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.CreateUser(ctx, email, "Admin User", password, model.RoleAdmin)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperrors.ErrEmailTaken):
		return false, nil
	default:
		return false, err
	}
}
