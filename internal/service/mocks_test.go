package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"realestate/internal/auth"
	"realestate/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, email string, upd model.UserUpdate) (*model.User, error) {
	args := m.Called(ctx, email, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockRevocationStore is a mock implementation of auth.RevocationStore.
type MockRevocationStore struct {
	mock.Mock
}

var _ auth.RevocationStore = (*MockRevocationStore)(nil)

func (m *MockRevocationStore) Revoke(ctx context.Context, claims *auth.Claims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

func (m *MockRevocationStore) IsRevoked(ctx context.Context, claims *auth.Claims) (bool, error) {
	args := m.Called(ctx, claims)
	return args.Bool(0), args.Error(1)
}

// memoryRevocations records revoked token ids with their expiry.
type memoryRevocations struct {
	revoked map[string]time.Time
}

func newMemoryRevocations() *memoryRevocations {
	return &memoryRevocations{revoked: map[string]time.Time{}}
}

func (s *memoryRevocations) Revoke(_ context.Context, claims *auth.Claims) error {
	s.revoked[claims.ID] = claims.ExpiresAt.Time
	return nil
}

func (s *memoryRevocations) IsRevoked(_ context.Context, claims *auth.Claims) (bool, error) {
	_, ok := s.revoked[claims.ID]
	return ok, nil
}

// fastHasher keeps bcrypt at its minimum cost in tests.
func fastHasher() *auth.BcryptHasher {
	return auth.NewBcryptHasher(4)
}
