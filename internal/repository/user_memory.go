package repository

import (
	"context"
	"sync"

	apperrors "realestate/internal/errors"
	"realestate/internal/model"
)

// MemoryUserRepository keeps users in process memory. Callers receive copies.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []*model.User
}

// NewMemoryUserRepository creates an empty in-memory user store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	prepareUser(user)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, user.Clone())
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			return u.Clone(), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u := r.findByEmail(email); u != nil {
		return u.Clone(), nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *MemoryUserRepository) Update(_ context.Context, email string, upd model.UserUpdate) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.findByEmail(email)
	if u == nil {
		return nil, apperrors.ErrNotFound
	}
	upd.Apply(u, now())
	return u.Clone(), nil
}

func (r *MemoryUserRepository) List(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *MemoryUserRepository) findByEmail(email string) *model.User {
	for _, u := range r.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}
