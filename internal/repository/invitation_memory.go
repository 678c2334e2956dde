package repository

import (
	"context"
	"sync"

	apperrors "realestate/internal/errors"
	"realestate/internal/model"
)

// MemoryInvitationRepository keeps invitations in process memory.
type MemoryInvitationRepository struct {
	mu          sync.Mutex
	invitations []*model.Invitation
}

// NewMemoryInvitationRepository creates an empty in-memory invitation store.
func NewMemoryInvitationRepository() *MemoryInvitationRepository {
	return &MemoryInvitationRepository{}
}

func (r *MemoryInvitationRepository) Create(_ context.Context, inv *model.Invitation) error {
	prepareInvitation(inv)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.invitations = append(r.invitations, inv.Clone())
	return nil
}

func (r *MemoryInvitationRepository) FindByToken(_ context.Context, token string) (*model.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invitations {
		if inv.Token == token {
			return inv.Clone(), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *MemoryInvitationRepository) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invitations {
		if inv.ID != id {
			continue
		}
		if inv.IsUsed {
			return apperrors.ErrInvitationInvalidOrUsed
		}
		inv.IsUsed = true
		return nil
	}
	return apperrors.ErrNotFound
}

func (r *MemoryInvitationRepository) List(_ context.Context) ([]model.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Invitation, 0, len(r.invitations))
	for _, inv := range r.invitations {
		out = append(out, *inv.Clone())
	}
	return out, nil
}
