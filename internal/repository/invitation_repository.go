package repository

import (
	"context"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"realestate/internal/backend"
	apperrors "realestate/internal/errors"
	"realestate/internal/model"
)

// InvitationRepository persists invitations. Invitations are never deleted.
type InvitationRepository interface {
	// Create stores inv, assigning a ULID and CreatedAt when they are unset.
	Create(ctx context.Context, inv *model.Invitation) error
	FindByToken(ctx context.Context, token string) (*model.Invitation, error)
	// MarkUsed flips is_used for the given id. It returns
	// apperrors.ErrInvitationInvalidOrUsed if another caller already consumed it.
	MarkUsed(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.Invitation, error)
}

// NewInvitationRepository returns the invitation store for the resolved backend.
func NewInvitationRepository(b backend.Backend) InvitationRepository {
	switch b := b.(type) {
	case *backend.Firestore:
		return newFirestoreInvitationRepository(b.Client)
	case *backend.SQL:
		return newGormInvitationRepository(b.DB)
	default:
		return NewMemoryInvitationRepository()
	}
}

func prepareInvitation(inv *model.Invitation) {
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = now()
	}
	if inv.ID == "" {
		inv.ID = ulid.MustNew(ulid.Timestamp(inv.CreatedAt), ulid.DefaultEntropy()).String()
	}
}

type gormInvitationRepository struct {
	db *gorm.DB
}

func newGormInvitationRepository(db *gorm.DB) InvitationRepository {
	return &gormInvitationRepository{db: db}
}

func (r *gormInvitationRepository) Create(ctx context.Context, inv *model.Invitation) error {
	prepareInvitation(inv)
	return apperrors.Backend("invitations.create", r.db.WithContext(ctx).Create(inv).Error)
}

func (r *gormInvitationRepository) FindByToken(ctx context.Context, token string) (*model.Invitation, error) {
	var inv model.Invitation
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&inv).Error; err != nil {
		return nil, gormError("invitations.find_by_token", err)
	}
	return &inv, nil
}

func (r *gormInvitationRepository) MarkUsed(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Invitation{}).
		Where("id = ? AND is_used = ?", id, false).
		Update("is_used", true)
	if res.Error != nil {
		return apperrors.Backend("invitations.mark_used", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrInvitationInvalidOrUsed
	}
	return nil
}

func (r *gormInvitationRepository) List(ctx context.Context) ([]model.Invitation, error) {
	var invs []model.Invitation
	if err := r.db.WithContext(ctx).Order("id").Find(&invs).Error; err != nil {
		return nil, apperrors.Backend("invitations.list", err)
	}
	return invs, nil
}
