package repository

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"realestate/internal/db"
	apperrors "realestate/internal/errors"
	"realestate/internal/model"
)

type firestoreInvitationRepository struct {
	client      *firestore.Client
	invitations *firestore.CollectionRef
}

func newFirestoreInvitationRepository(client *firestore.Client) InvitationRepository {
	return &firestoreInvitationRepository{
		client:      client,
		invitations: client.Collection(db.InvitationsCollection),
	}
}

func (r *firestoreInvitationRepository) Create(ctx context.Context, inv *model.Invitation) error {
	prepareInvitation(inv)
	_, err := r.invitations.Doc(inv.ID).Create(ctx, inv)
	return apperrors.Backend("invitations.create", err)
}

func (r *firestoreInvitationRepository) FindByToken(ctx context.Context, token string) (*model.Invitation, error) {
	it := r.invitations.Where("token", "==", token).Limit(1).Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Backend("invitations.find_by_token", err)
	}
	var inv model.Invitation
	if err := snap.DataTo(&inv); err != nil {
		return nil, apperrors.Backend("invitations.find_by_token", err)
	}
	return &inv, nil
}

func (r *firestoreInvitationRepository) MarkUsed(ctx context.Context, id string) error {
	ref := r.invitations.Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		used, err := snap.DataAt("is_used")
		if err != nil {
			return err
		}
		if b, _ := used.(bool); b {
			return apperrors.ErrInvitationInvalidOrUsed
		}
		return tx.Update(ref, []firestore.Update{{Path: "is_used", Value: true}})
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperrors.ErrInvitationInvalidOrUsed):
		return err
	case isFirestoreNotFound(err):
		return apperrors.ErrNotFound
	default:
		return apperrors.Backend("invitations.mark_used", err)
	}
}

func (r *firestoreInvitationRepository) List(ctx context.Context) ([]model.Invitation, error) {
	snaps, err := r.invitations.OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, apperrors.Backend("invitations.list", err)
	}
	invs := make([]model.Invitation, 0, len(snaps))
	for _, snap := range snaps {
		var inv model.Invitation
		if err := snap.DataTo(&inv); err != nil {
			return nil, apperrors.Backend("invitations.list", err)
		}
		invs = append(invs, inv)
	}
	return invs, nil
}
