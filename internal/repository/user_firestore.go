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

type firestoreUserRepository struct {
	client *firestore.Client
	users  *firestore.CollectionRef
}

func newFirestoreUserRepository(client *firestore.Client) UserRepository {
	return &firestoreUserRepository{client: client, users: client.Collection(db.UsersCollection)}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *model.User) error {
	prepareUser(user)
	_, err := r.users.Doc(user.ID).Create(ctx, user)
	return apperrors.Backend("users.create", err)
}

func (r *firestoreUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	snap, err := r.users.Doc(id).Get(ctx)
	if err != nil {
		if isFirestoreNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Backend("users.find_by_id", err)
	}
	var user model.User
	if err := snap.DataTo(&user); err != nil {
		return nil, apperrors.Backend("users.find_by_id", err)
	}
	return &user, nil
}

func (r *firestoreUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	it := r.users.Where("email", "==", email).Limit(1).Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Backend("users.find_by_email", err)
	}
	var user model.User
	if err := snap.DataTo(&user); err != nil {
		return nil, apperrors.Backend("users.find_by_email", err)
	}
	return &user, nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, email string, upd model.UserUpdate) (*model.User, error) {
	var user model.User
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		it := tx.Documents(r.users.Where("email", "==", email).Limit(1))
		defer it.Stop()

		snap, err := it.Next()
		if err != nil {
			return err
		}
		if err := snap.DataTo(&user); err != nil {
			return err
		}
		upd.Apply(&user, now())
		return tx.Set(snap.Ref, &user)
	})
	if errors.Is(err, iterator.Done) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Backend("users.update", err)
	}
	return &user, nil
}

func (r *firestoreUserRepository) List(ctx context.Context) ([]model.User, error) {
	snaps, err := r.users.OrderBy("created_at", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, apperrors.Backend("users.list", err)
	}
	users := make([]model.User, 0, len(snaps))
	for _, snap := range snaps {
		var u model.User
		if err := snap.DataTo(&u); err != nil {
			return nil, apperrors.Backend("users.list", err)
		}
		users = append(users, u)
	}
	return users, nil
}
