package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"realestate/internal/backend"
	apperrors "realestate/internal/errors"
	"realestate/internal/model"
)

// UserRepository defines persistence operations.
// Lookups return apperrors.ErrNotFound when no user matches.
type UserRepository interface {
	// Create stores user, assigning an id and timestamps when they are unset.
	// It does not check email uniqueness.
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// Update merges upd into the user with the given email.
	Update(ctx context.Context, email string, upd model.UserUpdate) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// NewUserRepository returns the user store for the resolved backend.
func NewUserRepository(b backend.Backend) UserRepository {
	switch b := b.(type) {
	case *backend.Firestore:
		return newFirestoreUserRepository(b.Client)
	case *backend.SQL:
		return newGormUserRepository(b.DB)
	default:
		return NewMemoryUserRepository()
	}
}

func prepareUser(user *model.User) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	ts := now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = ts
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}
}

type gormUserRepository struct {
	db *gorm.DB
}

func newGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *model.User) error {
	prepareUser(user)
	return apperrors.Backend("users.create", r.db.WithContext(ctx).Create(user).Error)
}

func (r *gormUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, gormError("users.find_by_id", err)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, gormError("users.find_by_email", err)
	}
	return &user, nil
}

func (r *gormUserRepository) Update(ctx context.Context, email string, upd model.UserUpdate) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			return err
		}
		upd.Apply(&user, now())
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, gormError("users.update", err)
	}
	return &user, nil
}

func (r *gormUserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&users).Error; err != nil {
		return nil, apperrors.Backend("users.list", err)
	}
	return users, nil
}

func gormError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return apperrors.Backend(op, err)
}
