package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"realestate/internal/backend"
	apperrors "realestate/internal/errors"
	"realestate/internal/model"
)

// PropertyRepository persists property listings.
type PropertyRepository interface {
	// List returns the properties matching filter in creation order, then applies skip and limit.
	List(ctx context.Context, filter model.PropertyFilter, skip, limit int) ([]model.Property, error)
	GetByID(ctx context.Context, id string) (*model.Property, error)
	// Create stores a new property with a fresh id and both timestamps set to now.
	Create(ctx context.Context, in model.PropertyInput) (*model.Property, error)
	Update(ctx context.Context, id string, upd model.PropertyUpdate) (*model.Property, error)
	// Delete reports whether a property was removed. A missing id is not an error.
	Delete(ctx context.Context, id string) (bool, error)
	// Search returns properties whose title, description or location contain query.
	Search(ctx context.Context, query string) ([]model.Property, error)
}

// NewPropertyRepository returns the property store for the resolved backend.
func NewPropertyRepository(b backend.Backend) PropertyRepository {
	switch b := b.(type) {
	case *backend.Firestore:
		return newFirestorePropertyRepository(b.Client)
	case *backend.SQL:
		return newGormPropertyRepository(b.DB)
	default:
		return NewMemoryPropertyRepository(SampleProperties()...)
	}
}

type gormPropertyRepository struct {
	db *gorm.DB
}

func newGormPropertyRepository(db *gorm.DB) PropertyRepository {
	return &gormPropertyRepository{db: db}
}

func (r *gormPropertyRepository) List(ctx context.Context, filter model.PropertyFilter, skip, limit int) ([]model.Property, error) {
	q := r.db.WithContext(ctx).Model(&model.Property{})
	if filter.PropertyType != "" {
		q = q.Where("property_type = ?", filter.PropertyType)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", containsPattern(filter.Location))
	}
	if skip > 0 {
		q = q.Offset(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var props []model.Property
	if err := q.Order("created_at, id").Find(&props).Error; err != nil {
		return nil, apperrors.Backend("properties.list", err)
	}
	return props, nil
}

func (r *gormPropertyRepository) GetByID(ctx context.Context, id string) (*model.Property, error) {
	var p model.Property
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, gormError("properties.get", err)
	}
	return &p, nil
}

func (r *gormPropertyRepository) Create(ctx context.Context, in model.PropertyInput) (*model.Property, error) {
	p := model.NewProperty(uuid.NewString(), in, now())
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, apperrors.Backend("properties.create", err)
	}
	return p, nil
}

func (r *gormPropertyRepository) Update(ctx context.Context, id string, upd model.PropertyUpdate) (*model.Property, error) {
	var p model.Property
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&p).Error; err != nil {
			return err
		}
		upd.Apply(&p, now())
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, gormError("properties.update", err)
	}
	return &p, nil
}

func (r *gormPropertyRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Property{})
	if res.Error != nil {
		return false, apperrors.Backend("properties.delete", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *gormPropertyRepository) Search(ctx context.Context, query string) ([]model.Property, error) {
	pattern := containsPattern(query)
	var props []model.Property
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ?", pattern, pattern, pattern).
		Order("created_at, id").
		Find(&props).Error
	if err != nil {
		return nil, apperrors.Backend("properties.search", err)
	}
	return props, nil
}
