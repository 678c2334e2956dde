package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	apperrors "realestate/internal/errors"
	"realestate/internal/model"
)

// MemoryPropertyRepository keeps properties in insertion order in process memory.
type MemoryPropertyRepository struct {
	mu         sync.RWMutex
	properties []*model.Property
}

// NewMemoryPropertyRepository creates an in-memory property store holding seed, in order.
func NewMemoryPropertyRepository(seed ...model.Property) *MemoryPropertyRepository {
	r := &MemoryPropertyRepository{}
	for i := range seed {
		r.properties = append(r.properties, seed[i].Clone())
	}
	return r
}

func (r *MemoryPropertyRepository) List(_ context.Context, filter model.PropertyFilter, skip, limit int) ([]model.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []model.Property
	for _, p := range r.properties {
		if filter.Matches(p) {
			matched = append(matched, *p.Clone())
		}
	}
	return model.Paginate(matched, skip, limit), nil
}

func (r *MemoryPropertyRepository) GetByID(_ context.Context, id string) (*model.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.properties[i].Clone(), nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *MemoryPropertyRepository) Create(_ context.Context, in model.PropertyInput) (*model.Property, error) {
	p := model.NewProperty(uuid.NewString(), in, now())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.properties = append(r.properties, p.Clone())
	return p, nil
}

func (r *MemoryPropertyRepository) Update(_ context.Context, id string, upd model.PropertyUpdate) (*model.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, apperrors.ErrNotFound
	}
	upd.Apply(r.properties[i], now())
	return r.properties[i].Clone(), nil
}

func (r *MemoryPropertyRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	r.properties = append(r.properties[:i], r.properties[i+1:]...)
	return true, nil
}

func (r *MemoryPropertyRepository) Search(_ context.Context, query string) ([]model.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.Property{}
	for _, p := range r.properties {
		if model.MatchesText(p, query) {
			out = append(out, *p.Clone())
		}
	}
	return out, nil
}

func (r *MemoryPropertyRepository) indexOf(id string) int {
	for i, p := range r.properties {
		if p.ID == id {
			return i
		}
	}
	return -1
}
