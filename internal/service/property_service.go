package service

import (
	"context"
	"time"

	"realestate/internal/cache"
	"realestate/internal/model"
	"realestate/internal/repository"
)

const propertyCacheTTL = 5 * time.Minute

// PropertyService exposes listing operations with read-through caching by id.
type PropertyService interface {
	List(ctx context.Context, filter model.PropertyFilter, skip, limit int) ([]model.Property, error)
	Get(ctx context.Context, id string) (*model.Property, error)
	Create(ctx context.Context, in model.PropertyInput) (*model.Property, error)
	Update(ctx context.Context, id string, upd model.PropertyUpdate) (*model.Property, error)
	Delete(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, query string) ([]model.Property, error)
}

type propertyService struct {
	repo  repository.PropertyRepository
	cache *cache.Client
}

// NewPropertyService builds a PropertyService. A nil cache disables caching.
func NewPropertyService(repo repository.PropertyRepository, cache *cache.Client) PropertyService {
	return &propertyService{repo: repo, cache: cache}
}

func propertyCacheKey(id string) string {
	return "property:" + id
}

func (s *propertyService) List(ctx context.Context, filter model.PropertyFilter, skip, limit int) ([]model.Property, error) {
	return s.repo.List(ctx, filter, skip, limit)
}

func (s *propertyService) Get(ctx context.Context, id string) (*model.Property, error) {
	if cached, ok := cache.GetJSON[model.Property](ctx, s.cache, propertyCacheKey(id)); ok {
		return &cached, nil
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cache.SetJSON(ctx, s.cache, propertyCacheKey(id), p, propertyCacheTTL)
	return p, nil
}

func (s *propertyService) Create(ctx context.Context, in model.PropertyInput) (*model.Property, error) {
	return s.repo.Create(ctx, in)
}

func (s *propertyService) Update(ctx context.Context, id string, upd model.PropertyUpdate) (*model.Property, error) {
	p, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, propertyCacheKey(id))
	return p, nil
}

func (s *propertyService) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	s.cache.Delete(ctx, propertyCacheKey(id))
	return ok, nil
}

func (s *propertyService) Search(ctx context.Context, query string) ([]model.Property, error) {
	return s.repo.Search(ctx, query)
}
