package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate/internal/backend"
	apperrors "realestate/internal/errors"
	"realestate/internal/model"
)

func seededPropertyRepo(t *testing.T, prices ...int64) (*MemoryPropertyRepository, []*model.Property) {
	t.Helper()
	repo := NewMemoryPropertyRepository()
	var created []*model.Property
	for i, price := range prices {
		p, err := repo.Create(context.Background(), model.PropertyInput{
			Title:        "Listing",
			Price:        decimal.NewFromInt(price),
			Location:     []string{"Aspen, CO", "Miami, FL", "Los Angeles, CA", "Austin, TX"}[i%4],
			PropertyType: []string{"Cabin", "House", "Penthouse", "House"}[i%4],
		})
		require.NoError(t, err)
		created = append(created, p)
	}
	return repo, created
}

func prices(props []model.Property) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.Price.String()
	}
	return out
}

func TestMemoryPropertyRepository_ListPriceBoundsInclusive(t *testing.T) {
	repo, _ := seededPropertyRepo(t, 450000, 500000, 750000, 1200000)
	lo := decimal.NewFromInt(500000)
	hi := decimal.NewFromInt(800000)

	got, err := repo.List(context.Background(), model.PropertyFilter{MinPrice: &lo, MaxPrice: &hi}, 0, 100)
	require.NoError(t, err)

	assert.Equal(t, []string{"500000", "750000"}, prices(got))
}

func TestMemoryPropertyRepository_PaginationAfterFiltering(t *testing.T) {
	repo, _ := seededPropertyRepo(t, 1, 2, 3, 4, 5, 6, 7, 8)
	ctx := context.Background()

	houses, err := repo.List(ctx, model.PropertyFilter{PropertyType: "House"}, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4", "6", "8"}, prices(houses))

	page, err := repo.List(ctx, model.PropertyFilter{PropertyType: "House"}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "6"}, prices(page))

	empty, err := repo.List(ctx, model.PropertyFilter{PropertyType: "House"}, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryPropertyRepository_LocationSubstring(t *testing.T) {
	repo, _ := seededPropertyRepo(t, 1, 2, 3)

	got, err := repo.List(context.Background(), model.PropertyFilter{Location: "los ANGELES"}, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Los Angeles, CA", got[0].Location)
}

func TestMemoryPropertyRepository_UpdatePartial(t *testing.T) {
	repo, created := seededPropertyRepo(t, 450000)
	ctx := context.Background()
	orig := created[0]
	time.Sleep(time.Millisecond)

	price := decimal.NewFromInt(999)
	updated, err := repo.Update(ctx, orig.ID, model.PropertyUpdate{Price: &price})
	require.NoError(t, err)

	assert.True(t, updated.Price.Equal(price))
	assert.Equal(t, orig.Title, updated.Title)
	assert.Equal(t, orig.Location, updated.Location)
	assert.Equal(t, orig.PropertyType, updated.PropertyType)
	assert.Equal(t, orig.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(orig.UpdatedAt))

	_, err = repo.Update(ctx, "missing", model.PropertyUpdate{Price: &price})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryPropertyRepository_CreateAssignsFreshIDs(t *testing.T) {
	_, created := seededPropertyRepo(t, 1, 2)

	assert.NotEmpty(t, created[0].ID)
	assert.NotEqual(t, created[0].ID, created[1].ID)
	assert.Equal(t, created[0].CreatedAt, created[0].UpdatedAt)
	assert.Equal(t, model.PropertyStatusAvailable, created[0].Status)
}

func TestMemoryPropertyRepository_DeleteIdempotentFalse(t *testing.T) {
	repo, created := seededPropertyRepo(t, 1)
	ctx := context.Background()

	ok, err := repo.Delete(ctx, created[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, created[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.GetByID(ctx, created[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryPropertyRepository_Search(t *testing.T) {
	repo := NewMemoryPropertyRepository(
		model.Property{ID: "1", Title: "Modern Penthouse", Description: "Views", Location: "Los Angeles, CA"},
		model.Property{ID: "2", Title: "Cabin", Description: "Near the slopes", Location: "Aspen, CO"},
		model.Property{ID: "3", Title: "Villa", Description: "Beachfront penthouse-style suite", Location: "Miami, FL"},
	)

	got, err := repo.Search(context.Background(), "PENTHOUSE")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	none, err := repo.Search(context.Background(), "castle")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryPropertyRepository_SeedIsCopied(t *testing.T) {
	seed := model.Property{ID: "1", Title: "Original", Images: []string{"a.jpg"}}
	repo := NewMemoryPropertyRepository(seed)
	seed.Images[0] = "changed.jpg"

	p, err := repo.GetByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, p.Images)
}

func TestContainsPattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%100\%\_off%`, containsPattern("100%_OFF"))
}

func TestNewPropertyRepository_MockIsSeeded(t *testing.T) {
	repo := NewPropertyRepository(&backend.Mock{})

	all, err := repo.List(context.Background(), model.PropertyFilter{}, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Luxury Waterfront Villa", all[0].Title)

	cabin, err := repo.GetByID(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, model.PropertyStatusPending, cabin.Status)
}
