package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyUpdate_ApplyLeavesOmittedFields(t *testing.T) {
	created := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	p := NewProperty("p1", PropertyInput{
		Title:        "Cozy Mountain Cabin",
		Price:        decimal.NewFromInt(450000),
		Location:     "Aspen, CO",
		PropertyType: "Cabin",
		Bedrooms:     2,
		Images:       []string{"a.jpg"},
	}, created)

	price := decimal.NewFromInt(999)
	later := created.Add(time.Hour)
	PropertyUpdate{Price: &price}.Apply(p, later)

	assert.True(t, p.Price.Equal(price))
	assert.Equal(t, "Cozy Mountain Cabin", p.Title)
	assert.Equal(t, "Aspen, CO", p.Location)
	assert.Equal(t, 2, p.Bedrooms)
	assert.Equal(t, []string{"a.jpg"}, p.Images)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, later, p.UpdatedAt)
}

func TestNewProperty_Defaults(t *testing.T) {
	p := NewProperty("p1", PropertyInput{Title: "x"}, time.Now())

	assert.Equal(t, PropertyStatusAvailable, p.Status)
	assert.NotNil(t, p.Images)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestPropertyFilter_Matches(t *testing.T) {
	p := &Property{PropertyType: "house", Price: decimal.NewFromInt(500000), Location: "Miami Beach, FL"}
	lo := decimal.NewFromInt(500000)
	hi := decimal.NewFromInt(800000)
	below := decimal.NewFromInt(499999)

	assert.True(t, PropertyFilter{MinPrice: &lo, MaxPrice: &hi}.Matches(p), "bounds are inclusive")
	assert.False(t, PropertyFilter{MaxPrice: &below}.Matches(p))
	assert.True(t, PropertyFilter{Location: "miami"}.Matches(p))
	assert.False(t, PropertyFilter{PropertyType: "House"}.Matches(p), "type is an exact match")
	assert.True(t, PropertyFilter{}.Matches(p))
}

func TestMatchesText(t *testing.T) {
	p := &Property{Title: "Modern Penthouse", Description: "City views", Location: "Los Angeles, CA"}

	assert.True(t, MatchesText(p, "PENTHOUSE"))
	assert.True(t, MatchesText(p, "views"))
	assert.True(t, MatchesText(p, "angeles"))
	assert.False(t, MatchesText(p, "cabin"))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{2, 3}, Paginate(items, 1, 2))
	assert.Equal(t, []int{4, 5}, Paginate(items, 3, 10))
	assert.Equal(t, []int{}, Paginate(items, 9, 2))
	assert.Equal(t, items, Paginate(items, 0, 0))
}

func TestProperty_JSONShape(t *testing.T) {
	ts := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	p := NewProperty("1", PropertyInput{Title: "t", Price: decimal.NewFromInt(850000)}, ts)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, float64(850000), m["price"])
	assert.Equal(t, "2024-03-20T00:00:00Z", m["created_at"])
	assert.Contains(t, m, "property_type")
	assert.NotContains(t, m, "features")
}

func TestInvitation_Expired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.False(t, (&Invitation{}).Expired(now))
	assert.True(t, (&Invitation{ExpiresAt: &past}).Expired(now))
	assert.True(t, (&Invitation{ExpiresAt: &now}).Expired(now))
	assert.False(t, (&Invitation{ExpiresAt: &future}).Expired(now))
}
