package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// PropertyStatus is the listing state of a property.
type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusSold      PropertyStatus = "sold"
	PropertyStatusRented    PropertyStatus = "rented"
	PropertyStatusPending   PropertyStatus = "pending"
)

// Property represents a real-estate listing.
type Property struct {
	ID           string          `json:"id" gorm:"type:varchar(64);primaryKey"`
	Title        string          `json:"title" gorm:"size:255;not null"`
	Description  string          `json:"description" gorm:"type:text"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null;index"`
	Location     string          `json:"location" gorm:"size:255;index"`
	PropertyType string          `json:"property_type" gorm:"size:64;index"`
	Bedrooms     int             `json:"bedrooms"`
	Bathrooms    float64         `json:"bathrooms"`
	Area         float64         `json:"area"`
	Images       []string        `json:"images" gorm:"serializer:json"`
	Features     []string        `json:"features,omitempty" gorm:"serializer:json"`
	Status       PropertyStatus  `json:"status" gorm:"size:32;default:'available'"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PropertyInput carries the caller-supplied fields of a new property.
type PropertyInput struct {
	Title        string
	Description  string
	Price        decimal.Decimal
	Location     string
	PropertyType string
	Bedrooms     int
	Bathrooms    float64
	Area         float64
	Images       []string
	Features     []string
	Status       PropertyStatus
}

// NewProperty builds a property with the given id and both timestamps set to now.
func NewProperty(id string, in PropertyInput, now time.Time) *Property {
	status := in.Status
	if status == "" {
		status = PropertyStatusAvailable
	}
	images := in.Images
	if images == nil {
		images = []string{}
	}
	return &Property{
		ID:           id,
		Title:        in.Title,
		Description:  in.Description,
		Price:        in.Price,
		Location:     in.Location,
		PropertyType: in.PropertyType,
		Bedrooms:     in.Bedrooms,
		Bathrooms:    in.Bathrooms,
		Area:         in.Area,
		Images:       images,
		Features:     in.Features,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// PropertyUpdate lists the fields a partial property update may change.
type PropertyUpdate struct {
	Title        *string
	Description  *string
	Price        *decimal.Decimal
	Location     *string
	PropertyType *string
	Bedrooms     *int
	Bathrooms    *float64
	Area         *float64
	Images       *[]string
	Features     *[]string
	Status       *PropertyStatus
}

// Apply merges the non-nil fields of upd into p and refreshes UpdatedAt.
func (upd PropertyUpdate) Apply(p *Property, now time.Time) {
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Location != nil {
		p.Location = *upd.Location
	}
	if upd.PropertyType != nil {
		p.PropertyType = *upd.PropertyType
	}
	if upd.Bedrooms != nil {
		p.Bedrooms = *upd.Bedrooms
	}
	if upd.Bathrooms != nil {
		p.Bathrooms = *upd.Bathrooms
	}
	if upd.Area != nil {
		p.Area = *upd.Area
	}
	if upd.Images != nil {
		p.Images = append([]string(nil), (*upd.Images)...)
	}
	if upd.Features != nil {
		p.Features = append([]string(nil), (*upd.Features)...)
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	p.UpdatedAt = now
}

// PropertyFilter narrows a listing. Zero values mean "no constraint".
type PropertyFilter struct {
	PropertyType string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Location     string
}

// Matches reports whether p satisfies every constraint of f.
// Type is an exact match, location a case-insensitive substring, price bounds inclusive.
func (f PropertyFilter) Matches(p *Property) bool {
	if f.PropertyType != "" && p.PropertyType != f.PropertyType {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
		return false
	}
	return true
}

// MatchesText reports whether query occurs, case-insensitively, in the title,
// description or location of p.
func MatchesText(p *Property, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Location), q)
}

// Paginate returns the window [skip, skip+limit) of items. A non-positive limit returns everything after skip.
func Paginate[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return items[skip:end]
}

// Clone returns a deep copy of p.
func (p *Property) Clone() *Property {
	c := *p
	if p.Images != nil {
		c.Images = append([]string(nil), p.Images...)
	}
	if p.Features != nil {
		c.Features = append([]string(nil), p.Features...)
	}
	return &c
}
