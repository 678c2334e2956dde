package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"realestate/internal/model"
)

// SampleProperties returns the listings the mock backend starts with.
func SampleProperties() []model.Property {
	ts := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	return []model.Property{
		{
			ID:           "1",
			Title:        "Luxury Waterfront Villa",
			Description:  "Stunning 4-bedroom villa with panoramic ocean views, private pool, and modern amenities.",
			Price:        decimal.NewFromInt(1200000),
			Location:     "Miami Beach, FL",
			PropertyType: "Luxury",
			Bedrooms:     4,
			Bathrooms:    3.5,
			Area:         3500,
			Images: []string{
				"https://images.unsplash.com/photo-1613490493576-7fde63acd811?auto=format&fit=crop&w=1000&q=80",
				"https://images.unsplash.com/photo-1512917774080-9991f1c4c750?auto=format&fit=crop&w=1000&q=80",
			},
			Status:    model.PropertyStatusAvailable,
			CreatedAt: ts,
			UpdatedAt: ts,
		},
		{
			ID:           "2",
			Title:        "Modern Downtown Penthouse",
			Description:  "Exclusive penthouse with city views, featuring high-end finishes and a private terrace.",
			Price:        decimal.NewFromInt(850000),
			Location:     "Los Angeles, CA",
			PropertyType: "Penthouse",
			Bedrooms:     3,
			Bathrooms:    2,
			Area:         2200,
			Images: []string{
				"https://images.unsplash.com/photo-1512917774080-9991f1c4c750?auto=format&fit=crop&w=1000&q=80",
			},
			Status:    model.PropertyStatusAvailable,
			CreatedAt: ts,
			UpdatedAt: ts,
		},
		{
			ID:           "3",
			Title:        "Cozy Mountain Cabin",
			Description:  "Charming cabin with mountain views, a fireplace, and rustic decor.",
			Price:        decimal.NewFromInt(450000),
			Location:     "Aspen, CO",
			PropertyType: "Cabin",
			Bedrooms:     2,
			Bathrooms:    1.5,
			Area:         1200,
			Images: []string{
				"https://images.unsplash.com/photo-1516402707554-0a25b1921143?auto=format&fit=crop&w=1000&q=80",
			},
			Status:    model.PropertyStatusPending,
			CreatedAt: ts,
			UpdatedAt: ts,
		},
	}
}

// SampleInput converts p into creation input, dropping server-assigned fields.
func SampleInput(p model.Property) model.PropertyInput {
	return model.PropertyInput{
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		Location:     p.Location,
		PropertyType: p.PropertyType,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Area:         p.Area,
		Images:       p.Images,
		Features:     p.Features,
		Status:       p.Status,
	}
}
