package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"realestate/internal/db"
	apperrors "realestate/internal/errors"
	"realestate/internal/model"
)

// propertyDoc is the Firestore document shape. Prices are written as decimal
// strings so they survive exactly; numeric prices from older documents are
// still read.
type propertyDoc struct {
	Title        string    `firestore:"title"`
	Description  string    `firestore:"description"`
	Price        any       `firestore:"price"`
	Location     string    `firestore:"location"`
	PropertyType string    `firestore:"property_type"`
	Bedrooms     int       `firestore:"bedrooms"`
	Bathrooms    float64   `firestore:"bathrooms"`
	Area         float64   `firestore:"area"`
	Images       []string  `firestore:"images"`
	Features     []string  `firestore:"features,omitempty"`
	Status       string    `firestore:"status"`
	CreatedAt    time.Time `firestore:"created_at"`
	UpdatedAt    time.Time `firestore:"updated_at"`
}

func toPropertyDoc(p *model.Property) propertyDoc {
	return propertyDoc{
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price.String(),
		Location:     p.Location,
		PropertyType: p.PropertyType,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Area:         p.Area,
		Images:       p.Images,
		Features:     p.Features,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// decodePrice accepts the string form written today and the numeric form
// found in older documents.
func decodePrice(v any) (decimal.Decimal, error) {
	switch v := v.(type) {
	case string:
		return decimal.NewFromString(v)
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case nil:
		return decimal.Zero, nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported price type %T", v)
	}
}

func (d propertyDoc) toModel(id string) (*model.Property, error) {
	price, err := decodePrice(d.Price)
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", id, err)
	}
	images := d.Images
	if images == nil {
		images = []string{}
	}
	return &model.Property{
		ID:           id,
		Title:        d.Title,
		Description:  d.Description,
		Price:        price,
		Location:     d.Location,
		PropertyType: d.PropertyType,
		Bedrooms:     d.Bedrooms,
		Bathrooms:    d.Bathrooms,
		Area:         d.Area,
		Images:       images,
		Features:     d.Features,
		Status:       model.PropertyStatus(d.Status),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}, nil
}

func snapshotToProperty(snap *firestore.DocumentSnapshot) (*model.Property, error) {
	var d propertyDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	return d.toModel(snap.Ref.ID)
}

type firestorePropertyRepository struct {
	client     *firestore.Client
	properties *firestore.CollectionRef
}

func newFirestorePropertyRepository(client *firestore.Client) PropertyRepository {
	return &firestorePropertyRepository{
		client:     client,
		properties: client.Collection(db.PropertiesCollection),
	}
}

// all loads the collection in creation order. Substring filters have no
// Firestore query equivalent, so matching happens client-side.
func (r *firestorePropertyRepository) all(ctx context.Context, op string) ([]*model.Property, error) {
	snaps, err := r.properties.
		OrderBy("created_at", firestore.Asc).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, apperrors.Backend(op, err)
	}
	out := make([]*model.Property, 0, len(snaps))
	for _, snap := range snaps {
		p, err := snapshotToProperty(snap)
		if err != nil {
			return nil, apperrors.Backend(op, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *firestorePropertyRepository) List(ctx context.Context, filter model.PropertyFilter, skip, limit int) ([]model.Property, error) {
	all, err := r.all(ctx, "properties.list")
	if err != nil {
		return nil, err
	}
	var matched []model.Property
	for _, p := range all {
		if filter.Matches(p) {
			matched = append(matched, *p)
		}
	}
	return model.Paginate(matched, skip, limit), nil
}

func (r *firestorePropertyRepository) GetByID(ctx context.Context, id string) (*model.Property, error) {
	snap, err := r.properties.Doc(id).Get(ctx)
	if err != nil {
		if isFirestoreNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Backend("properties.get", err)
	}
	p, err := snapshotToProperty(snap)
	if err != nil {
		return nil, apperrors.Backend("properties.get", err)
	}
	return p, nil
}

func (r *firestorePropertyRepository) Create(ctx context.Context, in model.PropertyInput) (*model.Property, error) {
	p := model.NewProperty(uuid.NewString(), in, now())
	if _, err := r.properties.Doc(p.ID).Create(ctx, toPropertyDoc(p)); err != nil {
		return nil, apperrors.Backend("properties.create", err)
	}
	return p, nil
}

func (r *firestorePropertyRepository) Update(ctx context.Context, id string, upd model.PropertyUpdate) (*model.Property, error) {
	ref := r.properties.Doc(id)
	var updated *model.Property
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		p, err := snapshotToProperty(snap)
		if err != nil {
			return err
		}
		upd.Apply(p, now())
		updated = p
		return tx.Set(ref, toPropertyDoc(p))
	})
	if err != nil {
		if isFirestoreNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Backend("properties.update", err)
	}
	return updated, nil
}

func (r *firestorePropertyRepository) Delete(ctx context.Context, id string) (bool, error) {
	ref := r.properties.Doc(id)
	existed := false
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if isFirestoreNotFound(err) {
				existed = false
				return nil
			}
			return err
		}
		existed = true
		return tx.Delete(ref)
	})
	if err != nil {
		return false, apperrors.Backend("properties.delete", err)
	}
	return existed, nil
}

func (r *firestorePropertyRepository) Search(ctx context.Context, query string) ([]model.Property, error) {
	all, err := r.all(ctx, "properties.search")
	if err != nil {
		return nil, err
	}
	out := []model.Property{}
	for _, p := range all {
		if model.MatchesText(p, query) {
			out = append(out, *p)
		}
	}
	return out, nil
}
