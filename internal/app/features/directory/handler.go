// internal/app/features/directory/handler.go
package directory

import (
	"context"
	"errors"
	"time"

	adstore "github.com/dalemusser/cercadeti/internal/app/store/ads"
	businessstore "github.com/dalemusser/cercadeti/internal/app/store/businesses"
	categorystore "github.com/dalemusser/cercadeti/internal/app/store/categories"
	offerstore "github.com/dalemusser/cercadeti/internal/app/store/offers"
	planstore "github.com/dalemusser/cercadeti/internal/app/store/plans"
	zonestore "github.com/dalemusser/cercadeti/internal/app/store/zones"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the public directory: taxonomy, listings and promotions.
type Handler struct {
	Categories *categorystore.Store
	Zones      *zonestore.Store
	Plans      *planstore.Store
	Businesses *businessstore.Store
	Offers     *offerstore.Store
	Ads        *adstore.Store
	Log        *zap.Logger

	// Now is the clock used for offer and ad windows.
	Now func() time.Time
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Categories: categorystore.New(db),
		Zones:      zonestore.New(db),
		Plans:      planstore.New(db),
		Businesses: businessstore.New(db),
		Offers:     offerstore.New(db),
		Ads:        adstore.New(db),
		Log:        logger,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

// zoneID resolves a zone slug. found is false when the slug is set but
// unknown; an empty slug resolves to (nil, true).
func (h *Handler) zoneID(ctx context.Context, slug string) (id *primitive.ObjectID, found bool, err error) {
	if slug == "" {
		return nil, true, nil
	}
	z, err := h.Zones.GetBySlug(ctx, slug)
	if errors.Is(err, zonestore.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &z.ID, true, nil
}

func (h *Handler) categoryID(ctx context.Context, slug string) (id *primitive.ObjectID, found bool, err error) {
	if slug == "" {
		return nil, true, nil
	}
	c, err := h.Categories.GetBySlug(ctx, slug)
	if errors.Is(err, categorystore.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &c.ID, true, nil
}
