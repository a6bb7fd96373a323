// internal/app/store/offers/offerstore.go
package offerstore

import (
	"context"
	"time"

	"github.com/dalemusser/cercadeti/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("offers")}
}

// windowFilter matches documents whose [starts_at, ends_at) window contains now.
// Missing bounds are open.
func windowFilter(now time.Time) bson.A {
	return bson.A{
		bson.M{"$or": bson.A{
			bson.M{"starts_at": bson.M{"$exists": false}},
			bson.M{"starts_at": nil},
			bson.M{"starts_at": bson.M{"$lte": now}},
		}},
		bson.M{"$or": bson.A{
			bson.M{"ends_at": bson.M{"$exists": false}},
			bson.M{"ends_at": nil},
			bson.M{"ends_at": bson.M{"$gt": now}},
		}},
	}
}

// Current returns active offers whose window contains now. A non-nil zoneID
// restricts to that zone.
func (s *Store) Current(ctx context.Context, zoneID *primitive.ObjectID, now time.Time) ([]models.Offer, error) {
	filter := bson.M{"active": true, "$and": windowFilter(now)}
	if zoneID != nil {
		filter["zone_id"] = *zoneID
	}
	opts := options.Find().SetSort(bson.D{{Key: "starts_at", Value: -1}, {Key: "_id", Value: -1}}).SetLimit(100)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Offer{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ForBusiness returns a listing's current offers.
func (s *Store) ForBusiness(ctx context.Context, businessID primitive.ObjectID, now time.Time) ([]models.Offer, error) {
	filter := bson.M{"business_id": businessID, "active": true, "$and": windowFilter(now)}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "starts_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Offer{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WindowFilter is exported for stores that share the date-window rule.
func WindowFilter(now time.Time) bson.A { return windowFilter(now) }
