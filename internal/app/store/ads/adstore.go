// internal/app/store/ads/adstore.go
package adstore

import (
	"context"
	"time"

	offerstore "github.com/dalemusser/cercadeti/internal/app/store/offers"
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
	return &Store{c: db.Collection("ads")}
}

// Current returns active ads inside their date window. placement filters when
// non-empty. With a zone, zone-specific ads and zone-less (global) ads both match.
func (s *Store) Current(ctx context.Context, placement string, zoneID *primitive.ObjectID, now time.Time) ([]models.Ad, error) {
	and := offerstore.WindowFilter(now)
	if zoneID != nil {
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"zone_id": *zoneID},
			bson.M{"zone_id": bson.M{"$exists": false}},
			bson.M{"zone_id": nil},
		}})
	}
	filter := bson.M{"active": true, "$and": and}
	if placement != "" {
		filter["placement"] = placement
	}

	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(50))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Ad{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
