// internal/app/store/zones/zonestore.go
package zonestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/cercadeti/internal/app/system/docid"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound      = errors.New("zone not found")
	ErrDuplicateZone = errors.New("a zone with this slug already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("zones")}
}

func (s *Store) Create(ctx context.Context, z models.Zone) (models.Zone, error) {
	now := time.Now().UTC()
	z.ID = primitive.NewObjectID()
	z.DocumentID = docid.New()
	z.NameCI = text.Fold(z.Name)
	if z.Slug == "" {
		z.Slug = slug.Make(z.Name)
	} else {
		z.Slug = slug.Make(z.Slug)
	}
	z.CreatedAt = now
	z.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, z); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Zone{}, ErrDuplicateZone
		}
		return models.Zone{}, err
	}
	return z, nil
}

// List returns zones sorted by city then name. city filters when non-empty.
func (s *Store) List(ctx context.Context, city string) ([]models.Zone, error) {
	filter := bson.M{}
	if city != "" {
		filter["city"] = city
	}
	opts := options.Find().SetSort(bson.D{{Key: "city", Value: 1}, {Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Zone{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetBySlug(ctx context.Context, sl string) (models.Zone, error) {
	var z models.Zone
	err := s.c.FindOne(ctx, bson.M{"slug": sl}).Decode(&z)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Zone{}, ErrNotFound
	}
	return z, err
}

func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
