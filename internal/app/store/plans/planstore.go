// internal/app/store/plans/planstore.go
package planstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/cercadeti/internal/app/system/docid"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCurrency applies when a plan is created without one.
const DefaultCurrency = "MXN"

var ErrDuplicatePlan = errors.New("a business plan with this slug already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("business_plans")}
}

func (s *Store) Create(ctx context.Context, p models.BusinessPlan) (models.BusinessPlan, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.DocumentID = docid.New()
	if p.Slug == "" {
		p.Slug = slug.Make(p.Name)
	} else {
		p.Slug = slug.Make(p.Slug)
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.BusinessPlan{}, ErrDuplicatePlan
		}
		return models.BusinessPlan{}, err
	}
	return p, nil
}

// List returns plans in display order (sort_order, then price).
func (s *Store) List(ctx context.Context) ([]models.BusinessPlan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "price_cents", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.BusinessPlan{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
