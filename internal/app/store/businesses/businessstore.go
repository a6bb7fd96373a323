// internal/app/store/businesses/businessstore.go
package businessstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dalemusser/cercadeti/internal/app/system/docid"
	"github.com/dalemusser/cercadeti/internal/app/system/paging"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// maxSlugAttempts bounds the "-2", "-3" suffix search on slug collisions.
const maxSlugAttempts = 20

var ErrNotFound = errors.New("business not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("businesses")}
}

// Filter narrows the public directory listing.
type Filter struct {
	ZoneID     *primitive.ObjectID
	CategoryID *primitive.ObjectID
	Query      string
	Featured   bool // only featured listings
}

func (f Filter) toBSON() bson.M {
	q := bson.M{"status": models.BusinessStatusActive}
	if f.ZoneID != nil {
		q["zone_id"] = *f.ZoneID
	}
	if f.CategoryID != nil {
		q["category_id"] = *f.CategoryID
	}
	if f.Featured {
		q["featured"] = true
	}
	if f.Query != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(text.Fold(f.Query)), Options: "i"}
		q["$or"] = bson.A{bson.M{"name_ci": rx}, bson.M{"description": rx}}
	}
	return q
}

// List returns one page of active listings, featured first then by name.
func (s *Store) List(ctx context.Context, f Filter, pg paging.Page) ([]models.Business, int64, error) {
	filter := f.toBSON()
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	sort := bson.D{{Key: "featured", Value: -1}, {Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}
	cur, err := s.c.Find(ctx, filter, pg.FindOptions(sort))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := []models.Business{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) GetBySlug(ctx context.Context, sl string) (models.Business, error) {
	var b models.Business
	err := s.c.FindOne(ctx, bson.M{"slug": sl}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Business{}, ErrNotFound
	}
	return b, err
}

// GetBySourcePending returns the listing promoted from a submission.
func (s *Store) GetBySourcePending(ctx context.Context, pendingID primitive.ObjectID) (models.Business, error) {
	var b models.Business
	err := s.c.FindOne(ctx, bson.M{"source_pending_id": pendingID}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Business{}, ErrNotFound
	}
	return b, err
}

// CreateFromPending promotes an approved submission to a live listing.
// It is idempotent: a second call for the same submission returns the
// listing created by the first. Slug collisions get a numeric suffix.
func (s *Store) CreateFromPending(ctx context.Context, p models.PendingBusiness) (models.Business, error) {
	if existing, err := s.GetBySourcePending(ctx, p.ID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return models.Business{}, err
	}

	now := time.Now().UTC()
	pendingID := p.ID
	b := models.Business{
		DocumentID:      docid.New(),
		Name:            p.Name,
		NameCI:          text.Fold(p.Name),
		Description:     p.Description,
		Email:           p.Email,
		Phone:           p.Phone,
		Address:         p.Address,
		Website:         p.Website,
		LogoURL:         p.LogoURL,
		CategoryID:      p.CategoryID,
		ZoneID:          p.ZoneID,
		BusinessPlanID:  p.BusinessPlanID,
		Status:          models.BusinessStatusActive,
		SourcePendingID: &pendingID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	base := slug.Make(p.Name)
	if base == "" {
		base = "negocio"
	}
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		b.ID = primitive.NewObjectID()
		b.Slug = base
		if attempt > 1 {
			b.Slug = fmt.Sprintf("%s-%d", base, attempt)
		}

		_, err := s.c.InsertOne(ctx, b)
		if err == nil {
			return b, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.Business{}, err
		}
		// Either a concurrent promotion of the same submission won, or the slug is taken.
		if existing, gerr := s.GetBySourcePending(ctx, p.ID); gerr == nil {
			return existing, nil
		}
	}
	return models.Business{}, fmt.Errorf("create business %q: no free slug after %d attempts", base, maxSlugAttempts)
}
