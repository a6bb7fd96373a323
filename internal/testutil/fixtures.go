package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/cercadeti/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert into %s: %v", coll, err)
	}
}

// CreateCategory creates a category with a slug derived from name.
func (f *Fixtures) CreateCategory(ctx context.Context, name string) models.Category {
	f.t.Helper()
	now := time.Now().UTC()
	c := models.Category{
		ID:         primitive.NewObjectID(),
		DocumentID: uuid.NewString(),
		Name:       name,
		NameCI:     text.Fold(name),
		Slug:       slug.Make(name),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "categories", c)
	return c
}

// CreateZone creates a zone in the given city.
func (f *Fixtures) CreateZone(ctx context.Context, name, city string) models.Zone {
	f.t.Helper()
	now := time.Now().UTC()
	z := models.Zone{
		ID:         primitive.NewObjectID(),
		DocumentID: uuid.NewString(),
		Name:       name,
		NameCI:     text.Fold(name),
		Slug:       slug.Make(name),
		City:       city,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "zones", z)
	return z
}

// CreatePlan creates a business plan.
func (f *Fixtures) CreatePlan(ctx context.Context, name string, priceCents int64, sortOrder int) models.BusinessPlan {
	f.t.Helper()
	now := time.Now().UTC()
	p := models.BusinessPlan{
		ID:         primitive.NewObjectID(),
		DocumentID: uuid.NewString(),
		Name:       name,
		Slug:       slug.Make(name),
		PriceCents: priceCents,
		Currency:   "MXN",
		SortOrder:  sortOrder,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "business_plans", p)
	return p
}

// CreatePendingBusiness creates a pending submission. Relation ids may be nil.
func (f *Fixtures) CreatePendingBusiness(ctx context.Context, name string, categoryID, zoneID, planID *primitive.ObjectID) models.PendingBusiness {
	f.t.Helper()
	now := time.Now().UTC()
	p := models.PendingBusiness{
		ID:             primitive.NewObjectID(),
		DocumentID:     uuid.NewString(),
		Name:           name,
		Email:          "owner@example.com",
		Phone:          "555-0100",
		Address:        "Calle 1 #23",
		CategoryID:     categoryID,
		ZoneID:         zoneID,
		BusinessPlanID: planID,
		Status:         models.PendingStatusPending,
		SubmittedAt:    now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, "pending_businesses", p)
	return p
}

// CreateContactSubmission creates a contact submission with the given status.
func (f *Fixtures) CreateContactSubmission(ctx context.Context, name, status string) models.ContactSubmission {
	f.t.Helper()
	now := time.Now().UTC()
	c := models.ContactSubmission{
		ID:          primitive.NewObjectID(),
		DocumentID:  uuid.NewString(),
		Name:        name,
		Email:       "visitor@example.com",
		Message:     "Hola",
		Status:      status,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == models.ContactStatusReplied {
		c.RepliedAt = &now
	}
	f.insert(ctx, "contact_submissions", c)
	return c
}

// CreateBusiness creates an active listing.
func (f *Fixtures) CreateBusiness(ctx context.Context, name string, categoryID, zoneID *primitive.ObjectID, featured bool) models.Business {
	f.t.Helper()
	now := time.Now().UTC()
	b := models.Business{
		ID:         primitive.NewObjectID(),
		DocumentID: uuid.NewString(),
		Name:       name,
		NameCI:     text.Fold(name),
		Slug:       slug.Make(name),
		CategoryID: categoryID,
		ZoneID:     zoneID,
		Featured:   featured,
		Status:     models.BusinessStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "businesses", b)
	return b
}

// CreateOffer creates an offer for a business with an optional window.
func (f *Fixtures) CreateOffer(ctx context.Context, businessID primitive.ObjectID, zoneID *primitive.ObjectID, title string, active bool, w models.Window) models.Offer {
	f.t.Helper()
	now := time.Now().UTC()
	o := models.Offer{
		ID:         primitive.NewObjectID(),
		DocumentID: uuid.NewString(),
		BusinessID: businessID,
		ZoneID:     zoneID,
		Title:      title,
		Window:     w,
		Active:     active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "offers", o)
	return o
}

// CreateAd creates an ad for a placement with an optional window.
func (f *Fixtures) CreateAd(ctx context.Context, title, placement string, zoneID *primitive.ObjectID, active bool, w models.Window) models.Ad {
	f.t.Helper()
	now := time.Now().UTC()
	a := models.Ad{
		ID:         primitive.NewObjectID(),
		DocumentID: uuid.NewString(),
		Title:      title,
		ImageURL:   "https://cdn.example.com/" + slug.Make(title) + ".png",
		Placement:  placement,
		ZoneID:     zoneID,
		Window:     w,
		Active:     active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "ads", a)
	return a
}

// CreateAdmin creates an active admin with the given password.
func (f *Fixtures) CreateAdmin(ctx context.Context, email, password string) models.Admin {
	f.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash password: %v", err)
	}
	now := time.Now().UTC()
	a := models.Admin{
		ID:           primitive.NewObjectID(),
		Email:        email,
		EmailCI:      text.Fold(email),
		Name:         "Admin",
		PasswordHash: string(hash),
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "admins", a)
	return a
}
