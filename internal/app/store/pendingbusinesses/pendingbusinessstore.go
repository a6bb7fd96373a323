// internal/app/store/pendingbusinesses/pendingbusinessstore.go
package pendingbusinessstore

import (
	"context"
	"errors"
	"regexp"
	"slices"
	"time"

	"github.com/dalemusser/cercadeti/internal/app/system/docid"
	"github.com/dalemusser/cercadeti/internal/app/system/paging"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collection = "pending_businesses"

var (
	ErrNotFound      = errors.New("pending business not found")
	ErrNotPending    = errors.New("pending business has already been reviewed")
	ErrInvalidStatus = errors.New("invalid pending business status")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(collection)}
}

// Create persists a new submission as pending. Review fields are never
// accepted from the caller.
func (s *Store) Create(ctx context.Context, p models.PendingBusiness) (models.PendingBusiness, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.DocumentID = docid.New()
	p.Status = models.PendingStatusPending
	p.SubmittedAt = now
	p.ReviewedAt = nil
	p.ReviewedBy = ""
	p.BusinessID = nil
	p.Category, p.Zone, p.BusinessPlan = nil, nil, nil
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.PendingBusiness{}, err
	}
	return p, nil
}

// GetByDocumentID loads one submission without relations.
func (s *Store) GetByDocumentID(ctx context.Context, documentID string) (models.PendingBusiness, error) {
	var p models.PendingBusiness
	err := s.c.FindOne(ctx, bson.M{"document_id": documentID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.PendingBusiness{}, ErrNotFound
	}
	if err != nil {
		return models.PendingBusiness{}, err
	}
	return p, nil
}

// GetPopulated loads one submission with category, zone and business_plan
// joined in. Missing relations are left nil.
func (s *Store) GetPopulated(ctx context.Context, documentID string) (models.PendingBusiness, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"document_id": documentID}}},
		{{Key: "$limit", Value: 1}},
	}
	pipeline = append(pipeline, lookupOne("categories", "category_id", "category")...)
	pipeline = append(pipeline, lookupOne("zones", "zone_id", "zone")...)
	pipeline = append(pipeline, lookupOne("business_plans", "business_plan_id", "business_plan")...)

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return models.PendingBusiness{}, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return models.PendingBusiness{}, err
		}
		return models.PendingBusiness{}, ErrNotFound
	}
	var p models.PendingBusiness
	if err := cur.Decode(&p); err != nil {
		return models.PendingBusiness{}, err
	}
	return p, nil
}

func lookupOne(from, localField, as string) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         from,
			"localField":   localField,
			"foreignField": "_id",
			"as":           as,
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$" + as,
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}

// Filter narrows List results.
type Filter struct {
	Status string
	Query  string // case-insensitive substring of name or email
}

func (f Filter) toBSON() bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Query != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
		q["$or"] = bson.A{bson.M{"name": rx}, bson.M{"email": rx}}
	}
	return q
}

// List returns one page of submissions, newest first, plus the total match count.
func (s *Store) List(ctx context.Context, f Filter, pg paging.Page) ([]models.PendingBusiness, int64, error) {
	filter := f.toBSON()
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := pg.FindOptions(bson.D{{Key: "submitted_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := []models.PendingBusiness{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Patch holds the editable fields of a submission; nil means unchanged.
// The Clear flags remove a relation and win over the matching ID.
type Patch struct {
	Name               *string
	Description        *string
	Email              *string
	Phone              *string
	Address            *string
	Website            *string
	CustomCategoryName *string
	CategoryID         *primitive.ObjectID
	ZoneID             *primitive.ObjectID
	BusinessPlanID     *primitive.ObjectID

	ClearCategory     bool
	ClearZone         bool
	ClearBusinessPlan bool
}

// Update applies p and returns the updated record.
func (s *Store) Update(ctx context.Context, documentID string, p Patch) (models.PendingBusiness, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	setStr := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	setStr("name", p.Name)
	setStr("description", p.Description)
	setStr("email", p.Email)
	setStr("phone", p.Phone)
	setStr("address", p.Address)
	setStr("website", p.Website)
	setStr("custom_category_name", p.CustomCategoryName)
	unset := bson.M{}
	setRel := func(key string, id *primitive.ObjectID, drop bool) {
		switch {
		case drop:
			unset[key] = ""
		case id != nil:
			set[key] = *id
		}
	}
	setRel("category_id", p.CategoryID, p.ClearCategory)
	setRel("zone_id", p.ZoneID, p.ClearZone)
	setRel("business_plan_id", p.BusinessPlanID, p.ClearBusinessPlan)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var out models.PendingBusiness
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"document_id": documentID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.PendingBusiness{}, ErrNotFound
	}
	if err != nil {
		return models.PendingBusiness{}, err
	}
	return out, nil
}

// reviewUpdate builds the update for moving to status. Leaving pending stamps
// reviewed_at/reviewed_by; returning to pending clears both.
func reviewUpdate(status, actor string, now time.Time) bson.M {
	if status == models.PendingStatusPending {
		return bson.M{
			"$set":   bson.M{"status": status, "updated_at": now},
			"$unset": bson.M{"reviewed_at": "", "reviewed_by": ""},
		}
	}
	return bson.M{"$set": bson.M{
		"status":      status,
		"reviewed_at": now,
		"reviewed_by": actor,
		"updated_at":  now,
	}}
}

// SetStatus moves a submission to any valid status regardless of its current
// one. It returns the record before and after the change.
func (s *Store) SetStatus(ctx context.Context, documentID, status, actor string) (before, after models.PendingBusiness, err error) {
	if !slices.Contains(models.PendingStatuses, status) {
		return before, after, ErrInvalidStatus
	}
	now := time.Now().UTC()

	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"document_id": documentID},
		reviewUpdate(status, actor, now),
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return before, after, ErrNotFound
	}
	if err != nil {
		return before, after, err
	}

	after = before
	after.Status = status
	after.UpdatedAt = now
	if status == models.PendingStatusPending {
		after.ReviewedAt, after.ReviewedBy = nil, ""
	} else {
		after.ReviewedAt, after.ReviewedBy = &now, actor
	}
	return before, after, nil
}

// Review flips a submission out of pending atomically. When the submission
// is no longer pending, ErrNotPending is returned along with its current state.
func (s *Store) Review(ctx context.Context, documentID, status, actor string) (models.PendingBusiness, error) {
	if status != models.PendingStatusApproved && status != models.PendingStatusRejected {
		return models.PendingBusiness{}, ErrInvalidStatus
	}

	var out models.PendingBusiness
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"document_id": documentID, "status": models.PendingStatusPending},
		reviewUpdate(status, actor, time.Now().UTC()),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.PendingBusiness{}, err
	}

	current, gerr := s.GetByDocumentID(ctx, documentID)
	if gerr != nil {
		return models.PendingBusiness{}, gerr
	}
	return current, ErrNotPending
}

// LinkBusiness records the live listing created from this submission.
func (s *Store) LinkBusiness(ctx context.Context, documentID string, businessID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"document_id": documentID},
		bson.M{"$set": bson.M{"business_id": businessID, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUnpromoted returns approved submissions that were never linked to a
// listing, oldest review first.
func (s *Store) ListUnpromoted(ctx context.Context, limit int64) ([]models.PendingBusiness, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"status": models.PendingStatusApproved, "business_id": bson.M{"$exists": false}},
		options.Find().SetSort(bson.D{{Key: "reviewed_at", Value: 1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.PendingBusiness{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a submission. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, documentID string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"document_id": documentID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByStatus returns counts keyed by status.
func (s *Store) CountByStatus(ctx context.Context) (map[string]int64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]int64, len(models.PendingStatuses))
	for _, st := range models.PendingStatuses {
		out[st] = 0
	}
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			N      int64  `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Status] = row.N
	}
	return out, cur.Err()
}
