// internal/app/store/contactsubmissions/contactstore.go
package contactstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/cercadeti/internal/app/system/docid"
	"github.com/dalemusser/cercadeti/internal/app/system/paging"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("contact submission not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contact_submissions")}
}

// byID matches either the ObjectID hex or the documentId.
func byID(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"document_id": id}
}

// Create stamps submitted_at and status=new, then persists the submission.
func (s *Store) Create(ctx context.Context, c models.ContactSubmission) (models.ContactSubmission, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.DocumentID = docid.New()
	c.Status = models.ContactStatusNew
	c.SubmittedAt = now
	c.RepliedAt = nil
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.ContactSubmission{}, err
	}
	return c, nil
}

// Get loads a submission by ObjectID hex or documentId.
func (s *Store) Get(ctx context.Context, id string) (models.ContactSubmission, error) {
	var c models.ContactSubmission
	err := s.c.FindOne(ctx, byID(id)).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ContactSubmission{}, ErrNotFound
	}
	if err != nil {
		return models.ContactSubmission{}, err
	}
	return c, nil
}

// MarkAsRead sets status=read whatever the current status is and clears
// replied_at. It returns the record before and after the change.
func (s *Store) MarkAsRead(ctx context.Context, id string) (before, after models.ContactSubmission, err error) {
	now := time.Now().UTC()
	err = s.c.FindOneAndUpdate(ctx,
		byID(id),
		bson.M{
			"$set":   bson.M{"status": models.ContactStatusRead, "updated_at": now},
			"$unset": bson.M{"replied_at": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return before, after, ErrNotFound
	}
	if err != nil {
		return before, after, err
	}

	after = before
	after.Status = models.ContactStatusRead
	after.RepliedAt = nil
	after.UpdatedAt = now
	return before, after, nil
}

// MarkAsReplied sets status=replied and replied_at=now.
func (s *Store) MarkAsReplied(ctx context.Context, id string) (models.ContactSubmission, error) {
	now := time.Now().UTC()
	var out models.ContactSubmission
	err := s.c.FindOneAndUpdate(ctx,
		byID(id),
		bson.M{"$set": bson.M{
			"status":     models.ContactStatusReplied,
			"replied_at": now,
			"updated_at": now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ContactSubmission{}, ErrNotFound
	}
	if err != nil {
		return models.ContactSubmission{}, err
	}
	return out, nil
}

// List returns one page of submissions, newest first. status may be empty.
func (s *Store) List(ctx context.Context, status string, pg paging.Page) ([]models.ContactSubmission, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.c.Find(ctx, filter, pg.FindOptions(bson.D{{Key: "submitted_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := []models.ContactSubmission{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
