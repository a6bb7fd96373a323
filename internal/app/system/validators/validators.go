// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/cercadeti/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	// Inbound submissions
	ensure("pending_businesses", pendingBusinessesSchema())
	ensure("contact_submissions", contactSubmissionsSchema())

	// Directory content
	ensure("categories", taxonomySchema())
	ensure("zones", taxonomySchema())
	ensure("business_plans", plansSchema())
	ensure("businesses", businessesSchema())
	ensure("offers", offersSchema())
	ensure("ads", adsSchema())

	// Access control
	ensure("admins", adminsSchema())
	ensure("permissions", permissionsSchema())
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func enum(values []string) bson.M {
	a := bson.A{}
	for _, v := range values {
		a = append(a, v)
	}
	return bson.M{"enum": a}
}

// pendingBusinessesSchema also encodes the review invariant: reviewed_at and
// reviewed_by are present exactly when status is not pending.
func pendingBusinessesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"document_id", "name", "email", "phone", "address", "status", "submitted_at"},
			"properties": bson.M{
				"document_id":  nonBlank,
				"name":         nonBlank,
				"email":        nonBlank,
				"phone":        nonBlank,
				"address":      nonBlank,
				"status":       enum(models.PendingStatuses),
				"submitted_at": bson.M{"bsonType": "date"},
				"reviewed_at":  bson.M{"bsonType": "date"},
				"reviewed_by":  bson.M{"bsonType": "string"},
			},
			"oneOf": bson.A{
				bson.M{
					"properties": bson.M{"status": bson.M{"enum": bson.A{models.PendingStatusPending}}},
					"not": bson.M{"anyOf": bson.A{
						bson.M{"required": bson.A{"reviewed_at"}},
						bson.M{"required": bson.A{"reviewed_by"}},
					}},
				},
				bson.M{
					"properties": bson.M{"status": bson.M{"enum": bson.A{models.PendingStatusApproved, models.PendingStatusRejected}}},
					"required":   bson.A{"reviewed_at", "reviewed_by"},
				},
			},
		},
	}
}

// contactSubmissionsSchema encodes: replied_at present exactly when status is replied.
func contactSubmissionsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"document_id", "name", "email", "message", "status", "submitted_at"},
			"properties": bson.M{
				"document_id":  nonBlank,
				"name":         nonBlank,
				"email":        nonBlank,
				"message":      nonBlank,
				"status":       enum(models.ContactStatuses),
				"submitted_at": bson.M{"bsonType": "date"},
				"replied_at":   bson.M{"bsonType": "date"},
			},
			"oneOf": bson.A{
				bson.M{
					"properties": bson.M{"status": bson.M{"enum": bson.A{models.ContactStatusReplied}}},
					"required":   bson.A{"replied_at"},
				},
				bson.M{
					"properties": bson.M{"status": bson.M{"enum": bson.A{models.ContactStatusNew, models.ContactStatusRead}}},
					"not":        bson.M{"required": bson.A{"replied_at"}},
				},
			},
		},
	}
}

func taxonomySchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"document_id", "name", "slug"},
			"properties": bson.M{
				"document_id": nonBlank,
				"name":        nonBlank,
				"slug":        nonBlank,
			},
		},
	}
}

func plansSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"document_id", "name", "slug", "price_cents"},
			"properties": bson.M{
				"name":        nonBlank,
				"slug":        nonBlank,
				"price_cents": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"features":    bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			},
		},
	}
}

func businessesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"document_id", "name", "slug", "status"},
			"properties": bson.M{
				"name":     nonBlank,
				"slug":     nonBlank,
				"status":   enum([]string{models.BusinessStatusActive, models.BusinessStatusHidden}),
				"featured": bson.M{"bsonType": "bool"},
			},
		},
	}
}

func offersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"document_id", "business_id", "title", "active"},
			"properties": bson.M{
				"business_id": bson.M{"bsonType": "objectId"},
				"title":       nonBlank,
				"active":      bson.M{"bsonType": "bool"},
				"starts_at":   bson.M{"bsonType": "date"},
				"ends_at":     bson.M{"bsonType": "date"},
			},
		},
	}
}

func adsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"document_id", "title", "image_url", "placement", "active"},
			"properties": bson.M{
				"title":     nonBlank,
				"image_url": nonBlank,
				"placement": nonBlank,
				"active":    bson.M{"bsonType": "bool"},
			},
		},
	}
}

func adminsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "email_ci", "password_hash", "status"},
			"properties": bson.M{
				"email":         nonBlank,
				"email_ci":      nonBlank,
				"password_hash": nonBlank,
				"status":        bson.M{"enum": bson.A{"active", "disabled"}},
			},
		},
	}
}

func permissionsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"role", "action", "enabled"},
			"properties": bson.M{
				"role":    bson.M{"enum": bson.A{models.RolePublic, models.RoleAdmin}},
				"action":  nonBlank,
				"enabled": bson.M{"bsonType": "bool"},
			},
		},
	}
}
