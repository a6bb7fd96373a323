// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Content collections that carry a document_id.
var contentCollections = []string{
	"pending_businesses",
	"contact_submissions",
	"categories",
	"zones",
	"business_plans",
	"businesses",
	"offers",
	"ads",
}

/*
EnsureAll is called at startup. Each collection's set is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	sets := collectionSets()
	names := append(append([]string{}, contentCollections...), "admins", "permissions")
	for _, name := range names {
		set := sets[name]
		if isContent(name) {
			set = append([]mongo.IndexModel{documentIDIndex(name)}, set...)
		}
		if err := ensureIndexSet(ctx, db.Collection(name), set); err != nil {
			problems = append(problems, name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func documentIDIndex(coll string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "document_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_" + coll + "_document_id"),
	}
}

func isContent(name string) bool {
	for _, n := range contentCollections {
		if n == name {
			return true
		}
	}
	return false
}

func collectionSets() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		"pending_businesses": {
			// Review queue: filter by status, newest first.
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "submitted_at", Value: -1}},
				Options: options.Index().SetName("idx_pending_status_submitted"),
			},
			{
				Keys:    bson.D{{Key: "submitted_at", Value: -1}, {Key: "_id", Value: -1}},
				Options: options.Index().SetName("idx_pending_submitted__id"),
			},
		},
		"contact_submissions": {
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "submitted_at", Value: -1}},
				Options: options.Index().SetName("idx_contact_status_submitted"),
			},
			{
				Keys:    bson.D{{Key: "submitted_at", Value: -1}, {Key: "_id", Value: -1}},
				Options: options.Index().SetName("idx_contact_submitted__id"),
			},
		},
		"categories": {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_categories_slug"),
			},
			{
				Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_categories_nameci__id"),
			},
		},
		"zones": {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_zones_slug"),
			},
			{
				Keys:    bson.D{{Key: "city", Value: 1}, {Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_zones_city_nameci__id"),
			},
		},
		"business_plans": {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_business_plans_slug"),
			},
		},
		"businesses": {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_businesses_slug"),
			},
			// One live listing per approved submission.
			{
				Keys:    bson.D{{Key: "source_pending_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_businesses_source_pending"),
			},
			// Directory listing: status + zone/category filters, featured first, then name.
			{
				Keys: bson.D{
					{Key: "status", Value: 1},
					{Key: "zone_id", Value: 1},
					{Key: "category_id", Value: 1},
					{Key: "featured", Value: -1},
					{Key: "name_ci", Value: 1},
				},
				Options: options.Index().SetName("idx_businesses_status_zone_cat_featured_nameci"),
			},
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "featured", Value: -1}, {Key: "name_ci", Value: 1}},
				Options: options.Index().SetName("idx_businesses_status_featured_nameci"),
			},
		},
		"offers": {
			{
				Keys:    bson.D{{Key: "active", Value: 1}, {Key: "zone_id", Value: 1}, {Key: "starts_at", Value: -1}},
				Options: options.Index().SetName("idx_offers_active_zone_starts"),
			},
			{
				Keys:    bson.D{{Key: "business_id", Value: 1}},
				Options: options.Index().SetName("idx_offers_business"),
			},
		},
		"ads": {
			{
				Keys:    bson.D{{Key: "active", Value: 1}, {Key: "placement", Value: 1}, {Key: "zone_id", Value: 1}},
				Options: options.Index().SetName("idx_ads_active_placement_zone"),
			},
		},
		"admins": {
			{
				Keys:    bson.D{{Key: "email_ci", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_admins_emailci"),
			},
		},
		"permissions": {
			{
				Keys:    bson.D{{Key: "role", Value: 1}, {Key: "action", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_permissions_role_action"),
			},
		},
	}
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
	Sparse *bool  `bson:"sparse,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(b *bool) bool { return b != nil && *b }

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		// Collection may not exist yet; everything gets created.
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	existing := listExisting(ctx, coll)

	for _, m := range models {
		var name string
		var unique, sparse bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = boolVal(m.Options.Unique)
			sparse = boolVal(m.Options.Sparse)
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique),
		}

		ex, found := existing[sig]
		switch {
		case found && boolVal(ex.Unique) == unique && boolVal(ex.Sparse) == sparse && (name == "" || ex.Name == name):
			zap.L().Debug("reusing existing index", fields...)
			continue
		case found:
			// Options or name differ: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				zap.L().Warn("drop existing index failed", append(fields, zap.Error(err))...)
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && unique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			zap.L().Warn("index ensure failed", append(fields, zap.Error(err))...)
			continue
		}
		zap.L().Info("index ensured", append(fields, zap.Duration("took", time.Since(start)))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
