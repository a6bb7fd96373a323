package indexes_test

import (
	"testing"

	"github.com/dalemusser/cercadeti/internal/app/system/indexes"
	"github.com/dalemusser/cercadeti/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			t.Fatalf("decode index: %v", err)
		}
		names[idx["name"].(string)] = true
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	tests := []struct {
		coll  string
		names []string
	}{
		{"pending_businesses", []string{"uniq_pending_businesses_document_id", "idx_pending_status_submitted"}},
		{"contact_submissions", []string{"uniq_contact_submissions_document_id", "idx_contact_status_submitted"}},
		{"categories", []string{"uniq_categories_document_id", "uniq_categories_slug"}},
		{"zones", []string{"uniq_zones_slug"}},
		{"business_plans", []string{"uniq_business_plans_slug"}},
		{"businesses", []string{"uniq_businesses_slug", "uniq_businesses_source_pending"}},
		{"offers", []string{"uniq_offers_document_id", "idx_offers_active_zone_starts"}},
		{"ads", []string{"idx_ads_active_placement_zone"}},
		{"admins", []string{"uniq_admins_emailci"}},
		{"permissions", []string{"uniq_permissions_role_action"}},
	}
	for _, tt := range tests {
		t.Run(tt.coll, func(t *testing.T) {
			got := indexNames(t, db, tt.coll)
			for _, name := range tt.names {
				if !got[name] {
					t.Errorf("expected index %q on %s", name, tt.coll)
				}
			}
		})
	}
}

func TestEnsureAll_UniqueIndexEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := db.Collection("categories").InsertOne(ctx, bson.M{"slug": "restaurantes", "document_id": "a"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := db.Collection("categories").InsertOne(ctx, bson.M{"slug": "restaurantes", "document_id": "b"}); err == nil {
		t.Error("expected duplicate key error for unique index on categories.slug")
	}
}

func TestEnsureAll_SparseSourcePending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Listings created by hand have no source_pending_id; many may coexist.
	for i, sl := range []string{"uno", "dos"} {
		if _, err := db.Collection("businesses").InsertOne(ctx, bson.M{"slug": sl, "document_id": sl}); err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
	}
}
