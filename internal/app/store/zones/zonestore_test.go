package zonestore_test

import (
	"errors"
	"testing"

	zonestore "github.com/dalemusser/cercadeti/internal/app/store/zones"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"github.com/dalemusser/cercadeti/internal/testutil"
)

func TestStore_ListByCity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := zonestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, z := range []models.Zone{
		{Name: "Zona Río", City: "Tijuana"},
		{Name: "Centro", City: "Tijuana"},
		{Name: "Centro Histórico", City: "Ensenada"},
	} {
		if _, err := store.Create(ctx, z); err != nil {
			t.Fatalf("Create %q failed: %v", z.Name, err)
		}
	}

	all, err := store.List(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("List all = %d, %v", len(all), err)
	}
	if all[0].City != "Ensenada" {
		t.Errorf("expected Ensenada first, got %+v", all[0])
	}

	tj, _ := store.List(ctx, "Tijuana")
	if len(tj) != 2 || tj[0].Name != "Centro" {
		t.Errorf("List Tijuana = %+v", tj)
	}

	z, err := store.GetBySlug(ctx, "zona-rio")
	if err != nil || z.Name != "Zona Río" {
		t.Errorf("GetBySlug = %+v, %v", z, err)
	}
	if _, err := store.GetBySlug(ctx, "nope"); !errors.Is(err, zonestore.ErrNotFound) {
		t.Errorf("missing: err = %v", err)
	}
}
