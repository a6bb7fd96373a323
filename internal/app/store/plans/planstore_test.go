package planstore_test

import (
	"testing"

	planstore "github.com/dalemusser/cercadeti/internal/app/store/plans"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"github.com/dalemusser/cercadeti/internal/testutil"
)

func TestStore_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := planstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	premium, err := store.Create(ctx, models.BusinessPlan{Name: "Premium", PriceCents: 49900, SortOrder: 2, Features: []string{"Destacado"}})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if premium.Currency != planstore.DefaultCurrency || premium.Slug != "premium" {
		t.Errorf("unexpected plan: %+v", premium)
	}
	store.Create(ctx, models.BusinessPlan{Name: "Gratis", SortOrder: 1})

	list, err := store.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("List = %d, %v", len(list), err)
	}
	if list[0].Name != "Gratis" || list[1].Name != "Premium" {
		t.Errorf("order = %s, %s", list[0].Name, list[1].Name)
	}

	ok, err := store.Exists(ctx, premium.ID)
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v", ok, err)
	}
}
