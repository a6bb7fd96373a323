package pendingbusinessstore_test

import (
	"errors"
	"testing"

	pendingbusinessstore "github.com/dalemusser/cercadeti/internal/app/store/pendingbusinesses"
	"github.com/dalemusser/cercadeti/internal/app/system/paging"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"github.com/dalemusser/cercadeti/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_ForcesPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pendingbusinessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	adminID := primitive.NewObjectID()
	p, err := store.Create(ctx, models.PendingBusiness{
		Name:       "Taco Shop",
		Email:      "owner@tacos.mx",
		Phone:      "555-1234",
		Address:    "Av. Juárez 10",
		Status:     models.PendingStatusApproved,
		ReviewedBy: "sneaky",
		BusinessID: &adminID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Status != models.PendingStatusPending {
		t.Errorf("Status = %q, want pending", p.Status)
	}
	if p.ReviewedAt != nil || p.ReviewedBy != "" || p.BusinessID != nil {
		t.Errorf("review fields should be empty: %+v", p)
	}
	if p.DocumentID == "" || p.SubmittedAt.IsZero() {
		t.Error("expected documentId and submitted_at to be set")
	}

	got, err := store.GetByDocumentID(ctx, p.DocumentID)
	if err != nil {
		t.Fatalf("GetByDocumentID failed: %v", err)
	}
	if got.Name != "Taco Shop" || got.Status != models.PendingStatusPending {
		t.Errorf("unexpected stored record: %+v", got)
	}
}

func TestStore_GetByDocumentID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := pendingbusinessstore.New(db).GetByDocumentID(ctx, "missing"); !errors.Is(err, pendingbusinessstore.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_GetPopulated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := pendingbusinessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cat := fx.CreateCategory(ctx, "Restaurantes")
	zone := fx.CreateZone(ctx, "Centro", "Tijuana")
	plan := fx.CreatePlan(ctx, "Básico", 0, 1)
	p := fx.CreatePendingBusiness(ctx, "Taco Shop", &cat.ID, &zone.ID, &plan.ID)

	got, err := store.GetPopulated(ctx, p.DocumentID)
	if err != nil {
		t.Fatalf("GetPopulated failed: %v", err)
	}
	if got.Category == nil || got.Category.Name != "Restaurantes" {
		t.Errorf("category not populated: %+v", got.Category)
	}
	if got.Zone == nil || got.Zone.Slug != "centro" {
		t.Errorf("zone not populated: %+v", got.Zone)
	}
	if got.BusinessPlan == nil || got.BusinessPlan.ID != plan.ID {
		t.Errorf("business_plan not populated: %+v", got.BusinessPlan)
	}
}

func TestStore_GetPopulated_MissingRelations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := pendingbusinessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dangling := primitive.NewObjectID()
	p := fx.CreatePendingBusiness(ctx, "Sin Relaciones", nil, &dangling, nil)

	got, err := store.GetPopulated(ctx, p.DocumentID)
	if err != nil {
		t.Fatalf("GetPopulated failed: %v", err)
	}
	if got.IsPopulated() {
		t.Errorf("expected no relations, got %+v %+v %+v", got.Category, got.Zone, got.BusinessPlan)
	}
	if got.Name != "Sin Relaciones" {
		t.Errorf("Name = %q", got.Name)
	}

	if _, err := store.GetPopulated(ctx, "missing"); !errors.Is(err, pendingbusinessstore.ErrNotFound) {
		t.Errorf("missing: err = %v, want ErrNotFound", err)
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := pendingbusinessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"Uno", "Dos", "Tres"} {
		fx.CreatePendingBusiness(ctx, name, nil, nil, nil)
	}
	rej := fx.CreatePendingBusiness(ctx, "Cuatro", nil, nil, nil)
	if _, err := store.Review(ctx, rej.DocumentID, models.PendingStatusRejected, "admin"); err != nil {
		t.Fatalf("Review failed: %v", err)
	}

	tests := []struct {
		name      string
		filter    pendingbusinessstore.Filter
		page      paging.Page
		wantLen   int
		wantTotal int64
	}{
		{"all", pendingbusinessstore.Filter{}, paging.Default(), 4, 4},
		{"pending only", pendingbusinessstore.Filter{Status: models.PendingStatusPending}, paging.Default(), 3, 3},
		{"query", pendingbusinessstore.Filter{Query: "tre"}, paging.Default(), 1, 1},
		{"paged", pendingbusinessstore.Filter{}, paging.Page{Page: 2, PageSize: 3}, 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := store.List(ctx, tt.filter, tt.page)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(items) != tt.wantLen || total != tt.wantTotal {
				t.Errorf("got len=%d total=%d, want len=%d total=%d", len(items), total, tt.wantLen, tt.wantTotal)
			}
		})
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := pendingbusinessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreatePendingBusiness(ctx, "Original", nil, nil, nil)
	name := "Renombrado"
	got, err := store.Update(ctx, p.DocumentID, pendingbusinessstore.Patch{Name: &name})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Name != name || got.Phone != p.Phone {
		t.Errorf("unexpected update result: %+v", got)
	}

	if _, err := store.Update(ctx, "missing", pendingbusinessstore.Patch{Name: &name}); !errors.Is(err, pendingbusinessstore.ErrNotFound) {
		t.Errorf("missing: err = %v, want ErrNotFound", err)
	}
}

func TestStore_Update_ClearsRelations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := pendingbusinessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cat := fx.CreateCategory(ctx, "Panaderías")
	zone := fx.CreateZone(ctx, "Centro", "Guadalajara")
	p := fx.CreatePendingBusiness(ctx, "Con relaciones", &cat.ID, &zone.ID, nil)

	got, err := store.Update(ctx, p.DocumentID, pendingbusinessstore.Patch{ClearCategory: true})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.CategoryID != nil {
		t.Errorf("category should be cleared, got %v", got.CategoryID)
	}
	if got.ZoneID == nil || *got.ZoneID != zone.ID {
		t.Errorf("zone should be untouched, got %v", got.ZoneID)
	}

	// Clear wins over an ID sent alongside it.
	got, err = store.Update(ctx, p.DocumentID, pendingbusinessstore.Patch{ZoneID: &zone.ID, ClearZone: true})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.ZoneID != nil {
		t.Errorf("zone should be cleared, got %v", got.ZoneID)
	}
}

func TestStore_SetStatus_ReviewInvariant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := pendingbusinessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreatePendingBusiness(ctx, "Estado", nil, nil, nil)

	before, after, err := store.SetStatus(ctx, p.DocumentID, models.PendingStatusApproved, "admin@cercadeti.mx")
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if before.Status != models.PendingStatusPending || after.Status != models.PendingStatusApproved {
		t.Errorf("before=%q after=%q", before.Status, after.Status)
	}
	stored, _ := store.GetByDocumentID(ctx, p.DocumentID)
	if stored.ReviewedAt == nil || stored.ReviewedBy != "admin@cercadeti.mx" {
		t.Errorf("approved record missing review fields: %+v", stored)
	}

	if _, _, err := store.SetStatus(ctx, p.DocumentID, models.PendingStatusPending, "admin@cercadeti.mx"); err != nil {
		t.Fatalf("SetStatus back to pending failed: %v", err)
	}
	stored, _ = store.GetByDocumentID(ctx, p.DocumentID)
	if stored.ReviewedAt != nil || stored.ReviewedBy != "" {
		t.Errorf("pending record should have no review fields: %+v", stored)
	}

	if _, _, err := store.SetStatus(ctx, p.DocumentID, "archived", "x"); !errors.Is(err, pendingbusinessstore.ErrInvalidStatus) {
		t.Errorf("invalid status: err = %v", err)
	}
	if _, _, err := store.SetStatus(ctx, "missing", models.PendingStatusRejected, "x"); !errors.Is(err, pendingbusinessstore.ErrNotFound) {
		t.Errorf("missing: err = %v", err)
	}
}

func TestStore_Review_OnlyFromPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := pendingbusinessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreatePendingBusiness(ctx, "Revisar", nil, nil, nil)

	got, err := store.Review(ctx, p.DocumentID, models.PendingStatusApproved, "admin")
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if got.Status != models.PendingStatusApproved || got.ReviewedAt == nil {
		t.Errorf("unexpected review result: %+v", got)
	}

	current, err := store.Review(ctx, p.DocumentID, models.PendingStatusRejected, "admin")
	if !errors.Is(err, pendingbusinessstore.ErrNotPending) {
		t.Fatalf("second review: err = %v, want ErrNotPending", err)
	}
	if current.Status != models.PendingStatusApproved {
		t.Errorf("current status = %q, want approved", current.Status)
	}

	if _, err := store.Review(ctx, "missing", models.PendingStatusApproved, "admin"); !errors.Is(err, pendingbusinessstore.ErrNotFound) {
		t.Errorf("missing: err = %v, want ErrNotFound", err)
	}
}

func TestStore_LinkBusinessAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := pendingbusinessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreatePendingBusiness(ctx, "Enlazar", nil, nil, nil)
	bizID := primitive.NewObjectID()
	if err := store.LinkBusiness(ctx, p.DocumentID, bizID); err != nil {
		t.Fatalf("LinkBusiness failed: %v", err)
	}
	got, _ := store.GetByDocumentID(ctx, p.DocumentID)
	if got.BusinessID == nil || *got.BusinessID != bizID {
		t.Errorf("BusinessID = %v, want %v", got.BusinessID, bizID)
	}

	n, err := store.Delete(ctx, p.DocumentID)
	if err != nil || n != 1 {
		t.Fatalf("Delete = %d, %v", n, err)
	}
	if err := store.LinkBusiness(ctx, p.DocumentID, bizID); !errors.Is(err, pendingbusinessstore.ErrNotFound) {
		t.Errorf("after delete: err = %v, want ErrNotFound", err)
	}
}

func TestStore_CountByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := pendingbusinessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreatePendingBusiness(ctx, "A", nil, nil, nil)
	b := fx.CreatePendingBusiness(ctx, "B", nil, nil, nil)
	store.Review(ctx, b.DocumentID, models.PendingStatusApproved, "admin")

	counts, err := store.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus failed: %v", err)
	}
	if counts[models.PendingStatusPending] != 1 || counts[models.PendingStatusApproved] != 1 || counts[models.PendingStatusRejected] != 0 {
		t.Errorf("counts = %v", counts)
	}
}

func TestStore_ListUnpromoted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pendingbusinessstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreatePendingBusiness(ctx, "Still Pending", nil, nil, nil)
	linked := fx.CreatePendingBusiness(ctx, "Linked", nil, nil, nil)
	orphan := fx.CreatePendingBusiness(ctx, "Orphan", nil, nil, nil)
	for _, p := range []models.PendingBusiness{linked, orphan} {
		if _, err := store.Review(ctx, p.DocumentID, models.PendingStatusApproved, "admin@cercadeti.mx"); err != nil {
			t.Fatalf("Review failed: %v", err)
		}
	}
	if err := store.LinkBusiness(ctx, linked.DocumentID, primitive.NewObjectID()); err != nil {
		t.Fatalf("LinkBusiness failed: %v", err)
	}

	got, err := store.ListUnpromoted(ctx, 10)
	if err != nil {
		t.Fatalf("ListUnpromoted failed: %v", err)
	}
	if len(got) != 1 || got[0].DocumentID != orphan.DocumentID {
		t.Errorf("ListUnpromoted = %+v, want only %q", got, orphan.DocumentID)
	}
}
