package directory_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/cercadeti/internal/app/features/directory"
	"github.com/dalemusser/cercadeti/internal/app/system/authz"
	"github.com/dalemusser/cercadeti/internal/app/system/indexes"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"github.com/dalemusser/cercadeti/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func publicReads() testutil.Permissions {
	var actions []string
	for _, uid := range []string{models.CategoryUID, models.ZoneUID, models.BusinessPlanUID, models.BusinessUID, models.OfferUID, models.AdUID} {
		actions = append(actions, authz.Action(uid, "find"), authz.Action(uid, "findOne"))
	}
	return testutil.AllowPublic(actions...)
}

func newRouter(t *testing.T, perms testutil.Permissions) (chi.Router, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	r := chi.NewRouter()
	directory.Mount(r, directory.NewHandler(db, zap.NewNop()), perms)
	return r, db
}

func get(t *testing.T, r http.Handler, target string) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest("GET", target))
	return rec
}

type listBody[T any] struct {
	Data []T `json:"data"`
	Meta struct {
		Pagination *struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

func TestTaxonomyLists(t *testing.T) {
	r, db := newRouter(t, publicReads())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateCategory(ctx, "Restaurantes")
	fx.CreateCategory(ctx, "Abarrotes")
	fx.CreateZone(ctx, "Centro", "Tijuana")
	fx.CreateZone(ctx, "Centro Histórico", "Ensenada")
	fx.CreatePlan(ctx, "Premium", 49900, 2)
	fx.CreatePlan(ctx, "Gratis", 0, 1)

	rec := get(t, r, "/categories")
	rec.AssertStatus(t, http.StatusOK)
	var cats listBody[models.Category]
	testutil.DecodeJSON(t, rec.ResponseRecorder, &cats)
	if len(cats.Data) != 2 || cats.Data[0].Name != "Abarrotes" {
		t.Errorf("categories = %+v", cats.Data)
	}

	rec = get(t, r, "/zones?city=Tijuana")
	var zones listBody[models.Zone]
	testutil.DecodeJSON(t, rec.ResponseRecorder, &zones)
	if len(zones.Data) != 1 || zones.Data[0].City != "Tijuana" {
		t.Errorf("zones = %+v", zones.Data)
	}

	rec = get(t, r, "/business-plans")
	var plans listBody[models.BusinessPlan]
	testutil.DecodeJSON(t, rec.ResponseRecorder, &plans)
	if len(plans.Data) != 2 || plans.Data[0].Name != "Gratis" {
		t.Errorf("plans = %+v", plans.Data)
	}
}

func TestServeBusinesses_Filters(t *testing.T) {
	r, db := newRouter(t, publicReads())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	food := fx.CreateCategory(ctx, "Comida")
	centro := fx.CreateZone(ctx, "Centro", "Tijuana")
	playas := fx.CreateZone(ctx, "Playas", "Tijuana")
	fx.CreateBusiness(ctx, "Birria Don Chuy", &food.ID, &centro.ID, false)
	fx.CreateBusiness(ctx, "Tacos El Gordo", &food.ID, &centro.ID, true)
	fx.CreateBusiness(ctx, "Mariscos Playas", &food.ID, &playas.ID, false)

	tests := []struct {
		target    string
		wantCount int
		wantFirst string
	}{
		{"/businesses", 3, "Tacos El Gordo"},
		{"/businesses?zone=playas", 1, "Mariscos Playas"},
		{"/businesses?zone=centro&category=comida", 2, "Tacos El Gordo"},
		{"/businesses?q=birria", 1, "Birria Don Chuy"},
		{"/businesses?zone=nowhere", 0, ""},
		{"/businesses?pageSize=1&page=2", 1, "Birria Don Chuy"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, r, tt.target)
			rec.AssertStatus(t, http.StatusOK)
			var body listBody[models.Business]
			testutil.DecodeJSON(t, rec.ResponseRecorder, &body)
			if len(body.Data) != tt.wantCount {
				t.Fatalf("got %d listings, want %d", len(body.Data), tt.wantCount)
			}
			if tt.wantCount > 0 && body.Data[0].Name != tt.wantFirst {
				t.Errorf("first = %q, want %q", body.Data[0].Name, tt.wantFirst)
			}
			if body.Meta.Pagination == nil {
				t.Error("expected pagination block")
			}
		})
	}
}

func TestServeBusiness_WithOffers(t *testing.T) {
	r, db := newRouter(t, publicReads())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	b := fx.CreateBusiness(ctx, "Tacos El Gordo", nil, nil, true)
	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	fx.CreateOffer(ctx, b.ID, nil, "2x1 martes", true, models.Window{})
	fx.CreateOffer(ctx, b.ID, nil, "Vencida", true, models.Window{EndsAt: &yesterday})

	rec := get(t, r, "/businesses/tacos-el-gordo")
	rec.AssertStatus(t, http.StatusOK)
	var body struct {
		Data struct {
			Name   string         `json:"name"`
			Offers []models.Offer `json:"offers"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, rec.ResponseRecorder, &body)
	if body.Data.Name != "Tacos El Gordo" {
		t.Errorf("name = %q", body.Data.Name)
	}
	if len(body.Data.Offers) != 1 || body.Data.Offers[0].Title != "2x1 martes" {
		t.Errorf("offers = %+v", body.Data.Offers)
	}

	get(t, r, "/businesses/nope").AssertStatus(t, http.StatusNotFound)
}

func TestServeOffersAndAds_ByZone(t *testing.T) {
	r, db := newRouter(t, publicReads())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	centro := fx.CreateZone(ctx, "Centro", "Tijuana")
	playas := fx.CreateZone(ctx, "Playas", "Tijuana")
	b := fx.CreateBusiness(ctx, "Tacos", nil, &centro.ID, false)
	fx.CreateOffer(ctx, b.ID, &centro.ID, "Centro deal", true, models.Window{})
	fx.CreateOffer(ctx, b.ID, &playas.ID, "Playas deal", true, models.Window{})
	fx.CreateAd(ctx, "Global", "home", nil, true, models.Window{})
	fx.CreateAd(ctx, "Playas only", "home", &playas.ID, true, models.Window{})

	var offers listBody[models.Offer]
	testutil.DecodeJSON(t, get(t, r, "/offers?zone=centro").ResponseRecorder, &offers)
	if len(offers.Data) != 1 || offers.Data[0].Title != "Centro deal" {
		t.Errorf("offers = %+v", offers.Data)
	}

	var ads listBody[models.Ad]
	testutil.DecodeJSON(t, get(t, r, "/ads?placement=home&zone=centro").ResponseRecorder, &ads)
	if len(ads.Data) != 1 || ads.Data[0].Title != "Global" {
		t.Errorf("ads = %+v", ads.Data)
	}

	var none listBody[models.Offer]
	testutil.DecodeJSON(t, get(t, r, "/offers?zone=unknown").ResponseRecorder, &none)
	if len(none.Data) != 0 {
		t.Errorf("unknown zone returned %d offers", len(none.Data))
	}
}

func TestCreateCategory_AdminOnly(t *testing.T) {
	r, _ := newRouter(t, publicReads())
	payload := map[string]any{"data": map[string]any{"name": "Cafés"}}

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/categories", payload))
	rec.AssertStatus(t, http.StatusUnauthorized)

	post := func(body any) *testutil.ResponseRecorder {
		req := testutil.WithUser(testutil.NewJSONRequest(t, "POST", "/categories", body), testutil.AdminUser())
		rec := testutil.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec = post(payload)
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"slug":"cafes"`)

	post(payload).AssertStatus(t, http.StatusConflict)
	post(map[string]any{"data": map[string]any{"description": "sin nombre"}}).AssertStatus(t, http.StatusBadRequest)
}

func TestCreateZoneAndPlan(t *testing.T) {
	r, _ := newRouter(t, publicReads())
	admin := testutil.AdminUser()

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewJSONRequest(t, "POST", "/zones",
		map[string]any{"data": map[string]any{"name": "Zona Río", "city": "Tijuana"}}), admin))
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"slug":"zona-rio"`)

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewJSONRequest(t, "POST", "/business-plans",
		map[string]any{"data": map[string]any{"name": "Premium", "priceCents": 49900, "features": []string{"Destacado"}}}), admin))
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"currency":"MXN"`)

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewJSONRequest(t, "POST", "/business-plans",
		map[string]any{"data": map[string]any{"name": "Raro", "priceCents": -1}}), admin))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestReads_RespectPermissionTable(t *testing.T) {
	r, _ := newRouter(t, testutil.Permissions{})
	for _, target := range []string{"/categories", "/zones", "/business-plans", "/businesses", "/offers", "/ads"} {
		get(t, r, target).AssertStatus(t, http.StatusForbidden)
	}
}
