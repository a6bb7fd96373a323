package pendingbusinesses_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/cercadeti/internal/app/features/pendingbusinesses"
	businessstore "github.com/dalemusser/cercadeti/internal/app/store/businesses"
	pendingbusinessstore "github.com/dalemusser/cercadeti/internal/app/store/pendingbusinesses"
	"github.com/dalemusser/cercadeti/internal/app/system/authz"
	"github.com/dalemusser/cercadeti/internal/app/system/indexes"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"github.com/dalemusser/cercadeti/internal/testutil"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*pendingbusinesses.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return pendingbusinesses.NewHandler(db, storage.NewMemory(storage.MemoryConfig{}), nil, zap.NewNop()), db
}

// pngLogo is the PNG signature plus enough bytes for content sniffing.
var pngLogo = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func tacoShopData() map[string]any {
	return map[string]any{"name": "Taco Shop", "email": "a@b.com", "phone": "555-0100", "address": "Main St 1"}
}

// newMultipartRequest builds a registration form with the JSON payload in a
// "data" field and an optional file under "files.logo". A nil data map
// leaves the field out.
func newMultipartRequest(t *testing.T, data map[string]any, filename string, logo []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			t.Fatalf("marshal data: %v", err)
		}
		if err := mw.WriteField("data", string(raw)); err != nil {
			t.Fatalf("write data field: %v", err)
		}
	}
	if logo != nil {
		fw, err := mw.CreateFormFile("files.logo", filename)
		if err != nil {
			t.Fatalf("create logo part: %v", err)
		}
		if _, err := fw.Write(logo); err != nil {
			t.Fatalf("write logo: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest("POST", "/api/pending-businesses", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func storedLogos(t *testing.T, store storage.Store) []string {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	res, err := store.List(ctx, "logos/", nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var paths []string
	for _, obj := range res.Objects {
		paths = append(paths, obj.Path)
	}
	return paths
}

type dataBody struct {
	Data models.PendingBusiness `json:"data"`
}

func adminPost(t *testing.T, fn http.HandlerFunc, documentID string) *testutil.ResponseRecorder {
	t.Helper()
	req := testutil.NewAuthenticatedRequest("POST", "/api/pending-businesses/"+documentID, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "documentId", documentID)
	rec := testutil.NewRecorder()
	fn(rec, req)
	return rec
}

func TestHandleCreate_TacoShop(t *testing.T) {
	h, db := newTestHandler(t)

	before := time.Now().UTC()
	req := testutil.NewJSONRequest(t, "POST", "/api/pending-businesses", map[string]any{
		"data": map[string]any{
			"name":       "Taco Shop",
			"email":      "a@b.com",
			"phone":      "555-0100",
			"address":    "Main St 1",
			"status":     "approved",
			"reviewedBy": "someone",
		},
	})
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	var raw map[string]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"reviewedAt", "reviewedBy"} {
		if _, ok := raw["data"][key]; ok {
			t.Errorf("response should not carry %s", key)
		}
	}

	var body dataBody
	testutil.DecodeJSON(t, rec.ResponseRecorder, &body)
	if body.Data.Status != models.PendingStatusPending {
		t.Errorf("status: got %q, want pending", body.Data.Status)
	}
	if body.Data.SubmittedAt.Before(before.Add(-time.Second)) {
		t.Errorf("submittedAt not set: %v", body.Data.SubmittedAt)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	stored, err := pendingbusinessstore.New(db).GetByDocumentID(ctx, body.Data.DocumentID)
	if err != nil {
		t.Fatalf("GetByDocumentID failed: %v", err)
	}
	if stored.Status != models.PendingStatusPending || stored.ReviewedAt != nil || stored.ReviewedBy != "" {
		t.Errorf("stored record has review fields: %+v", stored)
	}
}

func TestHandleCreate_Validation(t *testing.T) {
	h, _ := newTestHandler(t)
	valid := func() map[string]any {
		return map[string]any{"name": "Taco Shop", "email": "a@b.com", "phone": "555-0100", "address": "Main St 1"}
	}

	tests := []struct {
		name     string
		mutate   func(map[string]any)
		wantPath string
	}{
		{"missing phone", func(d map[string]any) { delete(d, "phone") }, "phone"},
		{"bad email", func(d map[string]any) { d["email"] = "not-an-email" }, "email"},
		{"malformed category id", func(d map[string]any) { d["category"] = "xyz" }, "category"},
		{"unknown zone", func(d map[string]any) { d["zone"] = primitive.NewObjectID().Hex() }, "zone"},
		{"unknown plan", func(d map[string]any) { d["businessPlan"] = primitive.NewObjectID().Hex() }, "businessPlan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := valid()
			tt.mutate(data)
			rec := testutil.NewRecorder()
			h.HandleCreate(rec, testutil.NewJSONRequest(t, "POST", "/api/pending-businesses", map[string]any{"data": data}))
			rec.AssertStatus(t, http.StatusBadRequest)

			var eb testutil.ErrorBody
			testutil.DecodeJSON(t, rec.ResponseRecorder, &eb)
			found := false
			for _, d := range eb.Error.Details.Errors {
				if len(d.Path) > 0 && d.Path[0] == tt.wantPath {
					found = true
				}
			}
			if !found {
				t.Errorf("expected detail for %q, got %+v", tt.wantPath, eb.Error.Details.Errors)
			}
		})
	}
}

func TestHandleCreate_WithRelations(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	cat := fx.CreateCategory(ctx, "Restaurantes")
	zone := fx.CreateZone(ctx, "Centro", "Tijuana")
	plan := fx.CreatePlan(ctx, "Básico", 0, 1)

	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.NewJSONRequest(t, "POST", "/api/pending-businesses", map[string]any{
		"data": map[string]any{
			"name": "Taco Shop", "email": "a@b.com", "phone": "555-0100", "address": "Main St 1",
			"category": cat.ID.Hex(), "zone": zone.ID.Hex(), "businessPlan": plan.ID.Hex(),
		},
	}))
	rec.AssertStatus(t, http.StatusCreated)

	var body dataBody
	testutil.DecodeJSON(t, rec.ResponseRecorder, &body)
	stored, err := pendingbusinessstore.New(db).GetPopulated(ctx, body.Data.DocumentID)
	if err != nil {
		t.Fatalf("GetPopulated failed: %v", err)
	}
	if stored.Category == nil || stored.Category.Name != "Restaurantes" {
		t.Errorf("category not linked: %+v", stored.Category)
	}
	if stored.Zone == nil || stored.BusinessPlan == nil {
		t.Errorf("zone/plan not linked: %+v %+v", stored.Zone, stored.BusinessPlan)
	}
}

func TestHandleCreate_WithLogo(t *testing.T) {
	h, db := newTestHandler(t)
	dir := t.TempDir()
	local, err := storage.NewLocal(storage.LocalConfig{BasePath: dir, BaseURL: "/uploads"})
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}
	h.Storage = local

	rec := testutil.NewRecorder()
	h.HandleCreate(rec, newMultipartRequest(t, tacoShopData(), "logo.txt", pngLogo))
	rec.AssertStatus(t, http.StatusCreated)

	var body dataBody
	testutil.DecodeJSON(t, rec.ResponseRecorder, &body)
	logo := body.Data.LogoURL
	if !strings.HasPrefix(logo, "logos/") || !strings.HasSuffix(logo, ".png") {
		t.Fatalf("logo path: got %q, want logos/YYYY/MM/<id>.png", logo)
	}
	got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(logo)))
	if err != nil {
		t.Fatalf("logo not written: %v", err)
	}
	if !bytes.Equal(got, pngLogo) {
		t.Error("stored logo does not match upload")
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	rec = adminPost(t, h.HandleApprove, body.Data.DocumentID)
	rec.AssertStatus(t, http.StatusOK)
	biz, err := businessstore.New(db).GetBySlug(ctx, "taco-shop")
	if err != nil {
		t.Fatalf("business listing not created: %v", err)
	}
	if biz.LogoURL != logo {
		t.Errorf("listing logo: got %q, want %q", biz.LogoURL, logo)
	}
}

func TestHandleCreate_LogoRejected(t *testing.T) {
	tests := []struct {
		name     string
		data     map[string]any
		logo     []byte
		want     int
		wantPath string
	}{
		{"not an image", tacoShopData(), []byte("just some text, not a picture"), http.StatusBadRequest, "logo"},
		{"empty file", tacoShopData(), []byte{}, http.StatusBadRequest, "logo"},
		{"too large", tacoShopData(), append(append([]byte{}, pngLogo...), make([]byte, pendingbusinesses.MaxLogoBytes)...), http.StatusRequestEntityTooLarge, ""},
		{"missing data field", nil, pngLogo, http.StatusBadRequest, ""},
		{"invalid data field", map[string]any{"name": []int{1}}, pngLogo, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemory(storage.MemoryConfig{})
			h := pendingbusinesses.NewHandler(testutil.DisconnectedDB(t), store, nil, zap.NewNop())

			rec := testutil.NewRecorder()
			h.HandleCreate(rec, newMultipartRequest(t, tt.data, "logo.png", tt.logo))
			rec.AssertStatus(t, tt.want)

			if tt.wantPath != "" {
				var eb testutil.ErrorBody
				testutil.DecodeJSON(t, rec.ResponseRecorder, &eb)
				found := false
				for _, d := range eb.Error.Details.Errors {
					if len(d.Path) > 0 && d.Path[0] == tt.wantPath {
						found = true
					}
				}
				if !found {
					t.Errorf("expected detail for %q, got %+v", tt.wantPath, eb.Error.Details.Errors)
				}
			}
			if paths := storedLogos(t, store); len(paths) != 0 {
				t.Errorf("rejected upload was stored: %v", paths)
			}
		})
	}
}

func TestHandleCreate_StoreFailure(t *testing.T) {
	store := storage.NewMemory(storage.MemoryConfig{})
	h := pendingbusinesses.NewHandler(testutil.DisconnectedDB(t), store, nil, zap.NewNop())

	tests := []struct {
		name string
		req  func(t *testing.T) *http.Request
	}{
		{"json", func(t *testing.T) *http.Request {
			return testutil.NewJSONRequest(t, "POST", "/api/pending-businesses", map[string]any{"data": tacoShopData()})
		}},
		{"multipart with logo", func(t *testing.T) *http.Request {
			return newMultipartRequest(t, tacoShopData(), "logo.png", pngLogo)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleCreate(rec, tt.req(t))
			rec.AssertStatus(t, http.StatusInternalServerError)

			var eb testutil.ErrorBody
			testutil.DecodeJSON(t, rec.ResponseRecorder, &eb)
			if eb.Error.Name != "ApplicationError" {
				t.Errorf("error name: got %q, want ApplicationError", eb.Error.Name)
			}
			if eb.Error.Message != mongo.ErrClientDisconnected.Error() {
				t.Errorf("error message: got %q, want the driver's %q", eb.Error.Message, mongo.ErrClientDisconnected.Error())
			}
			if eb.Data != nil {
				t.Errorf("data should be null, got %v", eb.Data)
			}
			if paths := storedLogos(t, store); len(paths) != 0 {
				t.Errorf("logo of an unsaved submission was kept: %v", paths)
			}
		})
	}
}

func TestHandleUpdate_EmptyStringClearsRelation(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	cat := fx.CreateCategory(ctx, "Panaderías")
	zone := fx.CreateZone(ctx, "Centro", "Guadalajara")
	p := fx.CreatePendingBusiness(ctx, "Panadería Luna", &cat.ID, &zone.ID, nil)

	put := func(data map[string]any) models.PendingBusiness {
		t.Helper()
		req := testutil.NewJSONRequest(t, "PUT", "/api/pending-businesses/"+p.DocumentID, map[string]any{"data": data})
		req = testutil.WithUser(req, testutil.AdminUser())
		req = testutil.WithChiURLParam(req, "documentId", p.DocumentID)
		rec := testutil.NewRecorder()
		h.HandleUpdate(rec, req)
		rec.AssertStatus(t, http.StatusOK)
		var body dataBody
		testutil.DecodeJSON(t, rec.ResponseRecorder, &body)
		return body.Data
	}

	put(map[string]any{"phone": "555-0111"})
	stored, err := pendingbusinessstore.New(db).GetByDocumentID(ctx, p.DocumentID)
	if err != nil {
		t.Fatalf("GetByDocumentID failed: %v", err)
	}
	if stored.CategoryID == nil || stored.ZoneID == nil {
		t.Fatalf("omitted fields must stay linked: %+v", stored)
	}

	put(map[string]any{"category": ""})
	stored, err = pendingbusinessstore.New(db).GetByDocumentID(ctx, p.DocumentID)
	if err != nil {
		t.Fatalf("GetByDocumentID failed: %v", err)
	}
	if stored.CategoryID != nil {
		t.Errorf("category should be cleared, got %v", stored.CategoryID)
	}
	if stored.ZoneID == nil || *stored.ZoneID != zone.ID {
		t.Errorf("zone should be untouched, got %v", stored.ZoneID)
	}
}

func TestHandleUpdate_StatusKeepsReviewFieldsConsistent(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := fx.CreatePendingBusiness(ctx, "Taco Shop", nil, nil, nil)

	put := func(data map[string]any) (*testutil.ResponseRecorder, models.PendingBusiness) {
		t.Helper()
		req := testutil.NewJSONRequest(t, "PUT", "/api/pending-businesses/"+p.DocumentID, map[string]any{"data": data})
		req = testutil.WithUser(req, testutil.AdminUser())
		req = testutil.WithChiURLParam(req, "documentId", p.DocumentID)
		rec := testutil.NewRecorder()
		h.HandleUpdate(rec, req)
		var body dataBody
		if rec.Code == http.StatusOK {
			testutil.DecodeJSON(t, rec.ResponseRecorder, &body)
		}
		return rec, body.Data
	}

	rec, got := put(map[string]any{"status": "rejected", "phone": "555-0199"})
	rec.AssertStatus(t, http.StatusOK)
	if got.Status != models.PendingStatusRejected || got.ReviewedAt == nil || got.ReviewedBy != "admin@test.com" {
		t.Errorf("after reject: %+v", got)
	}
	if got.Phone != "555-0199" {
		t.Errorf("phone not updated: %q", got.Phone)
	}

	rec, got = put(map[string]any{"status": "pending"})
	rec.AssertStatus(t, http.StatusOK)
	if got.Status != models.PendingStatusPending || got.ReviewedAt != nil || got.ReviewedBy != "" {
		t.Errorf("after return to pending: %+v", got)
	}

	rec, _ = put(map[string]any{"name": "  "})
	rec.AssertStatus(t, http.StatusBadRequest)

	rec, _ = put(map[string]any{"status": "archived"})
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleApprove_PromotesOnce(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	cat := fx.CreateCategory(ctx, "Restaurantes")
	p := fx.CreatePendingBusiness(ctx, "Taco Shop", &cat.ID, nil, nil)

	rec := adminPost(t, h.HandleApprove, p.DocumentID)
	rec.AssertStatus(t, http.StatusOK)

	var body dataBody
	testutil.DecodeJSON(t, rec.ResponseRecorder, &body)
	if body.Data.Status != models.PendingStatusApproved || body.Data.ReviewedAt == nil {
		t.Errorf("unexpected approved record: %+v", body.Data)
	}
	if body.Data.BusinessID == nil {
		t.Fatal("expected businessId after approval")
	}

	biz, err := businessstore.New(db).GetBySlug(ctx, "taco-shop")
	if err != nil {
		t.Fatalf("business listing not created: %v", err)
	}
	if biz.ID != *body.Data.BusinessID || biz.CategoryID == nil || *biz.CategoryID != cat.ID {
		t.Errorf("listing does not match submission: %+v", biz)
	}

	adminPost(t, h.HandleApprove, p.DocumentID).AssertStatus(t, http.StatusConflict)
	adminPost(t, h.HandleReject, p.DocumentID).AssertStatus(t, http.StatusConflict)
}

func TestHandleApprove_RetriesMissingPromotion(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := fx.CreatePendingBusiness(ctx, "Panadería Luna", nil, nil, nil)
	if _, _, err := pendingbusinessstore.New(db).SetStatus(ctx, p.DocumentID, models.PendingStatusApproved, "ops"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	rec := adminPost(t, h.HandleApprove, p.DocumentID)
	rec.AssertStatus(t, http.StatusOK)
	var body dataBody
	testutil.DecodeJSON(t, rec.ResponseRecorder, &body)
	if body.Data.BusinessID == nil {
		t.Error("expected promotion on retry")
	}
}

func TestHandleReject(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := fx.CreatePendingBusiness(ctx, "Taco Shop", nil, nil, nil)

	rec := adminPost(t, h.HandleReject, p.DocumentID)
	rec.AssertStatus(t, http.StatusOK)
	var body dataBody
	testutil.DecodeJSON(t, rec.ResponseRecorder, &body)
	if body.Data.Status != models.PendingStatusRejected || body.Data.ReviewedBy != "admin@test.com" {
		t.Errorf("unexpected rejected record: %+v", body.Data)
	}
	if body.Data.BusinessID != nil {
		t.Error("rejected submission must not be promoted")
	}

	adminPost(t, h.HandleApprove, p.DocumentID).AssertStatus(t, http.StatusConflict)
	adminPost(t, h.HandleApprove, "missing-doc").AssertStatus(t, http.StatusNotFound)
}

func TestHandleDelete(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := fx.CreatePendingBusiness(ctx, "Taco Shop", nil, nil, nil)

	del := func() *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest("DELETE", "/api/pending-businesses/"+p.DocumentID, testutil.AdminUser())
		req = testutil.WithChiURLParam(req, "documentId", p.DocumentID)
		rec := testutil.NewRecorder()
		h.HandleDelete(rec, req)
		return rec
	}
	del().AssertStatus(t, http.StatusOK)
	del().AssertStatus(t, http.StatusNotFound)
}

func TestRoutes_PermissionTable(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := fx.CreatePendingBusiness(ctx, "Taco Shop", nil, nil, nil)

	perms := testutil.AllowPublic(authz.Action(models.PendingBusinessUID, "create"))
	router := pendingbusinesses.Routes(h, perms, nil)

	tests := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"public create", testutil.NewJSONRequest(t, "POST", "/", map[string]any{"data": map[string]any{
			"name": "Taco Shop", "email": "a@b.com", "phone": "555-0100", "address": "Main St 1"}}), http.StatusCreated},
		{"public list denied", testutil.NewRequest("GET", "/"), http.StatusForbidden},
		{"public update denied", testutil.NewJSONRequest(t, "PUT", "/"+p.DocumentID, map[string]any{"data": map[string]any{"status": "approved"}}), http.StatusForbidden},
		{"public delete denied", testutil.NewRequest("DELETE", "/"+p.DocumentID), http.StatusForbidden},
		{"anonymous approve", testutil.NewRequest("POST", "/"+p.DocumentID+"/approve"), http.StatusUnauthorized},
		{"admin list", testutil.NewAuthenticatedRequest("GET", "/", testutil.AdminUser()), http.StatusOK},
		{"admin get", testutil.NewAuthenticatedRequest("GET", "/"+p.DocumentID, testutil.AdminUser()), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			router.ServeHTTP(rec, tt.req)
			rec.AssertStatus(t, tt.want)
		})
	}
}
