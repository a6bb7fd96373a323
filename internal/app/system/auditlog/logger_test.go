package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/cercadeti/internal/app/store/audit"
	"github.com/dalemusser/cercadeti/internal/app/system/auditlog"
	"github.com/dalemusser/cercadeti/internal/app/system/auth"
	"github.com/dalemusser/cercadeti/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pendingUID = "api::pending-business.pending-business"

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), "admin@cercadeti.mx")
	logger.Logout(ctx, req)
	logger.PendingReviewed(ctx, req, pendingUID, "doc", "pending", "approved")
}

func TestLogger_Modes(t *testing.T) {
	tests := []struct {
		mode string
		want int
	}{
		{auditlog.ModeOff, 0},
		{auditlog.ModeLog, 0},
		{auditlog.ModeDB, 1},
		{auditlog.ModeAll, 1},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			store := audit.New(db)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			logger := auditlog.New(store, zap.NewNop(), auditlog.Uniform(tt.mode))
			logger.ContactSubmitted(ctx, httptest.NewRequest("POST", "/api/contact-submissions", nil),
				"api::contact-submission.contact-submission", "doc-1")

			n, err := store.CountByFilter(ctx, audit.QueryFilter{DocumentID: "doc-1"})
			if err != nil {
				t.Fatalf("CountByFilter failed: %v", err)
			}
			if int(n) != tt.want {
				t.Errorf("mode %q stored %d events, want %d", tt.mode, n, tt.want)
			}
		})
	}
}

func TestLogger_PendingReviewed_RecordsActor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	adminID := primitive.NewObjectID()
	req := auth.WithTestUser(httptest.NewRequest("POST", "/", nil), &auth.SessionUser{
		ID: adminID.Hex(), Email: "admin@cercadeti.mx", Role: "admin",
	})
	req.RemoteAddr = "10.1.2.3:4100"

	logger := auditlog.New(store, zap.NewNop(), auditlog.Uniform(auditlog.ModeDB))
	logger.PendingReviewed(ctx, req, pendingUID, "doc-9", "pending", "rejected")

	events, err := store.GetByDocument(ctx, "doc-9", 10)
	if err != nil {
		t.Fatalf("GetByDocument failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.EventType != audit.EventPendingRejected {
		t.Errorf("EventType = %q", ev.EventType)
	}
	if ev.Actor != "admin@cercadeti.mx" || ev.UserID == nil || *ev.UserID != adminID {
		t.Errorf("actor not recorded: %+v", ev)
	}
	if ev.IP != "10.1.2.3" {
		t.Errorf("IP = %q", ev.IP)
	}
}

func TestLogger_PerCategoryConfig(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.ModeOff, Review: auditlog.ModeDB, Inbound: auditlog.ModeOff})
	req := httptest.NewRequest("POST", "/", nil)
	logger.LoginFailedUserNotFound(ctx, req, "nobody@example.com")
	logger.ContactReplied(ctx, req, "api::contact-submission.contact-submission", "doc-2")

	n, _ := store.CountByFilter(ctx, audit.QueryFilter{})
	if n != 1 {
		t.Errorf("stored %d events, want 1", n)
	}
}
