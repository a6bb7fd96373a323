package logout_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/cercadeti/internal/app/features/logout"
	"github.com/dalemusser/cercadeti/internal/app/system/auth"
	"github.com/dalemusser/cercadeti/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *logout.Handler {
	t.Helper()
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	// nil audit logger is a no-op
	return logout.NewHandler(sessionMgr, nil, logger)
}

func TestHandleLogout_ClearsSessionCookie(t *testing.T) {
	handler := newTestHandler(t)

	rec := testutil.NewRecorder()
	handler.HandleLogout(rec, testutil.NewAuthenticatedRequest("POST", "/admin/logout", testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"loggedOut":true`)

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			found = true
			if c.MaxAge >= 0 {
				t.Errorf("expected MaxAge < 0 to delete cookie, got %d", c.MaxAge)
			}
		}
	}
	if !found {
		t.Error("expected session cookie to be set (for deletion)")
	}
}

func TestHandleLogout_Anonymous(t *testing.T) {
	handler := newTestHandler(t)

	rec := testutil.NewRecorder()
	handler.HandleLogout(rec, testutil.NewRequest("POST", "/admin/logout"))
	rec.AssertStatus(t, http.StatusOK)
}
