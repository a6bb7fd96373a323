package corspolicy_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/cercadeti/internal/app/system/corspolicy"
)

func TestPolicy_Allowed(t *testing.T) {
	p := corspolicy.New("https://cercadeti.mx/")

	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:3000", true},
		{"http://localhost:1337", true},
		{"https://cercadeti.vercel.app", true},
		{"https://cercadeti.mx", true},
		{"https://preview123.vercel.app", true},
		{"https://cercadeti-git-feature-team.vercel.app", true},
		{"https://a.b.vercel.app", true},
		{"https://evil.example.com", false},
		{"http://preview123.vercel.app", false},
		{"https://vercel.app.evil.com", false},
		{"https://Preview.vercel.app", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := p.Allowed(tt.origin); got != tt.want {
			t.Errorf("Allowed(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestPolicy_NoFrontendURL(t *testing.T) {
	p := corspolicy.New("")
	if len(p.Origins()) != len(corspolicy.DefaultOrigins) {
		t.Errorf("Origins() = %v, want defaults only", p.Origins())
	}
	if !p.Allowed("https://preview123.vercel.app") {
		t.Error("preview pattern should apply without FRONTEND_URL")
	}
}

func TestPolicy_Handler(t *testing.T) {
	h := corspolicy.New("").Handler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		origin string
		want   string
	}{
		{"https://preview123.vercel.app", "https://preview123.vercel.app"},
		{"https://evil.example.com", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/api/categories", nil)
		req.Header.Set("Origin", tt.origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %q: Access-Control-Allow-Origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}
