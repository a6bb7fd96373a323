package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLimiter_Allow(t *testing.T) {
	l := New(2, time.Minute)
	defer l.Stop()

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests should be allowed")
	}
	if l.Allow("a") {
		t.Fatal("third request should be limited")
	}
	if !l.Allow("b") {
		t.Fatal("other keys are independent")
	}
	if got := l.Remaining("a"); got != 0 {
		t.Errorf("Remaining(a) = %d, want 0", got)
	}
	l.Reset("a")
	if !l.Allow("a") {
		t.Fatal("reset key should be allowed again")
	}
}

func TestClientIP(t *testing.T) {
	proxies, err := ParseTrustedProxies("10.0.0.0/8, 192.168.1.5")
	if err != nil {
		t.Fatalf("ParseTrustedProxies: %v", err)
	}

	tests := []struct {
		name    string
		trusted bool
		header  map[string]string
		remote  string
		want    string
	}{
		{"untrusted peer ignores forwarded", false, map[string]string{"X-Forwarded-For": "1.2.3.4"}, "9.9.9.9:1", "9.9.9.9"},
		{"untrusted peer ignores real ip", false, map[string]string{"X-Real-IP": "5.6.7.8"}, "9.9.9.9:1", "9.9.9.9"},
		{"spoofed hop behind proxy", true, map[string]string{"X-Forwarded-For": "6.6.6.6, 1.2.3.4"}, "10.0.0.2:1", "1.2.3.4"},
		{"proxy chain skipped", true, map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.7"}, "192.168.1.5:1", "1.2.3.4"},
		{"real ip from proxy", true, map[string]string{"X-Real-IP": " 5.6.7.8 "}, "10.0.0.2:1", "5.6.7.8"},
		{"proxy without headers", true, nil, "10.0.0.2:1", "10.0.0.2"},
		{"remote addr", false, nil, "9.9.9.9:1234", "9.9.9.9"},
		{"remote without port", false, nil, "9.9.9.9", "9.9.9.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.trusted {
				SetTrustedProxies(proxies)
			} else {
				SetTrustedProxies(nil)
			}
			t.Cleanup(func() { SetTrustedProxies(nil) })

			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	got, err := ParseTrustedProxies(" 10.0.0.0/8 ,,::1, 203.0.113.9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"10.0.0.0/8", "::1/128", "203.0.113.9/32"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Errorf("prefix %d = %s, want %s", i, got[i], want[i])
		}
	}

	for _, bad := range []string{"nope", "10.0.0.0/99"} {
		if _, err := ParseTrustedProxies(bad); err == nil {
			t.Errorf("ParseTrustedProxies(%q) should fail", bad)
		}
	}
}

func TestPerIP_RotatedForwardedHeaderStillLimited(t *testing.T) {
	SetTrustedProxies(nil)
	l := New(1, time.Minute)
	defer l.Stop()

	h := PerIP(l, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	codes := []int{}
	for _, fwd := range []string{"1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest("POST", "/api/pending-businesses", nil)
		req.RemoteAddr = "198.51.100.4:4000"
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v, want [201 429]", codes)
	}
}

func TestPerIP(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Stop()

	h := PerIP(l, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/contact-submissions", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first request: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/contact-submissions", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d, want 429", rec.Code)
	}
}
