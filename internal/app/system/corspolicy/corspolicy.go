// internal/app/system/corspolicy/corspolicy.go
package corspolicy

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/cors"
)

// Default origins that are always allowed.
var DefaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:1337",
	"https://cercadeti.vercel.app",
}

// PreviewPattern matches Vercel preview deployments.
var PreviewPattern = regexp.MustCompile(`^https://([a-z0-9-]+\.)*[a-z0-9-]+\.vercel\.app$`)

// Policy is the set of origins permitted to call the API from a browser.
type Policy struct {
	origins map[string]struct{}
	pattern *regexp.Regexp
}

// New builds a policy from the defaults plus frontendURL when non-empty.
func New(frontendURL string) *Policy {
	p := &Policy{
		origins: make(map[string]struct{}, len(DefaultOrigins)+1),
		pattern: PreviewPattern,
	}
	for _, o := range DefaultOrigins {
		p.origins[o] = struct{}{}
	}
	if u := strings.TrimRight(strings.TrimSpace(frontendURL), "/"); u != "" {
		p.origins[u] = struct{}{}
	}
	return p
}

// Allowed reports whether origin may make cross-origin requests.
func (p *Policy) Allowed(origin string) bool {
	if origin == "" {
		return false
	}
	if _, ok := p.origins[origin]; ok {
		return true
	}
	return p.pattern.MatchString(origin)
}

// Origins returns the literal allow-list (without the preview pattern).
func (p *Policy) Origins() []string {
	out := make([]string, 0, len(p.origins))
	for o := range p.origins {
		out = append(out, o)
	}
	return out
}

// Handler returns CORS middleware enforcing the policy.
func (p *Policy) Handler() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return p.Allowed(origin)
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Origin", "Accept"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
