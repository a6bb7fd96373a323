// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultPageSize is used when the caller does not ask for a size.
const DefaultPageSize = 25

// MaxPageSize caps the page size a caller may request.
const MaxPageSize = 100

// Page is a 1-based page request.
type Page struct {
	Page     int
	PageSize int
}

// Default returns the first page at the default size.
func Default() Page { return Page{Page: 1, PageSize: DefaultPageSize} }

// Parse reads the page request from the query string. Both the flat form
// (?page=2&pageSize=10) used by the admin content manager and the bracketed
// form (?pagination[page]=2&pagination[pageSize]=10) used by the public API
// are accepted; the bracketed form wins when both are present.
func Parse(r *http.Request) Page {
	p := Default()
	if n, ok := positive(query.Get(r, "page")); ok {
		p.Page = n
	}
	if n, ok := positive(query.Get(r, "pagination[page]")); ok {
		p.Page = n
	}
	if n, ok := positive(query.Get(r, "pageSize")); ok {
		p.PageSize = n
	}
	if n, ok := positive(query.Get(r, "pagination[pageSize]")); ok {
		p.PageSize = n
	}
	return p.Normalize()
}

// Normalize clamps out-of-range values.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Skip is the number of documents before this page.
func (p Page) Skip() int64 { return int64(p.Page-1) * int64(p.PageSize) }

// Limit is the page size as an int64 for FindOptions.
func (p Page) Limit() int64 { return int64(p.PageSize) }

// FindOptions returns options selecting this page in the given sort order.
func (p Page) FindOptions(sort bson.D) *options.FindOptions {
	p = p.Normalize()
	return options.Find().SetSort(sort).SetSkip(p.Skip()).SetLimit(p.Limit())
}

// Meta is the pagination block returned alongside list results.
type Meta struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	PageCount int   `json:"pageCount"`
	Total     int64 `json:"total"`
}

// NewMeta computes the pagination block for a page and total count.
func NewMeta(p Page, total int64) Meta {
	p = p.Normalize()
	count := int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	return Meta{Page: p.Page, PageSize: p.PageSize, PageCount: count, Total: total}
}

func positive(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
