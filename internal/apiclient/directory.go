package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dalemusser/cercadeti/internal/domain/models"
)

// Pagination mirrors the pagination block of list responses.
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	PageCount int   `json:"pageCount"`
	Total     int64 `json:"total"`
}

// BusinessQuery filters the public listing. Zero values are omitted.
type BusinessQuery struct {
	Zone     string // zone slug
	Category string // category slug
	Q        string
	Featured bool
	Page     int
	PageSize int
}

func (bq BusinessQuery) values() url.Values {
	q := url.Values{}
	setIf(q, "zone", bq.Zone)
	setIf(q, "category", bq.Category)
	setIf(q, "q", bq.Q)
	if bq.Featured {
		q.Set("featured", "true")
	}
	setPage(q, bq.Page, bq.PageSize)
	return q
}

// BusinessDetail is one listing with its current offers.
type BusinessDetail struct {
	models.Business
	Offers []models.Offer `json:"offers"`
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	return getData[[]models.Category](ctx, c, "/api/categories", nil)
}

// Zones lists zones, optionally narrowed to one city.
func (c *Client) Zones(ctx context.Context, city string) ([]models.Zone, error) {
	q := url.Values{}
	setIf(q, "city", city)
	return getData[[]models.Zone](ctx, c, "/api/zones", q)
}

func (c *Client) Plans(ctx context.Context) ([]models.BusinessPlan, error) {
	return getData[[]models.BusinessPlan](ctx, c, "/api/business-plans", nil)
}

func (c *Client) Businesses(ctx context.Context, bq BusinessQuery) ([]models.Business, Pagination, error) {
	var out listEnvelope[models.Business]
	err := c.do(ctx, http.MethodGet, "/api/businesses", bq.values(), nil, &out)
	return out.Data, out.Meta.Pagination, err
}

func (c *Client) Business(ctx context.Context, slug string) (BusinessDetail, error) {
	return getData[BusinessDetail](ctx, c, "/api/businesses/"+slug, nil)
}

// Offers lists current offers, optionally in one zone (by slug).
func (c *Client) Offers(ctx context.Context, zone string) ([]models.Offer, error) {
	q := url.Values{}
	setIf(q, "zone", zone)
	return getData[[]models.Offer](ctx, c, "/api/offers", q)
}

// Ads lists current ads for a placement, optionally in one zone (by slug).
func (c *Client) Ads(ctx context.Context, placement, zone string) ([]models.Ad, error) {
	q := url.Values{}
	setIf(q, "placement", placement)
	setIf(q, "zone", zone)
	return getData[[]models.Ad](ctx, c, "/api/ads", q)
}

func setIf(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}

func setPage(q url.Values, page, size int) {
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		q.Set("pageSize", strconv.Itoa(size))
	}
}
