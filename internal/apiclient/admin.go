package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dalemusser/cercadeti/internal/domain/models"
)

const contentManager = "/admin/content-manager/collection-types/"

// Admin is the signed-in administrator.
type Admin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// ListOptions narrows an admin list. Zero values are omitted.
type ListOptions struct {
	Status   string
	Q        string
	Page     int
	PageSize int
}

func (lo ListOptions) values() url.Values {
	q := url.Values{}
	setIf(q, "status", lo.Status)
	setIf(q, "q", lo.Q)
	setPage(q, lo.Page, lo.PageSize)
	return q
}

type managerList[T any] struct {
	Results    []T        `json:"results"`
	Pagination Pagination `json:"pagination"`
}

// Login opens an admin session; the cookie is kept for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (Admin, error) {
	var out dataEnvelope[Admin]
	err := c.do(ctx, http.MethodPost, "/admin/login", nil,
		map[string]string{"email": email, "password": password}, &out)
	return out.Data, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/admin/logout", nil, nil, nil)
}

// PendingBusinesses lists submissions through the content manager, so each
// record carries its populated category, zone and plan.
func (c *Client) PendingBusinesses(ctx context.Context, lo ListOptions) ([]models.PendingBusiness, Pagination, error) {
	var out managerList[models.PendingBusiness]
	err := c.do(ctx, http.MethodGet, contentManager+models.PendingBusinessUID, lo.values(), nil, &out)
	return out.Results, out.Pagination, err
}

func (c *Client) PendingBusiness(ctx context.Context, documentID string) (models.PendingBusiness, error) {
	return getData[models.PendingBusiness](ctx, c, contentManager+models.PendingBusinessUID+"/"+documentID, nil)
}

// Approve marks a submission approved and returns it with its listing id.
func (c *Client) Approve(ctx context.Context, documentID string) (models.PendingBusiness, error) {
	return postData[models.PendingBusiness](ctx, c, "/api/pending-businesses/"+documentID+"/approve", nil)
}

func (c *Client) Reject(ctx context.Context, documentID string) (models.PendingBusiness, error) {
	return postData[models.PendingBusiness](ctx, c, "/api/pending-businesses/"+documentID+"/reject", nil)
}

func (c *Client) ContactSubmissions(ctx context.Context, lo ListOptions) ([]models.ContactSubmission, Pagination, error) {
	var out managerList[models.ContactSubmission]
	err := c.do(ctx, http.MethodGet, contentManager+models.ContactSubmissionUID, lo.values(), nil, &out)
	return out.Results, out.Pagination, err
}

func (c *Client) MarkRead(ctx context.Context, id string) (models.ContactSubmission, error) {
	return postData[models.ContactSubmission](ctx, c, "/api/contact-submissions/"+id+"/mark-read", nil)
}

func (c *Client) MarkReplied(ctx context.Context, id string) (models.ContactSubmission, error) {
	return postData[models.ContactSubmission](ctx, c, "/api/contact-submissions/"+id+"/mark-replied", nil)
}
