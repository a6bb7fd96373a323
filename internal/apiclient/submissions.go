package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dalemusser/cercadeti/internal/domain/models"
)

// BusinessSubmission is the public registration form. Category, Zone and
// BusinessPlan are record ids.
type BusinessSubmission struct {
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	Website            string `json:"website,omitempty"`
	Category           string `json:"category,omitempty"`
	CustomCategoryName string `json:"customCategoryName,omitempty"`
	Zone               string `json:"zone,omitempty"`
	BusinessPlan       string `json:"businessPlan,omitempty"`
}

// Logo is an image file sent with a registration.
type Logo struct {
	Filename string
	Content  io.Reader
}

// ContactMessage is the public contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// SubmitBusiness files a pending business for review.
func (c *Client) SubmitBusiness(ctx context.Context, s BusinessSubmission) (models.PendingBusiness, error) {
	return postData[models.PendingBusiness](ctx, c, "/api/pending-businesses", dataEnvelope[BusinessSubmission]{Data: s})
}

// SubmitBusinessWithLogo files a pending business together with its logo
// as a multipart form. The server stores the image and records its path.
func (c *Client) SubmitBusinessWithLogo(ctx context.Context, s BusinessSubmission, logo Logo) (models.PendingBusiness, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	data, err := json.Marshal(s)
	if err != nil {
		return models.PendingBusiness{}, fmt.Errorf("encode request: %w", err)
	}
	if err := mw.WriteField("data", string(data)); err != nil {
		return models.PendingBusiness{}, err
	}
	fw, err := mw.CreateFormFile("files.logo", logo.Filename)
	if err != nil {
		return models.PendingBusiness{}, err
	}
	if _, err := io.Copy(fw, logo.Content); err != nil {
		return models.PendingBusiness{}, fmt.Errorf("read logo: %w", err)
	}
	if err := mw.Close(); err != nil {
		return models.PendingBusiness{}, err
	}

	var out dataEnvelope[models.PendingBusiness]
	err = c.send(ctx, http.MethodPost, "/api/pending-businesses", nil, &buf, mw.FormDataContentType(), &out)
	return out.Data, err
}

// SubmitContact sends a contact-form message.
func (c *Client) SubmitContact(ctx context.Context, m ContactMessage) (models.ContactSubmission, error) {
	return postData[models.ContactSubmission](ctx, c, "/api/contact-submissions", dataEnvelope[ContactMessage]{Data: m})
}
