// internal/app/features/contentmanager/collections.go
package contentmanager

import (
	"context"
	"net/http"

	contactstore "github.com/dalemusser/cercadeti/internal/app/store/contactsubmissions"
	pendingbusinessstore "github.com/dalemusser/cercadeti/internal/app/store/pendingbusinesses"
	"github.com/dalemusser/cercadeti/internal/app/system/enrich"
	"github.com/dalemusser/cercadeti/internal/app/system/paging"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// NewDefault builds the content manager with the moderated collections:
// pending businesses (relations populated on every admin response) and
// contact submissions.
func NewDefault(db *mongo.Database, enrichConcurrency int, logger *zap.Logger) *Handler {
	h := NewHandler(logger)

	pending := pendingbusinessstore.New(db)
	Register[models.PendingBusiness](h, models.PendingBusinessUID, Source[models.PendingBusiness]{
		List: func(ctx context.Context, r *http.Request, pg paging.Page) ([]models.PendingBusiness, int64, error) {
			return pending.List(ctx, pendingbusinessstore.Filter{
				Status: query.Get(r, "status"),
				Query:  query.Search(r, "q"),
			}, pg)
		},
		Get:      pending.GetByDocumentID,
		NotFound: pendingbusinessstore.ErrNotFound,
	}, &enrich.Relations[models.PendingBusiness]{
		ContentType: models.PendingBusinessUID,
		Fetch:       pending,
		Log:         logger,
		Concurrency: enrichConcurrency,
	})

	contacts := contactstore.New(db)
	Register(h, models.ContactSubmissionUID, Source[models.ContactSubmission]{
		List: func(ctx context.Context, r *http.Request, pg paging.Page) ([]models.ContactSubmission, int64, error) {
			return contacts.List(ctx, query.Get(r, "status"), pg)
		},
		Get:      contacts.Get,
		NotFound: contactstore.ErrNotFound,
	})

	return h
}
