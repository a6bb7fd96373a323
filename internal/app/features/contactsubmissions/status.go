// internal/app/features/contactsubmissions/status.go
package contactsubmissions

import (
	"errors"
	"net/http"

	contactstore "github.com/dalemusser/cercadeti/internal/app/store/contactsubmissions"
	"github.com/dalemusser/cercadeti/internal/app/system/apierror"
	"github.com/dalemusser/cercadeti/internal/app/system/jsonio"
	"github.com/dalemusser/cercadeti/internal/app/system/timeouts"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleMarkRead handles POST /api/contact-submissions/{id}/mark-read.
//
// The move to "read" is unconditional. A submission that was already
// replied to goes back to read and loses its repliedAt.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "contact mark-read")
	defer cancel()

	before, after, err := h.Store.MarkAsRead(ctx, id)
	if err != nil {
		h.writeStoreErr(w, r, err)
		return
	}
	if before.Status == models.ContactStatusReplied {
		h.Log.Warn("contact submission moved back from replied to read",
			zap.String("document_id", after.DocumentID))
	}

	h.AuditLog.ContactRead(ctx, r, models.ContactSubmissionUID, after.DocumentID, before.Status)
	jsonio.WriteData(w, http.StatusOK, after)
}

// HandleMarkReplied handles POST /api/contact-submissions/{id}/mark-replied.
func (h *Handler) HandleMarkReplied(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "contact mark-replied")
	defer cancel()

	sub, err := h.Store.MarkAsReplied(ctx, id)
	if err != nil {
		h.writeStoreErr(w, r, err)
		return
	}

	h.AuditLog.ContactReplied(ctx, r, models.ContactSubmissionUID, sub.DocumentID)
	jsonio.WriteData(w, http.StatusOK, sub)
}

func (h *Handler) writeStoreErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, contactstore.ErrNotFound) {
		apierror.Write(w, r, h.Log, apierror.NotFound("contact submission not found"))
		return
	}
	apierror.Write(w, r, h.Log, apierror.Server(err))
}
