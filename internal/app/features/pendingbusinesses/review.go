// internal/app/features/pendingbusinesses/review.go
package pendingbusinesses

import (
	"errors"
	"fmt"
	"net/http"

	pendingbusinessstore "github.com/dalemusser/cercadeti/internal/app/store/pendingbusinesses"
	"github.com/dalemusser/cercadeti/internal/app/system/apierror"
	"github.com/dalemusser/cercadeti/internal/app/system/authz"
	"github.com/dalemusser/cercadeti/internal/app/system/jsonio"
	"github.com/dalemusser/cercadeti/internal/app/system/timeouts"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleApprove handles POST /api/pending-businesses/{documentId}/approve.
//
// The pending → approved flip is conditional on the record still being
// pending, so two admins approving at once cannot both succeed. The approved
// submission is then promoted to a live business listing. An approved record
// without a listing (a failed earlier promotion) is promoted again.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentId")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "pending approve")
	defer cancel()

	p, err := h.Pending.Review(ctx, documentID, models.PendingStatusApproved, authz.Actor(r))
	switch {
	case err == nil:
		h.AuditLog.PendingReviewed(ctx, r, models.PendingBusinessUID, documentID,
			models.PendingStatusPending, models.PendingStatusApproved)
	case errors.Is(err, pendingbusinessstore.ErrNotPending) &&
		p.Status == models.PendingStatusApproved && p.BusinessID == nil:
		h.Log.Info("retrying promotion of approved submission", zap.String("document_id", documentID))
	case errors.Is(err, pendingbusinessstore.ErrNotPending):
		apierror.Write(w, r, h.Log, apierror.Conflict(fmt.Sprintf("pending business is already %s", p.Status)))
		return
	default:
		h.writeStoreErr(w, r, err)
		return
	}

	biz, err := h.Businesses.CreateFromPending(ctx, p)
	if err != nil {
		h.Log.Error("promotion to business failed", zap.String("document_id", documentID), zap.Error(err))
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	if err := h.Pending.LinkBusiness(ctx, documentID, biz.ID); err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	p.BusinessID = &biz.ID

	h.AuditLog.BusinessPromoted(ctx, r, documentID, biz.Slug)
	jsonio.WriteData(w, http.StatusOK, p)
}

// HandleReject handles POST /api/pending-businesses/{documentId}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentId")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "pending reject")
	defer cancel()

	p, err := h.Pending.Review(ctx, documentID, models.PendingStatusRejected, authz.Actor(r))
	if errors.Is(err, pendingbusinessstore.ErrNotPending) {
		apierror.Write(w, r, h.Log, apierror.Conflict(fmt.Sprintf("pending business is already %s", p.Status)))
		return
	}
	if err != nil {
		h.writeStoreErr(w, r, err)
		return
	}

	h.AuditLog.PendingReviewed(ctx, r, models.PendingBusinessUID, documentID,
		models.PendingStatusPending, models.PendingStatusRejected)
	jsonio.WriteData(w, http.StatusOK, p)
}
