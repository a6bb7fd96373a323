// internal/app/features/pendingbusinesses/crud.go
package pendingbusinesses

import (
	"errors"
	"net/http"
	"slices"

	pendingbusinessstore "github.com/dalemusser/cercadeti/internal/app/store/pendingbusinesses"
	"github.com/dalemusser/cercadeti/internal/app/system/apierror"
	"github.com/dalemusser/cercadeti/internal/app/system/authz"
	"github.com/dalemusser/cercadeti/internal/app/system/inputval"
	"github.com/dalemusser/cercadeti/internal/app/system/jsonio"
	"github.com/dalemusser/cercadeti/internal/app/system/paging"
	"github.com/dalemusser/cercadeti/internal/app/system/timeouts"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeList handles GET /api/pending-businesses?status=&q=&page=&pageSize=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	f := pendingbusinessstore.Filter{Status: query.Get(r, "status"), Query: query.Search(r, "q")}
	if f.Status != "" && !slices.Contains(models.PendingStatuses, f.Status) {
		apierror.Write(w, r, h.Log, apierror.Validation("status must be one of pending, approved, rejected"))
		return
	}
	pg := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "pending list")
	defer cancel()

	items, total, err := h.Pending.List(ctx, f, pg)
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	jsonio.WriteList(w, http.StatusOK, items, paging.NewMeta(pg, total))
}

// ServeOne handles GET /api/pending-businesses/{documentId}.
func (h *Handler) ServeOne(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "pending get")
	defer cancel()

	p, err := h.Pending.GetByDocumentID(ctx, chi.URLParam(r, "documentId"))
	if err != nil {
		h.writeStoreErr(w, r, err)
		return
	}
	jsonio.WriteData(w, http.StatusOK, p)
}

// HandleCreate handles POST /api/pending-businesses.
//
// The body is either {"data": {...}} as JSON or a multipart form whose "data"
// field holds that JSON and whose "files.logo" field holds the logo image.
// The record is always stored as pending with submittedAt=now; review
// fields in the payload are ignored.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in submitInput
	logo, aerr := decodeSubmission(w, r, &in)
	if aerr != nil {
		apierror.Write(w, r, h.Log, aerr)
		return
	}
	if logo != nil {
		defer logo.Close()
	}
	in.normalize()
	if err := inputval.Check(in); err != nil {
		apierror.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "pending create")
	defer cancel()

	rel, details, err := h.resolveRelations(ctx, in.Category, in.Zone, in.BusinessPlan)
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	if len(details) > 0 {
		apierror.Write(w, r, h.Log, apierror.Validation("", details...))
		return
	}

	var logoPath string
	if logo != nil {
		if logoPath, err = storeLogo(ctx, h.Storage, logo); err != nil {
			apierror.Write(w, r, h.Log, apierror.Server(err))
			return
		}
		h.Log.Info("logo stored",
			zap.String("path", logoPath),
			zap.String("filename", logo.filename),
			zap.Int64("size", logo.size))
	}

	p, err := h.Pending.Create(ctx, models.PendingBusiness{
		Name:               in.Name,
		Description:        in.Description,
		Email:              in.Email,
		Phone:              in.Phone,
		Address:            in.Address,
		Website:            in.Website,
		CustomCategoryName: in.CustomCategoryName,
		LogoURL:            logoPath,
		CategoryID:         rel.Category,
		ZoneID:             rel.Zone,
		BusinessPlanID:     rel.BusinessPlan,
	})
	if err != nil {
		if logoPath != "" {
			h.discardLogo(logoPath)
		}
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}

	h.AuditLog.PendingSubmitted(ctx, r, models.PendingBusinessUID, p.DocumentID, p.Name)
	jsonio.WriteData(w, http.StatusCreated, p)
}

// HandleUpdate handles PUT /api/pending-businesses/{documentId}.
//
// A "status" field is applied through SetStatus so the review fields stay
// consistent with it.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentId")

	var in updateInput
	if err := jsonio.DecodeData(w, r, &in); err != nil {
		apierror.Write(w, r, h.Log, apierror.BadBody(err))
		return
	}
	in.normalize()
	if details := in.blankRequired(); len(details) > 0 {
		apierror.Write(w, r, h.Log, apierror.Validation("", details...))
		return
	}
	if err := inputval.Check(in); err != nil {
		apierror.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "pending update")
	defer cancel()

	current, err := h.Pending.GetByDocumentID(ctx, documentID)
	if err != nil {
		h.writeStoreErr(w, r, err)
		return
	}

	rel, details, err := h.resolveRelations(ctx, deref(in.Category), deref(in.Zone), deref(in.BusinessPlan))
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	if len(details) > 0 {
		apierror.Write(w, r, h.Log, apierror.Validation("", details...))
		return
	}

	// An explicit empty string removes the relation.
	patch := pendingbusinessstore.Patch{
		Name:               in.Name,
		Description:        in.Description,
		Email:              in.Email,
		Phone:              in.Phone,
		Address:            in.Address,
		Website:            in.Website,
		CustomCategoryName: in.CustomCategoryName,
		CategoryID:         rel.Category,
		ZoneID:             rel.Zone,
		BusinessPlanID:     rel.BusinessPlan,
		ClearCategory:      cleared(in.Category),
		ClearZone:          cleared(in.Zone),
		ClearBusinessPlan:  cleared(in.BusinessPlan),
	}
	out := current
	if patch != (pendingbusinessstore.Patch{}) {
		if out, err = h.Pending.Update(ctx, documentID, patch); err != nil {
			h.writeStoreErr(w, r, err)
			return
		}
	}

	if in.Status != nil && *in.Status != current.Status {
		actor := authz.Actor(r)
		if actor == "" {
			actor = authz.Role(r)
		}
		before, after, err := h.Pending.SetStatus(ctx, documentID, *in.Status, actor)
		if err != nil {
			h.writeStoreErr(w, r, err)
			return
		}
		h.AuditLog.PendingReviewed(ctx, r, models.PendingBusinessUID, documentID, before.Status, after.Status)
		out = after
	}

	jsonio.WriteData(w, http.StatusOK, out)
}

// HandleDelete handles DELETE /api/pending-businesses/{documentId} and
// answers with the deleted record.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentId")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "pending delete")
	defer cancel()

	p, err := h.Pending.GetByDocumentID(ctx, documentID)
	if err != nil {
		h.writeStoreErr(w, r, err)
		return
	}
	n, err := h.Pending.Delete(ctx, documentID)
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	if n == 0 {
		apierror.Write(w, r, h.Log, apierror.NotFound("pending business not found"))
		return
	}

	h.AuditLog.PendingDeleted(ctx, r, models.PendingBusinessUID, documentID)
	jsonio.WriteData(w, http.StatusOK, p)
}

func (h *Handler) writeStoreErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, pendingbusinessstore.ErrNotFound):
		apierror.Write(w, r, h.Log, apierror.NotFound("pending business not found"))
	case errors.Is(err, pendingbusinessstore.ErrInvalidStatus):
		apierror.Write(w, r, h.Log, apierror.Validation("status must be one of pending, approved, rejected"))
	default:
		apierror.Write(w, r, h.Log, apierror.Server(err))
	}
}
