// internal/app/features/contactsubmissions/create.go
package contactsubmissions

import (
	"net/http"
	"strings"

	"github.com/dalemusser/cercadeti/internal/app/system/apierror"
	"github.com/dalemusser/cercadeti/internal/app/system/htmlsanitize"
	"github.com/dalemusser/cercadeti/internal/app/system/inputval"
	"github.com/dalemusser/cercadeti/internal/app/system/jsonio"
	"github.com/dalemusser/cercadeti/internal/app/system/timeouts"
	"github.com/dalemusser/cercadeti/internal/domain/models"
)

// createInput is the public contact form payload.
type createInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (in *createInput) normalize() {
	in.Name = htmlsanitize.PlainText(strings.TrimSpace(in.Name))
	in.Email = strings.TrimSpace(in.Email)
	in.Message = htmlsanitize.PlainText(strings.TrimSpace(in.Message))
}

// HandleCreate handles POST /api/contact-submissions.
//
// Body: { "data": { "name": "...", "email": "...", "message": "..." } }
// The server stamps submittedAt and status=new; any status sent is ignored.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := jsonio.DecodeData(w, r, &in); err != nil {
		apierror.Write(w, r, h.Log, apierror.BadBody(err))
		return
	}
	in.normalize()
	if err := inputval.Check(in); err != nil {
		apierror.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "contact create")
	defer cancel()

	sub, err := h.Store.Create(ctx, models.ContactSubmission{
		Name:    in.Name,
		Email:   in.Email,
		Message: in.Message,
	})
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}

	h.AuditLog.ContactSubmitted(ctx, r, models.ContactSubmissionUID, sub.DocumentID)
	jsonio.WriteData(w, http.StatusCreated, sub)
}
