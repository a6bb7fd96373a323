// internal/app/features/directory/taxonomy.go
package directory

import (
	"errors"
	"net/http"
	"strings"

	categorystore "github.com/dalemusser/cercadeti/internal/app/store/categories"
	planstore "github.com/dalemusser/cercadeti/internal/app/store/plans"
	zonestore "github.com/dalemusser/cercadeti/internal/app/store/zones"
	"github.com/dalemusser/cercadeti/internal/app/system/apierror"
	"github.com/dalemusser/cercadeti/internal/app/system/htmlsanitize"
	"github.com/dalemusser/cercadeti/internal/app/system/inputval"
	"github.com/dalemusser/cercadeti/internal/app/system/jsonio"
	"github.com/dalemusser/cercadeti/internal/app/system/timeouts"
	"github.com/dalemusser/cercadeti/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeCategories handles GET /api/categories.
func (h *Handler) ServeCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "category list")
	defer cancel()

	items, err := h.Categories.List(ctx)
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	jsonio.WriteList(w, http.StatusOK, items, nil)
}

// ServeZones handles GET /api/zones?city=.
func (h *Handler) ServeZones(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "zone list")
	defer cancel()

	items, err := h.Zones.List(ctx, query.Get(r, "city"))
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	jsonio.WriteList(w, http.StatusOK, items, nil)
}

// ServePlans handles GET /api/business-plans.
func (h *Handler) ServePlans(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "plan list")
	defer cancel()

	items, err := h.Plans.List(ctx)
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	jsonio.WriteList(w, http.StatusOK, items, nil)
}

type categoryInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	Slug        string `json:"slug" validate:"max=120"`
	Description string `json:"description" validate:"max=2000"`
	Icon        string `json:"icon" validate:"max=120"`
}

// HandleCreateCategory handles POST /api/categories (admin).
func (h *Handler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if err := jsonio.DecodeData(w, r, &in); err != nil {
		apierror.Write(w, r, h.Log, apierror.BadBody(err))
		return
	}
	in.Name = htmlsanitize.PlainText(strings.TrimSpace(in.Name))
	in.Description = htmlsanitize.PlainText(strings.TrimSpace(in.Description))
	if err := inputval.Check(in); err != nil {
		apierror.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "category create")
	defer cancel()

	c, err := h.Categories.Create(ctx, models.Category{
		Name:        in.Name,
		Slug:        strings.TrimSpace(in.Slug),
		Description: in.Description,
		Icon:        strings.TrimSpace(in.Icon),
	})
	if errors.Is(err, categorystore.ErrDuplicateCategory) {
		apierror.Write(w, r, h.Log, apierror.Conflict(err.Error()))
		return
	}
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	jsonio.WriteData(w, http.StatusCreated, c)
}

type zoneInput struct {
	Name string `json:"name" validate:"required,max=120"`
	Slug string `json:"slug" validate:"max=120"`
	City string `json:"city" validate:"required,max=120"`
}

// HandleCreateZone handles POST /api/zones (admin).
func (h *Handler) HandleCreateZone(w http.ResponseWriter, r *http.Request) {
	var in zoneInput
	if err := jsonio.DecodeData(w, r, &in); err != nil {
		apierror.Write(w, r, h.Log, apierror.BadBody(err))
		return
	}
	in.Name = htmlsanitize.PlainText(strings.TrimSpace(in.Name))
	in.City = htmlsanitize.PlainText(strings.TrimSpace(in.City))
	if err := inputval.Check(in); err != nil {
		apierror.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "zone create")
	defer cancel()

	z, err := h.Zones.Create(ctx, models.Zone{Name: in.Name, Slug: strings.TrimSpace(in.Slug), City: in.City})
	if errors.Is(err, zonestore.ErrDuplicateZone) {
		apierror.Write(w, r, h.Log, apierror.Conflict(err.Error()))
		return
	}
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	jsonio.WriteData(w, http.StatusCreated, z)
}

type planInput struct {
	Name       string   `json:"name" validate:"required,max=120"`
	Slug       string   `json:"slug" validate:"max=120"`
	PriceCents int64    `json:"priceCents" validate:"min=0"`
	Currency   string   `json:"currency" validate:"omitempty,len=3"`
	Features   []string `json:"features" validate:"max=20,dive,max=200"`
	SortOrder  int      `json:"sortOrder"`
}

// HandleCreatePlan handles POST /api/business-plans (admin).
func (h *Handler) HandleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var in planInput
	if err := jsonio.DecodeData(w, r, &in); err != nil {
		apierror.Write(w, r, h.Log, apierror.BadBody(err))
		return
	}
	in.Name = htmlsanitize.PlainText(strings.TrimSpace(in.Name))
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	for i, f := range in.Features {
		in.Features[i] = htmlsanitize.PlainText(strings.TrimSpace(f))
	}
	if err := inputval.Check(in); err != nil {
		apierror.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "plan create")
	defer cancel()

	p, err := h.Plans.Create(ctx, models.BusinessPlan{
		Name:       in.Name,
		Slug:       strings.TrimSpace(in.Slug),
		PriceCents: in.PriceCents,
		Currency:   in.Currency,
		Features:   in.Features,
		SortOrder:  in.SortOrder,
	})
	if errors.Is(err, planstore.ErrDuplicatePlan) {
		apierror.Write(w, r, h.Log, apierror.Conflict(err.Error()))
		return
	}
	if err != nil {
		apierror.Write(w, r, h.Log, apierror.Server(err))
		return
	}
	jsonio.WriteData(w, http.StatusCreated, p)
}
