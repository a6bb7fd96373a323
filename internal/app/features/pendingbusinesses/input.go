// internal/app/features/pendingbusinesses/input.go
package pendingbusinesses

import (
	"context"
	"strings"

	"github.com/dalemusser/cercadeti/internal/app/system/apierror"
	"github.com/dalemusser/cercadeti/internal/app/system/htmlsanitize"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// submitInput is the public registration form payload. Relations are
// ObjectID hex strings.
type submitInput struct {
	Name               string `json:"name" validate:"required,max=200"`
	Description        string `json:"description" validate:"max=5000"`
	Email              string `json:"email" validate:"required,email,max=254"`
	Phone              string `json:"phone" validate:"required,max=40"`
	Address            string `json:"address" validate:"required,max=300"`
	Website            string `json:"website" validate:"omitempty,url,max=500"`
	Category           string `json:"category" validate:"omitempty,objectid"`
	CustomCategoryName string `json:"customCategoryName" validate:"max=200"`
	Zone               string `json:"zone" validate:"omitempty,objectid"`
	BusinessPlan       string `json:"businessPlan" validate:"omitempty,objectid"`
}

func (in *submitInput) normalize() {
	in.Name = htmlsanitize.PlainText(strings.TrimSpace(in.Name))
	in.Description = htmlsanitize.Sanitize(strings.TrimSpace(in.Description))
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = htmlsanitize.PlainText(strings.TrimSpace(in.Address))
	in.Website = strings.TrimSpace(in.Website)
	in.Category = strings.TrimSpace(in.Category)
	in.CustomCategoryName = htmlsanitize.PlainText(strings.TrimSpace(in.CustomCategoryName))
	in.Zone = strings.TrimSpace(in.Zone)
	in.BusinessPlan = strings.TrimSpace(in.BusinessPlan)
}

// updateInput is the PUT payload; absent fields are left unchanged.
type updateInput struct {
	Name               *string `json:"name" validate:"omitempty,max=200"`
	Description        *string `json:"description" validate:"omitempty,max=5000"`
	Email              *string `json:"email" validate:"omitempty,email,max=254"`
	Phone              *string `json:"phone" validate:"omitempty,max=40"`
	Address            *string `json:"address" validate:"omitempty,max=300"`
	Website            *string `json:"website" validate:"omitempty,url,max=500"`
	Category           *string `json:"category" validate:"omitempty,objectid"`
	CustomCategoryName *string `json:"customCategoryName" validate:"omitempty,max=200"`
	Zone               *string `json:"zone" validate:"omitempty,objectid"`
	BusinessPlan       *string `json:"businessPlan" validate:"omitempty,objectid"`
	Status             *string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}

// blankRequired reports required fields that were sent but are empty.
func (in *updateInput) blankRequired() []apierror.Detail {
	var out []apierror.Detail
	fields := []struct {
		name string
		v    *string
	}{{"name", in.Name}, {"email", in.Email}, {"phone", in.Phone}, {"address", in.Address}}
	for _, f := range fields {
		if f.v != nil && *f.v == "" {
			out = append(out, apierror.Required(f.name))
		}
	}
	return out
}

func trimmed(p *string, clean func(string) string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if clean != nil {
		s = clean(s)
	}
	return &s
}

func (in *updateInput) normalize() {
	in.Name = trimmed(in.Name, htmlsanitize.PlainText)
	in.Description = trimmed(in.Description, htmlsanitize.Sanitize)
	in.Email = trimmed(in.Email, nil)
	in.Phone = trimmed(in.Phone, nil)
	in.Address = trimmed(in.Address, htmlsanitize.PlainText)
	in.Website = trimmed(in.Website, nil)
	in.Category = trimmed(in.Category, nil)
	in.CustomCategoryName = trimmed(in.CustomCategoryName, htmlsanitize.PlainText)
	in.Zone = trimmed(in.Zone, nil)
	in.BusinessPlan = trimmed(in.BusinessPlan, nil)
	in.Status = trimmed(in.Status, strings.ToLower)
}

// relationIDs holds resolved relation ids; nil means "not referenced".
type relationIDs struct {
	Category     *primitive.ObjectID
	Zone         *primitive.ObjectID
	BusinessPlan *primitive.ObjectID
}

// resolveRelations parses the hex ids and checks each referenced record
// exists. Missing records come back as validation details.
func (h *Handler) resolveRelations(ctx context.Context, category, zone, plan string) (relationIDs, []apierror.Detail, error) {
	var ids relationIDs
	var details []apierror.Detail

	checks := []struct {
		field  string
		hex    string
		dst    **primitive.ObjectID
		exists func(context.Context, primitive.ObjectID) (bool, error)
	}{
		{"category", category, &ids.Category, h.Categories.Exists},
		{"zone", zone, &ids.Zone, h.Zones.Exists},
		{"businessPlan", plan, &ids.BusinessPlan, h.Plans.Exists},
	}
	for _, c := range checks {
		if c.hex == "" {
			continue
		}
		oid, err := primitive.ObjectIDFromHex(c.hex)
		if err != nil {
			details = append(details, apierror.Detail{Path: []string{c.field}, Message: c.field + " must be a valid id", Name: apierror.NameValidation})
			continue
		}
		ok, err := c.exists(ctx, oid)
		if err != nil {
			return ids, nil, err
		}
		if !ok {
			details = append(details, apierror.Detail{Path: []string{c.field}, Message: c.field + " does not exist", Name: apierror.NameValidation})
			continue
		}
		*c.dst = &oid
	}
	return ids, details, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// cleared reports whether a relation was sent as an empty string.
func cleared(p *string) bool {
	return p != nil && *p == ""
}
