package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pending-business review states.
const (
	PendingStatusPending  = "pending"
	PendingStatusApproved = "approved"
	PendingStatusRejected = "rejected"
)

// PendingStatuses lists every valid pending-business status.
var PendingStatuses = []string{PendingStatusPending, PendingStatusApproved, PendingStatusRejected}

// PendingBusiness is a business-registration request awaiting moderation.
//
// Relations are stored as ObjectIDs and are not serialized to clients; the
// Category, Zone and BusinessPlan fields are only filled when the record was
// loaded through a populating query.
type PendingBusiness struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocumentID string             `bson:"document_id" json:"documentId"`

	Name               string `bson:"name" json:"name"`
	Description        string `bson:"description,omitempty" json:"description,omitempty"`
	Email              string `bson:"email" json:"email"`
	Phone              string `bson:"phone" json:"phone"`
	Address            string `bson:"address" json:"address"`
	Website            string `bson:"website,omitempty" json:"website,omitempty"`
	CustomCategoryName string `bson:"custom_category_name,omitempty" json:"customCategoryName,omitempty"`
	LogoURL            string `bson:"logo_url,omitempty" json:"logo,omitempty"`

	CategoryID     *primitive.ObjectID `bson:"category_id,omitempty" json:"-"`
	ZoneID         *primitive.ObjectID `bson:"zone_id,omitempty" json:"-"`
	BusinessPlanID *primitive.ObjectID `bson:"business_plan_id,omitempty" json:"-"`

	// Populated relations (read-only, never written).
	Category     *Category     `bson:"category,omitempty" json:"category,omitempty"`
	Zone         *Zone         `bson:"zone,omitempty" json:"zone,omitempty"`
	BusinessPlan *BusinessPlan `bson:"business_plan,omitempty" json:"business_plan,omitempty"`

	Status      string     `bson:"status" json:"status"`
	SubmittedAt time.Time  `bson:"submitted_at" json:"submittedAt"`
	ReviewedAt  *time.Time `bson:"reviewed_at,omitempty" json:"reviewedAt,omitempty"`
	ReviewedBy  string     `bson:"reviewed_by,omitempty" json:"reviewedBy,omitempty"`

	// BusinessID points at the live listing created on approval.
	BusinessID *primitive.ObjectID `bson:"business_id,omitempty" json:"businessId,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// GetDocumentID returns the stable document identifier.
func (p PendingBusiness) GetDocumentID() string { return p.DocumentID }

// IsReviewed reports whether an administrator has decided on the request.
func (p PendingBusiness) IsReviewed() bool { return p.Status != PendingStatusPending }

// IsPopulated reports whether any relation was resolved on load.
func (p PendingBusiness) IsPopulated() bool {
	return p.Category != nil || p.Zone != nil || p.BusinessPlan != nil
}
