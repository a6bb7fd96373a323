package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Business listing visibility.
const (
	BusinessStatusActive = "active"
	BusinessStatusHidden = "hidden"
)

// Business is a live, publicly browsable listing.
type Business struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocumentID  string             `bson:"document_id" json:"documentId"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	Website     string             `bson:"website,omitempty" json:"website,omitempty"`
	LogoURL     string             `bson:"logo_url,omitempty" json:"logo,omitempty"`

	CategoryID     *primitive.ObjectID `bson:"category_id,omitempty" json:"categoryId,omitempty"`
	ZoneID         *primitive.ObjectID `bson:"zone_id,omitempty" json:"zoneId,omitempty"`
	BusinessPlanID *primitive.ObjectID `bson:"business_plan_id,omitempty" json:"businessPlanId,omitempty"`

	Featured bool   `bson:"featured" json:"featured"`
	Status   string `bson:"status" json:"status"`

	// SourcePendingID links a listing back to the registration it was promoted from.
	SourcePendingID *primitive.ObjectID `bson:"source_pending_id,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// GetDocumentID returns the stable document identifier.
func (b Business) GetDocumentID() string { return b.DocumentID }
