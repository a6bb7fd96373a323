package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BusinessPlan is a listing tier a business owner picks when registering.
type BusinessPlan struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocumentID string             `bson:"document_id" json:"documentId"`
	Name       string             `bson:"name" json:"name"`
	Slug       string             `bson:"slug" json:"slug"`
	PriceCents int64              `bson:"price_cents" json:"priceCents"`
	Currency   string             `bson:"currency" json:"currency"`
	Features   []string           `bson:"features,omitempty" json:"features,omitempty"`
	SortOrder  int                `bson:"sort_order" json:"sortOrder"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

// GetDocumentID returns the stable document identifier.
func (p BusinessPlan) GetDocumentID() string { return p.DocumentID }
