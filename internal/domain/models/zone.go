package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Zone is a geographic service area used to scope the listings shown to a visitor.
type Zone struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocumentID string             `bson:"document_id" json:"documentId"`
	Name       string             `bson:"name" json:"name"`
	NameCI     string             `bson:"name_ci" json:"-"`
	Slug       string             `bson:"slug" json:"slug"`
	City       string             `bson:"city,omitempty" json:"city,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

// GetDocumentID returns the stable document identifier.
func (z Zone) GetDocumentID() string { return z.DocumentID }
