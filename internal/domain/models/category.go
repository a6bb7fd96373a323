package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups businesses by trade (restaurants, plumbers, ...).
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocumentID  string             `bson:"document_id" json:"documentId"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Icon        string             `bson:"icon,omitempty" json:"icon,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// GetDocumentID returns the stable document identifier.
func (c Category) GetDocumentID() string { return c.DocumentID }
