package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact submission states. The intended lifecycle is new → read → replied.
const (
	ContactStatusNew     = "new"
	ContactStatusRead    = "read"
	ContactStatusReplied = "replied"
)

// ContactStatuses lists every valid contact submission status.
var ContactStatuses = []string{ContactStatusNew, ContactStatusRead, ContactStatusReplied}

// ContactSubmission is a message sent through the public contact form.
type ContactSubmission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocumentID  string             `bson:"document_id" json:"documentId"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Message     string             `bson:"message" json:"message"`
	Status      string             `bson:"status" json:"status"`
	SubmittedAt time.Time          `bson:"submitted_at" json:"submittedAt"`
	RepliedAt   *time.Time         `bson:"replied_at,omitempty" json:"repliedAt,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// GetDocumentID returns the stable document identifier.
func (c ContactSubmission) GetDocumentID() string { return c.DocumentID }
