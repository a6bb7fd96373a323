package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Window is an optional visibility period shared by offers and ads.
type Window struct {
	StartsAt *time.Time `bson:"starts_at,omitempty" json:"startsAt,omitempty"`
	EndsAt   *time.Time `bson:"ends_at,omitempty" json:"endsAt,omitempty"`
}

// Contains reports whether t falls inside the window. Open ends are unbounded.
func (w Window) Contains(t time.Time) bool {
	if w.StartsAt != nil && t.Before(*w.StartsAt) {
		return false
	}
	if w.EndsAt != nil && !t.Before(*w.EndsAt) {
		return false
	}
	return true
}

// Offer is a time-limited promotion published by a listed business.
type Offer struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	DocumentID    string              `bson:"document_id" json:"documentId"`
	BusinessID    primitive.ObjectID  `bson:"business_id" json:"businessId"`
	ZoneID        *primitive.ObjectID `bson:"zone_id,omitempty" json:"zoneId,omitempty"`
	Title         string              `bson:"title" json:"title"`
	Description   string              `bson:"description,omitempty" json:"description,omitempty"`
	DiscountLabel string              `bson:"discount_label,omitempty" json:"discountLabel,omitempty"`
	Window        `bson:",inline"`
	Active        bool      `bson:"active" json:"active"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
}

// Ad is a banner placed on the directory pages.
type Ad struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	DocumentID string              `bson:"document_id" json:"documentId"`
	Title      string              `bson:"title" json:"title"`
	ImageURL   string              `bson:"image_url" json:"imageUrl"`
	LinkURL    string              `bson:"link_url,omitempty" json:"linkUrl,omitempty"`
	Placement  string              `bson:"placement" json:"placement"` // "home", "sidebar", "listing"
	ZoneID     *primitive.ObjectID `bson:"zone_id,omitempty" json:"zoneId,omitempty"`
	Window     `bson:",inline"`
	Active     bool      `bson:"active" json:"active"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updatedAt"`
}
