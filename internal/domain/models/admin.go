package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is a back-office account allowed to moderate content.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	EmailCI      string             `bson:"email_ci"`
	Name         string             `bson:"name"`
	PasswordHash string             `bson:"password_hash"`
	Status       string             `bson:"status"` // "active" or "disabled"
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

// Permission grants a role the right to perform one content-API action.
type Permission struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Role      string             `bson:"role" json:"role"`
	Action    string             `bson:"action" json:"action"`
	Enabled   bool               `bson:"enabled" json:"enabled"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Roles known to the permission table.
const (
	RolePublic = "public"
	RoleAdmin  = "admin"
)
