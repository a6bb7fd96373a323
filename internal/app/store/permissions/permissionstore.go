// internal/app/store/permissions/permissionstore.go
package permissionstore

import (
	"context"
	"time"

	"github.com/dalemusser/cercadeti/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Grant is one default role/action pair.
type Grant struct {
	Role   string
	Action string
}

// DefaultGrants are the permissions enabled on a fresh install: the public
// directory is readable and the two public forms are writable.
func DefaultGrants() []Grant {
	var out []Grant
	for _, uid := range []string{
		models.CategoryUID, models.ZoneUID, models.BusinessPlanUID,
		models.BusinessUID, models.OfferUID, models.AdUID,
	} {
		out = append(out,
			Grant{Role: models.RolePublic, Action: uid + ".find"},
			Grant{Role: models.RolePublic, Action: uid + ".findOne"},
		)
	}
	out = append(out,
		Grant{Role: models.RolePublic, Action: models.PendingBusinessUID + ".create"},
		Grant{Role: models.RolePublic, Action: models.ContactSubmissionUID + ".create"},
	)
	return out
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("permissions")}
}

// Allowed reports whether role holds action. Unknown pairs are denied.
func (s *Store) Allowed(ctx context.Context, role, action string) (bool, error) {
	var p models.Permission
	err := s.c.FindOne(ctx, bson.M{"role": role, "action": action}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.Enabled, nil
}

// SeedDefaults inserts missing default grants without touching existing rows,
// so an operator's explicit disable survives restarts. Returns how many were added.
func (s *Store) SeedDefaults(ctx context.Context) (int, error) {
	added := 0
	now := time.Now().UTC()
	for _, g := range DefaultGrants() {
		res, err := s.c.UpdateOne(ctx,
			bson.M{"role": g.Role, "action": g.Action},
			bson.M{"$setOnInsert": bson.M{
				"role":       g.Role,
				"action":     g.Action,
				"enabled":    true,
				"updated_at": now,
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return added, err
		}
		if res.UpsertedCount > 0 {
			added++
		}
	}
	return added, nil
}

// List returns every permission row ordered by role then action.
func (s *Store) List(ctx context.Context) ([]models.Permission, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "role", Value: 1}, {Key: "action", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Permission{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Set enables or disables one role/action, creating the row if needed.
func (s *Store) Set(ctx context.Context, role, action string, enabled bool) (models.Permission, error) {
	var out models.Permission
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"role": role, "action": action},
		bson.M{"$set": bson.M{"enabled": enabled, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	return out, err
}
