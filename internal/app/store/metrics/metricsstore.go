// internal/app/store/metrics/metricsstore.go
package metricsstore

import (
	"context"

	"github.com/dalemusser/cercadeti/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals shown on the admin dashboard.
type Counts struct {
	PendingBusinesses  map[string]int64 `json:"pendingBusinesses"`
	ContactSubmissions map[string]int64 `json:"contactSubmissions"`
	// Unpromoted counts approved submissions that have no live listing yet.
	Unpromoted int64 `json:"unpromoted"`
	Businesses int64 `json:"businesses"`
	Categories int64 `json:"categories"`
	Zones      int64 `json:"zones"`
}

// FetchDashboardCounts returns the high-level counts used by the admin dashboard.
// Intentionally tolerant: on error it returns 0 for that counter.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database) Counts {
	out := Counts{
		PendingBusinesses:  countByStatus(ctx, db.Collection("pending_businesses"), models.PendingStatuses),
		ContactSubmissions: countByStatus(ctx, db.Collection("contact_submissions"), models.ContactStatuses),
	}

	if n, err := db.Collection("pending_businesses").CountDocuments(ctx, bson.M{
		"status":      models.PendingStatusApproved,
		"business_id": bson.M{"$exists": false},
	}); err == nil {
		out.Unpromoted = n
	}

	if n, err := db.Collection("businesses").CountDocuments(ctx, bson.M{"status": models.BusinessStatusActive}); err == nil {
		out.Businesses = n
	}
	if n, err := db.Collection("categories").CountDocuments(ctx, bson.M{}); err == nil {
		out.Categories = n
	}
	if n, err := db.Collection("zones").CountDocuments(ctx, bson.M{}); err == nil {
		out.Zones = n
	}

	return out
}

// countByStatus seeds every known status with zero so the response shape is stable.
func countByStatus(ctx context.Context, c *mongo.Collection, statuses []string) map[string]int64 {
	out := make(map[string]int64, len(statuses))
	for _, st := range statuses {
		out[st] = 0
	}

	cur, err := c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return out
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			N      int64  `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			continue
		}
		out[row.Status] = row.N
	}
	return out
}
