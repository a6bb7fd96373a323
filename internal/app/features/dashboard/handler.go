// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	metricsstore "github.com/dalemusser/cercadeti/internal/app/store/metrics"
	"github.com/dalemusser/cercadeti/internal/app/system/authz"
	"github.com/dalemusser/cercadeti/internal/app/system/jsonio"
	"github.com/dalemusser/cercadeti/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Log: logger,
	}
}

// ServeDashboard handles GET /admin/dashboard with the review queue and
// inbox totals.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard counts")
	defer cancel()

	counts := metricsstore.FetchDashboardCounts(ctx, h.DB)

	h.Log.Debug("admin dashboard served", zap.String("user", authz.Actor(r)))
	jsonio.WriteData(w, http.StatusOK, counts)
}
