// internal/app/features/pendingbusinesses/handler.go
package pendingbusinesses

import (
	businessstore "github.com/dalemusser/cercadeti/internal/app/store/businesses"
	categorystore "github.com/dalemusser/cercadeti/internal/app/store/categories"
	pendingbusinessstore "github.com/dalemusser/cercadeti/internal/app/store/pendingbusinesses"
	planstore "github.com/dalemusser/cercadeti/internal/app/store/plans"
	zonestore "github.com/dalemusser/cercadeti/internal/app/store/zones"
	"github.com/dalemusser/cercadeti/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves business-registration submissions and their review.
type Handler struct {
	Pending    *pendingbusinessstore.Store
	Businesses *businessstore.Store
	Categories *categorystore.Store
	Zones      *zonestore.Store
	Plans      *planstore.Store
	Storage    storage.Store
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, store storage.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Pending:    pendingbusinessstore.New(db),
		Businesses: businessstore.New(db),
		Categories: categorystore.New(db),
		Zones:      zonestore.New(db),
		Plans:      planstore.New(db),
		Storage:    store,
		AuditLog:   audit,
		Log:        logger,
	}
}
