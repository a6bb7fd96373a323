// internal/app/features/contactsubmissions/handler.go
package contactsubmissions

import (
	contactstore "github.com/dalemusser/cercadeti/internal/app/store/contactsubmissions"
	"github.com/dalemusser/cercadeti/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the public contact form and the admin status actions.
type Handler struct {
	Store    *contactstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:    contactstore.New(db),
		AuditLog: audit,
		Log:      logger,
	}
}
