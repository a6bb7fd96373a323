// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/cercadeti/internal/app/store/audit"
	"github.com/dalemusser/cercadeti/internal/app/system/auth"
	"github.com/dalemusser/cercadeti/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination settings.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// Config selects a destination per event category.
type Config struct {
	Auth    string
	Review  string
	Inbound string
}

// Uniform applies one mode to every category.
func Uniform(mode string) Config {
	return Config{Auth: mode, Review: mode, Inbound: mode}
}

// Logger records audit events to MongoDB (via audit.Store) and zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.Actor != "" {
		fields = append(fields, zap.String("actor", event.Actor))
	}
	if event.DocumentID != "" {
		fields = append(fields, zap.String("document_id", event.DocumentID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryReview:
		setting = l.config.Review
	case audit.CategoryInbound:
		setting = l.config.Inbound
	default:
		setting = ModeAll
	}
	if setting == "" || setting == ModeOff {
		return
	}

	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}
	if (setting == ModeAll || setting == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

// base fills request-derived fields and the signed-in admin, if any.
func base(r *http.Request, category, eventType string) audit.Event {
	ev := audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
	if u, ok := auth.CurrentUser(r); ok {
		ev.Actor = u.Email
		if oid, err := primitive.ObjectIDFromHex(u.ID); err == nil {
			ev.UserID = &oid
		}
	}
	return ev
}

// --- Authentication Events ---

// LoginSuccess logs a successful admin login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, adminID primitive.ObjectID, email string) {
	ev := base(r, audit.CategoryAuth, audit.EventLoginSuccess)
	ev.UserID = &adminID
	ev.Actor = email
	l.Log(ctx, ev)
}

// LoginFailedUserNotFound logs a login for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	ev := base(r, audit.CategoryAuth, audit.EventLoginFailedUserNotFound)
	ev.Success = false
	ev.FailureReason = "user not found"
	ev.Details = map[string]string{"attempted_email": attemptedEmail}
	l.Log(ctx, ev)
}

// LoginFailedWrongPassword logs a bad password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, adminID primitive.ObjectID, email string) {
	ev := base(r, audit.CategoryAuth, audit.EventLoginFailedWrongPassword)
	ev.UserID = &adminID
	ev.Actor = email
	ev.Success = false
	ev.FailureReason = "wrong password"
	l.Log(ctx, ev)
}

// LoginFailedUserDisabled logs a login for a disabled admin.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, adminID primitive.ObjectID, email string) {
	ev := base(r, audit.CategoryAuth, audit.EventLoginFailedUserDisabled)
	ev.UserID = &adminID
	ev.Actor = email
	ev.Success = false
	ev.FailureReason = "user disabled"
	l.Log(ctx, ev)
}

// LoginFailedRateLimit logs a throttled login attempt.
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, email string) {
	ev := base(r, audit.CategoryAuth, audit.EventLoginFailedRateLimit)
	ev.Success = false
	ev.FailureReason = "rate limited"
	ev.Details = map[string]string{"attempted_email": email}
	l.Log(ctx, ev)
}

// Logout logs an admin logout.
func (l *Logger) Logout(ctx context.Context, r *http.Request) {
	l.Log(ctx, base(r, audit.CategoryAuth, audit.EventLogout))
}

// PermissionChanged logs a toggle in the role/permission table.
func (l *Logger) PermissionChanged(ctx context.Context, r *http.Request, role, action string, enabled bool) {
	ev := base(r, audit.CategoryAuth, audit.EventPermissionChanged)
	ev.Details = map[string]string{
		"role":    role,
		"action":  action,
		"enabled": strconv.FormatBool(enabled),
	}
	l.Log(ctx, ev)
}

// --- Inbound Events ---

// PendingSubmitted logs a new business registration.
func (l *Logger) PendingSubmitted(ctx context.Context, r *http.Request, contentType, documentID, name string) {
	ev := base(r, audit.CategoryInbound, audit.EventPendingSubmitted)
	ev.ContentType = contentType
	ev.DocumentID = documentID
	ev.Details = map[string]string{"name": name}
	l.Log(ctx, ev)
}

// ContactSubmitted logs a new contact message.
func (l *Logger) ContactSubmitted(ctx context.Context, r *http.Request, contentType, documentID string) {
	ev := base(r, audit.CategoryInbound, audit.EventContactSubmitted)
	ev.ContentType = contentType
	ev.DocumentID = documentID
	l.Log(ctx, ev)
}

// --- Review Events ---

// PendingReviewed logs a status change on a pending business. Approvals and
// rejections get their own event types; anything else is a plain status change.
func (l *Logger) PendingReviewed(ctx context.Context, r *http.Request, contentType, documentID, from, to string) {
	eventType := audit.EventPendingStatusChanged
	switch to {
	case "approved":
		eventType = audit.EventPendingApproved
	case "rejected":
		eventType = audit.EventPendingRejected
	}
	ev := base(r, audit.CategoryReview, eventType)
	ev.ContentType = contentType
	ev.DocumentID = documentID
	ev.Details = map[string]string{"from": from, "to": to}
	l.Log(ctx, ev)
}

// PendingDeleted logs removal of a pending business.
func (l *Logger) PendingDeleted(ctx context.Context, r *http.Request, contentType, documentID string) {
	ev := base(r, audit.CategoryReview, audit.EventPendingDeleted)
	ev.ContentType = contentType
	ev.DocumentID = documentID
	l.Log(ctx, ev)
}

// BusinessPromoted logs creation of a live listing from an approved submission.
func (l *Logger) BusinessPromoted(ctx context.Context, r *http.Request, pendingDocumentID, businessSlug string) {
	ev := base(r, audit.CategoryReview, audit.EventBusinessPromoted)
	ev.DocumentID = pendingDocumentID
	ev.Details = map[string]string{"business_slug": businessSlug}
	l.Log(ctx, ev)
}

// ContactRead logs a contact submission being marked read.
func (l *Logger) ContactRead(ctx context.Context, r *http.Request, contentType, documentID, previous string) {
	ev := base(r, audit.CategoryReview, audit.EventContactRead)
	ev.ContentType = contentType
	ev.DocumentID = documentID
	ev.Details = map[string]string{"previous_status": previous}
	l.Log(ctx, ev)
}

// ContactReplied logs a contact submission being marked replied.
func (l *Logger) ContactReplied(ctx context.Context, r *http.Request, contentType, documentID string) {
	ev := base(r, audit.CategoryReview, audit.EventContactReplied)
	ev.ContentType = contentType
	ev.DocumentID = documentID
	l.Log(ctx, ev)
}
