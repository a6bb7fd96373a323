// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dalemusser/cercadeti/internal/app/system/auditlog"
	"github.com/dalemusser/cercadeti/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minAdminPassword is the shortest bootstrap admin password accepted.
const minAdminPassword = 8

// appConfigKeys defines the configuration keys for CercaDeTi.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: CERCADETI_MONGO_URI, CERCADETI_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "cercadeti", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "cercadeti-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Admin session lifetime (e.g., 8h, 24h)"},

	// CORS
	{Name: "frontend_url", Default: "", Desc: "Deployed frontend origin (falls back to FRONTEND_URL)"},

	// Bootstrap admin
	{Name: "admin_email", Default: "", Desc: "Email of the bootstrap admin (created on startup when missing)"},
	{Name: "admin_password", Default: "", Desc: "Password for the bootstrap admin (min 8 characters)"},

	// Audit logging
	{Name: "audit_log", Default: "all", Desc: "Audit event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Content manager and public forms
	{Name: "enrich_concurrency", Default: 8, Desc: "Parallel relation lookups per content-manager list"},
	{Name: "submission_rate_limit", Default: 20, Desc: "Posts per IP per minute on each public form (0 disables)"},
	{Name: "trusted_proxies", Default: "", Desc: "Comma-separated proxy IPs/CIDRs whose X-Forwarded-For is honoured"},
	{Name: "promotion_interval", Default: "1m", Desc: "Retry interval for approved submissions without a listing (0 disables)"},

	// File storage configuration
	{Name: "storage_type", Default: "local", Desc: "Storage backend for uploaded logos: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/uploads", Desc: "URL prefix for serving local files"},

	// S3 configuration (only used if storage_type is "s3")
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "", Desc: "S3 key prefix"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront distribution URL"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CERCADETI", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 24*time.Hour),

		FrontendURL: appValues.String("frontend_url"),

		AdminEmail:    strings.TrimSpace(appValues.String("admin_email")),
		AdminPassword: appValues.String("admin_password"),

		AuditLog: strings.ToLower(strings.TrimSpace(appValues.String("audit_log"))),

		EnrichConcurrency:   appValues.Int("enrich_concurrency"),
		SubmissionRateLimit: appValues.Int("submission_rate_limit"),
		PromotionInterval:   appValues.Duration("promotion_interval", time.Minute),
		TrustedProxies:      appValues.String("trusted_proxies"),

		// File storage
		StorageType:      strings.ToLower(strings.TrimSpace(appValues.String("storage_type"))),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  strings.TrimSuffix(appValues.String("storage_local_url"), "/"),

		StorageS3Region: appValues.String("storage_s3_region"),
		StorageS3Bucket: appValues.String("storage_s3_bucket"),
		StorageS3Prefix: appValues.String("storage_s3_prefix"),
		StorageCFURL:    appValues.String("storage_cf_url"),
	}

	// The frontend deploys with a bare FRONTEND_URL; honour it when the
	// prefixed key is unset.
	if appCfg.FrontendURL == "" {
		appCfg.FrontendURL = os.Getenv("FRONTEND_URL")
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.AdminEmail != "" && len(appCfg.AdminPassword) < minAdminPassword {
		return fmt.Errorf("admin_password must be at least %d characters when admin_email is set", minAdminPassword)
	}

	switch appCfg.AuditLog {
	case auditlog.ModeAll, auditlog.ModeDB, auditlog.ModeLog, auditlog.ModeOff:
	default:
		return fmt.Errorf("audit_log must be one of all, db, log, off (got %q)", appCfg.AuditLog)
	}

	if appCfg.EnrichConcurrency < 1 {
		return fmt.Errorf("enrich_concurrency must be at least 1")
	}
	if appCfg.SubmissionRateLimit < 0 {
		return fmt.Errorf("submission_rate_limit cannot be negative")
	}
	if _, err := ratelimit.ParseTrustedProxies(appCfg.TrustedProxies); err != nil {
		return fmt.Errorf("trusted_proxies: %w", err)
	}

	switch appCfg.StorageType {
	case storageLocal:
		if appCfg.StorageLocalPath == "" {
			return fmt.Errorf("storage_local_path is required when storage_type is local")
		}
	case storageS3:
		if appCfg.StorageS3Bucket == "" {
			return fmt.Errorf("storage_s3_bucket is required when storage_type is s3")
		}
	default:
		return fmt.Errorf("storage_type must be local or s3 (got %q)", appCfg.StorageType)
	}

	return nil
}
