// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, log level, body limits); everything
// specific to the directory backend lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Admin session configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: cercadeti-session)
	SessionDomain string // Cookie domain (blank means current host)
	SessionMaxAge time.Duration

	// FrontendURL is the deployed storefront origin added to the CORS allow-list.
	FrontendURL string

	// Bootstrap admin, created on startup when missing.
	AdminEmail    string
	AdminPassword string

	// AuditLog is the audit destination: all, db, log, or off.
	AuditLog string

	// EnrichConcurrency bounds parallel relation lookups per list response.
	EnrichConcurrency int

	// SubmissionRateLimit is the number of posts allowed per IP per minute on
	// each public form. Zero disables the limit.
	SubmissionRateLimit int

	// TrustedProxies lists proxy addresses or CIDR ranges whose
	// X-Forwarded-For header is honoured (comma-separated).
	TrustedProxies string

	// File storage for uploaded business logos
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage directory (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/uploads")

	// S3 configuration (only used if StorageType is "s3")
	StorageS3Region string
	StorageS3Bucket string
	StorageS3Prefix string // Key prefix (e.g., "cercadeti/")
	StorageCFURL    string // Optional CloudFront distribution URL

	// PromotionInterval is how often approved submissions without a listing
	// are retried. Zero disables the worker.
	PromotionInterval time.Duration
}
