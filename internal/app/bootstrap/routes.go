// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	contactsubmissionsfeature "github.com/dalemusser/cercadeti/internal/app/features/contactsubmissions"
	contentmanagerfeature "github.com/dalemusser/cercadeti/internal/app/features/contentmanager"
	dashboardfeature "github.com/dalemusser/cercadeti/internal/app/features/dashboard"
	directoryfeature "github.com/dalemusser/cercadeti/internal/app/features/directory"
	healthfeature "github.com/dalemusser/cercadeti/internal/app/features/health"
	loginfeature "github.com/dalemusser/cercadeti/internal/app/features/login"
	logoutfeature "github.com/dalemusser/cercadeti/internal/app/features/logout"
	pendingbusinessesfeature "github.com/dalemusser/cercadeti/internal/app/features/pendingbusinesses"
	permissionsfeature "github.com/dalemusser/cercadeti/internal/app/features/permissions"
	userinfofeature "github.com/dalemusser/cercadeti/internal/app/features/userinfo"
	auditstore "github.com/dalemusser/cercadeti/internal/app/store/audit"
	permissionstore "github.com/dalemusser/cercadeti/internal/app/store/permissions"
	"github.com/dalemusser/cercadeti/internal/app/system/auditlog"
	"github.com/dalemusser/cercadeti/internal/app/system/auth"
	"github.com/dalemusser/cercadeti/internal/app/system/corspolicy"
	"github.com/dalemusser/cercadeti/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. The router carries CORS and session loading
// globally, the public content API under /api and the admin surface under
// /admin.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	auditLog := auditlog.New(auditstore.New(db), logger, auditlog.Uniform(appCfg.AuditLog))
	perms := permissionstore.New(db)

	// Each public form gets its own per-IP budget.
	contactLimiter := newSubmissionLimiter(appCfg.SubmissionRateLimit)
	registrationLimiter := newSubmissionLimiter(appCfg.SubmissionRateLimit)
	loginLimiter := ratelimit.NewLoginLimiter()
	registerStopper(loginLimiter)

	cors := corspolicy.New(appCfg.FrontendURL)
	logger.Info("CORS allow-list", zap.Strings("origins", cors.Origins()))

	r := chi.NewRouter()
	r.Use(cors.Handler())

	// Loads the admin SessionUser into context when a valid cookie is present.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Uploaded logos on the local backend; S3 serves its own objects.
	if appCfg.StorageType == storageLocal && appCfg.StorageLocalURL != "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// Public content API
	r.Route("/api", func(api chi.Router) {
		contactHandler := contactsubmissionsfeature.NewHandler(db, auditLog, logger)
		api.Mount("/contact-submissions", contactsubmissionsfeature.Routes(contactHandler, perms, contactLimiter))

		pendingHandler := pendingbusinessesfeature.NewHandler(db, deps.Storage, auditLog, logger)
		api.Mount("/pending-businesses", pendingbusinessesfeature.Routes(pendingHandler, perms, registrationLimiter))

		directoryHandler := directoryfeature.NewHandler(db, logger)
		directoryfeature.Mount(api, directoryHandler, perms)
	})

	// Admin surface
	r.Route("/admin", func(ar chi.Router) {
		loginHandler := loginfeature.NewHandler(db, sessionMgr, loginLimiter, auditLog, logger)
		ar.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
		ar.Mount("/logout", logoutfeature.Routes(logoutHandler))

		userinfofeature.MountRoutes(ar, userinfofeature.NewHandler())

		permissionsHandler := permissionsfeature.NewHandler(db, auditLog, logger)
		ar.Mount("/permissions", permissionsfeature.Routes(permissionsHandler))

		dashboardHandler := dashboardfeature.NewHandler(db, logger)
		ar.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

		contentHandler := contentmanagerfeature.NewDefault(db, appCfg.EnrichConcurrency, logger)
		ar.Mount("/content-manager", contentmanagerfeature.Routes(contentHandler))
	})

	return r, nil
}

// newSubmissionLimiter returns nil when limit is zero, which disables the
// per-IP check on that route.
func newSubmissionLimiter(limit int) *ratelimit.Limiter {
	if limit <= 0 {
		return nil
	}
	l := ratelimit.New(limit, time.Minute)
	registerStopper(l)
	return l
}
