// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"sync"

	adminstore "github.com/dalemusser/cercadeti/internal/app/store/admins"
	businessstore "github.com/dalemusser/cercadeti/internal/app/store/businesses"
	pendingbusinessstore "github.com/dalemusser/cercadeti/internal/app/store/pendingbusinesses"
	permissionstore "github.com/dalemusser/cercadeti/internal/app/store/permissions"
	"github.com/dalemusser/cercadeti/internal/app/system/ratelimit"
	"github.com/dalemusser/cercadeti/internal/app/system/timeouts"
	"github.com/dalemusser/cercadeti/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// stopper is anything Shutdown must stop: workers and rate limiters.
type stopper interface{ Stop() }

var (
	stopMu   sync.Mutex
	stoppers []stopper
)

func registerStopper(s stopper) {
	stopMu.Lock()
	defer stopMu.Unlock()
	stoppers = append(stoppers, s)
}

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts configured from environment", zap.Int("count", n))
	}

	proxies, err := ratelimit.ParseTrustedProxies(appCfg.TrustedProxies)
	if err != nil {
		return err
	}
	ratelimit.SetTrustedProxies(proxies)
	if len(proxies) > 0 {
		logger.Info("trusting forwarded client addresses", zap.Int("proxies", len(proxies)))
	}

	added, err := permissionstore.New(deps.MongoDatabase).SeedDefaults(ctx)
	if err != nil {
		logger.Error("seed permissions failed", zap.Error(err))
		return err
	}
	if added > 0 {
		logger.Info("seeded default permissions", zap.Int("added", added))
	}

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, appCfg.AdminPassword, logger); err != nil {
			return err
		}
	}

	if appCfg.PromotionInterval > 0 {
		w := workers.NewPromotionReconciler(
			pendingbusinessstore.New(deps.MongoDatabase),
			businessstore.New(deps.MongoDatabase),
			logger,
			appCfg.PromotionInterval,
		)
		w.Start()
		registerStopper(w)
	}

	return nil
}

// ensureAdmin creates the bootstrap admin when no admin with that email
// exists. An existing account is left untouched, including its password.
func ensureAdmin(ctx context.Context, deps DBDeps, email, password string, logger *zap.Logger) error {
	store := adminstore.New(deps.MongoDatabase)

	_, err := store.GetByEmail(ctx, email)
	if err == nil {
		logger.Debug("bootstrap admin already exists", zap.String("email", email))
		return nil
	}
	if !errors.Is(err, adminstore.ErrNotFound) {
		logger.Error("lookup bootstrap admin failed", zap.Error(err))
		return err
	}

	if _, err := store.Create(ctx, email, "Administrator", password); err != nil {
		if errors.Is(err, adminstore.ErrDuplicateEmail) {
			return nil
		}
		logger.Error("create bootstrap admin failed", zap.Error(err))
		return err
	}
	logger.Info("created bootstrap admin", zap.String("email", email))
	return nil
}
