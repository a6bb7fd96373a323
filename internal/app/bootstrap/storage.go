// internal/app/bootstrap/storage.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

const (
	storageLocal = "local"
	storageS3    = "s3"
)

// newStorage builds the file store used for uploaded logos.
func newStorage(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (storage.Store, error) {
	switch appCfg.StorageType {
	case storageS3:
		store, err := storage.NewS3(ctx, storage.S3Config{
			Bucket:        appCfg.StorageS3Bucket,
			Region:        appCfg.StorageS3Region,
			Prefix:        appCfg.StorageS3Prefix,
			CloudFrontURL: appCfg.StorageCFURL,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 storage: %w", err)
		}
		logger.Info("logo storage ready",
			zap.String("backend", storageS3),
			zap.String("bucket", appCfg.StorageS3Bucket))
		return store, nil

	case storageLocal, "":
		store, err := storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
		if err != nil {
			return nil, fmt.Errorf("local storage: %w", err)
		}
		logger.Info("logo storage ready",
			zap.String("backend", storageLocal),
			zap.String("path", appCfg.StorageLocalPath),
			zap.String("url", appCfg.StorageLocalURL))
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage_type %q", appCfg.StorageType)
	}
}
