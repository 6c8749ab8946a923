package app

import (
	"context"
	"fmt"

	"github.com/brandvault/brandvault-backend/internal/platform/blob"
	"github.com/brandvault/brandvault-backend/internal/platform/logger"
)

func wireBlobStore(cfg Config, log *logger.Logger) (blob.Store, error) {
	switch cfg.StorageProvider {
	case "s3":
		if cfg.S3Endpoint == "" {
			return nil, fmt.Errorf("STORAGE_PROVIDER=s3 requires S3_ENDPOINT")
		}
		log.Info("Using S3-compatible blob storage", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		return blob.NewMinioStore(context.Background(), blob.MinioConfig{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
	case "local", "":
		log.Info("Using local disk blob storage", "root", cfg.StorageRoot)
		return blob.NewLocalStore(cfg.StorageRoot)
	default:
		return nil, fmt.Errorf("unknown STORAGE_PROVIDER %q", cfg.StorageProvider)
	}
}
