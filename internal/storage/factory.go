package storage

import (
	"context"
	"fmt"

	"memotheque/internal/core/config"
)

// NewFromConfig 按配置构造主后端
func NewFromConfig(ctx context.Context, cfg config.Storage) (Store, error) {
	switch cfg.Backend {
	case "local":
		return NewLocal(cfg.LocalDir)
	case "s3":
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("s3 storage requires a bucket")
		}
		return NewS3(ctx, cfg.Bucket, cfg.Region, cfg.AccessKey, cfg.SecretKey)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
