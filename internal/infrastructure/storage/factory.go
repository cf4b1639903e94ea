package storage

import (
	"context"
	"fmt"

	"github.com/oksasatya/user-admin/config"
	domain "github.com/oksasatya/user-admin/internal/domain/storage"
	"github.com/oksasatya/user-admin/pkg/helpers"
)

// New builds the BlobStore selected by cfg.BlobDriver. The returned close
// function releases any client the driver opened.
func New(ctx context.Context, cfg *config.Config) (domain.BlobStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.BlobDriver {
	case "local", "":
		s, err := NewLocalStore(cfg.PublicDir, cfg.PublicURL)
		return s, noop, err
	case "memory":
		return NewMemoryStore(), noop, nil
	case "gcs":
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, noop, fmt.Errorf("init gcs client: %w", err)
		}
		s, err := NewGCSStore(client, cfg.GCSBucket)
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return s, client.Close, nil
	case "s3":
		opts := S3Options{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			PublicURL:    cfg.S3PublicURL,
		}
		client, err := NewS3Client(ctx, opts)
		if err != nil {
			return nil, noop, fmt.Errorf("init s3 client: %w", err)
		}
		return NewS3Store(client, opts), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown blob driver %q", cfg.BlobDriver)
	}
}
