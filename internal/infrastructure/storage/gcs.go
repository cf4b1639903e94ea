package storage

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"

	domain "github.com/oksasatya/user-admin/internal/domain/storage"
	"github.com/oksasatya/user-admin/pkg/helpers"
)

// GCSStore keeps blobs in a Google Cloud Storage bucket with public read access.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(client *storage.Client, bucket string) (*GCSStore, error) {
	if client == nil || bucket == "" {
		return nil, errors.New("gcs not configured")
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Put(ctx context.Context, namespace string, r io.Reader, ext, contentType string) (string, error) {
	key := newKey(namespace, ext)
	if err := helpers.UploadObject(ctx, s.client, s.bucket, key, contentType, r); err != nil {
		return "", err
	}
	return key, nil
}

func (s *GCSStore) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.Bucket(s.bucket).Object(path).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (s *GCSStore) Delete(ctx context.Context, path string) error {
	err := s.client.Bucket(s.bucket).Object(path).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (s *GCSStore) URL(path string) string {
	return helpers.PublicURL(s.bucket, path)
}

var _ domain.BlobStore = (*GCSStore)(nil)
