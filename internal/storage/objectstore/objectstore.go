// Package objectstore keeps event exports in an S3 compatible bucket.
package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gravadigital/huddle-api/internal/config"
	"github.com/gravadigital/huddle-api/internal/logger"
)

// MinioStore writes JSON documents to one bucket and hands out
// time-limited download links for them
type MinioStore struct {
	client *minio.Client
	bucket string
	log    *log.Logger
}

// New connects to the configured endpoint and makes sure the bucket exists
func New(ctx context.Context, cfg *config.Config) (*MinioStore, error) {
	log := logger.Client("minio")

	if cfg.Storage.Endpoint == "" {
		return nil, fmt.Errorf("object storage endpoint is not configured")
	}

	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	store := &MinioStore{client: client, bucket: cfg.Storage.Bucket, log: log}
	if err := store.ensureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("Object storage ready", "endpoint", cfg.Storage.Endpoint, "bucket", cfg.Storage.Bucket)
	return store, nil
}

func (s *MinioStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.log.Info("Created bucket", "bucket", s.bucket)
	return nil
}

// PutJSON stores v as a JSON document under key, replacing any previous one
func (s *MinioStore) PutJSON(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		s.log.Error("Failed to upload object", "key", key, "error", err)
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	s.log.Debug("Uploaded object", "key", key, "size", info.Size)
	return nil
}

// PresignedURL returns a GET link to key valid for ttl
func (s *MinioStore) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return u.String(), nil
}
