// Package storage provides object storage for product images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/catalog"
	infraconfig "github.com/KirshnaLighting/Krishna-Lighting/internal/infrastructure/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// Ensure S3ImageStore implements ImageStore
var _ catalog.ImageStore = (*S3ImageStore)(nil)

// S3ImageStore stores product images in an S3-compatible bucket.
// It works against AWS S3 as well as MinIO and other compatible backends.
type S3ImageStore struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	logger        *zap.Logger
}

// S3ImageStoreOption is a functional option for configuring S3ImageStore
type S3ImageStoreOption func(*S3ImageStore)

// WithLogger sets a custom logger for S3ImageStore
func WithLogger(logger *zap.Logger) S3ImageStoreOption {
	return func(s *S3ImageStore) {
		s.logger = logger
	}
}

// NewS3ImageStore creates a new S3ImageStore from configuration
func NewS3ImageStore(cfg *infraconfig.StorageConfig, opts ...S3ImageStoreOption) (*S3ImageStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("storage credentials are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	store := &S3ImageStore{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Release deletes stored images that are no longer referenced by any
// product. Unparseable references are skipped; the first delete error is
// returned after attempting the rest.
func (s *S3ImageStore) Release(ctx context.Context, refs []string) error {
	var firstErr error
	for _, ref := range refs {
		key := s.objectKey(ref)
		if key == "" {
			s.logger.Warn("skipping unrecognized image reference", zap.String("ref", ref))
			continue
		}

		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			s.logger.Warn("failed to delete image object",
				zap.String("key", key),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// GenerateUploadURL creates a presigned PUT URL so the admin UI can upload
// an image directly to the bucket
func (s *S3ImageStore) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("object key is required")
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}

	presignReq, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate upload URL: %w", err)
	}

	return presignReq.URL, time.Now().Add(expiresIn), nil
}

// objectKey extracts the bucket key from an image reference. References may
// be bare keys or full URLs produced by earlier uploads.
func (s *S3ImageStore) objectKey(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if !strings.Contains(ref, "://") {
		return strings.TrimPrefix(ref, "/")
	}

	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	path := strings.TrimPrefix(u.Path, "/")
	// Path-style URLs carry the bucket as the first segment
	if rest, ok := strings.CutPrefix(path, s.bucket+"/"); ok {
		return rest
	}
	return path
}
