package media_storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/khoahotran/volc-friends/internal/application/service"
	"github.com/khoahotran/volc-friends/internal/config"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

type minioAdapter struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  logger.Logger
}

// NewMinioAdapter connects to an S3 compatible endpoint and fails fast when
// the bucket is missing.
func NewMinioAdapter(ctx context.Context, cfg config.Config, log logger.Logger) (service.Uploader, error) {
	endpoint := cfg.Minio.Endpoint
	if endpoint == "" || cfg.Minio.Bucket == "" {
		return nil, fmt.Errorf("minio endpoint and bucket must be configured")
	}
	secure := strings.HasPrefix(endpoint, "https://")
	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot init minio: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Minio.Bucket)
	if err != nil {
		return nil, fmt.Errorf("cannot check minio bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("minio bucket %q does not exist", cfg.Minio.Bucket)
	}

	baseURL := strings.TrimRight(cfg.Minio.PublicBaseURL, "/")
	if baseURL == "" {
		scheme := "http"
		if secure {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, cfg.Minio.Bucket)
	}

	log.Info("Connect MinIO successfully.", zap.String("endpoint", endpoint), zap.String("bucket", cfg.Minio.Bucket))
	return &minioAdapter{client: client, bucket: cfg.Minio.Bucket, baseURL: baseURL, logger: log}, nil
}

func (a *minioAdapter) Provider() string { return ProviderMinio }

func (a *minioAdapter) Upload(ctx context.Context, file io.Reader, size int64, folder, objectName, contentType string) (string, error) {
	key := path.Join(folder, objectName)
	_, err := a.client.PutObject(ctx, a.bucket, key, file, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload minio: %w", err)
	}
	return a.baseURL + "/" + key, nil
}

func (a *minioAdapter) Delete(ctx context.Context, rawURL string) error {
	key, ok := objectKey(a.baseURL, rawURL)
	if !ok {
		a.logger.Debug("Skip deleting foreign URL", zap.String("url", rawURL))
		return nil
	}
	if err := a.client.RemoveObject(ctx, a.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete minio: %w", err)
	}
	return nil
}
