package media_storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/khoahotran/volc-friends/internal/application/service"
	"github.com/khoahotran/volc-friends/internal/config"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

const gcsPublicHost = "https://storage.googleapis.com"

type gcsAdapter struct {
	client  *storage.Client
	bucket  string
	baseURL string
	logger  logger.Logger
}

// NewGCSAdapter uses Application Default Credentials unless a credentials file
// is configured.
func NewGCSAdapter(ctx context.Context, cfg config.Config, log logger.Logger) (service.Uploader, error) {
	if cfg.GCS.Bucket == "" {
		return nil, fmt.Errorf("gcs bucket has not config")
	}

	var opts []option.ClientOption
	if cfg.GCS.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCS.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot init gcs: %w", err)
	}

	log.Info("Connect GCS successfully.", zap.String("bucket", cfg.GCS.Bucket))
	return &gcsAdapter{
		client:  client,
		bucket:  cfg.GCS.Bucket,
		baseURL: gcsPublicHost + "/" + cfg.GCS.Bucket,
		logger:  log,
	}, nil
}

func (a *gcsAdapter) Provider() string { return ProviderGCS }

func (a *gcsAdapter) Upload(ctx context.Context, file io.Reader, _ int64, folder, objectName, contentType string) (string, error) {
	key := path.Join(folder, objectName)
	wc := a.client.Bucket(a.bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0
	if _, err := io.Copy(wc, file); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("failed to upload gcs: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to upload gcs: %w", err)
	}
	return a.baseURL + "/" + key, nil
}

func (a *gcsAdapter) Delete(ctx context.Context, rawURL string) error {
	key, ok := objectKey(a.baseURL, rawURL)
	if !ok {
		a.logger.Debug("Skip deleting foreign URL", zap.String("url", rawURL))
		return nil
	}
	err := a.client.Bucket(a.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete gcs: %w", err)
	}
	return nil
}
