package media_storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/khoahotran/volc-friends/internal/application/service"
	"github.com/khoahotran/volc-friends/internal/config"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

const (
	ProviderCloudinary = "cloudinary"
	ProviderMinio      = "minio"
	ProviderGCS        = "gcs"
)

// NewUploader picks the object storage backend named by storage.provider.
func NewUploader(ctx context.Context, cfg config.Config, log logger.Logger) (service.Uploader, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Provider)) {
	case "", ProviderCloudinary:
		return NewCloudinaryAdapter(cfg, log)
	case ProviderMinio:
		return NewMinioAdapter(ctx, cfg, log)
	case ProviderGCS:
		return NewGCSAdapter(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}

// objectKey strips baseURL from rawURL. ok is false for URLs outside baseURL.
func objectKey(baseURL, rawURL string) (string, bool) {
	prefix := strings.TrimRight(baseURL, "/") + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(rawURL, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	return key, key != ""
}
