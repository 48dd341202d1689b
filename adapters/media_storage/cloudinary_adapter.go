package media_storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/khoahotran/volc-friends/internal/application/service"
	"github.com/khoahotran/volc-friends/internal/config"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

type cloudinaryAdapter struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	logger    logger.Logger
}

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.Uploader, error) {
	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Info("Connect Cloudinary successfully.", zap.String("cloud_name", cfg.Cloudinary.CloudName))
	return &cloudinaryAdapter{cld: cld, cloudName: cfg.Cloudinary.CloudName, logger: log}, nil
}

func (a *cloudinaryAdapter) Provider() string { return ProviderCloudinary }

func (a *cloudinaryAdapter) Upload(ctx context.Context, file io.Reader, _ int64, folder, objectName, _ string) (string, error) {
	uploadParams := uploader.UploadParams{
		PublicID: strings.TrimSuffix(objectName, path.Ext(objectName)),
		Folder:   folder,
	}
	result, err := a.cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		return "", fmt.Errorf("failed to upload cloudinary: %w", err)
	}
	return result.SecureURL, nil
}

func (a *cloudinaryAdapter) Delete(ctx context.Context, rawURL string) error {
	publicID, ok := cloudinaryPublicID(a.cloudName, rawURL)
	if !ok {
		a.logger.Debug("Skip deleting foreign URL", zap.String("url", rawURL))
		return nil
	}
	_, err := a.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete cloudinary: %w", err)
	}
	return nil
}

// cloudinaryPublicID extracts "<folder>/<name>" from a delivery URL such as
// https://res.cloudinary.com/<cloud>/image/upload/v1712/<folder>/<name>.jpg.
func cloudinaryPublicID(cloudName, rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host != "res.cloudinary.com" {
		return "", false
	}
	parts := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	if len(parts) < 4 || parts[0] != cloudName || parts[2] != "upload" {
		return "", false
	}
	rest := parts[3:]
	if len(rest) > 1 && len(rest[0]) > 1 && rest[0][0] == 'v' && isDigits(rest[0][1:]) {
		rest = rest[1:]
	}
	id := strings.Join(rest, "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == "" {
		return "", false
	}
	return id, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
