package media

import (
	"bufio"
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/volc-friends/internal/application/service"
	"github.com/khoahotran/volc-friends/pkg/apperror"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

const uploadFolder = "uploads"

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type UploadPhotoUseCase struct {
	uploader service.Uploader
	maxBytes int64
	logger   logger.Logger
}

func NewUploadPhotoUseCase(u service.Uploader, maxBytes int64, log logger.Logger) *UploadPhotoUseCase {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &UploadPhotoUseCase{uploader: u, maxBytes: maxBytes, logger: log}
}

type UploadPhotoInput struct {
	File     io.Reader
	Size     int64
	Filename string
}

type UploadPhotoOutput struct {
	URL string
}

// Execute stores one image and returns its public URL. The type is sniffed
// from the content, not taken from the client.
func (uc *UploadPhotoUseCase) Execute(ctx context.Context, input UploadPhotoInput) (*UploadPhotoOutput, error) {
	if input.File == nil || input.Size <= 0 {
		return nil, fileViolation("required", "is required")
	}
	if input.Size > uc.maxBytes {
		return nil, fileViolation("max", "is too large")
	}

	br := bufio.NewReaderSize(input.File, 512)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, apperror.NewInvalidInput("failed to read uploaded file", err)
	}
	contentType := http.DetectContentType(head)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, fileViolation("image", "must be a JPEG, PNG, WebP or GIF image")
	}

	objectName := uuid.NewString() + ext
	url, err := uc.uploader.Upload(ctx, io.LimitReader(br, uc.maxBytes), input.Size, uploadFolder, objectName, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload photo", err, zap.String("provider", uc.uploader.Provider()))
		return nil, apperror.NewInternal("failed to upload photo", err)
	}

	uc.logger.Info("Photo uploaded", zap.String("url", url), zap.String("original_filename", input.Filename))
	return &UploadPhotoOutput{URL: url}, nil
}

func fileViolation(rule, msg string) error {
	return apperror.NewValidation([]apperror.FieldViolation{{Field: "file", Rule: rule, Message: msg}})
}
