package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	mediaUC "github.com/khoahotran/volc-friends/internal/application/usecase/media"
	"github.com/khoahotran/volc-friends/pkg/apperror"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 1 << 20

type MediaHandler struct {
	uploadPhotoUC *mediaUC.UploadPhotoUseCase
	maxBytes      int64
	logger        logger.Logger
}

func NewMediaHandler(uploadUC *mediaUC.UploadPhotoUseCase, maxBytes int64, log logger.Logger) *MediaHandler {
	return &MediaHandler{uploadPhotoUC: uploadUC, maxBytes: maxBytes, logger: log}
}

func (h *MediaHandler) UploadPhoto(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(apperror.NewValidation([]apperror.FieldViolation{{Field: "file", Rule: "max", Message: "is too large"}}))
			return
		}
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return
	}
	defer file.Close()

	output, err := h.uploadPhotoUC.Execute(c.Request.Context(), mediaUC.UploadPhotoInput{
		File:     file,
		Size:     fileHeader.Size,
		Filename: fileHeader.Filename,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": output.URL})
}
