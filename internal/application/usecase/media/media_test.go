package media

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/volc-friends/internal/application/usecase/usecasetest"
	"github.com/khoahotran/volc-friends/internal/domain/user"
	"github.com/khoahotran/volc-friends/pkg/apperror"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestUploadPhoto_StoresUnderUploads(t *testing.T) {
	up := usecasetest.NewMemoryUploader()
	uc := NewUploadPhotoUseCase(up, 1024, logger.NewNop())

	out, err := uc.Execute(context.Background(), UploadPhotoInput{
		File: bytes.NewReader(pngHeader), Size: int64(len(pngHeader)), Filename: "me.png",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.URL, "mem://uploads/"), out.URL)
	assert.True(t, strings.HasSuffix(out.URL, ".png"), out.URL)
	assert.Equal(t, pngHeader, up.Objects[out.URL])
}

func TestUploadPhoto_RejectsNonImages(t *testing.T) {
	uc := NewUploadPhotoUseCase(usecasetest.NewMemoryUploader(), 1024, logger.NewNop())
	body := []byte("#!/bin/sh\necho hi\n")

	_, err := uc.Execute(context.Background(), UploadPhotoInput{File: bytes.NewReader(body), Size: int64(len(body))})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "image", appErr.Violations[0].Rule)
}

func TestUploadPhoto_SizeLimits(t *testing.T) {
	uc := NewUploadPhotoUseCase(usecasetest.NewMemoryUploader(), 10, logger.NewNop())

	_, err := uc.Execute(context.Background(), UploadPhotoInput{File: bytes.NewReader(pngHeader), Size: int64(len(pngHeader))})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = uc.Execute(context.Background(), UploadPhotoInput{File: bytes.NewReader(nil), Size: 0})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestUploadPhoto_ProviderFailure(t *testing.T) {
	up := usecasetest.NewMemoryUploader()
	up.FailWith = errors.New("bucket gone")
	uc := NewUploadPhotoUseCase(up, 1024, logger.NewNop())

	_, err := uc.Execute(context.Background(), UploadPhotoInput{File: bytes.NewReader(pngHeader), Size: int64(len(pngHeader))})
	assert.ErrorIs(t, err, apperror.ErrInternal)
}

func TestProcessUserEvent_PurgesPhotosOnDelete(t *testing.T) {
	up := usecasetest.NewMemoryUploader()
	up.Objects["mem://uploads/a.png"] = []byte("a")
	up.Objects["mem://uploads/b.png"] = []byte("b")
	uc := NewProcessUserEventUseCase(up, logger.NewNop())

	err := uc.Execute(context.Background(), user.Event{
		Type:      user.EventDeleted,
		UserID:    7,
		PhotoURLs: []string{"mem://uploads/a.png", "https://elsewhere/x.png", "mem://uploads/b.png"},
	})
	require.NoError(t, err)
	assert.Empty(t, up.Objects)
	assert.Equal(t, []string{"mem://uploads/a.png", "mem://uploads/b.png"}, up.Deleted)
}

func TestProcessUserEvent_IgnoresOtherEvents(t *testing.T) {
	up := usecasetest.NewMemoryUploader()
	up.Objects["mem://uploads/a.png"] = []byte("a")

	err := NewProcessUserEventUseCase(up, logger.NewNop()).Execute(context.Background(), user.Event{
		Type: user.EventProfileUpdated, PhotoURLs: []string{"mem://uploads/a.png"},
	})
	require.NoError(t, err)
	assert.Len(t, up.Objects, 1)
}
