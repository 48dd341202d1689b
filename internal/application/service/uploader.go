package service

import (
	"context"
	"io"
)

// Uploader stores binary objects and hands back a public URL. Only the URL is
// ever persisted on a user record.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, size int64, folder, objectName, contentType string) (string, error)
	// Delete removes an object previously returned by Upload. URLs that the
	// provider does not own are ignored.
	Delete(ctx context.Context, url string) error
	Provider() string
}
