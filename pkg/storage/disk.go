// Package storage is the object store behind admin uploads: painting
// images, blog covers, music and videos for the home page and custom-order
// reference images.
//
// Two drivers are available:
//   - "local": files under STORAGE_LOCAL_ROOT, served by the app at /storage
//   - "s3":    any S3-compatible bucket (AWS S3, MinIO, R2)
//
//	storage.Connect(ctx)
//	key, _ := storage.UploadPath("blog-covers", "Portada Final.JPG", time.Now())
//	storage.Default().Put(ctx, key, file, "image/jpeg")
//	url := storage.Default().URL(key)
package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound    = errors.New("storage: object not found")
	ErrInvalidPath = errors.New("storage: invalid path")
)

// Disk is implemented by every driver. Paths are slash-separated keys
// relative to the disk root.
type Disk interface {
	Put(ctx context.Context, path string, r io.Reader, contentType string) error
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
	// URL returns the public URL of path.
	URL(path string) string
}
