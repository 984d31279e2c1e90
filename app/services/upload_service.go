package services

import (
	"context"
	"fmt"
	"io"

	"github.com/shashiranjanraj/galeria/pkg/storage"
)

// Upload is the stored object's key and public URL.
type Upload struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

type UploadService struct {
	disk storage.Disk
	now  Clock
}

func NewUploadService(disk storage.Disk, now Clock) *UploadService {
	return &UploadService{disk: disk, now: orClock(now)}
}

// Store writes r under folder/<millis>-<sanitized filename>.
func (s *UploadService) Store(ctx context.Context, folder, filename, contentType string, r io.Reader) (*Upload, error) {
	key, err := storage.UploadPath(folder, filename, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.disk.Put(ctx, key, r, contentType); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	return &Upload{Path: key, URL: s.disk.URL(key)}, nil
}

// Remove deletes a previously stored object.
func (s *UploadService) Remove(ctx context.Context, path string) error {
	return s.disk.Delete(ctx, path)
}
