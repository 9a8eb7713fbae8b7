package storefront

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	uploadEndpoint   = "/upload"
	uploadImageField = "image"
)

// uploadService implements the UploadService interface
type uploadService struct {
	client *Client
}

// Image uploads a single image and returns its URL
func (s *uploadService) Image(ctx context.Context, filename string, file io.Reader) (*UploadResult, error) {
	if file == nil {
		return nil, errors.Wrap(ErrInvalidRequest, "image data is required")
	}
	if filename == "" {
		filename = "image"
	}

	var result UploadResult
	if err := s.client.upload(ctx, uploadEndpoint, uploadImageField, filename, file, &result); err != nil {
		return nil, errors.Wrap(err, "failed to upload image")
	}

	return &result, nil
}

// ImageFile uploads an image from disk
func (s *uploadService) ImageFile(ctx context.Context, path string) (*UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image")
	}
	defer f.Close()

	return s.Image(ctx, filepath.Base(path), f)
}
