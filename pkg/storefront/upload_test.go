package storefront

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUploadService_Image(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	data := strings.NewReader("png-bytes")
	mockTransport.On("Upload", mock.Anything, "/upload", "image", "logo.png", data, mock.Anything).
		Return(`{"url":"/uploads/logo.png"}`, nil)

	result, err := client.Upload.Image(context.Background(), "logo.png", data)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/logo.png", result.URL)
	mockTransport.AssertExpectations(t)
}

func TestUploadService_ImageDefaultFilename(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	mockTransport.On("Upload", mock.Anything, "/upload", "image", "image", mock.Anything, mock.Anything).
		Return(`{"url":"/uploads/image"}`, nil)

	_, err := client.Upload.Image(context.Background(), "", strings.NewReader("x"))
	require.NoError(t, err)
	mockTransport.AssertExpectations(t)
}

func TestUploadService_ImageMissingURL(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	mockTransport.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{}`, nil)

	_, err := client.Upload.Image(context.Background(), "a.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestUploadService_ImageNilReader(t *testing.T) {
	client := newMockClient(&MockTransport{})

	_, err := client.Upload.Image(context.Background(), "a.png", nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestUploadService_ImageFile(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	path := filepath.Join(t.TempDir(), "banner.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpg-bytes"), 0600))

	mockTransport.On("Upload", mock.Anything, "/upload", "image", "banner.jpg", mock.Anything, mock.Anything).
		Return(`{"url":"/uploads/banner.jpg"}`, nil)

	result, err := client.Upload.ImageFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/banner.jpg", result.URL)
	mockTransport.AssertExpectations(t)
}

func TestUploadService_ImageFileMissing(t *testing.T) {
	client := newMockClient(&MockTransport{})

	_, err := client.Upload.ImageFile(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open image")
}
