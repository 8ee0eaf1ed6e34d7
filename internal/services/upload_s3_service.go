//go:generate go run go.uber.org/mock/mockgen -source=upload_s3_service.go -destination=../mocks/mock_presigner.go -package=mocks
package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	assistant_errors "assistant-chat/pkg/errors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxImageBytes caps a single message image.
const MaxImageBytes int64 = 10 << 20

// ObjectPresigner is the part of the S3 client the upload flow needs.
type ObjectPresigner interface {
	PresignPut(ctx context.Context, key, contentType string, sizeBytes int64) (string, map[string]string, error)
	FileURL(key string) string
}

type UploadS3Service struct {
	storage ObjectPresigner
	now     func() time.Time
}

type PresignInput struct {
	FileName    string
	ContentType string
	FileSize    int64
}

type PresignResult struct {
	UploadURL string
	UploadKey string
	FileURL   string
	Headers   map[string]string
}

func NewUploadS3Service(storage ObjectPresigner) *UploadS3Service {
	return &UploadS3Service{storage: storage, now: time.Now}
}

// CreatePresignedImageUpload hands out a presigned PUT for one image. The returned
// FileURL is what clients later attach to a message.
func (s *UploadS3Service) CreatePresignedImageUpload(ctx context.Context, input PresignInput) (PresignResult, error) {
	if s.storage == nil {
		return PresignResult{}, fmt.Errorf("s3 storage is not configured: %w", assistant_errors.ErrServiceUnavailable)
	}
	if strings.TrimSpace(input.FileName) == "" || input.FileSize < 0 || input.FileSize > MaxImageBytes {
		return PresignResult{}, assistant_errors.ErrInvalidInput
	}

	mtype := mimetype.Lookup(input.ContentType)
	if mtype == nil || !strings.HasPrefix(mtype.String(), "image/") {
		return PresignResult{}, fmt.Errorf("%q: %w", input.ContentType, assistant_errors.ErrUnsupportedMedia)
	}

	key := buildObjectKey(s.now().UTC(), uuid.New(), input.FileName, mtype.Extension())
	presignedURL, headers, err := s.storage.PresignPut(ctx, key, mtype.String(), input.FileSize)
	if err != nil {
		return PresignResult{}, err
	}

	return PresignResult{
		UploadURL: presignedURL,
		UploadKey: key,
		FileURL:   s.storage.FileURL(key),
		Headers:   headers,
	}, nil
}

// buildObjectKey prefers the extension of the declared content type over the file name.
func buildObjectKey(now time.Time, id uuid.UUID, fileName, mimeExt string) string {
	ext := mimeExt
	if ext == "" {
		ext = strings.ToLower(path.Ext(fileName))
	}
	return fmt.Sprintf("images/%04d/%02d/%s%s", now.Year(), int(now.Month()), id.String(), ext)
}
