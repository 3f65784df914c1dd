package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/fitbite/backend/config"
)

// ImageService stores meal photos in S3. Uploads are optional: a scan
// still succeeds when no storage is configured, it just loses the photo.
type ImageService struct {
	s3 *config.S3Config
}

func NewImageService(s3cfg *config.S3Config) *ImageService {
	return &ImageService{s3: s3cfg}
}

// Enabled reports whether photo storage is configured.
func (s *ImageService) Enabled() bool {
	return s.s3 != nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}

// UploadMealPhoto decodes the base64 payload and stores it under a
// per-user key, returning the object's public URL.
func (s *ImageService) UploadMealPhoto(ctx context.Context, userID uuid.UUID, base64Data, mimeType string) (string, error) {
	if s.s3 == nil {
		return "", fmt.Errorf("photo storage is not configured")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	data, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return "", fmt.Errorf("invalid image data: %w", err)
	}

	key := fmt.Sprintf("meals/%s/%s.%s", userID, uuid.New(), extensionFor(mimeType))
	_, err = s.s3.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3.BucketName, key), nil
}
