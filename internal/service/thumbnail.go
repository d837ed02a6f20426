package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"
)

// maxThumbnailBytes bounds how much of a remote thumbnail is buffered.
const maxThumbnailBytes = 10 << 20

// ObjectPutter is the subset of the S3 client used to store thumbnails.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ThumbnailService copies video thumbnails into an S3 bucket so recipe image
// links outlive the short-lived CDN URLs returned by video platforms.
type ThumbnailService struct {
	client    *http.Client
	putter    ObjectPutter
	bucket    string
	objectURL func(key string) string
	logger    *log.Logger
}

// NewThumbnailService creates a ThumbnailService. objectURL maps an object key to its public URL.
func NewThumbnailService(putter ObjectPutter, bucket string, objectURL func(string) string, logger *log.Logger) *ThumbnailService {
	return &ThumbnailService{
		client:    &http.Client{Timeout: 30 * time.Second},
		putter:    putter,
		bucket:    bucket,
		objectURL: objectURL,
		logger:    logger,
	}
}

// Mirror downloads sourceURL and uploads it under a key derived from the video URL,
// so re-extracting a video overwrites its previous thumbnail.
func (s *ThumbnailService) Mirror(ctx context.Context, sourceURL, videoURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build thumbnail request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download thumbnail: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download thumbnail, status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxThumbnailBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read thumbnail: %w", err)
	}
	if len(data) > maxThumbnailBytes {
		return "", fmt.Errorf("thumbnail larger than %d bytes", maxThumbnailBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	key := thumbnailKey(videoURL, contentType)

	_, err = s.putter.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := s.objectURL(key)
	s.logger.Debug("thumbnail mirrored", "url", publicURL)
	return publicURL, nil
}

func thumbnailKey(videoURL, contentType string) string {
	sum := sha256.Sum256([]byte(videoURL))
	ext := ".jpg"
	switch {
	case strings.Contains(contentType, "png"):
		ext = ".png"
	case strings.Contains(contentType, "webp"):
		ext = ".webp"
	}
	return path.Join("thumbnails", hex.EncodeToString(sum[:16])+ext)
}
