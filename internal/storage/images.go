// Package storage uploads product images to blob storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ImagePrefix is the key prefix every product image is stored under.
const ImagePrefix = "products/"

var ErrInvalidName = errors.New("invalid image name")

// ObjectKey builds the storage key for an uploaded file name.
func ObjectKey(name string) (string, error) {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "" || base == "." || base == "/" || base == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return ImagePrefix + base, nil
}

type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3ImageStore struct {
	client  S3API
	bucket  string
	baseURL string
}

// NewS3ImageStore stores images in bucket. Returned URLs are rooted at
// baseURL, or at the bucket's virtual-hosted endpoint when baseURL is empty.
func NewS3ImageStore(client S3API, bucket, region, baseURL string) *S3ImageStore {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3ImageStore{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *S3ImageStore) Upload(ctx context.Context, name, contentType string, size int64, body io.Reader) (string, error) {
	key, err := ObjectKey(name)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

// MemoryImageStore keeps uploads in memory for LOCAL_MODE.
type MemoryImageStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string][]byte
}

func NewMemoryImageStore(baseURL string) *MemoryImageStore {
	if baseURL == "" {
		baseURL = "memory://images"
	}
	return &MemoryImageStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

func (s *MemoryImageStore) Upload(_ context.Context, name, _ string, _ int64, body io.Reader) (string, error) {
	key, err := ObjectKey(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	s.mu.Lock()
	s.objects[key] = buf.Bytes()
	s.mu.Unlock()
	return s.baseURL + "/" + key, nil
}

func (s *MemoryImageStore) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[key]
	return b, ok
}
