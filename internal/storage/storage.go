package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// UploadOptions conveys upload destination metadata.
type UploadOptions struct {
	Bucket      string
	Key         string
	ContentType string
}

// Service stores uploaded files in remote object storage. Locations are
// canonical "s3://bucket/key" strings; the raw location is never handed to
// clients directly.
type Service interface {
	UploadObject(ctx context.Context, body io.Reader, opts UploadOptions) (string, error)
	ObjectURL(ctx context.Context, location string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, location string) error
}

// ParseLocation splits an "s3://bucket/key" location into bucket and key.
func ParseLocation(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return "", "", fmt.Errorf("invalid s3 location")
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid s3 location")
	}
	return parts[0], parts[1], nil
}
