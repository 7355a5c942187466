package storage

import (
	"fmt"
	"strings"
)

// AllowedContentTypes lists the MIME types accepted as claim evidence:
// damage photos, diagnostic reports, and repair footage.
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,

	"application/pdf": true,
	"text/plain":      true,
	"text/csv":        true,

	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
}

// ValidateContentType checks whether the content type is allowed.
func (s *MinIOService) ValidateContentType(contentType string) error {
	// Strip parameters like charset before matching.
	normalized := strings.Split(contentType, ";")[0]
	normalized = strings.TrimSpace(strings.ToLower(normalized))

	if !AllowedContentTypes[normalized] {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

// ValidateFileSize checks whether the file size is within limits.
func (s *MinIOService) ValidateFileSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("file size must be greater than 0")
	}
	if sizeBytes > s.maxFileSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of %d bytes", sizeBytes, s.maxFileSize)
	}
	return nil
}

// IsImageContentType reports whether the content type is an image.
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "image/")
}
