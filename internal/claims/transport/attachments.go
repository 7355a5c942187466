package transport

import (
	"time"

	"github.com/google/uuid"
)

// PresignedUploadRequest asks for an upload URL for an evidence file.
type PresignedUploadRequest struct {
	FileName    string `json:"fileName" validate:"required,min=1,max=255"`
	ContentType string `json:"contentType" validate:"required"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,min=1"`
}

// PresignedUploadResponse carries the upload URL and the key the file will
// be stored under.
type PresignedUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileKey   string `json:"fileKey"`
	ExpiresAt int64  `json:"expiresAt"`
}

// CreateAttachmentRequest records a file after its upload succeeded.
type CreateAttachmentRequest struct {
	FileKey     string `json:"fileKey" validate:"required,max=512"`
	FileName    string `json:"fileName" validate:"required,min=1,max=255"`
	ContentType string `json:"contentType" validate:"required"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,min=1"`
}

// PresignedDownloadResponse carries a short-lived download URL.
type PresignedDownloadResponse struct {
	DownloadURL string `json:"downloadUrl"`
	ExpiresAt   int64  `json:"expiresAt"`
}

// AttachmentResponse is the API shape of a claim attachment.
type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	FileKey     string    `json:"fileKey"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedBy  uuid.UUID `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AttachmentListResponse wraps a claim's attachments.
type AttachmentListResponse struct {
	Items []AttachmentResponse `json:"items"`
}
