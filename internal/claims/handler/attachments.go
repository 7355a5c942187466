package handler

import (
	"fmt"
	"net/http"

	"evwarranty_backend/internal/adapters/storage"
	"evwarranty_backend/internal/claims/repository"
	"evwarranty_backend/internal/claims/transport"
	"evwarranty_backend/platform/httpkit"
	"evwarranty_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AttachmentsHandler handles evidence file uploads for claims. It is only
// mounted when object storage is configured.
type AttachmentsHandler struct {
	repo    *repository.Repository
	storage storage.Service
	bucket  string
	val     *validator.Validator
}

// NewAttachmentsHandler creates a new attachments handler.
func NewAttachmentsHandler(repo *repository.Repository, storageSvc storage.Service, bucket string, val *validator.Validator) *AttachmentsHandler {
	return &AttachmentsHandler{repo: repo, storage: storageSvc, bucket: bucket, val: val}
}

// RegisterRoutes adds attachment routes under /claims/:id/attachments.
func (h *AttachmentsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/presign", h.GetPresignedUploadURL)
	rg.POST("", h.CreateAttachment)
	rg.GET("", h.ListAttachments)
	rg.GET("/:attachmentId/download", h.GetDownloadURL)
	rg.DELETE("/:attachmentId", h.DeleteAttachment)
}

// GetPresignedUploadURL generates a presigned URL for uploading an evidence
// file.
func (h *AttachmentsHandler) GetPresignedUploadURL(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}

	var req transport.PresignedUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.storage.ValidateContentType(req.ContentType); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "file type not allowed", nil)
		return
	}
	if err := h.storage.ValidateFileSize(req.SizeBytes); err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	// The claim must exist before evidence can be attached.
	claim, err := h.repo.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	folder := fmt.Sprintf("claims/%s", claim.ID.String())
	presigned, err := h.storage.GenerateUploadURL(c.Request.Context(), h.bucket, folder, req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to generate upload URL", nil)
		return
	}

	httpkit.OK(c, transport.PresignedUploadResponse{
		UploadURL: presigned.URL,
		FileKey:   presigned.FileKey,
		ExpiresAt: presigned.ExpiresAt.Unix(),
	})
}

// CreateAttachment records an evidence file after a successful upload.
func (h *AttachmentsHandler) CreateAttachment(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := claimID(c)
	if !ok {
		return
	}

	var req transport.CreateAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	claim, err := h.repo.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	att, err := h.repo.CreateAttachment(c.Request.Context(), repository.CreateAttachmentParams{
		ClaimID:     claim.ID,
		FileKey:     req.FileKey,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		UploadedBy:  identity.UserID(),
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, toAttachmentResponse(att))
}

// ListAttachments returns a claim's evidence files.
func (h *AttachmentsHandler) ListAttachments(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}

	attachments, err := h.repo.ListAttachments(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.AttachmentResponse, len(attachments))
	for i, att := range attachments {
		items[i] = toAttachmentResponse(att)
	}
	httpkit.OK(c, transport.AttachmentListResponse{Items: items})
}

// GetDownloadURL generates a presigned URL for downloading an evidence file.
func (h *AttachmentsHandler) GetDownloadURL(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}
	attachmentID, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	att, err := h.repo.GetAttachmentByID(c.Request.Context(), attachmentID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	presigned, err := h.storage.GenerateDownloadURL(c.Request.Context(), h.bucket, att.FileKey)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to generate download URL", nil)
		return
	}

	httpkit.OK(c, transport.PresignedDownloadResponse{
		DownloadURL: presigned.URL,
		ExpiresAt:   presigned.ExpiresAt.Unix(),
	})
}

// DeleteAttachment removes the record and the stored file.
func (h *AttachmentsHandler) DeleteAttachment(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}
	attachmentID, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	att, err := h.repo.GetAttachmentByID(c.Request.Context(), attachmentID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	if err := h.storage.DeleteObject(c.Request.Context(), h.bucket, att.FileKey); err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to delete file from storage", nil)
		return
	}
	if err := h.repo.DeleteAttachment(c.Request.Context(), attachmentID, id); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"message": "attachment deleted"})
}

func toAttachmentResponse(att repository.Attachment) transport.AttachmentResponse {
	return transport.AttachmentResponse{
		ID:          att.ID,
		FileKey:     att.FileKey,
		FileName:    att.FileName,
		ContentType: att.ContentType,
		SizeBytes:   att.SizeBytes,
		UploadedBy:  att.UploadedBy,
		CreatedAt:   att.CreatedAt,
	}
}
