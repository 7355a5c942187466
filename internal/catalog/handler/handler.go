package handler

import (
	"net/http"

	"evwarranty_backend/internal/catalog/service"
	"evwarranty_backend/internal/catalog/transport"
	"evwarranty_backend/platform/httpkit"
	"evwarranty_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/parts", h.ListParts)
	rg.POST("/parts", httpkit.RequireRole(httpkit.RoleAdmin), h.CreatePart)
	rg.GET("/parts/:id", h.GetPart)
	rg.GET("/parts/sku/:sku", h.GetPartBySKU)
	rg.PATCH("/parts/:id", httpkit.RequireRole(httpkit.RoleAdmin), h.UpdatePart)
	rg.POST("/parts/:id/toggle-active", httpkit.RequireRole(httpkit.RoleAdmin), h.TogglePartActive)
}

func partID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) CreatePart(c *gin.Context) {
	var req transport.CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	part, err := h.svc.CreatePart(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, part)
}

func (h *Handler) UpdatePart(c *gin.Context) {
	id, ok := partID(c)
	if !ok {
		return
	}
	var req transport.UpdatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	part, err := h.svc.UpdatePart(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, part)
}

func (h *Handler) GetPart(c *gin.Context) {
	id, ok := partID(c)
	if !ok {
		return
	}
	part, err := h.svc.GetPart(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, part)
}

func (h *Handler) GetPartBySKU(c *gin.Context) {
	part, err := h.svc.GetPartBySKU(c.Request.Context(), c.Param("sku"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, part)
}

func (h *Handler) TogglePartActive(c *gin.Context) {
	id, ok := partID(c)
	if !ok {
		return
	}
	part, err := h.svc.TogglePartActive(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, part)
}

func (h *Handler) ListParts(c *gin.Context) {
	var q transport.ListPartsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	parts, err := h.svc.ListParts(c.Request.Context(), q)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, parts)
}
