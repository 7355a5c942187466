package handler

import (
	"net/http"

	"evwarranty_backend/internal/workorders/service"
	"evwarranty_backend/internal/workorders/transport"
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
	rg.GET("", h.ListForClaim)
	rg.POST("", httpkit.RequireRole(httpkit.RoleTechnician), h.Create)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/complete", httpkit.RequireRole(httpkit.RoleTechnician), h.Complete)
}

func workOrderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	order, err := h.svc.CreateWorkOrder(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, order)
}

func (h *Handler) Complete(c *gin.Context) {
	id, ok := workOrderID(c)
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	var req transport.CompleteWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	order, err := h.svc.CompleteWorkOrder(c.Request.Context(), identity.UserID(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, order)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := workOrderID(c)
	if !ok {
		return
	}
	order, err := h.svc.GetWorkOrder(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, order)
}

func (h *Handler) ListForClaim(c *gin.Context) {
	claimID, err := uuid.Parse(c.Query("claimId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "claimId query parameter is required", nil)
		return
	}
	orders, err := h.svc.ListForClaim(c.Request.Context(), claimID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, orders)
}
