package handler

import (
	"net/http"
	"time"

	"evwarranty_backend/internal/technicians/service"
	"evwarranty_backend/internal/technicians/transport"
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
	rg.GET("", h.List)
	rg.POST("", httpkit.RequireRole(httpkit.RoleAdmin), h.Create)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/can-assign", h.CanAssign)
	rg.PATCH("/:id", httpkit.RequireRole(httpkit.RoleAdmin), h.Update)
}

func technicianID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	tech, err := h.svc.CreateTechnician(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, tech)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := technicianID(c)
	if !ok {
		return
	}
	var req transport.UpdateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	tech, err := h.svc.UpdateTechnician(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, tech)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := technicianID(c)
	if !ok {
		return
	}
	tech, err := h.svc.GetTechnician(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, tech)
}

// CanAssign answers whether work starting at the given time could be
// assigned to the technician. startTime defaults to now when omitted.
func (h *Handler) CanAssign(c *gin.Context) {
	id, ok := technicianID(c)
	if !ok {
		return
	}
	startTime := time.Now()
	if raw := c.Query("startTime"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "startTime must be RFC3339", nil)
			return
		}
		startTime = parsed
	}

	canAssign, err := h.svc.CanAssignWork(c.Request.Context(), id, startTime)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"canAssign": canAssign, "startTime": startTime})
}

func (h *Handler) List(c *gin.Context) {
	techs, err := h.svc.ListTechnicians(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, techs)
}
