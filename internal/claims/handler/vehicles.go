package handler

import (
	"net/http"

	"evwarranty_backend/internal/claims/transport"
	"evwarranty_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterVehicleRoutes mounts the vehicle registry routes.
func (h *Handler) RegisterVehicleRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.RegisterVehicle)
	rg.GET("/:id", h.GetVehicle)
	rg.PATCH("/:id/mileage", h.UpdateVehicleMileage)
}

func (h *Handler) RegisterVehicle(c *gin.Context) {
	var req transport.RegisterVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	vehicle, err := h.svc.RegisterVehicle(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, vehicle)
}

func (h *Handler) GetVehicle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	vehicle, err := h.svc.GetVehicle(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, vehicle)
}

func (h *Handler) UpdateVehicleMileage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	var req transport.UpdateMileageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	vehicle, err := h.svc.UpdateVehicleMileage(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, vehicle)
}
