package handler

import (
	"context"
	"net/http"

	"evwarranty_backend/internal/claims/service"
	"evwarranty_backend/internal/claims/transport"
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
	rg.POST("", h.CreateDraft)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/history", h.History)
	rg.GET("/:id/readiness", h.Readiness)
	rg.POST("/:id/intake", h.SubmitIntake)
	rg.PATCH("/:id/diagnostic", h.UpdateDiagnostic)
	rg.PUT("/:id/repair-config", h.UpdateRepairConfig)
	rg.POST("/:id/ready", h.MarkReadyForSubmission)
	rg.POST("/:id/submit", h.SubmitToEVM)
	rg.POST("/:id/approve", httpkit.RequireRole(httpkit.RoleEVMStaff), h.Approve)
	rg.POST("/:id/reject", httpkit.RequireRole(httpkit.RoleEVMStaff), h.Reject)
	rg.POST("/:id/resubmit", h.Resubmit)
	rg.POST("/:id/assign", h.AssignTechnician)
	rg.POST("/:id/complete-repair", h.CompleteRepair)
	rg.POST("/:id/inspection", h.PerformInspection)
	rg.POST("/:id/handover", h.HandoverVehicle)
	rg.POST("/:id/close", h.CloseClaim)
	rg.PATCH("/:id/payment-status", h.UpdatePaymentStatus)
	// Warranty eligibility
	rg.POST("/:id/warranty-recheck", h.RecheckWarranty)
	rg.POST("/:id/warranty-override", h.OverrideEligibility)
	rg.POST("/:id/warranty-override/confirm", httpkit.RequireRole(httpkit.RoleEVMStaff), h.ConfirmOverride)
	// Cancellation sub-flow
	rg.POST("/:id/cancel-request", h.RequestCancel)
	rg.POST("/:id/cancel-accept", h.AcceptCancel)
	rg.POST("/:id/cancel-reject", h.RejectCancel)
	rg.POST("/:id/cancel-handover", h.ConfirmHandoverCancel)
	rg.POST("/:id/cancel-reopen", h.ReopenAfterCancel)
}

// RegisterPublicRoutes mounts the tokenized, unauthenticated tracking view.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/claims/track/:token", h.Track)
}

func (h *Handler) actor(c *gin.Context) (service.Actor, bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return service.Actor{}, false
	}
	return service.Actor{ID: id.UserID(), Roles: id.Roles()}, true
}

func claimID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) CreateDraft(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req transport.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	claim, err := h.svc.CreateDraft(c.Request.Context(), actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, claim)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}
	claim, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, claim)
}

func (h *Handler) List(c *gin.Context) {
	var query transport.ListClaimsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	result, err := h.svc.List(c.Request.Context(), query)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) History(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}
	history, err := h.svc.History(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, history)
}

func (h *Handler) Readiness(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}
	readiness, err := h.svc.Readiness(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, readiness)
}

func (h *Handler) SubmitIntake(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := claimID(c)
	if !ok {
		return
	}
	var req transport.SubmitIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	claim, err := h.svc.SubmitIntake(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, claim)
}

func (h *Handler) UpdateDiagnostic(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := claimID(c)
	if !ok {
		return
	}
	var req transport.UpdateDiagnosticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	claim, err := h.svc.UpdateDiagnostic(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, claim)
}

func (h *Handler) UpdateRepairConfig(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := claimID(c)
	if !ok {
		return
	}
	var req transport.UpdateRepairConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	claim, err := h.svc.UpdateRepairConfig(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, claim)
}

func (h *Handler) MarkReadyForSubmission(c *gin.Context) {
	h.simpleCommand(c, h.svc.MarkReadyForSubmission)
}

func (h *Handler) SubmitToEVM(c *gin.Context) {
	h.simpleCommand(c, h.svc.SubmitToEVM)
}

func (h *Handler) Approve(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := claimID(c)
	if !ok {
		return
	}
	var req transport.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	claim, err := h.svc.Approve(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, claim)
}

func (h *Handler) Reject(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := claimID(c)
	if !ok {
		return
	}
	var req transport.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	claim, err := h.svc.Reject(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, claim)
}

func (h *Handler) Resubmit(c *gin.Context) {
	h.simpleCommand(c, h.svc.Resubmit)
}

func (h *Handler) AssignTechnician(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := claimID(c)
	if !ok {
		return
	}
	var req transport.AssignTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	claim, err := h.svc.AssignTechnician(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, claim)
}

func (h *Handler) CompleteRepair(c *gin.Context) {
	h.simpleCommand(c, h.svc.CompleteRepair)
}

func (h *Handler) PerformInspection(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := claimID(c)
	if !ok {
		return
	}
	var req transport.PerformInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	claim, err := h.svc.PerformInspection(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, claim)
}

func (h *Handler) HandoverVehicle(c *gin.Context) {
	h.simpleCommand(c, h.svc.HandoverVehicle)
}

func (h *Handler) CloseClaim(c *gin.Context) {
	h.simpleCommand(c, h.svc.CloseClaim)
}

func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := claimID(c)
	if !ok {
		return
	}
	var req transport.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	claim, err := h.svc.UpdatePaymentStatus(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, claim)
}

func (h *Handler) RequestCancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := claimID(c)
	if !ok {
		return
	}
	var req transport.RequestCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	claim, err := h.svc.RequestCancel(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, claim)
}

func (h *Handler) AcceptCancel(c *gin.Context) {
	h.simpleCommand(c, h.svc.AcceptCancel)
}

func (h *Handler) RejectCancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := claimID(c)
	if !ok {
		return
	}
	var req transport.RejectCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	claim, err := h.svc.RejectCancel(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, claim)
}

func (h *Handler) ConfirmHandoverCancel(c *gin.Context) {
	h.simpleCommand(c, h.svc.ConfirmHandoverCancel)
}

func (h *Handler) ReopenAfterCancel(c *gin.Context) {
	h.simpleCommand(c, h.svc.ReopenAfterCancel)
}

func (h *Handler) RecheckWarranty(c *gin.Context) {
	h.simpleCommand(c, h.svc.RecheckWarranty)
}

func (h *Handler) OverrideEligibility(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := claimID(c)
	if !ok {
		return
	}
	var req transport.OverrideEligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	claim, err := h.svc.OverrideEligibility(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, claim)
}

func (h *Handler) ConfirmOverride(c *gin.Context) {
	h.simpleCommand(c, h.svc.ConfirmOverride)
}

func (h *Handler) Track(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	view, err := h.svc.TrackByToken(c.Request.Context(), token)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, view)
}

// simpleCommand handles the lifecycle commands that carry no request body.
func (h *Handler) simpleCommand(c *gin.Context, cmd func(ctx context.Context, actor service.Actor, id uuid.UUID) (transport.ClaimResponse, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := claimID(c)
	if !ok {
		return
	}
	claim, err := cmd(c.Request.Context(), actor, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, claim)
}
