package handler

import (
	"net/http"

	"evwarranty_backend/internal/warranty/service"
	"evwarranty_backend/internal/warranty/transport"
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
	rg.GET("/policies", h.ListPolicies)
	rg.POST("/policies", httpkit.RequireRole(httpkit.RoleAdmin), h.CreatePolicy)
	rg.GET("/policies/:id", h.GetPolicy)
	rg.POST("/policies/:id/conditions", httpkit.RequireRole(httpkit.RoleAdmin), h.AddCondition)
	rg.PUT("/conditions/:id", httpkit.RequireRole(httpkit.RoleAdmin), h.UpdateCondition)
	rg.POST("/evaluate", h.Evaluate)
}

func (h *Handler) CreatePolicy(c *gin.Context) {
	var req transport.CreatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	policy, err := h.svc.CreatePolicy(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, policy)
}

func (h *Handler) GetPolicy(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	policy, err := h.svc.GetPolicy(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, policy)
}

func (h *Handler) ListPolicies(c *gin.Context) {
	policies, err := h.svc.ListPolicies(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, policies)
}

func (h *Handler) AddCondition(c *gin.Context) {
	policyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	var req transport.ConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	cond, err := h.svc.AddCondition(c.Request.Context(), policyID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, cond)
}

func (h *Handler) UpdateCondition(c *gin.Context) {
	conditionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	var req transport.ConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	cond, err := h.svc.UpdateCondition(c.Request.Context(), conditionID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, cond)
}

// Evaluate runs an ad-hoc coverage check without touching any claim.
func (h *Handler) Evaluate(c *gin.Context) {
	var req transport.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	verdict, err := h.svc.Evaluate(c.Request.Context(), req.VehicleModel, req.RegisteredAt, req.MileageKm)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.VerdictResponse{
		Eligible:             verdict.Eligible,
		Reasons:              verdict.Reasons,
		AppliedCoverageYears: verdict.AppliedCoverageYears,
		AppliedCoverageKm:    verdict.AppliedCoverageKm,
	})
}
