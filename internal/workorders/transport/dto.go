// Package transport defines the request and response shapes for the work
// orders API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateWorkOrderRequest opens a new work order against a claim.
type CreateWorkOrderRequest struct {
	ClaimID      uuid.UUID `json:"claimId" validate:"required"`
	TechnicianID uuid.UUID `json:"technicianId" validate:"required"`
	Description  string    `json:"description" validate:"required,min=3,max=500"`
}

// PartLineRequest is one consumed part reported at completion. Unit prices
// are resolved from the parts catalog by SKU, never taken from the caller.
type PartLineRequest struct {
	SKU      string `json:"sku" validate:"required,min=2,max=64"`
	Source   string `json:"source" validate:"required,oneof=OEM THIRD_PARTY"`
	Quantity int    `json:"quantity" validate:"required,min=1,max=1000"`
}

// CompleteWorkOrderRequest records the outcome of a work order.
type CompleteWorkOrderRequest struct {
	LaborHours float64           `json:"laborHours" validate:"required,gt=0,max=500"`
	Parts      []PartLineRequest `json:"parts" validate:"omitempty,dive"`
}

// PartLineResponse is the API shape of a consumed part.
type PartLineResponse struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Source    string `json:"source"`
	Quantity  int    `json:"quantity"`
	UnitCents int64  `json:"unitCents"`
}

// WorkOrderResponse is the API shape of a work order.
type WorkOrderResponse struct {
	ID           uuid.UUID          `json:"id"`
	ClaimID      uuid.UUID          `json:"claimId"`
	TechnicianID uuid.UUID          `json:"technicianId"`
	Description  string             `json:"description"`
	Status       string             `json:"status"`
	LaborHours   float64            `json:"laborHours"`
	Parts        []PartLineResponse `json:"parts"`
	PartsCents   int64              `json:"partsCents"`
	CreatedAt    time.Time          `json:"createdAt"`
	CompletedAt  *time.Time         `json:"completedAt,omitempty"`
}
