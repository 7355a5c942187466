package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreatePolicyRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type ConditionRequest struct {
	VehicleModel  string     `json:"vehicleModel" validate:"required,min=1,max=100"`
	CoverageYears int        `json:"coverageYears" validate:"required,min=1,max=20"`
	CoverageKm    int        `json:"coverageKm" validate:"required,min=1"`
	EffectiveFrom time.Time  `json:"effectiveFrom" validate:"required"`
	EffectiveTo   *time.Time `json:"effectiveTo,omitempty"`
}

type EvaluateRequest struct {
	VehicleModel string    `json:"vehicleModel" validate:"required,min=1,max=100"`
	RegisteredAt time.Time `json:"registeredAt" validate:"required"`
	MileageKm    int       `json:"mileageKm" validate:"min=0"`
}

type ConditionResponse struct {
	ID            uuid.UUID  `json:"id"`
	PolicyID      uuid.UUID  `json:"policyId"`
	VehicleModel  string     `json:"vehicleModel"`
	CoverageYears int        `json:"coverageYears"`
	CoverageKm    int        `json:"coverageKm"`
	EffectiveFrom time.Time  `json:"effectiveFrom"`
	EffectiveTo   *time.Time `json:"effectiveTo,omitempty"`
}

type PolicyResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Description *string             `json:"description,omitempty"`
	Conditions  []ConditionResponse `json:"conditions,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type VerdictResponse struct {
	Eligible             bool     `json:"eligible"`
	Reasons              []string `json:"reasons"`
	AppliedCoverageYears int      `json:"appliedCoverageYears"`
	AppliedCoverageKm    int      `json:"appliedCoverageKm"`
}
