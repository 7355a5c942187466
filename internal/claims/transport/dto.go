package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDraftRequest struct {
	VehicleID       uuid.UUID `json:"vehicleId" validate:"required"`
	CustomerName    string    `json:"customerName" validate:"required,min=1,max=200"`
	CustomerPhone   string    `json:"customerPhone" validate:"required,min=5,max=20"`
	CustomerEmail   string    `json:"customerEmail" validate:"required,email"`
	ReportedFailure string    `json:"reportedFailure" validate:"required,min=1,max=2000"`
}

type SubmitIntakeRequest struct {
	MileageKm int `json:"mileageKm" validate:"required,min=0"`
}

type UpdateDiagnosticRequest struct {
	InitialDiagnosis   *string `json:"initialDiagnosis,omitempty" validate:"omitempty,max=4000"`
	TechnicalDiagnosis *string `json:"technicalDiagnosis,omitempty" validate:"omitempty,max=4000"`
	ProblemType        *string `json:"problemType,omitempty" validate:"omitempty,max=100"`
	ProblemDescription *string `json:"problemDescription,omitempty" validate:"omitempty,max=4000"`
	TestResults        *string `json:"testResults,omitempty" validate:"omitempty,max=4000"`
	RepairNotes        *string `json:"repairNotes,omitempty" validate:"omitempty,max=4000"`
}

type ServiceItemRequest struct {
	Code           string `json:"code" validate:"required,min=1,max=50"`
	Description    string `json:"description" validate:"required,min=1,max=500"`
	Quantity       int    `json:"quantity" validate:"required,min=1"`
	UnitPriceCents int64  `json:"unitPriceCents" validate:"min=0"`
}

type UpdateRepairConfigRequest struct {
	RepairType   string               `json:"repairType" validate:"required,oneof=EVM_REPAIR SC_REPAIR"`
	ServiceItems []ServiceItemRequest `json:"serviceItems" validate:"dive"`
}

type ApproveRequest struct {
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	// ApprovedCostCents is the warranty amount the manufacturer pays,
	// entered by EVM staff for EVM repairs.
	ApprovedCostCents *int64 `json:"approvedCostCents,omitempty" validate:"omitempty,min=0"`
}

type RejectRequest struct {
	Reason string  `json:"reason" validate:"required,min=1,max=500"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type AssignTechnicianRequest struct {
	// TechnicianID pins a specific technician; when nil the coordinator
	// picks the best available one matching the criteria below.
	TechnicianID *uuid.UUID `json:"technicianId,omitempty"`
	// Specialty constrains the pick; empty defaults to the diagnosed
	// problem type.
	Specialty             string `json:"specialty,omitempty" validate:"omitempty,min=2,max=100"`
	MinCertificationLevel int    `json:"minCertificationLevel,omitempty" validate:"omitempty,min=1,max=5"`
}

type PerformInspectionRequest struct {
	Outcome string  `json:"outcome" validate:"required,oneof=PASSED FAILED"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=UNPAID INVOICED PAID"`
}

type RequestCancelRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=1000"`
}

type RejectCancelRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=1000"`
}

type OverrideEligibilityRequest struct {
	Assessment string `json:"assessment" validate:"required,min=1,max=2000"`
}

type RegisterVehicleRequest struct {
	VIN          string    `json:"vin" validate:"required,min=11,max=17"`
	Model        string    `json:"model" validate:"required,min=1,max=100"`
	RegisteredAt time.Time `json:"registeredAt" validate:"required"`
	MileageKm    int       `json:"mileageKm" validate:"min=0"`
}

type UpdateMileageRequest struct {
	MileageKm int `json:"mileageKm" validate:"required,min=0"`
}

type ListClaimsQuery struct {
	Status    string `form:"status"`
	VehicleID string `form:"vehicleId"`
	Search    string `form:"search"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// Response DTOs

type DiagnosticResponse struct {
	ReportedFailure    string  `json:"reportedFailure"`
	InitialDiagnosis   *string `json:"initialDiagnosis,omitempty"`
	TechnicalDiagnosis *string `json:"technicalDiagnosis,omitempty"`
	ProblemType        *string `json:"problemType,omitempty"`
	ProblemDescription *string `json:"problemDescription,omitempty"`
	TestResults        *string `json:"testResults,omitempty"`
	RepairNotes        *string `json:"repairNotes,omitempty"`
}

type CostResponse struct {
	WarrantyCostCents   int64   `json:"warrantyCostCents"`
	CompanyPaidCents    int64   `json:"companyPaidCents"`
	TotalServiceCents   int64   `json:"totalServiceCents"`
	TotalPartsCents     int64   `json:"totalPartsCents"`
	TotalEstimatedCents int64   `json:"totalEstimatedCents"`
	LaborHours          float64 `json:"laborHours"`
}

type ApprovalResponse struct {
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	ResubmitCount   int        `json:"resubmitCount"`
	RejectionCount  int        `json:"rejectionCount"`
	CanResubmit     bool       `json:"canResubmit"`
}

type AssignmentResponse struct {
	TechnicianID uuid.UUID `json:"technicianId"`
	AssignedAt   time.Time `json:"assignedAt"`
}

type EligibilityResponse struct {
	Eligible          bool       `json:"eligible"`
	AutoCheckResult   bool       `json:"autoCheckResult"`
	AutoCheckReasons  []string   `json:"autoCheckReasons"`
	CheckedAt         *time.Time `json:"checkedAt,omitempty"`
	MileageAtCheck    int        `json:"mileageAtCheck"`
	ManualOverride    bool       `json:"manualOverride"`
	OverrideConfirmed bool       `json:"overrideConfirmed"`
}

type ServiceItemResponse struct {
	Code           string `json:"code"`
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}

type RepairConfigResponse struct {
	RepairType    string                `json:"repairType"`
	PaymentStatus string                `json:"paymentStatus"`
	ServiceItems  []ServiceItemResponse `json:"serviceItems"`
}

type CancellationResponse struct {
	State        string     `json:"state"`
	RequestCount int        `json:"requestCount"`
	RequestedAt  *time.Time `json:"requestedAt,omitempty"`
	Outcome      *string    `json:"outcome,omitempty"`
	ResolvedAt   *time.Time `json:"resolvedAt,omitempty"`
}

type ClaimResponse struct {
	ID            uuid.UUID             `json:"id"`
	ClaimNumber   string                `json:"claimNumber"`
	Status        string                `json:"status"`
	StatusLabel   string                `json:"statusLabel"`
	CancelState   string                `json:"cancelState"`
	VehicleID     uuid.UUID             `json:"vehicleId"`
	CustomerName  string                `json:"customerName"`
	CustomerPhone string                `json:"customerPhone"`
	CustomerEmail string                `json:"customerEmail"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
	Diagnostic    *DiagnosticResponse   `json:"diagnostic,omitempty"`
	Cost          *CostResponse         `json:"cost,omitempty"`
	Approval      *ApprovalResponse     `json:"approval,omitempty"`
	Assignment    *AssignmentResponse   `json:"assignment,omitempty"`
	Eligibility   *EligibilityResponse  `json:"eligibility,omitempty"`
	RepairConfig  *RepairConfigResponse `json:"repairConfig,omitempty"`
	Cancellation  *CancellationResponse `json:"cancellation,omitempty"`
}

type ClaimListResponse struct {
	Items      []ClaimResponse `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

type StatusHistoryResponse struct {
	StatusCode  string    `json:"statusCode"`
	StatusLabel string    `json:"statusLabel"`
	Note        *string   `json:"note,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type VehicleResponse struct {
	ID           uuid.UUID `json:"id"`
	VIN          string    `json:"vin"`
	Model        string    `json:"model"`
	RegisteredAt time.Time `json:"registeredAt"`
	MileageKm    int       `json:"mileageKm"`
}

// ReadinessResponse reports every unmet pre-submission requirement at once.
type ReadinessResponse struct {
	Ready   bool     `json:"ready"`
	Missing []string `json:"missing"`
}

// PublicTrackingResponse is the tokenized, unauthenticated view of a claim.
// It deliberately exposes no customer contact data or cost figures.
type PublicTrackingResponse struct {
	ClaimNumber string                  `json:"claimNumber"`
	Status      string                  `json:"status"`
	StatusLabel string                  `json:"statusLabel"`
	UpdatedAt   time.Time               `json:"updatedAt"`
	History     []StatusHistoryResponse `json:"history"`
}
