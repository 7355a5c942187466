package repository

import (
	"time"

	"github.com/google/uuid"
)

// ── Aggregate Models ──────────────────────────────────────────────────────────

// Claim is the aggregate root. Sub-records are owned by composition, created
// lazily, and never shared between claims; nil means not yet created.
// Cross-aggregate references (vehicle, technician, policy) are held by id.
type Claim struct {
	ID            uuid.UUID  `db:"id"`
	ClaimNumber   string     `db:"claim_number"`
	Status        string     `db:"status"`
	CancelState   string     `db:"cancel_state"`
	VehicleID     uuid.UUID  `db:"vehicle_id"`
	CustomerName  string     `db:"customer_name"`
	CustomerPhone string     `db:"customer_phone"`
	CustomerEmail string     `db:"customer_email"`
	TrackingToken string     `db:"tracking_token"`
	CreatedBy     uuid.UUID  `db:"created_by"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`

	Diagnostic   *Diagnostic
	Cost         *Cost
	Approval     *Approval
	Assignment   *Assignment
	Eligibility  *Eligibility
	RepairConfig *RepairConfig
	Cancellation *Cancellation
}

// Diagnostic holds the reported failure and the technician's findings.
type Diagnostic struct {
	ClaimID            uuid.UUID `db:"claim_id"`
	ReportedFailure    string    `db:"reported_failure"`
	InitialDiagnosis   *string   `db:"initial_diagnosis"`
	TechnicalDiagnosis *string   `db:"technical_diagnosis"`
	ProblemType        *string   `db:"problem_type"`
	ProblemDescription *string   `db:"problem_description"`
	TestResults        *string   `db:"test_results"`
	RepairNotes        *string   `db:"repair_notes"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// Cost holds the monetary figures for a claim, in cents.
// TotalEstimatedCents equals TotalServiceCents + TotalPartsCents when both
// are present.
type Cost struct {
	ClaimID             uuid.UUID `db:"claim_id"`
	WarrantyCostCents   int64     `db:"warranty_cost_cents"`
	CompanyPaidCents    int64     `db:"company_paid_cents"`
	TotalServiceCents   int64     `db:"total_service_cents"`
	TotalPartsCents     int64     `db:"total_parts_cents"`
	TotalEstimatedCents int64     `db:"total_estimated_cents"`
	LaborHours          float64   `db:"labor_hours"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// Approval tracks the EVM approval branch, including resubmission bookkeeping.
type Approval struct {
	ClaimID         uuid.UUID  `db:"claim_id"`
	ApprovedBy      *uuid.UUID `db:"approved_by"`
	RejectedBy      *uuid.UUID `db:"rejected_by"`
	ApprovedAt      *time.Time `db:"approved_at"`
	RejectedAt      *time.Time `db:"rejected_at"`
	RejectionReason *string    `db:"rejection_reason"`
	RejectionNotes  *string    `db:"rejection_notes"`
	ResubmitCount   int        `db:"resubmit_count"`
	RejectionCount  int        `db:"rejection_count"`
	CanResubmit     bool       `db:"can_resubmit"`
}

// Assignment records the technician working the repair.
type Assignment struct {
	ClaimID      uuid.UUID `db:"claim_id"`
	TechnicianID uuid.UUID `db:"technician_id"`
	AssignedAt   time.Time `db:"assigned_at"`
}

// Eligibility stores the latest automatic warranty check plus any manual
// override. MileageAtCheck is the vehicle mileage the auto check evaluated;
// the validator treats the check as stale once the vehicle has driven past it.
type Eligibility struct {
	ClaimID              uuid.UUID  `db:"claim_id"`
	Assessment           *string    `db:"assessment"`
	Eligible             bool       `db:"eligible"`
	AutoCheckResult      bool       `db:"auto_check_result"`
	AutoCheckReasons     []string   `db:"auto_check_reasons"`
	CheckedAt            *time.Time `db:"checked_at"`
	MileageAtCheck       int        `db:"mileage_at_check"`
	ManualOverride       bool       `db:"manual_override"`
	OverrideConfirmed    bool       `db:"override_confirmed"`
	OverrideConfirmedAt  *time.Time `db:"override_confirmed_at"`
	OverrideConfirmedBy  *uuid.UUID `db:"override_confirmed_by"`
	AppliedCoverageYears int        `db:"applied_coverage_years"`
	AppliedCoverageKm    int        `db:"applied_coverage_km"`
}

// ServiceItem is one serialized service-catalog line on a repair.
type ServiceItem struct {
	Code           string `json:"code"`
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}

// RepairConfig holds the repair funding path and service-catalog lines.
type RepairConfig struct {
	ClaimID       uuid.UUID     `db:"claim_id"`
	RepairType    string        `db:"repair_type"`
	PaymentStatus string        `db:"payment_status"`
	ServiceItems  []ServiceItem `db:"service_items"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// Cancellation tracks the cancellation sub-flow. RequestCount is a lifetime
// counter; PrevStatus remembers the main-flow status at request time so
// reopening is exact.
type Cancellation struct {
	ClaimID      uuid.UUID  `db:"claim_id"`
	State        string     `db:"state"`
	RequestCount int        `db:"request_count"`
	RequestedBy  *uuid.UUID `db:"requested_by"`
	RequestedAt  *time.Time `db:"requested_at"`
	PrevStatus   *string    `db:"prev_status"`
	Outcome      *string    `db:"outcome"`
	ResolvedBy   *uuid.UUID `db:"resolved_by"`
	ResolvedAt   *time.Time `db:"resolved_at"`
}

// StatusHistory is one append-only audit row per transition. Rows are never
// mutated or deleted.
type StatusHistory struct {
	ID          uuid.UUID `db:"id"`
	ClaimID     uuid.UUID `db:"claim_id"`
	StatusCode  string    `db:"status_code"`
	StatusLabel string    `db:"status_label"`
	ActorID     uuid.UUID `db:"actor_id"`
	Note        *string   `db:"note"`
	CreatedAt   time.Time `db:"created_at"`
}

// Vehicle is the cross-aggregate vehicle record claims reference by id.
type Vehicle struct {
	ID           uuid.UUID `db:"id"`
	VIN          string    `db:"vin"`
	Model        string    `db:"model"`
	RegisteredAt time.Time `db:"registered_at"`
	MileageKm    int       `db:"mileage_km"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// ListParams contains parameters for listing claims.
type ListParams struct {
	Status    *string
	VehicleID *uuid.UUID
	Search    string
	Page      int
	PageSize  int
}

// ListResult contains the paginated result of listing claims.
type ListResult struct {
	Items      []Claim
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}
