package repository

import (
	"time"

	"github.com/google/uuid"
)

// Work order status values.
const (
	StatusOpen      = "OPEN"
	StatusCompleted = "COMPLETED"
)

// Part source values.
const (
	SourceOEM        = "OEM"
	SourceThirdParty = "THIRD_PARTY"
)

// PartLine is one part consumed by a work order. The name and unit price are
// resolved from the parts catalog by SKU at completion time. Lines are
// stored as a JSON document on the order row.
type PartLine struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Source    string `json:"source"`
	Quantity  int    `json:"quantity"`
	UnitCents int64  `json:"unitCents"`
}

// WorkOrder is a unit of repair work booked against a claim.
type WorkOrder struct {
	ID           uuid.UUID
	ClaimID      uuid.UUID
	TechnicianID uuid.UUID
	Description  string
	Status       string
	LaborHours   float64
	Parts        []PartLine
	PartsCents   int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// Summary aggregates a claim's work orders for cost booking.
type Summary struct {
	Open       int
	Completed  int
	LaborHours float64
	PartsCents int64
}
