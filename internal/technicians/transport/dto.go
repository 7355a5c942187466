// Package transport defines request and response shapes for technicians.
package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateTechnicianRequest struct {
	Name               string `json:"name" validate:"required,min=2,max=100"`
	Specialty          string `json:"specialty" validate:"required,min=2,max=100"`
	CertificationLevel int    `json:"certificationLevel" validate:"required,min=1,max=5"`
	MaxWorkload        int    `json:"maxWorkload" validate:"required,min=1,max=20"`
}

type UpdateTechnicianRequest struct {
	Name               *string `json:"name" validate:"omitempty,min=2,max=100"`
	Specialty          *string `json:"specialty" validate:"omitempty,min=2,max=100"`
	CertificationLevel *int    `json:"certificationLevel" validate:"omitempty,min=1,max=5"`
	Active             *bool   `json:"active"`
	MaxWorkload        *int    `json:"maxWorkload" validate:"omitempty,min=1,max=20"`
}

type TechnicianResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Specialty          string     `json:"specialty"`
	CertificationLevel int        `json:"certificationLevel"`
	Active             bool       `json:"active"`
	MaxWorkload        int        `json:"maxWorkload"`
	CurrentWorkload    int        `json:"currentWorkload"`
	AvgRepairHours     float64    `json:"avgRepairHours"`
	CompletedCount     int        `json:"completedCount"`
	AvailableFrom      *time.Time `json:"availableFrom,omitempty"`
	Status             string     `json:"status"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}
