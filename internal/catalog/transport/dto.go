// Package transport defines the request and response shapes for the parts
// catalog API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreatePartRequest adds a spare part with its price.
type CreatePartRequest struct {
	SKU       string `json:"sku" validate:"required,min=3,max=64"`
	Name      string `json:"name" validate:"required,min=2,max=200"`
	Category  string `json:"category" validate:"required,min=2,max=100"`
	UnitCents int64  `json:"unitCents" validate:"required,min=0"`
}

// UpdatePartRequest changes part fields. Unset fields keep their value.
type UpdatePartRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=200"`
	Category  *string `json:"category" validate:"omitempty,min=2,max=100"`
	UnitCents *int64  `json:"unitCents" validate:"omitempty,min=0"`
}

// ListPartsQuery filters and paginates the part list.
type ListPartsQuery struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	IsActive  *bool  `form:"isActive"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

// PartResponse is the API shape of a catalog part.
type PartResponse struct {
	ID        uuid.UUID `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	UnitCents int64     `json:"unitCents"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PartListResponse wraps a paginated part list.
type PartListResponse struct {
	Items      []PartResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}
