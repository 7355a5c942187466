// Package service implements the parts catalog: spare part pricing that
// technicians reference when booking parts on work orders.
package service

import (
	"context"
	"regexp"
	"strings"

	"evwarranty_backend/internal/catalog/repository"
	"evwarranty_backend/internal/catalog/transport"
	"evwarranty_backend/platform/logger"

	"github.com/google/uuid"
)

// Service provides business logic for the parts catalog.
type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// CreatePart adds a part after normalizing its SKU.
func (s *Service) CreatePart(ctx context.Context, req transport.CreatePartRequest) (transport.PartResponse, error) {
	part, err := s.repo.Create(ctx, repository.CreatePartParams{
		SKU:       normalizeSKU(req.SKU),
		Name:      req.Name,
		Category:  req.Category,
		UnitCents: req.UnitCents,
	})
	if err != nil {
		return transport.PartResponse{}, err
	}

	s.log.Info("catalog part created", "part_id", part.ID, "sku", part.SKU)
	return toPartResponse(part), nil
}

// UpdatePart changes part fields.
func (s *Service) UpdatePart(ctx context.Context, id uuid.UUID, req transport.UpdatePartRequest) (transport.PartResponse, error) {
	part, err := s.repo.Update(ctx, repository.UpdatePartParams{
		ID:        id,
		Name:      req.Name,
		Category:  req.Category,
		UnitCents: req.UnitCents,
	})
	if err != nil {
		return transport.PartResponse{}, err
	}

	s.log.Info("catalog part updated", "part_id", part.ID)
	return toPartResponse(part), nil
}

// GetPart fetches one part by ID.
func (s *Service) GetPart(ctx context.Context, id uuid.UUID) (transport.PartResponse, error) {
	part, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.PartResponse{}, err
	}
	return toPartResponse(part), nil
}

// GetPartBySKU fetches one part by its normalized SKU.
func (s *Service) GetPartBySKU(ctx context.Context, sku string) (transport.PartResponse, error) {
	part, err := s.repo.GetBySKU(ctx, normalizeSKU(sku))
	if err != nil {
		return transport.PartResponse{}, err
	}
	return toPartResponse(part), nil
}

// TogglePartActive flips the part's availability.
func (s *Service) TogglePartActive(ctx context.Context, id uuid.UUID) (transport.PartResponse, error) {
	part, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.PartResponse{}, err
	}
	if err := s.repo.SetActive(ctx, id, !part.IsActive); err != nil {
		return transport.PartResponse{}, err
	}
	part, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.PartResponse{}, err
	}

	s.log.Info("catalog part active toggled", "part_id", id, "is_active", part.IsActive)
	return toPartResponse(part), nil
}

// ListParts returns parts matching the query with pagination defaults.
func (s *Service) ListParts(ctx context.Context, q transport.ListPartsQuery) (transport.PartListResponse, error) {
	page := q.Page
	pageSize := q.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	isActive := q.IsActive
	if isActive == nil {
		active := true
		isActive = &active
	}

	items, total, err := s.repo.List(ctx, repository.ListPartsParams{
		Search:    q.Search,
		Category:  q.Category,
		IsActive:  isActive,
		Offset:    (page - 1) * pageSize,
		Limit:     pageSize,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	})
	if err != nil {
		return transport.PartListResponse{}, err
	}

	responses := make([]transport.PartResponse, len(items))
	for i, item := range items {
		responses[i] = toPartResponse(item)
	}
	totalPages := (total + pageSize - 1) / pageSize
	return transport.PartListResponse{
		Items:      responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func toPartResponse(p repository.Part) transport.PartResponse {
	return transport.PartResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Category:  p.Category,
		UnitCents: p.UnitCents,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

var skuCleaner = regexp.MustCompile(`[^A-Z0-9-]+`)

// normalizeSKU uppercases the SKU and strips everything outside A-Z, 0-9
// and hyphens.
func normalizeSKU(sku string) string {
	normalized := strings.ToUpper(strings.TrimSpace(sku))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = skuCleaner.ReplaceAllString(normalized, "")
	return strings.Trim(normalized, "-")
}
